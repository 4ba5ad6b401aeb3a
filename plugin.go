package weego

import (
	"fmt"
	"io"
	"log/slog"
	"sync"
)

// InitFunc sets the plugin up when WeeChat loads it. The returned value is
// kept until unload; if it implements io.Closer it is closed before the
// remaining live handles. A non-nil error aborts the load.
type InitFunc func(w Weechat, args Args) (any, error)

type instance struct {
	w     Weechat
	value any
}

// The process-wide plugin slot. WeeChat only calls the fixed-name entry
// points, so this is where the loaded plugin lives between them.
var plugin struct {
	mu      sync.Mutex
	init    InitFunc
	loading bool
	loaded  *instance
}

// Register sets the function Load runs. Call it from an init function of
// the plugin's main package. A later call replaces the earlier one.
func Register(init InitFunc) {
	plugin.mu.Lock()
	defer plugin.mu.Unlock()
	plugin.init = init
}

// Loaded returns the context of the loaded plugin.
func Loaded() (Weechat, bool) {
	plugin.mu.Lock()
	defer plugin.mu.Unlock()
	if plugin.loaded == nil {
		return Weechat{}, false
	}
	return plugin.loaded.w, true
}

// Load builds the context for host, installs the weechat.log logger and
// runs the registered InitFunc. Handles created by a failing init are
// closed before Load returns Error.
func Load(host Host, args []string) ReturnCode {
	plugin.mu.Lock()
	if plugin.loaded != nil || plugin.loading {
		plugin.mu.Unlock()
		Logger().Error("load refused", "error", ErrAlreadyLoaded)
		return Error
	}
	init := plugin.init
	if init == nil {
		plugin.mu.Unlock()
		Logger().Error("load refused", "error", ErrNoInit)
		return Error
	}
	plugin.loading = true
	plugin.mu.Unlock()

	w := New(host)
	SetLogger(slog.New(NewLogHandler(w, LogOptionsFromEnv())))

	value, err := runInit(init, w, NewArgs(args...))
	if err != nil {
		Logger().Error("plugin init failed", "error", err)
		w.CloseAll()
		SetLogger(nil)
	}

	plugin.mu.Lock()
	plugin.loading = false
	if err == nil {
		plugin.loaded = &instance{w: w, value: value}
	}
	plugin.mu.Unlock()

	if err != nil {
		return Error
	}
	return OK
}

func runInit(init InitFunc, w Weechat, args Args) (value any, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("weego: init panicked: %v", r)
		}
	}()
	return init(w, args)
}

// Unload drops the loaded plugin: its value is closed, then every handle
// still live is closed, most recent first.
func Unload() ReturnCode {
	plugin.mu.Lock()
	inst := plugin.loaded
	plugin.loaded = nil
	plugin.mu.Unlock()

	if inst == nil {
		Logger().Error("unload refused", "error", ErrNotLoaded)
		return Error
	}

	if c, ok := inst.value.(io.Closer); ok {
		closePayload(&c)
	}
	inst.w.CloseAll()
	SetLogger(nil)
	return OK
}
