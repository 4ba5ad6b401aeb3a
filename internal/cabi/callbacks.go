//go:build !ios && !android && (amd64 || arm64)

package cabi

import (
	"reflect"
	"sync"
	"unsafe"

	"github.com/ebitengine/purego"

	"github.com/obinnaokechukwu/weego"
)

// purego never releases a callback and caps how many a process may create.
// Adapters are package-level functions, so each one is converted once and
// the C function pointer is shared by every registration that uses it.
var (
	callbackMu sync.Mutex
	callbacks  = make(map[callbackKey]uintptr)
)

type callbackKey struct {
	typ  reflect.Type
	code uintptr
}

// callback returns the C function pointer for fn, building the C-callable
// wrapper with wrap the first time fn is seen. A nil fn maps to NULL.
func callback(fn any, wrap func() any) uintptr {
	v := reflect.ValueOf(fn)
	if v.IsNil() {
		return 0
	}
	key := callbackKey{typ: v.Type(), code: v.Pointer()}

	callbackMu.Lock()
	defer callbackMu.Unlock()
	if p, ok := callbacks[key]; ok {
		return p
	}
	p := purego.NewCallback(wrap())
	callbacks[key] = p
	return p
}

// int (*)(const void *pointer, void *data, struct t_gui_buffer *buffer, int argc, char **argv, char **argv_eol)
func commandCallback(f weego.CommandFunc) uintptr {
	return callback(f, func() any {
		return func(_ purego.CDecl, pointer, data uintptr, buffer unsafe.Pointer, argc int32, argv, argvEOL **byte) int32 {
			return f(pointer, data, buffer, argc, argv, argvEOL)
		}
	})
}

// int (*)(const void *pointer, void *data, int remaining_calls)
func timerCallback(f weego.TimerFunc) uintptr {
	return callback(f, func() any {
		return func(_ purego.CDecl, pointer, data uintptr, remaining int32) int32 {
			return f(pointer, data, remaining)
		}
	})
}

// int (*)(const void *pointer, void *data, int fd)
func fdCallback(f weego.FdFunc) uintptr {
	return callback(f, func() any {
		return func(_ purego.CDecl, pointer, data uintptr, fd int32) int32 {
			return f(pointer, data, fd)
		}
	})
}

// int (*)(const void *pointer, void *data, const char *signal, const char *type_data, void *signal_data)
func signalCallback(f weego.SignalFunc) uintptr {
	return callback(f, func() any {
		return func(_ purego.CDecl, pointer, data uintptr, signal, typeData *byte, signalData unsafe.Pointer) int32 {
			return f(pointer, data, signal, typeData, signalData)
		}
	})
}

// int (*)(const void *pointer, void *data, const char *option, const char *value)
func configCallback(f weego.ConfigFunc) uintptr {
	return callback(f, func() any {
		return func(_ purego.CDecl, pointer, data uintptr, option, value *byte) int32 {
			return f(pointer, data, option, value)
		}
	})
}

// int (*)(const void *pointer, void *data, const char *completion_item, struct t_gui_buffer *buffer, struct t_gui_completion *completion)
func completionCallback(f weego.CompletionFunc) uintptr {
	return callback(f, func() any {
		return func(_ purego.CDecl, pointer, data uintptr, item *byte, buffer, completion unsafe.Pointer) int32 {
			return f(pointer, data, item, buffer, completion)
		}
	})
}

// int (*)(const void *pointer, void *data, struct t_gui_buffer *buffer, const char *input_data)
func inputCallback(f weego.InputFunc) uintptr {
	return callback(f, func() any {
		return func(_ purego.CDecl, pointer, data uintptr, buffer unsafe.Pointer, input *byte) int32 {
			return f(pointer, data, buffer, input)
		}
	})
}

// int (*)(const void *pointer, void *data, struct t_gui_buffer *buffer)
func closeCallback(f weego.CloseFunc) uintptr {
	return callback(f, func() any {
		return func(_ purego.CDecl, pointer, data uintptr, buffer unsafe.Pointer) int32 {
			return f(pointer, data, buffer)
		}
	})
}

// char *(*)(const void *pointer, void *data, struct t_gui_bar_item *item, struct t_gui_window *window, struct t_gui_buffer *buffer, struct t_hashtable *extra_info)
//
// The returned string is freed by WeeChat, so the adapter hands back memory
// from the host's strndup.
func barItemCallback(f weego.BarItemFunc) uintptr {
	return callback(f, func() any {
		return func(_ purego.CDecl, pointer, data uintptr, item, window, buffer, extraInfo unsafe.Pointer) uintptr {
			return uintptr(unsafe.Pointer(f(pointer, data, item, window, buffer, extraInfo)))
		}
	})
}

// int (*)(const void *pointer, void *data, struct t_config_file *config_file)
func reloadCallback(f weego.ReloadFunc) uintptr {
	return callback(f, func() any {
		return func(_ purego.CDecl, pointer, data uintptr, config unsafe.Pointer) int32 {
			return f(pointer, data, config)
		}
	})
}

// int (*)(const void *pointer, void *data, struct t_config_option *option, const char *value)
func optionCheckCallback(f weego.OptionCheckFunc) uintptr {
	return callback(f, func() any {
		return func(_ purego.CDecl, pointer, data uintptr, option unsafe.Pointer, value *byte) int32 {
			return f(pointer, data, option, value)
		}
	})
}

// void (*)(const void *pointer, void *data, struct t_config_option *option)
func optionChangeCallback(f weego.OptionChangeFunc) uintptr {
	return callback(f, func() any {
		return func(_ purego.CDecl, pointer, data uintptr, option unsafe.Pointer) {
			f(pointer, data, option)
		}
	})
}

func optionDeleteCallback(f weego.OptionDeleteFunc) uintptr {
	return callback(f, func() any {
		return func(_ purego.CDecl, pointer, data uintptr, option unsafe.Pointer) {
			f(pointer, data, option)
		}
	})
}
