package weego

import (
	"fmt"
	"unsafe"
)

// Config is a WeeChat configuration file (<name>.conf). Close frees the
// file together with its sections and options.
type Config struct {
	handle
	name     string
	sections []*ConfigSection
}

// ConfigError reports a failed read or write of a configuration file.
type ConfigError struct {
	Op   string // "config_read", "config_reload" or "config_write"
	Name string
	Code int32
}

func (e *ConfigError) Error() string {
	reason := "error"
	switch {
	case e.Op == "config_write" && e.Code == -2, e.Op != "config_write" && e.Code == -1:
		reason = "out of memory"
	case e.Op != "config_write" && e.Code == -2:
		reason = "file not found"
	}
	return fmt.Sprintf("weego: %s %q: %s (%d)", e.Op, e.Name, reason, e.Code)
}

type reloadRecord[P any] struct {
	recordBase
	cfg  *Config
	cb   func(data *P, cfg *Config) ReturnCode
	data P
}

type reloadDispatcher interface {
	reload() ReturnCode
}

func (r *reloadRecord[P]) reload() ReturnCode {
	return r.cb(&r.data, r.cfg)
}

func (r *reloadRecord[P]) release() {
	closePayload(&r.data)
}

func dispatchReload(pointer, _ uintptr, _ unsafe.Pointer) int32 {
	rec, ok := lookup[reloadDispatcher](pointer, "config_reload")
	if !ok {
		return int32(Error)
	}
	return int32(guard(pointer, "config_reload", rec.reload))
}

// ConfigNew creates a configuration file. reload runs on /reload and is
// expected to call cfg.Reload; with a nil reload WeeChat rereads the file
// itself.
func ConfigNew[P any](w Weechat, name string, reload func(data *P, cfg *Config) ReturnCode, data P) (*Config, error) {
	if name == "" {
		return nil, missing("config name")
	}

	cfg := &Config{name: name}
	rec := &reloadRecord[P]{recordBase: recordBase{w: w, h: &cfg.handle}, cfg: cfg, cb: reload, data: data}
	err := register(w, rec, "config_new", name, cfg.free, func(token uintptr) unsafe.Pointer {
		cb := Callback[ReloadFunc]{Pointer: token}
		if reload != nil {
			cb.Func = dispatchReload
		}
		return w.host.ConfigNew(cstr(name), cb)
	})
	if err != nil {
		return nil, err
	}
	return cfg, nil
}

// free closes the sections, newest first, before freeing the file.
func (c *Config) free(host Host, p unsafe.Pointer) {
	for i := len(c.sections) - 1; i >= 0; i-- {
		c.sections[i].close()
	}
	host.ConfigFree(p)
}

// Name returns the name of the configuration file.
func (c *Config) Name() string {
	return c.name
}

// Close frees the configuration file.
func (c *Config) Close() error {
	c.close()
	return nil
}

// Read reads the file from disk.
func (c *Config) Read() error {
	return c.result("config_read", c.w.host.ConfigRead)
}

// Reload rereads the file from disk, resetting options that are not in it.
func (c *Config) Reload() error {
	return c.result("config_reload", c.w.host.ConfigReload)
}

// Write writes the file to disk.
func (c *Config) Write() error {
	return c.result("config_write", c.w.host.ConfigWrite)
}

func (c *Config) result(op string, call func(unsafe.Pointer) int32) error {
	if !c.alive() {
		return ErrClosed
	}
	if rc := call(c.ptr); rc != 0 {
		return &ConfigError{Op: op, Name: c.name, Code: rc}
	}
	return nil
}

// SectionInfo describes a section for NewSection.
type SectionInfo struct {
	Name                 string // required
	UserCanAddOptions    bool
	UserCanDeleteOptions bool
}

// ConfigSection is a section of a configuration file.
type ConfigSection struct {
	handle
	config  *Config
	name    string
	options []ConfigOption
}

// NewSection adds a section to the file.
func (c *Config) NewSection(info SectionInfo) (*ConfigSection, error) {
	if info.Name == "" {
		return nil, missing("section name")
	}
	if !c.alive() {
		return nil, ErrClosed
	}

	ptr := c.w.host.ConfigNewSection(c.ptr, cstr(info.Name),
		boolInt(info.UserCanAddOptions), boolInt(info.UserCanDeleteOptions))
	if ptr == nil {
		Logger().Warn("registration refused", "op", "config_new_section", "name", info.Name)
		return nil, &HostError{Op: "config_new_section", Name: info.Name}
	}

	s := &ConfigSection{config: c, name: info.Name}
	track(c.w, &s.handle, ptr, s.free)
	c.sections = append(c.sections, s)
	return s, nil
}

// Section returns the live section called name.
func (c *Config) Section(name string) (*ConfigSection, bool) {
	for _, s := range c.sections {
		if s.name == name && s.alive() {
			return s, true
		}
	}
	return nil, false
}

// Sections returns the live sections in creation order.
func (c *Config) Sections() []*ConfigSection {
	var out []*ConfigSection
	for _, s := range c.sections {
		if s.alive() {
			out = append(out, s)
		}
	}
	return out
}

func (s *ConfigSection) free(host Host, p unsafe.Pointer) {
	for i := len(s.options) - 1; i >= 0; i-- {
		s.options[i].Close()
	}
	host.ConfigSectionFreeOptions(p)
	host.ConfigSectionFree(p)
}

// Name returns the section name.
func (s *ConfigSection) Name() string {
	return s.name
}

// Config returns the file the section belongs to.
func (s *ConfigSection) Config() *Config {
	return s.config
}

// Close frees the section and its options.
func (s *ConfigSection) Close() error {
	s.close()
	return nil
}

// Option returns the live option called name.
func (s *ConfigSection) Option(name string) (ConfigOption, bool) {
	for _, o := range s.options {
		if o.Name() == name && !o.Closed() {
			return o, true
		}
	}
	return nil, false
}

// Options returns the live options in creation order.
func (s *ConfigSection) Options() []ConfigOption {
	var out []ConfigOption
	for _, o := range s.options {
		if !o.Closed() {
			out = append(out, o)
		}
	}
	return out
}
