package weego

import (
	"fmt"
	"strconv"
	"unsafe"

	"github.com/obinnaokechukwu/weego/internal/cstring"
)

// Option types as WeeChat names them.
const (
	OptionTypeString  = "string"
	OptionTypeInteger = "integer"
	OptionTypeBoolean = "boolean"
	OptionTypeColor   = "color"
)

// ConfigOption is implemented by every typed option handle.
type ConfigOption interface {
	Name() string
	Type() string
	// String returns the current value as WeeChat displays it.
	String() string
	Set(value string, runCallback bool) OptionChange
	Reset(runCallback bool) OptionChange
	Pointer() unsafe.Pointer
	Closed() bool
	Close() error
}

// OptionInfo describes an option. Value defaults to Default when empty.
type OptionInfo struct {
	Name         string // required
	Description  string
	StringValues string // "a|b|c" turns an integer option into an enum
	Min, Max     int
	Default      string
	Value        string
	NullAllowed  bool
}

// OptionCallbacks are the optional callbacks of an option. O is the typed
// handle of the option the callback fires for. Check accepts or rejects a
// new value before it is set. Delete runs when WeeChat deletes the option,
// after which the handle is released.
type OptionCallbacks[P any, O ConfigOption] struct {
	Check  func(data *P, option O, value string) bool
	Change func(data *P, option O)
	Delete func(data *P, option O)
}

type option struct {
	handle
	section      *ConfigSection
	name         string
	typ          string
	stringValues string
}

// Name returns the option name.
func (o *option) Name() string { return o.name }

// Type returns the WeeChat type of the option.
func (o *option) Type() string { return o.typ }

// Section returns the section holding the option.
func (o *option) Section() *ConfigSection { return o.section }

// Set sets the value from its string form.
func (o *option) Set(value string, runCallback bool) OptionChange {
	if !o.alive() {
		return OptionNotFound
	}
	return OptionChange(o.w.host.ConfigOptionSet(o.ptr, cstr(value), boolInt(runCallback)))
}

// Reset restores the default value.
func (o *option) Reset(runCallback bool) OptionChange {
	if !o.alive() {
		return OptionNotFound
	}
	return OptionChange(o.w.host.ConfigOptionReset(o.ptr, boolInt(runCallback)))
}

// Close frees the option.
func (o *option) Close() error {
	o.close()
	return nil
}

func (o *option) hostString(get func(unsafe.Pointer) *byte) string {
	if !o.alive() {
		return ""
	}
	return cstring.GoString(get(o.ptr))
}

// StringOption is an option holding free text.
type StringOption struct{ option }

// Value returns the current value.
func (o *StringOption) Value() string { return o.hostString(o.w.host.ConfigString) }

func (o *StringOption) String() string { return o.Value() }

// IntegerOption is an option holding an integer, or an index into its
// string values.
type IntegerOption struct{ option }

// Value returns the current value.
func (o *IntegerOption) Value() int {
	if !o.alive() {
		return 0
	}
	return int(o.w.host.ConfigInteger(o.ptr))
}

func (o *IntegerOption) String() string {
	if o.stringValues != "" {
		return o.hostString(o.w.host.ConfigString)
	}
	return strconv.Itoa(o.Value())
}

// BooleanOption is an on/off option.
type BooleanOption struct{ option }

// Value returns the current value.
func (o *BooleanOption) Value() bool {
	if !o.alive() {
		return false
	}
	return o.w.host.ConfigBoolean(o.ptr) != 0
}

func (o *BooleanOption) String() string {
	if o.Value() {
		return "on"
	}
	return "off"
}

// ColorOption is an option holding a WeeChat color name.
type ColorOption struct{ option }

// Value returns the color name.
func (o *ColorOption) Value() string { return o.hostString(o.w.host.ConfigColor) }

func (o *ColorOption) String() string { return o.Value() }

type optionRecord[P any, O ConfigOption] struct {
	recordBase
	opt  O
	cbs  OptionCallbacks[P, O]
	data P
}

type optionDispatcher interface {
	check(value string) bool
	changed()
	deleted()
}

func (r *optionRecord[P, O]) check(value string) bool {
	if r.cbs.Check == nil {
		return true
	}
	return r.cbs.Check(&r.data, r.opt, value)
}

func (r *optionRecord[P, O]) changed() {
	if r.cbs.Change != nil {
		r.cbs.Change(&r.data, r.opt)
	}
}

func (r *optionRecord[P, O]) deleted() {
	if r.cbs.Delete != nil {
		r.cbs.Delete(&r.data, r.opt)
	}
}

func (r *optionRecord[P, O]) release() {
	closePayload(&r.data)
}

func dispatchOptionCheck(pointer, _ uintptr, _ unsafe.Pointer, value *byte) int32 {
	rec, ok := lookup[optionDispatcher](pointer, "option_check")
	if !ok {
		return 0
	}
	v := cstring.GoString(value)
	accepted := false
	rc := guard(pointer, "option_check", func() ReturnCode {
		accepted = rec.check(v)
		return OK
	})
	if rc != OK || !accepted {
		return 0
	}
	return 1
}

func dispatchOptionChange(pointer, _ uintptr, _ unsafe.Pointer) {
	rec, ok := lookup[optionDispatcher](pointer, "option_change")
	if !ok {
		return
	}
	guard(pointer, "option_change", func() ReturnCode {
		rec.changed()
		return OK
	})
}

// dispatchOptionDelete is both the delete callback and the release of the
// record: the option no longer exists once it returns.
func dispatchOptionDelete(pointer, _ uintptr, _ unsafe.Pointer) {
	if rec, ok := lookup[optionDispatcher](pointer, "option_delete"); ok {
		guard(pointer, "option_delete", func() ReturnCode {
			rec.deleted()
			return OK
		})
	}
	release(pointer)
}

func newOption[P any, O ConfigOption](s *ConfigSection, core *option, opt O, typ string, info OptionInfo, cbs OptionCallbacks[P, O], data P) error {
	if info.Name == "" {
		return missing("option name")
	}
	if s == nil || !s.alive() {
		return ErrClosed
	}
	if typ == OptionTypeInteger && info.StringValues == "" && info.Min > info.Max {
		return fmt.Errorf("%w: option %q has min %d above max %d", ErrInvalidArgument, info.Name, info.Min, info.Max)
	}

	core.section = s
	core.name = info.Name
	core.typ = typ
	core.stringValues = info.StringValues

	value := info.Value
	if value == "" {
		value = info.Default
	}
	spec := &OptionSpec{
		Name:         cstr(info.Name),
		Type:         cstr(typ),
		Description:  cstr(info.Description),
		StringValues: cstr(info.StringValues),
		Min:          int32(info.Min),
		Max:          int32(info.Max),
		Default:      cstr(info.Default),
		Value:        cstr(value),
		NullAllowed:  boolInt(info.NullAllowed),
	}

	rec := &optionRecord[P, O]{recordBase: recordBase{w: s.w, h: &core.handle}, opt: opt, cbs: cbs, data: data}
	err := register(s.w, rec, "config_new_option", info.Name, freeOption, func(token uintptr) unsafe.Pointer {
		check := Callback[OptionCheckFunc]{Pointer: token}
		if cbs.Check != nil {
			check.Func = dispatchOptionCheck
		}
		change := Callback[OptionChangeFunc]{Pointer: token}
		if cbs.Change != nil {
			change.Func = dispatchOptionChange
		}
		del := Callback[OptionDeleteFunc]{Func: dispatchOptionDelete, Pointer: token}
		return s.w.host.ConfigNewOption(s.config.ptr, s.ptr, spec, check, change, del)
	})
	if err != nil {
		return err
	}
	s.options = append(s.options, opt)
	return nil
}

func freeOption(host Host, p unsafe.Pointer) {
	host.ConfigOptionFree(p)
}

// NewStringOption adds a string option to s.
func NewStringOption[P any](s *ConfigSection, info OptionInfo, cbs OptionCallbacks[P, *StringOption], data P) (*StringOption, error) {
	o := &StringOption{}
	if err := newOption(s, &o.option, o, OptionTypeString, info, cbs, data); err != nil {
		return nil, err
	}
	return o, nil
}

// NewIntegerOption adds an integer option to s.
func NewIntegerOption[P any](s *ConfigSection, info OptionInfo, cbs OptionCallbacks[P, *IntegerOption], data P) (*IntegerOption, error) {
	o := &IntegerOption{}
	if err := newOption(s, &o.option, o, OptionTypeInteger, info, cbs, data); err != nil {
		return nil, err
	}
	return o, nil
}

// NewBooleanOption adds a boolean option to s.
func NewBooleanOption[P any](s *ConfigSection, info OptionInfo, cbs OptionCallbacks[P, *BooleanOption], data P) (*BooleanOption, error) {
	o := &BooleanOption{}
	if err := newOption(s, &o.option, o, OptionTypeBoolean, info, cbs, data); err != nil {
		return nil, err
	}
	return o, nil
}

// NewColorOption adds a color option to s.
func NewColorOption[P any](s *ConfigSection, info OptionInfo, cbs OptionCallbacks[P, *ColorOption], data P) (*ColorOption, error) {
	o := &ColorOption{}
	if err := newOption(s, &o.option, o, OptionTypeColor, info, cbs, data); err != nil {
		return nil, err
	}
	return o, nil
}
