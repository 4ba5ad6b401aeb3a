package weegotest

import (
	"slices"
	"strconv"
	"strings"
	"unsafe"

	"github.com/obinnaokechukwu/weego"
)

func (h *Host) ConfigNew(name *byte, reload weego.Callback[weego.ReloadFunc]) unsafe.Pointer {
	n := gostr(name)
	if _, dup := h.Find(KindConfig, n); dup {
		return nil
	}
	return h.add("config_new", &object{kind: KindConfig, name: n, reload: reload})
}

func (h *Host) ConfigNewSection(config unsafe.Pointer, name *byte, _, _ int32) unsafe.Pointer {
	if h.get(config, KindConfig) == nil {
		return nil
	}
	n := gostr(name)
	for _, p := range h.children(config, KindSection) {
		if h.get(p, KindSection).name == n {
			return nil
		}
	}
	return h.add("config_new_section", &object{kind: KindSection, name: n, parent: config})
}

func (h *Host) ConfigNewOption(config, section unsafe.Pointer, spec *weego.OptionSpec,
	check weego.Callback[weego.OptionCheckFunc],
	change weego.Callback[weego.OptionChangeFunc],
	del weego.Callback[weego.OptionDeleteFunc],
) unsafe.Pointer {
	s := h.get(section, KindSection)
	if s == nil || s.parent != config {
		return nil
	}
	o := &object{
		kind:    KindOption,
		name:    gostr(spec.Name),
		parent:  section,
		optType: gostr(spec.Type),
		min:     int(spec.Min),
		max:     int(spec.Max),
		check:   check,
		change:  change,
		del:     del,
	}
	if v := gostr(spec.StringValues); v != "" {
		o.stringValues = strings.Split(v, "|")
	}
	for _, p := range h.children(section, KindOption) {
		if h.get(p, KindOption).name == o.name {
			return nil
		}
	}

	def, ok := o.normalize(gostr(spec.Default))
	if !ok {
		return nil
	}
	value, ok := o.normalize(gostr(spec.Value))
	if !ok {
		return nil
	}
	o.def, o.value = def, value
	return h.add("config_new_option", o)
}

// normalize returns value in canonical form for the option type.
func (o *object) normalize(value string) (string, bool) {
	switch o.optType {
	case weego.OptionTypeString, weego.OptionTypeColor:
		return value, true
	case weego.OptionTypeBoolean:
		switch strings.ToLower(value) {
		case "on", "yes", "y", "true", "t", "1":
			return "on", true
		case "off", "no", "n", "false", "f", "0":
			return "off", true
		case "toggle":
			if o.value == "on" {
				return "off", true
			}
			return "on", true
		}
		return "", false
	case weego.OptionTypeInteger:
		if o.stringValues != nil {
			return value, slices.Contains(o.stringValues, value)
		}
		n, err := strconv.Atoi(value)
		if err != nil || n < o.min || n > o.max {
			return "", false
		}
		return strconv.Itoa(n), true
	}
	return "", false
}

func (h *Host) ConfigOptionSet(option unsafe.Pointer, value *byte, runCallback int32) int32 {
	return h.setOption(option, gostr(value), runCallback != 0, true)
}

func (h *Host) ConfigOptionReset(option unsafe.Pointer, runCallback int32) int32 {
	o := h.get(option, KindOption)
	if o == nil {
		return int32(weego.OptionNotFound)
	}
	return h.setOption(option, o.def, runCallback != 0, false)
}

func (h *Host) setOption(p unsafe.Pointer, raw string, runCallback, runCheck bool) int32 {
	o := h.get(p, KindOption)
	if o == nil {
		return int32(weego.OptionNotFound)
	}
	h.mu.Lock()
	v, ok := o.normalize(raw)
	h.mu.Unlock()
	if !ok {
		return int32(weego.OptionSetError)
	}
	if runCheck && o.check.Func != nil && o.check.Func(o.check.Pointer, o.check.Data, p, cstr(raw)) == 0 {
		return int32(weego.OptionSetError)
	}

	h.mu.Lock()
	if o.value == v {
		h.mu.Unlock()
		return int32(weego.OptionSameValue)
	}
	o.value = v
	h.mu.Unlock()

	if runCallback && o.change.Func != nil {
		o.change.Func(o.change.Pointer, o.change.Data, p)
	}
	return int32(weego.OptionChanged)
}

// SetOption sets option the way /set does, running its callbacks.
func (h *Host) SetOption(option unsafe.Pointer, value string) weego.OptionChange {
	return weego.OptionChange(h.setOption(option, value, true, true))
}

func (h *Host) optionValue(p unsafe.Pointer) (*object, string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	o := h.objects[p]
	if o == nil || o.kind != KindOption {
		return nil, ""
	}
	return o, o.value
}

func (h *Host) ConfigString(option unsafe.Pointer) *byte {
	o, v := h.optionValue(option)
	if o == nil {
		return nil
	}
	return cstr(v)
}

func (h *Host) ConfigInteger(option unsafe.Pointer) int32 {
	o, v := h.optionValue(option)
	if o == nil {
		return 0
	}
	if o.stringValues != nil {
		return int32(slices.Index(o.stringValues, v))
	}
	n, _ := strconv.Atoi(v)
	return int32(n)
}

func (h *Host) ConfigBoolean(option unsafe.Pointer) int32 {
	if _, v := h.optionValue(option); v == "on" {
		return 1
	}
	return 0
}

func (h *Host) ConfigColor(option unsafe.Pointer) *byte {
	return h.ConfigString(option)
}

func (h *Host) configResult(op string) int32 {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.configResults[op]
}

func (h *Host) ConfigRead(config unsafe.Pointer) int32 {
	return h.configResult("config_read")
}

func (h *Host) ConfigReload(config unsafe.Pointer) int32 {
	return h.configResult("config_reload")
}

func (h *Host) ConfigWrite(config unsafe.Pointer) int32 {
	return h.configResult("config_write")
}

// ReloadConfig runs /reload for the file name. Without a reload callback
// the file is reread directly.
func (h *Host) ReloadConfig(name string) (weego.ReturnCode, bool) {
	p, ok := h.Find(KindConfig, name)
	if !ok {
		return weego.Error, false
	}
	o := h.get(p, KindConfig)
	if o.reload.Func == nil {
		if h.ConfigReload(p) != 0 {
			return weego.Error, true
		}
		return weego.OK, true
	}
	return weego.ReturnCode(o.reload.Func(o.reload.Pointer, o.reload.Data, p)), true
}

func (h *Host) ConfigOptionFree(option unsafe.Pointer) {
	h.freeOption(option, true)
}

// DeleteOption deletes option the way /unset on a user-deletable section
// does.
func (h *Host) DeleteOption(option unsafe.Pointer) bool {
	return h.freeOption(option, false)
}

func (h *Host) freeOption(p unsafe.Pointer, unregister bool) bool {
	o := h.get(p, KindOption)
	if o != nil && o.del.Func != nil {
		o.del.Func(o.del.Pointer, o.del.Data, p)
	}
	return h.remove(p, unregister, "config_option_free") != nil
}

func (h *Host) ConfigSectionFreeOptions(section unsafe.Pointer) {
	for _, p := range h.children(section, KindOption) {
		h.freeOption(p, false)
	}
}

func (h *Host) ConfigSectionFree(section unsafe.Pointer) {
	h.ConfigSectionFreeOptions(section)
	h.remove(section, true, "config_section_free")
}

func (h *Host) ConfigFree(config unsafe.Pointer) {
	for _, s := range h.children(config, KindSection) {
		h.ConfigSectionFreeOptions(s)
		h.remove(s, false, "config_section_free")
	}
	h.remove(config, true, "config_free")
}

// OptionValue returns the current value of option in string form.
func (h *Host) OptionValue(option unsafe.Pointer) (string, bool) {
	o, v := h.optionValue(option)
	return v, o != nil
}
