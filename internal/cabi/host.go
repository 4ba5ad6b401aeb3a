//go:build !ios && !android && (amd64 || arm64)

// Package cabi implements weego.Host on top of a live WeeChat plugin
// function table.
//
// Entry points are read from struct t_weechat_plugin at the offsets the
// entry package computed against weechat-plugin.h and bound with purego.
// Calls purego cannot make (variadic printf, entry points with more
// arguments than it supports, libc free) go through C shim functions
// compiled into the entry package.
package cabi

import (
	"errors"
	"fmt"
	"runtime"
	"unsafe"

	"github.com/ebitengine/purego"

	"github.com/obinnaokechukwu/weego"
	"github.com/obinnaokechukwu/weego/internal/cstring"
	"github.com/obinnaokechukwu/weego/internal/platform"
)

// ErrNilPlugin is returned when New is handed a NULL plugin pointer.
var ErrNilPlugin = errors.New("weego: nil plugin pointer")

// Shim holds the addresses of the C helpers compiled into the entry package.
type Shim struct {
	// struct t_config_section *(struct t_weechat_plugin *, struct t_config_file *, const char *name, int add, int del)
	ConfigNewSection uintptr
	// struct t_config_option *(struct t_weechat_plugin *, struct t_config_file *, struct t_config_section *,
	//     const struct weego_option_spec *, check, check_pointer, change, change_pointer, delete, delete_pointer)
	ConfigNewOption uintptr
	// void (struct t_weechat_plugin *, struct t_gui_buffer *, time_t, const char *tags, const char *message)
	PrintDateTags uintptr
	// void (struct t_weechat_plugin *, const char *message)
	LogPrintf uintptr
	// void (void *)
	Free uintptr
}

func (s *Shim) validate() error {
	switch {
	case s.ConfigNewSection == 0:
		return errors.New("weego: shim is missing config_new_section")
	case s.ConfigNewOption == 0:
		return errors.New("weego: shim is missing config_new_option")
	case s.PrintDateTags == 0:
		return errors.New("weego: shim is missing printf_date_tags")
	case s.LogPrintf == 0:
		return errors.New("weego: shim is missing log_printf")
	case s.Free == 0:
		return errors.New("weego: shim is missing free")
	}
	return nil
}

// Host calls WeeChat through the function table of one loaded plugin.
type Host struct {
	plugin unsafe.Pointer

	strndup              func(s *byte, length int32) unsafe.Pointer
	stringEvalExpression func(expr *byte, pointers, extraVars, options unsafe.Pointer) unsafe.Pointer
	prefix               func(name *byte) unsafe.Pointer
	color                func(name *byte) unsafe.Pointer
	infoGet              func(plugin unsafe.Pointer, name, arguments *byte) unsafe.Pointer
	configGetPlugin      func(plugin unsafe.Pointer, option *byte) unsafe.Pointer
	configSetPlugin      func(plugin unsafe.Pointer, option, value *byte) int32

	hookCommand       func(plugin unsafe.Pointer, command, description, args, argsDescription, completion *byte, cb, pointer, data uintptr) unsafe.Pointer
	hookTimer         func(plugin unsafe.Pointer, interval int64, alignSecond, maxCalls int32, cb, pointer, data uintptr) unsafe.Pointer
	hookFd            func(plugin unsafe.Pointer, fd, read, write, exception int32, cb, pointer, data uintptr) unsafe.Pointer
	hookSignal        func(plugin unsafe.Pointer, signal *byte, cb, pointer, data uintptr) unsafe.Pointer
	hookSignalSend    func(signal, typeData *byte, signalData unsafe.Pointer) int32
	hookConfig        func(plugin unsafe.Pointer, option *byte, cb, pointer, data uintptr) unsafe.Pointer
	hookCompletion    func(plugin unsafe.Pointer, item, description *byte, cb, pointer, data uintptr) unsafe.Pointer
	completionListAdd func(completion unsafe.Pointer, word *byte, nickCompletion int32, where *byte)
	unhook            func(hook unsafe.Pointer)

	bufferNew        func(plugin unsafe.Pointer, name *byte, input, inputPointer, inputData, close, closePointer, closeData uintptr) unsafe.Pointer
	bufferSearch     func(plugin, name *byte) unsafe.Pointer
	bufferClose      func(buffer unsafe.Pointer)
	bufferGetInteger func(buffer unsafe.Pointer, property *byte) int32
	bufferGetString  func(buffer unsafe.Pointer, property *byte) unsafe.Pointer
	bufferSet        func(buffer unsafe.Pointer, property, value *byte)

	nicklistAddGroup      func(buffer, parent unsafe.Pointer, name, color *byte, visible int32) unsafe.Pointer
	nicklistAddNick       func(buffer, group unsafe.Pointer, name, color, prefix, prefixColor *byte, visible int32) unsafe.Pointer
	nicklistRemoveGroup   func(buffer, group unsafe.Pointer)
	nicklistRemoveNick    func(buffer, nick unsafe.Pointer)
	nicklistNickGetString func(buffer, nick unsafe.Pointer, property *byte) unsafe.Pointer

	barItemNew    func(plugin unsafe.Pointer, name *byte, cb, pointer, data uintptr) unsafe.Pointer
	barItemUpdate func(name *byte)
	barItemRemove func(item unsafe.Pointer)

	configNew                func(plugin unsafe.Pointer, name *byte, cb, pointer, data uintptr) unsafe.Pointer
	configOptionReset        func(option unsafe.Pointer, runCallback int32) int32
	configOptionSet          func(option unsafe.Pointer, value *byte, runCallback int32) int32
	configBoolean            func(option unsafe.Pointer) int32
	configInteger            func(option unsafe.Pointer) int32
	configString             func(option unsafe.Pointer) unsafe.Pointer
	configColor              func(option unsafe.Pointer) unsafe.Pointer
	configWrite              func(config unsafe.Pointer) int32
	configRead               func(config unsafe.Pointer) int32
	configReload             func(config unsafe.Pointer) int32
	configOptionFree         func(option unsafe.Pointer)
	configSectionFreeOptions func(section unsafe.Pointer)
	configSectionFree        func(section unsafe.Pointer)
	configFree               func(config unsafe.Pointer)

	infolistGet     func(plugin unsafe.Pointer, name *byte, pointer unsafe.Pointer, arguments *byte) unsafe.Pointer
	infolistNext    func(list unsafe.Pointer) int32
	infolistPrev    func(list unsafe.Pointer) int32
	infolistFields  func(list unsafe.Pointer) unsafe.Pointer
	infolistInteger func(list unsafe.Pointer, name *byte) int32
	infolistString  func(list unsafe.Pointer, name *byte) unsafe.Pointer
	infolistPointer func(list unsafe.Pointer, name *byte) unsafe.Pointer
	infolistTime    func(list unsafe.Pointer, name *byte) int64
	infolistFree    func(list unsafe.Pointer)

	shimConfigNewSection func(plugin, config unsafe.Pointer, name *byte, add, del int32) unsafe.Pointer
	shimConfigNewOption  func(plugin, config, section unsafe.Pointer, spec *weego.OptionSpec, check, checkPointer, change, changePointer, del, delPointer uintptr) unsafe.Pointer
	shimPrintDateTags    func(plugin, buffer unsafe.Pointer, date int64, tags, message *byte)
	shimLogPrintf        func(plugin unsafe.Pointer, message *byte)
	shimFree             func(p unsafe.Pointer)
}

var _ weego.Host = (*Host)(nil)

// New binds the function table of plugin. layout gives the offset of every
// Field in struct t_weechat_plugin; shim gives the C helpers.
func New(plugin unsafe.Pointer, layout *Layout, shim Shim) (*Host, error) {
	if err := platform.Check(); err != nil {
		return nil, err
	}
	if plugin == nil {
		return nil, ErrNilPlugin
	}
	if layout == nil {
		return nil, errors.New("weego: nil layout")
	}
	if err := layout.validate(); err != nil {
		return nil, err
	}
	if err := shim.validate(); err != nil {
		return nil, err
	}

	h := &Host{plugin: plugin}
	for _, b := range h.table() {
		fn := layout.entry(plugin, b.field)
		if fn == 0 {
			return nil, fmt.Errorf("weego: plugin table has no %s", b.field)
		}
		purego.RegisterFunc(b.fptr, fn)
	}
	purego.RegisterFunc(&h.shimConfigNewSection, shim.ConfigNewSection)
	purego.RegisterFunc(&h.shimConfigNewOption, shim.ConfigNewOption)
	purego.RegisterFunc(&h.shimPrintDateTags, shim.PrintDateTags)
	purego.RegisterFunc(&h.shimLogPrintf, shim.LogPrintf)
	purego.RegisterFunc(&h.shimFree, shim.Free)
	return h, nil
}

type binding struct {
	fptr  any
	field Field
}

func (h *Host) table() [NumFields]binding {
	return [NumFields]binding{
		FieldStrndup:                  {&h.strndup, FieldStrndup},
		FieldStringEvalExpression:     {&h.stringEvalExpression, FieldStringEvalExpression},
		FieldConfigNew:                {&h.configNew, FieldConfigNew},
		FieldConfigOptionReset:        {&h.configOptionReset, FieldConfigOptionReset},
		FieldConfigOptionSet:          {&h.configOptionSet, FieldConfigOptionSet},
		FieldConfigBoolean:            {&h.configBoolean, FieldConfigBoolean},
		FieldConfigInteger:            {&h.configInteger, FieldConfigInteger},
		FieldConfigString:             {&h.configString, FieldConfigString},
		FieldConfigColor:              {&h.configColor, FieldConfigColor},
		FieldConfigWrite:              {&h.configWrite, FieldConfigWrite},
		FieldConfigRead:               {&h.configRead, FieldConfigRead},
		FieldConfigReload:             {&h.configReload, FieldConfigReload},
		FieldConfigOptionFree:         {&h.configOptionFree, FieldConfigOptionFree},
		FieldConfigSectionFreeOptions: {&h.configSectionFreeOptions, FieldConfigSectionFreeOptions},
		FieldConfigSectionFree:        {&h.configSectionFree, FieldConfigSectionFree},
		FieldConfigFree:               {&h.configFree, FieldConfigFree},
		FieldConfigGetPlugin:          {&h.configGetPlugin, FieldConfigGetPlugin},
		FieldConfigSetPlugin:          {&h.configSetPlugin, FieldConfigSetPlugin},
		FieldPrefix:                   {&h.prefix, FieldPrefix},
		FieldColor:                    {&h.color, FieldColor},
		FieldHookCommand:              {&h.hookCommand, FieldHookCommand},
		FieldHookTimer:                {&h.hookTimer, FieldHookTimer},
		FieldHookFd:                   {&h.hookFd, FieldHookFd},
		FieldHookSignal:               {&h.hookSignal, FieldHookSignal},
		FieldHookSignalSend:           {&h.hookSignalSend, FieldHookSignalSend},
		FieldHookConfig:               {&h.hookConfig, FieldHookConfig},
		FieldHookCompletion:           {&h.hookCompletion, FieldHookCompletion},
		FieldCompletionListAdd:        {&h.completionListAdd, FieldCompletionListAdd},
		FieldUnhook:                   {&h.unhook, FieldUnhook},
		FieldBufferNew:                {&h.bufferNew, FieldBufferNew},
		FieldBufferSearch:             {&h.bufferSearch, FieldBufferSearch},
		FieldBufferClose:              {&h.bufferClose, FieldBufferClose},
		FieldBufferGetInteger:         {&h.bufferGetInteger, FieldBufferGetInteger},
		FieldBufferGetString:          {&h.bufferGetString, FieldBufferGetString},
		FieldBufferSet:                {&h.bufferSet, FieldBufferSet},
		FieldNicklistAddGroup:         {&h.nicklistAddGroup, FieldNicklistAddGroup},
		FieldNicklistAddNick:          {&h.nicklistAddNick, FieldNicklistAddNick},
		FieldNicklistRemoveGroup:      {&h.nicklistRemoveGroup, FieldNicklistRemoveGroup},
		FieldNicklistRemoveNick:       {&h.nicklistRemoveNick, FieldNicklistRemoveNick},
		FieldNicklistNickGetString:    {&h.nicklistNickGetString, FieldNicklistNickGetString},
		FieldBarItemNew:               {&h.barItemNew, FieldBarItemNew},
		FieldBarItemUpdate:            {&h.barItemUpdate, FieldBarItemUpdate},
		FieldBarItemRemove:            {&h.barItemRemove, FieldBarItemRemove},
		FieldInfoGet:                  {&h.infoGet, FieldInfoGet},
		FieldInfolistGet:              {&h.infolistGet, FieldInfolistGet},
		FieldInfolistNext:             {&h.infolistNext, FieldInfolistNext},
		FieldInfolistPrev:             {&h.infolistPrev, FieldInfolistPrev},
		FieldInfolistFields:           {&h.infolistFields, FieldInfolistFields},
		FieldInfolistInteger:          {&h.infolistInteger, FieldInfolistInteger},
		FieldInfolistString:           {&h.infolistString, FieldInfolistString},
		FieldInfolistPointer:          {&h.infolistPointer, FieldInfolistPointer},
		FieldInfolistTime:             {&h.infolistTime, FieldInfolistTime},
		FieldInfolistFree:             {&h.infolistFree, FieldInfolistFree},
	}
}

// Plugin returns the plugin pointer the table was read from.
func (h *Host) Plugin() unsafe.Pointer {
	return h.plugin
}

func str(p unsafe.Pointer) *byte {
	return (*byte)(p)
}

// owned copies a string WeeChat allocated for the caller into Go memory and
// frees the original.
func (h *Host) owned(p unsafe.Pointer) *byte {
	if p == nil {
		return nil
	}
	b := cstring.Bytes(str(p))
	out := make([]byte, len(b)+1)
	copy(out, b)
	h.shimFree(p)
	return &out[0]
}

func (h *Host) Strndup(s *byte, length int32) *byte {
	return str(h.strndup(s, length))
}

func (h *Host) Prefix(name *byte) *byte {
	return str(h.prefix(name))
}

func (h *Host) Color(name *byte) *byte {
	return str(h.color(name))
}

func (h *Host) PrintDateTags(buffer unsafe.Pointer, date int64, tags, message *byte) {
	h.shimPrintDateTags(h.plugin, buffer, date, tags, message)
}

func (h *Host) LogPrintf(message *byte) {
	h.shimLogPrintf(h.plugin, message)
}

// InfoGet returns a copy of the info; WeeChat allocates the result.
func (h *Host) InfoGet(name, arguments *byte) *byte {
	return h.owned(h.infoGet(h.plugin, name, arguments))
}

func (h *Host) ConfigGetPlugin(option *byte) *byte {
	return str(h.configGetPlugin(h.plugin, option))
}

func (h *Host) ConfigSetPlugin(option, value *byte) int32 {
	return h.configSetPlugin(h.plugin, option, value)
}

// StringEvalExpression evaluates expr without extra pointers, variables or
// options and returns a copy of the allocated result.
func (h *Host) StringEvalExpression(expr *byte) *byte {
	return h.owned(h.stringEvalExpression(expr, nil, nil, nil))
}

func (h *Host) HookCommand(command, description, args, argsDescription, completion *byte, cb weego.Callback[weego.CommandFunc]) unsafe.Pointer {
	return h.hookCommand(h.plugin, command, description, args, argsDescription, completion,
		commandCallback(cb.Func), cb.Pointer, cb.Data)
}

func (h *Host) HookTimer(interval int64, alignSecond, maxCalls int32, cb weego.Callback[weego.TimerFunc]) unsafe.Pointer {
	return h.hookTimer(h.plugin, interval, alignSecond, maxCalls, timerCallback(cb.Func), cb.Pointer, cb.Data)
}

func (h *Host) HookFd(fd, read, write, exception int32, cb weego.Callback[weego.FdFunc]) unsafe.Pointer {
	return h.hookFd(h.plugin, fd, read, write, exception, fdCallback(cb.Func), cb.Pointer, cb.Data)
}

func (h *Host) HookSignal(signal *byte, cb weego.Callback[weego.SignalFunc]) unsafe.Pointer {
	return h.hookSignal(h.plugin, signal, signalCallback(cb.Func), cb.Pointer, cb.Data)
}

func (h *Host) HookSignalSend(signal, typeData *byte, signalData unsafe.Pointer) int32 {
	return h.hookSignalSend(signal, typeData, signalData)
}

func (h *Host) HookConfig(option *byte, cb weego.Callback[weego.ConfigFunc]) unsafe.Pointer {
	return h.hookConfig(h.plugin, option, configCallback(cb.Func), cb.Pointer, cb.Data)
}

func (h *Host) HookCompletion(item, description *byte, cb weego.Callback[weego.CompletionFunc]) unsafe.Pointer {
	return h.hookCompletion(h.plugin, item, description, completionCallback(cb.Func), cb.Pointer, cb.Data)
}

func (h *Host) CompletionListAdd(completion unsafe.Pointer, word *byte, nickCompletion int32, where *byte) {
	h.completionListAdd(completion, word, nickCompletion, where)
}

func (h *Host) Unhook(hook unsafe.Pointer) {
	h.unhook(hook)
}

func (h *Host) BufferNew(name *byte, input weego.Callback[weego.InputFunc], close weego.Callback[weego.CloseFunc]) unsafe.Pointer {
	return h.bufferNew(h.plugin, name,
		inputCallback(input.Func), input.Pointer, input.Data,
		closeCallback(close.Func), close.Pointer, close.Data)
}

func (h *Host) BufferSearch(plugin, name *byte) unsafe.Pointer {
	return h.bufferSearch(plugin, name)
}

func (h *Host) BufferClose(buffer unsafe.Pointer) {
	h.bufferClose(buffer)
}

func (h *Host) BufferGetInteger(buffer unsafe.Pointer, property *byte) int32 {
	return h.bufferGetInteger(buffer, property)
}

func (h *Host) BufferGetString(buffer unsafe.Pointer, property *byte) *byte {
	return str(h.bufferGetString(buffer, property))
}

func (h *Host) BufferSet(buffer unsafe.Pointer, property, value *byte) {
	h.bufferSet(buffer, property, value)
}

func (h *Host) NicklistAddGroup(buffer, parent unsafe.Pointer, name, color *byte, visible int32) unsafe.Pointer {
	return h.nicklistAddGroup(buffer, parent, name, color, visible)
}

func (h *Host) NicklistAddNick(buffer, group unsafe.Pointer, name, color, prefix, prefixColor *byte, visible int32) unsafe.Pointer {
	return h.nicklistAddNick(buffer, group, name, color, prefix, prefixColor, visible)
}

func (h *Host) NicklistRemoveGroup(buffer, group unsafe.Pointer) {
	h.nicklistRemoveGroup(buffer, group)
}

func (h *Host) NicklistRemoveNick(buffer, nick unsafe.Pointer) {
	h.nicklistRemoveNick(buffer, nick)
}

func (h *Host) NicklistNickGetString(buffer, nick unsafe.Pointer, property *byte) *byte {
	return str(h.nicklistNickGetString(buffer, nick, property))
}

func (h *Host) BarItemNew(name *byte, cb weego.Callback[weego.BarItemFunc]) unsafe.Pointer {
	return h.barItemNew(h.plugin, name, barItemCallback(cb.Func), cb.Pointer, cb.Data)
}

func (h *Host) BarItemUpdate(name *byte) {
	h.barItemUpdate(name)
}

func (h *Host) BarItemRemove(item unsafe.Pointer) {
	h.barItemRemove(item)
}

func (h *Host) ConfigNew(name *byte, reload weego.Callback[weego.ReloadFunc]) unsafe.Pointer {
	return h.configNew(h.plugin, name, reloadCallback(reload.Func), reload.Pointer, reload.Data)
}

func (h *Host) ConfigNewSection(config unsafe.Pointer, name *byte, userCanAddOptions, userCanDeleteOptions int32) unsafe.Pointer {
	return h.shimConfigNewSection(h.plugin, config, name, userCanAddOptions, userCanDeleteOptions)
}

// ConfigNewOption passes spec by address; the strings it points to are
// pinned for the duration of the call.
func (h *Host) ConfigNewOption(config, section unsafe.Pointer, spec *weego.OptionSpec,
	check weego.Callback[weego.OptionCheckFunc], change weego.Callback[weego.OptionChangeFunc], del weego.Callback[weego.OptionDeleteFunc],
) unsafe.Pointer {
	var pin runtime.Pinner
	defer pin.Unpin()
	pin.Pin(spec)
	for _, s := range []*byte{spec.Name, spec.Type, spec.Description, spec.StringValues, spec.Default, spec.Value} {
		if s != nil {
			pin.Pin(s)
		}
	}
	return h.shimConfigNewOption(h.plugin, config, section, spec,
		optionCheckCallback(check.Func), check.Pointer,
		optionChangeCallback(change.Func), change.Pointer,
		optionDeleteCallback(del.Func), del.Pointer)
}

func (h *Host) ConfigOptionReset(option unsafe.Pointer, runCallback int32) int32 {
	return h.configOptionReset(option, runCallback)
}

func (h *Host) ConfigOptionSet(option unsafe.Pointer, value *byte, runCallback int32) int32 {
	return h.configOptionSet(option, value, runCallback)
}

func (h *Host) ConfigString(option unsafe.Pointer) *byte {
	return str(h.configString(option))
}

func (h *Host) ConfigInteger(option unsafe.Pointer) int32 {
	return h.configInteger(option)
}

func (h *Host) ConfigBoolean(option unsafe.Pointer) int32 {
	return h.configBoolean(option)
}

func (h *Host) ConfigColor(option unsafe.Pointer) *byte {
	return str(h.configColor(option))
}

func (h *Host) ConfigRead(config unsafe.Pointer) int32 {
	return h.configRead(config)
}

func (h *Host) ConfigReload(config unsafe.Pointer) int32 {
	return h.configReload(config)
}

func (h *Host) ConfigWrite(config unsafe.Pointer) int32 {
	return h.configWrite(config)
}

func (h *Host) ConfigOptionFree(option unsafe.Pointer) {
	h.configOptionFree(option)
}

func (h *Host) ConfigSectionFreeOptions(section unsafe.Pointer) {
	h.configSectionFreeOptions(section)
}

func (h *Host) ConfigSectionFree(section unsafe.Pointer) {
	h.configSectionFree(section)
}

func (h *Host) ConfigFree(config unsafe.Pointer) {
	h.configFree(config)
}

func (h *Host) InfolistGet(name *byte, pointer unsafe.Pointer, arguments *byte) unsafe.Pointer {
	return h.infolistGet(h.plugin, name, pointer, arguments)
}

func (h *Host) InfolistNext(list unsafe.Pointer) int32 {
	return h.infolistNext(list)
}

func (h *Host) InfolistPrev(list unsafe.Pointer) int32 {
	return h.infolistPrev(list)
}

func (h *Host) InfolistFields(list unsafe.Pointer) *byte {
	return str(h.infolistFields(list))
}

func (h *Host) InfolistInteger(list unsafe.Pointer, name *byte) int32 {
	return h.infolistInteger(list, name)
}

func (h *Host) InfolistString(list unsafe.Pointer, name *byte) *byte {
	return str(h.infolistString(list, name))
}

func (h *Host) InfolistPointer(list unsafe.Pointer, name *byte) unsafe.Pointer {
	return h.infolistPointer(list, name)
}

func (h *Host) InfolistTime(list unsafe.Pointer, name *byte) int64 {
	return h.infolistTime(list, name)
}

func (h *Host) InfolistFree(list unsafe.Pointer) {
	h.infolistFree(list)
}
