package weego

import "unsafe"

// Callback is a C callback triple as WeeChat stores it: the function, the
// `const void *pointer` slot and the `void *data` slot.
//
// Pointer carries the registry token of the callback record. Data is always
// zero: WeeChat calls free() on a non-NULL data pointer when the hook goes
// away, and nothing in Go memory may be handed to free().
type Callback[F any] struct {
	Func    F
	Pointer uintptr
	Data    uintptr
}

// Raw callback prototypes. Each mirrors the C signature WeeChat calls, with
// the (pointer, data) pair first.
type (
	CommandFunc      func(pointer, data uintptr, buffer unsafe.Pointer, argc int32, argv, argvEOL **byte) int32
	TimerFunc        func(pointer, data uintptr, remainingCalls int32) int32
	FdFunc           func(pointer, data uintptr, fd int32) int32
	SignalFunc       func(pointer, data uintptr, signal, typeData *byte, signalData unsafe.Pointer) int32
	ConfigFunc       func(pointer, data uintptr, option, value *byte) int32
	CompletionFunc   func(pointer, data uintptr, item *byte, buffer, completion unsafe.Pointer) int32
	InputFunc        func(pointer, data uintptr, buffer unsafe.Pointer, input *byte) int32
	CloseFunc        func(pointer, data uintptr, buffer unsafe.Pointer) int32
	BarItemFunc      func(pointer, data uintptr, item, window, buffer, extraInfo unsafe.Pointer) *byte
	ReloadFunc       func(pointer, data uintptr, config unsafe.Pointer) int32
	OptionCheckFunc  func(pointer, data uintptr, option unsafe.Pointer, value *byte) int32
	OptionChangeFunc func(pointer, data uintptr, option unsafe.Pointer)
	OptionDeleteFunc func(pointer, data uintptr, option unsafe.Pointer)
)

// OptionSpec describes a config option in host form.
type OptionSpec struct {
	Name         *byte
	Type         *byte
	Description  *byte
	StringValues *byte
	Min, Max     int32
	Default      *byte
	Value        *byte
	NullAllowed  int32
}

// Host is the part of the WeeChat plugin function table this package calls
// through. Strings are NUL-terminated, host objects are opaque pointers and
// registration calls return NULL on failure. Methods that take the plugin
// pointer in C receive it implicitly.
//
// The production implementation lives in internal/cabi; weegotest provides
// an in-process one.
type Host interface {
	Strndup(s *byte, length int32) *byte
	Prefix(name *byte) *byte
	Color(name *byte) *byte
	PrintDateTags(buffer unsafe.Pointer, date int64, tags, message *byte)
	LogPrintf(message *byte)
	InfoGet(name, arguments *byte) *byte
	ConfigGetPlugin(option *byte) *byte
	ConfigSetPlugin(option, value *byte) int32
	StringEvalExpression(expr *byte) *byte

	HookCommand(command, description, args, argsDescription, completion *byte, cb Callback[CommandFunc]) unsafe.Pointer
	HookTimer(interval int64, alignSecond, maxCalls int32, cb Callback[TimerFunc]) unsafe.Pointer
	HookFd(fd, read, write, exception int32, cb Callback[FdFunc]) unsafe.Pointer
	HookSignal(signal *byte, cb Callback[SignalFunc]) unsafe.Pointer
	HookSignalSend(signal, typeData *byte, signalData unsafe.Pointer) int32
	HookConfig(option *byte, cb Callback[ConfigFunc]) unsafe.Pointer
	HookCompletion(item, description *byte, cb Callback[CompletionFunc]) unsafe.Pointer
	CompletionListAdd(completion unsafe.Pointer, word *byte, nickCompletion int32, where *byte)
	Unhook(hook unsafe.Pointer)

	BufferNew(name *byte, input Callback[InputFunc], close Callback[CloseFunc]) unsafe.Pointer
	BufferSearch(plugin, name *byte) unsafe.Pointer
	BufferClose(buffer unsafe.Pointer)
	BufferGetInteger(buffer unsafe.Pointer, property *byte) int32
	BufferGetString(buffer unsafe.Pointer, property *byte) *byte
	BufferSet(buffer unsafe.Pointer, property, value *byte)

	NicklistAddGroup(buffer, parent unsafe.Pointer, name, color *byte, visible int32) unsafe.Pointer
	NicklistAddNick(buffer, group unsafe.Pointer, name, color, prefix, prefixColor *byte, visible int32) unsafe.Pointer
	NicklistRemoveGroup(buffer, group unsafe.Pointer)
	NicklistRemoveNick(buffer, nick unsafe.Pointer)
	NicklistNickGetString(buffer, nick unsafe.Pointer, property *byte) *byte

	BarItemNew(name *byte, cb Callback[BarItemFunc]) unsafe.Pointer
	BarItemUpdate(name *byte)
	BarItemRemove(item unsafe.Pointer)

	ConfigNew(name *byte, reload Callback[ReloadFunc]) unsafe.Pointer
	ConfigNewSection(config unsafe.Pointer, name *byte, userCanAddOptions, userCanDeleteOptions int32) unsafe.Pointer
	ConfigNewOption(config, section unsafe.Pointer, spec *OptionSpec, check Callback[OptionCheckFunc], change Callback[OptionChangeFunc], del Callback[OptionDeleteFunc]) unsafe.Pointer
	ConfigOptionReset(option unsafe.Pointer, runCallback int32) int32
	ConfigOptionSet(option unsafe.Pointer, value *byte, runCallback int32) int32
	ConfigString(option unsafe.Pointer) *byte
	ConfigInteger(option unsafe.Pointer) int32
	ConfigBoolean(option unsafe.Pointer) int32
	ConfigColor(option unsafe.Pointer) *byte
	ConfigRead(config unsafe.Pointer) int32
	ConfigReload(config unsafe.Pointer) int32
	ConfigWrite(config unsafe.Pointer) int32
	ConfigOptionFree(option unsafe.Pointer)
	ConfigSectionFreeOptions(section unsafe.Pointer)
	ConfigSectionFree(section unsafe.Pointer)
	ConfigFree(config unsafe.Pointer)

	InfolistGet(name *byte, pointer unsafe.Pointer, arguments *byte) unsafe.Pointer
	InfolistNext(list unsafe.Pointer) int32
	InfolistPrev(list unsafe.Pointer) int32
	InfolistFields(list unsafe.Pointer) *byte
	InfolistInteger(list unsafe.Pointer, name *byte) int32
	InfolistString(list unsafe.Pointer, name *byte) *byte
	InfolistPointer(list unsafe.Pointer, name *byte) unsafe.Pointer
	InfolistTime(list unsafe.Pointer, name *byte) int64
	InfolistFree(list unsafe.Pointer)
}
