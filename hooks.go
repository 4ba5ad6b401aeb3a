package weego

import (
	"fmt"
	"strconv"
	"time"
	"unsafe"

	"github.com/obinnaokechukwu/weego/internal/cstring"
)

// Hook is a live WeeChat hook. Close unhooks it; closing twice is a no-op.
//
//	hook, err := weego.HookTimer(w, weego.TimerInfo{Interval: time.Second}, tick, state)
//	if err != nil {
//		return err
//	}
//	defer hook.Close()
type Hook struct {
	handle
}

// Close unhooks the hook and releases its payload.
func (h *Hook) Close() error {
	h.close()
	return nil
}

// CommandInfo describes a command for HookCommand.
type CommandInfo struct {
	Name            string // required
	Description     string
	Args            string
	ArgsDescription string
	Completion      string
}

type commandRecord[P any] struct {
	recordBase
	cb   func(data *P, buf Buffer, args Args) ReturnCode
	data P
}

type commandDispatcher interface {
	command(buf unsafe.Pointer, args Args) ReturnCode
}

func (r *commandRecord[P]) command(buf unsafe.Pointer, args Args) ReturnCode {
	return r.cb(&r.data, Buffer{w: r.w, ptr: buf}, args)
}

func (r *commandRecord[P]) release() {
	closePayload(&r.data)
}

func dispatchCommand(pointer, _ uintptr, buffer unsafe.Pointer, argc int32, argv, argvEOL **byte) int32 {
	rec, ok := lookup[commandDispatcher](pointer, "command")
	if !ok {
		return int32(Error)
	}
	args := newArgs(argc, argv, argvEOL)
	return int32(guard(pointer, "command", func() ReturnCode {
		return rec.command(buffer, args)
	}))
}

// HookCommand registers a new WeeChat command. data is owned by the hook
// from now on; if it implements io.Closer it is closed when the hook is
// released, including when registration fails.
func HookCommand[P any](w Weechat, info CommandInfo, cb func(data *P, buf Buffer, args Args) ReturnCode, data P) (*Hook, error) {
	if info.Name == "" {
		return nil, missing("command name")
	}
	if cb == nil {
		return nil, missing("command callback")
	}

	hook := &Hook{}
	rec := &commandRecord[P]{recordBase: recordBase{w: w, h: &hook.handle}, cb: cb, data: data}
	err := register(w, rec, "hook_command", info.Name, unhook, func(token uintptr) unsafe.Pointer {
		return w.host.HookCommand(
			cstr(info.Name),
			cstr(info.Description),
			cstr(info.Args),
			cstr(info.ArgsDescription),
			cstr(info.Completion),
			Callback[CommandFunc]{Func: dispatchCommand, Pointer: token},
		)
	})
	if err != nil {
		return nil, err
	}
	return hook, nil
}

// TimerInfo describes a timer for HookTimer.
type TimerInfo struct {
	Interval    time.Duration // at least one millisecond
	AlignSecond int           // align on this many seconds, 0 for none
	MaxCalls    int           // 0 for an endless timer
}

type timerRecord[P any] struct {
	recordBase
	cb   func(data *P, remaining int) ReturnCode
	data P
}

type timerDispatcher interface {
	timer(remaining int) ReturnCode
}

func (r *timerRecord[P]) timer(remaining int) ReturnCode {
	return r.cb(&r.data, remaining)
}

func (r *timerRecord[P]) release() {
	closePayload(&r.data)
}

// dispatchTimer runs the callback. When remainingCalls reaches zero
// WeeChat removes the hook by itself right after this returns, so the
// record is released here and the handle no longer unhooks.
func dispatchTimer(pointer, _ uintptr, remainingCalls int32) int32 {
	rec, ok := lookup[timerDispatcher](pointer, "timer")
	if !ok {
		return int32(Error)
	}
	rc := guard(pointer, "timer", func() ReturnCode {
		return rec.timer(int(remainingCalls))
	})
	if remainingCalls == 0 {
		release(pointer)
	}
	return int32(rc)
}

// HookTimer registers a timer. The callback receives the number of calls
// left, or -1 for an endless timer. A timer with MaxCalls releases itself
// after its last call.
func HookTimer[P any](w Weechat, info TimerInfo, cb func(data *P, remaining int) ReturnCode, data P) (*Hook, error) {
	if info.Interval.Milliseconds() <= 0 {
		return nil, fmt.Errorf("%w: timer interval %v is below one millisecond", ErrInvalidArgument, info.Interval)
	}
	if info.MaxCalls < 0 {
		return nil, fmt.Errorf("%w: negative timer max calls", ErrInvalidArgument)
	}
	if cb == nil {
		return nil, missing("timer callback")
	}

	hook := &Hook{}
	rec := &timerRecord[P]{recordBase: recordBase{w: w, h: &hook.handle}, cb: cb, data: data}
	err := register(w, rec, "hook_timer", "", unhook, func(token uintptr) unsafe.Pointer {
		return w.host.HookTimer(
			info.Interval.Milliseconds(),
			int32(info.AlignSecond),
			int32(info.MaxCalls),
			Callback[TimerFunc]{Func: dispatchTimer, Pointer: token},
		)
	})
	if err != nil {
		return nil, err
	}
	return hook, nil
}

// Fder is implemented by anything backed by a file descriptor, such as
// *os.File.
type Fder interface {
	Fd() uintptr
}

// FdMode selects the conditions an fd hook watches.
type FdMode int

const (
	FdRead FdMode = 1 << iota
	FdWrite
	FdException

	FdReadWrite = FdRead | FdWrite
)

type fdRecord[P any, F Fder] struct {
	recordBase
	cb     func(data *P, fdObject F) ReturnCode
	data   P
	object F
}

type fdDispatcher interface {
	ready() ReturnCode
}

func (r *fdRecord[P, F]) ready() ReturnCode {
	return r.cb(&r.data, r.object)
}

// release closes the watched object too; the hook owned it.
func (r *fdRecord[P, F]) release() {
	closePayload(&r.data)
	closePayload(&r.object)
}

func dispatchFd(pointer, _ uintptr, _ int32) int32 {
	rec, ok := lookup[fdDispatcher](pointer, "fd")
	if !ok {
		return int32(Error)
	}
	return int32(guard(pointer, "fd", rec.ready))
}

// HookFd watches the descriptor of fdObject. The hook owns fdObject as well
// as data and closes both on release if they implement io.Closer.
func HookFd[P any, F Fder](w Weechat, fdObject F, mode FdMode, cb func(data *P, fdObject F) ReturnCode, data P) (*Hook, error) {
	if mode&(FdRead|FdWrite|FdException) == 0 {
		return nil, missing("fd mode")
	}
	if cb == nil {
		return nil, missing("fd callback")
	}

	fd := int32(fdObject.Fd())
	hook := &Hook{}
	rec := &fdRecord[P, F]{recordBase: recordBase{w: w, h: &hook.handle}, cb: cb, data: data, object: fdObject}
	err := register(w, rec, "hook_fd", strconv.Itoa(int(fd)), unhook, func(token uintptr) unsafe.Pointer {
		return w.host.HookFd(
			fd,
			boolInt(mode&FdRead != 0),
			boolInt(mode&FdWrite != 0),
			boolInt(mode&FdException != 0),
			Callback[FdFunc]{Func: dispatchFd, Pointer: token},
		)
	})
	if err != nil {
		return nil, err
	}
	return hook, nil
}

// Signal data types.
const (
	SignalString  = "string"
	SignalInt     = "int"
	SignalPointer = "pointer"
)

// SignalData is the typed view of the data sent with a signal. It is only
// valid during the callback.
type SignalData struct {
	w   Weechat
	typ string
	ptr unsafe.Pointer
}

// Type returns "string", "int" or "pointer".
func (d SignalData) Type() string {
	return d.typ
}

// Pointer returns the raw signal data.
func (d SignalData) Pointer() unsafe.Pointer {
	return d.ptr
}

// Int returns the value of an "int" signal.
func (d SignalData) Int() (int, bool) {
	if d.typ != SignalInt || d.ptr == nil {
		return 0, false
	}
	return int(*(*int32)(d.ptr)), true
}

// Buffer interprets a "pointer" signal as a buffer, as sent by the
// buffer_* signals.
func (d SignalData) Buffer() (Buffer, bool) {
	if d.typ != SignalPointer || d.ptr == nil {
		return Buffer{}, false
	}
	return Buffer{w: d.w, ptr: d.ptr}, true
}

// String returns the data rendered as text for any signal type.
func (d SignalData) String() string {
	switch d.typ {
	case SignalString:
		return cstring.GoString((*byte)(d.ptr))
	case SignalInt:
		v, _ := d.Int()
		return strconv.Itoa(v)
	default:
		return fmt.Sprintf("%p", d.ptr)
	}
}

type signalRecord[P any] struct {
	recordBase
	cb   func(data *P, signal string, value SignalData) ReturnCode
	data P
}

type signalDispatcher interface {
	signal(name string, value SignalData) ReturnCode
}

func (r *signalRecord[P]) signal(name string, value SignalData) ReturnCode {
	value.w = r.w
	return r.cb(&r.data, name, value)
}

func (r *signalRecord[P]) release() {
	closePayload(&r.data)
}

func dispatchSignal(pointer, _ uintptr, signal, typeData *byte, signalData unsafe.Pointer) int32 {
	rec, ok := lookup[signalDispatcher](pointer, "signal")
	if !ok {
		return int32(Error)
	}
	name := cstring.GoString(signal)
	value := SignalData{typ: cstring.GoString(typeData), ptr: signalData}
	return int32(guard(pointer, "signal", func() ReturnCode {
		return rec.signal(name, value)
	}))
}

// HookSignal subscribes to a signal. The name may contain "*" wildcards.
func HookSignal[P any](w Weechat, signal string, cb func(data *P, signal string, value SignalData) ReturnCode, data P) (*Hook, error) {
	if signal == "" {
		return nil, missing("signal name")
	}
	if cb == nil {
		return nil, missing("signal callback")
	}

	hook := &Hook{}
	rec := &signalRecord[P]{recordBase: recordBase{w: w, h: &hook.handle}, cb: cb, data: data}
	err := register(w, rec, "hook_signal", signal, unhook, func(token uintptr) unsafe.Pointer {
		return w.host.HookSignal(cstr(signal), Callback[SignalFunc]{Func: dispatchSignal, Pointer: token})
	})
	if err != nil {
		return nil, err
	}
	return hook, nil
}

// SendSignalString sends a signal carrying a string.
func (w Weechat) SendSignalString(signal, value string) ReturnCode {
	return ReturnCode(w.host.HookSignalSend(cstr(signal), cstr(SignalString), unsafe.Pointer(cstr(value))))
}

// SendSignalInt sends a signal carrying an int.
func (w Weechat) SendSignalInt(signal string, value int) ReturnCode {
	v := int32(value)
	return ReturnCode(w.host.HookSignalSend(cstr(signal), cstr(SignalInt), unsafe.Pointer(&v)))
}

// SendSignalPointer sends a signal carrying a host pointer.
func (w Weechat) SendSignalPointer(signal string, value unsafe.Pointer) ReturnCode {
	return ReturnCode(w.host.HookSignalSend(cstr(signal), cstr(SignalPointer), value))
}

type configRecord[P any] struct {
	recordBase
	cb   func(data *P, option, value string) ReturnCode
	data P
}

type configDispatcher interface {
	changed(option, value string) ReturnCode
}

func (r *configRecord[P]) changed(option, value string) ReturnCode {
	return r.cb(&r.data, option, value)
}

func (r *configRecord[P]) release() {
	closePayload(&r.data)
}

func dispatchConfig(pointer, _ uintptr, option, value *byte) int32 {
	rec, ok := lookup[configDispatcher](pointer, "config")
	if !ok {
		return int32(Error)
	}
	name, val := cstring.GoString(option), cstring.GoString(value)
	return int32(guard(pointer, "config", func() ReturnCode {
		return rec.changed(name, val)
	}))
}

// HookConfig watches changes of options matching option, which may use
// "*" wildcards.
func HookConfig[P any](w Weechat, option string, cb func(data *P, option, value string) ReturnCode, data P) (*Hook, error) {
	if cb == nil {
		return nil, missing("config callback")
	}

	hook := &Hook{}
	rec := &configRecord[P]{recordBase: recordBase{w: w, h: &hook.handle}, cb: cb, data: data}
	err := register(w, rec, "hook_config", option, unhook, func(token uintptr) unsafe.Pointer {
		return w.host.HookConfig(cstr(option), Callback[ConfigFunc]{Func: dispatchConfig, Pointer: token})
	})
	if err != nil {
		return nil, err
	}
	return hook, nil
}
