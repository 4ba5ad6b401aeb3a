package weego

import (
	"fmt"
	"unsafe"

	"github.com/obinnaokechukwu/weego/internal/cstring"
)

// Buffer is a non-owning view of a WeeChat buffer. Views handed to a
// callback are valid for the duration of that callback; views obtained
// from a BufferHandle are valid until the buffer is closed.
type Buffer struct {
	w   Weechat
	ptr unsafe.Pointer
}

// Pointer returns the t_gui_buffer pointer.
func (b Buffer) Pointer() unsafe.Pointer {
	return b.ptr
}

// Weechat returns the context the buffer belongs to.
func (b Buffer) Weechat() Weechat {
	return b.w
}

// Equal reports whether both views point at the same buffer.
func (b Buffer) Equal(other Buffer) bool {
	return b.ptr == other.ptr
}

// Print displays a message on the buffer.
func (b Buffer) Print(msg string) {
	b.w.host.PrintDateTags(b.ptr, 0, nil, cstr(msg))
}

// Printf formats according to a format specifier and prints on the buffer.
func (b Buffer) Printf(format string, args ...any) {
	b.Print(fmt.Sprintf(format, args...))
}

// PrintTags displays a message with a comma separated list of tags.
func (b Buffer) PrintTags(tags, msg string) {
	b.w.host.PrintDateTags(b.ptr, 0, cstr(tags), cstr(msg))
}

// String returns a string property, or "" if it is not set.
func (b Buffer) String(property string) string {
	return cstring.GoString(b.w.host.BufferGetString(b.ptr, cstr(property)))
}

// Integer returns an integer property.
func (b Buffer) Integer(property string) int {
	return int(b.w.host.BufferGetInteger(b.ptr, cstr(property)))
}

// Set sets a buffer property.
func (b Buffer) Set(property, value string) {
	b.w.host.BufferSet(b.ptr, cstr(property), cstr(value))
}

// Name returns the name of the buffer.
func (b Buffer) Name() string { return b.String("name") }

// FullName returns "plugin.name".
func (b Buffer) FullName() string { return b.String("full_name") }

// ShortName returns the short name of the buffer.
func (b Buffer) ShortName() string { return b.String("short_name") }

// PluginName returns the name of the plugin owning the buffer.
func (b Buffer) PluginName() string { return b.String("plugin") }

// Title returns the buffer title.
func (b Buffer) Title() string { return b.String("title") }

// Number returns the buffer number.
func (b Buffer) Number() int { return b.Integer("number") }

// SetTitle sets the buffer title.
func (b Buffer) SetTitle(title string) { b.Set("title", title) }

// SetLocalVar sets a buffer local variable.
func (b Buffer) SetLocalVar(name, value string) { b.Set("localvar_set_"+name, value) }

// LocalVar returns a buffer local variable.
func (b Buffer) LocalVar(name string) string { return b.String("localvar_" + name) }

// EnableNicklist shows or hides the nicklist.
func (b Buffer) EnableNicklist(on bool) { b.Set("nicklist", onOff(on)) }

// DisableTimeForEachLine hides the time of every line.
func (b Buffer) DisableTimeForEachLine() { b.Set("time_for_each_line", "0") }

// DisableLog keeps the logger plugin from writing this buffer.
func (b Buffer) DisableLog() { b.SetLocalVar("no_log", "1") }

// NickArgs describes a nick to add to a nicklist.
type NickArgs struct {
	Name        string // required
	Color       string
	Prefix      string
	PrefixColor string
	Hidden      bool
}

// Nick is a nick in a buffer nicklist. It stays valid until removed or
// until the buffer is closed.
type Nick struct {
	buf Buffer
	ptr unsafe.Pointer
}

// NickGroup is a group in a buffer nicklist. The zero NickGroup stands for
// the root group.
type NickGroup struct {
	buf Buffer
	ptr unsafe.Pointer
}

// AddNick adds a nick to group.
func (b Buffer) AddNick(nick NickArgs, group NickGroup) (Nick, error) {
	if nick.Name == "" {
		return Nick{}, missing("nick name")
	}
	ptr := b.w.host.NicklistAddNick(
		b.ptr,
		group.ptr,
		cstr(nick.Name),
		cstr(nick.Color),
		cstr(nick.Prefix),
		cstr(nick.PrefixColor),
		boolInt(!nick.Hidden),
	)
	if ptr == nil {
		return Nick{}, &HostError{Op: "nicklist_add_nick", Name: nick.Name}
	}
	return Nick{buf: b, ptr: ptr}, nil
}

// AddGroup adds a nicklist group below parent.
func (b Buffer) AddGroup(name, color string, visible bool, parent NickGroup) (NickGroup, error) {
	if name == "" {
		return NickGroup{}, missing("group name")
	}
	ptr := b.w.host.NicklistAddGroup(b.ptr, parent.ptr, cstr(name), cstr(color), boolInt(visible))
	if ptr == nil {
		return NickGroup{}, &HostError{Op: "nicklist_add_group", Name: name}
	}
	return NickGroup{buf: b, ptr: ptr}, nil
}

// Pointer returns the t_gui_nick pointer.
func (n Nick) Pointer() unsafe.Pointer { return n.ptr }

// String returns a nick property: name, color, prefix or prefix_color.
func (n Nick) String(property string) string {
	return cstring.GoString(n.buf.w.host.NicklistNickGetString(n.buf.ptr, n.ptr, cstr(property)))
}

// Name returns the nick name.
func (n Nick) Name() string { return n.String("name") }

// Remove removes the nick from the nicklist.
func (n Nick) Remove() {
	n.buf.w.host.NicklistRemoveNick(n.buf.ptr, n.ptr)
}

// Pointer returns the t_gui_nick_group pointer.
func (g NickGroup) Pointer() unsafe.Pointer { return g.ptr }

// Remove removes the group and all nicks in it.
func (g NickGroup) Remove() {
	if g.ptr == nil {
		return
	}
	g.buf.w.host.NicklistRemoveGroup(g.buf.ptr, g.ptr)
}

// BufferSearch finds a buffer by plugin and name. An empty name selects the
// current buffer; plugin "==" matches name against full names.
func (w Weechat) BufferSearch(plugin, name string) (Buffer, bool) {
	ptr := w.host.BufferSearch(cstr(plugin), cstr(name))
	if ptr == nil {
		return Buffer{}, false
	}
	return Buffer{w: w, ptr: ptr}, true
}

// CurrentBuffer returns the buffer displayed in the current window.
func (w Weechat) CurrentBuffer() (Buffer, bool) {
	return w.BufferSearch("", "")
}

// BufferHandle owns a buffer created with BufferNew. Close closes the
// buffer; a buffer closed by the user releases the handle as well.
type BufferHandle struct {
	handle
}

// Buffer returns a view of the owned buffer.
func (h *BufferHandle) Buffer() Buffer {
	return Buffer{w: h.w, ptr: h.ptr}
}

// Close closes the buffer. WeeChat runs the close callback from inside
// this call.
func (h *BufferHandle) Close() error {
	h.close()
	return nil
}

// bufferRecord carries both callbacks of a buffer and both payloads, so
// the single release frees them together.
type bufferRecord[A, B any] struct {
	recordBase
	onInput   func(data *A, buf Buffer, input string) ReturnCode
	inputData A
	onClose   func(data *B, buf Buffer) ReturnCode
	closeData B
}

type inputDispatcher interface {
	input(buf unsafe.Pointer, text string) ReturnCode
}

type closeDispatcher interface {
	closing(buf unsafe.Pointer) ReturnCode
}

func (r *bufferRecord[A, B]) input(buf unsafe.Pointer, text string) ReturnCode {
	if r.onInput == nil {
		return OK
	}
	return r.onInput(&r.inputData, Buffer{w: r.w, ptr: buf}, text)
}

func (r *bufferRecord[A, B]) closing(buf unsafe.Pointer) ReturnCode {
	if r.onClose == nil {
		return OK
	}
	return r.onClose(&r.closeData, Buffer{w: r.w, ptr: buf})
}

func (r *bufferRecord[A, B]) release() {
	closePayload(&r.inputData)
	closePayload(&r.closeData)
}

// dispatchInput refuses input that is not valid UTF-8 instead of handing
// the callback a mangled line.
func dispatchInput(pointer, _ uintptr, buffer unsafe.Pointer, input *byte) int32 {
	rec, ok := lookup[inputDispatcher](pointer, "input")
	if !ok {
		return int32(Error)
	}
	if !cstring.Valid(input) {
		Logger().Warn("dropping input with invalid UTF-8")
		return int32(Error)
	}
	text := cstring.GoString(input)
	return int32(guard(pointer, "input", func() ReturnCode {
		return rec.input(buffer, text)
	}))
}

// dispatchClose is both the close callback and the release of the record:
// WeeChat calls it once, as the buffer goes away.
func dispatchClose(pointer, _ uintptr, buffer unsafe.Pointer) int32 {
	rec, ok := lookup[closeDispatcher](pointer, "close")
	if !ok {
		return int32(Error)
	}
	rc := guard(pointer, "close", func() ReturnCode {
		return rec.closing(buffer)
	})
	release(pointer)
	return int32(rc)
}

// BufferNew creates a buffer with an input callback and a close callback,
// each with its own payload. Either callback may be nil. Both payloads are
// owned by the buffer and closed, if they implement io.Closer, once the
// buffer is gone.
func BufferNew[A, B any](w Weechat, name string,
	input func(data *A, buf Buffer, input string) ReturnCode, inputData A,
	onClose func(data *B, buf Buffer) ReturnCode, closeData B,
) (*BufferHandle, error) {
	if name == "" {
		return nil, missing("buffer name")
	}

	h := &BufferHandle{}
	rec := &bufferRecord[A, B]{
		recordBase: recordBase{w: w, h: &h.handle},
		onInput:    input,
		inputData:  inputData,
		onClose:    onClose,
		closeData:  closeData,
	}
	err := register(w, rec, "buffer_new", name, closeBuffer, func(token uintptr) unsafe.Pointer {
		return w.host.BufferNew(
			cstr(name),
			Callback[InputFunc]{Func: dispatchInput, Pointer: token},
			Callback[CloseFunc]{Func: dispatchClose, Pointer: token},
		)
	})
	if err != nil {
		return nil, err
	}
	return h, nil
}

func closeBuffer(host Host, p unsafe.Pointer) {
	host.BufferClose(p)
}

func onOff(on bool) string {
	if on {
		return "1"
	}
	return "0"
}
