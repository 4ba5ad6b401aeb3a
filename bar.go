package weego

import (
	"unsafe"

	"github.com/obinnaokechukwu/weego/internal/cstring"
)

// BarItem is a live bar item. Close removes it.
type BarItem struct {
	handle
	name string
}

// Name returns the name the item was registered under.
func (b *BarItem) Name() string {
	return b.name
}

// Update asks WeeChat to redraw the item.
func (b *BarItem) Update() {
	if b.alive() {
		b.w.UpdateBarItem(b.name)
	}
}

// Close removes the bar item.
func (b *BarItem) Close() error {
	b.close()
	return nil
}

type barItemRecord[P any] struct {
	recordBase
	item *BarItem
	cb   func(data *P, item *BarItem, buf Buffer) string
	data P
}

type barItemDispatcher interface {
	render(buf unsafe.Pointer) string
	owner() *handle
}

func (r *barItemRecord[P]) render(buf unsafe.Pointer) string {
	return r.cb(&r.data, r.item, Buffer{w: r.w, ptr: buf})
}

func (r *barItemRecord[P]) release() {
	closePayload(&r.data)
}

// dispatchBarItem returns the rendered text in memory allocated by
// WeeChat, which frees it after drawing.
func dispatchBarItem(pointer, _ uintptr, _, _, buffer, _ unsafe.Pointer) *byte {
	v, ok := lookup[barItemDispatcher](pointer, "bar_item")
	if !ok {
		return nil
	}

	var text string
	rc := guard(pointer, "bar_item", func() ReturnCode {
		text = v.render(buffer)
		return OK
	})
	if rc != OK {
		return nil
	}

	s := cstring.ToHost(text)
	return v.owner().w.host.Strndup(&s[0], int32(len(s)-1))
}

// NewBarItem registers a bar item whose content is the string cb returns.
// The callback receives the item itself and the buffer of the window being
// drawn.
func NewBarItem[P any](w Weechat, name string, cb func(data *P, item *BarItem, buf Buffer) string, data P) (*BarItem, error) {
	if name == "" {
		return nil, missing("bar item name")
	}
	if cb == nil {
		return nil, missing("bar item callback")
	}

	item := &BarItem{name: name}
	rec := &barItemRecord[P]{recordBase: recordBase{w: w, h: &item.handle}, item: item, cb: cb, data: data}
	err := register(w, rec, "bar_item_new", name, removeBarItem, func(token uintptr) unsafe.Pointer {
		return w.host.BarItemNew(cstr(name), Callback[BarItemFunc]{Func: dispatchBarItem, Pointer: token})
	})
	if err != nil {
		return nil, err
	}
	return item, nil
}

func removeBarItem(host Host, p unsafe.Pointer) {
	host.BarItemRemove(p)
}
