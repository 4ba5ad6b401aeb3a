package weegotest

import (
	"maps"
	"slices"
	"strings"
	"time"
	"unsafe"

	"github.com/spf13/cast"
)

func (h *Host) InfolistGet(name *byte, _ unsafe.Pointer, _ *byte) unsafe.Pointer {
	n := gostr(name)
	h.mu.Lock()
	items, ok := h.infolists[n]
	h.mu.Unlock()
	if !ok {
		return nil
	}
	return h.add("infolist_get", &object{kind: KindInfolist, name: n, items: slices.Clone(items), pos: -1})
}

func (h *Host) current(list unsafe.Pointer) InfolistItem {
	h.mu.Lock()
	defer h.mu.Unlock()
	o := h.objects[list]
	if o == nil || o.kind != KindInfolist || o.pos < 0 || o.pos >= len(o.items) {
		return nil
	}
	return o.items[o.pos]
}

func (h *Host) move(list unsafe.Pointer, delta int) int32 {
	h.mu.Lock()
	defer h.mu.Unlock()
	o := h.objects[list]
	if o == nil || o.kind != KindInfolist {
		return 0
	}
	o.pos = min(max(o.pos+delta, -1), len(o.items))
	if o.pos < 0 || o.pos >= len(o.items) {
		return 0
	}
	return 1
}

func (h *Host) InfolistNext(list unsafe.Pointer) int32 {
	return h.move(list, 1)
}

func (h *Host) InfolistPrev(list unsafe.Pointer) int32 {
	return h.move(list, -1)
}

// InfolistFields lists the variables of the current item sorted by name.
func (h *Host) InfolistFields(list unsafe.Pointer) *byte {
	item := h.current(list)
	if item == nil {
		return nil
	}
	var fields []string
	for _, name := range slices.Sorted(maps.Keys(item)) {
		typ := "s"
		switch item[name].(type) {
		case int, int32, int64:
			typ = "i"
		case unsafe.Pointer:
			typ = "p"
		case time.Time:
			typ = "t"
		}
		fields = append(fields, typ+":"+name)
	}
	return cstr(strings.Join(fields, ","))
}

func (h *Host) InfolistInteger(list unsafe.Pointer, name *byte) int32 {
	return cast.ToInt32(h.current(list)[gostr(name)])
}

func (h *Host) InfolistString(list unsafe.Pointer, name *byte) *byte {
	v, ok := h.current(list)[gostr(name)]
	if !ok {
		return nil
	}
	return cstr(cast.ToString(v))
}

func (h *Host) InfolistPointer(list unsafe.Pointer, name *byte) unsafe.Pointer {
	p, _ := h.current(list)[gostr(name)].(unsafe.Pointer)
	return p
}

func (h *Host) InfolistTime(list unsafe.Pointer, name *byte) int64 {
	t, _ := h.current(list)[gostr(name)].(time.Time)
	if t.IsZero() {
		return 0
	}
	return t.Unix()
}

func (h *Host) InfolistFree(list unsafe.Pointer) {
	h.remove(list, true, "infolist_free")
}
