package weegotest

import (
	"strconv"
	"strings"
	"unsafe"

	"github.com/obinnaokechukwu/weego"
)

func (h *Host) BufferNew(name *byte, input weego.Callback[weego.InputFunc], onClose weego.Callback[weego.CloseFunc]) unsafe.Pointer {
	n := gostr(name)
	return h.add("buffer_new", &object{
		kind:    KindBuffer,
		name:    n,
		input:   input,
		onClose: onClose,
		props: map[string]string{
			"plugin":     PluginName,
			"name":       n,
			"full_name":  PluginName + "." + n,
			"short_name": n,
		},
	})
}

// BufferSearch finds a buffer by plugin and name. An empty name returns the
// core buffer, which stands in for the current one.
func (h *Host) BufferSearch(plugin, name *byte) unsafe.Pointer {
	pl, n := gostr(plugin), gostr(name)
	if n == "" {
		return h.core
	}
	h.mu.Lock()
	defer h.mu.Unlock()
	for _, p := range h.order {
		o := h.objects[p]
		if o.kind != KindBuffer {
			continue
		}
		switch {
		case pl == "==" && o.props["full_name"] == n:
			return p
		case (pl == "" || o.props["plugin"] == pl) && o.props["name"] == n:
			return p
		}
	}
	return nil
}

func (h *Host) BufferClose(buffer unsafe.Pointer) {
	h.closeBuffer(buffer, true)
}

// CloseBuffer closes buffer the way /buffer close does.
func (h *Host) CloseBuffer(buffer unsafe.Pointer) bool {
	return h.closeBuffer(buffer, false)
}

func (h *Host) closeBuffer(p unsafe.Pointer, unregister bool) bool {
	if p == h.core {
		return false
	}
	o := h.get(p, KindBuffer)
	if o == nil {
		h.remove(p, unregister, "buffer_close")
		return false
	}
	if o.onClose.Func != nil {
		o.onClose.Func(o.onClose.Pointer, o.onClose.Data, p)
	}
	for _, kind := range []Kind{KindNick, KindGroup} {
		for _, c := range h.children(p, kind) {
			h.remove(c, false, "nicklist")
		}
	}
	h.remove(p, unregister, "buffer_close")
	return true
}

// Input sends text to the input callback of buffer.
func (h *Host) Input(buffer unsafe.Pointer, text string) (weego.ReturnCode, bool) {
	o := h.get(buffer, KindBuffer)
	if o == nil || o.input.Func == nil {
		return weego.Error, false
	}
	rc := o.input.Func(o.input.Pointer, o.input.Data, buffer, cstr(text))
	return weego.ReturnCode(rc), true
}

func (h *Host) BufferGetInteger(buffer unsafe.Pointer, property *byte) int32 {
	h.mu.Lock()
	defer h.mu.Unlock()
	o := h.objects[buffer]
	if o == nil {
		return -1
	}
	prop := gostr(property)
	if prop == "number" {
		return int32(o.number)
	}
	n, err := strconv.Atoi(o.props[prop])
	if err != nil {
		return 0
	}
	return int32(n)
}

func (h *Host) BufferGetString(buffer unsafe.Pointer, property *byte) *byte {
	h.mu.Lock()
	defer h.mu.Unlock()
	o := h.objects[buffer]
	if o == nil {
		return nil
	}
	v, ok := o.props[gostr(property)]
	if !ok {
		return nil
	}
	return cstr(v)
}

func (h *Host) BufferSet(buffer unsafe.Pointer, property, value *byte) {
	h.mu.Lock()
	defer h.mu.Unlock()
	o := h.objects[buffer]
	if o == nil {
		return
	}
	prop, v := gostr(property), gostr(value)
	if name, ok := strings.CutPrefix(prop, "localvar_set_"); ok {
		prop = "localvar_" + name
	}
	o.props[prop] = v
}

func (h *Host) NicklistAddGroup(buffer, parent unsafe.Pointer, name, color *byte, visible int32) unsafe.Pointer {
	if h.get(buffer, KindBuffer) == nil {
		return nil
	}
	return h.add("nicklist_add_group", &object{
		kind:   KindGroup,
		name:   gostr(name),
		parent: buffer,
		props: map[string]string{
			"name":    gostr(name),
			"color":   gostr(color),
			"visible": strconv.Itoa(int(visible)),
		},
	})
}

func (h *Host) NicklistAddNick(buffer, group unsafe.Pointer, name, color, prefix, prefixColor *byte, visible int32) unsafe.Pointer {
	if h.get(buffer, KindBuffer) == nil {
		return nil
	}
	n := gostr(name)
	for _, p := range h.children(buffer, KindNick) {
		if h.get(p, KindNick).name == n {
			return nil
		}
	}
	return h.add("nicklist_add_nick", &object{
		kind:   KindNick,
		name:   n,
		parent: buffer,
		props: map[string]string{
			"name":         n,
			"color":        gostr(color),
			"prefix":       gostr(prefix),
			"prefix_color": gostr(prefixColor),
			"visible":      strconv.Itoa(int(visible)),
		},
	})
}

func (h *Host) NicklistRemoveGroup(_, group unsafe.Pointer) {
	h.remove(group, false, "nicklist_remove_group")
}

func (h *Host) NicklistRemoveNick(_, nick unsafe.Pointer) {
	h.remove(nick, false, "nicklist_remove_nick")
}

func (h *Host) NicklistNickGetString(_, nick unsafe.Pointer, property *byte) *byte {
	o := h.get(nick, KindNick)
	if o == nil {
		return nil
	}
	return cstr(o.props[gostr(property)])
}

// Nicks returns the nick names of buffer in insertion order.
func (h *Host) Nicks(buffer unsafe.Pointer) []string {
	var out []string
	for _, p := range h.children(buffer, KindNick) {
		if o := h.get(p, KindNick); o != nil {
			out = append(out, o.name)
		}
	}
	return out
}

func (h *Host) BarItemNew(name *byte, cb weego.Callback[weego.BarItemFunc]) unsafe.Pointer {
	n := gostr(name)
	if _, dup := h.Find(KindBarItem, n); dup {
		return nil
	}
	return h.add("bar_item_new", &object{kind: KindBarItem, name: n, barItem: cb})
}

func (h *Host) BarItemUpdate(name *byte) {
	h.mu.Lock()
	h.updates[gostr(name)]++
	h.mu.Unlock()
}

func (h *Host) BarItemRemove(item unsafe.Pointer) {
	h.remove(item, true, "bar_item_remove")
}

// RenderBarItem draws the bar item name for buffer. The boolean is false
// if the item does not exist or its callback returned NULL.
func (h *Host) RenderBarItem(name string, buffer unsafe.Pointer) (string, bool) {
	p, ok := h.Find(KindBarItem, name)
	if !ok {
		return "", false
	}
	o := h.get(p, KindBarItem)
	s := o.barItem.Func(o.barItem.Pointer, o.barItem.Data, p, nil, buffer, nil)
	if s == nil {
		return "", false
	}
	return gostr(s), true
}
