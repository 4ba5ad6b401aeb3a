package weego

import (
	"strings"
	"time"
	"unsafe"

	"github.com/obinnaokechukwu/weego/internal/cstring"
)

// Infolist is a cursor over a list of items returned by WeeChat. The cursor
// starts before the first item; call Next to move onto it. Close frees the
// list.
//
//	list, err := w.InfolistGet("buffer", nil, "")
//	if err != nil {
//		return err
//	}
//	defer list.Close()
//	for list.Next() {
//		names = append(names, list.String("name"))
//	}
type Infolist struct {
	handle
	name string
}

// InfolistField is one entry of Fields.
type InfolistField struct {
	Type string // "i", "s", "p", "b" or "t"
	Name string
}

// InfolistGet returns the infolist called name. pointer restricts the list
// to one object and may be nil.
func (w Weechat) InfolistGet(name string, pointer unsafe.Pointer, arguments string) (*Infolist, error) {
	if name == "" {
		return nil, missing("infolist name")
	}
	ptr := w.host.InfolistGet(cstr(name), pointer, cstr(arguments))
	if ptr == nil {
		return nil, &HostError{Op: "infolist_get", Name: name}
	}
	l := &Infolist{name: name}
	track(w, &l.handle, ptr, freeInfolist)
	return l, nil
}

func freeInfolist(host Host, p unsafe.Pointer) {
	host.InfolistFree(p)
}

// Name returns the name the list was requested with.
func (l *Infolist) Name() string {
	return l.name
}

// Close frees the list.
func (l *Infolist) Close() error {
	l.close()
	return nil
}

// Next moves to the next item and reports whether there is one.
func (l *Infolist) Next() bool {
	return l.alive() && l.w.host.InfolistNext(l.ptr) != 0
}

// Prev moves to the previous item and reports whether there is one.
func (l *Infolist) Prev() bool {
	return l.alive() && l.w.host.InfolistPrev(l.ptr) != 0
}

// Fields returns the variables of the current item.
func (l *Infolist) Fields() []InfolistField {
	if !l.alive() {
		return nil
	}
	raw := cstring.GoString(l.w.host.InfolistFields(l.ptr))
	if raw == "" {
		return nil
	}
	var fields []InfolistField
	for _, f := range strings.Split(raw, ",") {
		typ, name, ok := strings.Cut(f, ":")
		if !ok {
			continue
		}
		fields = append(fields, InfolistField{Type: typ, Name: name})
	}
	return fields
}

// String returns a string variable of the current item.
func (l *Infolist) String(name string) string {
	if !l.alive() {
		return ""
	}
	return cstring.GoString(l.w.host.InfolistString(l.ptr, cstr(name)))
}

// Integer returns an integer variable of the current item.
func (l *Infolist) Integer(name string) int {
	if !l.alive() {
		return 0
	}
	return int(l.w.host.InfolistInteger(l.ptr, cstr(name)))
}

// PointerVar returns a pointer variable of the current item.
func (l *Infolist) PointerVar(name string) unsafe.Pointer {
	if !l.alive() {
		return nil
	}
	return l.w.host.InfolistPointer(l.ptr, cstr(name))
}

// Time returns a time variable of the current item.
func (l *Infolist) Time(name string) time.Time {
	if !l.alive() {
		return time.Time{}
	}
	return time.Unix(l.w.host.InfolistTime(l.ptr, cstr(name)), 0)
}

// Buffer returns the "buffer" variable of the current item.
func (l *Infolist) Buffer() (Buffer, bool) {
	p := l.PointerVar("buffer")
	if p == nil {
		return Buffer{}, false
	}
	return Buffer{w: l.w, ptr: p}, true
}
