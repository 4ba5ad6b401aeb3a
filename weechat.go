// Package weego lets Go code register typed, owned callbacks with WeeChat.
//
// WeeChat only understands C function pointers and a `void *` of context.
// Every registration here builds a callback record holding the typed
// callback and its payload, parks it in a token registry, and hands WeeChat
// one of a small set of static adapters plus the token. The adapter turns
// the raw arguments back into typed views on every event. The record is
// released exactly once, either when the returned handle is closed or when
// WeeChat tears the object down itself.
//
// Basic usage from a plugin's main package:
//
//	import _ "github.com/obinnaokechukwu/weego/entry"
//
//	func init() {
//		weego.Register(func(w weego.Weechat, args weego.Args) (any, error) {
//			hook, err := weego.HookCommand(w, weego.CommandInfo{Name: "hello"},
//				func(greeting *string, buf weego.Buffer, args weego.Args) weego.ReturnCode {
//					buf.Print(*greeting)
//					return weego.OK
//				}, "Hello from Go")
//			return hook, err
//		})
//	}
package weego

import (
	"fmt"

	"github.com/obinnaokechukwu/weego/internal/cstring"
)

// Weechat is the context every registration and view borrows to reach the
// host. It is a small value and may be copied freely; copies share the same
// set of live handles. Weechat never frees the host.
type Weechat struct {
	host  Host
	scope *scope
}

// New wraps host. A nil host is a programming error and panics.
func New(host Host) Weechat {
	if host == nil {
		panic("weego: nil host")
	}
	return Weechat{host: host, scope: newScope()}
}

// Host returns the underlying host function table.
func (w Weechat) Host() Host {
	return w.host
}

// Live returns the number of handles registered through w that have not
// been released yet.
func (w Weechat) Live() int {
	return w.scope.len()
}

// CloseAll closes every live handle registered through w, most recent first.
func (w Weechat) CloseAll() {
	w.scope.closeAll()
}

// Print displays a message on the core buffer.
func (w Weechat) Print(msg string) {
	w.host.PrintDateTags(nil, 0, nil, cstr(msg))
}

// Printf formats according to a format specifier and prints on the core buffer.
func (w Weechat) Printf(format string, args ...any) {
	w.Print(fmt.Sprintf(format, args...))
}

// Log writes a line to weechat.log.
func (w Weechat) Log(msg string) {
	w.host.LogPrintf(cstr(msg))
}

// Color returns the escape sequence for a WeeChat color name.
func (w Weechat) Color(name string) string {
	return cstring.GoString(w.host.Color(cstr(name)))
}

// Prefix returns a WeeChat prefix such as "error", "network", "action",
// "join" or "quit". Unknown prefixes yield "".
func (w Weechat) Prefix(name string) string {
	return cstring.GoString(w.host.Prefix(cstr(name)))
}

// InfoGet returns an info from WeeChat or a plugin.
// The boolean is false if the info does not exist.
func (w Weechat) InfoGet(name, arguments string) (string, bool) {
	return optional(w.host.InfoGet(cstr(name), cstr(arguments)))
}

// PluginOption returns the value of plugins.var.<plugin>.<name>.
func (w Weechat) PluginOption(name string) (string, bool) {
	return optional(w.host.ConfigGetPlugin(cstr(name)))
}

// SetPluginOption sets plugins.var.<plugin>.<name>.
func (w Weechat) SetPluginOption(name, value string) OptionChange {
	return OptionChange(w.host.ConfigSetPlugin(cstr(name), cstr(value)))
}

// Eval evaluates a WeeChat expression such as "${info:version}".
func (w Weechat) Eval(expr string) (string, bool) {
	return optional(w.host.StringEvalExpression(cstr(expr)))
}

// UpdateBarItem asks WeeChat to redraw the bar item called name.
func (w Weechat) UpdateBarItem(name string) {
	w.host.BarItemUpdate(cstr(name))
}

func cstr(s string) *byte {
	return cstring.Ptr(cstring.ToHost(s))
}

func optional(p *byte) (string, bool) {
	if p == nil {
		return "", false
	}
	return cstring.GoString(p), true
}

func boolInt(b bool) int32 {
	if b {
		return 1
	}
	return 0
}
