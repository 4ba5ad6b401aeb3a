// Package weegotest provides an in-process weego.Host for tests.
//
// Host keeps every registered object in memory and only calls back into
// the plugin when a test fires an event, so tests run without WeeChat and
// without cgo. It behaves like WeeChat where ownership is concerned: a
// timer with a call limit removes itself after its last call, closing a
// buffer runs its close callback, and freeing an option runs its delete
// callback. Every unregister call is counted per pointer; an unregister of
// a pointer the host does not know is recorded as a violation.
package weegotest

import (
	"fmt"
	"slices"
	"strings"
	"sync"
	"time"
	"unsafe"

	"github.com/obinnaokechukwu/weego"
	"github.com/obinnaokechukwu/weego/internal/cstring"
)

// PluginName is the plugin name buffers created through Host report.
const PluginName = "test"

// Kind names the type of a host object.
type Kind string

const (
	KindCommand    Kind = "command"
	KindTimer      Kind = "timer"
	KindFd         Kind = "fd"
	KindSignal     Kind = "signal"
	KindConfigHook Kind = "config_hook"
	KindCompletion Kind = "completion"
	KindBuffer     Kind = "buffer"
	KindBarItem    Kind = "bar_item"
	KindConfig     Kind = "config"
	KindSection    Kind = "section"
	KindOption     Kind = "option"
	KindInfolist   Kind = "infolist"
	KindNick       Kind = "nick"
	KindGroup      Kind = "group"
)

// Line is a message printed through the host.
type Line struct {
	Buffer  unsafe.Pointer
	Tags    []string
	Message string
}

// InfolistItem is one item of an infolist served by the host. Values may
// be string, int, unsafe.Pointer or time.Time.
type InfolistItem map[string]any

type object struct {
	kind   Kind
	name   string
	parent unsafe.Pointer

	command    weego.Callback[weego.CommandFunc]
	timer      weego.Callback[weego.TimerFunc]
	interval   time.Duration
	remaining  int32
	fd         int32
	fdCb       weego.Callback[weego.FdFunc]
	signal     weego.Callback[weego.SignalFunc]
	config     weego.Callback[weego.ConfigFunc]
	completion weego.Callback[weego.CompletionFunc]

	input   weego.Callback[weego.InputFunc]
	onClose weego.Callback[weego.CloseFunc]
	props   map[string]string
	number  int

	barItem weego.Callback[weego.BarItemFunc]

	reload       weego.Callback[weego.ReloadFunc]
	optType      string
	stringValues []string
	min, max     int
	def, value   string
	check        weego.Callback[weego.OptionCheckFunc]
	change       weego.Callback[weego.OptionChangeFunc]
	del          weego.Callback[weego.OptionDeleteFunc]

	items []InfolistItem
	pos   int
}

// Host is a fake WeeChat. The zero value is not usable; call New.
type Host struct {
	mu          sync.Mutex
	objects     map[unsafe.Pointer]*object
	order       []unsafe.Pointer
	core        unsafe.Pointer
	numbers     int
	unregisters map[unsafe.Pointer]int
	unregOrder  []unsafe.Pointer
	violations  []string
	fail        map[string]int

	lines         []Line
	logs          []string
	infos         map[string]string
	evals         map[string]string
	pluginOptions map[string]string
	infolists     map[string][]InfolistItem
	configResults map[string]int32
	updates       map[string]int
	completions   map[unsafe.Pointer][]string
}

var _ weego.Host = (*Host)(nil)

// New returns an empty host holding only the core buffer.
func New() *Host {
	h := &Host{
		objects:       make(map[unsafe.Pointer]*object),
		unregisters:   make(map[unsafe.Pointer]int),
		fail:          make(map[string]int),
		infos:         make(map[string]string),
		evals:         make(map[string]string),
		pluginOptions: make(map[string]string),
		infolists:     make(map[string][]InfolistItem),
		configResults: make(map[string]int32),
		updates:       make(map[string]int),
		completions:   make(map[unsafe.Pointer][]string),
	}
	h.core = h.alloc(&object{kind: KindBuffer, name: "weechat", props: map[string]string{
		"plugin":     "core",
		"name":       "weechat",
		"full_name":  "core.weechat",
		"short_name": "weechat",
	}})
	return h
}

func newPointer() unsafe.Pointer {
	return unsafe.Pointer(new([16]byte))
}

func cstr(s string) *byte {
	return cstring.Ptr(cstring.ToHost(s))
}

func gostr(p *byte) string {
	return cstring.GoString(p)
}

func (h *Host) alloc(o *object) unsafe.Pointer {
	p := newPointer()
	if o.kind == KindBuffer {
		h.numbers++
		o.number = h.numbers
	}
	h.objects[p] = o
	h.order = append(h.order, p)
	return p
}

// add stores o unless a failure was queued for op.
func (h *Host) add(op string, o *object) unsafe.Pointer {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.failing(op) {
		return nil
	}
	return h.alloc(o)
}

func (h *Host) failing(op string) bool {
	for _, key := range []string{op, ""} {
		if h.fail[key] > 0 {
			h.fail[key]--
			return true
		}
	}
	return false
}

// remove drops p. unregister marks a call made by the plugin, which is
// counted and must target a live object.
func (h *Host) remove(p unsafe.Pointer, unregister bool, op string) *object {
	h.mu.Lock()
	defer h.mu.Unlock()
	if unregister {
		h.unregisters[p]++
		h.unregOrder = append(h.unregOrder, p)
	}
	o := h.objects[p]
	if o == nil {
		if unregister {
			h.violations = append(h.violations, fmt.Sprintf("%s on unknown pointer %p", op, p))
		}
		return nil
	}
	delete(h.objects, p)
	if i := slices.Index(h.order, p); i >= 0 {
		h.order = slices.Delete(h.order, i, i+1)
	}
	return o
}

func (h *Host) get(p unsafe.Pointer, kind Kind) *object {
	h.mu.Lock()
	defer h.mu.Unlock()
	o := h.objects[p]
	if o == nil || o.kind != kind {
		return nil
	}
	return o
}

// children returns the live objects of kind whose parent is p, in
// creation order.
func (h *Host) children(p unsafe.Pointer, kind Kind) []unsafe.Pointer {
	h.mu.Lock()
	defer h.mu.Unlock()
	var out []unsafe.Pointer
	for _, c := range h.order {
		if o := h.objects[c]; o.kind == kind && o.parent == p {
			out = append(out, c)
		}
	}
	return out
}

// FailNext makes the next registration through op return NULL. An empty op
// fails whatever registration comes next.
func (h *Host) FailNext(op string) {
	h.mu.Lock()
	h.fail[op]++
	h.mu.Unlock()
}

// Find returns the first live object of kind called name.
func (h *Host) Find(kind Kind, name string) (unsafe.Pointer, bool) {
	h.mu.Lock()
	defer h.mu.Unlock()
	for _, p := range h.order {
		if o := h.objects[p]; o.kind == kind && o.name == name {
			return p, true
		}
	}
	return nil, false
}

// All returns the live objects of kind in creation order.
func (h *Host) All(kind Kind) []unsafe.Pointer {
	h.mu.Lock()
	defer h.mu.Unlock()
	var out []unsafe.Pointer
	for _, p := range h.order {
		if h.objects[p].kind == kind {
			out = append(out, p)
		}
	}
	return out
}

// Has reports whether p is live.
func (h *Host) Has(p unsafe.Pointer) bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	_, ok := h.objects[p]
	return ok
}

// Live returns the number of live objects the plugin created, nicklist
// entries excluded.
func (h *Host) Live() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	n := 0
	for p, o := range h.objects {
		if p != h.core && o.kind != KindNick && o.kind != KindGroup {
			n++
		}
	}
	return n
}

// Unregisters returns how many times the plugin asked to unregister p.
func (h *Host) Unregisters(p unsafe.Pointer) int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.unregisters[p]
}

// UnregisterOrder returns the pointers the plugin unregistered, in call
// order.
func (h *Host) UnregisterOrder() []unsafe.Pointer {
	h.mu.Lock()
	defer h.mu.Unlock()
	return slices.Clone(h.unregOrder)
}

// Violations returns the unregister calls made on unknown pointers.
func (h *Host) Violations() []string {
	h.mu.Lock()
	defer h.mu.Unlock()
	return slices.Clone(h.violations)
}

// Core returns the core buffer pointer.
func (h *Host) Core() unsafe.Pointer {
	return h.core
}

// Lines returns every printed line.
func (h *Host) Lines() []Line {
	h.mu.Lock()
	defer h.mu.Unlock()
	return slices.Clone(h.lines)
}

// Messages returns the messages printed on buffer. A nil buffer selects
// the core buffer.
func (h *Host) Messages(buffer unsafe.Pointer) []string {
	if buffer == nil {
		buffer = h.core
	}
	var out []string
	for _, l := range h.Lines() {
		if l.Buffer == buffer {
			out = append(out, l.Message)
		}
	}
	return out
}

// LogLines returns the lines written to weechat.log.
func (h *Host) LogLines() []string {
	h.mu.Lock()
	defer h.mu.Unlock()
	return slices.Clone(h.logs)
}

// SetInfo makes InfoGet return value for name.
func (h *Host) SetInfo(name, value string) {
	h.mu.Lock()
	h.infos[name] = value
	h.mu.Unlock()
}

// SetEval makes StringEvalExpression return result for expr. Expressions
// without a result evaluate to themselves.
func (h *Host) SetEval(expr, result string) {
	h.mu.Lock()
	h.evals[expr] = result
	h.mu.Unlock()
}

// AddInfolist serves items under name.
func (h *Host) AddInfolist(name string, items ...InfolistItem) {
	h.mu.Lock()
	h.infolists[name] = items
	h.mu.Unlock()
}

// SetConfigResult makes config_read, config_reload or config_write return
// code.
func (h *Host) SetConfigResult(op string, code int32) {
	h.mu.Lock()
	h.configResults[op] = code
	h.mu.Unlock()
}

// Updates returns how many times the bar item name was asked to redraw.
func (h *Host) Updates(name string) int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.updates[name]
}

// Strndup copies at most length bytes of s.
func (h *Host) Strndup(s *byte, length int32) *byte {
	b := cstring.Bytes(s)
	if int(length) < len(b) {
		b = b[:length]
	}
	return cstr(string(b))
}

var prefixes = map[string]string{
	"error":   "=!=\t",
	"network": "--\t",
	"action":  " *\t",
	"join":    "-->\t",
	"quit":    "<--\t",
}

func (h *Host) Prefix(name *byte) *byte {
	return cstr(prefixes[gostr(name)])
}

// Color renders a color name as "{name}".
func (h *Host) Color(name *byte) *byte {
	n := gostr(name)
	if n == "" {
		return cstr("")
	}
	return cstr("{" + n + "}")
}

func (h *Host) PrintDateTags(buffer unsafe.Pointer, _ int64, tags, message *byte) {
	if buffer == nil {
		buffer = h.core
	}
	var t []string
	if s := gostr(tags); s != "" {
		t = strings.Split(s, ",")
	}
	h.mu.Lock()
	h.lines = append(h.lines, Line{Buffer: buffer, Tags: t, Message: gostr(message)})
	h.mu.Unlock()
}

func (h *Host) LogPrintf(message *byte) {
	h.mu.Lock()
	h.logs = append(h.logs, gostr(message))
	h.mu.Unlock()
}

func (h *Host) InfoGet(name, _ *byte) *byte {
	h.mu.Lock()
	defer h.mu.Unlock()
	v, ok := h.infos[gostr(name)]
	if !ok {
		return nil
	}
	return cstr(v)
}

func (h *Host) ConfigGetPlugin(option *byte) *byte {
	h.mu.Lock()
	defer h.mu.Unlock()
	v, ok := h.pluginOptions[gostr(option)]
	if !ok {
		return nil
	}
	return cstr(v)
}

func (h *Host) ConfigSetPlugin(option, value *byte) int32 {
	h.mu.Lock()
	defer h.mu.Unlock()
	name, v := gostr(option), gostr(value)
	if old, ok := h.pluginOptions[name]; ok && old == v {
		return int32(weego.OptionSameValue)
	}
	h.pluginOptions[name] = v
	return int32(weego.OptionChanged)
}

func (h *Host) StringEvalExpression(expr *byte) *byte {
	h.mu.Lock()
	defer h.mu.Unlock()
	e := gostr(expr)
	if v, ok := h.evals[e]; ok {
		return cstr(v)
	}
	return cstr(e)
}
