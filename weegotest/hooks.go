package weegotest

import (
	"slices"
	"strconv"
	"strings"
	"time"
	"unsafe"

	"github.com/obinnaokechukwu/weego"
)

func (h *Host) HookCommand(command, _, _, _, _ *byte, cb weego.Callback[weego.CommandFunc]) unsafe.Pointer {
	return h.add("hook_command", &object{kind: KindCommand, name: gostr(command), command: cb})
}

func (h *Host) HookTimer(interval int64, _, maxCalls int32, cb weego.Callback[weego.TimerFunc]) unsafe.Pointer {
	remaining := int32(-1)
	if maxCalls > 0 {
		remaining = maxCalls
	}
	return h.add("hook_timer", &object{
		kind:      KindTimer,
		interval:  time.Duration(interval) * time.Millisecond,
		remaining: remaining,
		timer:     cb,
	})
}

func (h *Host) HookFd(fd, _, _, _ int32, cb weego.Callback[weego.FdFunc]) unsafe.Pointer {
	return h.add("hook_fd", &object{kind: KindFd, fd: fd, name: strconv.Itoa(int(fd)), fdCb: cb})
}

func (h *Host) HookSignal(signal *byte, cb weego.Callback[weego.SignalFunc]) unsafe.Pointer {
	return h.add("hook_signal", &object{kind: KindSignal, name: gostr(signal), signal: cb})
}

// HookSignalSend delivers the signal to every matching hook until one
// returns OKEat.
func (h *Host) HookSignalSend(signal, typeData *byte, signalData unsafe.Pointer) int32 {
	name := gostr(signal)
	for _, p := range h.All(KindSignal) {
		o := h.get(p, KindSignal)
		if o == nil || !match(o.name, name) {
			continue
		}
		rc := o.signal.Func(o.signal.Pointer, o.signal.Data, signal, typeData, signalData)
		if weego.ReturnCode(rc) == weego.OKEat {
			return rc
		}
	}
	return int32(weego.OK)
}

// SendSignal sends a string signal the way another plugin would.
func (h *Host) SendSignal(signal, value string) weego.ReturnCode {
	return weego.ReturnCode(h.HookSignalSend(cstr(signal), cstr(weego.SignalString), unsafe.Pointer(cstr(value))))
}

func (h *Host) HookConfig(option *byte, cb weego.Callback[weego.ConfigFunc]) unsafe.Pointer {
	return h.add("hook_config", &object{kind: KindConfigHook, name: gostr(option), config: cb})
}

func (h *Host) HookCompletion(item, _ *byte, cb weego.Callback[weego.CompletionFunc]) unsafe.Pointer {
	return h.add("hook_completion", &object{kind: KindCompletion, name: gostr(item), completion: cb})
}

// CompletionListAdd ignores duplicates, like WeeChat.
func (h *Host) CompletionListAdd(completion unsafe.Pointer, word *byte, _ int32, where *byte) {
	h.mu.Lock()
	defer h.mu.Unlock()
	words, ok := h.completions[completion]
	if !ok {
		return
	}
	w := gostr(word)
	if slices.Contains(words, w) {
		return
	}
	switch gostr(where) {
	case "beginning":
		words = slices.Insert(words, 0, w)
	case "end":
		words = append(words, w)
	default:
		i, _ := slices.BinarySearch(words, w)
		words = slices.Insert(words, i, w)
	}
	h.completions[completion] = words
}

func (h *Host) Unhook(hook unsafe.Pointer) {
	h.remove(hook, true, "unhook")
}

// RunCommand runs line, such as "/hello world", on buffer. A nil buffer
// selects the core buffer. The boolean is false if no such command is
// hooked.
func (h *Host) RunCommand(buffer unsafe.Pointer, line string) (weego.ReturnCode, bool) {
	words, eol := splitLine(strings.TrimPrefix(line, "/"))
	if len(words) == 0 {
		return weego.Error, false
	}
	p, ok := h.Find(KindCommand, words[0])
	if !ok {
		return weego.Error, false
	}
	if buffer == nil {
		buffer = h.core
	}
	o := h.get(p, KindCommand)
	argv, argvEOL := cstrs(words), cstrs(eol)
	rc := o.command.Func(o.command.Pointer, o.command.Data, buffer, int32(len(words)), &argv[0], &argvEOL[0])
	return weego.ReturnCode(rc), true
}

// Interval returns the interval of the timer p.
func (h *Host) Interval(p unsafe.Pointer) time.Duration {
	if o := h.get(p, KindTimer); o != nil {
		return o.interval
	}
	return 0
}

// Tick fires the timer p once. A timer on its last call is removed after
// the callback returns, without counting as an unregister.
func (h *Host) Tick(p unsafe.Pointer) (weego.ReturnCode, bool) {
	h.mu.Lock()
	o := h.objects[p]
	if o == nil || o.kind != KindTimer {
		h.mu.Unlock()
		return weego.Error, false
	}
	if o.remaining > 0 {
		o.remaining--
	}
	remaining := o.remaining
	h.mu.Unlock()

	rc := o.timer.Func(o.timer.Pointer, o.timer.Data, remaining)
	if remaining == 0 {
		h.remove(p, false, "timer")
	}
	return weego.ReturnCode(rc), true
}

// FireFd reports fd as ready.
func (h *Host) FireFd(fd int) (weego.ReturnCode, bool) {
	p, ok := h.Find(KindFd, strconv.Itoa(fd))
	if !ok {
		return weego.Error, false
	}
	o := h.get(p, KindFd)
	return weego.ReturnCode(o.fdCb.Func(o.fdCb.Pointer, o.fdCb.Data, o.fd)), true
}

// ChangeConfig reports a change of option to every matching config hook.
func (h *Host) ChangeConfig(option, value string) weego.ReturnCode {
	rc := weego.OK
	for _, p := range h.All(KindConfigHook) {
		o := h.get(p, KindConfigHook)
		if o == nil || !match(o.name, option) {
			continue
		}
		rc = weego.ReturnCode(o.config.Func(o.config.Pointer, o.config.Data, cstr(option), cstr(value)))
	}
	return rc
}

// Complete runs the completion item on buffer and returns the words added.
func (h *Host) Complete(item string, buffer unsafe.Pointer) ([]string, weego.ReturnCode, bool) {
	p, ok := h.Find(KindCompletion, item)
	if !ok {
		return nil, weego.Error, false
	}
	o := h.get(p, KindCompletion)

	list := newPointer()
	h.mu.Lock()
	h.completions[list] = []string{}
	h.mu.Unlock()

	rc := o.completion.Func(o.completion.Pointer, o.completion.Data, cstr(item), buffer, list)

	h.mu.Lock()
	words := h.completions[list]
	delete(h.completions, list)
	h.mu.Unlock()
	return words, weego.ReturnCode(rc), true
}

// match reports whether name matches pattern, where "*" matches any run of
// characters.
func match(pattern, name string) bool {
	if pattern == "" || pattern == "*" {
		return true
	}
	parts := strings.Split(pattern, "*")
	if len(parts) == 1 {
		return pattern == name
	}
	if !strings.HasPrefix(name, parts[0]) {
		return false
	}
	name = name[len(parts[0]):]
	last := parts[len(parts)-1]
	for _, part := range parts[1 : len(parts)-1] {
		i := strings.Index(name, part)
		if i < 0 {
			return false
		}
		name = name[i+len(part):]
	}
	return strings.HasSuffix(name, last)
}

// splitLine splits a command line into words and the matching
// end-of-line views.
func splitLine(line string) (words, eol []string) {
	i := 0
	for i < len(line) {
		for i < len(line) && line[i] == ' ' {
			i++
		}
		if i >= len(line) {
			break
		}
		j := i
		for j < len(line) && line[j] != ' ' {
			j++
		}
		words = append(words, line[i:j])
		eol = append(eol, line[i:])
		i = j
	}
	return words, eol
}

func cstrs(ss []string) []*byte {
	out := make([]*byte, len(ss))
	for i, s := range ss {
		out[i] = cstr(s)
	}
	return out
}
