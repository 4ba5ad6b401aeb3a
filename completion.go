package weego

import (
	"unsafe"

	"github.com/obinnaokechukwu/weego/internal/cstring"
)

// Completion is the list a completion callback fills. It is only valid
// during the callback.
type Completion struct {
	w   Weechat
	ptr unsafe.Pointer
}

// CompletionPosition is where a word is inserted into the list.
type CompletionPosition int

const (
	CompletionSorted CompletionPosition = iota
	CompletionBeginning
	CompletionEnd
)

func (p CompletionPosition) value() string {
	switch p {
	case CompletionBeginning:
		return "beginning"
	case CompletionEnd:
		return "end"
	default:
		return "sort"
	}
}

// Add adds word, keeping the list sorted.
func (c Completion) Add(word string) {
	c.AddWithOptions(word, false, CompletionSorted)
}

// AddWithOptions adds word at pos. isNick marks the word as a nick so
// WeeChat applies nick completion rules.
func (c Completion) AddWithOptions(word string, isNick bool, pos CompletionPosition) {
	c.w.host.CompletionListAdd(c.ptr, cstr(word), boolInt(isNick), cstr(pos.value()))
}

type completionRecord[P any] struct {
	recordBase
	cb   func(data *P, buf Buffer, item string, c Completion) ReturnCode
	data P
}

type completionDispatcher interface {
	complete(item string, buf, completion unsafe.Pointer) ReturnCode
}

func (r *completionRecord[P]) complete(item string, buf, completion unsafe.Pointer) ReturnCode {
	return r.cb(&r.data, Buffer{w: r.w, ptr: buf}, item, Completion{w: r.w, ptr: completion})
}

func (r *completionRecord[P]) release() {
	closePayload(&r.data)
}

func dispatchCompletion(pointer, _ uintptr, item *byte, buffer, completion unsafe.Pointer) int32 {
	rec, ok := lookup[completionDispatcher](pointer, "completion")
	if !ok {
		return int32(Error)
	}
	name := cstring.GoString(item)
	return int32(guard(pointer, "completion", func() ReturnCode {
		return rec.complete(name, buffer, completion)
	}))
}

// HookCompletion registers a completion item, usable as %(item) in command
// completion templates. The callback adds the candidate words.
func HookCompletion[P any](w Weechat, item, description string, cb func(data *P, buf Buffer, item string, c Completion) ReturnCode, data P) (*Hook, error) {
	if item == "" {
		return nil, missing("completion item")
	}
	if cb == nil {
		return nil, missing("completion callback")
	}

	hook := &Hook{}
	rec := &completionRecord[P]{recordBase: recordBase{w: w, h: &hook.handle}, cb: cb, data: data}
	err := register(w, rec, "hook_completion", item, unhook, func(token uintptr) unsafe.Pointer {
		return w.host.HookCompletion(cstr(item), cstr(description), Callback[CompletionFunc]{Func: dispatchCompletion, Pointer: token})
	})
	if err != nil {
		return nil, err
	}
	return hook, nil
}
