package weego

import (
	"io"
	"reflect"
	"sync"
	"sync/atomic"
	"unsafe"

	"github.com/obinnaokechukwu/weego/internal/handles"
)

// Handle states. A handle only moves forward.
const (
	stateRegistered int32 = iota
	stateUnregistering
	stateReleased
)

// closer is anything a scope can tear down.
type closer interface {
	close()
}

// scope tracks the live handles of one Weechat context so Unload can close
// whatever the plugin did not close itself.
type scope struct {
	mu    sync.Mutex
	items []closer
}

func newScope() *scope {
	return &scope{}
}

func (s *scope) add(c closer) {
	s.mu.Lock()
	s.items = append(s.items, c)
	s.mu.Unlock()
}

func (s *scope) remove(c closer) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := len(s.items) - 1; i >= 0; i-- {
		if s.items[i] == c {
			s.items = append(s.items[:i], s.items[i+1:]...)
			return
		}
	}
}

func (s *scope) len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.items)
}

// closeAll closes items newest first. The lock is not held across close,
// which may call back into remove.
func (s *scope) closeAll() {
	for {
		s.mu.Lock()
		n := len(s.items)
		if n == 0 {
			s.mu.Unlock()
			return
		}
		c := s.items[n-1]
		s.items = s.items[:n-1]
		s.mu.Unlock()
		c.close()
	}
}

// handle is the state shared by every owning resource handle: the host
// pointer, the registry token of its callback record (zero if it has none)
// and the lifecycle Registered -> Unregistering -> Released.
type handle struct {
	w          Weechat
	ptr        unsafe.Pointer
	token      uintptr
	state      atomic.Int32
	unregister func(Host, unsafe.Pointer)
}

// close issues the host unregister call at most once. Only the caller that
// wins the Registered -> Unregistering transition talks to the host; the
// record is released afterwards unless WeeChat already did it from inside
// the unregister call.
func (h *handle) close() {
	if !h.state.CompareAndSwap(stateRegistered, stateUnregistering) {
		return
	}
	h.unregister(h.w.host, h.ptr)
	release(h.token)
	h.markReleased()
}

// markReleased records that WeeChat no longer knows the object.
func (h *handle) markReleased() {
	if h.state.Swap(stateReleased) == stateReleased {
		return
	}
	h.w.scope.remove(h)
}

func (h *handle) alive() bool {
	return h.state.Load() == stateRegistered
}

// Pointer returns the WeeChat pointer of the object.
func (h *handle) Pointer() unsafe.Pointer {
	return h.ptr
}

// Closed reports whether the object has been released, by Close or by
// WeeChat.
func (h *handle) Closed() bool {
	return !h.alive()
}

// record is a callback record as stored in the registry.
type record interface {
	owner() *handle
	// release runs once, after the record left the registry.
	release()
}

type recordBase struct {
	w Weechat
	h *handle
}

func (r *recordBase) owner() *handle {
	return r.h
}

// release takes the record for token out of the registry and disposes of
// it, at once or, if one of its callbacks is running, when that callback
// returns. Only the first call for a token does anything.
func release(token uintptr) bool {
	v, ok := handles.Release(token, func(v any) { v.(record).release() })
	if !ok {
		return false
	}
	if h := v.(record).owner(); h != nil {
		h.markReleased()
	}
	return true
}

// register parks rec in the registry, lets call hand the token to WeeChat
// and tracks the resulting handle. A NULL result takes the record straight
// back out so nothing outlives the failed call.
func register(w Weechat, rec record, op, name string, unregister func(Host, unsafe.Pointer), call func(token uintptr) unsafe.Pointer) error {
	h := rec.owner()
	h.w = w
	h.unregister = unregister

	token := handles.Register(rec)
	ptr := call(token)
	if ptr == nil {
		release(token)
		err := &HostError{Op: op, Name: name}
		Logger().Warn("registration refused", "op", op, "name", name)
		return err
	}

	h.ptr = ptr
	h.token = token
	w.scope.add(h)
	return nil
}

// track registers a handle that has no callback record.
func track(w Weechat, h *handle, ptr unsafe.Pointer, unregister func(Host, unsafe.Pointer)) {
	h.w = w
	h.ptr = ptr
	h.unregister = unregister
	w.scope.add(h)
}

// closePayload runs the payload's Close method, if it has one. This is the
// point where ownership handed over at registration ends.
func closePayload[P any](p *P) {
	c, ok := any(*p).(io.Closer)
	if ok {
		if v := reflect.ValueOf(*p); v.Kind() == reflect.Pointer && v.IsNil() {
			return
		}
	} else if c, ok = any(p).(io.Closer); !ok {
		return
	}

	defer func() {
		if r := recover(); r != nil {
			Logger().Error("payload close panicked", "panic", r)
		}
	}()
	if err := c.Close(); err != nil {
		Logger().Warn("payload close failed", "error", err)
	}
}

// guard runs a user callback so that a panic never unwinds into WeeChat.
// While it runs, the record behind token (if any) cannot be disposed of.
func guard(token uintptr, callback string, fn func() ReturnCode) (rc ReturnCode) {
	if handles.Enter(token) {
		defer handles.Leave(token)
	}
	defer func() {
		if r := recover(); r != nil {
			Logger().Error("callback panicked", "callback", callback, "panic", r)
			rc = Error
		}
	}()
	return fn()
}

// lookup returns the live record behind token as T.
func lookup[T any](token uintptr, callback string) (T, bool) {
	v, ok := handles.Lookup(token).(T)
	if !ok {
		Logger().Debug("callback for released record", "callback", callback, "token", token)
	}
	return v, ok
}

func unhook(host Host, p unsafe.Pointer) {
	host.Unhook(p)
}
