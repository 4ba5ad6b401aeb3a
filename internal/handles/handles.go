// Package handles keeps Go values reachable while the host holds an opaque
// token for them.
//
// The host stores callback context as a `const void *`. Go memory cannot be
// parked in C, so each callback record is stored here and the host receives
// the uintptr key instead. A record stays alive until Release removes it;
// Release succeeds at most once per token, which is what makes a second
// release of the same record impossible.
//
// A record may be released from inside one of its own callbacks. Callbacks
// bracket themselves with Enter and Leave, and disposal of a record released
// while one is running waits for the outermost Leave.
package handles

import (
	"sync"
)

type entry struct {
	value   any
	busy    int  // callbacks running
	taken   bool // released, disposal pending while busy > 0
	dispose func(any)
}

var (
	mu      sync.Mutex
	records = make(map[uintptr]*entry)
	live    int
	nextID  uintptr = 1
)

// Register stores v and returns the token the host will hand back.
// Tokens are never reused within a process.
func Register(v any) uintptr {
	mu.Lock()
	defer mu.Unlock()
	id := nextID
	nextID++
	records[id] = &entry{value: v}
	live++
	return id
}

// Lookup returns the value stored under id, or nil once it has been
// released.
func Lookup(id uintptr) any {
	mu.Lock()
	defer mu.Unlock()
	e, ok := records[id]
	if !ok || e.taken {
		return nil
	}
	return e.value
}

// Enter marks a callback for id as running. It reports false for a token
// that is unknown or already released; only a true result needs a Leave.
func Enter(id uintptr) bool {
	mu.Lock()
	defer mu.Unlock()
	e, ok := records[id]
	if !ok || e.taken {
		return false
	}
	e.busy++
	return true
}

// Leave ends a callback started with Enter. The last Leave of a record
// released in the meantime runs its disposal.
func Leave(id uintptr) {
	mu.Lock()
	e, ok := records[id]
	if !ok || e.busy == 0 {
		mu.Unlock()
		return
	}
	e.busy--
	if e.busy > 0 || !e.taken {
		mu.Unlock()
		return
	}
	delete(records, id)
	mu.Unlock()
	if e.dispose != nil {
		e.dispose(e.value)
	}
}

// Release removes id and returns its value. dispose, if not nil, is called
// with the value right away or, while a callback for id is running, by the
// Leave that ends it. Only the first call for a given token returns true.
func Release(id uintptr, dispose func(any)) (any, bool) {
	mu.Lock()
	e, ok := records[id]
	if !ok || e.taken {
		mu.Unlock()
		return nil, false
	}
	e.taken = true
	live--
	if e.busy > 0 {
		e.dispose = dispose
		mu.Unlock()
		return e.value, true
	}
	delete(records, id)
	mu.Unlock()
	if dispose != nil {
		dispose(e.value)
	}
	return e.value, true
}

// Pending returns the number of released records whose disposal waits for
// a running callback.
func Pending() int {
	mu.Lock()
	defer mu.Unlock()
	return len(records) - live
}

// Count returns the number of records still owned by the host.
// Tests use it as a leak detector.
func Count() int {
	mu.Lock()
	defer mu.Unlock()
	return live
}
