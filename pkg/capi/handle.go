// SPDX-License-Identifier: Apache-2.0
package capi

import "sync"

// Handle is an opaque integer standing in for an object on the issuing side
// of the boundary. The consuming side never dereferences it; it only passes
// it back into suite functions. Zero is never a valid handle.
//
// Every handle type has an explicit dtor. Releasing a handle twice, or using
// it after release, is a caller error the boundary detects only on a
// best-effort basis.
type Handle uint64

// Arena is a slot map pairing handles with the objects they stand for. It
// keeps the issuing side's object alive for as long as the handle is
// registered, mirroring shared ownership across the boundary.
type Arena[T any] struct {
	mu    sync.Mutex
	next  Handle
	slots map[Handle]T
}

// NewArena creates an empty arena.
func NewArena[T any]() *Arena[T] {
	return &Arena[T]{slots: make(map[Handle]T)}
}

// Issue registers v and returns its handle.
func (a *Arena[T]) Issue(v T) Handle {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.next++
	a.slots[a.next] = v
	return a.next
}

// Resolve returns the object a live handle stands for.
func (a *Arena[T]) Resolve(h Handle) (T, bool) {
	a.mu.Lock()
	defer a.mu.Unlock()
	v, ok := a.slots[h]
	return v, ok
}

// Release drops the handle, ending the arena's hold on the object. Returns
// false if the handle was not live, i.e. a double release or a stranger.
func (a *Arena[T]) Release(h Handle) bool {
	a.mu.Lock()
	defer a.mu.Unlock()
	if _, ok := a.slots[h]; !ok {
		return false
	}
	delete(a.slots, h)
	return true
}

// Len returns the number of live handles, for leak checks in tests.
func (a *Arena[T]) Len() int {
	a.mu.Lock()
	defer a.mu.Unlock()
	return len(a.slots)
}
