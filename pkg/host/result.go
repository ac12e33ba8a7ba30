// SPDX-License-Identifier: Apache-2.0
// Package host provides the host-facing Manager facade. It wraps a plugin's
// manager.Interface together with a HostSession, and derives from each
// primitive callback-based batch operation two convenience calling
// conventions: fail-fast (the first error callback, in firing order, becomes
// the call's returned error) and exhaustive (every outcome is collected into
// an index-aligned Result slice).
package host

import (
	"github.com/OpenAssetIO/OpenAssetIO-sub000/pkg/errors"
)

// Result is the per-element outcome of an exhaustive batch call: either a
// success value or a BatchElementError, never both.
type Result[T any] struct {
	value T
	err   *errors.BatchElementError
}

// OK wraps a success value.
func OK[T any](v T) Result[T] {
	return Result[T]{value: v}
}

// Failed wraps a per-element error.
func Failed[T any](e errors.BatchElementError) Result[T] {
	return Result[T]{err: &e}
}

// IsError reports whether the element failed.
func (r Result[T]) IsError() bool { return r.err != nil }

// Value returns the success value, and false if the element failed.
func (r Result[T]) Value() (T, bool) {
	if r.err != nil {
		var zero T
		return zero, false
	}
	return r.value, true
}

// Err returns the element error, and false if the element succeeded.
func (r Result[T]) Err() (errors.BatchElementError, bool) {
	if r.err == nil {
		return errors.BatchElementError{}, false
	}
	return *r.err, true
}
