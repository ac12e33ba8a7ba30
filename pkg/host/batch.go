// SPDX-License-Identifier: Apache-2.0
package host

import (
	"fmt"

	"github.com/OpenAssetIO/OpenAssetIO-sub000/pkg/errors"
)

// batchCall invokes one primitive callback operation with the supplied
// adapter callbacks. The facade wraps each manager.Interface batch method in
// one of these so the convenience machinery below stays generic.
type batchCall[T any] func(success func(int, T), fail func(int, errors.BatchElementError)) error

// allOf implements the fail-fast convention over a primitive of n elements.
// The first error callback to fire, in firing order rather than index order,
// is converted to its typed batch error and returned; callback invocations
// after that first error are discarded unobserved. The success slice is
// returned only if no error ever fired and every index reported exactly once.
func allOf[T any](n int, call batchCall[T]) ([]T, error) {
	out := make([]T, n)
	filled := make([]bool, n)
	var firstErr errors.BatchElementException
	var violation error

	success := func(i int, v T) {
		if firstErr != nil || violation != nil {
			return
		}
		if i < 0 || i >= n {
			violation = contractViolation(i, n)
			return
		}
		out[i] = v
		filled[i] = true
	}
	fail := func(i int, e errors.BatchElementError) {
		if firstErr != nil || violation != nil {
			return
		}
		firstErr = errors.FromBatchElementError(i, e)
	}

	if err := call(success, fail); err != nil {
		return nil, err
	}
	if violation != nil {
		return nil, violation
	}
	if firstErr != nil {
		return nil, firstErr
	}
	for i, ok := range filled {
		if !ok {
			return nil, missingOutcome(i)
		}
	}
	return out, nil
}

// eachOf implements the exhaustive convention over a primitive of n
// elements: slot i of the returned slice corresponds to input index i,
// regardless of the order the callbacks actually fired in. The returned
// error is reserved for systemic (whole-batch) failures.
func eachOf[T any](n int, call batchCall[T]) ([]Result[T], error) {
	out := make([]Result[T], n)
	filled := make([]bool, n)
	var violation error

	record := func(i int, r Result[T]) {
		if violation != nil {
			return
		}
		if i < 0 || i >= n {
			violation = contractViolation(i, n)
			return
		}
		out[i] = r
		filled[i] = true
	}

	err := call(
		func(i int, v T) { record(i, OK(v)) },
		func(i int, e errors.BatchElementError) { record(i, Failed[T](e)) },
	)
	if err != nil {
		return nil, err
	}
	if violation != nil {
		return nil, violation
	}
	for i, ok := range filled {
		if !ok {
			return nil, missingOutcome(i)
		}
	}
	return out, nil
}

// oneOf runs a single-element batch through the fail-fast convention and
// unwraps the result.
func oneOf[T any](call batchCall[T]) (T, error) {
	out, err := allOf(1, call)
	if err != nil {
		var zero T
		return zero, err
	}
	return out[0], nil
}

// oneResultOf runs a single-element batch through the exhaustive convention
// and unwraps the result.
func oneResultOf[T any](call batchCall[T]) (Result[T], error) {
	out, err := eachOf(1, call)
	if err != nil {
		return Result[T]{}, err
	}
	return out[0], nil
}

func contractViolation(i, n int) error {
	return errors.NewUnhandled(
		fmt.Sprintf("manager reported an outcome for element %d of a %d-element batch", i, n), nil)
}

func missingOutcome(i int) error {
	return errors.NewUnhandled(
		fmt.Sprintf("manager reported no outcome for element %d", i), nil)
}
