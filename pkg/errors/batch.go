// SPDX-License-Identifier: Apache-2.0
package errors

import "fmt"

// BatchElementException is implemented by every per-code batch error type.
// It carries the originating batch index alongside the element error, and is
// the "common base" callers can match with errors.As when they do not care
// which specific code fired.
type BatchElementException interface {
	error

	// ElementIndex is the position of the failed element in the input batch.
	ElementIndex() int

	// ElementError is the underlying code and message.
	ElementError() BatchElementError
}

// batchElement is the shared carrier embedded by every concrete type.
// Fields are unexported so a concrete type can only be minted through its
// constructor, which fixes the matching code.
type batchElement struct {
	index int
	err   BatchElementError
}

// Error returns the element error's message verbatim.
func (e batchElement) Error() string { return e.err.Message }

func (e batchElement) ElementIndex() int { return e.index }

func (e batchElement) ElementError() BatchElementError { return e.err }

// UnknownBatchElementError corresponds to CodeUnknown.
type UnknownBatchElementError struct{ batchElement }

// NewUnknownBatchElementError creates the CodeUnknown batch error.
func NewUnknownBatchElementError(index int, msg string) *UnknownBatchElementError {
	return &UnknownBatchElementError{batchElement{index, BatchElementError{CodeUnknown, msg}}}
}

// InvalidEntityReferenceBatchElementError corresponds to CodeInvalidEntityReference.
type InvalidEntityReferenceBatchElementError struct{ batchElement }

// NewInvalidEntityReferenceBatchElementError creates the
// CodeInvalidEntityReference batch error.
func NewInvalidEntityReferenceBatchElementError(index int, msg string) *InvalidEntityReferenceBatchElementError {
	return &InvalidEntityReferenceBatchElementError{batchElement{index, BatchElementError{CodeInvalidEntityReference, msg}}}
}

// MalformedEntityReferenceBatchElementError corresponds to CodeMalformedEntityReference.
type MalformedEntityReferenceBatchElementError struct{ batchElement }

// NewMalformedEntityReferenceBatchElementError creates the
// CodeMalformedEntityReference batch error.
func NewMalformedEntityReferenceBatchElementError(index int, msg string) *MalformedEntityReferenceBatchElementError {
	return &MalformedEntityReferenceBatchElementError{batchElement{index, BatchElementError{CodeMalformedEntityReference, msg}}}
}

// EntityAccessBatchElementError corresponds to CodeEntityAccessError.
type EntityAccessBatchElementError struct{ batchElement }

// NewEntityAccessBatchElementError creates the CodeEntityAccessError batch error.
func NewEntityAccessBatchElementError(index int, msg string) *EntityAccessBatchElementError {
	return &EntityAccessBatchElementError{batchElement{index, BatchElementError{CodeEntityAccessError, msg}}}
}

// EntityResolutionBatchElementError corresponds to CodeEntityResolutionError.
type EntityResolutionBatchElementError struct{ batchElement }

// NewEntityResolutionBatchElementError creates the CodeEntityResolutionError
// batch error.
func NewEntityResolutionBatchElementError(index int, msg string) *EntityResolutionBatchElementError {
	return &EntityResolutionBatchElementError{batchElement{index, BatchElementError{CodeEntityResolutionError, msg}}}
}

// InvalidPreflightHintBatchElementError corresponds to CodeInvalidPreflightHint.
type InvalidPreflightHintBatchElementError struct{ batchElement }

// NewInvalidPreflightHintBatchElementError creates the
// CodeInvalidPreflightHint batch error.
func NewInvalidPreflightHintBatchElementError(index int, msg string) *InvalidPreflightHintBatchElementError {
	return &InvalidPreflightHintBatchElementError{batchElement{index, BatchElementError{CodeInvalidPreflightHint, msg}}}
}

// InvalidTraitSetBatchElementError corresponds to CodeInvalidTraitSet.
type InvalidTraitSetBatchElementError struct{ batchElement }

// NewInvalidTraitSetBatchElementError creates the CodeInvalidTraitSet batch error.
func NewInvalidTraitSetBatchElementError(index int, msg string) *InvalidTraitSetBatchElementError {
	return &InvalidTraitSetBatchElementError{batchElement{index, BatchElementError{CodeInvalidTraitSet, msg}}}
}

// FromBatchElementError mints the concrete typed error for err.Code.
// The mapping is total over ErrorCodes(); an out-of-range code falls back to
// UnknownBatchElementError with the original message, so a future code added
// by a newer manager still surfaces rather than panicking.
func FromBatchElementError(index int, err BatchElementError) BatchElementException {
	switch err.Code {
	case CodeUnknown:
		return NewUnknownBatchElementError(index, err.Message)
	case CodeInvalidEntityReference:
		return NewInvalidEntityReferenceBatchElementError(index, err.Message)
	case CodeMalformedEntityReference:
		return NewMalformedEntityReferenceBatchElementError(index, err.Message)
	case CodeEntityAccessError:
		return NewEntityAccessBatchElementError(index, err.Message)
	case CodeEntityResolutionError:
		return NewEntityResolutionBatchElementError(index, err.Message)
	case CodeInvalidPreflightHint:
		return NewInvalidPreflightHintBatchElementError(index, err.Message)
	case CodeInvalidTraitSet:
		return NewInvalidTraitSetBatchElementError(index, err.Message)
	default:
		return NewUnknownBatchElementError(index,
			fmt.Sprintf("%s (unrecognised code %d)", err.Message, int(err.Code)))
	}
}
