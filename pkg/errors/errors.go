// SPDX-License-Identifier: Apache-2.0
// Package errors defines the middleware error taxonomy: per-element batch
// errors with a closed code enum, and the systemic error types raised for
// whole-call failures.
package errors

import "fmt"

// ErrorCode classifies a per-element failure within a batch operation.
// The set is closed; new codes are additive-only and never renumbered.
type ErrorCode int

const (
	// CodeUnknown is a fallback for errors with no more specific code.
	CodeUnknown ErrorCode = iota

	// CodeInvalidEntityReference indicates a reference not known to the
	// manager, though syntactically plausible.
	CodeInvalidEntityReference

	// CodeMalformedEntityReference indicates a reference the manager
	// cannot parse at all.
	CodeMalformedEntityReference

	// CodeEntityAccessError indicates the entity exists but the requested
	// access is denied.
	CodeEntityAccessError

	// CodeEntityResolutionError indicates the entity could not be resolved
	// to data for the requested traits.
	CodeEntityResolutionError

	// CodeInvalidPreflightHint indicates the hint data supplied to a
	// preflight call was unusable.
	CodeInvalidPreflightHint

	// CodeInvalidTraitSet indicates the trait set supplied to the call is
	// not one the manager can service.
	CodeInvalidTraitSet
)

// String returns the stable name of the code.
func (c ErrorCode) String() string {
	switch c {
	case CodeUnknown:
		return "unknown"
	case CodeInvalidEntityReference:
		return "invalidEntityReference"
	case CodeMalformedEntityReference:
		return "malformedEntityReference"
	case CodeEntityAccessError:
		return "entityAccessError"
	case CodeEntityResolutionError:
		return "entityResolutionError"
	case CodeInvalidPreflightHint:
		return "invalidPreflightHint"
	case CodeInvalidTraitSet:
		return "invalidTraitSet"
	default:
		return fmt.Sprintf("ErrorCode(%d)", int(c))
	}
}

// ErrorCodes lists every defined code, in declaration order. Tests iterate
// this to assert the code/type mapping stays total.
func ErrorCodes() []ErrorCode {
	return []ErrorCode{
		CodeUnknown,
		CodeInvalidEntityReference,
		CodeMalformedEntityReference,
		CodeEntityAccessError,
		CodeEntityResolutionError,
		CodeInvalidPreflightHint,
		CodeInvalidTraitSet,
	}
}

// BatchElementError is a per-element failure reported through a batch
// operation's error callback. It is expected, never fatal to the rest of
// the batch.
type BatchElementError struct {
	Code    ErrorCode
	Message string
}

// Error returns the message verbatim, without code decoration.
func (e BatchElementError) Error() string {
	return e.Message
}

// NotImplementedError is returned when an optional method group is invoked
// on a manager that does not advertise the corresponding capability.
// Recoverable by checking HasCapability first.
type NotImplementedError struct {
	Message string
}

func (e *NotImplementedError) Error() string { return e.Message }

// NewNotImplemented creates a NotImplementedError.
func NewNotImplemented(msg string) *NotImplementedError {
	return &NotImplementedError{Message: msg}
}

// InputValidationError indicates caller misuse: arguments that violate the
// calling contract before the manager is ever consulted.
type InputValidationError struct {
	Message string
}

func (e *InputValidationError) Error() string { return e.Message }

// NewInputValidation creates an InputValidationError.
func NewInputValidation(msg string) *InputValidationError {
	return &InputValidationError{Message: msg}
}

// ConfigurationError indicates invalid manager settings or a misconfigured
// environment.
type ConfigurationError struct {
	Message string
}

func (e *ConfigurationError) Error() string { return e.Message }

// NewConfiguration creates a ConfigurationError.
func NewConfiguration(msg string) *ConfigurationError {
	return &ConfigurationError{Message: msg}
}

// UnhandledError wraps a failure a manager raised that the middleware could
// not classify, including recovered panics at the call boundary.
type UnhandledError struct {
	Message string
	Err     error
}

func (e *UnhandledError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *UnhandledError) Unwrap() error { return e.Err }

// NewUnhandled wraps an unclassified failure.
func NewUnhandled(msg string, cause error) *UnhandledError {
	return &UnhandledError{Message: msg, Err: cause}
}
