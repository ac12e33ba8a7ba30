// SPDX-License-Identifier: Apache-2.0
// Package capi is the language-agnostic calling boundary: opaque integer
// handles, plain structs of function values ("suites"), fixed-capacity
// string buffers, and a narrow error-code channel replacing typed errors.
//
// A manager implemented behind this boundary shares no error types or
// container layouts with the host. Every suite function returns an
// ErrorCode; failures are flattened to a code plus a message copied into a
// caller-owned StringView, and reconstructed approximately on the receiving
// side. Shared ownership is mirrored by keeping the issuing side's object
// registered in an arena for at least as long as any handle derived from it
// is in use.
package capi

import "fmt"

// ErrorCode is the integer status every boundary function returns. Numeric
// values are part of the ABI and must stay stable across releases; new codes
// are additive-only.
type ErrorCode int32

const (
	// CodeOK signals success.
	CodeOK ErrorCode = 0

	// CodeUnknown signals a failure with no further classification, e.g. a
	// recovered panic.
	CodeUnknown ErrorCode = 1

	// CodeException signals a typed error flattened at the boundary.
	CodeException ErrorCode = 2

	// CodeOutOfRange signals an index or key outside the valid range.
	CodeOutOfRange ErrorCode = 3

	// CodeBadVariantAccess signals a typed accessor applied to a value of
	// a different type.
	CodeBadVariantAccess ErrorCode = 4

	// CodeLengthError signals an output string was truncated to the
	// buffer's capacity. The output is usable; treat as truncated, not
	// failed.
	CodeLengthError ErrorCode = 5
)

// String returns the stable name of the code.
func (c ErrorCode) String() string {
	switch c {
	case CodeOK:
		return "ok"
	case CodeUnknown:
		return "unknown"
	case CodeException:
		return "exception"
	case CodeOutOfRange:
		return "outOfRange"
	case CodeBadVariantAccess:
		return "badVariantAccess"
	case CodeLengthError:
		return "lengthError"
	default:
		return fmt.Sprintf("ErrorCode(%d)", int32(c))
	}
}

// outOfRangeError marks failures that flatten to CodeOutOfRange.
type outOfRangeError struct{ msg string }

func (e *outOfRangeError) Error() string { return e.msg }

// badVariantError marks failures that flatten to CodeBadVariantAccess.
type badVariantError struct{ msg string }

func (e *badVariantError) Error() string { return e.msg }
