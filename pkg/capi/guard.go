// SPDX-License-Identifier: Apache-2.0
package capi

import (
	"errors"
	"fmt"
)

// guard runs fn on the issuing side of the boundary and flattens any
// failure — returned error or panic — to an ErrorCode, copying the message
// into errOut (truncated at its capacity if necessary; the code is kept in
// that case, not replaced by CodeLengthError).
func guard(errOut *StringView, fn func() error) (code ErrorCode) {
	defer func() {
		if r := recover(); r != nil {
			code = CodeUnknown
			if errOut != nil {
				errOut.Set(fmt.Sprint(r))
			}
		}
	}()
	if err := fn(); err != nil {
		if errOut != nil {
			errOut.Set(err.Error())
		}
		return codeFor(err)
	}
	return CodeOK
}

// codeFor maps an error to its boundary code.
func codeFor(err error) ErrorCode {
	var oor *outOfRangeError
	if errors.As(err, &oor) {
		return CodeOutOfRange
	}
	var bva *badVariantError
	if errors.As(err, &bva) {
		return CodeBadVariantAccess
	}
	return CodeException
}

// errorFromCode reconstructs an error on the receiving side. The specific
// error identity is lost crossing the boundary; only "<code>: <message>"
// survives. Returns nil for CodeOK.
func errorFromCode(code ErrorCode, errOut *StringView) error {
	if code == CodeOK {
		return nil
	}
	msg := ""
	if errOut != nil {
		msg = errOut.String()
	}
	return fmt.Errorf("%d: %s", int32(code), msg)
}
