// SPDX-License-Identifier: Apache-2.0
package capi

// StringView is a caller-owned, fixed-capacity mutable string buffer.
// Capacity is set at construction and never changes; writes truncate
// silently at capacity. It mirrors the C layout {capacity, data, size}
// without exposing the raw pointer.
type StringView struct {
	buf  []byte
	size int
}

// NewStringView allocates a buffer of the given capacity.
func NewStringView(capacity int) *StringView {
	if capacity < 0 {
		capacity = 0
	}
	return &StringView{buf: make([]byte, capacity)}
}

// Capacity returns the fixed buffer capacity in bytes.
func (v *StringView) Capacity() int { return len(v.buf) }

// Size returns the byte length of the current contents.
func (v *StringView) Size() int { return v.size }

// String returns the current contents.
func (v *StringView) String() string { return string(v.buf[:v.size]) }

// Set copies s into the buffer, truncating at capacity. Returns
// CodeLengthError when s did not fit — the buffer then holds the first
// Capacity() bytes of s and Size() == Capacity() — and CodeOK otherwise.
func (v *StringView) Set(s string) ErrorCode {
	n := copy(v.buf, s)
	v.size = n
	if n < len(s) {
		return CodeLengthError
	}
	return CodeOK
}

// ConstStringView is a read-only view of string data passed into the
// boundary, mirroring the C layout {data, size}.
type ConstStringView struct {
	s string
}

// NewConstStringView wraps s.
func NewConstStringView(s string) ConstStringView {
	return ConstStringView{s: s}
}

// Size returns the byte length of the viewed data.
func (v ConstStringView) Size() int { return len(v.s) }

// String returns the viewed data.
func (v ConstStringView) String() string { return v.s }
