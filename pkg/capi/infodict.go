// SPDX-License-Identifier: Apache-2.0
package capi

import (
	"fmt"
	"sort"
)

// infoDictArena holds every live info-dictionary on this side of the
// boundary. Dict contents are restricted to bool, int64, float64 and string.
var infoDictArena = NewArena[map[string]any]()

// ValueType tags the dynamic type of an info-dictionary entry.
type ValueType int32

const (
	ValueTypeBool ValueType = iota
	ValueTypeInt
	ValueTypeFloat
	ValueTypeStr
)

// InfoDictSuite is the function-pointer suite for a string-keyed dictionary
// of bool/int/float/string values, the boundary form of a manager's info
// map. The Handle owner calls Dtor exactly once when done.
type InfoDictSuite struct {
	Ctor func(errOut *StringView, out *Handle) ErrorCode
	Dtor func(h Handle)

	Size   func(errOut *StringView, out *uint64, h Handle) ErrorCode
	TypeOf func(errOut *StringView, out *ValueType, h Handle, key ConstStringView) ErrorCode

	// KeyAt yields the i-th key in sorted order, truncating into out with
	// CodeLengthError if needed. An index past the end is CodeOutOfRange.
	KeyAt func(errOut *StringView, out *StringView, h Handle, i uint64) ErrorCode

	// Typed getters: a missing key is CodeOutOfRange, a type mismatch is
	// CodeBadVariantAccess. GetStr truncates into out with CodeLengthError.
	GetBool  func(errOut *StringView, out *bool, h Handle, key ConstStringView) ErrorCode
	GetInt   func(errOut *StringView, out *int64, h Handle, key ConstStringView) ErrorCode
	GetFloat func(errOut *StringView, out *float64, h Handle, key ConstStringView) ErrorCode
	GetStr   func(errOut *StringView, out *StringView, h Handle, key ConstStringView) ErrorCode

	SetBool  func(errOut *StringView, h Handle, key ConstStringView, v bool) ErrorCode
	SetInt   func(errOut *StringView, h Handle, key ConstStringView, v int64) ErrorCode
	SetFloat func(errOut *StringView, h Handle, key ConstStringView, v float64) ErrorCode
	SetStr   func(errOut *StringView, h Handle, key ConstStringView, v ConstStringView) ErrorCode
}

func resolveDict(h Handle) (map[string]any, error) {
	d, ok := infoDictArena.Resolve(h)
	if !ok {
		return nil, fmt.Errorf("unknown InfoDict handle %d", h)
	}
	return d, nil
}

func dictValue(h Handle, key string) (any, error) {
	d, err := resolveDict(h)
	if err != nil {
		return nil, err
	}
	v, ok := d[key]
	if !ok {
		return nil, &outOfRangeError{msg: fmt.Sprintf("no such key %q", key)}
	}
	return v, nil
}

// NewInfoDictSuite creates the suite bound to this side's dictionary arena.
func NewInfoDictSuite() InfoDictSuite {
	return InfoDictSuite{
		Ctor: func(errOut *StringView, out *Handle) ErrorCode {
			return guard(errOut, func() error {
				*out = infoDictArena.Issue(map[string]any{})
				return nil
			})
		},
		Dtor: func(h Handle) {
			infoDictArena.Release(h)
		},
		Size: func(errOut *StringView, out *uint64, h Handle) ErrorCode {
			return guard(errOut, func() error {
				d, err := resolveDict(h)
				if err != nil {
					return err
				}
				*out = uint64(len(d))
				return nil
			})
		},
		TypeOf: func(errOut *StringView, out *ValueType, h Handle, key ConstStringView) ErrorCode {
			return guard(errOut, func() error {
				v, err := dictValue(h, key.String())
				if err != nil {
					return err
				}
				switch v.(type) {
				case bool:
					*out = ValueTypeBool
				case int64:
					*out = ValueTypeInt
				case float64:
					*out = ValueTypeFloat
				case string:
					*out = ValueTypeStr
				default:
					return &badVariantError{msg: fmt.Sprintf("unsupported value type %T", v)}
				}
				return nil
			})
		},
		KeyAt: func(errOut *StringView, out *StringView, h Handle, i uint64) ErrorCode {
			d, err := resolveDict(h)
			if err != nil {
				return guard(errOut, func() error { return err })
			}
			keys := make([]string, 0, len(d))
			for k := range d {
				keys = append(keys, k)
			}
			sort.Strings(keys)
			if i >= uint64(len(keys)) {
				return guard(errOut, func() error {
					return &outOfRangeError{msg: fmt.Sprintf("index %d out of range [0, %d)", i, len(keys))}
				})
			}
			return out.Set(keys[i])
		},
		GetBool: func(errOut *StringView, out *bool, h Handle, key ConstStringView) ErrorCode {
			return guard(errOut, func() error {
				v, err := dictValue(h, key.String())
				if err != nil {
					return err
				}
				b, ok := v.(bool)
				if !ok {
					return &badVariantError{msg: fmt.Sprintf("%q holds %T, not bool", key, v)}
				}
				*out = b
				return nil
			})
		},
		GetInt: func(errOut *StringView, out *int64, h Handle, key ConstStringView) ErrorCode {
			return guard(errOut, func() error {
				v, err := dictValue(h, key.String())
				if err != nil {
					return err
				}
				n, ok := v.(int64)
				if !ok {
					return &badVariantError{msg: fmt.Sprintf("%q holds %T, not int64", key, v)}
				}
				*out = n
				return nil
			})
		},
		GetFloat: func(errOut *StringView, out *float64, h Handle, key ConstStringView) ErrorCode {
			return guard(errOut, func() error {
				v, err := dictValue(h, key.String())
				if err != nil {
					return err
				}
				f, ok := v.(float64)
				if !ok {
					return &badVariantError{msg: fmt.Sprintf("%q holds %T, not float64", key, v)}
				}
				*out = f
				return nil
			})
		},
		GetStr: func(errOut *StringView, out *StringView, h Handle, key ConstStringView) ErrorCode {
			var s string
			code := guard(errOut, func() error {
				v, err := dictValue(h, key.String())
				if err != nil {
					return err
				}
				str, ok := v.(string)
				if !ok {
					return &badVariantError{msg: fmt.Sprintf("%q holds %T, not string", key, v)}
				}
				s = str
				return nil
			})
			if code != CodeOK {
				return code
			}
			return out.Set(s)
		},
		SetBool: func(errOut *StringView, h Handle, key ConstStringView, v bool) ErrorCode {
			return setDictValue(errOut, h, key.String(), v)
		},
		SetInt: func(errOut *StringView, h Handle, key ConstStringView, v int64) ErrorCode {
			return setDictValue(errOut, h, key.String(), v)
		},
		SetFloat: func(errOut *StringView, h Handle, key ConstStringView, v float64) ErrorCode {
			return setDictValue(errOut, h, key.String(), v)
		},
		SetStr: func(errOut *StringView, h Handle, key ConstStringView, v ConstStringView) ErrorCode {
			return setDictValue(errOut, h, key.String(), v.String())
		},
	}
}

func setDictValue(errOut *StringView, h Handle, key string, v any) ErrorCode {
	return guard(errOut, func() error {
		d, err := resolveDict(h)
		if err != nil {
			return err
		}
		d[key] = v
		return nil
	})
}

// exportInfo registers a copy of m in the dictionary arena. Values outside
// the boundary's type set are rejected.
func exportInfo(m map[string]any) (Handle, error) {
	out := make(map[string]any, len(m))
	for k, v := range m {
		switch v.(type) {
		case bool, int64, float64, string:
			out[k] = v
		default:
			return 0, fmt.Errorf("info key %q has unsupported type %T", k, v)
		}
	}
	return infoDictArena.Issue(out), nil
}

// importInfo reads a whole dictionary back through its suite, for adapters
// on the receiving side.
func importInfo(suite InfoDictSuite, h Handle) (map[string]any, error) {
	errOut := NewStringView(256)
	var size uint64
	if err := errorFromCode(suite.Size(errOut, &size, h), errOut); err != nil {
		return nil, err
	}
	out := make(map[string]any, size)
	for i := uint64(0); i < size; i++ {
		key := fetchString(func(buf *StringView) ErrorCode {
			return suite.KeyAt(errOut, buf, h, i)
		})
		keyView := NewConstStringView(key)

		var vt ValueType
		if err := errorFromCode(suite.TypeOf(errOut, &vt, h, keyView), errOut); err != nil {
			return nil, err
		}
		switch vt {
		case ValueTypeBool:
			var b bool
			if err := errorFromCode(suite.GetBool(errOut, &b, h, keyView), errOut); err != nil {
				return nil, err
			}
			out[key] = b
		case ValueTypeInt:
			var n int64
			if err := errorFromCode(suite.GetInt(errOut, &n, h, keyView), errOut); err != nil {
				return nil, err
			}
			out[key] = n
		case ValueTypeFloat:
			var f float64
			if err := errorFromCode(suite.GetFloat(errOut, &f, h, keyView), errOut); err != nil {
				return nil, err
			}
			out[key] = f
		case ValueTypeStr:
			out[key] = fetchString(func(buf *StringView) ErrorCode {
				return suite.GetStr(errOut, buf, h, keyView)
			})
		}
	}
	return out, nil
}
