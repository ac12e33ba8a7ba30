// SPDX-License-Identifier: Apache-2.0
package capi

import (
	"context"
	"fmt"

	"github.com/OpenAssetIO/OpenAssetIO-sub000/pkg/core"
	"github.com/OpenAssetIO/OpenAssetIO-sub000/pkg/errors"
	"github.com/OpenAssetIO/OpenAssetIO-sub000/pkg/manager"
	"github.com/OpenAssetIO/OpenAssetIO-sub000/pkg/trait"
)

// managerArena keeps exported manager implementations alive while any
// handle derived from them is in use on the other side.
var managerArena = NewArena[*exportedManager]()

type exportedManager struct {
	iface   manager.Interface
	session *core.HostSession
}

// ManagerInterfaceSuite is the function-pointer suite for the identification
// surface of a manager: identity, capability probing, reference checks and
// initialization. Batched entity operations do not cross this boundary;
// they stay with the in-process Interface.
//
// Every function returns an ErrorCode and reports failure detail through
// errOut. The Handle owner calls Dtor exactly once when done; the handle is
// dead afterwards.
type ManagerInterfaceSuite struct {
	Dtor func(h Handle)

	// Identifier and DisplayName truncate into out with CodeLengthError
	// when the buffer is too small; out then holds the leading bytes.
	Identifier  func(errOut *StringView, out *StringView, h Handle) ErrorCode
	DisplayName func(errOut *StringView, out *StringView, h Handle) ErrorCode

	// Info fills the supplied InfoDict handle with the manager's info.
	Info func(errOut *StringView, out Handle, h Handle) ErrorCode

	HasCapability func(errOut *StringView, out *bool, h Handle, capability int32) ErrorCode

	IsEntityReferenceString func(errOut *StringView, out *bool, h Handle, s ConstStringView) ErrorCode

	Initialize func(errOut *StringView, h Handle) ErrorCode
}

func resolveManager(h Handle) (*exportedManager, error) {
	m, ok := managerArena.Resolve(h)
	if !ok {
		return nil, fmt.Errorf("unknown manager interface handle %d", h)
	}
	return m, nil
}

// ExportManagerInterface registers a manager implementation for consumption
// through the suite. The returned handle owns a reference that keeps iface
// alive until the suite's Dtor is called.
func ExportManagerInterface(iface manager.Interface, session *core.HostSession) (ManagerInterfaceSuite, Handle) {
	h := managerArena.Issue(&exportedManager{iface: iface, session: session})
	suite := ManagerInterfaceSuite{
		Dtor: func(h Handle) {
			managerArena.Release(h)
		},
		Identifier: func(errOut *StringView, out *StringView, h Handle) ErrorCode {
			var s string
			code := guard(errOut, func() error {
				m, err := resolveManager(h)
				if err != nil {
					return err
				}
				s = m.iface.Identifier()
				return nil
			})
			if code != CodeOK {
				return code
			}
			return out.Set(s)
		},
		DisplayName: func(errOut *StringView, out *StringView, h Handle) ErrorCode {
			var s string
			code := guard(errOut, func() error {
				m, err := resolveManager(h)
				if err != nil {
					return err
				}
				s = m.iface.DisplayName()
				return nil
			})
			if code != CodeOK {
				return code
			}
			return out.Set(s)
		},
		Info: func(errOut *StringView, out Handle, h Handle) ErrorCode {
			return guard(errOut, func() error {
				m, err := resolveManager(h)
				if err != nil {
					return err
				}
				dict, err := resolveDict(out)
				if err != nil {
					return err
				}
				for k, v := range m.iface.Info() {
					switch v.(type) {
					case bool, int64, float64, string:
						dict[k] = v
					default:
						return &badVariantError{msg: fmt.Sprintf("info key %q has unsupported type %T", k, v)}
					}
				}
				return nil
			})
		},
		HasCapability: func(errOut *StringView, out *bool, h Handle, capability int32) ErrorCode {
			return guard(errOut, func() error {
				m, err := resolveManager(h)
				if err != nil {
					return err
				}
				*out = m.iface.HasCapability(manager.Capability(capability))
				return nil
			})
		},
		IsEntityReferenceString: func(errOut *StringView, out *bool, h Handle, s ConstStringView) ErrorCode {
			return guard(errOut, func() error {
				m, err := resolveManager(h)
				if err != nil {
					return err
				}
				*out = m.iface.IsEntityReferenceString(s.String(), m.session)
				return nil
			})
		},
		Initialize: func(errOut *StringView, h Handle) ErrorCode {
			return guard(errOut, func() error {
				m, err := resolveManager(h)
				if err != nil {
					return err
				}
				return m.iface.Initialize(context.Background(), map[string]any{}, m.session)
			})
		},
	}
	return suite, h
}

// fetchString reads a string output through a suite function, growing the
// buffer and retrying while the callee reports truncation.
func fetchString(call func(buf *StringView) ErrorCode) string {
	capacity := 256
	for {
		buf := NewStringView(capacity)
		code := call(buf)
		if code == CodeLengthError {
			capacity *= 2
			continue
		}
		if code != CodeOK {
			return ""
		}
		return buf.String()
	}
}

// importedManager adapts a suite+handle pair back into a manager.Interface.
// Identification is fetched once at construction; Base supplies
// not-implemented defaults for everything the suite does not carry.
type importedManager struct {
	manager.Base

	suite       ManagerInterfaceSuite
	h           Handle
	identifier  string
	displayName string
	info        map[string]any
	dictSuite   InfoDictSuite
}

var _ manager.Interface = (*importedManager)(nil)

// NewManagerInterfaceFromCAPI adapts a suite+handle pair into a
// manager.Interface. Identification (identifier, display name, info) is
// fetched eagerly so the constructor is the one place boundary failures for
// those surface. The caller remains responsible for the handle's Dtor, and
// must not call it while the returned Interface is in use.
func NewManagerInterfaceFromCAPI(suite ManagerInterfaceSuite, h Handle) (manager.Interface, error) {
	errOut := NewStringView(256)

	m := &importedManager{suite: suite, h: h, dictSuite: NewInfoDictSuite()}

	m.identifier = fetchString(func(buf *StringView) ErrorCode {
		return suite.Identifier(errOut, buf, h)
	})
	if m.identifier == "" {
		// Distinguish "empty identifier" from a boundary failure.
		probe := NewStringView(256)
		if code := suite.Identifier(errOut, probe, h); code != CodeOK && code != CodeLengthError {
			return nil, errorFromCode(code, errOut)
		}
	}
	m.displayName = fetchString(func(buf *StringView) ErrorCode {
		return suite.DisplayName(errOut, buf, h)
	})

	var dictHandle Handle
	if err := errorFromCode(m.dictSuite.Ctor(errOut, &dictHandle), errOut); err != nil {
		return nil, err
	}
	defer m.dictSuite.Dtor(dictHandle)
	if err := errorFromCode(suite.Info(errOut, dictHandle, h), errOut); err != nil {
		return nil, err
	}
	info, err := importInfo(m.dictSuite, dictHandle)
	if err != nil {
		return nil, err
	}
	m.info = info

	return m, nil
}

func (m *importedManager) Identifier() string { return m.identifier }

func (m *importedManager) DisplayName() string { return m.displayName }

func (m *importedManager) Info() map[string]any { return m.info }

func (m *importedManager) Initialize(_ context.Context, settings map[string]any, _ *core.HostSession) error {
	if len(settings) > 0 {
		return fmt.Errorf("settings cannot cross the suite boundary")
	}
	errOut := NewStringView(512)
	return errorFromCode(m.suite.Initialize(errOut, m.h), errOut)
}

// ManagementPolicy does not cross the suite boundary; the adapter answers
// conservatively that nothing is managed.
func (m *importedManager) ManagementPolicy(traitSets []trait.Set, _ core.Access,
	_ *core.Context, _ *core.HostSession) ([]*trait.TraitsData, error) {
	policies := make([]*trait.TraitsData, len(traitSets))
	for i := range traitSets {
		policies[i] = trait.NewTraitsData()
	}
	return policies, nil
}

// EntityTraits does not cross the suite boundary either; unlike policy there
// is no safe conservative answer, so the call fails whole-batch.
func (m *importedManager) EntityTraits(context.Context, []core.EntityReference, core.Access,
	*core.Context, *core.HostSession, manager.TraitSetSuccessCallback, manager.ErrorCallback) error {
	return errors.NewNotImplemented("EntityTraits is not carried by the suite boundary")
}

func (m *importedManager) HasCapability(c manager.Capability) bool {
	errOut := NewStringView(256)
	var out bool
	if code := m.suite.HasCapability(errOut, &out, m.h, int32(c)); code != CodeOK {
		return false
	}
	return out
}

func (m *importedManager) IsEntityReferenceString(s string, _ *core.HostSession) bool {
	errOut := NewStringView(256)
	var out bool
	if code := m.suite.IsEntityReferenceString(errOut, &out, m.h, NewConstStringView(s)); code != CodeOK {
		return false
	}
	return out
}
