// SPDX-License-Identifier: Apache-2.0
package manager

import (
	"context"
	"strings"

	"github.com/OpenAssetIO/OpenAssetIO-sub000/pkg/core"
	"github.com/OpenAssetIO/OpenAssetIO-sub000/pkg/errors"
	"github.com/OpenAssetIO/OpenAssetIO-sub000/pkg/trait"
)

// Mock is a testing implementation of Interface. Zero-value fields fall back
// to benign defaults; set a Func field to script a specific method.
type Mock struct {
	Base

	IdentifierValue  string
	DisplayNameValue string
	InfoValue        map[string]any
	Capabilities     CapabilitySet

	// ReferencePrefix backs the default IsEntityReferenceString.
	ReferencePrefix string

	InitializeFunc              func(ctx context.Context, settings map[string]any, session *core.HostSession) error
	ManagementPolicyFunc        func(traitSets []trait.Set, access core.Access, callCtx *core.Context, session *core.HostSession) ([]*trait.TraitsData, error)
	IsEntityReferenceStringFunc func(s string, session *core.HostSession) bool
	EntityExistsFunc            func(ctx context.Context, refs []core.EntityReference, callCtx *core.Context, session *core.HostSession, success ExistsSuccessCallback, fail ErrorCallback) error
	EntityTraitsFunc            func(ctx context.Context, refs []core.EntityReference, access core.Access, callCtx *core.Context, session *core.HostSession, success TraitSetSuccessCallback, fail ErrorCallback) error
	ResolveFunc                 func(ctx context.Context, refs []core.EntityReference, traits trait.Set, access core.Access, callCtx *core.Context, session *core.HostSession, success ResolveSuccessCallback, fail ErrorCallback) error
	DefaultEntityReferenceFunc  func(ctx context.Context, traitSets []trait.Set, access core.Access, callCtx *core.Context, session *core.HostSession, success OptionalReferenceSuccessCallback, fail ErrorCallback) error
	GetWithRelationshipFunc     func(ctx context.Context, refs []core.EntityReference, relationship *trait.TraitsData, resultTraits trait.Set, pageSize int, access core.Access, callCtx *core.Context, session *core.HostSession, success PagerSuccessCallback, fail ErrorCallback) error
	PreflightFunc               func(ctx context.Context, refs []core.EntityReference, hints []*trait.TraitsData, access core.Access, callCtx *core.Context, session *core.HostSession, success ReferenceSuccessCallback, fail ErrorCallback) error
	RegisterFunc                func(ctx context.Context, refs []core.EntityReference, data []*trait.TraitsData, access core.Access, callCtx *core.Context, session *core.HostSession, success ReferenceSuccessCallback, fail ErrorCallback) error
	CreateStateFunc             func(ctx context.Context, session *core.HostSession) (core.ManagerState, error)
	CreateChildStateFunc        func(ctx context.Context, parent core.ManagerState, session *core.HostSession) (core.ManagerState, error)
	PersistenceTokenFunc        func(state core.ManagerState, session *core.HostSession) (string, error)
	StateFromTokenFunc          func(token string, session *core.HostSession) (core.ManagerState, error)
}

var _ Interface = (*Mock)(nil)

func (m *Mock) Identifier() string {
	if m.IdentifierValue == "" {
		return "org.openassetio.test.mock"
	}
	return m.IdentifierValue
}

func (m *Mock) DisplayName() string {
	if m.DisplayNameValue == "" {
		return "Mock Manager"
	}
	return m.DisplayNameValue
}

func (m *Mock) Info() map[string]any {
	if m.InfoValue == nil {
		return map[string]any{}
	}
	return m.InfoValue
}

func (m *Mock) Initialize(ctx context.Context, settings map[string]any, session *core.HostSession) error {
	if m.InitializeFunc != nil {
		return m.InitializeFunc(ctx, settings, session)
	}
	return nil
}

func (m *Mock) HasCapability(c Capability) bool {
	return m.Capabilities.Has(c)
}

func (m *Mock) ManagementPolicy(traitSets []trait.Set, access core.Access,
	callCtx *core.Context, session *core.HostSession) ([]*trait.TraitsData, error) {
	if m.ManagementPolicyFunc != nil {
		return m.ManagementPolicyFunc(traitSets, access, callCtx, session)
	}
	policies := make([]*trait.TraitsData, len(traitSets))
	for i := range traitSets {
		policies[i] = trait.NewTraitsData()
	}
	return policies, nil
}

func (m *Mock) IsEntityReferenceString(s string, session *core.HostSession) bool {
	if m.IsEntityReferenceStringFunc != nil {
		return m.IsEntityReferenceStringFunc(s, session)
	}
	prefix := m.ReferencePrefix
	if prefix == "" {
		prefix = "mock://"
	}
	return strings.HasPrefix(s, prefix)
}

func (m *Mock) EntityExists(ctx context.Context, refs []core.EntityReference,
	callCtx *core.Context, session *core.HostSession,
	success ExistsSuccessCallback, fail ErrorCallback) error {
	if m.EntityExistsFunc != nil {
		return m.EntityExistsFunc(ctx, refs, callCtx, session, success, fail)
	}
	return m.Base.EntityExists(ctx, refs, callCtx, session, success, fail)
}

func (m *Mock) EntityTraits(ctx context.Context, refs []core.EntityReference, access core.Access,
	callCtx *core.Context, session *core.HostSession,
	success TraitSetSuccessCallback, fail ErrorCallback) error {
	if m.EntityTraitsFunc != nil {
		return m.EntityTraitsFunc(ctx, refs, access, callCtx, session, success, fail)
	}
	for i := range refs {
		success(i, trait.NewSet())
	}
	return nil
}

func (m *Mock) Resolve(ctx context.Context, refs []core.EntityReference, traits trait.Set,
	access core.Access, callCtx *core.Context, session *core.HostSession,
	success ResolveSuccessCallback, fail ErrorCallback) error {
	if m.ResolveFunc != nil {
		return m.ResolveFunc(ctx, refs, traits, access, callCtx, session, success, fail)
	}
	return m.Base.Resolve(ctx, refs, traits, access, callCtx, session, success, fail)
}

func (m *Mock) DefaultEntityReference(ctx context.Context, traitSets []trait.Set,
	access core.Access, callCtx *core.Context, session *core.HostSession,
	success OptionalReferenceSuccessCallback, fail ErrorCallback) error {
	if m.DefaultEntityReferenceFunc != nil {
		return m.DefaultEntityReferenceFunc(ctx, traitSets, access, callCtx, session, success, fail)
	}
	return m.Base.DefaultEntityReference(ctx, traitSets, access, callCtx, session, success, fail)
}

func (m *Mock) GetWithRelationship(ctx context.Context, refs []core.EntityReference,
	relationship *trait.TraitsData, resultTraits trait.Set, pageSize int,
	access core.Access, callCtx *core.Context, session *core.HostSession,
	success PagerSuccessCallback, fail ErrorCallback) error {
	if m.GetWithRelationshipFunc != nil {
		return m.GetWithRelationshipFunc(ctx, refs, relationship, resultTraits, pageSize,
			access, callCtx, session, success, fail)
	}
	return m.Base.GetWithRelationship(ctx, refs, relationship, resultTraits, pageSize,
		access, callCtx, session, success, fail)
}

func (m *Mock) GetWithRelationships(ctx context.Context, ref core.EntityReference,
	relationships []*trait.TraitsData, resultTraits trait.Set, pageSize int,
	access core.Access, callCtx *core.Context, session *core.HostSession,
	success PagerSuccessCallback, fail ErrorCallback) error {
	// Expressed via the singular form: one pager per relationship.
	if m.GetWithRelationshipFunc == nil {
		return m.Base.GetWithRelationships(ctx, ref, relationships, resultTraits, pageSize,
			access, callCtx, session, success, fail)
	}
	for i, rel := range relationships {
		idx := i
		err := m.GetWithRelationshipFunc(ctx, []core.EntityReference{ref}, rel, resultTraits,
			pageSize, access, callCtx, session,
			func(_ int, pager Pager) { success(idx, pager) },
			func(_ int, elemErr errors.BatchElementError) { fail(idx, elemErr) })
		if err != nil {
			return err
		}
	}
	return nil
}

func (m *Mock) Preflight(ctx context.Context, refs []core.EntityReference, hints []*trait.TraitsData,
	access core.Access, callCtx *core.Context, session *core.HostSession,
	success ReferenceSuccessCallback, fail ErrorCallback) error {
	if m.PreflightFunc != nil {
		return m.PreflightFunc(ctx, refs, hints, access, callCtx, session, success, fail)
	}
	return m.Base.Preflight(ctx, refs, hints, access, callCtx, session, success, fail)
}

func (m *Mock) Register(ctx context.Context, refs []core.EntityReference, data []*trait.TraitsData,
	access core.Access, callCtx *core.Context, session *core.HostSession,
	success ReferenceSuccessCallback, fail ErrorCallback) error {
	if m.RegisterFunc != nil {
		return m.RegisterFunc(ctx, refs, data, access, callCtx, session, success, fail)
	}
	return m.Base.Register(ctx, refs, data, access, callCtx, session, success, fail)
}

func (m *Mock) CreateState(ctx context.Context, session *core.HostSession) (core.ManagerState, error) {
	if m.CreateStateFunc != nil {
		return m.CreateStateFunc(ctx, session)
	}
	return m.Base.CreateState(ctx, session)
}

func (m *Mock) CreateChildState(ctx context.Context, parent core.ManagerState,
	session *core.HostSession) (core.ManagerState, error) {
	if m.CreateChildStateFunc != nil {
		return m.CreateChildStateFunc(ctx, parent, session)
	}
	return m.Base.CreateChildState(ctx, parent, session)
}

func (m *Mock) PersistenceTokenForState(state core.ManagerState, session *core.HostSession) (string, error) {
	if m.PersistenceTokenFunc != nil {
		return m.PersistenceTokenFunc(state, session)
	}
	return m.Base.PersistenceTokenForState(state, session)
}

func (m *Mock) StateFromPersistenceToken(token string, session *core.HostSession) (core.ManagerState, error) {
	if m.StateFromTokenFunc != nil {
		return m.StateFromTokenFunc(token, session)
	}
	return m.Base.StateFromPersistenceToken(token, session)
}

// FixedPager is an in-memory Pager over a precomputed result list, for tests
// and small managers.
type FixedPager struct {
	refs     []core.EntityReference
	pageSize int
	offset   int
}

// NewFixedPager pages over refs with the given fixed page size.
func NewFixedPager(refs []core.EntityReference, pageSize int) *FixedPager {
	if pageSize < 1 {
		pageSize = 1
	}
	return &FixedPager{refs: refs, pageSize: pageSize}
}

func (p *FixedPager) HasNext(context.Context) bool {
	return p.offset+p.pageSize < len(p.refs)
}

func (p *FixedPager) Get(context.Context) ([]core.EntityReference, error) {
	if p.offset >= len(p.refs) {
		return nil, nil
	}
	end := p.offset + p.pageSize
	if end > len(p.refs) {
		end = len(p.refs)
	}
	page := make([]core.EntityReference, end-p.offset)
	copy(page, p.refs[p.offset:end])
	return page, nil
}

func (p *FixedPager) Next(context.Context) error {
	p.offset += p.pageSize
	return nil
}
