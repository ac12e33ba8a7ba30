// SPDX-License-Identifier: Apache-2.0
package host

import (
	"context"
	"fmt"

	"github.com/OpenAssetIO/OpenAssetIO-sub000/pkg/core"
	"github.com/OpenAssetIO/OpenAssetIO-sub000/pkg/errors"
	"github.com/OpenAssetIO/OpenAssetIO-sub000/pkg/manager"
	"github.com/OpenAssetIO/OpenAssetIO-sub000/pkg/trait"
)

// MetricsRecorder receives batch-operation observations. The telemetry
// package provides an OTEL-backed implementation; a nil recorder disables
// recording.
type MetricsRecorder interface {
	RecordBatch(ctx context.Context, op string, size int)
	RecordElementError(ctx context.Context, op string, code errors.ErrorCode)
}

// Manager is the host-facing facade over one manager.Interface and one
// HostSession. It is an immutable composition wrapper: create it once per
// session and share it by reference.
//
// For every batched primitive, three calling forms exist:
//
//   - the callback form (e.g. Resolve), a direct pass-through with the
//     contract of manager.Interface;
//   - the fail-fast form (e.g. ResolveAll / ResolveOne), which returns the
//     typed batch error of the first error callback to fire;
//   - the exhaustive form (e.g. ResolveResults / ResolveOneResult), which
//     returns index-aligned Results and reserves the error return for
//     systemic failures.
type Manager struct {
	iface   manager.Interface
	session *core.HostSession
	metrics MetricsRecorder
}

// Option configures a Manager.
type Option func(*Manager)

// WithMetrics attaches a batch-operation metrics recorder.
func WithMetrics(m MetricsRecorder) Option {
	return func(mgr *Manager) { mgr.metrics = m }
}

// NewManager wraps a manager implementation for host use.
func NewManager(iface manager.Interface, session *core.HostSession, opts ...Option) *Manager {
	m := &Manager{iface: iface, session: session}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

func (m *Manager) observe(ctx context.Context, op string, size int) {
	if m.metrics != nil {
		m.metrics.RecordBatch(ctx, op, size)
	}
}

// wrapFail decorates an error callback so element errors are counted before
// being handed to the caller.
func (m *Manager) wrapFail(ctx context.Context, op string, fail manager.ErrorCallback) manager.ErrorCallback {
	if m.metrics == nil {
		return fail
	}
	return func(idx int, err errors.BatchElementError) {
		m.metrics.RecordElementError(ctx, op, err.Code)
		fail(idx, err)
	}
}

// Identifier returns the wrapped manager's identifier.
func (m *Manager) Identifier() string { return m.iface.Identifier() }

// DisplayName returns the wrapped manager's display name.
func (m *Manager) DisplayName() string { return m.iface.DisplayName() }

// Info returns the wrapped manager's descriptive info.
func (m *Manager) Info() map[string]any { return m.iface.Info() }

// Settings returns the manager's current settings.
func (m *Manager) Settings() map[string]any { return m.iface.Settings(m.session) }

// Initialize readies the manager for entity operations. Call exactly once,
// before any entity-affecting method, never concurrently with other calls.
func (m *Manager) Initialize(ctx context.Context, settings map[string]any) error {
	return m.iface.Initialize(ctx, settings, m.session)
}

// FlushCaches tells the manager any host-side caches were dropped.
func (m *Manager) FlushCaches() { m.iface.FlushCaches(m.session) }

// UpdateTerminology customises host UI terms to the manager's vocabulary.
// Requires CapabilityCustomTerminology.
func (m *Manager) UpdateTerminology(terms map[string]string) (map[string]string, error) {
	return m.iface.UpdateTerminology(terms, m.session)
}

// HasCapability reports whether the wrapped manager services the given
// method group. Fast and invariant after Initialize; host code should gate
// optional method groups on it, though calling anyway yields a recoverable
// NotImplementedError rather than a crash.
func (m *Manager) HasCapability(c Capability) bool {
	if mc, ok := managerCapability(c); ok {
		return m.iface.HasCapability(mc)
	}
	// Mandatory groups are always available.
	return true
}

// ManagementPolicy describes the manager's stance on each trait set for the
// given access intent.
func (m *Manager) ManagementPolicy(traitSets []trait.Set, access core.Access,
	callCtx *core.Context) ([]*trait.TraitsData, error) {
	return m.iface.ManagementPolicy(traitSets, access, callCtx, m.session)
}

// CreateContext creates a Context for a fresh logical unit of work, with an
// empty locale the host should populate. When the manager supports stateful
// contexts its state is created and attached.
func (m *Manager) CreateContext(ctx context.Context) (*core.Context, error) {
	out := &core.Context{Locale: trait.NewTraitsData()}
	if m.iface.HasCapability(manager.CapabilityStatefulContexts) {
		state, err := m.iface.CreateState(ctx, m.session)
		if err != nil {
			return nil, err
		}
		out.ManagerState = state
	}
	return out, nil
}

// CreateChildContext derives a Context for work subordinate to parent. The
// locale is deep-copied so mutation is isolated; a stateful manager gets the
// chance to migrate its state to the child.
func (m *Manager) CreateChildContext(ctx context.Context, parent *core.Context) (*core.Context, error) {
	if parent == nil {
		return nil, errors.NewInputValidation("parent context is required")
	}
	out := &core.Context{}
	if parent.Locale != nil {
		out.Locale = parent.Locale.Copy()
	} else {
		out.Locale = trait.NewTraitsData()
	}
	if m.iface.HasCapability(manager.CapabilityStatefulContexts) && parent.ManagerState != nil {
		state, err := m.iface.CreateChildState(ctx, parent.ManagerState, m.session)
		if err != nil {
			return nil, err
		}
		out.ManagerState = state
	}
	return out, nil
}

// PersistenceTokenForContext freezes the context's manager state to an
// opaque token. Contexts without manager state yield the empty token.
func (m *Manager) PersistenceTokenForContext(callCtx *core.Context) (string, error) {
	if callCtx == nil || callCtx.ManagerState == nil {
		return "", nil
	}
	return m.iface.PersistenceTokenForState(callCtx.ManagerState, m.session)
}

// ContextFromPersistenceToken thaws a context whose manager state was frozen
// by PersistenceTokenForContext. The empty token yields a stateless context.
func (m *Manager) ContextFromPersistenceToken(token string) (*core.Context, error) {
	out := &core.Context{Locale: trait.NewTraitsData()}
	if token == "" {
		return out, nil
	}
	state, err := m.iface.StateFromPersistenceToken(token, m.session)
	if err != nil {
		return nil, err
	}
	out.ManagerState = state
	return out, nil
}

// IsEntityReferenceString cheaply determines whether the string is a
// reference the wrapped manager understands.
func (m *Manager) IsEntityReferenceString(s string) bool {
	return m.iface.IsEntityReferenceString(s, m.session)
}

// CreateEntityReference validates and wraps a reference string. An
// InputValidationError is returned for strings the manager does not
// recognise.
func (m *Manager) CreateEntityReference(s string) (core.EntityReference, error) {
	if !m.IsEntityReferenceString(s) {
		return core.EntityReference{}, errors.NewInputValidation(
			fmt.Sprintf("%q is not a %s entity reference", s, m.Identifier()))
	}
	return core.NewEntityReference(s), nil
}

// CreateEntityReferenceIfValid is CreateEntityReference returning nil
// instead of an error for unrecognised strings.
func (m *Manager) CreateEntityReferenceIfValid(s string) *core.EntityReference {
	if !m.IsEntityReferenceString(s) {
		return nil
	}
	ref := core.NewEntityReference(s)
	return &ref
}

// EntityExists is the callback-form existence query.
// Requires CapabilityExistenceQueries.
func (m *Manager) EntityExists(ctx context.Context, refs []core.EntityReference,
	callCtx *core.Context, success manager.ExistsSuccessCallback, fail manager.ErrorCallback) error {
	m.observe(ctx, "entityExists", len(refs))
	return m.iface.EntityExists(ctx, refs, callCtx, m.session, success, m.wrapFail(ctx, "entityExists", fail))
}

// EntityExistsAll is the fail-fast form of EntityExists.
func (m *Manager) EntityExistsAll(ctx context.Context, refs []core.EntityReference,
	callCtx *core.Context) ([]bool, error) {
	return allOf(len(refs), func(success func(int, bool), fail func(int, errors.BatchElementError)) error {
		return m.EntityExists(ctx, refs, callCtx, success, fail)
	})
}

// EntityExistsResults is the exhaustive form of EntityExists.
func (m *Manager) EntityExistsResults(ctx context.Context, refs []core.EntityReference,
	callCtx *core.Context) ([]Result[bool], error) {
	return eachOf(len(refs), func(success func(int, bool), fail func(int, errors.BatchElementError)) error {
		return m.EntityExists(ctx, refs, callCtx, success, fail)
	})
}

// EntityExistsOne is single-element sugar over EntityExistsAll.
func (m *Manager) EntityExistsOne(ctx context.Context, ref core.EntityReference,
	callCtx *core.Context) (bool, error) {
	return oneOf(func(success func(int, bool), fail func(int, errors.BatchElementError)) error {
		return m.EntityExists(ctx, []core.EntityReference{ref}, callCtx, success, fail)
	})
}

// EntityTraits is the callback-form trait introspection query.
func (m *Manager) EntityTraits(ctx context.Context, refs []core.EntityReference, access core.Access,
	callCtx *core.Context, success manager.TraitSetSuccessCallback, fail manager.ErrorCallback) error {
	m.observe(ctx, "entityTraits", len(refs))
	return m.iface.EntityTraits(ctx, refs, access, callCtx, m.session, success, m.wrapFail(ctx, "entityTraits", fail))
}

// EntityTraitsAll is the fail-fast form of EntityTraits.
func (m *Manager) EntityTraitsAll(ctx context.Context, refs []core.EntityReference,
	access core.Access, callCtx *core.Context) ([]trait.Set, error) {
	return allOf(len(refs), func(success func(int, trait.Set), fail func(int, errors.BatchElementError)) error {
		return m.EntityTraits(ctx, refs, access, callCtx, success, fail)
	})
}

// EntityTraitsResults is the exhaustive form of EntityTraits.
func (m *Manager) EntityTraitsResults(ctx context.Context, refs []core.EntityReference,
	access core.Access, callCtx *core.Context) ([]Result[trait.Set], error) {
	return eachOf(len(refs), func(success func(int, trait.Set), fail func(int, errors.BatchElementError)) error {
		return m.EntityTraits(ctx, refs, access, callCtx, success, fail)
	})
}

// EntityTraitsOne is single-element sugar over EntityTraitsAll.
func (m *Manager) EntityTraitsOne(ctx context.Context, ref core.EntityReference,
	access core.Access, callCtx *core.Context) (trait.Set, error) {
	return oneOf(func(success func(int, trait.Set), fail func(int, errors.BatchElementError)) error {
		return m.EntityTraits(ctx, []core.EntityReference{ref}, access, callCtx, success, fail)
	})
}

// Resolve is the callback-form resolution query.
// Requires CapabilityResolution.
func (m *Manager) Resolve(ctx context.Context, refs []core.EntityReference, traits trait.Set,
	access core.Access, callCtx *core.Context,
	success manager.ResolveSuccessCallback, fail manager.ErrorCallback) error {
	m.observe(ctx, "resolve", len(refs))
	return m.iface.Resolve(ctx, refs, traits, access, callCtx, m.session, success, m.wrapFail(ctx, "resolve", fail))
}

// ResolveAll is the fail-fast form of Resolve.
func (m *Manager) ResolveAll(ctx context.Context, refs []core.EntityReference, traits trait.Set,
	access core.Access, callCtx *core.Context) ([]*trait.TraitsData, error) {
	return allOf(len(refs), func(success func(int, *trait.TraitsData), fail func(int, errors.BatchElementError)) error {
		return m.Resolve(ctx, refs, traits, access, callCtx, success, fail)
	})
}

// ResolveResults is the exhaustive form of Resolve.
func (m *Manager) ResolveResults(ctx context.Context, refs []core.EntityReference, traits trait.Set,
	access core.Access, callCtx *core.Context) ([]Result[*trait.TraitsData], error) {
	return eachOf(len(refs), func(success func(int, *trait.TraitsData), fail func(int, errors.BatchElementError)) error {
		return m.Resolve(ctx, refs, traits, access, callCtx, success, fail)
	})
}

// ResolveOne is single-element sugar over ResolveAll.
func (m *Manager) ResolveOne(ctx context.Context, ref core.EntityReference, traits trait.Set,
	access core.Access, callCtx *core.Context) (*trait.TraitsData, error) {
	return oneOf(func(success func(int, *trait.TraitsData), fail func(int, errors.BatchElementError)) error {
		return m.Resolve(ctx, []core.EntityReference{ref}, traits, access, callCtx, success, fail)
	})
}

// ResolveOneResult is single-element sugar over ResolveResults.
func (m *Manager) ResolveOneResult(ctx context.Context, ref core.EntityReference, traits trait.Set,
	access core.Access, callCtx *core.Context) (Result[*trait.TraitsData], error) {
	return oneResultOf(func(success func(int, *trait.TraitsData), fail func(int, errors.BatchElementError)) error {
		return m.Resolve(ctx, []core.EntityReference{ref}, traits, access, callCtx, success, fail)
	})
}

// DefaultEntityReference is the callback-form default-reference query.
// Requires CapabilityDefaultEntityReferences.
func (m *Manager) DefaultEntityReference(ctx context.Context, traitSets []trait.Set,
	access core.Access, callCtx *core.Context,
	success manager.OptionalReferenceSuccessCallback, fail manager.ErrorCallback) error {
	m.observe(ctx, "defaultEntityReference", len(traitSets))
	return m.iface.DefaultEntityReference(ctx, traitSets, access, callCtx, m.session,
		success, m.wrapFail(ctx, "defaultEntityReference", fail))
}

// DefaultEntityReferenceAll is the fail-fast form of DefaultEntityReference.
// A nil element means the manager has no sensible default for that input.
func (m *Manager) DefaultEntityReferenceAll(ctx context.Context, traitSets []trait.Set,
	access core.Access, callCtx *core.Context) ([]*core.EntityReference, error) {
	return allOf(len(traitSets), func(success func(int, *core.EntityReference), fail func(int, errors.BatchElementError)) error {
		return m.DefaultEntityReference(ctx, traitSets, access, callCtx, success, fail)
	})
}

// DefaultEntityReferenceResults is the exhaustive form of DefaultEntityReference.
func (m *Manager) DefaultEntityReferenceResults(ctx context.Context, traitSets []trait.Set,
	access core.Access, callCtx *core.Context) ([]Result[*core.EntityReference], error) {
	return eachOf(len(traitSets), func(success func(int, *core.EntityReference), fail func(int, errors.BatchElementError)) error {
		return m.DefaultEntityReference(ctx, traitSets, access, callCtx, success, fail)
	})
}

// GetWithRelationship is the callback-form relationship query.
// Requires CapabilityRelationships.
func (m *Manager) GetWithRelationship(ctx context.Context, refs []core.EntityReference,
	relationship *trait.TraitsData, resultTraits trait.Set, pageSize int,
	access core.Access, callCtx *core.Context,
	success manager.PagerSuccessCallback, fail manager.ErrorCallback) error {
	if pageSize < 1 {
		return errors.NewInputValidation("pageSize must be greater than zero")
	}
	m.observe(ctx, "getWithRelationship", len(refs))
	return m.iface.GetWithRelationship(ctx, refs, relationship, resultTraits, pageSize,
		access, callCtx, m.session, success, m.wrapFail(ctx, "getWithRelationship", fail))
}

// GetWithRelationshipAll is the fail-fast form of GetWithRelationship.
func (m *Manager) GetWithRelationshipAll(ctx context.Context, refs []core.EntityReference,
	relationship *trait.TraitsData, resultTraits trait.Set, pageSize int,
	access core.Access, callCtx *core.Context) ([]manager.Pager, error) {
	return allOf(len(refs), func(success func(int, manager.Pager), fail func(int, errors.BatchElementError)) error {
		return m.GetWithRelationship(ctx, refs, relationship, resultTraits, pageSize, access, callCtx, success, fail)
	})
}

// GetWithRelationshipResults is the exhaustive form of GetWithRelationship.
func (m *Manager) GetWithRelationshipResults(ctx context.Context, refs []core.EntityReference,
	relationship *trait.TraitsData, resultTraits trait.Set, pageSize int,
	access core.Access, callCtx *core.Context) ([]Result[manager.Pager], error) {
	return eachOf(len(refs), func(success func(int, manager.Pager), fail func(int, errors.BatchElementError)) error {
		return m.GetWithRelationship(ctx, refs, relationship, resultTraits, pageSize, access, callCtx, success, fail)
	})
}

// GetWithRelationships is the callback-form transpose of GetWithRelationship:
// one reference, many relationships. Requires CapabilityRelationships.
func (m *Manager) GetWithRelationships(ctx context.Context, ref core.EntityReference,
	relationships []*trait.TraitsData, resultTraits trait.Set, pageSize int,
	access core.Access, callCtx *core.Context,
	success manager.PagerSuccessCallback, fail manager.ErrorCallback) error {
	if pageSize < 1 {
		return errors.NewInputValidation("pageSize must be greater than zero")
	}
	m.observe(ctx, "getWithRelationships", len(relationships))
	return m.iface.GetWithRelationships(ctx, ref, relationships, resultTraits, pageSize,
		access, callCtx, m.session, success, m.wrapFail(ctx, "getWithRelationships", fail))
}

// GetWithRelationshipsAll is the fail-fast form of GetWithRelationships.
func (m *Manager) GetWithRelationshipsAll(ctx context.Context, ref core.EntityReference,
	relationships []*trait.TraitsData, resultTraits trait.Set, pageSize int,
	access core.Access, callCtx *core.Context) ([]manager.Pager, error) {
	return allOf(len(relationships), func(success func(int, manager.Pager), fail func(int, errors.BatchElementError)) error {
		return m.GetWithRelationships(ctx, ref, relationships, resultTraits, pageSize, access, callCtx, success, fail)
	})
}

// Preflight is the callback-form publish preparation.
// Requires CapabilityPublishing.
func (m *Manager) Preflight(ctx context.Context, refs []core.EntityReference, hints []*trait.TraitsData,
	access core.Access, callCtx *core.Context,
	success manager.ReferenceSuccessCallback, fail manager.ErrorCallback) error {
	if len(hints) != len(refs) {
		return errors.NewInputValidation("hints must parallel refs")
	}
	m.observe(ctx, "preflight", len(refs))
	return m.iface.Preflight(ctx, refs, hints, access, callCtx, m.session, success, m.wrapFail(ctx, "preflight", fail))
}

// PreflightAll is the fail-fast form of Preflight.
func (m *Manager) PreflightAll(ctx context.Context, refs []core.EntityReference, hints []*trait.TraitsData,
	access core.Access, callCtx *core.Context) ([]core.EntityReference, error) {
	return allOf(len(refs), func(success func(int, core.EntityReference), fail func(int, errors.BatchElementError)) error {
		return m.Preflight(ctx, refs, hints, access, callCtx, success, fail)
	})
}

// PreflightResults is the exhaustive form of Preflight.
func (m *Manager) PreflightResults(ctx context.Context, refs []core.EntityReference, hints []*trait.TraitsData,
	access core.Access, callCtx *core.Context) ([]Result[core.EntityReference], error) {
	return eachOf(len(refs), func(success func(int, core.EntityReference), fail func(int, errors.BatchElementError)) error {
		return m.Preflight(ctx, refs, hints, access, callCtx, success, fail)
	})
}

// PreflightOne is single-element sugar over PreflightAll.
func (m *Manager) PreflightOne(ctx context.Context, ref core.EntityReference, hint *trait.TraitsData,
	access core.Access, callCtx *core.Context) (core.EntityReference, error) {
	return oneOf(func(success func(int, core.EntityReference), fail func(int, errors.BatchElementError)) error {
		return m.Preflight(ctx, []core.EntityReference{ref}, []*trait.TraitsData{hint}, access, callCtx, success, fail)
	})
}

// Register is the callback-form publish.
// Requires CapabilityPublishing.
func (m *Manager) Register(ctx context.Context, refs []core.EntityReference, data []*trait.TraitsData,
	access core.Access, callCtx *core.Context,
	success manager.ReferenceSuccessCallback, fail manager.ErrorCallback) error {
	if len(data) != len(refs) {
		return errors.NewInputValidation("data must parallel refs")
	}
	m.observe(ctx, "register", len(refs))
	return m.iface.Register(ctx, refs, data, access, callCtx, m.session, success, m.wrapFail(ctx, "register", fail))
}

// RegisterAll is the fail-fast form of Register.
func (m *Manager) RegisterAll(ctx context.Context, refs []core.EntityReference, data []*trait.TraitsData,
	access core.Access, callCtx *core.Context) ([]core.EntityReference, error) {
	return allOf(len(refs), func(success func(int, core.EntityReference), fail func(int, errors.BatchElementError)) error {
		return m.Register(ctx, refs, data, access, callCtx, success, fail)
	})
}

// RegisterResults is the exhaustive form of Register.
func (m *Manager) RegisterResults(ctx context.Context, refs []core.EntityReference, data []*trait.TraitsData,
	access core.Access, callCtx *core.Context) ([]Result[core.EntityReference], error) {
	return eachOf(len(refs), func(success func(int, core.EntityReference), fail func(int, errors.BatchElementError)) error {
		return m.Register(ctx, refs, data, access, callCtx, success, fail)
	})
}

// RegisterOne is single-element sugar over RegisterAll.
func (m *Manager) RegisterOne(ctx context.Context, ref core.EntityReference, data *trait.TraitsData,
	access core.Access, callCtx *core.Context) (core.EntityReference, error) {
	return oneOf(func(success func(int, core.EntityReference), fail func(int, errors.BatchElementError)) error {
		return m.Register(ctx, []core.EntityReference{ref}, []*trait.TraitsData{data}, access, callCtx, success, fail)
	})
}
