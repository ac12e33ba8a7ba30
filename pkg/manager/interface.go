// SPDX-License-Identifier: Apache-2.0
package manager

import (
	"context"

	"github.com/OpenAssetIO/OpenAssetIO-sub000/pkg/core"
	"github.com/OpenAssetIO/OpenAssetIO-sub000/pkg/errors"
	"github.com/OpenAssetIO/OpenAssetIO-sub000/pkg/trait"
)

// ErrorCallback receives the failure of a single batch element.
type ErrorCallback func(idx int, err errors.BatchElementError)

// ExistsSuccessCallback receives the existence answer for one element.
type ExistsSuccessCallback func(idx int, exists bool)

// TraitSetSuccessCallback receives the trait set of one element.
type TraitSetSuccessCallback func(idx int, traits trait.Set)

// ResolveSuccessCallback receives resolved trait data for one element.
type ResolveSuccessCallback func(idx int, data *trait.TraitsData)

// ReferenceSuccessCallback receives an entity reference for one element,
// e.g. the working reference from Preflight or the final one from Register.
type ReferenceSuccessCallback func(idx int, ref core.EntityReference)

// OptionalReferenceSuccessCallback receives the default entity reference for
// one element; nil means the manager has no sensible default for that input.
type OptionalReferenceSuccessCallback func(idx int, ref *core.EntityReference)

// PagerSuccessCallback receives the relationship result pager for one element.
type PagerSuccessCallback func(idx int, pager Pager)

// Interface is the contract an asset management system plugin implements.
//
// Calling conventions shared by every batch operation:
//
//   - Exactly one of the success or error callbacks is invoked exactly once
//     for each input index, before the method returns. The call is
//     synchronous; callbacks run on the calling goroutine.
//   - Callback invocation order across indices is unspecified.
//   - A non-nil error returned by the method itself signals a whole-batch,
//     not-entity-specific failure; no per-element outcome may be assumed.
//   - Optional method groups default to errors.NotImplementedError via Base;
//     a manager that advertises the matching Capability must override them
//     and must never fall through to the default.
//
// Initialize is never called concurrently with itself or any other method.
// Every other method must be safe for concurrent, reentrant invocation and
// must depend only on its arguments plus state frozen during Initialize.
type Interface interface {
	// Identifier returns the reverse-DNS identifier of the manager. Must be
	// callable before Initialize.
	Identifier() string

	// DisplayName returns a human-readable name for host UIs. Must be
	// callable before Initialize.
	DisplayName() string

	// Info returns optional descriptive key/value pairs about the manager.
	Info() map[string]any

	// Settings returns the manager's current settings, so a host can
	// persist and re-apply them in a later session.
	Settings(session *core.HostSession) map[string]any

	// Initialize readies the manager for entity operations, applying the
	// supplied settings. Called exactly once before any entity-affecting
	// method, never concurrently.
	Initialize(ctx context.Context, settings map[string]any, session *core.HostSession) error

	// FlushCaches tells the manager any host-side response caches were
	// dropped, so it may release its own.
	FlushCaches(session *core.HostSession)

	// HasCapability reports whether the manager implements the methods of
	// the given capability group. Must be accurate, cheap, and invariant
	// once Initialize has returned.
	HasCapability(c Capability) bool

	// UpdateTerminology gives the manager a chance to customise the given
	// UI terms (e.g. "shot", "publish") to its own vocabulary.
	// Requires CapabilityCustomTerminology.
	UpdateTerminology(terms map[string]string, session *core.HostSession) (map[string]string, error)

	// ManagementPolicy describes the manager's stance on each supplied
	// trait set for the given access intent. The i-th result corresponds to
	// the i-th input trait set.
	ManagementPolicy(traitSets []trait.Set, access core.Access, callCtx *core.Context,
		session *core.HostSession) ([]*trait.TraitsData, error)

	// IsEntityReferenceString cheaply, syntactically determines whether the
	// string is a reference this manager understands.
	IsEntityReferenceString(s string, session *core.HostSession) bool

	// EntityExists answers, per reference, whether the entity exists.
	// Requires CapabilityExistenceQueries.
	EntityExists(ctx context.Context, refs []core.EntityReference,
		callCtx *core.Context, session *core.HostSession,
		success ExistsSuccessCallback, fail ErrorCallback) error

	// EntityTraits returns, per reference, the full trait set of the
	// entity for the given access.
	EntityTraits(ctx context.Context, refs []core.EntityReference, access core.Access,
		callCtx *core.Context, session *core.HostSession,
		success TraitSetSuccessCallback, fail ErrorCallback) error

	// Resolve supplies, per reference, the property data of the requested
	// traits. Requires CapabilityResolution.
	Resolve(ctx context.Context, refs []core.EntityReference, traits trait.Set,
		access core.Access, callCtx *core.Context, session *core.HostSession,
		success ResolveSuccessCallback, fail ErrorCallback) error

	// DefaultEntityReference supplies, per trait set, a reference a host
	// should use when the user has not picked an entity. A nil reference
	// means no sensible default exists.
	// Requires CapabilityDefaultEntityReferences.
	DefaultEntityReference(ctx context.Context, traitSets []trait.Set,
		access core.Access, callCtx *core.Context, session *core.HostSession,
		success OptionalReferenceSuccessCallback, fail ErrorCallback) error

	// GetWithRelationship supplies, per reference, a pager over entities
	// related to it by the given relationship. pageSize is fixed for each
	// pager's lifetime and must be greater than zero.
	// Requires CapabilityRelationships.
	GetWithRelationship(ctx context.Context, refs []core.EntityReference,
		relationship *trait.TraitsData, resultTraits trait.Set, pageSize int,
		access core.Access, callCtx *core.Context, session *core.HostSession,
		success PagerSuccessCallback, fail ErrorCallback) error

	// GetWithRelationships is the transpose of GetWithRelationship: one
	// reference, many relationships.
	// Requires CapabilityRelationships.
	GetWithRelationships(ctx context.Context, ref core.EntityReference,
		relationships []*trait.TraitsData, resultTraits trait.Set, pageSize int,
		access core.Access, callCtx *core.Context, session *core.HostSession,
		success PagerSuccessCallback, fail ErrorCallback) error

	// Preflight readies the manager for an imminent publish to each
	// reference, yielding per element the working reference to use for the
	// subsequent Register. The per-element traits data is a hint and may be
	// partial. Requires CapabilityPublishing.
	Preflight(ctx context.Context, refs []core.EntityReference, hints []*trait.TraitsData,
		access core.Access, callCtx *core.Context, session *core.HostSession,
		success ReferenceSuccessCallback, fail ErrorCallback) error

	// Register publishes the supplied trait data to each reference,
	// yielding per element the final reference of the now-persisted entity.
	// Requires CapabilityPublishing.
	Register(ctx context.Context, refs []core.EntityReference, data []*trait.TraitsData,
		access core.Access, callCtx *core.Context, session *core.HostSession,
		success ReferenceSuccessCallback, fail ErrorCallback) error

	// CreateState mints fresh manager state for a new Context.
	// Requires CapabilityStatefulContexts.
	CreateState(ctx context.Context, session *core.HostSession) (core.ManagerState, error)

	// CreateChildState derives state for a child Context, migrating
	// whatever the manager needs from the parent.
	// Requires CapabilityStatefulContexts.
	CreateChildState(ctx context.Context, parent core.ManagerState,
		session *core.HostSession) (core.ManagerState, error)

	// PersistenceTokenForState freezes state to an opaque token a host can
	// store across process runs. Requires CapabilityStatefulContexts.
	PersistenceTokenForState(state core.ManagerState, session *core.HostSession) (string, error)

	// StateFromPersistenceToken thaws state from a token previously
	// produced by PersistenceTokenForState.
	// Requires CapabilityStatefulContexts.
	StateFromPersistenceToken(token string, session *core.HostSession) (core.ManagerState, error)
}
