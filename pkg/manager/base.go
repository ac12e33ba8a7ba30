// SPDX-License-Identifier: Apache-2.0
package manager

import (
	"context"
	"fmt"

	"github.com/OpenAssetIO/OpenAssetIO-sub000/pkg/core"
	"github.com/OpenAssetIO/OpenAssetIO-sub000/pkg/errors"
	"github.com/OpenAssetIO/OpenAssetIO-sub000/pkg/trait"
)

// Base supplies defaults for every optional Interface method, each returning
// errors.NotImplementedError. Manager implementations embed Base and
// override the groups whose Capability they advertise; the compiler then
// only demands the mandatory methods (Identifier, DisplayName,
// HasCapability, ManagementPolicy, IsEntityReferenceString, EntityTraits).
type Base struct{}

func notImplemented(method string) *errors.NotImplementedError {
	return errors.NewNotImplemented(
		fmt.Sprintf("%s is not implemented by this manager; check HasCapability before calling", method))
}

// Info defaults to no descriptive info.
func (Base) Info() map[string]any { return map[string]any{} }

// Settings defaults to no settings.
func (Base) Settings(*core.HostSession) map[string]any { return map[string]any{} }

// Initialize defaults to accepting only an empty settings map.
func (Base) Initialize(_ context.Context, settings map[string]any, _ *core.HostSession) error {
	if len(settings) > 0 {
		return errors.NewConfiguration("manager accepts no settings")
	}
	return nil
}

// FlushCaches defaults to a no-op.
func (Base) FlushCaches(*core.HostSession) {}

// UpdateTerminology requires CapabilityCustomTerminology.
func (Base) UpdateTerminology(map[string]string, *core.HostSession) (map[string]string, error) {
	return nil, notImplemented("UpdateTerminology")
}

// EntityExists requires CapabilityExistenceQueries.
func (Base) EntityExists(context.Context, []core.EntityReference, *core.Context,
	*core.HostSession, ExistsSuccessCallback, ErrorCallback) error {
	return notImplemented("EntityExists")
}

// Resolve requires CapabilityResolution.
func (Base) Resolve(context.Context, []core.EntityReference, trait.Set, core.Access,
	*core.Context, *core.HostSession, ResolveSuccessCallback, ErrorCallback) error {
	return notImplemented("Resolve")
}

// DefaultEntityReference requires CapabilityDefaultEntityReferences.
func (Base) DefaultEntityReference(context.Context, []trait.Set, core.Access,
	*core.Context, *core.HostSession, OptionalReferenceSuccessCallback, ErrorCallback) error {
	return notImplemented("DefaultEntityReference")
}

// GetWithRelationship requires CapabilityRelationships.
func (Base) GetWithRelationship(context.Context, []core.EntityReference, *trait.TraitsData,
	trait.Set, int, core.Access, *core.Context, *core.HostSession,
	PagerSuccessCallback, ErrorCallback) error {
	return notImplemented("GetWithRelationship")
}

// GetWithRelationships requires CapabilityRelationships.
func (Base) GetWithRelationships(context.Context, core.EntityReference, []*trait.TraitsData,
	trait.Set, int, core.Access, *core.Context, *core.HostSession,
	PagerSuccessCallback, ErrorCallback) error {
	return notImplemented("GetWithRelationships")
}

// Preflight requires CapabilityPublishing.
func (Base) Preflight(context.Context, []core.EntityReference, []*trait.TraitsData,
	core.Access, *core.Context, *core.HostSession, ReferenceSuccessCallback, ErrorCallback) error {
	return notImplemented("Preflight")
}

// Register requires CapabilityPublishing.
func (Base) Register(context.Context, []core.EntityReference, []*trait.TraitsData,
	core.Access, *core.Context, *core.HostSession, ReferenceSuccessCallback, ErrorCallback) error {
	return notImplemented("Register")
}

// CreateState requires CapabilityStatefulContexts.
func (Base) CreateState(context.Context, *core.HostSession) (core.ManagerState, error) {
	return nil, notImplemented("CreateState")
}

// CreateChildState requires CapabilityStatefulContexts.
func (Base) CreateChildState(context.Context, core.ManagerState, *core.HostSession) (core.ManagerState, error) {
	return nil, notImplemented("CreateChildState")
}

// PersistenceTokenForState requires CapabilityStatefulContexts.
func (Base) PersistenceTokenForState(core.ManagerState, *core.HostSession) (string, error) {
	return "", notImplemented("PersistenceTokenForState")
}

// StateFromPersistenceToken requires CapabilityStatefulContexts.
func (Base) StateFromPersistenceToken(string, *core.HostSession) (core.ManagerState, error) {
	return nil, notImplemented("StateFromPersistenceToken")
}
