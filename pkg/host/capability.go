// SPDX-License-Identifier: Apache-2.0
package host

import (
	"fmt"

	"github.com/OpenAssetIO/OpenAssetIO-sub000/pkg/manager"
)

// Capability names a group of Manager methods a host may probe before use.
// This is a superset of the manager-facing set: trait introspection is
// mandatory for every plugin and therefore absent from the manager-facing
// enum, but hosts probe it uniformly here and always get true.
type Capability int

const (
	// CapabilityEntityReferenceIdentification covers IsEntityReferenceString
	// and the CreateEntityReference helpers.
	CapabilityEntityReferenceIdentification Capability = iota

	// CapabilityManagementPolicyQueries covers ManagementPolicy.
	CapabilityManagementPolicyQueries

	// CapabilityEntityTraitIntrospection covers EntityTraits. Mandatory;
	// always answered true by the facade.
	CapabilityEntityTraitIntrospection

	// CapabilityStatefulContexts covers manager state on contexts and the
	// persistence-token helpers.
	CapabilityStatefulContexts

	// CapabilityCustomTerminology covers UpdateTerminology.
	CapabilityCustomTerminology

	// CapabilityResolution covers the Resolve family.
	CapabilityResolution

	// CapabilityPublishing covers the Preflight and Register families.
	CapabilityPublishing

	// CapabilityRelationships covers the GetWithRelationship families.
	CapabilityRelationships

	// CapabilityExistenceQueries covers the EntityExists family.
	CapabilityExistenceQueries

	// CapabilityDefaultEntityReferences covers the DefaultEntityReference
	// family.
	CapabilityDefaultEntityReferences
)

// String returns the stable name of the capability.
func (c Capability) String() string {
	switch c {
	case CapabilityEntityReferenceIdentification:
		return "entityReferenceIdentification"
	case CapabilityManagementPolicyQueries:
		return "managementPolicyQueries"
	case CapabilityEntityTraitIntrospection:
		return "entityTraitIntrospection"
	case CapabilityStatefulContexts:
		return "statefulContexts"
	case CapabilityCustomTerminology:
		return "customTerminology"
	case CapabilityResolution:
		return "resolution"
	case CapabilityPublishing:
		return "publishing"
	case CapabilityRelationships:
		return "relationships"
	case CapabilityExistenceQueries:
		return "existenceQueries"
	case CapabilityDefaultEntityReferences:
		return "defaultEntityReferences"
	default:
		return fmt.Sprintf("Capability(%d)", int(c))
	}
}

// Capabilities lists every host-facing capability in declaration order.
func Capabilities() []Capability {
	return []Capability{
		CapabilityEntityReferenceIdentification,
		CapabilityManagementPolicyQueries,
		CapabilityEntityTraitIntrospection,
		CapabilityStatefulContexts,
		CapabilityCustomTerminology,
		CapabilityResolution,
		CapabilityPublishing,
		CapabilityRelationships,
		CapabilityExistenceQueries,
		CapabilityDefaultEntityReferences,
	}
}

// managerCapability maps a host-facing capability to its manager-facing
// counterpart. Mandatory groups return false: the facade answers those
// itself without consulting the plugin.
func managerCapability(c Capability) (manager.Capability, bool) {
	switch c {
	case CapabilityEntityReferenceIdentification:
		return manager.CapabilityEntityReferenceIdentification, true
	case CapabilityManagementPolicyQueries:
		return manager.CapabilityManagementPolicyQueries, true
	case CapabilityStatefulContexts:
		return manager.CapabilityStatefulContexts, true
	case CapabilityCustomTerminology:
		return manager.CapabilityCustomTerminology, true
	case CapabilityResolution:
		return manager.CapabilityResolution, true
	case CapabilityPublishing:
		return manager.CapabilityPublishing, true
	case CapabilityRelationships:
		return manager.CapabilityRelationships, true
	case CapabilityExistenceQueries:
		return manager.CapabilityExistenceQueries, true
	case CapabilityDefaultEntityReferences:
		return manager.CapabilityDefaultEntityReferences, true
	default:
		return 0, false
	}
}
