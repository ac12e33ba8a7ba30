// SPDX-License-Identifier: Apache-2.0
// Package manager defines the plugin-side contract an asset management
// system implements: the Interface with its callback-driven batch
// operations, the capability model, and the Base defaults for optional
// method groups.
package manager

import (
	"fmt"
	"strings"
)

// Capability names an optional group of Interface methods a manager may
// implement. A manager declares, once Initialize has completed, exactly
// which groups it services; HasCapability answers must stay invariant from
// then on. The set is closed and additive-only.
type Capability int

const (
	// CapabilityEntityReferenceIdentification covers IsEntityReferenceString.
	CapabilityEntityReferenceIdentification Capability = iota

	// CapabilityManagementPolicyQueries covers ManagementPolicy.
	CapabilityManagementPolicyQueries

	// CapabilityStatefulContexts covers CreateState, CreateChildState and
	// the persistence-token pair.
	CapabilityStatefulContexts

	// CapabilityCustomTerminology covers UpdateTerminology.
	CapabilityCustomTerminology

	// CapabilityResolution covers Resolve.
	CapabilityResolution

	// CapabilityPublishing covers Preflight and Register.
	CapabilityPublishing

	// CapabilityRelationships covers GetWithRelationship and
	// GetWithRelationships.
	CapabilityRelationships

	// CapabilityExistenceQueries covers EntityExists.
	CapabilityExistenceQueries

	// CapabilityDefaultEntityReferences covers DefaultEntityReference.
	CapabilityDefaultEntityReferences
)

// String returns the stable name of the capability.
func (c Capability) String() string {
	switch c {
	case CapabilityEntityReferenceIdentification:
		return "entityReferenceIdentification"
	case CapabilityManagementPolicyQueries:
		return "managementPolicyQueries"
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

// Capabilities lists every manager-facing capability in declaration order.
func Capabilities() []Capability {
	return []Capability{
		CapabilityEntityReferenceIdentification,
		CapabilityManagementPolicyQueries,
		CapabilityStatefulContexts,
		CapabilityCustomTerminology,
		CapabilityResolution,
		CapabilityPublishing,
		CapabilityRelationships,
		CapabilityExistenceQueries,
		CapabilityDefaultEntityReferences,
	}
}

// CapabilitySet is a bitmask over Capability values. The zero value is the
// empty set.
type CapabilitySet uint32

// NewCapabilitySet builds a set from the given capabilities.
func NewCapabilitySet(caps ...Capability) CapabilitySet {
	var s CapabilitySet
	for _, c := range caps {
		s |= 1 << uint(c)
	}
	return s
}

// Has reports whether the set contains c.
func (s CapabilitySet) Has(c Capability) bool {
	return s&(1<<uint(c)) != 0
}

// With returns the set extended by c.
func (s CapabilitySet) With(c Capability) CapabilitySet {
	return s | 1<<uint(c)
}

// String renders the member names in declaration order.
func (s CapabilitySet) String() string {
	var names []string
	for _, c := range Capabilities() {
		if s.Has(c) {
			names = append(names, c.String())
		}
	}
	return "{" + strings.Join(names, ", ") + "}"
}
