// SPDX-License-Identifier: Apache-2.0
// Package core holds the shared data model threaded through every
// host/manager call: entity references, access intents, the per-operation
// Context and the HostSession identity carrier.
package core

// EntityReference is an immutable string identifying an entity within a
// particular manager. Host code must obtain one through
// host.Manager.CreateEntityReference, which confirms the string is one the
// wrapped manager understands; only manager implementations and their tests
// mint references directly.
type EntityReference struct {
	ref string
}

// NewEntityReference wraps a raw reference string. See the type doc for who
// is allowed to call this.
func NewEntityReference(ref string) EntityReference {
	return EntityReference{ref: ref}
}

// String returns the wrapped reference string.
func (r EntityReference) String() string { return r.ref }
