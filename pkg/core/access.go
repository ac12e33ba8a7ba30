// SPDX-License-Identifier: Apache-2.0
package core

import "fmt"

// Access expresses the intent of an entity-affecting call. Managers may
// answer the same query differently for read and publish intents.
type Access int

const (
	// AccessRead resolves existing data.
	AccessRead Access = iota

	// AccessWrite targets publishing new data to an existing or new entity.
	AccessWrite

	// AccessCreateRelated targets publishing a new entity related to the
	// referenced one.
	AccessCreateRelated

	// AccessRequiredWrite asks whether a write is required to be supported,
	// used by trait introspection.
	AccessRequiredWrite

	// AccessManagerDriven resolves data the manager wants the host to use
	// for a subsequent manager-driven publish.
	AccessManagerDriven
)

// String returns the stable name of the access intent.
func (a Access) String() string {
	switch a {
	case AccessRead:
		return "read"
	case AccessWrite:
		return "write"
	case AccessCreateRelated:
		return "createRelated"
	case AccessRequiredWrite:
		return "requiredWrite"
	case AccessManagerDriven:
		return "managerDriven"
	default:
		return fmt.Sprintf("Access(%d)", int(a))
	}
}
