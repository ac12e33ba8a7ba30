// SPDX-License-Identifier: Apache-2.0
package core

import (
	"github.com/OpenAssetIO/OpenAssetIO-sub000/pkg/trait"
)

// ManagerState is opaque state a manager attaches to a Context when it
// advertises stateful contexts. The host never inspects it; it only carries
// it back into subsequent calls on the same manager.
type ManagerState any

// Context holds per-logical-operation state: a locale describing the calling
// situation, and optional manager-owned state. Create one via
// host.Manager.CreateContext or CreateChildContext, never directly; a child
// context deep-copies the locale so mutation is isolated, and gives the
// manager an opportunity to migrate its state.
//
// A Context may span several calls that belong to the same logical unit of
// work, but must not be shared across unrelated operations.
type Context struct {
	// Locale describes the UI/workflow situation the calls originate from.
	Locale *trait.TraitsData

	// ManagerState is set by the facade when the manager supports stateful
	// contexts, and is nil otherwise.
	ManagerState ManagerState
}
