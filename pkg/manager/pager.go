// SPDX-License-Identifier: Apache-2.0
package manager

import (
	"context"

	"github.com/OpenAssetIO/OpenAssetIO-sub000/pkg/core"
)

// Pager is a lazy cursor over an unbounded sequence of entity references
// produced by a relationship query. The page size is fixed for the pager's
// whole lifetime; results are fetched as pages are visited, never
// materialised up front.
//
// Pagers are single-consumer: implementations need not be safe for
// concurrent use.
type Pager interface {
	// HasNext reports whether a further page exists after the current one.
	HasNext(ctx context.Context) bool

	// Get returns the current page. An exhausted pager returns an empty
	// page, not an error.
	Get(ctx context.Context) ([]core.EntityReference, error)

	// Next advances to the following page.
	Next(ctx context.Context) error
}
