// SPDX-License-Identifier: Apache-2.0

package telemetry

import (
	"go.opentelemetry.io/otel/attribute"
)

// Semantic conventions for middleware telemetry. These follow OpenTelemetry
// naming conventions where applicable.
const (
	// Manager attributes
	AttrManagerIdentifier = "openassetio.manager.identifier"
	AttrManagerName       = "openassetio.manager.name"

	// Host/session attributes
	AttrHostIdentifier = "openassetio.host.identifier"
	AttrSessionID      = "openassetio.session.id"

	// Batch operation attributes
	AttrOperation  = "openassetio.operation"
	AttrBatchSize  = "openassetio.batch.size"
	AttrAccessMode = "openassetio.access"
	AttrErrorCode  = "openassetio.error.code"
	AttrErrorIndex = "openassetio.error.index"

	// Entity attributes
	AttrEntityReference = "openassetio.entity.reference"
	AttrTraitCount      = "openassetio.traits.count"
)

// ManagerAttributes returns common attributes for spans around manager calls.
func ManagerAttributes(identifier, displayName string) []attribute.KeyValue {
	attrs := []attribute.KeyValue{
		attribute.String(AttrManagerIdentifier, identifier),
	}
	if displayName != "" {
		attrs = append(attrs, attribute.String(AttrManagerName, displayName))
	}
	return attrs
}

// SessionAttributes returns attributes identifying the calling host session.
func SessionAttributes(hostIdentifier, sessionID string) []attribute.KeyValue {
	attrs := []attribute.KeyValue{
		attribute.String(AttrHostIdentifier, hostIdentifier),
	}
	if sessionID != "" {
		attrs = append(attrs, attribute.String(AttrSessionID, sessionID))
	}
	return attrs
}

// BatchAttributes returns attributes for one batched operation span.
func BatchAttributes(op string, size int, access string) []attribute.KeyValue {
	attrs := []attribute.KeyValue{
		attribute.String(AttrOperation, op),
		attribute.Int(AttrBatchSize, size),
	}
	if access != "" {
		attrs = append(attrs, attribute.String(AttrAccessMode, access))
	}
	return attrs
}

// ElementErrorAttributes returns attributes for a per-element failure event.
func ElementErrorAttributes(op string, index int, code string) []attribute.KeyValue {
	return []attribute.KeyValue{
		attribute.String(AttrOperation, op),
		attribute.Int(AttrErrorIndex, index),
		attribute.String(AttrErrorCode, code),
	}
}
