// SPDX-License-Identifier: Apache-2.0

package telemetry

import (
	"context"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"

	"github.com/OpenAssetIO/OpenAssetIO-sub000/pkg/errors"
)

// BatchMetrics records batch-operation throughput and per-element failures.
// It satisfies host.MetricsRecorder; attach it with host.WithMetrics.
type BatchMetrics struct {
	// batchCounter counts batch calls by operation.
	batchCounter metric.Int64Counter

	// sizeHistogram tracks batch sizes by operation.
	sizeHistogram metric.Int64Histogram

	// elementErrorCounter counts element failures by operation and code.
	elementErrorCounter metric.Int64Counter
}

// NewBatchMetrics creates a metrics recorder on the global meter provider.
func NewBatchMetrics() (*BatchMetrics, error) {
	meter := otel.Meter("openassetio/host")

	batchCounter, err := meter.Int64Counter(
		"openassetio.batch.calls",
		metric.WithDescription("Batched manager calls by operation"),
	)
	if err != nil {
		return nil, err
	}

	sizeHistogram, err := meter.Int64Histogram(
		"openassetio.batch.size",
		metric.WithDescription("Element count per batched manager call"),
	)
	if err != nil {
		return nil, err
	}

	elementErrorCounter, err := meter.Int64Counter(
		"openassetio.batch.element_errors",
		metric.WithDescription("Per-element failures by operation and error code"),
	)
	if err != nil {
		return nil, err
	}

	return &BatchMetrics{
		batchCounter:        batchCounter,
		sizeHistogram:       sizeHistogram,
		elementErrorCounter: elementErrorCounter,
	}, nil
}

// RecordBatch counts one batched call of the given size.
func (bm *BatchMetrics) RecordBatch(ctx context.Context, op string, size int) {
	if bm == nil {
		return
	}
	attrs := metric.WithAttributes(attribute.String(AttrOperation, op))
	bm.batchCounter.Add(ctx, 1, attrs)
	bm.sizeHistogram.Record(ctx, int64(size), attrs)
}

// RecordElementError counts one element failure.
func (bm *BatchMetrics) RecordElementError(ctx context.Context, op string, code errors.ErrorCode) {
	if bm == nil {
		return
	}
	bm.elementErrorCounter.Add(ctx, 1,
		metric.WithAttributes(
			attribute.String(AttrOperation, op),
			attribute.String(AttrErrorCode, code.String()),
		),
	)
}
