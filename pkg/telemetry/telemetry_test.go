// SPDX-License-Identifier: Apache-2.0

package telemetry

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/OpenAssetIO/OpenAssetIO-sub000/pkg/errors"
	"github.com/OpenAssetIO/OpenAssetIO-sub000/pkg/host"
)

func TestInit(t *testing.T) {
	shutdown, err := Init("test-service", "v0.0.1")
	if err != nil {
		t.Fatalf("Init failed: %v", err)
	}
	if shutdown == nil {
		t.Fatal("Shutdown function should not be nil")
	}

	if err := shutdown(context.Background()); err != nil {
		t.Errorf("Shutdown failed: %v", err)
	}
}

func TestInitWithConfigRejectsUnknownExporter(t *testing.T) {
	if _, err := InitWithConfig("svc", "v1", Config{Exporter: "carrier-pigeon"}); err == nil {
		t.Error("unknown exporter accepted")
	}
	if _, err := InitWithConfig("svc", "v1", Config{Exporter: "otlp"}); err == nil {
		t.Error("otlp without endpoint accepted")
	}
}

func TestConfigureSlogFormats(t *testing.T) {
	var buf bytes.Buffer
	logger := ConfigureSlog(&buf, "info", "json")
	logger.Info("hello", "k", "v")
	if !strings.Contains(buf.String(), `"msg":"hello"`) {
		t.Errorf("json output missing message: %s", buf.String())
	}

	buf.Reset()
	logger = ConfigureSlog(&buf, "warn", "text")
	logger.Info("suppressed")
	if buf.Len() != 0 {
		t.Errorf("info logged at warn level: %s", buf.String())
	}
	logger.Warn("kept")
	if !strings.Contains(buf.String(), "kept") {
		t.Errorf("warn record missing: %s", buf.String())
	}
}

func TestParseLogLevel(t *testing.T) {
	cases := map[string]string{
		"debug":   "DEBUG",
		"warn":    "WARN",
		"warning": "WARN",
		"error":   "ERROR",
		"":        "INFO",
		"bogus":   "INFO",
	}
	for in, want := range cases {
		if got := parseLogLevel(in).String(); got != want {
			t.Errorf("parseLogLevel(%q) = %s, want %s", in, got, want)
		}
	}
}

func TestBatchMetricsRecords(t *testing.T) {
	bm, err := NewBatchMetrics()
	if err != nil {
		t.Fatalf("NewBatchMetrics: %v", err)
	}

	var _ host.MetricsRecorder = bm

	// The default global meter provider is a no-op; recording must still be
	// safe to call.
	ctx := context.Background()
	bm.RecordBatch(ctx, "resolve", 3)
	bm.RecordElementError(ctx, "resolve", errors.CodeEntityResolutionError)

	var nilMetrics *BatchMetrics
	nilMetrics.RecordBatch(ctx, "resolve", 1)
	nilMetrics.RecordElementError(ctx, "resolve", errors.CodeUnknown)
}

func TestBatchAttributes(t *testing.T) {
	attrs := BatchAttributes("resolve", 5, "read")
	if len(attrs) != 3 {
		t.Fatalf("got %d attributes, want 3", len(attrs))
	}
	if string(attrs[0].Key) != AttrOperation || attrs[0].Value.AsString() != "resolve" {
		t.Errorf("attrs[0] = %v", attrs[0])
	}
	if string(attrs[1].Key) != AttrBatchSize || attrs[1].Value.AsInt64() != 5 {
		t.Errorf("attrs[1] = %v", attrs[1])
	}

	if got := len(BatchAttributes("resolve", 5, "")); got != 2 {
		t.Errorf("empty access kept: %d attrs", got)
	}
}
