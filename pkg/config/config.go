// SPDX-License-Identifier: Apache-2.0

// Package config loads middleware configuration from defaults, an optional
// YAML file and OPENASSETIO_-prefixed environment variables, in that order of
// precedence (later wins).
package config

import (
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

// Config is the top-level middleware configuration.
type Config struct {
	Log       LogConfig       `koanf:"log"`
	Telemetry TelemetryConfig `koanf:"telemetry"`
	Host      HostConfig      `koanf:"host"`
	Manager   ManagerConfig   `koanf:"manager"`
}

// LogConfig controls the slog handler.
type LogConfig struct {
	Level  string `koanf:"level"`
	Format string `koanf:"format"` // json, text
}

// TelemetryConfig controls the OpenTelemetry SDK.
type TelemetryConfig struct {
	Enabled      bool   `koanf:"enabled"`
	Exporter     string `koanf:"exporter"` // stdout, otlp
	OTLPEndpoint string `koanf:"otlp_endpoint"`
	OTLPInsecure bool   `koanf:"otlp_insecure"`
	ServiceName  string `koanf:"service_name"`
}

// HostConfig identifies the embedding host tool.
type HostConfig struct {
	Identifier  string `koanf:"identifier"`
	DisplayName string `koanf:"display_name"`
}

// ManagerConfig selects and configures the default manager. Settings are
// passed verbatim to the manager's Initialize.
type ManagerConfig struct {
	Identifier string         `koanf:"identifier"`
	Settings   map[string]any `koanf:"settings"`
}

// Load reads configuration from path (skipped when empty), layered over
// defaults and under OPENASSETIO_ environment variables
// (OPENASSETIO_MANAGER_IDENTIFIER -> manager.identifier).
func Load(path string) (*Config, error) {
	k := koanf.New(".")

	k.Set("log.level", "info")
	k.Set("log.format", "text")
	k.Set("telemetry.enabled", false)
	k.Set("telemetry.exporter", "stdout")
	k.Set("telemetry.service_name", "openassetio-host")
	k.Set("host.identifier", "org.openassetio.host")
	k.Set("host.display_name", "OpenAssetIO Host")

	if path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, err
		}
	}

	if err := k.Load(env.Provider("OPENASSETIO_", ".", func(s string) string {
		return strings.Replace(strings.ToLower(
			strings.TrimPrefix(s, "OPENASSETIO_")), "_", ".", -1)
	}), nil); err != nil {
		return nil, err
	}

	var cfg Config
	if err := k.Unmarshal("", &cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}
