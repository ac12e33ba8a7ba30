// SPDX-License-Identifier: Apache-2.0

// Package main provides the openassetio CLI, a small host for inspecting and
// exercising managers: identification, capability queries, resolution and
// existence checks.
package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/OpenAssetIO/OpenAssetIO-sub000/pkg/config"
	"github.com/OpenAssetIO/OpenAssetIO-sub000/pkg/core"
	"github.com/OpenAssetIO/OpenAssetIO-sub000/pkg/host"
	"github.com/OpenAssetIO/OpenAssetIO-sub000/pkg/manager"
	"github.com/OpenAssetIO/OpenAssetIO-sub000/pkg/managers/basiclib"
	"github.com/OpenAssetIO/OpenAssetIO-sub000/pkg/plugin"
	"github.com/OpenAssetIO/OpenAssetIO-sub000/pkg/telemetry"
)

const version = "v0.1.0"

var (
	// configFile is set by the --config flag.
	configFile string

	cfg               *config.Config
	facade            *host.Manager
	telemetryShutdown telemetry.ShutdownFunc
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "openassetio",
	Short: "openassetio is a host-side tool for asset manager plugins",
	Long: `openassetio wraps an asset manager plugin behind the middleware and
exposes its identification, capabilities and entity queries on the command
line. The manager is selected by the manager.identifier config key.`,
	PersistentPreRunE: initHost,
	PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
		return shutdownHost(cmd.Context())
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configFile, "config", "",
		"config file (default: built-in defaults plus OPENASSETIO_* environment)")

	rootCmd.AddCommand(versionCmd)
	rootCmd.AddCommand(identifyCmd)
	rootCmd.AddCommand(capabilitiesCmd)
	rootCmd.AddCommand(resolveCmd)
	rootCmd.AddCommand(existsCmd)
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version number",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Println("openassetio " + version)
	},
}

type cliHost struct {
	cfg config.HostConfig
}

func (h cliHost) Identifier() string   { return h.cfg.Identifier }
func (h cliHost) DisplayName() string  { return h.cfg.DisplayName }
func (h cliHost) Info() map[string]any { return map[string]any{"version": version} }

// initHost loads config, wires logging and telemetry, and initializes the
// configured manager.
func initHost(cmd *cobra.Command, args []string) error {
	if cmd.Name() == "version" {
		return nil
	}

	var err error
	cfg, err = config.Load(configFile)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	logger := telemetry.ConfigureSlog(os.Stderr, cfg.Log.Level, cfg.Log.Format)

	var opts []host.Option
	if cfg.Telemetry.Enabled {
		telemetryShutdown, err = telemetry.InitWithConfig(cfg.Telemetry.ServiceName, version,
			telemetry.Config{
				Exporter:     cfg.Telemetry.Exporter,
				OTLPEndpoint: cfg.Telemetry.OTLPEndpoint,
				OTLPInsecure: cfg.Telemetry.OTLPInsecure,
			})
		if err != nil {
			return fmt.Errorf("init telemetry: %w", err)
		}
		metrics, err := telemetry.NewBatchMetrics()
		if err != nil {
			return fmt.Errorf("init metrics: %w", err)
		}
		opts = append(opts, host.WithMetrics(metrics))
	}

	registry := plugin.NewRegistry()
	if err := registry.Register(basiclib.Identifier, func() (manager.Interface, error) {
		return basiclib.New(), nil
	}); err != nil {
		return err
	}

	iface, err := registry.CreateDefault(cfg)
	if err != nil {
		return err
	}

	session := core.NewHostSession(core.NewHost(cliHost{cfg: cfg.Host}), logger)
	if err := iface.Initialize(cmd.Context(), cfg.Manager.Settings, session); err != nil {
		return fmt.Errorf("initialize manager: %w", err)
	}

	facade = host.NewManager(iface, session, opts...)
	return nil
}

func shutdownHost(ctx context.Context) error {
	if telemetryShutdown != nil {
		return telemetryShutdown(ctx)
	}
	return nil
}
