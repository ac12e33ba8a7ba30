// SPDX-License-Identifier: Apache-2.0

package main

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/OpenAssetIO/OpenAssetIO-sub000/pkg/host"
)

var identifyCmd = &cobra.Command{
	Use:   "identify",
	Short: "Print the configured manager's identification",
	Args:  cobra.NoArgs,
	RunE:  runIdentify,
}

func runIdentify(cmd *cobra.Command, args []string) error {
	out := map[string]any{
		"identifier":  facade.Identifier(),
		"displayName": facade.DisplayName(),
		"info":        facade.Info(),
	}
	return printJSON(out)
}

var capabilitiesCmd = &cobra.Command{
	Use:   "capabilities",
	Short: "List the manager's capabilities",
	Args:  cobra.NoArgs,
	RunE:  runCapabilities,
}

func runCapabilities(cmd *cobra.Command, args []string) error {
	out := map[string]bool{}
	for _, c := range host.Capabilities() {
		out[c.String()] = facade.HasCapability(c)
	}
	return printJSON(out)
}

func printJSON(v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal output: %w", err)
	}
	fmt.Println(string(data))
	return nil
}
