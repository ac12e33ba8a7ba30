// SPDX-License-Identifier: Apache-2.0

package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/OpenAssetIO/OpenAssetIO-sub000/pkg/core"
)

var existsCmd = &cobra.Command{
	Use:   "exists <entity-reference>...",
	Short: "Check whether entities exist",
	Args:  cobra.MinimumNArgs(1),
	RunE:  runExists,
}

func runExists(cmd *cobra.Command, args []string) error {
	refs := make([]core.EntityReference, len(args))
	for i, arg := range args {
		ref, err := facade.CreateEntityReference(arg)
		if err != nil {
			return fmt.Errorf("%q: %w", arg, err)
		}
		refs[i] = ref
	}

	callCtx, err := facade.CreateContext(cmd.Context())
	if err != nil {
		return err
	}

	results, err := facade.EntityExistsResults(cmd.Context(), refs, callCtx)
	if err != nil {
		return err
	}

	out := make([]map[string]any, len(results))
	for i, result := range results {
		entry := map[string]any{"reference": refs[i].String()}
		if elemErr, failed := result.Err(); failed {
			entry["error"] = map[string]any{
				"code":    elemErr.Code.String(),
				"message": elemErr.Message,
			}
		} else {
			exists, _ := result.Value()
			entry["exists"] = exists
		}
		out[i] = entry
	}
	return printJSON(out)
}
