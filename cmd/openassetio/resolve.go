// SPDX-License-Identifier: Apache-2.0

package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/OpenAssetIO/OpenAssetIO-sub000/pkg/core"
	"github.com/OpenAssetIO/OpenAssetIO-sub000/pkg/trait"
)

var resolveTraits []string

var resolveCmd = &cobra.Command{
	Use:   "resolve <entity-reference>...",
	Short: "Resolve trait data for one or more entity references",
	Long: `Resolve queries the manager for the property data of the requested
traits on each entity. Failures are reported per reference.

Example:
  openassetio resolve --trait locatableContent bal:///asset/cloud/v1`,
	Args: cobra.MinimumNArgs(1),
	RunE: runResolve,
}

func init() {
	resolveCmd.Flags().StringSliceVar(&resolveTraits, "trait", nil,
		"trait ID to resolve (repeatable)")
	resolveCmd.MarkFlagRequired("trait")
}

func runResolve(cmd *cobra.Command, args []string) error {
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

	results, err := facade.ResolveResults(cmd.Context(), refs,
		trait.NewSet(resolveTraits...), core.AccessRead, callCtx)
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
			data, _ := result.Value()
			entry["traits"] = traitsDataToMap(data)
		}
		out[i] = entry
	}
	return printJSON(out)
}

func traitsDataToMap(data *trait.TraitsData) map[string]map[string]any {
	out := make(map[string]map[string]any)
	for _, id := range data.TraitSet().IDs() {
		props := make(map[string]any)
		for _, k := range data.PropertyKeys(id) {
			v, _ := data.Property(id, k)
			props[k] = v
		}
		out[id] = props
	}
	return out
}
