// SPDX-License-Identifier: Apache-2.0

package basiclib

import (
	"context"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// libraryFile is the YAML seed document a host can point the manager at via
// the library_path setting.
//
//	entities:
//	  - name: asset/cloud/v1
//	    traits:
//	      locatableContent:
//	        location: file:///share/cloud_v1.exr
//	    relations:
//	      - traits: [proxy]
//	        targets: [asset/cloud_proxy/v1]
type libraryFile struct {
	Entities []libraryEntity `yaml:"entities"`
}

type libraryEntity struct {
	Name      string                    `yaml:"name"`
	Traits    map[string]map[string]any `yaml:"traits"`
	Relations []libraryRelation         `yaml:"relations"`
}

type libraryRelation struct {
	Traits  []string `yaml:"traits"`
	Targets []string `yaml:"targets"`
}

// loadLibrary parses the seed file at path and writes its contents into the
// store. Seeding is additive; entities already present are merged over.
func loadLibrary(ctx context.Context, s *store, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read library file: %w", err)
	}

	var lib libraryFile
	if err := yaml.Unmarshal(data, &lib); err != nil {
		return fmt.Errorf("parse library file %s: %w", path, err)
	}

	for _, entity := range lib.Entities {
		if entity.Name == "" {
			return fmt.Errorf("library file %s: entity with empty name", path)
		}
		if err := s.putEntity(ctx, entity.Name, entity.Traits); err != nil {
			return fmt.Errorf("seed entity %s: %w", entity.Name, err)
		}
	}
	// Relations second, so targets declared later in the file resolve too.
	for _, entity := range lib.Entities {
		for _, rel := range entity.Relations {
			relTraits := make(map[string]map[string]any, len(rel.Traits))
			for _, id := range rel.Traits {
				relTraits[id] = map[string]any{}
			}
			for _, target := range rel.Targets {
				if err := s.putRelation(ctx, entity.Name, relTraits, target); err != nil {
					return fmt.Errorf("seed relation %s -> %s: %w", entity.Name, target, err)
				}
			}
		}
	}
	return nil
}
