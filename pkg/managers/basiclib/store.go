// SPDX-License-Identifier: Apache-2.0

package basiclib

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	_ "modernc.org/sqlite"
)

// store persists the asset library in SQLite. Entities are keyed by their
// library name (the path portion of the entity reference); trait properties
// are stored as JSON per trait.
type store struct {
	db *sql.DB
}

// openStore opens (or creates) the library database. An empty path opens a
// private in-memory database.
func openStore(path string) (*store, error) {
	dsn := path
	if dsn == "" {
		dsn = ":memory:"
	}
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open library database: %w", err)
	}
	// The in-memory database exists per connection; keep exactly one.
	db.SetMaxOpenConns(1)
	if err := ensureSchema(db); err != nil {
		db.Close()
		return nil, err
	}
	return &store{db: db}, nil
}

func ensureSchema(db *sql.DB) error {
	_, err := db.Exec(`
		CREATE TABLE IF NOT EXISTS entities (
			name TEXT PRIMARY KEY
		);
		CREATE TABLE IF NOT EXISTS entity_traits (
			entity TEXT NOT NULL REFERENCES entities(name) ON DELETE CASCADE,
			trait TEXT NOT NULL,
			properties_json TEXT NOT NULL DEFAULT '{}',
			PRIMARY KEY (entity, trait)
		);
		CREATE TABLE IF NOT EXISTS relations (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			source TEXT NOT NULL REFERENCES entities(name) ON DELETE CASCADE,
			traits_json TEXT NOT NULL,
			target TEXT NOT NULL
		);
		CREATE INDEX IF NOT EXISTS idx_relations_source ON relations(source);
	`)
	return err
}

func (s *store) close() error {
	return s.db.Close()
}

func (s *store) entityExists(ctx context.Context, name string) (bool, error) {
	var one int
	err := s.db.QueryRowContext(ctx,
		`SELECT 1 FROM entities WHERE name = ?`, name).Scan(&one)
	if err == sql.ErrNoRows {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

// entityTraits returns the trait -> properties map for one entity, or ok ==
// false when the entity is not in the library.
func (s *store) entityTraits(ctx context.Context, name string) (map[string]map[string]any, bool, error) {
	exists, err := s.entityExists(ctx, name)
	if err != nil || !exists {
		return nil, false, err
	}

	rows, err := s.db.QueryContext(ctx,
		`SELECT trait, properties_json FROM entity_traits WHERE entity = ?`, name)
	if err != nil {
		return nil, false, err
	}
	defer rows.Close()

	traits := make(map[string]map[string]any)
	for rows.Next() {
		var trait, propsJSON string
		if err := rows.Scan(&trait, &propsJSON); err != nil {
			return nil, false, err
		}
		props := map[string]any{}
		if err := json.Unmarshal([]byte(propsJSON), &props); err != nil {
			return nil, false, fmt.Errorf("corrupt properties for %s/%s: %w", name, trait, err)
		}
		traits[trait] = props
	}
	if err := rows.Err(); err != nil {
		return nil, false, err
	}
	return traits, true, nil
}

// putEntity upserts an entity and merges the given traits over any existing
// ones.
func (s *store) putEntity(ctx context.Context, name string, traits map[string]map[string]any) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx,
		`INSERT INTO entities (name) VALUES (?) ON CONFLICT (name) DO NOTHING`, name); err != nil {
		return err
	}
	for trait, props := range traits {
		if props == nil {
			props = map[string]any{}
		}
		propsJSON, err := json.Marshal(props)
		if err != nil {
			return err
		}
		if _, err := tx.ExecContext(ctx, `
			INSERT INTO entity_traits (entity, trait, properties_json) VALUES (?, ?, ?)
			ON CONFLICT (entity, trait) DO UPDATE SET properties_json = excluded.properties_json
		`, name, trait, string(propsJSON)); err != nil {
			return err
		}
	}
	return tx.Commit()
}

// putRelation records a directed relation from source to target carrying the
// given trait -> properties data.
func (s *store) putRelation(ctx context.Context, source string, traits map[string]map[string]any, target string) error {
	traitsJSON, err := json.Marshal(traits)
	if err != nil {
		return err
	}
	_, err = s.db.ExecContext(ctx,
		`INSERT INTO relations (source, traits_json, target) VALUES (?, ?, ?)`,
		source, string(traitsJSON), target)
	return err
}

// relatedEntities returns one page of targets related to source whose
// relation data carries every trait in traitIDs. Paging is by stable
// insertion order.
func (s *store) relatedEntities(ctx context.Context, source string, traitIDs []string,
	offset, limit int) ([]string, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT traits_json, target FROM relations WHERE source = ? ORDER BY id ASC`, source)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var matched []string
	for rows.Next() {
		var traitsJSON, target string
		if err := rows.Scan(&traitsJSON, &target); err != nil {
			return nil, err
		}
		traits := map[string]map[string]any{}
		if err := json.Unmarshal([]byte(traitsJSON), &traits); err != nil {
			return nil, fmt.Errorf("corrupt relation data for %s: %w", source, err)
		}
		if relationMatches(traits, traitIDs) {
			matched = append(matched, target)
		}
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	if offset >= len(matched) {
		return nil, nil
	}
	end := offset + limit
	if limit <= 0 || end > len(matched) {
		end = len(matched)
	}
	return matched[offset:end], nil
}

func relationMatches(relationTraits map[string]map[string]any, traitIDs []string) bool {
	for _, id := range traitIDs {
		if _, ok := relationTraits[id]; !ok {
			return false
		}
	}
	return true
}
