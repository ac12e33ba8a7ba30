// SPDX-License-Identifier: Apache-2.0

// Package basiclib is a self-contained reference manager backed by a SQLite
// asset library, optionally seeded from a YAML file. It exists so hosts can
// exercise the full middleware surface without a commercial asset system:
// resolution, publishing, relationship queries, existence queries and
// stateful contexts are all implemented.
package basiclib

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/google/uuid"

	"github.com/OpenAssetIO/OpenAssetIO-sub000/pkg/core"
	"github.com/OpenAssetIO/OpenAssetIO-sub000/pkg/errors"
	"github.com/OpenAssetIO/OpenAssetIO-sub000/pkg/manager"
	"github.com/OpenAssetIO/OpenAssetIO-sub000/pkg/trait"
)

// Identifier is the reverse-DNS identifier this manager reports.
const Identifier = "org.openassetio.examples.manager.basiclib"

// referencePrefix anchors every entity reference this manager understands.
const referencePrefix = "bal:///"

// managedTrait is imbued in management policy responses for trait sets the
// manager is willing to handle.
const managedTrait = "openassetio:policy.Managed"

// Settings keys accepted by Initialize.
const (
	// SettingLibraryPath points at a YAML seed file; empty starts with an
	// empty library.
	SettingLibraryPath = "library_path"

	// SettingDatabasePath locates the SQLite database; empty uses an
	// in-memory database scoped to this instance.
	SettingDatabasePath = "database_path"
)

// Manager implements manager.Interface over the SQLite library store.
// All entity methods are safe for concurrent use once Initialize returns.
type Manager struct {
	manager.Base

	mu       sync.RWMutex
	store    *store
	settings map[string]any
}

var _ manager.Interface = (*Manager)(nil)

// New creates an uninitialized manager.
func New() *Manager {
	return &Manager{settings: map[string]any{}}
}

func (m *Manager) Identifier() string { return Identifier }

func (m *Manager) DisplayName() string { return "Basic Asset Library" }

func (m *Manager) Info() map[string]any {
	return map[string]any{
		"vendor": "OpenAssetIO project",
	}
}

func (m *Manager) Settings(_ *core.HostSession) map[string]any {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make(map[string]any, len(m.settings))
	for k, v := range m.settings {
		out[k] = v
	}
	return out
}

func (m *Manager) Initialize(ctx context.Context, settings map[string]any, session *core.HostSession) error {
	libraryPath, err := stringSetting(settings, SettingLibraryPath)
	if err != nil {
		return err
	}
	dbPath, err := stringSetting(settings, SettingDatabasePath)
	if err != nil {
		return err
	}
	for k := range settings {
		if k != SettingLibraryPath && k != SettingDatabasePath {
			return errors.NewConfiguration(fmt.Sprintf("unknown setting %q", k))
		}
	}

	s, err := openStore(dbPath)
	if err != nil {
		return errors.NewConfiguration(err.Error())
	}
	if libraryPath != "" {
		if err := loadLibrary(ctx, s, libraryPath); err != nil {
			s.close()
			return errors.NewConfiguration(err.Error())
		}
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	if m.store != nil {
		m.store.close()
	}
	m.store = s
	m.settings = map[string]any{
		SettingLibraryPath:  libraryPath,
		SettingDatabasePath: dbPath,
	}

	session.Logger().Info("basiclib manager initialized",
		"library_path", libraryPath, "database_path", dbPath)
	return nil
}

func stringSetting(settings map[string]any, key string) (string, error) {
	v, ok := settings[key]
	if !ok {
		return "", nil
	}
	s, ok := v.(string)
	if !ok {
		return "", errors.NewConfiguration(fmt.Sprintf("setting %q must be a string", key))
	}
	return s, nil
}

// Close releases the library database. Not part of manager.Interface; hosts
// owning the concrete type call it at shutdown.
func (m *Manager) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.store == nil {
		return nil
	}
	err := m.store.close()
	m.store = nil
	return err
}

func (m *Manager) library() (*store, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.store == nil {
		return nil, errors.NewConfiguration("manager is not initialized")
	}
	return m.store, nil
}

func (m *Manager) HasCapability(c manager.Capability) bool {
	switch c {
	case manager.CapabilityEntityReferenceIdentification,
		manager.CapabilityManagementPolicyQueries,
		manager.CapabilityStatefulContexts,
		manager.CapabilityResolution,
		manager.CapabilityPublishing,
		manager.CapabilityRelationships,
		manager.CapabilityExistenceQueries:
		return true
	default:
		return false
	}
}

func (m *Manager) IsEntityReferenceString(s string, _ *core.HostSession) bool {
	return strings.HasPrefix(s, referencePrefix)
}

func (m *Manager) ManagementPolicy(traitSets []trait.Set, access core.Access,
	_ *core.Context, _ *core.HostSession) ([]*trait.TraitsData, error) {
	policies := make([]*trait.TraitsData, len(traitSets))
	for i, set := range traitSets {
		policy := trait.NewTraitsData()
		policy.AddTrait(managedTrait)
		if access == core.AccessRead || access == core.AccessManagerDriven {
			// Data for any requested trait can be served if the library
			// holds it.
			for id := range set {
				policy.AddTrait(id)
			}
		}
		policies[i] = policy
	}
	return policies, nil
}

// entityName extracts the library name from a reference, or describes why it
// cannot be one of ours.
func entityName(ref core.EntityReference) (string, *errors.BatchElementError) {
	s := ref.String()
	if !strings.HasPrefix(s, referencePrefix) {
		return "", &errors.BatchElementError{
			Code:    errors.CodeMalformedEntityReference,
			Message: fmt.Sprintf("%s is not a %s reference", s, referencePrefix),
		}
	}
	name := strings.TrimPrefix(s, referencePrefix)
	if name == "" {
		return "", &errors.BatchElementError{
			Code:    errors.CodeMalformedEntityReference,
			Message: "entity reference has an empty name",
		}
	}
	return name, nil
}

func reference(name string) core.EntityReference {
	return core.NewEntityReference(referencePrefix + name)
}

func (m *Manager) EntityExists(ctx context.Context, refs []core.EntityReference,
	_ *core.Context, _ *core.HostSession,
	success manager.ExistsSuccessCallback, fail manager.ErrorCallback) error {
	s, err := m.library()
	if err != nil {
		return err
	}
	for i, ref := range refs {
		name, elemErr := entityName(ref)
		if elemErr != nil {
			fail(i, *elemErr)
			continue
		}
		exists, err := s.entityExists(ctx, name)
		if err != nil {
			return errors.NewUnhandled("library query failed", err)
		}
		success(i, exists)
	}
	return nil
}

func (m *Manager) EntityTraits(ctx context.Context, refs []core.EntityReference, access core.Access,
	_ *core.Context, _ *core.HostSession,
	success manager.TraitSetSuccessCallback, fail manager.ErrorCallback) error {
	s, err := m.library()
	if err != nil {
		return err
	}
	for i, ref := range refs {
		name, elemErr := entityName(ref)
		if elemErr != nil {
			fail(i, *elemErr)
			continue
		}
		traits, ok, err := s.entityTraits(ctx, name)
		if err != nil {
			return errors.NewUnhandled("library query failed", err)
		}
		if !ok {
			if access == core.AccessWrite || access == core.AccessCreateRelated {
				// A new entity can hold any traits the host registers.
				success(i, trait.NewSet())
				continue
			}
			fail(i, errors.BatchElementError{
				Code:    errors.CodeInvalidEntityReference,
				Message: fmt.Sprintf("entity %q not found", name),
			})
			continue
		}
		set := trait.NewSet()
		for id := range traits {
			set[id] = struct{}{}
		}
		success(i, set)
	}
	return nil
}

func (m *Manager) Resolve(ctx context.Context, refs []core.EntityReference, traits trait.Set,
	access core.Access, _ *core.Context, _ *core.HostSession,
	success manager.ResolveSuccessCallback, fail manager.ErrorCallback) error {
	s, err := m.library()
	if err != nil {
		return err
	}
	for i, ref := range refs {
		name, elemErr := entityName(ref)
		if elemErr != nil {
			fail(i, *elemErr)
			continue
		}
		if access != core.AccessRead && access != core.AccessManagerDriven {
			fail(i, errors.BatchElementError{
				Code:    errors.CodeEntityAccessError,
				Message: fmt.Sprintf("entities cannot be resolved for %s", access),
			})
			continue
		}
		stored, ok, err := s.entityTraits(ctx, name)
		if err != nil {
			return errors.NewUnhandled("library query failed", err)
		}
		if !ok {
			fail(i, errors.BatchElementError{
				Code:    errors.CodeInvalidEntityReference,
				Message: fmt.Sprintf("entity %q not found", name),
			})
			continue
		}
		data := trait.NewTraitsData()
		for id := range traits {
			props, held := stored[id]
			if !held {
				continue
			}
			data.AddTrait(id)
			for k, v := range props {
				// Non-scalar properties cannot cross the middleware and
				// are withheld.
				_ = data.SetProperty(id, k, normalizeProperty(v))
			}
		}
		success(i, data)
	}
	return nil
}

// normalizeProperty maps values from the JSON-typed store onto the property
// types TraitsData accepts.
func normalizeProperty(v any) any {
	switch n := v.(type) {
	case int:
		return int64(n)
	case int64, float64, bool, string:
		return n
	default:
		return v
	}
}

func (m *Manager) GetWithRelationship(ctx context.Context, refs []core.EntityReference,
	relationship *trait.TraitsData, _ trait.Set, pageSize int,
	_ core.Access, _ *core.Context, _ *core.HostSession,
	success manager.PagerSuccessCallback, fail manager.ErrorCallback) error {
	if relationship == nil {
		return errors.NewInputValidation("relationship must not be nil")
	}
	s, err := m.library()
	if err != nil {
		return err
	}
	traitIDs := relationship.TraitSet().IDs()
	for i, ref := range refs {
		name, elemErr := entityName(ref)
		if elemErr != nil {
			fail(i, *elemErr)
			continue
		}
		exists, err := s.entityExists(ctx, name)
		if err != nil {
			return errors.NewUnhandled("library query failed", err)
		}
		if !exists {
			fail(i, errors.BatchElementError{
				Code:    errors.CodeInvalidEntityReference,
				Message: fmt.Sprintf("entity %q not found", name),
			})
			continue
		}
		success(i, &relationPager{store: s, source: name, traitIDs: traitIDs, pageSize: pageSize})
	}
	return nil
}

func (m *Manager) GetWithRelationships(ctx context.Context, ref core.EntityReference,
	relationships []*trait.TraitsData, resultTraits trait.Set, pageSize int,
	access core.Access, callCtx *core.Context, session *core.HostSession,
	success manager.PagerSuccessCallback, fail manager.ErrorCallback) error {
	for i, relationship := range relationships {
		idx := i
		err := m.GetWithRelationship(ctx, []core.EntityReference{ref}, relationship,
			resultTraits, pageSize, access, callCtx, session,
			func(_ int, pager manager.Pager) { success(idx, pager) },
			func(_ int, elemErr errors.BatchElementError) { fail(idx, elemErr) })
		if err != nil {
			return err
		}
	}
	return nil
}

func (m *Manager) Preflight(_ context.Context, refs []core.EntityReference, hints []*trait.TraitsData,
	access core.Access, _ *core.Context, _ *core.HostSession,
	success manager.ReferenceSuccessCallback, fail manager.ErrorCallback) error {
	if _, err := m.library(); err != nil {
		return err
	}
	for i, ref := range refs {
		if _, elemErr := entityName(ref); elemErr != nil {
			fail(i, *elemErr)
			continue
		}
		if access != core.AccessWrite && access != core.AccessCreateRelated {
			fail(i, errors.BatchElementError{
				Code:    errors.CodeEntityAccessError,
				Message: fmt.Sprintf("entities cannot be published for %s", access),
			})
			continue
		}
		if hints != nil && hints[i] == nil {
			fail(i, errors.BatchElementError{
				Code:    errors.CodeInvalidPreflightHint,
				Message: "preflight hint must not be nil",
			})
			continue
		}
		// The library writes in place; the working reference is the input.
		success(i, ref)
	}
	return nil
}

func (m *Manager) Register(ctx context.Context, refs []core.EntityReference, data []*trait.TraitsData,
	access core.Access, _ *core.Context, _ *core.HostSession,
	success manager.ReferenceSuccessCallback, fail manager.ErrorCallback) error {
	s, err := m.library()
	if err != nil {
		return err
	}
	for i, ref := range refs {
		name, elemErr := entityName(ref)
		if elemErr != nil {
			fail(i, *elemErr)
			continue
		}
		if access != core.AccessWrite && access != core.AccessCreateRelated {
			fail(i, errors.BatchElementError{
				Code:    errors.CodeEntityAccessError,
				Message: fmt.Sprintf("entities cannot be published for %s", access),
			})
			continue
		}
		if data[i] == nil {
			fail(i, errors.BatchElementError{
				Code:    errors.CodeInvalidTraitSet,
				Message: "register data must not be nil",
			})
			continue
		}
		traits := make(map[string]map[string]any)
		for _, id := range data[i].TraitSet().IDs() {
			props := make(map[string]any)
			for _, k := range data[i].PropertyKeys(id) {
				v, _ := data[i].Property(id, k)
				props[k] = v
			}
			traits[id] = props
		}
		if err := s.putEntity(ctx, name, traits); err != nil {
			return errors.NewUnhandled("library write failed", err)
		}
		success(i, ref)
	}
	return nil
}

// state is the opaque per-context manager state. The library has no real
// transactions to scope, so state is a stable marker hosts can persist and
// restore.
type state struct {
	ID string
}

const persistenceTokenPrefix = "bal-state:"

func (m *Manager) CreateState(_ context.Context, _ *core.HostSession) (core.ManagerState, error) {
	return &state{ID: uuid.NewString()}, nil
}

func (m *Manager) CreateChildState(_ context.Context, parent core.ManagerState,
	_ *core.HostSession) (core.ManagerState, error) {
	if _, ok := parent.(*state); !ok {
		return nil, errors.NewInputValidation("parent state was not created by this manager")
	}
	return &state{ID: uuid.NewString()}, nil
}

func (m *Manager) PersistenceTokenForState(st core.ManagerState, _ *core.HostSession) (string, error) {
	s, ok := st.(*state)
	if !ok {
		return "", errors.NewInputValidation("state was not created by this manager")
	}
	return persistenceTokenPrefix + s.ID, nil
}

func (m *Manager) StateFromPersistenceToken(token string, _ *core.HostSession) (core.ManagerState, error) {
	id := strings.TrimPrefix(token, persistenceTokenPrefix)
	if id == token {
		return nil, errors.NewInputValidation(fmt.Sprintf("malformed persistence token %q", token))
	}
	if _, err := uuid.Parse(id); err != nil {
		return nil, errors.NewInputValidation(fmt.Sprintf("malformed persistence token %q", token))
	}
	return &state{ID: id}, nil
}

// relationPager pages over relationship query results straight from the
// store. Single consumer; a fixed page size for its lifetime.
type relationPager struct {
	store    *store
	source   string
	traitIDs []string
	pageSize int
	offset   int
}

func (p *relationPager) Get(ctx context.Context) ([]core.EntityReference, error) {
	names, err := p.store.relatedEntities(ctx, p.source, p.traitIDs, p.offset, p.pageSize)
	if err != nil {
		return nil, errors.NewUnhandled("library query failed", err)
	}
	refs := make([]core.EntityReference, len(names))
	for i, name := range names {
		refs[i] = reference(name)
	}
	return refs, nil
}

func (p *relationPager) HasNext(ctx context.Context) bool {
	names, err := p.store.relatedEntities(ctx, p.source, p.traitIDs, p.offset+p.pageSize, 1)
	if err != nil {
		return false
	}
	return len(names) > 0
}

func (p *relationPager) Next(_ context.Context) error {
	p.offset += p.pageSize
	return nil
}
