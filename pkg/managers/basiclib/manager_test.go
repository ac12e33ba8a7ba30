// SPDX-License-Identifier: Apache-2.0

package basiclib

import (
	"context"
	stderrors "errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/OpenAssetIO/OpenAssetIO-sub000/pkg/core"
	"github.com/OpenAssetIO/OpenAssetIO-sub000/pkg/errors"
	"github.com/OpenAssetIO/OpenAssetIO-sub000/pkg/host"
	"github.com/OpenAssetIO/OpenAssetIO-sub000/pkg/trait"
)

type stubHost struct{}

func (stubHost) Identifier() string   { return "org.example.test-host" }
func (stubHost) DisplayName() string  { return "Test Host" }
func (stubHost) Info() map[string]any { return map[string]any{} }

const testLibrary = `
entities:
  - name: asset/cloud/v1
    traits:
      locatableContent:
        location: file:///share/cloud_v1.exr
      versioned:
        version: 1
    relations:
      - traits: [proxy]
        targets: [asset/cloud_proxy/a, asset/cloud_proxy/b, asset/cloud_proxy/c]
  - name: asset/cloud_proxy/a
    traits:
      locatableContent:
        location: file:///share/cloud_proxy_a.exr
  - name: asset/cloud_proxy/b
    traits: {}
  - name: asset/cloud_proxy/c
    traits: {}
`

func newTestManager(t *testing.T) (*Manager, *core.HostSession) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "library.yaml")
	if err := os.WriteFile(path, []byte(testLibrary), 0o644); err != nil {
		t.Fatal(err)
	}

	m := New()
	session := core.NewHostSession(core.NewHost(stubHost{}), nil)
	err := m.Initialize(context.Background(), map[string]any{
		SettingLibraryPath: path,
	}, session)
	if err != nil {
		t.Fatalf("Initialize: %v", err)
	}
	t.Cleanup(func() { m.Close() })
	return m, session
}

func TestIdentification(t *testing.T) {
	m := New()
	if m.Identifier() != Identifier {
		t.Errorf("Identifier = %q", m.Identifier())
	}
	if m.DisplayName() == "" {
		t.Error("DisplayName is empty")
	}
	if !m.IsEntityReferenceString("bal:///asset/x", nil) {
		t.Error("bal reference rejected")
	}
	if m.IsEntityReferenceString("file:///asset/x", nil) {
		t.Error("file URL accepted")
	}
}

func TestInitializeRejectsUnknownSettings(t *testing.T) {
	m := New()
	session := core.NewHostSession(core.NewHost(stubHost{}), nil)
	err := m.Initialize(context.Background(), map[string]any{"bogus": 1}, session)
	var ce *errors.ConfigurationError
	if !stderrors.As(err, &ce) {
		t.Errorf("Initialize with unknown setting: %v", err)
	}
}

func TestUninitializedReturnsConfigurationError(t *testing.T) {
	m := New()
	err := m.EntityExists(context.Background(), []core.EntityReference{reference("x")},
		nil, nil, func(int, bool) {}, func(int, errors.BatchElementError) {})
	var ce *errors.ConfigurationError
	if !stderrors.As(err, &ce) {
		t.Errorf("EntityExists before Initialize: %v", err)
	}
}

func TestResolveScenario(t *testing.T) {
	m, session := newTestManager(t)
	facade := host.NewManager(m, session)
	callCtx, err := facade.CreateContext(context.Background())
	if err != nil {
		t.Fatalf("CreateContext: %v", err)
	}

	refs := []core.EntityReference{
		reference("asset/cloud/v1"),
		core.NewEntityReference("bal:///"),
		reference("asset/missing"),
	}
	results, err := facade.ResolveResults(context.Background(), refs,
		trait.NewSet("locatableContent", "versioned"), core.AccessRead, callCtx)
	if err != nil {
		t.Fatalf("ResolveResults: %v", err)
	}

	if elemErr, failed := results[0].Err(); failed {
		t.Fatalf("results[0]: %v", elemErr)
	}
	data, _ := results[0].Value()
	loc, ok := data.Property("locatableContent", "location")
	if !ok || loc != "file:///share/cloud_v1.exr" {
		t.Errorf("location = %v (%v)", loc, ok)
	}
	version, ok := data.Property("versioned", "version")
	if !ok || version != float64(1) {
		t.Errorf("version = %v (%T)", version, version)
	}

	if elemErr, failed := results[1].Err(); !failed || elemErr.Code != errors.CodeMalformedEntityReference {
		t.Errorf("results[1] = %+v", results[1])
	}
	if elemErr, failed := results[2].Err(); !failed || elemErr.Code != errors.CodeInvalidEntityReference {
		t.Errorf("results[2] = %+v", results[2])
	}
}

func TestResolveRejectsWriteAccess(t *testing.T) {
	m, session := newTestManager(t)
	facade := host.NewManager(m, session)
	callCtx, err := facade.CreateContext(context.Background())
	if err != nil {
		t.Fatalf("CreateContext: %v", err)
	}

	_, err = facade.ResolveOne(context.Background(), reference("asset/cloud/v1"),
		trait.NewSet("locatableContent"), core.AccessWrite, callCtx)
	var accessErr *errors.EntityAccessBatchElementError
	if !stderrors.As(err, &accessErr) {
		t.Errorf("resolve for write: %v", err)
	}
}

func TestEntityExistence(t *testing.T) {
	m, session := newTestManager(t)
	facade := host.NewManager(m, session)
	callCtx, err := facade.CreateContext(context.Background())
	if err != nil {
		t.Fatalf("CreateContext: %v", err)
	}

	exists, err := facade.EntityExistsAll(context.Background(), []core.EntityReference{
		reference("asset/cloud/v1"),
		reference("asset/missing"),
	}, callCtx)
	if err != nil {
		t.Fatalf("EntityExistsAll: %v", err)
	}
	if !exists[0] || exists[1] {
		t.Errorf("exists = %v", exists)
	}
}

func TestEntityTraits(t *testing.T) {
	m, session := newTestManager(t)
	facade := host.NewManager(m, session)
	callCtx, err := facade.CreateContext(context.Background())
	if err != nil {
		t.Fatalf("CreateContext: %v", err)
	}

	set, err := facade.EntityTraitsOne(context.Background(), reference("asset/cloud/v1"),
		core.AccessRead, callCtx)
	if err != nil {
		t.Fatalf("EntityTraitsOne: %v", err)
	}
	if !set.Has("locatableContent") || !set.Has("versioned") {
		t.Errorf("traits = %v", set.IDs())
	}

	// A to-be-created entity reports an empty trait set for write access.
	set, err = facade.EntityTraitsOne(context.Background(), reference("asset/new"),
		core.AccessWrite, callCtx)
	if err != nil {
		t.Fatalf("EntityTraitsOne(write): %v", err)
	}
	if len(set) != 0 {
		t.Errorf("new entity traits = %v", set.IDs())
	}
}

func TestManagementPolicy(t *testing.T) {
	m, session := newTestManager(t)
	facade := host.NewManager(m, session)
	callCtx, err := facade.CreateContext(context.Background())
	if err != nil {
		t.Fatalf("CreateContext: %v", err)
	}

	policies, err := facade.ManagementPolicy([]trait.Set{
		trait.NewSet("locatableContent"),
	}, core.AccessRead, callCtx)
	if err != nil {
		t.Fatalf("ManagementPolicy: %v", err)
	}
	if !policies[0].HasTrait(managedTrait) {
		t.Error("policy does not claim management")
	}
	if !policies[0].HasTrait("locatableContent") {
		t.Error("policy does not echo the queried trait")
	}
}

func TestPublishRoundTrip(t *testing.T) {
	m, session := newTestManager(t)
	facade := host.NewManager(m, session)
	callCtx, err := facade.CreateContext(context.Background())
	if err != nil {
		t.Fatalf("CreateContext: %v", err)
	}
	ctx := context.Background()

	target := reference("asset/published/v1")
	hint := trait.NewTraitsData()
	if err := hint.SetProperty("locatableContent", "location", "file:///tmp/out.exr"); err != nil {
		t.Fatal(err)
	}

	working, err := facade.PreflightOne(ctx, target, hint, core.AccessWrite, callCtx)
	if err != nil {
		t.Fatalf("PreflightOne: %v", err)
	}

	data := trait.NewTraitsData()
	if err := data.SetProperty("locatableContent", "location", "file:///share/published_v1.exr"); err != nil {
		t.Fatal(err)
	}
	final, err := facade.RegisterOne(ctx, working, data, core.AccessWrite, callCtx)
	if err != nil {
		t.Fatalf("RegisterOne: %v", err)
	}

	resolved, err := facade.ResolveOne(ctx, final, trait.NewSet("locatableContent"),
		core.AccessRead, callCtx)
	if err != nil {
		t.Fatalf("ResolveOne after publish: %v", err)
	}
	loc, _ := resolved.Property("locatableContent", "location")
	if loc != "file:///share/published_v1.exr" {
		t.Errorf("location = %v", loc)
	}
}

func TestRegisterRejectsReadAccess(t *testing.T) {
	m, session := newTestManager(t)
	facade := host.NewManager(m, session)
	callCtx, err := facade.CreateContext(context.Background())
	if err != nil {
		t.Fatalf("CreateContext: %v", err)
	}

	data := trait.NewTraitsData()
	data.AddTrait("locatableContent")
	_, err = facade.RegisterOne(context.Background(), reference("asset/x"), data,
		core.AccessRead, callCtx)
	var accessErr *errors.EntityAccessBatchElementError
	if !stderrors.As(err, &accessErr) {
		t.Errorf("register for read: %v", err)
	}
}

func TestRelationshipPaging(t *testing.T) {
	m, session := newTestManager(t)
	facade := host.NewManager(m, session)
	callCtx, err := facade.CreateContext(context.Background())
	if err != nil {
		t.Fatalf("CreateContext: %v", err)
	}
	ctx := context.Background()

	relationship := trait.NewTraitsData()
	relationship.AddTrait("proxy")

	pagers, err := facade.GetWithRelationshipAll(ctx,
		[]core.EntityReference{reference("asset/cloud/v1")},
		relationship, trait.NewSet(), 2, core.AccessRead, callCtx)
	if err != nil {
		t.Fatalf("GetWithRelationshipAll: %v", err)
	}
	pager := pagers[0]

	page, err := pager.Get(ctx)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if len(page) != 2 {
		t.Fatalf("page 1 has %d refs", len(page))
	}
	if page[0].String() != "bal:///asset/cloud_proxy/a" {
		t.Errorf("page[0] = %s", page[0])
	}
	if !pager.HasNext(ctx) {
		t.Fatal("HasNext = false with a page remaining")
	}
	if err := pager.Next(ctx); err != nil {
		t.Fatal(err)
	}

	page, err = pager.Get(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if len(page) != 1 || page[0].String() != "bal:///asset/cloud_proxy/c" {
		t.Errorf("page 2 = %v", page)
	}
	if pager.HasNext(ctx) {
		t.Error("HasNext = true on the last page")
	}
	if err := pager.Next(ctx); err != nil {
		t.Fatal(err)
	}

	page, err = pager.Get(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if len(page) != 0 {
		t.Errorf("exhausted pager returned %v", page)
	}

	// A relationship the library does not record yields an empty result, not
	// an error.
	unrelated := trait.NewTraitsData()
	unrelated.AddTrait("unknownRelation")
	pagers, err = facade.GetWithRelationshipAll(ctx,
		[]core.EntityReference{reference("asset/cloud/v1")},
		unrelated, trait.NewSet(), 2, core.AccessRead, callCtx)
	if err != nil {
		t.Fatal(err)
	}
	pager = pagers[0]
	if page, _ := pager.Get(ctx); len(page) != 0 {
		t.Errorf("unrelated query returned %v", page)
	}
}

func TestStatefulContextTokens(t *testing.T) {
	m, session := newTestManager(t)
	facade := host.NewManager(m, session)
	ctx := context.Background()

	callCtx, err := facade.CreateContext(ctx)
	if err != nil {
		t.Fatalf("CreateContext: %v", err)
	}
	if callCtx.ManagerState == nil {
		t.Fatal("no manager state on context")
	}

	token, err := facade.PersistenceTokenForContext(callCtx)
	if err != nil {
		t.Fatalf("PersistenceTokenForContext: %v", err)
	}
	restored, err := facade.ContextFromPersistenceToken(token)
	if err != nil {
		t.Fatalf("ContextFromPersistenceToken: %v", err)
	}
	if restored.ManagerState.(*state).ID != callCtx.ManagerState.(*state).ID {
		t.Error("restored state does not match")
	}

	if _, err := m.StateFromPersistenceToken("garbage", session); err == nil {
		t.Error("garbage token accepted")
	}
}

func TestSettingsRoundTrip(t *testing.T) {
	m, session := newTestManager(t)
	settings := m.Settings(session)
	if settings[SettingLibraryPath] == "" {
		t.Errorf("settings = %#v", settings)
	}

	// Re-initializing from persisted settings must succeed.
	m2 := New()
	defer m2.Close()
	asStrings := map[string]any{}
	for k, v := range settings {
		asStrings[k] = v
	}
	if err := m2.Initialize(context.Background(), asStrings, session); err != nil {
		t.Fatalf("re-Initialize: %v", err)
	}
}
