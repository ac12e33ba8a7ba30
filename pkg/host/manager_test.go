// SPDX-License-Identifier: Apache-2.0
package host

import (
	"context"
	stderrors "errors"
	"fmt"
	"testing"

	"github.com/OpenAssetIO/OpenAssetIO-sub000/pkg/core"
	"github.com/OpenAssetIO/OpenAssetIO-sub000/pkg/errors"
	"github.com/OpenAssetIO/OpenAssetIO-sub000/pkg/manager"
	"github.com/OpenAssetIO/OpenAssetIO-sub000/pkg/trait"
)

type testHost struct{}

func (testHost) Identifier() string   { return "org.example.host.test" }
func (testHost) DisplayName() string  { return "Test Host" }
func (testHost) Info() map[string]any { return map[string]any{} }

func newSession() *core.HostSession {
	return core.NewHostSession(core.NewHost(testHost{}), nil)
}

func refs(ss ...string) []core.EntityReference {
	out := make([]core.EntityReference, len(ss))
	for i, s := range ss {
		out[i] = core.NewEntityReference(s)
	}
	return out
}

func dataFor(path string) *trait.TraitsData {
	d := trait.NewTraitsData()
	_ = d.SetProperty("content", "path", path)
	return d
}

// resolveScripted builds a mock whose Resolve walks the given script in
// order. Each step fires one callback, so tests control firing order
// precisely.
type scriptStep struct {
	idx  int
	data *trait.TraitsData
	err  *errors.BatchElementError
}

func resolveScripted(script []scriptStep) *manager.Mock {
	return &manager.Mock{
		Capabilities: manager.NewCapabilitySet(manager.CapabilityResolution),
		ResolveFunc: func(_ context.Context, _ []core.EntityReference, _ trait.Set,
			_ core.Access, _ *core.Context, _ *core.HostSession,
			success manager.ResolveSuccessCallback, fail manager.ErrorCallback) error {
			for _, step := range script {
				if step.err != nil {
					fail(step.idx, *step.err)
				} else {
					success(step.idx, step.data)
				}
			}
			return nil
		},
	}
}

// TestResultsPreserveInputOrder fires callbacks in reverse index order and
// checks slot i of the exhaustive result still corresponds to input i.
func TestResultsPreserveInputOrder(t *testing.T) {
	script := []scriptStep{
		{idx: 2, data: dataFor("/c")},
		{idx: 0, data: dataFor("/a")},
		{idx: 1, data: dataFor("/b")},
	}
	m := NewManager(resolveScripted(script), newSession())

	results, err := m.ResolveResults(context.Background(), refs("mock://a", "mock://b", "mock://c"),
		trait.NewSet("content"), core.AccessRead, &core.Context{Locale: trait.NewTraitsData()})
	if err != nil {
		t.Fatal(err)
	}
	if len(results) != 3 {
		t.Fatalf("expected 3 results, got %d", len(results))
	}
	for i, wantPath := range []string{"/a", "/b", "/c"} {
		v, ok := results[i].Value()
		if !ok {
			t.Fatalf("slot %d: unexpected error", i)
		}
		if p, _ := v.Property("content", "path"); p != wantPath {
			t.Errorf("slot %d: expected %q, got %v", i, wantPath, p)
		}
	}
}

// TestFailFastUsesFiringOrderNotIndexOrder scripts two element errors, the
// higher index first. The returned error must be the one that fired first.
func TestFailFastUsesFiringOrderNotIndexOrder(t *testing.T) {
	script := []scriptStep{
		{idx: 2, err: &errors.BatchElementError{Code: errors.CodeEntityResolutionError, Message: "second ref broken"}},
		{idx: 0, err: &errors.BatchElementError{Code: errors.CodeEntityAccessError, Message: "first ref denied"}},
	}
	m := NewManager(resolveScripted(script), newSession())

	_, err := m.ResolveAll(context.Background(), refs("mock://a", "mock://b", "mock://c"),
		trait.NewSet("content"), core.AccessRead, &core.Context{Locale: trait.NewTraitsData()})

	var exc errors.BatchElementException
	if !stderrors.As(err, &exc) {
		t.Fatalf("expected a batch element error, got %v", err)
	}
	if exc.ElementIndex() != 2 {
		t.Errorf("firing order must win: expected index 2, got %d", exc.ElementIndex())
	}
	if exc.ElementError().Code != errors.CodeEntityResolutionError {
		t.Errorf("expected the first-fired code, got %v", exc.ElementError().Code)
	}
}

// TestFailFastDiscardsCallbacksAfterFirstError checks no callback result is
// processed once an error has fired: the success that follows the scripted
// error must not leak into any observable output.
func TestFailFastDiscardsCallbacksAfterFirstError(t *testing.T) {
	poisoned := dataFor("/must-not-appear")
	script := []scriptStep{
		{idx: 0, data: dataFor("/a")},
		{idx: 1, err: &errors.BatchElementError{Code: errors.CodeUnknown, Message: "boom"}},
		{idx: 2, data: poisoned},
	}
	m := NewManager(resolveScripted(script), newSession())

	out, err := m.ResolveAll(context.Background(), refs("mock://a", "mock://b", "mock://c"),
		trait.NewSet("content"), core.AccessRead, &core.Context{Locale: trait.NewTraitsData()})
	if out != nil {
		t.Errorf("no successes may be returned after an error: %v", out)
	}
	var exc *errors.UnknownBatchElementError
	if !stderrors.As(err, &exc) || exc.ElementIndex() != 1 {
		t.Fatalf("expected unknown batch error at index 1, got %v", err)
	}
}

// TestResolveScenario is the canonical three-element scenario: indices 0 and
// 2 succeed, index 1 fails malformed.
func TestResolveScenario(t *testing.T) {
	script := []scriptStep{
		{idx: 0, data: dataFor("/a")},
		{idx: 1, err: &errors.BatchElementError{Code: errors.CodeMalformedEntityReference, Message: "not a ref"}},
		{idx: 2, data: dataFor("/c")},
	}
	batch := refs("mock://a", "junk", "mock://c")
	traits := trait.NewSet("content")
	callCtx := &core.Context{Locale: trait.NewTraitsData()}

	m := NewManager(resolveScripted(script), newSession())

	// Fail-fast convention: the typed malformed-reference error surfaces.
	_, err := m.ResolveAll(context.Background(), batch, traits, core.AccessRead, callCtx)
	var malformed *errors.MalformedEntityReferenceBatchElementError
	if !stderrors.As(err, &malformed) {
		t.Fatalf("expected MalformedEntityReferenceBatchElementError, got %v", err)
	}
	if malformed.ElementIndex() != 1 || malformed.Error() != "not a ref" {
		t.Errorf("unexpected error contents: index %d, message %q",
			malformed.ElementIndex(), malformed.Error())
	}

	// Exhaustive convention: [Ok, Err, Ok].
	results, err := m.ResolveResults(context.Background(), batch, traits, core.AccessRead, callCtx)
	if err != nil {
		t.Fatal(err)
	}
	if results[0].IsError() || results[2].IsError() || !results[1].IsError() {
		t.Fatalf("expected [Ok, Err, Ok], got error flags [%v %v %v]",
			results[0].IsError(), results[1].IsError(), results[2].IsError())
	}
	elemErr, _ := results[1].Err()
	if elemErr.Code != errors.CodeMalformedEntityReference {
		t.Errorf("expected malformed code, got %v", elemErr.Code)
	}
}

func TestCapabilityGatingReturnsNotImplemented(t *testing.T) {
	m := NewManager(&manager.Mock{}, newSession())

	if m.HasCapability(CapabilityResolution) {
		t.Fatalf("mock advertises nothing")
	}

	// Calling anyway must surface the typed error, never crash.
	_, err := m.ResolveAll(context.Background(), refs("mock://a"), trait.NewSet("content"),
		core.AccessRead, &core.Context{Locale: trait.NewTraitsData()})
	var notImpl *errors.NotImplementedError
	if !stderrors.As(err, &notImpl) {
		t.Fatalf("expected NotImplementedError, got %v", err)
	}
}

func TestHasCapabilityMandatoryGroups(t *testing.T) {
	m := NewManager(&manager.Mock{}, newSession())
	if !m.HasCapability(CapabilityEntityTraitIntrospection) {
		t.Errorf("trait introspection is mandatory and must answer true")
	}
	if m.HasCapability(CapabilityResolution) {
		t.Errorf("optional groups must consult the plugin")
	}

	withRes := NewManager(&manager.Mock{
		Capabilities: manager.NewCapabilitySet(manager.CapabilityResolution),
	}, newSession())
	if !withRes.HasCapability(CapabilityResolution) {
		t.Errorf("advertised capability must answer true")
	}
}

func TestWholeBatchFailurePassesThrough(t *testing.T) {
	systemic := errors.NewUnhandled("database offline", nil)
	mock := &manager.Mock{
		Capabilities: manager.NewCapabilitySet(manager.CapabilityResolution),
		ResolveFunc: func(context.Context, []core.EntityReference, trait.Set, core.Access,
			*core.Context, *core.HostSession, manager.ResolveSuccessCallback, manager.ErrorCallback) error {
			return systemic
		},
	}
	m := NewManager(mock, newSession())

	_, err := m.ResolveResults(context.Background(), refs("mock://a"), trait.NewSet("content"),
		core.AccessRead, &core.Context{Locale: trait.NewTraitsData()})
	if !stderrors.Is(err, systemic) {
		t.Errorf("expected the systemic error back, got %v", err)
	}
}

func TestContractViolationsSurfaceAsUnhandled(t *testing.T) {
	cases := map[string][]scriptStep{
		"missing outcome":    {{idx: 0, data: dataFor("/a")}}, // index 1 never reported
		"out of range index": {{idx: 0, data: dataFor("/a")}, {idx: 5, data: dataFor("/x")}},
	}
	for name, script := range cases {
		m := NewManager(resolveScripted(script), newSession())
		_, err := m.ResolveResults(context.Background(), refs("mock://a", "mock://b"),
			trait.NewSet("content"), core.AccessRead, &core.Context{Locale: trait.NewTraitsData()})
		var unhandled *errors.UnhandledError
		if !stderrors.As(err, &unhandled) {
			t.Errorf("%s: expected UnhandledError, got %v", name, err)
		}
	}
}

func TestCreateContextStateless(t *testing.T) {
	m := NewManager(&manager.Mock{}, newSession())
	callCtx, err := m.CreateContext(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if callCtx.Locale == nil {
		t.Fatalf("context must carry a locale")
	}
	if callCtx.ManagerState != nil {
		t.Errorf("stateless manager must not attach state")
	}
}

func TestCreateContextStateful(t *testing.T) {
	type state struct{ id string }
	mock := &manager.Mock{
		Capabilities: manager.NewCapabilitySet(manager.CapabilityStatefulContexts),
		CreateStateFunc: func(context.Context, *core.HostSession) (core.ManagerState, error) {
			return &state{id: "root"}, nil
		},
		CreateChildStateFunc: func(_ context.Context, parent core.ManagerState, _ *core.HostSession) (core.ManagerState, error) {
			return &state{id: parent.(*state).id + "/child"}, nil
		},
	}
	m := NewManager(mock, newSession())

	parent, err := m.CreateContext(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if parent.ManagerState.(*state).id != "root" {
		t.Fatalf("expected root state")
	}
	_ = parent.Locale.SetProperty("ui", "name", "timeline")

	child, err := m.CreateChildContext(context.Background(), parent)
	if err != nil {
		t.Fatal(err)
	}
	if child.ManagerState.(*state).id != "root/child" {
		t.Errorf("expected migrated child state")
	}

	// Locale must be a deep copy: mutating the child is invisible upstream.
	_ = child.Locale.SetProperty("ui", "name", "browser")
	if v, _ := parent.Locale.Property("ui", "name"); v != "timeline" {
		t.Errorf("child locale mutation leaked into parent: %v", v)
	}
}

func TestCreateChildContextRequiresParent(t *testing.T) {
	m := NewManager(&manager.Mock{}, newSession())
	_, err := m.CreateChildContext(context.Background(), nil)
	var invalid *errors.InputValidationError
	if !stderrors.As(err, &invalid) {
		t.Errorf("expected InputValidationError, got %v", err)
	}
}

func TestPersistenceTokenRoundTrip(t *testing.T) {
	mock := &manager.Mock{
		Capabilities: manager.NewCapabilitySet(manager.CapabilityStatefulContexts),
		CreateStateFunc: func(context.Context, *core.HostSession) (core.ManagerState, error) {
			return "state-a", nil
		},
		PersistenceTokenFunc: func(state core.ManagerState, _ *core.HostSession) (string, error) {
			return "token:" + state.(string), nil
		},
		StateFromTokenFunc: func(token string, _ *core.HostSession) (core.ManagerState, error) {
			return token[len("token:"):], nil
		},
	}
	m := NewManager(mock, newSession())

	callCtx, err := m.CreateContext(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	token, err := m.PersistenceTokenForContext(callCtx)
	if err != nil {
		t.Fatal(err)
	}
	if token != "token:state-a" {
		t.Fatalf("unexpected token %q", token)
	}
	thawed, err := m.ContextFromPersistenceToken(token)
	if err != nil {
		t.Fatal(err)
	}
	if thawed.ManagerState != "state-a" {
		t.Errorf("state lost through the token round trip: %v", thawed.ManagerState)
	}

	// Stateless contexts freeze to the empty token, which thaws stateless.
	token, err = m.PersistenceTokenForContext(&core.Context{})
	if err != nil || token != "" {
		t.Fatalf("expected empty token, got %q (%v)", token, err)
	}
	stateless, err := m.ContextFromPersistenceToken("")
	if err != nil || stateless.ManagerState != nil {
		t.Fatalf("empty token must thaw a stateless context")
	}
}

func TestCreateEntityReference(t *testing.T) {
	m := NewManager(&manager.Mock{ReferencePrefix: "bal:///"}, newSession())

	ref, err := m.CreateEntityReference("bal:///shots/001")
	if err != nil {
		t.Fatal(err)
	}
	if ref.String() != "bal:///shots/001" {
		t.Errorf("reference string mangled: %q", ref.String())
	}

	_, err = m.CreateEntityReference("file:///nope")
	var invalid *errors.InputValidationError
	if !stderrors.As(err, &invalid) {
		t.Errorf("expected InputValidationError, got %v", err)
	}

	if m.CreateEntityReferenceIfValid("file:///nope") != nil {
		t.Errorf("invalid string must yield nil")
	}
	if m.CreateEntityReferenceIfValid("bal:///ok") == nil {
		t.Errorf("valid string must yield a reference")
	}
}

type countingRecorder struct {
	batches int
	errors  map[errors.ErrorCode]int
}

func (r *countingRecorder) RecordBatch(_ context.Context, _ string, _ int) { r.batches++ }
func (r *countingRecorder) RecordElementError(_ context.Context, _ string, code errors.ErrorCode) {
	if r.errors == nil {
		r.errors = map[errors.ErrorCode]int{}
	}
	r.errors[code]++
}

func TestMetricsRecorderObservesBatches(t *testing.T) {
	script := []scriptStep{
		{idx: 0, data: dataFor("/a")},
		{idx: 1, err: &errors.BatchElementError{Code: errors.CodeEntityAccessError, Message: "denied"}},
	}
	rec := &countingRecorder{}
	m := NewManager(resolveScripted(script), newSession(), WithMetrics(rec))

	_, err := m.ResolveResults(context.Background(), refs("mock://a", "mock://b"),
		trait.NewSet("content"), core.AccessRead, &core.Context{Locale: trait.NewTraitsData()})
	if err != nil {
		t.Fatal(err)
	}
	if rec.batches != 1 {
		t.Errorf("expected 1 batch observation, got %d", rec.batches)
	}
	if rec.errors[errors.CodeEntityAccessError] != 1 {
		t.Errorf("expected 1 access-error observation, got %v", rec.errors)
	}
}

func TestSingularSugar(t *testing.T) {
	mock := &manager.Mock{
		Capabilities: manager.NewCapabilitySet(manager.CapabilityResolution),
		ResolveFunc: func(_ context.Context, batch []core.EntityReference, _ trait.Set,
			_ core.Access, _ *core.Context, _ *core.HostSession,
			success manager.ResolveSuccessCallback, fail manager.ErrorCallback) error {
			for i, ref := range batch {
				if ref.String() == "mock://bad" {
					fail(i, errors.BatchElementError{Code: errors.CodeEntityResolutionError,
						Message: fmt.Sprintf("cannot resolve %s", ref)})
					continue
				}
				success(i, dataFor("/one"))
			}
			return nil
		},
	}
	m := NewManager(mock, newSession())
	callCtx := &core.Context{Locale: trait.NewTraitsData()}

	data, err := m.ResolveOne(context.Background(), core.NewEntityReference("mock://good"),
		trait.NewSet("content"), core.AccessRead, callCtx)
	if err != nil {
		t.Fatal(err)
	}
	if p, _ := data.Property("content", "path"); p != "/one" {
		t.Errorf("unexpected resolved data: %v", p)
	}

	res, err := m.ResolveOneResult(context.Background(), core.NewEntityReference("mock://bad"),
		trait.NewSet("content"), core.AccessRead, callCtx)
	if err != nil {
		t.Fatal(err)
	}
	elemErr, failed := res.Err()
	if !failed || elemErr.Code != errors.CodeEntityResolutionError {
		t.Errorf("expected a resolution element error, got %v", res)
	}
}
