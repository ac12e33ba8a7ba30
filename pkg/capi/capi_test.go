// SPDX-License-Identifier: Apache-2.0
package capi

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/OpenAssetIO/OpenAssetIO-sub000/pkg/core"
	"github.com/OpenAssetIO/OpenAssetIO-sub000/pkg/manager"
)

type stubHost struct{}

func (stubHost) Identifier() string   { return "org.example.test-host" }
func (stubHost) DisplayName() string  { return "Test Host" }
func (stubHost) Info() map[string]any { return map[string]any{} }

func newSession() *core.HostSession {
	return core.NewHostSession(core.NewHost(stubHost{}), nil)
}

func TestStringViewTruncation(t *testing.T) {
	v := NewStringView(5)
	if code := v.Set("hello world"); code != CodeLengthError {
		t.Fatalf("Set = %v, want CodeLengthError", code)
	}
	if v.Size() != v.Capacity() {
		t.Errorf("Size = %d, want capacity %d", v.Size(), v.Capacity())
	}
	if v.String() != "hello" {
		t.Errorf("String = %q, want %q", v.String(), "hello")
	}

	// A later shorter write resets the size.
	if code := v.Set("ok"); code != CodeOK {
		t.Fatalf("Set = %v, want CodeOK", code)
	}
	if v.String() != "ok" || v.Size() != 2 {
		t.Errorf("String = %q Size = %d, want %q 2", v.String(), v.Size(), "ok")
	}
}

func TestArenaRelease(t *testing.T) {
	a := NewArena[string]()
	h := a.Issue("x")
	if h == 0 {
		t.Fatal("Issue returned the zero handle")
	}
	if v, ok := a.Resolve(h); !ok || v != "x" {
		t.Fatalf("Resolve = %q, %v", v, ok)
	}
	if !a.Release(h) {
		t.Error("first Release = false")
	}
	if a.Release(h) {
		t.Error("double Release = true")
	}
	if _, ok := a.Resolve(h); ok {
		t.Error("Resolve succeeded after Release")
	}
	if a.Len() != 0 {
		t.Errorf("Len = %d, want 0", a.Len())
	}
}

func TestGuardFlattensErrorsAndPanics(t *testing.T) {
	errOut := NewStringView(64)

	if code := guard(errOut, func() error { return nil }); code != CodeOK {
		t.Errorf("nil error: code = %v", code)
	}
	if code := guard(errOut, func() error { return errors.New("boom") }); code != CodeException {
		t.Errorf("plain error: code = %v", code)
	}
	if errOut.String() != "boom" {
		t.Errorf("errOut = %q, want %q", errOut.String(), "boom")
	}
	if code := guard(errOut, func() error { return &outOfRangeError{msg: "past end"} }); code != CodeOutOfRange {
		t.Errorf("out of range: code = %v", code)
	}
	if code := guard(errOut, func() error { return &badVariantError{msg: "wrong type"} }); code != CodeBadVariantAccess {
		t.Errorf("bad variant: code = %v", code)
	}
	if code := guard(errOut, func() error { panic("unexpected") }); code != CodeUnknown {
		t.Errorf("panic: code = %v", code)
	}
	if errOut.String() != "unexpected" {
		t.Errorf("errOut after panic = %q", errOut.String())
	}
}

func TestErrorFromCode(t *testing.T) {
	errOut := NewStringView(64)
	errOut.Set("it broke")

	if err := errorFromCode(CodeOK, errOut); err != nil {
		t.Errorf("CodeOK: err = %v", err)
	}
	err := errorFromCode(CodeException, errOut)
	if err == nil {
		t.Fatal("CodeException: err = nil")
	}
	if got := err.Error(); got != "2: it broke" {
		t.Errorf("err = %q, want %q", got, "2: it broke")
	}
}

func TestInfoDictSuite(t *testing.T) {
	suite := NewInfoDictSuite()
	errOut := NewStringView(128)

	var h Handle
	if code := suite.Ctor(errOut, &h); code != CodeOK {
		t.Fatalf("Ctor = %v: %s", code, errOut)
	}
	defer suite.Dtor(h)

	key := func(s string) ConstStringView { return NewConstStringView(s) }

	if code := suite.SetBool(errOut, h, key("cloud"), true); code != CodeOK {
		t.Fatalf("SetBool = %v", code)
	}
	if code := suite.SetInt(errOut, h, key("answer"), 42); code != CodeOK {
		t.Fatalf("SetInt = %v", code)
	}
	if code := suite.SetFloat(errOut, h, key("pi"), 3.5); code != CodeOK {
		t.Fatalf("SetFloat = %v", code)
	}
	if code := suite.SetStr(errOut, h, key("name"), NewConstStringView("bal")); code != CodeOK {
		t.Fatalf("SetStr = %v", code)
	}

	var size uint64
	if code := suite.Size(errOut, &size, h); code != CodeOK || size != 4 {
		t.Fatalf("Size = %d (%v), want 4", size, code)
	}

	// Keys come back in sorted order.
	keyBuf := NewStringView(32)
	wantKeys := []string{"answer", "cloud", "name", "pi"}
	for i, want := range wantKeys {
		if code := suite.KeyAt(errOut, keyBuf, h, uint64(i)); code != CodeOK {
			t.Fatalf("KeyAt(%d) = %v", i, code)
		}
		if keyBuf.String() != want {
			t.Errorf("KeyAt(%d) = %q, want %q", i, keyBuf.String(), want)
		}
	}
	if code := suite.KeyAt(errOut, keyBuf, h, uint64(len(wantKeys))); code != CodeOutOfRange {
		t.Errorf("KeyAt past end = %v, want CodeOutOfRange", code)
	}

	var b bool
	if code := suite.GetBool(errOut, &b, h, key("cloud")); code != CodeOK || !b {
		t.Errorf("GetBool = %v/%v", b, code)
	}
	var n int64
	if code := suite.GetInt(errOut, &n, h, key("answer")); code != CodeOK || n != 42 {
		t.Errorf("GetInt = %d/%v", n, code)
	}
	var f float64
	if code := suite.GetFloat(errOut, &f, h, key("pi")); code != CodeOK || f != 3.5 {
		t.Errorf("GetFloat = %g/%v", f, code)
	}
	strBuf := NewStringView(32)
	if code := suite.GetStr(errOut, strBuf, h, key("name")); code != CodeOK || strBuf.String() != "bal" {
		t.Errorf("GetStr = %q/%v", strBuf.String(), code)
	}

	if code := suite.GetBool(errOut, &b, h, key("missing")); code != CodeOutOfRange {
		t.Errorf("GetBool missing key = %v, want CodeOutOfRange", code)
	}
	if code := suite.GetInt(errOut, &n, h, key("cloud")); code != CodeBadVariantAccess {
		t.Errorf("GetInt on bool = %v, want CodeBadVariantAccess", code)
	}

	// A too-small output buffer truncates but keeps the leading bytes.
	tiny := NewStringView(2)
	if code := suite.GetStr(errOut, tiny, h, key("name")); code != CodeLengthError {
		t.Errorf("GetStr tiny = %v, want CodeLengthError", code)
	}
	if tiny.String() != "ba" {
		t.Errorf("tiny = %q, want %q", tiny.String(), "ba")
	}
}

func TestInfoDictUnknownHandle(t *testing.T) {
	suite := NewInfoDictSuite()
	errOut := NewStringView(128)
	var size uint64
	if code := suite.Size(errOut, &size, Handle(99999)); code != CodeException {
		t.Errorf("Size on dead handle = %v, want CodeException", code)
	}
	if !strings.Contains(errOut.String(), "handle") {
		t.Errorf("errOut = %q, want handle mention", errOut.String())
	}
}

func TestExportInfoRejectsUnsupportedTypes(t *testing.T) {
	if _, err := exportInfo(map[string]any{"bad": []string{"x"}}); err == nil {
		t.Error("exportInfo accepted a slice value")
	}
	h, err := exportInfo(map[string]any{"ok": int64(1)})
	if err != nil {
		t.Fatalf("exportInfo: %v", err)
	}
	infoDictArena.Release(h)
}

func newBoundaryMock() *manager.Mock {
	return &manager.Mock{
		IdentifierValue:  "org.example.boundary",
		DisplayNameValue: "Boundary Test Manager",
		InfoValue: map[string]any{
			"vendor":  "example",
			"version": int64(3),
			"cloud":   false,
		},
		Capabilities: manager.NewCapabilitySet(
			manager.CapabilityEntityReferenceIdentification,
			manager.CapabilityResolution,
		),
		ReferencePrefix: "bdry://",
	}
}

func TestManagerInterfaceRoundTrip(t *testing.T) {
	session := newSession()

	suite, h := ExportManagerInterface(newBoundaryMock(), session)
	defer suite.Dtor(h)

	iface, err := NewManagerInterfaceFromCAPI(suite, h)
	if err != nil {
		t.Fatalf("NewManagerInterfaceFromCAPI: %v", err)
	}

	if got := iface.Identifier(); got != "org.example.boundary" {
		t.Errorf("Identifier = %q", got)
	}
	if got := iface.DisplayName(); got != "Boundary Test Manager" {
		t.Errorf("DisplayName = %q", got)
	}

	info := iface.Info()
	if len(info) != 3 {
		t.Fatalf("Info has %d entries, want 3", len(info))
	}
	if info["vendor"] != "example" || info["version"] != int64(3) || info["cloud"] != false {
		t.Errorf("Info = %#v", info)
	}

	if !iface.HasCapability(manager.CapabilityResolution) {
		t.Error("HasCapability(resolution) = false")
	}
	if iface.HasCapability(manager.CapabilityPublishing) {
		t.Error("HasCapability(publishing) = true")
	}

	if !iface.IsEntityReferenceString("bdry://asset/1", session) {
		t.Error("IsEntityReferenceString(prefixed) = false")
	}
	if iface.IsEntityReferenceString("file:///tmp/x", session) {
		t.Error("IsEntityReferenceString(other) = true")
	}

	if err := iface.Initialize(context.Background(), map[string]any{}, session); err != nil {
		t.Errorf("Initialize: %v", err)
	}
}

func TestManagerInterfaceLongStringsSurvive(t *testing.T) {
	long := strings.Repeat("long-identifier-segment/", 40)
	mock := newBoundaryMock()
	mock.IdentifierValue = long

	session := newSession()
	suite, h := ExportManagerInterface(mock, session)
	defer suite.Dtor(h)

	iface, err := NewManagerInterfaceFromCAPI(suite, h)
	if err != nil {
		t.Fatalf("NewManagerInterfaceFromCAPI: %v", err)
	}
	if iface.Identifier() != long {
		t.Errorf("Identifier truncated: %d bytes, want %d", len(iface.Identifier()), len(long))
	}
}

func TestManagerInterfaceDeadHandle(t *testing.T) {
	session := newSession()
	suite, h := ExportManagerInterface(newBoundaryMock(), session)
	suite.Dtor(h)

	if _, err := NewManagerInterfaceFromCAPI(suite, h); err == nil {
		t.Error("adapter construction succeeded on a released handle")
	}
	if managerArena.Len() != 0 {
		t.Errorf("manager arena leaked %d handles", managerArena.Len())
	}
}
