package engine

import (
	"reflect"
	"slices"
	"testing"
)

type fuseScript struct {
	BaseComponent
	Fuse  float32
	Armed bool
}

type markerScript struct {
	BaseComponent
}

func newFuseScript(props map[string]any) *fuseScript {
	return &fuseScript{
		Fuse:  PropFloat(props, "fuse", 3),
		Armed: PropBool(props, "armed", true),
	}
}

func fuseProps(s *fuseScript) map[string]any {
	return map[string]any{"fuse": s.Fuse, "armed": s.Armed}
}

func resetScripts(t *testing.T) {
	byName, byType := scriptsByName, scriptsByType
	scriptsByName = map[string]scriptEntry{}
	scriptsByType = map[reflect.Type]string{}
	t.Cleanup(func() { scriptsByName, scriptsByType = byName, byType })
}

func TestCreateScriptFromProps(t *testing.T) {
	resetScripts(t)
	RegisterScript("Fuse", newFuseScript, fuseProps)

	s, ok := CreateScript("Fuse", map[string]any{"fuse": float64(1.5)}).(*fuseScript)
	if !ok {
		t.Fatal("Expected a *fuseScript")
	}
	if s.Fuse != 1.5 {
		t.Errorf("Expected fuse 1.5, got %f", s.Fuse)
	}
	if !s.Armed {
		t.Error("Missing prop should use the fallback")
	}

	if _, ok := CreateScript("Fuse", nil).(*fuseScript); !ok {
		t.Error("Nil props should still build the script")
	}
	if CreateScript("Missing", nil) != nil {
		t.Error("Unknown script should give nil")
	}
}

func TestSerializeScriptByType(t *testing.T) {
	resetScripts(t)
	RegisterScript("Fuse", newFuseScript, fuseProps)
	RegisterScript("Marker", func(map[string]any) *markerScript { return &markerScript{} }, nil)

	name, props, ok := SerializeScript(&fuseScript{Fuse: 2})
	if !ok || name != "Fuse" {
		t.Fatalf("Expected Fuse, got %q ok=%v", name, ok)
	}
	if props["fuse"] != float32(2) || props["armed"] != false {
		t.Errorf("Unexpected props %v", props)
	}

	name, props, ok = SerializeScript(&markerScript{})
	if !ok || name != "Marker" || props != nil {
		t.Errorf("Expected Marker without props, got %q %v ok=%v", name, props, ok)
	}

	if _, _, ok := SerializeScript(&BaseComponent{}); ok {
		t.Error("Unregistered component should not serialize")
	}
	if _, _, ok := SerializeScript(nil); ok {
		t.Error("Nil component should not serialize")
	}
}

func TestRegisterScriptTwicePanics(t *testing.T) {
	cases := []struct {
		name     string
		register func()
	}{
		{"same name", func() { RegisterScript("Fuse", func(map[string]any) *markerScript { return nil }, nil) }},
		{"same type", func() { RegisterScript("Timer", newFuseScript, fuseProps) }},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			resetScripts(t)
			RegisterScript("Fuse", newFuseScript, fuseProps)
			defer func() {
				if recover() == nil {
					t.Error("Expected a panic")
				}
			}()
			tc.register()
		})
	}
}

func TestGetRegisteredScriptsSorted(t *testing.T) {
	resetScripts(t)
	RegisterScript("Spinner", func(map[string]any) *markerScript { return nil }, nil)
	RegisterScript("Bomb", newFuseScript, fuseProps)

	if got := GetRegisteredScripts(); !slices.Equal(got, []string{"Bomb", "Spinner"}) {
		t.Errorf("Expected [Bomb Spinner], got %v", got)
	}
}

func TestPropHelpers(t *testing.T) {
	props := map[string]any{"n": float64(4), "i": 2, "b": true, "s": "text"}

	if PropFloat(props, "n", 0) != 4 || PropFloat(props, "i", 0) != 2 {
		t.Error("PropFloat should read numbers")
	}
	if PropFloat(props, "s", 7) != 7 {
		t.Error("PropFloat should fall back on a mistyped value")
	}
	if !PropBool(props, "b", false) || PropBool(props, "missing", false) {
		t.Error("PropBool should read booleans and fall back when missing")
	}
}
