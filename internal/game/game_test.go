package game

import (
	"path/filepath"
	"testing"

	"sprite2d/internal/components"
	"sprite2d/internal/engine"
	"sprite2d/internal/physics"
	"sprite2d/internal/sector"
	"sprite2d/internal/world"
)

func TestSpawnKindsBuild(t *testing.T) {
	for _, k := range spawnKinds {
		obj := k.Factory(paletteColor(1))
		cs := engine.GetComponent[*components.CollisionSprite](obj)
		if cs == nil {
			t.Errorf("%s: missing CollisionSprite", k.Name)
			continue
		}
		if err := cs.Build(); err != nil {
			t.Errorf("%s: build failed: %v", k.Name, err)
		}
		if engine.GetComponent[*components.SpriteRenderer](obj) == nil {
			t.Errorf("%s: missing SpriteRenderer", k.Name)
		}
	}
}

func TestSpawnTagsAndRegisters(t *testing.T) {
	g := New("")
	obj := g.spawn(0, sector.NewPoint(3, -2))

	if !obj.HasTag(world.RuntimeTag) {
		t.Error("Spawned objects should carry the runtime tag")
	}
	if obj.Name != "Box_1" {
		t.Errorf("Expected Box_1, got %s", obj.Name)
	}
	if g.World.Physics.ObjectCount() != 1 {
		t.Errorf("Expected 1 physics object, got %d", g.World.Physics.ObjectCount())
	}
	if g.World.FindSprite(sector.NewPoint(3, -2)) == nil {
		t.Error("Expected a sprite at the spawn point")
	}

	bomb := g.spawn(len(spawnKinds)-1, sector.NewPoint(10, 0))
	if engine.GetComponent[*components.Bomb](bomb) == nil {
		t.Error("Expected the last kind to be a bomb")
	}
}

func TestUndoRemovesNewestSpawn(t *testing.T) {
	g := New("")
	first := g.spawn(0, sector.NewPoint(0, 0))
	second := g.spawn(1, sector.NewPoint(5, 0))

	g.undo()
	g.World.Update(0)
	if g.World.Scene.FindByUID(second.UID) != nil {
		t.Error("Undo should remove the newest spawn")
	}
	if g.World.Scene.FindByUID(first.UID) == nil {
		t.Error("Undo should keep older spawns")
	}

	// already gone objects are skipped
	g.World.Destroy(first)
	g.World.Update(0)
	g.undo()
	if g.history.size() != 0 {
		t.Errorf("Expected empty history, got %d", g.history.size())
	}
}

func TestClearSpawnedKeepsSceneObjects(t *testing.T) {
	g := New("")
	buildDefaultScene(g.World)
	g.World.Initialize()
	before := len(g.World.Scene.GameObjects)

	g.spawn(0, sector.NewPoint(0, -20))
	g.spawn(4, sector.NewPoint(3, -20))
	g.clearSpawned()
	g.World.Update(0)

	if got := len(g.World.Scene.GameObjects); got != before {
		t.Errorf("Expected %d objects after clearing, got %d", before, got)
	}
	if g.history.size() != 0 {
		t.Errorf("Expected empty history, got %d", g.history.size())
	}
}

func TestHistoryIsCapped(t *testing.T) {
	var h spawnHistory
	for i := 0; i < maxUndoStack+10; i++ {
		h.push(engine.NewGameObject("x"))
	}
	if h.size() != maxUndoStack {
		t.Errorf("Expected %d entries, got %d", maxUndoStack, h.size())
	}
}

func TestPaletteColorsDiffer(t *testing.T) {
	for i := 1; i < 20; i++ {
		a, b := paletteColor(i), paletteColor(i+1)
		if a == b {
			t.Errorf("Expected different colors for %d and %d", i, i+1)
		}
		if a.A != 255 {
			t.Errorf("Expected opaque color, got %v", a)
		}
	}
}

func TestRegularPolygonIsConvex(t *testing.T) {
	poly, err := physics.NewPolygon(regularPolygon(6, 1))
	if err != nil {
		t.Fatalf("NewPolygon failed: %v", err)
	}
	if r := poly.Radius(); r < 0.99 || r > 1.01 {
		t.Errorf("Expected radius 1, got %f", r)
	}
}

func TestTuningApply(t *testing.T) {
	w := world.New()
	tuning := tuningOf(w)
	tuning.Resolver.Percent = 0.6
	tuning.GravityY = -5
	tuning.Debug = true

	if err := tuning.apply(w); err != nil {
		t.Fatalf("apply failed: %v", err)
	}
	if w.Physics.Resolver.Config().Percent != 0.6 {
		t.Error("Expected the resolver config to change")
	}
	if w.Physics.Settings.Gravity[1] != -5 || !w.Renderer.Debug {
		t.Error("Expected gravity and debug to change")
	}

	bad := tuningOf(w)
	bad.Resolver.Percent = 0
	bad.GravityY = 99
	if err := bad.apply(w); err == nil {
		t.Error("Expected an invalid resolver to be rejected")
	}
	if w.Physics.Settings.Gravity[1] != -5 {
		t.Error("A rejected tuning should change nothing")
	}
}

func TestPrefsRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "prefs.json")

	p, err := LoadPrefs(path)
	if p != nil || err != nil {
		t.Fatalf("Expected nil prefs for a missing file, got %v %v", p, err)
	}

	w := world.New()
	saved := &Prefs{
		WindowWidth: 800, WindowHeight: 600,
		ScenePath: "assets/scenes/sandbox.json",
		ShowPanel: true,
		Tuning:    tuningOf(w),
	}
	saved.Tuning.Resolver.Slop = 0.05
	if err := saved.Save(path); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	loaded, err := LoadPrefs(path)
	if err != nil {
		t.Fatalf("LoadPrefs failed: %v", err)
	}
	if loaded.WindowWidth != 800 || loaded.ScenePath != saved.ScenePath {
		t.Errorf("Expected saved window and scene, got %+v", loaded)
	}

	g := New(loaded.ScenePath)
	g.ShowPanel = false
	g.applyPrefs(loaded)
	if !g.ShowPanel || g.World.Physics.Resolver.Config().Slop != 0.05 {
		t.Error("Expected prefs to be applied")
	}
}

func TestDefaultScene(t *testing.T) {
	w := world.New()
	buildDefaultScene(w)
	for _, obj := range w.Scene.GameObjects {
		w.Physics.AddObject(obj)
	}

	if got := w.Physics.ObjectCount(); got != 3+15+1 {
		t.Errorf("Expected 19 sprites, got %d", got)
	}
	if got := w.Physics.DynamicObjectCount(); got != 15 {
		t.Errorf("Expected 15 dynamic boxes, got %d", got)
	}

	ground := engine.GetComponent[*components.CollisionSprite](w.Scene.FindByName("Ground"))
	if ground == nil || !ground.Static {
		t.Error("Expected a static ground")
	}
	if engine.GetComponent[*components.Spinner](w.Scene.FindByName("Spinner")) == nil {
		t.Error("Expected the spinning bar")
	}
}
