package engine

import (
	"testing"

	"sprite2d/internal/sector"

	"github.com/chewxy/math32"
	rl "github.com/gen2brain/raylib-go/raylib"
)

func TestNewGameObjectUIDs(t *testing.T) {
	seen := map[uint64]string{}
	for _, name := range []string{"Ground", "Crate", "Plank", "Bomb"} {
		obj := NewGameObject(name)
		if obj.Name != name || !obj.Active {
			t.Errorf("%s: expected an active object with its name, got %q active=%v", name, obj.Name, obj.Active)
		}
		if obj.UID == 0 {
			t.Errorf("%s: UID 0 is reserved for empty refs", name)
		}
		if other, dup := seen[obj.UID]; dup {
			t.Errorf("%s shares UID %d with %s", name, obj.UID, other)
		}
		seen[obj.UID] = name
	}
}

func TestGameObjectHasTag(t *testing.T) {
	debris := NewGameObject("Debris")
	debris.Tags = []string{"runtime", "box"}

	if !debris.HasTag("runtime") || !debris.HasTag("box") {
		t.Error("Expected both tags")
	}
	if debris.HasTag("static") {
		t.Error("Unexpected tag static")
	}
	if NewGameObject("Ground").HasTag("runtime") {
		t.Error("Untagged object should have no tags")
	}
}

func TestGameObjectChildren(t *testing.T) {
	ground := NewGameObject("Ground")
	wedge := NewGameObject("Wedge")
	post := NewGameObject("Post")
	ground.AddChild(wedge)
	ground.AddChild(post)

	if wedge.Parent != ground || len(ground.Children) != 2 {
		t.Fatalf("Expected 2 children under Ground, got %d", len(ground.Children))
	}

	wedge.ClearDirty()
	ground.RemoveChild(wedge)
	if len(ground.Children) != 1 || ground.Children[0] != post {
		t.Error("Expected only Post left under Ground")
	}
	if wedge.Parent != nil {
		t.Error("Removed child should have no parent")
	}
	if wedge.Dirty() != Translated|Rotated|Scaled {
		t.Error("Leaving a parent changes the world transform")
	}

	// not a child: ignored
	ground.RemoveChild(wedge)
	if len(ground.Children) != 1 {
		t.Errorf("Expected 1 child, got %d", len(ground.Children))
	}
}

func TestGameObjectComponents(t *testing.T) {
	crate := NewGameObject("Crate")
	base := &BaseComponent{}
	counter := &countingComponent{}
	crate.AddComponent(base)
	crate.AddComponent(counter)

	if base.GetGameObject() != crate || counter.GetGameObject() != crate {
		t.Error("Components should know their object")
	}
	if GetComponent[*countingComponent](crate) != counter {
		t.Error("GetComponent should find the counter")
	}
	if GetComponent[*fuseScript](crate) != nil {
		t.Error("GetComponent should return nil for a missing type")
	}

	crate.Start()
	crate.Start()
	if counter.started != 1 {
		t.Errorf("Expected Start once, got %d", counter.started)
	}

	crate.Active = false
	crate.Update(1)
	if counter.elapsed != 0 {
		t.Error("Inactive objects should not update")
	}
}

type destroyLog struct {
	BaseComponent
	name string
	log  *[]string
}

func (d *destroyLog) OnDestroy() { *d.log = append(*d.log, d.name) }

func TestNotifyDestroyedChildrenFirst(t *testing.T) {
	var order []string
	ground := NewGameObject("Ground")
	ground.AddComponent(&destroyLog{name: "Ground", log: &order})
	wedge := NewGameObject("Wedge")
	wedge.AddComponent(&destroyLog{name: "Wedge", log: &order})
	wedge.AddComponent(&BaseComponent{})
	ground.AddChild(wedge)

	ground.NotifyDestroyed()

	if len(order) != 2 || order[0] != "Wedge" || order[1] != "Ground" {
		t.Errorf("Expected [Wedge Ground], got %v", order)
	}
}

func TestNewGameObjectStartsDirty(t *testing.T) {
	obj := NewGameObject("Fresh")

	if obj.Dirty() != Translated|Rotated|Scaled {
		t.Errorf("New object should be fully dirty, got %b", obj.Dirty())
	}
	if obj.Transform.Scale.X != 1 || obj.Transform.Scale.Y != 1 {
		t.Error("Default scale should be (1, 1)")
	}
}

func TestTransformDirtyFlags(t *testing.T) {
	obj := NewGameObject("Box")
	obj.ClearDirty()

	obj.Translate(rl.Vector2{X: 2, Y: 0})
	if obj.Dirty() != Translated {
		t.Errorf("Expected only Translated, got %b", obj.Dirty())
	}

	obj.ClearDirty()
	obj.SetRotation(45)
	if obj.Dirty() != Rotated {
		t.Errorf("Expected only Rotated, got %b", obj.Dirty())
	}

	obj.ClearDirty()
	obj.SetScale(rl.Vector2{X: 2, Y: 2})
	if obj.Dirty() != Scaled {
		t.Errorf("Expected only Scaled, got %b", obj.Dirty())
	}

	// unchanged values do not dirty the transform
	obj.ClearDirty()
	obj.SetScale(rl.Vector2{X: 2, Y: 2})
	obj.SetRotation(45)
	obj.Translate(rl.Vector2{})
	if obj.Dirty() != 0 {
		t.Errorf("Expected clean transform, got %b", obj.Dirty())
	}
}

func TestSetRotationWraps(t *testing.T) {
	obj := NewGameObject("Spinner")

	obj.SetRotation(370)
	if obj.Transform.Rotation != 10 {
		t.Errorf("Expected 10, got %f", obj.Transform.Rotation)
	}

	obj.SetRotation(-90)
	if obj.Transform.Rotation != 270 {
		t.Errorf("Expected 270, got %f", obj.Transform.Rotation)
	}
}

func TestDirtyPropagatesToChildren(t *testing.T) {
	parent := NewGameObject("Parent")
	child := NewGameObject("Child")
	parent.AddChild(child)
	parent.ClearDirty()
	child.ClearDirty()

	parent.SetRotation(90)
	if child.Dirty()&Rotated == 0 {
		t.Error("Rotating the parent should dirty the child")
	}
}

func TestWorldTransform(t *testing.T) {
	parent := NewGameObject("Parent")
	parent.SetPosition(sector.NewPoint(100, 50))
	parent.SetRotation(90)
	parent.SetScale(rl.Vector2{X: 2, Y: 2})

	child := NewGameObject("Child")
	child.SetPosition(sector.NewPoint(1, 0))
	parent.AddChild(child)

	// (1, 0) scaled to (2, 0) then turned a quarter to (0, 2)
	d := child.WorldPosition().Sub(sector.NewPoint(100, 52))
	if d.X*d.X+d.Y*d.Y > 1e-8 {
		t.Errorf("Expected child at (100, 52), off by %v", d)
	}

	if child.WorldRotation() != 90 {
		t.Errorf("Expected world rotation 90, got %f", child.WorldRotation())
	}
	if s := child.WorldScale(); s.X != 2 || s.Y != 2 {
		t.Errorf("Expected world scale (2, 2), got %v", s)
	}
}

func TestTranslateWorldOnChild(t *testing.T) {
	parent := NewGameObject("Ground")
	parent.SetRotation(90)
	parent.SetScale(rl.Vector2{X: 2, Y: 2})
	child := NewGameObject("Wedge")
	parent.AddChild(child)

	before := child.WorldPosition()
	child.TranslateWorld(rl.Vector2{X: 0, Y: 2})

	local := child.Transform.Position.Sub(sector.Point{})
	if math32.Abs(local.X-1) > 1e-5 || math32.Abs(local.Y) > 1e-5 {
		t.Errorf("Expected local offset (1, 0), got %v", local)
	}
	d := child.WorldPosition().Sub(before)
	if math32.Abs(d.X) > 1e-5 || math32.Abs(d.Y-2) > 1e-5 {
		t.Errorf("Expected a world move of (0, 2), got %v", d)
	}

	root := NewGameObject("Crate")
	root.TranslateWorld(rl.Vector2{X: 3})
	if p := root.Transform.Position.Sub(sector.Point{}); p.X != 3 || p.Y != 0 {
		t.Errorf("Root should move by the raw offset, got %v", p)
	}
}
