package world

import (
	"testing"

	"sprite2d/internal/components"
	"sprite2d/internal/engine"
	"sprite2d/internal/physics"
	"sprite2d/internal/sector"

	"github.com/chewxy/math32"
	rl "github.com/gen2brain/raylib-go/raylib"
)

type contactRecorder struct {
	engine.BaseComponent
	enters, exits int
	last          *engine.GameObject
}

func (c *contactRecorder) OnCollisionEnter(other *engine.GameObject) {
	c.enters++
	c.last = other
}

func (c *contactRecorder) OnCollisionExit(other *engine.GameObject) {
	c.exits++
}

func newBox(name string, x, y float64, w, h float32, static bool) *engine.GameObject {
	g := engine.NewGameObject(name)
	g.SetPosition(sector.NewPoint(x, y))
	cs := components.NewCollisionSprite(components.RectShape(w, h))
	cs.Static = static
	cs.FixedRotation = true
	g.AddComponent(cs)
	return g
}

func newTestPhysics(objects ...*engine.GameObject) *PhysicsWorld {
	pw := NewPhysicsWorld(DefaultSettings(), physics.DefaultConfig())
	pw.Scene = engine.NewScene("Test")
	for _, g := range objects {
		pw.Scene.AddGameObject(g)
		pw.AddObject(g)
	}
	return pw
}

func sprite(g *engine.GameObject) *components.CollisionSprite {
	return engine.GetComponent[*components.CollisionSprite](g)
}

func TestBoxComesToRestOnGround(t *testing.T) {
	ground := newBox("Ground", 0, 5, 20, 1, true)
	box := newBox("Box", 0, 0, 1, 1, false)
	rec := &contactRecorder{}
	box.AddComponent(rec)

	pw := newTestPhysics(ground, box)
	for i := 0; i < 180; i++ {
		pw.Step(1.0 / 60)
	}

	y := box.Transform.Position.Sub(sector.Point{}).Y
	if math32.Abs(y-4) > 0.1 {
		t.Errorf("Expected box to rest near y=4, got %f", y)
	}
	if sprite(box).VelocityMag() > 1 {
		t.Errorf("Expected box nearly at rest, got speed %f", sprite(box).VelocityMag())
	}
	if rec.enters == 0 || rec.last != ground {
		t.Errorf("Expected an enter callback from the ground, got %d", rec.enters)
	}
	if ground.Transform.Position.Sub(sector.NewPoint(0, 5)) != (rl.Vector2{}) {
		t.Error("Static ground should not move")
	}
}

func TestUpdateFixedSteps(t *testing.T) {
	pw := newTestPhysics()

	if steps := pw.Update(0.04); steps != 2 {
		t.Errorf("Expected 2 steps, got %d", steps)
	}
	if r := pw.TimeRatio(); math32.Abs(r-0.4) > 0.01 {
		t.Errorf("Expected ratio 0.4, got %f", r)
	}

	if steps := pw.Update(1); steps != pw.Settings.MaxSubsteps {
		t.Errorf("Expected steps capped at %d, got %d", pw.Settings.MaxSubsteps, steps)
	}
}

func TestEnterAndExitCallbacks(t *testing.T) {
	a := newBox("A", 0, 0, 1, 1, false)
	b := newBox("B", 0.9, 0, 1, 1, false)
	recA := &contactRecorder{}
	a.AddComponent(recA)

	pw := newTestPhysics(a, b)
	pw.Settings.Gravity = [2]float32{}

	pw.Step(1.0 / 60)
	if recA.enters != 1 || len(pw.Contacts()) != 1 {
		t.Fatalf("Expected 1 enter and 1 contact, got %d and %d", recA.enters, len(pw.Contacts()))
	}

	b.SetPosition(sector.NewPoint(10, 0))
	pw.Step(1.0 / 60)
	if recA.exits != 1 {
		t.Errorf("Expected 1 exit, got %d", recA.exits)
	}
}

func TestOnImpactReportsClosingSpeed(t *testing.T) {
	a := newBox("A", 0, 0, 1, 1, false)
	b := newBox("B", 0.95, 0, 1, 1, false)
	pw := newTestPhysics(a, b)
	pw.Settings.Gravity = [2]float32{}
	sprite(a).SetVelocity(rl.Vector2{X: 2})

	var impacts []Contact
	pw.OnImpact.AddListener(func(c Contact) { impacts = append(impacts, c) })

	pw.Step(1.0 / 60)
	if len(impacts) != 1 {
		t.Fatalf("Expected 1 impact, got %d", len(impacts))
	}
	if impacts[0].Speed < 1.9 || impacts[0].Speed > 2 {
		t.Errorf("Expected closing speed near 2, got %f", impacts[0].Speed)
	}
}

func TestContactNormalPointsFromAToB(t *testing.T) {
	a := newBox("A", 0, 0, 1, 1, false)
	b := newBox("B", 0.9, 0, 1, 1, false)
	pw := newTestPhysics(a, b)
	pw.Settings.Gravity = [2]float32{}

	pw.Step(1.0 / 60)
	c := pw.Contacts()
	if len(c) != 1 {
		t.Fatalf("Expected 1 contact, got %d", len(c))
	}
	if c[0].A != a || c[0].Normal.X <= 0 {
		t.Errorf("Expected normal toward B, got %v", c[0].Normal)
	}
}

func TestResolvesFarFromOrigin(t *testing.T) {
	a := newBox("A", 1e9, 0, 1, 1, false)
	b := newBox("B", 1e9+0.8, 0, 1, 1, false)
	pw := newTestPhysics(a, b)
	pw.Settings.Gravity = [2]float32{}
	pw.FocusTarget.Set(a)

	for i := 0; i < 30; i++ {
		pw.Step(1.0 / 60)
	}

	gap := b.Transform.Position.Sub(a.Transform.Position).X
	if gap <= 0.8 {
		t.Errorf("Expected the boxes to be pushed apart, got gap %f", gap)
	}
	if d := pw.Focus.Sub(a.Transform.Position); math32.Abs(d.X) > 0.1 {
		t.Errorf("Expected focus to follow A, got %v", pw.Focus)
	}
}

func TestStaticPairsAreIgnored(t *testing.T) {
	a := newBox("A", 0, 0, 2, 2, true)
	b := newBox("B", 0.5, 0, 2, 2, true)
	pw := newTestPhysics(a, b)

	pw.Step(1.0 / 60)
	if len(pw.Contacts()) != 0 {
		t.Errorf("Expected no contacts between statics, got %d", len(pw.Contacts()))
	}
}

func TestRaycastNearest(t *testing.T) {
	near := newBox("Near", 5, 0, 1, 1, false)
	far := newBox("Far", 10, 0, 1, 1, false)
	pw := newTestPhysics(far, near)

	hit, ok := pw.Raycast(sector.Point{}, rl.Vector2{X: 2}, 20)
	if !ok {
		t.Fatal("Expected a hit")
	}
	if hit.GameObject != near {
		t.Errorf("Expected to hit Near, got %s", hit.GameObject.Name)
	}
	if math32.Abs(hit.Distance-4.5) > 1e-4 {
		t.Errorf("Expected distance 4.5, got %f", hit.Distance)
	}
	if hit.Normal.X != -1 {
		t.Errorf("Expected normal (-1, 0), got %v", hit.Normal)
	}

	if _, ok := pw.Raycast(sector.Point{}, rl.Vector2{Y: 1}, 20); ok {
		t.Error("Expected a miss straight down")
	}
}

func TestQueryPoint(t *testing.T) {
	under := newBox("Under", 0, 0, 2, 2, false)
	over := newBox("Over", 0.5, 0, 2, 2, false)
	pw := newTestPhysics(under, over)

	if g := pw.QueryPoint(sector.NewPoint(0.2, 0)); g != over {
		t.Errorf("Expected the last added sprite, got %v", g)
	}
	if g := pw.QueryPoint(sector.NewPoint(-0.8, 0)); g != under {
		t.Errorf("Expected Under, got %v", g)
	}
	if g := pw.QueryPoint(sector.NewPoint(5, 5)); g != nil {
		t.Errorf("Expected nothing, got %s", g.Name)
	}
}

func TestApplyPointImpulseWorld(t *testing.T) {
	box := newBox("Box", 2, 0, 1, 1, false)
	wall := newBox("Wall", -2, 0, 1, 1, true)
	far := newBox("Far", 50, 0, 1, 1, false)
	pw := newTestPhysics(box, wall, far)

	hit := pw.ApplyPointImpulse(sector.Point{}, 5, 10, false)
	if hit != 1 {
		t.Errorf("Expected 1 sprite hit, got %d", hit)
	}
	if v := sprite(box).Velocity(); v.X <= 0 {
		t.Errorf("Expected box pushed away (+X), got %v", v)
	}
	if sprite(far).VelocityMag() != 0 {
		t.Error("Sprite outside the radius should not move")
	}
}

func TestApplyPointImpulseWakesSleepers(t *testing.T) {
	box := newBox("Box", 2, 0, 1, 1, false)
	pw := newTestPhysics(box)
	cs := sprite(box)
	cs.IsSleeping = true

	pw.ApplyPointImpulse(sector.Point{}, 5, 10, true)
	if cs.IsSleeping {
		t.Error("Hit sprite should wake up")
	}
}

func TestRemoveObject(t *testing.T) {
	a := newBox("A", 0, 0, 1, 1, false)
	b := newBox("B", 0.9, 0, 1, 1, false)
	recA := &contactRecorder{}
	a.AddComponent(recA)
	pw := newTestPhysics(a, b)
	pw.Settings.Gravity = [2]float32{}

	pw.Step(1.0 / 60)
	pw.RemoveObject(b)
	pw.Step(1.0 / 60)

	if pw.ObjectCount() != 1 {
		t.Errorf("Expected 1 object, got %d", pw.ObjectCount())
	}
	if recA.exits != 0 {
		t.Error("Removing an object should not send exit callbacks")
	}
	if len(pw.Contacts()) != 0 {
		t.Error("Removed object should not collide")
	}
}

func TestAddObjectIgnoresDuplicatesAndPlainObjects(t *testing.T) {
	box := newBox("Box", 0, 0, 1, 1, false)
	pw := newTestPhysics(box)

	pw.AddObject(box)
	pw.AddObject(engine.NewGameObject("Empty"))
	if pw.ObjectCount() != 1 {
		t.Errorf("Expected 1 object, got %d", pw.ObjectCount())
	}
	if pw.DynamicObjectCount() != 1 {
		t.Errorf("Expected 1 dynamic object, got %d", pw.DynamicObjectCount())
	}
}

func TestSettingsValidate(t *testing.T) {
	if err := DefaultSettings().Validate(); err != nil {
		t.Errorf("Default settings should be valid: %v", err)
	}

	s := DefaultSettings()
	s.FixedStep = 0
	if s.Validate() == nil {
		t.Error("Expected an error for a zero step")
	}

	s = DefaultSettings()
	s.CellSize = -1
	if s.Validate() == nil {
		t.Error("Expected an error for a negative cell size")
	}
}
