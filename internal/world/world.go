package world

import (
	"log"

	"sprite2d/internal/components"
	"sprite2d/internal/engine"
	"sprite2d/internal/physics"
	"sprite2d/internal/sector"

	rl "github.com/gen2brain/raylib-go/raylib"
)

// World ties a scene to its physics. It is the engine.WorldAccess the scene's
// components see.
type World struct {
	Scene    *engine.Scene
	Physics  *PhysicsWorld
	Renderer *Renderer

	pendingDestroy []*engine.GameObject
}

func New() *World {
	w := &World{
		Scene:    engine.NewScene("Main"),
		Physics:  NewPhysicsWorld(DefaultSettings(), physics.DefaultConfig()),
		Renderer: NewRenderer(),
	}
	w.Scene.World = w
	w.Physics.Scene = w.Scene
	return w
}

// Initialize starts every object and registers the collision sprites. Call
// after loading a scene.
func (w *World) Initialize() {
	w.Scene.Start()
	for _, g := range w.Scene.GameObjects {
		w.Physics.AddObject(g)
	}
	w.initializeCompute()
}

// Update runs scripts, then physics, then removes destroyed objects.
// Returns the number of physics steps taken.
func (w *World) Update(deltaTime float32) int {
	w.Scene.Update(deltaTime)
	steps := w.Physics.Update(deltaTime)
	w.flushDestroyed()
	return steps
}

// Draw renders the scene centered on the focus. Call inside rl.BeginDrawing.
func (w *World) Draw() {
	w.Renderer.Origin = w.Physics.Focus
	if target := w.Physics.FocusTarget.Get(w.Scene); target != nil {
		// follow the drawn pose, not the stepped one, or the view jitters
		if cs := engine.GetComponent[*components.CollisionSprite](target); cs != nil && cs.Built() {
			w.Renderer.Origin = cs.InterpPos(w.Physics.TimeRatio())
		}
	}

	w.Renderer.Begin()
	w.Renderer.Draw(w.Scene.GameObjects, w.Physics)
	w.Renderer.End()
}

// --- engine.WorldAccess ---

// GetCollidableObjects returns every object with a collision sprite
func (w *World) GetCollidableObjects() []*engine.GameObject {
	var result []*engine.GameObject
	for _, cs := range w.Physics.Sprites() {
		result = append(result, cs.GetGameObject())
	}
	return result
}

// SpawnObject adds g to the scene, starts it and registers it with physics.
func (w *World) SpawnObject(g *engine.GameObject) {
	w.Scene.AddGameObject(g)
	g.Start()
	w.Physics.AddObject(g)
}

// Destroy removes g and its children at the end of the current update, so it
// is safe to call from component updates and collision callbacks.
func (w *World) Destroy(g *engine.GameObject) {
	for _, pending := range w.pendingDestroy {
		if pending == g {
			return
		}
	}
	w.pendingDestroy = append(w.pendingDestroy, g)
}

func (w *World) Raycast(origin sector.Point, direction rl.Vector2, maxDistance float32) (engine.RaycastResult, bool) {
	return w.Physics.Raycast(origin, direction, maxDistance)
}

func (w *World) ApplyPointImpulse(point sector.Point, radius, force float32, diminishing bool) int {
	return w.Physics.ApplyPointImpulse(point, radius, force, diminishing)
}

func (w *World) flushDestroyed() {
	for _, g := range w.pendingDestroy {
		g.NotifyDestroyed()
		w.removePhysics(g)
		if g.Parent != nil {
			g.Parent.RemoveChild(g)
		}
		w.Scene.RemoveGameObject(g)
	}
	w.pendingDestroy = w.pendingDestroy[:0]
}

func (w *World) removePhysics(g *engine.GameObject) {
	for _, child := range g.Children {
		w.removePhysics(child)
	}
	w.Physics.RemoveObject(g)
}

// FindSprite returns the collision sprite under a world point, or nil.
func (w *World) FindSprite(p sector.Point) *components.CollisionSprite {
	g := w.Physics.QueryPoint(p)
	if g == nil {
		return nil
	}
	return engine.GetComponent[*components.CollisionSprite](g)
}

func (w *World) Unload() {
	w.Physics.Release()
	log.Printf("World: unloaded %d objects", len(w.Scene.GameObjects))
}
