package game

import (
	"sprite2d/internal/engine"
	"sprite2d/internal/world"
)

const maxUndoStack = 50

// spawnHistory remembers recent spawns so they can be taken back.
type spawnHistory struct {
	objects []*engine.GameObject
}

func (h *spawnHistory) push(g *engine.GameObject) {
	// Cap stack size
	if len(h.objects) >= maxUndoStack {
		h.objects = h.objects[1:]
	}
	h.objects = append(h.objects, g)
}

// pop returns the newest spawn still in scene, or nil.
func (h *spawnHistory) pop(scene *engine.Scene) *engine.GameObject {
	for len(h.objects) > 0 {
		g := h.objects[len(h.objects)-1]
		h.objects = h.objects[:len(h.objects)-1]
		if scene.FindByUID(g.UID) != nil {
			return g
		}
	}
	return nil
}

func (h *spawnHistory) size() int {
	return len(h.objects)
}

// undo removes the most recent spawn that still exists.
func (g *Game) undo() {
	obj := g.history.pop(g.World.Scene)
	if obj == nil {
		return
	}
	g.World.Destroy(obj)
	g.setMsg("Removed %s", obj.Name)
}

// clearSpawned removes every object spawned while playing and forgets the
// undo stack.
func (g *Game) clearSpawned() {
	spawned := g.World.Scene.FindByTag(world.RuntimeTag)
	for _, obj := range spawned {
		if obj.Parent == nil {
			g.World.Destroy(obj)
		}
	}
	g.history.objects = g.history.objects[:0]
	g.setMsg("Cleared %d spawned objects", len(spawned))
}
