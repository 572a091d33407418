package game

import (
	"fmt"

	"sprite2d/internal/components"
	"sprite2d/internal/engine"
	"sprite2d/internal/sector"
	"sprite2d/internal/world"

	"github.com/chewxy/math32"
	rl "github.com/gen2brain/raylib-go/raylib"
	colorful "github.com/lucasb-eyer/go-colorful"
)

// SpawnKind is something the sandbox can drop into the world.
type SpawnKind struct {
	Name    string
	Factory func(color rl.Color) *engine.GameObject
}

// spawnKinds lists what left click can spawn, in Tab order.
var spawnKinds = []SpawnKind{
	{"Box", createBox},
	{"Triangle", createTriangle},
	{"Hexagon", createHexagon},
	{"Plank", createPlank},
	{"Bomb", createBomb},
}

func createBox(color rl.Color) *engine.GameObject {
	return newSpriteObject(components.RectShape(1, 1), color)
}

func createTriangle(color rl.Color) *engine.GameObject {
	return newSpriteObject(components.PolygonShape(
		rl.Vector2{X: 0, Y: -0.7},
		rl.Vector2{X: 0.7, Y: 0.5},
		rl.Vector2{X: -0.7, Y: 0.5},
	), color)
}

func createHexagon(color rl.Color) *engine.GameObject {
	return newSpriteObject(components.PolygonShape(regularPolygon(6, 0.6)...), color)
}

func createPlank(color rl.Color) *engine.GameObject {
	g := newSpriteObject(components.RectShape(4, 0.4), color)
	engine.GetComponent[*components.CollisionSprite](g).Density = 0.5
	return g
}

func createBomb(color rl.Color) *engine.GameObject {
	g := newSpriteObject(components.PolygonShape(regularPolygon(8, 0.4)...), rl.Maroon)
	g.AddComponent(&components.Bomb{Fuse: 3, Radius: 6, Force: 25, Diminishing: true, OnImpact: true})
	return g
}

func newSpriteObject(shape components.ShapeDef, color rl.Color) *engine.GameObject {
	g := engine.NewGameObject("")
	g.AddComponent(components.NewCollisionSprite(shape))
	g.AddComponent(components.NewSpriteRenderer(color))
	return g
}

// regularPolygon returns n vertices on a circle of radius r.
func regularPolygon(n int, r float32) []rl.Vector2 {
	verts := make([]rl.Vector2, n)
	for i := range verts {
		a := 2 * math32.Pi * float32(i) / float32(n)
		verts[i] = rl.Vector2{X: r * math32.Cos(a), Y: r * math32.Sin(a)}
	}
	return verts
}

// paletteColor steps around the hue wheel by the golden angle so
// consecutive spawns never share a color.
func paletteColor(i int) rl.Color {
	hue := float64(i) * 137.508
	for hue >= 360 {
		hue -= 360
	}
	r, g, b := colorful.Hsv(hue, 0.55, 0.9).RGB255()
	return rl.Color{R: r, G: g, B: b, A: 255}
}

// spawn drops the current kind at p. Spawned objects are tagged so they are
// not written back into the scene file.
func (g *Game) spawn(kind int, p sector.Point) *engine.GameObject {
	g.spawnCounter++
	k := spawnKinds[kind%len(spawnKinds)]

	obj := k.Factory(paletteColor(g.spawnCounter))
	obj.Name = fmt.Sprintf("%s_%d", k.Name, g.spawnCounter)
	obj.Tags = append(obj.Tags, world.RuntimeTag)
	obj.SetPosition(p)

	g.World.SpawnObject(obj)
	g.history.push(obj)
	return obj
}
