package physics

import rl "github.com/gen2brain/raylib-go/raylib"

// Sprite is anything the resolver can collide: a convex polygon with a body,
// both placed in the same resolution frame.
type Sprite interface {
	// Pos is the center of mass in the resolution frame.
	Pos() rl.Vector2
	// Radius bounds the polygon around Pos.
	Radius() float32
	Polygon() *Polygon
	Body() *Body
}
