package components

import (
	"sprite2d/internal/engine"
	"sprite2d/internal/sector"

	rl "github.com/gen2brain/raylib-go/raylib"
)

// SpriteRenderer draws the owner's collision polygon as a filled shape.
type SpriteRenderer struct {
	engine.BaseComponent
	Color   rl.Color
	Outline rl.Color

	points []rl.Vector2
	fan    []rl.Vector2
}

func NewSpriteRenderer(color rl.Color) *SpriteRenderer {
	return &SpriteRenderer{
		Color:   color,
		Outline: rl.Black,
	}
}

// Draw renders at the interpolated pose relative to origin. Call inside
// BeginMode2D.
func (s *SpriteRenderer) Draw(origin sector.Point, ratio float32) {
	g := s.GetGameObject()
	if g == nil || !g.Active {
		return
	}

	cs := engine.GetComponent[*CollisionSprite](g)
	if cs == nil || !cs.Built() {
		rl.DrawCircleV(g.WorldPosition().Sub(origin), 2, s.Color)
		return
	}

	center := cs.InterpPos(ratio).Sub(origin)
	rot := cs.InterpRot(ratio) * rl.Deg2rad

	model := cs.Polygon().ModelVerts()
	if cap(s.points) < len(model)+1 {
		s.points = make([]rl.Vector2, len(model)+1)
	}
	s.points = s.points[:len(model)+1]
	for i, v := range model {
		s.points[i] = rl.Vector2Add(center, rl.Vector2Rotate(v, rot))
	}
	s.points[len(model)] = s.points[0]

	color := s.Color
	if cs.IsSleeping {
		color = rl.ColorAlpha(color, 0.6)
	}

	// polygon winding is clockwise on a Y-down screen; fans need the reverse
	s.fan = s.fan[:0]
	for i := len(model) - 1; i >= 0; i-- {
		s.fan = append(s.fan, s.points[i])
	}
	rl.DrawTriangleFan(s.fan, color)
	rl.DrawLineStrip(s.points, s.Outline)
}

// Bounds returns the render-space box of the last drawn polygon.
func (s *SpriteRenderer) Bounds() rl.Rectangle {
	if len(s.points) == 0 {
		return rl.Rectangle{}
	}
	minX, minY := s.points[0].X, s.points[0].Y
	maxX, maxY := minX, minY
	for _, p := range s.points[1:] {
		minX = min(minX, p.X)
		minY = min(minY, p.Y)
		maxX = max(maxX, p.X)
		maxY = max(maxY, p.Y)
	}
	return rl.Rectangle{X: minX, Y: minY, Width: maxX - minX, Height: maxY - minY}
}
