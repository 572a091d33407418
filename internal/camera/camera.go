package camera

import (
	"sprite2d/internal/sector"

	"github.com/chewxy/math32"
	rl "github.com/gen2brain/raylib-go/raylib"
)

// PanCamera is a free 2D camera: keys move it, the wheel zooms it.
type PanCamera struct {
	Position  sector.Point
	Velocity  rl.Vector2
	Zoom      float32 // pixels per world unit
	MoveSpeed float32 // screen pixels per second, so panning feels the same at any zoom
	Smoothing float32 // per second; higher follows input faster

	MinZoom float32
	MaxZoom float32
}

// Input is one frame of camera controls.
type Input struct {
	Move  rl.Vector2 // each axis in [-1, 1]; +Y is down
	Wheel float32
}

func New(pos sector.Point, zoom float32) *PanCamera {
	return &PanCamera{
		Position:  pos,
		Zoom:      zoom,
		MoveSpeed: 600,
		Smoothing: 12,
		MinZoom:   5,
		MaxZoom:   120,
	}
}

// ReadInput samples WASD/arrows and the mouse wheel. Movement keys are
// ignored while a modifier is held so shortcuts like Ctrl+S do not pan.
func ReadInput() Input {
	in := Input{Wheel: rl.GetMouseWheelMove()}
	if rl.IsKeyDown(rl.KeyLeftControl) || rl.IsKeyDown(rl.KeyLeftSuper) {
		return in
	}
	if rl.IsKeyDown(rl.KeyW) || rl.IsKeyDown(rl.KeyUp) {
		in.Move.Y--
	}
	if rl.IsKeyDown(rl.KeyS) || rl.IsKeyDown(rl.KeyDown) {
		in.Move.Y++
	}
	if rl.IsKeyDown(rl.KeyA) || rl.IsKeyDown(rl.KeyLeft) {
		in.Move.X--
	}
	if rl.IsKeyDown(rl.KeyD) || rl.IsKeyDown(rl.KeyRight) {
		in.Move.X++
	}
	return in
}

func (c *PanCamera) Update(in Input, deltaTime float32) {
	if in.Wheel != 0 {
		c.Zoom = math32.Max(c.MinZoom, math32.Min(c.MaxZoom, c.Zoom*(1+0.1*in.Wheel)))
	}

	// Normalize diagonal movement so you don't go faster diagonally
	move := in.Move
	if l := rl.Vector2Length(move); l > 1 {
		move = rl.Vector2Scale(move, 1/l)
	}
	target := rl.Vector2Scale(move, c.MoveSpeed/c.Zoom)

	t := math32.Min(1, c.Smoothing*deltaTime)
	c.Velocity = rl.Vector2Lerp(c.Velocity, target, t)
	if rl.Vector2LengthSqr(c.Velocity) < 1e-8 {
		c.Velocity = rl.Vector2{}
	}
	c.Position = c.Position.Add(rl.Vector2Scale(c.Velocity, deltaTime))
}

// Stop drops any leftover motion, e.g. when the camera starts following
// something else.
func (c *PanCamera) Stop(at sector.Point) {
	c.Position = at
	c.Velocity = rl.Vector2{}
}
