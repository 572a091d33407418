package world

import (
	"github.com/chewxy/math32"
	rl "github.com/gen2brain/raylib-go/raylib"
)

// ViewRect is the axis-aligned area a 2D camera can see, in the camera's
// target frame. A rotated camera gets the box around its rotated view.
type ViewRect struct {
	Min, Max rl.Vector2
}

// ExtractViewRect maps the screen corners back through the camera.
func ExtractViewRect(camera rl.Camera2D, screenW, screenH float32) ViewRect {
	corners := [4]rl.Vector2{
		{X: 0, Y: 0},
		{X: screenW, Y: 0},
		{X: screenW, Y: screenH},
		{X: 0, Y: screenH},
	}

	zoom := camera.Zoom
	if zoom == 0 {
		zoom = 1
	}

	var v ViewRect
	for i, c := range corners {
		local := rl.Vector2Scale(rl.Vector2Subtract(c, camera.Offset), 1/zoom)
		p := rl.Vector2Add(camera.Target, rl.Vector2Rotate(local, -camera.Rotation*rl.Deg2rad))
		if i == 0 {
			v.Min, v.Max = p, p
			continue
		}
		v.Min.X = math32.Min(v.Min.X, p.X)
		v.Min.Y = math32.Min(v.Min.Y, p.Y)
		v.Max.X = math32.Max(v.Max.X, p.X)
		v.Max.Y = math32.Max(v.Max.Y, p.Y)
	}
	return v
}

// ContainsCircle tests if a circle is inside or overlaps the view.
// Returns true if the object should be drawn.
func (v ViewRect) ContainsCircle(center rl.Vector2, radius float32) bool {
	return center.X+radius >= v.Min.X && center.X-radius <= v.Max.X &&
		center.Y+radius >= v.Min.Y && center.Y-radius <= v.Max.Y
}

func (v ViewRect) ContainsPoint(p rl.Vector2) bool {
	return v.ContainsCircle(p, 0)
}
