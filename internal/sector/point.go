package sector

import (
	"fmt"

	rl "github.com/gen2brain/raylib-go/raylib"
)

// Point is a 2D world position.
type Point struct {
	X, Y Value
}

func NewPoint(x, y float64) Point {
	return Point{X: NewValue(x), Y: NewValue(y)}
}

// FromVector lifts a plain vector (relative to the world origin) into a Point.
func FromVector(v rl.Vector2) Point {
	return Point{X: NewValue(float64(v.X)), Y: NewValue(float64(v.Y))}
}

// Add offsets the point by a plain vector.
func (p Point) Add(v rl.Vector2) Point {
	return Point{X: p.X.AddFloat(v.X), Y: p.Y.AddFloat(v.Y)}
}

// Sub resolves both points to a common frame and returns p - o.
func (p Point) Sub(o Point) rl.Vector2 {
	return rl.Vector2{X: p.X.Delta(o.X), Y: p.Y.Delta(o.Y)}
}

// RelativeTo is the position of p in a frame whose origin is at origin.
func (p Point) RelativeTo(origin Point) rl.Vector2 {
	return p.Sub(origin)
}

// Lerp interpolates between a and b.
func Lerp(a, b Point, t float32) Point {
	return a.Add(rl.Vector2Scale(b.Sub(a), t))
}

// Vector flattens p to a plain vector relative to the world origin. Lossy far
// from the origin.
func (p Point) Vector() rl.Vector2 {
	return rl.Vector2{X: float32(p.X.Float64()), Y: float32(p.Y.Float64())}
}

func (p Point) String() string {
	return fmt.Sprintf("(%d:%.3f, %d:%.3f)", p.X.Cell, p.X.Pos, p.Y.Cell, p.Y.Pos)
}
