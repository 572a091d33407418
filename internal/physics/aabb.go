package physics

import rl "github.com/gen2brain/raylib-go/raylib"

type AABB struct {
	Min rl.Vector2
	Max rl.Vector2
}

// NewAABBFromCenter creates an AABB from a center point and full size dimensions.
func NewAABBFromCenter(center, size rl.Vector2) AABB {
	half := rl.Vector2Scale(size, 0.5)
	return AABB{
		Min: rl.Vector2Subtract(center, half),
		Max: rl.Vector2Add(center, half),
	}
}

func (a AABB) Intersects(b AABB) bool {
	return a.Min.X <= b.Max.X && a.Max.X >= b.Min.X &&
		a.Min.Y <= b.Max.Y && a.Max.Y >= b.Min.Y
}

func (a AABB) Contains(p rl.Vector2) bool {
	return p.X >= a.Min.X && p.X <= a.Max.X && p.Y >= a.Min.Y && p.Y <= a.Max.Y
}

// Expand grows the box by margin on every side.
func (a AABB) Expand(margin float32) AABB {
	m := rl.Vector2{X: margin, Y: margin}
	return AABB{Min: rl.Vector2Subtract(a.Min, m), Max: rl.Vector2Add(a.Max, m)}
}

func (a AABB) Center() rl.Vector2 {
	return rl.Vector2Lerp(a.Min, a.Max, 0.5)
}

// BoxRadiiIntersect tests the square boxes of half-extent rA and rB around
// two centers. It is looser than a circle test and never rejects a touching pair.
func BoxRadiiIntersect(posA rl.Vector2, rA float32, posB rl.Vector2, rB float32) bool {
	a := NewAABBFromCenter(posA, rl.Vector2{X: 2 * rA, Y: 2 * rA})
	b := NewAABBFromCenter(posB, rl.Vector2{X: 2 * rB, Y: 2 * rB})
	return a.Intersects(b)
}
