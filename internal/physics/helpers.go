package physics

import (
	"github.com/chewxy/math32"
	rl "github.com/gen2brain/raylib-go/raylib"
)

// cross returns the z component of the 3D cross product of two planar vectors
func cross(a, b rl.Vector2) float32 {
	return a.X*b.Y - a.Y*b.X
}

// crossSV is s × v where s is an angular quantity about the z axis
func crossSV(s float32, v rl.Vector2) rl.Vector2 {
	return rl.Vector2{X: -s * v.Y, Y: s * v.X}
}

// crossVS is v × s
func crossVS(v rl.Vector2, s float32) rl.Vector2 {
	return rl.Vector2{X: s * v.Y, Y: -s * v.X}
}

// clamp restricts a value to a range
func clamp(v, min, max float32) float32 {
	if v < min {
		return min
	}
	if v > max {
		return max
	}
	return v
}

// nearlyEqual compares two floats within an absolute tolerance
func nearlyEqual(a, b, tolerance float32) bool {
	return math32.Abs(a-b) <= tolerance
}
