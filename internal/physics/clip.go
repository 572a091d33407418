package physics

import (
	rl "github.com/gen2brain/raylib-go/raylib"
	"github.com/pkg/errors"
)

// ErrDegenerateClip means clipping produced a third point, which only happens
// for malformed polygons.
var ErrDegenerateClip = errors.New("clip produced more than two points")

// Clip keeps the part of segment v that lies on the non-positive side of the
// plane dot(n, p) = offset. v is overwritten with the kept points and the
// count (0, 1 or 2) is returned.
func Clip(n rl.Vector2, offset float32, v *[2]rl.Vector2) (int, error) {
	var out [2]rl.Vector2
	count := 0

	d1 := rl.Vector2DotProduct(n, v[0]) - offset
	d2 := rl.Vector2DotProduct(n, v[1]) - offset

	if d1 <= 0 {
		out[count] = v[0]
		count++
	}
	if d2 <= 0 {
		out[count] = v[1]
		count++
	}

	if d1*d2 < 0 {
		if count >= 2 {
			return 0, errors.WithStack(ErrDegenerateClip)
		}
		alpha := d1 / (d1 - d2)
		out[count] = rl.Vector2Add(v[0], rl.Vector2Scale(rl.Vector2Subtract(v[1], v[0]), alpha))
		count++
	}

	*v = out
	return count, nil
}
