package physics

import rl "github.com/gen2brain/raylib-go/raylib"

type RaycastHit struct {
	Point    rl.Vector2
	Normal   rl.Vector2
	Distance float32
}

// Raycast clips the ray against every edge plane of the polygon. direction
// must be normalized. A ray starting inside hits at distance 0.
func (p *Polygon) Raycast(origin, direction rl.Vector2, maxDistance float32) (RaycastHit, bool) {
	tEnter := float32(0)
	tExit := maxDistance
	normal := rl.Vector2Negate(direction)

	for _, e := range p.edges {
		num := rl.Vector2DotProduct(e.Normal, rl.Vector2Subtract(p.verts[e.V0], origin))
		den := rl.Vector2DotProduct(e.Normal, direction)

		if den == 0 {
			// Parallel to this edge: outside it means no hit at all
			if num < 0 {
				return RaycastHit{}, false
			}
			continue
		}

		t := num / den
		if den < 0 {
			if t > tEnter {
				tEnter = t
				normal = e.Normal
			}
		} else if t < tExit {
			tExit = t
		}

		if tEnter > tExit {
			return RaycastHit{}, false
		}
	}

	return RaycastHit{
		Point:    rl.Vector2Add(origin, rl.Vector2Scale(direction, tEnter)),
		Normal:   normal,
		Distance: tEnter,
	}, true
}
