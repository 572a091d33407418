package physics

import (
	"github.com/chewxy/math32"
	rl "github.com/gen2brain/raylib-go/raylib"
)

// ApplyPointImpulse pushes target away from a point source such as an
// explosion. With diminishing set the force falls off linearly with depth
// into the blast radius. Returns whether an impulse was applied.
func (r *Resolver) ApplyPointImpulse(point rl.Vector2, radius, force float32, target Sprite, diminishing bool) bool {
	body := target.Body()
	if body.IsStatic() || radius <= 0 {
		return false
	}

	poly := target.Polygon()
	separation := float32(-math32.MaxFloat32)
	edgeIdx := 0
	for i := 0; i < poly.EdgeCount(); i++ {
		e := poly.Edge(i)
		s := rl.Vector2DotProduct(rl.Vector2Subtract(point, poly.Vert(e.V0)), e.Normal)
		if s > radius {
			return false
		}
		if s > separation {
			separation = s
			edgeIdx = i
		}
	}

	edge := poly.Edge(edgeIdx)
	v0, v1 := poly.EdgeVerts(edgeIdx)

	var normal, contact rl.Vector2
	var penetration float32

	if separation < r.cfg.MinSeparation {
		// point is inside the polygon
		normal = rl.Vector2Negate(edge.Normal)
		contact = rl.Vector2Add(point, rl.Vector2Scale(normal, radius))
		penetration = radius
	} else {
		penetration = radius - separation

		dot0 := rl.Vector2DotProduct(rl.Vector2Subtract(point, v0), rl.Vector2Subtract(v1, v0))
		dot1 := rl.Vector2DotProduct(rl.Vector2Subtract(point, v1), rl.Vector2Subtract(v0, v1))

		switch {
		case dot0 <= 0:
			if rl.Vector2LengthSqr(rl.Vector2Subtract(point, v0)) > radius*radius {
				return false
			}
			normal = rl.Vector2Normalize(rl.Vector2Subtract(v0, point))
			contact = v0
		case dot1 <= 0:
			if rl.Vector2LengthSqr(rl.Vector2Subtract(point, v1)) > radius*radius {
				return false
			}
			normal = rl.Vector2Normalize(rl.Vector2Subtract(v1, point))
			contact = v1
		default:
			if rl.Vector2DotProduct(rl.Vector2Subtract(point, v0), edge.Normal) > radius {
				return false
			}
			normal = rl.Vector2Negate(edge.Normal)
			contact = rl.Vector2Add(point, rl.Vector2Scale(normal, radius))
		}
	}

	if diminishing {
		force *= penetration / radius
	}
	impulse := rl.Vector2Scale(normal, force)
	body.ApplyImpulse(impulse, rl.Vector2Subtract(contact, target.Pos()))
	return true
}
