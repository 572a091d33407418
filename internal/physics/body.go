package physics

import (
	"github.com/chewxy/math32"
	rl "github.com/gen2brain/raylib-go/raylib"
)

// Body holds the physical state of one collision sprite. An inverse mass of 0
// marks the body as static.
type Body struct {
	mass        float32
	invMass     float32
	inertia     float32
	invInertia  float32
	restitution float32

	Velocity        rl.Vector2
	AngularVelocity float32 // radians per second, counter-clockwise

	correction rl.Vector2
}

// NewBody creates a dynamic body. A non-positive mass or inertia makes that
// part of the body immovable.
func NewBody(mass, inertia, restitution float32) *Body {
	b := &Body{}
	b.SetMass(mass)
	b.SetInertia(inertia)
	b.SetRestitution(restitution)
	return b
}

// NewStaticBody creates a body that no impulse can move.
func NewStaticBody(restitution float32) *Body {
	return NewBody(0, 0, restitution)
}

func (b *Body) SetMass(mass float32) {
	if mass <= 0 {
		b.mass, b.invMass = 0, 0
		return
	}
	b.mass = mass
	b.invMass = 1 / mass
}

func (b *Body) SetInertia(inertia float32) {
	if inertia <= 0 {
		b.inertia, b.invInertia = 0, 0
		return
	}
	b.inertia = inertia
	b.invInertia = 1 / inertia
}

// SetFixedRotation keeps the inertia value but stops impulses from spinning the body.
func (b *Body) SetFixedRotation(fixed bool) {
	if fixed {
		b.invInertia = 0
		b.AngularVelocity = 0
		return
	}
	b.SetInertia(b.inertia)
}

// SetRestitution clamps to [0, 1].
func (b *Body) SetRestitution(r float32) {
	b.restitution = clamp(r, 0, 1)
}

func (b *Body) Mass() float32 { return b.mass }
func (b *Body) InvMass() float32 { return b.invMass }
func (b *Body) Inertia() float32 { return b.inertia }
func (b *Body) InvInertia() float32 { return b.invInertia }
func (b *Body) Restitution() float32 { return b.restitution }
func (b *Body) IsStatic() bool { return b.invMass == 0 }
func (b *Body) FixedRotation() bool { return b.invInertia == 0 && b.inertia > 0 }
func (b *Body) PendingCorrection() rl.Vector2 { return b.correction }

// ApplyImpulse changes velocity by impulse at the contact offset radius from
// the center of mass.
func (b *Body) ApplyImpulse(impulse, radius rl.Vector2) {
	b.Velocity = rl.Vector2Add(b.Velocity, rl.Vector2Scale(impulse, b.invMass))
	b.AngularVelocity += b.invInertia * cross(radius, impulse)
}

// ApplyAcceleration applies accel for dt seconds. Force is scaled by mass so
// every dynamic body accelerates the same.
func (b *Body) ApplyAcceleration(accel rl.Vector2, dt float32) {
	if b.invMass == 0 {
		return
	}
	force := rl.Vector2Scale(accel, b.mass)
	b.Velocity = rl.Vector2Add(b.Velocity, rl.Vector2Scale(force, b.invMass*dt))
}

// Speed is the magnitude of the linear velocity.
func (b *Body) Speed() float32 {
	return rl.Vector2Length(b.Velocity)
}

// Damp scales both velocities down by the damping factors over dt.
func (b *Body) Damp(linear, angular, dt float32) {
	b.Velocity = rl.Vector2Scale(b.Velocity, math32.Max(0, 1-linear*dt))
	b.AngularVelocity *= math32.Max(0, 1-angular*dt)
}

// AddPositionCorrection queues a translation for the world to apply after the
// pair loop.
func (b *Body) AddPositionCorrection(delta rl.Vector2) {
	b.correction = rl.Vector2Add(b.correction, delta)
}

// TakePositionCorrection returns and clears the queued translation.
func (b *Body) TakePositionCorrection() rl.Vector2 {
	c := b.correction
	b.correction = rl.Vector2{}
	return c
}

// PolygonCentroid returns the area centroid of a convex polygon. A polygon
// with no area gives the vertex average.
func PolygonCentroid(verts []rl.Vector2) rl.Vector2 {
	if len(verts) == 0 {
		return rl.Vector2{}
	}

	var area float32
	var sum rl.Vector2
	origin := verts[0]
	for k := 1; k+1 < len(verts); k++ {
		e1 := rl.Vector2Subtract(verts[k], origin)
		e2 := rl.Vector2Subtract(verts[k+1], origin)
		triArea := 0.5 * cross(e1, e2)
		area += triArea
		sum = rl.Vector2Add(sum, rl.Vector2Scale(rl.Vector2Add(e1, e2), triArea/3))
	}

	if area == 0 {
		var avg rl.Vector2
		for _, v := range verts {
			avg = rl.Vector2Add(avg, v)
		}
		return rl.Vector2Scale(avg, 1/float32(len(verts)))
	}
	return rl.Vector2Add(origin, rl.Vector2Scale(sum, 1/area))
}

// PolygonMass computes mass and rotational inertia about the centroid for a
// uniform-density polygon.
func PolygonMass(verts []rl.Vector2, density float32) (mass, inertia float32) {
	if len(verts) < 3 || density <= 0 {
		return 0, 0
	}

	var area, i float32
	var centroid rl.Vector2
	origin := verts[0]
	for k := 1; k+1 < len(verts); k++ {
		e1 := rl.Vector2Subtract(verts[k], origin)
		e2 := rl.Vector2Subtract(verts[k+1], origin)
		d := cross(e1, e2)
		triArea := 0.5 * d
		area += triArea
		centroid = rl.Vector2Add(centroid, rl.Vector2Scale(rl.Vector2Add(e1, e2), triArea/3))

		intx2 := e1.X*e1.X + e2.X*e1.X + e2.X*e2.X
		inty2 := e1.Y*e1.Y + e2.Y*e1.Y + e2.Y*e2.Y
		i += (0.25 / 3 * d) * (intx2 + inty2)
	}

	if area == 0 {
		return 0, 0
	}
	centroid = rl.Vector2Scale(centroid, 1/area)
	mass = density * math32.Abs(area)
	i = math32.Abs(i)

	// inertia above is about verts[0]; shift it to the centroid
	inertia = density*i - mass*rl.Vector2DotProduct(centroid, centroid)
	return mass, inertia
}
