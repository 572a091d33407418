package physics

import (
	"github.com/chewxy/math32"
	rl "github.com/gen2brain/raylib-go/raylib"
)

// Manifold describes one contact between a reference and an incident sprite.
// It is rebuilt for every candidate pair every step and must not outlive the
// polygons it indexes into.
type Manifold struct {
	Ref Sprite
	Inc Sprite

	// Edge indices into Ref.Polygon() and Inc.Polygon()
	RefEdge int
	IncEdge int

	// Penetration is a signed separation while searching for the reference
	// axis and the overlap depth once contacts are built.
	Penetration float32
	// Normal points from Ref toward Inc.
	Normal rl.Vector2

	Contacts     [2]rl.Vector2
	ContactCount int
}

// Colliding reports whether the manifold holds at least one contact.
func (m *Manifold) Colliding() bool {
	return m.ContactCount > 0
}

// FindIncidentEdge picks the incident polygon's edge most anti-parallel to the
// reference normal. The first minimum wins.
func (m *Manifold) FindIncidentEdge() {
	refNormal := m.Ref.Polygon().Edge(m.RefEdge).Normal
	inc := m.Inc.Polygon()

	minDot := float32(math32.MaxFloat32)
	for i := 0; i < inc.EdgeCount(); i++ {
		if d := rl.Vector2DotProduct(refNormal, inc.Edge(i).Normal); d < minDot {
			minDot = d
			m.IncEdge = i
		}
	}
}

// ApplyImpulse resolves each contact in order. It returns false as soon as a
// contact is already separating; impulses applied to earlier contacts stand.
func (m *Manifold) ApplyImpulse() bool {
	a := m.Ref.Body()
	b := m.Inc.Body()
	posA := m.Ref.Pos()
	posB := m.Inc.Pos()

	e := math32.Min(a.Restitution(), b.Restitution())

	for i := 0; i < m.ContactCount; i++ {
		ra := rl.Vector2Subtract(m.Contacts[i], posA)
		rb := rl.Vector2Subtract(m.Contacts[i], posB)

		rv := rl.Vector2Subtract(
			rl.Vector2Add(b.Velocity, crossSV(b.AngularVelocity, rb)),
			rl.Vector2Add(a.Velocity, crossSV(a.AngularVelocity, ra)),
		)

		contactVel := rl.Vector2DotProduct(rv, m.Normal)
		if contactVel >= 0 {
			return false
		}

		raCrossN := cross(ra, m.Normal)
		rbCrossN := cross(rb, m.Normal)
		invMassSum := a.InvMass() + b.InvMass() +
			raCrossN*raCrossN*a.InvInertia() +
			rbCrossN*rbCrossN*b.InvInertia()
		if invMassSum == 0 {
			return false
		}

		j := -(1 + e) * contactVel / invMassSum
		impulse := rl.Vector2Scale(m.Normal, j)

		a.ApplyImpulse(rl.Vector2Negate(impulse), ra)
		b.ApplyImpulse(impulse, rb)
	}
	return true
}

// PositionalCorrection queues a push along the normal that removes a fraction
// of the overlap beyond the slop.
func (m *Manifold) PositionalCorrection(cfg Config) {
	a := m.Ref.Body()
	b := m.Inc.Body()

	invMassSum := a.InvMass() + b.InvMass()
	if invMassSum == 0 {
		return
	}

	depth := math32.Max(m.Penetration-cfg.Slop, 0)
	correction := rl.Vector2Scale(m.Normal, cfg.Percent*depth/invMassSum)

	a.AddPositionCorrection(rl.Vector2Scale(correction, -a.InvMass()))
	b.AddPositionCorrection(rl.Vector2Scale(correction, b.InvMass()))
}
