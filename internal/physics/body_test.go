package physics

import (
	"testing"

	rl "github.com/gen2brain/raylib-go/raylib"
)

func TestNewBodyInverseValues(t *testing.T) {
	b := NewBody(4, 2, 0.5)

	if b.InvMass() != 0.25 {
		t.Errorf("Expected inverse mass 0.25, got %f", b.InvMass())
	}
	if b.InvInertia() != 0.5 {
		t.Errorf("Expected inverse inertia 0.5, got %f", b.InvInertia())
	}
	if b.IsStatic() {
		t.Error("Body with mass should not be static")
	}
}

func TestStaticBody(t *testing.T) {
	b := NewStaticBody(0.3)

	if !b.IsStatic() || b.InvMass() != 0 || b.InvInertia() != 0 {
		t.Error("Static body should have zero inverse mass and inertia")
	}

	b.ApplyImpulse(rl.Vector2{X: 100, Y: -50}, rl.Vector2{X: 1, Y: 1})
	if b.Velocity.X != 0 || b.Velocity.Y != 0 || b.AngularVelocity != 0 {
		t.Error("Static body should ignore impulses")
	}

	b.ApplyAcceleration(rl.Vector2{X: 0, Y: 10}, 1)
	if b.Velocity.Y != 0 {
		t.Error("Static body should ignore acceleration")
	}
}

func TestRestitutionClamped(t *testing.T) {
	if r := NewBody(1, 1, 1.5).Restitution(); r != 1 {
		t.Errorf("Expected 1, got %f", r)
	}
	if r := NewBody(1, 1, -0.5).Restitution(); r != 0 {
		t.Errorf("Expected 0, got %f", r)
	}
}

func TestApplyImpulseSpin(t *testing.T) {
	b := NewBody(2, 1, 0)

	// push +Y at an arm of +X spins counter-clockwise
	b.ApplyImpulse(rl.Vector2{X: 0, Y: 4}, rl.Vector2{X: 1, Y: 0})

	if b.Velocity.Y != 2 {
		t.Errorf("Expected velocity Y 2, got %f", b.Velocity.Y)
	}
	if b.AngularVelocity != 4 {
		t.Errorf("Expected angular velocity 4, got %f", b.AngularVelocity)
	}
}

func TestFixedRotation(t *testing.T) {
	b := NewBody(1, 2, 0)
	b.AngularVelocity = 3
	b.SetFixedRotation(true)

	if b.AngularVelocity != 0 || b.InvInertia() != 0 {
		t.Error("Fixed rotation should clear spin and inverse inertia")
	}
	if !b.FixedRotation() {
		t.Error("FixedRotation should report true")
	}

	b.ApplyImpulse(rl.Vector2{X: 0, Y: 1}, rl.Vector2{X: 1, Y: 0})
	if b.AngularVelocity != 0 {
		t.Errorf("Expected no spin, got %f", b.AngularVelocity)
	}

	b.SetFixedRotation(false)
	if b.InvInertia() != 0.5 {
		t.Errorf("Expected inverse inertia restored to 0.5, got %f", b.InvInertia())
	}
}

func TestApplyAccelerationIgnoresMass(t *testing.T) {
	light := NewBody(1, 1, 0)
	heavy := NewBody(50, 1, 0)
	g := rl.Vector2{X: 0, Y: 9.8}

	light.ApplyAcceleration(g, 0.5)
	heavy.ApplyAcceleration(g, 0.5)

	if !approx(light.Velocity.Y, 4.9) || !approx(heavy.Velocity.Y, 4.9) {
		t.Errorf("Expected both at 4.9, got %f and %f", light.Velocity.Y, heavy.Velocity.Y)
	}
}

func TestPositionCorrectionAccumulates(t *testing.T) {
	b := NewBody(1, 1, 0)
	b.AddPositionCorrection(rl.Vector2{X: 1, Y: 0})
	b.AddPositionCorrection(rl.Vector2{X: 0.5, Y: 2})

	c := b.TakePositionCorrection()
	if c.X != 1.5 || c.Y != 2 {
		t.Errorf("Expected (1.5, 2), got (%f, %f)", c.X, c.Y)
	}
	if c := b.TakePositionCorrection(); c.X != 0 || c.Y != 0 {
		t.Error("TakePositionCorrection should clear the pending correction")
	}
}

func TestPolygonMassUnitSquare(t *testing.T) {
	mass, inertia := PolygonMass(squareVerts(1), 1)

	if !approx(mass, 1) {
		t.Errorf("Expected mass 1, got %f", mass)
	}
	if !approx(inertia, 1.0/6.0) {
		t.Errorf("Expected inertia 1/6, got %f", inertia)
	}

	// winding and offset do not matter
	offset := []rl.Vector2{{X: 10, Y: 10}, {X: 10, Y: 11}, {X: 11, Y: 11}, {X: 11, Y: 10}}
	mass, inertia = PolygonMass(offset, 2)
	if !approx(mass, 2) || !approx(inertia, 1.0/3.0) {
		t.Errorf("Expected (2, 1/3), got (%f, %f)", mass, inertia)
	}
}

func TestDamp(t *testing.T) {
	b := NewBody(1, 1, 0)
	b.Velocity = rl.Vector2{X: 10, Y: 0}
	b.AngularVelocity = 2

	b.Damp(0.5, 0.25, 1)
	if !approx(b.Velocity.X, 5) || !approx(b.AngularVelocity, 1.5) {
		t.Errorf("Expected (5, 1.5), got (%f, %f)", b.Velocity.X, b.AngularVelocity)
	}

	b.Damp(10, 10, 1)
	if b.Velocity.X != 0 || b.AngularVelocity != 0 {
		t.Error("Damping should never reverse velocity")
	}
}
