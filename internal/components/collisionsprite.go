package components

import (
	"log"

	"sprite2d/internal/engine"
	"sprite2d/internal/physics"
	"sprite2d/internal/sector"

	"github.com/chewxy/math32"
	rl "github.com/gen2brain/raylib-go/raylib"
	"github.com/pkg/errors"
)

func init() {
	engine.RegisterComponent("CollisionSprite", func() engine.Serializable {
		return NewCollisionSprite(RectShape(1, 1))
	})
}

// Sleep thresholds
const (
	SleepVelocityThreshold = 0.3 // units/sec - below this, object might sleep
	SleepAngularThreshold  = 0.1 // rad/sec
	SleepTimeThreshold     = 0.5 // seconds of low velocity before sleeping
)

// CollisionSprite gives its GameObject a convex collision polygon and a body.
// It implements physics.Sprite: Pos and the polygon are expressed relative to
// the focus passed to the last Sync.
type CollisionSprite struct {
	engine.BaseComponent
	Shape          ShapeDef
	Density        float32
	Restitution    float32 // 0 = no bounce, 1 = perfect bounce
	LinearDamping  float32 // fraction of velocity lost per second
	AngularDamping float32
	FixedRotation  bool
	Static         bool
	UseGravity     bool

	// Sleep state - sleeping sprites skip integration
	IsSleeping bool
	CanSleep   bool
	sleepTimer float32

	OnSleep engine.Event
	OnWake  engine.Event

	body       *physics.Body
	poly       *physics.Polygon
	builtScale rl.Vector2
	centroid   rl.Vector2 // centre of mass in the owner's model space
	focus      sector.Point
	pos        rl.Vector2

	prevPos, currPos sector.Point
	prevRot, currRot float32
}

func NewCollisionSprite(shape ShapeDef) *CollisionSprite {
	return &CollisionSprite{
		Shape:          shape,
		Density:        1,
		Restitution:    0.2,
		LinearDamping:  0.05,
		AngularDamping: 0.1,
		UseGravity:     true,
		CanSleep:       true,
	}
}

func (c *CollisionSprite) Start() {
	if err := c.Build(); err != nil {
		log.Printf("CollisionSprite: %s: %v", c.GetGameObject().Name, err)
	}
}

// Build creates the polygon at the owner's current world scale and derives
// mass data from it. Velocities survive a rebuild.
func (c *CollisionSprite) Build() error {
	g := c.GetGameObject()
	if g == nil {
		return errors.New("collision sprite is not attached")
	}

	scale := g.WorldScale()
	poly, centroid, err := c.Shape.Build(scale)
	if err != nil {
		return err
	}

	var vel rl.Vector2
	var angVel float32
	if c.body != nil {
		vel, angVel = c.body.Velocity, c.body.AngularVelocity
	}

	if c.Static {
		c.body = physics.NewStaticBody(c.Restitution)
	} else {
		mass, inertia := physics.PolygonMass(poly.ModelVerts(), c.Density)
		if mass == 0 {
			return errors.Errorf("density %v gives no mass", c.Density)
		}
		c.body = physics.NewBody(mass, inertia, c.Restitution)
		c.body.SetFixedRotation(c.FixedRotation)
		c.body.Velocity = vel
		if !c.FixedRotation {
			c.body.AngularVelocity = angVel
		}
	}

	c.poly = poly
	c.centroid = centroid
	c.builtScale = scale
	c.currPos = c.CenterOfMass()
	c.currRot = g.WorldRotation()
	c.prevPos, c.prevRot = c.currPos, c.currRot
	c.Sync(c.focus)
	return nil
}

// OnDestroy drops sleep listeners so they do not outlive the sprite.
func (c *CollisionSprite) OnDestroy() {
	c.OnSleep.RemoveAllListeners()
	c.OnWake.RemoveAllListeners()
}

// Built reports whether the sprite has geometry to collide with.
func (c *CollisionSprite) Built() bool {
	return c.poly != nil
}

// Active sprites take part in collision.
func (c *CollisionSprite) Active() bool {
	g := c.GetGameObject()
	return g != nil && g.Active && c.poly != nil
}

// --- physics.Sprite ---

// Pos is the centre of mass relative to the focus at the last Sync.
func (c *CollisionSprite) Pos() rl.Vector2 { return c.pos }

// CenterOfMass returns the world position of the centre of mass. It differs
// from the owner's position when the shape is not centred on its origin.
func (c *CollisionSprite) CenterOfMass() sector.Point {
	g := c.GetGameObject()
	return g.WorldPosition().Add(c.centroidOffset(g.WorldRotation()))
}

// centroidOffset is the owner-to-centroid vector at rotation deg.
func (c *CollisionSprite) centroidOffset(deg float32) rl.Vector2 {
	if c.centroid.X == 0 && c.centroid.Y == 0 {
		return rl.Vector2{}
	}
	return rl.Vector2Rotate(c.centroid, deg*rl.Deg2rad)
}

func (c *CollisionSprite) Radius() float32 { return c.poly.Radius() }

func (c *CollisionSprite) Polygon() *physics.Polygon { return c.poly }

func (c *CollisionSprite) Body() *physics.Body { return c.body }

// Sync moves the polygon into the frame centered on focus. A rescaled owner
// rebuilds the polygon and its mass data first.
func (c *CollisionSprite) Sync(focus sector.Point) {
	g := c.GetGameObject()
	if g == nil || c.poly == nil {
		return
	}

	c.focus = focus
	if g.Dirty()&engine.Scaled != 0 && g.WorldScale() != c.builtScale {
		// Build syncs again once the new polygon is in place
		if err := c.Build(); err != nil {
			log.Printf("CollisionSprite: rescale %s: %v", g.Name, err)
			g.ClearDirty()
		}
		return
	}

	c.pos = c.CenterOfMass().Sub(focus)
	c.poly.Transform(c.pos, g.WorldRotation()*rl.Deg2rad, rl.Vector2{X: 1, Y: 1})
	g.ClearDirty()
}

// Integrate advances the body by its velocity over dt, turning it about the
// centre of mass, and moves the owner to match.
func (c *CollisionSprite) Integrate(gravity rl.Vector2, dt float32) {
	if c.Static || c.IsSleeping || c.body == nil {
		return
	}
	g := c.GetGameObject()

	if c.UseGravity {
		c.body.ApplyAcceleration(gravity, dt)
	}
	c.body.Damp(c.LinearDamping, c.AngularDamping, dt)

	delta := rl.Vector2Scale(c.body.Velocity, dt)
	if c.body.AngularVelocity != 0 {
		before := c.centroidOffset(g.WorldRotation())
		g.SetRotation(g.Transform.Rotation + c.body.AngularVelocity*dt*rl.Rad2deg)
		// keep the centre of mass where the velocity puts it
		after := c.centroidOffset(g.WorldRotation())
		delta = rl.Vector2Add(delta, rl.Vector2Subtract(before, after))
	}
	g.TranslateWorld(delta)
}

// ApplyCorrection moves the owner by the body's queued position correction.
func (c *CollisionSprite) ApplyCorrection() {
	if c.body == nil {
		return
	}
	if delta := c.body.TakePositionCorrection(); delta.X != 0 || delta.Y != 0 {
		c.GetGameObject().TranslateWorld(delta)
	}
}

// --- Interpolation ---

// SavePreStep records the pose before a fixed step.
func (c *CollisionSprite) SavePreStep() {
	c.prevPos, c.prevRot = c.currPos, c.currRot
}

// SavePostStep records the pose after a fixed step.
func (c *CollisionSprite) SavePostStep() {
	g := c.GetGameObject()
	c.currPos = c.CenterOfMass()
	c.currRot = g.WorldRotation()
}

// InterpPos blends the centre of mass between the last two step poses;
// ratio 1 is the latest.
func (c *CollisionSprite) InterpPos(ratio float32) sector.Point {
	return sector.Lerp(c.prevPos, c.currPos, ratio)
}

// InterpRot blends rotation in degrees along the shorter arc.
func (c *CollisionSprite) InterpRot(ratio float32) float32 {
	d := c.currRot - c.prevRot
	if d > 180 {
		d -= 360
	} else if d < -180 {
		d += 360
	}
	return c.prevRot + d*ratio
}

// --- Queries and mutation ---

// IsPointInSprite tests a world point against the polygon from the last Sync.
func (c *CollisionSprite) IsPointInSprite(p sector.Point) bool {
	if c.poly == nil {
		return false
	}
	return c.poly.Contains(p.Sub(c.focus))
}

func (c *CollisionSprite) ApplyAcceleration(accel rl.Vector2, dt float32) {
	if c.body == nil || c.Static {
		return
	}
	c.Wake()
	c.body.ApplyAcceleration(accel, dt)
}

func (c *CollisionSprite) Velocity() rl.Vector2 {
	if c.body == nil {
		return rl.Vector2{}
	}
	return c.body.Velocity
}

func (c *CollisionSprite) SetVelocity(v rl.Vector2) {
	if c.body == nil || c.Static {
		return
	}
	c.Wake()
	c.body.Velocity = v
}

func (c *CollisionSprite) VelocityMag() float32 {
	if c.body == nil {
		return 0
	}
	return c.body.Speed()
}

// Wake forces the sprite out of sleep state
func (c *CollisionSprite) Wake() {
	c.sleepTimer = 0
	if c.IsSleeping {
		c.IsSleeping = false
		c.OnWake.Invoke()
	}
}

// TrySleep puts the sprite to sleep after it has been nearly still for
// SleepTimeThreshold seconds.
func (c *CollisionSprite) TrySleep(deltaTime float32) {
	if !c.CanSleep || c.IsSleeping || c.Static || c.body == nil {
		return
	}

	if c.body.Speed() < SleepVelocityThreshold && math32.Abs(c.body.AngularVelocity) < SleepAngularThreshold {
		c.sleepTimer += deltaTime
		if c.sleepTimer >= SleepTimeThreshold {
			c.IsSleeping = true
			c.body.Velocity = rl.Vector2{}
			c.body.AngularVelocity = 0
			c.OnSleep.Invoke()
		}
	} else {
		c.sleepTimer = 0
	}
}

// --- Serialization ---

// TypeName implements engine.Serializable
func (c *CollisionSprite) TypeName() string {
	return "CollisionSprite"
}

// Serialize implements engine.Serializable
func (c *CollisionSprite) Serialize() map[string]any {
	return map[string]any{
		"type":           "CollisionSprite",
		"shape":          c.Shape,
		"density":        c.Density,
		"restitution":    c.Restitution,
		"linearDamping":  c.LinearDamping,
		"angularDamping": c.AngularDamping,
		"fixedRotation":  c.FixedRotation,
		"static":         c.Static,
		"useGravity":     c.UseGravity,
		"canSleep":       c.CanSleep,
	}
}

// Deserialize implements engine.Serializable
func (c *CollisionSprite) Deserialize(data map[string]any) error {
	if raw, ok := data["shape"]; ok {
		shape, err := decodeShape(raw)
		if err != nil {
			return err
		}
		c.Shape = shape
	}
	c.Density = engine.PropFloat(data, "density", c.Density)
	c.Restitution = engine.PropFloat(data, "restitution", c.Restitution)
	c.LinearDamping = engine.PropFloat(data, "linearDamping", c.LinearDamping)
	c.AngularDamping = engine.PropFloat(data, "angularDamping", c.AngularDamping)
	c.FixedRotation = engine.PropBool(data, "fixedRotation", c.FixedRotation)
	c.Static = engine.PropBool(data, "static", c.Static)
	c.UseGravity = engine.PropBool(data, "useGravity", c.UseGravity)
	c.CanSleep = engine.PropBool(data, "canSleep", c.CanSleep)

	if !c.Static && c.Density <= 0 {
		return errors.Errorf("density %v must be positive", c.Density)
	}
	return nil
}
