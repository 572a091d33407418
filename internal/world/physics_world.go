package world

import (
	"log"
	"time"

	"sprite2d/internal/components"
	"sprite2d/internal/compute"
	"sprite2d/internal/engine"
	"sprite2d/internal/physics"
	"sprite2d/internal/sector"

	"github.com/chewxy/math32"
	rl "github.com/gen2brain/raylib-go/raylib"
	"github.com/pkg/errors"
)

// MaxPhysicsObjects is the maximum objects the GPU broad-phase can handle.
const MaxPhysicsObjects = 50000

// Settings are the world-level simulation parameters stored in the scene file.
type Settings struct {
	Gravity     [2]float32 `json:"gravity"`
	FixedStep   float32    `json:"fixedStep"`
	MaxSubsteps int        `json:"maxSubsteps"`
	CellSize    float32    `json:"cellSize"`
	// GPUThreshold is the object count at which the GPU broad-phase takes
	// over. Below it the CPU grid is faster.
	GPUThreshold int `json:"gpuThreshold"`
}

func DefaultSettings() Settings {
	return Settings{
		Gravity:      [2]float32{0, 20},
		FixedStep:    1.0 / 60,
		MaxSubsteps:  5,
		CellSize:     4,
		GPUThreshold: 750,
	}
}

func (s Settings) Validate() error {
	switch {
	case s.FixedStep <= 0:
		return errors.Errorf("fixed step %v must be positive", s.FixedStep)
	case s.MaxSubsteps < 1:
		return errors.Errorf("max substeps %d must be at least 1", s.MaxSubsteps)
	case s.CellSize <= 0:
		return errors.Errorf("cell size %v must be positive", s.CellSize)
	}
	return nil
}

func (s Settings) GravityVector() rl.Vector2 {
	return rl.Vector2{X: s.Gravity[0], Y: s.Gravity[1]}
}

// collisionPair is ordered by UID so (a, b) and (b, a) share a key.
type collisionPair struct {
	A, B *engine.GameObject
}

func makePair(a, b *engine.GameObject) collisionPair {
	if a.UID > b.UID {
		return collisionPair{A: b, B: a}
	}
	return collisionPair{A: a, B: b}
}

// Contact is one resolved pair from the last step, in world coordinates.
type Contact struct {
	A, B        *engine.GameObject
	Points      [2]sector.Point
	Count       int
	Normal      rl.Vector2
	Penetration float32
	Speed       float32 // closing speed along Normal before resolution
}

// PhysicsWorld steps every registered collision sprite. Geometry is resolved
// in a frame centered on Focus so coordinates stay small wherever the action is.
type PhysicsWorld struct {
	Settings    Settings
	Focus       sector.Point
	FocusTarget engine.GameObjectRef
	Resolver    *physics.Resolver

	// Scene resolves FocusTarget; nil disables focus tracking
	Scene *engine.Scene

	// OnImpact fires once per pair that started touching during a step,
	// after the objects' own OnCollisionEnter callbacks.
	OnImpact engine.EventWithArg[Contact]

	sprites []*components.CollisionSprite // insertion order
	index   map[*components.CollisionSprite]bool

	accumulator float32
	ratio       float32

	// Collision tracking for callbacks
	activeCollisions  map[collisionPair]bool
	currentCollisions map[collisionPair]bool
	contacts          []Contact

	grid    *spatialGrid
	active  []*components.CollisionSprite
	bounded []bounded

	// GPU broad-phase (nil if compute unavailable)
	gpuBroadPhase   *compute.BroadPhase
	useGPU          bool
	circles         []compute.Circle
	lastLoggedCount int
	lastLogTime     time.Time
	lastErrorLog    time.Time
}

func NewPhysicsWorld(settings Settings, cfg physics.Config) *PhysicsWorld {
	return &PhysicsWorld{
		Settings:          settings,
		Resolver:          physics.NewResolver(cfg),
		index:             make(map[*components.CollisionSprite]bool),
		activeCollisions:  make(map[collisionPair]bool),
		currentCollisions: make(map[collisionPair]bool),
		grid:              newSpatialGrid(settings.CellSize),
	}
}

// InitGPU sets up the GPU broad-phase. Call after compute.Initialize.
func (p *PhysicsWorld) InitGPU() {
	if p.gpuBroadPhase != nil {
		return
	}
	bp, err := compute.NewBroadPhase(MaxPhysicsObjects, MaxPhysicsObjects*20)
	if err != nil {
		log.Printf("Physics: GPU broad-phase unavailable: %v", err)
		return
	}
	if bp != nil {
		p.gpuBroadPhase = bp
		log.Printf("Physics: GPU broad-phase ready (threshold: %d objects)", p.Settings.GPUThreshold)
	}
}

// Release frees GPU resources
func (p *PhysicsWorld) Release() {
	if p.gpuBroadPhase != nil {
		p.gpuBroadPhase.Release()
		p.gpuBroadPhase = nil
	}
}

// UsingGPU returns true if the last step used the GPU broad-phase
func (p *PhysicsWorld) UsingGPU() bool {
	return p.useGPU
}

// AddObject registers g's collision sprite, building it if needed. Objects
// without one are ignored.
func (p *PhysicsWorld) AddObject(g *engine.GameObject) {
	cs := engine.GetComponent[*components.CollisionSprite](g)
	if cs == nil || p.index[cs] {
		return
	}
	if !cs.Built() {
		if err := cs.Build(); err != nil {
			log.Printf("Physics: %s not added: %v", g.Name, err)
			return
		}
	}
	cs.Sync(p.Focus)
	p.index[cs] = true
	p.sprites = append(p.sprites, cs)
}

// RemoveObject unregisters g and forgets its active collisions.
func (p *PhysicsWorld) RemoveObject(g *engine.GameObject) {
	cs := engine.GetComponent[*components.CollisionSprite](g)
	if cs == nil || !p.index[cs] {
		return
	}
	delete(p.index, cs)
	for i, s := range p.sprites {
		if s == cs {
			p.sprites = append(p.sprites[:i], p.sprites[i+1:]...)
			break
		}
	}
	for pair := range p.activeCollisions {
		if pair.A == g || pair.B == g {
			delete(p.activeCollisions, pair)
		}
	}
}

func (p *PhysicsWorld) ObjectCount() int {
	return len(p.sprites)
}

// DynamicObjectCount counts sprites with a finite mass.
func (p *PhysicsWorld) DynamicObjectCount() int {
	n := 0
	for _, cs := range p.sprites {
		if !cs.Body().IsStatic() {
			n++
		}
	}
	return n
}

// Contacts returns the pairs resolved in the last step. The slice is reused
// by the next step.
func (p *PhysicsWorld) Contacts() []Contact {
	return p.contacts
}

// TimeRatio is how far the leftover time reaches into the next fixed step,
// for blending render poses.
func (p *PhysicsWorld) TimeRatio() float32 {
	return p.ratio
}

// Update advances the simulation by deltaTime in fixed steps and returns the
// number of steps taken. Time beyond MaxSubsteps steps is dropped.
func (p *PhysicsWorld) Update(deltaTime float32) int {
	h := p.Settings.FixedStep
	p.accumulator += deltaTime

	steps := 0
	for p.accumulator >= h && steps < p.Settings.MaxSubsteps {
		p.Step(h)
		p.accumulator -= h
		steps++
	}
	if p.accumulator >= h {
		// too far behind to catch up
		p.accumulator = math32.Mod(p.accumulator, h)
	}
	p.ratio = p.accumulator / h
	return steps
}

// Step runs one fixed step of length h.
func (p *PhysicsWorld) Step(h float32) {
	p.updateFocus()
	p.collectActive()

	// 1. Integrate
	gravity := p.Settings.GravityVector()
	for _, cs := range p.active {
		cs.SavePreStep()
		cs.Integrate(gravity, h)
	}

	// 2. Move geometry into the resolution frame
	for _, cs := range p.active {
		cs.Sync(p.Focus)
	}

	// 3. Broad phase, then narrow phase per pair in insertion order
	clear(p.currentCollisions)
	p.contacts = p.contacts[:0]
	p.broadPhase(func(i, j int) {
		p.resolvePair(p.active[i], p.active[j])
	})

	// 4. Apply the position corrections queued by the pair loop
	for _, cs := range p.active {
		cs.ApplyCorrection()
		cs.Sync(p.Focus)
		cs.SavePostStep()
		cs.TrySleep(h)
	}

	// 5. Dispatch collision callbacks
	p.dispatchCollisionCallbacks()
}

func (p *PhysicsWorld) updateFocus() {
	if target := p.FocusTarget.Resolve(p.Scene); target != nil {
		p.Focus = target.WorldPosition()
	}
}

func (p *PhysicsWorld) collectActive() {
	p.active = p.active[:0]
	for _, cs := range p.sprites {
		if cs.Active() {
			p.active = append(p.active, cs)
		}
	}
}

func (p *PhysicsWorld) broadPhase(visit func(i, j int)) {
	wasUsingGPU := p.useGPU
	p.useGPU = p.gpuBroadPhase != nil && len(p.active) >= p.Settings.GPUThreshold

	if p.useGPU && !wasUsingGPU {
		log.Printf("Physics: GPU broad-phase ON (%d objects)", len(p.active))
	} else if !p.useGPU && wasUsingGPU {
		log.Printf("Physics: GPU broad-phase OFF (%d objects)", len(p.active))
	} else if n := len(p.active); n%100 == 0 && n > 0 && n != p.lastLoggedCount {
		p.lastLoggedCount = n
		mode := "CPU"
		if p.useGPU {
			mode = "GPU"
		}
		log.Printf("Physics: %d objects (%s)", n, mode)
	}

	if p.useGPU {
		if err := p.gpuPairs(visit); err == nil {
			return
		} else if time.Since(p.lastLogTime) >= time.Second {
			p.lastLogTime = time.Now()
			log.Printf("Physics: GPU broad-phase failed, using grid: %v", err)
		}
	}

	p.bounded = p.bounded[:0]
	for _, cs := range p.active {
		p.bounded = append(p.bounded, cs)
	}
	p.grid.size = p.Settings.CellSize
	p.grid.rebuild(p.bounded)
	p.grid.pairs(visit)
}

func (p *PhysicsWorld) gpuPairs(visit func(i, j int)) error {
	p.circles = p.circles[:0]
	for _, cs := range p.active {
		pos := cs.Pos()
		p.circles = append(p.circles, compute.Circle{X: pos.X, Y: pos.Y, Radius: cs.Radius()})
	}
	pairs, err := p.gpuBroadPhase.DetectPairs(p.circles)
	if err != nil {
		return err
	}
	for _, pair := range pairs {
		if int(pair.B) < len(p.active) {
			visit(int(pair.A), int(pair.B))
		}
	}
	return nil
}

func (p *PhysicsWorld) resolvePair(a, b *components.CollisionSprite) {
	if a.IsSleeping && b.IsSleeping {
		return
	}

	m, ok, err := p.Resolver.DetectAndBuildManifold(a, b)
	if err != nil {
		if time.Since(p.lastErrorLog) >= time.Second {
			p.lastErrorLog = time.Now()
			log.Printf("Physics: skipped %s/%s: %v", a.GetGameObject().Name, b.GetGameObject().Name, err)
		}
		return
	}
	if !ok {
		return
	}

	ga, gb := a.GetGameObject(), b.GetGameObject()
	c := Contact{A: ga, B: gb, Count: m.ContactCount, Normal: m.Normal, Penetration: m.Penetration}
	if m.Ref != physics.Sprite(a) {
		// normal points from the reference sprite; report it from A to B
		c.Normal = rl.Vector2Negate(c.Normal)
	}
	for i := 0; i < m.ContactCount; i++ {
		c.Points[i] = p.Focus.Add(m.Contacts[i])
	}
	rv := rl.Vector2Subtract(b.Velocity(), a.Velocity())
	c.Speed = math32.Max(0, -rl.Vector2DotProduct(rv, c.Normal))

	p.wakeOnImpact(a, b)
	p.Resolver.Resolve(&m)
	keepAsleep(a)
	keepAsleep(b)

	p.currentCollisions[makePair(ga, gb)] = true
	p.contacts = append(p.contacts, c)
}

// wakeOnImpact wakes a sleeping sprite only when it is hit hard enough, so
// micro-contacts do not wake settled stacks.
func (p *PhysicsWorld) wakeOnImpact(a, b *components.CollisionSprite) {
	if !a.IsSleeping && !b.IsSleeping {
		return
	}
	relSpeed := rl.Vector2Length(rl.Vector2Subtract(a.Velocity(), b.Velocity()))
	if relSpeed > components.SleepVelocityThreshold*2 {
		a.Wake()
		b.Wake()
	}
}

// keepAsleep drops the small impulses a sleeping sprite picks up from resting
// contacts. A hard enough hit wakes it instead.
func keepAsleep(cs *components.CollisionSprite) {
	if !cs.IsSleeping {
		return
	}
	if cs.VelocityMag() > components.SleepVelocityThreshold*2 {
		cs.Wake()
		return
	}
	body := cs.Body()
	body.Velocity = rl.Vector2{}
	body.AngularVelocity = 0
}

// dispatchCollisionCallbacks sends OnCollisionEnter/Exit to handlers
func (p *PhysicsWorld) dispatchCollisionCallbacks() {
	for _, c := range p.contacts {
		pair := makePair(c.A, c.B)
		if p.activeCollisions[pair] {
			continue
		}
		// mark it so a pair reported twice only enters once
		p.activeCollisions[pair] = true
		notifyCollisionEnter(pair.A, pair.B)
		notifyCollisionEnter(pair.B, pair.A)
		p.OnImpact.Invoke(c)
	}
	for pair := range p.activeCollisions {
		if !p.currentCollisions[pair] {
			notifyCollisionExit(pair.A, pair.B)
			notifyCollisionExit(pair.B, pair.A)
		}
	}
	p.activeCollisions, p.currentCollisions = p.currentCollisions, p.activeCollisions
}

func notifyCollisionEnter(obj, other *engine.GameObject) {
	for _, comp := range obj.Components() {
		if handler, ok := comp.(engine.CollisionHandler); ok {
			handler.OnCollisionEnter(other)
		}
	}
}

func notifyCollisionExit(obj, other *engine.GameObject) {
	for _, comp := range obj.Components() {
		if handler, ok := comp.(engine.CollisionHandler); ok {
			handler.OnCollisionExit(other)
		}
	}
}

// ApplyPointImpulse pushes every sprite within radius of point away from it
// and returns how many were hit. Hit sprites wake up.
func (p *PhysicsWorld) ApplyPointImpulse(point sector.Point, radius, force float32, diminishing bool) int {
	local := point.Sub(p.Focus)
	hit := 0
	for _, cs := range p.sprites {
		if !cs.Active() {
			continue
		}
		cs.Sync(p.Focus)
		if p.Resolver.ApplyPointImpulse(local, radius, force, cs, diminishing) {
			cs.Wake()
			hit++
		}
	}
	return hit
}

// Raycast returns the nearest sprite hit by the ray. direction need not be
// normalized.
func (p *PhysicsWorld) Raycast(origin sector.Point, direction rl.Vector2, maxDistance float32) (engine.RaycastResult, bool) {
	if rl.Vector2LengthSqr(direction) == 0 {
		return engine.RaycastResult{}, false
	}
	dir := rl.Vector2Normalize(direction)
	local := origin.Sub(p.Focus)

	var best engine.RaycastResult
	found := false
	for _, cs := range p.sprites {
		if !cs.Active() {
			continue
		}
		cs.Sync(p.Focus)
		hit, ok := cs.Polygon().Raycast(local, dir, maxDistance)
		if !ok || (found && hit.Distance >= best.Distance) {
			continue
		}
		found = true
		best = engine.RaycastResult{
			GameObject: cs.GetGameObject(),
			Point:      p.Focus.Add(hit.Point),
			Normal:     hit.Normal,
			Distance:   hit.Distance,
		}
	}
	return best, found
}

// QueryPoint returns the most recently added sprite containing point, or nil.
func (p *PhysicsWorld) QueryPoint(point sector.Point) *engine.GameObject {
	for i := len(p.sprites) - 1; i >= 0; i-- {
		cs := p.sprites[i]
		if !cs.Active() {
			continue
		}
		cs.Sync(p.Focus)
		if cs.IsPointInSprite(point) {
			return cs.GetGameObject()
		}
	}
	return nil
}

// Sprites returns the registered sprites in insertion order. Callers must not
// modify the slice.
func (p *PhysicsWorld) Sprites() []*components.CollisionSprite {
	return p.sprites
}
