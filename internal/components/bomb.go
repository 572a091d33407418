package components

import (
	"log"

	"sprite2d/internal/engine"
)

// Bomb detonates after Fuse seconds, or on its first contact when OnImpact is
// set, pushing every sprite in Radius away and removing itself.
type Bomb struct {
	engine.BaseComponent
	Fuse        float32
	Radius      float32
	Force       float32
	Diminishing bool
	OnImpact    bool

	OnDetonate engine.EventWithArg[int]

	elapsed   float32
	detonated bool
}

func (b *Bomb) Update(deltaTime float32) {
	if b.detonated {
		return
	}
	b.elapsed += deltaTime
	if b.Fuse > 0 && b.elapsed >= b.Fuse {
		b.Detonate()
	}
}

func (b *Bomb) OnCollisionEnter(other *engine.GameObject) {
	if b.OnImpact && !b.detonated {
		b.Detonate()
	}
}

func (b *Bomb) OnCollisionExit(other *engine.GameObject) {}

// Detonate applies the blast once. It needs the owner to be in a scene
// attached to a world.
func (b *Bomb) Detonate() {
	g := b.GetGameObject()
	if b.detonated || g == nil || g.Scene == nil || g.Scene.World == nil {
		return
	}
	b.detonated = true

	hit := g.Scene.World.ApplyPointImpulse(g.WorldPosition(), b.Radius, b.Force, b.Diminishing)
	log.Printf("Bomb: %s hit %d sprites", g.Name, hit)
	b.OnDetonate.Invoke(hit)
	g.Scene.World.Destroy(g)
}

func (b *Bomb) Detonated() bool {
	return b.detonated
}

// OnDestroy defuses a bomb removed before it went off.
func (b *Bomb) OnDestroy() {
	b.detonated = true
	b.OnDetonate.RemoveAllListeners()
}
