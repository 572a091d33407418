package engine

import (
	"sync/atomic"

	"sprite2d/internal/sector"

	"github.com/chewxy/math32"
	rl "github.com/gen2brain/raylib-go/raylib"
)

// DirtyFlags record which parts of a transform changed since the last ClearDirty.
type DirtyFlags uint8

const (
	Translated DirtyFlags = 1 << iota
	Rotated
	Scaled
)

type Transform struct {
	Position sector.Point
	Rotation float32 // degrees, counter-clockwise
	Scale    rl.Vector2
}

type GameObject struct {
	UID        uint64
	Name       string
	Tags       []string
	Transform  Transform
	Active     bool
	Scene      *Scene
	Parent     *GameObject
	Children   []*GameObject
	components []Component
	started    bool
	dirty      DirtyFlags
}

var lastUID atomic.Uint64

func NewGameObject(name string) *GameObject {
	return &GameObject{
		UID:    lastUID.Add(1),
		Name:   name,
		Active: true,
		Transform: Transform{
			Scale: rl.Vector2{X: 1, Y: 1},
		},
		components: make([]Component, 0),
		Children:   make([]*GameObject, 0),
		dirty:      Translated | Rotated | Scaled,
	}
}

func (g *GameObject) AddComponent(c Component) {
	c.SetGameObject(g)
	g.components = append(g.components, c)
}

// GetComponent returns the first component of type T, or the zero value.
func GetComponent[T Component](g *GameObject) T {
	var zero T
	for _, c := range g.components {
		if typed, ok := c.(T); ok {
			return typed
		}
	}
	return zero
}

func (g *GameObject) Start() {
	if g.started {
		return
	}
	for _, c := range g.components {
		c.Start()
	}
	g.started = true
}

func (g *GameObject) Update(deltaTime float32) {
	if !g.Active {
		return
	}
	for _, c := range g.components {
		c.Update(deltaTime)
	}
}

// NotifyDestroyed calls OnDestroy on every Destroyable component of g and its
// descendants, children first.
func (g *GameObject) NotifyDestroyed() {
	for _, child := range g.Children {
		child.NotifyDestroyed()
	}
	for _, c := range g.components {
		if d, ok := c.(Destroyable); ok {
			d.OnDestroy()
		}
	}
}

func (g *GameObject) Components() []Component {
	return g.components
}

func (g *GameObject) HasTag(tag string) bool {
	for _, t := range g.Tags {
		if t == tag {
			return true
		}
	}
	return false
}

func (g *GameObject) AddChild(child *GameObject) {
	child.Parent = g
	g.Children = append(g.Children, child)
	child.markDirty(Translated | Rotated | Scaled)
}

func (g *GameObject) RemoveChild(child *GameObject) {
	for i, c := range g.Children {
		if c == child {
			g.Children = append(g.Children[:i], g.Children[i+1:]...)
			child.Parent = nil
			child.markDirty(Translated | Rotated | Scaled)
			return
		}
	}
}

// --- Transform mutation ---

func (g *GameObject) SetPosition(p sector.Point) {
	g.Transform.Position = p
	g.markDirty(Translated)
}

// Translate moves the object by a local offset.
func (g *GameObject) Translate(delta rl.Vector2) {
	if delta.X == 0 && delta.Y == 0 {
		return
	}
	g.Transform.Position = g.Transform.Position.Add(delta)
	g.markDirty(Translated)
}

// TranslateWorld moves the object by a world-space offset. For a child the
// offset is taken into the parent's rotated and scaled frame first.
func (g *GameObject) TranslateWorld(delta rl.Vector2) {
	if g.Parent != nil {
		delta = rl.Vector2Rotate(delta, -g.Parent.WorldRotation()*rl.Deg2rad)
		ps := g.Parent.WorldScale()
		if ps.X != 0 {
			delta.X /= ps.X
		}
		if ps.Y != 0 {
			delta.Y /= ps.Y
		}
	}
	g.Translate(delta)
}

// SetRotation sets the rotation in degrees, wrapped to [0, 360).
func (g *GameObject) SetRotation(deg float32) {
	deg = math32.Mod(deg, 360)
	if deg < 0 {
		deg += 360
	}
	if deg == g.Transform.Rotation {
		return
	}
	g.Transform.Rotation = deg
	g.markDirty(Rotated)
}

func (g *GameObject) SetScale(s rl.Vector2) {
	if s == g.Transform.Scale {
		return
	}
	g.Transform.Scale = s
	g.markDirty(Scaled)
}

// Dirty returns the changes accumulated since the last ClearDirty.
func (g *GameObject) Dirty() DirtyFlags {
	return g.dirty
}

func (g *GameObject) ClearDirty() {
	g.dirty = 0
}

// markDirty propagates to children, whose world transform depends on ours.
func (g *GameObject) markDirty(f DirtyFlags) {
	g.dirty |= f
	for _, c := range g.Children {
		c.markDirty(f)
	}
}

// --- World transform ---

// WorldPosition resolves the position through the parent chain. A child's
// Position is read as a plain offset from its parent.
func (g *GameObject) WorldPosition() sector.Point {
	if g.Parent == nil {
		return g.Transform.Position
	}
	parentScale := g.Parent.WorldScale()
	local := g.Transform.Position.Vector()
	scaled := rl.Vector2{X: local.X * parentScale.X, Y: local.Y * parentScale.Y}
	rotated := rl.Vector2Rotate(scaled, g.Parent.WorldRotation()*rl.Deg2rad)
	return g.Parent.WorldPosition().Add(rotated)
}

func (g *GameObject) WorldRotation() float32 {
	if g.Parent == nil {
		return g.Transform.Rotation
	}
	return g.Parent.WorldRotation() + g.Transform.Rotation
}

func (g *GameObject) WorldScale() rl.Vector2 {
	if g.Parent == nil {
		return g.Transform.Scale
	}
	ps := g.Parent.WorldScale()
	return rl.Vector2{
		X: ps.X * g.Transform.Scale.X,
		Y: ps.Y * g.Transform.Scale.Y,
	}
}
