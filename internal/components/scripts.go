package components

import (
	"sprite2d/internal/engine"

	"github.com/chewxy/math32"
	rl "github.com/gen2brain/raylib-go/raylib"
)

func init() {
	engine.RegisterScript("Spinner", newSpinner, spinnerProps)
	engine.RegisterScript("Bomb", newBomb, bombProps)
}

// Spinner turns its object at a fixed rate and optionally sweeps it back and
// forth. On a static collision sprite it makes a moving obstacle.
type Spinner struct {
	engine.BaseComponent
	Speed      float32 // degrees per second
	SweepX     float32 // sweep amplitude in world units
	SweepSpeed float32 // radians per second
	phase      float32
}

func (s *Spinner) Update(deltaTime float32) {
	g := s.GetGameObject()
	if g == nil {
		return
	}
	g.SetRotation(g.Transform.Rotation + s.Speed*deltaTime)

	if s.SweepX != 0 {
		before := math32.Sin(s.phase)
		s.phase += s.SweepSpeed * deltaTime
		after := math32.Sin(s.phase)
		g.Translate(rl.Vector2{X: (after - before) * s.SweepX})
	}
}

func newSpinner(props map[string]any) *Spinner {
	return &Spinner{
		Speed:      engine.PropFloat(props, "speed", 90),
		SweepX:     engine.PropFloat(props, "sweepX", 0),
		SweepSpeed: engine.PropFloat(props, "sweepSpeed", 1),
	}
}

func spinnerProps(s *Spinner) map[string]any {
	return map[string]any{
		"speed":      s.Speed,
		"sweepX":     s.SweepX,
		"sweepSpeed": s.SweepSpeed,
	}
}

func newBomb(props map[string]any) *Bomb {
	return &Bomb{
		Fuse:        engine.PropFloat(props, "fuse", 2),
		Radius:      engine.PropFloat(props, "radius", 4),
		Force:       engine.PropFloat(props, "force", 15),
		Diminishing: engine.PropBool(props, "diminishing", true),
		OnImpact:    engine.PropBool(props, "onImpact", false),
	}
}

func bombProps(b *Bomb) map[string]any {
	return map[string]any{
		"fuse":        b.Fuse,
		"radius":      b.Radius,
		"force":       b.Force,
		"diminishing": b.Diminishing,
		"onImpact":    b.OnImpact,
	}
}
