package world

import (
	"sprite2d/internal/components"
	"sprite2d/internal/engine"
	"sprite2d/internal/sector"

	rl "github.com/gen2brain/raylib-go/raylib"
)

// DefaultZoom is pixels per world unit.
const DefaultZoom = 40

// Renderer draws sprites with a Camera2D centered on Origin. The camera
// target stays at (0, 0); everything is drawn relative to Origin so far-away
// coordinates never reach the GPU.
type Renderer struct {
	Camera     rl.Camera2D
	Origin     sector.Point
	Background rl.Color

	Debug        bool // bounds and sleep state
	ShowContacts bool // contact points and normals from the last step

	view          ViewRect
	drawn, culled int
}

func NewRenderer() *Renderer {
	return &Renderer{
		Camera:       rl.Camera2D{Zoom: DefaultZoom},
		Background:   rl.RayWhite,
		ShowContacts: true,
	}
}

// Begin clears the screen and enters 2D mode around Origin.
func (r *Renderer) Begin() {
	w, h := float32(rl.GetScreenWidth()), float32(rl.GetScreenHeight())
	r.Camera.Offset = rl.Vector2{X: w / 2, Y: h / 2}
	r.Camera.Target = rl.Vector2{}
	r.view = ExtractViewRect(r.Camera, w, h)

	rl.ClearBackground(r.Background)
	rl.BeginMode2D(r.Camera)
}

func (r *Renderer) End() {
	rl.EndMode2D()
}

// Draw renders every visible sprite at its interpolated pose and, when
// enabled, the debug overlay. Call between Begin and End.
func (r *Renderer) Draw(objects []*engine.GameObject, pw *PhysicsWorld) {
	ratio := pw.TimeRatio()
	r.drawn, r.culled = 0, 0

	for _, g := range objects {
		sr := engine.GetComponent[*components.SpriteRenderer](g)
		if sr == nil || !g.Active {
			continue
		}
		if cs := engine.GetComponent[*components.CollisionSprite](g); cs != nil && cs.Built() {
			if !r.view.ContainsCircle(cs.InterpPos(ratio).Sub(r.Origin), cs.Radius()) {
				r.culled++
				continue
			}
		}
		sr.Draw(r.Origin, ratio)
		r.drawn++

		if r.Debug {
			r.drawBounds(sr, g)
		}
	}

	if r.ShowContacts {
		r.drawContacts(pw.Contacts())
	}
}

func (r *Renderer) drawBounds(sr *components.SpriteRenderer, g *engine.GameObject) {
	color := rl.Green
	if cs := engine.GetComponent[*components.CollisionSprite](g); cs != nil && cs.IsSleeping {
		color = rl.Gray
	}
	rl.DrawRectangleLinesEx(sr.Bounds(), 1/r.Camera.Zoom, color)
}

func (r *Renderer) drawContacts(contacts []Contact) {
	px := 1 / r.Camera.Zoom
	for _, c := range contacts {
		for i := 0; i < c.Count; i++ {
			p := c.Points[i].Sub(r.Origin)
			rl.DrawCircleV(p, 3*px, rl.Red)
			end := rl.Vector2Add(p, rl.Vector2Scale(c.Normal, 0.5))
			rl.DrawLineEx(p, end, 2*px, rl.Orange)
		}
	}
}

// ScreenToWorld converts a screen position to a world point.
func (r *Renderer) ScreenToWorld(screen rl.Vector2) sector.Point {
	return r.Origin.Add(rl.GetScreenToWorld2D(screen, r.Camera))
}

// Stats returns how many sprites were drawn and culled in the last Draw.
func (r *Renderer) Stats() (drawn, culled int) {
	return r.drawn, r.culled
}
