package game

import (
	"fmt"

	"sprite2d/internal/physics"
	"sprite2d/internal/world"

	gui "github.com/gen2brain/raylib-go/raygui"
	rl "github.com/gen2brain/raylib-go/raylib"
)

// Theme colors - Indigo/purple dark theme
var (
	colorBgDark    = rl.NewColor(10, 10, 15, 255)
	colorBgPanel   = rl.NewColor(18, 18, 24, 230)
	colorBgElement = rl.NewColor(28, 28, 38, 255)
	colorBgHover   = rl.NewColor(38, 38, 52, 255)

	colorAccent        = rl.NewColor(108, 99, 255, 255) // #6c63ff
	colorTextPrimary   = rl.NewColor(255, 255, 255, 255)
	colorTextSecondary = rl.NewColor(200, 200, 208, 255)
	colorTextMuted     = rl.NewColor(119, 119, 119, 255)
)

const (
	panelWidth   = 260
	panelPadding = 10
	rowHeight    = 22
)

// Tuning is the part of the world the panel edits. It is also what the
// prefs file remembers between runs.
type Tuning struct {
	Resolver     physics.Config `json:"resolver"`
	GravityY     float32        `json:"gravityY"`
	Debug        bool           `json:"debug"`
	ShowContacts bool           `json:"showContacts"`
	Zoom         float32        `json:"zoom"`
}

func tuningOf(w *world.World) Tuning {
	return Tuning{
		Resolver:     w.Physics.Resolver.Config(),
		GravityY:     w.Physics.Settings.Gravity[1],
		Debug:        w.Renderer.Debug,
		ShowContacts: w.Renderer.ShowContacts,
		Zoom:         w.Renderer.Camera.Zoom,
	}
}

// apply pushes t into w. An invalid resolver config is rejected and nothing
// changes.
func (t Tuning) apply(w *world.World) error {
	if err := t.Resolver.Validate(); err != nil {
		return err
	}
	w.Physics.Resolver.SetConfig(t.Resolver)
	w.Physics.Settings.Gravity[1] = t.GravityY
	w.Renderer.Debug = t.Debug
	w.Renderer.ShowContacts = t.ShowContacts
	if t.Zoom > 0 {
		w.Renderer.Camera.Zoom = t.Zoom
	}
	return nil
}

// initRayguiStyle sets up the dark theme
func initRayguiStyle() {
	gui.SetStyle(gui.DEFAULT, gui.BACKGROUND_COLOR, gui.NewColorPropertyValue(colorBgDark))
	gui.SetStyle(gui.DEFAULT, gui.BASE_COLOR_NORMAL, gui.NewColorPropertyValue(colorBgElement))
	gui.SetStyle(gui.DEFAULT, gui.BASE_COLOR_FOCUSED, gui.NewColorPropertyValue(colorBgHover))
	gui.SetStyle(gui.DEFAULT, gui.BASE_COLOR_PRESSED, gui.NewColorPropertyValue(colorAccent))

	gui.SetStyle(gui.DEFAULT, gui.TEXT_COLOR_NORMAL, gui.NewColorPropertyValue(colorTextSecondary))
	gui.SetStyle(gui.DEFAULT, gui.TEXT_COLOR_FOCUSED, gui.NewColorPropertyValue(colorTextPrimary))
	gui.SetStyle(gui.DEFAULT, gui.TEXT_COLOR_PRESSED, gui.NewColorPropertyValue(colorTextPrimary))

	gui.SetStyle(gui.DEFAULT, gui.BORDER_COLOR_NORMAL, gui.NewColorPropertyValue(rl.NewColor(50, 50, 65, 255)))
	gui.SetStyle(gui.DEFAULT, gui.BORDER_COLOR_FOCUSED, gui.NewColorPropertyValue(colorAccent))
	gui.SetStyle(gui.DEFAULT, gui.LINE_COLOR, gui.NewColorPropertyValue(rl.NewColor(40, 40, 55, 255)))

	gui.SetStyle(gui.DEFAULT, gui.TEXT_SIZE, 14)
}

func (g *Game) panelBounds() rl.Rectangle {
	x := float32(rl.GetScreenWidth() - panelWidth - panelPadding)
	return rl.Rectangle{X: x, Y: panelPadding, Width: panelWidth, Height: 13 * rowHeight}
}

// mouseOverPanel keeps clicks on the panel from spawning objects.
func (g *Game) mouseOverPanel() bool {
	return g.ShowPanel && rl.CheckCollisionPointRec(rl.GetMousePosition(), g.panelBounds())
}

// drawPanel draws the tuning sliders and applies any change immediately.
func (g *Game) drawPanel() {
	if !g.ShowPanel {
		return
	}
	b := g.panelBounds()
	rl.DrawRectangleRec(b, colorBgPanel)
	rl.DrawRectangleLinesEx(b, 1, colorAccent)

	t := tuningOf(g.World)
	x := b.X + 90
	w := b.Width - 140
	y := b.Y + panelPadding

	row := func() rl.Rectangle {
		r := rl.Rectangle{X: x, Y: y, Width: w, Height: rowHeight - 6}
		y += rowHeight
		return r
	}

	rl.DrawText("Resolver", int32(b.X+panelPadding), int32(y), 16, colorTextPrimary)
	y += rowHeight

	t.Resolver.Percent = gui.Slider(row(), "Percent", fmt.Sprintf("%.2f", t.Resolver.Percent), t.Resolver.Percent, 0.01, 1)
	t.Resolver.Slop = gui.Slider(row(), "Slop", fmt.Sprintf("%.3f", t.Resolver.Slop), t.Resolver.Slop, 0, 0.1)
	t.Resolver.BiasRelative = gui.Slider(row(), "Bias rel", fmt.Sprintf("%.2f", t.Resolver.BiasRelative), t.Resolver.BiasRelative, 0.5, 1)
	t.Resolver.BiasAbsolute = gui.Slider(row(), "Bias abs", fmt.Sprintf("%.3f", t.Resolver.BiasAbsolute), t.Resolver.BiasAbsolute, 0, 0.1)

	y += 4
	rl.DrawText("World", int32(b.X+panelPadding), int32(y), 16, colorTextPrimary)
	y += rowHeight

	t.GravityY = gui.Slider(row(), "Gravity", fmt.Sprintf("%.1f", t.GravityY), t.GravityY, -40, 40)
	t.Zoom = gui.Slider(row(), "Zoom", fmt.Sprintf("%.0f", t.Zoom), t.Zoom, 5, 120)

	t.Debug = gui.CheckBox(rl.Rectangle{X: b.X + panelPadding, Y: y, Width: 14, Height: 14}, "Debug", t.Debug)
	t.ShowContacts = gui.CheckBox(rl.Rectangle{X: b.X + 120, Y: y, Width: 14, Height: 14}, "Contacts", t.ShowContacts)
	y += rowHeight

	if gui.Button(rl.Rectangle{X: b.X + panelPadding, Y: y, Width: b.Width - 2*panelPadding, Height: rowHeight}, "Reset resolver") {
		t.Resolver = physics.DefaultConfig()
	}
	y += rowHeight + 4

	drawn, culled := g.World.Renderer.Stats()
	broad := "grid"
	if g.World.Physics.UsingGPU() {
		broad = "gpu"
	}
	stats := fmt.Sprintf("%d sprites (%d dynamic)\n%d drawn, %d culled\nbroad-phase: %s",
		g.World.Physics.ObjectCount(), g.World.Physics.DynamicObjectCount(), drawn, culled, broad)
	rl.DrawText(stats, int32(b.X+panelPadding), int32(y), 14, colorTextMuted)

	if err := t.apply(g.World); err != nil {
		g.setMsg("Rejected: %v", err)
	}
}
