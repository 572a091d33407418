package game

import (
	"fmt"
	"log"
	"time"

	"sprite2d/internal/audio"
	"sprite2d/internal/camera"
	"sprite2d/internal/components"
	"sprite2d/internal/engine"
	"sprite2d/internal/sector"
	"sprite2d/internal/world"

	rl "github.com/gen2brain/raylib-go/raylib"
)

const (
	blastRadius = 5
	blastForce  = 30
)

type Game struct {
	World     *world.World
	ScenePath string
	Paused    bool
	ShowPanel bool
	Muted     bool

	camera       *camera.PanCamera
	spawnKind    int
	spawnCounter int
	history      spawnHistory

	msg   string
	msgAt time.Time

	// Debug timing (ms)
	updateMs float64
	drawMs   float64
	steps    int
}

func New(scenePath string) *Game {
	return &Game{
		World:     world.New(),
		ScenePath: scenePath,
		ShowPanel: true,
		camera:    camera.New(sector.Point{}, world.DefaultZoom),
	}
}

func (g *Game) Run() {
	prefs, err := LoadPrefs(prefsFile)
	if err != nil {
		log.Printf("Prefs: %v", err)
	}

	width, height := 1280, 720
	if prefs != nil && prefs.WindowWidth > 0 && prefs.WindowHeight > 0 {
		width, height = prefs.WindowWidth, prefs.WindowHeight
	}
	rl.SetConfigFlags(rl.FlagWindowHighdpi | rl.FlagWindowResizable | rl.FlagMsaa4xHint)
	rl.InitWindow(int32(width), int32(height), "Sprite Sandbox")
	defer rl.CloseWindow()
	if prefs != nil && (prefs.WindowX != 0 || prefs.WindowY != 0) {
		rl.SetWindowPosition(prefs.WindowX, prefs.WindowY)
	}
	rl.SetTargetFPS(120)

	g.load()
	// tuning belongs to the scene it was made for
	if prefs != nil && prefs.ScenePath == g.ScenePath {
		g.applyPrefs(prefs)
	}

	g.World.Initialize()
	defer g.World.Unload()
	g.camera.Stop(g.World.Physics.Focus)

	audio.Init()
	defer audio.Close()
	impactID := g.World.Physics.OnImpact.AddListener(g.onImpact)
	defer g.World.Physics.OnImpact.RemoveListener(impactID)

	initRayguiStyle()

	for !rl.WindowShouldClose() {
		g.Update()
		g.Draw()
	}

	if err := g.capturePrefs().Save(prefsFile); err != nil {
		log.Printf("Prefs: %v", err)
	}
}

// load reads the scene file, falling back to the built-in scene.
func (g *Game) load() {
	if g.ScenePath != "" {
		err := g.World.LoadScene(g.ScenePath)
		if err == nil {
			log.Printf("Game: loaded %s (%d objects)", g.ScenePath, len(g.World.Scene.GameObjects))
			return
		}
		log.Printf("Game: %v, using the default scene", err)
	}
	buildDefaultScene(g.World)
}

// buildDefaultScene makes a walled floor, a box pyramid and a spinning bar.
func buildDefaultScene(w *world.World) {
	static := func(name string, x, y float64, width, height float32, color rl.Color) *engine.GameObject {
		obj := newSpriteObject(components.RectShape(width, height), color)
		obj.Name = name
		obj.SetPosition(sector.NewPoint(x, y))
		engine.GetComponent[*components.CollisionSprite](obj).Static = true
		w.Scene.AddGameObject(obj)
		return obj
	}

	static("Ground", 0, 8, 40, 1, rl.DarkGray)
	static("WallLeft", -20, 0, 1, 16, rl.DarkGray)
	static("WallRight", 20, 0, 1, 16, rl.DarkGray)

	const rows = 5
	n := 0
	for row := 0; row < rows; row++ {
		for i := 0; i <= row; i++ {
			n++
			box := createBox(paletteColor(n))
			box.Name = fmt.Sprintf("Box_%d", n)
			x := float64(i) - float64(row)/2 - 8
			y := 7 - float64(rows-1-row)
			box.SetPosition(sector.NewPoint(x, y))
			w.Scene.AddGameObject(box)
		}
	}

	bar := static("Spinner", 8, 3, 6, 0.5, rl.Gold)
	bar.AddComponent(&components.Spinner{Speed: 45, SweepSpeed: 1})
}

func (g *Game) onImpact(c world.Contact) {
	if g.Muted || c.Count == 0 {
		return
	}
	audio.PlayImpact(c.Points[0], c.Speed)
}

func (g *Game) Update() {
	updateStart := time.Now()
	deltaTime := rl.GetFrameTime()

	g.handleInput(deltaTime)

	switch {
	case !g.Paused:
		g.steps = g.World.Update(deltaTime)
	case rl.IsKeyPressed(rl.KeyN):
		// single step while paused
		g.steps = g.World.Update(g.World.Physics.Settings.FixedStep)
	default:
		g.steps = 0
	}

	audio.SetListener(g.World.Renderer.Origin)
	g.updateMs = float64(time.Since(updateStart).Microseconds()) / 1000.0
}

// updateCamera pans freely unless a sprite is followed, in which case the
// camera is parked on the focus so letting go does not jump.
func (g *Game) updateCamera(deltaTime float32) {
	r := g.World.Renderer
	in := camera.ReadInput()

	g.camera.Zoom = r.Camera.Zoom
	if g.World.Physics.FocusTarget.IsValid() {
		g.camera.Stop(g.World.Physics.Focus)
		in.Move = rl.Vector2{}
	}
	g.camera.Update(in, deltaTime)

	r.Camera.Zoom = g.camera.Zoom
	if !g.World.Physics.FocusTarget.IsValid() {
		g.World.Physics.Focus = g.camera.Position
	}
}

func (g *Game) handleInput(deltaTime float32) {
	r := g.World.Renderer

	if rl.IsKeyPressed(rl.KeyF1) {
		r.Debug = !r.Debug
	}
	if rl.IsKeyPressed(rl.KeyF2) {
		r.ShowContacts = !r.ShowContacts
	}
	if rl.IsKeyPressed(rl.KeyF3) {
		g.ShowPanel = !g.ShowPanel
	}
	if rl.IsKeyPressed(rl.KeyM) {
		g.Muted = !g.Muted
	}
	if rl.IsKeyPressed(rl.KeySpace) {
		g.Paused = !g.Paused
	}
	if rl.IsKeyPressed(rl.KeyTab) {
		g.spawnKind = (g.spawnKind + 1) % len(spawnKinds)
	}

	ctrl := rl.IsKeyDown(rl.KeyLeftControl) || rl.IsKeyDown(rl.KeyLeftSuper)
	if ctrl && rl.IsKeyPressed(rl.KeyZ) {
		g.undo()
	}
	if ctrl && rl.IsKeyPressed(rl.KeyS) {
		g.saveScene()
	}
	if ctrl && rl.IsKeyPressed(rl.KeyBackspace) {
		g.clearSpawned()
	}

	g.updateCamera(deltaTime)

	if g.mouseOverPanel() {
		return
	}
	mouse := r.ScreenToWorld(rl.GetMousePosition())

	if rl.IsMouseButtonPressed(rl.MouseLeftButton) {
		g.spawn(g.spawnKind, mouse)
	}
	if rl.IsMouseButtonPressed(rl.MouseRightButton) {
		hit := g.World.ApplyPointImpulse(mouse, blastRadius, blastForce, true)
		g.setMsg("Blast hit %d sprites", hit)
	}
	if rl.IsMouseButtonPressed(rl.MouseMiddleButton) {
		g.follow(mouse)
	}
}

// follow makes the camera and resolution frame track the sprite under p.
// Clicking empty space stops following.
func (g *Game) follow(p sector.Point) {
	cs := g.World.FindSprite(p)
	if cs == nil {
		g.World.Physics.FocusTarget.Clear()
		g.setMsg("Free camera")
		return
	}
	g.World.Physics.FocusTarget.Set(cs.GetGameObject())
	g.setMsg("Following %s", cs.GetGameObject().Name)
}

func (g *Game) saveScene() {
	if g.ScenePath == "" {
		g.setMsg("No scene path")
		return
	}
	if err := g.World.SaveScene(g.ScenePath); err != nil {
		g.setMsg("Save failed: %v", err)
		return
	}
	g.setMsg("Saved %s", g.ScenePath)
}

func (g *Game) setMsg(format string, args ...any) {
	g.msg = fmt.Sprintf(format, args...)
	g.msgAt = time.Now()
	log.Print(g.msg)
}

func (g *Game) Draw() {
	rl.BeginDrawing()

	drawStart := time.Now()
	g.World.Draw()
	g.drawMs = float64(time.Since(drawStart).Microseconds()) / 1000.0

	g.DrawUI()
	rl.EndDrawing()
}

func (g *Game) DrawUI() {
	rl.DrawText("LMB spawn, RMB blast, MMB follow, Tab change shape", 10, 10, 20, rl.DarkGray)
	rl.DrawText("Space pause, N step, Ctrl+Z undo, Ctrl+Bksp clear, Ctrl+S save, F1-F3 views", 10, 35, 20, rl.DarkGray)
	rl.DrawFPS(10, 60)

	status := fmt.Sprintf("Spawn: %s", spawnKinds[g.spawnKind].Name)
	if g.Paused {
		status += "  [PAUSED]"
	}
	if g.Muted {
		status += "  [MUTED]"
	}
	rl.DrawText(status, 10, 85, 20, colorAccent)

	if g.msg != "" && time.Since(g.msgAt) < 2*time.Second {
		rl.DrawText(g.msg, 10, int32(rl.GetScreenHeight())-30, 20, rl.Maroon)
	}

	if g.World.Renderer.Debug {
		focus := g.World.Physics.Focus
		rl.DrawText(fmt.Sprintf("Focus: %s", focus), 10, 110, 16, rl.DarkGreen)
		rl.DrawText(fmt.Sprintf("Update:  %.2f ms (%d steps)", g.updateMs, g.steps), 10, 130, 16, rl.DarkGreen)
		rl.DrawText(fmt.Sprintf("Draw:    %.2f ms", g.drawMs), 10, 150, 16, rl.DarkGreen)
		rl.DrawText(fmt.Sprintf("Total:   %.2f ms", g.updateMs+g.drawMs), 10, 170, 16, rl.Lime)
	}

	g.drawPanel()
}
