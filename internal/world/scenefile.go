package world

import (
	"encoding/json"
	"fmt"
	"log"
	"os"

	"sprite2d/internal/components"
	"sprite2d/internal/engine"
	"sprite2d/internal/physics"
	"sprite2d/internal/sector"

	rl "github.com/gen2brain/raylib-go/raylib"
	"github.com/pkg/errors"
)

// RuntimeTag marks objects created while playing. They are not saved.
const RuntimeTag = "runtime"

// --- JSON types ---

type SceneFile struct {
	Settings Settings       `json:"settings"`
	Resolver physics.Config `json:"resolver"`
	Focus    string         `json:"focus,omitempty"`
	Objects  []ObjectDef    `json:"objects"`
}

type ObjectDef struct {
	Name       string            `json:"name"`
	Tags       []string          `json:"tags,omitempty"`
	Position   PointDef          `json:"position"`
	Rotation   float32           `json:"rotation,omitempty"`
	Scale      [2]float32        `json:"scale"`
	Components []json.RawMessage `json:"components"`
	Children   []ObjectDef       `json:"children,omitempty"`
}

// PointDef stores a world position as a cell index plus an offset inside
// the cell, so far positions survive the round trip exactly.
type PointDef struct {
	Cell   [2]int32   `json:"cell,omitempty"`
	Offset [2]float32 `json:"offset"`
}

func (d PointDef) Point() sector.Point {
	return sector.Point{
		X: sector.Value{Cell: d.Cell[0], Pos: d.Offset[0]},
		Y: sector.Value{Cell: d.Cell[1], Pos: d.Offset[1]},
	}
}

func pointDefOf(p sector.Point) PointDef {
	return PointDef{
		Cell:   [2]int32{p.X.Cell, p.Y.Cell},
		Offset: [2]float32{p.X.Pos, p.Y.Pos},
	}
}

type componentHeader struct {
	Type string `json:"type"`
}

type spriteRendererDef struct {
	Type    string `json:"type"`
	Color   string `json:"color"`
	Outline string `json:"outline,omitempty"`
}

type scriptDef struct {
	Type  string         `json:"type"`
	Name  string         `json:"name"`
	Props map[string]any `json:"props,omitempty"`
}

// --- Color mapping ---

var colorByName = map[string]rl.Color{
	"Red":       rl.Red,
	"Blue":      rl.Blue,
	"Green":     rl.Green,
	"Purple":    rl.Purple,
	"Orange":    rl.Orange,
	"Yellow":    rl.Yellow,
	"Pink":      rl.Pink,
	"SkyBlue":   rl.SkyBlue,
	"Lime":      rl.Lime,
	"Magenta":   rl.Magenta,
	"White":     rl.White,
	"LightGray": rl.LightGray,
	"Gray":      rl.Gray,
	"DarkGray":  rl.DarkGray,
	"Black":     rl.Black,
	"Brown":     rl.Brown,
	"Beige":     rl.Beige,
	"Maroon":    rl.Maroon,
	"Gold":      rl.Gold,
}

var nameByColor map[rl.Color]string

func init() {
	nameByColor = make(map[rl.Color]string, len(colorByName))
	for name, c := range colorByName {
		nameByColor[c] = name
	}
}

// lookupColor accepts a color name or "#rrggbbaa". Anything else is white.
func lookupColor(name string) rl.Color {
	if c, ok := colorByName[name]; ok {
		return c
	}
	var r, g, b, a uint8
	if n, _ := fmt.Sscanf(name, "#%02x%02x%02x%02x", &r, &g, &b, &a); n == 4 {
		return rl.Color{R: r, G: g, B: b, A: a}
	}
	return rl.White
}

func lookupColorName(c rl.Color) string {
	if name, ok := nameByColor[c]; ok {
		return name
	}
	return fmt.Sprintf("#%02x%02x%02x%02x", c.R, c.G, c.B, c.A)
}

// --- Loading ---

// ParseScene decodes a scene file. Missing settings and resolver fields
// keep their defaults.
func ParseScene(data []byte) (*SceneFile, error) {
	sf := SceneFile{
		Settings: DefaultSettings(),
		Resolver: physics.DefaultConfig(),
	}
	if err := json.Unmarshal(data, &sf); err != nil {
		return nil, errors.Wrap(err, "parse scene")
	}
	if err := sf.Settings.Validate(); err != nil {
		return nil, errors.Wrap(err, "scene settings")
	}
	if err := sf.Resolver.Validate(); err != nil {
		return nil, errors.Wrap(err, "scene resolver")
	}
	return &sf, nil
}

// LoadScene reads a scene file into the world. Objects are added to the scene
// but not started; call Initialize afterwards.
func (w *World) LoadScene(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return errors.Wrap(err, "read scene")
	}
	sf, err := ParseScene(data)
	if err != nil {
		return errors.Wrap(err, path)
	}

	w.Physics.Settings = sf.Settings
	w.Physics.Resolver.SetConfig(sf.Resolver)

	for _, def := range sf.Objects {
		w.loadObject(def, nil)
	}

	if sf.Focus != "" {
		if g := w.Scene.FindByName(sf.Focus); g != nil {
			w.Physics.FocusTarget.Set(g)
			w.Physics.Focus = g.WorldPosition()
		} else {
			log.Printf("Scene: focus %q not found", sf.Focus)
		}
	}
	return nil
}

func (w *World) loadObject(def ObjectDef, parent *engine.GameObject) *engine.GameObject {
	g := engine.NewGameObject(def.Name)
	g.Tags = def.Tags
	g.SetPosition(def.Position.Point())
	g.SetRotation(def.Rotation)

	// Default scale to 1 if zero
	if def.Scale != [2]float32{} {
		g.SetScale(rl.Vector2{X: def.Scale[0], Y: def.Scale[1]})
	}

	for _, raw := range def.Components {
		if err := loadComponent(g, raw); err != nil {
			log.Printf("Scene: %s: %v", def.Name, err)
		}
	}

	if parent != nil {
		parent.AddChild(g)
	}
	w.Scene.AddGameObject(g)

	for _, child := range def.Children {
		w.loadObject(child, g)
	}
	return g
}

func loadComponent(g *engine.GameObject, raw json.RawMessage) error {
	var header componentHeader
	if err := json.Unmarshal(raw, &header); err != nil {
		return errors.Wrap(err, "component header")
	}

	switch header.Type {
	case "SpriteRenderer":
		var def spriteRendererDef
		if err := json.Unmarshal(raw, &def); err != nil {
			return errors.Wrap(err, "SpriteRenderer")
		}
		sr := components.NewSpriteRenderer(lookupColor(def.Color))
		if def.Outline != "" {
			sr.Outline = lookupColor(def.Outline)
		}
		g.AddComponent(sr)

	case "Script":
		var def scriptDef
		if err := json.Unmarshal(raw, &def); err != nil {
			return errors.Wrap(err, "Script")
		}
		comp := engine.CreateScript(def.Name, def.Props)
		if comp == nil {
			return errors.Errorf("unknown script %q", def.Name)
		}
		g.AddComponent(comp)

	default:
		var data map[string]any
		if err := json.Unmarshal(raw, &data); err != nil {
			return errors.Wrap(err, header.Type)
		}
		comp, err := engine.CreateComponent(header.Type, data)
		if err != nil {
			return err
		}
		g.AddComponent(comp)
	}
	return nil
}

// --- Saving ---

func (w *World) SaveScene(path string) error {
	sf := SceneFile{
		Settings: w.Physics.Settings,
		Resolver: w.Physics.Resolver.Config(),
	}
	if target := w.Physics.FocusTarget.Get(w.Scene); target != nil {
		sf.Focus = target.Name
	}

	for _, g := range w.Scene.GameObjects {
		if g.Parent != nil || g.HasTag(RuntimeTag) {
			continue
		}
		sf.Objects = append(sf.Objects, saveObject(g))
	}

	data, err := json.MarshalIndent(sf, "", "  ")
	if err != nil {
		return errors.Wrap(err, "marshal scene")
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return errors.Wrap(err, "write scene")
	}
	return nil
}

func saveObject(g *engine.GameObject) ObjectDef {
	def := ObjectDef{
		Name:     g.Name,
		Tags:     g.Tags,
		Position: pointDefOf(g.Transform.Position),
		Rotation: g.Transform.Rotation,
		Scale:    [2]float32{g.Transform.Scale.X, g.Transform.Scale.Y},
	}
	for _, c := range g.Components() {
		if raw := serializeComponent(c); raw != nil {
			def.Components = append(def.Components, raw)
		}
	}
	for _, child := range g.Children {
		if !child.HasTag(RuntimeTag) {
			def.Children = append(def.Children, saveObject(child))
		}
	}
	return def
}

func serializeComponent(c engine.Component) json.RawMessage {
	var def any

	switch comp := c.(type) {
	case *components.SpriteRenderer:
		def = spriteRendererDef{
			Type:    "SpriteRenderer",
			Color:   lookupColorName(comp.Color),
			Outline: lookupColorName(comp.Outline),
		}

	case engine.Serializable:
		data := comp.Serialize()
		data["type"] = comp.TypeName()
		def = data

	default:
		// Try script registry
		if name, props, ok := engine.SerializeScript(c); ok {
			def = scriptDef{Type: "Script", Name: name, Props: props}
		} else {
			return nil
		}
	}

	data, err := json.Marshal(def)
	if err != nil {
		log.Printf("Scene: serialize %T: %v", c, err)
		return nil
	}
	return data
}
