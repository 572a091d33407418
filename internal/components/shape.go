package components

import (
	"encoding/json"

	"sprite2d/internal/physics"

	"github.com/chewxy/math32"
	rl "github.com/gen2brain/raylib-go/raylib"
	"github.com/pkg/errors"
)

const (
	ShapeRect    = "rect"
	ShapePolygon = "polygon"
)

const centroidSnap = 1e-5

// RectMods push individual sides of a rect shape outward (positive) or
// inward (negative), so a sprite's hitbox can differ from its image.
type RectMods struct {
	Left   float32 `json:"left,omitempty"`
	Right  float32 `json:"right,omitempty"`
	Top    float32 `json:"top,omitempty"`
	Bottom float32 `json:"bottom,omitempty"`
}

// ShapeDef describes a collision shape in model space, before the owner's
// scale is applied.
type ShapeDef struct {
	Kind  string       `json:"kind"`
	Size  [2]float32   `json:"size,omitempty"`
	Mods  RectMods     `json:"mods,omitempty"`
	Verts [][2]float32 `json:"verts,omitempty"`
}

func RectShape(w, h float32) ShapeDef {
	return ShapeDef{Kind: ShapeRect, Size: [2]float32{w, h}}
}

func PolygonShape(verts ...rl.Vector2) ShapeDef {
	d := ShapeDef{Kind: ShapePolygon, Verts: make([][2]float32, len(verts))}
	for i, v := range verts {
		d.Verts[i] = [2]float32{v.X, v.Y}
	}
	return d
}

// NewRectVerts returns the four corners of a size.X by size.Y rect centered
// on the origin, with each side moved by its mod. Y grows downward, so Top
// is the -Y side.
func NewRectVerts(size rl.Vector2, mods RectMods) []rl.Vector2 {
	w, h := size.X/2, size.Y/2
	left := -w - mods.Left
	right := w + mods.Right
	top := -h - mods.Top
	bottom := h + mods.Bottom
	return []rl.Vector2{
		{X: left, Y: top},
		{X: right, Y: top},
		{X: right, Y: bottom},
		{X: left, Y: bottom},
	}
}

// ModelVerts returns the shape's vertices scaled by scale.
func (d ShapeDef) ModelVerts(scale rl.Vector2) ([]rl.Vector2, error) {
	var verts []rl.Vector2
	switch d.Kind {
	case ShapeRect, "":
		if d.Size[0] <= 0 || d.Size[1] <= 0 {
			return nil, errors.Errorf("rect size %v must be positive", d.Size)
		}
		verts = NewRectVerts(rl.Vector2{X: d.Size[0], Y: d.Size[1]}, d.Mods)
	case ShapePolygon:
		verts = make([]rl.Vector2, len(d.Verts))
		for i, v := range d.Verts {
			verts[i] = rl.Vector2{X: v[0], Y: v[1]}
		}
	default:
		return nil, errors.Errorf("unknown shape kind %q", d.Kind)
	}

	for i := range verts {
		verts[i].X *= scale.X
		verts[i].Y *= scale.Y
	}
	return verts, nil
}

// Build creates the collision polygon at the given scale, re-centred on its
// centroid so the polygon's origin is the centre of mass. centroid is where
// that centre sits in the owner's (scaled) model space.
func (d ShapeDef) Build(scale rl.Vector2) (poly *physics.Polygon, centroid rl.Vector2, err error) {
	verts, err := d.ModelVerts(scale)
	if err != nil {
		return nil, rl.Vector2{}, err
	}
	switch {
	case len(verts) < 3:
	case d.Kind == ShapePolygon:
		centroid = physics.PolygonCentroid(verts)
		// symmetric shapes land a rounding error away from the origin
		if math32.Abs(centroid.X) < centroidSnap {
			centroid.X = 0
		}
		if math32.Abs(centroid.Y) < centroidSnap {
			centroid.Y = 0
		}
	default:
		// opposite rect corners
		centroid = rl.Vector2Scale(rl.Vector2Add(verts[0], verts[2]), 0.5)
	}
	if centroid.X != 0 || centroid.Y != 0 {
		for i := range verts {
			verts[i] = rl.Vector2Subtract(verts[i], centroid)
		}
	}
	poly, err = physics.NewPolygon(verts)
	if err != nil {
		return nil, rl.Vector2{}, errors.Wrapf(err, "%s shape", d.Kind)
	}
	return poly, centroid, nil
}

// decodeShape accepts a ShapeDef or its decoded JSON form.
func decodeShape(raw any) (ShapeDef, error) {
	if d, ok := raw.(ShapeDef); ok {
		return d, nil
	}
	data, err := json.Marshal(raw)
	if err != nil {
		return ShapeDef{}, errors.Wrap(err, "encode shape")
	}
	var d ShapeDef
	if err := json.Unmarshal(data, &d); err != nil {
		return ShapeDef{}, errors.Wrap(err, "decode shape")
	}
	return d, nil
}
