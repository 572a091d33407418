package physics

import (
	"github.com/chewxy/math32"
	rl "github.com/gen2brain/raylib-go/raylib"
	"github.com/pkg/errors"
)

var (
	ErrTooFewVertices = errors.New("polygon needs at least 3 vertices")
	ErrNotConvex      = errors.New("polygon is degenerate or not convex")
)

// convexTolerance is the smallest turn accepted between two consecutive edges
const convexTolerance = 1e-6

// Edge is one side of a polygon. V0 and V1 index into the owning polygon's
// vertex list; the edge never owns vertices. Normal is the outward unit normal
// in the resolution frame.
type Edge struct {
	V0, V1 int
	Normal rl.Vector2
}

// Polygon is a convex collision shape. The model-space vertex list is fixed at
// construction; Transform places it in the resolution frame and recomputes
// every edge normal.
type Polygon struct {
	model  []rl.Vector2
	verts  []rl.Vector2
	edges  []Edge
	radius float32
}

// NewPolygon validates and stores a model-space vertex list. Clockwise input
// is rewound counter-clockwise.
func NewPolygon(model []rl.Vector2) (*Polygon, error) {
	if len(model) < 3 {
		return nil, errors.Wrapf(ErrTooFewVertices, "got %d", len(model))
	}

	verts := make([]rl.Vector2, len(model))
	copy(verts, model)

	if signedArea(verts) < 0 {
		for i, j := 0, len(verts)-1; i < j; i, j = i+1, j-1 {
			verts[i], verts[j] = verts[j], verts[i]
		}
	}

	n := len(verts)
	for i := 0; i < n; i++ {
		e1 := rl.Vector2Subtract(verts[(i+1)%n], verts[i])
		e2 := rl.Vector2Subtract(verts[(i+2)%n], verts[(i+1)%n])
		turn := cross(e1, e2)
		if turn < 0 || nearlyEqual(turn, 0, convexTolerance) {
			return nil, errors.Wrapf(ErrNotConvex, "at vertex %d", (i+1)%n)
		}
	}

	p := &Polygon{
		model: verts,
		verts: make([]rl.Vector2, n),
		edges: make([]Edge, n),
	}
	for i := range p.edges {
		p.edges[i] = Edge{V0: i, V1: (i + 1) % n}
	}
	p.Transform(rl.Vector2{}, 0, rl.Vector2{X: 1, Y: 1})
	return p, nil
}

// Transform places the polygon at center with the given rotation (radians)
// and per-axis scale, and recomputes the edge normals and bounding radius.
func (p *Polygon) Transform(center rl.Vector2, rotation float32, scale rl.Vector2) {
	p.radius = 0
	for i, m := range p.model {
		local := rl.Vector2{X: m.X * scale.X, Y: m.Y * scale.Y}
		if r := rl.Vector2Length(local); r > p.radius {
			p.radius = r
		}
		p.verts[i] = rl.Vector2Add(center, rl.Vector2Rotate(local, rotation))
	}

	// A mirroring scale turns the winding clockwise
	sign := float32(1)
	if scale.X*scale.Y < 0 {
		sign = -1
	}

	for i := range p.edges {
		e := &p.edges[i]
		dir := rl.Vector2Subtract(p.verts[e.V1], p.verts[e.V0])
		e.Normal = rl.Vector2Normalize(crossVS(dir, sign))
	}
}

// VertexCount returns the number of vertices (and edges).
func (p *Polygon) VertexCount() int {
	return len(p.verts)
}

// Vert returns vertex i in the resolution frame.
func (p *Polygon) Vert(i int) rl.Vector2 {
	return p.verts[i]
}

// Verts returns the transformed vertex list. Callers must not modify it.
func (p *Polygon) Verts() []rl.Vector2 {
	return p.verts
}

// ModelVerts returns the untransformed vertex list. Callers must not modify it.
func (p *Polygon) ModelVerts() []rl.Vector2 {
	return p.model
}

// EdgeCount returns the number of edges.
func (p *Polygon) EdgeCount() int {
	return len(p.edges)
}

// Edge returns edge i.
func (p *Polygon) Edge(i int) Edge {
	return p.edges[i]
}

// EdgeVerts returns both endpoints of edge i.
func (p *Polygon) EdgeVerts(i int) (rl.Vector2, rl.Vector2) {
	e := p.edges[i]
	return p.verts[e.V0], p.verts[e.V1]
}

// Radius is the bounding radius around the transform center.
func (p *Polygon) Radius() float32 {
	return p.radius
}

// SupportVert returns the index of the vertex farthest along dir. The first
// vertex wins ties.
func (p *Polygon) SupportVert(dir rl.Vector2) int {
	best := 0
	bestProj := float32(-math32.MaxFloat32)
	for i, v := range p.verts {
		if proj := rl.Vector2DotProduct(v, dir); proj > bestProj {
			bestProj = proj
			best = i
		}
	}
	return best
}

// Contains reports whether point lies inside or on the polygon.
func (p *Polygon) Contains(point rl.Vector2) bool {
	for _, e := range p.edges {
		if rl.Vector2DotProduct(rl.Vector2Subtract(point, p.verts[e.V0]), e.Normal) > 0 {
			return false
		}
	}
	return true
}

// Bounds returns the axis-aligned box around the transformed vertices.
func (p *Polygon) Bounds() AABB {
	box := AABB{Min: p.verts[0], Max: p.verts[0]}
	for _, v := range p.verts[1:] {
		box.Min.X = math32.Min(box.Min.X, v.X)
		box.Min.Y = math32.Min(box.Min.Y, v.Y)
		box.Max.X = math32.Max(box.Max.X, v.X)
		box.Max.Y = math32.Max(box.Max.Y, v.Y)
	}
	return box
}

func signedArea(verts []rl.Vector2) float32 {
	var area float32
	n := len(verts)
	for i := range verts {
		area += cross(verts[i], verts[(i+1)%n])
	}
	return area * 0.5
}
