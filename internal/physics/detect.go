package physics

import (
	"github.com/chewxy/math32"
	rl "github.com/gen2brain/raylib-go/raylib"
	"github.com/pkg/errors"
)

// Resolver detects and resolves contacts between sprites. It keeps no state
// between calls other than its config.
type Resolver struct {
	cfg Config
}

func NewResolver(cfg Config) *Resolver {
	return &Resolver{cfg: cfg}
}

func (r *Resolver) Config() Config {
	return r.cfg
}

func (r *Resolver) SetConfig(cfg Config) {
	r.cfg = cfg
}

// findMaxSeparation finds the edge of a whose normal separates b the most.
// A positive result means the polygons are apart along that edge normal.
func findMaxSeparation(a, b Sprite) Manifold {
	m := Manifold{Ref: a, Inc: b, Penetration: -math32.MaxFloat32}

	polyA := a.Polygon()
	polyB := b.Polygon()
	for i := 0; i < polyA.EdgeCount(); i++ {
		edge := polyA.Edge(i)
		support := polyB.Vert(polyB.SupportVert(rl.Vector2Negate(edge.Normal)))

		d := rl.Vector2DotProduct(rl.Vector2Subtract(support, polyA.Vert(edge.V0)), edge.Normal)
		if d > m.Penetration {
			m.Penetration = d
			m.RefEdge = i
		}
	}
	return m
}

// DetectAndBuildManifold tests two sprites and builds their contact manifold.
// The bool is false when there is nothing to resolve. An error means the pair
// produced degenerate geometry and was skipped.
func (r *Resolver) DetectAndBuildManifold(a, b Sprite) (Manifold, bool, error) {
	if a.Body().InvMass() == 0 && b.Body().InvMass() == 0 {
		return Manifold{}, false, nil
	}
	if !BoxRadiiIntersect(a.Pos(), a.Radius(), b.Pos(), b.Radius()) {
		return Manifold{}, false, nil
	}

	mA := findMaxSeparation(a, b)
	if mA.Penetration > 0 {
		return Manifold{}, false, nil
	}
	mB := findMaxSeparation(b, a)
	if mB.Penetration > 0 {
		return Manifold{}, false, nil
	}

	m := mB
	if mA.Penetration >= mB.Penetration*r.cfg.BiasRelative+mA.Penetration*r.cfg.BiasAbsolute {
		m = mA
	}

	m.FindIncidentEdge()

	ref := m.Ref.Polygon()
	inc := m.Inc.Polygon()
	m.Normal = ref.Edge(m.RefEdge).Normal

	incV0, incV1 := inc.EdgeVerts(m.IncEdge)
	points := [2]rl.Vector2{incV0, incV1}

	v1, v2 := ref.EdgeVerts(m.RefEdge)
	refDir := rl.Vector2Normalize(rl.Vector2Subtract(v2, v1))
	negSide := -rl.Vector2DotProduct(refDir, v1)
	posSide := rl.Vector2DotProduct(refDir, v2)

	n, err := Clip(rl.Vector2Negate(refDir), negSide, &points)
	if err != nil {
		return Manifold{}, false, errors.Wrap(err, "clip negative side plane")
	}
	if n < 2 {
		return Manifold{}, false, nil
	}
	n, err = Clip(refDir, posSide, &points)
	if err != nil {
		return Manifold{}, false, errors.Wrap(err, "clip positive side plane")
	}
	if n < 2 {
		return Manifold{}, false, nil
	}

	refFace := rl.Vector2DotProduct(m.Normal, v1)
	m.Penetration = 0
	m.ContactCount = 0
	for _, p := range points {
		sep := rl.Vector2DotProduct(m.Normal, p) - refFace
		if sep <= 0 {
			m.Contacts[m.ContactCount] = p
			m.ContactCount++
			m.Penetration += -sep
		}
	}
	if m.ContactCount == 0 {
		return Manifold{}, false, nil
	}
	m.Penetration /= float32(m.ContactCount)

	return m, true, nil
}

// Resolve applies the impulse and queues positional correction for a manifold
// with contacts. A manifold without contacts is left untouched.
func (r *Resolver) Resolve(m *Manifold) bool {
	if m == nil || !m.Colliding() {
		return false
	}
	m.ApplyImpulse()
	m.PositionalCorrection(r.cfg)
	return true
}

// Collide runs detection and resolution for one pair.
func (r *Resolver) Collide(a, b Sprite) (Manifold, bool, error) {
	m, ok, err := r.DetectAndBuildManifold(a, b)
	if err != nil || !ok {
		return m, false, err
	}
	return m, r.Resolve(&m), nil
}
