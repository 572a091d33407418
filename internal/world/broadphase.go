package world

import (
	"sort"

	"github.com/chewxy/math32"
	rl "github.com/gen2brain/raylib-go/raylib"
)

// maxCellSpan is the widest an object may be, in cells per axis, before the
// grid stops hashing it and checks it against everything instead
const maxCellSpan = 32

type bounded interface {
	Pos() rl.Vector2
	Radius() float32
}

type cellKey struct {
	X, Y int32
}

// spatialGrid hashes bounding boxes into square cells. Objects are inserted
// into every cell their box touches.
type spatialGrid struct {
	size  float32
	cells map[cellKey][]int
	large []int

	spans      []cellSpan
	seen       []int
	candidates []int
}

type cellSpan struct {
	minX, minY, maxX, maxY int32
	large                  bool
}

func newSpatialGrid(size float32) *spatialGrid {
	return &spatialGrid{
		size:  size,
		cells: make(map[cellKey][]int),
	}
}

func (g *spatialGrid) cellOf(v float32) int32 {
	return int32(math32.Floor(v / g.size))
}

func (g *spatialGrid) rebuild(objects []bounded) {
	for k, list := range g.cells {
		if len(list) == 0 {
			delete(g.cells, k)
			continue
		}
		g.cells[k] = list[:0]
	}
	g.large = g.large[:0]

	g.spans = g.spans[:0]
	for i, o := range objects {
		pos, r := o.Pos(), o.Radius()
		s := cellSpan{
			minX: g.cellOf(pos.X - r), minY: g.cellOf(pos.Y - r),
			maxX: g.cellOf(pos.X + r), maxY: g.cellOf(pos.Y + r),
		}
		if s.maxX-s.minX >= maxCellSpan || s.maxY-s.minY >= maxCellSpan {
			s.large = true
			g.large = append(g.large, i)
		} else {
			for x := s.minX; x <= s.maxX; x++ {
				for y := s.minY; y <= s.maxY; y++ {
					k := cellKey{x, y}
					g.cells[k] = append(g.cells[k], i)
				}
			}
		}
		g.spans = append(g.spans, s)
	}
}

// pairs visits every candidate pair (i, j) with i < j, ordered by i then j,
// which is the order a nested loop over the objects would produce.
func (g *spatialGrid) pairs(visit func(i, j int)) {
	n := len(g.spans)
	if cap(g.seen) < n {
		g.seen = make([]int, n)
	}
	g.seen = g.seen[:n]
	for i := range g.seen {
		g.seen[i] = -1
	}

	for i := 0; i < n; i++ {
		s := g.spans[i]
		g.candidates = g.candidates[:0]

		if s.large {
			for j := i + 1; j < n; j++ {
				g.candidates = append(g.candidates, j)
			}
		} else {
			for x := s.minX; x <= s.maxX; x++ {
				for y := s.minY; y <= s.maxY; y++ {
					for _, j := range g.cells[cellKey{x, y}] {
						g.add(i, j)
					}
				}
			}
			for _, j := range g.large {
				g.add(i, j)
			}
			sort.Ints(g.candidates)
		}

		for _, j := range g.candidates {
			visit(i, j)
		}
	}
}

func (g *spatialGrid) add(i, j int) {
	if j <= i || g.seen[j] == i {
		return
	}
	g.seen[j] = i
	g.candidates = append(g.candidates, j)
}
