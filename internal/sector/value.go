// Package sector holds large-world positions as an integer cell plus a float32
// offset inside the cell, so precision does not degrade far from the origin.
package sector

import (
	"math"

	"github.com/chewxy/math32"
)

// CellSize is the extent of one cell in world units.
const CellSize float32 = 10000

// Value is one axis of a world position. Pos always stays within
// (-CellSize, CellSize); anything beyond is carried into Cell.
type Value struct {
	Cell int32
	Pos  float32
}

// NewValue splits an absolute coordinate into cell and offset.
func NewValue(f float64) Value {
	cell := math.Trunc(f / float64(CellSize))
	return Value{
		Cell: int32(cell),
		Pos:  float32(f - cell*float64(CellSize)),
	}.normalize()
}

func (v Value) normalize() Value {
	if v.Pos >= CellSize || v.Pos <= -CellSize {
		carry := math32.Trunc(v.Pos / CellSize)
		v.Cell += int32(carry)
		v.Pos -= carry * CellSize
	}
	return v
}

// Add returns v + o.
func (v Value) Add(o Value) Value {
	return Value{Cell: v.Cell + o.Cell, Pos: v.Pos + o.Pos}.normalize()
}

// Sub returns v - o.
func (v Value) Sub(o Value) Value {
	return Value{Cell: v.Cell - o.Cell, Pos: v.Pos - o.Pos}.normalize()
}

// AddFloat offsets v by a plain distance.
func (v Value) AddFloat(f float32) Value {
	return Value{Cell: v.Cell, Pos: v.Pos + f}.normalize()
}

// Delta resolves v - o into a plain float. Only meaningful when the two
// values are close enough for the result to fit float32 precision.
func (v Value) Delta(o Value) float32 {
	return float32(v.Cell-o.Cell)*CellSize + (v.Pos - o.Pos)
}

// Float64 returns the absolute coordinate.
func (v Value) Float64() float64 {
	return float64(v.Cell)*float64(CellSize) + float64(v.Pos)
}

// Less reports whether v lies before o on the axis.
func (v Value) Less(o Value) bool {
	return v.Delta(o) < 0
}
