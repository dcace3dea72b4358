package state

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

var (
	ErrInvalidGridSize = errors.New("invalid grid size")
	ErrUnknownPlane    = errors.New("unknown plane")
)

// Plane identifies one of the three orthogonal projection grids.
type Plane int

const (
	XY Plane = iota
	XZ
	YZ
)

// Planes lists every plane in a stable order.
var Planes = [...]Plane{XY, XZ, YZ}

func (p Plane) String() string {
	switch p {
	case XY:
		return "xy"
	case XZ:
		return "xz"
	case YZ:
		return "yz"
	}
	return fmt.Sprintf("plane(%d)", int(p))
}

// ParsePlane accepts "xy", "xz" or "yz" in any case.
func ParsePlane(s string) (Plane, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "xy":
		return XY, nil
	case "xz":
		return XZ, nil
	case "yz":
		return YZ, nil
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownPlane, s)
}

func (p Plane) valid() bool { return p >= XY && p <= YZ }

// GridSize is the shared edge length of every plane and of the voxel cube.
type GridSize int

const DefaultGridSize GridSize = 32

// GridSizes are the edge lengths a session may use.
var GridSizes = [...]GridSize{16, 32, 64, 128}

func (s GridSize) Valid() bool {
	for _, v := range GridSizes {
		if s == v {
			return true
		}
	}
	return false
}

// ParseGridSize validates n against GridSizes.
func ParseGridSize(n int) (GridSize, error) {
	s := GridSize(n)
	if !s.Valid() {
		return 0, fmt.Errorf("%w: %d (allowed 16, 32, 64, 128)", ErrInvalidGridSize, n)
	}
	return s, nil
}

// Point is a cell coordinate on one plane. On XZ the second axis is z,
// on YZ the first axis is y and the second is z.
type Point struct {
	X int `json:"x"`
	Y int `json:"y"`
}

func (p Point) String() string { return fmt.Sprintf("%d,%d", p.X, p.Y) }

// In reports whether p lies inside [0,size) on both axes.
func (p Point) In(size GridSize) bool {
	return p.X >= 0 && p.Y >= 0 && p.X < int(size) && p.Y < int(size)
}

// Grid is an immutable sparse mapping from cell to color. The zero value is
// an empty grid. Use Edit to derive a modified copy.
type Grid struct {
	cells map[Point]Color
}

// EmptyGrid returns a grid with no painted cells.
func EmptyGrid() Grid { return Grid{} }

func (g Grid) Len() int { return len(g.cells) }

// At returns the color at p and whether the cell is painted.
func (g Grid) At(p Point) (Color, bool) {
	c, ok := g.cells[p]
	return c, ok
}

func (g Grid) Has(p Point) bool {
	_, ok := g.cells[p]
	return ok
}

// Equal compares two grids by size and per-cell color.
func (g Grid) Equal(o Grid) bool {
	if len(g.cells) != len(o.cells) {
		return false
	}
	for p, c := range g.cells {
		oc, ok := o.cells[p]
		if !ok || oc != c {
			return false
		}
	}
	return true
}

// Cell is one painted entry of a grid.
type Cell struct {
	Point
	Color Color `json:"color"`
}

// Cells returns the painted cells sorted by row then column.
func (g Grid) Cells() []Cell {
	out := make([]Cell, 0, len(g.cells))
	for p, c := range g.cells {
		out = append(out, Cell{Point: p, Color: c})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Y != out[j].Y {
			return out[i].Y < out[j].Y
		}
		return out[i].X < out[j].X
	})
	return out
}

// Edit starts a copy-on-write transition from g. The original grid is
// never touched.
func (g Grid) Edit() *Builder {
	next := make(map[Point]Color, len(g.cells)+8)
	for p, c := range g.cells {
		next[p] = c
	}
	return &Builder{cells: next}
}

// Builder collects the cell changes of one transition.
type Builder struct {
	cells map[Point]Color
	done  bool
}

func (b *Builder) At(p Point) (Color, bool) {
	c, ok := b.cells[p]
	return c, ok
}

func (b *Builder) Set(p Point, c Color) {
	b.cells[p] = c
}

func (b *Builder) Delete(p Point) {
	delete(b.cells, p)
}

// Grid freezes the builder. Further use of the builder panics.
func (b *Builder) Grid() Grid {
	if b.done {
		panic("state: Builder reused after Grid()")
	}
	b.done = true
	return Grid{cells: b.cells}
}

// Snapshot holds the three planes at one point in time.
type Snapshot struct {
	XY Grid
	XZ Grid
	YZ Grid
}

func (s Snapshot) Grid(p Plane) Grid {
	switch p {
	case XZ:
		return s.XZ
	case YZ:
		return s.YZ
	}
	return s.XY
}

// Equal compares all three planes by value.
func (s Snapshot) Equal(o Snapshot) bool {
	return s.XY.Equal(o.XY) && s.XZ.Equal(o.XZ) && s.YZ.Equal(o.YZ)
}
