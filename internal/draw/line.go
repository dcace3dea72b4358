package draw

import "Sketchacad/internal/state"

// Line walks the 8-connected integer line from `from` to `to`, endpoints
// included, calling visit once per cell. Error-term stepping keeps every
// slope gap free.
func Line(from, to state.Point, visit func(state.Point)) {
	dx := abs(to.X - from.X)
	dy := abs(to.Y - from.Y)
	sx, sy := 1, 1
	if from.X > to.X {
		sx = -1
	}
	if from.Y > to.Y {
		sy = -1
	}
	err := dx - dy
	x, y := from.X, from.Y
	for {
		visit(state.Point{X: x, Y: y})
		if x == to.X && y == to.Y {
			return
		}
		e2 := 2 * err
		if e2 > -dy {
			err -= dy
			x += sx
		}
		if e2 < dx {
			err += dx
			y += sy
		}
	}
}

// LinePoints collects the cells of Line in visiting order.
func LinePoints(from, to state.Point) []state.Point {
	n := max(abs(to.X-from.X), abs(to.Y-from.Y)) + 1
	out := make([]state.Point, 0, n)
	Line(from, to, func(p state.Point) { out = append(out, p) })
	return out
}

// RectPoints lists every cell of the inclusive box spanned by a and b,
// column by column.
func RectPoints(a, b state.Point) []state.Point {
	x0, x1 := min(a.X, b.X), max(a.X, b.X)
	y0, y1 := min(a.Y, b.Y), max(a.Y, b.Y)
	out := make([]state.Point, 0, (x1-x0+1)*(y1-y0+1))
	for x := x0; x <= x1; x++ {
		for y := y0; y <= y1; y++ {
			out = append(out, state.Point{X: x, Y: y})
		}
	}
	return out
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
