// Package input defines the boundary between front ends and the drawing
// core: normalized pointer events, key commands and the adapter lifecycle.
package input

import "Sketchacad/internal/state"

// Modifiers is the keyboard modifier snapshot taken with a pointer event.
type Modifiers struct {
	Shift bool `json:"shift,omitempty"`
	Ctrl  bool `json:"ctrl,omitempty"`
	Alt   bool `json:"alt,omitempty"`
	Meta  bool `json:"meta,omitempty"`
}

// Event is one pointer event on a plane. Point must already be clamped to
// the grid.
type Event struct {
	Plane     state.Plane
	Point     state.Point
	Modifiers Modifiers
}

// Handler consumes normalized input. draw.Session implements it.
type Handler interface {
	PointerDown(ev Event) error
	PointerMove(ev Event) error
	PointerUp(ev Event) error
	Undo() error
	Redo() error
	SelectTool(t state.Tool) error
}

// Adapter turns a front end's raw events into Handler calls between
// Register and Unregister.
type Adapter interface {
	Register(h Handler) error
	Unregister()
}

// ClampPoint pulls p inside [0,size) on both axes.
func ClampPoint(p state.Point, size state.GridSize) state.Point {
	return state.Point{X: clamp(p.X, int(size)), Y: clamp(p.Y, int(size))}
}

func clamp(v, n int) int {
	if v < 0 {
		return 0
	}
	if v >= n {
		return n - 1
	}
	return v
}
