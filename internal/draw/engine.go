// Package draw turns pointer gestures into plane edits and wires the
// drawing core into a session.
package draw

import (
	"errors"
	"fmt"

	"Sketchacad/internal/input"
	"Sketchacad/internal/state"
)

var ErrNilCollaborator = errors.New("nil collaborator")

// stroke is the transient state of one pointer gesture.
type stroke struct {
	active    bool
	plane     state.Plane
	tool      state.Tool
	start     state.Point // shape tools and shift lines
	last      state.Point // freehand tools
	shiftLine bool
}

// Engine applies the active tool to the store. The tool is captured on
// pointer-down and used until pointer-up, so switching tools mid-gesture
// cannot leave a half-finished shape behind.
type Engine struct {
	store *state.Store
	tools *state.Tools
	cur   stroke
}

func NewEngine(store *state.Store, tools *state.Tools) (*Engine, error) {
	if store == nil {
		return nil, fmt.Errorf("new engine: store: %w", ErrNilCollaborator)
	}
	if tools == nil {
		return nil, fmt.Errorf("new engine: tools: %w", ErrNilCollaborator)
	}
	return &Engine{store: store, tools: tools}, nil
}

// Drawing reports whether a gesture is in progress.
func (e *Engine) Drawing() bool { return e.cur.active }

// PointerDown starts a gesture with the current tool.
func (e *Engine) PointerDown(ev input.Event) {
	tool := e.tools.Tool()
	e.cur = stroke{plane: ev.Plane, tool: tool, start: ev.Point, last: ev.Point}

	switch {
	case tool == state.Pencil && ev.Modifiers.Shift:
		e.cur.active = true
		e.cur.shiftLine = true
		e.paint(ev.Plane, []state.Point{ev.Point})
	case tool == state.Pencil:
		e.cur.active = true
		e.paint(ev.Plane, []state.Point{ev.Point})
	case tool == state.Eraser:
		e.cur.active = true
		e.erase(ev.Plane, []state.Point{ev.Point})
	case tool == state.Rect, tool == state.Line:
		e.cur.active = true
	}
}

// PointerMove extends a freehand stroke from the last point to ev.Point.
// The segment's first cell was painted by the previous event and is skipped
// so blend modes are not applied twice at segment joints.
func (e *Engine) PointerMove(ev input.Event) {
	if !e.cur.active || e.cur.shiftLine || ev.Plane != e.cur.plane {
		return
	}
	switch e.cur.tool {
	case state.Pencil:
		e.paint(ev.Plane, LinePoints(e.cur.last, ev.Point)[1:])
	case state.Eraser:
		e.erase(ev.Plane, LinePoints(e.cur.last, ev.Point)[1:])
	default:
		return
	}
	e.cur.last = ev.Point
}

// PointerUp ends the gesture, committing shape tools. It reports whether the
// gesture produced a complete edit that history should record. A release on
// another plane ends the gesture without committing a shape.
func (e *Engine) PointerUp(ev input.Event) bool {
	cur := e.cur
	e.cur = stroke{}
	if !cur.active {
		return false
	}
	if ev.Plane != cur.plane {
		return cur.tool == state.Pencil || cur.tool == state.Eraser
	}
	switch {
	case cur.shiftLine:
		e.paint(ev.Plane, LinePoints(cur.start, ev.Point)[1:])
	case cur.tool == state.Line:
		e.paint(ev.Plane, LinePoints(cur.start, ev.Point))
	case cur.tool == state.Rect:
		e.paint(ev.Plane, RectPoints(cur.start, ev.Point))
	}
	return true
}

// Cancel drops any gesture in progress without committing it.
func (e *Engine) Cancel() { e.cur = stroke{} }

// paint applies the tool color to pts as one store transition. Unpainted
// cells take the color verbatim, painted cells are blended with it.
func (e *Engine) paint(plane state.Plane, pts []state.Point) {
	if len(pts) == 0 {
		return
	}
	color, mode := e.tools.Color(), e.tools.BlendMode()
	e.store.Update(plane, func(prev state.Grid) state.Grid {
		b := prev.Edit()
		for _, p := range pts {
			if base, ok := b.At(p); ok {
				b.Set(p, state.Blend(mode, color, base))
			} else {
				b.Set(p, color)
			}
		}
		return b.Grid()
	})
}

func (e *Engine) erase(plane state.Plane, pts []state.Point) {
	if len(pts) == 0 {
		return
	}
	e.store.Update(plane, func(prev state.Grid) state.Grid {
		b := prev.Edit()
		for _, p := range pts {
			b.Delete(p)
		}
		return b.Grid()
	})
}
