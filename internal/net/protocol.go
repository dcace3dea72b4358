package net

import (
	"errors"
	"fmt"

	"Sketchacad/internal/draw"
	"Sketchacad/internal/input"
	"Sketchacad/internal/state"
)

// Client message types.
const (
	MsgPointerDown = "pointer_down"
	MsgPointerMove = "pointer_move"
	MsgPointerUp   = "pointer_up"
	MsgUndo        = "undo"
	MsgRedo        = "redo"
	MsgKey         = "key"
	MsgSelectTool  = "select_tool"
	MsgSetColor    = "set_color"
	MsgSetBlend    = "set_blend"
	MsgSetGridSize = "set_grid_size"
)

// Server message types.
const (
	MsgHello = "hello"
	MsgState = "state"
	MsgError = "error"
)

var errNotRegistered = errors.New("no input handler registered")

// ClientMessage is one browser request. Grid and Point are used by pointer
// messages, the remaining fields by their matching message type.
type ClientMessage struct {
	Type      string          `json:"type"`
	Grid      string          `json:"grid,omitempty"`
	Point     state.Point     `json:"point"`
	Modifiers input.Modifiers `json:"modifiers"`
	Key       string          `json:"key,omitempty"`
	Tool      string          `json:"tool,omitempty"`
	Color     string          `json:"color,omitempty"`
	Blend     string          `json:"blend,omitempty"`
	Size      int             `json:"size,omitempty"`
}

// ServerMessage carries the session state the browser renders.
type ServerMessage struct {
	Type    string                  `json:"type"`
	Session string                  `json:"session,omitempty"`
	Error   string                  `json:"error,omitempty"`
	Version uint64                  `json:"version,omitempty"`
	Repaint uint64                  `json:"repaint,omitempty"`
	Size    int                     `json:"grid_size,omitempty"`
	Tool    string                  `json:"tool,omitempty"`
	Color   string                  `json:"color,omitempty"`
	Blend   string                  `json:"blend,omitempty"`
	CanUndo bool                    `json:"can_undo,omitempty"`
	CanRedo bool                    `json:"can_redo,omitempty"`
	Planes  map[string][]state.Cell `json:"planes,omitempty"`
	Voxels  []state.Voxel           `json:"voxels,omitempty"`
}

func stateMessage(s *draw.Session) ServerMessage {
	planes := make(map[string][]state.Cell, len(state.Planes))
	for _, p := range state.Planes {
		planes[p.String()] = s.Grid(p).Cells()
	}
	tools := s.Tools()
	return ServerMessage{
		Type:    MsgState,
		Session: s.ID(),
		Version: s.Version(),
		Repaint: s.Repaint(),
		Size:    int(s.Size()),
		Tool:    tools.Tool().String(),
		Color:   tools.Color().Hex(),
		Blend:   tools.BlendMode().String(),
		CanUndo: s.History().CanUndo(),
		CanRedo: s.History().CanRedo(),
		Planes:  planes,
		Voxels:  s.Voxels().Slice(),
	}
}

// connAdapter feeds decoded messages of one connection into its handler.
// Pointer coordinates are clamped here since the core never clamps.
type connAdapter struct {
	sess    *draw.Session
	handler input.Handler
}

var _ input.Adapter = (*connAdapter)(nil)

func (a *connAdapter) Register(h input.Handler) error {
	if h == nil {
		return fmt.Errorf("register: %w", draw.ErrNilCollaborator)
	}
	a.handler = h
	return nil
}

func (a *connAdapter) Unregister() { a.handler = nil }

func (a *connAdapter) apply(m ClientMessage) error {
	if a.handler == nil {
		return errNotRegistered
	}
	switch m.Type {
	case MsgPointerDown, MsgPointerMove, MsgPointerUp:
		plane, err := state.ParsePlane(m.Grid)
		if err != nil {
			return err
		}
		ev := input.Event{
			Plane:     plane,
			Point:     input.ClampPoint(m.Point, a.sess.Size()),
			Modifiers: m.Modifiers,
		}
		switch m.Type {
		case MsgPointerDown:
			return a.handler.PointerDown(ev)
		case MsgPointerMove:
			return a.handler.PointerMove(ev)
		}
		return a.handler.PointerUp(ev)
	case MsgUndo:
		return a.handler.Undo()
	case MsgRedo:
		return a.handler.Redo()
	case MsgKey:
		cmd, ok := input.KeyCommand(m.Key, m.Modifiers)
		if !ok {
			return nil
		}
		return input.Dispatch(a.handler, cmd)
	case MsgSelectTool:
		t, err := state.ParseTool(m.Tool)
		if err != nil {
			return err
		}
		return a.handler.SelectTool(t)
	case MsgSetColor:
		c, err := state.ParseColor(m.Color)
		if err != nil {
			return err
		}
		return a.sess.SetColor(c)
	case MsgSetBlend:
		b, err := state.ParseBlendMode(m.Blend)
		if err != nil {
			return err
		}
		return a.sess.SetBlendMode(b)
	case MsgSetGridSize:
		size, err := state.ParseGridSize(m.Size)
		if err != nil {
			return err
		}
		return a.sess.SetGridSize(size)
	}
	return fmt.Errorf("unknown message type %q", m.Type)
}
