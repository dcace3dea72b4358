package state

import (
	"errors"
	"fmt"
	"strings"
)

// Tool is the active drawing tool.
type Tool int

const (
	Pencil Tool = iota
	Eraser
	Fill
	Rect
	Line
	Ellipse
	Arc
)

var ErrUnknownTool = errors.New("unknown tool")

var toolNames = [...]string{"pencil", "eraser", "fill", "rect", "line", "ellipse", "arc"}

// AllTools lists every tool in declaration order.
var AllTools = [...]Tool{Pencil, Eraser, Fill, Rect, Line, Ellipse, Arc}

func (t Tool) String() string {
	if t >= 0 && int(t) < len(toolNames) {
		return toolNames[t]
	}
	return fmt.Sprintf("tool(%d)", int(t))
}

// Implemented reports whether strokes with t change the grid. Fill, Ellipse
// and Arc can be selected but do nothing yet.
func (t Tool) Implemented() bool {
	switch t {
	case Pencil, Eraser, Rect, Line:
		return true
	}
	return false
}

func ParseTool(s string) (Tool, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	for i, n := range toolNames {
		if n == s {
			return Tool(i), nil
		}
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownTool, s)
}

// Tools is the shared tool selection read by the stroke engine and the
// front ends.
type Tools struct {
	tool      Tool
	color     Color
	blend     BlendMode
	panelOpen bool
}

// NewTools starts with the pencil, black paint and normal blending.
func NewTools() *Tools {
	return &Tools{tool: Pencil, color: Black, blend: Normal}
}

func (t *Tools) Tool() Tool               { return t.tool }
func (t *Tools) SetTool(v Tool)           { t.tool = v }
func (t *Tools) Color() Color             { return t.color }
func (t *Tools) SetColor(c Color)         { t.color = c }
func (t *Tools) BlendMode() BlendMode     { return t.blend }
func (t *Tools) SetBlendMode(m BlendMode) { t.blend = m }
func (t *Tools) PanelOpen() bool          { return t.panelOpen }
func (t *Tools) SetPanelOpen(v bool)      { t.panelOpen = v }
