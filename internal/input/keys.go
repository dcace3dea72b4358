package input

import (
	"fmt"
	"strings"

	"Sketchacad/internal/state"
)

// CommandKind enumerates the key commands the core understands.
type CommandKind int

const (
	CmdUndo CommandKind = iota + 1
	CmdRedo
	CmdSelectTool
)

// Command is a normalized key command.
type Command struct {
	Kind CommandKind
	Tool state.Tool
}

func (c Command) String() string {
	switch c.Kind {
	case CmdUndo:
		return "undo"
	case CmdRedo:
		return "redo"
	case CmdSelectTool:
		return "select " + c.Tool.String()
	}
	return fmt.Sprintf("command(%d)", int(c.Kind))
}

// ToolKeys maps the single-letter tool shortcuts.
var ToolKeys = map[string]state.Tool{
	"p": state.Pencil,
	"e": state.Eraser,
	"f": state.Fill,
	"r": state.Rect,
	"l": state.Line,
	"c": state.Ellipse,
	"a": state.Arc,
}

// KeyCommand maps a key press to a command. Ctrl or Meta with Z undoes, and
// redoes when Shift is also held. Tool letters only count with no Ctrl, Meta
// or Alt held.
func KeyCommand(key string, mods Modifiers) (Command, bool) {
	k := strings.ToLower(key)
	if (mods.Ctrl || mods.Meta) && k == "z" {
		if mods.Shift {
			return Command{Kind: CmdRedo}, true
		}
		return Command{Kind: CmdUndo}, true
	}
	if mods.Ctrl || mods.Meta || mods.Alt {
		return Command{}, false
	}
	if t, ok := ToolKeys[k]; ok {
		return Command{Kind: CmdSelectTool, Tool: t}, true
	}
	return Command{}, false
}

// Dispatch runs cmd against h.
func Dispatch(h Handler, cmd Command) error {
	switch cmd.Kind {
	case CmdUndo:
		return h.Undo()
	case CmdRedo:
		return h.Redo()
	case CmdSelectTool:
		return h.SelectTool(cmd.Tool)
	}
	return fmt.Errorf("dispatch: unknown command %v", cmd)
}
