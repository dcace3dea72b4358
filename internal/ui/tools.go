package ui

import (
	"fmt"
	"image/color"
	"log"
	"strconv"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/layout"
	"fyne.io/fyne/v2/theme"
	"fyne.io/fyne/v2/widget"

	"Sketchacad/internal/draw"
	"Sketchacad/internal/state"
)

var swatchOrder = []string{"black", "white", "red", "green", "blue", "yellow"}

// colorSwatch is a tappable square of one palette color.
type colorSwatch struct {
	widget.BaseWidget
	Color    state.Color
	OnTapped func(state.Color)
}

func newColorSwatch(c state.Color, tapped func(state.Color)) *colorSwatch {
	s := &colorSwatch{Color: c, OnTapped: tapped}
	s.ExtendBaseWidget(s)
	return s
}

func (s *colorSwatch) CreateRenderer() fyne.WidgetRenderer {
	rect := canvas.NewRectangle(s.Color)
	rect.SetMinSize(fyne.NewSize(28, 28))

	border := canvas.NewRectangle(color.Transparent)
	border.StrokeColor = color.Gray{Y: 150}
	border.StrokeWidth = 1

	return widget.NewSimpleRenderer(container.NewStack(rect, border))
}

func (s *colorSwatch) Tapped(_ *fyne.PointEvent) {
	if s.OnTapped != nil {
		s.OnTapped(s.Color)
	}
}

// toolbar mirrors the session's tool state. syncing suppresses the select
// callbacks while the widgets are being brought up to date.
type toolbar struct {
	sess    *draw.Session
	tool    *widget.Select
	blend   *widget.Select
	size    *widget.Select
	current *canvas.Rectangle
	status  *widget.Label
	syncing bool
}

// toolOptions lists every selectable tool, including the ones whose strokes
// do nothing yet, so the select can follow any tool key.
func toolOptions() []string {
	out := make([]string, len(state.AllTools))
	for i, t := range state.AllTools {
		out[i] = t.String()
	}
	return out
}

func blendOptions() []string {
	out := make([]string, len(state.BlendModes))
	for i, m := range state.BlendModes {
		out[i] = m.String()
	}
	return out
}

func sizeOptions() []string {
	out := make([]string, len(state.GridSizes))
	for i, s := range state.GridSizes {
		out[i] = strconv.Itoa(int(s))
	}
	return out
}

func logErr(op string, err error) {
	if err != nil {
		log.Printf("[UI] %s: %v", op, err)
	}
}

func newToolbar(sess *draw.Session) *toolbar {
	tb := &toolbar{sess: sess, status: widget.NewLabel("")}

	tb.tool = widget.NewSelect(toolOptions(), func(v string) {
		if tb.syncing {
			return
		}
		t, err := state.ParseTool(v)
		if err == nil {
			err = sess.SelectTool(t)
		}
		logErr("select tool", err)
	})
	tb.blend = widget.NewSelect(blendOptions(), func(v string) {
		if tb.syncing {
			return
		}
		m, err := state.ParseBlendMode(v)
		if err == nil {
			err = sess.SetBlendMode(m)
		}
		logErr("set blend", err)
	})
	tb.size = widget.NewSelect(sizeOptions(), func(v string) {
		if tb.syncing {
			return
		}
		n, err := strconv.Atoi(v)
		if err != nil {
			logErr("grid size", err)
			return
		}
		size, err := state.ParseGridSize(n)
		if err == nil && size != sess.Size() {
			err = sess.SetGridSize(size)
		}
		logErr("grid size", err)
	})
	tb.current = canvas.NewRectangle(sess.Tools().Color())
	tb.current.SetMinSize(fyne.NewSize(28, 28))
	tb.refresh()
	return tb
}

func (tb *toolbar) object() fyne.CanvasObject {
	actions := widget.NewToolbar(
		widget.NewToolbarAction(theme.ContentUndoIcon(), func() { logErr("undo", tb.sess.Undo()) }),
		widget.NewToolbarAction(theme.ContentRedoIcon(), func() { logErr("redo", tb.sess.Redo()) }),
	)

	onColorTapped := func(c state.Color) { logErr("set color", tb.sess.SetColor(c)) }
	colorBox := container.NewHBox()
	for _, name := range swatchOrder {
		colorBox.Add(newColorSwatch(state.Palette[name], onColorTapped))
	}

	return container.NewVBox(
		container.NewHBox(
			widget.NewLabel("Tool:"), tb.tool,
			widget.NewLabel("Blend:"), tb.blend,
			widget.NewSeparator(),
			widget.NewLabel("Color:"), tb.current, colorBox,
			widget.NewSeparator(),
			widget.NewLabel("Grid:"), tb.size,
			layout.NewSpacer(),
			actions,
		),
		tb.status,
	)
}

func (tb *toolbar) refresh() {
	tb.syncing = true
	defer func() { tb.syncing = false }()

	tools := tb.sess.Tools()
	if v := tools.Tool().String(); tb.tool.Selected != v {
		tb.tool.SetSelected(v)
	}
	if v := tools.BlendMode().String(); tb.blend.Selected != v {
		tb.blend.SetSelected(v)
	}
	if v := strconv.Itoa(int(tb.sess.Size())); tb.size.Selected != v {
		tb.size.SetSelected(v)
	}
	tb.current.FillColor = tools.Color()
	tb.current.Refresh()

	h := tb.sess.History()
	tb.status.SetText(fmt.Sprintf("%s %s on %s | history %d/%d | %d voxels",
		tools.Tool(), tools.Color().Hex(), tools.BlendMode(), h.Cursor()+1, h.Len(), tb.sess.Voxels().Len()))
}
