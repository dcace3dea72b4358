package ui

import (
	"image/color"
	"log"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/driver/desktop"
	"fyne.io/fyne/v2/widget"

	"Sketchacad/internal/input"
	"Sketchacad/internal/state"
)

// PlaneWidget shows one orthographic plane and turns mouse gestures on it
// into pointer events for the registered handler.
type PlaneWidget struct {
	widget.BaseWidget
	plane   state.Plane
	handler input.Handler

	// Immutable views refreshed by Update.
	grid state.Grid
	size state.GridSize
	bg   []state.Color

	down bool
	last state.Point
	mods input.Modifiers

	raster *canvas.Raster
}

var _ fyne.Widget = (*PlaneWidget)(nil)
var _ fyne.Draggable = (*PlaneWidget)(nil)
var _ desktop.Mouseable = (*PlaneWidget)(nil)
var _ input.Adapter = (*PlaneWidget)(nil)

func NewPlaneWidget(plane state.Plane, size state.GridSize) *PlaneWidget {
	p := &PlaneWidget{
		plane: plane,
		grid:  state.EmptyGrid(),
		size:  size,
		bg:    state.Background(size),
	}
	p.raster = canvas.NewRasterWithPixels(p.pixel)
	p.raster.ScaleMode = canvas.ImageScalePixels
	p.ExtendBaseWidget(p)
	return p
}

func (p *PlaneWidget) Register(h input.Handler) error {
	if h == nil {
		return errNoHandler
	}
	p.handler = h
	return nil
}

func (p *PlaneWidget) Unregister() {
	p.handler = nil
	p.down = false
}

// Update swaps in the latest grid. A size change regenerates the background
// and drops any gesture in progress.
func (p *PlaneWidget) Update(grid state.Grid, size state.GridSize) {
	if size != p.size {
		p.size = size
		p.bg = state.Background(size)
		p.down = false
	}
	p.grid = grid
	p.Refresh()
}

func (p *PlaneWidget) pixel(x, y, w, h int) color.Color {
	pt := cellAt(fyne.NewPos(float32(x), float32(y)), fyne.NewSize(float32(w), float32(h)), p.size)
	if c, ok := p.grid.At(pt); ok {
		return c
	}
	return p.bg[pt.Y*int(p.size)+pt.X]
}

// cellAt maps a position inside a widget of the given size to a grid cell,
// clamping positions that fall outside it.
func cellAt(pos fyne.Position, area fyne.Size, size state.GridSize) state.Point {
	if area.Width <= 0 || area.Height <= 0 {
		return state.Point{}
	}
	n := float32(size)
	pt := state.Point{X: int(pos.X / area.Width * n), Y: int(pos.Y / area.Height * n)}
	if pos.X < 0 {
		pt.X = -1
	}
	if pos.Y < 0 {
		pt.Y = -1
	}
	return input.ClampPoint(pt, size)
}

func modifiers(m fyne.KeyModifier) input.Modifiers {
	return input.Modifiers{
		Shift: m&fyne.KeyModifierShift != 0,
		Ctrl:  m&fyne.KeyModifierControl != 0,
		Alt:   m&fyne.KeyModifierAlt != 0,
		Meta:  m&fyne.KeyModifierSuper != 0,
	}
}

func (p *PlaneWidget) event(pos fyne.Position) input.Event {
	return input.Event{Plane: p.plane, Point: cellAt(pos, p.Size(), p.size), Modifiers: p.mods}
}

func (p *PlaneWidget) report(op string, err error) {
	if err != nil {
		log.Printf("[UI] %s on %s: %v", op, p.plane, err)
	}
}

func (p *PlaneWidget) MouseDown(e *desktop.MouseEvent) {
	if e.Button != desktop.MouseButtonPrimary || p.handler == nil {
		return
	}
	p.down = true
	p.mods = modifiers(e.Modifier)
	ev := p.event(e.Position)
	p.last = ev.Point
	p.report("pointer down", p.handler.PointerDown(ev))
}

func (p *PlaneWidget) Dragged(e *fyne.DragEvent) {
	if !p.down || p.handler == nil {
		return
	}
	ev := p.event(e.Position)
	if ev.Point == p.last {
		return
	}
	p.last = ev.Point
	p.report("pointer move", p.handler.PointerMove(ev))
}

func (p *PlaneWidget) MouseUp(e *desktop.MouseEvent) {
	if e.Button != desktop.MouseButtonPrimary {
		return
	}
	p.mods = modifiers(e.Modifier)
	p.finish(p.event(e.Position))
}

// DragEnd covers releases the widget never sees as MouseUp, such as a drag
// that leaves the window.
func (p *PlaneWidget) DragEnd() {
	p.finish(input.Event{Plane: p.plane, Point: p.last, Modifiers: p.mods})
}

func (p *PlaneWidget) finish(ev input.Event) {
	if !p.down || p.handler == nil {
		return
	}
	p.down = false
	p.report("pointer up", p.handler.PointerUp(ev))
}

func (p *PlaneWidget) MouseIn(*desktop.MouseEvent)    {}
func (p *PlaneWidget) MouseOut()                      {}
func (p *PlaneWidget) MouseMoved(*desktop.MouseEvent) {}

func (p *PlaneWidget) CreateRenderer() fyne.WidgetRenderer {
	return &planeRenderer{plane: p}
}

type planeRenderer struct {
	plane *PlaneWidget
}

func (r *planeRenderer) Objects() []fyne.CanvasObject { return []fyne.CanvasObject{r.plane.raster} }
func (r *planeRenderer) Layout(size fyne.Size)        { r.plane.raster.Resize(size) }
func (r *planeRenderer) MinSize() fyne.Size           { return fyne.NewSize(256, 256) }
func (r *planeRenderer) Refresh()                     { r.plane.raster.Refresh() }
func (r *planeRenderer) Destroy()                     {}
