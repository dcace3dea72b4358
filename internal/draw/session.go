package draw

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/google/uuid"

	"Sketchacad/internal/input"
	"Sketchacad/internal/state"
)

var ErrSessionClosed = errors.New("session closed")

// Options configures a Session.
type Options struct {
	Size             state.GridSize
	HistoryCap       int
	SnapshotOnStroke bool
	Color            state.Color
	Blend            state.BlendMode
}

// DefaultOptions mirrors config.Default.
func DefaultOptions() Options {
	return Options{
		Size:             state.DefaultGridSize,
		HistoryCap:       state.DefaultHistoryCap,
		SnapshotOnStroke: true,
		Color:            state.Black,
		Blend:            state.Normal,
	}
}

// Session owns one drawing: the planes, the derived voxels, the tool
// selection, the stroke engine and the undo history. Like its parts it is
// single-threaded; front ends call it from one goroutine and route timer
// ticks through the dispatch function given to StartAutosnapshot.
type Session struct {
	id      string
	opts    Options
	store   *state.Store
	tools   *state.Tools
	voxels  *state.VoxelEngine
	history *state.History
	engine  *Engine

	repaint   uint64
	version   uint64
	listeners []func()
	closed    bool

	stopTimer context.CancelFunc
	timerDone sync.WaitGroup
}

// NewSession builds a session from explicit collaborators created here.
func NewSession(opts Options) (*Session, error) {
	if opts.Size == 0 {
		opts.Size = state.DefaultGridSize
	}
	store, err := state.NewStore(opts.Size)
	if err != nil {
		return nil, fmt.Errorf("new session: %w", err)
	}
	tools := state.NewTools()
	tools.SetColor(opts.Color)
	tools.SetBlendMode(opts.Blend)
	return Assemble(store, tools, opts)
}

// Assemble wires a session around an existing store and tool state.
func Assemble(store *state.Store, tools *state.Tools, opts Options) (*Session, error) {
	engine, err := NewEngine(store, tools)
	if err != nil {
		return nil, fmt.Errorf("assemble session: %w", err)
	}
	s := &Session{
		id:      uuid.NewString(),
		opts:    opts,
		store:   store,
		tools:   tools,
		voxels:  state.NewVoxelEngine(store),
		history: state.NewHistory(store, opts.HistoryCap),
		engine:  engine,
	}
	// The voxel engine republishes after every store transition, so
	// listeners always observe planes and voxels that agree.
	s.voxels.Subscribe(func(state.VoxelSet) { s.changed() })
	log.Printf("[SESSION] %s opened (grid %d, history cap %d)", s.id, store.Size(), s.history.Cap())
	return s, nil
}

func (s *Session) ID() string                   { return s.id }
func (s *Session) Grid(p state.Plane) state.Grid { return s.store.Grid(p) }
func (s *Session) Voxels() state.VoxelSet       { return s.voxels.Voxels() }
func (s *Session) Size() state.GridSize         { return s.store.Size() }
func (s *Session) Tools() *state.Tools          { return s.tools }
func (s *Session) History() *state.History      { return s.history }

// Repaint increases whenever the planes are replaced wholesale (undo, redo,
// resize) and front ends should redraw everything.
func (s *Session) Repaint() uint64 { return s.repaint }

// Version increases on every visible change.
func (s *Session) Version() uint64 { return s.version }

// Subscribe registers fn to run after every visible change.
func (s *Session) Subscribe(fn func()) {
	s.listeners = append(s.listeners, fn)
}

func (s *Session) changed() {
	s.version++
	for _, fn := range s.listeners {
		fn()
	}
}

func (s *Session) check() error {
	if s.closed {
		return ErrSessionClosed
	}
	return nil
}

var _ input.Handler = (*Session)(nil)

func (s *Session) PointerDown(ev input.Event) error {
	if err := s.check(); err != nil {
		return err
	}
	s.engine.PointerDown(ev)
	return nil
}

func (s *Session) PointerMove(ev input.Event) error {
	if err := s.check(); err != nil {
		return err
	}
	s.engine.PointerMove(ev)
	return nil
}

// PointerUp ends the gesture and, when configured, records it in history.
func (s *Session) PointerUp(ev input.Event) error {
	if err := s.check(); err != nil {
		return err
	}
	if s.engine.PointerUp(ev) && s.opts.SnapshotOnStroke {
		s.history.SnapshotIfChanged()
	}
	return nil
}

func (s *Session) Undo() error {
	if err := s.check(); err != nil {
		return err
	}
	s.engine.Cancel()
	// Edits since the last entry would otherwise be lost without a trace.
	s.history.SnapshotIfChanged()
	if s.history.Undo() {
		s.repaint++
		s.changed()
	}
	return nil
}

func (s *Session) Redo() error {
	if err := s.check(); err != nil {
		return err
	}
	s.engine.Cancel()
	// An edit after undo discards the redo entries before they can return.
	s.history.SnapshotIfChanged()
	if s.history.Redo() {
		s.repaint++
		s.changed()
	}
	return nil
}

func (s *Session) SelectTool(t state.Tool) error {
	if err := s.check(); err != nil {
		return err
	}
	if t < state.Pencil || t > state.Arc {
		return fmt.Errorf("select tool %d: %w", int(t), state.ErrUnknownTool)
	}
	s.tools.SetTool(t)
	s.changed()
	return nil
}

func (s *Session) SetColor(c state.Color) error {
	if err := s.check(); err != nil {
		return err
	}
	s.tools.SetColor(c)
	s.changed()
	return nil
}

func (s *Session) SetBlendMode(m state.BlendMode) error {
	if err := s.check(); err != nil {
		return err
	}
	if m < state.Normal || m > state.Dodge {
		return fmt.Errorf("set blend mode %d: %w", int(m), state.ErrUnknownBlendMode)
	}
	s.tools.SetBlendMode(m)
	s.changed()
	return nil
}

// SetGridSize clears every plane, restarts history from the empty planes and
// asks front ends for a full repaint.
func (s *Session) SetGridSize(size state.GridSize) error {
	if err := s.check(); err != nil {
		return err
	}
	if !size.Valid() {
		return fmt.Errorf("set grid size: %w: %d", state.ErrInvalidGridSize, size)
	}
	s.engine.Cancel()
	s.repaint++
	if err := s.store.SetSize(size); err != nil {
		return err
	}
	s.history.Reset()
	s.changed()
	return nil
}

// SnapshotIfChanged records a history entry when the planes differ from the
// entry at the cursor. Ticks that arrive after Close are ignored.
func (s *Session) SnapshotIfChanged() bool {
	if s.closed {
		return false
	}
	return s.history.SnapshotIfChanged()
}

// StartAutosnapshot polls for unrecorded edits every interval until Close.
// Each tick is handed to dispatch, which must run the function on the
// goroutine that owns the session. dispatch must not block once Close has
// been called.
func (s *Session) StartAutosnapshot(interval time.Duration, dispatch func(func())) error {
	if err := s.check(); err != nil {
		return err
	}
	if interval <= 0 {
		return nil
	}
	if s.stopTimer != nil {
		return fmt.Errorf("autosnapshot already running for session %s", s.id)
	}
	ctx, cancel := context.WithCancel(context.Background())
	s.stopTimer = cancel
	s.timerDone.Add(1)
	go func() {
		defer s.timerDone.Done()
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				dispatch(func() { s.SnapshotIfChanged() })
			}
		}
	}()
	return nil
}

// Close stops the snapshot timer and detaches the voxel engine. Further
// mutations return ErrSessionClosed.
func (s *Session) Close() {
	if s.closed {
		return
	}
	s.closed = true
	if s.stopTimer != nil {
		s.stopTimer()
		s.timerDone.Wait()
	}
	s.voxels.Close()
	log.Printf("[SESSION] %s closed after %d history entries", s.id, s.history.Len())
}
