package state

import (
	"fmt"
	"log"
)

// Change describes one store transition to listeners.
type Change struct {
	Planes      []Plane
	SizeChanged bool
}

// Touches reports whether the change replaced plane p.
func (c Change) Touches(p Plane) bool {
	for _, q := range c.Planes {
		if q == p {
			return true
		}
	}
	return false
}

// Listener is called synchronously after every store transition.
type Listener func(Change)

// Store holds the three plane grids and the shared grid size. It is not safe
// for concurrent use; callers serialize access on one goroutine.
type Store struct {
	grids     Snapshot
	size      GridSize
	listeners []*listenerEntry
}

type listenerEntry struct {
	fn Listener
}

// NewStore creates a store with three empty planes.
func NewStore(size GridSize) (*Store, error) {
	if !size.Valid() {
		return nil, fmt.Errorf("new store: %w: %d", ErrInvalidGridSize, size)
	}
	return &Store{size: size}, nil
}

func (s *Store) Size() GridSize { return s.size }

// Grid returns the current grid of plane p.
func (s *Store) Grid(p Plane) Grid { return s.grids.Grid(p) }

// Snapshot returns all three grids. Grids are immutable so the result stays
// valid after later mutations.
func (s *Store) Snapshot() Snapshot { return s.grids }

// Set replaces the grid of plane p.
func (s *Store) Set(p Plane, g Grid) {
	s.Update(p, func(Grid) Grid { return g })
}

// Update applies fn to the current grid of p and stores its result as one
// transition. fn must not retain or mutate its argument.
func (s *Store) Update(p Plane, fn func(prev Grid) Grid) {
	if !p.valid() {
		panic(fmt.Sprintf("state: update of %v", p))
	}
	next := fn(s.grids.Grid(p))
	switch p {
	case XY:
		s.grids.XY = next
	case XZ:
		s.grids.XZ = next
	case YZ:
		s.grids.YZ = next
	}
	s.notify(Change{Planes: []Plane{p}})
}

// Replace swaps in all three grids at once, notifying listeners a single time.
func (s *Store) Replace(snap Snapshot) {
	s.grids = snap
	s.notify(Change{Planes: Planes[:]})
}

// SetSize changes the grid size and clears every plane.
func (s *Store) SetSize(size GridSize) error {
	if !size.Valid() {
		return fmt.Errorf("set size: %w: %d", ErrInvalidGridSize, size)
	}
	log.Printf("[STORE] Grid size %d -> %d, planes cleared", s.size, size)
	s.size = size
	s.grids = Snapshot{}
	s.notify(Change{Planes: Planes[:], SizeChanged: true})
	return nil
}

// Subscribe registers fn and returns a function that removes it.
func (s *Store) Subscribe(fn Listener) (cancel func()) {
	e := &listenerEntry{fn: fn}
	s.listeners = append(s.listeners, e)
	return func() {
		for i, l := range s.listeners {
			if l == e {
				s.listeners = append(s.listeners[:i:i], s.listeners[i+1:]...)
				return
			}
		}
	}
}

func (s *Store) notify(c Change) {
	for _, l := range s.listeners {
		l.fn(c)
	}
}
