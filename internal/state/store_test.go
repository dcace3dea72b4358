package state

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewStoreRejectsBadSize(t *testing.T) {
	t.Parallel()
	_, err := NewStore(20)
	require.ErrorIs(t, err, ErrInvalidGridSize)

	for _, size := range GridSizes {
		s, err := NewStore(size)
		require.NoError(t, err)
		assert.Equal(t, size, s.Size())
	}
}

func TestStoreUpdateIsCopyOnWrite(t *testing.T) {
	t.Parallel()
	s, err := NewStore(16)
	require.NoError(t, err)

	s.Set(XY, gridOf(Point{1, 1}))
	before := s.Grid(XY)

	s.Update(XY, func(prev Grid) Grid {
		b := prev.Edit()
		b.Set(Point{2, 2}, Green)
		b.Delete(Point{1, 1})
		return b.Grid()
	})

	assert.True(t, before.Has(Point{1, 1}), "old grid must not change")
	assert.False(t, before.Has(Point{2, 2}))
	after := s.Grid(XY)
	assert.False(t, after.Has(Point{1, 1}))
	c, ok := after.At(Point{2, 2})
	require.True(t, ok)
	assert.Equal(t, Green, c)
	assert.Equal(t, 0, s.Grid(XZ).Len())
}

func TestStoreNotifiesListeners(t *testing.T) {
	t.Parallel()
	s, err := NewStore(16)
	require.NoError(t, err)

	var changes []Change
	cancel := s.Subscribe(func(c Change) { changes = append(changes, c) })

	s.Set(XZ, gridOf(Point{0, 0}))
	s.Replace(Snapshot{})
	require.NoError(t, s.SetSize(64))
	cancel()
	s.Set(YZ, gridOf(Point{0, 0}))

	require.Len(t, changes, 3)
	assert.True(t, changes[0].Touches(XZ))
	assert.False(t, changes[0].Touches(XY))
	assert.ElementsMatch(t, []Plane{XY, XZ, YZ}, changes[1].Planes)
	assert.True(t, changes[2].SizeChanged)
}

func TestStoreSetSizeClearsPlanes(t *testing.T) {
	t.Parallel()
	s, err := NewStore(32)
	require.NoError(t, err)
	s.Set(XY, gridOf(Point{3, 3}))

	require.ErrorIs(t, s.SetSize(48), ErrInvalidGridSize)
	assert.Equal(t, 1, s.Grid(XY).Len(), "rejected size leaves planes untouched")

	require.NoError(t, s.SetSize(128))
	assert.Equal(t, GridSize(128), s.Size())
	for _, p := range Planes {
		assert.Equal(t, 0, s.Grid(p).Len(), p.String())
	}
}

func TestGridEqual(t *testing.T) {
	t.Parallel()
	a := gridOf(Point{1, 2}, Point{3, 4})
	b := gridOf(Point{3, 4}, Point{1, 2})
	assert.True(t, a.Equal(b))

	c := b.Edit()
	c.Set(Point{1, 2}, Blue)
	assert.False(t, a.Equal(c.Grid()), "same keys, different color")
	assert.False(t, a.Equal(gridOf(Point{1, 2})))
	assert.True(t, EmptyGrid().Equal(Grid{}))
}

func TestBuilderReusePanics(t *testing.T) {
	t.Parallel()
	b := EmptyGrid().Edit()
	b.Grid()
	assert.Panics(t, func() { b.Grid() })
}

func TestParsePlane(t *testing.T) {
	t.Parallel()
	for _, p := range Planes {
		got, err := ParsePlane(p.String())
		require.NoError(t, err)
		assert.Equal(t, p, got)
	}
	_, err := ParsePlane("zz")
	assert.ErrorIs(t, err, ErrUnknownPlane)
}

func TestGridCellsSorted(t *testing.T) {
	t.Parallel()
	g := gridOf(Point{2, 1}, Point{0, 1}, Point{5, 0})
	cells := g.Cells()
	require.Len(t, cells, 3)
	assert.Equal(t, Point{5, 0}, cells[0].Point)
	assert.Equal(t, Point{0, 1}, cells[1].Point)
	assert.Equal(t, Point{2, 1}, cells[2].Point)
}
