package state

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestHistory(t *testing.T, cap int) (*Store, *History) {
	t.Helper()
	s, err := NewStore(32)
	require.NoError(t, err)
	return s, NewHistory(s, cap)
}

func paintCell(s *Store, p Plane, pt Point) {
	s.Update(p, func(prev Grid) Grid {
		b := prev.Edit()
		b.Set(pt, Red)
		return b.Grid()
	})
}

func TestHistoryUndoRedoRoundTrip(t *testing.T) {
	t.Parallel()
	s, h := newTestHistory(t, 0)
	before := s.Snapshot()

	h.Snapshot()
	paintCell(s, XY, Point{4, 4})
	h.Snapshot()
	after := s.Snapshot()

	require.True(t, h.Undo())
	assert.True(t, s.Snapshot().Equal(before))
	assert.False(t, s.Grid(XY).Has(Point{4, 4}))

	require.True(t, h.Redo())
	assert.True(t, s.Snapshot().Equal(after))
	assert.True(t, s.Grid(XY).Has(Point{4, 4}))
}

func TestHistoryBoundariesAreNoOps(t *testing.T) {
	t.Parallel()
	s, h := newTestHistory(t, 0)
	assert.False(t, h.CanUndo())
	assert.False(t, h.Undo())
	assert.False(t, h.Redo())
	assert.Equal(t, 1, h.Len())
	assert.Equal(t, 0, h.Cursor())

	paintCell(s, YZ, Point{1, 1})
	h.Snapshot()
	assert.False(t, h.Redo(), "already at newest entry")
	assert.Equal(t, 1, h.Cursor())
}

func TestHistoryNewEditDropsRedo(t *testing.T) {
	t.Parallel()
	s, h := newTestHistory(t, 0)
	paintCell(s, XY, Point{1, 1})
	h.Snapshot()
	paintCell(s, XY, Point{2, 2})
	h.Snapshot()

	require.True(t, h.Undo())
	paintCell(s, XZ, Point{3, 3})
	h.Snapshot()

	assert.Equal(t, 3, h.Len())
	assert.False(t, h.CanRedo())
	assert.False(t, h.Entry(2).XY.Has(Point{2, 2}))
	assert.True(t, h.Entry(2).XZ.Has(Point{3, 3}))
}

func TestHistoryCapEvictsOldest(t *testing.T) {
	t.Parallel()
	s, h := newTestHistory(t, 0)
	const edits = 60
	for i := 0; i < edits; i++ {
		paintCell(s, XY, Point{i % 32, i / 32})
		require.True(t, h.SnapshotIfChanged())
	}

	require.Equal(t, DefaultHistoryCap, h.Len())
	assert.Equal(t, DefaultHistoryCap-1, h.Cursor())

	// The first ten edit entries (and the initial empty entry) are gone, the
	// survivors are in order: entry k holds edits 0..10+k.
	for k := 0; k < h.Len(); k++ {
		assert.Equal(t, 11+k, h.Entry(k).XY.Len(), "entry %d", k)
	}

	undone := 0
	for h.Undo() {
		undone++
	}
	assert.Equal(t, DefaultHistoryCap-1, undone)
	assert.Equal(t, 11, s.Grid(XY).Len())
}

func TestHistorySnapshotIfChanged(t *testing.T) {
	t.Parallel()
	s, h := newTestHistory(t, 0)
	assert.False(t, h.SnapshotIfChanged(), "unchanged store")

	paintCell(s, XZ, Point{0, 0})
	assert.True(t, h.SnapshotIfChanged())
	assert.False(t, h.SnapshotIfChanged())

	// repainting the same color produces an equal grid
	paintCell(s, XZ, Point{0, 0})
	assert.False(t, h.SnapshotIfChanged())
	assert.Equal(t, 2, h.Len())
}

func TestHistoryEntriesSurviveLaterEdits(t *testing.T) {
	t.Parallel()
	s, h := newTestHistory(t, 3)
	paintCell(s, XY, Point{1, 1})
	h.Snapshot()
	kept := h.Entry(1)

	paintCell(s, XY, Point{2, 2})
	assert.False(t, kept.XY.Has(Point{2, 2}))
	assert.Equal(t, 3, h.Cap())
}

func TestHistoryReset(t *testing.T) {
	t.Parallel()
	s, h := newTestHistory(t, 0)
	paintCell(s, XY, Point{1, 1})
	h.Snapshot()
	require.NoError(t, s.SetSize(16))
	h.Reset()

	assert.Equal(t, 1, h.Len())
	assert.False(t, h.CanUndo())
	assert.Equal(t, 0, h.Entry(0).XY.Len())
}

func TestToolsDefaults(t *testing.T) {
	t.Parallel()
	tools := NewTools()
	assert.Equal(t, Pencil, tools.Tool())
	assert.Equal(t, Black, tools.Color())
	assert.Equal(t, Normal, tools.BlendMode())
	assert.False(t, tools.PanelOpen())

	tools.SetTool(Rect)
	tools.SetColor(Red)
	tools.SetBlendMode(Screen)
	tools.SetPanelOpen(true)
	assert.Equal(t, Rect, tools.Tool())
	assert.Equal(t, Red, tools.Color())
	assert.Equal(t, Screen, tools.BlendMode())
	assert.True(t, tools.PanelOpen())
}

func TestParseTool(t *testing.T) {
	t.Parallel()
	for _, tool := range AllTools {
		got, err := ParseTool(tool.String())
		require.NoError(t, err)
		assert.Equal(t, tool, got)
	}
	_, err := ParseTool("lasso")
	assert.ErrorIs(t, err, ErrUnknownTool)
	assert.True(t, Line.Implemented())
	assert.False(t, Ellipse.Implemented())
}
