package draw

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"

	"Sketchacad/internal/state"
)

func pts(xy ...int) []state.Point {
	out := make([]state.Point, 0, len(xy)/2)
	for i := 0; i+1 < len(xy); i += 2 {
		out = append(out, state.Point{X: xy[i], Y: xy[i+1]})
	}
	return out
}

func TestLinePoints(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name     string
		from, to state.Point
		want     []state.Point
	}{
		{"single cell", state.Point{X: 2, Y: 2}, state.Point{X: 2, Y: 2}, pts(2, 2)},
		{"horizontal", state.Point{}, state.Point{X: 5}, pts(0, 0, 1, 0, 2, 0, 3, 0, 4, 0, 5, 0)},
		{"vertical up", state.Point{X: 1, Y: 3}, state.Point{X: 1}, pts(1, 3, 1, 2, 1, 1, 1, 0)},
		{"diagonal", state.Point{}, state.Point{X: 3, Y: 3}, pts(0, 0, 1, 1, 2, 2, 3, 3)},
		{"anti diagonal", state.Point{X: 3}, state.Point{Y: 3}, pts(3, 0, 2, 1, 1, 2, 0, 3)},
		{"shallow", state.Point{}, state.Point{X: 3, Y: 1}, pts(0, 0, 1, 0, 2, 1, 3, 1)},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if diff := cmp.Diff(tt.want, LinePoints(tt.from, tt.to)); diff != "" {
				t.Errorf("LinePoints(%v, %v) mismatch (-want +got):\n%s", tt.from, tt.to, diff)
			}
		})
	}
}

// Every step moves to one of the 8 neighbours and no cell repeats.
func TestLineIsGapFree(t *testing.T) {
	t.Parallel()
	for dx := -9; dx <= 9; dx++ {
		for dy := -9; dy <= 9; dy++ {
			from := state.Point{X: 10, Y: 10}
			to := state.Point{X: 10 + dx, Y: 10 + dy}
			line := LinePoints(from, to)

			assert.Equal(t, from, line[0])
			assert.Equal(t, to, line[len(line)-1])
			assert.Len(t, line, max(abs(dx), abs(dy))+1)

			seen := map[state.Point]bool{}
			for i, p := range line {
				assert.False(t, seen[p], "repeat %v on %v->%v", p, from, to)
				seen[p] = true
				if i > 0 {
					prev := line[i-1]
					assert.LessOrEqual(t, abs(p.X-prev.X), 1)
					assert.LessOrEqual(t, abs(p.Y-prev.Y), 1)
				}
			}
		}
	}
}

func TestRectPoints(t *testing.T) {
	t.Parallel()
	got := RectPoints(state.Point{X: 2, Y: 1}, state.Point{X: 1, Y: 2})
	assert.ElementsMatch(t, pts(1, 1, 1, 2, 2, 1, 2, 2), got)
	assert.Len(t, RectPoints(state.Point{X: 0, Y: 0}, state.Point{X: 3, Y: 4}), 20)
	assert.Equal(t, pts(5, 5), RectPoints(state.Point{X: 5, Y: 5}, state.Point{X: 5, Y: 5}))
}
