package state

import (
	"math/rand"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func gridOf(points ...Point) Grid {
	b := EmptyGrid().Edit()
	for _, p := range points {
		b.Set(p, Red)
	}
	return b.Grid()
}

// bruteForce scans the whole cube, the reference definition of occupancy.
func bruteForce(xy, xz, yz Grid, size GridSize) []Voxel {
	var out []Voxel
	n := int(size)
	for x := 0; x < n; x++ {
		for y := 0; y < n; y++ {
			for z := 0; z < n; z++ {
				if xy.Has(Point{x, y}) && xz.Has(Point{x, z}) && yz.Has(Point{y, z}) {
					out = append(out, Voxel{x, y, z})
				}
			}
		}
	}
	return out
}

func randomGrid(r *rand.Rand, n int, density float64) Grid {
	b := EmptyGrid().Edit()
	for x := 0; x < n; x++ {
		for y := 0; y < n; y++ {
			if r.Float64() < density {
				b.Set(Point{x, y}, Blue)
			}
		}
	}
	return b.Grid()
}

func TestRecomputeMatchesCubeScan(t *testing.T) {
	t.Parallel()
	r := rand.New(rand.NewSource(7))
	const size = GridSize(4)
	for i := 0; i < 200; i++ {
		xy := randomGrid(r, int(size), 0.5)
		xz := randomGrid(r, int(size), 0.5)
		yz := randomGrid(r, int(size), 0.5)

		got := Recompute(xy, xz, yz, size).Slice()
		want := bruteForce(xy, xz, yz, size)
		if len(want) == 0 {
			require.Empty(t, got, "iteration %d", i)
			continue
		}
		if diff := cmp.Diff(want, got); diff != "" {
			t.Fatalf("iteration %d mismatch (-want +got):\n%s", i, diff)
		}
	}
}

func TestRecomputeIsIdempotent(t *testing.T) {
	t.Parallel()
	r := rand.New(rand.NewSource(11))
	xy, xz, yz := randomGrid(r, 16, 0.3), randomGrid(r, 16, 0.3), randomGrid(r, 16, 0.3)

	first := Recompute(xy, xz, yz, 16)
	second := Recompute(xy, xz, yz, 16)
	assert.True(t, first.Equal(second))
	assert.Equal(t, first.Slice(), second.Slice())
}

func TestRecomputeIgnoresOutOfRangeCells(t *testing.T) {
	t.Parallel()
	xy := gridOf(Point{1, 1}, Point{20, 1})
	xz := gridOf(Point{1, 2}, Point{20, 2})
	yz := gridOf(Point{1, 2})

	got := Recompute(xy, xz, yz, 16).Slice()
	assert.Equal(t, []Voxel{{1, 1, 2}}, got)
}

func TestRecomputeSingleVoxelScenario(t *testing.T) {
	t.Parallel()
	p := Point{5, 5}
	got := Recompute(gridOf(p), gridOf(p), gridOf(p), 32)

	require.Equal(t, 1, got.Len())
	assert.True(t, got.Has(Voxel{5, 5, 5}))
}

func TestVoxelEngineFollowsStore(t *testing.T) {
	t.Parallel()
	store, err := NewStore(32)
	require.NoError(t, err)
	engine := NewVoxelEngine(store)
	defer engine.Close()

	var published []int
	engine.Subscribe(func(v VoxelSet) { published = append(published, v.Len()) })

	p := Point{5, 5}
	store.Set(XY, gridOf(p))
	store.Set(XZ, gridOf(p))
	assert.Equal(t, 0, engine.Voxels().Len())
	store.Set(YZ, gridOf(p))
	assert.True(t, engine.Voxels().Has(Voxel{5, 5, 5}))

	store.Update(XZ, func(prev Grid) Grid {
		b := prev.Edit()
		b.Delete(p)
		return b.Grid()
	})
	assert.Equal(t, 0, engine.Voxels().Len())
	assert.Equal(t, []int{0, 0, 1, 0}, published)
}

func TestVoxelEngineCloseStopsUpdates(t *testing.T) {
	t.Parallel()
	store, err := NewStore(16)
	require.NoError(t, err)
	engine := NewVoxelEngine(store)
	engine.Close()

	p := Point{1, 1}
	store.Replace(Snapshot{XY: gridOf(p), XZ: gridOf(p), YZ: gridOf(p)})
	assert.Equal(t, 0, engine.Voxels().Len())
}

func TestVoxelProjections(t *testing.T) {
	t.Parallel()
	xy, xz, yz := Voxel{1, 2, 3}.Projections()
	assert.Equal(t, Point{1, 2}, xy)
	assert.Equal(t, Point{1, 3}, xz)
	assert.Equal(t, Point{2, 3}, yz)
}
