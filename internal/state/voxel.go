package state

import (
	"fmt"
	"sort"
)

// Voxel is a cell of the inferred volume.
type Voxel struct {
	X int `json:"x"`
	Y int `json:"y"`
	Z int `json:"z"`
}

func (v Voxel) String() string { return fmt.Sprintf("%d,%d,%d", v.X, v.Y, v.Z) }

// Projections returns the three plane cells that v is inferred from.
func (v Voxel) Projections() (xy, xz, yz Point) {
	return Point{v.X, v.Y}, Point{v.X, v.Z}, Point{v.Y, v.Z}
}

// VoxelSet is an immutable occupancy map. Only occupied voxels are stored.
type VoxelSet struct {
	cells map[Voxel]bool
}

func (s VoxelSet) Has(v Voxel) bool { return s.cells[v] }

func (s VoxelSet) Len() int { return len(s.cells) }

// Slice returns the occupied voxels ordered by x, then y, then z.
func (s VoxelSet) Slice() []Voxel {
	out := make([]Voxel, 0, len(s.cells))
	for v := range s.cells {
		out = append(out, v)
	}
	sort.Slice(out, func(i, j int) bool {
		a, b := out[i], out[j]
		if a.X != b.X {
			return a.X < b.X
		}
		if a.Y != b.Y {
			return a.Y < b.Y
		}
		return a.Z < b.Z
	})
	return out
}

func (s VoxelSet) Equal(o VoxelSet) bool {
	if len(s.cells) != len(o.cells) {
		return false
	}
	for v := range s.cells {
		if !o.cells[v] {
			return false
		}
	}
	return true
}

// Recompute derives the occupancy set: (x,y,z) is occupied iff xy has (x,y),
// xz has (x,z) and yz has (y,z), for every coordinate in [0,size).
// Walking the painted XY cells visits the same cube cells that can possibly
// qualify, so the result matches a full cube scan.
func Recompute(xy, xz, yz Grid, size GridSize) VoxelSet {
	n := int(size)
	cells := make(map[Voxel]bool)
	if xz.Len() == 0 || yz.Len() == 0 {
		return VoxelSet{cells: cells}
	}
	for p := range xy.cells {
		if !p.In(size) {
			continue
		}
		for z := 0; z < n; z++ {
			if xz.Has(Point{p.X, z}) && yz.Has(Point{p.Y, z}) {
				cells[Voxel{p.X, p.Y, z}] = true
			}
		}
	}
	return VoxelSet{cells: cells}
}

// VoxelEngine keeps a VoxelSet in step with a Store. Every store transition
// triggers a full recompute on the same call stack, so readers never see a
// set derived from stale planes.
type VoxelEngine struct {
	store     *Store
	voxels    VoxelSet
	listeners []func(VoxelSet)
	cancel    func()
}

// NewVoxelEngine computes the initial set and subscribes to store.
func NewVoxelEngine(store *Store) *VoxelEngine {
	e := &VoxelEngine{store: store}
	e.recompute()
	e.cancel = store.Subscribe(func(Change) { e.recompute() })
	return e
}

func (e *VoxelEngine) recompute() {
	snap := e.store.Snapshot()
	e.voxels = Recompute(snap.XY, snap.XZ, snap.YZ, e.store.Size())
	for _, fn := range e.listeners {
		fn(e.voxels)
	}
}

// Voxels returns the set derived from the current planes.
func (e *VoxelEngine) Voxels() VoxelSet { return e.voxels }

// Subscribe registers fn to receive every republished set.
func (e *VoxelEngine) Subscribe(fn func(VoxelSet)) {
	e.listeners = append(e.listeners, fn)
}

// Close detaches the engine from its store.
func (e *VoxelEngine) Close() {
	if e.cancel != nil {
		e.cancel()
		e.cancel = nil
	}
}
