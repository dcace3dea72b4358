package ui

import (
	"image"
	"image/color"
	"image/draw"
	"sort"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/widget"

	"Sketchacad/internal/state"
)

var (
	previewBackground = color.NRGBA{R: 245, G: 246, B: 248, A: 255}
	voxelFallback     = state.Color{R: 0x88, G: 0x88, B: 0x88, A: 255}
)

// VoxelPreview draws the inferred volume as an isometric stack of cubes.
// Each voxel takes the colour of its XY projection.
type VoxelPreview struct {
	widget.BaseWidget
	voxels []state.Voxel
	top    state.Grid
	size   state.GridSize
	raster *canvas.Raster
}

func NewVoxelPreview(size state.GridSize) *VoxelPreview {
	v := &VoxelPreview{top: state.EmptyGrid(), size: size}
	v.raster = canvas.NewRaster(v.draw)
	v.raster.SetMinSize(fyne.NewSize(256, 256))
	v.ExtendBaseWidget(v)
	return v
}

func (v *VoxelPreview) Update(voxels state.VoxelSet, top state.Grid, size state.GridSize) {
	v.voxels = isoOrder(voxels.Slice())
	v.top = top
	v.size = size
	v.Refresh()
}

// isoOrder sorts back to front for the viewing direction used by project.
func isoOrder(vs []state.Voxel) []state.Voxel {
	sort.SliceStable(vs, func(i, j int) bool {
		return vs[i].X+vs[i].Y+vs[i].Z < vs[j].X+vs[j].Y+vs[j].Z
	})
	return vs
}

// project returns the top-left corner of a voxel's sprite in an image of
// w by h pixels along with the sprite edge length.
func project(vx state.Voxel, size state.GridSize, w, h int) (image.Point, int) {
	n := int(size)
	cell := min(w/(2*n), h/(2*n))
	cell = max(cell, 1)
	x := w/2 + (vx.X-vx.Y)*cell
	y := h/2 + (vx.X+vx.Y)*cell/2 - vx.Z*cell
	return image.Pt(x-cell/2, y-cell/2), cell
}

func (v *VoxelPreview) draw(w, h int) image.Image {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	draw.Draw(img, img.Bounds(), image.NewUniform(previewBackground), image.Point{}, draw.Src)
	for _, vx := range v.voxels {
		c, ok := v.top.At(state.Point{X: vx.X, Y: vx.Y})
		if !ok {
			c = voxelFallback
		}
		at, cell := project(vx, v.size, w, h)
		face := image.Rect(at.X, at.Y, at.X+cell, at.Y+cell)
		draw.Draw(img, face, image.NewUniform(c), image.Point{}, draw.Src)
		if cell > 3 {
			// darker right and bottom edges keep neighbouring cubes apart
			edge := shade(c)
			draw.Draw(img, image.Rect(face.Max.X-1, face.Min.Y, face.Max.X, face.Max.Y), image.NewUniform(edge), image.Point{}, draw.Src)
			draw.Draw(img, image.Rect(face.Min.X, face.Max.Y-1, face.Max.X, face.Max.Y), image.NewUniform(edge), image.Point{}, draw.Src)
		}
	}
	return img
}

func shade(c state.Color) state.Color {
	return state.Blend(state.Multiply, state.Color{R: 0xb0, G: 0xb0, B: 0xb0, A: 255}, c)
}

func (v *VoxelPreview) CreateRenderer() fyne.WidgetRenderer {
	return widget.NewSimpleRenderer(v.raster)
}
