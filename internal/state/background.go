package state

import "github.com/lucasb-eyer/go-colorful"

var (
	bgLight = Color{R: 0xcc, G: 0xcc, B: 0xcc, A: 255}
	bgDark  = Color{R: 0x99, G: 0x99, B: 0x99, A: 255}
)

// bgShift is the Lab lightness step applied to the 2x2 checks.
const bgShift = 0.2 * 0.18

// Background returns the display checkerboard for a plane of the given size:
// four large quadrants, each overlaid with a lighter/darker 2x2 check so cell
// boundaries stay visible under unpainted cells. It is not part of the grid
// state and is regenerated whenever the size changes.
func Background(size GridSize) []Color {
	n := int(size)
	mid := n / 2
	shades := map[Color][2]Color{
		bgLight: {adjustLightness(bgLight, bgShift), adjustLightness(bgLight, -bgShift)},
		bgDark:  {adjustLightness(bgDark, bgShift), adjustLightness(bgDark, -bgShift)},
	}
	out := make([]Color, n*n)
	for y := 0; y < n; y++ {
		for x := 0; x < n; x++ {
			large := bgDark
			if (x < mid && y < mid) || (x >= mid && y >= mid) {
				large = bgLight
			}
			pair := shades[large]
			if (x/2+y/2)%2 == 0 {
				out[y*n+x] = pair[0]
			} else {
				out[y*n+x] = pair[1]
			}
		}
	}
	return out
}

func adjustLightness(c Color, delta float64) Color {
	l, a, b := c.colorful().Lab()
	return fromColorful(colorful.Lab(l+delta, a, b))
}
