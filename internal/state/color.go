package state

import (
	"errors"
	"fmt"
	"math"
	"strings"

	"github.com/lucasb-eyer/go-colorful"
)

var ErrInvalidColor = errors.New("invalid color")

// Color is an 8-bit RGBA paint value. It satisfies image/color.Color so the
// front ends can draw it directly.
type Color struct {
	R, G, B, A uint8
}

var (
	Black  = Color{A: 255}
	White  = Color{R: 255, G: 255, B: 255, A: 255}
	Red    = Color{R: 255, A: 255}
	Green  = Color{G: 255, A: 255}
	Blue   = Color{B: 255, A: 255}
	Yellow = Color{R: 255, G: 255, A: 255}
)

// Palette maps the swatch names understood by ParseColor.
var Palette = map[string]Color{
	"black":  Black,
	"white":  White,
	"red":    Red,
	"green":  Green,
	"blue":   Blue,
	"yellow": Yellow,
}

// RGBA implements image/color.Color.
func (c Color) RGBA() (r, g, b, a uint32) {
	r = uint32(c.R)
	r |= r << 8
	g = uint32(c.G)
	g |= g << 8
	b = uint32(c.B)
	b |= b << 8
	a = uint32(c.A)
	a |= a << 8
	return
}

// Hex formats the color as #rrggbb.
func (c Color) Hex() string {
	return c.colorful().Hex()
}

func (c Color) String() string { return c.Hex() }

func (c Color) colorful() colorful.Color {
	return colorful.Color{R: float64(c.R) / 255, G: float64(c.G) / 255, B: float64(c.B) / 255}
}

func fromColorful(cc colorful.Color) Color {
	r, g, b := cc.Clamped().RGB255()
	return Color{R: r, G: g, B: b, A: 255}
}

// ParseColor accepts a palette name or a #rgb / #rrggbb hex string.
func ParseColor(s string) (Color, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	if c, ok := Palette[s]; ok {
		return c, nil
	}
	cc, err := colorful.Hex(s)
	if err != nil {
		return Color{}, fmt.Errorf("%w: %q", ErrInvalidColor, s)
	}
	return fromColorful(cc), nil
}

func (c Color) MarshalText() ([]byte, error) {
	return []byte(c.Hex()), nil
}

func (c *Color) UnmarshalText(b []byte) error {
	v, err := ParseColor(string(b))
	if err != nil {
		return err
	}
	*c = v
	return nil
}

// BlendMode selects how a new paint color combines with an already painted
// cell.
type BlendMode int

const (
	Normal BlendMode = iota
	Multiply
	Darken
	Lighten
	Screen
	Overlay
	Burn
	Dodge
)

var ErrUnknownBlendMode = errors.New("unknown blend mode")

var blendNames = [...]string{"normal", "multiply", "darken", "lighten", "screen", "overlay", "burn", "dodge"}

// BlendModes lists every mode in declaration order.
var BlendModes = [...]BlendMode{Normal, Multiply, Darken, Lighten, Screen, Overlay, Burn, Dodge}

func (m BlendMode) String() string {
	if m >= 0 && int(m) < len(blendNames) {
		return blendNames[m]
	}
	return fmt.Sprintf("blend(%d)", int(m))
}

func ParseBlendMode(s string) (BlendMode, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	for i, n := range blendNames {
		if n == s {
			return BlendMode(i), nil
		}
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownBlendMode, s)
}

// Blend combines top (the tool color) over base (the existing cell color).
// Channels are blended independently on the 0..255 scale, then rounded and
// clamped. The result is always opaque.
func Blend(mode BlendMode, top, base Color) Color {
	var f func(a, b float64) float64
	switch mode {
	case Multiply:
		f = multiply
	case Darken:
		f = math.Min
	case Lighten:
		f = math.Max
	case Screen:
		f = screen
	case Overlay:
		f = overlay
	case Burn:
		f = burn
	case Dodge:
		f = dodge
	default:
		return Color{R: top.R, G: top.G, B: top.B, A: 255}
	}
	return Color{
		R: channel(f(float64(top.R), float64(base.R))),
		G: channel(f(float64(top.G), float64(base.G))),
		B: channel(f(float64(top.B), float64(base.B))),
		A: 255,
	}
}

func multiply(a, b float64) float64 { return a * b / 255 }

func screen(a, b float64) float64 { return 255 * (1 - (1-a/255)*(1-b/255)) }

func overlay(a, b float64) float64 {
	if b < 128 {
		return 2 * a * b / 255
	}
	return 255 * (1 - 2*(1-a/255)*(1-b/255))
}

func burn(a, b float64) float64 {
	if a == 0 {
		return 0
	}
	return 255 * (1 - (1-b/255)/(a/255))
}

func dodge(a, b float64) float64 {
	if a == 255 {
		return 255
	}
	return 255 * (b / 255) / (1 - a/255)
}

func channel(v float64) uint8 {
	switch {
	case math.IsNaN(v), v <= 0:
		return 0
	case v >= 255:
		return 255
	}
	return uint8(math.Round(v))
}
