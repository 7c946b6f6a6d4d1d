package tri

import (
	"image/color"

	"github.com/gogpu/tri/internal/raster"
)

// RGBA represents a color with red, green, blue, and alpha components.
// Components are float32 in the range [0, 1], matching the vec4<f32>
// layout the shader stages operate on.
type RGBA struct {
	R, G, B, A float32
}

// RGB creates an opaque color from RGB components.
func RGB(r, g, b float32) RGBA {
	return RGBA{R: r, G: g, B: b, A: 1}
}

// FromArray builds a color from a 4-element array in RGBA order.
func FromArray(a [4]float32) RGBA {
	return RGBA{R: a[0], G: a[1], B: a[2], A: a[3]}
}

// Array returns the color as a 4-element array in RGBA order.
func (c RGBA) Array() [4]float32 {
	return [4]float32{c.R, c.G, c.B, c.A}
}

// Color converts RGBA to the standard color.Color interface.
// Components are clamped to [0, 1] before quantization.
func (c RGBA) Color() color.Color {
	return color.NRGBA{
		R: quant8(c.R),
		G: quant8(c.G),
		B: quant8(c.B),
		A: quant8(c.A),
	}
}

// quant8 maps a component in [0, 1] to an 8-bit channel, rounding to
// nearest and clamping out-of-range input.
func quant8(v float32) uint8 {
	if v <= 0 {
		return 0
	}
	if v >= 1 {
		return 255
	}
	return uint8(v*255 + 0.5)
}

// Palette colors, in palette-index order.
var (
	Red   = RGB(1, 0, 0)
	Green = RGB(0, 1, 0)
	Blue  = RGB(0, 0, 1)
)

// Palette returns the fixed color table the compute stage indexes with a
// Selection: red, green, blue, all opaque.
func Palette() [PaletteSize]RGBA {
	var p [PaletteSize]RGBA
	for i, c := range raster.Palette {
		p[i] = FromArray(c)
	}
	return p
}
