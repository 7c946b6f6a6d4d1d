// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package raster

import (
	"image"
	"math"
)

// Viewport maps clip space onto a pixel grid. Clip space has +y up and
// spans [-1, 1] on both axes; pixel space has +y down with (0, 0) at the
// top-left corner.
type Viewport struct {
	Width  int
	Height int
}

// Project converts a homogeneous clip-space position to pixel
// coordinates. w is 1 for every vertex this pipeline produces, so no
// perspective divide is performed.
func (v Viewport) Project(pos [4]float32) [2]float32 {
	x := (pos[0] + 1) * 0.5 * float32(v.Width)
	y := (1 - pos[1]) * 0.5 * float32(v.Height)
	return [2]float32{x, y}
}

// Triangle is one screen-space triangle ready for rasterization: three
// projected corners with their location-0 color varyings, plus the
// signed doubled area used to normalize barycentric weights.
type Triangle struct {
	pts  [SlotCount][2]float32
	cols [SlotCount][3]float32
	area float32
}

// Setup projects the three vertex stage outputs through the viewport and
// precomputes the area term. Winding is not constrained: a negative area
// flips the weight signs instead of culling.
func Setup(vp Viewport, verts [SlotCount]VertexOut) Triangle {
	var t Triangle
	for i, v := range verts {
		t.pts[i] = vp.Project(v.Position)
		t.cols[i] = v.Color
	}
	t.area = edge(t.pts[0], t.pts[1], t.pts[2])
	return t
}

// edge is the signed edge function: positive when p lies to the left of
// the directed edge a->b (in a +y-down pixel grid this means clockwise
// triangles have positive area).
func edge(a, b, p [2]float32) float32 {
	return (b[0]-a[0])*(p[1]-a[1]) - (b[1]-a[1])*(p[0]-a[0])
}

// ShadeAt evaluates coverage and the interpolated fragment color at an
// exact pixel-space point. It is the per-sample core of Rasterize,
// exposed so tests can probe corners and the centroid without pixel-grid
// quantization. The returned color has already passed through the pixel
// stage (alpha forced to 1).
func (t Triangle) ShadeAt(x, y float32) ([4]float32, bool) {
	if t.area == 0 {
		return [4]float32{}, false
	}
	p := [2]float32{x, y}
	w0 := edge(t.pts[1], t.pts[2], p)
	w1 := edge(t.pts[2], t.pts[0], p)
	w2 := edge(t.pts[0], t.pts[1], p)

	inv := 1 / t.area
	l0 := w0 * inv
	l1 := w1 * inv
	l2 := w2 * inv
	if l0 < 0 || l1 < 0 || l2 < 0 {
		return [4]float32{}, false
	}

	var rgb [3]float32
	for c := 0; c < 3; c++ {
		rgb[c] = l0*t.cols[0][c] + l1*t.cols[1][c] + l2*t.cols[2][c]
	}
	return FragShade(rgb), true
}

// Rasterize samples every pixel center inside the triangle's bounding
// box and writes covered fragments into img. Pixels outside the triangle
// are left untouched; the caller clears the target first if it wants a
// defined background.
func (t Triangle) Rasterize(img *image.RGBA) {
	b := img.Bounds()
	x0, y0, x1, y1 := t.boundingPixels(b)

	for y := y0; y < y1; y++ {
		row := img.PixOffset(x0, y)
		for x := x0; x < x1; x++ {
			px := float32(x) + 0.5
			py := float32(y) + 0.5
			if rgba, ok := t.ShadeAt(px, py); ok {
				img.Pix[row+0] = toByte(rgba[0])
				img.Pix[row+1] = toByte(rgba[1])
				img.Pix[row+2] = toByte(rgba[2])
				img.Pix[row+3] = toByte(rgba[3])
			}
			row += 4
		}
	}
}

// boundingPixels clips the triangle's pixel bounding box to the image
// bounds. The upper bounds are exclusive.
func (t Triangle) boundingPixels(b image.Rectangle) (x0, y0, x1, y1 int) {
	minX := min(t.pts[0][0], t.pts[1][0], t.pts[2][0])
	minY := min(t.pts[0][1], t.pts[1][1], t.pts[2][1])
	maxX := max(t.pts[0][0], t.pts[1][0], t.pts[2][0])
	maxY := max(t.pts[0][1], t.pts[1][1], t.pts[2][1])

	x0 = max(int(math.Floor(float64(minX))), b.Min.X)
	y0 = max(int(math.Floor(float64(minY))), b.Min.Y)
	x1 = min(int(math.Ceil(float64(maxX)))+1, b.Max.X)
	y1 = min(int(math.Ceil(float64(maxY)))+1, b.Max.Y)
	return x0, y0, x1, y1
}

// toByte converts a [0, 1] float channel to its 8-bit form, rounding to
// nearest and clamping out-of-range interpolation residue.
func toByte(c float32) uint8 {
	v := c*255 + 0.5
	if v < 0 {
		return 0
	}
	if v > 255 {
		return 255
	}
	return uint8(v)
}

// Draw runs the vertex stage for all three vertices of the fixed
// triangle and rasterizes the result into img. colors is the populated
// color buffer the vertex stage reads; the caller is responsible for the
// producer-before-consumer ordering.
func Draw(img *image.RGBA, colors *[SlotCount][4]float32) {
	vp := Viewport{Width: img.Bounds().Dx(), Height: img.Bounds().Dy()}
	var verts [SlotCount]VertexOut
	for vid := uint32(0); vid < SlotCount; vid++ {
		verts[vid] = VertexShade(vid, colors)
	}
	Setup(vp, verts).Rasterize(img)
}
