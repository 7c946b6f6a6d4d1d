// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

// Package raster is the CPU reference implementation of the triangle
// pipeline's three shader stages and the rasterizer that connects them.
// The stage kernels mirror the WGSL entry points in internal/shader
// exactly; tests compare both against the same constant tables.
package raster

// Pipeline shape constants. These match the @workgroup_size and draw
// parameters hard-wired into the WGSL shaders.
const (
	// SlotCount is the number of color buffer slots, vertices, and
	// compute threads. Every index in the pipeline lives in [0, SlotCount).
	SlotCount = 3

	// GroupSizeX is the compute workgroup size along X. The dispatch
	// contract is exactly one group of this size.
	GroupSizeX = 3
	GroupSizeY = 1
	GroupSizeZ = 1
)

// Palette holds the three selectable colors: pure red, green, blue.
// Layout is RGBA float32, alpha fixed at 1. Never mutated.
var Palette = [SlotCount][4]float32{
	{1, 0, 0, 1},
	{0, 1, 0, 1},
	{0, 0, 1, 1},
}

// Positions holds the three clip-space triangle corners. Never mutated.
var Positions = [SlotCount][2]float32{
	{0.0, -0.5},
	{0.5, 0.5},
	{-0.5, 0.5},
}

// ColorGen is the color generator kernel, one invocation per compute
// thread. Thread t writes Palette[sel[t]] into colors[t] and touches no
// other slot. The t < SlotCount guard is part of the contract: it is the
// only bounds check in the pipeline, and callers may invoke the kernel
// with an oversized thread range to observe it suppressing the write.
//
// The selection index must already be validated by the host; the kernel
// does not range-check sel[t].
func ColorGen(t uint32, sel [SlotCount]uint32, colors *[SlotCount][4]float32) {
	if t < SlotCount {
		colors[t] = Palette[sel[t]]
	}
}

// VertexOut is the vertex stage output interface: a homogeneous
// clip-space position plus the location-0 color varying.
type VertexOut struct {
	// Position is (x, y, 0, 1): the 2D corner lifted to clip space.
	Position [4]float32

	// Color is the 3-component varying handed to the rasterizer for
	// barycentric interpolation.
	Color [3]float32
}

// VertexShade is the vertex stage kernel, one invocation per vertex of
// the 3-vertex draw. It looks up the fixed position for vid, lifts it to
// (x, y, 0, 1), and passes colors[vid].rgb through unchanged (alpha is
// dropped; the pixel stage re-supplies it). vid outside [0, SlotCount)
// is excluded by the draw shape and is not guarded here.
func VertexShade(vid uint32, colors *[SlotCount][4]float32) VertexOut {
	p := Positions[vid]
	c := colors[vid]
	return VertexOut{
		Position: [4]float32{p[0], p[1], 0, 1},
		Color:    [3]float32{c[0], c[1], c[2]},
	}
}

// FragShade is the pixel stage kernel, one invocation per covered
// fragment. The input is the rasterizer-interpolated color; the output is
// that color with alpha forced to fully opaque. Stateless: output depends
// only on the one input.
func FragShade(color [3]float32) [4]float32 {
	return [4]float32{color[0], color[1], color[2], 1}
}
