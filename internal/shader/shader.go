// Package shader carries the WGSL sources for the triangle pipeline and
// compiles them to SPIR-V for the GPU executor.
package shader

import (
	_ "embed"
)

// Embedded WGSL shader sources.
// These are compiled at build time using go:embed directives.

//go:embed color_gen.wgsl
var colorGenSource string

//go:embed raster.wgsl
var rasterSource string

// Entry point names, one per pipeline stage.
const (
	EntryCompute  = "cs_main"
	EntryVertex   = "vs_main"
	EntryFragment = "fs_main"
)

// Bind group 0 slots shared by both pipelines. The color buffer sits at
// the same binding in the compute and raster sources so one resource can
// back both views.
const (
	BindingColors    = 0
	BindingSelection = 1
)

// ColorGen returns the WGSL source for the color generation compute stage.
func ColorGen() string { return colorGenSource }

// Raster returns the WGSL source for the vertex and fragment raster stages.
func Raster() string { return rasterSource }
