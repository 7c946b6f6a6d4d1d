// Package tri renders the classic compute-shaded RGB triangle on the
// GoGPU stack.
//
// # Overview
//
// tri is the "hello triangle" of the GoGPU ecosystem. A small compute
// stage picks three colors out of a fixed red/green/blue palette and
// writes them into a shared color buffer; a vertex stage reads one color
// per vertex of a fixed triangle; a pixel stage emits the interpolated
// color fully opaque. The package ships both halves of that pipeline: a
// pure Go reference implementation that rasterizes into image.RGBA, and
// WGSL shaders with a wgpu/hal compute dispatch behind an optional GPU
// executor.
//
// # Quick Start
//
//	import "github.com/gogpu/tri"
//
//	r := tri.NewRenderer()
//	img := image.NewRGBA(image.Rect(0, 0, 512, 512))
//
//	// Red, green, blue corners over a black background.
//	if err := r.RenderFrame(img, tri.Selection{0, 1, 2}, tri.RGB(0, 0, 0)); err != nil {
//	    log.Fatal(err)
//	}
//
// Lower-level control goes through the command stream:
//
//	enc := tri.NewCommandEncoder()
//	cp, _ := enc.BeginComputePass()
//	cp.SetSelection(tri.UniformSelection(2)) // all corners blue
//	cp.Dispatch(1, 1, 1)
//	cp.End()
//	enc.Barrier() // compute writes before raster reads
//	rp, _ := enc.BeginRenderPass(img, tri.RGB(0, 0, 0))
//	rp.DrawTriangle()
//	rp.End()
//	cb, _ := enc.Finish()
//	err := r.Submit(cb)
//
// # GPU Execution
//
// The color generator runs on the CPU by default. Importing the gpu
// package registers a Vulkan-backed executor that compiles the WGSL
// compute stage through naga and dispatches it with gogpu/wgpu:
//
//	import _ "github.com/gogpu/tri/gpu" // enables GPU color generation
//
// When no adapter is available the CPU executor stays in place and a
// warning is logged; rendering keeps working.
//
// # Architecture
//
// The library is organized into:
//   - Public API: Renderer, CommandEncoder, ColorBuffer, Selection, Executor
//   - internal/raster: the Go stage kernels and the barycentric rasterizer
//   - internal/shader: embedded WGSL and SPIR-V compilation via naga
//   - internal/gpu: hal resource management and compute dispatch
//   - gpu: blank-import registration of the GPU executor
//
// # Coordinate System
//
// Vertex positions live in clip space: x right, y up, the origin in the
// center. Rasterization maps clip space onto image coordinates with y
// down, sampling at pixel centers.
package tri

// Version information
const (
	// Version is the current version of the library
	Version = "0.1.0"

	// VersionMajor is the major version
	VersionMajor = 0

	// VersionMinor is the minor version
	VersionMinor = 1

	// VersionPatch is the patch version
	VersionPatch = 0
)
