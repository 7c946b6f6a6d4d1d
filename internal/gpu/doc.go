//go:build !nogpu

// Package gpu provides the GPU-backed color generator executor.
//
// This is an internal package used by the tri library to run the color
// generation compute stage on real hardware. It drives WebGPU through the
// gogpu/wgpu HAL (zero CGO), compiling the WGSL compute shader to SPIR-V
// with gogpu/naga and submitting it to a Vulkan device.
//
// # Architecture Overview
//
// The executor owns a small dispatch pipeline:
//
//	WGSL -> naga -> SPIR-V -> ComputePipeline -> Dispatch -> Fence wait
//
// Key components:
//
//   - GPUExecutor: tri.Executor implementation, owns device and queue
//   - ColorDispatcher: compute pipeline, bind group layout, and the two
//     shared buffers (storage colors at binding 0, uniform selection at
//     binding 1)
//
// # Usage
//
// Programs normally never touch this package directly; importing
// github.com/gogpu/tri/gpu registers the executor when a device is
// present:
//
//	import _ "github.com/gogpu/tri/gpu"
//
// Direct construction is available for tools that want the error:
//
//	exec, err := gpu.New()
//	if err != nil {
//	    log.Printf("falling back to CPU: %v", err)
//	}
//	defer exec.Close()
//
// # Thread Safety
//
// GPUExecutor is safe for concurrent use from multiple goroutines.
// Internal synchronization is handled via mutexes.
//
// # Error Handling
//
// Common errors returned by this package:
//
//   - ErrNoDevice: no Vulkan backend or adapter found on the host
//   - ErrNotInitialized: executor used after Close or a failed init
//
// # Related Packages
//
//   - github.com/gogpu/tri: triangle pipeline and executor registry
//   - github.com/gogpu/wgpu: Pure Go WebGPU implementation
//   - github.com/gogpu/naga: WGSL to SPIR-V compiler
package gpu
