//go:build !nogpu

// Package gpu registers the GPU executor for hardware-accelerated color
// generation.
//
// Import this package to run the color generation compute stage on a
// wgpu/hal device instead of the built-in CPU kernel. The raster half of
// the pipeline is unaffected.
//
// If GPU initialization fails (no Vulkan available), the registration is
// skipped with a warning and the CPU executor stays in place.
//
// Usage:
//
//	import _ "github.com/gogpu/tri/gpu" // enable the GPU color generator
package gpu

import (
	"github.com/gogpu/tri"
	gpuimpl "github.com/gogpu/tri/internal/gpu"
)

func init() {
	exec, err := gpuimpl.New()
	if err != nil {
		tri.Logger().Warn("GPU executor not available", "err", err)
		return
	}
	if err := tri.RegisterExecutor(exec); err != nil {
		tri.Logger().Warn("GPU executor registration failed", "err", err)
	}
}

// SetDeviceProvider configures the GPU executor to use a shared GPU device
// from an external provider (e.g., a gogpu window). This avoids creating a
// separate GPU instance and enables efficient device sharing.
//
// The provider should implement HalDevice() any and HalQueue() any
// returning wgpu/hal types.
//
// Call this before dispatching, typically right after the window or
// surface that owns the device is created.
func SetDeviceProvider(provider any) error {
	return tri.SetExecutorDeviceProvider(provider)
}
