package tri

import (
	"github.com/gogpu/gpucontext"
	"github.com/gogpu/gputypes"
)

// DeviceHandle is the device-sharing seam between the host and a GPU
// executor. Any gpucontext provider works; GPU executors additionally
// expect the concrete type to expose wgpu/hal handles via
// HalDevice() any and HalQueue() any.
type DeviceHandle = gpucontext.DeviceProvider

// NullDeviceHandle is a DeviceHandle with no device behind it. It
// satisfies the interface for hosts that render CPU-only; a GPU executor
// rejects it because it exposes no hal handles.
type NullDeviceHandle struct{}

// Device returns nil.
func (NullDeviceHandle) Device() gpucontext.Device { return nil }

// Queue returns nil.
func (NullDeviceHandle) Queue() gpucontext.Queue { return nil }

// Adapter returns nil.
func (NullDeviceHandle) Adapter() gpucontext.Adapter { return nil }

// AdapterInfo returns the unknown adapter info; there is no adapter.
func (NullDeviceHandle) AdapterInfo() gpucontext.AdapterInfo {
	return gpucontext.AdapterInfo{Type: gpucontext.AdapterTypeUnknown}
}

// SurfaceFormat returns the undefined format; there is no surface.
func (NullDeviceHandle) SurfaceFormat() gputypes.TextureFormat {
	return gputypes.TextureFormatUndefined
}

// UseDeviceProvider shares an externally owned GPU device with the
// registered executor. The provider is typically a gogpu window; any
// DeviceHandle works when its concrete type also exposes the wgpu/hal
// handles via HalDevice() any and HalQueue() any.
//
// Calling UseDeviceProvider with nil is a no-op. When the active executor
// does not support device sharing (the CPU executor does not), the call is
// a no-op as well.
func UseDeviceProvider(p DeviceHandle) error {
	if p == nil {
		return nil
	}
	return SetExecutorDeviceProvider(p)
}
