package tri

import (
	"errors"
	"sync"

	"github.com/gogpu/tri/internal/raster"
)

// Executor runs the color generator stage against a ColorBuffer.
//
// The default executor runs the Go kernel on the CPU. GPU backend packages
// replace it via RegisterExecutor; users opt in with a blank import:
//
//	import _ "github.com/gogpu/tri/gpu" // enables the GPU color generator
type Executor interface {
	// Name returns the executor name (e.g. "cpu", "vulkan").
	Name() string

	// DispatchColors runs the color generator over the given workgroup
	// grid and publishes the results to dst. The workgroup size is the
	// fixed (3, 1, 1); groups counts workgroups per axis, so
	// groups[0]*3 threads run along x. Threads with index >= 3 are
	// suppressed by the kernel guard and never write.
	//
	// The selection is validated first; an index outside the palette
	// returns ErrSelectionRange and leaves dst untouched.
	DispatchColors(dst *ColorBuffer, sel Selection, groups [3]uint32) error

	// Close releases executor resources.
	Close() error
}

// DeviceProviderAware is an optional interface for executors that can
// share a GPU device with an external provider (e.g., a gogpu window).
// When SetDeviceProvider is called, the executor reuses the provided GPU
// device instead of creating its own.
type DeviceProviderAware interface {
	SetDeviceProvider(provider any) error
}

// CPUExecutor runs the color generator kernel on the host. It is the
// default executor and needs no initialization.
type CPUExecutor struct{}

// Name returns "cpu".
func (CPUExecutor) Name() string { return "cpu" }

// DispatchColors runs the kernel once per thread of the dispatch grid.
func (CPUExecutor) DispatchColors(dst *ColorBuffer, sel Selection, groups [3]uint32) error {
	if dst == nil {
		return errors.New("tri: dispatch into nil color buffer")
	}
	if err := sel.Validate(); err != nil {
		return err
	}

	colors := dst.floats()

	// The kernel reads only the x coordinate of the invocation ID, so one
	// sweep along x covers every distinct thread. Each invocation writes
	// at most its own slot; run them concurrently like the workgroup
	// they model.
	threads := groups[0] * raster.GroupSizeX
	var wg sync.WaitGroup
	for t := range threads {
		wg.Add(1)
		go func() {
			defer wg.Done()
			raster.ColorGen(t, sel, &colors)
		}()
	}
	wg.Wait()

	dst.setFloats(colors)
	return nil
}

// Close implements Executor. It is a no-op for the CPU executor.
func (CPUExecutor) Close() error { return nil }

var (
	execMu sync.RWMutex
	exec   Executor = CPUExecutor{}
)

// RegisterExecutor installs e as the process-wide color generator backend.
//
// Only one executor is active at a time. Subsequent calls replace the
// previous one; the replaced executor is closed. Registration passes the
// current logger to executors that accept one.
//
// Typical usage via init in GPU backend packages:
//
//	func init() {
//	    tri.RegisterExecutor(newVulkanExecutor())
//	}
func RegisterExecutor(e Executor) error {
	if e == nil {
		return errors.New("tri: executor must not be nil")
	}
	propagateLogger(e, Logger())
	execMu.Lock()
	old := exec
	exec = e
	execMu.Unlock()
	if old != nil {
		if err := old.Close(); err != nil {
			Logger().Warn("closing replaced executor", "executor", old.Name(), "err", err)
		}
	}
	return nil
}

// ActiveExecutor returns the executor that will run the next dispatch.
func ActiveExecutor() Executor {
	execMu.RLock()
	e := exec
	execMu.RUnlock()
	return e
}

// SetExecutorDeviceProvider passes a device provider to the registered
// executor, enabling GPU device sharing. If no executor is registered or
// it does not support device sharing, this is a no-op.
//
// The provider should implement HalDevice() any and HalQueue() any methods
// that return wgpu/hal types.
func SetExecutorDeviceProvider(provider any) error {
	e := ActiveExecutor()
	if e == nil {
		return nil
	}
	if dpa, ok := e.(DeviceProviderAware); ok {
		return dpa.SetDeviceProvider(provider)
	}
	return nil
}
