package tri

import (
	"testing"

	"github.com/gogpu/gpucontext"
	"github.com/gogpu/gputypes"
)

// mockDevice implements gpucontext.Device for testing.
type mockDevice struct{}

func (m *mockDevice) Poll(wait bool) {}
func (m *mockDevice) Destroy()       {}

// mockQueue implements gpucontext.Queue for testing.
type mockQueue struct{}

// mockAdapter implements gpucontext.Adapter for testing.
type mockAdapter struct{}

// mockProvider implements gpucontext.DeviceProvider for testing.
type mockProvider struct {
	device  gpucontext.Device
	queue   gpucontext.Queue
	adapter gpucontext.Adapter
	format  gputypes.TextureFormat
}

func newMockProvider() *mockProvider {
	return &mockProvider{
		device:  &mockDevice{},
		queue:   &mockQueue{},
		adapter: &mockAdapter{},
		format:  gputypes.TextureFormatBGRA8Unorm,
	}
}

func (m *mockProvider) Device() gpucontext.Device             { return m.device }
func (m *mockProvider) Queue() gpucontext.Queue               { return m.queue }
func (m *mockProvider) Adapter() gpucontext.Adapter           { return m.adapter }
func (m *mockProvider) SurfaceFormat() gputypes.TextureFormat { return m.format }

func TestUseDeviceProviderNil(t *testing.T) {
	if err := UseDeviceProvider(nil); err != nil {
		t.Errorf("UseDeviceProvider(nil) = %v, want nil", err)
	}
}

func TestNullDeviceHandle(t *testing.T) {
	var h DeviceHandle = NullDeviceHandle{}
	if h.Device() != nil || h.Queue() != nil || h.Adapter() != nil {
		t.Error("NullDeviceHandle exposes a device")
	}
	if got := h.SurfaceFormat(); got != gputypes.TextureFormatUndefined {
		t.Errorf("SurfaceFormat() = %v, want undefined", got)
	}

	t.Cleanup(resetExecutor)
	resetExecutor()
	if err := UseDeviceProvider(NullDeviceHandle{}); err != nil {
		t.Errorf("UseDeviceProvider(NullDeviceHandle{}) = %v, want nil", err)
	}
}

func TestUseDeviceProviderCPUNoop(t *testing.T) {
	t.Cleanup(resetExecutor)
	resetExecutor()

	// The CPU executor is not device-aware: sharing is a silent no-op.
	if err := UseDeviceProvider(newMockProvider()); err != nil {
		t.Errorf("UseDeviceProvider() with CPU executor = %v, want nil", err)
	}
}

func TestUseDeviceProviderForwardsToExecutor(t *testing.T) {
	t.Cleanup(resetExecutor)
	resetExecutor()

	mock := &mockExecutor{name: "aware"}
	if err := RegisterExecutor(mock); err != nil {
		t.Fatalf("RegisterExecutor() = %v", err)
	}

	provider := newMockProvider()
	if err := UseDeviceProvider(provider); err != nil {
		t.Fatalf("UseDeviceProvider() = %v", err)
	}

	mock.mu.Lock()
	got := mock.provider
	mock.mu.Unlock()
	if got != any(provider) {
		t.Errorf("executor received provider %v, want %v", got, provider)
	}
}
