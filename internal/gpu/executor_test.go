// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

//go:build !nogpu

package gpu

import (
	"errors"
	"testing"

	"github.com/gogpu/tri"
)

func TestExecutorName(t *testing.T) {
	e := &GPUExecutor{}
	if got := e.Name(); got != "vulkan" {
		t.Errorf("Name() = %q, want %q", got, "vulkan")
	}
}

// TestDispatchColorsNotInitialized verifies a closed or never-initialized
// executor refuses to dispatch.
func TestDispatchColorsNotInitialized(t *testing.T) {
	e := &GPUExecutor{}
	err := e.DispatchColors(tri.NewColorBuffer(), tri.Selection{0, 1, 2}, [3]uint32{1, 1, 1})
	if !errors.Is(err, ErrNotInitialized) {
		t.Fatalf("expected ErrNotInitialized, got %v", err)
	}
}

// TestDispatchColorsValidatesSelectionFirst checks the selection range
// before device state, so invalid input reports the same error on every
// backend.
func TestDispatchColorsValidatesSelectionFirst(t *testing.T) {
	e := &GPUExecutor{}
	err := e.DispatchColors(tri.NewColorBuffer(), tri.Selection{0, 1, 3}, [3]uint32{1, 1, 1})
	if !errors.Is(err, tri.ErrSelectionRange) {
		t.Fatalf("expected ErrSelectionRange, got %v", err)
	}
}

func TestDispatchColorsNilBuffer(t *testing.T) {
	e := &GPUExecutor{}
	if err := e.DispatchColors(nil, tri.Selection{}, [3]uint32{1, 1, 1}); err == nil {
		t.Fatal("expected error for nil buffer")
	}
}

func TestCloseIdempotent(t *testing.T) {
	e := &GPUExecutor{}
	if err := e.Close(); err != nil {
		t.Fatalf("first Close failed: %v", err)
	}
	if err := e.Close(); err != nil {
		t.Fatalf("second Close failed: %v", err)
	}
}

type emptyProvider struct{}

type nilHALProvider struct{}

func (nilHALProvider) HalDevice() any { return nil }
func (nilHALProvider) HalQueue() any  { return nil }

func TestSetDeviceProviderRejectsNonHAL(t *testing.T) {
	e := &GPUExecutor{}
	if err := e.SetDeviceProvider(emptyProvider{}); err == nil {
		t.Fatal("expected error for provider without HAL accessors")
	}
}

func TestSetDeviceProviderRejectsNilDevice(t *testing.T) {
	e := &GPUExecutor{}
	if err := e.SetDeviceProvider(nilHALProvider{}); err == nil {
		t.Fatal("expected error for nil HAL device")
	}
}

func TestDispatcherRequiresInit(t *testing.T) {
	d := NewColorDispatcher(nil, nil)
	err := d.Dispatch(make([]byte, selectionBufferSize), [3]uint32{1, 1, 1})
	if err == nil {
		t.Fatal("expected error before Init")
	}
}

// TestGPUExecutorScenarios runs real dispatches when a device is present.
func TestGPUExecutorScenarios(t *testing.T) {
	e, err := New()
	if err != nil {
		t.Skipf("GPU not available: %v", err)
	}
	defer e.Close()

	buf := tri.NewColorBuffer()
	if err := e.DispatchColors(buf, tri.Selection{0, 1, 2}, [3]uint32{1, 1, 1}); err != nil {
		t.Fatalf("DispatchColors failed: %v", err)
	}
	want := [tri.ColorSlots]tri.RGBA{tri.Red, tri.Green, tri.Blue}
	if got := buf.Snapshot(); got != want {
		t.Errorf("identity selection: got %v, want %v", got, want)
	}

	if err := e.DispatchColors(buf, tri.UniformSelection(2), [3]uint32{1, 1, 1}); err != nil {
		t.Fatalf("DispatchColors failed: %v", err)
	}
	for i, c := range buf.Snapshot() {
		if c != tri.Blue {
			t.Errorf("slot %d = %v, want blue", i, c)
		}
	}
}

// TestGPUExecutorOversizedDispatch verifies that extra workgroups change
// nothing: threads past the slot count are suppressed by the kernel guard.
func TestGPUExecutorOversizedDispatch(t *testing.T) {
	e, err := New()
	if err != nil {
		t.Skipf("GPU not available: %v", err)
	}
	defer e.Close()

	buf := tri.NewColorBuffer()
	if err := e.DispatchColors(buf, tri.Selection{2, 1, 0}, [3]uint32{4, 1, 1}); err != nil {
		t.Fatalf("DispatchColors failed: %v", err)
	}
	want := [tri.ColorSlots]tri.RGBA{tri.Blue, tri.Green, tri.Red}
	if got := buf.Snapshot(); got != want {
		t.Errorf("oversized dispatch: got %v, want %v", got, want)
	}
}
