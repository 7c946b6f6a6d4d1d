// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

//go:build !nogpu

package gpu

import (
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/gogpu/gputypes"
	"github.com/gogpu/tri"
	"github.com/gogpu/tri/internal/raster"
	"github.com/gogpu/wgpu/hal"

	// Import Vulkan backend so it registers via init().
	_ "github.com/gogpu/wgpu/hal/vulkan"
)

// Package errors for the GPU path. GPU unavailability surfaces at
// construction; callers keep the CPU executor and log a warning.
var (
	// ErrNoDevice is returned by New when no usable Vulkan backend or
	// adapter exists on the host.
	ErrNoDevice = errors.New("color compute: no GPU device available")

	// ErrNotInitialized is returned by DispatchColors after Close or
	// when no GPU device is ready.
	ErrNotInitialized = errors.New("color compute: executor not initialized")
)

// GPUExecutor runs the color generation compute stage on a wgpu/hal
// device. It implements tri.Executor; install it with tri.RegisterExecutor
// or via a blank import of the gpu registration package.
//
// The executor owns a standalone Vulkan device unless SetDeviceProvider
// hands it a shared one.
type GPUExecutor struct {
	mu sync.Mutex

	instance hal.Instance
	device   hal.Device
	queue    hal.Queue

	dispatcher *ColorDispatcher

	gpuReady       bool
	externalDevice bool // true when using shared device (don't destroy on Close)
}

// Interface compliance checks.
var _ tri.Executor = (*GPUExecutor)(nil)
var _ tri.DeviceProviderAware = (*GPUExecutor)(nil)

// New creates a GPU executor backed by a standalone Vulkan device.
// It fails when no Vulkan backend or adapter is available, or when the
// color pipeline cannot be built; callers keep the CPU executor in that
// case.
func New() (*GPUExecutor, error) {
	e := &GPUExecutor{}
	if err := e.initGPU(); err != nil {
		e.Close()
		return nil, err
	}
	return e, nil
}

// Name returns the executor identifier.
func (e *GPUExecutor) Name() string { return "vulkan" }

// SetLogger sets the logger for the executor and its internal packages.
// Called by tri.SetLogger to propagate logging configuration.
func (e *GPUExecutor) SetLogger(l *slog.Logger) {
	setLogger(l)
}

// initGPU creates a standalone Vulkan device for compute-only use.
// This is the default path when no external device is provided via
// SetDeviceProvider.
func (e *GPUExecutor) initGPU() error {
	backend, ok := hal.GetBackend(gputypes.BackendVulkan)
	if !ok {
		return fmt.Errorf("%w: vulkan backend not registered", ErrNoDevice)
	}
	instance, err := backend.CreateInstance(&hal.InstanceDescriptor{Flags: 0})
	if err != nil {
		return fmt.Errorf("create instance: %w", err)
	}
	e.instance = instance

	adapters := instance.EnumerateAdapters(nil)
	if len(adapters) == 0 {
		return fmt.Errorf("%w: no adapters found", ErrNoDevice)
	}

	var selected *hal.ExposedAdapter
	for i := range adapters {
		if adapters[i].Info.DeviceType == gputypes.DeviceTypeDiscreteGPU ||
			adapters[i].Info.DeviceType == gputypes.DeviceTypeIntegratedGPU {
			selected = &adapters[i]
			break
		}
	}
	if selected == nil {
		selected = &adapters[0]
	}

	openDev, err := selected.Adapter.Open(gputypes.Features(0), gputypes.DefaultLimits())
	if err != nil {
		return fmt.Errorf("open device: %w", err)
	}
	e.device = openDev.Device
	e.queue = openDev.Queue

	dispatcher := NewColorDispatcher(e.device, e.queue)
	if err := dispatcher.Init(); err != nil {
		return fmt.Errorf("init color pipeline: %w", err)
	}
	e.dispatcher = dispatcher

	e.gpuReady = true
	slogger().Info("color compute: GPU initialized (standalone)", "adapter", selected.Info.Name)
	return nil
}

// SetDeviceProvider switches the executor to a shared GPU device from an
// external provider (e.g., a gogpu window). The provider must implement
// HalDevice() any and HalQueue() any returning hal.Device and hal.Queue.
func (e *GPUExecutor) SetDeviceProvider(provider any) error {
	type halProvider interface {
		HalDevice() any
		HalQueue() any
	}
	hp, ok := provider.(halProvider)
	if !ok {
		return fmt.Errorf("color compute: provider does not expose HAL types")
	}
	device, ok := hp.HalDevice().(hal.Device)
	if !ok || device == nil {
		return fmt.Errorf("color compute: provider HalDevice is not hal.Device")
	}
	queue, ok := hp.HalQueue().(hal.Queue)
	if !ok || queue == nil {
		return fmt.Errorf("color compute: provider HalQueue is not hal.Queue")
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	// Destroy own resources if we created them.
	if e.dispatcher != nil {
		e.dispatcher.Close()
		e.dispatcher = nil
	}
	if !e.externalDevice && e.device != nil {
		e.device.Destroy()
	}
	if e.instance != nil {
		e.instance.Destroy()
		e.instance = nil
	}

	// Use provided resources.
	e.device = device
	e.queue = queue
	e.externalDevice = true

	dispatcher := NewColorDispatcher(device, queue)
	if err := dispatcher.Init(); err != nil {
		e.gpuReady = false
		return fmt.Errorf("color compute: init pipeline on shared device: %w", err)
	}
	e.dispatcher = dispatcher

	e.gpuReady = true
	slogger().Debug("color compute: switched to shared GPU device")
	return nil
}

// DispatchColors runs the color generation stage on the GPU and publishes
// the results to dst.
//
// HAL buffer mapping is not implemented yet, so the device-side color
// buffer cannot be read back; the same kernel runs once more on the host
// to publish identical values to dst.
// TODO: read colors back from the GPU buffer once HAL mapping lands.
func (e *GPUExecutor) DispatchColors(dst *tri.ColorBuffer, sel tri.Selection, groups [3]uint32) error {
	if dst == nil {
		return errors.New("color compute: dispatch into nil color buffer")
	}
	if err := sel.Validate(); err != nil {
		return err
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	if !e.gpuReady || e.dispatcher == nil {
		return ErrNotInitialized
	}

	if err := e.dispatcher.Dispatch(sel.Bytes(), groups); err != nil {
		return err
	}

	// Host mirror of the dispatch the device just ran. Suppressed threads
	// leave their slots as they were, so start from the current contents.
	var colors [raster.SlotCount][4]float32
	for i := range colors {
		colors[i] = dst.At(i).Array()
	}
	threads := groups[0] * raster.GroupSizeX
	for t := range threads {
		raster.ColorGen(t, sel, &colors)
	}
	for i, c := range colors {
		dst.Set(i, tri.FromArray(c))
	}
	return nil
}

// Close releases all GPU resources held by the executor.
func (e *GPUExecutor) Close() error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.dispatcher != nil {
		e.dispatcher.Close()
		e.dispatcher = nil
	}

	if !e.externalDevice {
		if e.device != nil {
			e.device.Destroy()
			e.device = nil
		}
		if e.instance != nil {
			e.instance.Destroy()
			e.instance = nil
		}
	} else {
		// Don't destroy shared resources -- we don't own them.
		e.device = nil
		e.instance = nil
	}
	e.queue = nil
	e.gpuReady = false
	e.externalDevice = false
	return nil
}
