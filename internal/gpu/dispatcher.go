// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

//go:build !nogpu

// dispatcher.go defines the GPU dispatch path for the color generation
// compute stage: shader compilation, the two-binding pipeline, and the
// single-pass dispatch that mirrors the CPU kernel in internal/raster.

package gpu

import (
	"fmt"
	"sync"
	"time"

	"github.com/gogpu/gputypes"
	"github.com/gogpu/tri/internal/shader"
	"github.com/gogpu/wgpu/hal"
)

const (
	// colorBufferSize is three vec4<f32> slots.
	colorBufferSize = 3 * 4 * 4

	// selectionBufferSize is one vec4<u32>: three palette indices and a
	// pad word. Must match the wire form tri.Selection produces.
	selectionBufferSize = 4 * 4

	// fenceTimeout bounds how long a dispatch waits for the GPU.
	fenceTimeout = 5 * time.Second
)

// ColorDispatcher owns the GPU half of the color generation stage: the
// compiled compute pipeline and the two buffers it binds.
//
// The color buffer at binding 0 is the device-side storage the compute
// stage writes; the selection uniform at binding 1 carries the palette
// indices for one dispatch.
type ColorDispatcher struct {
	mu sync.RWMutex

	device hal.Device
	queue  hal.Queue

	pipeline       hal.ComputePipeline
	pipelineLayout hal.PipelineLayout
	bgLayout       hal.BindGroupLayout
	shaderModule   hal.ShaderModule

	colorBuf     hal.Buffer
	selectionBuf hal.Buffer

	initialized bool
}

// NewColorDispatcher creates a dispatcher attached to the given HAL device
// and queue. The dispatcher must be initialized with Init() before
// Dispatch() can be called.
func NewColorDispatcher(device hal.Device, queue hal.Queue) *ColorDispatcher {
	return &ColorDispatcher{device: device, queue: queue}
}

// Init compiles the color generator shader and creates the compute
// pipeline and its buffers. It is safe to call Init multiple times;
// subsequent calls are no-ops if already initialized.
func (d *ColorDispatcher) Init() error {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.initialized {
		return nil
	}

	spirv, err := shader.CompileToSPIRV(shader.ColorGen())
	if err != nil {
		return fmt.Errorf("color compute: compile color_gen.wgsl: %w", err)
	}

	module, err := d.device.CreateShaderModule(&hal.ShaderModuleDescriptor{
		Label:  "color_gen",
		Source: hal.ShaderSource{SPIRV: spirv},
	})
	if err != nil {
		return fmt.Errorf("color compute: create shader module: %w", err)
	}
	d.shaderModule = module

	// Layout entries match the @group(0) @binding(N) annotations in
	// color_gen.wgsl exactly: read_write storage at 0, uniform at 1.
	bgLayout, err := d.device.CreateBindGroupLayout(&hal.BindGroupLayoutDescriptor{
		Label: "color_gen_bgl",
		Entries: []gputypes.BindGroupLayoutEntry{
			{
				Binding:    shader.BindingColors,
				Visibility: gputypes.ShaderStageCompute,
				Buffer:     &gputypes.BufferBindingLayout{Type: gputypes.BufferBindingTypeStorage},
			},
			{
				Binding:    shader.BindingSelection,
				Visibility: gputypes.ShaderStageCompute,
				Buffer:     &gputypes.BufferBindingLayout{Type: gputypes.BufferBindingTypeUniform},
			},
		},
	})
	if err != nil {
		d.destroyLocked()
		return fmt.Errorf("color compute: create bind group layout: %w", err)
	}
	d.bgLayout = bgLayout

	pipelineLayout, err := d.device.CreatePipelineLayout(&hal.PipelineLayoutDescriptor{
		Label:            "color_gen_pl",
		BindGroupLayouts: []hal.BindGroupLayout{bgLayout},
	})
	if err != nil {
		d.destroyLocked()
		return fmt.Errorf("color compute: create pipeline layout: %w", err)
	}
	d.pipelineLayout = pipelineLayout

	pipeline, err := d.device.CreateComputePipeline(&hal.ComputePipelineDescriptor{
		Label:  "color_gen",
		Layout: pipelineLayout,
		Compute: hal.ComputeState{
			Module:     module,
			EntryPoint: shader.EntryCompute,
		},
	})
	if err != nil {
		d.destroyLocked()
		return fmt.Errorf("color compute: create compute pipeline: %w", err)
	}
	d.pipeline = pipeline

	if err := d.allocateBuffers(); err != nil {
		d.destroyLocked()
		return err
	}

	d.initialized = true
	slogger().Info("color compute: pipeline initialized", "spirv_words", len(spirv))
	return nil
}

// allocateBuffers creates the two device buffers the pipeline binds.
// The color buffer is zero-filled so suppressed threads leave well-defined
// contents behind.
func (d *ColorDispatcher) allocateBuffers() error {
	type bufSpec struct {
		target   *hal.Buffer
		label    string
		size     uint64
		usage    gputypes.BufferUsage
		zeroInit bool
	}

	specs := []bufSpec{
		{&d.colorBuf, "color_gen_colors", colorBufferSize,
			gputypes.BufferUsageStorage | gputypes.BufferUsageCopyDst | gputypes.BufferUsageCopySrc, true},
		{&d.selectionBuf, "color_gen_selection", selectionBufferSize,
			gputypes.BufferUsageUniform | gputypes.BufferUsageCopyDst, false},
	}

	for _, s := range specs {
		buf, err := d.device.CreateBuffer(&hal.BufferDescriptor{
			Label: s.label,
			Size:  s.size,
			Usage: s.usage,
		})
		if err != nil {
			return fmt.Errorf("color compute: create %s buffer: %w", s.label, err)
		}
		*s.target = buf

		if s.zeroInit {
			d.queue.WriteBuffer(buf, 0, make([]byte, s.size))
		}
	}
	return nil
}

// destroyLocked releases all pipeline resources. Used both for Close and
// for unwinding a failed Init. Callers must hold d.mu.
func (d *ColorDispatcher) destroyLocked() {
	if d.colorBuf != nil {
		d.device.DestroyBuffer(d.colorBuf)
		d.colorBuf = nil
	}
	if d.selectionBuf != nil {
		d.device.DestroyBuffer(d.selectionBuf)
		d.selectionBuf = nil
	}
	if d.pipeline != nil {
		d.device.DestroyComputePipeline(d.pipeline)
		d.pipeline = nil
	}
	if d.pipelineLayout != nil {
		d.device.DestroyPipelineLayout(d.pipelineLayout)
		d.pipelineLayout = nil
	}
	if d.bgLayout != nil {
		d.device.DestroyBindGroupLayout(d.bgLayout)
		d.bgLayout = nil
	}
	if d.shaderModule != nil {
		d.device.DestroyShaderModule(d.shaderModule)
		d.shaderModule = nil
	}
	d.initialized = false
}

// Close releases all GPU resources held by the dispatcher.
// After Close, the dispatcher must be re-initialized with Init() before use.
func (d *ColorDispatcher) Close() {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.destroyLocked()
}

// frameResources tracks per-dispatch GPU resources for cleanup.
type frameResources struct {
	device     hal.Device
	bindGroups []hal.BindGroup
	cmdBuf     hal.CommandBuffer
	fence      hal.Fence
}

// cleanup destroys all tracked per-dispatch resources.
func (r *frameResources) cleanup() {
	if r.fence != nil {
		r.device.DestroyFence(r.fence)
	}
	if r.cmdBuf != nil {
		r.device.FreeCommandBuffer(r.cmdBuf)
	}
	for _, g := range r.bindGroups {
		r.device.DestroyBindGroup(g)
	}
}

// Dispatch uploads the 16-byte selection uniform and runs one compute
// pass over the given workgroup grid. selData must be the wire form
// tri.Selection produces; groups counts workgroups per axis, so with the
// fixed (3, 1, 1) workgroup size a (1, 1, 1) grid runs three threads.
func (d *ColorDispatcher) Dispatch(selData []byte, groups [3]uint32) error {
	d.mu.RLock()
	defer d.mu.RUnlock()

	if !d.initialized {
		return fmt.Errorf("color compute: dispatcher not initialized, call Init() first")
	}
	if len(selData) != selectionBufferSize {
		return fmt.Errorf("color compute: selection is %d bytes, want %d", len(selData), selectionBufferSize)
	}

	d.queue.WriteBuffer(d.selectionBuf, 0, selData)

	res := &frameResources{device: d.device}
	defer res.cleanup()

	if err := d.encodePass(res, groups); err != nil {
		return err
	}
	return d.submitAndWait(res)
}

// encodePass records the single compute pass into a command buffer.
func (d *ColorDispatcher) encodePass(res *frameResources, groups [3]uint32) error {
	encoder, err := d.device.CreateCommandEncoder(&hal.CommandEncoderDescriptor{
		Label: "color_gen",
	})
	if err != nil {
		return fmt.Errorf("color compute: create command encoder: %w", err)
	}

	if err := encoder.BeginEncoding("color_gen"); err != nil {
		return fmt.Errorf("color compute: begin encoding: %w", err)
	}

	bg, err := d.device.CreateBindGroup(&hal.BindGroupDescriptor{
		Label:  "color_gen_bg",
		Layout: d.bgLayout,
		Entries: []gputypes.BindGroupEntry{
			{
				Binding: shader.BindingColors,
				Resource: gputypes.BufferBinding{
					Buffer: d.colorBuf.NativeHandle(),
					Offset: 0,
					Size:   0, // 0 = entire buffer
				},
			},
			{
				Binding: shader.BindingSelection,
				Resource: gputypes.BufferBinding{
					Buffer: d.selectionBuf.NativeHandle(),
					Offset: 0,
					Size:   0,
				},
			},
		},
	})
	if err != nil {
		encoder.DiscardEncoding()
		return fmt.Errorf("color compute: create bind group: %w", err)
	}
	res.bindGroups = append(res.bindGroups, bg)

	pass := encoder.BeginComputePass(&hal.ComputePassDescriptor{
		Label: "color_gen",
	})
	pass.SetPipeline(d.pipeline)
	pass.SetBindGroup(0, bg, nil)
	pass.Dispatch(groups[0], groups[1], groups[2])
	pass.End()

	cmdBuf, err := encoder.EndEncoding()
	if err != nil {
		return fmt.Errorf("color compute: end encoding: %w", err)
	}
	res.cmdBuf = cmdBuf

	slogger().Debug("color compute: pass encoded",
		"workgroups", groups[0],
		"threads", groups[0]*3)
	return nil
}

// submitAndWait submits the command buffer and waits for GPU completion.
func (d *ColorDispatcher) submitAndWait(res *frameResources) error {
	subIdx, err := d.queue.Submit([]hal.CommandBuffer{res.cmdBuf})
	if err != nil {
		return fmt.Errorf("color compute: submit: %w", err)
	}

	deadline := time.Now().Add(fenceTimeout)
	for d.queue.PollCompleted() < subIdx {
		if time.Now().After(deadline) {
			return fmt.Errorf("color compute: GPU timeout after %v", fenceTimeout)
		}
		time.Sleep(100 * time.Microsecond)
	}
	return nil
}
