package tri

import (
	"errors"
	"fmt"
	"image"
)

// Command stream errors.
var (
	// ErrPassActive is returned when the encoder is asked to do something
	// while a pass is still recording.
	ErrPassActive = errors.New("tri: another pass is still recording")

	// ErrPassEnded is returned when operations are called on an ended pass.
	ErrPassEnded = errors.New("tri: pass has already ended")

	// ErrEncoderFinished is returned when operations are called on a
	// finished encoder.
	ErrEncoderFinished = errors.New("tri: command encoder has already finished")

	// ErrNilTarget is returned when BeginRenderPass is called with a nil
	// target image.
	ErrNilTarget = errors.New("tri: render target is nil")
)

// CommandType identifies the type of a recorded command.
type CommandType uint8

const (
	// CmdComputePass runs the color generator.
	CmdComputePass CommandType = iota

	// CmdBarrier orders compute writes before later raster reads.
	CmdBarrier

	// CmdRenderPass rasterizes the triangle into a target image.
	CmdRenderPass
)

// commandTypeNames maps CommandType values to their string representation.
var commandTypeNames = [...]string{
	CmdComputePass: "ComputePass",
	CmdBarrier:     "Barrier",
	CmdRenderPass:  "RenderPass",
}

// String returns the string representation of a CommandType.
func (c CommandType) String() string {
	if int(c) < len(commandTypeNames) {
		return commandTypeNames[c]
	}
	return "Unknown"
}

// Command is the interface implemented by all recorded commands.
type Command interface {
	// Type returns the CommandType for this command.
	Type() CommandType
}

// dispatchCall records one Dispatch with the selection in effect when it
// was issued.
type dispatchCall struct {
	selection Selection
	groups    [3]uint32
}

// computePassCommand records one compute pass.
type computePassCommand struct {
	dispatches []dispatchCall
}

// Type implements Command.
func (computePassCommand) Type() CommandType { return CmdComputePass }

// barrierCommand records a buffer barrier between the compute writes and
// subsequent raster reads of the color buffer.
type barrierCommand struct{}

// Type implements Command.
func (barrierCommand) Type() CommandType { return CmdBarrier }

// drawCall records the arguments of one Draw.
type drawCall struct {
	vertexCount   uint32
	instanceCount uint32
	firstVertex   uint32
	firstInstance uint32
}

// renderPassCommand records one render pass.
type renderPassCommand struct {
	target     *image.RGBA
	clearColor RGBA
	draws      []drawCall
}

// Type implements Command.
func (renderPassCommand) Type() CommandType { return CmdRenderPass }

// PassState represents the state of a pass encoder.
type PassState int

const (
	// PassStateRecording means the pass is actively recording commands.
	PassStateRecording PassState = iota

	// PassStateEnded means the pass has been ended.
	PassStateEnded
)

// String returns the string representation of PassState.
func (s PassState) String() string {
	switch s {
	case PassStateRecording:
		return "Recording"
	case PassStateEnded:
		return "Ended"
	default:
		return fmt.Sprintf("Unknown(%d)", int(s))
	}
}

// CommandEncoder records an ordered stream of compute passes, barriers,
// and render passes, then produces a CommandBuffer when Finish is called.
//
// Only one pass may record at a time (ErrPassActive), and the encoder is
// single-use: after Finish every operation fails with ErrEncoderFinished.
//
// CommandEncoder is NOT safe for concurrent use. All commands must be
// recorded from a single goroutine.
type CommandEncoder struct {
	commands   []Command
	activePass bool
	finished   bool
}

// NewCommandEncoder creates an empty command encoder.
func NewCommandEncoder() *CommandEncoder {
	return &CommandEncoder{commands: make([]Command, 0, 4)}
}

// BeginComputePass begins a compute pass for color generator dispatches.
// The pass must be ended before the encoder records anything else.
func (e *CommandEncoder) BeginComputePass() (*ComputePass, error) {
	if e.finished {
		return nil, ErrEncoderFinished
	}
	if e.activePass {
		return nil, ErrPassActive
	}
	e.activePass = true
	return &ComputePass{encoder: e}, nil
}

// Barrier records a buffer barrier ordering the color buffer writes of
// preceding compute passes before the reads of subsequent render passes.
// Submit rejects streams where a render pass consumes unbarriered writes.
func (e *CommandEncoder) Barrier() error {
	if e.finished {
		return ErrEncoderFinished
	}
	if e.activePass {
		return ErrPassActive
	}
	e.commands = append(e.commands, barrierCommand{})
	return nil
}

// BeginRenderPass begins a render pass targeting img. The target is
// cleared to clearColor before the first draw.
func (e *CommandEncoder) BeginRenderPass(img *image.RGBA, clearColor RGBA) (*RenderPass, error) {
	if e.finished {
		return nil, ErrEncoderFinished
	}
	if e.activePass {
		return nil, ErrPassActive
	}
	if img == nil {
		return nil, ErrNilTarget
	}
	e.activePass = true
	return &RenderPass{
		encoder: e,
		cmd:     renderPassCommand{target: img, clearColor: clearColor},
	}, nil
}

// Finish completes the encoder and returns the recorded command buffer.
// The encoder cannot be used after calling Finish.
func (e *CommandEncoder) Finish() (*CommandBuffer, error) {
	if e.finished {
		return nil, ErrEncoderFinished
	}
	if e.activePass {
		return nil, ErrPassActive
	}
	e.finished = true
	cb := &CommandBuffer{commands: e.commands}
	e.commands = nil
	return cb, nil
}

// endPass is called by passes when they end.
func (e *CommandEncoder) endPass(cmd Command) {
	e.commands = append(e.commands, cmd)
	e.activePass = false
}

// ComputePass records color generator work within a command stream.
//
// Lifecycle:
//  1. Created by CommandEncoder.BeginComputePass
//  2. Record commands (SetSelection, Dispatch)
//  3. Call End to complete the pass
//
// State machine:
//
//	Recording -> End() -> Ended
//
// ComputePass is NOT safe for concurrent use.
type ComputePass struct {
	encoder *CommandEncoder
	state   PassState
	current Selection
	cmd     computePassCommand
}

// State returns the current pass state.
func (p *ComputePass) State() PassState { return p.state }

// SetSelection sets the palette selection for subsequent dispatches.
// Dispatches issued before any SetSelection use the zero selection
// (every slot red).
func (p *ComputePass) SetSelection(sel Selection) error {
	if p.state != PassStateRecording {
		return ErrPassEnded
	}
	p.current = sel
	return nil
}

// Dispatch records a color generator dispatch with the given workgroup
// counts per axis. The selection in effect is captured with the dispatch.
func (p *ComputePass) Dispatch(groupsX, groupsY, groupsZ uint32) error {
	if p.state != PassStateRecording {
		return ErrPassEnded
	}
	p.cmd.dispatches = append(p.cmd.dispatches, dispatchCall{
		selection: p.current,
		groups:    [3]uint32{groupsX, groupsY, groupsZ},
	})
	return nil
}

// End finishes the pass. The parent encoder can then record further
// commands.
func (p *ComputePass) End() error {
	if p.state != PassStateRecording {
		return ErrPassEnded
	}
	p.state = PassStateEnded
	p.encoder.endPass(p.cmd)
	return nil
}

// RenderPass records draw work within a command stream.
//
// Lifecycle:
//  1. Created by CommandEncoder.BeginRenderPass
//  2. Record draws (Draw, DrawTriangle)
//  3. Call End to complete the pass
//
// State machine:
//
//	Recording -> End() -> Ended
//
// RenderPass is NOT safe for concurrent use.
type RenderPass struct {
	encoder *CommandEncoder
	state   PassState
	cmd     renderPassCommand
}

// State returns the current pass state.
func (p *RenderPass) State() PassState { return p.state }

// Draw records a draw call of vertexCount vertices and instanceCount
// instances starting at firstVertex and firstInstance. The pipeline draws
// one triangle; Submit enforces Draw(3, 1, 0, 0).
func (p *RenderPass) Draw(vertexCount, instanceCount, firstVertex, firstInstance uint32) error {
	if p.state != PassStateRecording {
		return ErrPassEnded
	}
	p.cmd.draws = append(p.cmd.draws, drawCall{
		vertexCount:   vertexCount,
		instanceCount: instanceCount,
		firstVertex:   firstVertex,
		firstInstance: firstInstance,
	})
	return nil
}

// DrawTriangle records the canonical one-triangle draw: 3 vertices,
// 1 instance, no offsets.
func (p *RenderPass) DrawTriangle() error {
	return p.Draw(VertexCount, 1, 0, 0)
}

// End finishes the pass. No more draws can be recorded after this.
func (p *RenderPass) End() error {
	if p.state != PassStateRecording {
		return ErrPassEnded
	}
	p.state = PassStateEnded
	p.encoder.endPass(p.cmd)
	return nil
}

// CommandBuffer is an immutable recorded command stream ready for Submit.
type CommandBuffer struct {
	commands []Command
}

// Len returns the number of recorded commands.
func (b *CommandBuffer) Len() int { return len(b.commands) }

// Commands returns a copy of the recorded commands in submission order.
func (b *CommandBuffer) Commands() []Command {
	out := make([]Command, len(b.commands))
	copy(out, b.commands)
	return out
}
