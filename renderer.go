package tri

import (
	"errors"
	"fmt"
	"image"
	"image/draw"

	"github.com/gogpu/tri/internal/raster"
)

// Submit errors.
var (
	// ErrMissingBarrier is returned when a render pass consumes the color
	// buffer with no barrier after the compute pass that wrote it.
	ErrMissingBarrier = errors.New("tri: render pass reads color buffer without barrier after compute writes")

	// ErrDispatchShape is returned for a recorded dispatch that is not
	// exactly one workgroup.
	ErrDispatchShape = errors.New("tri: dispatch must be exactly one workgroup")

	// ErrDrawShape is returned for a recorded draw that is not the one
	// triangle.
	ErrDrawShape = errors.New("tri: draw must cover exactly 3 vertices in 1 instance")
)

// RendererConfig configures a Renderer. The zero value selects the
// process-wide executor at submit time.
type RendererConfig struct {
	// Executor overrides the registered executor for this renderer.
	Executor Executor
}

// Renderer owns the shared color buffer and executes command buffers.
//
// Submit runs recorded compute passes through the executor, orders them
// against raster reads via the recorded barriers, and rasterizes recorded
// draws into their targets with the vertex and pixel stages.
//
// Renderer methods are safe for concurrent use only to the extent the
// underlying ColorBuffer is; submitting command buffers concurrently with
// each other interleaves their passes.
type Renderer struct {
	colors *ColorBuffer
	cfg    RendererConfig
}

// NewRenderer creates a renderer with a fresh color buffer and the zero
// configuration.
func NewRenderer() *Renderer {
	return NewRendererWith(RendererConfig{})
}

// NewRendererWith creates a renderer with the given configuration.
func NewRendererWith(cfg RendererConfig) *Renderer {
	return &Renderer{colors: NewColorBuffer(), cfg: cfg}
}

// Colors returns the renderer's shared color buffer.
func (r *Renderer) Colors() *ColorBuffer { return r.colors }

// executor resolves the executor used for the next submit.
func (r *Renderer) executor() Executor {
	if r.cfg.Executor != nil {
		return r.cfg.Executor
	}
	return ActiveExecutor()
}

// Submit validates and executes a finished command buffer.
//
// Validation covers the whole stream before anything executes, so a failed
// Submit leaves the color buffer and every render target untouched. The
// checks enforce the host obligations of the pipeline: selections address
// the palette, dispatches are the canonical single workgroup, draws are
// the canonical triangle, and every render pass that follows a compute
// pass is separated from it by a barrier.
func (r *Renderer) Submit(cb *CommandBuffer) error {
	if cb == nil {
		return errors.New("tri: submit of nil command buffer")
	}
	if err := validateStream(cb.commands); err != nil {
		return err
	}

	log := Logger()
	log.Debug("submitting command buffer", "commands", len(cb.commands))

	exec := r.executor()
	for _, cmd := range cb.commands {
		switch c := cmd.(type) {
		case computePassCommand:
			for _, d := range c.dispatches {
				log.Debug("color generator dispatch",
					"executor", exec.Name(),
					"selection", d.selection,
					"groups", d.groups)
				if err := exec.DispatchColors(r.colors, d.selection, d.groups); err != nil {
					return fmt.Errorf("tri: compute pass: %w", err)
				}
			}
		case barrierCommand:
			// DispatchColors completes synchronously, so the ordering the
			// barrier asks for already holds when execution reaches it.
		case renderPassCommand:
			r.executeRenderPass(c)
		}
	}
	return nil
}

// RenderFrame records and submits the canonical frame: one compute pass
// dispatching the selection, a barrier, and one render pass drawing the
// triangle over a clearColor background.
func (r *Renderer) RenderFrame(target *image.RGBA, sel Selection, clearColor RGBA) error {
	enc := NewCommandEncoder()
	cp, err := enc.BeginComputePass()
	if err != nil {
		return err
	}
	if err := cp.SetSelection(sel); err != nil {
		return err
	}
	if err := cp.Dispatch(1, 1, 1); err != nil {
		return err
	}
	if err := cp.End(); err != nil {
		return err
	}
	if err := enc.Barrier(); err != nil {
		return err
	}
	rp, err := enc.BeginRenderPass(target, clearColor)
	if err != nil {
		return err
	}
	if err := rp.DrawTriangle(); err != nil {
		return err
	}
	if err := rp.End(); err != nil {
		return err
	}
	cb, err := enc.Finish()
	if err != nil {
		return err
	}
	return r.Submit(cb)
}

// validateStream checks the structural contract of a recorded stream
// before execution: selection ranges, dispatch and draw shapes, and the
// barrier between compute writes and raster reads.
func validateStream(cmds []Command) error {
	unbarriered := false
	for _, cmd := range cmds {
		switch c := cmd.(type) {
		case computePassCommand:
			for _, d := range c.dispatches {
				if err := d.selection.Validate(); err != nil {
					return err
				}
				if d.groups != [3]uint32{1, 1, 1} {
					return fmt.Errorf("%w: got (%d,%d,%d)", ErrDispatchShape, d.groups[0], d.groups[1], d.groups[2])
				}
			}
			if len(c.dispatches) > 0 {
				unbarriered = true
			}
		case barrierCommand:
			unbarriered = false
		case renderPassCommand:
			if unbarriered {
				return ErrMissingBarrier
			}
			for _, d := range c.draws {
				if d.vertexCount != VertexCount || d.instanceCount != 1 || d.firstVertex != 0 || d.firstInstance != 0 {
					return fmt.Errorf("%w: got Draw(%d, %d, %d, %d)", ErrDrawShape,
						d.vertexCount, d.instanceCount, d.firstVertex, d.firstInstance)
				}
			}
		}
	}
	return nil
}

// executeRenderPass clears the target and rasterizes the recorded draws
// with the current color buffer contents.
func (r *Renderer) executeRenderPass(c renderPassCommand) {
	draw.Draw(c.target, c.target.Bounds(), image.NewUniform(c.clearColor.Color()), image.Point{}, draw.Src)

	colors := r.colors.floats()
	for range c.draws {
		raster.Draw(c.target, &colors)
	}
}
