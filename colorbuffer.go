package tri

import "sync"

// ColorBuffer is the shared color buffer between the compute and raster
// halves of the pipeline: three RGBA slots written by the color generator
// and read per vertex by the vertex stage.
//
// The buffer is one resource with two capability-scoped bindings.
// ReadWriteView is what the compute stage binds; ReadOnlyView is what the
// vertex stage binds. Both views alias the same storage, which is what
// makes the producer/consumer handoff meaningful; SharesStorage makes the
// aliasing checkable.
//
// ColorBuffer is safe for concurrent use. Slot access is guarded by an
// internal mutex so an executor can publish results while another
// goroutine snapshots the buffer.
type ColorBuffer struct {
	mu    sync.RWMutex
	slots [ColorSlots][4]float32
}

// NewColorBuffer creates a color buffer with all slots zero.
func NewColorBuffer() *ColorBuffer {
	return &ColorBuffer{}
}

// Len returns the number of color slots.
func (b *ColorBuffer) Len() int { return ColorSlots }

// At returns the color in slot i. The slot index must be in [0, Len()).
func (b *ColorBuffer) At(i int) RGBA {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return FromArray(b.slots[i])
}

// Set stores c in slot i. The slot index must be in [0, Len()).
// Executors call this to publish generated colors.
func (b *ColorBuffer) Set(i int, c RGBA) {
	b.mu.Lock()
	b.slots[i] = c.Array()
	b.mu.Unlock()
}

// Snapshot returns a copy of all slots.
func (b *ColorBuffer) Snapshot() [ColorSlots]RGBA {
	b.mu.RLock()
	defer b.mu.RUnlock()
	var out [ColorSlots]RGBA
	for i, s := range b.slots {
		out[i] = FromArray(s)
	}
	return out
}

// floats returns a copy of the slot array in the kernel layout.
func (b *ColorBuffer) floats() [ColorSlots][4]float32 {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.slots
}

// setFloats replaces all slots from an array in the kernel layout.
func (b *ColorBuffer) setFloats(s [ColorSlots][4]float32) {
	b.mu.Lock()
	b.slots = s
	b.mu.Unlock()
}

// ReadWriteView is the compute-facing binding of a ColorBuffer: slot reads
// and writes over the buffer's storage.
type ReadWriteView struct {
	buf *ColorBuffer
}

// ReadOnlyView is the raster-facing binding of a ColorBuffer: slot reads
// only, over the same storage the compute-facing view writes.
type ReadOnlyView struct {
	buf *ColorBuffer
}

// ReadWriteView returns the compute-facing view of the buffer.
func (b *ColorBuffer) ReadWriteView() ReadWriteView {
	return ReadWriteView{buf: b}
}

// ReadOnlyView returns the raster-facing view of the buffer.
func (b *ColorBuffer) ReadOnlyView() ReadOnlyView {
	return ReadOnlyView{buf: b}
}

// At returns the color in slot i.
func (v ReadWriteView) At(i int) RGBA { return v.buf.At(i) }

// Set stores c in slot i.
func (v ReadWriteView) Set(i int, c RGBA) { v.buf.Set(i, c) }

// SharesStorage reports whether w reads the storage this view writes.
func (v ReadWriteView) SharesStorage(w ReadOnlyView) bool {
	return v.buf == w.buf
}

// At returns the color in slot i.
func (v ReadOnlyView) At(i int) RGBA { return v.buf.At(i) }

// SharesStorage reports whether w writes the storage this view reads.
func (v ReadOnlyView) SharesStorage(w ReadWriteView) bool {
	return v.buf == w.buf
}
