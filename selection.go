package tri

import (
	"encoding/binary"
	"errors"
	"fmt"
)

// ErrSelectionRange is returned when a selection index does not address a
// palette entry.
var ErrSelectionRange = errors.New("tri: selection index out of range")

// SelectionSize is the byte size of a selection in its GPU wire form.
// The three indices are padded out to a vec4<u32> to satisfy uniform
// buffer alignment.
const SelectionSize = 16

// Selection picks one palette entry per color slot: entry t names the
// palette color the compute stage writes into slot t.
//
// Selections travel to the GPU as a small constant block; Bytes produces
// the wire form.
type Selection [ColorSlots]uint32

// UniformSelection returns a selection with every slot set to the same
// palette index.
func UniformSelection(i uint32) Selection {
	return Selection{i, i, i}
}

// Validate checks that every index addresses a palette entry.
// It returns an error wrapping ErrSelectionRange otherwise.
func (s Selection) Validate() error {
	for t, i := range s {
		if i >= PaletteSize {
			return fmt.Errorf("%w: slot %d selects %d of %d", ErrSelectionRange, t, i, PaletteSize)
		}
	}
	return nil
}

// Bytes encodes the selection in its GPU wire form: three little-endian
// uint32 indices followed by four bytes of padding.
func (s Selection) Bytes() []byte {
	b := make([]byte, SelectionSize)
	for t, i := range s {
		binary.LittleEndian.PutUint32(b[4*t:], i)
	}
	return b
}

// String returns the selection as "[i j k]".
func (s Selection) String() string {
	return fmt.Sprintf("[%d %d %d]", s[0], s[1], s[2])
}
