package shader

import (
	"fmt"

	"github.com/gogpu/naga"
)

// spirvMagic is the first word of every SPIR-V module.
const spirvMagic = 0x07230203

// CompileToSPIRV compiles WGSL source to a SPIR-V uint32 slice.
func CompileToSPIRV(source string) ([]uint32, error) {
	spirvBytes, err := naga.Compile(source)
	if err != nil {
		return nil, fmt.Errorf("failed to compile shader: %w", err)
	}
	if len(spirvBytes)%4 != 0 {
		return nil, fmt.Errorf("SPIR-V output is %d bytes, not word aligned", len(spirvBytes))
	}

	// SPIR-V is little-endian 32-bit words.
	spirvCode := make([]uint32, len(spirvBytes)/4)
	for i := range spirvCode {
		spirvCode[i] = uint32(spirvBytes[i*4]) |
			uint32(spirvBytes[i*4+1])<<8 |
			uint32(spirvBytes[i*4+2])<<16 |
			uint32(spirvBytes[i*4+3])<<24
	}

	if err := ValidateSPIRV(spirvCode); err != nil {
		return nil, err
	}
	return spirvCode, nil
}

// ValidateSPIRV checks that code starts with a plausible SPIR-V header.
func ValidateSPIRV(code []uint32) error {
	if len(code) < 5 {
		return fmt.Errorf("SPIR-V module too small: %d words", len(code))
	}
	if code[0] != spirvMagic {
		return fmt.Errorf("invalid SPIR-V magic: got 0x%08X, want 0x%08X", code[0], spirvMagic)
	}
	return nil
}
