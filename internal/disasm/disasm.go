// Package disasm decodes raw x86 machine code into instructions and
// formats them as a sequence of classified text fragments.
package disasm

import (
	"errors"
	"fmt"

	"golang.org/x/arch/x86/x86asm"
)

// ErrInvalidMode is returned for a bit width other than 16, 32 or 64.
var ErrInvalidMode = errors.New("invalid bitness")

// Mode is the instruction-set decoding width.
type Mode int

const (
	Mode16 Mode = 16
	Mode32 Mode = 32
	Mode64 Mode = 64
)

// ParseMode validates a bit width.
func ParseMode(bits int) (Mode, error) {
	m := Mode(bits)
	if err := m.Validate(); err != nil {
		return 0, err
	}
	return m, nil
}

// Validate reports whether m is a supported mode.
func (m Mode) Validate() error {
	switch m {
	case Mode16, Mode32, Mode64:
		return nil
	}
	return fmt.Errorf("%w: %d (want 16, 32 or 64)", ErrInvalidMode, int(m))
}

func (m Mode) String() string {
	return fmt.Sprintf("%d-bit", int(m))
}

// Inst is one decoded instruction.
type Inst struct {
	IP      uint64 // virtual address of the first byte
	Len     int    // bytes consumed, always >= 1
	Bytes   []byte // raw encoding, aliases the input buffer
	Invalid bool   // synthetic placeholder for undecodable bytes

	x86 x86asm.Inst
}

// Next returns the address of the following instruction.
func (i *Inst) Next() uint64 {
	return i.IP + uint64(i.Len)
}

// Raw exposes the underlying decoded instruction. It is the zero value for
// invalid instructions.
func (i *Inst) Raw() x86asm.Inst {
	return i.x86
}

// Stream is a linear sequence of instructions.
type Stream []Inst
