package disasm

import (
	"iter"

	"golang.org/x/arch/x86/x86asm"
)

// MaxInstLen is the architectural limit on x86 instruction length.
const MaxInstLen = 15

// Decoder walks a byte buffer one instruction at a time. It is single-pass:
// once a byte has been consumed it is never decoded again.
type Decoder struct {
	mode    Mode
	code    []byte
	ip      uint64
	pos     int
	dropped int
}

// NewDecoder returns a decoder for code, whose first byte lives at ip.
// The buffer is never modified.
func NewDecoder(mode Mode, code []byte, ip uint64) (*Decoder, error) {
	if err := mode.Validate(); err != nil {
		return nil, err
	}
	return &Decoder{mode: mode, code: code, ip: ip}, nil
}

// CanDecode reports whether any bytes remain.
func (d *Decoder) CanDecode() bool {
	return d.pos < len(d.code)
}

// Position is the offset of the next byte to decode.
func (d *Decoder) Position() int {
	return d.pos
}

// IP is the address of the next byte to decode.
func (d *Decoder) IP() uint64 {
	return d.ip + uint64(d.pos)
}

// Remainder is the number of trailing bytes dropped because they were too
// short to hold a complete instruction.
func (d *Decoder) Remainder() int {
	return d.dropped
}

// Decode returns the next instruction. It returns false once the buffer is
// exhausted or only a truncated instruction remains. Undecodable bytes in the
// middle of the buffer come back as an Invalid instruction one byte long.
func (d *Decoder) Decode() (Inst, bool) {
	if !d.CanDecode() {
		return Inst{}, false
	}

	rest := d.code[d.pos:]
	ip := d.IP()

	x, err := x86asm.Decode(rest, int(d.mode))
	if err == nil && x.Op != 0 && x.Len > 0 {
		n := min(x.Len, len(rest))
		d.pos += n
		return Inst{IP: ip, Len: n, Bytes: rest[:n:n], x86: x}, true
	}

	if d.truncated(rest) {
		d.dropped = len(rest)
		d.pos = len(d.code)
		return Inst{}, false
	}

	d.pos++
	return Inst{IP: ip, Len: 1, Bytes: rest[:1:1], Invalid: true}, true
}

// truncated reports whether rest is the start of a valid instruction that
// runs past the end of the buffer.
func (d *Decoder) truncated(rest []byte) bool {
	if len(rest) >= MaxInstLen {
		return false
	}
	var pad [MaxInstLen]byte
	copy(pad[:], rest)
	x, err := x86asm.Decode(pad[:], int(d.mode))
	return err == nil && x.Op != 0 && x.Len > len(rest)
}

// All yields the remaining instructions. Ranging over it a second time
// continues from wherever the previous range stopped.
func (d *Decoder) All() iter.Seq[Inst] {
	return func(yield func(Inst) bool) {
		for {
			inst, ok := d.Decode()
			if !ok || !yield(inst) {
				return
			}
		}
	}
}

// Decode decodes all of code into a Stream.
func Decode(mode Mode, code []byte, ip uint64) (Stream, error) {
	d, err := NewDecoder(mode, code, ip)
	if err != nil {
		return nil, err
	}
	var s Stream
	for inst := range d.All() {
		s = append(s, inst)
	}
	return s, nil
}
