package disasm

import (
	"errors"
	"testing"
)

func TestParseMode(t *testing.T) {
	tests := []struct {
		bits    int
		want    Mode
		wantErr bool
	}{
		{16, Mode16, false},
		{32, Mode32, false},
		{64, Mode64, false},
		{0, 0, true},
		{8, 0, true},
		{128, 0, true},
		{-64, 0, true},
	}

	for _, tt := range tests {
		got, err := ParseMode(tt.bits)
		if tt.wantErr {
			if !errors.Is(err, ErrInvalidMode) {
				t.Errorf("ParseMode(%d) error = %v, want ErrInvalidMode", tt.bits, err)
			}
			continue
		}
		if err != nil {
			t.Errorf("ParseMode(%d) unexpected error: %v", tt.bits, err)
			continue
		}
		if got != tt.want {
			t.Errorf("ParseMode(%d) = %v, want %v", tt.bits, got, tt.want)
		}
	}
}

func TestNewDecoderRejectsMode(t *testing.T) {
	_, err := NewDecoder(Mode(48), []byte{0x90}, 0)
	if !errors.Is(err, ErrInvalidMode) {
		t.Fatalf("expected ErrInvalidMode, got %v", err)
	}
}

func TestDecodeLengths(t *testing.T) {
	tests := []struct {
		name      string
		mode      Mode
		code      []byte
		lens      []int
		invalid   []bool
		remainder int
	}{
		{
			name: "empty buffer",
			mode: Mode64,
		},
		{
			name:    "single mov",
			mode:    Mode64,
			code:    []byte{0x48, 0x89, 0xe5},
			lens:    []int{3},
			invalid: []bool{false},
		},
		{
			name:    "prologue",
			mode:    Mode64,
			code:    []byte{0x55, 0x48, 0x89, 0xe5, 0xc3},
			lens:    []int{1, 3, 1},
			invalid: []bool{false, false, false},
		},
		{
			name:      "lone rex prefix",
			mode:      Mode64,
			code:      []byte{0x48},
			remainder: 1,
		},
		{
			name:      "truncated immediate",
			mode:      Mode64,
			code:      []byte{0xc3, 0xb8, 0x2a},
			lens:      []int{1},
			invalid:   []bool{false},
			remainder: 2,
		},
		{
			name:    "push es is invalid in long mode",
			mode:    Mode64,
			code:    []byte{0x06, 0xc3},
			lens:    []int{1, 1},
			invalid: []bool{true, false},
		},
		{
			name:    "push es in protected mode",
			mode:    Mode32,
			code:    []byte{0x06, 0xc3},
			lens:    []int{1, 1},
			invalid: []bool{false, false},
		},
		{
			name:    "16-bit immediate",
			mode:    Mode16,
			code:    []byte{0xb8, 0x34, 0x12, 0xc3},
			lens:    []int{3, 1},
			invalid: []bool{false, false},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d, err := NewDecoder(tt.mode, tt.code, 0x1000)
			if err != nil {
				t.Fatal(err)
			}

			var lens []int
			var invalid []bool
			ip := uint64(0x1000)
			for inst := range d.All() {
				if inst.IP != ip {
					t.Errorf("instruction %d at %#x, want %#x", len(lens), inst.IP, ip)
				}
				if len(inst.Bytes) != inst.Len {
					t.Errorf("instruction %d has %d bytes, Len %d", len(lens), len(inst.Bytes), inst.Len)
				}
				ip = inst.Next()
				lens = append(lens, inst.Len)
				invalid = append(invalid, inst.Invalid)
			}

			if len(lens) != len(tt.lens) {
				t.Fatalf("decoded %d instructions %v, want %d %v", len(lens), lens, len(tt.lens), tt.lens)
			}
			for i := range lens {
				if lens[i] != tt.lens[i] {
					t.Errorf("instruction %d Len = %d, want %d", i, lens[i], tt.lens[i])
				}
				if invalid[i] != tt.invalid[i] {
					t.Errorf("instruction %d Invalid = %v, want %v", i, invalid[i], tt.invalid[i])
				}
			}
			if d.Remainder() != tt.remainder {
				t.Errorf("Remainder() = %d, want %d", d.Remainder(), tt.remainder)
			}
			if d.CanDecode() {
				t.Error("decoder still has bytes after All")
			}
		})
	}
}

func TestDecoderSinglePass(t *testing.T) {
	code := []byte{0x55, 0x48, 0x89, 0xe5, 0xc3}
	d, err := NewDecoder(Mode64, code, 0)
	if err != nil {
		t.Fatal(err)
	}

	for range d.All() {
		break
	}
	if d.Position() != 1 {
		t.Fatalf("Position() = %d after one instruction, want 1", d.Position())
	}

	n := 0
	for range d.All() {
		n++
	}
	if n != 2 {
		t.Errorf("second range yielded %d instructions, want 2", n)
	}
	if _, ok := d.Decode(); ok {
		t.Error("Decode succeeded on an exhausted decoder")
	}
}

func TestDecodeDoesNotModifyInput(t *testing.T) {
	code := []byte{0x06, 0x48, 0x89, 0xe5, 0xb8}
	orig := append([]byte(nil), code...)

	if _, err := Decode(Mode64, code, 0); err != nil {
		t.Fatal(err)
	}
	for i := range code {
		if code[i] != orig[i] {
			t.Fatalf("byte %d changed from %#x to %#x", i, orig[i], code[i])
		}
	}
}

func TestDecodeStreamCoversBuffer(t *testing.T) {
	code := []byte{0x55, 0x06, 0x48, 0x89, 0xe5, 0xe8, 0x00, 0x00, 0x00, 0x00, 0xc3}
	s, err := Decode(Mode64, code, 0x400000)
	if err != nil {
		t.Fatal(err)
	}

	total := 0
	for _, inst := range s {
		if inst.Len < 1 {
			t.Fatalf("instruction at %#x has Len %d", inst.IP, inst.Len)
		}
		total += inst.Len
	}
	if total != len(code) {
		t.Errorf("consumed %d bytes, want %d", total, len(code))
	}
}
