// Package colorize maps formatted instruction text to terminal colors.
package colorize

import (
	"fmt"

	"x86color/internal/disasm"
)

// Color is one of the terminal colors used for disassembly.
type Color int

const (
	White Color = iota
	Green
	BrightYellow
	BrightRed
	BrightBlue
	BrightCyan
	BrightGreen
	BrightMagenta
)

var colors = [...]struct {
	name string
	ansi string // 16-color palette index
}{
	White:         {"white", "7"},
	Green:         {"green", "2"},
	BrightYellow:  {"bright yellow", "11"},
	BrightRed:     {"bright red", "9"},
	BrightBlue:    {"bright blue", "12"},
	BrightCyan:    {"bright cyan", "14"},
	BrightGreen:   {"bright green", "10"},
	BrightMagenta: {"bright magenta", "13"},
}

func (c Color) String() string {
	if c >= 0 && int(c) < len(colors) {
		return colors[c].name
	}
	return fmt.Sprintf("Color(%d)", int(c))
}

// ANSI returns the palette index of c as lipgloss expects it.
func (c Color) ANSI() string {
	if c >= 0 && int(c) < len(colors) {
		return colors[c].ansi
	}
	return colors[White].ansi
}

// Classify returns the display color for a kind. Kinds without a dedicated
// color are white.
func Classify(kind disasm.TextKind) Color {
	switch kind {
	case disasm.KindDirective, disasm.KindKeyword:
		return BrightYellow
	case disasm.KindPrefix, disasm.KindMnemonic:
		return BrightRed
	case disasm.KindRegister:
		return BrightBlue
	case disasm.KindNumber:
		return BrightCyan
	case disasm.KindLabelAddress, disasm.KindFunctionAddress:
		return BrightGreen
	case disasm.KindText:
		return Green
	case disasm.KindOperator:
		return BrightMagenta
	default:
		return White
	}
}
