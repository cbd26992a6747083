package disasm

import (
	"fmt"
	"strings"

	"golang.org/x/arch/x86/x86asm"
)

// DefaultFirstOperandCharIndex is the column where the first operand starts.
const DefaultFirstOperandCharIndex = 8

// BadText is written for bytes that do not decode.
const BadText = "(bad)"

// FormatterOptions controls IntelFormatter output.
type FormatterOptions struct {
	// FirstOperandCharIndex is the column of the first operand. Mnemonics
	// that reach past it are followed by a single space.
	FirstOperandCharIndex int
	UppercaseHex          bool
}

// IntelFormatter writes instructions in Intel syntax.
type IntelFormatter struct {
	Options FormatterOptions
}

// NewIntelFormatter returns a formatter with default options.
func NewIntelFormatter() *IntelFormatter {
	return &IntelFormatter{Options: FormatterOptions{
		FirstOperandCharIndex: DefaultFirstOperandCharIndex,
	}}
}

// columnOutput tracks how many characters have been written.
type columnOutput struct {
	out Output
	col int
}

func (c *columnOutput) Write(text string, kind TextKind) {
	c.out.Write(text, kind)
	c.col += len(text)
}

// Format writes inst to out, left to right.
func (f *IntelFormatter) Format(inst *Inst, out Output) {
	if inst.Invalid {
		out.Write(BadText, KindText)
		return
	}

	x := &inst.x86
	w := &columnOutput{out: out}

	for _, p := range x.Prefix {
		if p == 0 {
			break
		}
		if name := prefixName(p, x.Op); name != "" {
			w.Write(name, KindPrefix)
			w.Write(" ", KindText)
		}
	}
	w.Write(mnemonic(x.Op), KindMnemonic)
	if stringOps[x.Op.String()] {
		return
	}

	first := true
	for _, arg := range x.Args {
		if arg == nil {
			break
		}
		if first {
			pad := f.Options.FirstOperandCharIndex - w.col
			if pad < 1 {
				pad = 1
			}
			w.Write(strings.Repeat(" ", pad), KindText)
			first = false
		} else {
			w.Write(",", KindOther)
		}
		f.formatArg(inst, arg, w)
	}
}

func (f *IntelFormatter) formatArg(inst *Inst, arg x86asm.Arg, w Output) {
	switch a := arg.(type) {
	case x86asm.Reg:
		w.Write(regName(a), KindRegister)
	case x86asm.Imm:
		w.Write(f.hex(uint64(a)&sizeMask(immSize(&inst.x86))), KindNumber)
	case x86asm.Rel:
		target := (inst.Next() + uint64(int64(a))) & sizeMask(inst.x86.Mode/8)
		kind := KindLabelAddress
		if inst.x86.Op == x86asm.CALL {
			kind = KindFunctionAddress
		}
		w.Write(f.hex(target), kind)
	case x86asm.Mem:
		f.formatMem(inst, a, w)
	default:
		w.Write(strings.ToLower(arg.String()), KindOther)
	}
}

func (f *IntelFormatter) formatMem(inst *Inst, m x86asm.Mem, w Output) {
	if size := memSizeName(&inst.x86); size != "" {
		w.Write(size, KindKeyword)
		w.Write(" ", KindText)
		w.Write("ptr", KindKeyword)
		w.Write(" ", KindText)
	}
	if seg := explicitSegment(&inst.x86, m); seg != 0 {
		w.Write(regName(seg), KindRegister)
		w.Write(":", KindOther)
	}

	w.Write("[", KindOther)
	switch {
	case m.Base == 0 && m.Index == 0:
		w.Write(f.hex(uint64(m.Disp)&sizeMask(inst.x86.AddrSize/8)), KindNumber)
	default:
		needOp := false
		if m.Base != 0 {
			w.Write(regName(m.Base), KindRegister)
			needOp = true
		}
		if m.Index != 0 {
			if needOp {
				w.Write("+", KindOperator)
			}
			w.Write(regName(m.Index), KindRegister)
			if m.Scale > 1 {
				w.Write("*", KindOperator)
				w.Write(fmt.Sprintf("%d", m.Scale), KindNumber)
			}
		}
		switch {
		case m.Disp > 0:
			w.Write("+", KindOperator)
			w.Write(f.hex(uint64(m.Disp)), KindNumber)
		case m.Disp < 0:
			w.Write("-", KindOperator)
			w.Write(f.hex(uint64(-m.Disp)), KindNumber)
		}
	}
	w.Write("]", KindOther)
}

func (f *IntelFormatter) hex(v uint64) string {
	if f.Options.UppercaseHex {
		return fmt.Sprintf("0x%X", v)
	}
	return fmt.Sprintf("0x%x", v)
}

// sizeMask keeps the low n bytes. Widths of 8 bytes or more, and unknown
// widths, keep everything.
func sizeMask(n int) uint64 {
	if n <= 0 || n >= 8 {
		return ^uint64(0)
	}
	return 1<<(8*uint(n)) - 1
}

// immSize is the width in bytes an immediate is printed at: the width of
// the register or memory operand it combines with, else the operand size.
// x86asm sign-extends imm8 and imm32 forms, so the value is masked back to
// this width and printed unsigned.
func immSize(x *x86asm.Inst) int {
	for _, arg := range x.Args {
		if arg == nil {
			break
		}
		switch a := arg.(type) {
		case x86asm.Reg:
			if n := regSize(a); n > 0 {
				return n
			}
		case x86asm.Mem:
			if x.MemBytes > 0 {
				return x.MemBytes
			}
		}
	}
	return x.DataSize / 8
}

func mnemonic(op x86asm.Op) string {
	return strings.TrimSuffix(strings.ToLower(op.String()), "_xmm")
}

// stringOps take rep/repe/repne prefixes. Their operands are implicit.
var stringOps = map[string]bool{
	"MOVSB": true, "MOVSW": true, "MOVSD": true, "MOVSQ": true,
	"STOSB": true, "STOSW": true, "STOSD": true, "STOSQ": true,
	"LODSB": true, "LODSW": true, "LODSD": true, "LODSQ": true,
	"CMPSB": true, "CMPSW": true, "CMPSD": true, "CMPSQ": true,
	"SCASB": true, "SCASW": true, "SCASD": true, "SCASQ": true,
	"INSB": true, "INSW": true, "INSD": true,
	"OUTSB": true, "OUTSW": true, "OUTSD": true,
}

func prefixName(p x86asm.Prefix, op x86asm.Op) string {
	if p&(x86asm.PrefixImplicit|x86asm.PrefixIgnored) != 0 {
		return ""
	}
	name := op.String()
	switch p &^ x86asm.PrefixInvalid {
	case x86asm.PrefixLOCK:
		return "lock"
	case x86asm.PrefixREP:
		if !stringOps[name] {
			return ""
		}
		if strings.HasPrefix(name, "CMPS") || strings.HasPrefix(name, "SCAS") {
			return "repe"
		}
		return "rep"
	case x86asm.PrefixREPN:
		if stringOps[name] {
			return "repne"
		}
	case x86asm.PrefixXACQUIRE:
		return "xacquire"
	case x86asm.PrefixXRELEASE:
		return "xrelease"
	case x86asm.PrefixBND:
		return "bnd"
	}
	return ""
}

// explicitSegment returns the segment register worth showing for m, or 0
// when it is the default for the addressing form.
func explicitSegment(x *x86asm.Inst, m x86asm.Mem) x86asm.Reg {
	switch {
	case m.Segment == 0:
		return 0
	case x.Op == x86asm.LEA:
		return 0
	case m.Segment == x86asm.FS || m.Segment == x86asm.GS:
		return m.Segment
	case x.Mode == 64:
		return 0
	}
	switch m.Base {
	case x86asm.SP, x86asm.ESP, x86asm.RSP, x86asm.BP, x86asm.EBP, x86asm.RBP:
		if m.Segment == x86asm.SS {
			return 0
		}
	default:
		if m.Segment == x86asm.DS {
			return 0
		}
	}
	return m.Segment
}

func regName(r x86asm.Reg) string {
	switch {
	case r >= x86asm.SPB && r <= x86asm.DIB:
		return [...]string{"spl", "bpl", "sil", "dil"}[r-x86asm.SPB]
	case r >= x86asm.R8L && r <= x86asm.R15L:
		return fmt.Sprintf("r%dd", 8+int(r-x86asm.R8L))
	case r >= x86asm.F0 && r <= x86asm.F7:
		return fmt.Sprintf("st(%d)", int(r-x86asm.F0))
	case r >= x86asm.M0 && r <= x86asm.M7:
		return fmt.Sprintf("mm%d", int(r-x86asm.M0))
	case r >= x86asm.X0 && r <= x86asm.X15:
		return fmt.Sprintf("xmm%d", int(r-x86asm.X0))
	}
	return strings.ToLower(r.String())
}

func regSize(r x86asm.Reg) int {
	switch {
	case r >= x86asm.AL && r <= x86asm.R15B:
		return 1
	case r >= x86asm.AX && r <= x86asm.R15W:
		return 2
	case r >= x86asm.EAX && r <= x86asm.R15L:
		return 4
	case r >= x86asm.RAX && r <= x86asm.R15:
		return 8
	case r >= x86asm.M0 && r <= x86asm.M7:
		return 8
	case r >= x86asm.X0 && r <= x86asm.X15:
		return 16
	}
	return 0
}

var memSizes = map[int]string{
	1:  "byte",
	2:  "word",
	4:  "dword",
	6:  "fword",
	8:  "qword",
	10: "tbyte",
	16: "xmmword",
	32: "ymmword",
	64: "zmmword",
}

// memSizeName returns the size keyword for the memory operand, or "" when a
// register operand of the same width already implies it.
func memSizeName(x *x86asm.Inst) string {
	if x.MemBytes == 0 || x.Op == x86asm.LEA {
		return ""
	}
	for _, arg := range x.Args {
		if arg == nil {
			break
		}
		if r, ok := arg.(x86asm.Reg); ok && regSize(r) == x.MemBytes {
			return ""
		}
	}
	return memSizes[x.MemBytes]
}
