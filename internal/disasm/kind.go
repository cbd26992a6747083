package disasm

import "fmt"

// TextKind classifies a piece of formatted text by its syntactic role.
type TextKind int

const (
	KindText TextKind = iota
	KindDirective
	KindKeyword
	KindPrefix
	KindMnemonic
	KindRegister
	KindNumber
	KindLabelAddress
	KindFunctionAddress
	KindOperator
	KindOther
)

var kindNames = [...]string{
	KindText:            "text",
	KindDirective:       "directive",
	KindKeyword:         "keyword",
	KindPrefix:          "prefix",
	KindMnemonic:        "mnemonic",
	KindRegister:        "register",
	KindNumber:          "number",
	KindLabelAddress:    "label-address",
	KindFunctionAddress: "function-address",
	KindOperator:        "operator",
	KindOther:           "other",
}

func (k TextKind) String() string {
	if k >= 0 && int(k) < len(kindNames) {
		return kindNames[k]
	}
	return fmt.Sprintf("TextKind(%d)", int(k))
}

// Kinds returns every defined kind in declaration order.
func Kinds() []TextKind {
	kinds := make([]TextKind, len(kindNames))
	for i := range kinds {
		kinds[i] = TextKind(i)
	}
	return kinds
}

// Output receives formatted text fragments in display order.
type Output interface {
	Write(text string, kind TextKind)
}

// Formatter renders an instruction into an Output.
type Formatter interface {
	Format(inst *Inst, out Output)
}
