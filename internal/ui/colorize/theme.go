package colorize

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/alecthomas/chroma/v2"
	"github.com/alecthomas/chroma/v2/styles"
	"github.com/charmbracelet/lipgloss/v2"

	"x86color/internal/disasm"
)

// ErrUnknownTheme is returned by ThemeByName for names it cannot resolve.
var ErrUnknownTheme = errors.New("unknown theme")

const (
	ClassicTheme = "classic"
	PlainTheme   = "plain"
)

// Theme paints a fragment of text according to its kind.
type Theme interface {
	Name() string
	Paint(text string, kind disasm.TextKind) string
}

type classic struct {
	styles [len(colors)]lipgloss.Style
}

// Classic returns the 16-color theme built on Classify. Every painted span
// ends with an SGR reset.
func Classic() Theme {
	t := &classic{}
	for c := range t.styles {
		t.styles[c] = lipgloss.NewStyle().Foreground(lipgloss.Color(Color(c).ANSI()))
	}
	return t
}

func (t *classic) Name() string { return ClassicTheme }

func (t *classic) Paint(text string, kind disasm.TextKind) string {
	if text == "" {
		return ""
	}
	return t.styles[Classify(kind)].Render(text)
}

type plain struct{}

// Plain returns a theme that emits no escape sequences.
func Plain() Theme { return plain{} }

func (plain) Name() string { return PlainTheme }
func (plain) Paint(text string, _ disasm.TextKind) string { return text }

// tokenTypes maps each kind onto the closest chroma token type.
var tokenTypes = map[disasm.TextKind]chroma.TokenType{
	disasm.KindDirective:       chroma.KeywordPseudo,
	disasm.KindKeyword:         chroma.KeywordType,
	disasm.KindPrefix:          chroma.KeywordReserved,
	disasm.KindMnemonic:        chroma.Keyword,
	disasm.KindRegister:        chroma.NameVariable,
	disasm.KindNumber:          chroma.LiteralNumberHex,
	disasm.KindLabelAddress:    chroma.NameLabel,
	disasm.KindFunctionAddress: chroma.NameFunction,
	disasm.KindText:            chroma.Text,
	disasm.KindOperator:        chroma.Operator,
	disasm.KindOther:           chroma.Punctuation,
}

type chromaTheme struct {
	name   string
	styles map[disasm.TextKind]lipgloss.Style
}

// NewChroma builds a theme from a chroma style.
func NewChroma(s *chroma.Style) Theme {
	t := &chromaTheme{name: s.Name, styles: make(map[disasm.TextKind]lipgloss.Style, len(tokenTypes))}
	for kind, tt := range tokenTypes {
		entry := s.Get(tt)
		st := lipgloss.NewStyle()
		if entry.Colour.IsSet() {
			st = st.Foreground(lipgloss.Color(entry.Colour.String()))
		}
		if entry.Bold == chroma.Yes {
			st = st.Bold(true)
		}
		if entry.Italic == chroma.Yes {
			st = st.Italic(true)
		}
		if entry.Underline == chroma.Yes {
			st = st.Underline(true)
		}
		t.styles[kind] = st
	}
	return t
}

func (t *chromaTheme) Name() string { return t.name }

func (t *chromaTheme) Paint(text string, kind disasm.TextKind) string {
	if text == "" {
		return ""
	}
	st, ok := t.styles[kind]
	if !ok {
		st = t.styles[disasm.KindOther]
	}
	return st.Render(text)
}

// ThemeByName resolves "classic", "plain" or any registered chroma style.
func ThemeByName(name string) (Theme, error) {
	switch strings.ToLower(name) {
	case "", ClassicTheme:
		return Classic(), nil
	case PlainTheme, "none":
		return Plain(), nil
	}
	if s, ok := styles.Registry[name]; ok {
		return NewChroma(s), nil
	}
	return nil, fmt.Errorf("%w: %q", ErrUnknownTheme, name)
}

// ThemeNames lists the built-in themes followed by the chroma styles.
func ThemeNames() []string {
	names := styles.Names()
	sort.Strings(names)
	return append([]string{ClassicTheme, PlainTheme}, names...)
}
