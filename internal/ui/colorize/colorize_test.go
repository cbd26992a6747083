package colorize

import (
	"errors"
	"slices"
	"strings"
	"testing"

	"github.com/alecthomas/chroma/v2/styles"
	"github.com/charmbracelet/x/ansi"

	"x86color/internal/disasm"
)

func TestClassify(t *testing.T) {
	tests := []struct {
		kind disasm.TextKind
		want Color
	}{
		{disasm.KindDirective, BrightYellow},
		{disasm.KindKeyword, BrightYellow},
		{disasm.KindPrefix, BrightRed},
		{disasm.KindMnemonic, BrightRed},
		{disasm.KindRegister, BrightBlue},
		{disasm.KindNumber, BrightCyan},
		{disasm.KindLabelAddress, BrightGreen},
		{disasm.KindFunctionAddress, BrightGreen},
		{disasm.KindText, Green},
		{disasm.KindOperator, BrightMagenta},
		{disasm.KindOther, White},
		{disasm.TextKind(99), White},
		{disasm.TextKind(-1), White},
	}

	for _, tt := range tests {
		if got := Classify(tt.kind); got != tt.want {
			t.Errorf("Classify(%v) = %v, want %v", tt.kind, got, tt.want)
		}
	}
}

func TestClassifyCoversEveryKind(t *testing.T) {
	for _, k := range disasm.Kinds() {
		c := Classify(k)
		if c < White || c > BrightMagenta {
			t.Errorf("Classify(%v) = %d, outside the palette", k, int(c))
		}
	}
}

func TestColorNames(t *testing.T) {
	if got := BrightRed.String(); got != "bright red" {
		t.Errorf("BrightRed.String() = %q", got)
	}
	if got := Color(42).String(); got != "Color(42)" {
		t.Errorf("Color(42).String() = %q", got)
	}
	if got := Color(42).ANSI(); got != White.ANSI() {
		t.Errorf("unknown color ANSI() = %q, want white", got)
	}
}

func TestPlainTheme(t *testing.T) {
	p := Plain()
	for _, k := range disasm.Kinds() {
		if got := p.Paint("rax", k); got != "rax" {
			t.Errorf("Plain().Paint(%v) = %q", k, got)
		}
	}
	if p.Name() != PlainTheme {
		t.Errorf("Name() = %q", p.Name())
	}
}

func TestClassicTheme(t *testing.T) {
	c := Classic()
	if got := c.Paint("", disasm.KindMnemonic); got != "" {
		t.Errorf("empty text painted as %q", got)
	}

	mov := c.Paint("mov", disasm.KindMnemonic)
	rax := c.Paint("rax", disasm.KindRegister)
	if !strings.HasPrefix(mov, "\x1b[") {
		t.Errorf("mnemonic not colored: %q", mov)
	}
	if mov == c.Paint("mov", disasm.KindRegister) {
		t.Error("mnemonic and register painted the same")
	}
	if ansi.Strip(mov) != "mov" || ansi.Strip(rax) != "rax" {
		t.Errorf("stripped spans = %q %q", ansi.Strip(mov), ansi.Strip(rax))
	}
	// Kinds sharing a color share a span.
	if c.Paint("x", disasm.KindPrefix) != c.Paint("x", disasm.KindMnemonic) {
		t.Error("prefix and mnemonic differ")
	}
}

func TestThemeByName(t *testing.T) {
	tests := []struct {
		name    string
		want    string
		wantErr bool
	}{
		{"", ClassicTheme, false},
		{"classic", ClassicTheme, false},
		{"CLASSIC", ClassicTheme, false},
		{"plain", PlainTheme, false},
		{"none", PlainTheme, false},
		{DarkThemeName, DarkThemeName, false},
		{"monokai", "monokai", false},
		{"no-such-theme", "", true},
	}

	for _, tt := range tests {
		th, err := ThemeByName(tt.name)
		if tt.wantErr {
			if !errors.Is(err, ErrUnknownTheme) {
				t.Errorf("ThemeByName(%q) error = %v, want ErrUnknownTheme", tt.name, err)
			}
			continue
		}
		if err != nil {
			t.Errorf("ThemeByName(%q): %v", tt.name, err)
			continue
		}
		if th.Name() != tt.want {
			t.Errorf("ThemeByName(%q).Name() = %q, want %q", tt.name, th.Name(), tt.want)
		}
	}
}

func TestChromaTheme(t *testing.T) {
	if styles.Get(DarkThemeName) != DisasmDark {
		t.Fatalf("%s is not registered", DarkThemeName)
	}

	th := NewChroma(DisasmDark)
	for _, k := range disasm.Kinds() {
		got := th.Paint("text", k)
		if ansi.Strip(got) != "text" {
			t.Errorf("Paint(%v) stripped = %q", k, ansi.Strip(got))
		}
	}
	if th.Paint("mov", disasm.KindMnemonic) == th.Paint("mov", disasm.KindRegister) {
		t.Error("mnemonic and register painted the same")
	}
	if got := th.Paint("", disasm.KindMnemonic); got != "" {
		t.Errorf("empty text painted as %q", got)
	}
}

func TestThemeNames(t *testing.T) {
	names := ThemeNames()
	if len(names) < 3 || names[0] != ClassicTheme || names[1] != PlainTheme {
		t.Fatalf("ThemeNames() starts with %v", names[:min(len(names), 3)])
	}
	if !slices.Contains(names, DarkThemeName) {
		t.Errorf("ThemeNames() is missing %s", DarkThemeName)
	}
	for _, n := range names {
		if _, err := ThemeByName(n); err != nil {
			t.Errorf("listed theme %q does not resolve: %v", n, err)
		}
	}
}
