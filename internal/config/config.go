// Package config holds the settings of a disassembly run. Defaults can be
// overridden by X86COLOR_* environment variables and then by flags.
package config

import (
	"errors"
	"fmt"
	"strconv"

	charmlog "github.com/charmbracelet/log"

	"x86color/internal/disasm"
	"x86color/internal/logging"
	"x86color/internal/ui/colorize"
)

// Color modes.
const (
	ColorAuto   = "auto"
	ColorAlways = "always"
	ColorNever  = "never"
)

// Environment variables read by FromEnv.
const (
	EnvBitness  = "X86COLOR_BITNESS"
	EnvRIP      = "X86COLOR_RIP"
	EnvTheme    = "X86COLOR_THEME"
	EnvColor    = "X86COLOR_COLOR"
	EnvNoColor  = "X86COLOR_NO_COLOR"
	EnvLogLevel = "X86COLOR_LOG_LEVEL"
	EnvLogDir   = "X86COLOR_LOG_DIR"
)

var ErrInvalidColorMode = errors.New("invalid color mode")

// Config represents configuration for x86color
type Config struct {
	Bitness      int    `json:"bitness" jsonschema:"title=Bitness,description=Instruction decoding width,enum=16,enum=32,enum=64,default=64"`
	RIP          uint64 `json:"rip" jsonschema:"title=Base Address,description=Virtual address of the first input byte"`
	Section      string `json:"section,omitempty" jsonschema:"title=Section,description=ELF section to disassemble instead of the raw file"`
	Theme        string `json:"theme" jsonschema:"title=Theme,description=classic or plain or a chroma style name,default=classic"`
	Color        string `json:"color" jsonschema:"title=Color,description=When to emit ANSI colors,enum=auto,enum=always,enum=never,default=auto"`
	ShowAddress  bool   `json:"showAddress" jsonschema:"title=Show Address,description=Prefix each line with the instruction address"`
	ShowBytes    bool   `json:"showBytes" jsonschema:"title=Show Bytes,description=Prefix each line with the raw instruction bytes"`
	UppercaseHex bool   `json:"uppercaseHex" jsonschema:"title=Uppercase Hex,description=Use upper-case hex digits"`
	FirstOperand int    `json:"firstOperand" jsonschema:"title=First Operand Column,description=Column where the first operand starts,minimum=0,default=8"`
	LogLevel     string `json:"logLevel" jsonschema:"title=Log Level,description=Minimum level logged to stderr,enum=debug,enum=info,enum=warn,enum=error,default=info"`
	LogDir       string `json:"logDir,omitempty" jsonschema:"title=Log Directory,description=Write the log to a timestamped file in this directory instead of stderr"`
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		Bitness:      int(disasm.Mode64),
		Theme:        colorize.ClassicTheme,
		Color:        ColorAuto,
		FirstOperand: disasm.DefaultFirstOperandCharIndex,
		LogLevel:     charmlog.InfoLevel.String(),
	}
}

// FromEnv returns Default overlaid with any X86COLOR_* variables found by
// lookup (os.LookupEnv in production).
func FromEnv(lookup func(string) (string, bool)) (Config, error) {
	c := Default()
	if v, ok := lookup(EnvBitness); ok && v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return c, fmt.Errorf("%s: %w", EnvBitness, err)
		}
		c.Bitness = n
	}
	if v, ok := lookup(EnvRIP); ok && v != "" {
		rip, err := ParseAddress(v)
		if err != nil {
			return c, fmt.Errorf("%s: %w", EnvRIP, err)
		}
		c.RIP = rip
	}
	if v, ok := lookup(EnvTheme); ok && v != "" {
		c.Theme = v
	}
	if v, ok := lookup(EnvColor); ok && v != "" {
		c.Color = v
	}
	if v, ok := lookup(EnvNoColor); ok && v != "" {
		c.Color = ColorNever
	}
	if v, ok := lookup(EnvLogLevel); ok && v != "" {
		c.LogLevel = v
	}
	if v, ok := lookup(EnvLogDir); ok && v != "" {
		c.LogDir = v
	}
	return c, nil
}

// ParseAddress parses a decimal, 0x hex, 0o octal or 0b binary address.
func ParseAddress(s string) (uint64, error) {
	v, err := strconv.ParseUint(s, 0, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid address %q: %w", s, err)
	}
	return v, nil
}

// Validate checks every setting that would otherwise fail mid-run.
func (c Config) Validate() error {
	if _, err := c.Mode(); err != nil {
		return err
	}
	switch c.Color {
	case ColorAuto, ColorAlways, ColorNever:
	default:
		return fmt.Errorf("%w: %q (want auto, always or never)", ErrInvalidColorMode, c.Color)
	}
	if c.FirstOperand < 0 {
		return fmt.Errorf("first operand column must not be negative: %d", c.FirstOperand)
	}
	if _, err := colorize.ThemeByName(c.Theme); err != nil {
		return err
	}
	if _, err := c.Logging(); err != nil {
		return err
	}
	return nil
}

// Mode returns the decoding mode for Bitness.
func (c Config) Mode() (disasm.Mode, error) {
	return disasm.ParseMode(c.Bitness)
}

// Formatter builds the instruction formatter described by c.
func (c Config) Formatter() *disasm.IntelFormatter {
	f := disasm.NewIntelFormatter()
	f.Options.FirstOperandCharIndex = c.FirstOperand
	f.Options.UppercaseHex = c.UppercaseHex
	return f
}

// Logging returns the logger options for LogLevel and LogDir.
func (c Config) Logging() (logging.Options, error) {
	level, err := charmlog.ParseLevel(c.LogLevel)
	if err != nil {
		return logging.Options{}, err
	}
	return logging.Options{Level: level, Dir: c.LogDir}, nil
}

// ResolveTheme returns the color theme, or Plain when Color is never.
func (c Config) ResolveTheme() (colorize.Theme, error) {
	if c.Color == ColorNever {
		return colorize.Plain(), nil
	}
	return colorize.ThemeByName(c.Theme)
}
