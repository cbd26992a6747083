package cmd

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	pathpkg "path/filepath"
	"runtime/pprof"

	"github.com/charmbracelet/colorprofile"
	"github.com/charmbracelet/fang"
	charmlog "github.com/charmbracelet/log"
	"github.com/charmbracelet/x/term"
	"github.com/spf13/cobra"

	"x86color/internal/config"
	"x86color/internal/disasm"
	"x86color/internal/elfx"
	"x86color/internal/render"
	"x86color/internal/ui/viewer"
	"x86color/internal/x86color/log"
)

var rootCmd = newRootCmd()

func newRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "x86color [file]",
		Short: "Syntax-highlighted x86 disassembly",
		Long: `x86color disassembles a file of raw x86 machine code and prints one
colored line of Intel-syntax assembly per instruction.`,
		Example: `
# Disassemble 64-bit shellcode
x86color shellcode.bin

# 32-bit code loaded at 0x401000
x86color -b 32 --rip 0x401000 payload.bin

# The .text section of an ELF binary, with addresses and bytes
x86color -s .text -a -x ./a.out
  `,
		Args:         cobra.ExactArgs(1),
		SilenceUsage: true,
		RunE:         runRoot,
	}

	cmd.PersistentFlags().BoolP("debug", "d", false, "Debug logging (same as X86COLOR_LOG_LEVEL=debug)")

	cmd.Flags().IntP("bitness", "b", int(disasm.Mode64), "Decoding mode: 16, 32 or 64")
	cmd.Flags().Uint64P("rip", "r", 0, "Address of the first byte (accepts 0x hex)")
	cmd.Flags().StringP("section", "s", "", "Disassemble an ELF section instead of the raw file")
	cmd.Flags().StringP("theme", "t", "classic", "Color theme: classic, plain or a chroma style")
	cmd.Flags().String("color", config.ColorAuto, "When to color output: auto, always or never")
	cmd.Flags().BoolP("address", "a", false, "Show instruction addresses")
	cmd.Flags().BoolP("bytes", "x", false, "Show instruction bytes")
	cmd.Flags().Bool("uppercase-hex", false, "Upper-case hex digits")
	cmd.Flags().Int("first-operand", disasm.DefaultFirstOperandCharIndex, "Column of the first operand")
	cmd.Flags().BoolP("tui", "i", false, "Browse the listing in an interactive viewer")
	cmd.Flags().String("cpuprofile", "", "Write CPU profile to file")

	cmd.AddCommand(newLegendCmd(), newThemesCmd(), newSchemaCmd())
	return cmd
}

// loadConfig layers defaults, X86COLOR_* variables and explicit flags.
func loadConfig(cmd *cobra.Command) (config.Config, error) {
	cfg, err := config.FromEnv(os.LookupEnv)
	if err != nil {
		return cfg, err
	}

	flags := cmd.Flags()
	if flags.Changed("bitness") {
		cfg.Bitness, _ = flags.GetInt("bitness")
	}
	if flags.Changed("rip") {
		cfg.RIP, _ = flags.GetUint64("rip")
	}
	if flags.Changed("theme") {
		cfg.Theme, _ = flags.GetString("theme")
	}
	if flags.Changed("color") {
		cfg.Color, _ = flags.GetString("color")
	}
	if flags.Changed("first-operand") {
		cfg.FirstOperand, _ = flags.GetInt("first-operand")
	}
	cfg.Section, _ = flags.GetString("section")
	cfg.ShowAddress, _ = flags.GetBool("address")
	cfg.ShowBytes, _ = flags.GetBool("bytes")
	cfg.UppercaseHex, _ = flags.GetBool("uppercase-hex")
	if debug, _ := flags.GetBool("debug"); debug {
		cfg.LogLevel = charmlog.DebugLevel.String()
	}

	return cfg, cfg.Validate()
}

func runRoot(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	logOpts, err := cfg.Logging()
	if err != nil {
		return err
	}
	logger := log.Setup(logOpts)

	cpuprofile, _ := cmd.Flags().GetString("cpuprofile")
	if cpuprofile != "" {
		f, err := os.Create(cpuprofile)
		if err != nil {
			return fmt.Errorf("could not create CPU profile: %w", err)
		}
		defer f.Close()
		if err := pprof.StartCPUProfile(f); err != nil {
			return fmt.Errorf("could not start CPU profile: %w", err)
		}
		defer pprof.StopCPUProfile()
	}

	file := args[0]
	code, sectionVA, sectionMode, err := elfx.ReadInput(file, cfg.Section)
	if err != nil {
		return fmt.Errorf("read input: %w", err)
	}
	if cfg.Section != "" {
		if !cmd.Flags().Changed("rip") && os.Getenv(config.EnvRIP) == "" {
			cfg.RIP = sectionVA
		}
		if !cmd.Flags().Changed("bitness") && os.Getenv(config.EnvBitness) == "" {
			cfg.Bitness = int(sectionMode)
		}
	}

	mode, err := cfg.Mode()
	if err != nil {
		return err
	}
	theme, err := cfg.ResolveTheme()
	if err != nil {
		return err
	}
	slog.Debug("Disassembling", "file", file, "bytes", len(code), "mode", mode, "rip", fmt.Sprintf("%#x", cfg.RIP), "theme", theme.Name())

	opts := render.Options{
		Mode:        mode,
		IP:          cfg.RIP,
		Theme:       theme,
		Formatter:   cfg.Formatter(),
		ShowAddress: cfg.ShowAddress,
		ShowBytes:   cfg.ShowBytes,
		Logger:      logger,
	}

	if tui, _ := cmd.Flags().GetBool("tui"); tui {
		lines, stats, err := render.Lines(code, opts)
		if err != nil {
			return err
		}
		return viewer.Run(cmd.Context(), pathpkg.Base(file), lines, stats)
	}

	_, err = render.Colorize(newOutput(cmd.OutOrStdout(), cfg.Color), code, opts)
	return err
}

// newOutput wraps w so escape sequences match what the terminal supports.
func newOutput(w io.Writer, color string) io.Writer {
	out := colorprofile.NewWriter(w, os.Environ())
	switch color {
	case config.ColorAlways:
		out.Profile = colorprofile.TrueColor
	case config.ColorNever:
		out.Profile = colorprofile.NoTTY
	}
	return out
}

func Execute() {
	err := execute()
	log.Close()
	if err != nil {
		os.Exit(1)
	}
}

func execute() error {
	// fang renders help and errors for terminals; plain cobra otherwise.
	if !term.IsTerminal(os.Stdout.Fd()) {
		return rootCmd.Execute()
	}
	return fang.Execute(
		context.Background(),
		rootCmd,
		fang.WithNotifySignal(os.Interrupt),
	)
}
