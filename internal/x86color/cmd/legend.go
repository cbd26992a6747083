package cmd

import (
	"fmt"
	"os"
	"strings"

	"github.com/charmbracelet/x/term"
	"github.com/spf13/cobra"

	"x86color/internal/config"
	"x86color/internal/disasm"
	"x86color/internal/render"
	"x86color/internal/ui/colorize"
	"x86color/internal/x86color/styles"
)

// legendSample is a short 64-bit function touching most text kinds.
var legendSample = []byte{
	0x55,                                     // push rbp
	0x48, 0x89, 0xe5,                         // mov rbp,rsp
	0xc7, 0x45, 0xfc, 0x2a, 0x00, 0x00, 0x00, // mov dword ptr [rbp-0x4],0x2a
	0x48, 0x8b, 0x44, 0x24, 0x08,             // mov rax,[rsp+0x8]
	0xf0, 0x48, 0x0f, 0xc1, 0x07,             // lock xadd [rdi],rax
	0xe8, 0x00, 0x00, 0x00, 0x00,             // call next
	0x74, 0xfe,                               // je self
	0xf3, 0xa4,                               // rep movsb
	0x5d,                                     // pop rbp
	0xc3,                                     // ret
}

func newLegendCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "legend",
		Short: "Show which color each kind of text is painted",
		RunE: func(cmd *cobra.Command, args []string) error {
			color, _ := cmd.Flags().GetString("color")
			theme, _ := cmd.Flags().GetString("theme")
			return runLegend(cmd, color, theme)
		},
	}
	cmd.Flags().StringP("theme", "t", colorize.ClassicTheme, "Theme used for the sample listing")
	cmd.Flags().String("color", config.ColorAuto, "When to color output: auto, always or never")
	return cmd
}

// legendMarkdown describes the classic palette.
func legendMarkdown() string {
	var b strings.Builder
	b.WriteString("# x86color legend\n\n")
	b.WriteString("| Kind | Color |\n|---|---|\n")
	for _, k := range disasm.Kinds() {
		fmt.Fprintf(&b, "| %s | %s |\n", k, colorize.Classify(k))
	}
	b.WriteString("\nAny other kind is painted white. The sample below uses the selected theme;\n")
	b.WriteString("any chroma style works too:\n\n")
	b.WriteString("```sh\nx86color legend --theme " + colorize.DarkThemeName + "\nx86color themes\n```\n")
	return b.String()
}

func runLegend(cmd *cobra.Command, color, themeName string) error {
	cfg := config.Default()
	cfg.Color = color
	cfg.Theme = themeName
	if err := cfg.Validate(); err != nil {
		return err
	}
	theme, err := cfg.ResolveTheme()
	if err != nil {
		return err
	}

	width := 80
	if w, _, err := term.GetSize(os.Stdout.Fd()); err == nil && w > 0 {
		width = w
	}
	renderer, err := styles.LegendRenderer(width - 2)
	if err != nil {
		return fmt.Errorf("markdown renderer: %w", err)
	}
	doc, err := renderer.Render(legendMarkdown())
	if err != nil {
		return fmt.Errorf("render legend: %w", err)
	}

	out := newOutput(cmd.OutOrStdout(), cfg.Color)
	if _, err := fmt.Fprint(out, doc); err != nil {
		return err
	}
	_, err = render.Colorize(out, legendSample, render.Options{
		Mode:        disasm.Mode64,
		IP:          0x1000,
		Theme:       theme,
		ShowAddress: true,
		ShowBytes:   true,
	})
	return err
}

func newThemesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "themes",
		Short: "List available color themes",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			for _, name := range colorize.ThemeNames() {
				if _, err := fmt.Fprintln(cmd.OutOrStdout(), name); err != nil {
					return err
				}
			}
			return nil
		},
	}
}
