package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"asmview/internal/asmview/styles"
	"asmview/internal/config"
	"asmview/internal/forc"
	"asmview/internal/listing"
	"asmview/internal/ui/colorize"
)

type compiler interface {
	Compile(ctx context.Context, source []byte, view listing.Kind) (*forc.Compilation, error)
}

// newCompiler is replaced in tests.
var newCompiler = func(cfg *config.Config, sink listing.Sink, keep bool) compiler {
	d := forc.NewDriver(cfg, sink)
	d.KeepProject = keep
	return d
}

var compileCmd = &cobra.Command{
	Use:   "compile [file.sw|-]",
	Short: "Compile a Sway source with forc and show its output",
	Long: `Compile stages the source in a temporary forc project, builds it and prints
the requested view: the bytecode disassembly mapped to source lines, the final
IR block, or the virtual abstract program.`,
	Example: `
# Show bytecode mapped to source lines
asmview compile main.sw

# Final IR as JSON, keeping the staged project for inspection
asmview compile --view ir --json --keep main.sw

# All views side by side
asmview compile --view all main.sw
  `,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		viewName, _ := cmd.Flags().GetString("view")
		jsonOutput, _ := cmd.Flags().GetBool("json")
		markdown, _ := cmd.Flags().GetBool("markdown")
		keep, _ := cmd.Flags().GetBool("keep")
		demangleNames, _ := cmd.Flags().GetBool("demangle")

		views, err := parseViews(viewName)
		if err != nil {
			return err
		}

		path := ""
		if len(args) > 0 {
			path = args[0]
		}
		source, err := readInput(cmd, path)
		if err != nil {
			return err
		}

		sink := newSink(appConfig)
		defer sink.Close()

		results, err := compileViews(cmd.Context(), newCompiler(appConfig, sink, keep), source, views)
		if err != nil {
			return fmt.Errorf("compile failed: %w", err)
		}
		for _, c := range results {
			if c.Dir != "" {
				slog.Info("Kept project", "view", c.View, "dir", c.Dir)
			}
		}

		out := cmd.OutOrStdout()
		color := colorOutput(cmd)
		if jsonOutput {
			if len(results) == 1 {
				return renderJSON(out, results[0])
			}
			return renderJSON(out, results)
		}

		var reports []string
		for i, c := range results {
			opts := renderOptions{Kind: views[i], Color: color, Demangle: demangleNames}
			if markdown {
				reports = append(reports, markdownReport(fmt.Sprintf("%s view", views[i]), c.Result, opts, c.Stderr))
				continue
			}
			if len(results) > 1 {
				fmt.Fprintf(out, "== %s ==\n", views[i])
			}
			if err := renderText(out, c.Result, opts); err != nil {
				return err
			}
			if !c.Result.Succeeded {
				writeDiagnostics(cmd, c, color)
			}
		}
		if markdown {
			return renderMarkdown(out, strings.Join(reports, "\n"), color, outputWidth())
		}
		return nil
	},
}

// parseViews accepts a single view name or "all".
func parseViews(name string) ([]listing.Kind, error) {
	if strings.EqualFold(strings.TrimSpace(name), "all") {
		return []listing.Kind{listing.KindBytecode, listing.KindIR, listing.KindAsm}, nil
	}
	view, err := listing.ParseKind(name)
	if err != nil {
		return nil, err
	}
	return []listing.Kind{view}, nil
}

// compileViews compiles source once per view, concurrently. Results are in
// the order of views.
func compileViews(ctx context.Context, c compiler, source []byte, views []listing.Kind) ([]*forc.Compilation, error) {
	results := make([]*forc.Compilation, len(views))
	g, ctx := errgroup.WithContext(ctx)
	for i, view := range views {
		g.Go(func() error {
			res, err := c.Compile(ctx, source, view)
			if err != nil {
				return fmt.Errorf("%s: %w", view, err)
			}
			results[i] = res
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}

// writeDiagnostics echoes the build's stderr so the failure is explained.
func writeDiagnostics(cmd *cobra.Command, c *forc.Compilation, color bool) {
	w := cmd.ErrOrStderr()
	if c.TimedOut {
		fmt.Fprintln(w, "forc timed out after", c.ExecTime)
	}
	for _, line := range c.Stderr {
		if !color {
			line = colorize.StripANSI(line)
		}
		fmt.Fprintln(w, line)
	}
	if len(c.Stderr) == 0 && len(c.Stdout) > 0 {
		tail := c.Stdout[max(0, len(c.Stdout)-20):]
		text := strings.Join(tail, "\n")
		if !color {
			text = colorize.StripANSI(text)
		} else {
			text = styles.Gutter.Render(text)
		}
		fmt.Fprintln(w, text)
	}
}

func init() {
	compileCmd.Flags().StringP("view", "v", "bytecode", "View: bytecode, ir, asm or all")
	compileCmd.Flags().BoolP("json", "j", false, "Output the compilation as JSON")
	compileCmd.Flags().BoolP("markdown", "m", false, "Output a markdown report")
	compileCmd.Flags().Bool("keep", false, "Keep the staged forc project")
	compileCmd.Flags().Bool("demangle", false, "Demangle C++ symbol names in output lines")
	compileCmd.Flags().Bool("no-color", false, "Disable colors")

	rootCmd.AddCommand(compileCmd)
}
