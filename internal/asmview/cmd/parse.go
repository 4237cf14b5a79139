package cmd

import (
	"fmt"
	"os"
	"strings"

	"github.com/charmbracelet/x/term"
	"github.com/spf13/cobra"

	"asmview/internal/listing"
	"asmview/internal/ui/colorize"
)

var parseCmd = &cobra.Command{
	Use:   "parse [file|-]",
	Short: "Normalize captured compiler output",
	Long: `Parse reads output captured from a compiler run and prints it as normalized
lines, each prefixed with the source location it maps to, if any.

Kinds:
  annotation  annotated listings with Frame_N headers and annotation: lines
  bytecode    parse-bytecode disassembly, mapped with --symbols
  ir          IR dumps; only the final pass's top-level block is kept
  asm         build transcripts; only the virtual abstract program is kept`,
	Example: `
# Map a bytecode disassembly to source lines
asmview parse --kind bytecode --symbols out/debug/symbols.json bytecode.txt

# Pipe an IR dump and get JSON
forc build --ir final | asmview parse --kind ir --json

# Report a failed build
asmview parse --kind asm --exit-code 1 build.log
  `,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		kindName, _ := cmd.Flags().GetString("kind")
		symbolsPath, _ := cmd.Flags().GetString("symbols")
		exitCode, _ := cmd.Flags().GetInt("exit-code")
		timedOut, _ := cmd.Flags().GetBool("timed-out")
		jsonOutput, _ := cmd.Flags().GetBool("json")
		markdown, _ := cmd.Flags().GetBool("markdown")
		demangleNames, _ := cmd.Flags().GetBool("demangle")

		kind, err := listing.ParseKind(kindName)
		if err != nil {
			return fmt.Errorf("%w (expected one of %s)", err, strings.Join(listing.KindNames(), ", "))
		}

		path := ""
		if len(args) > 0 {
			path = args[0]
		}
		raw, err := readInput(cmd, path)
		if err != nil {
			return err
		}

		var symbols []byte
		if symbolsPath != "" {
			symbols, err = os.ReadFile(symbolsPath)
			if err != nil {
				return fmt.Errorf("failed to read symbols: %w", err)
			}
		}

		sink := newSink(appConfig)
		defer sink.Close()

		status := listing.ToolStatus{ExitCode: exitCode, TimedOut: timedOut}
		res, err := parseOutput(kind, appConfig.Listing.Options(), symbols, status, string(raw), sink)
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		opts := renderOptions{Kind: kind, Color: colorOutput(cmd), Demangle: demangleNames}
		switch {
		case jsonOutput:
			return renderJSON(out, res)
		case markdown:
			report := markdownReport(fmt.Sprintf("%s output", kind), res, opts, nil)
			return renderMarkdown(out, report, opts.Color, outputWidth())
		default:
			return renderText(out, res, opts)
		}
	},
}

// parseOutput runs the extractor for kind over raw and assembles the result.
func parseOutput(kind listing.Kind, opts listing.Options, symbols []byte, status listing.ToolStatus, raw string, sink listing.Sink) (listing.Result, error) {
	ex, err := listing.NewExtractor(kind, opts, symbols)
	if err != nil {
		return listing.Result{}, err
	}
	return listing.NewParser(opts, sink).Parse(ex, status, raw), nil
}

// colorOutput reports whether the command writes to a terminal that should
// receive colors.
func colorOutput(cmd *cobra.Command) bool {
	if noColor, _ := cmd.Flags().GetBool("no-color"); noColor {
		return false
	}
	f, ok := cmd.OutOrStdout().(*os.File)
	if !ok || !term.IsTerminal(f.Fd()) {
		return false
	}
	return colorize.Enabled()
}

func outputWidth() int {
	if w, _, err := term.GetSize(os.Stdout.Fd()); err == nil && w > 0 {
		return w - 2
	}
	return 100
}

func init() {
	parseCmd.Flags().StringP("kind", "k", "bytecode", "Output kind: "+strings.Join(listing.KindNames(), ", "))
	parseCmd.Flags().StringP("symbols", "s", "", "Symbol table JSON for bytecode output")
	parseCmd.Flags().Int("exit-code", 0, "Exit code of the tool run that produced the output")
	parseCmd.Flags().Bool("timed-out", false, "The tool run that produced the output timed out")
	parseCmd.Flags().BoolP("json", "j", false, "Output the result as JSON")
	parseCmd.Flags().BoolP("markdown", "m", false, "Output a markdown report")
	parseCmd.Flags().Bool("demangle", false, "Demangle C++ symbol names in output lines")
	parseCmd.Flags().Bool("no-color", false, "Disable colors")

	rootCmd.AddCommand(parseCmd)
}
