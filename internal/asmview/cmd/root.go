package cmd

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/fang"
	"github.com/charmbracelet/x/term"
	"github.com/spf13/cobra"

	"asmview/internal/asmview/log"
	"asmview/internal/config"
	"asmview/internal/logging"
)

func init() {
	rootCmd.PersistentFlags().StringP("cwd", "c", "", "Current working directory")
	rootCmd.PersistentFlags().String("config", "", "Path to a YAML or JSON config file")
	rootCmd.PersistentFlags().BoolP("debug", "d", false, "Debug")

	rootCmd.Flags().BoolP("help", "h", false, "Help")
}

var rootCmd = &cobra.Command{
	Use:   "asmview",
	Short: "Normalize and explore compiler output",
	Long: `Asmview turns raw compiler output (bytecode disassembly, annotated listings,
IR dumps and assembly transcripts) into uniform lines mapped back to the source
they were compiled from.`,
	Example: `
# Parse a captured disassembly against its symbol table
asmview parse --kind bytecode --symbols symbols.json bytecode.txt

# Compile a Sway file and print its final IR
asmview compile --view ir main.sw

# Explore the output next to the source
asmview view --compile main.sw
  `,
	Args:         cobra.NoArgs,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if _, err := ResolveCwd(cmd); err != nil {
			return err
		}
		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}
		appConfig = cfg
		log.Setup(cfg.Debug)
		return nil
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		return cmd.Help()
	},
}

// appConfig is loaded once per invocation before any subcommand runs.
var appConfig = config.Default()

// loadConfig reads --config and folds --debug into the result.
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	path, _ := cmd.Flags().GetString("config")
	cfg, err := config.Load(path)
	if err != nil {
		return nil, err
	}
	if debug, _ := cmd.Flags().GetBool("debug"); debug {
		cfg.Debug = true
	}
	return cfg, nil
}

// newSink returns the component logger used for parse diagnostics.
func newSink(cfg *config.Config) *logging.LoggerCloser {
	lg := logging.NewLogger()
	if cfg.Debug {
		lg.SetLevel(logging.ParseLevel("debug"))
	}
	return lg
}

func Execute() {
	// Bypass fang's styled output when the result is machine-readable or piped
	plain := false
	for _, arg := range os.Args[1:] {
		if arg == "--json" || arg == "-j" || arg == "mcp" {
			plain = true
			break
		}
	}
	if !plain && !term.IsTerminal(os.Stdout.Fd()) {
		plain = true
	}

	if plain {
		if err := rootCmd.Execute(); err != nil {
			os.Exit(1)
		}
	} else {
		if err := fang.Execute(
			context.Background(),
			rootCmd,
			fang.WithNotifySignal(os.Interrupt),
		); err != nil {
			os.Exit(1)
		}
	}
}

// readInput returns the contents of path, or of stdin when path is "-" or
// empty and stdin is a pipe.
func readInput(cmd *cobra.Command, path string) ([]byte, error) {
	if path != "" && path != "-" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read input: %w", err)
		}
		return data, nil
	}

	in := cmd.InOrStdin()
	if f, ok := in.(*os.File); ok && path == "" {
		if term.IsTerminal(f.Fd()) {
			return nil, fmt.Errorf("no input file given and stdin is a terminal")
		}
	}
	data, err := io.ReadAll(in)
	if err != nil {
		return nil, fmt.Errorf("failed to read stdin: %w", err)
	}
	return data, nil
}

func ResolveCwd(cmd *cobra.Command) (string, error) {
	cwd, _ := cmd.Flags().GetString("cwd")
	if cwd != "" {
		err := os.Chdir(cwd)
		if err != nil {
			return "", fmt.Errorf("failed to change directory: %v", err)
		}
		return cwd, nil
	}
	cwd, err := os.Getwd()
	if err != nil {
		return "", fmt.Errorf("failed to get current working directory: %v", err)
	}
	return cwd, nil
}
