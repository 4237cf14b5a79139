package cmd

import (
	"encoding/json"
	"fmt"

	"github.com/invopop/jsonschema"
	"github.com/spf13/cobra"

	"asmview/internal/config"
	"asmview/internal/listing"
)

var schemaCmd = &cobra.Command{
	Use:    "schema [config|symbols]",
	Short:  "Generate JSON schema for configuration or symbol tables",
	Long:   "Generate JSON schema for the asmview configuration file, or for the symbol table document read by bytecode parsing",
	Hidden: true,
	Args:   cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		target := "config"
		if len(args) > 0 {
			target = args[0]
		}

		reflector := new(jsonschema.Reflector)
		var schema *jsonschema.Schema
		switch target {
		case "config":
			schema = reflector.Reflect(&config.Config{})
		case "symbols":
			schema = reflector.Reflect(&listing.SymbolPayload{})
		default:
			return fmt.Errorf("unknown schema %q (expected config or symbols)", target)
		}

		bts, err := json.MarshalIndent(schema, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to marshal schema: %w", err)
		}
		fmt.Fprintln(cmd.OutOrStdout(), string(bts))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(schemaCmd)
}
