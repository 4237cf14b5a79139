package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/spf13/cobra"

	"asmview/internal/config"
	"asmview/internal/listing"
)

// ParseOutputArgs are the arguments of the parse_output tool
type ParseOutputArgs struct {
	Kind     string `json:"kind" jsonschema:"Output kind: annotation, bytecode, ir or asm"`
	Output   string `json:"output" jsonschema:"Captured tool output to normalize"`
	Symbols  string `json:"symbols,omitempty" jsonschema:"Symbol table JSON document (bytecode only)"`
	ExitCode int    `json:"exitCode,omitempty" jsonschema:"Exit code of the tool run that produced the output"`
	TimedOut bool   `json:"timedOut,omitempty" jsonschema:"Whether the tool run timed out"`
}

// CompileSwayArgs are the arguments of the compile_sway tool
type CompileSwayArgs struct {
	Source string `json:"source" jsonschema:"Sway source of src/main.sw"`
	View   string `json:"view,omitempty" jsonschema:"View to produce: bytecode (default), ir or asm"`
}

type toolHandlers struct {
	cfg  *config.Config
	sink listing.Sink
}

func (h toolHandlers) parseOutput(ctx context.Context, req *mcp.CallToolRequest, args ParseOutputArgs) (*mcp.CallToolResult, any, error) {
	kind, err := listing.ParseKind(args.Kind)
	if err != nil {
		return nil, nil, err
	}
	var symbols []byte
	if args.Symbols != "" {
		symbols = []byte(args.Symbols)
	}
	status := listing.ToolStatus{ExitCode: args.ExitCode, TimedOut: args.TimedOut}
	res, err := parseOutput(kind, h.cfg.Listing.Options(), symbols, status, args.Output, h.sink)
	if err != nil {
		return nil, nil, err
	}
	return jsonResult(res)
}

func (h toolHandlers) compileSway(ctx context.Context, req *mcp.CallToolRequest, args CompileSwayArgs) (*mcp.CallToolResult, any, error) {
	viewName := args.View
	if viewName == "" {
		viewName = listing.KindBytecode.String()
	}
	view, err := listing.ParseKind(viewName)
	if err != nil {
		return nil, nil, err
	}
	c, err := newCompiler(h.cfg, h.sink, false).Compile(ctx, []byte(args.Source), view)
	if err != nil {
		return nil, nil, fmt.Errorf("compile failed: %w", err)
	}
	return jsonResult(c)
}

func jsonResult(v any) (*mcp.CallToolResult, any, error) {
	bts, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return nil, nil, fmt.Errorf("failed to marshal result: %w", err)
	}
	return &mcp.CallToolResult{
		Content: []mcp.Content{
			&mcp.TextContent{Text: string(bts)},
		},
	}, nil, nil
}

// newMCPServer creates the MCP server exposing the parse and compile tools
func newMCPServer(cfg *config.Config, sink listing.Sink) *mcp.Server {
	server := mcp.NewServer(&mcp.Implementation{
		Name:    "asmview",
		Version: "1.0.0",
	}, &mcp.ServerOptions{
		Instructions: `
Compiler output normalization.

Available Tools:
1. "parse_output" - Normalize captured output (annotation, bytecode, ir, asm) into
   lines tagged with the source location they came from
2. "compile_sway" - Compile a Sway program with forc and return one normalized view

Results are JSON: {"lines": [{"text": ..., "source": {"file", "line", "column"}}], "succeeded": bool}.
A failed tool run yields a single "<Compilation failed>" line.
`,
	})

	h := toolHandlers{cfg: cfg, sink: sink}

	mcp.AddTool(server, &mcp.Tool{
		Name:        "parse_output",
		Description: "Normalize captured compiler output into source-mapped lines.",
	}, h.parseOutput)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "compile_sway",
		Description: "Compile a Sway source with forc and return the bytecode, IR or assembly view mapped to source lines.",
	}, h.compileSway)

	return server
}

var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "Serve the parse and compile tools over MCP",
	Long: `Mcp runs a Model Context Protocol server on stdio, or over streamable HTTP
when --http is given.`,
	Example: `
# Serve on stdio
asmview mcp

# Serve over HTTP
asmview mcp --http localhost:8080
  `,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		addr, _ := cmd.Flags().GetString("http")

		sink := newSink(appConfig)
		defer sink.Close()
		server := newMCPServer(appConfig, sink)

		if addr == "" {
			return server.Run(cmd.Context(), &mcp.StdioTransport{})
		}

		handler := mcp.NewStreamableHTTPHandler(func(req *http.Request) *mcp.Server {
			return server
		}, nil)
		httpServer := &http.Server{
			Addr:              addr,
			Handler:           handler,
			ReadHeaderTimeout: 10 * time.Second,
		}

		go func() {
			<-cmd.Context().Done()
			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			_ = httpServer.Shutdown(ctx)
		}()

		slog.Info("Serving MCP", "addr", addr)
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			return fmt.Errorf("server error: %w", err)
		}
		return nil
	},
}

func init() {
	mcpCmd.Flags().String("http", "", "Serve streamable HTTP on this address instead of stdio")

	rootCmd.AddCommand(mcpCmd)
}
