package forc

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"asmview/internal/config"
	"asmview/internal/listing"
	"asmview/internal/toolchain"
)

var ErrUnsupportedView = errors.New("view not supported by forc")

// Compilation is the outcome of compiling one source for one view.
type Compilation struct {
	Result   listing.Result `json:"result"`
	View     string         `json:"view"`
	Code     int            `json:"code"`
	TimedOut bool           `json:"timedOut"`
	Stdout   []string       `json:"stdout"`
	Stderr   []string       `json:"stderr"`
	ExecTime time.Duration  `json:"execTime"`
	Dir      string         `json:"dir,omitempty"`
}

// Driver compiles Sway sources with forc.
type Driver struct {
	Exec     toolchain.Executor
	Files    toolchain.Files
	Stager   Stager
	ForcPath string
	Options  listing.Options
	Sink     listing.Sink
	// KeepProject leaves the staged project on disk and reports its path.
	KeepProject bool
}

// NewDriver creates a driver running forc on the host.
func NewDriver(cfg *config.Config, sink listing.Sink) *Driver {
	return &Driver{
		Exec:     toolchain.LocalExecutor{Timeout: cfg.Forc.Timeout()},
		Files:    toolchain.OSFiles{},
		Stager:   Stager{ProjectName: cfg.Forc.ProjectName, StdTag: cfg.Forc.StdTag},
		ForcPath: cfg.Forc.Path,
		Options:  cfg.Listing.Options(),
		Sink:     sink,
	}
}

// Compile stages source, builds it and renders the requested view. Tool
// failures are reported in the returned result; errors mean the toolchain
// could not be driven at all.
func (d *Driver) Compile(ctx context.Context, source []byte, view listing.Kind) (*Compilation, error) {
	if view == listing.KindAnnotation {
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedView, view)
	}

	project, err := d.Stager.Stage(source)
	if err != nil {
		return nil, err
	}
	if !d.KeepProject {
		defer func() {
			if err := project.Cleanup(); err != nil {
				slog.Warn("Failed to remove project", "dir", project.Dir, "error", err)
			}
		}()
	}

	build, err := d.forc(ctx, project, "build", "-g", project.SymbolsPath)
	if err != nil {
		return nil, err
	}
	c := &Compilation{
		View:     view.String(),
		Code:     build.Code,
		TimedOut: build.TimedOut,
		Stdout:   splitOutput(build.Stdout),
		Stderr:   splitOutput(build.Stderr),
		ExecTime: build.ExecTime,
	}
	if d.KeepProject {
		c.Dir = project.Dir
	}

	parser := listing.NewParser(d.Options, d.Sink)
	status := listing.ToolStatus{ExitCode: build.Code, TimedOut: build.TimedOut}
	if status.Failed() {
		c.Result = listing.Assembler{FailureText: d.Options.FailureText}.Assemble(status, nil)
		return c, nil
	}

	var raw string
	var ex listing.Extractor
	switch view {
	case listing.KindBytecode:
		raw, ex, status, err = d.bytecode(ctx, project)
	case listing.KindIR:
		raw, ex, status, err = d.view(ctx, project, view, "build", "--ir", "final")
	case listing.KindAsm:
		raw, ex, status, err = d.view(ctx, project, view, "build", "--asm", "all")
	default:
		err = fmt.Errorf("%w: %s", ErrUnsupportedView, view)
	}
	if err != nil {
		return nil, err
	}

	c.Result = parser.Parse(ex, status, raw)
	return c, nil
}

func (d *Driver) view(ctx context.Context, p *Project, kind listing.Kind, args ...string) (string, listing.Extractor, listing.ToolStatus, error) {
	res, err := d.forc(ctx, p, args...)
	if err != nil {
		return "", nil, listing.ToolStatus{}, err
	}
	ex, err := listing.NewExtractor(kind, d.Options, nil)
	if err != nil {
		return "", nil, listing.ToolStatus{}, err
	}
	return res.Stdout, ex, listing.ToolStatus{ExitCode: res.Code, TimedOut: res.TimedOut}, nil
}

func (d *Driver) bytecode(ctx context.Context, p *Project) (string, listing.Extractor, listing.ToolStatus, error) {
	if _, ok, err := d.Files.ReadIfExists(p.ArtifactPath); err != nil || !ok {
		if err != nil {
			return "", nil, listing.ToolStatus{}, err
		}
		// Nothing to disassemble; the assembler substitutes the sentinel.
		return "", missingArtifact{path: p.ArtifactPath}, listing.ToolStatus{}, nil
	}

	res, err := d.forc(ctx, p, "parse-bytecode", p.ArtifactPath)
	if err != nil {
		return "", nil, listing.ToolStatus{}, err
	}

	symbols, ok, err := d.Files.ReadIfExists(p.SymbolsPath)
	if err != nil {
		return "", nil, listing.ToolStatus{}, err
	}
	if !ok {
		slog.Debug("No symbols file", "path", p.SymbolsPath)
	}
	ex := listing.NewBytecodeExtractor(symbols, d.Options.PrimarySourceIndex)
	return res.Stdout, ex, listing.ToolStatus{ExitCode: res.Code, TimedOut: res.TimedOut}, nil
}

func (d *Driver) forc(ctx context.Context, p *Project, args ...string) (toolchain.ExecResult, error) {
	return d.Exec.Exec(ctx, toolchain.Command{
		Path: d.ForcPath,
		Args: args,
		Dir:  p.Dir,
	})
}

type missingArtifact struct{ path string }

func (m missingArtifact) Extract(string) (listing.Extraction, error) {
	return listing.Extraction{Degraded: "no bytecode artifact at " + m.path}, nil
}

func splitOutput(s string) []string {
	s = strings.TrimRight(s, "\n")
	if s == "" {
		return nil
	}
	return strings.Split(s, "\n")
}
