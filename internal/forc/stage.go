// Package forc drives the Sway toolchain: it stages a throwaway forc project
// around a single source file, runs the build and the requested view, and
// hands the captured output to the listing extractors.
package forc

import (
	"fmt"
	"os"
	"path/filepath"
)

const manifestTemplate = `[project]
entry = "main.sw"
license = "Apache-2.0"
name = %q

[dependencies]
std = { git = "https://github.com/FuelLabs/sway", tag = %q }
`

// Project is a staged forc project directory.
type Project struct {
	Dir          string
	SourcePath   string
	SymbolsPath  string
	ArtifactPath string
}

// Cleanup removes the project directory.
func (p *Project) Cleanup() error {
	return os.RemoveAll(p.Dir)
}

// Stager provisions forc projects.
type Stager struct {
	ProjectName string
	StdTag      string
	// TempDir is the parent directory for projects; empty means os.TempDir.
	TempDir string
}

// Stage creates a fresh project containing source as src/main.sw.
func (s Stager) Stage(source []byte) (*Project, error) {
	dir, err := os.MkdirTemp(s.TempDir, "asmview-forc-")
	if err != nil {
		return nil, fmt.Errorf("failed to create project dir: %w", err)
	}
	p := &Project{
		Dir:          dir,
		SourcePath:   filepath.Join(dir, "src", "main.sw"),
		SymbolsPath:  filepath.Join(dir, "out", "debug", "symbols.json"),
		ArtifactPath: filepath.Join(dir, "out", "debug", s.ProjectName+".bin"),
	}

	if err := s.write(p, source); err != nil {
		_ = p.Cleanup()
		return nil, err
	}
	return p, nil
}

func (s Stager) write(p *Project, source []byte) error {
	for _, d := range []string{filepath.Dir(p.SymbolsPath), filepath.Dir(p.SourcePath)} {
		if err := os.MkdirAll(d, 0o755); err != nil {
			return fmt.Errorf("failed to create %s: %w", d, err)
		}
	}
	manifest := fmt.Sprintf(manifestTemplate, s.ProjectName, s.StdTag)
	if err := os.WriteFile(filepath.Join(p.Dir, "Forc.toml"), []byte(manifest), 0o644); err != nil {
		return fmt.Errorf("failed to write Forc.toml: %w", err)
	}
	if err := os.WriteFile(p.SourcePath, source, 0o644); err != nil {
		return fmt.Errorf("failed to write source: %w", err)
	}
	return nil
}
