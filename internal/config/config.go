// Package config loads asmview settings from a YAML (or JSON) file, applies
// environment overrides and validates the result.
package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"

	"asmview/internal/listing"
)

// Config is the top-level asmview configuration.
type Config struct {
	Debug   bool          `json:"debug" yaml:"debug" jsonschema:"title=Debug,description=Enable debug logging"`
	Forc    ForcConfig    `json:"forc" yaml:"forc" jsonschema:"title=Forc,description=Sway toolchain invocation"`
	Listing ListingConfig `json:"listing" yaml:"listing" jsonschema:"title=Listing,description=Output normalization settings"`
}

// ForcConfig describes how the forc toolchain is invoked.
type ForcConfig struct {
	Path           string `json:"path" yaml:"path" jsonschema:"title=Path,description=forc executable"`
	StdTag         string `json:"stdTag" yaml:"stdTag" jsonschema:"title=Std Tag,description=Git tag of the sway std library dependency"`
	ProjectName    string `json:"projectName" yaml:"projectName" jsonschema:"title=Project Name,description=Name written to Forc.toml"`
	TimeoutSeconds int    `json:"timeoutSeconds" yaml:"timeoutSeconds" jsonschema:"title=Timeout,description=Per-invocation timeout in seconds"`
}

// Timeout returns the per-invocation timeout.
func (f ForcConfig) Timeout() time.Duration {
	return time.Duration(f.TimeoutSeconds) * time.Second
}

// ListingConfig parameterizes the output extractors.
type ListingConfig struct {
	PrimarySourceIndex int      `json:"primarySourceIndex" yaml:"primarySourceIndex" jsonschema:"title=Primary Source Index,description=Symbol table path index of the user's source"`
	IRMarker           string   `json:"irMarker" yaml:"irMarker" jsonschema:"title=IR Marker,description=Banner preceding the final IR pass"`
	IRUnitKinds        []string `json:"irUnitKinds" yaml:"irUnitKinds" jsonschema:"title=IR Unit Kinds,description=Keywords opening a top-level IR block"`
	AsmStartMarker     string   `json:"asmStartMarker" yaml:"asmStartMarker" jsonschema:"title=Asm Start Marker"`
	AsmEndMarker       string   `json:"asmEndMarker" yaml:"asmEndMarker" jsonschema:"title=Asm End Marker"`
	KeepAsmHeader      bool     `json:"keepAsmHeader" yaml:"keepAsmHeader" jsonschema:"title=Keep Asm Header,description=Include the start marker line in the asm view"`
	FailureText        string   `json:"failureText" yaml:"failureText" jsonschema:"title=Failure Text,description=Sentinel line shown when there is no output"`
}

// Options converts the listing settings for the extractors.
func (l ListingConfig) Options() listing.Options {
	return listing.Options{
		PrimarySourceIndex: l.PrimarySourceIndex,
		IRMarker:           l.IRMarker,
		IRUnitKinds:        l.IRUnitKinds,
		Asm: listing.AsmMarkers{
			Start:     l.AsmStartMarker,
			End:       l.AsmEndMarker,
			KeepStart: l.KeepAsmHeader,
		},
		FailureText: l.FailureText,
	}
}

// Default returns the built-in configuration.
func Default() *Config {
	opts := listing.DefaultOptions()
	return &Config{
		Forc: ForcConfig{
			Path:           "forc",
			StdTag:         "v0.66.6",
			ProjectName:    "godbolt",
			TimeoutSeconds: 60,
		},
		Listing: ListingConfig{
			PrimarySourceIndex: opts.PrimarySourceIndex,
			IRMarker:           opts.IRMarker,
			IRUnitKinds:        append([]string(nil), opts.IRUnitKinds...),
			AsmStartMarker:     opts.Asm.Start,
			AsmEndMarker:       opts.Asm.End,
			FailureText:        opts.FailureText,
		},
	}
}

// Load reads the configuration file at path on top of the defaults. An empty
// path yields the defaults. Environment overrides are applied last:
// ASMVIEW_FORC sets the forc executable, ASMVIEW_PRIMARY_SOURCE the primary
// symbol path index.
func Load(path string) (*Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config: %w", err)
		}
	}

	if err := applyEnv(cfg); err != nil {
		return nil, err
	}

	if err := validate(cfg); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

func applyEnv(cfg *Config) error {
	if v := os.Getenv("ASMVIEW_FORC"); v != "" {
		cfg.Forc.Path = v
	}
	if v := os.Getenv("ASMVIEW_PRIMARY_SOURCE"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("ASMVIEW_PRIMARY_SOURCE: %w", err)
		}
		cfg.Listing.PrimarySourceIndex = n
	}
	return nil
}

// validate checks if the configuration is usable
func validate(cfg *Config) error {
	if cfg.Forc.Path == "" {
		return fmt.Errorf("forc.path is required")
	}
	if cfg.Forc.ProjectName == "" {
		return fmt.Errorf("forc.projectName is required")
	}
	if cfg.Forc.TimeoutSeconds <= 0 {
		return fmt.Errorf("forc.timeoutSeconds must be positive, got %d", cfg.Forc.TimeoutSeconds)
	}

	l := cfg.Listing
	if l.PrimarySourceIndex < 0 {
		return fmt.Errorf("listing.primarySourceIndex must not be negative, got %d", l.PrimarySourceIndex)
	}
	if l.IRMarker == "" {
		return fmt.Errorf("listing.irMarker is required")
	}
	if len(l.IRUnitKinds) == 0 {
		return fmt.Errorf("listing.irUnitKinds must name at least one unit kind")
	}
	for i, k := range l.IRUnitKinds {
		if k == "" {
			return fmt.Errorf("listing.irUnitKinds[%d] is empty", i)
		}
	}
	if l.AsmStartMarker == "" || l.AsmEndMarker == "" {
		return fmt.Errorf("listing.asmStartMarker and listing.asmEndMarker are required")
	}
	return nil
}
