package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func writeConfig(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Forc.Path != "forc" || cfg.Forc.Timeout() != time.Minute {
		t.Errorf("unexpected forc defaults: %+v", cfg.Forc)
	}
	opts := cfg.Listing.Options()
	if opts.PrimarySourceIndex != 1 || opts.Asm.Start == "" || len(opts.IRUnitKinds) != 4 {
		t.Errorf("unexpected listing defaults: %+v", opts)
	}
}

func TestLoadFile(t *testing.T) {
	tests := []struct {
		name    string
		file    string
		content string
		check   func(t *testing.T, cfg *Config)
	}{
		{
			name: "yaml",
			file: "asmview.yaml",
			content: `
debug: true
forc:
  path: /opt/fuel/bin/forc
  timeoutSeconds: 5
listing:
  primarySourceIndex: 2
  irUnitKinds: [script]
`,
			check: func(t *testing.T, cfg *Config) {
				if !cfg.Debug || cfg.Forc.Path != "/opt/fuel/bin/forc" || cfg.Forc.TimeoutSeconds != 5 {
					t.Errorf("forc = %+v debug = %v", cfg.Forc, cfg.Debug)
				}
				if cfg.Listing.PrimarySourceIndex != 2 || len(cfg.Listing.IRUnitKinds) != 1 {
					t.Errorf("listing = %+v", cfg.Listing)
				}
				if cfg.Forc.ProjectName != "godbolt" {
					t.Errorf("default project name lost: %q", cfg.Forc.ProjectName)
				}
			},
		},
		{
			name:    "json",
			file:    "asmview.json",
			content: `{"listing": {"keepAsmHeader": true, "failureText": "<nothing>"}}`,
			check: func(t *testing.T, cfg *Config) {
				opts := cfg.Listing.Options()
				if !opts.Asm.KeepStart || opts.FailureText != "<nothing>" {
					t.Errorf("options = %+v", opts)
				}
			},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg, err := Load(writeConfig(t, tt.file, tt.content))
			if err != nil {
				t.Fatalf("Load: %v", err)
			}
			tt.check(t, cfg)
		})
	}
}

func TestLoadInvalid(t *testing.T) {
	tests := []struct {
		name    string
		content string
		errText string
	}{
		{"negative primary", "listing:\n  primarySourceIndex: -1\n", "primarySourceIndex"},
		{"zero timeout", "forc:\n  timeoutSeconds: 0\n", "timeoutSeconds"},
		{"empty unit kinds", "listing:\n  irUnitKinds: []\n", "irUnitKinds"},
		{"empty marker", "listing:\n  asmEndMarker: \"\"\n", "asmEndMarker"},
		{"bad yaml", "forc: [", "failed to parse config"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load(writeConfig(t, "c.yaml", tt.content))
			if err == nil || !strings.Contains(err.Error(), tt.errText) {
				t.Fatalf("err = %v, want mention of %q", err, tt.errText)
			}
		})
	}
}

func TestLoadMissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Fatal("expected error for missing file")
	}
}

func TestEnvOverrides(t *testing.T) {
	t.Setenv("ASMVIEW_FORC", "/usr/local/bin/forc")
	t.Setenv("ASMVIEW_PRIMARY_SOURCE", "3")
	cfg, err := Load("")
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Forc.Path != "/usr/local/bin/forc" || cfg.Listing.PrimarySourceIndex != 3 {
		t.Errorf("overrides not applied: %+v %+v", cfg.Forc, cfg.Listing)
	}

	t.Setenv("ASMVIEW_PRIMARY_SOURCE", "one")
	if _, err := Load(""); err == nil {
		t.Error("expected error for non-numeric ASMVIEW_PRIMARY_SOURCE")
	}
}
