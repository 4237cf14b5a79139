package forc

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"asmview/internal/config"
	"asmview/internal/listing"
	"asmview/internal/toolchain"
)

const source = `script;

fn main() -> u64 {
    42
}
`

const symbols = `{"paths":["/std/lib.sw","/p/src/main.sw"],"map":{"2":{"path":1,"range":{"start":{"line":4,"col":5},"end":{"line":4,"col":7}}}}}`

type fakeExec struct {
	results map[string]toolchain.ExecResult
	calls   []toolchain.Command
}

func (f *fakeExec) Exec(ctx context.Context, cmd toolchain.Command) (toolchain.ExecResult, error) {
	f.calls = append(f.calls, cmd)
	key := cmd.Args[0]
	if key == "build" {
		key += " " + cmd.Args[1]
	}
	res, ok := f.results[key]
	if !ok {
		return toolchain.ExecResult{}, errors.New("unexpected command " + key)
	}
	return res, nil
}

type fakeFiles map[string][]byte

func (f fakeFiles) ReadIfExists(path string) ([]byte, bool, error) {
	for suffix, data := range f {
		if strings.HasSuffix(path, suffix) {
			return data, true, nil
		}
	}
	return nil, false, nil
}

func newTestDriver(t *testing.T, exec *fakeExec, files fakeFiles) *Driver {
	t.Helper()
	d := NewDriver(config.Default(), nil)
	d.Exec = exec
	d.Files = files
	d.Stager.TempDir = t.TempDir()
	return d
}

func TestCompileBytecode(t *testing.T) {
	exec := &fakeExec{results: map[string]toolchain.ExecResult{
		"build -g":       {Stdout: "Compiling script godbolt\n", Stderr: "warning: unused\n"},
		"parse-bytecode": {Stdout: "  half-word   byte   op\n\n    0   0   JI 4\n    2   8   MOVI 42\n"},
	}}
	d := newTestDriver(t, exec, fakeFiles{".bin": {0x1}, "symbols.json": []byte(symbols)})

	c, err := d.Compile(context.Background(), []byte(source), listing.KindBytecode)
	if err != nil {
		t.Fatalf("Compile: %v", err)
	}
	if !c.Result.Succeeded || len(c.Result.Lines) != 3 {
		t.Fatalf("result = %+v", c.Result)
	}
	if loc := c.Result.Lines[2].Source; loc == nil || loc.Line != 4 || loc.File != "/p/src/main.sw" {
		t.Errorf("MOVI source = %v", loc)
	}
	if c.Result.Lines[1].Source != nil {
		t.Errorf("JI should be unmapped, got %v", c.Result.Lines[1].Source)
	}
	if len(c.Stdout) != 1 || len(c.Stderr) != 1 {
		t.Errorf("stdout=%q stderr=%q", c.Stdout, c.Stderr)
	}

	if len(exec.calls) != 2 {
		t.Fatalf("calls = %+v", exec.calls)
	}
	build := exec.calls[0]
	if build.Path != "forc" || !strings.HasSuffix(build.Args[2], filepath.Join("out", "debug", "symbols.json")) {
		t.Errorf("build command = %+v", build)
	}
	if !strings.HasSuffix(exec.calls[1].Args[1], filepath.Join("out", "debug", "godbolt.bin")) {
		t.Errorf("parse-bytecode command = %+v", exec.calls[1])
	}

	entries, err := os.ReadDir(d.Stager.TempDir)
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 0 {
		t.Errorf("project not cleaned up: %v", entries)
	}
}

func TestCompileViews(t *testing.T) {
	tests := []struct {
		name      string
		view      listing.Kind
		results   map[string]toolchain.ExecResult
		files     fakeFiles
		want      []string
		succeeded bool
	}{
		{
			name: "build failure",
			view: listing.KindIR,
			results: map[string]toolchain.ExecResult{
				"build -g": {Code: 1, Stderr: "error: expected `;`"},
			},
			want:      []string{listing.DefaultFailureText},
			succeeded: false,
		},
		{
			name: "build timeout",
			view: listing.KindAsm,
			results: map[string]toolchain.ExecResult{
				"build -g": {Code: -1, TimedOut: true},
			},
			want:      []string{listing.DefaultFailureText},
			succeeded: false,
		},
		{
			name: "ir",
			view: listing.KindIR,
			results: map[string]toolchain.ExecResult{
				"build -g":   {},
				"build --ir": {Stdout: "// IR: Final\nscript {\n    fn main() -> u64 {\n    }\n}\n!0 = \"x\"\n"},
			},
			want:      []string{"script {", "    fn main() -> u64 {", "    }", "}"},
			succeeded: true,
		},
		{
			name: "asm",
			view: listing.KindAsm,
			results: map[string]toolchain.ExecResult{
				"build -g":    {},
				"build --asm": {Stdout: "Compiling\n;; ASM: Virtual abstract program\n\nmove $r0 $sp\nret $zero\n\nFinished debug\n"},
			},
			want:      []string{"move $r0 $sp", "ret $zero"},
			succeeded: true,
		},
		{
			name: "asm without markers",
			view: listing.KindAsm,
			results: map[string]toolchain.ExecResult{
				"build -g":    {},
				"build --asm": {Stdout: "Compiling\n"},
			},
			want:      []string{listing.DefaultFailureText},
			succeeded: true,
		},
		{
			name: "missing artifact",
			view: listing.KindBytecode,
			results: map[string]toolchain.ExecResult{
				"build -g": {},
			},
			want:      []string{listing.DefaultFailureText},
			succeeded: true,
		},
		{
			name: "bytecode without symbols",
			view: listing.KindBytecode,
			results: map[string]toolchain.ExecResult{
				"build -g":       {},
				"parse-bytecode": {Stdout: "    2   8   MOVI 42\n"},
			},
			files:     fakeFiles{".bin": {0x1}},
			want:      []string{"    2   8   MOVI 42"},
			succeeded: true,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := newTestDriver(t, &fakeExec{results: tt.results}, tt.files)
			c, err := d.Compile(context.Background(), []byte(source), tt.view)
			if err != nil {
				t.Fatalf("Compile: %v", err)
			}
			var got []string
			for _, l := range c.Result.Lines {
				got = append(got, l.Text)
				if l.Source != nil {
					t.Errorf("line %q unexpectedly mapped", l.Text)
				}
			}
			if strings.Join(got, "|") != strings.Join(tt.want, "|") {
				t.Errorf("lines = %q, want %q", got, tt.want)
			}
			if c.Result.Succeeded != tt.succeeded {
				t.Errorf("Succeeded = %v, want %v", c.Result.Succeeded, tt.succeeded)
			}
		})
	}
}

func TestCompileAnnotationUnsupported(t *testing.T) {
	d := newTestDriver(t, &fakeExec{}, nil)
	if _, err := d.Compile(context.Background(), []byte(source), listing.KindAnnotation); !errors.Is(err, ErrUnsupportedView) {
		t.Fatalf("err = %v, want ErrUnsupportedView", err)
	}
}

func TestStageKeepProject(t *testing.T) {
	exec := &fakeExec{results: map[string]toolchain.ExecResult{"build -g": {Code: 1}}}
	d := newTestDriver(t, exec, nil)
	d.KeepProject = true

	c, err := d.Compile(context.Background(), []byte(source), listing.KindIR)
	if err != nil {
		t.Fatal(err)
	}
	if c.Dir == "" {
		t.Fatal("project dir not reported")
	}
	manifest, err := os.ReadFile(filepath.Join(c.Dir, "Forc.toml"))
	if err != nil {
		t.Fatal(err)
	}
	for _, want := range []string{`name = "godbolt"`, `tag = "v0.66.6"`, `entry = "main.sw"`} {
		if !strings.Contains(string(manifest), want) {
			t.Errorf("Forc.toml missing %s:\n%s", want, manifest)
		}
	}
	src, err := os.ReadFile(filepath.Join(c.Dir, "src", "main.sw"))
	if err != nil || string(src) != source {
		t.Errorf("main.sw = %q, %v", src, err)
	}
	if exec.calls[0].Dir != c.Dir {
		t.Errorf("build ran in %q, want %q", exec.calls[0].Dir, c.Dir)
	}
}
