package listing

import (
	"reflect"
	"strings"
	"testing"
)

// sourceLines returns the carried line number per output line, -1 for none.
func sourceLines(lines []OutputLine) []int {
	got := make([]int, len(lines))
	for i, l := range lines {
		got[i] = -1
		if l.Source != nil {
			got[i] = l.Source.Line
		}
	}
	return got
}

func TestClassifyLine(t *testing.T) {
	tests := []struct {
		line string
		kind LineKind
		n    int
	}{
		{"  Frame_0 :", LineFrame, 0},
		{"  Frame_123 :", LineFrame, 0},
		{"   Frame_0 :", LinePlain, 0},
		{"  Frame_x :", LinePlain, 0},
		{"     annotation: foo.raku:10", LineAnnotation, 10},
		{"     annotation: <unknown>:1", LineAnnotation, 1},
		{"     annotation: a:b:10", LinePlain, 0},
		{"    annotation: foo:10", LinePlain, 0},
		{"     annotation: foo:10 ", LinePlain, 0},
		{"", LineBlank, 0},
		{"   ", LinePlain, 0},
		{"      const_i64_16 r0, 1", LinePlain, 0},
	}

	for _, tt := range tests {
		t.Run(tt.line, func(t *testing.T) {
			kind, n := ClassifyLine(tt.line)
			if kind != tt.kind || n != tt.n {
				t.Errorf("ClassifyLine(%q) = %v, %d; want %v, %d", tt.line, kind, n, tt.kind, tt.n)
			}
		})
	}
}

func TestParseAnnotated(t *testing.T) {
	tests := []struct {
		name  string
		lines []string
		want  []int
	}{
		{
			name:  "carry forward",
			lines: []string{"  Frame_0 :", "     annotation: foo:10", "code-a", "", "code-b"},
			want:  []int{-1, 10, 10, -1, -1},
		},
		{
			name: "frame reset",
			lines: []string{
				"  Frame_0 :", "     annotation: foo:3", "a",
				"  Frame_1 :", "b", "c",
				"     annotation: foo:8", "d",
			},
			want: []int{-1, 3, 3, -1, -1, -1, 8, 8},
		},
		{
			name:  "last annotation wins",
			lines: []string{"     annotation: foo:1", "     annotation: foo:2", "x", "y"},
			want:  []int{1, 2, 2, 2},
		},
		{
			name:  "plain before any annotation",
			lines: []string{"x", "y"},
			want:  []int{-1, -1},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out := ParseAnnotated(strings.Join(tt.lines, "\n"))
			if got := sourceLines(out); !reflect.DeepEqual(got, tt.want) {
				t.Errorf("source lines = %v, want %v", got, tt.want)
			}
			for i, l := range out {
				if l.Text != tt.lines[i] {
					t.Errorf("line %d text = %q, want %q", i, l.Text, tt.lines[i])
				}
				if l.Source != nil && l.Source.File != "" {
					t.Errorf("line %d carries a file: %q", i, l.Source.File)
				}
			}
		})
	}
}

func TestParseAnnotatedIdempotent(t *testing.T) {
	text := "  Frame_0 :\n     annotation: x:4\n  set r1, r2\n\n  Frame_1 :\n  goto L1\n"
	first := ParseAnnotated(text)
	second := ParseAnnotated(text)
	if !reflect.DeepEqual(first, second) {
		t.Fatalf("parses differ:\n%v\n%v", first, second)
	}
	if len(first) != 6 {
		t.Errorf("len = %d, want 6", len(first))
	}
}

func TestParseStateStep(t *testing.T) {
	var s ParseState
	if loc := s.Step(LinePlain, 0); loc != nil {
		t.Fatalf("plain without annotation mapped to %v", loc)
	}
	if loc := s.Step(LineAnnotation, 5); loc == nil || loc.Line != 5 {
		t.Fatalf("annotation = %v, want line 5", loc)
	}
	if n, ok := s.LastKnownLine(); !ok || n != 5 {
		t.Fatalf("LastKnownLine = %d, %v", n, ok)
	}
	s.Step(LineBlank, 0)
	if _, ok := s.LastKnownLine(); ok {
		t.Fatal("blank line did not clear state")
	}
}
