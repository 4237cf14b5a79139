// Package listing normalizes captured toolchain output (bytecode disassembly,
// annotated listings, IR dumps and raw assembly transcripts) into a uniform
// sequence of display lines, optionally tagged with the source location they
// came from.
//
// Every function in this package works on an already captured text buffer and
// is free of side effects. Anomalies in the input degrade the output (unmapped
// lines, whole-text fallbacks) instead of failing the parse.
package listing

import (
	"fmt"
	"strings"
)

// SourceLocation points at a position in the compiled source. Zero values mean
// "absent": File is empty when the producing format has no file identity, and
// Line/Column are 1-based so 0 never names a real position.
type SourceLocation struct {
	File   string `json:"file,omitempty"`
	Line   int    `json:"line,omitempty"`
	Column int    `json:"column,omitempty"`
}

func (s SourceLocation) String() string {
	switch {
	case s.File != "" && s.Column > 0:
		return fmt.Sprintf("%s:%d:%d", s.File, s.Line, s.Column)
	case s.File != "":
		return fmt.Sprintf("%s:%d", s.File, s.Line)
	default:
		return fmt.Sprintf("%d", s.Line)
	}
}

// OutputLine is a single display line. Source is nil when the line has no
// known origin; such lines take no part in source highlighting.
type OutputLine struct {
	Text   string          `json:"text"`
	Source *SourceLocation `json:"source,omitempty"`
}

// Result is the structured output handed to renderers.
type Result struct {
	Lines     []OutputLine `json:"lines"`
	Succeeded bool         `json:"succeeded"`
}

// Mapped returns the number of lines carrying a source location.
func (r Result) Mapped() int {
	n := 0
	for _, l := range r.Lines {
		if l.Source != nil {
			n++
		}
	}
	return n
}

// Text joins the line texts with newlines.
func (r Result) Text() string {
	texts := make([]string, len(r.Lines))
	for i, l := range r.Lines {
		texts[i] = l.Text
	}
	return strings.Join(texts, "\n")
}

// ToolStatus is the part of a finished tool invocation the assembler needs.
type ToolStatus struct {
	ExitCode int
	TimedOut bool
}

// Failed reports whether the tool run counts as a ToolExecutionFailure.
func (s ToolStatus) Failed() bool {
	return s.ExitCode != 0 || s.TimedOut
}

// splitLines splits on \n or \r\n. A single terminating newline does not
// produce a trailing empty line; empty input yields one empty line.
func splitLines(text string) []string {
	lines := strings.Split(text, "\n")
	if len(lines) > 1 && lines[len(lines)-1] == "" {
		lines = lines[:len(lines)-1]
	}
	for i, l := range lines {
		lines[i] = strings.TrimSuffix(l, "\r")
	}
	return lines
}

// plainLines wraps every line without a source location.
func plainLines(lines []string) []OutputLine {
	out := make([]OutputLine, len(lines))
	for i, l := range lines {
		out[i] = OutputLine{Text: l}
	}
	return out
}
