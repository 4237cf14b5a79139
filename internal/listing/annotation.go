package listing

import (
	"regexp"
	"strconv"
)

// LineKind is the classification of a line in an annotated bytecode listing.
type LineKind int

const (
	LinePlain LineKind = iota
	LineFrame
	LineAnnotation
	LineBlank
)

func (k LineKind) String() string {
	switch k {
	case LineFrame:
		return "frame"
	case LineAnnotation:
		return "annotation"
	case LineBlank:
		return "blank"
	default:
		return "plain"
	}
}

var (
	frameHeaderRe = regexp.MustCompile(`^ {2}Frame_\d+ :$`)
	annotationRe  = regexp.MustCompile(`^ {5}annotation: [^:]*:(\d+)$`)
)

// ClassifyLine returns the kind of a listing line. For annotation lines the
// asserted source line number is returned as well.
func ClassifyLine(line string) (LineKind, int) {
	if line == "" {
		return LineBlank, 0
	}
	if frameHeaderRe.MatchString(line) {
		return LineFrame, 0
	}
	if m := annotationRe.FindStringSubmatch(line); m != nil {
		n, err := strconv.Atoi(m[1])
		if err == nil {
			return LineAnnotation, n
		}
	}
	return LinePlain, 0
}

// ParseState carries the last annotated source line across listing lines.
type ParseState struct {
	lastKnownLine int
	known         bool
}

// LastKnownLine returns the carried line number, if any.
func (s *ParseState) LastKnownLine() (int, bool) {
	return s.lastKnownLine, s.known
}

// Step advances the state by one classified line and returns the source
// location for that line, or nil.
func (s *ParseState) Step(kind LineKind, lineNo int) *SourceLocation {
	switch kind {
	case LineFrame, LineBlank:
		s.lastKnownLine, s.known = 0, false
		return nil
	case LineAnnotation:
		s.lastKnownLine, s.known = lineNo, true
	}
	if !s.known {
		return nil
	}
	return &SourceLocation{Line: s.lastKnownLine}
}

// ParseAnnotated converts an annotated listing (MoarVM style frame dumps) into
// output lines. Every input line is kept verbatim, blank ones included.
func ParseAnnotated(text string) []OutputLine {
	lines := splitLines(text)
	out := make([]OutputLine, len(lines))
	var state ParseState
	for i, line := range lines {
		kind, n := ClassifyLine(line)
		out[i] = OutputLine{Text: line, Source: state.Step(kind, n)}
	}
	return out
}
