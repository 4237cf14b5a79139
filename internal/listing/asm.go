package listing

import (
	"fmt"
	"strings"
)

// AsmMarkers bound the section of interest in an assembly transcript.
type AsmMarkers struct {
	Start string
	End   string
	// KeepStart includes the start marker line itself in the section.
	KeepStart bool
}

// DefaultAsmMarkers returns the markers printed by `forc build --asm all`.
func DefaultAsmMarkers() AsmMarkers {
	return AsmMarkers{Start: DefaultAsmStartMarker, End: DefaultAsmEndMarker}
}

// ExtractAsmSection returns the non-blank lines between the first line
// containing m.Start and the first following line containing m.End. Both
// markers are required; there is no sensible range without them.
func ExtractAsmSection(text string, m AsmMarkers) ([]OutputLine, error) {
	lines := splitLines(text)

	start := -1
	for i, l := range lines {
		if strings.Contains(l, m.Start) {
			start = i
			break
		}
	}
	if start == -1 {
		return nil, fmt.Errorf("%w: %q", ErrStartMarkerNotFound, m.Start)
	}

	end := -1
	for i := start + 1; i < len(lines); i++ {
		if strings.Contains(lines[i], m.End) {
			end = i
			break
		}
	}
	if end == -1 {
		return nil, fmt.Errorf("%w: %q", ErrEndMarkerNotFound, m.End)
	}

	from := start + 1
	if m.KeepStart {
		from = start
	}
	var out []OutputLine
	for _, l := range lines[from:end] {
		if strings.TrimSpace(l) == "" {
			continue
		}
		out = append(out, OutputLine{Text: l})
	}
	return out, nil
}

// AsmExtractor extracts the marked section of an assembly transcript.
type AsmExtractor struct {
	Markers AsmMarkers
}

func (e *AsmExtractor) Extract(raw string) (Extraction, error) {
	lines, err := ExtractAsmSection(raw, e.Markers)
	if err != nil {
		return Extraction{}, err
	}
	return Extraction{Lines: lines}, nil
}
