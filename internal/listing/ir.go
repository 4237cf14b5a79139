package listing

import (
	"regexp"
	"strings"
)

// IRExtractor returns the final program block of a multi-pass IR dump.
type IRExtractor struct {
	Marker string
	unitRe *regexp.Regexp
}

// NewIRExtractor builds an extractor for dumps whose final pass follows the
// last occurrence of marker and whose program opens with one of unitKinds.
func NewIRExtractor(marker string, unitKinds []string) *IRExtractor {
	quoted := make([]string, len(unitKinds))
	for i, k := range unitKinds {
		quoted[i] = regexp.QuoteMeta(k)
	}
	// The dump closes top-level units with a brace in column zero; nested
	// braces are always indented, so the first "^}" ends the unit.
	re := regexp.MustCompile(`(?ms)\b(?:` + strings.Join(quoted, "|") + `)\s*\{.*?^\}`)
	return &IRExtractor{Marker: marker, unitRe: re}
}

func (e *IRExtractor) Extract(raw string) (Extraction, error) {
	idx := strings.LastIndex(raw, e.Marker)
	if idx == -1 {
		return Extraction{
			Lines:    plainLines(splitLines(raw)),
			Degraded: "IR marker " + e.Marker + " not found, showing whole dump",
		}, nil
	}

	remainder := ""
	if nl := strings.IndexByte(raw[idx:], '\n'); nl != -1 {
		remainder = raw[idx+nl+1:]
	}

	ex := Extraction{}
	block := e.unitRe.FindString(remainder)
	if block == "" {
		block = remainder
		ex.Degraded = "no top-level unit after IR marker, showing remainder"
	}
	ex.Lines = plainLines(splitLines(block))
	return ex, nil
}

// ExtractIRBlock extracts the final block using the default forc marker and
// unit kinds.
func ExtractIRBlock(text string) []OutputLine {
	ex, _ := NewIRExtractor(DefaultIRMarker, DefaultIRUnitKinds).Extract(text)
	return ex.Lines
}
