package listing

import (
	"fmt"
	"strings"
)

// Extraction is the output of an extractor. Degraded is non-empty when the
// extractor had to fall back (missing marker, unusable symbols) but still
// produced renderable lines.
type Extraction struct {
	Lines    []OutputLine
	Degraded string
}

// Extractor turns a captured tool output into display lines.
type Extractor interface {
	// Extract must not retain raw or any state between calls. An error means
	// no meaningful range exists in raw.
	Extract(raw string) (Extraction, error)
}

// Kind selects the extractor matching the tool view that produced the text.
type Kind int

const (
	KindAnnotation Kind = iota + 1
	KindBytecode
	KindIR
	KindAsm
)

var kindNames = map[Kind]string{
	KindAnnotation: "annotation",
	KindBytecode:   "bytecode",
	KindIR:         "ir",
	KindAsm:        "asm",
}

func (k Kind) String() string {
	if s, ok := kindNames[k]; ok {
		return s
	}
	return fmt.Sprintf("Kind(%d)", int(k))
}

// ParseKind accepts the names printed by Kind.String, case-insensitively.
func ParseKind(s string) (Kind, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	for k, name := range kindNames {
		if name == s {
			return k, nil
		}
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownKind, s)
}

// KindNames lists the accepted kind names in a stable order.
func KindNames() []string {
	return []string{"annotation", "bytecode", "ir", "asm"}
}

// Options parameterize the extractors and the assembler.
type Options struct {
	PrimarySourceIndex int
	IRMarker           string
	IRUnitKinds        []string
	Asm                AsmMarkers
	FailureText        string
}

// DefaultOptions returns the settings matching forc output.
func DefaultOptions() Options {
	return Options{
		PrimarySourceIndex: DefaultPrimarySourceIndex,
		IRMarker:           DefaultIRMarker,
		IRUnitKinds:        DefaultIRUnitKinds,
		Asm:                DefaultAsmMarkers(),
		FailureText:        DefaultFailureText,
	}
}

// NewExtractor creates the extractor for kind. symbols is only used by
// KindBytecode and may be nil.
func NewExtractor(kind Kind, opts Options, symbols []byte) (Extractor, error) {
	switch kind {
	case KindAnnotation:
		return AnnotationExtractor{}, nil
	case KindBytecode:
		return NewBytecodeExtractor(symbols, opts.PrimarySourceIndex), nil
	case KindIR:
		return NewIRExtractor(opts.IRMarker, opts.IRUnitKinds), nil
	case KindAsm:
		return &AsmExtractor{Markers: opts.Asm}, nil
	default:
		return nil, fmt.Errorf("%w: %v", ErrUnknownKind, kind)
	}
}

// AnnotationExtractor parses annotated listings.
type AnnotationExtractor struct{}

func (AnnotationExtractor) Extract(raw string) (Extraction, error) {
	return Extraction{Lines: ParseAnnotated(raw)}, nil
}
