package colorize

import (
	"os"
	"strings"

	"github.com/alecthomas/chroma/v2"
	"github.com/alecthomas/chroma/v2/formatters"
	"github.com/alecthomas/chroma/v2/lexers"
	"github.com/alecthomas/chroma/v2/styles"

	"asmview/internal/listing"
)

// Enabled reports whether output may be colored. ASMVIEW_NO_COLOR disables it.
func Enabled() bool {
	return os.Getenv("ASMVIEW_NO_COLOR") == ""
}

// getLexer returns a lexer suited to the view with fallbacks
func getLexer(kind listing.Kind) chroma.Lexer {
	var candidates []string
	switch kind {
	case listing.KindIR:
		// Sway IR reads close enough to LLVM IR for token coloring
		candidates = []string{"llvm", "nasm"}
	default:
		candidates = []string{"nasm", "gas", "armasm"}
	}
	for _, name := range candidates {
		if lexer := lexers.Get(name); lexer != nil {
			return lexer
		}
	}
	return nil
}

// getStyle returns the listing style with fallbacks
func getStyle() *chroma.Style {
	candidates := []string{"asmview-dark", "dracula", "monokai"}
	for _, name := range candidates {
		if style := styles.Get(name); style != nil {
			return style
		}
	}
	return styles.Fallback
}

// getTerminalFormatter returns an appropriate terminal formatter
func getTerminalFormatter() chroma.Formatter {
	candidates := []string{"terminal16m", "terminal256"}
	for _, name := range candidates {
		if formatter := formatters.Get(name); formatter != nil {
			return formatter
		}
	}
	return formatters.Fallback
}

// Colorize highlights a block of output for the given view
func Colorize(kind listing.Kind, code string) (string, error) {
	if !Enabled() {
		return code, nil
	}

	lexer := getLexer(kind)
	if lexer == nil {
		return code, nil
	}

	iterator, err := lexer.Tokenise(nil, code)
	if err != nil {
		return code, err
	}

	var buf strings.Builder
	if err := getTerminalFormatter().Format(&buf, getStyle(), iterator); err != nil {
		return code, err
	}
	return buf.String(), nil
}

// ColorizeLine highlights a single line, returning it unchanged on failure
func ColorizeLine(kind listing.Kind, line string) string {
	if line == "" {
		return line
	}
	colored, err := Colorize(kind, line)
	if err != nil {
		return line
	}
	return strings.TrimRight(colored, "\n")
}

// StripANSI removes ANSI color sequences, e.g. from forc's colored status lines
func StripANSI(s string) string {
	var result strings.Builder
	inEscape := false

	for _, r := range s {
		if r == '\x1b' {
			inEscape = true
		} else if inEscape {
			if r == 'm' {
				inEscape = false
			}
		} else {
			result.WriteRune(r)
		}
	}

	return result.String()
}
