package styles

import (
	"github.com/charmbracelet/lipgloss/v2"
	"github.com/charmbracelet/x/exp/charmtone"
)

// VS Code Dark theme colors
const (
	Foreground = "#D4D4D4" // Default light gray text
	InlineCode = "#EACD53" // Golden color (234, 205, 83) for inline code
	Comment    = "#6A9955" // Green for comments
	Selection  = "#264F78" // Selection background
	LineNumber = "#858585" // Line numbers (gray)
)

var (
	// Gutter renders the source location column next to output lines.
	Gutter = lipgloss.NewStyle().Foreground(lipgloss.Color(LineNumber))

	// GutterMapped is the gutter of a line that carries a source location.
	GutterMapped = lipgloss.NewStyle().Foreground(lipgloss.Color(charmtone.Malibu.Hex()))

	// Selected marks the cursor line.
	Selected = lipgloss.NewStyle().
		Background(lipgloss.Color(Selection)).
		Foreground(lipgloss.Color(Foreground))

	// Related marks lines sharing the selected line's source location.
	Related = lipgloss.NewStyle().Foreground(lipgloss.Color(InlineCode))

	// Failure renders the sentinel line of a failed compilation.
	Failure = lipgloss.NewStyle().Foreground(lipgloss.Color(charmtone.Cheeky.Hex())).Bold(true)

	// Menu is the bottom key help bar.
	Menu = lipgloss.NewStyle().
		Background(lipgloss.Color("235")).
		Foreground(lipgloss.Color("252")).
		Padding(0, 1)

	// Title heads the TUI panes.
	Title = lipgloss.NewStyle().
		Foreground(lipgloss.Color("99")).
		MarginLeft(2)
)
