package cmd

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"asmview/internal/asmview/names"
	"asmview/internal/asmview/styles"
	"asmview/internal/listing"
	"asmview/internal/ui/colorize"
)

type renderOptions struct {
	Kind     listing.Kind
	Color    bool
	Demangle bool
}

func gutterWidth(lines []listing.OutputLine) int {
	width := 0
	for _, l := range lines {
		if l.Source != nil {
			width = max(width, len(l.Source.String()))
		}
	}
	return width
}

// formatLines renders the result as display lines with a source gutter.
// The gutter is omitted when no line is mapped.
func formatLines(res listing.Result, opts renderOptions) []string {
	width := gutterWidth(res.Lines)
	out := make([]string, 0, len(res.Lines))
	for _, l := range res.Lines {
		text := l.Text
		if opts.Demangle {
			text = names.Line(text)
		}
		if opts.Color {
			if res.Succeeded {
				text = colorize.ColorizeLine(opts.Kind, text)
			} else {
				text = styles.Failure.Render(text)
			}
		}

		if width == 0 {
			out = append(out, text)
			continue
		}

		loc := ""
		if l.Source != nil {
			loc = l.Source.String()
		}
		gutter := fmt.Sprintf("%*s │", width, loc)
		if opts.Color {
			if l.Source != nil {
				gutter = styles.GutterMapped.Render(gutter)
			} else {
				gutter = styles.Gutter.Render(gutter)
			}
		}
		out = append(out, gutter+" "+text)
	}
	return out
}

func renderText(w io.Writer, res listing.Result, opts renderOptions) error {
	for _, line := range formatLines(res, opts) {
		if _, err := fmt.Fprintln(w, line); err != nil {
			return err
		}
	}
	return nil
}

func renderJSON(w io.Writer, v any) error {
	bts, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal JSON: %w", err)
	}
	_, err = fmt.Fprintln(w, string(bts))
	return err
}

// markdownReport summarizes a result for glamour. stderr lines, when given,
// are appended in their own block with color sequences removed.
func markdownReport(title string, res listing.Result, opts renderOptions, stderr []string) string {
	var b strings.Builder
	fmt.Fprintf(&b, "# %s\n\n", title)

	status := "succeeded"
	if !res.Succeeded {
		status = "failed"
	}
	fmt.Fprintf(&b, "- **Status:** %s\n", status)
	fmt.Fprintf(&b, "- **Lines:** %d\n", len(res.Lines))
	fmt.Fprintf(&b, "- **Mapped:** %d\n\n", res.Mapped())

	plain := opts
	plain.Color = false
	b.WriteString("```\n")
	b.WriteString(escapeFence(strings.Join(formatLines(res, plain), "\n")))
	b.WriteString("\n```\n")

	if len(stderr) > 0 {
		b.WriteString("\n## Diagnostics\n\n```\n")
		for _, l := range stderr {
			b.WriteString(escapeFence(colorize.StripANSI(l)))
			b.WriteString("\n")
		}
		b.WriteString("```\n")
	}
	return b.String()
}

func escapeFence(s string) string {
	return strings.ReplaceAll(s, "```", "` ` `")
}

func renderMarkdown(w io.Writer, markdown string, color bool, width int) error {
	if !color {
		_, err := io.WriteString(w, markdown)
		return err
	}
	renderer, err := styles.GetMarkdownRenderer(width)
	if err != nil {
		return fmt.Errorf("failed to create markdown renderer: %w", err)
	}
	rendered, err := renderer.Render(markdown)
	if err != nil {
		return fmt.Errorf("failed to render markdown: %w", err)
	}
	_, err = io.WriteString(w, rendered)
	return err
}
