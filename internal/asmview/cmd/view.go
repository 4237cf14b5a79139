package cmd

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/charmbracelet/bubbles/v2/list"
	"github.com/charmbracelet/bubbles/v2/spinner"
	"github.com/charmbracelet/bubbles/v2/viewport"
	tea "github.com/charmbracelet/bubbletea/v2"
	"github.com/charmbracelet/lipgloss/v2"
	"github.com/spf13/cobra"

	"asmview/internal/asmview/log"
	"asmview/internal/asmview/names"
	"asmview/internal/asmview/styles"
	"asmview/internal/listing"
	"asmview/internal/ui/colorize"
)

type pane int

const (
	paneOutput pane = iota
	paneSource
)

type outputItem struct {
	line listing.OutputLine
	text string // demangled display text
}

func (i outputItem) FilterValue() string { return i.text }

// sourceLine returns the mapped source line number, or 0.
func (i outputItem) sourceLine() int {
	if i.line.Source == nil {
		return 0
	}
	return i.line.Source.Line
}

type itemDelegate struct {
	kind   listing.Kind
	gutter int
}

func (d itemDelegate) Height() int                               { return 1 }
func (d itemDelegate) Spacing() int                              { return 0 }
func (d itemDelegate) Update(msg tea.Msg, m *list.Model) tea.Cmd { return nil }

func (d itemDelegate) Render(w io.Writer, m list.Model, index int, listItem list.Item) {
	i, ok := listItem.(outputItem)
	if !ok {
		return
	}

	selectedLine := 0
	if sel, ok := m.SelectedItem().(outputItem); ok {
		selectedLine = sel.sourceLine()
	}

	indicator := " "
	switch {
	case index == m.Index():
		indicator = ">"
	case selectedLine > 0 && i.sourceLine() == selectedLine:
		indicator = styles.Related.Render("•")
	}

	loc := ""
	if i.line.Source != nil {
		loc = i.line.Source.String()
	}
	gutter := styles.Gutter.Render(fmt.Sprintf("%*s", d.gutter, loc))
	if i.line.Source != nil {
		gutter = styles.GutterMapped.Render(fmt.Sprintf("%*s", d.gutter, loc))
	}

	text := colorize.ColorizeLine(d.kind, i.text)
	if index == m.Index() {
		text = styles.Selected.Render(i.text)
	}

	fmt.Fprintf(w, " %s %s  %s", indicator, gutter, text)
}

type resultMsg struct {
	result listing.Result
	source []string
	err    error
}

type model struct {
	output   list.Model
	source   viewport.Model
	spinner  spinner.Model
	focus    pane
	kind     listing.Kind
	title    string
	load     tea.Cmd
	loading  bool
	err      error
	result   listing.Result
	srcLines []string
	width    int
	height   int
}

func newModel(title string, kind listing.Kind, load tea.Cmd) model {
	vp := viewport.New()
	vp.SetWidth(40)
	vp.SetHeight(24)

	output := list.New([]list.Item{}, itemDelegate{kind: kind}, 40, 24)
	output.SetShowStatusBar(false)
	output.SetFilteringEnabled(true)
	output.SetShowHelp(false)
	output.Title = title
	output.Styles.Title = styles.Title

	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = lipgloss.NewStyle().Foreground(lipgloss.Color("170"))

	return model{
		output:  output,
		source:  vp,
		spinner: s,
		kind:    kind,
		title:   title,
		load:    load,
		loading: true,
		width:   80,
		height:  24,
	}
}

func (m model) Init() tea.Cmd {
	return tea.Batch(m.load, m.spinner.Tick)
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case resultMsg:
		m.loading = false
		if msg.err != nil {
			m.err = msg.err
			return m, nil
		}
		m.result = msg.result
		m.srcLines = msg.source
		cmd = m.output.SetItems(outputItems(msg.result))
		m.output.SetDelegate(itemDelegate{kind: m.kind, gutter: gutterWidth(msg.result.Lines)})
		m.output.Title = fmt.Sprintf("%s (%d lines, %d mapped)", m.title, len(msg.result.Lines), msg.result.Mapped())
		m.layout()
		return m, cmd

	case spinner.TickMsg:
		if !m.loading {
			return m, nil
		}
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.layout()
		return m, nil

	case tea.KeyMsg:
		if m.output.FilterState() == list.Filtering {
			if msg.String() == "ctrl+c" {
				return m, tea.Quit
			}
			break
		}
		switch msg.String() {
		case "q", "ctrl+c":
			return m, tea.Quit
		case "tab":
			if len(m.srcLines) > 0 {
				m.focus = 1 - m.focus
			}
			return m, nil
		case "n", "N":
			dir := 1
			if msg.String() == "N" {
				dir = -1
			}
			if next := nextRelated(m.result.Lines, m.output.Index(), dir); next >= 0 {
				m.output.Select(next)
				m.refreshSource()
			}
			return m, nil
		}
	}

	if m.focus == paneSource {
		m.source, cmd = m.source.Update(msg)
		return m, cmd
	}

	before := m.output.Index()
	m.output, cmd = m.output.Update(msg)
	if m.output.Index() != before {
		m.refreshSource()
	}
	return m, cmd
}

func (m model) View() string {
	var content string
	switch {
	case m.loading:
		content = fmt.Sprintf("\n  %s Loading %s...", m.spinner.View(), m.kind)
	case m.err != nil:
		content = "\n  " + styles.Failure.Render(m.err.Error())
	case len(m.srcLines) == 0:
		content = m.output.View()
	default:
		content = lipgloss.JoinHorizontal(lipgloss.Top, m.output.View(), m.source.View())
	}

	menu := " ↑/↓: move • n/N: next/prev same line • /: filter • Q: quit "
	if len(m.srcLines) > 0 {
		menu = " ↑/↓: move • n/N: next/prev same line • Tab: switch pane • /: filter • Q: quit "
	}

	return content + "\n" + styles.Menu.Width(m.width).Render(menu)
}

// layout splits the window between the output list and the source pane.
func (m *model) layout() {
	left := m.width / 2
	if len(m.srcLines) == 0 {
		left = m.width
	}
	m.output.SetWidth(left)
	m.output.SetHeight(m.height - 2)
	m.source.SetWidth(m.width - left)
	m.source.SetHeight(m.height - 2)
	m.refreshSource()
}

// refreshSource highlights the selected output line's source line and
// scrolls it into view.
func (m *model) refreshSource() {
	if len(m.srcLines) == 0 {
		return
	}
	line := 0
	if sel, ok := m.output.SelectedItem().(outputItem); ok {
		line = sel.sourceLine()
	}
	m.source.SetContent(sourceContent(m.srcLines, line))
	if line > 0 {
		m.source.SetYOffset(max(0, line-1-m.source.Height()/2))
	}
}

func outputItems(res listing.Result) []list.Item {
	items := make([]list.Item, len(res.Lines))
	for i, l := range res.Lines {
		items[i] = outputItem{line: l, text: names.Line(l.Text)}
	}
	return items
}

// sourceContent numbers the source lines and highlights the 1-based line
// highlight. Zero highlights nothing.
func sourceContent(lines []string, highlight int) string {
	width := len(fmt.Sprint(len(lines)))
	var b strings.Builder
	for i, l := range lines {
		n := i + 1
		num := styles.Gutter.Render(fmt.Sprintf("%*d", width, n))
		if n == highlight {
			fmt.Fprintf(&b, "%s %s", num, styles.Selected.Render(l))
		} else {
			fmt.Fprintf(&b, "%s %s", num, l)
		}
		if n < len(lines) {
			b.WriteString("\n")
		}
	}
	return b.String()
}

// nextRelated returns the index of the next line in direction dir (1 or -1)
// that maps to the same source line as lines[from], wrapping around. It
// returns -1 when from is unmapped or has no other related line.
func nextRelated(lines []listing.OutputLine, from, dir int) int {
	if from < 0 || from >= len(lines) || lines[from].Source == nil {
		return -1
	}
	target := lines[from].Source.Line
	n := len(lines)
	for step := 1; step < n; step++ {
		i := ((from+dir*step)%n + n) % n
		if lines[i].Source != nil && lines[i].Source.Line == target {
			return i
		}
	}
	return -1
}

var viewCmd = &cobra.Command{
	Use:   "view [file]",
	Short: "Explore output next to its source",
	Long: `View opens an interactive browser over normalized output. Selecting an output
line highlights the source line it was compiled from, and marks every other
output line that came from the same source line.`,
	Example: `
# Compile and browse the bytecode of a Sway file
asmview view --compile main.sw

# Browse a captured annotated listing next to its source
asmview view --kind annotation --source hello.raku listing.txt
  `,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		compileSource, _ := cmd.Flags().GetBool("compile")
		kindName, _ := cmd.Flags().GetString("kind")
		symbolsPath, _ := cmd.Flags().GetString("symbols")
		sourcePath, _ := cmd.Flags().GetString("source")

		kind, err := listing.ParseKind(kindName)
		if err != nil {
			return err
		}
		if compileSource {
			sourcePath = args[0]
		}

		// stderr belongs to the TUI; diagnostics only go to a log file
		var sink listing.Sink = listing.NopSink{}
		if os.Getenv("ASMVIEW_LOG_TO_FILE") == "1" {
			lg := newSink(appConfig)
			defer lg.Close()
			sink = lg
		}

		var load tea.Cmd
		if compileSource {
			load = loadCompiled(cmd, args[0], kind, sink)
		} else {
			load = loadParsed(args[0], symbolsPath, kind, sink)
		}
		load = withSource(load, sourcePath)

		defer log.RecoverPanic("view", nil)
		program := tea.NewProgram(
			newModel(args[0], kind, load),
			tea.WithAltScreen(),
			tea.WithContext(cmd.Context()),
		)
		if _, err := program.Run(); err != nil {
			slog.Error("TUI run error", "error", err)
			return fmt.Errorf("TUI error: %v", err)
		}
		return nil
	},
}

func loadCompiled(cmd *cobra.Command, path string, kind listing.Kind, sink listing.Sink) tea.Cmd {
	return func() tea.Msg {
		source, err := os.ReadFile(path)
		if err != nil {
			return resultMsg{err: err}
		}
		c, err := newCompiler(appConfig, sink, false).Compile(cmd.Context(), source, kind)
		if err != nil {
			return resultMsg{err: err}
		}
		return resultMsg{result: c.Result}
	}
}

func loadParsed(path, symbolsPath string, kind listing.Kind, sink listing.Sink) tea.Cmd {
	return func() tea.Msg {
		raw, err := os.ReadFile(path)
		if err != nil {
			return resultMsg{err: err}
		}
		var symbols []byte
		if symbolsPath != "" {
			if symbols, err = os.ReadFile(symbolsPath); err != nil {
				return resultMsg{err: err}
			}
		}
		res, err := parseOutput(kind, appConfig.Listing.Options(), symbols, listing.ToolStatus{}, string(raw), sink)
		return resultMsg{result: res, err: err}
	}
}

// withSource attaches the source file's lines to the loaded result.
func withSource(load tea.Cmd, sourcePath string) tea.Cmd {
	if sourcePath == "" {
		return load
	}
	return func() tea.Msg {
		loaded := load()
		msg, ok := loaded.(resultMsg)
		if !ok || msg.err != nil {
			return loaded
		}
		data, err := os.ReadFile(sourcePath)
		if err != nil {
			slog.Warn("Failed to read source", "path", sourcePath, "error", err)
			return msg
		}
		msg.source = strings.Split(strings.TrimRight(string(data), "\n"), "\n")
		return msg
	}
}

func init() {
	viewCmd.Flags().Bool("compile", false, "Compile the file with forc instead of reading captured output")
	viewCmd.Flags().StringP("kind", "k", "bytecode", "Output kind: "+strings.Join(listing.KindNames(), ", "))
	viewCmd.Flags().StringP("symbols", "s", "", "Symbol table JSON for bytecode output")
	viewCmd.Flags().String("source", "", "Source file shown next to the output")

	rootCmd.AddCommand(viewCmd)
}
