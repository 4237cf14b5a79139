package listing

// Assembler composes extractor output and tool status into a Result.
type Assembler struct {
	FailureText string
}

// Assemble never returns an empty Lines slice: a failed tool run or an empty
// extraction is replaced by a single unmapped sentinel line. Succeeded only
// reflects the tool status.
func (a Assembler) Assemble(status ToolStatus, lines []OutputLine) Result {
	res := Result{Lines: lines, Succeeded: !status.Failed()}
	if status.Failed() || len(lines) == 0 {
		res.Lines = []OutputLine{a.sentinel()}
	}
	return res
}

func (a Assembler) sentinel() OutputLine {
	text := a.FailureText
	if text == "" {
		text = DefaultFailureText
	}
	return OutputLine{Text: text}
}

// Parser runs an extractor over captured output and assembles the result,
// reporting any degradation to its sink.
type Parser struct {
	assembler Assembler
	sink      Sink
}

// NewParser creates a parser. A nil sink discards diagnostics.
func NewParser(opts Options, sink Sink) *Parser {
	if sink == nil {
		sink = NopSink{}
	}
	return &Parser{assembler: Assembler{FailureText: opts.FailureText}, sink: sink}
}

// Parse extracts raw with ex unless the tool failed, in which case no parsing
// is attempted.
func (p *Parser) Parse(ex Extractor, status ToolStatus, raw string) Result {
	if status.Failed() {
		p.sink.Debug("tool failed, skipping parse", "exit_code", status.ExitCode, "timed_out", status.TimedOut)
		return p.assembler.Assemble(status, nil)
	}

	extraction, err := ex.Extract(raw)
	if err != nil {
		p.sink.Warn("extraction failed", "error", err)
		return p.assembler.Assemble(status, nil)
	}
	if extraction.Degraded != "" {
		p.sink.Warn("degraded output", "reason", extraction.Degraded)
	}
	p.sink.Debug("parsed output", "lines", len(extraction.Lines))
	return p.assembler.Assemble(status, extraction.Lines)
}
