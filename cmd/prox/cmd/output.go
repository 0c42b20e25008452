package cmd

import (
	"encoding/json"
	"fmt"
	"io"
	"slices"
	"strings"

	"github.com/corey/prox/internal/adapters/wire"
	"github.com/corey/prox/internal/app"
	"github.com/corey/prox/internal/domain/proximity"
)

// ANSI color codes for terminal output.
const (
	colorReset   = "\033[0m"
	colorBold    = "\033[1m"
	colorCyan    = "\033[36m"
	colorMagenta = "\033[35m"
	colorGreen   = "\033[32m"
	colorRed     = "\033[31m"
	colorGray    = "\033[90m"
)

// Output formats for `prox search --format`.
const (
	formatText = "text"
	formatJSON = "json"
	formatWire = "wire"
)

// printer renders file results to w and diagnostics to errw.
type printer struct {
	w, errw  io.Writer
	format   string
	color    bool
	withName bool
	count    bool
	quiet    bool
	// lenA and lenB are the term lengths, used to highlight both ends of a match.
	lenA, lenB int
}

func newPrinter(w, errw io.Writer, q app.Query) *printer {
	return &printer{
		w:      w,
		errw:   errw,
		format: formatText,
		lenA:   len(q.TermA),
		lenB:   len(q.TermB),
	}
}

// print writes all results in the configured format.
func (p *printer) print(results []app.FileResult) error {
	for _, r := range results {
		if r.Err != nil {
			fmt.Fprintf(p.errw, "prox: %s: %v\n", r.Path, r.Err)
		} else if r.Status != proximity.StatusComplete && !p.quiet {
			fmt.Fprintf(p.errw, "prox: %s: stopped after %d matches (%s)\n", r.Path, len(r.Matches), r.Status)
		}
	}
	if p.quiet {
		return nil
	}

	switch p.format {
	case formatJSON:
		return p.json(results)
	case formatWire:
		for _, r := range results {
			if r.Err != nil {
				continue
			}
			if err := wire.Write(p.w, r.Matches); err != nil {
				return err
			}
		}
		return nil
	default:
		for _, r := range results {
			if r.Err != nil {
				continue
			}
			if err := p.text(r); err != nil {
				return err
			}
		}
		return nil
	}
}

func (p *printer) json(results []app.FileResult) error {
	out := make([]app.FileResult, len(results))
	for i, r := range results {
		if r.Matches == nil {
			r.Matches = []proximity.Match{}
		}
		out[i] = r
	}
	enc := json.NewEncoder(p.w)
	enc.SetIndent("", "  ")
	return enc.Encode(out)
}

// text renders grep-style lines:
//
//	file:line:col: quick brown fox
func (p *printer) text(r app.FileResult) error {
	if p.count {
		if p.withName {
			_, err := fmt.Fprintf(p.w, "%s:%d\n", p.paint(colorMagenta, r.Path), len(r.Matches))
			return err
		}
		_, err := fmt.Fprintf(p.w, "%d\n", len(r.Matches))
		return err
	}

	lines := newLineIndex(r.Text)
	var sb strings.Builder
	for _, m := range r.Matches {
		sb.Reset()
		if p.withName {
			sb.WriteString(p.paint(colorMagenta, r.Path))
			sb.WriteString(p.paint(colorCyan, ":"))
		}
		line, col := lines.position(m.Start)
		sb.WriteString(p.paint(colorGreen, fmt.Sprintf("%d:%d", line, col)))
		sb.WriteString(p.paint(colorCyan, ":"))
		sb.WriteByte(' ')
		if r.Text != nil {
			p.snippet(&sb, r.Text, m)
		} else {
			fmt.Fprintf(&sb, "span=%d gap=%d", m.Span, m.Gap)
		}
		sb.WriteByte('\n')
		if _, err := io.WriteString(p.w, sb.String()); err != nil {
			return err
		}
	}
	return nil
}

// snippet writes the matched span with both terms highlighted. Line breaks
// inside the span are flattened so each match stays on one output line.
func (p *printer) snippet(sb *strings.Builder, text []byte, m proximity.Match) {
	end := min(m.End(), len(text))
	aEnd := min(m.Start+p.lenA, end)
	bStart := max(end-p.lenB, aEnd)

	sb.WriteString(p.paint(colorBold+colorRed, flatten(text[m.Start:aEnd])))
	if bStart > aEnd {
		sb.WriteString(p.paint(colorGray, flatten(text[aEnd:bStart])))
	}
	sb.WriteString(p.paint(colorBold+colorRed, flatten(text[bStart:end])))
}

func (p *printer) paint(code, s string) string {
	if !p.color || s == "" {
		return s
	}
	return code + s + colorReset
}

func flatten(b []byte) string {
	return strings.Map(func(r rune) rune {
		switch r {
		case '\n', '\r', '\t':
			return ' '
		}
		return r
	}, string(b))
}

// lineIndex holds the byte offset of each line start.
type lineIndex []int

func newLineIndex(text []byte) lineIndex {
	starts := lineIndex{0}
	for i, c := range text {
		if c == '\n' {
			starts = append(starts, i+1)
		}
	}
	return starts
}

// position returns the 1-based line and byte column of off.
func (li lineIndex) position(off int) (line, col int) {
	i, found := slices.BinarySearch(li, off)
	if !found {
		i--
	}
	return i + 1, off - li[i] + 1
}

// exitFor maps results to grep exit codes: any input error wins, then any match.
func exitFor(results []app.FileResult) error {
	found := false
	for _, r := range results {
		if r.Err != nil {
			return exitError{code: ExitError}
		}
		if len(r.Matches) > 0 {
			found = true
		}
	}
	if found {
		return nil
	}
	return exitError{code: ExitNotFound}
}
