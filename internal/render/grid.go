// Package render draws step logs as note grids in the terminal: one column
// per position, one row per note with the highest note on top, and the two
// swapped cells highlighted.
package render

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"musicsort/internal/model"
)

var (
	ColorCell      = lipgloss.Color("#0F1923")
	ColorHighlight = lipgloss.Color("#E74C3C")
	ColorText      = lipgloss.Color("#FFFFFF")
	ColorMuted     = lipgloss.Color("#2C4A54")
)

// Styles used for colored output.
var Styles = struct {
	Cell      lipgloss.Style
	Highlight lipgloss.Style
	Empty     lipgloss.Style
	Header    lipgloss.Style
}{
	Cell:      lipgloss.NewStyle().Background(ColorCell).Foreground(ColorText),
	Highlight: lipgloss.NewStyle().Background(ColorHighlight).Foreground(ColorText).Bold(true),
	Empty:     lipgloss.NewStyle().Foreground(ColorMuted),
	Header:    lipgloss.NewStyle().Bold(true),
}

// Options controls frame output.
type Options struct {
	// Plain disables styling; swapped cells are bracketed instead of colored.
	Plain bool
}

// Frame draws one step.
func Frame(step model.Step, opts Options) string {
	rows := model.Count()
	lines := make([]string, 0, rows)
	for r := 0; r < rows; r++ {
		note := model.Note(rows - 1 - r)
		var line strings.Builder
		for col, n := range step.Snapshot {
			line.WriteString(cell(n == note, step.Highlights(col), note, opts))
		}
		lines = append(lines, line.String())
	}
	return strings.Join(lines, "\n")
}

func cell(filled, highlighted bool, note model.Note, opts Options) string {
	label := strings.ToUpper(note.String())
	if opts.Plain {
		switch {
		case !filled:
			return " . "
		case highlighted:
			return "[" + label + "]"
		default:
			return " " + label + " "
		}
	}
	switch {
	case !filled:
		return Styles.Empty.Render(" · ")
	case highlighted:
		return Styles.Highlight.Render(" " + label + " ")
	default:
		return Styles.Cell.Render(" " + label + " ")
	}
}

// Header describes a step for display, e.g. "step 3/12  swap 1↔2".
func Header(index, total int, step model.Step) string {
	if !step.Swapped() {
		return fmt.Sprintf("step %d/%d  initial", index, total)
	}
	return fmt.Sprintf("step %d/%d  swap %d↔%d", index, total, step.IndexA, step.IndexB)
}

// Log writes every step of log to w, each preceded by its header.
func Log(w io.Writer, log model.StepLog, opts Options) error {
	total := len(log) - 1
	for i, step := range log {
		header := Header(i, total, step)
		if !opts.Plain {
			header = Styles.Header.Render(header)
		}
		if _, err := fmt.Fprintf(w, "%s\n%s\n\n", header, Frame(step, opts)); err != nil {
			return err
		}
	}
	return nil
}
