package report

import (
	"bufio"
	"fmt"
	"io"

	"github.com/dustin/go-humanize"
)

// TextWriter prints one line per notebook and a closing summary.
type TextWriter struct {
	w       *bufio.Writer
	summary Summary
}

// NewTextWriter creates a human-readable report writer.
func NewTextWriter(w io.Writer) *TextWriter {
	return &TextWriter{w: bufio.NewWriter(w)}
}

// Write prints a line for e.
func (w *TextWriter) Write(e Entry) error {
	w.summary.Add(e)

	var err error
	switch e.Status {
	case StatusFailed:
		_, err = fmt.Fprintf(w.w, "%-12s %s: %s\n", e.Status, e.Path, e.Error)
	case StatusUnchanged:
		_, err = fmt.Fprintf(w.w, "%-12s %s\n", e.Status, e.Path)
	default:
		_, err = fmt.Fprintf(w.w, "%-12s %s (%d outputs, %s -> %s)\n",
			e.Status, e.Path, e.Stats.OutputsRemoved,
			humanize.Bytes(uint64(e.InputBytes)), humanize.Bytes(uint64(e.OutputBytes)))
	}
	if err != nil {
		return err
	}
	return w.w.Flush()
}

// Close prints the summary.
func (w *TextWriter) Close() error {
	s := w.summary
	saved := s.InputBytes - s.OutputBytes
	if saved < 0 {
		saved = 0
	}
	_, err := fmt.Fprintf(w.w, "\n%d notebook(s), %d changed, %d failed; %d outputs removed from %d cells, %s saved\n",
		s.Files, s.Changed, s.Failed, s.Stats.OutputsRemoved, s.Stats.CellsCleared, humanize.Bytes(uint64(saved)))
	if err != nil {
		return err
	}
	return w.w.Flush()
}
