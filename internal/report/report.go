// Package report writes per-notebook results of a clear run.
package report

import (
	"fmt"
	"io"

	"github.com/jmylchreest/nbclean/pkg/preprocessor"
)

// Format represents report format types.
type Format string

const (
	FormatNone  Format = "none"
	FormatText  Format = "text"
	FormatJSON  Format = "json"
	FormatJSONL Format = "jsonl"
	FormatYAML  Format = "yaml"
)

// Status describes what happened to one notebook.
type Status string

const (
	StatusCleared     Status = "cleared"
	StatusUnchanged   Status = "unchanged"
	StatusWouldChange Status = "would-change"
	StatusFailed      Status = "failed"
)

// Entry is the result for a single notebook.
type Entry struct {
	Path        string             `json:"path" yaml:"path"`
	Status      Status             `json:"status" yaml:"status"`
	Stats       preprocessor.Stats `json:"stats" yaml:"stats"`
	InputBytes  int                `json:"input_bytes" yaml:"input_bytes"`
	OutputBytes int                `json:"output_bytes" yaml:"output_bytes"`
	Error       string             `json:"error,omitempty" yaml:"error,omitempty"`
}

// Summary aggregates all entries of a run.
type Summary struct {
	Files       int                `json:"files" yaml:"files"`
	Changed     int                `json:"changed" yaml:"changed"`
	Failed      int                `json:"failed" yaml:"failed"`
	Stats       preprocessor.Stats `json:"stats" yaml:"stats"`
	InputBytes  int                `json:"input_bytes" yaml:"input_bytes"`
	OutputBytes int                `json:"output_bytes" yaml:"output_bytes"`
}

// Add folds e into the summary.
func (s *Summary) Add(e Entry) {
	s.Files++
	switch e.Status {
	case StatusCleared, StatusWouldChange:
		s.Changed++
	case StatusFailed:
		s.Failed++
	}
	s.Stats.Add(e.Stats)
	s.InputBytes += e.InputBytes
	s.OutputBytes += e.OutputBytes
}

// Writer handles report serialization.
type Writer interface {
	// Write records one notebook result.
	Write(e Entry) error

	// Close writes any buffered output and the run summary.
	Close() error
}

// WriterOption configures a writer.
type WriterOption func(*writerConfig)

type writerConfig struct {
	pretty bool
	indent string
}

// WithPretty enables pretty-printing for JSON reports.
func WithPretty(enabled bool) WriterOption {
	return func(c *writerConfig) {
		c.pretty = enabled
	}
}

// WithIndent sets the JSON indentation string.
func WithIndent(indent string) WriterOption {
	return func(c *writerConfig) {
		c.indent = indent
	}
}

// NewWriter creates a writer for the specified format.
func NewWriter(w io.Writer, format Format, opts ...WriterOption) (Writer, error) {
	cfg := &writerConfig{
		pretty: true,
		indent: "  ",
	}
	for _, opt := range opts {
		opt(cfg)
	}

	switch format {
	case FormatNone:
		return discardWriter{}, nil
	case FormatText:
		return NewTextWriter(w), nil
	case FormatJSON:
		return NewJSONWriter(w, cfg.pretty, cfg.indent), nil
	case FormatJSONL:
		return NewJSONLWriter(w), nil
	case FormatYAML:
		return NewYAMLWriter(w), nil
	default:
		return nil, fmt.Errorf("unsupported report format: %s", format)
	}
}

type discardWriter struct{}

func (discardWriter) Write(Entry) error { return nil }
func (discardWriter) Close() error      { return nil }

// document is the shape of buffered JSON and YAML reports.
type document struct {
	Files   []Entry `json:"files" yaml:"files"`
	Summary Summary `json:"summary" yaml:"summary"`
}
