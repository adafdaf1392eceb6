package report

import (
	"bufio"
	"io"

	"gopkg.in/yaml.v3"
)

// YAMLWriter buffers entries and writes a YAML document on Close.
type YAMLWriter struct {
	w   *bufio.Writer
	doc document
}

// NewYAMLWriter creates a YAML report writer.
func NewYAMLWriter(w io.Writer) *YAMLWriter {
	return &YAMLWriter{
		w:   bufio.NewWriter(w),
		doc: document{Files: make([]Entry, 0)},
	}
}

// Write buffers e.
func (w *YAMLWriter) Write(e Entry) error {
	w.doc.Files = append(w.doc.Files, e)
	w.doc.Summary.Add(e)
	return nil
}

// Close writes the buffered report.
func (w *YAMLWriter) Close() error {
	encoder := yaml.NewEncoder(w.w)
	encoder.SetIndent(2)
	if err := encoder.Encode(w.doc); err != nil {
		return err
	}
	if err := encoder.Close(); err != nil {
		return err
	}
	return w.w.Flush()
}
