package report

import (
	"bufio"
	"encoding/json"
	"io"
)

// JSONWriter buffers entries and writes a single JSON document on Close.
type JSONWriter struct {
	w      *bufio.Writer
	pretty bool
	indent string
	doc    document
}

// NewJSONWriter creates a JSON report writer.
func NewJSONWriter(w io.Writer, pretty bool, indent string) *JSONWriter {
	return &JSONWriter{
		w:      bufio.NewWriter(w),
		pretty: pretty,
		indent: indent,
		doc:    document{Files: make([]Entry, 0)},
	}
}

// Write buffers e.
func (w *JSONWriter) Write(e Entry) error {
	w.doc.Files = append(w.doc.Files, e)
	w.doc.Summary.Add(e)
	return nil
}

// Close writes the buffered report.
func (w *JSONWriter) Close() error {
	var output []byte
	var err error
	if w.pretty {
		output, err = json.MarshalIndent(w.doc, "", w.indent)
	} else {
		output, err = json.Marshal(w.doc)
	}
	if err != nil {
		return err
	}

	if _, err := w.w.Write(output); err != nil {
		return err
	}
	if _, err := w.w.WriteString("\n"); err != nil {
		return err
	}
	return w.w.Flush()
}

// JSONLWriter streams one JSON object per notebook.
type JSONLWriter struct {
	w *bufio.Writer
}

// NewJSONLWriter creates a JSONL report writer.
func NewJSONLWriter(w io.Writer) *JSONLWriter {
	return &JSONLWriter{w: bufio.NewWriter(w)}
}

// Write writes e as a JSON line.
func (w *JSONLWriter) Write(e Entry) error {
	output, err := json.Marshal(e)
	if err != nil {
		return err
	}
	if _, err := w.w.Write(output); err != nil {
		return err
	}
	if _, err := w.w.WriteString("\n"); err != nil {
		return err
	}
	return w.w.Flush()
}

// Close flushes the writer.
func (w *JSONLWriter) Close() error {
	return w.w.Flush()
}
