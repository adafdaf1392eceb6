// Package notebook provides an in-memory model of nbformat v4 Jupyter notebooks.
//
// Only the fields that preprocessors touch are modelled explicitly. Every other
// key is kept as raw JSON so a decode/encode round trip does not lose data.
package notebook

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"os"
)

var (
	// ErrMissingSource is returned when a cell carries no source field at all.
	ErrMissingSource = errors.New("cell has no source")

	// ErrInvalidCell is returned for cells that are not JSON objects, such as null.
	ErrInvalidCell = errors.New("invalid cell")
)

// Notebook is a parsed notebook document.
type Notebook struct {
	NBFormat      int
	NBFormatMinor int
	Metadata      map[string]any
	Cells         []*Cell

	extra map[string]json.RawMessage
}

// Parse decodes a notebook from JSON.
func Parse(data []byte) (*Notebook, error) {
	var nb Notebook
	if err := json.Unmarshal(data, &nb); err != nil {
		return nil, fmt.Errorf("failed to parse notebook: %w", err)
	}
	return &nb, nil
}

// ReadFile loads a notebook from disk.
func ReadFile(path string) (*Notebook, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read notebook: %w", err)
	}
	nb, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return nb, nil
}

// Marshal encodes the notebook the way Jupyter writes it: sorted keys,
// one-space indentation, no HTML escaping and a trailing newline.
func Marshal(nb *Notebook) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", " ")
	if err := enc.Encode(nb); err != nil {
		return nil, fmt.Errorf("failed to encode notebook: %w", err)
	}
	return buf.Bytes(), nil
}

// WriteFile encodes the notebook and writes it to path.
func WriteFile(path string, nb *Notebook) error {
	data, err := Marshal(nb)
	if err != nil {
		return err
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write notebook: %w", err)
	}
	return nil
}

// UnmarshalJSON implements json.Unmarshaler.
func (nb *Notebook) UnmarshalJSON(data []byte) error {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	if v, ok := raw["nbformat"]; ok {
		if err := json.Unmarshal(v, &nb.NBFormat); err != nil {
			return fmt.Errorf("nbformat: %w", err)
		}
		delete(raw, "nbformat")
	}
	if v, ok := raw["nbformat_minor"]; ok {
		if err := json.Unmarshal(v, &nb.NBFormatMinor); err != nil {
			return fmt.Errorf("nbformat_minor: %w", err)
		}
		delete(raw, "nbformat_minor")
	}
	if v, ok := raw["metadata"]; ok {
		m, err := decodeMetadata(v)
		if err != nil {
			return fmt.Errorf("metadata: %w", err)
		}
		nb.Metadata = m
		delete(raw, "metadata")
	}
	if v, ok := raw["cells"]; ok {
		if err := json.Unmarshal(v, &nb.Cells); err != nil {
			return fmt.Errorf("cells: %w", err)
		}
		for i, c := range nb.Cells {
			if c == nil {
				return fmt.Errorf("cells[%d]: %w: null", i, ErrInvalidCell)
			}
		}
		delete(raw, "cells")
	}

	if nb.NBFormat != 0 && nb.NBFormat < 4 {
		return fmt.Errorf("unsupported nbformat %d (only v4 is supported)", nb.NBFormat)
	}

	nb.extra = raw
	return nil
}

// MarshalJSON implements json.Marshaler.
func (nb *Notebook) MarshalJSON() ([]byte, error) {
	out := make(map[string]any, len(nb.extra)+4)
	for k, v := range nb.extra {
		out[k] = v
	}

	cells := nb.Cells
	if cells == nil {
		cells = []*Cell{}
	}
	metadata := nb.Metadata
	if metadata == nil {
		metadata = map[string]any{}
	}

	out["cells"] = cells
	out["metadata"] = metadata
	out["nbformat"] = nb.NBFormat
	out["nbformat_minor"] = nb.NBFormatMinor
	return marshalJSON(out)
}

// decodeMetadata keeps numbers as json.Number so they are written back verbatim.
func decodeMetadata(v json.RawMessage) (map[string]any, error) {
	dec := json.NewDecoder(bytes.NewReader(v))
	dec.UseNumber()
	var m map[string]any
	if err := dec.Decode(&m); err != nil {
		return nil, err
	}
	return m, nil
}

// marshalJSON is json.Marshal without HTML escaping. Nested MarshalJSON
// output is copied as is by the outer encoder, so every level must use it.
func marshalJSON(v any) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(v); err != nil {
		return nil, err
	}
	return bytes.TrimSuffix(buf.Bytes(), []byte("\n")), nil
}
