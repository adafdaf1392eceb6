package notebook

import (
	"encoding/json"
	"fmt"
	"strings"
)

// CellType identifies the kind of a notebook cell.
type CellType string

const (
	CellTypeCode     CellType = "code"
	CellTypeMarkdown CellType = "markdown"
	CellTypeRaw      CellType = "raw"
)

// Cell is a single notebook cell.
//
// Outputs are kept as opaque JSON values. A nil ExecutionCount encodes as null.
// A nil Source means the document had no source key, which is a data-contract
// violation surfaced by SourceText.
type Cell struct {
	ID             string
	CellType       CellType
	Source         *string
	Outputs        []json.RawMessage
	ExecutionCount *int
	Metadata       map[string]any

	hasOutputs        bool
	hasExecutionCount bool
	extra             map[string]json.RawMessage
}

// NewCodeCell returns a code cell with the given source and no outputs.
func NewCodeCell(source string) *Cell {
	return &Cell{
		CellType: CellTypeCode,
		Source:   &source,
		Outputs:  []json.RawMessage{},
		Metadata: map[string]any{},
	}
}

// NewMarkdownCell returns a markdown cell with the given source.
func NewMarkdownCell(source string) *Cell {
	return &Cell{
		CellType: CellTypeMarkdown,
		Source:   &source,
		Metadata: map[string]any{},
	}
}

// IsCode reports whether the cell is a code cell.
func (c *Cell) IsCode() bool {
	return c.CellType == CellTypeCode
}

// SourceText returns the cell source as a single string.
func (c *Cell) SourceText() (string, error) {
	if c.Source == nil {
		if c.ID != "" {
			return "", fmt.Errorf("cell %s: %w", c.ID, ErrMissingSource)
		}
		return "", ErrMissingSource
	}
	return *c.Source, nil
}

// HasMetadata reports whether the cell carries a metadata mapping.
func (c *Cell) HasMetadata() bool {
	return c.Metadata != nil
}

// UnmarshalJSON implements json.Unmarshaler.
func (c *Cell) UnmarshalJSON(data []byte) error {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidCell, err)
	}
	if raw == nil {
		return fmt.Errorf("%w: null", ErrInvalidCell)
	}

	if v, ok := raw["cell_type"]; ok {
		if err := json.Unmarshal(v, &c.CellType); err != nil {
			return fmt.Errorf("cell_type: %w", err)
		}
		delete(raw, "cell_type")
	}
	if v, ok := raw["id"]; ok {
		if err := json.Unmarshal(v, &c.ID); err != nil {
			return fmt.Errorf("id: %w", err)
		}
		delete(raw, "id")
	}
	if v, ok := raw["source"]; ok {
		text, err := decodeMultiline(v)
		if err != nil {
			return fmt.Errorf("source: %w", err)
		}
		c.Source = &text
		delete(raw, "source")
	}
	if v, ok := raw["outputs"]; ok {
		if err := json.Unmarshal(v, &c.Outputs); err != nil {
			return fmt.Errorf("outputs: %w", err)
		}
		c.hasOutputs = true
		delete(raw, "outputs")
	}
	if v, ok := raw["execution_count"]; ok {
		if err := json.Unmarshal(v, &c.ExecutionCount); err != nil {
			return fmt.Errorf("execution_count: %w", err)
		}
		c.hasExecutionCount = true
		delete(raw, "execution_count")
	}
	if v, ok := raw["metadata"]; ok {
		m, err := decodeMetadata(v)
		if err != nil {
			return fmt.Errorf("metadata: %w", err)
		}
		c.Metadata = m
		delete(raw, "metadata")
	}

	c.extra = raw
	return nil
}

// MarshalJSON implements json.Marshaler. Code cells always carry outputs and
// execution_count; other cell types only if the decoded document had them.
func (c *Cell) MarshalJSON() ([]byte, error) {
	out := make(map[string]any, len(c.extra)+6)
	for k, v := range c.extra {
		out[k] = v
	}

	out["cell_type"] = c.CellType
	if c.ID != "" {
		out["id"] = c.ID
	}
	if c.Source != nil {
		out["source"] = splitLines(*c.Source)
	}
	if c.Metadata != nil {
		out["metadata"] = c.Metadata
	}
	if c.IsCode() || c.hasOutputs {
		outputs := c.Outputs
		if outputs == nil {
			outputs = []json.RawMessage{}
		}
		out["outputs"] = outputs
	}
	if c.IsCode() || c.hasExecutionCount {
		out["execution_count"] = c.ExecutionCount
	}
	return marshalJSON(out)
}

// decodeMultiline accepts the two nbformat encodings of text: a plain string
// or a list of strings that are concatenated verbatim.
func decodeMultiline(v json.RawMessage) (string, error) {
	var s string
	if err := json.Unmarshal(v, &s); err == nil {
		return s, nil
	}
	var lines []string
	if err := json.Unmarshal(v, &lines); err != nil {
		return "", fmt.Errorf("expected string or list of strings")
	}
	return strings.Join(lines, ""), nil
}

// splitLines splits text into lines that keep their trailing newline.
func splitLines(s string) []string {
	lines := make([]string, 0, strings.Count(s, "\n")+1)
	for s != "" {
		i := strings.IndexByte(s, '\n')
		if i < 0 {
			lines = append(lines, s)
			break
		}
		lines = append(lines, s[:i+1])
		s = s[i+1:]
	}
	return lines
}
