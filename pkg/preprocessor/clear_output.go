package preprocessor

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/jmylchreest/nbclean/internal/logger"
	"github.com/jmylchreest/nbclean/pkg/notebook"
)

// DefaultRemoveMetadataFields are the cell metadata keys that only make sense
// alongside outputs.
var DefaultRemoveMetadataFields = []string{"collapsed", "scrolled"}

// SkipNotice is written to the notice writer whenever a cell is skipped under SkipEmpty.
const SkipNotice = "Code cell skipped"

// ClearOutput removes outputs, execution counts and output-related metadata
// from code cells. Which empty-source cells survive is decided by its Policy.
//
// A ClearOutput is not safe for concurrent use and covers one document pass.
type ClearOutput struct {
	policy         Policy
	removeMetadata []string
	notice         io.Writer

	// pendingSkip is consumed by the first visit, whatever the cell type.
	pendingSkip bool
	stats       Stats
}

// Option configures a ClearOutput.
type Option func(*ClearOutput)

// WithPolicy sets the skip policy.
func WithPolicy(p Policy) Option {
	return func(c *ClearOutput) {
		c.policy = p
	}
}

// WithRemoveMetadataFields replaces the set of metadata keys removed from cleared cells.
func WithRemoveMetadataFields(fields ...string) Option {
	return func(c *ClearOutput) {
		c.removeMetadata = append([]string(nil), fields...)
	}
}

// WithNoticeWriter sets where skip notices are written (default: stderr).
// A nil writer disables notices.
func WithNoticeWriter(w io.Writer) Option {
	return func(c *ClearOutput) {
		c.notice = w
	}
}

// NewClearOutput creates an output clearer.
//
// Example:
//
//	p := preprocessor.NewClearOutput(
//	    preprocessor.WithPolicy(preprocessor.SkipFirstEmpty),
//	    preprocessor.WithRemoveMetadataFields("collapsed", "scrolled", "execution"),
//	)
func NewClearOutput(opts ...Option) *ClearOutput {
	c := &ClearOutput{
		policy:         SkipEmpty,
		removeMetadata: append([]string(nil), DefaultRemoveMetadataFields...),
		notice:         os.Stderr,
		pendingSkip:    true,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// NewClearOutputFactory returns a Factory producing a fresh ClearOutput per pass.
func NewClearOutputFactory(opts ...Option) Factory {
	return func() Preprocessor {
		return NewClearOutput(opts...)
	}
}

// PreprocessCell implements Preprocessor.
func (c *ClearOutput) PreprocessCell(cell *notebook.Cell, resources Resources, index int) (*notebook.Cell, Resources, error) {
	first := c.pendingSkip
	c.pendingSkip = false
	c.stats.CellsVisited++

	if !cell.IsCode() {
		return cell, resources, nil
	}

	skip, err := c.shouldSkip(cell, first)
	if err != nil {
		return nil, resources, err
	}
	if skip {
		c.stats.CellsSkipped++
		logger.Debug("code cell skipped", "index", index, "id", cell.ID, "policy", c.policy.String())
		if c.policy == SkipEmpty && c.notice != nil {
			fmt.Fprintln(c.notice, SkipNotice)
		}
		return cell, resources, nil
	}

	c.clear(cell)
	return cell, resources, nil
}

func (c *ClearOutput) shouldSkip(cell *notebook.Cell, first bool) (bool, error) {
	switch c.policy {
	case SkipFirstEmpty:
		if !first {
			return false, nil
		}
	case SkipEmpty:
	default:
		return false, fmt.Errorf("%w: %s", ErrUnknownPolicy, c.policy)
	}

	src, err := cell.SourceText()
	if err != nil {
		return false, err
	}
	return src == "", nil
}

func (c *ClearOutput) clear(cell *notebook.Cell) {
	c.stats.CellsCleared++
	c.stats.OutputsRemoved += len(cell.Outputs)
	if cell.ExecutionCount != nil {
		c.stats.ExecutionCountsReset++
	}

	cell.Outputs = []json.RawMessage{}
	cell.ExecutionCount = nil

	if !cell.HasMetadata() {
		return
	}
	for _, field := range c.removeMetadata {
		if _, ok := cell.Metadata[field]; ok {
			delete(cell.Metadata, field)
			c.stats.MetadataKeysRemoved++
		}
	}
}

// Stats returns what the clearer has done so far in this pass.
func (c *ClearOutput) Stats() Stats {
	return c.stats
}

// Policy returns the configured skip policy.
func (c *ClearOutput) Policy() Policy {
	return c.policy
}

// Name returns the preprocessor type.
func (c *ClearOutput) Name() string {
	return "clear-output"
}
