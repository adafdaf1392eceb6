// Package preprocessor provides per-cell notebook transformations.
//
// A Preprocessor is invoked once per cell, in document order, by Process.
// Implementations may keep state for the duration of one document pass, so a
// fresh instance should be used for every notebook.
package preprocessor

import (
	"fmt"

	"github.com/jmylchreest/nbclean/pkg/notebook"
)

// Resources is auxiliary context handed to every cell visit and returned
// alongside the cell. Preprocessors in this package pass it through unchanged.
type Resources map[string]any

// Preprocessor transforms a single notebook cell.
type Preprocessor interface {
	// PreprocessCell visits the cell at index and returns the cell to keep in
	// its place together with the resources.
	PreprocessCell(cell *notebook.Cell, resources Resources, index int) (*notebook.Cell, Resources, error)

	// Name returns the preprocessor type for logging/debugging.
	Name() string
}

// StatsReporter is implemented by preprocessors that count their changes.
type StatsReporter interface {
	Stats() Stats
}

// Factory creates a preprocessor for a single document pass.
type Factory func() Preprocessor

// Process runs p over every cell of nb in ascending index order, replacing
// each cell with the one returned. The first error aborts the pass.
func Process(nb *notebook.Notebook, resources Resources, p Preprocessor) (Resources, error) {
	for i, cell := range nb.Cells {
		if cell == nil {
			return resources, fmt.Errorf("%s: cell %d: %w: null", p.Name(), i, notebook.ErrInvalidCell)
		}
		out, res, err := p.PreprocessCell(cell, resources, i)
		if err != nil {
			return resources, fmt.Errorf("%s: cell %d: %w", p.Name(), i, err)
		}
		nb.Cells[i] = out
		resources = res
	}
	return resources, nil
}
