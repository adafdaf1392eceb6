package preprocessor

import "github.com/jmylchreest/nbclean/pkg/notebook"

// Noop passes cells through without modification.
type Noop struct{}

// NewNoop creates a new no-op preprocessor.
func NewNoop() *Noop {
	return &Noop{}
}

// PreprocessCell returns the cell unchanged.
func (n *Noop) PreprocessCell(cell *notebook.Cell, resources Resources, index int) (*notebook.Cell, Resources, error) {
	return cell, resources, nil
}

// Name returns the preprocessor type.
func (n *Noop) Name() string {
	return "noop"
}
