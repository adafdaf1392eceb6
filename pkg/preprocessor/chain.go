package preprocessor

import (
	"strings"

	"github.com/jmylchreest/nbclean/pkg/notebook"
)

// Chain applies multiple preprocessors to each cell in sequence.
type Chain struct {
	preprocessors []Preprocessor
}

// NewChain creates a preprocessor that applies preprocessors in the order provided.
func NewChain(preprocessors ...Preprocessor) *Chain {
	return &Chain{
		preprocessors: preprocessors,
	}
}

// PreprocessCell applies all preprocessors to the cell in sequence.
func (c *Chain) PreprocessCell(cell *notebook.Cell, resources Resources, index int) (*notebook.Cell, Resources, error) {
	var err error
	for _, p := range c.preprocessors {
		cell, resources, err = p.PreprocessCell(cell, resources, index)
		if err != nil {
			return nil, resources, err
		}
	}
	return cell, resources, nil
}

// Stats sums the stats of every chained preprocessor that reports them.
func (c *Chain) Stats() Stats {
	var total Stats
	for _, p := range c.preprocessors {
		if sr, ok := p.(StatsReporter); ok {
			total.Add(sr.Stats())
		}
	}
	return total
}

// Name returns the names of all chained preprocessors.
func (c *Chain) Name() string {
	names := make([]string, len(c.preprocessors))
	for i, p := range c.preprocessors {
		names[i] = p.Name()
	}
	return "chain(" + strings.Join(names, "->") + ")"
}
