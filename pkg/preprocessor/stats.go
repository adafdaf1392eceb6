package preprocessor

import (
	"fmt"
	"strings"
)

// Stats captures what a ClearOutput did during one pass.
type Stats struct {
	CellsVisited         int `json:"cells_visited" yaml:"cells_visited"`
	CellsCleared         int `json:"cells_cleared" yaml:"cells_cleared"`
	CellsSkipped         int `json:"cells_skipped" yaml:"cells_skipped"`
	OutputsRemoved       int `json:"outputs_removed" yaml:"outputs_removed"`
	ExecutionCountsReset int `json:"execution_counts_reset" yaml:"execution_counts_reset"`
	MetadataKeysRemoved  int `json:"metadata_keys_removed" yaml:"metadata_keys_removed"`
}

// Changed reports whether the pass removed anything.
func (s Stats) Changed() bool {
	return s.OutputsRemoved > 0 || s.ExecutionCountsReset > 0 || s.MetadataKeysRemoved > 0
}

// Add accumulates other into s.
func (s *Stats) Add(other Stats) {
	s.CellsVisited += other.CellsVisited
	s.CellsCleared += other.CellsCleared
	s.CellsSkipped += other.CellsSkipped
	s.OutputsRemoved += other.OutputsRemoved
	s.ExecutionCountsReset += other.ExecutionCountsReset
	s.MetadataKeysRemoved += other.MetadataKeysRemoved
}

// String returns a multi-line summary.
func (s Stats) String() string {
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Cells visited:     %d\n", s.CellsVisited))
	sb.WriteString(fmt.Sprintf("Cells cleared:     %d\n", s.CellsCleared))
	sb.WriteString(fmt.Sprintf("Cells skipped:     %d\n", s.CellsSkipped))
	sb.WriteString(fmt.Sprintf("Outputs removed:   %d\n", s.OutputsRemoved))
	sb.WriteString(fmt.Sprintf("Counts reset:      %d\n", s.ExecutionCountsReset))
	sb.WriteString(fmt.Sprintf("Metadata removed:  %d\n", s.MetadataKeysRemoved))
	return sb.String()
}
