package preprocessor

import (
	"errors"
	"strings"
	"testing"

	"github.com/jmylchreest/nbclean/pkg/notebook"
)

// errorPreprocessor always fails.
type errorPreprocessor struct{}

func (e *errorPreprocessor) PreprocessCell(cell *notebook.Cell, resources Resources, index int) (*notebook.Cell, Resources, error) {
	return nil, resources, errors.New("test error")
}

func (e *errorPreprocessor) Name() string {
	return "error"
}

// tagPreprocessor records that it ran in the resources.
type tagPreprocessor struct{ tag string }

func (p *tagPreprocessor) PreprocessCell(cell *notebook.Cell, resources Resources, index int) (*notebook.Cell, Resources, error) {
	prev, _ := resources["order"].(string)
	resources["order"] = prev + p.tag
	return cell, resources, nil
}

func (p *tagPreprocessor) Name() string {
	return p.tag
}

func TestNoop_PreprocessCell(t *testing.T) {
	cell := executedCell("x", "y")
	before := snapshot(t, cell)

	got, _, err := NewNoop().PreprocessCell(cell, nil, 0)
	if err != nil {
		t.Fatalf("PreprocessCell() error = %v", err)
	}
	if got != cell || snapshot(t, got) != before {
		t.Error("noop modified the cell")
	}
}

func TestChain_Order(t *testing.T) {
	c := NewChain(&tagPreprocessor{"a"}, &tagPreprocessor{"b"})
	res := Resources{}

	nb := &notebook.Notebook{Cells: []*notebook.Cell{executedCell("x"), executedCell("y")}}
	res, err := Process(nb, res, c)
	if err != nil {
		t.Fatalf("Process() error = %v", err)
	}
	if got := res["order"]; got != "abab" {
		t.Errorf("order = %v, want abab", got)
	}
}

func TestChain_WithClearOutput(t *testing.T) {
	co := NewClearOutput(WithNoticeWriter(nil))
	c := NewChain(NewNoop(), co)
	cell := executedCell("print(1)", "x")

	visitAll(t, c, cell)

	assertCleared(t, cell)
}

func TestChain_ErrorPropagation(t *testing.T) {
	c := NewChain(NewNoop(), &errorPreprocessor{}, NewNoop())
	nb := &notebook.Notebook{Cells: []*notebook.Cell{executedCell("x")}}

	_, err := Process(nb, nil, c)
	if err == nil {
		t.Fatal("expected error to propagate")
	}
	if !strings.Contains(err.Error(), "test error") {
		t.Errorf("expected error containing 'test error', got %v", err)
	}
}

func TestChain_Name(t *testing.T) {
	tests := []struct {
		name          string
		preprocessors []Preprocessor
		want          string
	}{
		{"empty", nil, "chain()"},
		{"single", []Preprocessor{NewNoop()}, "chain(noop)"},
		{"double", []Preprocessor{NewNoop(), NewClearOutput()}, "chain(noop->clear-output)"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := NewChain(tt.preprocessors...).Name(); got != tt.want {
				t.Errorf("Name() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestStats_AddAndChanged(t *testing.T) {
	var total Stats
	if total.Changed() {
		t.Error("zero Stats should not be changed")
	}
	total.Add(Stats{CellsVisited: 2, OutputsRemoved: 1})
	total.Add(Stats{CellsVisited: 1, MetadataKeysRemoved: 2})

	if total.CellsVisited != 3 || total.OutputsRemoved != 1 || total.MetadataKeysRemoved != 2 {
		t.Errorf("Add() = %+v", total)
	}
	if !total.Changed() {
		t.Error("Changed() = false, want true")
	}
	if !strings.Contains(total.String(), "Cells visited:     3") {
		t.Errorf("String() = %q", total.String())
	}
}

func TestChain_StatsSumsMembers(t *testing.T) {
	first := NewClearOutput(WithNoticeWriter(nil))
	second := NewClearOutput(WithNoticeWriter(nil), WithRemoveMetadataFields("state"))
	c := NewChain(NewNoop(), first, second)

	visitAll(t, c, executedCell("print(1)", "x", "y"))

	var sr StatsReporter = c
	stats := sr.Stats()
	// Only the first clearer sees outputs; the second still drops "state".
	if stats.OutputsRemoved != 2 || stats.MetadataKeysRemoved != 3 || stats.CellsVisited != 2 {
		t.Errorf("Stats() = %+v", stats)
	}
	if !stats.Changed() {
		t.Error("Changed() = false, want true")
	}
}

func TestProcess_MalformedCells(t *testing.T) {
	tests := []struct {
		name  string
		cells []*notebook.Cell
		want  error
	}{
		{"null_cell", []*notebook.Cell{executedCell("x"), nil}, notebook.ErrInvalidCell},
		{"missing_source", []*notebook.Cell{{CellType: notebook.CellTypeCode}}, notebook.ErrMissingSource},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			nb := &notebook.Notebook{Cells: tt.cells}
			_, err := Process(nb, nil, NewClearOutput(WithNoticeWriter(nil)))
			if !errors.Is(err, tt.want) {
				t.Errorf("Process() error = %v, want %v", err, tt.want)
			}
		})
	}
}
