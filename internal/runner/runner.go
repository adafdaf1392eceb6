// Package runner cleans batches of notebooks, one preprocessor pass per notebook.
package runner

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/sourcegraph/conc/pool"

	"github.com/jmylchreest/nbclean/internal/logger"
	"github.com/jmylchreest/nbclean/pkg/notebook"
	"github.com/jmylchreest/nbclean/pkg/preprocessor"
)

// Mode selects where cleaned notebooks go.
type Mode int

const (
	// ModeCollect keeps the cleaned bytes in Result.Output for the caller.
	ModeCollect Mode = iota
	// ModeInPlace overwrites changed notebooks.
	ModeInPlace
	// ModeOutputDir writes every notebook into Options.OutputDir.
	ModeOutputDir
	// ModeCheck writes nothing and only reports.
	ModeCheck
)

// Options configures a Runner.
type Options struct {
	Factory     preprocessor.Factory
	Mode        Mode
	OutputDir   string
	Concurrency int
}

// Result is the outcome for one notebook.
type Result struct {
	Path        string
	Stats       preprocessor.Stats
	InputBytes  int
	OutputBytes int
	Changed     bool
	Written     string
	Output      []byte
	Duration    time.Duration
	Err         error
}

// Runner drives preprocessors over notebooks.
type Runner struct {
	opts Options
}

// New creates a runner. A nil Factory defaults to a ClearOutput with default options.
func New(opts Options) *Runner {
	if opts.Factory == nil {
		opts.Factory = preprocessor.NewClearOutputFactory()
	}
	if opts.Concurrency < 1 {
		opts.Concurrency = 1
	}
	return &Runner{opts: opts}
}

// Run cleans every path and returns one Result per path, in input order.
// A failing notebook does not stop the others; the returned error joins all
// per-notebook failures.
func (r *Runner) Run(ctx context.Context, paths []string) ([]Result, error) {
	if r.opts.Mode == ModeOutputDir {
		if err := r.prepareOutputDir(paths); err != nil {
			return nil, err
		}
	}

	results := make([]Result, len(paths))
	p := pool.New().WithMaxGoroutines(r.opts.Concurrency)
	for i, path := range paths {
		i, path := i, path
		p.Go(func() {
			defer func() {
				if v := recover(); v != nil {
					results[i] = Result{Path: path, Err: fmt.Errorf("preprocessor panicked: %v", v)}
				}
			}()
			if err := ctx.Err(); err != nil {
				results[i] = Result{Path: path, Err: err}
				return
			}
			results[i] = r.cleanFile(path)
		})
	}
	p.Wait()

	var errs []error
	for _, res := range results {
		if res.Err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", res.Path, res.Err))
		}
	}
	return results, errors.Join(errs...)
}

// Clean reads one notebook from in, cleans it and writes it to out.
func (r *Runner) Clean(in io.Reader, out io.Writer) (Result, error) {
	data, err := io.ReadAll(in)
	if err != nil {
		return Result{Path: "-"}, fmt.Errorf("failed to read input: %w", err)
	}
	res := r.cleanBytes("-", data)
	if res.Err != nil {
		return res, res.Err
	}
	if r.opts.Mode != ModeCheck {
		if _, err := out.Write(res.Output); err != nil {
			return res, fmt.Errorf("failed to write output: %w", err)
		}
	}
	return res, nil
}

func (r *Runner) cleanFile(path string) Result {
	data, err := os.ReadFile(path)
	if err != nil {
		return Result{Path: path, Err: fmt.Errorf("failed to read notebook: %w", err)}
	}

	res := r.cleanBytes(path, data)
	log := logger.ForNotebook(path)
	if res.Err != nil {
		log.Error("failed to clean notebook", "error", res.Err)
		return res
	}

	switch r.opts.Mode {
	case ModeInPlace:
		if res.Changed {
			res.Written = path
		}
	case ModeOutputDir:
		res.Written = filepath.Join(r.opts.OutputDir, filepath.Base(path))
	}
	if res.Written != "" {
		if err := os.WriteFile(res.Written, res.Output, 0o644); err != nil {
			res.Err = fmt.Errorf("failed to write notebook: %w", err)
			return res
		}
	}
	if r.opts.Mode != ModeCollect {
		res.Output = nil
	}

	log.Debug("notebook processed",
		"changed", res.Changed,
		"outputs_removed", res.Stats.OutputsRemoved,
		"written", res.Written,
		"duration", res.Duration)
	return res
}

func (r *Runner) cleanBytes(path string, data []byte) Result {
	start := time.Now()
	res := Result{Path: path, InputBytes: len(data)}

	nb, err := notebook.Parse(data)
	if err != nil {
		res.Err = err
		return res
	}

	p := r.opts.Factory()
	if _, err := preprocessor.Process(nb, newResources(path), p); err != nil {
		res.Err = err
		return res
	}
	if sr, ok := p.(preprocessor.StatsReporter); ok {
		res.Stats = sr.Stats()
	}

	out, err := notebook.Marshal(nb)
	if err != nil {
		res.Err = err
		return res
	}
	res.Output = out
	res.OutputBytes = len(out)
	res.Changed = res.Stats.Changed()
	res.Duration = time.Since(start)
	return res
}

// prepareOutputDir creates the directory and rejects inputs that would
// overwrite each other.
func (r *Runner) prepareOutputDir(paths []string) error {
	if r.opts.OutputDir == "" {
		return errors.New("output directory not set")
	}
	targets := make(map[string]string, len(paths))
	for _, path := range paths {
		base := strings.ToLower(filepath.Base(path))
		if prev, ok := targets[base]; ok {
			return fmt.Errorf("%s and %s would both be written to %s", prev, path, filepath.Join(r.opts.OutputDir, filepath.Base(path)))
		}
		targets[base] = path
	}
	if err := os.MkdirAll(r.opts.OutputDir, 0o755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}
	return nil
}

// newResources builds the per-notebook context handed to preprocessors.
func newResources(path string) preprocessor.Resources {
	name := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	return preprocessor.Resources{
		"metadata": map[string]any{
			"name": name,
			"path": filepath.Dir(path),
		},
	}
}
