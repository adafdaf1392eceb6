// Package discover expands command-line paths into the list of notebooks to clean.
package discover

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/gobwas/glob"

	"github.com/jmylchreest/nbclean/internal/logger"
)

// Extension is the file extension of notebooks found by directory walks.
const Extension = ".ipynb"

// checkpointDir holds Jupyter autosave copies, which are never cleaned.
const checkpointDir = ".ipynb_checkpoints"

// ErrNoInputs is returned when the given paths contain no notebooks.
var ErrNoInputs = errors.New("no notebooks found")

// Finder resolves paths to notebook files.
type Finder struct {
	excludes []glob.Glob
	patterns []string
}

// NewFinder creates a finder that drops any path matching one of the exclude
// patterns. Patterns use shell glob syntax with '/' as separator, so '*' stays
// within a path segment and '**' spans segments.
func NewFinder(excludes ...string) (*Finder, error) {
	f := &Finder{}
	for _, pattern := range excludes {
		g, err := glob.Compile(pattern, '/')
		if err != nil {
			return nil, fmt.Errorf("invalid exclude pattern %q: %w", pattern, err)
		}
		f.excludes = append(f.excludes, g)
		f.patterns = append(f.patterns, pattern)
	}
	return f, nil
}

// Find returns the sorted, de-duplicated notebook paths under paths.
// Files are taken as given; directories are walked for *.ipynb files.
func (f *Finder) Find(paths ...string) ([]string, error) {
	seen := make(map[string]bool)
	var found []string

	add := func(path string) {
		clean := filepath.Clean(path)
		if seen[clean] || f.Excluded(clean) {
			return
		}
		seen[clean] = true
		found = append(found, clean)
	}

	for _, path := range paths {
		info, err := os.Stat(path)
		if err != nil {
			return nil, fmt.Errorf("failed to stat %s: %w", path, err)
		}
		if !info.IsDir() {
			add(path)
			continue
		}

		err = filepath.WalkDir(path, func(p string, d fs.DirEntry, err error) error {
			if err != nil {
				return err
			}
			if d.IsDir() {
				if d.Name() == checkpointDir {
					logger.Debug("skipping checkpoint directory", "path", p)
					return filepath.SkipDir
				}
				return nil
			}
			if strings.EqualFold(filepath.Ext(p), Extension) {
				add(p)
			}
			return nil
		})
		if err != nil {
			return nil, fmt.Errorf("failed to walk %s: %w", path, err)
		}
	}

	if len(found) == 0 {
		return nil, ErrNoInputs
	}
	sort.Strings(found)
	return found, nil
}

// Excluded reports whether path matches an exclude pattern. Patterns are
// tried against the slash-separated path and its base name.
func (f *Finder) Excluded(path string) bool {
	slashed := filepath.ToSlash(path)
	base := filepath.Base(path)
	for i, g := range f.excludes {
		if g.Match(slashed) || g.Match(base) {
			logger.Debug("path excluded", "path", path, "pattern", f.patterns[i])
			return true
		}
	}
	return false
}
