package discover

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
)

// writeTree creates empty files under root and returns root.
func writeTree(t *testing.T, files ...string) string {
	t.Helper()
	root := t.TempDir()
	for _, f := range files {
		path := filepath.Join(root, filepath.FromSlash(f))
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			t.Fatal(err)
		}
		if err := os.WriteFile(path, []byte("{}"), 0o644); err != nil {
			t.Fatal(err)
		}
	}
	return root
}

func rel(t *testing.T, root string, paths []string) []string {
	t.Helper()
	out := make([]string, len(paths))
	for i, p := range paths {
		r, err := filepath.Rel(root, p)
		if err != nil {
			t.Fatal(err)
		}
		out[i] = filepath.ToSlash(r)
	}
	return out
}

func TestFind_WalksDirectories(t *testing.T) {
	root := writeTree(t,
		"b.ipynb",
		"a.ipynb",
		"notes.md",
		"sub/c.IPYNB",
		"sub/.ipynb_checkpoints/c-checkpoint.ipynb",
	)

	f, err := NewFinder()
	if err != nil {
		t.Fatalf("NewFinder() error = %v", err)
	}
	got, err := f.Find(root)
	if err != nil {
		t.Fatalf("Find() error = %v", err)
	}

	want := []string{"a.ipynb", "b.ipynb", "sub/c.IPYNB"}
	if diff := cmp.Diff(want, rel(t, root, got)); diff != "" {
		t.Errorf("Find() mismatch (-want +got):\n%s", diff)
	}
}

func TestFind_ExplicitFilesAndDedup(t *testing.T) {
	root := writeTree(t, "a.ipynb", "data.json")
	a := filepath.Join(root, "a.ipynb")
	other := filepath.Join(root, "data.json")

	f, _ := NewFinder()
	got, err := f.Find(a, root, other, a)
	if err != nil {
		t.Fatalf("Find() error = %v", err)
	}

	// Explicit files are kept whatever their extension.
	want := []string{"a.ipynb", "data.json"}
	if diff := cmp.Diff(want, rel(t, root, got)); diff != "" {
		t.Errorf("Find() mismatch (-want +got):\n%s", diff)
	}
}

func TestFind_Excludes(t *testing.T) {
	root := writeTree(t, "keep.ipynb", "scratch-1.ipynb", "drafts/x.ipynb", "drafts/deep/y.ipynb")

	f, err := NewFinder("scratch-*", "**/drafts/**")
	if err != nil {
		t.Fatalf("NewFinder() error = %v", err)
	}
	got, err := f.Find(root)
	if err != nil {
		t.Fatalf("Find() error = %v", err)
	}

	if diff := cmp.Diff([]string{"keep.ipynb"}, rel(t, root, got)); diff != "" {
		t.Errorf("Find() mismatch (-want +got):\n%s", diff)
	}
}

func TestFind_NoInputs(t *testing.T) {
	root := writeTree(t, "readme.md")

	f, _ := NewFinder()
	if _, err := f.Find(root); !errors.Is(err, ErrNoInputs) {
		t.Errorf("Find() error = %v, want ErrNoInputs", err)
	}
}

func TestFind_MissingPath(t *testing.T) {
	f, _ := NewFinder()
	if _, err := f.Find(filepath.Join(t.TempDir(), "nope.ipynb")); err == nil {
		t.Error("expected error for missing path")
	}
}

func TestNewFinder_InvalidPattern(t *testing.T) {
	if _, err := NewFinder("[unclosed"); err == nil {
		t.Error("expected error for invalid pattern")
	}
}
