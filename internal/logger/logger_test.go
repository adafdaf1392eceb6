package logger

import (
	"bytes"
	"context"
	"log/slog"
	"strings"
	"testing"
)

// resetLogger restores the default logger for test isolation.
func resetLogger() {
	Init(Options{})
}

func TestInit_Levels(t *testing.T) {
	tests := []struct {
		name      string
		opts      Options
		logged    []string
		notLogged []string
	}{
		{"default", Options{}, []string{"info", "warn", "error"}, []string{"debug"}},
		{"debug", Options{Debug: true}, []string{"debug", "info", "warn", "error"}, nil},
		{"quiet", Options{Quiet: true}, []string{"error"}, []string{"debug", "info", "warn"}},
		{"quiet_overrides_debug", Options{Debug: true, Quiet: true}, []string{"error"}, []string{"debug", "info"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			buf := &bytes.Buffer{}
			opts := tt.opts
			opts.Output = buf
			Init(opts)
			defer resetLogger()

			Debug("msg-debug")
			Info("msg-info")
			Warn("msg-warn")
			Error("msg-error")

			output := buf.String()
			for _, lvl := range tt.logged {
				if !strings.Contains(output, "msg-"+lvl) {
					t.Errorf("%s message should be logged", lvl)
				}
			}
			for _, lvl := range tt.notLogged {
				if strings.Contains(output, "msg-"+lvl) {
					t.Errorf("%s message should not be logged", lvl)
				}
			}
		})
	}
}

func TestInit_JSONFormat(t *testing.T) {
	buf := &bytes.Buffer{}
	Init(Options{JSON: true, Output: buf})
	defer resetLogger()

	Info("notebook cleared", "path", "a.ipynb", "outputs", 3)

	output := buf.String()
	for _, want := range []string{`"msg":"notebook cleared"`, `"path":"a.ipynb"`, `"outputs":3`, `"level":"INFO"`} {
		if !strings.Contains(output, want) {
			t.Errorf("expected %s in %q", want, output)
		}
	}
}

func TestInit_CustomLogger(t *testing.T) {
	buf := &bytes.Buffer{}
	Init(Options{Logger: slog.New(slog.NewTextHandler(buf, nil)), Quiet: true})
	defer resetLogger()

	Info("from custom")

	if !strings.Contains(buf.String(), "from custom") {
		t.Error("custom logger should ignore Quiet and log info")
	}
}

func TestSetLogger(t *testing.T) {
	buf := &bytes.Buffer{}
	SetLogger(slog.New(slog.NewTextHandler(buf, nil)))
	defer resetLogger()

	Warn("set logger")

	if !strings.Contains(buf.String(), "set logger") {
		t.Error("expected message through SetLogger logger")
	}
}

func TestWith_ReturnsLoggerWithAttrs(t *testing.T) {
	buf := &bytes.Buffer{}
	Init(Options{Output: buf})
	defer resetLogger()

	With("notebook", "demo.ipynb").Info("with attrs")

	output := buf.String()
	if !strings.Contains(output, "with attrs") || !strings.Contains(output, "demo.ipynb") {
		t.Errorf("expected message and attributes, got %q", output)
	}
}

func TestContextVariants(t *testing.T) {
	buf := &bytes.Buffer{}
	Init(Options{Debug: true, Output: buf})
	defer resetLogger()

	ctx := context.Background()
	DebugContext(ctx, "ctx-debug")
	InfoContext(ctx, "ctx-info")
	ErrorContext(ctx, "ctx-error")

	for _, want := range []string{"ctx-debug", "ctx-info", "ctx-error"} {
		if !strings.Contains(buf.String(), want) {
			t.Errorf("expected %s in output", want)
		}
	}
}

func TestForNotebook(t *testing.T) {
	buf := &bytes.Buffer{}
	Init(Options{JSON: true, Output: buf})
	defer resetLogger()

	ForNotebook("nb/demo.ipynb").Info("cleared")
	ForNotebook("").Info("stdin")

	output := buf.String()
	if !strings.Contains(output, `"notebook":"nb/demo.ipynb"`) {
		t.Errorf("expected notebook attribute, got %q", output)
	}
	if !strings.Contains(output, `"notebook":"-"`) {
		t.Errorf("expected stdin placeholder, got %q", output)
	}
}
