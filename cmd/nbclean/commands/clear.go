package commands

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os/signal"
	"strings"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/jmylchreest/nbclean/internal/config"
	"github.com/jmylchreest/nbclean/internal/discover"
	"github.com/jmylchreest/nbclean/internal/logger"
	"github.com/jmylchreest/nbclean/internal/report"
	"github.com/jmylchreest/nbclean/internal/runner"
	"github.com/jmylchreest/nbclean/pkg/preprocessor"
)

// ErrWouldChange is returned in check mode when a notebook still has outputs.
var ErrWouldChange = errors.New("notebooks would be changed")

var clearCmd = &cobra.Command{
	Use:   "clear [paths...]",
	Short: "Clear outputs from notebooks",
	Long: `Clear outputs, execution counts and output-related metadata from code cells.

Paths may be notebooks or directories; directories are searched for *.ipynb
files, skipping .ipynb_checkpoints. With no paths a notebook is read from
stdin and the cleaned notebook is written to stdout.

Skip policies:
  skip-empty        leave every code cell with empty source untouched
  skip-first-empty  leave only a leading code cell with empty source untouched`,
	RunE: runClear,
}

func init() {
	rootCmd.AddCommand(clearCmd)

	flags := clearCmd.Flags()
	flags.String("policy", preprocessor.SkipEmpty.String(), "skip policy: "+strings.Join(preprocessor.PolicyNames(), ", "))
	flags.StringSlice("remove-metadata", preprocessor.DefaultRemoveMetadataFields, "cell metadata keys removed from cleared cells")
	flags.StringSlice("exclude", nil, "glob patterns of paths to skip (can be repeated)")
	flags.BoolP("in-place", "i", false, "overwrite notebooks that changed")
	flags.StringP("output-dir", "o", "", "write cleaned notebooks into this directory")
	flags.IntP("concurrency", "c", 4, "notebooks cleaned in parallel")
	flags.String("report", "text", "report format: none, text, json, jsonl, yaml")
	flags.Bool("check", false, "write nothing; exit non-zero if any notebook would change")

	_ = viper.BindPFlag("policy", flags.Lookup("policy"))
	_ = viper.BindPFlag("remove_metadata_fields", flags.Lookup("remove-metadata"))
	_ = viper.BindPFlag("exclude", flags.Lookup("exclude"))
	_ = viper.BindPFlag("in_place", flags.Lookup("in-place"))
	_ = viper.BindPFlag("output_dir", flags.Lookup("output-dir"))
	_ = viper.BindPFlag("concurrency", flags.Lookup("concurrency"))
	_ = viper.BindPFlag("report", flags.Lookup("report"))
	_ = viper.BindPFlag("check", flags.Lookup("check"))
}

func runClear(cmd *cobra.Command, args []string) error {
	ctx, cancel := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	cfg, err := config.Load(viper.GetViper())
	if err != nil {
		return err
	}
	logger.Debug("clear command starting", "policy", cfg.Policy, "remove_metadata", cfg.RemoveMetadataFields, "paths", len(args))

	opts, err := cfg.PreprocessorOptions()
	if err != nil {
		return err
	}
	if viper.GetBool("quiet") {
		opts = append(opts, preprocessor.WithNoticeWriter(nil))
	} else {
		opts = append(opts, preprocessor.WithNoticeWriter(cmd.ErrOrStderr()))
	}

	if len(args) == 0 {
		return clearStream(cmd, cfg, opts)
	}
	return clearFiles(ctx, cmd, cfg, opts, args)
}

// clearStream cleans stdin to stdout.
func clearStream(cmd *cobra.Command, cfg *config.Config, opts []preprocessor.Option) error {
	if cfg.InPlace || cfg.OutputDir != "" {
		return errors.New("--in-place and --output-dir need notebook paths")
	}

	mode := runner.ModeCollect
	if cfg.Check {
		mode = runner.ModeCheck
	}
	r := runner.New(runner.Options{
		Factory: preprocessor.NewClearOutputFactory(opts...),
		Mode:    mode,
	})

	res, err := r.Clean(cmd.InOrStdin(), cmd.OutOrStdout())
	if err != nil {
		return err
	}
	logger.Debug("stdin notebook cleaned", "outputs_removed", res.Stats.OutputsRemoved, "cells_skipped", res.Stats.CellsSkipped)
	if cfg.Check && res.Changed {
		return ErrWouldChange
	}
	return nil
}

// clearFiles cleans notebooks found under paths.
func clearFiles(ctx context.Context, cmd *cobra.Command, cfg *config.Config, opts []preprocessor.Option, paths []string) error {
	finder, err := discover.NewFinder(cfg.Exclude...)
	if err != nil {
		return err
	}
	files, err := finder.Find(paths...)
	if err != nil {
		return err
	}

	mode := runner.ModeCollect
	reportOut := cmd.OutOrStdout()
	switch {
	case cfg.Check:
		mode = runner.ModeCheck
	case cfg.InPlace:
		mode = runner.ModeInPlace
	case cfg.OutputDir != "":
		mode = runner.ModeOutputDir
	case len(files) > 1:
		return fmt.Errorf("%d notebooks found: use --in-place or --output-dir", len(files))
	default:
		// The notebook itself goes to stdout.
		reportOut = cmd.ErrOrStderr()
	}

	r := runner.New(runner.Options{
		Factory:     preprocessor.NewClearOutputFactory(opts...),
		Mode:        mode,
		OutputDir:   cfg.OutputDir,
		Concurrency: cfg.Concurrency,
	})
	results, runErr := r.Run(ctx, files)

	if mode == runner.ModeCollect && len(results) == 1 && results[0].Err == nil {
		if _, err := cmd.OutOrStdout().Write(results[0].Output); err != nil {
			return fmt.Errorf("failed to write output: %w", err)
		}
	}

	changed, err := writeReport(reportOut, report.Format(cfg.Report), mode, results)
	if err != nil {
		return err
	}
	if runErr != nil {
		return runErr
	}
	if cfg.Check && changed > 0 {
		return fmt.Errorf("%w: %d of %d", ErrWouldChange, changed, len(results))
	}
	return nil
}

// writeReport emits one report entry per result and returns how many changed.
func writeReport(w io.Writer, format report.Format, mode runner.Mode, results []runner.Result) (int, error) {
	rw, err := report.NewWriter(w, format)
	if err != nil {
		return 0, err
	}

	changed := 0
	for _, res := range results {
		entry := report.Entry{
			Path:        res.Path,
			Stats:       res.Stats,
			InputBytes:  res.InputBytes,
			OutputBytes: res.OutputBytes,
		}
		switch {
		case res.Err != nil:
			entry.Status = report.StatusFailed
			entry.Error = res.Err.Error()
		case !res.Changed:
			entry.Status = report.StatusUnchanged
		case mode == runner.ModeCheck:
			entry.Status = report.StatusWouldChange
			changed++
		default:
			entry.Status = report.StatusCleared
			changed++
		}
		if err := rw.Write(entry); err != nil {
			return changed, fmt.Errorf("failed to write report: %w", err)
		}
	}
	if err := rw.Close(); err != nil {
		return changed, fmt.Errorf("failed to write report: %w", err)
	}
	return changed, nil
}
