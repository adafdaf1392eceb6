// Package commands implements the CLI commands for nbclean.
package commands

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/jmylchreest/nbclean/internal/config"
	"github.com/jmylchreest/nbclean/internal/logger"
)

var rootCmd = &cobra.Command{
	Use:   "nbclean",
	Short: "Strip outputs and execution counts from Jupyter notebooks",
	Long: `nbclean removes execution outputs, execution counts and output-related
cell metadata from the code cells of Jupyter notebooks, so they can be
committed or exported without stale results.

Examples:
  # Clean a notebook from stdin to stdout
  nbclean clear < analysis.ipynb > analysis.clean.ipynb

  # Clean every notebook under a directory in place
  nbclean clear --in-place notebooks/

  # Keep only a leading empty cell's outputs
  nbclean clear --policy skip-first-empty --in-place demo.ipynb

  # Fail in CI when a notebook still carries outputs
  nbclean clear --check notebooks/`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if err := config.ReadInConfig(viper.GetViper(), viper.GetString("config")); err != nil {
			return err
		}
		logger.Init(logger.Options{
			Debug:  viper.GetBool("debug"),
			Quiet:  viper.GetBool("quiet"),
			JSON:   viper.GetBool("log_json"),
			Output: cmd.ErrOrStderr(),
		})
		return nil
	},
}

func init() {
	config.SetDefaults(viper.GetViper())

	rootCmd.PersistentFlags().String("config", "", "config file (default $HOME/.nbclean.yaml or ./.nbclean.yaml)")
	rootCmd.PersistentFlags().Bool("debug", false, "enable debug logging")
	rootCmd.PersistentFlags().BoolP("quiet", "q", false, "only log errors and suppress skip notices")
	rootCmd.PersistentFlags().Bool("log-json", false, "log as JSON")

	_ = viper.BindPFlag("config", rootCmd.PersistentFlags().Lookup("config"))
	_ = viper.BindPFlag("debug", rootCmd.PersistentFlags().Lookup("debug"))
	_ = viper.BindPFlag("quiet", rootCmd.PersistentFlags().Lookup("quiet"))
	_ = viper.BindPFlag("log_json", rootCmd.PersistentFlags().Lookup("log-json"))
}

// Execute runs the root command.
func Execute() error {
	if err := rootCmd.Execute(); err != nil {
		logError("%v", err)
		return err
	}
	return nil
}

// logError prints an error message to stderr.
func logError(format string, args ...any) {
	fmt.Fprintf(os.Stderr, "Error: "+format+"\n", args...)
}
