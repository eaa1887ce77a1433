// Package main implements the variantsplit CLI.
//
// variantsplit splits a source file annotated with #ifdef LINUX / #ifdef OSV
// blocks into one file per platform. Lines outside a block go to both files.
//
// Usage:
//
//	variantsplit                      # split vmcache.cpp (or config split.inputs)
//	variantsplit split a.cpp b.cpp    # split several files
//	variantsplit check a.cpp          # validate markers only
//	variantsplit watch a.cpp          # re-split on every save
package main

import (
	"errors"
	"fmt"
	"os"

	"variantsplit/internal/config"
	"variantsplit/internal/logging"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// version is set at build time with -ldflags "-X main.version=...".
var version = "dev"

var (
	// Global flags
	verbose    bool
	configPath string
	logFormat  string
	outputDir  string
	workers    int

	// Loaded in PersistentPreRunE
	cfg    *config.Config
	logger *zap.Logger
)

// rootCmd represents the base command
var rootCmd = &cobra.Command{
	Use:   "variantsplit [input...]",
	Short: "Split #ifdef LINUX / #ifdef OSV annotated sources into per-platform files",
	Long: `variantsplit reads a source file in which platform specific code is wrapped in

  #ifdef LINUX ... #endif
  #ifdef OSV   ... #endif

blocks and writes two files: one with the common and LINUX lines, one with the
common and OSV lines. Marker lines are dropped, everything else is copied
byte for byte.

Blocks may not nest and every block must be closed. On any violation the
offending line is reported, no output files are left behind and the exit
status is 1.

Run without a subcommand to split the inputs given as arguments, or the
inputs listed in the config file.`,
	Args:          cobra.ArbitraryArgs,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		loaded, err := config.Load(configPath)
		if err != nil {
			return usageError(err)
		}
		applyFlagOverrides(cmd, loaded)
		cfg = loaded

		logger, err = logging.New(logging.Options{
			Level:   cfg.Logging.Level,
			Format:  cfg.Logging.Format,
			Verbose: verbose,
		})
		if err != nil {
			return usageError(err)
		}
		logging.For(logger, logging.CategoryBoot).Debug("configuration loaded",
			zap.String("config", configPath),
			zap.Strings("inputs", cfg.Split.Inputs),
			zap.Int("workers", cfg.Split.Workers))
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if logger != nil {
			_ = logger.Sync()
		}
	},
	RunE: runSplit,
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable debug logging")
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", config.DefaultFile, "Path to config file")
	rootCmd.PersistentFlags().StringVar(&logFormat, "log-format", "", "Log format: console or json (overrides config)")
	rootCmd.PersistentFlags().StringVarP(&outputDir, "output-dir", "o", "", "Directory for output files (default: next to each input)")
	rootCmd.PersistentFlags().IntVarP(&workers, "workers", "w", 0, "Inputs split in parallel (overrides config)")

	rootCmd.AddCommand(splitCmd, checkCmd, watchCmd, configCmd, versionCmd)
}

// applyFlagOverrides lets explicitly set flags win over file and env values.
func applyFlagOverrides(cmd *cobra.Command, c *config.Config) {
	flags := cmd.Flags()
	if flags.Changed("log-format") {
		c.Logging.Format = logFormat
	}
	if flags.Changed("output-dir") {
		c.Output.Dir = outputDir
	}
	if flags.Changed("workers") {
		c.Split.Workers = workers
	}
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		var ee *exitError
		if errors.As(err, &ee) {
			if !ee.reported {
				fmt.Fprintln(os.Stderr, "variantsplit:", ee.err)
			}
			os.Exit(ee.code)
		}
		fmt.Fprintln(os.Stderr, "variantsplit:", err)
		os.Exit(exitUsage)
	}
}
