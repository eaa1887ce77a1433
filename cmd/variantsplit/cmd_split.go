package main

import (
	"variantsplit/internal/config"
	"variantsplit/internal/job"

	"github.com/spf13/cobra"
)

// =============================================================================
// SPLIT COMMAND
// =============================================================================

var splitCmd = &cobra.Command{
	Use:   "split [input...]",
	Short: "Split inputs into their LINUX and OSV variants",
	Long: `Splits every input into two files named by output.pattern
(default cleaned_code_{variant}{ext}, i.e. cleaned_code_linux.cpp and
cleaned_code_osv.cpp next to the input).

Outputs are written to temp files and only renamed into place when the whole
input split cleanly. A failed input leaves no outputs behind.`,
	Args: cobra.ArbitraryArgs,
	RunE: runSplit,
}

func runSplit(cmd *cobra.Command, args []string) error {
	runner, err := job.NewRunner(cfg, logger)
	if err != nil {
		return usageError(err)
	}

	results, err := runner.RunAll(cmd.Context(), resolveInputs(args))
	printResults(cmd.OutOrStdout(), results)
	if err != nil {
		return failureError(err)
	}
	return nil
}

// resolveInputs prefers explicit arguments, then the config, then the default file.
func resolveInputs(args []string) []string {
	if len(args) > 0 {
		return args
	}
	if cfg != nil && len(cfg.Split.Inputs) > 0 {
		return cfg.Split.Inputs
	}
	return []string{config.DefaultInput}
}
