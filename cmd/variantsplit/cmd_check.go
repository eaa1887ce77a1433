package main

import (
	"variantsplit/internal/job"

	"github.com/spf13/cobra"
)

var checkCmd = &cobra.Command{
	Use:   "check [input...]",
	Short: "Validate marker pairing without writing outputs",
	Long:  `Runs the splitter over every input and reports marker errors. No files are written.`,
	Args:  cobra.ArbitraryArgs,
	RunE:  runCheck,
}

func runCheck(cmd *cobra.Command, args []string) error {
	runner, err := job.NewRunner(cfg, logger)
	if err != nil {
		return usageError(err)
	}

	results, err := runner.CheckAll(cmd.Context(), resolveInputs(args))
	printResults(cmd.OutOrStdout(), results)
	if err != nil {
		return failureError(err)
	}
	return nil
}
