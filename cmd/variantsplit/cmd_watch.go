package main

import (
	"context"
	"fmt"
	"os/signal"
	"syscall"

	"variantsplit/internal/job"
	"variantsplit/internal/watch"

	"github.com/spf13/cobra"
)

var watchCmd = &cobra.Command{
	Use:   "watch [input...]",
	Short: "Split inputs, then re-split whenever one changes",
	Long: `Splits every input once and keeps watching them. Each save of an input
re-runs its split after watch.debounce of quiet. Errors are reported and the
watch continues. Stop with Ctrl-C.`,
	Args: cobra.ArbitraryArgs,
	RunE: runWatch,
}

func runWatch(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(contextOrBackground(cmd), syscall.SIGINT, syscall.SIGTERM)
	defer stop()
	return watchUntilDone(ctx, cmd, resolveInputs(args))
}

func watchUntilDone(ctx context.Context, cmd *cobra.Command, inputs []string) error {
	runner, err := job.NewRunner(cfg, logger)
	if err != nil {
		return usageError(err)
	}

	// Validate names up front; a collision would make every re-split fail.
	if _, err := runner.Scheme().Plan(inputs); err != nil {
		return failureError(err)
	}

	out := cmd.OutOrStdout()
	results, _ := runner.RunAll(ctx, inputs)
	printResults(out, results)

	w, err := watch.New(inputs, runner.Run,
		watch.WithDebounce(cfg.GetDebounce()),
		watch.WithLogger(logger),
		watch.OnResult(func(res job.Result) { printResult(out, res) }))
	if err != nil {
		return usageError(err)
	}
	if err := w.Start(ctx); err != nil {
		w.Stop()
		return usageError(err)
	}
	fmt.Fprintf(out, "%s %d input(s), Ctrl-C to stop\n", labelStyle.Render("watching"), len(inputs))

	<-ctx.Done()
	w.Stop()

	stats := w.GetStats()
	fmt.Fprintf(out, "%s %d re-split(s), %d failed\n", dimStyle.Render("stopped:"), stats.Runs, stats.Failures)
	return nil
}

func contextOrBackground(cmd *cobra.Command) context.Context {
	if ctx := cmd.Context(); ctx != nil {
		return ctx
	}
	return context.Background()
}
