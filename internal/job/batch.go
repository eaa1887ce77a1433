package job

import (
	"context"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// RunAll splits every input with at most Workers jobs in flight. Output names
// are planned up front so two inputs can never write the same file. Jobs are
// independent: one failing does not stop the others. Cancelling ctx skips jobs
// that have not started yet.
//
// Results are returned in input order. The error joins one *InputError per
// failed input.
func (r *Runner) RunAll(ctx context.Context, inputs []string) ([]Result, error) {
	plan, err := r.scheme.Plan(inputs)
	if err != nil {
		return nil, err
	}

	results := make([]Result, len(plan))
	r.fanOut(ctx, len(plan), func(ctx context.Context, i int) {
		results[i], _ = r.run(ctx, plan[i])
	})
	return results, r.report("split", results)
}

// CheckAll validates every input concurrently.
func (r *Runner) CheckAll(ctx context.Context, inputs []string) ([]Result, error) {
	results := make([]Result, len(inputs))
	r.fanOut(ctx, len(inputs), func(ctx context.Context, i int) {
		results[i], _ = r.Check(ctx, inputs[i])
	})
	return results, r.report("check", results)
}

func (r *Runner) fanOut(ctx context.Context, n int, fn func(context.Context, int)) {
	var g errgroup.Group
	g.SetLimit(r.workers)
	for i := 0; i < n; i++ {
		g.Go(func() error {
			fn(ctx, i)
			return nil
		})
	}
	_ = g.Wait()
}

func (r *Runner) report(op string, results []Result) error {
	failed := 0
	for _, res := range results {
		if !res.OK() {
			failed++
		}
	}
	r.batchLog.Info("batch finished",
		zap.String("op", op),
		zap.Int("inputs", len(results)),
		zap.Int("failed", failed),
		zap.Int("workers", r.workers))
	return joinResults(results)
}
