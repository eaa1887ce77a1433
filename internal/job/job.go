// Package job runs splits against real files: it opens the input, stages both
// outputs, runs the splitter and commits or discards the outputs as a unit.
package job

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	"variantsplit/internal/config"
	"variantsplit/internal/logging"
	"variantsplit/internal/naming"
	"variantsplit/internal/sink"
	"variantsplit/internal/splitter"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Result describes one finished job.
type Result struct {
	RunID    string
	Input    string
	Outputs  naming.Outputs // empty for checks
	Stats    splitter.Stats
	Duration time.Duration
	Err      error
}

// OK reports whether the job succeeded.
func (r Result) OK() bool {
	return r.Err == nil
}

// Runner executes split and check jobs.
type Runner struct {
	splitter *splitter.Splitter
	scheme   naming.Scheme
	workers  int
	logger   *zap.Logger
	batchLog *zap.Logger
}

// NewRunner builds a Runner from validated configuration.
func NewRunner(cfg *config.Config, logger *zap.Logger) (*Runner, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	sp, err := splitter.New(cfg.Markers)
	if err != nil {
		return nil, err
	}
	return &Runner{
		splitter: sp,
		scheme:   cfg.Scheme(),
		workers:  cfg.Split.Workers,
		logger:   logging.For(logger, logging.CategorySplit),
		batchLog: logging.For(logger, logging.CategoryBatch),
	}, nil
}

// Scheme returns the naming scheme outputs are resolved with.
func (r *Runner) Scheme() naming.Scheme {
	return r.scheme
}

// Run splits input into its two outputs. On any failure both outputs are
// removed, including files left by an earlier successful run.
func (r *Runner) Run(ctx context.Context, input string) (Result, error) {
	plan, err := r.scheme.Plan([]string{input})
	if err != nil {
		return Result{Input: input, Err: err}, err
	}
	return r.run(ctx, plan[0])
}

func (r *Runner) run(ctx context.Context, out naming.Outputs) (res Result, err error) {
	res = Result{RunID: uuid.NewString(), Input: out.Input, Outputs: out}
	log := r.logger.With(zap.String("run_id", res.RunID), zap.String("input", out.Input))
	start := time.Now()
	defer func() {
		res.Duration = time.Since(start)
		res.Err = err
		if err != nil {
			log.Error("split failed", zap.Error(err), zap.Duration("took", res.Duration))
			return
		}
		log.Info("split complete",
			zap.String("output_a", out.A),
			zap.String("output_b", out.B),
			zap.Int("lines", res.Stats.LinesRead),
			zap.Int("blocks", res.Stats.Blocks),
			zap.Duration("took", res.Duration))
	}()

	if err = ctx.Err(); err != nil {
		return res, err
	}

	src, err := os.Open(out.Input)
	if err != nil {
		return res, fmt.Errorf("failed to open input: %w", err)
	}
	defer src.Close()

	pair, err := sink.CreatePair(out.A, out.B)
	if err != nil {
		return res, err
	}
	defer func() {
		// No-op once committed.
		if aerr := pair.Abort(); aerr != nil {
			log.Warn("failed to discard outputs", zap.Error(aerr))
		}
	}()
	log.Debug("outputs staged", zap.String("tmp_a", pair.A.TempPath()), zap.String("tmp_b", pair.B.TempPath()))

	res.Stats, err = r.splitter.Run(src, pair.A, pair.B)
	if err != nil {
		return res, err
	}
	if err = pair.Commit(); err != nil {
		return res, err
	}
	return res, nil
}

// Check validates input without writing anything.
func (r *Runner) Check(ctx context.Context, input string) (res Result, err error) {
	res = Result{RunID: uuid.NewString(), Input: input}
	log := r.logger.With(zap.String("run_id", res.RunID), zap.String("input", input))
	start := time.Now()
	defer func() {
		res.Duration = time.Since(start)
		res.Err = err
		if err != nil {
			log.Error("check failed", zap.Error(err))
		} else {
			log.Debug("check passed", zap.Int("lines", res.Stats.LinesRead))
		}
	}()

	if err = ctx.Err(); err != nil {
		return res, err
	}
	src, err := os.Open(input)
	if err != nil {
		return res, fmt.Errorf("failed to open input: %w", err)
	}
	defer src.Close()

	res.Stats, err = r.splitter.Check(src)
	return res, err
}

// InputError ties a job failure to its input.
type InputError struct {
	Input string
	Err   error
}

func (e *InputError) Error() string {
	return fmt.Sprintf("%s: %v", e.Input, e.Err)
}

func (e *InputError) Unwrap() error {
	return e.Err
}

// joinResults collects per-input failures, in input order.
func joinResults(results []Result) error {
	var errs []error
	for _, res := range results {
		if res.Err != nil {
			errs = append(errs, &InputError{Input: res.Input, Err: res.Err})
		}
	}
	return errors.Join(errs...)
}
