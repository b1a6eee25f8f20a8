package optimize

import (
	"context"
	"errors"
	"fmt"
	"time"

	"noise-obliterator/internal/buffer"
	"noise-obliterator/internal/engine"
	"noise-obliterator/internal/logger"
	"noise-obliterator/internal/metrics"
)

// ErrNoCandidates reports an optimization run over an empty catalog.
var ErrNoCandidates = errors.New("no candidates")

// Scorer ranks a processing result against its input; higher is better.
type Scorer func(input, output *buffer.Buffer) float64

// DefaultScorer balances detail preservation against noise reduction:
// half structural similarity to the input, half relative total-variation
// reduction. A filter that blurs everything loses on SSIM; one that does
// nothing loses on TV reduction.
func DefaultScorer(input, output *buffer.Buffer) float64 {
	ssim, err := metrics.SSIM(input, output)
	if err != nil {
		return 0
	}
	reduction := 0.0
	if tvIn := metrics.TotalVariationNorm(input); tvIn > 0 {
		reduction = 1 - metrics.TotalVariationNorm(output)/tvIn
		if reduction < 0 {
			reduction = 0
		}
	}
	return 0.5*ssim + 0.5*reduction
}

// Result is the winning candidate of one run.
type Result struct {
	Candidate Candidate
	Output    *buffer.Buffer
	Score     float64
	Elapsed   time.Duration
	// Evaluated counts scheduler invocations; never exceeds the catalog size.
	Evaluated int
}

// Optimizer drives repeated scheduler invocations over a candidate catalog.
type Optimizer struct {
	scheduler *engine.Scheduler
	scorer    Scorer
	log       logger.Logger
	tracker   *metrics.Tracker
}

func NewOptimizer(scheduler *engine.Scheduler, scorer Scorer, log logger.Logger, tracker *metrics.Tracker) *Optimizer {
	if scheduler == nil {
		scheduler = engine.NewScheduler(nil, nil)
	}
	if scorer == nil {
		scorer = DefaultScorer
	}
	if log == nil {
		log = logger.Nop{}
	}
	return &Optimizer{scheduler: scheduler, scorer: scorer, log: log, tracker: tracker}
}

// Run evaluates every catalog candidate against src and returns the best
// scorer result, ties broken by lower elapsed time. The search terminates
// after exactly len(catalog) scheduler invocations.
func (o *Optimizer) Run(ctx context.Context, src *buffer.Buffer, catalog Catalog, opts engine.Options) (*Result, error) {
	if len(catalog) == 0 {
		return nil, fmt.Errorf("%w: empty catalog", ErrNoCandidates)
	}

	var best *Result
	for _, candidate := range catalog {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		output, elapsed, err := metrics.Measure(func() (*buffer.Buffer, error) {
			return o.scheduler.Process(ctx, src, candidate.Params, opts)
		})
		if err != nil {
			return nil, fmt.Errorf("candidate %s: %w", candidate.Name, err)
		}
		if o.tracker != nil {
			o.tracker.Record("optimize_candidate", elapsed)
		}

		score := o.scorer(src, output)
		o.log.Debug("optimizer", "candidate evaluated", map[string]interface{}{
			"candidate":  candidate.Name,
			"filter":     candidate.Params.String(),
			"score":      score,
			"elapsed_ms": elapsed.Milliseconds(),
		})

		evaluated := 1
		if best != nil {
			evaluated = best.Evaluated + 1
		}
		if best == nil || score > best.Score ||
			(score == best.Score && elapsed < best.Elapsed) {
			best = &Result{
				Candidate: candidate,
				Output:    output,
				Score:     score,
				Elapsed:   elapsed,
				Evaluated: evaluated,
			}
		} else {
			best.Evaluated = evaluated
		}
	}

	o.log.Info("optimizer", "search completed", map[string]interface{}{
		"winner":    best.Candidate.Name,
		"filter":    best.Candidate.Params.String(),
		"score":     best.Score,
		"evaluated": best.Evaluated,
	})
	return best, nil
}
