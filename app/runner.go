// Package app wires the battery together: eligibility checks, the test-level
// cache, timing, and summary aggregation.
package app

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/montanaflynn/stats"

	"gonist/domain/battery"
	"gonist/domain/bitstream"
	"gonist/domain/core"
	"gonist/internal"
	"gonist/internal/cache"
	"gonist/ports"
)

// Options configures one battery run.
type Options struct {
	// Significance is the score cutoff; zero means battery.DefaultSignificance.
	Significance float64
	// SkipCache forces re-evaluation even when a cached result exists.
	SkipCache bool
	// StopOnFailure ends the run at the first failing test. Ineligible
	// tests never stop a run.
	StopOnFailure bool
}

// Summary aggregates a run across tests. Ineligible tests are excluded from
// the pass rate and score statistics.
type Summary struct {
	Eligible   int     `json:"eligible"`
	Passed     int     `json:"passed"`
	Failed     int     `json:"failed"`
	Ineligible int     `json:"ineligible"`
	PassRate   float64 `json:"pass_rate"`
	MeanScore  float64 `json:"mean_score"`
	MinScore   float64 `json:"min_score"`
}

// RunReport is the ordered result set of one battery run plus its audit
// metadata. Results appear in battery declaration order regardless of
// execution order.
type RunReport struct {
	RunID               string           `json:"run_id"`
	SequenceFingerprint string           `json:"sequence_fingerprint"`
	SequenceLength      int              `json:"sequence_length"`
	Significance        float64          `json:"significance"`
	Results             []battery.Result `json:"results"`
	Summary             Summary          `json:"summary"`
	Elapsed             time.Duration    `json:"elapsed"`
	CreatedAt           time.Time        `json:"created_at"`
}

// Runner orchestrates battery runs over a shared cache store.
type Runner struct {
	store  *cache.Store
	logger *internal.Logger
}

// NewRunner creates a runner. The store memoizes whole-test results, keyed by
// (test, sequence, parameters), across invocations.
func NewRunner(store *cache.Store) *Runner {
	return &Runner{store: store, logger: internal.DefaultLogger}
}

// Run executes every test of the given battery subset against the sequence,
// in declaration order. Ineligible tests are recorded, never fatal; any other
// evaluation error aborts the run for this sequence.
func (r *Runner) Run(ctx context.Context, seq *bitstream.Sequence, tests []ports.StatisticalTest, opts Options) (*RunReport, error) {
	if seq == nil || seq.Len() == 0 {
		return nil, core.ErrEmptySequence
	}
	significance := opts.Significance
	if significance == 0 {
		significance = battery.DefaultSignificance
	}

	started := time.Now()
	report := &RunReport{
		RunID:               uuid.NewString(),
		SequenceFingerprint: seq.Fingerprint().String(),
		SequenceLength:      seq.Len(),
		Significance:        significance,
		Results:             make([]battery.Result, 0, len(tests)),
		CreatedAt:           started,
	}

	for _, test := range tests {
		result, err := r.runOne(ctx, seq, test, significance, opts.SkipCache)
		if err != nil {
			return nil, fmt.Errorf("running %s: %w", test.Name(), err)
		}
		report.Results = append(report.Results, result)
		if opts.StopOnFailure && result.Status == battery.StatusFailed {
			r.logger.Info("stopping run after %s failed", result.Name)
			break
		}
	}

	report.Elapsed = time.Since(started)
	report.Summary = summarize(report.Results)
	r.logger.Info("battery run %s: %d/%d eligible tests passed in %s",
		report.RunID, report.Summary.Passed, report.Summary.Eligible, report.Elapsed)
	return report, nil
}

func (r *Runner) runOne(ctx context.Context, seq *bitstream.Sequence, test ports.StatisticalTest, significance float64, skipCache bool) (battery.Result, error) {
	params, err := test.Parameters(seq)
	if core.IsIneligible(err) {
		r.logger.Debug("test %s ineligible: %v", test.Name(), err)
		return battery.Result{
			Name:   test.Name(),
			Status: battery.StatusIneligible,
			Reason: err.Error(),
		}, nil
	}
	if err != nil {
		return battery.Result{}, err
	}

	key := core.ComputeOperationKey("test:"+test.Name(), seq.Fingerprint(), params.Fingerprint())

	if !skipCache {
		if cached, ok := r.store.Get(key); ok {
			outcome := cached.(battery.Outcome)
			result := resultFrom(test.Name(), outcome, significance, 0)
			result.CacheHit = true
			return result, nil
		}
	}

	started := time.Now()
	outcome, err := test.Evaluate(ctx, seq, params)
	if err != nil {
		return battery.Result{}, err
	}
	elapsed := time.Since(started)

	r.store.GetOrCompute(key, func() (interface{}, error) {
		return outcome, nil
	})

	return resultFrom(test.Name(), outcome, significance, elapsed), nil
}

func resultFrom(name string, outcome battery.Outcome, significance float64, elapsed time.Duration) battery.Result {
	return battery.Result{
		Name:      name,
		Status:    battery.Verdict(outcome.Scores, significance),
		Statistic: outcome.Statistic,
		Scores:    outcome.Scores,
		Elapsed:   elapsed,
	}
}

func summarize(results []battery.Result) Summary {
	summary := Summary{}
	meanScores := make([]float64, 0, len(results))
	for _, result := range results {
		switch result.Status {
		case battery.StatusIneligible:
			summary.Ineligible++
			continue
		case battery.StatusPassed:
			summary.Passed++
		case battery.StatusFailed:
			summary.Failed++
		}
		summary.Eligible++
		meanScores = append(meanScores, result.Score())
	}

	if summary.Eligible > 0 {
		summary.PassRate = float64(summary.Passed) / float64(summary.Eligible)
	}
	if len(meanScores) > 0 {
		// Aggregation errors only occur on empty input.
		summary.MeanScore, _ = stats.Mean(meanScores)
		summary.MinScore, _ = stats.Min(meanScores)
	}
	return summary
}
