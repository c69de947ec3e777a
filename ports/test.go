package ports

import (
	"context"

	"gonist/domain/battery"
	"gonist/domain/bitstream"
)

// StatisticalTest is the uniform capability every test in the battery
// implements. Implementations are stateless, constructed once and shared
// read-only across invocations.
type StatisticalTest interface {
	// Name identifies the test in results and cache keys.
	Name() string

	// Description explains what deviation from randomness the test detects.
	Description() string

	// MinimumLength is the smallest sequence length the test can run on.
	MinimumLength() int

	// Parameters derives the test's block/template configuration for the
	// given sequence, or returns an error wrapping core.ErrIneligible when
	// the sequence cannot support a valid configuration.
	Parameters(seq *bitstream.Sequence) (battery.Params, error)

	// Evaluate runs the test and returns the observed statistic with one
	// score per sub-statistic. It must only be called with parameters
	// produced by Parameters for the same sequence.
	Evaluate(ctx context.Context, seq *bitstream.Sequence, params battery.Params) (battery.Outcome, error)
}

// ResultLedger persists battery results for benchmarking history. The core
// runner does not require one; cmd wires an implementation when configured.
type ResultLedger interface {
	SaveRun(ctx context.Context, runID string, sequenceFingerprint string, results []battery.Result) error
}
