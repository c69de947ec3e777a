package sp800

import (
	"context"
	"fmt"
	"math"

	"gonist/domain/battery"
	"gonist/domain/bitstream"
	"gonist/domain/core"
	"gonist/internal/special"
)

// RunsTest checks the total number of runs, an uninterrupted group of
// identical bits, against the count expected for a random sequence with the
// observed proportion of ones. Too many runs means the sequence oscillates
// too fast, too few means it oscillates too slowly.
type RunsTest struct{}

// NewRunsTest creates the runs test.
func NewRunsTest() *RunsTest {
	return &RunsTest{}
}

func (t *RunsTest) Name() string {
	return NameRuns
}

func (t *RunsTest) Description() string {
	return "Detects oscillation between zeroes and ones that is too fast or too slow"
}

func (t *RunsTest) MinimumLength() int {
	return 100
}

func (t *RunsTest) Parameters(seq *bitstream.Sequence) (battery.Params, error) {
	n := seq.Len()
	if n < t.MinimumLength() {
		return battery.Params{}, core.NewMinLengthError(t.Name(), t.MinimumLength(), n)
	}
	// The runs statistic is only meaningful when the sequence already
	// passes the frequency precondition from the standard.
	proportion := seq.Proportion()
	tau := 2.0 / math.Sqrt(float64(n))
	if math.Abs(proportion-0.5) > tau {
		return battery.Params{}, core.NewDegenerateParamsError(t.Name(),
			fmt.Sprintf("proportion of ones %.4f deviates from 0.5 by more than %.4f", proportion, tau))
	}
	return battery.Params{}, nil
}

func (t *RunsTest) Evaluate(ctx context.Context, seq *bitstream.Sequence, params battery.Params) (battery.Outcome, error) {
	n := float64(seq.Len())
	proportion := seq.Proportion()
	observed := float64(seq.Runs())

	expected := 2.0 * n * proportion * (1.0 - proportion)
	statistic := math.Abs(observed - expected)
	score := special.Erfc(statistic / (2.0 * math.Sqrt(2.0*n) * proportion * (1.0 - proportion)))

	return battery.Outcome{Statistic: observed, Scores: []float64{score}}, nil
}
