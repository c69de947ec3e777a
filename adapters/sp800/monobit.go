package sp800

import (
	"context"
	"math"

	"gonist/domain/battery"
	"gonist/domain/bitstream"
	"gonist/domain/core"
	"gonist/internal/special"
)

// MonobitTest checks the balance of ones and zeroes across the whole
// sequence. For a truly random sequence the counts should be close, so the
// normalized difference follows a half-normal distribution.
type MonobitTest struct{}

// NewMonobitTest creates the frequency (monobit) test.
func NewMonobitTest() *MonobitTest {
	return &MonobitTest{}
}

func (t *MonobitTest) Name() string {
	return NameMonobit
}

func (t *MonobitTest) Description() string {
	return "Detects global imbalance between the number of ones and zeroes"
}

func (t *MonobitTest) MinimumLength() int {
	return 100
}

func (t *MonobitTest) Parameters(seq *bitstream.Sequence) (battery.Params, error) {
	if seq.Len() < t.MinimumLength() {
		return battery.Params{}, core.NewMinLengthError(t.Name(), t.MinimumLength(), seq.Len())
	}
	return battery.Params{}, nil
}

func (t *MonobitTest) Evaluate(ctx context.Context, seq *bitstream.Sequence, params battery.Params) (battery.Outcome, error) {
	n := seq.Len()
	ones := seq.Ones()
	zeroes := n - ones

	difference := math.Abs(float64(ones - zeroes))
	statistic := difference / math.Sqrt(float64(n))
	score := special.Erfc(statistic / math.Sqrt2)

	return battery.Outcome{Statistic: statistic, Scores: []float64{score}}, nil
}
