package sp800

import (
	"context"
	"math"

	"gonist/domain/battery"
	"gonist/domain/bitstream"
	"gonist/domain/core"
	"gonist/internal/special"
)

// ApproximateEntropyTest compares the frequency of overlapping blocks of two
// adjacent lengths (m and m+1). A random sequence shows maximal irregularity:
// the entropy difference between the two lengths approaches ln 2.
type ApproximateEntropyTest struct{}

// NewApproximateEntropyTest creates the approximate entropy test.
func NewApproximateEntropyTest() *ApproximateEntropyTest {
	return &ApproximateEntropyTest{}
}

func (t *ApproximateEntropyTest) Name() string {
	return NameApproximateEntropy
}

func (t *ApproximateEntropyTest) Description() string {
	return "Detects regularity via the entropy gap between adjacent pattern lengths"
}

func (t *ApproximateEntropyTest) MinimumLength() int {
	return 100
}

func (t *ApproximateEntropyTest) Parameters(seq *bitstream.Sequence) (battery.Params, error) {
	n := seq.Len()
	if n < t.MinimumLength() {
		return battery.Params{}, core.NewMinLengthError(t.Name(), t.MinimumLength(), n)
	}
	// Keep 2^(m+1) pattern space small relative to n.
	m := int(math.Floor(math.Log2(float64(n)))) - 6
	if m < 2 {
		m = 2
	}
	if m > 3 {
		m = 3
	}
	return battery.Params{PatternLength: m}, nil
}

func (t *ApproximateEntropyTest) Evaluate(ctx context.Context, seq *bitstream.Sequence, params battery.Params) (battery.Outcome, error) {
	n := float64(seq.Len())
	m := params.PatternLength

	apen := phi(seq, m) - phi(seq, m+1)
	chiSquare := 2.0 * n * (math.Ln2 - apen)

	score := special.GammaQ(math.Pow(2.0, float64(m-1)), chiSquare/2.0)
	return battery.Outcome{Statistic: chiSquare, Scores: []float64{score}}, nil
}

// phi computes the entropy-like statistic over all overlapping blockSize-bit
// patterns, treating the sequence as circular.
func phi(seq *bitstream.Sequence, blockSize int) float64 {
	n := seq.Len()
	bits := seq.Bits()

	counts := make([]int, 1<<uint(blockSize))
	mask := (1 << uint(blockSize)) - 1
	pattern := 0
	for i := 0; i < blockSize-1; i++ {
		pattern = (pattern << 1) | int(bits[i])
	}
	for i := 0; i < n; i++ {
		next := bits[(i+blockSize-1)%n]
		pattern = ((pattern << 1) | int(next)) & mask
		counts[pattern]++
	}

	sum := 0.0
	for _, c := range counts {
		if c > 0 {
			fraction := float64(c) / float64(n)
			sum += fraction * math.Log(fraction)
		}
	}
	return sum
}
