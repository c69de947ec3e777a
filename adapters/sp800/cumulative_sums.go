package sp800

import (
	"context"
	"math"

	"gonist/domain/battery"
	"gonist/domain/bitstream"
	"gonist/domain/core"
	"gonist/internal/cache"
	"gonist/internal/special"
)

// CumulativeSumsTest models the sequence as a random walk and scores the
// maximal excursion from zero, forward and reverse. For non-random sequences
// the walk strays too far from the origin.
type CumulativeSumsTest struct {
	store *cache.Store
}

// NewCumulativeSumsTest creates the cumulative sums test.
func NewCumulativeSumsTest(store *cache.Store) *CumulativeSumsTest {
	return &CumulativeSumsTest{store: store}
}

func (t *CumulativeSumsTest) Name() string {
	return NameCumulativeSums
}

func (t *CumulativeSumsTest) Description() string {
	return "Detects excessive random-walk excursions of the cumulative sum"
}

func (t *CumulativeSumsTest) MinimumLength() int {
	return 100
}

func (t *CumulativeSumsTest) Parameters(seq *bitstream.Sequence) (battery.Params, error) {
	if seq.Len() < t.MinimumLength() {
		return battery.Params{}, core.NewMinLengthError(t.Name(), t.MinimumLength(), seq.Len())
	}
	return battery.Params{}, nil
}

func (t *CumulativeSumsTest) Evaluate(ctx context.Context, seq *bitstream.Sequence, params battery.Params) (battery.Outcome, error) {
	walk, err := walkOf(t.store, seq)
	if err != nil {
		return battery.Outcome{}, err
	}

	n := seq.Len()
	forward := walk.maxExcursion()
	reverse := walk.maxReverseExcursion()

	forwardScore := cusumScore(n, forward)
	reverseScore := cusumScore(n, reverse)

	return battery.Outcome{
		Statistic: float64(forward),
		Scores:    []float64{forwardScore, reverseScore},
	}, nil
}

// cusumScore converts a maximal excursion z into a probability via the
// normal-tail sums from the standard.
func cusumScore(sequenceSize, maxExcursion int) float64 {
	n := float64(sequenceSize)
	z := float64(maxExcursion)
	root := math.Sqrt(n)

	sumA := 0.0
	startK := int(math.Floor((-n/z + 1.0) / 4.0))
	endK := int(math.Floor((n/z - 1.0) / 4.0))
	for k := startK; k <= endK; k++ {
		upper := special.NormalCDF((4.0*float64(k) + 1.0) * z / root)
		lower := special.NormalCDF((4.0*float64(k) - 1.0) * z / root)
		sumA += upper - lower
	}

	sumB := 0.0
	startK = int(math.Floor((-n/z - 3.0) / 4.0))
	for k := startK; k <= endK; k++ {
		upper := special.NormalCDF((4.0*float64(k) + 3.0) * z / root)
		lower := special.NormalCDF((4.0*float64(k) + 1.0) * z / root)
		sumB += upper - lower
	}

	return special.Clamp01(1.0 - sumA + sumB)
}
