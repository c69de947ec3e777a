package sp800

import (
	"context"
	"math"

	"gonist/domain/battery"
	"gonist/domain/bitstream"
	"gonist/internal/cache"
	"gonist/internal/special"
)

// RandomExcursionVariantTest examines the total number of visits to each
// random-walk state -9..-1 and +1..+9 across the whole walk, scoring the
// deviation from the number of cycles. One score is produced per state.
type RandomExcursionVariantTest struct {
	store *cache.Store
}

const variantStateBound = 9

// NewRandomExcursionVariantTest creates the random excursion variant test.
func NewRandomExcursionVariantTest(store *cache.Store) *RandomExcursionVariantTest {
	return &RandomExcursionVariantTest{store: store}
}

func (t *RandomExcursionVariantTest) Name() string {
	return NameRandomExcursionVariant
}

func (t *RandomExcursionVariantTest) Description() string {
	return "Detects abnormal total visit counts to random-walk states"
}

func (t *RandomExcursionVariantTest) MinimumLength() int {
	return excursionMinLength
}

func (t *RandomExcursionVariantTest) Parameters(seq *bitstream.Sequence) (battery.Params, error) {
	return excursionParameters(t.store, t.Name(), seq)
}

func (t *RandomExcursionVariantTest) Evaluate(ctx context.Context, seq *bitstream.Sequence, params battery.Params) (battery.Outcome, error) {
	walk, err := walkOf(t.store, seq)
	if err != nil {
		return battery.Outcome{}, err
	}

	// visits[state + variantStateBound] counts occurrences of the state
	// across the walk.
	visits := make([]float64, 2*variantStateBound+1)
	for _, s := range walk.partials {
		if s >= -variantStateBound && s <= variantStateBound {
			visits[s+variantStateBound]++
		}
	}

	j := float64(walk.crossings)
	scores := make([]float64, 0, 2*variantStateBound)
	maxDeviation := 0.0
	for state := -variantStateBound; state <= variantStateBound; state++ {
		if state == 0 {
			continue
		}
		observed := visits[state+variantStateBound]
		deviation := math.Abs(observed - j)
		if deviation > maxDeviation {
			maxDeviation = deviation
		}
		denominator := math.Sqrt(2.0 * j * (4.0*math.Abs(float64(state)) - 2.0))
		scores = append(scores, special.Erfc(deviation/denominator))
	}

	return battery.Outcome{Statistic: maxDeviation, Scores: scores}, nil
}
