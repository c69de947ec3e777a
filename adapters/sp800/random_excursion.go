package sp800

import (
	"context"
	"fmt"

	"gonist/domain/battery"
	"gonist/domain/bitstream"
	"gonist/domain/core"
	"gonist/internal/cache"
	"gonist/internal/special"
)

// RandomExcursionTest examines, for each state -4..-1 and +1..+4, how many
// random-walk cycles visit the state exactly k times. The observed cycle
// counts are compared against the theoretical visit distribution. One score
// is produced per state.
type RandomExcursionTest struct {
	store *cache.Store
}

const (
	excursionMinLength    = 1000000
	excursionMinCrossings = 500
	excursionMaxVisits    = 5
)

// excursionStates in reporting order.
var excursionStates = []int{-4, -3, -2, -1, 1, 2, 3, 4}

// excursionProbabilities[|x|-1][k] is the probability that state x is visited
// exactly k times within a cycle (last entry: five or more visits).
var excursionProbabilities = [][]float64{
	{0.5, 0.25, 0.125, 0.0625, 0.0312, 0.0312},
	{0.75, 0.0625, 0.0469, 0.0352, 0.0264, 0.0791},
	{0.8333, 0.0278, 0.0231, 0.0193, 0.0161, 0.0804},
	{0.875, 0.0156, 0.0137, 0.012, 0.0105, 0.0733},
}

// NewRandomExcursionTest creates the random excursion test.
func NewRandomExcursionTest(store *cache.Store) *RandomExcursionTest {
	return &RandomExcursionTest{store: store}
}

func (t *RandomExcursionTest) Name() string {
	return NameRandomExcursion
}

func (t *RandomExcursionTest) Description() string {
	return "Detects abnormal per-cycle visit counts to random-walk states"
}

func (t *RandomExcursionTest) MinimumLength() int {
	return excursionMinLength
}

func (t *RandomExcursionTest) Parameters(seq *bitstream.Sequence) (battery.Params, error) {
	return excursionParameters(t.store, t.Name(), seq)
}

// excursionParameters applies the shared eligibility rule for both excursion
// tests: a minimum length plus enough zero crossings for the cycle-level
// statistics to be meaningful.
func excursionParameters(store *cache.Store, name string, seq *bitstream.Sequence) (battery.Params, error) {
	if seq.Len() < excursionMinLength {
		return battery.Params{}, core.NewMinLengthError(name, excursionMinLength, seq.Len())
	}
	walk, err := walkOf(store, seq)
	if err != nil {
		return battery.Params{}, err
	}
	if walk.crossings < excursionMinCrossings {
		return battery.Params{}, core.NewDegenerateParamsError(name,
			fmt.Sprintf("random walk crosses zero %d times, need at least %d", walk.crossings, excursionMinCrossings))
	}
	return battery.Params{}, nil
}

func (t *RandomExcursionTest) Evaluate(ctx context.Context, seq *bitstream.Sequence, params battery.Params) (battery.Outcome, error) {
	walk, err := walkOf(t.store, seq)
	if err != nil {
		return battery.Outcome{}, err
	}

	// frequencies[state][k]: cycles in which the state is visited exactly
	// k times, with the final bucket absorbing five or more visits.
	frequencies := make(map[int][]float64, len(excursionStates))
	visits := make(map[int]int, len(excursionStates))
	for _, state := range excursionStates {
		frequencies[state] = make([]float64, excursionMaxVisits+1)
	}

	closeCycle := func() {
		for _, state := range excursionStates {
			k := visits[state]
			if k > excursionMaxVisits {
				k = excursionMaxVisits
			}
			frequencies[state][k]++
			visits[state] = 0
		}
	}

	for _, s := range walk.partials {
		if s == 0 {
			closeCycle()
			continue
		}
		if s >= -4 && s <= 4 {
			visits[s]++
		}
	}
	if walk.partials[len(walk.partials)-1] != 0 {
		// The appended terminal zero closes the last cycle.
		closeCycle()
	}

	cycles := float64(walk.crossings)
	scores := make([]float64, len(excursionStates))
	maxChi := 0.0
	for i, state := range excursionStates {
		probabilities := excursionProbabilities[abs(state)-1]
		chiSquare := 0.0
		for k, observed := range frequencies[state] {
			expected := cycles * probabilities[k]
			deviation := observed - expected
			chiSquare += deviation * deviation / expected
		}
		if chiSquare > maxChi {
			maxChi = chiSquare
		}
		scores[i] = special.GammaQ(float64(excursionMaxVisits)/2.0, chiSquare/2.0)
	}

	return battery.Outcome{Statistic: maxChi, Scores: scores}, nil
}
