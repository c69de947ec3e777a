package sp800

import (
	"gonist/domain/bitstream"
	"gonist/domain/core"
	"gonist/internal/cache"
)

// randomWalk holds the cumulative sums of the ±1 sequence together with the
// number of zero crossings of the padded walk. It is shared by the cumulative
// sums test and both random excursion tests, so it is memoized per sequence.
type randomWalk struct {
	partials  []int // S_1..S_n
	crossings int   // J: zero crossings of (0, S_1..S_n, 0)
}

func walkOf(store *cache.Store, seq *bitstream.Sequence) (*randomWalk, error) {
	key := core.ComputeOperationKey("random_walk", seq.Fingerprint(), core.Hash(""))
	value, err := store.GetOrCompute(key, func() (interface{}, error) {
		signed := seq.Signed()
		partials := make([]int, len(signed))
		sum := 0
		for i, step := range signed {
			sum += int(step)
			partials[i] = sum
		}

		// The padded walk always returns to zero at the end, either at
		// S_n itself or via the appended terminal zero.
		crossings := 1
		for i := 0; i < len(partials)-1; i++ {
			if partials[i] == 0 {
				crossings++
			}
		}
		return &randomWalk{partials: partials, crossings: crossings}, nil
	})
	if err != nil {
		return nil, err
	}
	return value.(*randomWalk), nil
}

// maxExcursion returns the largest absolute forward excursion.
func (w *randomWalk) maxExcursion() int {
	largest := 0
	for _, s := range w.partials {
		if abs(s) > largest {
			largest = abs(s)
		}
	}
	return largest
}

// maxReverseExcursion returns the largest absolute excursion of the walk
// taken from the end of the sequence, derived from the forward partial sums.
func (w *randomWalk) maxReverseExcursion() int {
	final := w.partials[len(w.partials)-1]
	largest := abs(final)
	for _, s := range w.partials[:len(w.partials)-1] {
		if abs(final-s) > largest {
			largest = abs(final - s)
		}
	}
	return largest
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
