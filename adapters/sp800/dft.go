package sp800

import (
	"context"
	"math"
	"math/cmplx"

	"gonum.org/v1/gonum/dsp/fourier"

	"gonist/domain/battery"
	"gonist/domain/bitstream"
	"gonist/domain/core"
	"gonist/internal/cache"
	"gonist/internal/special"
)

// DiscreteFourierTest detects periodic features in the sequence. The ±1
// representation is transformed with a real FFT and the number of magnitude
// peaks below the 95% threshold is compared against the expected count.
type DiscreteFourierTest struct {
	store *cache.Store
}

// NewDiscreteFourierTest creates the spectral test. The store memoizes the
// magnitude array, the dominant cost for long sequences.
func NewDiscreteFourierTest(store *cache.Store) *DiscreteFourierTest {
	return &DiscreteFourierTest{store: store}
}

func (t *DiscreteFourierTest) Name() string {
	return NameDiscreteFourier
}

func (t *DiscreteFourierTest) Description() string {
	return "Detects periodic features via peaks in the discrete Fourier transform"
}

func (t *DiscreteFourierTest) MinimumLength() int {
	return 1000
}

func (t *DiscreteFourierTest) Parameters(seq *bitstream.Sequence) (battery.Params, error) {
	n := seq.Len()
	if n < t.MinimumLength() {
		return battery.Params{}, core.NewMinLengthError(t.Name(), t.MinimumLength(), n)
	}
	// The transform needs an even number of points; an odd trailing bit is
	// dropped.
	return battery.Params{BlockSize: n - n%2}, nil
}

func (t *DiscreteFourierTest) Evaluate(ctx context.Context, seq *bitstream.Sequence, params battery.Params) (battery.Outcome, error) {
	n := params.BlockSize

	magnitudes, err := t.magnitudes(seq, n)
	if err != nil {
		return battery.Outcome{}, err
	}

	threshold := math.Sqrt(math.Log(1.0/0.05) * float64(n))
	expectedPeaks := 0.95 * float64(n) / 2.0
	countedPeaks := 0.0
	for _, m := range magnitudes {
		if m < threshold {
			countedPeaks++
		}
	}

	normalized := (countedPeaks - expectedPeaks) / math.Sqrt(float64(n)*0.95*0.05/4.0)
	score := special.Erfc(math.Abs(normalized) / math.Sqrt2)

	return battery.Outcome{Statistic: normalized, Scores: []float64{score}}, nil
}

// magnitudes returns the first n/2 DFT magnitudes of the ±1 sequence,
// memoized per (sequence, truncated length).
func (t *DiscreteFourierTest) magnitudes(seq *bitstream.Sequence, n int) ([]float64, error) {
	key := core.ComputeOperationKey("dft_magnitudes", seq.Fingerprint(),
		core.ComputeParamsFingerprint(map[string]int{"length": n}))
	value, err := t.store.GetOrCompute(key, func() (interface{}, error) {
		signed := seq.Signed()
		samples := make([]float64, n)
		for i := 0; i < n; i++ {
			samples[i] = float64(signed[i])
		}

		fft := fourier.NewFFT(n)
		coefficients := fft.Coefficients(nil, samples)

		magnitudes := make([]float64, n/2)
		for i := range magnitudes {
			magnitudes[i] = cmplx.Abs(coefficients[i])
		}
		return magnitudes, nil
	})
	if err != nil {
		return nil, err
	}
	return value.([]float64), nil
}
