package sp800

import (
	"context"

	"gonist/domain/battery"
	"gonist/domain/bitstream"
	"gonist/domain/core"
	"gonist/internal/special"
)

// LongestRunOnesTest checks the longest run of ones within M-bit blocks
// against the theoretical class distribution from the standard. An anomaly in
// the longest run of ones also implies one in the longest run of zeroes, so
// only ones are tested.
type LongestRunOnesTest struct{}

// NewLongestRunOnesTest creates the longest run of ones test.
func NewLongestRunOnesTest() *LongestRunOnesTest {
	return &LongestRunOnesTest{}
}

func (t *LongestRunOnesTest) Name() string {
	return NameLongestRunOnes
}

func (t *LongestRunOnesTest) Description() string {
	return "Detects irregular longest runs of ones within fixed-size blocks"
}

func (t *LongestRunOnesTest) MinimumLength() int {
	return 128
}

// longestRunClass holds the tabulated configuration for one block size:
// the run-length class boundaries and their theoretical probabilities.
type longestRunClass struct {
	blockSize     int
	blockCount    int
	freedom       int
	shortestClass int // runs at or below this length share the first class
	probabilities []float64
}

var longestRunClasses = []longestRunClass{
	{blockSize: 8, blockCount: 16, freedom: 3, shortestClass: 1,
		probabilities: []float64{0.2148, 0.3672, 0.2305, 0.1875}},
	{blockSize: 128, blockCount: 49, freedom: 5, shortestClass: 4,
		probabilities: []float64{0.1174, 0.2430, 0.2493, 0.1752, 0.1027, 0.1124}},
	{blockSize: 10000, blockCount: 75, freedom: 6, shortestClass: 10,
		probabilities: []float64{0.0882, 0.2092, 0.2483, 0.1933, 0.1208, 0.0675, 0.0727}},
}

func classFor(n int) longestRunClass {
	if n < 6272 {
		return longestRunClasses[0]
	}
	if n < 750000 {
		return longestRunClasses[1]
	}
	return longestRunClasses[2]
}

func (t *LongestRunOnesTest) Parameters(seq *bitstream.Sequence) (battery.Params, error) {
	n := seq.Len()
	if n < t.MinimumLength() {
		return battery.Params{}, core.NewMinLengthError(t.Name(), t.MinimumLength(), n)
	}
	class := classFor(n)
	return battery.Params{
		BlockSize:      class.blockSize,
		BlockCount:     class.blockCount,
		FreedomDegrees: class.freedom,
	}, nil
}

func (t *LongestRunOnesTest) Evaluate(ctx context.Context, seq *bitstream.Sequence, params battery.Params) (battery.Outcome, error) {
	class := classFor(seq.Len())
	bits := seq.Bits()

	frequencies := make([]float64, class.freedom+1)
	for i := 0; i < class.blockCount; i++ {
		block := bits[i*class.blockSize : (i+1)*class.blockSize]
		longest := 0
		run := 0
		for _, b := range block {
			if b == 1 {
				run++
				if run > longest {
					longest = run
				}
			} else {
				run = 0
			}
		}
		bucket := longest - class.shortestClass
		if bucket < 0 {
			bucket = 0
		}
		if bucket > class.freedom {
			bucket = class.freedom
		}
		frequencies[bucket]++
	}

	chiSquare := 0.0
	for i, observed := range frequencies {
		expected := float64(class.blockCount) * class.probabilities[i]
		deviation := observed - expected
		chiSquare += deviation * deviation / expected
	}

	score := special.GammaQ(float64(class.freedom)/2.0, chiSquare/2.0)
	return battery.Outcome{Statistic: chiSquare, Scores: []float64{score}}, nil
}
