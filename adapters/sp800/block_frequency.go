package sp800

import (
	"context"

	"gonist/domain/battery"
	"gonist/domain/bitstream"
	"gonist/domain/core"
	"gonist/internal/special"
)

// FrequencyWithinBlockTest checks the proportion of ones inside M-bit blocks
// against the expected M/2. With M=1 it degenerates to the monobit test, so
// the block size is derived to keep a useful number of non-trivial blocks.
type FrequencyWithinBlockTest struct{}

// NewFrequencyWithinBlockTest creates the block frequency test.
func NewFrequencyWithinBlockTest() *FrequencyWithinBlockTest {
	return &FrequencyWithinBlockTest{}
}

func (t *FrequencyWithinBlockTest) Name() string {
	return NameFrequencyWithinBlock
}

func (t *FrequencyWithinBlockTest) Description() string {
	return "Detects localized bias in the proportion of ones within fixed-size blocks"
}

func (t *FrequencyWithinBlockTest) MinimumLength() int {
	return 100
}

const (
	blockFrequencyDefaultBlockSize = 20
	blockFrequencyMaxBlocks        = 100
)

func (t *FrequencyWithinBlockTest) Parameters(seq *bitstream.Sequence) (battery.Params, error) {
	n := seq.Len()
	if n < t.MinimumLength() {
		return battery.Params{}, core.NewMinLengthError(t.Name(), t.MinimumLength(), n)
	}

	// Start from the default block size and grow it when the block count
	// would exceed the cap, trading block count for statistical power.
	blockSize := blockFrequencyDefaultBlockSize
	blockCount := n / blockSize
	if blockCount >= blockFrequencyMaxBlocks {
		blockCount = blockFrequencyMaxBlocks - 1
		blockSize = n / blockCount
	}
	if blockCount == 0 {
		return battery.Params{}, core.NewDegenerateParamsError(t.Name(), "zero blocks")
	}
	return battery.Params{BlockSize: blockSize, BlockCount: blockCount}, nil
}

func (t *FrequencyWithinBlockTest) Evaluate(ctx context.Context, seq *bitstream.Sequence, params battery.Params) (battery.Outcome, error) {
	bits := seq.Bits()
	chiSquare := 0.0
	for i := 0; i < params.BlockCount; i++ {
		block := bits[i*params.BlockSize : (i+1)*params.BlockSize]
		ones := 0
		for _, b := range block {
			ones += int(b)
		}
		fraction := float64(ones) / float64(params.BlockSize)
		deviation := fraction - 0.5
		chiSquare += 4.0 * float64(params.BlockSize) * deviation * deviation
	}

	score := special.GammaQ(float64(params.BlockCount)/2.0, chiSquare/2.0)
	return battery.Outcome{Statistic: chiSquare, Scores: []float64{score}}, nil
}
