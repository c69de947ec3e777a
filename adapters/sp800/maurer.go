package sp800

import (
	"context"
	"math"

	"gonist/domain/battery"
	"gonist/domain/bitstream"
	"gonist/domain/core"
	"gonist/internal/special"
)

// MaurersUniversalTest measures the number of bits between matching L-bit
// patterns, a proxy for compressibility. A sequence that compresses
// significantly is not random.
type MaurersUniversalTest struct{}

const maurerMinLength = 387840

// Thresholds at which the pattern length grows beyond the default of 6.
var maurerThresholds = []int{
	904960, 2068480, 4654080, 10342400, 22753280,
	49643520, 107560960, 231669760, 496435200, 1059061760,
}

// Expected statistic value and variance per pattern length, from Maurer's
// reference tables.
var (
	maurerExpected = []float64{
		0, 0.73264948, 1.5374383, 2.40160681, 3.31122472, 4.25342659,
		5.2177052, 6.1962507, 7.1836656, 8.1764248, 9.1723243,
		10.170032, 11.168765, 12.168070, 13.167693, 14.167488, 15.167379,
	}
	maurerVariance = []float64{
		0, 0.690, 1.338, 1.901, 2.358, 2.705, 2.954, 3.125,
		3.238, 3.311, 3.356, 3.384, 3.401, 3.410, 3.416, 3.419, 3.421,
	}
)

// NewMaurersUniversalTest creates Maurer's universal statistical test.
func NewMaurersUniversalTest() *MaurersUniversalTest {
	return &MaurersUniversalTest{}
}

func (t *MaurersUniversalTest) Name() string {
	return NameMaurersUniversal
}

func (t *MaurersUniversalTest) Description() string {
	return "Detects compressibility via distances between matching patterns"
}

func (t *MaurersUniversalTest) MinimumLength() int {
	return maurerMinLength
}

func (t *MaurersUniversalTest) Parameters(seq *bitstream.Sequence) (battery.Params, error) {
	n := seq.Len()
	if n < t.MinimumLength() {
		return battery.Params{}, core.NewMinLengthError(t.Name(), t.MinimumLength(), n)
	}

	patternLength := 6
	for _, threshold := range maurerThresholds {
		if n >= threshold {
			patternLength++
		}
	}
	blocks := n / patternLength
	initBlocks := 10 * (1 << uint(patternLength))
	testBlocks := blocks - initBlocks
	if testBlocks <= 0 {
		return battery.Params{}, core.NewDegenerateParamsError(t.Name(), "no blocks left after initialization segment")
	}
	return battery.Params{
		PatternLength: patternLength,
		BlockCount:    blocks,
		InitBlocks:    initBlocks,
		TestBlocks:    testBlocks,
	}, nil
}

func (t *MaurersUniversalTest) Evaluate(ctx context.Context, seq *bitstream.Sequence, params battery.Params) (battery.Outcome, error) {
	bits := seq.Bits()
	patternLength := params.PatternLength

	// Last-seen table over all 2^L patterns, positions numbered from 1.
	table := make([]int, 1<<uint(patternLength))
	for i := 0; i < params.InitBlocks; i++ {
		pattern := patternToInt(bits[i*patternLength : (i+1)*patternLength])
		table[pattern] = i + 1
	}

	sum := 0.0
	for i := params.InitBlocks; i < params.BlockCount; i++ {
		pattern := patternToInt(bits[i*patternLength : (i+1)*patternLength])
		distance := i + 1 - table[pattern]
		table[pattern] = i + 1
		sum += math.Log2(float64(distance))
	}

	fn := sum / float64(params.TestBlocks)

	// Finite-sample correction to the asymptotic standard deviation.
	l := float64(patternLength)
	k := float64(params.TestBlocks)
	c := 0.7 - 0.8/l + (4.0+32.0/l)*math.Pow(k, -3.0/l)/15.0
	sigma := c * math.Sqrt(maurerVariance[patternLength]/k)

	statistic := math.Abs(fn-maurerExpected[patternLength]) / sigma
	score := special.Erfc(statistic / math.Sqrt2)

	return battery.Outcome{Statistic: fn, Scores: []float64{score}}, nil
}

func patternToInt(pattern []uint8) int {
	result := 0
	for _, bit := range pattern {
		result = (result << 1) | int(bit)
	}
	return result
}
