package sp800

import (
	"context"
	"math"

	"gonist/domain/battery"
	"gonist/domain/bitstream"
	"gonist/domain/core"
	"gonist/internal/special"
)

// LinearComplexityTest estimates, per block, the length of the shortest
// linear feedback shift register reproducing the block (via the
// Berlekamp-Massey reconstruction) and compares the distribution of those
// lengths around the theoretical mean against fixed class probabilities.
type LinearComplexityTest struct {
	mu float64
}

const (
	linearComplexityMinLength = 1000000
	linearComplexityBlockSize = 512
	linearComplexityFreedom   = 6
)

var linearComplexityProbabilities = []float64{
	0.010417, 0.03125, 0.125, 0.5, 0.25, 0.0625, 0.020833,
}

// NewLinearComplexityTest creates the linear complexity test.
func NewLinearComplexityTest() *LinearComplexityTest {
	m := float64(linearComplexityBlockSize)
	sign := math.Pow(-1.0, m+1.0)
	mu := m/2.0 + (sign+9.0)/36.0 - (m/3.0+2.0/9.0)/math.Pow(2.0, m)
	return &LinearComplexityTest{mu: mu}
}

func (t *LinearComplexityTest) Name() string {
	return NameLinearComplexity
}

func (t *LinearComplexityTest) Description() string {
	return "Detects sequences reproducible by a short linear feedback shift register"
}

func (t *LinearComplexityTest) MinimumLength() int {
	return linearComplexityMinLength
}

func (t *LinearComplexityTest) Parameters(seq *bitstream.Sequence) (battery.Params, error) {
	n := seq.Len()
	if n < t.MinimumLength() {
		return battery.Params{}, core.NewMinLengthError(t.Name(), t.MinimumLength(), n)
	}
	blockCount := n / linearComplexityBlockSize
	if blockCount == 0 {
		return battery.Params{}, core.NewDegenerateParamsError(t.Name(), "zero blocks")
	}
	return battery.Params{
		BlockSize:      linearComplexityBlockSize,
		BlockCount:     blockCount,
		FreedomDegrees: linearComplexityFreedom,
	}, nil
}

func (t *LinearComplexityTest) Evaluate(ctx context.Context, seq *bitstream.Sequence, params battery.Params) (battery.Outcome, error) {
	bits := seq.Bits()
	sign := math.Pow(-1.0, float64(params.BlockSize))

	frequencies := make([]float64, linearComplexityFreedom+1)
	for i := 0; i < params.BlockCount; i++ {
		block := bits[i*params.BlockSize : (i+1)*params.BlockSize]
		complexity := berlekampMassey(block)
		ticket := sign*(float64(complexity)-t.mu) + 2.0/9.0
		frequencies[ticketClass(ticket)]++
	}

	chiSquare := 0.0
	for i, observed := range frequencies {
		expected := float64(params.BlockCount) * linearComplexityProbabilities[i]
		deviation := observed - expected
		chiSquare += deviation * deviation / expected
	}

	score := special.GammaQ(float64(linearComplexityFreedom)/2.0, chiSquare/2.0)
	return battery.Outcome{Statistic: chiSquare, Scores: []float64{score}}, nil
}

// ticketClass buckets a deviation ticket into the seven chi-square classes
// (<= -2.5, six half-open unit intervals, > 2.5).
func ticketClass(ticket float64) int {
	if ticket <= -2.5 {
		return 0
	}
	if ticket > 2.5 {
		return linearComplexityFreedom
	}
	return int(math.Ceil(ticket + 2.5))
}

// berlekampMassey returns the linear complexity of the block: the length of
// the shortest LFSR generating it.
func berlekampMassey(sequence []uint8) int {
	n := len(sequence)
	b := make([]uint8, n)
	c := make([]uint8, n)
	b[0] = 1
	c[0] = 1

	length := 0
	m := -1
	for i := 0; i < n; i++ {
		discrepancy := sequence[i]
		for j := 1; j <= length; j++ {
			discrepancy ^= c[j] & sequence[i-j]
		}
		if discrepancy != 0 {
			previous := make([]uint8, n)
			copy(previous, c)
			for j := 0; j+i-m < n; j++ {
				c[i-m+j] ^= b[j]
			}
			if length <= i/2 {
				length = i + 1 - length
				m = i
				b = previous
			}
		}
	}
	return length
}
