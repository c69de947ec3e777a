package sp800

import (
	"context"
	"math"

	"gonist/domain/battery"
	"gonist/domain/bitstream"
	"gonist/domain/core"
	"gonist/internal/special"
)

// SerialTest checks the frequency of every overlapping m-bit pattern across
// the sequence. Random sequences are uniform: every pattern should appear
// about as often as every other. Two scores are produced, one for the first
// and one for the second generalized difference of the psi-square statistic.
type SerialTest struct{}

const serialPatternLength = 4

// NewSerialTest creates the serial test.
func NewSerialTest() *SerialTest {
	return &SerialTest{}
}

func (t *SerialTest) Name() string {
	return NameSerial
}

func (t *SerialTest) Description() string {
	return "Detects non-uniform frequencies of overlapping m-bit patterns"
}

func (t *SerialTest) MinimumLength() int {
	return 100
}

func (t *SerialTest) Parameters(seq *bitstream.Sequence) (battery.Params, error) {
	n := seq.Len()
	if n < t.MinimumLength() {
		return battery.Params{}, core.NewMinLengthError(t.Name(), t.MinimumLength(), n)
	}
	if int(math.Floor(math.Log2(float64(n))))-2 < serialPatternLength {
		return battery.Params{}, core.NewDegenerateParamsError(t.Name(), "sequence too short for the pattern length")
	}
	return battery.Params{PatternLength: serialPatternLength}, nil
}

func (t *SerialTest) Evaluate(ctx context.Context, seq *bitstream.Sequence, params battery.Params) (battery.Outcome, error) {
	m := params.PatternLength

	psiM0 := psiSquare(seq, m)
	psiM1 := psiSquare(seq, m-1)
	psiM2 := psiSquare(seq, m-2)

	delta1 := psiM0 - psiM1
	delta2 := psiM0 - 2.0*psiM1 + psiM2

	score1 := special.GammaQ(math.Pow(2.0, float64(m-2)), delta1/2.0)
	score2 := special.GammaQ(math.Pow(2.0, float64(m-3)), delta2/2.0)

	return battery.Outcome{Statistic: delta1, Scores: []float64{score1, score2}}, nil
}

// psiSquare computes the psi-square statistic over all overlapping
// blockSize-bit patterns, treating the sequence as circular.
func psiSquare(seq *bitstream.Sequence, blockSize int) float64 {
	if blockSize <= 0 {
		return 0.0
	}
	n := seq.Len()
	bits := seq.Bits()

	counts := make([]int, 1<<uint(blockSize))
	mask := (1 << uint(blockSize)) - 1
	pattern := 0
	// Seed the rolling pattern with the first blockSize-1 bits.
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
		sum += float64(c) * float64(c)
	}
	return sum*math.Pow(2.0, float64(blockSize))/float64(n) - float64(n)
}
