package sp800

import (
	"context"
	"math"

	"gonist/domain/battery"
	"gonist/domain/bitstream"
	"gonist/domain/core"
	"gonist/internal/special"
)

// OverlappingTemplateTest counts occurrences of an all-ones template where
// the search window slides a single bit after a match, so occurrences may
// overlap. The distribution of per-block counts is compared against the
// theoretical class probabilities.
type OverlappingTemplateTest struct{}

const (
	overlappingTemplateLength = 10
	overlappingBlockSize      = 1062
	overlappingBlockCount     = 968
	overlappingFreedom        = 5
)

// NewOverlappingTemplateTest creates the overlapping template matching test.
func NewOverlappingTemplateTest() *OverlappingTemplateTest {
	return &OverlappingTemplateTest{}
}

func (t *OverlappingTemplateTest) Name() string {
	return NameOverlappingTemplate
}

func (t *OverlappingTemplateTest) Description() string {
	return "Detects clustering of overlapping occurrences of an all-ones pattern"
}

func (t *OverlappingTemplateTest) MinimumLength() int {
	return overlappingBlockSize * overlappingBlockCount
}

func (t *OverlappingTemplateTest) Parameters(seq *bitstream.Sequence) (battery.Params, error) {
	n := seq.Len()
	if n < t.MinimumLength() {
		return battery.Params{}, core.NewMinLengthError(t.Name(), t.MinimumLength(), n)
	}
	return battery.Params{
		BlockSize:      overlappingBlockSize,
		BlockCount:     overlappingBlockCount,
		PatternLength:  overlappingTemplateLength,
		FreedomDegrees: overlappingFreedom,
	}, nil
}

func (t *OverlappingTemplateTest) Evaluate(ctx context.Context, seq *bitstream.Sequence, params battery.Params) (battery.Outcome, error) {
	bits := seq.Bits()

	distribution := make([]float64, overlappingFreedom+1)
	for i := 0; i < overlappingBlockCount; i++ {
		block := bits[i*overlappingBlockSize : (i+1)*overlappingBlockSize]
		count := 0
		for position := 0; position <= overlappingBlockSize-overlappingTemplateLength; position++ {
			if allOnesAt(block, position, overlappingTemplateLength) {
				count++
			}
		}
		if count > overlappingFreedom {
			count = overlappingFreedom
		}
		distribution[count]++
	}

	eta := (float64(overlappingBlockSize) - float64(overlappingTemplateLength) + 1.0) /
		math.Pow(2.0, float64(overlappingTemplateLength)) / 2.0
	probabilities := overlappingProbabilities(overlappingFreedom, eta)

	chiSquare := 0.0
	for i, observed := range distribution {
		expected := float64(overlappingBlockCount) * probabilities[i]
		deviation := observed - expected
		chiSquare += deviation * deviation / expected
	}

	score := special.GammaQ(float64(overlappingFreedom)/2.0, chiSquare/2.0)
	return battery.Outcome{Statistic: chiSquare, Scores: []float64{score}}, nil
}

func allOnesAt(block []uint8, position, length int) bool {
	for j := 0; j < length; j++ {
		if block[position+j] != 1 {
			return false
		}
	}
	return true
}

// overlappingProbabilities computes the class probabilities pi_0..pi_K with
// the final class absorbing the residual mass.
func overlappingProbabilities(freedom int, eta float64) []float64 {
	probabilities := make([]float64, freedom+1)
	total := 0.0
	for u := 0; u < freedom; u++ {
		probabilities[u] = overlappingClassProbability(u, eta)
		total += probabilities[u]
	}
	probabilities[freedom] = 1.0 - total
	return probabilities
}

func overlappingClassProbability(u int, eta float64) float64 {
	if u == 0 {
		return math.Exp(-eta)
	}
	sum := 0.0
	for l := 1; l <= u; l++ {
		logTerm := -eta - float64(u)*math.Ln2 + float64(l)*math.Log(eta) -
			logGamma(float64(l)+1.0) + logGamma(float64(u)) -
			logGamma(float64(l)) - logGamma(float64(u)-float64(l)+1.0)
		sum += math.Exp(logTerm)
	}
	return sum
}

func logGamma(x float64) float64 {
	value, _ := math.Lgamma(x)
	return value
}
