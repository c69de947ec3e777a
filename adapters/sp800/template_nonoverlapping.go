package sp800

import (
	"context"
	"fmt"
	"math"

	"gonist/domain/battery"
	"gonist/domain/bitstream"
	"gonist/domain/core"
	"gonist/internal/special"
)

// NonOverlappingTemplateTest counts non-overlapping occurrences of aperiodic
// templates inside N blocks. When a template is found the search window jumps
// past it; generators that produce too many occurrences of some pattern fail.
// One score is produced per template of the derived length.
type NonOverlappingTemplateTest struct{}

const nonOverlappingBlocks = 8

// NewNonOverlappingTemplateTest creates the non-overlapping template matching
// test.
func NewNonOverlappingTemplateTest() *NonOverlappingTemplateTest {
	return &NonOverlappingTemplateTest{}
}

func (t *NonOverlappingTemplateTest) Name() string {
	return NameNonOverlappingTemplate
}

func (t *NonOverlappingTemplateTest) Description() string {
	return "Detects too many occurrences of aperiodic target patterns"
}

func (t *NonOverlappingTemplateTest) MinimumLength() int {
	return 100
}

func (t *NonOverlappingTemplateTest) Parameters(seq *bitstream.Sequence) (battery.Params, error) {
	n := seq.Len()
	if n < t.MinimumLength() {
		return battery.Params{}, core.NewMinLengthError(t.Name(), t.MinimumLength(), n)
	}

	blockSize := n / nonOverlappingBlocks
	// Scale the template length with the block size so the expected match
	// count per block stays well above zero, capped by the template table.
	length := int(math.Floor(math.Log2(float64(blockSize)))) - 2
	if length < 2 {
		length = 2
	}
	if length > 8 {
		length = 8
	}
	templates := templatesOfLength(length)
	if len(templates) == 0 || blockSize <= length {
		return battery.Params{}, core.NewDegenerateParamsError(t.Name(),
			fmt.Sprintf("block size %d cannot fit template length %d", blockSize, length))
	}
	return battery.Params{
		BlockSize:     blockSize,
		BlockCount:    nonOverlappingBlocks,
		PatternLength: length,
		Templates:     templates,
	}, nil
}

func (t *NonOverlappingTemplateTest) Evaluate(ctx context.Context, seq *bitstream.Sequence, params battery.Params) (battery.Outcome, error) {
	bits := seq.Bits()
	m := float64(params.BlockSize)
	length := float64(params.PatternLength)

	mean := (m - length + 1.0) / math.Pow(2.0, length)
	variance := m * (1.0/math.Pow(2.0, length) - (2.0*length-1.0)/math.Pow(2.0, 2.0*length))

	scores := make([]float64, len(params.Templates))
	maxChi := 0.0
	for ti, template := range params.Templates {
		chiSquare := 0.0
		for i := 0; i < params.BlockCount; i++ {
			block := bits[i*params.BlockSize : (i+1)*params.BlockSize]
			matches := countNonOverlapping(block, template)
			deviation := float64(matches) - mean
			chiSquare += deviation * deviation / variance
		}
		if chiSquare > maxChi {
			maxChi = chiSquare
		}
		scores[ti] = special.GammaQ(float64(params.BlockCount)/2.0, chiSquare/2.0)
	}

	return battery.Outcome{Statistic: maxChi, Scores: scores}, nil
}

// countNonOverlapping slides a window over the block, jumping past each match
// so occurrences never overlap.
func countNonOverlapping(block []uint8, template []uint8) int {
	count := 0
	position := 0
	for position <= len(block)-len(template) {
		if matchesAt(block, template, position) {
			position += len(template)
			count++
		} else {
			position++
		}
	}
	return count
}

func matchesAt(block []uint8, template []uint8, position int) bool {
	for j, bit := range template {
		if block[position+j] != bit {
			return false
		}
	}
	return true
}
