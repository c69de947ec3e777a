package sp800

import (
	"context"
	"math"

	"gonist/domain/battery"
	"gonist/domain/bitstream"
	"gonist/domain/core"
	"gonist/internal/special"
)

// BinaryMatrixRankTest checks for linear dependence among fixed-length
// substrings. The sequence is partitioned into 32x32 matrices over GF(2) and
// the observed distribution of ranks across the classes full, full minus one
// and lower is compared against the theoretical probabilities.
type BinaryMatrixRankTest struct {
	rows, cols int

	fullRankProbability  float64
	minusRankProbability float64
	lowerRankProbability float64
}

const matrixRankMinBlocks = 38

// NewBinaryMatrixRankTest creates the binary matrix rank test.
func NewBinaryMatrixRankTest() *BinaryMatrixRankTest {
	t := &BinaryMatrixRankTest{rows: 32, cols: 32}
	t.fullRankProbability = rankProbability(t.rows, t.rows, t.cols)
	t.minusRankProbability = rankProbability(t.rows-1, t.rows, t.cols)
	t.lowerRankProbability = 1.0 - t.fullRankProbability - t.minusRankProbability
	return t
}

func (t *BinaryMatrixRankTest) Name() string {
	return NameBinaryMatrixRank
}

func (t *BinaryMatrixRankTest) Description() string {
	return "Detects linear dependence among fixed-length substrings via GF(2) matrix ranks"
}

func (t *BinaryMatrixRankTest) MinimumLength() int {
	return matrixRankMinBlocks * t.rows * t.cols
}

func (t *BinaryMatrixRankTest) Parameters(seq *bitstream.Sequence) (battery.Params, error) {
	n := seq.Len()
	blockCount := n / (t.rows * t.cols)
	if blockCount < matrixRankMinBlocks {
		return battery.Params{}, core.NewMinLengthError(t.Name(), t.MinimumLength(), n)
	}
	return battery.Params{BlockSize: t.rows * t.cols, BlockCount: blockCount}, nil
}

func (t *BinaryMatrixRankTest) Evaluate(ctx context.Context, seq *bitstream.Sequence, params battery.Params) (battery.Outcome, error) {
	bits := seq.Bits()
	blockBits := t.rows * t.cols

	fullRank := 0
	minusRank := 0
	lowerRank := 0
	for i := 0; i < params.BlockCount; i++ {
		block := bits[i*blockBits : (i+1)*blockBits]
		rank := gf2Rank(block, t.rows, t.cols)
		switch {
		case rank == t.rows:
			fullRank++
		case rank == t.rows-1:
			minusRank++
		default:
			lowerRank++
		}
	}

	n := float64(params.BlockCount)
	chiSquare := chiTerm(float64(fullRank), n*t.fullRankProbability) +
		chiTerm(float64(minusRank), n*t.minusRankProbability) +
		chiTerm(float64(lowerRank), n*t.lowerRankProbability)

	score := special.ChiSquareSurvival(chiSquare, 2)
	return battery.Outcome{Statistic: chiSquare, Scores: []float64{score}}, nil
}

func chiTerm(observed, expected float64) float64 {
	deviation := observed - expected
	return deviation * deviation / expected
}

// gf2Rank computes the rank of a rows x cols binary matrix using Gaussian
// elimination over GF(2). Each row is held as a bitmask, so eliminating a row
// is a single xor.
func gf2Rank(block []uint8, rows, cols int) int {
	matrix := make([]uint64, rows)
	for r := 0; r < rows; r++ {
		var word uint64
		for c := 0; c < cols; c++ {
			word = (word << 1) | uint64(block[r*cols+c])
		}
		matrix[r] = word
	}

	rank := 0
	for col := cols - 1; col >= 0 && rank < rows; col-- {
		mask := uint64(1) << uint(col)
		pivot := -1
		for r := rank; r < rows; r++ {
			if matrix[r]&mask != 0 {
				pivot = r
				break
			}
		}
		if pivot < 0 {
			continue
		}
		matrix[rank], matrix[pivot] = matrix[pivot], matrix[rank]
		for r := 0; r < rows; r++ {
			if r != rank && matrix[r]&mask != 0 {
				matrix[r] ^= matrix[rank]
			}
		}
		rank++
	}
	return rank
}

// rankProbability returns the probability that a random rows x cols binary
// matrix has the given rank.
func rankProbability(rank, rows, cols int) float64 {
	exponent := float64(rank*(rows+cols-rank) - rows*cols)
	p := math.Pow(2.0, exponent)
	for i := 0; i < rank; i++ {
		numerator := (1.0 - math.Pow(2.0, float64(i-rows))) * (1.0 - math.Pow(2.0, float64(i-cols)))
		denominator := 1.0 - math.Pow(2.0, float64(i-rank))
		p *= numerator / denominator
	}
	return p
}
