// Package sp800 implements the NIST SP800-22 statistical test battery. Each
// test is an independent variant of the ports.StatisticalTest capability: it
// derives its own parameters from the sequence length, computes an observed
// statistic, and converts it into one or more probability scores against the
// asymptotic distribution expected under the null hypothesis that the
// sequence is random.
package sp800

import (
	"gonist/internal/cache"
	"gonist/ports"
)

// Canonical test names, used in results and cache keys.
const (
	NameMonobit                = "monobit"
	NameFrequencyWithinBlock   = "frequency_within_block"
	NameRuns                   = "runs"
	NameLongestRunOnes         = "longest_run_ones_in_a_block"
	NameBinaryMatrixRank       = "binary_matrix_rank"
	NameDiscreteFourier        = "dft"
	NameNonOverlappingTemplate = "non_overlapping_template_matching"
	NameOverlappingTemplate    = "overlapping_template_matching"
	NameMaurersUniversal       = "maurers_universal"
	NameLinearComplexity       = "linear_complexity"
	NameSerial                 = "serial"
	NameApproximateEntropy     = "approximate_entropy"
	NameCumulativeSums         = "cumulative_sums"
	NameRandomExcursion        = "random_excursion"
	NameRandomExcursionVariant = "random_excursion_variant"
)

// Battery returns the canonical SP800-22r1a battery, including the cumulative
// sums test, in fixed declaration order. The shared store memoizes expensive
// sub-computations (the cumulative-sum random walk, DFT magnitudes) across
// tests and across repeated invocations.
func Battery(store *cache.Store) []ports.StatisticalTest {
	return []ports.StatisticalTest{
		NewMonobitTest(),
		NewFrequencyWithinBlockTest(),
		NewRunsTest(),
		NewLongestRunOnesTest(),
		NewBinaryMatrixRankTest(),
		NewDiscreteFourierTest(store),
		NewNonOverlappingTemplateTest(),
		NewOverlappingTemplateTest(),
		NewMaurersUniversalTest(),
		NewLinearComplexityTest(),
		NewSerialTest(),
		NewApproximateEntropyTest(),
		NewCumulativeSumsTest(store),
		NewRandomExcursionTest(store),
		NewRandomExcursionVariantTest(store),
	}
}

// Subset filters the given battery down to the named tests, preserving
// battery declaration order.
func Subset(tests []ports.StatisticalTest, names ...string) []ports.StatisticalTest {
	if len(names) == 0 {
		return tests
	}
	wanted := make(map[string]bool, len(names))
	for _, n := range names {
		wanted[n] = true
	}
	out := make([]ports.StatisticalTest, 0, len(names))
	for _, t := range tests {
		if wanted[t.Name()] {
			out = append(out, t)
		}
	}
	return out
}
