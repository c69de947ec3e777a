// Package battery defines the shared result and parameter types produced and
// consumed by the statistical test battery.
package battery

import (
	"time"

	"gonist/domain/core"
)

// DefaultSignificance is the conventional score cutoff below which a single
// statistic rejects the randomness hypothesis.
const DefaultSignificance = 0.01

// Params holds the small, test-specific set of values derived from the
// sequence length (and optional overrides) by each test's parameter rule.
// Unused fields stay zero; the fingerprint covers every field that can
// affect a test's output.
type Params struct {
	BlockSize      int       // M: bits per block
	BlockCount     int       // N: number of blocks
	PatternLength  int       // m/L: template or pattern length
	FreedomDegrees int       // K: degrees of freedom for chi-square classes
	InitBlocks     int       // Q: initialization blocks (universal test)
	TestBlocks     int       // K blocks scanned after initialization
	Templates      [][]uint8 // aperiodic templates (non-overlapping matching)
}

// Fingerprint returns the deterministic identity of the parameter set for
// cache keying.
func (p Params) Fingerprint() core.Hash {
	fields := map[string]int{
		"block_size":      p.BlockSize,
		"block_count":     p.BlockCount,
		"pattern_length":  p.PatternLength,
		"freedom_degrees": p.FreedomDegrees,
		"init_blocks":     p.InitBlocks,
		"test_blocks":     p.TestBlocks,
		"template_count":  len(p.Templates),
	}
	return core.ComputeParamsFingerprint(fields)
}

// Outcome is the raw product of one test evaluation: the observed statistic
// and one score per sub-statistic. Single-statistic tests return a one
// element slice.
type Outcome struct {
	Statistic float64
	Scores    []float64
}

// Status classifies how a test concluded.
type Status string

const (
	StatusPassed     Status = "passed"
	StatusFailed     Status = "failed"
	StatusIneligible Status = "ineligible"
)

// Result is the immutable record reported for one test in one battery run.
// Ineligible results carry a reason and no scores.
type Result struct {
	Name      string        `json:"name"`
	Status    Status        `json:"status"`
	Statistic float64       `json:"statistic"`
	Scores    []float64     `json:"scores,omitempty"`
	Reason    string        `json:"reason,omitempty"`
	Elapsed   time.Duration `json:"elapsed"`
	CacheHit  bool          `json:"cache_hit"`
}

// Score returns the mean of the per-statistic scores, the single headline
// number reported per test.
func (r Result) Score() float64 {
	if len(r.Scores) == 0 {
		return 0
	}
	total := 0.0
	for _, s := range r.Scores {
		total += s
	}
	return total / float64(len(r.Scores))
}

// Passed reports whether the test ran and every sub-score cleared the
// significance threshold.
func (r Result) Passed() bool {
	return r.Status == StatusPassed
}

// Verdict applies the conservative pass policy: a test passes only when all
// of its sub-scores reach the significance threshold.
func Verdict(scores []float64, significance float64) Status {
	for _, s := range scores {
		if s < significance {
			return StatusFailed
		}
	}
	return StatusPassed
}
