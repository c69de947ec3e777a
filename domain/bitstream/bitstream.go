// Package bitstream holds the validated binary sequence representation shared
// by every statistical test. A Sequence is immutable once constructed; tests
// borrow the underlying bits read-only and never copy them.
package bitstream

import (
	"math/bits"
	"sync"

	"gonist/domain/core"
)

// Sequence is an ordered, fixed-length array of binary symbols in {0,1}.
type Sequence struct {
	bits []uint8

	onesOnce sync.Once
	ones     int

	runsOnce sync.Once
	runs     int

	signedOnce sync.Once
	signed     []int8

	fpOnce      sync.Once
	fingerprint core.Hash
}

// New validates raw symbols and wraps them in a Sequence. The slice is taken
// over by the Sequence and must not be mutated by the caller afterwards.
func New(raw []uint8) (*Sequence, error) {
	if len(raw) == 0 {
		return nil, core.ErrEmptySequence
	}
	for i, v := range raw {
		if v > 1 {
			return nil, core.NewInvalidSymbolError(i, v)
		}
	}
	return &Sequence{bits: raw}, nil
}

// NewFromBytes unpacks 8-bit groups into a Sequence, most significant bit first.
func NewFromBytes(data []byte) (*Sequence, error) {
	if len(data) == 0 {
		return nil, core.ErrEmptySequence
	}
	return &Sequence{bits: Unpack(data)}, nil
}

// Len returns the number of bits in the sequence.
func (s *Sequence) Len() int {
	return len(s.bits)
}

// Bit returns the symbol at position i.
func (s *Sequence) Bit(i int) uint8 {
	return s.bits[i]
}

// Bits exposes the underlying symbols read-only. Callers must not mutate the
// returned slice.
func (s *Sequence) Bits() []uint8 {
	return s.bits
}

// Ones returns the count of set bits, computed once and reused.
func (s *Sequence) Ones() int {
	s.onesOnce.Do(func() {
		for _, b := range s.bits {
			s.ones += int(b)
		}
	})
	return s.ones
}

// Proportion returns the fraction of set bits.
func (s *Sequence) Proportion() float64 {
	return float64(s.Ones()) / float64(s.Len())
}

// Runs returns the number of uninterrupted groups of identical symbols.
func (s *Sequence) Runs() int {
	s.runsOnce.Do(func() {
		s.runs = 1
		for i := 0; i < len(s.bits)-1; i++ {
			if s.bits[i] != s.bits[i+1] {
				s.runs++
			}
		}
	})
	return s.runs
}

// Signed returns the sequence in its ±1 representation (0 maps to -1).
// The slice is shared across calls and must not be mutated.
func (s *Sequence) Signed() []int8 {
	s.signedOnce.Do(func() {
		s.signed = make([]int8, len(s.bits))
		for i, b := range s.bits {
			if b == 1 {
				s.signed[i] = 1
			} else {
				s.signed[i] = -1
			}
		}
	})
	return s.signed
}

// Fingerprint returns the deterministic identity of the sequence for cache
// keying, computed once.
func (s *Sequence) Fingerprint() core.Hash {
	s.fpOnce.Do(func() {
		s.fingerprint = core.ComputeBitsFingerprint(s.bits)
	})
	return s.fingerprint
}

// Unpack expands packed 8-bit groups into individual bits, most significant
// bit first, mirroring the packed input format accepted at the boundary.
func Unpack(data []byte) []uint8 {
	out := make([]uint8, 0, len(data)*8)
	for _, b := range data {
		for shift := 7; shift >= 0; shift-- {
			out = append(out, (b>>uint(shift))&1)
		}
	}
	return out
}

// Pack groups bits into 8-bit values, most significant bit first. A final
// partial group is padded with zero bits, so exact round-trips require a bit
// count that is a multiple of eight.
func Pack(seq []uint8) []byte {
	out := make([]byte, 0, (len(seq)+7)/8)
	var current byte
	for i, bit := range seq {
		current = (current << 1) | (bit & 1)
		if i%8 == 7 {
			out = append(out, current)
			current = 0
		}
	}
	if rem := len(seq) % 8; rem != 0 {
		out = append(out, current<<uint(8-rem))
	}
	return out
}

// OnesInBytes counts set bits across packed bytes without unpacking.
func OnesInBytes(data []byte) int {
	ones := 0
	for _, b := range data {
		ones += bits.OnesCount8(b)
	}
	return ones
}
