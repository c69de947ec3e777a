package bitstream

import (
	"testing"

	"gonist/domain/core"
)

func TestNew_RejectsInvalidSymbols(t *testing.T) {
	_, err := New([]uint8{0, 1, 2, 1})
	if err == nil {
		t.Fatal("expected error for symbol outside {0,1}")
	}
	if !core.IsInvalidSequence(err) {
		t.Errorf("expected invalid sequence error, got %v", err)
	}
}

func TestNew_RejectsEmpty(t *testing.T) {
	if _, err := New(nil); err != core.ErrEmptySequence {
		t.Errorf("expected ErrEmptySequence, got %v", err)
	}
	if _, err := NewFromBytes(nil); err != core.ErrEmptySequence {
		t.Errorf("expected ErrEmptySequence from bytes, got %v", err)
	}
}

func TestSequence_Counters(t *testing.T) {
	seq, err := New([]uint8{1, 0, 0, 1, 1, 1, 0, 1})
	if err != nil {
		t.Fatal(err)
	}
	if got := seq.Len(); got != 8 {
		t.Errorf("Len = %d, want 8", got)
	}
	if got := seq.Ones(); got != 5 {
		t.Errorf("Ones = %d, want 5", got)
	}
	// 1 | 00 | 111 | 0 | 1
	if got := seq.Runs(); got != 5 {
		t.Errorf("Runs = %d, want 5", got)
	}
	signed := seq.Signed()
	want := []int8{1, -1, -1, 1, 1, 1, -1, 1}
	for i := range want {
		if signed[i] != want[i] {
			t.Fatalf("Signed[%d] = %d, want %d", i, signed[i], want[i])
		}
	}
}

func TestPackUnpack_RoundTrip(t *testing.T) {
	data := []byte{0xC5, 0x01, 0xFF, 0x00, 0x5A}
	bits := Unpack(data)
	if len(bits) != len(data)*8 {
		t.Fatalf("Unpack produced %d bits, want %d", len(bits), len(data)*8)
	}
	packed := Pack(bits)
	if len(packed) != len(data) {
		t.Fatalf("Pack produced %d bytes, want %d", len(packed), len(data))
	}
	for i := range data {
		if packed[i] != data[i] {
			t.Errorf("byte %d: got %#x, want %#x", i, packed[i], data[i])
		}
	}
}

func TestUnpack_MostSignificantBitFirst(t *testing.T) {
	bits := Unpack([]byte{0xC5}) // 1100 0101
	want := []uint8{1, 1, 0, 0, 0, 1, 0, 1}
	for i := range want {
		if bits[i] != want[i] {
			t.Fatalf("bit %d: got %d, want %d", i, bits[i], want[i])
		}
	}
}

func TestPack_PadsPartialByte(t *testing.T) {
	packed := Pack([]uint8{1, 0, 1}) // 101 -> 1010 0000
	if len(packed) != 1 || packed[0] != 0xA0 {
		t.Errorf("Pack = %#v, want [0xA0]", packed)
	}
}

func TestOnesInBytes_MatchesUnpacked(t *testing.T) {
	data := []byte{0xC5, 0x01, 0xFF, 0x00}
	seq, err := NewFromBytes(data)
	if err != nil {
		t.Fatal(err)
	}
	if got := OnesInBytes(data); got != seq.Ones() {
		t.Errorf("OnesInBytes = %d, Sequence.Ones = %d", got, seq.Ones())
	}
}

func TestFingerprint_Deterministic(t *testing.T) {
	a, _ := New([]uint8{0, 1, 1, 0})
	b, _ := New([]uint8{0, 1, 1, 0})
	c, _ := New([]uint8{0, 1, 1, 1})
	if a.Fingerprint() != b.Fingerprint() {
		t.Error("identical sequences must share a fingerprint")
	}
	if a.Fingerprint() == c.Fingerprint() {
		t.Error("distinct sequences must not share a fingerprint")
	}
}
