package core

import (
	"errors"
	"fmt"
	"testing"
)

func TestErrorClassification(t *testing.T) {
	symbolErr := NewInvalidSymbolError(3, 7)
	if !IsInvalidSequence(symbolErr) {
		t.Error("symbol error must classify as invalid sequence")
	}
	if IsIneligible(symbolErr) {
		t.Error("symbol error must not classify as ineligible")
	}

	lengthErr := NewMinLengthError("monobit", 100, 64)
	if !IsIneligible(lengthErr) {
		t.Error("minimum length error must classify as ineligible")
	}
	if IsInvalidSequence(lengthErr) {
		t.Error("minimum length error must not classify as invalid sequence")
	}

	paramsErr := NewDegenerateParamsError("runs", "proportion out of range")
	if !IsIneligible(paramsErr) {
		t.Error("degenerate parameter error must classify as ineligible")
	}
}

func TestErrorClassification_SurvivesWrapping(t *testing.T) {
	wrapped := fmt.Errorf("running dft: %w", NewMinLengthError("dft", 1000, 10))
	if !IsIneligible(wrapped) {
		t.Error("wrapped ineligibility must still classify as ineligible")
	}
	if !errors.Is(wrapped, ErrIneligible) {
		t.Error("wrapped ineligibility must match the sentinel")
	}
}

func TestComputeBitsFingerprint_LengthSensitive(t *testing.T) {
	a := ComputeBitsFingerprint([]uint8{1, 0, 1})
	b := ComputeBitsFingerprint([]uint8{1, 0, 1})
	c := ComputeBitsFingerprint([]uint8{1, 0, 1, 0})
	if a != b {
		t.Error("equal bit slices must share a fingerprint")
	}
	if a == c {
		t.Error("different lengths must not share a fingerprint")
	}
}

func TestComputeParamsFingerprint_OrderIndependent(t *testing.T) {
	a := ComputeParamsFingerprint(map[string]int{"m": 4, "n": 100})
	b := ComputeParamsFingerprint(map[string]int{"n": 100, "m": 4})
	if a != b {
		t.Error("fingerprint must not depend on map iteration order")
	}
}

func TestComputeOperationKey_SeparatesOperations(t *testing.T) {
	input := ComputeBitsFingerprint([]uint8{1, 1, 0})
	params := ComputeParamsFingerprint(map[string]int{"m": 2})
	a := ComputeOperationKey("serial", input, params)
	b := ComputeOperationKey("approximate_entropy", input, params)
	if a == b {
		t.Error("different operations over the same input must not collide")
	}
}
