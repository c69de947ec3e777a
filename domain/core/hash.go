package core

import (
	"crypto/sha256"
	"encoding/binary"
	"encoding/hex"
	"fmt"
	"sort"
	"strings"
)

// Hash represents a cryptographic fingerprint
type Hash string

// NewHash creates a new hash from data
func NewHash(data []byte) Hash {
	sum := sha256.Sum256(data)
	return Hash(hex.EncodeToString(sum[:]))
}

// String returns the string representation
func (h Hash) String() string {
	return string(h)
}

// IsEmpty checks if the hash is empty
func (h Hash) IsEmpty() bool {
	return h == ""
}

// Equals checks if two hashes are equal
func (h Hash) Equals(other Hash) bool {
	return h == other
}

// ComputeBitsFingerprint hashes a bit sequence for use in cache keys.
// The length is mixed in ahead of the payload so a prefix can never
// collide with the full sequence.
func ComputeBitsFingerprint(bits []uint8) Hash {
	header := make([]byte, 8)
	binary.BigEndian.PutUint64(header, uint64(len(bits)))
	payload := make([]byte, 0, len(header)+len(bits))
	payload = append(payload, header...)
	payload = append(payload, bits...)
	return NewHash(payload)
}

// ComputeParamsFingerprint hashes a named parameter set deterministically.
// Keys are sorted so map iteration order never leaks into the fingerprint.
func ComputeParamsFingerprint(params map[string]int) Hash {
	keys := make([]string, 0, len(params))
	for k := range params {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var data strings.Builder
	for _, key := range keys {
		data.WriteString(key)
		data.WriteString(fmt.Sprintf("=%d;", params[key]))
	}
	return NewHash([]byte(data.String()))
}

// ComputeOperationKey combines an operation identity with input and parameter
// fingerprints into a single cache key.
func ComputeOperationKey(operation string, input Hash, params Hash) Hash {
	var data strings.Builder
	data.WriteString(operation)
	data.WriteString("|")
	data.WriteString(input.String())
	data.WriteString("|")
	data.WriteString(params.String())
	return NewHash([]byte(data.String()))
}
