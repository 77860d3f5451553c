// Package fingerprint computes the stable content hash that keys the
// Response Cache and the in-flight deduplication map. Built on stdlib
// crypto/sha256 — content hashing has no meaningful third-party
// alternative worth reaching for here.
package fingerprint

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
)

// TemperatureBucket rounds a temperature into a coarse bucket so requests
// issued with trivially different temperatures (e.g. 0.700001 vs 0.7) still
// collapse to the same fingerprint.
func TemperatureBucket(temperature float32) int {
	return int(temperature*10 + 0.5)
}

// Fingerprint computes the stable hash over (request kind, normalized
// context payload, model identifier, temperature bucket). canonicalContext
// should be the Canonical form produced by internal/contextassembler.Assemble,
// not the prompt payload itself.
func Fingerprint(kind, canonicalContext, modelID string, temperature float32) string {
	bucket := TemperatureBucket(temperature)
	input := fmt.Sprintf("%s\x00%s\x00%s\x00%d", kind, canonicalContext, modelID, bucket)
	sum := sha256.Sum256([]byte(input))
	return hex.EncodeToString(sum[:])
}
