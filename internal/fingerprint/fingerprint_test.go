package fingerprint

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFingerprintStableForIdenticalInputs(t *testing.T) {
	a := Fingerprint("ROOM_DESCRIPTION", "biome=dungeon;exits=north", "gpt-4o-mini", 0.8)
	b := Fingerprint("ROOM_DESCRIPTION", "biome=dungeon;exits=north", "gpt-4o-mini", 0.8)
	assert.Equal(t, a, b)
}

func TestFingerprintDiffersOnKind(t *testing.T) {
	a := Fingerprint("ROOM_DESCRIPTION", "ctx", "model", 0.8)
	b := Fingerprint("NPC_DIALOGUE", "ctx", "model", 0.8)
	assert.NotEqual(t, a, b)
}

func TestFingerprintTemperatureBucketCollapsesJitter(t *testing.T) {
	a := Fingerprint("ROOM_DESCRIPTION", "ctx", "model", 0.7)
	b := Fingerprint("ROOM_DESCRIPTION", "ctx", "model", 0.700001)
	assert.Equal(t, a, b)
}

func TestFingerprintTemperatureBucketDistinguishesCoarseDiff(t *testing.T) {
	a := Fingerprint("ROOM_DESCRIPTION", "ctx", "model", 0.3)
	b := Fingerprint("ROOM_DESCRIPTION", "ctx", "model", 0.8)
	assert.NotEqual(t, a, b)
}
