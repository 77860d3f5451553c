package validator

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseWithRepairSucceedsOnCleanInput(t *testing.T) {
	var out map[string]string
	_, err := ParseWithRepair(`{"a":"b"}`, &out)
	require.NoError(t, err)
	assert.Equal(t, "b", out["a"])
}

func TestParseWithRepairStripsTrailingComma(t *testing.T) {
	var out map[string]string
	_, err := ParseWithRepair(`{"a":"b",}`, &out)
	require.NoError(t, err)
	assert.Equal(t, "b", out["a"])
}

func TestParseWithRepairClosesUnbalancedBrackets(t *testing.T) {
	var out map[string]string
	_, err := ParseWithRepair(`{"a":"b"`, &out)
	require.NoError(t, err)
	assert.Equal(t, "b", out["a"])
}

func TestParseWithRepairNormalizesSmartQuotes(t *testing.T) {
	var out map[string]string
	_, err := ParseWithRepair("{\u201ca\u201d:\u201cb\u201d}", &out)
	require.NoError(t, err)
	assert.Equal(t, "b", out["a"])
}

func TestParseWithRepairGivesUpAfterMaxAttempts(t *testing.T) {
	var out map[string]string
	_, err := ParseWithRepair("not json at all and never will be", &out)
	assert.Error(t, err)
}
