package validator

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExtractJSONPlainObject(t *testing.T) {
	got, ok := ExtractJSON(`{"a":1}`)
	require.True(t, ok)
	assert.Equal(t, `{"a":1}`, got)
}

func TestExtractJSONToleratesLeadingAndTrailingProse(t *testing.T) {
	got, ok := ExtractJSON("Sure, here's the room:\n" + `{"description":"a hall"}` + "\nHope that helps!")
	require.True(t, ok)
	assert.Equal(t, `{"description":"a hall"}`, got)
}

func TestExtractJSONToleratesFencedCodeBlock(t *testing.T) {
	input := "```json\n" + `{"summary":"the party presses on"}` + "\n```"
	got, ok := ExtractJSON(input)
	require.True(t, ok)
	assert.Equal(t, `{"summary":"the party presses on"}`, got)
}

func TestExtractJSONIgnoresBracesInsideStrings(t *testing.T) {
	got, ok := ExtractJSON(`{"dialogue":"a voice says \"wait here }\""}`)
	require.True(t, ok)
	assert.Equal(t, `{"dialogue":"a voice says \"wait here }\""}`, got)
}

func TestExtractJSONReportsUnbalancedInput(t *testing.T) {
	_, ok := ExtractJSON(`{"a":1`)
	assert.False(t, ok)
}

func TestExtractJSONNoObjectFound(t *testing.T) {
	_, ok := ExtractJSON("just plain prose with no json at all")
	assert.False(t, ok)
}
