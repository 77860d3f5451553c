package validator

import (
	"context"
	"testing"

	"github.com/aiwuxian/tile-crawler/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidateRoomDescriptionAcceptsWellFormedResponse(t *testing.T) {
	raw := `{"description":"A quiet hall stretches into darkness.","atmosphere":"tense","points_of_interest":["an altar"]}`
	result, usedFallback := ValidateRoomDescription(context.Background(), raw, models.BiomeDungeon)
	require.False(t, usedFallback)
	assert.Equal(t, "A quiet hall stretches into darkness.", result.Description)
	assert.Equal(t, "tense", result.Atmosphere)
}

func TestValidateRoomDescriptionFallsBackOnBadAtmosphereEnum(t *testing.T) {
	raw := `{"description":"A hall.","atmosphere":"not-a-real-mood"}`
	result, usedFallback := ValidateRoomDescription(context.Background(), raw, models.BiomeCave)
	require.True(t, usedFallback)
	assert.Equal(t, "neutral", result.Atmosphere)
	assert.Contains(t, result.Description, "Stalactites")
}

func TestValidateRoomDescriptionFallsBackOnUnparsableJSON(t *testing.T) {
	result, usedFallback := ValidateRoomDescription(context.Background(), "the LLM rambled and never produced JSON", models.BiomeTemple)
	require.True(t, usedFallback)
	assert.NotEmpty(t, result.Description)
}

func TestValidateRoomDescriptionRecoversFromTrailingCommaViaRepair(t *testing.T) {
	raw := `{"description":"A narrow passage.","atmosphere":"eerie",}`
	result, usedFallback := ValidateRoomDescription(context.Background(), raw, models.BiomeCrypt)
	require.False(t, usedFallback)
	assert.Equal(t, "A narrow passage.", result.Description)
}

func TestValidateDialogueRejectsUnknownQuestTemplate(t *testing.T) {
	raw := `{"dialogue":"Seek the amulet.","emotion":"grave","quest_trigger":"nonexistent_template"}`
	known := map[string]bool{"find_the_amulet": true}
	result, usedFallback := ValidateDialogue(context.Background(), raw, known, "fp-1")
	require.True(t, usedFallback)
	assert.Equal(t, "neutral", result.Emotion)
}

func TestValidateDialogueAcceptsKnownQuestTemplate(t *testing.T) {
	raw := `{"dialogue":"Seek the amulet.","emotion":"grave","quest_trigger":"find_the_amulet"}`
	known := map[string]bool{"find_the_amulet": true}
	result, usedFallback := ValidateDialogue(context.Background(), raw, known, "fp-2")
	require.False(t, usedFallback)
	assert.Equal(t, "Seek the amulet.", result.Dialogue)
}

func TestValidateCombatNarrationFallbackIsDeterministicPerFingerprint(t *testing.T) {
	r1, f1 := ValidateCombatNarration(context.Background(), "no json here", "same-fp")
	r2, f2 := ValidateCombatNarration(context.Background(), "still no json", "same-fp")
	require.True(t, f1)
	require.True(t, f2)
	assert.Equal(t, r1.Narrative, r2.Narrative)
}

func TestValidateQuestFallbackIsAlwaysSchemaValid(t *testing.T) {
	result, usedFallback := ValidateQuest(context.Background(), "not json", "fp-quest")
	require.True(t, usedFallback)
	require.NoError(t, result.Validate())
}

func TestValidateSummarizationUsesRecentEventsOnFallback(t *testing.T) {
	summary, usedFallback := ValidateSummarization(context.Background(), "garbage", []string{"entered the crypt", "defeated a skeleton"})
	require.True(t, usedFallback)
	assert.Contains(t, summary, "[abridged]")
	assert.Contains(t, summary, "entered the crypt")
}

func TestValidateSummarizationAcceptsWellFormedResponse(t *testing.T) {
	summary, usedFallback := ValidateSummarization(context.Background(), `{"summary":"the party rests"}`, nil)
	require.False(t, usedFallback)
	assert.Equal(t, "the party rests", summary)
}
