// Package schema declares the per-request-kind response shapes from spec
// §4.4 and the structural validation each one requires before a response
// is accepted.
package schema

import "fmt"

// RoomDescription is ROOM_DESCRIPTION's schema: {description, atmosphere,
// points_of_interest?, audio_hint?}.
type RoomDescription struct {
	Description      string   `json:"description"`
	Atmosphere       string   `json:"atmosphere"`
	PointsOfInterest []string `json:"points_of_interest,omitempty"`
	AudioHint        string   `json:"audio_hint,omitempty"`
}

// ClosedAtmospheres is the enum RoomDescription.Atmosphere must belong to.
var ClosedAtmospheres = map[string]bool{
	"tense": true, "serene": true, "oppressive": true, "eerie": true,
	"triumphant": true, "melancholy": true, "foreboding": true, "neutral": true,
}

func (r RoomDescription) Validate() error {
	if r.Description == "" {
		return fmt.Errorf("description is required")
	}
	if r.Atmosphere == "" {
		return fmt.Errorf("atmosphere is required")
	}
	if !ClosedAtmospheres[r.Atmosphere] {
		return fmt.Errorf("atmosphere %q is not in the closed enum", r.Atmosphere)
	}
	return nil
}

// Dialogue is NPC_DIALOGUE's schema: {dialogue, emotion, offers?, reveals?,
// quest_trigger?, memory_update?}.
type Dialogue struct {
	Dialogue     string   `json:"dialogue"`
	Emotion      string   `json:"emotion"`
	Offers       []string `json:"offers,omitempty"`
	Reveals      []string `json:"reveals,omitempty"`
	QuestTrigger *string  `json:"quest_trigger,omitempty"`
	MemoryUpdate string   `json:"memory_update,omitempty"`
}

// Validate checks the required fields and validates Dialogue.QuestTrigger
// against knownQuestTemplateIDs, the closed set of quest template
// identifiers the session knows about. Passed in by
// the caller rather than hardcoded, since quest templates are
// session/world configurable.
func (d Dialogue) Validate(knownQuestTemplateIDs map[string]bool) error {
	if d.Dialogue == "" {
		return fmt.Errorf("dialogue is required")
	}
	if d.Emotion == "" {
		return fmt.Errorf("emotion is required")
	}
	if d.QuestTrigger != nil && *d.QuestTrigger != "" && !knownQuestTemplateIDs[*d.QuestTrigger] {
		return fmt.Errorf("quest_trigger %q does not reference a known quest template", *d.QuestTrigger)
	}
	return nil
}

// CombatNarration is COMBAT_NARRATION's schema: {narrative, crit_flavor?}.
type CombatNarration struct {
	Narrative string `json:"narrative"`
	CritFlavor string `json:"crit_flavor,omitempty"`
}

func (c CombatNarration) Validate() error {
	if c.Narrative == "" {
		return fmt.Errorf("narrative is required")
	}
	return nil
}

// Quest is QUEST_GENERATION's schema: {title, description, objectives[],
// rewards{}}.
type Quest struct {
	Title       string            `json:"title"`
	Description string            `json:"description"`
	Objectives  []string          `json:"objectives"`
	Rewards     map[string]int    `json:"rewards"`
}

func (q Quest) Validate() error {
	if q.Title == "" {
		return fmt.Errorf("title is required")
	}
	if q.Description == "" {
		return fmt.Errorf("description is required")
	}
	if len(q.Objectives) == 0 {
		return fmt.Errorf("objectives must be non-empty")
	}
	return nil
}

// Summarization is SUMMARIZATION's schema: {summary}.
type Summarization struct {
	Summary string `json:"summary"`
}

func (s Summarization) Validate() error {
	if s.Summary == "" {
		return fmt.Errorf("summary is required")
	}
	return nil
}
