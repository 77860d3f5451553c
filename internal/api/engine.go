// Package api is the Engine orchestration layer: the single place that
// sequences a player action (move, attack, take an item, talk to an NPC,
// ...) across the World State Store, Narrative Memory, Request Router,
// Validator, combat math, and inventory/player-state bookkeeping, and
// renders the result into the response bundle the HTTP handlers ship to
// the client.
package api

import (
	"context"
	"fmt"
	"math/rand"
	"time"

	"github.com/aiwuxian/tile-crawler/internal/combat"
	"github.com/aiwuxian/tile-crawler/internal/contextassembler"
	"github.com/aiwuxian/tile-crawler/internal/corelog"
	"github.com/aiwuxian/tile-crawler/internal/inventory"
	"github.com/aiwuxian/tile-crawler/internal/llm"
	"github.com/aiwuxian/tile-crawler/internal/models"
	"github.com/aiwuxian/tile-crawler/internal/narrative"
	"github.com/aiwuxian/tile-crawler/internal/playerstate"
	"github.com/aiwuxian/tile-crawler/internal/scheduler"
	"github.com/aiwuxian/tile-crawler/internal/session"
	"github.com/aiwuxian/tile-crawler/internal/validator"
	"github.com/aiwuxian/tile-crawler/internal/world"
)

// ActionResponse is the response bundle every action-taking endpoint
// returns: success/message/narrative always present, the rest optional
// depending on what the action touched.
type ActionResponse struct {
	Success   bool                   `json:"success"`
	Message   string                 `json:"message"`
	Narrative string                 `json:"narrative,omitempty"`
	Map       []string               `json:"map,omitempty"`
	State     map[string]interface{} `json:"state,omitempty"`
	Combat    interface{}            `json:"combat,omitempty"`
	Dialogue  interface{}            `json:"dialogue,omitempty"`
}

// Engine sequences one session's actions. Stateless itself: every field is
// either immutable for the process lifetime (Defs, Config, combat math) or
// a pointer into the owning Session.
type Engine struct {
	Session *session.Session
	Defs    map[string]models.ItemDefinition
	Config  models.GameConfig
	combat  *combat.Engine
}

func NewEngine(s *session.Session, defs map[string]models.ItemDefinition, cfg models.GameConfig) *Engine {
	return &Engine{Session: s, Defs: defs, Config: cfg, combat: combat.NewEngine()}
}

func fail(message string) ActionResponse {
	return ActionResponse{Success: false, Message: message}
}

// NewGame resets the session to a brand-new run: fresh world seed, fresh
// player, fresh narrative memory, no active combat.
func (e *Engine) NewGame(ctx context.Context, playerName string) ActionResponse {
	if playerName == "" {
		playerName = "Adventurer"
	}

	seed := fmt.Sprintf("%s-%d", playerName, time.Now().UnixNano())
	e.Session.World.Restore(world.Snapshot{
		Seed:       seed,
		PlayerAt:   models.Coordinate{},
		Rooms:      map[string]*models.Room{},
		Discovered: map[string]bool{},
	})
	e.Session.Narrative.Restore(narrative.Snapshot{})
	e.Session.Combat = nil
	e.Session.CurrentQuest = nil
	e.Session.ActiveDialogueNPC = ""
	e.Session.Player = freshPlayer(playerName, e.Defs)

	room, _ := e.Session.World.GetOrGenerateRoom(models.Coordinate{})
	room.Visited = true
	e.ensureRoomNarrated(ctx, room)

	e.Session.Narrative.Append(ctx, models.NarrativeEvent{
		Kind:    models.EventDiscovery,
		Summary: "A new adventure begins in a " + string(room.Biome) + " chamber.",
	})

	corelog.Logger().Info("new game started", "session", e.Session.ID, "player", playerName, "seed", seed)

	return ActionResponse{
		Success:   true,
		Message:   "A new adventure begins...",
		Narrative: room.Description,
		Map:       RenderMap(room),
		State:     map[string]interface{}{"new_game": true},
	}
}

func freshPlayer(name string, defs map[string]models.ItemDefinition) *models.Player {
	p := &models.Player{
		Name:    name,
		Class:   "Adventurer",
		Level:   1,
		Primary: models.PrimaryStats{STR: 5, DEX: 5, CON: 5, INT: 5, WIS: 5, CHA: 5},
		IsAlive: true,
	}
	p.RecomputeDerived(defs)
	inventory.AddItem(p, defs, "worn_dagger", 1, nil)
	inventory.EquipItem(p, defs, "worn_dagger", models.SlotWeapon)
	inventory.AddItem(p, defs, "travelers_garb", 1, nil)
	inventory.EquipItem(p, defs, "travelers_garb", models.SlotArmor)
	inventory.AddItem(p, defs, "healing_potion", 2, nil)
	return p
}

// currentRoom looks up the room at the player's current coordinate. Only
// fails if session state has been corrupted, since MovePlayer always
// leaves PlayerAt pointing at a generated room.
func (e *Engine) currentRoom() (*models.Room, bool) {
	return e.Session.World.World().Room(e.Session.Player.Coordinate)
}

// Move attempts to step the player one direction, generating the
// destination room on first visit, narrating it if needed, scheduling
// nearby prefetch, and starting combat if the new room has enemies.
// Validation order: blocked during combat, then exit check, then
// generation, then combat trigger.
func (e *Engine) Move(ctx context.Context, direction models.Direction) ActionResponse {
	if e.Session.Combat.Active() {
		return fail("you cannot move while in combat")
	}

	result := e.Session.World.MovePlayer(direction)
	if !result.Success() {
		return fail(result.Message)
	}
	room := result.Value
	e.Session.Player.Coordinate = room.Coordinate
	playerstate.RecordStep(e.Session.Player)
	statusMessages := playerstate.ProcessStatusEffects(e.Session.Player, e.Defs)

	firstVisit := !room.Enriched
	e.ensureRoomNarrated(ctx, room)

	e.Session.Narrative.Append(ctx, models.NarrativeEvent{
		Kind:    models.EventRoomEntered,
		Summary: fmt.Sprintf("moved %s into a %s room", direction, room.Biome),
	})

	e.schedulePrefetch(room.Coordinate)

	message := "you move " + string(direction)
	for _, m := range statusMessages {
		message += "; " + m
	}

	if !e.Session.Player.IsAlive {
		playerstate.Respawn(e.Session.Player, e.Defs)
		e.Session.Player.Coordinate = models.Coordinate{}
		e.Session.World.World().PlayerAt = models.Coordinate{}
		message += "; a lingering effect finishes you off. You awaken back at the entrance."
		return ActionResponse{Success: false, Message: message, State: map[string]interface{}{"respawned": true}}
	}

	resp := ActionResponse{
		Success:   true,
		Message:   message,
		Narrative: room.Description,
		Map:       RenderMap(room),
		State:     map[string]interface{}{"coordinate": room.Coordinate, "first_visit": firstVisit},
	}

	if len(room.Enemies) > 0 {
		e.startCombat(room, 0)
		resp.Message += ". " + room.Enemies[0].Name + " blocks your path!"
		resp.Combat = e.combatState()
	}

	return resp
}

// schedulePrefetch enqueues ENRICHMENT tasks for the ungenerated neighbors
// of c, triggered after every move. Already-generated neighbors are
// filtered out here; coordinates already pending are skipped by the
// Scheduler's own dedup.
func (e *Engine) schedulePrefetch(c models.Coordinate) {
	var neighbors []models.Coordinate
	for _, d := range models.AllDirections {
		nc := c.Move(d)
		if _, ok := e.Session.World.World().Room(nc); !ok {
			neighbors = append(neighbors, nc)
		}
	}
	for _, t := range scheduler.PlanAfterMove(neighbors, nil) {
		e.Session.Scheduler.Enqueue(t)
	}
}

// ensureRoomNarrated fills in a room's real description via a synchronous
// ROOM_DESCRIPTION request the first time it's entered, replacing the
// procedural placeholder GenerateRoom stamped. Rooms already narrated by a
// prefetch task (HandlePrefetchTask, which calls this same function) have
// Enriched=true by the time the player arrives, so this is then a no-op.
func (e *Engine) ensureRoomNarrated(ctx context.Context, room *models.Room) {
	if room.Enriched {
		return
	}

	sections := []contextassembler.Section{
		{Name: "system", Priority: 1, Text: "Describe this dungeon room.", Canonical: "room_description"},
		contextassembler.RoomStateSection(room, 0),
		contextassembler.ShortTermSection(e.Session.Narrative.ShortTerm()),
		contextassembler.LongTermSummarySection(e.Session.Narrative.Summary()),
	}
	assembled := contextassembler.Assemble(sections, 2000)

	raw, err := e.Session.Router.Dispatch(ctx, llm.KindRoomDescription,
		"Generate JSON: {\"description\": string, \"atmosphere\": one of tense|serene|oppressive|eerie|triumphant|melancholy|foreboding|neutral, \"points_of_interest\": [string], \"audio_hint\": string}",
		assembled.Payload, assembled.Canonical)
	if err != nil {
		raw = ""
	}

	parsed, _ := validator.ValidateRoomDescription(ctx, raw, room.Biome)
	room.Description = parsed.Description
	room.Atmosphere = parsed.Atmosphere
	room.PointsOfInterest = parsed.PointsOfInterest
	room.AudioHint = parsed.AudioHint
	room.Enriched = true
}

func (e *Engine) startCombat(room *models.Room, idx int) {
	if idx < 0 || idx >= len(room.Enemies) {
		return
	}
	e.Session.Combat = &combat.Encounter{
		Enemy:    &room.Enemies[idx],
		Room:     room.Coordinate,
		EnemyIdx: idx,
		Turn:     1,
	}
}

func (e *Engine) combatState() map[string]interface{} {
	c := e.Session.Combat
	if !c.Active() {
		return map[string]interface{}{"in_combat": false}
	}
	return map[string]interface{}{
		"in_combat":    true,
		"enemy_id":     c.Enemy.ID,
		"enemy_name":   c.Enemy.Name,
		"enemy_hp":     c.Enemy.HP,
		"enemy_max_hp": c.Enemy.MaxHP,
		"enemy_attack": c.Enemy.Stats.Attack,
		"turn":         c.Turn,
	}
}

// Attack resolves one round of melee between the player and the active
// encounter's enemy: player strikes, then (if the enemy survives) the
// enemy strikes back.
func (e *Engine) Attack(ctx context.Context) ActionResponse {
	c := e.Session.Combat
	if !c.Active() {
		return fail("there is nothing to attack")
	}
	p := e.Session.Player

	playerResult, defeated := e.combat.ResolvePlayerAttack(p, c.Enemy)
	message := fmt.Sprintf("you strike %s for %d damage", c.Enemy.Name, playerResult.Damage)
	if playerResult.Critical {
		message += " (critical hit!)"
	}

	if defeated {
		return e.endCombatVictory(ctx, message)
	}

	enemyResult, playerDied := e.combat.ResolveEnemyAttack(c.Enemy, p)
	message += fmt.Sprintf("; %s hits back for %d damage", c.Enemy.Name, enemyResult.Damage)
	c.Turn++

	if playerDied {
		return e.endCombatDefeat(ctx, message)
	}

	narrativeText := e.narrateCombat(ctx, message, playerResult.Critical || enemyResult.Critical)
	e.Session.Narrative.Append(ctx, models.NarrativeEvent{Kind: models.EventCombatResolved, Summary: message})

	return ActionResponse{
		Success:   true,
		Message:   message,
		Narrative: narrativeText,
		Combat:    e.combatState(),
	}
}

func (e *Engine) narrateCombat(ctx context.Context, fallbackMessage string, critical bool) string {
	sections := []contextassembler.Section{
		{Name: "system", Priority: 1, Text: "Narrate this combat exchange in one or two sentences."},
		{Name: "event", Priority: 2, Text: fallbackMessage, Canonical: contextassembler.CanonicalMap(map[string]string{"critical": fmt.Sprint(critical)})},
	}
	assembled := contextassembler.Assemble(sections, 500)
	raw, err := e.Session.Router.Dispatch(ctx, llm.KindCombatNarration,
		"Generate JSON: {\"narrative\": string, \"crit_flavor\": string}",
		assembled.Payload, assembled.Canonical)
	if err != nil {
		raw = ""
	}
	parsed, _ := validator.ValidateCombatNarration(ctx, raw, assembled.Canonical)
	return parsed.Narrative
}

func (e *Engine) endCombatVictory(ctx context.Context, message string) ActionResponse {
	c := e.Session.Combat
	p := e.Session.Player
	room, _ := e.currentRoom()

	xp := combat.XPForKill(c.Enemy)
	levels := playerstate.GainExperience(p, xp, e.Defs)
	playerstate.RecordEnemyDefeated(p)

	if room != nil {
		for i, en := range room.Enemies {
			if en.ID == c.Enemy.ID {
				room.RemoveEnemy(i)
				break
			}
		}
	}

	gold := 5 + rand.Intn(16)
	inventory.AddGold(p, gold)
	e.advanceQuestOnKill(ctx)

	message = fmt.Sprintf("%s; you defeat %s! Gained %d XP and %d gold.", message, c.Enemy.Name, xp, gold)
	if levels > 0 {
		message += fmt.Sprintf(" You reached level %d!", p.Level)
	}
	e.Session.Narrative.Append(ctx, models.NarrativeEvent{Kind: models.EventCombatResolved, Summary: message})

	narrativeText := e.narrateCombat(ctx, message, true)
	e.Session.Combat = nil

	return ActionResponse{
		Success:   true,
		Message:   message,
		Narrative: narrativeText,
		State: map[string]interface{}{
			"combat_ended": true, "victory": true, "xp_gained": xp, "gold_gained": gold, "levels_gained": levels,
		},
	}
}

func (e *Engine) endCombatDefeat(ctx context.Context, message string) ActionResponse {
	p := e.Session.Player
	goldLost := p.Gold / 4
	inventory.RemoveGold(p, goldLost)

	message = message + "; you have fallen. " + fmt.Sprintf("You lose %d gold and awaken back at the entrance.", goldLost)
	e.Session.Narrative.Append(ctx, models.NarrativeEvent{Kind: models.EventDeath, Summary: message})

	playerstate.Respawn(p, e.Defs)
	p.Coordinate = models.Coordinate{}
	e.Session.World.World().PlayerAt = models.Coordinate{}
	e.Session.Combat = nil

	return ActionResponse{
		Success: false,
		Message: message,
		State: map[string]interface{}{
			"combat_ended": true, "defeat": true, "respawned": true, "gold_lost": goldLost,
		},
	}
}

// advanceQuestOnKill marks the next undone objective of an active
// clear_the_depths-style quest complete on an enemy kill, and emits a
// quest_updated event once every objective is done. Other quest templates
// (item retrieval, escort, dialogue-triggered) advance through their own
// action paths instead; this is the one kill-counting template.
func (e *Engine) advanceQuestOnKill(ctx context.Context) {
	q := e.Session.CurrentQuest
	if q == nil || q.Completed || q.TemplateID != "clear_the_depths" {
		return
	}
	for i := range q.Objectives {
		if !q.Objectives[i].Done {
			q.Objectives[i].Done = true
			break
		}
	}
	if q.AllObjectivesDone() {
		q.Completed = true
		e.Session.Narrative.Append(ctx, models.NarrativeEvent{Kind: models.EventQuestUpdated, Summary: q.Title + " complete"})
	}
}

// Flee attempts to escape the active encounter: success clears combat with
// no further cost, failure lets the enemy strike a free blow. The escape
// chance scales with the player's DEX.
func (e *Engine) Flee(ctx context.Context) ActionResponse {
	c := e.Session.Combat
	if !c.Active() {
		return fail("there is nothing to flee from")
	}
	p := e.Session.Player

	check := e.combat.AttemptFlee(p)
	if check.Success {
		e.Session.Combat = nil
		message := "you break away from " + c.Enemy.Name + " and flee"
		e.Session.Narrative.Append(ctx, models.NarrativeEvent{Kind: models.EventCombatResolved, Summary: message})
		return ActionResponse{Success: true, Message: message}
	}

	result, died := e.combat.ResolveEnemyAttack(c.Enemy, p)
	message := fmt.Sprintf("you fail to escape %s, who hits you for %d damage", c.Enemy.Name, result.Damage)
	c.Turn++
	if died {
		return e.endCombatDefeat(ctx, message)
	}

	return ActionResponse{Success: false, Message: message, Combat: e.combatState()}
}

// TakeItem moves an item from the current room into the player's
// inventory, blocked during combat.
func (e *Engine) TakeItem(ctx context.Context, itemDefID string) ActionResponse {
	if e.Session.Combat.Active() {
		return fail("you cannot search for items during combat")
	}
	room, ok := e.currentRoom()
	if !ok {
		return fail("nowhere to take an item from")
	}
	item, found := room.RemoveItem(itemDefID)
	if !found {
		return fail("that item is not here")
	}

	ok2, msg := inventory.AddItem(e.Session.Player, e.Defs, itemDefID, item.Quantity, item.Enchantments)
	if !ok2 {
		room.Items = append(room.Items, item)
		return fail(msg)
	}

	e.Session.Narrative.Append(ctx, models.NarrativeEvent{Kind: models.EventItemAcquired, Summary: msg})
	return ActionResponse{Success: true, Message: msg, Narrative: msg}
}

// UseItem consumes or decays an item the player carries, dispatching on
// its effect tags (heal/restore_mana/cure_poison/buff_defense/escape) on
// top of internal/inventory.UseItem's stack/durability bookkeeping, since
// ItemDefinition.Effects is a free-form tag list rather than inventory's
// concern.
func (e *Engine) UseItem(ctx context.Context, itemDefID string) ActionResponse {
	def, ok := e.Defs[itemDefID]
	if !ok {
		return fail("unknown item")
	}

	ok2, msg := inventory.UseItem(e.Session.Player, e.Defs, itemDefID)
	if !ok2 {
		return fail(msg)
	}

	e.applyItemEffects(def)
	e.Session.Narrative.Append(ctx, models.NarrativeEvent{Kind: models.EventItemAcquired, Summary: msg})
	return ActionResponse{Success: true, Message: msg, Narrative: msg}
}

func (e *Engine) applyItemEffects(def models.ItemDefinition) {
	p := e.Session.Player
	for _, effect := range def.Effects {
		switch effect {
		case "heal":
			playerstate.Heal(p, def.Stats["heal"])
		case "restore_mana":
			playerstate.RestoreMana(p, def.Stats["restore_mana"])
		case "cure_poison":
			playerstate.RemoveStatusEffect(p, "poison", e.Defs)
		case "buff_defense":
			playerstate.AddStatusEffect(p, models.StatusEffect{
				Name: "warded", TurnsRemaining: 3, StatDeltas: map[string]int{"defense": def.Stats["defense"]},
			}, e.Defs)
		case "escape":
			if e.Session.Combat.Active() {
				e.Session.Combat = nil
			}
		}
	}
}

// Talk generates dialogue from the first NPC in the current room,
// recording the exchange into the NPC's own bounded memory rather than a
// session-level history list, since per-NPC memory is what a dialogue
// history actually is once more than one NPC exists in a run. Blocked
// during combat, like every other non-combat action.
func (e *Engine) Talk(ctx context.Context, playerInput string) ActionResponse {
	if e.Session.Combat.Active() {
		return fail("you cannot talk while in combat")
	}
	room, ok := e.currentRoom()
	if !ok || len(room.NPCs) == 0 {
		return fail("there is no one here to talk to")
	}
	npc := &room.NPCs[0]
	e.Session.ActiveDialogueNPC = npc.ID

	history := make([]string, 0, len(npc.Memory))
	for _, m := range npc.Memory {
		history = append(history, m.Summary)
	}

	sections := []contextassembler.Section{
		{Name: "system", Priority: 1, Text: "Generate this NPC's reply to the player."},
		{Name: "npc", Priority: 2, Text: fmt.Sprintf("NPC %s, traits=%v, speech_style=%s", npc.Name, npc.Personality.Traits, npc.Personality.SpeechStyle)},
		{Name: "player_input", Priority: 2, Text: playerInput},
		contextassembler.ShortTermSection(e.Session.Narrative.ShortTerm()),
		{Name: "dialogue_history", Priority: 4, Text: fmt.Sprintf("%v", history)},
	}
	assembled := contextassembler.Assemble(sections, 1500)

	raw, err := e.Session.Router.Dispatch(ctx, llm.KindNPCDialogue,
		"Generate JSON: {\"dialogue\": string, \"emotion\": string, \"offers\": [string], \"reveals\": [string], \"quest_trigger\": string|null, \"memory_update\": string}",
		assembled.Payload, assembled.Canonical)
	if err != nil {
		raw = ""
	}
	parsed, _ := validator.ValidateDialogue(ctx, raw, questTemplateIDs, assembled.Canonical)

	summary := parsed.Dialogue
	if len(summary) > 100 {
		summary = summary[:100]
	}
	eventID := fmt.Sprintf("%s-%d", npc.ID, time.Now().UnixNano())
	npc.RememberInteraction(eventID, summary)

	e.Session.Narrative.Append(ctx, models.NarrativeEvent{Kind: models.EventNPCInteraction, Summary: npc.Name + ": " + summary})

	var questOffered *models.Quest
	if parsed.QuestTrigger != nil && *parsed.QuestTrigger != "" && e.Session.CurrentQuest == nil {
		questOffered = e.generateQuest(ctx, *parsed.QuestTrigger, npc.Name)
		e.Session.CurrentQuest = questOffered
	}

	return ActionResponse{
		Success: true,
		Message: "you speak with " + npc.Name,
		Dialogue: map[string]interface{}{
			"npc_id": npc.ID, "npc_name": npc.Name, "speech": parsed.Dialogue,
			"emotion": parsed.Emotion, "offers": parsed.Offers, "reveals": parsed.Reveals,
			"quest_offered": questOffered,
		},
	}
}

// questTemplateIDs is the closed set of quest template ids an NPC dialogue
// may trigger, per schema.Dialogue.Validate's constraint.
var questTemplateIDs = map[string]bool{
	"clear_the_depths":  true,
	"retrieve_relic":    true,
	"escort_survivor":   true,
	"silence_the_altar": true,
}

// generateQuest fleshes out a quest template via a QUEST_GENERATION
// request and records it as the session's one active quest.
func (e *Engine) generateQuest(ctx context.Context, templateID, npcName string) *models.Quest {
	sections := []contextassembler.Section{
		{Name: "system", Priority: 1, Text: "Generate a quest for the player, offered by " + npcName + "."},
		{Name: "template", Priority: 2, Text: "template_id=" + templateID, Canonical: templateID},
	}
	assembled := contextassembler.Assemble(sections, 1000)

	raw, err := e.Session.Router.Dispatch(ctx, llm.KindQuestGeneration,
		"Generate JSON: {\"title\": string, \"description\": string, \"objectives\": [string], \"rewards\": {string: int}}",
		assembled.Payload, assembled.Canonical)
	if err != nil {
		raw = ""
	}
	parsed, _ := validator.ValidateQuest(ctx, raw, assembled.Canonical)

	objectives := make([]models.QuestObjective, len(parsed.Objectives))
	for i, o := range parsed.Objectives {
		objectives[i] = models.QuestObjective{Description: o}
	}

	return &models.Quest{
		ID:          fmt.Sprintf("%s-%d", templateID, time.Now().UnixNano()),
		TemplateID:  templateID,
		Title:       parsed.Title,
		Description: parsed.Description,
		Objectives:  objectives,
		Rewards:     parsed.Rewards,
	}
}

// Rest requires a campfire or safe-room feature in the current room and
// restores the player fully.
func (e *Engine) Rest(ctx context.Context) ActionResponse {
	if e.Session.Combat.Active() {
		return fail("you cannot rest during combat")
	}
	room, ok := e.currentRoom()
	if !ok || !(room.Features["campfire"] || room.Features["safe_room"]) {
		return fail("there is nowhere safe to rest here")
	}

	playerstate.FullRest(e.Session.Player, e.Defs)
	e.Session.Narrative.Append(ctx, models.NarrativeEvent{Kind: models.EventDiscovery, Summary: "rested and recovered"})
	return ActionResponse{Success: true, Message: "you rest and recover your strength", Narrative: "you feel restored"}
}

// GetGameState renders the full current-state snapshot the client polls
// for.
func (e *Engine) GetGameState() map[string]interface{} {
	p := e.Session.Player
	room, _ := e.currentRoom()

	state := map[string]interface{}{
		"player": map[string]interface{}{
			"name": p.Name, "level": p.Level, "xp": p.XP,
			"hp": p.Derived.HP, "max_hp": p.Derived.MaxHP,
			"mp": p.Derived.MP, "max_mp": p.Derived.MaxMP,
			"is_alive": p.IsAlive,
		},
		"position": p.Coordinate,
		"inventory": map[string]interface{}{
			"items": p.Inventory, "gold": p.Gold,
		},
		"stats": map[string]interface{}{
			"rooms_explored":   len(e.Session.World.World().Discovered),
			"enemies_defeated": p.EnemiesDefeated,
			"steps_taken":      p.StepsTaken,
			"deaths":           p.Deaths,
		},
		"narrative": map[string]interface{}{
			"summary": e.Session.Narrative.Summary(),
		},
	}

	if room != nil {
		state["room"] = map[string]interface{}{
			"biome": room.Biome, "description": room.Description, "atmosphere": room.Atmosphere,
			"exits": room.Exits, "enemies": room.Enemies, "items": room.Items, "npcs": room.NPCs,
			"features": room.Features, "map": RenderMap(room),
		}
	}
	if e.Session.Combat.Active() {
		state["combat"] = e.combatState()
	}
	if e.Session.CurrentQuest != nil {
		state["quest"] = e.Session.CurrentQuest
	}

	return state
}
