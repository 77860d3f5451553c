package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/aiwuxian/tile-crawler/internal/models"
	"github.com/aiwuxian/tile-crawler/internal/session"
	"github.com/aiwuxian/tile-crawler/internal/storage"
)

// sessionHeader is the header a client uses to identify its session; the
// boundary does no auth beyond this, per the session-id-only contract: the
// core never authenticates, it only ever scopes state to whatever id shows
// up here. Falls back to a query parameter and then a fixed id, so a single
// casual client (or a curl one-liner) still gets a working session without
// sending either.
const sessionHeader = "X-Session-ID"
const defaultSessionID = "default"

// Handler wires gin routes to one Engine per session, constructed fresh on
// every request from the Manager's live Session plus the process-wide item
// registry and game config — the Engine itself carries no state of its own
// beyond those, so there is nothing to cache here.
type Handler struct {
	Sessions *session.Manager
	Store    *storage.Storage
	Defs     map[string]models.ItemDefinition
	Config   models.GameConfig
}

func NewHandler(sessions *session.Manager, store *storage.Storage, defs map[string]models.ItemDefinition, cfg models.GameConfig) *Handler {
	return &Handler{Sessions: sessions, Store: store, Defs: defs, Config: cfg}
}

func sessionID(c *gin.Context) string {
	if id := c.GetHeader(sessionHeader); id != "" {
		return id
	}
	if id := c.Query("session_id"); id != "" {
		return id
	}
	return defaultSessionID
}

func (h *Handler) engineFor(c *gin.Context) *Engine {
	s := h.Sessions.GetOrCreate(sessionID(c))
	return NewEngine(s, h.Defs, h.Config)
}

// Health reports process liveness. Registered at both the root and
// /api/health paths since they return the identical body.
func (h *Handler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "online",
		"version": "0.1.0",
	})
}

// NewGame starts a brand-new run for the caller's session, discarding
// whatever was there before.
func (h *Handler) NewGame(c *gin.Context) {
	var req struct {
		PlayerName string `json:"player_name"`
	}
	_ = c.ShouldBindJSON(&req)
	if req.PlayerName == "" {
		req.PlayerName = "Adventurer"
	}

	s := h.Sessions.CreateNew(sessionID(c))
	engine := NewEngine(s, h.Defs, h.Config)
	resp := engine.NewGame(c.Request.Context(), req.PlayerName)
	resp.State = engine.GetGameState()
	c.JSON(http.StatusOK, resp)
}

// GetState returns the full current-state snapshot for the caller's
// session.
func (h *Handler) GetState(c *gin.Context) {
	engine := h.engineFor(c)
	c.JSON(http.StatusOK, engine.GetGameState())
}

// SaveGame persists the caller's session to a save slot, named by the
// optional slot body field, defaulting to storage.DefaultSlot.
func (h *Handler) SaveGame(c *gin.Context) {
	var req struct {
		Slot string `json:"slot"`
	}
	_ = c.ShouldBindJSON(&req)
	if req.Slot == "" {
		req.Slot = storage.DefaultSlot
	}

	engine := h.engineFor(c)
	if err := h.Store.Save(sessionID(c), req.Slot, engine.BuildSavePayload(), false); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "message": "game saved"})
}

// LoadGame restores the caller's session from a previously-saved slot,
// defaulting to storage.DefaultSlot.
func (h *Handler) LoadGame(c *gin.Context) {
	var req struct {
		Slot string `json:"slot"`
	}
	_ = c.ShouldBindJSON(&req)
	if req.Slot == "" {
		req.Slot = storage.DefaultSlot
	}

	payload, emergency, err := h.Store.Load(sessionID(c), req.Slot)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		return
	}

	s := h.Sessions.CreateNew(sessionID(c))
	engine := NewEngine(s, h.Defs, h.Config)
	if emergency {
		engine.RestoreEmergency(payload)
	} else {
		engine.RestoreFromPayload(payload)
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "game loaded",
		"state":   engine.GetGameState(),
	})
}

var validDirections = map[string]models.Direction{
	"north": models.North,
	"south": models.South,
	"east":  models.East,
	"west":  models.West,
	"up":    models.Up,
	"down":  models.Down,
}

func (h *Handler) move(c *gin.Context, direction string) {
	d, ok := validDirections[direction]
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid direction"})
		return
	}

	engine := h.engineFor(c)
	resp := engine.Move(c.Request.Context(), d)
	resp.State = engine.GetGameState()
	c.JSON(http.StatusOK, resp)
}

// Move moves the player in the direction named by the request body.
func (h *Handler) Move(c *gin.Context) {
	var req struct {
		Direction string `json:"direction" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	h.move(c, req.Direction)
}

func (h *Handler) MoveNorth(c *gin.Context) { h.move(c, "north") }
func (h *Handler) MoveSouth(c *gin.Context) { h.move(c, "south") }
func (h *Handler) MoveEast(c *gin.Context)  { h.move(c, "east") }
func (h *Handler) MoveWest(c *gin.Context)  { h.move(c, "west") }

// Attack resolves one round of combat against the session's active
// encounter.
func (h *Handler) Attack(c *gin.Context) {
	engine := h.engineFor(c)
	resp := engine.Attack(c.Request.Context())
	resp.State = engine.GetGameState()
	c.JSON(http.StatusOK, resp)
}

// Flee attempts to escape the session's active encounter.
func (h *Handler) Flee(c *gin.Context) {
	engine := h.engineFor(c)
	resp := engine.Flee(c.Request.Context())
	resp.State = engine.GetGameState()
	c.JSON(http.StatusOK, resp)
}

// TakeItem moves an item from the current room into the player's inventory.
func (h *Handler) TakeItem(c *gin.Context) {
	var req struct {
		ItemID string `json:"item_id" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	engine := h.engineFor(c)
	resp := engine.TakeItem(c.Request.Context(), req.ItemID)
	resp.State = engine.GetGameState()
	c.JSON(http.StatusOK, resp)
}

// UseItem consumes an item from the player's inventory.
func (h *Handler) UseItem(c *gin.Context) {
	var req struct {
		ItemID string `json:"item_id" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	engine := h.engineFor(c)
	resp := engine.UseItem(c.Request.Context(), req.ItemID)
	resp.State = engine.GetGameState()
	c.JSON(http.StatusOK, resp)
}

// GetInventory returns just the inventory/gold slice of the current state.
func (h *Handler) GetInventory(c *gin.Context) {
	engine := h.engineFor(c)
	state := engine.GetGameState()
	c.JSON(http.StatusOK, state["inventory"])
}

// Talk generates a dialogue exchange with the first NPC in the current
// room.
func (h *Handler) Talk(c *gin.Context) {
	var req struct {
		Message string `json:"message"`
	}
	_ = c.ShouldBindJSON(&req)

	engine := h.engineFor(c)
	resp := engine.Talk(c.Request.Context(), req.Message)
	resp.State = engine.GetGameState()
	c.JSON(http.StatusOK, resp)
}

// Rest restores the player to full health and mana in a safe room.
func (h *Handler) Rest(c *gin.Context) {
	engine := h.engineFor(c)
	resp := engine.Rest(c.Request.Context())
	resp.State = engine.GetGameState()
	c.JSON(http.StatusOK, resp)
}

// PerformAction is the generic action dispatch endpoint, routing a bare
// action name (plus optional target) via query parameters to the matching
// Engine method.
func (h *Handler) PerformAction(c *gin.Context) {
	action := c.Query("action")
	target := c.Query("target")
	ctx := c.Request.Context()
	engine := h.engineFor(c)

	var resp ActionResponse
	switch action {
	case "attack":
		resp = engine.Attack(ctx)
	case "flee":
		resp = engine.Flee(ctx)
	case "rest":
		resp = engine.Rest(ctx)
	case "take":
		resp = engine.TakeItem(ctx, target)
	case "use":
		resp = engine.UseItem(ctx, target)
	case "talk":
		resp = engine.Talk(ctx, target)
	case "move":
		d, ok := validDirections[target]
		if !ok {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid direction"})
			return
		}
		resp = engine.Move(ctx, d)
	default:
		c.JSON(http.StatusBadRequest, gin.H{"error": "unknown action"})
		return
	}

	resp.State = engine.GetGameState()
	c.JSON(http.StatusOK, resp)
}
