package models

import "time"

// Grid is a rectangular 2D glyph grid. Row 0 is the north edge.
type Grid [][]Glyph

// Rectangular reports whether every row has the same length.
func (g Grid) Rectangular() bool {
	if len(g) == 0 {
		return true
	}
	width := len(g[0])
	for _, row := range g {
		if len(row) != width {
			return false
		}
	}
	return true
}

func (g Grid) Dimensions() (width, height int) {
	if len(g) == 0 {
		return 0, 0
	}
	return len(g[0]), len(g)
}

// Clone returns a deep copy of the grid so mutations never alias shared state.
func (g Grid) Clone() Grid {
	out := make(Grid, len(g))
	for i, row := range g {
		out[i] = append(Grid{row}[0][:0:0], row...)
	}
	return out
}

// RoomChangeKind identifies the category of a tile mutation applied to an
// already-generated room.
type RoomChangeKind string

const (
	ChangeTileReplace  RoomChangeKind = "tile_replace"
	ChangeItemRemoved  RoomChangeKind = "item_removed"
	ChangeItemAdded    RoomChangeKind = "item_added"
	ChangeEnemyRemoved RoomChangeKind = "enemy_removed"
	ChangeFlagSet      RoomChangeKind = "flag_set"
)

// RoomChange records a single mutation applied to a room after generation,
// enabling replay. Kind determines idempotence semantics: ChangeTileReplace
// is idempotent (re-applying the same replacement is a no-op), while
// ChangeItemRemoved/ChangeEnemyRemoved are conflict-checked against current
// room contents on re-application.
type RoomChange struct {
	Kind      RoomChangeKind
	TileX     int
	TileY     int
	NewGlyph  Glyph
	RefID     string // item id, enemy id, or flag name depending on Kind
	Value     string // flag value, when Kind == ChangeFlagSet
	AppliedAt time.Time
}

// Biome tags the generation template and atmosphere of a room.
type Biome string

const (
	BiomeDungeon Biome = "dungeon"
	BiomeCave    Biome = "cave"
	BiomeCrypt   Biome = "crypt"
	BiomeRuins   Biome = "ruins"
	BiomeTemple  Biome = "temple"
	BiomeForest  Biome = "forest"
	BiomeVolcano Biome = "volcano"
	BiomeVoid    Biome = "void"
)

// Room is addressed by a Coordinate and holds every piece of mutable and
// immutable state associated with that location. Generated exactly once per
// coordinate per world; thereafter mutated, never regenerated.
type Room struct {
	Coordinate  Coordinate
	Grid        Grid
	Biome       Biome
	Exits       map[Direction]bool
	Description string
	Atmosphere  string
	PointsOfInterest []string
	AudioHint   string
	Items       []ItemInstance
	Enemies     []EnemyInstance
	NPCs        []NPCInstance
	Features    map[string]bool // campfire, altar, shop, ...
	Visited     bool
	Cleared     bool
	Changes     []RoomChange
	GeneratedAt time.Time

	// Enriched is true once a ROOM_DESCRIPTION request (on first visit or
	// from a prefetch task) has replaced the procedural placeholder
	// description. Tiles and exits are never touched by it, only
	// Description/Atmosphere/PointsOfInterest/AudioHint.
	Enriched bool
}

// HasExit reports whether the room has an exit in the given direction.
func (r *Room) HasExit(d Direction) bool {
	if r.Exits == nil {
		return false
	}
	return r.Exits[d]
}

// RemoveEnemy removes the enemy at index i, returning the removed instance.
// The caller is responsible for bounds-checking.
func (r *Room) RemoveEnemy(i int) EnemyInstance {
	removed := r.Enemies[i]
	r.Enemies = append(r.Enemies[:i], r.Enemies[i+1:]...)
	if len(r.Enemies) == 0 {
		r.Cleared = true
	}
	return removed
}

// RemoveItem removes and returns the item instance with the given definition
// id, if present.
func (r *Room) RemoveItem(id string) (ItemInstance, bool) {
	for i, it := range r.Items {
		if it.DefinitionID == id {
			removed := it
			r.Items = append(r.Items[:i], r.Items[i+1:]...)
			return removed, true
		}
	}
	return ItemInstance{}, false
}
