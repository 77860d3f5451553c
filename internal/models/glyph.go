package models

// Glyph is an opaque symbol identifier drawn from the fixed codepoint space
// the rendering layer and the core share. The legend mapping glyph -> semantic
// attributes is immutable for the lifetime of a run.
type Glyph uint16

// Legend ranges. Stable across a run; rendering pixels is out of scope here,
// only the semantic attributes the core needs to reason about tiles.
const (
	GlyphVoid Glyph = 0x0000 // unassigned / out of bounds

	// Terrain (0x0010-0x001F)
	GlyphFloor Glyph = 0x0010
	GlyphWater Glyph = 0x0011
	GlyphLava  Glyph = 0x0012
	GlyphChasm Glyph = 0x0013

	// Walls (0x0020-0x002F)
	GlyphWall        Glyph = 0x0020
	GlyphWallCracked Glyph = 0x0021
	GlyphWallRune    Glyph = 0x0022

	// Doors (0x0030-0x003F)
	GlyphDoorClosed Glyph = 0x0030
	GlyphDoorOpen   Glyph = 0x0031
	GlyphDoorLocked Glyph = 0x0032

	// Props (0x0040-0x004F)
	GlyphTorch       Glyph = 0x0040
	GlyphAltar       Glyph = 0x0041
	GlyphChestClosed Glyph = 0x0042
	GlyphChestOpen   Glyph = 0x0043
	GlyphTrap        Glyph = 0x0044
	GlyphStairsUp    Glyph = 0x0045
	GlyphStairsDown  Glyph = 0x0046

	// Entities (0x0050-0x005F)
	GlyphPlayer Glyph = 0x0050
	GlyphEnemy  Glyph = 0x0051
	GlyphBoss   Glyph = 0x0052
	GlyphNPC    Glyph = 0x0053

	// Items (0x0060-0x006F)
	GlyphItem Glyph = 0x0060
)

// TileAttributes describes the semantic meaning of a glyph: whether the
// player can walk onto it, whether it blocks line of sight / projectiles,
// and whether it can be interacted with (doors, chests, altars...).
type TileAttributes struct {
	Walkable     bool
	Solid        bool
	Interactable bool
	Kind         string
}

// Legend is the immutable glyph -> attribute mapping for a run.
type Legend map[Glyph]TileAttributes

// DefaultLegend returns the built-in glyph legend used when no custom legend
// is configured. It is never mutated during a run.
func DefaultLegend() Legend {
	return Legend{
		GlyphVoid:        {Walkable: false, Solid: true, Kind: "void"},
		GlyphFloor:       {Walkable: true, Kind: "floor"},
		GlyphWater:       {Walkable: true, Kind: "water"},
		GlyphLava:        {Walkable: false, Solid: false, Kind: "lava"},
		GlyphChasm:       {Walkable: false, Solid: false, Kind: "chasm"},
		GlyphWall:        {Walkable: false, Solid: true, Kind: "wall"},
		GlyphWallCracked: {Walkable: false, Solid: true, Kind: "wall"},
		GlyphWallRune:    {Walkable: false, Solid: true, Interactable: true, Kind: "wall"},
		GlyphDoorClosed:  {Walkable: false, Solid: true, Interactable: true, Kind: "door"},
		GlyphDoorOpen:    {Walkable: true, Interactable: true, Kind: "door"},
		GlyphDoorLocked:  {Walkable: false, Solid: true, Interactable: true, Kind: "door"},
		GlyphTorch:       {Walkable: false, Solid: true, Kind: "prop"},
		GlyphAltar:       {Walkable: false, Solid: true, Interactable: true, Kind: "prop"},
		GlyphChestClosed: {Walkable: false, Solid: true, Interactable: true, Kind: "prop"},
		GlyphChestOpen:   {Walkable: false, Solid: true, Kind: "prop"},
		GlyphTrap:        {Walkable: true, Interactable: true, Kind: "prop"},
		GlyphStairsUp:    {Walkable: true, Interactable: true, Kind: "prop"},
		GlyphStairsDown:  {Walkable: true, Interactable: true, Kind: "prop"},
		GlyphPlayer:      {Walkable: true, Kind: "entity"},
		GlyphEnemy:       {Walkable: true, Kind: "entity"},
		GlyphBoss:        {Walkable: true, Kind: "entity"},
		GlyphNPC:         {Walkable: true, Kind: "entity"},
		GlyphItem:        {Walkable: true, Kind: "item"},
	}
}

// IsKnown reports whether g has an entry in the legend.
func (l Legend) IsKnown(g Glyph) bool {
	_, ok := l[g]
	return ok
}

func (l Legend) Walkable(g Glyph) bool {
	attr, ok := l[g]
	return ok && attr.Walkable
}
