// Package world is the Intelligence Core's World State Store: the
// authoritative, seed-reproducible map of rooms, generated lazily on first
// visit and thereafter mutated (never regenerated) as the player acts on
// them.
package world

import (
	"fmt"
	"sync"

	"github.com/aiwuxian/tile-crawler/internal/models"
	"github.com/aiwuxian/tile-crawler/internal/outcome"
)

// Store owns a single World and serializes access to it. One Store exists
// per session (internal/session) and is never shared across sessions.
type Store struct {
	mu     sync.Mutex
	world  *models.World
	params GenerateParams
}

func NewStore(seed string, playerLevel, roomWidth, roomHeight int) *Store {
	return &Store{
		world: models.NewWorld(seed),
		params: GenerateParams{
			WorldSeed:   seed,
			Width:       roomWidth,
			Height:      roomHeight,
			PlayerLevel: playerLevel,
		},
	}
}

// World returns the underlying world for read-only inspection (e.g.
// persistence snapshotting). Callers must not mutate the returned value
// outside the Store's own methods.
func (s *Store) World() *models.World {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.world
}

// GetOrGenerateRoom returns the room at c, generating it on first access.
// Generation is deterministic from (seed, c), so concurrent callers racing
// on the same never-visited coordinate would still converge on the same
// room; the mutex just avoids duplicate work and torn map writes.
func (s *Store) GetOrGenerateRoom(c models.Coordinate) (*models.Room, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if r, ok := s.world.Room(c); ok {
		return r, false
	}

	neighbors := s.neighborRoomsLocked(c)
	room := GenerateRoom(c, s.params, neighbors)
	s.world.SetRoom(room)

	for _, nc := range ReconcileNeighborExits(c, room.Exits, neighbors) {
		if nr, ok := s.world.Room(nc); ok {
			if nr.Exits == nil {
				nr.Exits = make(map[models.Direction]bool)
			}
			nr.Exits[directionBack(nc, c)] = true
		}
	}

	return room, true
}

func directionBack(from, to models.Coordinate) models.Direction {
	for _, d := range models.AllDirections {
		if from.Move(d) == to {
			return d
		}
	}
	return models.North
}

func (s *Store) neighborRoomsLocked(c models.Coordinate) map[string]*models.Room {
	out := make(map[string]*models.Room)
	for _, d := range models.AllDirections {
		nc := c.Move(d)
		if r, ok := s.world.Room(nc); ok {
			out[nc.Key()] = r
		}
	}
	return out
}

// MovePlayer attempts to move the player one step in direction d. Returns a
// RecoverableError outcome (no state change) if the current room has no
// exit that way; otherwise generates the destination room if needed and
// updates PlayerAt.
func (s *Store) MovePlayer(d models.Direction) outcome.Result[*models.Room] {
	s.mu.Lock()
	current, ok := s.world.Room(s.world.PlayerAt)
	s.mu.Unlock()
	if !ok {
		return outcome.FatalResult[*models.Room]("current room missing from world state", nil)
	}
	if !current.HasExit(d) {
		return outcome.Recoverable[*models.Room](fmt.Sprintf("there is no way %s from here", d))
	}

	dest := s.world.PlayerAt.Move(d)
	room, _ := s.GetOrGenerateRoom(dest)

	s.mu.Lock()
	s.world.PlayerAt = dest
	room.Visited = true
	s.mu.Unlock()

	return outcome.OkResult(room)
}

// ApplyRoomChange mutates the target room per change.Kind and appends the
// change to its history. Idempotent for ChangeTileReplace (re-applying the
// same glyph at the same coordinate is a no-op); ChangeItemRemoved and
// ChangeEnemyRemoved are conflict-checked so replaying a change log never
// double-removes.
func (s *Store) ApplyRoomChange(c models.Coordinate, change models.RoomChange) outcome.Result[*models.Room] {
	s.mu.Lock()
	defer s.mu.Unlock()

	room, ok := s.world.Room(c)
	if !ok {
		return outcome.Recoverable[*models.Room]("no room generated at that coordinate yet")
	}

	switch change.Kind {
	case models.ChangeTileReplace:
		width, height := room.Grid.Dimensions()
		if change.TileY < 0 || change.TileY >= height || change.TileX < 0 || change.TileX >= width {
			return outcome.Recoverable[*models.Room]("tile coordinate out of bounds")
		}
		room.Grid[change.TileY][change.TileX] = change.NewGlyph
	case models.ChangeItemRemoved:
		if _, found := room.RemoveItem(change.RefID); !found {
			return outcome.OkResult(room) // already removed, idempotent no-op
		}
	case models.ChangeItemAdded:
		room.Items = append(room.Items, models.ItemInstance{DefinitionID: change.RefID, Quantity: 1})
	case models.ChangeEnemyRemoved:
		for i, e := range room.Enemies {
			if e.ID == change.RefID {
				room.RemoveEnemy(i)
				break
			}
		}
	case models.ChangeFlagSet:
		if room.Features == nil {
			room.Features = make(map[string]bool)
		}
		room.Features[change.RefID] = change.Value == "true"
	default:
		return outcome.Recoverable[*models.Room]("unknown room change kind")
	}

	room.Changes = append(room.Changes, change)
	return outcome.OkResult(room)
}

// Snapshot captures enough of the world to round-trip through persistence:
// seed, player position, discovered set, and every generated room. Rooms
// generated purely from the seed are still included verbatim rather than
// re-derived at load time, since post-generation mutations (RoomChange
// history, enrichment) are not reconstructible from the seed alone.
type Snapshot struct {
	Seed       string
	PlayerAt   models.Coordinate
	Rooms      map[string]*models.Room
	Discovered map[string]bool
}

func (s *Store) TakeSnapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()

	rooms := make(map[string]*models.Room, len(s.world.Rooms))
	for k, r := range s.world.Rooms {
		rooms[k] = r
	}
	discovered := make(map[string]bool, len(s.world.Discovered))
	for k, v := range s.world.Discovered {
		discovered[k] = v
	}

	return Snapshot{
		Seed:       s.world.Seed,
		PlayerAt:   s.world.PlayerAt,
		Rooms:      rooms,
		Discovered: discovered,
	}
}

func (s *Store) Restore(snap Snapshot) {
	s.mu.Lock()
	defer s.mu.Unlock()

	w := models.NewWorld(snap.Seed)
	w.PlayerAt = snap.PlayerAt
	for k, r := range snap.Rooms {
		w.Rooms[k] = r
	}
	for k, v := range snap.Discovered {
		w.Discovered[k] = v
	}
	s.world = w
	s.params.WorldSeed = snap.Seed
}
