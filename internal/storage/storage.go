// Package storage persists one session's game state as a single versioned,
// checksummed JSON blob per save slot: one row per (session, slot), plus a
// checksum and a migration chain keyed by schema version.
package storage

import (
	"crypto/sha256"
	"database/sql"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/aiwuxian/tile-crawler/internal/models"
	"github.com/aiwuxian/tile-crawler/internal/narrative"
	"github.com/aiwuxian/tile-crawler/internal/world"
	_ "modernc.org/sqlite"
)

// CurrentVersion is the save payload's schema version. Bump it and add an
// entry to migrations, keyed by the version being upgraded from, whenever
// Payload's shape changes incompatibly.
const CurrentVersion = 1

// DefaultSlot is the slot name used when a caller names none.
const DefaultSlot = "default"

// AutosaveSlot is the slot the periodic emergency autosave writes to,
// separate from any player-named manual save slot.
const AutosaveSlot = "autosave"

// Payload is everything one save captures, collapsed into a single blob
// since nothing here ever queries a save's fields individually — every
// read loads the whole thing back into a session in one shot.
type Payload struct {
	Version           int                `json:"version"`
	PlayerName        string             `json:"player_name"`
	World             world.Snapshot     `json:"world"`
	Narrative         narrative.Snapshot `json:"narrative"`
	Player            *models.Player     `json:"player"`
	Quest             *models.Quest      `json:"quest,omitempty"`
	ActiveDialogueNPC string             `json:"active_dialogue_npc,omitempty"`
	PlaytimeSeconds   int64              `json:"playtime_seconds"`
}

type Storage struct {
	db *sql.DB
}

func New(dbPath string) (*Storage, error) {
	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("create data directory: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	s := &Storage{db: db}
	if err := s.initSchema(); err != nil {
		return nil, fmt.Errorf("init schema: %w", err)
	}

	return s, nil
}

func (s *Storage) initSchema() error {
	schema := `
	CREATE TABLE IF NOT EXISTS saves (
		session_id TEXT NOT NULL,
		slot TEXT NOT NULL DEFAULT 'default',
		version INTEGER NOT NULL,
		checksum TEXT NOT NULL,
		emergency INTEGER NOT NULL DEFAULT 0,
		payload TEXT NOT NULL,
		created_at DATETIME NOT NULL,
		PRIMARY KEY (session_id, slot)
	);
	`
	_, err := s.db.Exec(schema)
	return err
}

func (s *Storage) Close() error {
	return s.db.Close()
}

func checksum(payload []byte) string {
	sum := sha256.Sum256(payload)
	return hex.EncodeToString(sum[:])
}

// migrations upgrades a payload's raw JSON from the version it was saved
// under towards CurrentVersion, one step at a time, keyed by the source
// version. Empty until a schema change actually ships one — CurrentVersion
// is still the first version this repo has ever written.
var migrations = map[int]func(json.RawMessage) (json.RawMessage, error){}

// Save writes payload's JSON encoding to slot for sessionID, stamping it
// with a content checksum that Load later refuses to skip. emergency marks
// a reduced-fidelity autosave; Load reports the flag back so the caller can
// route a reduced-fidelity payload through the matching restore path.
func (s *Storage) Save(sessionID, slot string, payload Payload, emergency bool) error {
	payload.Version = CurrentVersion
	raw, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("marshal save payload: %w", err)
	}

	_, err = s.db.Exec(`
		INSERT INTO saves (session_id, slot, version, checksum, emergency, payload, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(session_id, slot) DO UPDATE SET
			version=excluded.version, checksum=excluded.checksum,
			emergency=excluded.emergency, payload=excluded.payload, created_at=excluded.created_at
	`, sessionID, slot, CurrentVersion, checksum(raw), emergency, string(raw), time.Now())

	return err
}

// Load reads slot's save for sessionID, verifying the stored checksum
// before unmarshaling. A payload that fails verification is reported as an
// error rather than silently returned, since a corrupted save is worse than
// no save. The returned bool reports whether the save was written with
// emergency=true, so the caller can dispatch to a reduced-fidelity restore.
func (s *Storage) Load(sessionID, slot string) (Payload, bool, error) {
	row, err := s.loadRow(sessionID, slot)
	if err != nil {
		return Payload{}, false, err
	}
	payload, err := row.decode()
	return payload, row.emergency, err
}

type saveRow struct {
	version   int
	checksum  string
	raw       string
	emergency bool
}

func (s *Storage) loadRow(sessionID, slot string) (saveRow, error) {
	var row saveRow
	err := s.db.QueryRow(`
		SELECT version, checksum, payload, emergency FROM saves WHERE session_id = ? AND slot = ?
	`, sessionID, slot).Scan(&row.version, &row.checksum, &row.raw, &row.emergency)
	if err != nil {
		return saveRow{}, fmt.Errorf("load save: %w", err)
	}
	return row, nil
}

func (r saveRow) decode() (Payload, error) {
	if checksum([]byte(r.raw)) != r.checksum {
		return Payload{}, fmt.Errorf("save failed checksum verification")
	}

	body := json.RawMessage(r.raw)
	version := r.version
	for version < CurrentVersion {
		migrate, ok := migrations[version]
		if !ok {
			return Payload{}, fmt.Errorf("no migration registered from save version %d", version)
		}
		var err error
		body, err = migrate(body)
		if err != nil {
			return Payload{}, fmt.Errorf("migrate save from version %d: %w", version, err)
		}
		version++
	}

	var payload Payload
	if err := json.Unmarshal(body, &payload); err != nil {
		return Payload{}, fmt.Errorf("unmarshal save payload: %w", err)
	}
	return payload, nil
}

// Delete removes a save slot, reporting whether one existed.
func (s *Storage) Delete(sessionID, slot string) (bool, error) {
	res, err := s.db.Exec(`DELETE FROM saves WHERE session_id = ? AND slot = ?`, sessionID, slot)
	if err != nil {
		return false, err
	}
	n, _ := res.RowsAffected()
	return n > 0, nil
}

// ListSlots returns every slot saved for sessionID, most recently saved
// first.
func (s *Storage) ListSlots(sessionID string) ([]string, error) {
	rows, err := s.db.Query(`
		SELECT slot FROM saves WHERE session_id = ? ORDER BY created_at DESC
	`, sessionID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var slots []string
	for rows.Next() {
		var slot string
		if err := rows.Scan(&slot); err != nil {
			continue
		}
		slots = append(slots, slot)
	}
	return slots, nil
}
