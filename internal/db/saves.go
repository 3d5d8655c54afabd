package db

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"car-flipper/internal/engine"
)

// SaveSlotCount is the number of player-visible save slots.
const SaveSlotCount = 3

// ErrNoSave is returned when a slot holds no savegame.
var ErrNoSave = errors.New("no save in slot")

// SaveSummary is the slot metadata shown on the load screen.
type SaveSummary struct {
	Slot       int       `json:"slot"`
	Alias      string    `json:"alias"`
	Day        int       `json:"day"`
	Level      int       `json:"level"`
	Money      int64     `json:"money"`
	Currency   string    `json:"currency"`
	Difficulty string    `json:"difficulty"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

func validSlot(slot int) error {
	if slot < 0 || slot >= SaveSlotCount {
		return fmt.Errorf("slot %d out of range [0,%d)", slot, SaveSlotCount)
	}
	return nil
}

// SaveState writes the full game state into a slot, replacing whatever
// was there.
func (d *DB) SaveState(slot int, state *engine.State) error {
	if err := validSlot(slot); err != nil {
		return err
	}
	raw, err := json.Marshal(state)
	if err != nil {
		return fmt.Errorf("marshal state: %w", err)
	}
	now := time.Now().UTC().Format(time.RFC3339)
	created := state.CreatedAt.UTC().Format(time.RFC3339)
	_, err = d.sql.Exec(`
		INSERT INTO save_slots (slot, alias, day, level, money, currency, difficulty, state_json, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(slot) DO UPDATE SET
			alias = excluded.alias,
			day = excluded.day,
			level = excluded.level,
			money = excluded.money,
			currency = excluded.currency,
			difficulty = excluded.difficulty,
			state_json = excluded.state_json,
			updated_at = excluded.updated_at
	`, slot, state.Alias, state.Day, state.Level, state.Money, state.Currency, state.Difficulty, string(raw), created, now)
	if err != nil {
		return fmt.Errorf("save slot %d: %w", slot, err)
	}
	return nil
}

// LoadState reads and normalizes the game state stored in a slot.
func (d *DB) LoadState(slot int) (*engine.State, error) {
	if err := validSlot(slot); err != nil {
		return nil, err
	}
	var raw string
	err := d.sql.QueryRow("SELECT state_json FROM save_slots WHERE slot = ?", slot).Scan(&raw)
	if err == sql.ErrNoRows {
		return nil, ErrNoSave
	}
	if err != nil {
		return nil, fmt.Errorf("load slot %d: %w", slot, err)
	}
	var state engine.State
	if err := json.Unmarshal([]byte(raw), &state); err != nil {
		return nil, fmt.Errorf("decode slot %d: %w", slot, err)
	}
	state.Normalize()
	return &state, nil
}

// DeleteSave clears a slot. Deleting an empty slot is not an error.
func (d *DB) DeleteSave(slot int) error {
	if err := validSlot(slot); err != nil {
		return err
	}
	if _, err := d.sql.Exec("DELETE FROM save_slots WHERE slot = ?", slot); err != nil {
		return fmt.Errorf("delete slot %d: %w", slot, err)
	}
	return nil
}

// ListSaves returns summaries for every occupied slot, ordered by slot.
func (d *DB) ListSaves() ([]SaveSummary, error) {
	rows, err := d.sql.Query(`
		SELECT slot, alias, day, level, money, currency, difficulty, created_at, updated_at
		FROM save_slots ORDER BY slot
	`)
	if err != nil {
		return nil, fmt.Errorf("list saves: %w", err)
	}
	defer rows.Close()

	var out []SaveSummary
	for rows.Next() {
		var s SaveSummary
		var created, updated string
		if err := rows.Scan(&s.Slot, &s.Alias, &s.Day, &s.Level, &s.Money, &s.Currency, &s.Difficulty, &created, &updated); err != nil {
			return nil, fmt.Errorf("scan save row: %w", err)
		}
		s.CreatedAt, _ = time.Parse(time.RFC3339, created)
		s.UpdatedAt, _ = time.Parse(time.RFC3339, updated)
		out = append(out, s)
	}
	return out, rows.Err()
}
