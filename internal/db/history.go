package db

import (
	"fmt"
	"time"

	"car-flipper/internal/engine"
)

// Race kinds recorded in race_history.
const (
	RaceKindStreet = "street"
	RaceKindLeague = "league"
)

// RaceRecord is one persisted race result.
type RaceRecord struct {
	ID         int64     `json:"id"`
	Slot       int       `json:"slot"`
	Timestamp  time.Time `json:"timestamp"`
	Kind       string    `json:"kind"`
	EventID    string    `json:"event_id"`
	CarModel   string    `json:"car_model"`
	CarPerf    int       `json:"car_perf"`
	Won        bool      `json:"won"`
	FailedPart string    `json:"failed_part,omitempty"`
	EntryFee   int64     `json:"entry_fee"`
	Prize      int64     `json:"prize"`
}

// RecordRace appends a race result for a slot.
func (d *DB) RecordRace(slot int, kind, carModel string, res *engine.RaceResult) error {
	if err := validSlot(slot); err != nil {
		return err
	}
	won := 0
	if res.Outcome.Win {
		won = 1
	}
	_, err := d.sql.Exec(`
		INSERT INTO race_history (slot, timestamp, kind, event_id, car_model, car_perf, won, failed_part, entry_fee, prize)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, slot, time.Now().UTC().Format(time.RFC3339), kind, res.EventID, carModel, res.CarPerf,
		won, string(res.Outcome.FailedPart), res.EntryFee, res.Prize)
	if err != nil {
		return fmt.Errorf("record race: %w", err)
	}
	return nil
}

// RecentRaces returns the newest race records for a slot, newest first.
func (d *DB) RecentRaces(slot, limit int) ([]RaceRecord, error) {
	if err := validSlot(slot); err != nil {
		return nil, err
	}
	if limit <= 0 {
		limit = 25
	}
	rows, err := d.sql.Query(`
		SELECT id, slot, timestamp, kind, event_id, car_model, car_perf, won, failed_part, entry_fee, prize
		FROM race_history WHERE slot = ? ORDER BY id DESC LIMIT ?
	`, slot, limit)
	if err != nil {
		return nil, fmt.Errorf("recent races: %w", err)
	}
	defer rows.Close()

	var out []RaceRecord
	for rows.Next() {
		var r RaceRecord
		var ts string
		var won int
		if err := rows.Scan(&r.ID, &r.Slot, &ts, &r.Kind, &r.EventID, &r.CarModel, &r.CarPerf, &won, &r.FailedPart, &r.EntryFee, &r.Prize); err != nil {
			return nil, fmt.Errorf("scan race row: %w", err)
		}
		r.Timestamp, _ = time.Parse(time.RFC3339, ts)
		r.Won = won == 1
		out = append(out, r)
	}
	return out, rows.Err()
}

// LeaderboardEntry is one row of the local leaderboard.
type LeaderboardEntry struct {
	Alias      string    `json:"alias"`
	NetWorth   int64     `json:"net_worth"`
	Level      int       `json:"level"`
	Season     int       `json:"season"`
	LeagueRank int       `json:"league_rank"`
	Champion   bool      `json:"champion"`
	UpdatedAt  time.Time `json:"updated_at"`
}

// UpsertLeaderboard records a player's current standing, keyed by alias.
func (d *DB) UpsertLeaderboard(e LeaderboardEntry) error {
	champion := 0
	if e.Champion {
		champion = 1
	}
	_, err := d.sql.Exec(`
		INSERT INTO leaderboard (alias, net_worth, level, season, league_rank, champion, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(alias) DO UPDATE SET
			net_worth = excluded.net_worth,
			level = excluded.level,
			season = excluded.season,
			league_rank = excluded.league_rank,
			champion = excluded.champion,
			updated_at = excluded.updated_at
	`, e.Alias, e.NetWorth, e.Level, e.Season, e.LeagueRank, champion, time.Now().UTC().Format(time.RFC3339))
	if err != nil {
		return fmt.Errorf("upsert leaderboard: %w", err)
	}
	return nil
}

// Leaderboard returns entries ordered by net worth, richest first.
func (d *DB) Leaderboard(limit int) ([]LeaderboardEntry, error) {
	if limit <= 0 {
		limit = 10
	}
	rows, err := d.sql.Query(`
		SELECT alias, net_worth, level, season, league_rank, champion, updated_at
		FROM leaderboard ORDER BY net_worth DESC LIMIT ?
	`, limit)
	if err != nil {
		return nil, fmt.Errorf("leaderboard: %w", err)
	}
	defer rows.Close()

	var out []LeaderboardEntry
	for rows.Next() {
		var e LeaderboardEntry
		var ts string
		var champion int
		if err := rows.Scan(&e.Alias, &e.NetWorth, &e.Level, &e.Season, &e.LeagueRank, &champion, &ts); err != nil {
			return nil, fmt.Errorf("scan leaderboard row: %w", err)
		}
		e.Champion = champion == 1
		e.UpdatedAt, _ = time.Parse(time.RFC3339, ts)
		out = append(out, e)
	}
	return out, rows.Err()
}
