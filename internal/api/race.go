package api

import (
	"net/http"
	"strconv"

	"car-flipper/internal/db"
	"car-flipper/internal/engine"
	"car-flipper/internal/logger"
)

func (s *Server) handleStreetRace(w http.ResponseWriter, r *http.Request) {
	var req struct {
		CarID   string `json:"car_id"`
		EventID string `json:"event_id"`
	}
	if !decodeBody(w, r, &req) {
		return
	}
	res, err := s.Game().StreetRace(req.CarID, req.EventID)
	if err != nil {
		gameError(w, err)
		return
	}
	s.recordRace(db.RaceKindStreet, req.CarID, res)
	s.Broadcast()
	writeJSON(w, res)
}

func (s *Server) handleLeagueRace(w http.ResponseWriter, r *http.Request) {
	var req struct {
		CarID string `json:"car_id"`
	}
	if !decodeBody(w, r, &req) {
		return
	}
	res, err := s.Game().LeagueRace(req.CarID)
	if err != nil {
		gameError(w, err)
		return
	}
	s.recordRace(db.RaceKindLeague, req.CarID, &res.RaceResult)
	s.updateLeaderboard()
	s.Broadcast()
	writeJSON(w, res)
}

func (s *Server) handleNewSeason(w http.ResponseWriter, r *http.Request) {
	if err := s.Game().NewLeagueSeason(); err != nil {
		gameError(w, err)
		return
	}
	s.updateLeaderboard()
	s.Broadcast()
	state, err := s.Game().Snapshot()
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, state)
}

func (s *Server) handleRecentRaces(w http.ResponseWriter, r *http.Request) {
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	records, err := s.db.RecentRaces(s.Slot(), limit)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, records)
}

func (s *Server) handleLeaderboard(w http.ResponseWriter, r *http.Request) {
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	board, err := s.db.Leaderboard(limit)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, board)
}

// recordRace persists a finished race. History is bookkeeping, so a db
// failure is logged and the response still goes out.
func (s *Server) recordRace(kind, carID string, res *engine.RaceResult) {
	state, err := s.Game().Snapshot()
	if err != nil {
		return
	}
	model := ""
	for _, c := range state.Cars {
		if c.ID == carID {
			model = c.Model
			break
		}
	}
	if err := s.db.RecordRace(s.Slot(), kind, model, res); err != nil {
		logger.Warn("DB", "Failed to record race: "+err.Error())
	}
}

// updateLeaderboard refreshes the player's leaderboard row from the
// current state. Net worth counts cash plus live car valuations.
func (s *Server) updateLeaderboard() {
	state, err := s.Game().Snapshot()
	if err != nil {
		return
	}
	netWorth := state.Money
	for _, c := range state.Cars {
		netWorth += c.Valuation
	}
	entry := db.LeaderboardEntry{
		Alias:      state.Alias,
		NetWorth:   netWorth,
		Level:      state.Level,
		Season:     state.League.Season,
		LeagueRank: state.League.Rank,
		Champion:   state.League.Champion,
	}
	if err := s.db.UpsertLeaderboard(entry); err != nil {
		logger.Warn("DB", "Failed to update leaderboard: "+err.Error())
	}
}
