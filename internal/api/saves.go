package api

import (
	"net/http"

	"car-flipper/internal/db"
	"car-flipper/internal/engine"
	"car-flipper/internal/logger"
)

func (s *Server) handleListSaves(w http.ResponseWriter, r *http.Request) {
	saves, err := s.db.ListSaves()
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	if saves == nil {
		saves = []db.SaveSummary{}
	}
	writeJSON(w, saves)
}

func (s *Server) handleSave(w http.ResponseWriter, r *http.Request) {
	slot, ok := parseSlot(w, r)
	if !ok {
		return
	}
	state, err := s.Game().Snapshot()
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	if err := s.db.SaveState(slot, state); err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	logger.Success("SAVE", "Saved "+state.Alias+" to slot "+r.PathValue("slot"))
	writeJSON(w, map[string]int{"slot": slot})
}

func (s *Server) handleLoad(w http.ResponseWriter, r *http.Request) {
	slot, ok := parseSlot(w, r)
	if !ok {
		return
	}
	state, err := s.db.LoadState(slot)
	if err != nil {
		gameError(w, err)
		return
	}
	s.setGame(engine.New(state, nil), slot)
	logger.Success("SAVE", "Loaded "+state.Alias+" from slot "+r.PathValue("slot"))
	s.Broadcast()
	writeJSON(w, state)
}

func (s *Server) handleNewGame(w http.ResponseWriter, r *http.Request) {
	slot, ok := parseSlot(w, r)
	if !ok {
		return
	}
	var req struct {
		Alias      string `json:"alias"`
		Difficulty string `json:"difficulty"`
		Currency   string `json:"currency"`
	}
	if !decodeBody(w, r, &req) {
		return
	}
	if req.Alias == "" {
		req.Alias = s.cfg.DefaultAlias
	}
	if req.Difficulty == "" {
		req.Difficulty = s.cfg.DefaultDifficulty
	}
	if req.Currency == "" {
		req.Currency = s.cfg.DefaultCurrency
	}
	game := engine.NewGame(req.Alias, req.Difficulty, req.Currency, nil)
	state, err := game.Snapshot()
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	if err := s.db.SaveState(slot, state); err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	s.setGame(game, slot)
	logger.Success("SAVE", "New game for "+req.Alias+" in slot "+r.PathValue("slot"))
	s.Broadcast()
	writeJSON(w, state)
}

func (s *Server) handleDeleteSave(w http.ResponseWriter, r *http.Request) {
	slot, ok := parseSlot(w, r)
	if !ok {
		return
	}
	if err := s.db.DeleteSave(slot); err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, map[string]int{"deleted": slot})
}
