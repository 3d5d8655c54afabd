// Package api exposes the game over HTTP: a JSON endpoint for every
// player action plus a websocket stream of state snapshots.
package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"sync"
	"time"

	"car-flipper/internal/config"
	"car-flipper/internal/db"
	"car-flipper/internal/engine"

	"github.com/gorilla/websocket"
	"golang.org/x/sync/singleflight"
)

// Server is the HTTP API server that connects the game engine and the database.
type Server struct {
	cfg     *config.Config
	db      *db.DB
	started time.Time

	// The active game can be swapped by the save-slot endpoints, so the
	// pointer itself is guarded separately from the engine's own lock.
	gameMu sync.RWMutex
	game   *engine.Game
	slot   int

	// Coalesces concurrent market refresh requests into one roll.
	refresh singleflight.Group

	streamMu sync.Mutex
	streams  map[*websocket.Conn]bool
}

// NewServer creates a Server for the given game, bound to a save slot for
// autosave and race-history bookkeeping.
func NewServer(cfg *config.Config, database *db.DB, game *engine.Game, slot int) *Server {
	return &Server{
		cfg:     cfg,
		db:      database,
		game:    game,
		slot:    slot,
		started: time.Now(),
		streams: make(map[*websocket.Conn]bool),
	}
}

// Game returns the currently active game.
func (s *Server) Game() *engine.Game {
	s.gameMu.RLock()
	defer s.gameMu.RUnlock()
	return s.game
}

// Slot returns the save slot the active game is bound to.
func (s *Server) Slot() int {
	s.gameMu.RLock()
	defer s.gameMu.RUnlock()
	return s.slot
}

func (s *Server) setGame(game *engine.Game, slot int) {
	s.gameMu.Lock()
	s.game = game
	s.slot = slot
	s.gameMu.Unlock()
}

// Handler returns the HTTP handler with all API routes and CORS middleware.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /api/status", s.handleStatus)
	mux.HandleFunc("GET /api/state", s.handleState)
	mux.HandleFunc("GET /api/catalog", s.handleCatalog)
	// Market
	mux.HandleFunc("POST /api/market/refresh", s.handleMarketRefresh)
	mux.HandleFunc("POST /api/market/buy/{id}", s.handleBuyCar)
	mux.HandleFunc("POST /api/currency", s.handleSwitchCurrency)
	// Garage
	mux.HandleFunc("POST /api/garage/sell/{id}", s.handleSellCar)
	mux.HandleFunc("POST /api/garage/repair/{id}", s.handleRepair)
	mux.HandleFunc("POST /api/garage/tuning/{id}", s.handleTuning)
	mux.HandleFunc("POST /api/garage/cosmetic/{id}", s.handleCosmetic)
	mux.HandleFunc("POST /api/garage/slot", s.handleBuySlot)
	mux.HandleFunc("POST /api/garage/tier", s.handleUpgradeTier)
	mux.HandleFunc("POST /api/crew/{key}", s.handleHireCrew)
	// Racing
	mux.HandleFunc("POST /api/race/street", s.handleStreetRace)
	mux.HandleFunc("POST /api/race/league", s.handleLeagueRace)
	mux.HandleFunc("POST /api/league/season", s.handleNewSeason)
	mux.HandleFunc("GET /api/races", s.handleRecentRaces)
	mux.HandleFunc("GET /api/leaderboard", s.handleLeaderboard)
	// Casino
	mux.HandleFunc("POST /api/casino/slots/spin", s.handleSlotsSpin)
	mux.HandleFunc("POST /api/casino/slots/bonus", s.handleSlotsBonus)
	mux.HandleFunc("POST /api/casino/blackjack/deal", s.handleBlackjackDeal)
	mux.HandleFunc("POST /api/casino/blackjack/hit", s.handleBlackjackHit)
	mux.HandleFunc("POST /api/casino/blackjack/stand", s.handleBlackjackStand)
	// Saves
	mux.HandleFunc("GET /api/saves", s.handleListSaves)
	mux.HandleFunc("POST /api/saves/{slot}/save", s.handleSave)
	mux.HandleFunc("POST /api/saves/{slot}/load", s.handleLoad)
	mux.HandleFunc("POST /api/saves/{slot}/new", s.handleNewGame)
	mux.HandleFunc("DELETE /api/saves/{slot}", s.handleDeleteSave)
	// Debug hooks
	mux.HandleFunc("POST /api/dev/force-part-failure", s.handleForcePartFailure)
	mux.HandleFunc("POST /api/dev/force-scatter", s.handleForceScatter)
	// Live stream
	mux.HandleFunc("GET /api/stream", s.handleStream)
	return corsMiddleware(mux)
}

func corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type")
		if r.Method == "OPTIONS" {
			w.WriteHeader(204)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func writeJSON(w http.ResponseWriter, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, code int, msg string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(map[string]string{"error": msg})
}

// errStatus maps engine and db failures onto HTTP status codes.
func errStatus(err error) int {
	switch {
	case errors.Is(err, engine.ErrCarNotFound),
		errors.Is(err, engine.ErrListingNotFound),
		errors.Is(err, db.ErrNoSave):
		return http.StatusNotFound
	case errors.Is(err, engine.ErrBadInput):
		return http.StatusBadRequest
	case errors.Is(err, engine.ErrInsufficientFunds),
		errors.Is(err, engine.ErrGarageFull),
		errors.Is(err, engine.ErrAlreadyMaxed),
		errors.Is(err, engine.ErrAlreadyStock),
		errors.Is(err, engine.ErrAlreadyOwned),
		errors.Is(err, engine.ErrCarFailed),
		errors.Is(err, engine.ErrBusy),
		errors.Is(err, engine.ErrBadPhase):
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

// gameError writes the mapped status for an engine failure.
func gameError(w http.ResponseWriter, err error) {
	writeError(w, errStatus(err), err.Error())
}

func decodeBody(w http.ResponseWriter, r *http.Request, v interface{}) bool {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body: "+err.Error())
		return false
	}
	return true
}

// parseSlot reads the {slot} path value and range-checks it.
func parseSlot(w http.ResponseWriter, r *http.Request) (int, bool) {
	slot, err := strconv.Atoi(r.PathValue("slot"))
	if err != nil || slot < 0 || slot >= db.SaveSlotCount {
		writeError(w, http.StatusBadRequest, "slot must be in [0,"+strconv.Itoa(db.SaveSlotCount)+")")
		return 0, false
	}
	return slot, true
}

func (s *Server) handleStatus(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, map[string]interface{}{
		"version": s.cfg.Version,
		"alias":   s.Game().Alias(),
		"slot":    s.Slot(),
		"uptime":  time.Since(s.started).Round(time.Second).String(),
	})
}

func (s *Server) handleState(w http.ResponseWriter, r *http.Request) {
	state, err := s.Game().Snapshot()
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, state)
}
