package api

import (
	"net/http"

	"car-flipper/internal/catalog"
)

// handleCatalog serves the static game data the UI renders menus from.
func (s *Server) handleCatalog(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, map[string]interface{}{
		"parts":          catalog.Parts,
		"models":         catalog.Models,
		"tuning":         catalog.TuningOptions,
		"cosmetics":      catalog.CosmeticPackages,
		"garage_tiers":   catalog.GarageTiers,
		"crew":           catalog.CrewInvestments,
		"race_events":    catalog.RaceEvents,
		"league_ranks":   catalog.LeagueRanks,
		"currency_rates": catalog.CurrencyRates,
	})
}

// handleMarketRefresh rerolls the listings. Concurrent clicks are coalesced
// into a single roll so spamming the button cannot fast-forward days.
func (s *Server) handleMarketRefresh(w http.ResponseWriter, r *http.Request) {
	v, err, _ := s.refresh.Do("listings", func() (interface{}, error) {
		game := s.Game()
		game.RefreshListings()
		return game.Snapshot()
	})
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	s.Broadcast()
	writeJSON(w, v)
}

func (s *Server) handleBuyCar(w http.ResponseWriter, r *http.Request) {
	res, err := s.Game().BuyCar(r.PathValue("id"))
	if err != nil {
		gameError(w, err)
		return
	}
	s.Broadcast()
	writeJSON(w, res)
}

func (s *Server) handleSellCar(w http.ResponseWriter, r *http.Request) {
	res, err := s.Game().SellCar(r.PathValue("id"))
	if err != nil {
		gameError(w, err)
		return
	}
	s.Broadcast()
	writeJSON(w, res)
}

func (s *Server) handleRepair(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Part    string `json:"part"`
		Illegal bool   `json:"illegal"`
	}
	if !decodeBody(w, r, &req) {
		return
	}
	carID := r.PathValue("id")
	part := catalog.PartKey(req.Part)
	var err error
	var res interface{}
	if req.Illegal {
		res, err = s.Game().RepairIllegal(carID, part)
	} else {
		res, err = s.Game().RepairLegal(carID, part)
	}
	if err != nil {
		gameError(w, err)
		return
	}
	s.Broadcast()
	writeJSON(w, res)
}

func (s *Server) handleTuning(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Key   string `json:"key"`
		Reset bool   `json:"reset"`
	}
	if !decodeBody(w, r, &req) {
		return
	}
	carID := r.PathValue("id")
	key := catalog.TuningKey(req.Key)
	var err error
	var res interface{}
	if req.Reset {
		res, err = s.Game().ResetTuning(carID, key)
	} else {
		res, err = s.Game().UpgradeTuning(carID, key)
	}
	if err != nil {
		gameError(w, err)
		return
	}
	s.Broadcast()
	writeJSON(w, res)
}

func (s *Server) handleCosmetic(w http.ResponseWriter, r *http.Request) {
	var req struct {
		CosmeticID string `json:"cosmetic_id"`
	}
	if !decodeBody(w, r, &req) {
		return
	}
	if err := s.Game().InstallCosmetic(r.PathValue("id"), req.CosmeticID); err != nil {
		gameError(w, err)
		return
	}
	s.Broadcast()
	writeJSON(w, map[string]string{"installed": req.CosmeticID})
}

func (s *Server) handleBuySlot(w http.ResponseWriter, r *http.Request) {
	cost, err := s.Game().BuyGarageSlot()
	if err != nil {
		gameError(w, err)
		return
	}
	s.Broadcast()
	writeJSON(w, map[string]int64{"cost": cost})
}

func (s *Server) handleUpgradeTier(w http.ResponseWriter, r *http.Request) {
	cost, err := s.Game().UpgradeGarageTier()
	if err != nil {
		gameError(w, err)
		return
	}
	s.Broadcast()
	writeJSON(w, map[string]int64{"cost": cost})
}

func (s *Server) handleHireCrew(w http.ResponseWriter, r *http.Request) {
	key := catalog.CrewKey(r.PathValue("key"))
	if err := s.Game().HireCrew(key); err != nil {
		gameError(w, err)
		return
	}
	s.Broadcast()
	writeJSON(w, map[string]string{"hired": string(key)})
}

func (s *Server) handleSwitchCurrency(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Currency string `json:"currency"`
	}
	if !decodeBody(w, r, &req) {
		return
	}
	if err := s.Game().SwitchCurrency(req.Currency); err != nil {
		gameError(w, err)
		return
	}
	s.Broadcast()
	state, err := s.Game().Snapshot()
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, state)
}
