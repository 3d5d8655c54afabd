package api

import "net/http"

func (s *Server) handleSlotsSpin(w http.ResponseWriter, r *http.Request) {
	var req struct {
		BetPerLine int64 `json:"bet_per_line"`
		Lines      int   `json:"lines"`
	}
	if !decodeBody(w, r, &req) {
		return
	}
	res, err := s.Game().SpinSlots(req.BetPerLine, req.Lines)
	if err != nil {
		gameError(w, err)
		return
	}
	s.Broadcast()
	writeJSON(w, res)
}

func (s *Server) handleSlotsBonus(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Choice int `json:"choice"`
	}
	if !decodeBody(w, r, &req) {
		return
	}
	res, err := s.Game().PickSlotsBonus(req.Choice)
	if err != nil {
		gameError(w, err)
		return
	}
	s.Broadcast()
	writeJSON(w, res)
}

func (s *Server) handleBlackjackDeal(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Stake int64 `json:"stake"`
	}
	if !decodeBody(w, r, &req) {
		return
	}
	view, err := s.Game().DealBlackjack(req.Stake)
	if err != nil {
		gameError(w, err)
		return
	}
	s.Broadcast()
	writeJSON(w, view)
}

func (s *Server) handleBlackjackHit(w http.ResponseWriter, r *http.Request) {
	view, err := s.Game().HitBlackjack()
	if err != nil {
		gameError(w, err)
		return
	}
	s.Broadcast()
	writeJSON(w, view)
}

func (s *Server) handleBlackjackStand(w http.ResponseWriter, r *http.Request) {
	view, err := s.Game().StandBlackjack()
	if err != nil {
		gameError(w, err)
		return
	}
	s.Broadcast()
	writeJSON(w, view)
}

// The force hooks arm one-shot overrides for manual testing of rare paths.

func (s *Server) handleForcePartFailure(w http.ResponseWriter, r *http.Request) {
	s.Game().ForcePartFailure()
	writeJSON(w, map[string]bool{"armed": true})
}

func (s *Server) handleForceScatter(w http.ResponseWriter, r *http.Request) {
	s.Game().ForceScatter()
	writeJSON(w, map[string]bool{"armed": true})
}
