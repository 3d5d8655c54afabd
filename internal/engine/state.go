package engine

import (
	"time"

	"car-flipper/internal/catalog"

	"github.com/google/uuid"
)

// CurrentSchemaVersion is bumped whenever the shape of State changes in a
// way Normalize has to repair.
const CurrentSchemaVersion = 2

const (
	priceHistoryMax   = 60
	activityLogMax    = 60
	leagueHistoryMax  = 25
	casinoHistoryMax  = 100
	maxHeat           = 100
	heatEventFloor    = 75
	listingSeedPoints = 30
)

// Car is one vehicle in the garage or on the market, with its own part
// conditions, tuning stages, and valuation history.
type Car struct {
	ID          string                      `json:"id"`
	Model       string                      `json:"model"`
	BasePrice   int64                       `json:"base_price"`
	BasePerf    int                         `json:"base_perf"`
	BoughtPrice int64                       `json:"bought_price"`
	Condition   map[catalog.PartKey]float64 `json:"condition"`
	Tuning      map[catalog.TuningKey]int   `json:"tuning"`
	Cosmetics   []string                    `json:"cosmetics"`
	Valuation   int64                       `json:"valuation"`
	History     []int64                     `json:"history"`
	Failed      bool                        `json:"failed"`
}

// Listing is a market offer: a car plus its asking price and the recent
// price track shown on the listing chart.
type Listing struct {
	Car          `json:"car"`
	Price        int64   `json:"price"`
	PriceHistory []int64 `json:"price_history"`
}

// TrendSeries is the rolling demand index for one car model.
type TrendSeries struct {
	Index   int64   `json:"index"`
	History []int64 `json:"history"`
}

// LeagueState tracks progress through the underground league ladder.
type LeagueState struct {
	Rank           int             `json:"rank"`
	Match          int             `json:"match"`
	LossStreak     int             `json:"loss_streak"`
	CompletedRanks map[string]bool `json:"completed_ranks"`
	Champion       bool            `json:"champion"`
	Season         int             `json:"season"`
}

// LeagueResult is one finished league match, kept for the history screen.
type LeagueResult struct {
	Season   int       `json:"season"`
	RankID   string    `json:"rank_id"`
	Opponent int       `json:"opponent"`
	Won      bool      `json:"won"`
	Failed   string    `json:"failed_part,omitempty"`
	Payout   int64     `json:"payout"`
	At       time.Time `json:"at"`
}

// SlotsSession holds the live slot machine state.
type SlotsSession struct {
	Spinning      bool       `json:"spinning"`
	FreeSpins     int        `json:"free_spins"`
	ForceScatter  bool       `json:"force_scatter"`
	BonusOptions  []int      `json:"bonus_options,omitempty"`
	PendingBet    int64      `json:"pending_bet,omitempty"`
	PendingStake  int64      `json:"pending_stake,omitempty"`
	PendingWin    int64      `json:"pending_win,omitempty"`
	LastGrid      [][]string `json:"last_grid,omitempty"`
	Recent        []int64    `json:"recent"`
	TotalWinnings int64      `json:"total_winnings"`
}

// Card is a single playing card. Rank is one of A,2..10,J,Q,K.
type Card struct {
	Rank string `json:"rank"`
	Suit string `json:"suit"`
}

// Blackjack hand phases.
const (
	BJPhaseIdle    = "idle"
	BJPhasePlayer  = "player"
	BJPhaseSettled = "settled"
)

// BlackjackSession holds the shoe and the live hand.
type BlackjackSession struct {
	Shoe          []Card  `json:"shoe"`
	Player        []Card  `json:"player"`
	Dealer        []Card  `json:"dealer"`
	Stake         int64   `json:"stake"`
	Phase         string  `json:"phase"`
	Recent        []int64 `json:"recent"`
	Winnings      []int64 `json:"winnings"`
	TotalWinnings int64   `json:"total_winnings"`
}

// LogEntry is one line of the rolling activity log.
type LogEntry struct {
	At  time.Time `json:"at"`
	Msg string    `json:"msg"`
}

// State is the whole savegame. All money-like fields are stored in the
// active currency; switching currency rescales them in place.
type State struct {
	SchemaVersion int    `json:"schema_version"`
	Alias         string `json:"alias"`
	Difficulty    string `json:"difficulty"`
	Currency      string `json:"currency"`

	Money int64 `json:"money"`
	Day   int   `json:"day"`
	Level int   `json:"level"`
	XP    int64 `json:"xp"`
	Heat  int   `json:"heat"`

	GarageTier     int                      `json:"garage_tier"`
	SlotsPurchased int                      `json:"slots_purchased"`
	Crew           map[catalog.CrewKey]bool `json:"crew"`

	Cars     []*Car     `json:"cars"`
	Listings []*Listing `json:"listings"`

	PartPrices        map[catalog.PartKey]int64   `json:"part_prices"`
	IllegalPartPrices map[catalog.PartKey]int64   `json:"illegal_part_prices"`
	PartHistory       map[catalog.PartKey][]int64 `json:"part_history"`
	IllegalHistory    map[catalog.PartKey][]int64 `json:"illegal_history"`
	Trends            map[string]*TrendSeries     `json:"trends"`

	League        LeagueState    `json:"league"`
	LeagueHistory []LeagueResult `json:"league_history"`

	Slots     SlotsSession     `json:"slots"`
	Blackjack BlackjackSession `json:"blackjack"`

	// One-shot debug override: the next race's failure roll is forced.
	ForcePartFailure bool `json:"force_part_failure,omitempty"`

	Log []LogEntry `json:"log"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// StartingMoney returns the USD bankroll for a difficulty setting.
func StartingMoney(difficulty string) int64 {
	switch difficulty {
	case "easy":
		return 40000
	case "hard":
		return 12000
	default:
		return 20000
	}
}

// NewCarID returns a fresh unique car identifier.
func NewCarID() string {
	return uuid.NewString()
}

// newState builds a fresh savegame for the given alias, difficulty, and
// currency. Market prices are seeded by the caller, which owns the rng.
func newState(alias, difficulty, currency string) *State {
	if _, ok := catalog.CurrencyRates[currency]; !ok {
		currency = "USD"
	}
	switch difficulty {
	case "easy", "standard", "hard":
	default:
		difficulty = "standard"
	}
	rate := catalog.Rate(currency)
	now := time.Now().UTC()
	return &State{
		SchemaVersion:     CurrentSchemaVersion,
		Alias:             alias,
		Difficulty:        difficulty,
		Currency:          currency,
		Money:             scaleMoney(StartingMoney(difficulty), rate),
		Day:               1,
		Level:             1,
		Heat:              0,
		GarageTier:        0,
		Crew:              make(map[catalog.CrewKey]bool),
		Cars:              nil,
		Listings:          nil,
		PartPrices:        make(map[catalog.PartKey]int64),
		IllegalPartPrices: make(map[catalog.PartKey]int64),
		PartHistory:       make(map[catalog.PartKey][]int64),
		IllegalHistory:    make(map[catalog.PartKey][]int64),
		Trends:            make(map[string]*TrendSeries),
		League: LeagueState{
			Season:         1,
			CompletedRanks: make(map[string]bool),
		},
		Slots:     SlotsSession{},
		Blackjack: BlackjackSession{Phase: BJPhaseIdle},
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// Normalize repairs a loaded savegame: nil maps and slices are allocated,
// out-of-range values clamped, missing part entries backfilled, and history
// caps enforced. Safe to call on any state, including freshly decoded JSON
// from an older schema version.
func (s *State) Normalize() {
	if s.Currency == "" {
		s.Currency = "USD"
	}
	if _, ok := catalog.CurrencyRates[s.Currency]; !ok {
		s.Currency = "USD"
	}
	switch s.Difficulty {
	case "easy", "standard", "hard":
	default:
		s.Difficulty = "standard"
	}
	if s.Day < 1 {
		s.Day = 1
	}
	if s.Level < 1 {
		s.Level = 1
	}
	if s.XP < 0 {
		s.XP = 0
	}
	s.Heat = clampInt(s.Heat, 0, maxHeat)
	if s.GarageTier < 0 {
		s.GarageTier = 0
	}
	if s.GarageTier >= len(catalog.GarageTiers) {
		s.GarageTier = len(catalog.GarageTiers) - 1
	}
	tier := catalog.GarageTierAt(s.GarageTier)
	s.SlotsPurchased = clampInt(s.SlotsPurchased, 0, tier.MaxExtraSlots)

	if s.Crew == nil {
		s.Crew = make(map[catalog.CrewKey]bool)
	}
	if s.PartPrices == nil {
		s.PartPrices = make(map[catalog.PartKey]int64)
	}
	if s.IllegalPartPrices == nil {
		s.IllegalPartPrices = make(map[catalog.PartKey]int64)
	}
	if s.PartHistory == nil {
		s.PartHistory = make(map[catalog.PartKey][]int64)
	}
	if s.IllegalHistory == nil {
		s.IllegalHistory = make(map[catalog.PartKey][]int64)
	}
	if s.Trends == nil {
		s.Trends = make(map[string]*TrendSeries)
	}
	if s.League.CompletedRanks == nil {
		s.League.CompletedRanks = make(map[string]bool)
	}
	if s.League.Season < 1 {
		s.League.Season = 1
	}
	s.League.Rank = clampInt(s.League.Rank, 0, len(catalog.LeagueRanks)-1)
	rank := catalog.LeagueRankAt(s.League.Rank)
	maxMatch := len(rank.Opponents) - 1
	if s.League.Champion {
		// A finished season parks Match one past the last opponent;
		// clamping it back would reopen the finals.
		maxMatch = len(rank.Opponents)
	}
	s.League.Match = clampInt(s.League.Match, 0, maxMatch)
	if s.League.LossStreak < 0 {
		s.League.LossStreak = 0
	}

	for _, c := range s.Cars {
		c.normalize()
	}
	for _, l := range s.Listings {
		l.Car.normalize()
		if l.Price < 1 {
			l.Price = 1
		}
		l.PriceHistory = capHistory(l.PriceHistory, priceHistoryMax)
	}

	for k, h := range s.PartHistory {
		s.PartHistory[k] = capHistory(h, priceHistoryMax)
	}
	for k, h := range s.IllegalHistory {
		s.IllegalHistory[k] = capHistory(h, priceHistoryMax)
	}
	for _, tr := range s.Trends {
		tr.History = capHistory(tr.History, priceHistoryMax)
	}

	if s.Blackjack.Phase == "" {
		s.Blackjack.Phase = BJPhaseIdle
	}
	s.Slots.Recent = capHistory(s.Slots.Recent, casinoHistoryMax)
	s.Blackjack.Recent = capHistory(s.Blackjack.Recent, casinoHistoryMax)
	s.Blackjack.Winnings = capHistory(s.Blackjack.Winnings, casinoHistoryMax)
	if len(s.LeagueHistory) > leagueHistoryMax {
		s.LeagueHistory = s.LeagueHistory[len(s.LeagueHistory)-leagueHistoryMax:]
	}
	if len(s.Log) > activityLogMax {
		s.Log = s.Log[len(s.Log)-activityLogMax:]
	}

	s.SchemaVersion = CurrentSchemaVersion
}

func (c *Car) normalize() {
	if c.ID == "" {
		c.ID = NewCarID()
	}
	if c.Condition == nil {
		c.Condition = make(map[catalog.PartKey]float64, len(catalog.Parts))
	}
	for _, p := range catalog.Parts {
		v, ok := c.Condition[p.Key]
		if !ok {
			v = 100
		}
		c.Condition[p.Key] = clampFloat(v, 0, 100)
	}
	if c.Tuning == nil {
		c.Tuning = make(map[catalog.TuningKey]int, len(catalog.TuningOptions))
	}
	for _, opt := range catalog.TuningOptions {
		c.Tuning[opt.Key] = clampInt(c.Tuning[opt.Key], 0, len(opt.Stages)-1)
	}
	if c.BasePrice < 1 {
		if m := catalog.ModelByName(c.Model); m != nil {
			c.BasePrice = m.BasePrice
			c.BasePerf = m.BasePerf
		} else {
			c.BasePrice = 1
		}
	}
	if c.Valuation < 1 {
		c.Valuation = c.BasePrice
	}
	c.History = capHistory(c.History, priceHistoryMax)
}

func capHistory(h []int64, max int) []int64 {
	if len(h) > max {
		return h[len(h)-max:]
	}
	return h
}

func clampInt(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

func clampFloat(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
