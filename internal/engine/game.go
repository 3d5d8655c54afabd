// Package engine implements the whole game simulation: market random
// walks, car condition and valuation, tuning, street and league racing,
// the casino, and player progression. Every operation mutates a single
// State under the Game mutex and is deterministic given the injected
// random source, so tests seed the rng and assert exact outcomes.
package engine

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"math/rand"
	"sync"
	"time"

	"car-flipper/internal/catalog"
)

// Game-rule failures. Handlers map these onto HTTP statuses; none of them
// mutate state.
var (
	ErrInsufficientFunds = errors.New("insufficient funds")
	ErrGarageFull        = errors.New("garage is full")
	ErrCarNotFound       = errors.New("car not found")
	ErrListingNotFound   = errors.New("listing not found")
	ErrAlreadyMaxed      = errors.New("already at max stage")
	ErrAlreadyStock      = errors.New("already at stock")
	ErrAlreadyOwned      = errors.New("already owned")
	ErrCarFailed         = errors.New("car has a failed part")
	ErrBusy              = errors.New("action already in progress")
	ErrBadPhase          = errors.New("action not valid in this phase")
	ErrBadInput          = errors.New("invalid input")
)

// Game owns one savegame and the random source driving it. All exported
// methods take the lock; helpers assume it is held.
type Game struct {
	mu    sync.Mutex
	state *State
	rng   *rand.Rand
}

// New creates a Game around an existing state. A nil rng falls back to a
// time-seeded source.
func New(state *State, rng *rand.Rand) *Game {
	if rng == nil {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	state.Normalize()
	return &Game{state: state, rng: rng}
}

// NewGame creates a fresh savegame with seeded market prices, trends, and
// an initial batch of listings.
func NewGame(alias, difficulty, currency string, rng *rand.Rand) *Game {
	g := New(newState(alias, difficulty, currency), rng)
	g.mu.Lock()
	defer g.mu.Unlock()
	g.seedMarket()
	g.refreshListings()
	g.pushLog("Welcome to the garage. Buy low, tune hard, sell high.")
	return g
}

// Snapshot returns a deep copy of the current state, safe to serve or
// persist without holding the lock.
func (g *Game) Snapshot() (*State, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	raw, err := json.Marshal(g.state)
	if err != nil {
		return nil, fmt.Errorf("snapshot state: %w", err)
	}
	var cp State
	if err := json.Unmarshal(raw, &cp); err != nil {
		return nil, fmt.Errorf("snapshot state: %w", err)
	}
	return &cp, nil
}

// Replace swaps in a different savegame, normalizing it first.
func (g *Game) Replace(state *State) {
	g.mu.Lock()
	defer g.mu.Unlock()
	state.Normalize()
	g.state = state
}

// Alias returns the current save's player alias.
func (g *Game) Alias() string {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.state.Alias
}

func scaleMoney(usd int64, rate float64) int64 {
	return int64(math.Round(float64(usd) * rate))
}

// price converts a USD catalog amount into the active currency.
func (g *Game) price(usd int64) int64 {
	return scaleMoney(usd, catalog.Rate(g.state.Currency))
}

// spend deducts amount or returns ErrInsufficientFunds without mutating.
func (g *Game) spend(amount int64) error {
	if amount > g.state.Money {
		return ErrInsufficientFunds
	}
	g.state.Money -= amount
	return nil
}

func (g *Game) earn(amount int64) {
	g.state.Money += amount
}

// xpForLevel is the XP needed to advance past the given level.
func xpForLevel(level int) int64 {
	return int64(math.Round(100 + 20*float64(level) + math.Pow(float64(level), 1.6)*20))
}

// addXP grants experience and applies level-ups, carrying the remainder
// across multiple levels in one award.
func (g *Game) addXP(amount int64) {
	if amount <= 0 {
		return
	}
	g.state.XP += amount
	for g.state.XP >= xpForLevel(g.state.Level) {
		g.state.XP -= xpForLevel(g.state.Level)
		g.state.Level++
		g.pushLog(fmt.Sprintf("Reputation up! Now level %d.", g.state.Level))
	}
}

// addHeat raises heat, discounted 15% by the heat suppression crew.
func (g *Game) addHeat(amount int) {
	if amount <= 0 {
		return
	}
	if g.state.Crew[catalog.CrewHeatSuppression] {
		amount = int(math.Round(float64(amount) * 0.85))
	}
	g.state.Heat = clampInt(g.state.Heat+amount, 0, maxHeat)
}

func (g *Game) coolHeat(amount int) {
	g.state.Heat = clampInt(g.state.Heat-amount, 0, maxHeat)
}

// pushLog appends to the rolling activity log, dropping the oldest entry
// past the cap.
func (g *Game) pushLog(msg string) {
	g.state.Log = append(g.state.Log, LogEntry{At: time.Now().UTC(), Msg: msg})
	if len(g.state.Log) > activityLogMax {
		g.state.Log = g.state.Log[len(g.state.Log)-activityLogMax:]
	}
	g.state.UpdatedAt = time.Now().UTC()
}

func (g *Game) carByID(id string) *Car {
	for _, c := range g.state.Cars {
		if c.ID == id {
			return c
		}
	}
	return nil
}

func (g *Game) listingByID(id string) (*Listing, int) {
	for i, l := range g.state.Listings {
		if l.ID == id {
			return l, i
		}
	}
	return nil, -1
}

// garageCapacity is the active tier's base slots plus purchased extras.
func (g *Game) garageCapacity() int {
	return catalog.GarageTierAt(g.state.GarageTier).BaseSlots + g.state.SlotsPurchased
}

// uniform returns a random float in [lo, hi).
func (g *Game) uniform(lo, hi float64) float64 {
	return lo + g.rng.Float64()*(hi-lo)
}

func roundI64(v float64) int64 {
	return int64(math.Round(v))
}
