package engine

import (
	"fmt"
	"math"

	"car-flipper/internal/catalog"
)

const houseMargin = 0.12

// RaceOutcome is the resolved result of a single race.
type RaceOutcome struct {
	Win           bool            `json:"win"`
	FailedPart    catalog.PartKey `json:"failed_part,omitempty"`
	WinChance     float64         `json:"win_chance"`
	NetProfitMult float64         `json:"net_profit_mult"`
}

// RaceResult is what a race operation returns to the caller: the outcome
// plus the applied money, XP, and heat deltas.
type RaceResult struct {
	Outcome   RaceOutcome     `json:"outcome"`
	EventID   string          `json:"event_id"`
	CarPerf   int             `json:"car_perf"`
	EntryFee  int64           `json:"entry_fee"`
	Prize     int64           `json:"prize"`
	XP        int64           `json:"xp"`
	Heat      int             `json:"heat"`
	WornPart  catalog.PartKey `json:"worn_part"`
	CarFailed bool            `json:"car_failed"`
}

// simulateRace resolves one race of the given car against an opponent
// rating. forceFail short-circuits the failure rolls and condemns a
// sampled part; it is the one-shot debug hook.
func (g *Game) simulateRace(car *Car, opponentPerf int, forceFail bool) RaceOutcome {
	myRating := float64(Performance(car))
	oppRating := float64(opponentPerf) + g.uniform(-12, 12)

	winChance := 1 / (1 + math.Exp(-(myRating-oppRating)/36))
	winChance = clampFloat(winChance, 0.12, 0.94)

	fairMult := 1/winChance - 1
	netMult := fairMult * (1 - houseMargin)
	if netMult < 0 {
		netMult = 0
	}

	out := RaceOutcome{WinChance: winChance, NetProfitMult: netMult}

	if forceFail {
		out.FailedPart = g.randomPart()
		return out
	}

	failRisk := 0.02
	for _, p := range catalog.Parts {
		cond := car.Condition[p.Key]
		if cond >= 60 {
			continue
		}
		failRisk += (60 - cond) / 100 * 0.15
		if out.FailedPart == "" && g.rng.Float64() < (60-cond)/100*0.3 {
			out.FailedPart = p.Key
		}
	}
	if out.FailedPart == "" && g.rng.Float64() < failRisk {
		out.FailedPart = g.randomPart()
	}
	if out.FailedPart != "" {
		return out
	}

	out.Win = g.rng.Float64() < winChance
	return out
}

// consumeForcedFailure reads and clears the one-shot failure override.
func (g *Game) consumeForcedFailure() bool {
	forced := g.state.ForcePartFailure
	g.state.ForcePartFailure = false
	return forced
}

// ForcePartFailure arms the one-shot race failure override.
func (g *Game) ForcePartFailure() {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.state.ForcePartFailure = true
	g.pushLog("Sabotage armed. The next race will not end well.")
}

// StreetRace enters a garage car into a scripted street event. The car
// must be roadworthy and the entry fee covered.
func (g *Game) StreetRace(carID, eventID string) (*RaceResult, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	car := g.carByID(carID)
	if car == nil {
		return nil, ErrCarNotFound
	}
	if car.Failed {
		return nil, ErrCarFailed
	}
	event := catalog.RaceEventByID(eventID)
	if event == nil {
		return nil, fmt.Errorf("%w: unknown race event %q", ErrBadInput, eventID)
	}
	fee := g.price(event.EntryFee)
	if err := g.spend(fee); err != nil {
		return nil, err
	}

	outcome := g.simulateRace(car, event.OpponentPerf, g.consumeForcedFailure())
	res := &RaceResult{
		Outcome:  outcome,
		EventID:  event.ID,
		CarPerf:  Performance(car),
		EntryFee: fee,
	}

	switch {
	case outcome.FailedPart != "":
		wearPart(car, outcome.FailedPart, math.Round(g.uniform(15, 35)))
		car.Failed = true
		res.CarFailed = true
		g.pushLog(fmt.Sprintf("%s DNF, the %s let go mid-race. Repairs needed.", car.Model, outcome.FailedPart))
	case outcome.Win:
		prize := g.price(event.Prize)
		g.earn(prize)
		res.Prize = prize
		res.XP = roundI64(12 + float64(res.CarPerf)/10)
		g.addXP(res.XP)
		res.Heat = event.Heat
		g.addHeat(event.Heat)
		g.pushLog(fmt.Sprintf("%s took the %s. Prize %d.", car.Model, event.Label, prize))
	default:
		res.XP = 4
		g.addXP(4)
		res.Heat = int(math.Round(float64(event.Heat) / 2))
		g.addHeat(res.Heat)
		g.pushLog(fmt.Sprintf("%s lost the %s. No payout.", car.Model, event.Label))
	}

	res.WornPart = g.randomPart()
	wearPart(car, res.WornPart, math.Round(g.uniform(5, 12)))
	return res, nil
}
