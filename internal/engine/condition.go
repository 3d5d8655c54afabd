package engine

import (
	"fmt"
	"math"

	"car-flipper/internal/catalog"
)

// avgCondition is the mean part condition of a car, 0..100.
func avgCondition(cond map[catalog.PartKey]float64) float64 {
	if len(cond) == 0 {
		return 0
	}
	var sum float64
	for _, v := range cond {
		sum += v
	}
	return sum / float64(len(cond))
}

// conditionFactor scales valuations: a wreck is worth half its base, a
// mint car the full base.
func conditionFactor(avg float64) float64 {
	return 0.5 + 0.5*avg/100
}

// perfFactor scales performance: condition costs at most 40% of base perf.
func perfFactor(avg float64) float64 {
	return 0.6 + 0.4*clampFloat(avg/100, 0, 1)
}

// ConditionStatus bands an average condition into the label shown next to
// a car.
func ConditionStatus(avg float64) string {
	switch {
	case avg >= 80:
		return "Good"
	case avg >= 60:
		return "Worn"
	case avg >= 40:
		return "Risky"
	default:
		return "Critical"
	}
}

// Performance is the car's effective rating: base perf scaled by average
// condition plus the sum of installed tuning bonuses.
func Performance(c *Car) int {
	bonus := 0
	for _, opt := range catalog.TuningOptions {
		stage := clampInt(c.Tuning[opt.Key], 0, len(opt.Stages)-1)
		bonus += opt.Stages[stage].Bonus
	}
	return int(math.Round(float64(c.BasePerf)*perfFactor(avgCondition(c.Condition)))) + bonus
}

// cosmeticMultiplier is 1 plus the resale bonus of every installed
// package.
func cosmeticMultiplier(c *Car) float64 {
	mult := 1.0
	for _, id := range c.Cosmetics {
		if pkg := catalog.CosmeticByID(id); pkg != nil {
			mult += pkg.ResaleBonus
		}
	}
	return mult
}

// RepairResult reports what a repair did to one part.
type RepairResult struct {
	Part    catalog.PartKey `json:"part"`
	Before  float64         `json:"before"`
	After   float64         `json:"after"`
	Cost    int64           `json:"cost"`
	Botched bool            `json:"botched"`
}

// RepairLegal replaces one part with a new one at the legal market price,
// restoring it to 100. The elite pit crew takes 15% off the bill.
func (g *Game) RepairLegal(carID string, part catalog.PartKey) (*RepairResult, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	car := g.carByID(carID)
	if car == nil {
		return nil, ErrCarNotFound
	}
	if catalog.PartByKey(part) == nil {
		return nil, fmt.Errorf("%w: unknown part %q", ErrBadInput, part)
	}
	cost := g.state.PartPrices[part]
	if g.state.Crew[catalog.CrewPitCrew] {
		cost = roundI64(float64(cost) * 0.85)
	}
	if err := g.spend(cost); err != nil {
		return nil, err
	}

	res := &RepairResult{Part: part, Before: car.Condition[part], After: 100, Cost: cost}
	car.Condition[part] = 100
	g.clearFailureIfHealthy(car)
	g.pushLog(fmt.Sprintf("Fitted a new %s on the %s.", part, car.Model))
	return res, nil
}

// RepairIllegal fits a black-market part: cheaper, but it can be botched.
// The botch chance shrinks with player level and a botched fit leaves the
// part worse than a clean one. Either way the deal draws heat.
func (g *Game) RepairIllegal(carID string, part catalog.PartKey) (*RepairResult, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	car := g.carByID(carID)
	if car == nil {
		return nil, ErrCarNotFound
	}
	if catalog.PartByKey(part) == nil {
		return nil, fmt.Errorf("%w: unknown part %q", ErrBadInput, part)
	}
	cost := g.state.IllegalPartPrices[part]
	if g.state.Crew[catalog.CrewPitCrew] {
		cost = roundI64(float64(cost) * 0.85)
	}
	if err := g.spend(cost); err != nil {
		return nil, err
	}

	before := car.Condition[part]
	botch := clampFloat(0.10-0.01*float64(g.state.Level-1), 0.03, 0.10)
	res := &RepairResult{Part: part, Before: before, Cost: cost}
	if g.rng.Float64() < botch {
		res.Botched = true
		res.After = math.Round(g.uniform(20, 50))
		g.pushLog(fmt.Sprintf("Dodgy %s turned out to be junk.", part))
	} else {
		floor := before
		if floor < 60 {
			floor = 60
		}
		res.After = math.Round(g.uniform(floor, 95))
		g.pushLog(fmt.Sprintf("Fitted a black-market %s on the %s.", part, car.Model))
	}
	car.Condition[part] = clampFloat(res.After, 0, 100)
	g.addHeat(2)
	g.clearFailureIfHealthy(car)
	return res, nil
}

// clearFailureIfHealthy lifts the failed flag once every part is back to
// at least 60.
func (g *Game) clearFailureIfHealthy(car *Car) {
	if !car.Failed {
		return
	}
	for _, v := range car.Condition {
		if v < 60 {
			return
		}
	}
	car.Failed = false
	g.pushLog(fmt.Sprintf("The %s is roadworthy again.", car.Model))
}

// wearPart reduces one part's condition by amount, flooring at 0.
func wearPart(car *Car, part catalog.PartKey, amount float64) {
	car.Condition[part] = clampFloat(car.Condition[part]-amount, 0, 100)
}

// randomPart picks a uniformly random part key.
func (g *Game) randomPart() catalog.PartKey {
	return catalog.Parts[g.rng.Intn(len(catalog.Parts))].Key
}
