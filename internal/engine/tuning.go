package engine

import (
	"fmt"

	"car-flipper/internal/catalog"
)

// TuningResult reports one ladder change.
type TuningResult struct {
	Key   catalog.TuningKey `json:"key"`
	Stage int               `json:"stage"`
	Label string            `json:"label"`
	Cost  int64             `json:"cost"`
	Perf  int               `json:"perf"`
}

// UpgradeTuning buys the next stage on one of the car's tuning ladders.
// Top stage and empty wallet are rejected without mutation.
func (g *Game) UpgradeTuning(carID string, key catalog.TuningKey) (*TuningResult, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	car := g.carByID(carID)
	if car == nil {
		return nil, ErrCarNotFound
	}
	opt := catalog.TuningByKey(key)
	if opt == nil {
		return nil, fmt.Errorf("%w: unknown tuning ladder %q", ErrBadInput, key)
	}
	stage := clampInt(car.Tuning[key], 0, len(opt.Stages)-1)
	if stage >= len(opt.Stages)-1 {
		return nil, ErrAlreadyMaxed
	}
	next := opt.Stages[stage+1]
	cost := g.price(next.Cost)
	if err := g.spend(cost); err != nil {
		return nil, err
	}
	car.Tuning[key] = stage + 1
	g.pushLog(fmt.Sprintf("Installed %s (%s) on the %s.", next.Label, opt.Name, car.Model))
	return &TuningResult{
		Key:   key,
		Stage: stage + 1,
		Label: next.Label,
		Cost:  cost,
		Perf:  Performance(car),
	}, nil
}

// ResetTuning returns one ladder to stock. No refund; stripped parts stay
// on the shop floor. Resetting a stock ladder is rejected.
func (g *Game) ResetTuning(carID string, key catalog.TuningKey) (*TuningResult, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	car := g.carByID(carID)
	if car == nil {
		return nil, ErrCarNotFound
	}
	opt := catalog.TuningByKey(key)
	if opt == nil {
		return nil, fmt.Errorf("%w: unknown tuning ladder %q", ErrBadInput, key)
	}
	if clampInt(car.Tuning[key], 0, len(opt.Stages)-1) == 0 {
		return nil, ErrAlreadyStock
	}
	car.Tuning[key] = 0
	g.pushLog(fmt.Sprintf("Stripped the %s back to %s.", opt.Name, opt.Stages[0].Label))
	return &TuningResult{
		Key:   key,
		Stage: 0,
		Label: opt.Stages[0].Label,
		Perf:  Performance(car),
	}, nil
}
