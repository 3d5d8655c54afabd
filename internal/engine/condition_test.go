package engine

import (
	"math"
	"math/rand"
	"testing"

	"car-flipper/internal/catalog"
)

func newTestGame(t *testing.T, seed int64) *Game {
	t.Helper()
	return NewGame("Test Driver", "standard", "USD", rand.New(rand.NewSource(seed)))
}

// addTestCar drops a fully stocked car into the garage, bypassing the
// market, and returns it.
func addTestCar(g *Game, model string, cond float64) *Car {
	m := catalog.ModelByName(model)
	c := &Car{
		ID:        NewCarID(),
		Model:     m.Name,
		BasePrice: m.BasePrice,
		BasePerf:  m.BasePerf,
		Condition: make(map[catalog.PartKey]float64),
		Tuning:    stockTuning(),
		Valuation: m.BasePrice,
	}
	for _, p := range catalog.Parts {
		c.Condition[p.Key] = cond
	}
	g.mu.Lock()
	g.state.Cars = append(g.state.Cars, c)
	g.mu.Unlock()
	return c
}

func setMoney(g *Game, amount int64) {
	g.mu.Lock()
	g.state.Money = amount
	g.mu.Unlock()
}

func money(g *Game) int64 {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.state.Money
}

func TestConditionFactor(t *testing.T) {
	cases := []struct {
		avg  float64
		want float64
	}{
		{100, 1.0},
		{0, 0.5},
		{50, 0.75},
		{80, 0.9},
	}
	for _, tc := range cases {
		if got := conditionFactor(tc.avg); math.Abs(got-tc.want) > 1e-9 {
			t.Errorf("conditionFactor(%v) = %v, want %v", tc.avg, got, tc.want)
		}
	}
}

func TestPerfFactorClamps(t *testing.T) {
	if got := perfFactor(100); math.Abs(got-1.0) > 1e-9 {
		t.Errorf("perfFactor(100) = %v, want 1", got)
	}
	if got := perfFactor(0); math.Abs(got-0.6) > 1e-9 {
		t.Errorf("perfFactor(0) = %v, want 0.6", got)
	}
	if got := perfFactor(250); math.Abs(got-1.0) > 1e-9 {
		t.Errorf("perfFactor above 100 must clamp, got %v", got)
	}
}

func TestConditionStatusBands(t *testing.T) {
	cases := []struct {
		avg  float64
		want string
	}{
		{95, "Good"},
		{80, "Good"},
		{79.9, "Worn"},
		{60, "Worn"},
		{59, "Risky"},
		{40, "Risky"},
		{39.9, "Critical"},
		{0, "Critical"},
	}
	for _, tc := range cases {
		if got := ConditionStatus(tc.avg); got != tc.want {
			t.Errorf("ConditionStatus(%v) = %q, want %q", tc.avg, got, tc.want)
		}
	}
}

func TestPerformanceDeterministic(t *testing.T) {
	g := newTestGame(t, 7)
	car := addTestCar(g, "Cobra GT", 100)

	if got := Performance(car); got != 80 {
		t.Fatalf("mint Cobra GT perf = %d, want 80", got)
	}
	car.Tuning[catalog.TuningEngine] = 3
	car.Tuning[catalog.TuningAero] = 1
	// 80 + 62 + 8
	if got := Performance(car); got != 150 {
		t.Fatalf("tuned perf = %d, want 150", got)
	}
	for _, p := range catalog.Parts {
		car.Condition[p.Key] = 0
	}
	// round(80*0.6) + 70
	if got := Performance(car); got != 118 {
		t.Fatalf("wrecked tuned perf = %d, want 118", got)
	}
}

func TestRepairLegalRestoresToFull(t *testing.T) {
	g := newTestGame(t, 11)
	car := addTestCar(g, "Metro Hatch", 50)
	setMoney(g, 1_000_000)

	res, err := g.RepairLegal(car.ID, catalog.PartBrakes)
	if err != nil {
		t.Fatalf("RepairLegal: %v", err)
	}
	if res.After != 100 || car.Condition[catalog.PartBrakes] != 100 {
		t.Errorf("legal repair must restore to 100, got %v", res.After)
	}
	if res.Botched {
		t.Error("legal repair can never botch")
	}
}

func TestRepairInsufficientFundsNoMutation(t *testing.T) {
	g := newTestGame(t, 11)
	car := addTestCar(g, "Metro Hatch", 50)
	setMoney(g, 0)

	_, err := g.RepairLegal(car.ID, catalog.PartBrakes)
	if err != ErrInsufficientFunds {
		t.Fatalf("err = %v, want ErrInsufficientFunds", err)
	}
	if car.Condition[catalog.PartBrakes] != 50 {
		t.Error("failed repair must not touch the part")
	}
	if money(g) != 0 {
		t.Error("failed repair must not touch money")
	}
}

func TestRepairIllegalOutcomeRanges(t *testing.T) {
	for seed := int64(0); seed < 20; seed++ {
		g := newTestGame(t, seed)
		car := addTestCar(g, "Falcon V6", 30)
		setMoney(g, 10_000_000)

		res, err := g.RepairIllegal(car.ID, catalog.PartClutch)
		if err != nil {
			t.Fatalf("seed %d: RepairIllegal: %v", seed, err)
		}
		if res.Botched {
			if res.After < 20 || res.After > 50 {
				t.Errorf("seed %d: botched result %v outside [20,50]", seed, res.After)
			}
		} else {
			if res.After < 60 || res.After > 95 {
				t.Errorf("seed %d: clean result %v outside [60,95]", seed, res.After)
			}
		}
	}
}

func TestIllegalRepairAddsHeat(t *testing.T) {
	g := newTestGame(t, 3)
	car := addTestCar(g, "Falcon V6", 30)
	setMoney(g, 10_000_000)

	g.mu.Lock()
	before := g.state.Heat
	g.mu.Unlock()
	if _, err := g.RepairIllegal(car.ID, catalog.PartTires); err != nil {
		t.Fatalf("RepairIllegal: %v", err)
	}
	g.mu.Lock()
	after := g.state.Heat
	g.mu.Unlock()
	if after != before+2 {
		t.Errorf("heat %d -> %d, want +2", before, after)
	}
}

func TestFailedClearsWhenAllPartsHealthy(t *testing.T) {
	g := newTestGame(t, 5)
	car := addTestCar(g, "Sting S", 100)
	car.Failed = true
	car.Condition[catalog.PartEngineBlock] = 40
	setMoney(g, 10_000_000)

	if _, err := g.RepairLegal(car.ID, catalog.PartTires); err != nil {
		t.Fatalf("RepairLegal: %v", err)
	}
	if !car.Failed {
		t.Error("failed flag must stay while a part is below 60")
	}
	if _, err := g.RepairLegal(car.ID, catalog.PartEngineBlock); err != nil {
		t.Fatalf("RepairLegal: %v", err)
	}
	if car.Failed {
		t.Error("failed flag must clear once every part is at least 60")
	}
}

func TestCosmeticMultiplier(t *testing.T) {
	car := &Car{Cosmetics: []string{"wrap_midnight", "heritage_badge"}}
	if got := cosmeticMultiplier(car); math.Abs(got-1.17) > 1e-9 {
		t.Errorf("cosmeticMultiplier = %v, want 1.17", got)
	}
	if got := cosmeticMultiplier(&Car{}); math.Abs(got-1.0) > 1e-9 {
		t.Errorf("bare car multiplier = %v, want 1", got)
	}
}
