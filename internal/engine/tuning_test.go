package engine

import (
	"errors"
	"testing"

	"car-flipper/internal/catalog"
)

func TestUpgradeTuning_ClimbsLadder(t *testing.T) {
	g := newTestGame(t, 1)
	car := addTestCar(g, "Cobra GT", 100)
	setMoney(g, 100_000)

	res, err := g.UpgradeTuning(car.ID, catalog.TuningEngine)
	if err != nil {
		t.Fatalf("UpgradeTuning: %v", err)
	}
	if res.Stage != 1 || res.Cost != 4500 {
		t.Errorf("stage/cost = %d/%d, want 1/4500", res.Stage, res.Cost)
	}
	if res.Perf != 98 {
		t.Errorf("perf after stage 1 = %d, want 80+18", res.Perf)
	}
	if money(g) != 95_500 {
		t.Errorf("money = %d, want 95500", money(g))
	}

	// Stages replace, not stack: stage 2 bonus is 38 total.
	res, err = g.UpgradeTuning(car.ID, catalog.TuningEngine)
	if err != nil {
		t.Fatalf("UpgradeTuning stage 2: %v", err)
	}
	if res.Stage != 2 || res.Perf != 118 {
		t.Errorf("stage/perf = %d/%d, want 2/118", res.Stage, res.Perf)
	}
}

func TestUpgradeTuning_TopStageRejected(t *testing.T) {
	g := newTestGame(t, 1)
	car := addTestCar(g, "Cobra GT", 100)
	setMoney(g, 1_000_000)

	for i := 0; i < 3; i++ {
		if _, err := g.UpgradeTuning(car.ID, catalog.TuningAero); err != nil {
			t.Fatalf("UpgradeTuning %d: %v", i, err)
		}
	}
	if _, err := g.UpgradeTuning(car.ID, catalog.TuningAero); !errors.Is(err, ErrAlreadyMaxed) {
		t.Errorf("err = %v, want ErrAlreadyMaxed", err)
	}
}

func TestUpgradeTuning_NoMutationOnFailure(t *testing.T) {
	g := newTestGame(t, 1)
	car := addTestCar(g, "Cobra GT", 100)
	setMoney(g, 100)

	if _, err := g.UpgradeTuning(car.ID, catalog.TuningEngine); !errors.Is(err, ErrInsufficientFunds) {
		t.Fatalf("err = %v, want ErrInsufficientFunds", err)
	}
	if car.Tuning[catalog.TuningEngine] != 0 {
		t.Error("failed purchase still bumped the stage")
	}
	if money(g) != 100 {
		t.Errorf("money = %d, want untouched 100", money(g))
	}
}

func TestUpgradeTuning_BadInputs(t *testing.T) {
	g := newTestGame(t, 1)
	car := addTestCar(g, "Cobra GT", 100)
	setMoney(g, 100_000)

	if _, err := g.UpgradeTuning("nope", catalog.TuningEngine); !errors.Is(err, ErrCarNotFound) {
		t.Errorf("unknown car err = %v", err)
	}
	if _, err := g.UpgradeTuning(car.ID, catalog.TuningKey("nitrous")); !errors.Is(err, ErrBadInput) {
		t.Errorf("unknown ladder err = %v", err)
	}
}

func TestUpgradeTuning_CostScalesWithCurrency(t *testing.T) {
	g := newTestGame(t, 1)
	car := addTestCar(g, "Cobra GT", 100)
	setMoney(g, 10_000_000)
	if err := g.SwitchCurrency("JPY"); err != nil {
		t.Fatalf("SwitchCurrency: %v", err)
	}

	res, err := g.UpgradeTuning(car.ID, catalog.TuningSuspension)
	if err != nil {
		t.Fatalf("UpgradeTuning: %v", err)
	}
	if res.Cost != 3600*155 {
		t.Errorf("cost = %d, want 3600 scaled to JPY", res.Cost)
	}
}

func TestResetTuning_ReturnsToStockWithoutRefund(t *testing.T) {
	g := newTestGame(t, 1)
	car := addTestCar(g, "Cobra GT", 100)
	setMoney(g, 100_000)

	if _, err := g.UpgradeTuning(car.ID, catalog.TuningEngine); err != nil {
		t.Fatalf("UpgradeTuning: %v", err)
	}
	before := money(g)

	res, err := g.ResetTuning(car.ID, catalog.TuningEngine)
	if err != nil {
		t.Fatalf("ResetTuning: %v", err)
	}
	if res.Stage != 0 || res.Perf != 80 {
		t.Errorf("stage/perf = %d/%d, want stock 0/80", res.Stage, res.Perf)
	}
	if money(g) != before {
		t.Errorf("money = %d, want no refund (%d)", money(g), before)
	}
	if _, err := g.ResetTuning(car.ID, catalog.TuningEngine); !errors.Is(err, ErrAlreadyStock) {
		t.Errorf("second reset err = %v, want ErrAlreadyStock", err)
	}
}
