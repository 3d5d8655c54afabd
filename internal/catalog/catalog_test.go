package catalog

import "testing"

func TestPartsCatalogIntegrity(t *testing.T) {
	if len(Parts) != 17 {
		t.Fatalf("expected 17 part types, got %d", len(Parts))
	}
	seen := make(map[PartKey]bool)
	for _, p := range Parts {
		if p.Key == "" || p.Name == "" {
			t.Errorf("part %q has empty key or name", p.Key)
		}
		if p.BasePrice <= 0 {
			t.Errorf("part %q has non-positive base price %d", p.Key, p.BasePrice)
		}
		if seen[p.Key] {
			t.Errorf("duplicate part key %q", p.Key)
		}
		seen[p.Key] = true
	}
}

func TestPartByKey(t *testing.T) {
	p := PartByKey(PartTransmission)
	if p == nil {
		t.Fatal("transmission not found")
	}
	if p.BasePrice != 2500 {
		t.Errorf("transmission base price = %d, want 2500", p.BasePrice)
	}
	if PartByKey("flux_capacitor") != nil {
		t.Error("unknown key should return nil")
	}
}

func TestModelsCatalogIntegrity(t *testing.T) {
	if len(Models) != 22 {
		t.Fatalf("expected 22 models, got %d", len(Models))
	}
	seen := make(map[string]bool)
	for _, m := range Models {
		if m.BasePrice <= 0 || m.BasePerf <= 0 {
			t.Errorf("model %q has non-positive price or perf", m.Name)
		}
		if seen[m.Name] {
			t.Errorf("duplicate model %q", m.Name)
		}
		seen[m.Name] = true
	}
	if ModelByName("Metro Hatch") == nil {
		t.Error("Metro Hatch missing")
	}
	if ModelByName("DeLorean") != nil {
		t.Error("unknown model should return nil")
	}
}

func TestTuningLaddersMonotonic(t *testing.T) {
	if len(TuningOptions) != 3 {
		t.Fatalf("expected 3 tuning ladders, got %d", len(TuningOptions))
	}
	for _, opt := range TuningOptions {
		t.Run(string(opt.Key), func(t *testing.T) {
			if len(opt.Stages) < 2 {
				t.Fatalf("ladder %q has %d stages", opt.Key, len(opt.Stages))
			}
			s0 := opt.Stages[0]
			if s0.Bonus != 0 || s0.Cost != 0 {
				t.Errorf("stage 0 must be free stock, got bonus=%d cost=%d", s0.Bonus, s0.Cost)
			}
			for i := 1; i < len(opt.Stages); i++ {
				prev, cur := opt.Stages[i-1], opt.Stages[i]
				if cur.Bonus <= prev.Bonus {
					t.Errorf("stage %d bonus %d not above stage %d bonus %d", i, cur.Bonus, i-1, prev.Bonus)
				}
				if cur.Cost <= prev.Cost {
					t.Errorf("stage %d cost %d not above stage %d cost %d", i, cur.Cost, i-1, prev.Cost)
				}
			}
		})
	}
	if TuningByKey(TuningAero) == nil {
		t.Error("aero ladder missing")
	}
	if TuningByKey("nitrous") != nil {
		t.Error("unknown ladder should return nil")
	}
}

func TestGarageTiersEscalate(t *testing.T) {
	if len(GarageTiers) != 4 {
		t.Fatalf("expected 4 garage tiers, got %d", len(GarageTiers))
	}
	for i := 1; i < len(GarageTiers); i++ {
		prev, cur := GarageTiers[i-1], GarageTiers[i]
		if cur.BaseSlots <= prev.BaseSlots {
			t.Errorf("tier %q base slots %d not above %q's %d", cur.ID, cur.BaseSlots, prev.ID, prev.BaseSlots)
		}
		if cur.UnlockCost <= prev.UnlockCost {
			t.Errorf("tier %q unlock cost %d not above %q's %d", cur.ID, cur.UnlockCost, prev.ID, prev.UnlockCost)
		}
	}
	if got := GarageTierAt(-3).ID; got != "lockup" {
		t.Errorf("negative index should clamp to lockup, got %q", got)
	}
	if got := GarageTierAt(99).ID; got != "skyVault" {
		t.Errorf("overflow index should clamp to skyVault, got %q", got)
	}
}

func TestRaceEventsEscalate(t *testing.T) {
	if len(RaceEvents) != 6 {
		t.Fatalf("expected 6 race events, got %d", len(RaceEvents))
	}
	for i, ev := range RaceEvents {
		if ev.Prize <= ev.EntryFee {
			t.Errorf("event %q prize %d does not beat entry fee %d", ev.ID, ev.Prize, ev.EntryFee)
		}
		if i > 0 && ev.OpponentPerf <= RaceEvents[i-1].OpponentPerf {
			t.Errorf("event %q opponent perf not above previous", ev.ID)
		}
	}
	if RaceEventByID("docks_sprint") == nil {
		t.Error("docks_sprint missing")
	}
}

func TestLeagueRanksEscalate(t *testing.T) {
	for i, r := range LeagueRanks {
		if len(r.Opponents) == 0 {
			t.Errorf("rank %q has no opponents", r.ID)
		}
		for j := 1; j < len(r.Opponents); j++ {
			if r.Opponents[j] <= r.Opponents[j-1] {
				t.Errorf("rank %q opponent %d not above previous", r.ID, j)
			}
		}
		if i > 0 && r.Opponents[0] <= LeagueRanks[i-1].Opponents[0] {
			t.Errorf("rank %q opening opponent not above previous rank's", r.ID)
		}
	}
	if got := LeagueRankAt(len(LeagueRanks) + 5).ID; got != "midnight_finals" {
		t.Errorf("overflow index should clamp to final rank, got %q", got)
	}
}

func TestCurrencyRates(t *testing.T) {
	cases := []struct {
		code string
		want float64
	}{
		{"USD", 1},
		{"GBP", 0.79},
		{"EUR", 0.93},
		{"JPY", 155},
		{"PLN", 4.0},
		{"XAU", 1},
	}
	for _, tc := range cases {
		if got := Rate(tc.code); got != tc.want {
			t.Errorf("Rate(%q) = %v, want %v", tc.code, got, tc.want)
		}
	}
}

func TestCrewAndCosmeticLookups(t *testing.T) {
	if CrewByKey(CrewPitCrew) == nil {
		t.Error("pitCrew missing")
	}
	if CrewByKey("getawayDriver") != nil {
		t.Error("unknown crew key should return nil")
	}
	if CosmeticByID("heritage_badge") == nil {
		t.Error("heritage_badge missing")
	}
	if CosmeticByID("neon_underglow") != nil {
		t.Error("unknown cosmetic should return nil")
	}
}
