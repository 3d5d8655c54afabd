package engine

import (
	"encoding/json"
	"testing"

	"car-flipper/internal/catalog"
)

func TestXPCurve(t *testing.T) {
	cases := []struct {
		level int
		want  int64
	}{
		{1, 140},   // 100 + 20 + 20
		{2, 201},   // 100 + 40 + 2^1.6*20
		{5, 463},   // 100 + 100 + 5^1.6*20
		{10, 1096}, // 100 + 200 + 10^1.6*20
	}
	for _, tc := range cases {
		if got := xpForLevel(tc.level); got != tc.want {
			t.Errorf("xpForLevel(%d) = %d, want %d", tc.level, got, tc.want)
		}
	}
}

func TestAddXPCarriesRemainderAcrossLevels(t *testing.T) {
	g := newTestGame(t, 1)
	g.mu.Lock()
	defer g.mu.Unlock()

	g.addXP(xpForLevel(1) + xpForLevel(2) + 10)
	if g.state.Level != 3 {
		t.Fatalf("level = %d, want 3", g.state.Level)
	}
	if g.state.XP != 10 {
		t.Errorf("remaining xp = %d, want 10", g.state.XP)
	}
}

func TestHeatSuppressionDiscountsGain(t *testing.T) {
	g := newTestGame(t, 2)
	g.mu.Lock()
	defer g.mu.Unlock()

	g.addHeat(20)
	if g.state.Heat != 20 {
		t.Fatalf("heat = %d, want 20", g.state.Heat)
	}
	g.state.Heat = 0
	g.state.Crew[catalog.CrewHeatSuppression] = true
	g.addHeat(20)
	if g.state.Heat != 17 {
		t.Errorf("suppressed heat = %d, want 17", g.state.Heat)
	}
}

func TestHeatClampedToRange(t *testing.T) {
	g := newTestGame(t, 3)
	g.mu.Lock()
	defer g.mu.Unlock()

	g.addHeat(500)
	if g.state.Heat != maxHeat {
		t.Errorf("heat = %d, want cap %d", g.state.Heat, maxHeat)
	}
	g.coolHeat(500)
	if g.state.Heat != 0 {
		t.Errorf("heat = %d, want floor 0", g.state.Heat)
	}
}

func TestStartingMoneyByDifficulty(t *testing.T) {
	cases := []struct {
		difficulty string
		want       int64
	}{
		{"easy", 40_000},
		{"standard", 20_000},
		{"hard", 12_000},
		{"nightmare", 20_000},
	}
	for _, tc := range cases {
		if got := StartingMoney(tc.difficulty); got != tc.want {
			t.Errorf("StartingMoney(%q) = %d, want %d", tc.difficulty, got, tc.want)
		}
	}
}

func TestNewGameStartsScaledByCurrency(t *testing.T) {
	g := NewGame("Test", "easy", "PLN", nil)
	if got := money(g); got != 160_000 {
		t.Errorf("easy PLN bankroll = %d, want 160000", got)
	}
}

func TestNormalizeRepairsCorruptState(t *testing.T) {
	raw := []byte(`{
		"schema_version": 1,
		"money": 5000,
		"level": -3,
		"heat": 900,
		"currency": "DOGE",
		"difficulty": "impossible",
		"garage_tier": 99,
		"cars": [{"model": "Cobra GT", "condition": {"tires": 450}}],
		"league": {"rank": 42, "match": -1}
	}`)
	var s State
	if err := json.Unmarshal(raw, &s); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	s.Normalize()

	if s.Level != 1 {
		t.Errorf("level = %d, want 1", s.Level)
	}
	if s.Heat != maxHeat {
		t.Errorf("heat = %d, want clamp to %d", s.Heat, maxHeat)
	}
	if s.Currency != "USD" {
		t.Errorf("currency = %q, want USD fallback", s.Currency)
	}
	if s.Difficulty != "standard" {
		t.Errorf("difficulty = %q, want standard fallback", s.Difficulty)
	}
	if s.GarageTier != len(catalog.GarageTiers)-1 {
		t.Errorf("garage tier = %d, want clamp to top tier", s.GarageTier)
	}
	if s.League.Rank != len(catalog.LeagueRanks)-1 {
		t.Errorf("league rank = %d, want clamp", s.League.Rank)
	}
	if s.League.Match != 0 {
		t.Errorf("league match = %d, want 0", s.League.Match)
	}
	if s.SchemaVersion != CurrentSchemaVersion {
		t.Errorf("schema version = %d, want %d", s.SchemaVersion, CurrentSchemaVersion)
	}

	car := s.Cars[0]
	if car.ID == "" {
		t.Error("normalize must assign missing car ids")
	}
	if car.Condition[catalog.PartTires] != 100 {
		t.Errorf("tires condition = %v, want clamp to 100", car.Condition[catalog.PartTires])
	}
	if len(car.Condition) != len(catalog.Parts) {
		t.Errorf("car has %d part entries, want full set of %d", len(car.Condition), len(catalog.Parts))
	}
	if car.BasePrice != 18_000 {
		t.Errorf("base price = %d, want catalog backfill 18000", car.BasePrice)
	}
}

func TestSnapshotIsDeepCopy(t *testing.T) {
	g := newTestGame(t, 4)
	snap, err := g.Snapshot()
	if err != nil {
		t.Fatalf("Snapshot: %v", err)
	}
	snap.Money = -999
	snap.PartPrices[catalog.PartTires] = -1

	g.mu.Lock()
	defer g.mu.Unlock()
	if g.state.Money == -999 {
		t.Error("mutating the snapshot must not reach the live state")
	}
	if g.state.PartPrices[catalog.PartTires] == -1 {
		t.Error("snapshot maps must be copies")
	}
}

func TestActivityLogCapped(t *testing.T) {
	g := newTestGame(t, 5)
	g.mu.Lock()
	defer g.mu.Unlock()
	for i := 0; i < activityLogMax+25; i++ {
		g.pushLog("entry")
	}
	if n := len(g.state.Log); n != activityLogMax {
		t.Errorf("log len = %d, want cap %d", n, activityLogMax)
	}
}
