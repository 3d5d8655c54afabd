package engine

import (
	"testing"

	"car-flipper/internal/catalog"
)

func TestTrophyIdempotent(t *testing.T) {
	g := newTestGame(t, 1)
	g.mu.Lock()
	defer g.mu.Unlock()

	rank := catalog.LeagueRanks[0]
	setMoneyLocked(g, 0)
	first := g.awardTrophy(rank)
	if first != rank.TrophyBonus {
		t.Fatalf("first trophy = %d, want %d", first, rank.TrophyBonus)
	}
	second := g.awardTrophy(rank)
	if second != 0 {
		t.Fatalf("second trophy = %d, want 0", second)
	}
	if g.state.Money != rank.TrophyBonus {
		t.Errorf("money = %d, trophy must pay exactly once", g.state.Money)
	}
}

func setMoneyLocked(g *Game, amount int64) {
	g.state.Money = amount
}

func TestRelegationNeedsTwoConsecutiveLosses(t *testing.T) {
	g := newTestGame(t, 2)
	g.mu.Lock()
	defer g.mu.Unlock()

	lg := &g.state.League
	lg.Rank = 2
	lg.Match = 1

	if g.markLeagueLoss() {
		t.Fatal("one loss must not relegate")
	}
	if lg.Rank != 2 || lg.LossStreak != 1 {
		t.Fatalf("after one loss: rank %d streak %d", lg.Rank, lg.LossStreak)
	}
	if !g.markLeagueLoss() {
		t.Fatal("second consecutive loss must relegate")
	}
	if lg.Rank != 1 {
		t.Errorf("rank = %d, want 1", lg.Rank)
	}
	wantMatch := len(catalog.LeagueRanks[1].Opponents) - 1
	if lg.Match != wantMatch {
		t.Errorf("match = %d, want last match %d of the previous rank", lg.Match, wantMatch)
	}
	if lg.LossStreak != 0 {
		t.Errorf("streak = %d, must reset after relegation", lg.LossStreak)
	}
}

func TestLossStreakInterruptedByWin(t *testing.T) {
	g := newTestGame(t, 3)
	g.mu.Lock()
	defer g.mu.Unlock()

	lg := &g.state.League
	lg.Rank = 1
	g.markLeagueLoss()
	lg.LossStreak = 0 // the win resets it
	if g.markLeagueLoss() {
		t.Fatal("interrupted losses must not accumulate into relegation")
	}
	if lg.Rank != 1 {
		t.Errorf("rank = %d, want 1", lg.Rank)
	}
}

func TestBottomRankNeverRelegates(t *testing.T) {
	g := newTestGame(t, 4)
	g.mu.Lock()
	defer g.mu.Unlock()

	for i := 0; i < 10; i++ {
		if g.markLeagueLoss() {
			t.Fatal("rank 0 must never relegate")
		}
	}
	if g.state.League.Rank != 0 {
		t.Errorf("rank = %d, want 0", g.state.League.Rank)
	}
}

func TestNewSeasonRequiresChampion(t *testing.T) {
	g := newTestGame(t, 5)
	if err := g.NewLeagueSeason(); err == nil {
		t.Fatal("non-champion must not start a new season")
	}

	g.mu.Lock()
	g.state.League.Champion = true
	g.state.League.Rank = len(catalog.LeagueRanks) - 1
	g.state.League.CompletedRanks["street_novice"] = true
	season := g.state.League.Season
	g.mu.Unlock()

	if err := g.NewLeagueSeason(); err != nil {
		t.Fatalf("NewLeagueSeason: %v", err)
	}
	g.mu.Lock()
	defer g.mu.Unlock()
	lg := g.state.League
	if lg.Season != season+1 || lg.Rank != 0 || lg.Match != 0 || lg.Champion {
		t.Errorf("season reset left %+v", lg)
	}
	if len(lg.CompletedRanks) != 0 {
		t.Error("completed ranks must clear with the new season")
	}
}

func TestLeagueRaceRecordsHistory(t *testing.T) {
	g := newTestGame(t, 6)
	car := addTestCar(g, "Honda NSX (NA2)", 100)
	setMoney(g, 10_000_000)

	if _, err := g.LeagueRace(car.ID); err != nil {
		t.Fatalf("LeagueRace: %v", err)
	}
	g.mu.Lock()
	defer g.mu.Unlock()
	if len(g.state.LeagueHistory) != 1 {
		t.Fatalf("history len = %d, want 1", len(g.state.LeagueHistory))
	}
	rec := g.state.LeagueHistory[0]
	if rec.RankID != catalog.LeagueRanks[0].ID {
		t.Errorf("recorded rank %q, want %q", rec.RankID, catalog.LeagueRanks[0].ID)
	}
}

func TestLeagueHistoryCapped(t *testing.T) {
	g := newTestGame(t, 7)
	g.mu.Lock()
	defer g.mu.Unlock()
	for i := 0; i < leagueHistoryMax+10; i++ {
		g.recordLeagueResult("street_novice", 60, i%2 == 0, "", 0)
	}
	if n := len(g.state.LeagueHistory); n != leagueHistoryMax {
		t.Errorf("history len = %d, want cap %d", n, leagueHistoryMax)
	}
}

func TestChampionBlockedUntilNewSeason(t *testing.T) {
	g := newTestGame(t, 8)
	car := addTestCar(g, "Honda NSX (NA2)", 100)
	setMoney(g, 10_000_000)

	g.mu.Lock()
	last := len(catalog.LeagueRanks) - 1
	g.state.League.Champion = true
	g.state.League.Rank = last
	g.state.League.Match = len(catalog.LeagueRanks[last].Opponents)
	g.mu.Unlock()

	if _, err := g.LeagueRace(car.ID); err == nil {
		t.Fatal("champion with a finished ladder must be told to start a new season")
	}
}

func TestChampionSurvivesSaveRoundTrip(t *testing.T) {
	g := newTestGame(t, 9)
	car := addTestCar(g, "Honda NSX (NA2)", 100)
	setMoney(g, 10_000_000)

	g.mu.Lock()
	last := len(catalog.LeagueRanks) - 1
	g.state.League.Champion = true
	g.state.League.Rank = last
	g.state.League.Match = len(catalog.LeagueRanks[last].Opponents)
	g.mu.Unlock()

	// Snapshot plus Replace is the save/load path; Normalize must not
	// clamp the champion's terminal match index back into the ladder.
	state, err := g.Snapshot()
	if err != nil {
		t.Fatalf("Snapshot: %v", err)
	}
	g.Replace(state)

	g.mu.Lock()
	match := g.state.League.Match
	g.mu.Unlock()
	if match != len(catalog.LeagueRanks[last].Opponents) {
		t.Fatalf("match after round-trip = %d, want terminal %d", match, len(catalog.LeagueRanks[last].Opponents))
	}
	if _, err := g.LeagueRace(car.ID); err == nil {
		t.Fatal("reloaded champion must still be told to start a new season")
	}

	// A non-champion save is still clamped into the ladder.
	g.mu.Lock()
	g.state.League.Champion = false
	g.state.League.Match = 99
	g.mu.Unlock()
	state, err = g.Snapshot()
	if err != nil {
		t.Fatalf("Snapshot: %v", err)
	}
	g.Replace(state)
	g.mu.Lock()
	defer g.mu.Unlock()
	if want := len(catalog.LeagueRanks[last].Opponents) - 1; g.state.League.Match != want {
		t.Errorf("non-champion match = %d, want clamped %d", g.state.League.Match, want)
	}
}
