package engine

import (
	"fmt"
	"math"
	"time"

	"car-flipper/internal/catalog"
)

// LeagueRaceResult extends a race result with the league bookkeeping that
// happened around it.
type LeagueRaceResult struct {
	RaceResult
	RankID    string `json:"rank_id"`
	Season    int    `json:"season"`
	Promoted  bool   `json:"promoted"`
	Relegated bool   `json:"relegated"`
	Trophy    int64  `json:"trophy"`
	Champion  bool   `json:"champion"`
}

// LeagueRace runs the next match of the current league rank with the
// given car. Promotion, relegation, trophies, and the championship are
// all resolved here.
func (g *Game) LeagueRace(carID string) (*LeagueRaceResult, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	lg := &g.state.League
	rank := catalog.LeagueRankAt(lg.Rank)
	if lg.Champion && lg.Rank >= len(catalog.LeagueRanks)-1 && lg.Match >= len(rank.Opponents) {
		return nil, fmt.Errorf("%w: season complete, start a new one", ErrBadPhase)
	}

	car := g.carByID(carID)
	if car == nil {
		return nil, ErrCarNotFound
	}
	if car.Failed {
		return nil, ErrCarFailed
	}

	matchIdx := clampInt(lg.Match, 0, len(rank.Opponents)-1)
	opponent := rank.Opponents[matchIdx]
	fee := g.price(rank.EntryFee)
	if err := g.spend(fee); err != nil {
		return nil, err
	}

	outcome := g.simulateRace(car, opponent, g.consumeForcedFailure())
	res := &LeagueRaceResult{
		RaceResult: RaceResult{
			Outcome:  outcome,
			EventID:  rank.ID,
			CarPerf:  Performance(car),
			EntryFee: fee,
		},
		RankID: rank.ID,
		Season: lg.Season,
	}

	switch {
	case outcome.FailedPart != "":
		wearPart(car, outcome.FailedPart, math.Round(g.uniform(18, 36)))
		car.Failed = true
		res.CarFailed = true
		g.recordLeagueResult(rank.ID, opponent, false, string(outcome.FailedPart), 0)
		g.pushLog(fmt.Sprintf("%s retired from the %s heat, the %s gave out.", car.Model, rank.Label, outcome.FailedPart))
		res.Relegated = g.markLeagueLoss()
	case outcome.Win:
		prize := g.price(rank.WinPrize)
		g.earn(prize)
		res.Prize = prize
		res.XP = roundI64(18 + float64(res.CarPerf)/8)
		g.addXP(res.XP)
		res.Heat = rank.Heat
		g.addHeat(rank.Heat)
		g.recordLeagueResult(rank.ID, opponent, true, "", prize)
		g.pushLog(fmt.Sprintf("%s won the %s heat against a %d-rated rival.", car.Model, rank.Label, opponent))
		lg.LossStreak = 0
		lg.Match++
		if lg.Match >= len(rank.Opponents) {
			res.Trophy = g.awardTrophy(rank)
			if lg.Rank < len(catalog.LeagueRanks)-1 {
				lg.Rank++
				lg.Match = 0
				res.Promoted = true
				g.pushLog(fmt.Sprintf("Promoted to %s!", catalog.LeagueRankAt(lg.Rank).Label))
			} else {
				lg.Champion = true
				lg.Match = len(rank.Opponents)
				res.Champion = true
				g.pushLog("Midnight League Champion! The crown is yours.")
			}
		}
	default:
		res.XP = roundI64(6 + float64(res.CarPerf)/14)
		g.addXP(res.XP)
		res.Heat = int(math.Max(1, math.Round(float64(rank.Heat)/2)))
		g.addHeat(res.Heat)
		g.recordLeagueResult(rank.ID, opponent, false, "", 0)
		g.pushLog(fmt.Sprintf("%s lost the %s heat.", car.Model, rank.Label))
		res.Relegated = g.markLeagueLoss()
	}

	res.WornPart = g.randomPart()
	wearPart(car, res.WornPart, math.Round(g.uniform(6, 14)))
	return res, nil
}

// awardTrophy pays the rank's completion bonus exactly once per season.
func (g *Game) awardTrophy(rank catalog.LeagueRank) int64 {
	if g.state.League.CompletedRanks[rank.ID] {
		return 0
	}
	g.state.League.CompletedRanks[rank.ID] = true
	trophy := g.price(rank.TrophyBonus)
	g.earn(trophy)
	g.pushLog(fmt.Sprintf("%s trophy purse banked: %d.", rank.Label, trophy))
	return trophy
}

// markLeagueLoss advances the loss streak; two consecutive losses drop the
// player to the last match of the previous rank. Returns true if the
// relegation fired.
func (g *Game) markLeagueLoss() bool {
	lg := &g.state.League
	lg.LossStreak++
	if lg.LossStreak < 2 || lg.Rank <= 0 || lg.Champion {
		return false
	}
	lg.Rank--
	prev := catalog.LeagueRankAt(lg.Rank)
	lg.Match = len(prev.Opponents) - 1
	if lg.Match < 0 {
		lg.Match = 0
	}
	lg.LossStreak = 0
	g.pushLog(fmt.Sprintf("Relegated to %s after consecutive losses.", prev.Label))
	return true
}

func (g *Game) recordLeagueResult(rankID string, opponent int, won bool, failedPart string, payout int64) {
	g.state.LeagueHistory = append(g.state.LeagueHistory, LeagueResult{
		Season:   g.state.League.Season,
		RankID:   rankID,
		Opponent: opponent,
		Won:      won,
		Failed:   failedPart,
		Payout:   payout,
		At:       time.Now().UTC(),
	})
	if len(g.state.LeagueHistory) > leagueHistoryMax {
		g.state.LeagueHistory = g.state.LeagueHistory[len(g.state.LeagueHistory)-leagueHistoryMax:]
	}
}

// NewLeagueSeason resets the ladder after a championship. Only a champion
// can roll the season over.
func (g *Game) NewLeagueSeason() error {
	g.mu.Lock()
	defer g.mu.Unlock()

	lg := &g.state.League
	if !lg.Champion {
		return fmt.Errorf("%w: win the finals before starting a new season", ErrBadPhase)
	}
	lg.Season++
	lg.Rank = 0
	lg.Match = 0
	lg.Champion = false
	lg.LossStreak = 0
	lg.CompletedRanks = make(map[string]bool)
	g.pushLog(fmt.Sprintf("League season %d begins.", lg.Season))
	return nil
}
