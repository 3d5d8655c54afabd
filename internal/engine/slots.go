package engine

import (
	"fmt"
	"math"
)

// Slot symbols. The scatter never appears in the weighted reel; only the
// forced-scatter hook places it on the grid.
const (
	symCherry  = "cherry"
	symLemon   = "lemon"
	symBell    = "bell"
	symStar    = "star"
	symDiamond = "diamond"
	symSeven   = "seven"
	symWild    = "wild"
	symScatter = "scatter"
)

type slotSymbol struct {
	name   string
	weight int
	p3     float64
	p2     float64
	wild   bool
}

var slotSymbols = []slotSymbol{
	{symCherry, 8, 5, 1.5, false},
	{symLemon, 8, 4, 1.4, false},
	{symBell, 5, 8, 2.0, false},
	{symStar, 4, 12, 3.0, false},
	{symDiamond, 3, 20, 4.0, false},
	{symSeven, 1, 40, 6.0, false},
	{symWild, 2, 25, 5.0, true},
}

// slotReel is the weight-expanded draw pool.
var slotReel = func() []string {
	var pool []string
	for _, s := range slotSymbols {
		for i := 0; i < s.weight; i++ {
			pool = append(pool, s.name)
		}
	}
	return pool
}()

// paylines[i][col] is the row index for column col. The first N lines are
// the enabled ones when N lines are bet: rows, diagonals, then the two V
// shapes.
var paylines = [7][3]int{
	{0, 0, 0},
	{1, 1, 1},
	{2, 2, 2},
	{0, 1, 2},
	{2, 1, 0},
	{0, 1, 0},
	{2, 1, 2},
}

var bonusMultipliers = []int{1, 2, 5, 10, 3}

func symbolByName(name string) *slotSymbol {
	for i := range slotSymbols {
		if slotSymbols[i].name == name {
			return &slotSymbols[i]
		}
	}
	return nil
}

func isWild(s string) bool { return s == symWild }

// linePayout evaluates one payline left to right: a triple pays p3, a pair
// on the first two columns pays p2, wilds substitute in both cases. The
// paying symbol is the first non-wild on the line.
func linePayout(grid [][]string, line [3]int, betPerLine int64) int64 {
	a := grid[line[0]][0]
	b := grid[line[1]][1]
	c := grid[line[2]][2]

	target := symWild
	switch {
	case !isWild(a):
		target = a
	case !isWild(b):
		target = b
	case !isWild(c):
		target = c
	}
	sym := symbolByName(target)
	if sym == nil {
		return 0
	}
	if (isWild(a) || a == target) && (isWild(b) || b == target) && (isWild(c) || c == target) {
		return roundI64(float64(betPerLine) * sym.p3)
	}

	pairTarget := symWild
	switch {
	case !isWild(a):
		pairTarget = a
	case !isWild(b):
		pairTarget = b
	}
	pairSym := symbolByName(pairTarget)
	if pairSym == nil {
		return 0
	}
	if (isWild(a) || a == pairTarget) && (isWild(b) || b == pairTarget) {
		return roundI64(float64(betPerLine) * pairSym.p2)
	}
	return 0
}

// SpinResult is one resolved spin.
type SpinResult struct {
	Grid          [][]string `json:"grid"`
	Stake         int64      `json:"stake"`
	Win           int64      `json:"win"`
	Net           int64      `json:"net"`
	FreeSpin      bool       `json:"free_spin"`
	FreeSpinsLeft int        `json:"free_spins_left"`
	WildBonus     bool       `json:"wild_bonus"`
	ScatterBonus  bool       `json:"scatter_bonus"`
	XP            int64      `json:"xp"`
}

// SpinSlots runs one spin at betPerLine across the first `lines` paylines.
// Free spins consume no stake. A pending scatter bonus blocks further
// spins until picked.
func (g *Game) SpinSlots(betPerLine int64, lines int) (*SpinResult, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	sl := &g.state.Slots
	if sl.Spinning || len(sl.BonusOptions) > 0 {
		return nil, ErrBusy
	}
	if betPerLine < 10 {
		betPerLine = 10
	}
	lines = clampInt(lines, 1, len(paylines))
	bet := betPerLine * int64(lines)

	free := sl.FreeSpins > 0
	stake := bet
	if free {
		stake = 0
		sl.FreeSpins--
	} else if err := g.spend(bet); err != nil {
		return nil, err
	}
	sl.Spinning = true
	defer func() { sl.Spinning = false }()

	grid := make([][]string, 3)
	for r := 0; r < 3; r++ {
		grid[r] = make([]string, 3)
		for c := 0; c < 3; c++ {
			grid[r][c] = slotReel[g.rng.Intn(len(slotReel))]
		}
	}
	if sl.ForceScatter {
		for _, idx := range g.rng.Perm(9)[:3] {
			grid[idx/3][idx%3] = symScatter
		}
		sl.ForceScatter = false
	}
	sl.LastGrid = grid

	var win int64
	for i := 0; i < lines; i++ {
		win += linePayout(grid, paylines[i], betPerLine)
	}
	if win > 0 {
		g.earn(win)
	}

	res := &SpinResult{
		Grid:     grid,
		Stake:    stake,
		Win:      win,
		Net:      win - stake,
		FreeSpin: free,
	}
	if win > 0 {
		res.XP = int64(math.Min(25, math.Round(float64(win)/400)))
	} else {
		res.XP = 2
	}
	g.addXP(res.XP)

	wilds, scatters := 0, 0
	for r := 0; r < 3; r++ {
		for c := 0; c < 3; c++ {
			switch grid[r][c] {
			case symWild:
				wilds++
			case symScatter:
				scatters++
			}
		}
	}
	if wilds >= 3 {
		sl.FreeSpins += 5
		res.WildBonus = true
		g.pushLog("Three jokers! Five free spins banked.")
	}
	if scatters >= 3 {
		res.ScatterBonus = true
		opts := make([]int, len(bonusMultipliers))
		copy(opts, bonusMultipliers)
		g.rng.Shuffle(len(opts), func(i, j int) { opts[i], opts[j] = opts[j], opts[i] })
		sl.BonusOptions = opts
		sl.PendingBet = bet
		sl.PendingStake = stake
		sl.PendingWin = win
	} else {
		sl.Recent = capHistory(append(sl.Recent, res.Net), casinoHistoryMax)
		sl.TotalWinnings += res.Net
	}
	res.FreeSpinsLeft = sl.FreeSpins
	return res, nil
}

// BonusPickResult is a resolved scatter bonus.
type BonusPickResult struct {
	Multiplier int   `json:"multiplier"`
	Prize      int64 `json:"prize"`
	Net        int64 `json:"net"`
}

// PickSlotsBonus resolves the pending scatter bonus: the chosen coin's
// multiplier times the triggering spin's total bet.
func (g *Game) PickSlotsBonus(choice int) (*BonusPickResult, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	sl := &g.state.Slots
	if len(sl.BonusOptions) == 0 {
		return nil, fmt.Errorf("%w: no bonus pending", ErrBadPhase)
	}
	if choice < 0 || choice >= len(sl.BonusOptions) {
		return nil, fmt.Errorf("%w: bonus choice out of range", ErrBadInput)
	}
	mult := sl.BonusOptions[choice]
	prize := sl.PendingBet * int64(mult)
	g.earn(prize)

	net := sl.PendingWin - sl.PendingStake + prize
	sl.Recent = capHistory(append(sl.Recent, net), casinoHistoryMax)
	sl.TotalWinnings += net
	sl.BonusOptions = nil
	sl.PendingBet, sl.PendingStake, sl.PendingWin = 0, 0, 0

	g.pushLog(fmt.Sprintf("Bonus coin paid x%d for %d.", mult, prize))
	return &BonusPickResult{Multiplier: mult, Prize: prize, Net: net}, nil
}

// ForceScatter arms the one-shot scatter override for the next spin.
func (g *Game) ForceScatter() {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.state.Slots.ForceScatter = true
	g.pushLog("The next spin smells like money.")
}
