// Command simreport runs seeded Monte Carlo simulations against the game
// engine and prints balance tables: street race win and failure rates,
// slot machine return-to-player, and blackjack expected value. Use it to
// sanity-check the economy after touching race math or casino payouts.
package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"math/rand"
	"os"

	"car-flipper/internal/catalog"
	"car-flipper/internal/engine"

	"github.com/jedib0t/go-pretty/v6/table"
)

func main() {
	seed := flag.Int64("seed", 1, "random seed")
	races := flag.Int("races", 400, "races simulated per event")
	spins := flag.Int("spins", 5000, "slot spins simulated")
	hands := flag.Int("hands", 5000, "blackjack hands simulated")
	flag.Parse()

	fmt.Printf("Simulation report (seed=%d)\n\n", *seed)
	raceReport(*seed, *races)
	slotsReport(*seed, *spins)
	blackjackReport(*seed, *hands)
}

// testCar builds a mint car at the given performance rating.
func testCar(model string) *engine.Car {
	m := catalog.ModelByName(model)
	cond := make(map[catalog.PartKey]float64, len(catalog.Parts))
	for _, p := range catalog.Parts {
		cond[p.Key] = 100
	}
	return &engine.Car{
		ID:          engine.NewCarID(),
		Model:       m.Name,
		BasePrice:   m.BasePrice,
		BasePerf:    m.BasePerf,
		BoughtPrice: m.BasePrice,
		Valuation:   m.BasePrice,
		Condition:   cond,
		Tuning:      map[catalog.TuningKey]int{},
	}
}

// freshGame returns a game holding one mint car and enough money that
// entry fees and stakes never bounce.
func freshGame(seed int64, model string) (*engine.Game, string) {
	g := engine.NewGame("Simulator", "standard", "USD", rand.New(rand.NewSource(seed)))
	state, err := g.Snapshot()
	if err != nil {
		fmt.Fprintf(os.Stderr, "snapshot: %v\n", err)
		os.Exit(1)
	}
	car := testCar(model)
	state.Money = 1_000_000_000
	state.Cars = append(state.Cars, car)
	g.Replace(state)
	return g, car.ID
}

func raceReport(seed int64, n int) {
	t := table.NewWriter()
	t.SetOutputMirror(os.Stdout)
	t.SetStyle(table.StyleRounded)
	t.SetTitle("Street races: mint Cobra GT over %d runs each", n)
	t.AppendHeader(table.Row{"Event", "Opp perf", "Fee", "Prize", "Win %", "Fail %", "Avg net"})

	for _, event := range catalog.RaceEvents {
		g, carID := freshGame(seed, "Cobra GT")
		baseline, err := g.Snapshot()
		if err != nil {
			fmt.Fprintf(os.Stderr, "snapshot: %v\n", err)
			os.Exit(1)
		}
		raw, err := json.Marshal(baseline)
		if err != nil {
			fmt.Fprintf(os.Stderr, "marshal baseline: %v\n", err)
			os.Exit(1)
		}
		wins, fails := 0, 0
		var net int64
		for i := 0; i < n; i++ {
			res, err := g.StreetRace(carID, event.ID)
			if err != nil {
				fmt.Fprintf(os.Stderr, "race %s: %v\n", event.ID, err)
				os.Exit(1)
			}
			if res.Outcome.Win {
				wins++
				net += res.Prize - res.EntryFee
			} else {
				net -= res.EntryFee
			}
			if res.CarFailed {
				fails++
			}
			// Reset wear so every run races the same mint car.
			var fresh engine.State
			if err := json.Unmarshal(raw, &fresh); err != nil {
				fmt.Fprintf(os.Stderr, "reset state: %v\n", err)
				os.Exit(1)
			}
			g.Replace(&fresh)
		}
		t.AppendRow([]interface{}{
			event.ID,
			event.OpponentPerf,
			event.EntryFee,
			event.Prize,
			fmt.Sprintf("%.1f", 100*float64(wins)/float64(n)),
			fmt.Sprintf("%.1f", 100*float64(fails)/float64(n)),
			net / int64(n),
		})
	}
	t.Render()
	fmt.Println()
}

func slotsReport(seed int64, n int) {
	g, _ := freshGame(seed, "Cobra GT")

	var staked, won int64
	freeSpins := 0
	for i := 0; i < n; i++ {
		res, err := g.SpinSlots(50, 7)
		if err != nil {
			fmt.Fprintf(os.Stderr, "spin %d: %v\n", i, err)
			os.Exit(1)
		}
		staked += res.Stake
		won += res.Win
		if res.FreeSpin {
			freeSpins++
		}
	}

	t := table.NewWriter()
	t.SetOutputMirror(os.Stdout)
	t.SetStyle(table.StyleRounded)
	t.SetTitle("Slots: %d spins at 50 x 7 lines", n)
	t.AppendHeader(table.Row{"Staked", "Won", "RTP %", "Free spins"})
	t.AppendRow([]interface{}{
		staked,
		won,
		fmt.Sprintf("%.1f", 100*float64(won)/float64(staked)),
		freeSpins,
	})
	t.Render()
	fmt.Println()
}

func blackjackReport(seed int64, n int) {
	g, _ := freshGame(seed, "Cobra GT")

	const stake = 100
	var net int64
	outcomes := map[string]int{}
	for i := 0; i < n; i++ {
		view, err := g.DealBlackjack(stake)
		if err != nil {
			fmt.Fprintf(os.Stderr, "deal %d: %v\n", i, err)
			os.Exit(1)
		}
		// Basic play: draw to 17, then stand.
		for view.Phase == engine.BJPhasePlayer && view.PlayerValue < 17 {
			view, err = g.HitBlackjack()
			if err != nil {
				fmt.Fprintf(os.Stderr, "hit %d: %v\n", i, err)
				os.Exit(1)
			}
		}
		if view.Phase == engine.BJPhasePlayer {
			view, err = g.StandBlackjack()
			if err != nil {
				fmt.Fprintf(os.Stderr, "stand %d: %v\n", i, err)
				os.Exit(1)
			}
		}
		net += view.Net
		switch {
		case view.Net > 0:
			outcomes["win"]++
		case view.Net < 0:
			outcomes["loss"]++
		default:
			outcomes["push"]++
		}
	}

	t := table.NewWriter()
	t.SetOutputMirror(os.Stdout)
	t.SetStyle(table.StyleRounded)
	t.SetTitle("Blackjack: %d hands at %d, draw to 17", n, stake)
	t.AppendHeader(table.Row{"Wins", "Losses", "Pushes", "Net", "EV per hand"})
	t.AppendRow([]interface{}{
		outcomes["win"],
		outcomes["loss"],
		outcomes["push"],
		net,
		fmt.Sprintf("%.2f", float64(net)/float64(n)),
	})
	t.Render()
	fmt.Println()
}
