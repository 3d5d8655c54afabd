package engine

import (
	"fmt"

	"car-flipper/internal/catalog"
)

// Random-walk tuning. Each drifting series multiplies by a factor drawn
// from its walk band, then clamps into its bound band around an anchor.
const (
	legalWalkLo, legalWalkHi     = 0.97, 1.03
	legalBoundLo, legalBoundHi   = 0.8, 1.3
	illegalWalkLo, illegalWalkHi = 0.95, 1.05
	illegalBdLo, illegalBdHi     = 0.5, 1.1
	listWalkLo, listWalkHi       = 0.96, 1.05
	listBoundLo, listBoundHi     = 0.55, 1.5
	valWalkLo, valWalkHi         = 0.97, 1.03
	valBoundLo, valBoundHi       = 0.7, 1.3
	trendWalkLo, trendWalkHi     = 0.97, 1.03
	trendBoundLo, trendBoundHi   = 0.6, 1.4
)

// driftPrice advances price one step of a bounded random walk anchored on
// anchor. Prices never drop below 1.
func (g *Game) driftPrice(price, anchor int64, walkLo, walkHi, boundLo, boundHi float64) int64 {
	next := float64(price) * g.uniform(walkLo, walkHi)
	next = clampFloat(next, float64(anchor)*boundLo, float64(anchor)*boundHi)
	if next < 1 {
		next = 1
	}
	return roundI64(next)
}

// seedMarket fills in initial part prices and per-model trend series for a
// brand-new save.
func (g *Game) seedMarket() {
	for _, p := range catalog.Parts {
		base := g.price(p.BasePrice)
		g.state.PartPrices[p.Key] = roundI64(float64(base) * g.uniform(0.9, 1.2))
		g.state.IllegalPartPrices[p.Key] = roundI64(float64(base) * g.uniform(0.6, 1.0))
		g.state.PartHistory[p.Key] = []int64{g.state.PartPrices[p.Key]}
		g.state.IllegalHistory[p.Key] = []int64{g.state.IllegalPartPrices[p.Key]}
	}
	for _, m := range catalog.Models {
		g.state.Trends[m.Name] = g.seedTrend(g.price(m.BasePrice))
	}
}

// seedTrend builds a full history for one model index: an anchored start
// followed by a gentle walk.
func (g *Game) seedTrend(base int64) *TrendSeries {
	cur := float64(base) * g.uniform(0.9, 1.1)
	hist := make([]int64, 0, priceHistoryMax)
	for i := 0; i < priceHistoryMax; i++ {
		cur *= g.uniform(0.98, 1.02)
		cur = clampFloat(cur, float64(base)*trendBoundLo, float64(base)*trendBoundHi)
		hist = append(hist, roundI64(cur))
	}
	return &TrendSeries{Index: hist[len(hist)-1], History: hist}
}

// TickParts advances the legal parts market one step.
func (g *Game) TickParts() {
	g.mu.Lock()
	defer g.mu.Unlock()
	for _, p := range catalog.Parts {
		anchor := g.price(p.BasePrice)
		next := g.driftPrice(g.state.PartPrices[p.Key], anchor,
			legalWalkLo, legalWalkHi, legalBoundLo, legalBoundHi)
		g.state.PartPrices[p.Key] = next
		g.state.PartHistory[p.Key] = capHistory(append(g.state.PartHistory[p.Key], next), priceHistoryMax)
	}
}

// TickMarket advances the illegal parts market, listing prices, garage
// valuations, and model trends one step, then cools heat by one and rolls
// for a heat event.
func (g *Game) TickMarket() {
	g.mu.Lock()
	defer g.mu.Unlock()

	for _, p := range catalog.Parts {
		anchor := g.price(p.BasePrice)
		next := g.driftPrice(g.state.IllegalPartPrices[p.Key], anchor,
			illegalWalkLo, illegalWalkHi, illegalBdLo, illegalBdHi)
		g.state.IllegalPartPrices[p.Key] = next
		g.state.IllegalHistory[p.Key] = capHistory(append(g.state.IllegalHistory[p.Key], next), priceHistoryMax)
	}

	for _, l := range g.state.Listings {
		anchor := roundI64(float64(l.BasePrice) * conditionFactor(avgCondition(l.Condition)))
		l.Price = g.driftPrice(l.Price, anchor, listWalkLo, listWalkHi, listBoundLo, listBoundHi)
		l.PriceHistory = capHistory(append(l.PriceHistory, l.Price), priceHistoryMax)
	}

	for _, c := range g.state.Cars {
		anchor := roundI64(float64(c.BasePrice) * conditionFactor(avgCondition(c.Condition)))
		c.Valuation = g.driftPrice(c.Valuation, anchor, valWalkLo, valWalkHi, valBoundLo, valBoundHi)
		c.History = capHistory(append(c.History, c.Valuation), priceHistoryMax)
	}

	for name, tr := range g.state.Trends {
		m := catalog.ModelByName(name)
		if m == nil {
			continue
		}
		anchor := g.price(m.BasePrice)
		tr.Index = g.driftPrice(tr.Index, anchor, trendWalkLo, trendWalkHi, trendBoundLo, trendBoundHi)
		tr.History = capHistory(append(tr.History, tr.Index), priceHistoryMax)
	}

	g.coolHeat(1)
	g.rollHeatEvent()
}

// rollHeatEvent fires police trouble once heat crosses the event floor:
// usually a fine, sometimes an impound.
func (g *Game) rollHeatEvent() {
	if g.state.Heat < heatEventFloor {
		return
	}
	chance := 0.05 + float64(g.state.Heat-heatEventFloor)*0.01
	if chance > 0.25 {
		chance = 0.25
	}
	if g.rng.Float64() >= chance {
		return
	}
	if g.rng.Float64() < 0.7 || len(g.state.Cars) == 0 {
		fine := roundI64(float64(g.state.Money) * 0.07)
		if fine < 250 {
			fine = 250
		}
		if fine > g.state.Money {
			fine = g.state.Money
		}
		g.state.Money -= fine
		g.coolHeat(15)
		g.pushLog(fmt.Sprintf("Police shakedown. Paid a %d fine.", fine))
		return
	}
	idx := g.rng.Intn(len(g.state.Cars))
	seized := g.state.Cars[idx]
	g.state.Cars = append(g.state.Cars[:idx], g.state.Cars[idx+1:]...)
	g.coolHeat(20)
	g.pushLog(fmt.Sprintf("Impound raid! Lost the %s.", seized.Model))
}

// RefreshListings replaces the market listings with a fresh batch and
// advances the day counter.
func (g *Game) RefreshListings() {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.refreshListings()
	g.state.Day++
}

// refreshListings generates min(7, 3 + (level-1)/2) listings. Most of the
// market skews toward worn cars; clean ones are the flip opportunities.
func (g *Game) refreshListings() {
	n := 3 + (g.state.Level-1)/2
	if n > 7 {
		n = 7
	}
	listings := make([]*Listing, 0, n)
	for i := 0; i < n; i++ {
		listings = append(listings, g.rollListing())
	}
	g.state.Listings = listings
}

func (g *Game) rollListing() *Listing {
	m := catalog.Models[g.rng.Intn(len(catalog.Models))]
	base := g.price(m.BasePrice)

	cond := make(map[catalog.PartKey]float64, len(catalog.Parts))
	worn := g.rng.Float64() < 0.6
	for _, p := range catalog.Parts {
		if worn && g.rng.Float64() < 0.3 {
			cond[p.Key] = g.uniform(35, 75)
		} else {
			cond[p.Key] = g.uniform(70, 100)
		}
	}

	factor := conditionFactor(avgCondition(cond))
	price := roundI64(float64(base) * factor * g.uniform(0.75, 1.25))
	if price < 1 {
		price = 1
	}

	car := Car{
		ID:        NewCarID(),
		Model:     m.Name,
		BasePrice: base,
		BasePerf:  m.BasePerf,
		Condition: cond,
		Tuning:    stockTuning(),
		Valuation: price,
	}
	return &Listing{
		Car:          car,
		Price:        price,
		PriceHistory: g.seedListingHistory(m.Name, base, factor, price),
	}
}

// seedListingHistory derives the listing chart from the tail of the
// model's trend series, scaled by the car's condition.
func (g *Game) seedListingHistory(model string, base int64, factor float64, now int64) []int64 {
	tr := g.state.Trends[model]
	if tr == nil || len(tr.History) == 0 {
		return []int64{now}
	}
	tail := tr.History
	if len(tail) > listingSeedPoints {
		tail = tail[len(tail)-listingSeedPoints:]
	}
	hist := make([]int64, 0, len(tail)+1)
	for _, v := range tail {
		p := float64(v) * factor * g.uniform(0.97, 1.03)
		p = clampFloat(p, float64(now)*0.5, float64(now)*1.5)
		hist = append(hist, roundI64(p))
	}
	return append(hist, now)
}

func stockTuning() map[catalog.TuningKey]int {
	t := make(map[catalog.TuningKey]int, len(catalog.TuningOptions))
	for _, opt := range catalog.TuningOptions {
		t[opt.Key] = 0
	}
	return t
}
