package engine

import (
	"fmt"
	"math"

	"car-flipper/internal/catalog"
)

// BuyResult reports a completed market purchase.
type BuyResult struct {
	Car      *Car  `json:"car"`
	Cost     int64 `json:"cost"`
	Discount int64 `json:"discount"`
}

// BuyCar moves a listing into the garage at its current price. The
// contraband network shaves 12% off. A full garage rejects the deal
// without touching money or listings.
func (g *Game) BuyCar(listingID string) (*BuyResult, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	listing, idx := g.listingByID(listingID)
	if listing == nil {
		return nil, ErrListingNotFound
	}
	if len(g.state.Cars) >= g.garageCapacity() {
		return nil, ErrGarageFull
	}

	var discount int64
	if g.state.Crew[catalog.CrewContrabandNetwork] {
		discount = roundI64(float64(listing.Price) * 0.12)
	}
	cost := listing.Price - discount
	if cost < 0 {
		cost = 0
	}
	if err := g.spend(cost); err != nil {
		return nil, err
	}

	car := listing.Car
	car.BoughtPrice = listing.Price
	car.Valuation = listing.Price
	car.History = []int64{listing.Price}
	g.state.Cars = append(g.state.Cars, &car)
	g.state.Listings = append(g.state.Listings[:idx], g.state.Listings[idx+1:]...)

	g.addHeat(1)
	g.addXP(15)
	if discount > 0 {
		g.pushLog(fmt.Sprintf("Crew contacts shaved %d off the %s.", discount, car.Model))
	}
	g.pushLog(fmt.Sprintf("Bought a %s for %d.", car.Model, cost))
	return &BuyResult{Car: &car, Cost: cost, Discount: discount}, nil
}

// SellResult reports a completed garage sale.
type SellResult struct {
	Model  string `json:"model"`
	Price  int64  `json:"price"`
	Profit int64  `json:"profit"`
	XP     int64  `json:"xp"`
}

// SellCar liquidates a garage car at its live valuation, boosted by any
// installed cosmetics. Profitable flips earn extra reputation.
func (g *Game) SellCar(carID string) (*SellResult, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	car := g.carByID(carID)
	if car == nil {
		return nil, ErrCarNotFound
	}

	base := car.Valuation
	if base <= 0 {
		factor := conditionFactor(avgCondition(car.Condition))
		base = roundI64(float64(car.BasePrice) * factor * g.uniform(0.9, 1.1))
	}
	price := roundI64(float64(base) * cosmeticMultiplier(car))
	g.earn(price)

	profit := price - car.BoughtPrice
	var xp int64 = 5
	if profit > 0 {
		xp = roundI64(10 + float64(profit)/1000)
	}
	g.addXP(xp)

	for i, c := range g.state.Cars {
		if c.ID == carID {
			g.state.Cars = append(g.state.Cars[:i], g.state.Cars[i+1:]...)
			break
		}
	}
	g.pushLog(fmt.Sprintf("Sold the %s for %d.", car.Model, price))
	return &SellResult{Model: car.Model, Price: price, Profit: profit, XP: xp}, nil
}

// InstallCosmetic fits a cosmetic package on a garage car. Duplicates are
// rejected.
func (g *Game) InstallCosmetic(carID, cosmeticID string) error {
	g.mu.Lock()
	defer g.mu.Unlock()

	car := g.carByID(carID)
	if car == nil {
		return ErrCarNotFound
	}
	pkg := catalog.CosmeticByID(cosmeticID)
	if pkg == nil {
		return fmt.Errorf("%w: unknown cosmetic %q", ErrBadInput, cosmeticID)
	}
	for _, id := range car.Cosmetics {
		if id == pkg.ID {
			return ErrAlreadyOwned
		}
	}
	if err := g.spend(g.price(pkg.Cost)); err != nil {
		return err
	}
	car.Cosmetics = append(car.Cosmetics, pkg.ID)

	base := roundI64(float64(car.BasePrice) * conditionFactor(avgCondition(car.Condition)))
	if car.Valuation > 0 {
		base = car.Valuation
	}
	boosted := roundI64(float64(base) * cosmeticMultiplier(car))
	car.History = capHistory(append(car.History, boosted), priceHistoryMax)

	g.pushLog(fmt.Sprintf("%s applied to the %s.", pkg.Label, car.Model))
	return nil
}

// HireCrew buys a one-time crew perk.
func (g *Game) HireCrew(key catalog.CrewKey) error {
	g.mu.Lock()
	defer g.mu.Unlock()

	perk := catalog.CrewByKey(key)
	if perk == nil {
		return fmt.Errorf("%w: unknown crew role %q", ErrBadInput, key)
	}
	if g.state.Crew[key] {
		return ErrAlreadyOwned
	}
	if err := g.spend(g.price(perk.Cost)); err != nil {
		return err
	}
	g.state.Crew[key] = true
	g.pushLog(fmt.Sprintf("%s joined the crew.", perk.Label))
	return nil
}

// roundTo500 rounds a property price to the nearest 500.
func roundTo500(v float64) int64 {
	return roundI64(v/500) * 500
}

// NextSlotCost quotes the next extra garage bay in the current tier, or 0
// when the tier is maxed out.
func (g *Game) NextSlotCost() int64 {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.nextSlotCost()
}

func (g *Game) nextSlotCost() int64 {
	tier := catalog.GarageTierAt(g.state.GarageTier)
	if g.state.SlotsPurchased >= tier.MaxExtraSlots {
		return 0
	}
	raw := float64(g.price(tier.SlotCostBase)) * math.Pow(tier.SlotCostScale, float64(g.state.SlotsPurchased))
	return roundTo500(raw)
}

// BuyGarageSlot purchases one extra bay in the current tier.
func (g *Game) BuyGarageSlot() (int64, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	cost := g.nextSlotCost()
	if cost == 0 {
		return 0, ErrAlreadyMaxed
	}
	if err := g.spend(cost); err != nil {
		return 0, err
	}
	g.state.SlotsPurchased++
	g.addXP(8)
	g.pushLog(fmt.Sprintf("Bought an extra garage bay for %d.", cost))
	return cost, nil
}

// UpgradeGarageTier unlocks the next storage tier. Purchased extra bays
// carry over, clamped to the new tier's limit.
func (g *Game) UpgradeGarageTier() (int64, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.state.GarageTier >= len(catalog.GarageTiers)-1 {
		return 0, ErrAlreadyMaxed
	}
	next := catalog.GarageTierAt(g.state.GarageTier + 1)
	cost := roundTo500(float64(g.price(next.UnlockCost)))
	if err := g.spend(cost); err != nil {
		return 0, err
	}
	g.state.GarageTier++
	g.state.SlotsPurchased = clampInt(g.state.SlotsPurchased, 0, next.MaxExtraSlots)
	g.addXP(20)
	g.pushLog(fmt.Sprintf("Garage upgraded to the %s.", next.Label))
	return cost, nil
}

// SwitchCurrency rescales every money-like figure in the save by the
// ratio of the new and old rates, then switches the display currency.
func (g *Game) SwitchCurrency(code string) error {
	g.mu.Lock()
	defer g.mu.Unlock()

	if _, ok := catalog.CurrencyRates[code]; !ok {
		return fmt.Errorf("%w: unknown currency %q", ErrBadInput, code)
	}
	if code == g.state.Currency {
		return nil
	}
	ratio := catalog.Rate(code) / catalog.Rate(g.state.Currency)
	rescale := func(v int64) int64 { return roundI64(float64(v) * ratio) }

	s := g.state
	s.Money = rescale(s.Money)
	for _, c := range s.Cars {
		rescaleCar(c, rescale)
	}
	for _, l := range s.Listings {
		rescaleCar(&l.Car, rescale)
		l.Price = rescale(l.Price)
		rescaleHistory(l.PriceHistory, rescale)
	}
	for k := range s.PartPrices {
		s.PartPrices[k] = rescale(s.PartPrices[k])
	}
	for k := range s.IllegalPartPrices {
		s.IllegalPartPrices[k] = rescale(s.IllegalPartPrices[k])
	}
	for k := range s.PartHistory {
		rescaleHistory(s.PartHistory[k], rescale)
	}
	for k := range s.IllegalHistory {
		rescaleHistory(s.IllegalHistory[k], rescale)
	}
	for _, tr := range s.Trends {
		tr.Index = rescale(tr.Index)
		rescaleHistory(tr.History, rescale)
	}
	s.Slots.TotalWinnings = rescale(s.Slots.TotalWinnings)
	s.Slots.PendingBet = rescale(s.Slots.PendingBet)
	s.Slots.PendingStake = rescale(s.Slots.PendingStake)
	s.Slots.PendingWin = rescale(s.Slots.PendingWin)
	rescaleHistory(s.Slots.Recent, rescale)
	s.Blackjack.Stake = rescale(s.Blackjack.Stake)
	s.Blackjack.TotalWinnings = rescale(s.Blackjack.TotalWinnings)
	rescaleHistory(s.Blackjack.Recent, rescale)
	rescaleHistory(s.Blackjack.Winnings, rescale)
	for i := range s.LeagueHistory {
		s.LeagueHistory[i].Payout = rescale(s.LeagueHistory[i].Payout)
	}

	s.Currency = code
	g.pushLog(fmt.Sprintf("Books converted to %s.", code))
	return nil
}

func rescaleCar(c *Car, rescale func(int64) int64) {
	c.BasePrice = rescale(c.BasePrice)
	c.BoughtPrice = rescale(c.BoughtPrice)
	c.Valuation = rescale(c.Valuation)
	rescaleHistory(c.History, rescale)
}

func rescaleHistory(h []int64, rescale func(int64) int64) {
	for i := range h {
		h[i] = rescale(h[i])
	}
}
