package engine

import (
	"fmt"
	"math"
)

var (
	bjRanks = []string{"A", "2", "3", "4", "5", "6", "7", "8", "9", "10", "J", "Q", "K"}
	bjSuits = []string{"spades", "hearts", "diamonds", "clubs"}
)

const bjReshuffleFloor = 15

// newShoe builds a Fisher-Yates shuffled 52-card deck.
func (g *Game) newShoe() []Card {
	cards := make([]Card, 0, 52)
	for _, r := range bjRanks {
		for _, s := range bjSuits {
			cards = append(cards, Card{Rank: r, Suit: s})
		}
	}
	for i := len(cards) - 1; i > 0; i-- {
		j := g.rng.Intn(i + 1)
		cards[i], cards[j] = cards[j], cards[i]
	}
	return cards
}

// drawCard pops the top of the shoe. A long hand can drain the shoe
// mid-round even after the deal-time reshuffle check, so an empty shoe is
// rebuilt on the spot from a fresh deck minus the cards in play.
func (g *Game) drawCard() Card {
	b := &g.state.Blackjack
	if len(b.Shoe) == 0 {
		inPlay := make(map[Card]int)
		for _, c := range b.Player {
			inPlay[c]++
		}
		for _, c := range b.Dealer {
			inPlay[c]++
		}
		for _, c := range g.newShoe() {
			if inPlay[c] > 0 {
				inPlay[c]--
				continue
			}
			b.Shoe = append(b.Shoe, c)
		}
	}
	c := b.Shoe[len(b.Shoe)-1]
	b.Shoe = b.Shoe[:len(b.Shoe)-1]
	return c
}

// HandValue counts a hand with aces as 11, dropping each to 1 while the
// total busts.
func HandValue(cards []Card) int {
	sum, aces := 0, 0
	for _, c := range cards {
		switch c.Rank {
		case "A":
			aces++
			sum += 11
		case "K", "Q", "J", "10":
			sum += 10
		default:
			sum += int(c.Rank[0] - '0')
		}
	}
	for sum > 21 && aces > 0 {
		sum -= 10
		aces--
	}
	return sum
}

// isNatural reports a two-card 21.
func isNatural(cards []Card) bool {
	return len(cards) == 2 && HandValue(cards) == 21
}

// BlackjackView is the table as the player sees it. The dealer's hole card
// stays hidden until the hand settles.
type BlackjackView struct {
	Player      []Card `json:"player"`
	Dealer      []Card `json:"dealer"`
	PlayerValue int    `json:"player_value"`
	DealerValue int    `json:"dealer_value"`
	Stake       int64  `json:"stake"`
	Phase       string `json:"phase"`
	Payout      int64  `json:"payout"`
	Net         int64  `json:"net"`
	ShoeLeft    int    `json:"shoe_left"`
	Desc        string `json:"desc,omitempty"`
}

// DealBlackjack starts a hand: stake down, two cards each, and a fresh
// shoe whenever the old one runs below the reshuffle floor.
func (g *Game) DealBlackjack(stake int64) (*BlackjackView, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	b := &g.state.Blackjack
	if b.Phase == BJPhasePlayer {
		return nil, ErrBusy
	}
	if stake <= 0 {
		return nil, fmt.Errorf("%w: stake must be positive", ErrBadInput)
	}
	if err := g.spend(stake); err != nil {
		return nil, err
	}

	if len(b.Shoe) <= bjReshuffleFloor {
		b.Shoe = g.newShoe()
	}
	b.Stake = stake
	b.Player = []Card{g.drawCard(), g.drawCard()}
	b.Dealer = []Card{g.drawCard(), g.drawCard()}
	b.Phase = BJPhasePlayer
	return g.blackjackView(0, ""), nil
}

// HitBlackjack draws one card for the player; a bust settles the hand.
func (g *Game) HitBlackjack() (*BlackjackView, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	b := &g.state.Blackjack
	if b.Phase != BJPhasePlayer {
		return nil, ErrBadPhase
	}
	b.Player = append(b.Player, g.drawCard())
	if HandValue(b.Player) > 21 {
		return g.settleBlackjack(), nil
	}
	return g.blackjackView(0, ""), nil
}

// StandBlackjack ends the player's turn: the dealer draws to 17 and the
// hand settles.
func (g *Game) StandBlackjack() (*BlackjackView, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	b := &g.state.Blackjack
	if b.Phase != BJPhasePlayer {
		return nil, ErrBadPhase
	}
	for HandValue(b.Dealer) < 17 {
		b.Dealer = append(b.Dealer, g.drawCard())
	}
	return g.settleBlackjack(), nil
}

// settleBlackjack resolves the settlement table and records the result.
func (g *Game) settleBlackjack() *BlackjackView {
	b := &g.state.Blackjack
	pv, dv := HandValue(b.Player), HandValue(b.Dealer)

	var payout int64
	var desc string
	switch {
	case pv > 21:
		desc = "player bust"
	case dv > 21:
		desc = "dealer bust"
		payout = b.Stake * 2
	case isNatural(b.Player) && !isNatural(b.Dealer):
		desc = "player blackjack"
		payout = int64(math.Round(float64(b.Stake) * 2.5))
	case isNatural(b.Dealer) && !isNatural(b.Player):
		desc = "dealer blackjack"
	case pv > dv:
		desc = fmt.Sprintf("%d vs %d", pv, dv)
		payout = b.Stake * 2
	case pv < dv:
		desc = fmt.Sprintf("%d vs %d", pv, dv)
	default:
		desc = "push"
		payout = b.Stake
	}
	if payout > 0 {
		g.earn(payout)
	}

	net := payout - b.Stake
	b.TotalWinnings += net
	b.Recent = capHistory(append(b.Recent, net), casinoHistoryMax)
	b.Winnings = capHistory(append(b.Winnings, b.TotalWinnings), casinoHistoryMax)
	b.Phase = BJPhaseSettled
	return g.blackjackView(payout, desc)
}

func (g *Game) blackjackView(payout int64, desc string) *BlackjackView {
	b := &g.state.Blackjack
	v := &BlackjackView{
		Player:      append([]Card(nil), b.Player...),
		PlayerValue: HandValue(b.Player),
		Stake:       b.Stake,
		Phase:       b.Phase,
		Payout:      payout,
		Net:         payout - b.Stake,
		ShoeLeft:    len(b.Shoe),
		Desc:        desc,
	}
	if b.Phase == BJPhasePlayer && len(b.Dealer) > 0 {
		// Hole card hidden while the hand is live.
		v.Dealer = []Card{b.Dealer[0]}
		v.DealerValue = HandValue(v.Dealer)
	} else {
		v.Dealer = append([]Card(nil), b.Dealer...)
		v.DealerValue = HandValue(v.Dealer)
	}
	return v
}
