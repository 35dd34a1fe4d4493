package engine

import "testing"

// restPile says where arrange puts the cards nobody was given.
type restPile uint8

const (
	restStock restPile = iota
	restDiscard
	restCPU3 // leaves deck and discard pile empty
)

// table describes a hand-built position.
type table struct {
	hands   [NumRoles][]Card
	field   Card
	discard []Card
	rest    restPile
	rules   *HouseRules
}

// arrange builds a dealt, human-to-move state from tb. Every card not named
// in tb goes to tb.rest, so the 52-card invariant holds from the start.
func arrange(t *testing.T, tb table) *GameState {
	t.Helper()
	rules := DefaultHouseRules()
	if tb.rules != nil {
		rules = *tb.rules
	}
	g := NewGame(7, rules)
	g.StockLen = 0
	for i := range g.Stockpile {
		g.Stockpile[i] = NoCard
	}

	used := map[Card]bool{tb.field: true}
	for r, hand := range tb.hands {
		for _, c := range hand {
			used[c] = true
			g.addToHand(Role(r), c)
		}
	}
	for _, c := range tb.discard {
		used[c] = true
		g.discard(c)
	}
	for c := Card(1); c <= DeckSize; c++ {
		if used[c] {
			continue
		}
		switch tb.rest {
		case restDiscard:
			g.discard(c)
		case restCPU3:
			g.addToHand(RoleCPU3, c)
		default:
			g.Stockpile[g.StockLen] = c
			g.StockLen++
		}
	}
	g.Field = tb.field
	g.Phase = PhaseHumanTurn
	g.Current = RoleHuman

	if err := g.ConservationError(); err != nil {
		t.Fatalf("arrange: %v", err)
	}
	return &g
}

// cpuTurn hands the turn to CPU role r.
func cpuTurn(g *GameState, r Role) {
	g.Current = r
	g.Phase = PhaseCPUTurn
}

// firstPlayable plays the first matching card, or draws.
var firstPlayable = StrategyFunc(func(hand []Card, field Card) Action {
	if plays := PlayableCards(hand, field); len(plays) > 0 {
		return PlayAction(plays[0])
	}
	return DrawAction()
})

func strategyTable(s Strategy) [NumRoles]Strategy {
	return [NumRoles]Strategy{nil, s, s, s}
}

// Card shorthands used across the tests.
var (
	c2C  = NewCard(SuitClubs, 2)
	c3C  = NewCard(SuitClubs, 3)
	c5C  = NewCard(SuitClubs, 5)
	cKC  = NewCard(SuitClubs, RankKing)
	c2D  = NewCard(SuitDiamonds, 2)
	c3D  = NewCard(SuitDiamonds, 3)
	c4D  = NewCard(SuitDiamonds, 4)
	c9D  = NewCard(SuitDiamonds, 9)
	cAH  = NewCard(SuitHearts, RankAce)
	c2H  = NewCard(SuitHearts, 2)
	c6H  = NewCard(SuitHearts, 6)
	c7H  = NewCard(SuitHearts, 7)
	c9H  = NewCard(SuitHearts, 9)
	cQS  = NewCard(SuitSpades, RankQueen)
	cKS  = NewCard(SuitSpades, RankKing)
	cJS  = NewCard(SuitSpades, RankJack)
	c10S = NewCard(SuitSpades, 10)
)
