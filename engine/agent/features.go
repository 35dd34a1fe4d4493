package agent

import engine "github.com/jason-s-yu/dobon/engine"

// rankCounts tallies hand cards by rank (index 1..13).
func rankCounts(hand []engine.Card) [engine.RankKing + 1]uint8 {
	var counts [engine.RankKing + 1]uint8
	for _, c := range hand {
		counts[c.Rank()]++
	}
	return counts
}

// pairCount is the number of disjoint same-rank pairs in hand.
func pairCount(hand []engine.Card) int {
	n := 0
	for _, k := range rankCounts(hand) {
		n += int(k) / 2
	}
	return n
}

// hasSplitSum reports whether hand holds two distinct ranks a and b with
// a+b in [2,13].
func hasSplitSum(hand []engine.Card) bool {
	const top = int(engine.RankKing)
	counts := rankCounts(hand)
	for a := 1; a <= top; a++ {
		if counts[a] == 0 {
			continue
		}
		for b := a + 1; a+b <= top; b++ {
			if counts[b] > 0 {
				return true
			}
		}
	}
	return false
}

// without returns a copy of hand minus the card at idx.
func without(hand []engine.Card, idx int) []engine.Card {
	out := make([]engine.Card, 0, len(hand)-1)
	out = append(out, hand[:idx]...)
	return append(out, hand[idx+1:]...)
}

// setupPlay finds a legal play whose remaining hand sums to the played card's
// rank, so the role can declare once another role has moved. Among several,
// the highest rank wins, then hand order.
func setupPlay(hand []engine.Card, field engine.Card) (engine.Card, bool) {
	best, found := engine.NoCard, false
	sum := engine.HandSum(hand)
	for _, c := range hand {
		if !engine.CanPlay(c, field) || sum-int(c.Rank()) != int(c.Rank()) {
			continue
		}
		if !found || c.Rank() > best.Rank() {
			best, found = c, true
		}
	}
	return best, found
}

// chooser picks one of the legal plays (never empty) for hand.
type chooser func(hand, plays []engine.Card, field engine.Card) engine.Card

// decide applies the rules every level shares before its own heuristic: a
// single card draws, no legal play draws, a setup play is always taken.
func decide(hand []engine.Card, field engine.Card, pick chooser) engine.Action {
	if len(hand) <= 1 {
		return engine.DrawAction()
	}
	plays := engine.PlayableCards(hand, field)
	if len(plays) == 0 {
		return engine.DrawAction()
	}
	if c, ok := setupPlay(hand, field); ok {
		return engine.PlayAction(c)
	}
	return engine.PlayAction(pick(hand, plays, field))
}
