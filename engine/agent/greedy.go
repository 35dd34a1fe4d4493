package agent

import engine "github.com/jason-s-yu/dobon/engine"

// Greedy plays its highest-rank legal card, shedding the largest value first.
type Greedy struct{}

func (Greedy) ChooseAction(hand []engine.Card, field engine.Card) engine.Action {
	return decide(hand, field, highestRank)
}

// highestRank returns the first play of the highest rank.
func highestRank(_, plays []engine.Card, _ engine.Card) engine.Card {
	best := plays[0]
	for _, c := range plays[1:] {
		if c.Rank() > best.Rank() {
			best = c
		}
	}
	return best
}
