package engine

import "fmt"

// CardSet returns every card the state currently holds, across the
// stockpile, discard pile, field and all hands. Used to check conservation.
func (g *GameState) CardSet() []Card {
	out := make([]Card, 0, DeckSize)
	out = append(out, g.Stockpile[:g.StockLen]...)
	out = append(out, g.DiscardPile[:g.DiscardLen]...)
	if g.Field != NoCard {
		out = append(out, g.Field)
	}
	for r := range g.Players {
		out = append(out, g.Players[r].Hand[:g.Players[r].HandLen]...)
	}
	return out
}

// ConservationError returns a non-nil error when the state does not hold
// each of the 52 cards exactly once.
func (g *GameState) ConservationError() error {
	var seen [DeckSize + 1]uint8
	for _, c := range g.CardSet() {
		if !c.Valid() {
			return fmt.Errorf("%w: invalid card %d", ErrPrecondition, uint8(c))
		}
		seen[c]++
		if seen[c] > 1 {
			return fmt.Errorf("%w: duplicate card %s", ErrPrecondition, c)
		}
	}
	for c := Card(1); c <= DeckSize; c++ {
		if seen[c] == 0 {
			return fmt.Errorf("%w: missing card %s", ErrPrecondition, c)
		}
	}
	return nil
}
