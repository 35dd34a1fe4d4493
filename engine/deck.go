package engine

import "fmt"

// addToHand appends c to role r's hand.
func (g *GameState) addToHand(r Role, c Card) {
	p := &g.Players[r]
	p.Hand[p.HandLen] = c
	p.HandLen++
}

// removeCardFromHand removes the card at idx, keeping the remaining order.
func (g *GameState) removeCardFromHand(r Role, idx int) Card {
	p := &g.Players[r]
	c := p.Hand[idx]
	copy(p.Hand[idx:p.HandLen], p.Hand[idx+1:p.HandLen])
	p.HandLen--
	p.Hand[p.HandLen] = NoCard
	return c
}

// discard appends c to the discard pile. NoCard is ignored.
func (g *GameState) discard(c Card) {
	if c == NoCard {
		return
	}
	g.DiscardPile[g.DiscardLen] = c
	g.DiscardLen++
}

// canDraw reports whether a draw can succeed, counting a refill.
func (g *GameState) canDraw() bool {
	return g.StockLen > 0 || g.DiscardLen > 0
}

// refillIfEmpty rebuilds an empty stockpile from the discard pile and shuffles
// it. The field card is not part of the discard pile and stays in play.
// Reports whether a refill happened; a no-op while the stockpile has cards.
func (g *GameState) refillIfEmpty() bool {
	if g.StockLen > 0 || g.DiscardLen == 0 {
		return false
	}
	copy(g.Stockpile[:g.DiscardLen], g.DiscardPile[:g.DiscardLen])
	g.StockLen = g.DiscardLen
	for i := uint8(0); i < g.DiscardLen; i++ {
		g.DiscardPile[i] = NoCard
	}
	g.DiscardLen = 0
	g.shuffle(g.Stockpile[:g.StockLen])
	return true
}

// drawCard pops the top card of the stockpile, refilling first if needed.
func (g *GameState) drawCard() (Card, bool, error) {
	refilled := g.refillIfEmpty()
	if g.StockLen == 0 {
		return NoCard, refilled, fmt.Errorf("%w: deck and discard pile are both empty", ErrEmptyResource)
	}
	g.StockLen--
	c := g.Stockpile[g.StockLen]
	g.Stockpile[g.StockLen] = NoCard
	return c, refilled, nil
}
