package engine

// CanPlay reports whether card may be played onto field: same suit or same rank.
func CanPlay(card, field Card) bool {
	if !card.Valid() || !field.Valid() {
		return false
	}
	return card.Suit() == field.Suit() || card.Rank() == field.Rank()
}

// HandSum returns the sum of ranks in hand.
func HandSum(hand []Card) int {
	sum := 0
	for _, c := range hand {
		sum += int(c.Rank())
	}
	return sum
}

// IsWinningHand reports whether hand is a Dobon hand against field: hand is
// non-empty, field is present, and the rank sum equals the field rank.
// Suits are irrelevant.
func IsWinningHand(hand []Card, field Card) bool {
	if len(hand) == 0 || !field.Valid() {
		return false
	}
	return HandSum(hand) == int(field.Rank())
}

// handSum returns the rank sum of role r's hand without copying it.
func (g *GameState) handSum(r Role) int {
	p := &g.Players[r]
	return HandSum(p.Hand[:p.HandLen])
}

// DobonReady reports whether role r may declare right now: its hand is a
// winning hand and r did not make the most recent play or draw.
func (g *GameState) DobonReady(r Role) bool {
	if !r.Valid() || g.Phase == PhaseGameOver || g.Phase == PhaseDealing {
		return false
	}
	p := &g.Players[r]
	return IsWinningHand(p.Hand[:p.HandLen], g.Field) && g.LastActor != r
}
