package engine

// PlayableCards returns the cards in hand that match field, in hand order.
// It ignores the single-card rule; see GameState.LegalPlays.
func PlayableCards(hand []Card, field Card) []Card {
	var out []Card
	for _, c := range hand {
		if CanPlay(c, field) {
			out = append(out, c)
		}
	}
	return out
}

// LegalPlays returns the cards role r may play now. A role holding a single
// card has none: its last card can only leave the hand through a Dobon.
func (g *GameState) LegalPlays(r Role) []Card {
	if !r.Valid() || g.Players[r].HandLen <= 1 {
		return nil
	}
	p := &g.Players[r]
	return PlayableCards(p.Hand[:p.HandLen], g.Field)
}

// hasLegalPlay is LegalPlays without the allocation.
func (g *GameState) hasLegalPlay(r Role) bool {
	p := &g.Players[r]
	if p.HandLen <= 1 {
		return false
	}
	for i := uint8(0); i < p.HandLen; i++ {
		if CanPlay(p.Hand[i], g.Field) {
			return true
		}
	}
	return false
}

// canPass reports whether role r is stuck: nothing to play and nothing to draw.
func (g *GameState) canPass(r Role) bool {
	return !g.hasLegalPlay(r) && !g.canDraw()
}

// LegalActions returns the action kinds role r may take in the current state.
func (g *GameState) LegalActions(r Role) []ActionKind {
	if !r.Valid() {
		return nil
	}
	var out []ActionKind
	switch g.Phase {
	case PhaseDobonWindow:
		if r == RoleHuman {
			if g.DobonReady(r) {
				out = append(out, ActionDeclare)
			}
			out = append(out, ActionPass)
		}
		return out
	case PhaseHumanTurn, PhaseCPUTurn:
	default:
		return nil
	}
	if r != g.Current {
		return nil
	}
	if g.DobonReady(r) {
		out = append(out, ActionDeclare)
	}
	if g.hasLegalPlay(r) {
		out = append(out, ActionPlay)
	} else if g.canDraw() {
		out = append(out, ActionDraw)
	} else {
		out = append(out, ActionPass)
	}
	return out
}
