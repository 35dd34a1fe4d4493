package engine

import "fmt"

// checkTurn verifies that role r may take a turn action (play, draw, pass).
func (g *GameState) checkTurn(r Role) error {
	if !r.Valid() {
		return fmt.Errorf("%w: unknown role %d", ErrPrecondition, uint8(r))
	}
	switch g.Phase {
	case PhaseGameOver:
		return fmt.Errorf("%w: match is over", ErrOutOfTurn)
	case PhaseDealing:
		return fmt.Errorf("%w: cards have not been dealt", ErrOutOfTurn)
	case PhaseDobonWindow:
		return fmt.Errorf("%w: a dobon window is open", ErrOutOfTurn)
	}
	if r != g.Current {
		return fmt.Errorf("%w: it is %s's turn, not %s's", ErrOutOfTurn, g.Current, r)
	}
	return nil
}

// Play moves card c from role r's hand onto the field. The previous field
// card goes to the discard pile and r becomes the last actor.
func (g *GameState) Play(r Role, c Card) error {
	if err := g.checkTurn(r); err != nil {
		return err
	}
	idx := -1
	if c.Valid() {
		idx = g.handIndex(r, c)
	}
	if idx < 0 {
		return fmt.Errorf("%w: %s does not hold %s", ErrIllegalMove, r, c)
	}
	if g.Players[r].HandLen == 1 {
		return fmt.Errorf("%w: %s holds a single card and can only draw or declare", ErrIllegalMove, r)
	}
	if !CanPlay(c, g.Field) {
		return fmt.Errorf("%w: %s matches neither suit nor rank of %s", ErrIllegalMove, c, g.Field)
	}

	g.removeCardFromHand(r, idx)
	displaced := g.Field
	g.discard(displaced)
	g.Field = c

	g.LastAction = LastActionInfo{Kind: ActionPlay, Actor: r, Card: c, Displaced: displaced}
	g.completeMove(r)
	return nil
}

// Draw adds the top stockpile card to role r's hand, refilling the stockpile
// from the discard pile first when it is empty. Drawing is only allowed when
// r has no legal play (a single-card hand never has one).
func (g *GameState) Draw(r Role) error {
	if err := g.checkTurn(r); err != nil {
		return err
	}
	if g.hasLegalPlay(r) {
		return fmt.Errorf("%w: %s has a playable card", ErrIllegalMove, r)
	}
	if !g.canDraw() {
		return fmt.Errorf("%w: deck and discard pile are both empty", ErrEmptyResource)
	}

	c, refilled, err := g.drawCard()
	if err != nil {
		return err
	}
	g.addToHand(r, c)

	g.LastAction = LastActionInfo{Kind: ActionDraw, Actor: r, Card: c, Refilled: refilled}
	g.completeMove(r)
	return nil
}

// Declare claims Dobon for role r. The human may declare on its own turn or
// in a Dobon window; a CPU only on its own turn. The claim must satisfy the
// sum condition and the one-cushion rule.
func (g *GameState) Declare(r Role) error {
	if !r.Valid() {
		return fmt.Errorf("%w: unknown role %d", ErrPrecondition, uint8(r))
	}
	switch g.Phase {
	case PhaseGameOver:
		return fmt.Errorf("%w: match is over", ErrOutOfTurn)
	case PhaseDealing:
		return fmt.Errorf("%w: cards have not been dealt", ErrOutOfTurn)
	case PhaseDobonWindow:
		if r != RoleHuman {
			return fmt.Errorf("%w: only the human may declare during a dobon window", ErrOutOfTurn)
		}
	default:
		if r != g.Current {
			return fmt.Errorf("%w: it is %s's turn, not %s's", ErrOutOfTurn, g.Current, r)
		}
	}

	sum := g.handSum(r)
	if g.Players[r].HandLen == 0 || sum != int(g.Field.Rank()) {
		return &ClaimError{Role: r, HandSum: sum, FieldRank: g.Field.Rank()}
	}
	if g.LastActor == r {
		return &ClaimError{Role: r, HandSum: sum, FieldRank: g.Field.Rank(), Cushion: true}
	}

	g.LastAction = LastActionInfo{Kind: ActionDeclare, Actor: r}
	g.endMatch(r, g.LastActor)
	return nil
}

// Pass skips a turn or declines a Dobon window. Skipping a turn is only
// allowed when role r can neither play nor draw.
func (g *GameState) Pass(r Role) error {
	if g.Phase == PhaseDobonWindow {
		if r != RoleHuman {
			return fmt.Errorf("%w: only the human may pass a dobon window", ErrOutOfTurn)
		}
		g.WindowPassed = true
		g.Phase = g.Resume
		g.Resume = PhaseDealing
		g.LastAction = LastActionInfo{Kind: ActionPass, Actor: r}
		return nil
	}
	if err := g.checkTurn(r); err != nil {
		return err
	}
	if !g.canPass(r) {
		return fmt.Errorf("%w: %s can still play or draw", ErrIllegalMove, r)
	}

	g.LastAction = LastActionInfo{Kind: ActionPass, Actor: r}
	g.Passes++
	if g.Passes >= NumRoles {
		g.endMatch(NoRole, NoRole)
		return nil
	}
	g.advanceTurn()
	return nil
}

// completeMove records r as the last actor after a play or draw and passes
// the turn on.
func (g *GameState) completeMove(r Role) {
	g.LastActor = r
	g.Passes = 0
	g.WindowPassed = false
	g.advanceTurn()
}

// advanceTurn rotates to the next role in the ring and checks the turn limit.
func (g *GameState) advanceTurn() {
	if g.IsGameOver() {
		return
	}
	g.TurnNumber++
	g.Current = g.Current.Next()
	if g.Current == RoleHuman {
		g.Phase = PhaseHumanTurn
	} else {
		g.Phase = PhaseCPUTurn
	}
	g.checkGameEnd()
}
