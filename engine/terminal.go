package engine

// endMatch freezes the state with the given winner and loser. A stalemate has
// no winner.
func (g *GameState) endMatch(winner, loser Role) {
	g.Phase = PhaseGameOver
	g.Winner = winner
	if winner == NoRole {
		loser = NoRole
	}
	g.Loser = loser
	g.Resume = PhaseDealing
}

// checkGameEnd ends the match in a stalemate once the turn limit is reached.
func (g *GameState) checkGameEnd() {
	if g.IsGameOver() {
		return
	}
	if g.Rules.MaxTurns > 0 && g.TurnNumber >= g.Rules.MaxTurns {
		g.endMatch(NoRole, NoRole)
	}
}

// IsStalemate reports whether the match ended without a winner.
func (g *GameState) IsStalemate() bool {
	return g.IsGameOver() && g.Winner == NoRole
}
