package engine

import (
	"errors"
	"testing"
)

// stuckTable leaves every role without a play and with nothing to draw.
func stuckTable(t *testing.T) *GameState {
	t.Helper()
	return arrange(t, table{
		hands: [NumRoles][]Card{{c2D, c9H}, {c2H, cJS}, {c6H, c10S}, nil},
		field: c5C,
		rest:  restCPU3,
	})
}

// TestStalemateAfterFourPasses verifies a full round of passes ends the match
// with no winner and no loser.
func TestStalemateAfterFourPasses(t *testing.T) {
	g := stuckTable(t)
	g.Passes = NumRoles - 1

	if err := g.Pass(RoleHuman); err != nil {
		t.Fatalf("Pass: %v", err)
	}
	if !g.IsGameOver() || !g.IsStalemate() {
		t.Fatalf("phase %s, want game over by stalemate", g.Phase)
	}
	if g.Winner != NoRole || g.Loser != NoRole {
		t.Errorf("winner %s loser %s, want none", g.Winner, g.Loser)
	}
}

// TestPassCounterResetByMove verifies a play or draw clears the pass streak.
func TestPassCounterResetByMove(t *testing.T) {
	g := arrange(t, table{
		hands: [NumRoles][]Card{{c5C, c9H}, {cAH, c2H}, {c6H, c7H}, {cQS, cKS}},
		field: c3C,
	})
	g.Passes = 3
	if err := g.Play(RoleHuman, c5C); err != nil {
		t.Fatal(err)
	}
	if g.Passes != 0 {
		t.Errorf("Passes = %d after a play, want 0", g.Passes)
	}
}

// TestMaxTurnsStalemate verifies the turn limit ends the match.
func TestMaxTurnsStalemate(t *testing.T) {
	rules := HouseRules{MaxTurns: 3}
	g := arrange(t, table{
		hands: [NumRoles][]Card{{c2D, c9H}, {c2H, cJS}, {c6H, c10S}, {cQS, cKS}},
		field: c5C,
		rules: &rules,
	})

	for i := 0; i < 2; i++ {
		r := g.Current
		if err := g.Draw(r); err != nil {
			t.Fatalf("turn %d Draw(%s): %v", i, r, err)
		}
		if g.IsGameOver() {
			t.Fatalf("match ended after %d turns, limit is 3", g.TurnNumber)
		}
	}
	if err := g.Draw(g.Current); err != nil {
		t.Fatal(err)
	}
	if !g.IsStalemate() {
		t.Errorf("phase %s after %d turns, want stalemate", g.Phase, g.TurnNumber)
	}
	if g.Resume != PhaseDealing {
		t.Errorf("Resume = %s, want reset", g.Resume)
	}
}

func TestEndMatchWinnerAndLoser(t *testing.T) {
	g := stuckTable(t)
	g.endMatch(RoleCPU2, RoleHuman)
	if g.Winner != RoleCPU2 || g.Loser != RoleHuman || g.IsStalemate() {
		t.Errorf("winner %s loser %s", g.Winner, g.Loser)
	}

	g = stuckTable(t)
	g.endMatch(NoRole, RoleCPU1)
	if g.Loser != NoRole {
		t.Errorf("a stalemate must not name a loser, got %s", g.Loser)
	}
}

// TestFrozenAfterGameOver verifies the scheduler refuses to step a finished match.
func TestFrozenAfterGameOver(t *testing.T) {
	g := stuckTable(t)
	g.endMatch(RoleHuman, RoleCPU3)
	before := g.Save()
	if _, err := g.StepCPU(strategyTable(firstPlayable)); !errors.Is(err, ErrOutOfTurn) {
		t.Errorf("StepCPU error = %v, want ErrOutOfTurn", err)
	}
	if acts := g.LegalActions(RoleHuman); acts != nil {
		t.Errorf("LegalActions = %v, want none", acts)
	}
	if g.Save() != before {
		t.Error("finished match mutated")
	}
}
