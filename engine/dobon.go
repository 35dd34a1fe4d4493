package engine

import "fmt"

// CPUStep reports one iteration of the CPU loop.
type CPUStep struct {
	Role   Role
	Action LastActionInfo // Kind is ActionNone when the CPU did not act
	Window bool           // a Dobon window opened for the human
}

// StepCPU runs one CPU iteration for the current role, using table to look
// up its strategy:
//
//  1. If the human can claim Dobon, halt into a Dobon window before the CPU acts.
//  2. If the CPU can claim Dobon on a hand someone else's move created, it
//     declares and the match ends.
//  3. Otherwise the CPU plays or draws (a single card forces a draw; a draw
//     with nothing left to draw becomes a pass) and the turn advances.
//  4. If the next role is a CPU and the human can now claim, a window opens.
func (g *GameState) StepCPU(table [NumRoles]Strategy) (CPUStep, error) {
	if g.Phase != PhaseCPUTurn {
		return CPUStep{}, fmt.Errorf("%w: no cpu turn pending (phase %s)", ErrOutOfTurn, g.Phase)
	}
	r := g.Current
	step := CPUStep{Role: r}

	if g.openWindowIfReady() {
		step.Window = true
		return step, nil
	}

	if g.DobonReady(r) {
		if err := g.Declare(r); err != nil {
			return step, err
		}
		step.Action = g.LastAction
		return step, nil
	}

	if err := g.cpuMove(r, table[r]); err != nil {
		return step, err
	}
	step.Action = g.LastAction
	step.Window = g.openWindowIfReady()
	return step, nil
}

// cpuMove applies the strategy's choice for role r. A choice the rules reject
// falls back to the first legal play, then a draw, then a pass.
func (g *GameState) cpuMove(r Role, s Strategy) error {
	act := DrawAction()
	if g.Players[r].HandLen > 1 && s != nil {
		act = s.ChooseAction(g.Hand(r), g.Field)
	}
	if act.Kind == ActionPlay {
		if err := g.Play(r, act.Card); err == nil {
			return nil
		}
	}
	if plays := g.LegalPlays(r); len(plays) > 0 {
		return g.Play(r, plays[0])
	}
	if g.canDraw() {
		return g.Draw(r)
	}
	return g.Pass(r)
}

// openWindowIfReady halts the CPU loop when the human may claim Dobon and has
// not already passed on the current table.
func (g *GameState) openWindowIfReady() bool {
	if g.Phase != PhaseCPUTurn || g.WindowPassed || !g.DobonReady(RoleHuman) {
		return false
	}
	g.Resume = g.Phase
	g.Phase = PhaseDobonWindow
	return true
}
