// Package agent implements the CPU strategies that choose a play or a draw
// for a role's hand against the current field card.
package agent

import (
	"fmt"
	"strings"

	engine "github.com/jason-s-yu/dobon/engine"
)

// Level selects a CPU strategy.
type Level uint8

const (
	LevelNone      Level = iota // 0: seat driven by the host
	LevelGreedy                 // 1: highest-rank legal play
	LevelWeighted               // 2: weighted hand-structure score
	LevelKeepField              // 3: weighted, with the keep-field bonus
)

func (l Level) String() string {
	switch l {
	case LevelNone:
		return "none"
	case LevelGreedy:
		return "greedy"
	case LevelWeighted:
		return "weighted"
	case LevelKeepField:
		return "keepfield"
	}
	return fmt.Sprintf("level(%d)", uint8(l))
}

// ParseLevel accepts a level name or its numeric alias ("1", "2", "2b").
func ParseLevel(s string) (Level, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "none", "human":
		return LevelNone, nil
	case "greedy", "1":
		return LevelGreedy, nil
	case "weighted", "2":
		return LevelWeighted, nil
	case "keepfield", "keep-field", "2b":
		return LevelKeepField, nil
	}
	return LevelNone, fmt.Errorf("unknown cpu level %q", s)
}

// New returns the strategy for level.
func New(level Level) (engine.Strategy, error) {
	switch level {
	case LevelGreedy:
		return Greedy{}, nil
	case LevelWeighted:
		return &Weighted{Weights: DefaultWeights}, nil
	case LevelKeepField:
		return &Weighted{Weights: DefaultWeights, KeepField: true}, nil
	default:
		return nil, fmt.Errorf("unknown cpu level: %d", level)
	}
}

// Seats assigns a strategy level to each role. LevelNone leaves the seat to
// the host.
type Seats [engine.NumRoles]Level

// DefaultSeats gives each CPU a different level.
var DefaultSeats = Seats{LevelNone, LevelGreedy, LevelWeighted, LevelKeepField}

// Table builds the role→strategy table consumed by engine.GameState.StepCPU.
func (s Seats) Table() ([engine.NumRoles]engine.Strategy, error) {
	var table [engine.NumRoles]engine.Strategy
	for i, level := range s {
		if level == LevelNone {
			continue
		}
		strat, err := New(level)
		if err != nil {
			return table, fmt.Errorf("%s: %w", engine.Role(i), err)
		}
		table[i] = strat
	}
	return table, nil
}
