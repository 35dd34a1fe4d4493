// Package sim plays batches of unattended matches, every seat driven by a
// strategy level, and tallies the results.
package sim

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"slices"

	engine "github.com/jason-s-yu/dobon/engine"
	"github.com/jason-s-yu/dobon/engine/agent"
	"github.com/jason-s-yu/dobon/service/internal/game"
	"github.com/jason-s-yu/dobon/service/internal/logging"
	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"
)

// DefaultMaxTurns caps a simulated match when the rules set no limit.
const DefaultMaxTurns = 2000

// Options configures a batch.
type Options struct {
	Games   int
	Workers int
	Seed    uint64 // Game i is dealt with Seed+i. 0 picks a random base.
	Rules   engine.HouseRules
	Seats   agent.Seats // Every seat, the human's included, needs a level.
	Logger  *logrus.Logger
	Verbose bool // Pass Logger to every match as well.
}

// Report is the tally of a batch.
type Report struct {
	Games      int
	Stalemates int
	Turns      int // summed over all games
	BaseSeed   uint64
	Stats      game.WinStats
}

// AvgTurns is the mean match length.
func (r Report) AvgTurns() float64 {
	if r.Games == 0 {
		return 0
	}
	return float64(r.Turns) / float64(r.Games)
}

type result struct {
	winner engine.Role
	turns  int
}

// Run plays opts.Games matches on up to opts.Workers goroutines. Results are
// independent of the worker count.
func Run(ctx context.Context, opts Options) (Report, error) {
	if opts.Games < 1 || opts.Workers < 1 {
		return Report{}, fmt.Errorf("%w: games and workers must be positive", engine.ErrPrecondition)
	}
	for r, level := range opts.Seats {
		if level == agent.LevelNone {
			return Report{}, fmt.Errorf("%w: %s has no strategy level", engine.ErrPrecondition, engine.Role(r))
		}
	}
	rules := opts.Rules
	if rules.MaxTurns == 0 {
		rules.MaxTurns = DefaultMaxTurns
	}
	if err := rules.Validate(); err != nil {
		return Report{}, err
	}
	base := opts.Seed
	if base == 0 {
		base = rand.Uint64()
	}
	logger := opts.Logger
	if logger == nil {
		logger = logrus.StandardLogger()
	}
	log := logger.WithFields(logrus.Fields{"games": opts.Games, "workers": opts.Workers, "base_seed": base})
	log.Info("Simulation started.")
	matchLogger := logging.Discard()
	if opts.Verbose {
		matchLogger = logger
	}

	results := make([]result, opts.Games)
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(opts.Workers)
	for i := 0; i < opts.Games; i++ {
		if gctx.Err() != nil {
			break
		}
		i := i
		g.Go(func() error {
			res, err := playOne(gctx, rules, opts.Seats, base+uint64(i), matchLogger)
			if err != nil {
				return fmt.Errorf("game %d: %w", i, err)
			}
			results[i] = res
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return Report{}, err
	}
	if err := ctx.Err(); err != nil {
		return Report{}, err
	}

	rep := Report{Games: opts.Games, BaseSeed: base}
	for _, res := range results {
		rep.Stats.Record(res.winner)
		rep.Turns += res.turns
		if !res.winner.Valid() {
			rep.Stalemates++
		}
	}
	log.WithFields(logrus.Fields{"stalemates": rep.Stalemates, "avg_turns": rep.AvgTurns()}).Info("Simulation finished.")
	return rep, nil
}

// playOne runs a single match through a game.Match with the human seat on
// autopilot.
func playOne(ctx context.Context, rules engine.HouseRules, seats agent.Seats, seed uint64, logger *logrus.Logger) (result, error) {
	human, err := agent.New(seats[engine.RoleHuman])
	if err != nil {
		return result{}, err
	}
	cpuSeats := seats
	cpuSeats[engine.RoleHuman] = agent.LevelNone

	m, err := game.New(game.Options{
		Rules:  rules,
		Seats:  cpuSeats,
		Seeds:  func() uint64 { return seed },
		Logger: logger,
	})
	if err != nil {
		return result{}, err
	}
	snap, err := m.NewMatch(ctx)
	if err != nil {
		return result{}, err
	}
	for !snap.GameOver {
		if err := ctx.Err(); err != nil {
			return result{}, err
		}
		if snap, err = HumanStep(ctx, m, snap, human); err != nil {
			return result{}, err
		}
	}

	res := result{winner: engine.NoRole, turns: snap.Turn}
	if !snap.Stalemate {
		for _, r := range engine.Roles {
			if r.String() == snap.Winner {
				res.winner = r
			}
		}
	}
	return res, nil
}

// HumanStep makes one move for the human seat of m: declare when ready, pass
// a Dobon window otherwise, and on its own turn follow s, falling back to
// the first legal play, a draw, then a pass.
func HumanStep(ctx context.Context, m *game.Match, snap game.Snapshot, s engine.Strategy) (game.Snapshot, error) {
	legal := func(k engine.ActionKind) bool { return slices.Contains(snap.LegalActions, k.String()) }

	switch {
	case legal(engine.ActionDeclare):
		return m.Declare(ctx)
	case snap.Phase == engine.PhaseDobonWindow.String():
		return m.Pass(ctx)
	case snap.Phase != engine.PhaseHumanTurn.String():
		return snap, fmt.Errorf("%w: human cannot act in phase %s", engine.ErrOutOfTurn, snap.Phase)
	}

	hand := make([]engine.Card, len(snap.Hand))
	for i, c := range snap.Hand {
		hand[i] = engine.Card(c.ID)
	}
	var field engine.Card
	if snap.Field != nil {
		field = engine.Card(snap.Field.ID)
	}

	if act := s.ChooseAction(hand, field); act.Kind == engine.ActionPlay && legal(engine.ActionPlay) {
		next, err := m.Play(ctx, act.Card)
		if !errors.Is(err, engine.ErrIllegalMove) {
			return next, err
		}
	}
	switch {
	case legal(engine.ActionPlay):
		return m.Play(ctx, engine.PlayableCards(hand, field)[0])
	case legal(engine.ActionDraw):
		return m.Draw(ctx)
	default:
		return m.Pass(ctx)
	}
}
