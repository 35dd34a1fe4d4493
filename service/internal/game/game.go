// internal/game/game.go
package game

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"sync"
	"time"

	"github.com/google/uuid"
	engine "github.com/jason-s-yu/dobon/engine"
	"github.com/jason-s-yu/dobon/engine/agent"
	"github.com/sirupsen/logrus"
)

// ErrMatchReplaced is returned by a command whose CPU turns were cut short
// because NewMatch replaced the match underneath it.
var ErrMatchReplaced = errors.New("match replaced by a new deal")

// GameEventType represents the type of a game-related event broadcast to the host.
type GameEventType string

// Constants defining the GameEvent types.
const (
	EventMatchStart      GameEventType = "match_start"
	EventPlayerPlay      GameEventType = "player_play"
	EventPlayerDraw      GameEventType = "player_draw"
	EventRefillStockpile GameEventType = "game_refill_stockpile" // Discard pile was reshuffled into the deck.
	EventPlayerPass      GameEventType = "player_pass"
	EventDobonWindow     GameEventType = "dobon_window" // The human may claim before the next CPU acts.
	EventPlayerDobon     GameEventType = "player_dobon"
	EventGameStalemate   GameEventType = "game_stalemate"
	EventGamePlayerTurn  GameEventType = "game_player_turn"
)

// EventCard identifies a card within a GameEvent payload.
type EventCard struct {
	ID    uint8  `json:"id"`
	Rank  uint8  `json:"rank"`
	Suit  string `json:"suit"`
	Label string `json:"label"`
}

// GameEvent is the structure broadcast for every state change.
type GameEvent struct {
	Type    GameEventType          `json:"type"`
	MatchID uuid.UUID              `json:"matchId"`
	Role    string                 `json:"role,omitempty"` // Role acting or targeted by the event.
	Card    *EventCard             `json:"card,omitempty"` // Card involved, when public.
	Payload map[string]interface{} `json:"payload,omitempty"`
}

// DelayFunc paces the CPU loop. It is called with the lock released before
// each CPU iteration and should return ctx.Err() when ctx is cancelled.
type DelayFunc func(ctx context.Context, next engine.Role) error

// SleepDelay waits d between CPU iterations.
func SleepDelay(d time.Duration) DelayFunc {
	return func(ctx context.Context, _ engine.Role) error {
		if d <= 0 {
			return ctx.Err()
		}
		t := time.NewTimer(d)
		defer t.Stop()
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-t.C:
			return nil
		}
	}
}

// SequentialSeeds returns a seed source yielding start, start+1, ...
func SequentialSeeds(start uint64) func() uint64 {
	var mu sync.Mutex
	next := start
	return func() uint64 {
		mu.Lock()
		defer mu.Unlock()
		s := next
		next++
		return s
	}
}

// Options configures a Match.
type Options struct {
	Rules       engine.HouseRules
	Seats       agent.Seats        // Strategy level per role. The zero value uses agent.DefaultSeats.
	Seeds       func() uint64      // Seed per deal. Nil picks random seeds.
	Delay       DelayFunc          // Pacing between CPU iterations. Nil means none.
	BroadcastFn func(ev GameEvent) // Receives every event. May be nil.
	Logger      *logrus.Logger     // Nil uses the logrus standard logger.
}

// Outcome reports the result of the most recent command.
type Outcome struct {
	Command string `json:"command"`
	OK      bool   `json:"ok"`
	Reason  string `json:"reason,omitempty"`
}

// Match owns one table: the authoritative engine state, the CPU strategies
// and the cumulative win statistics. All methods are safe for concurrent use;
// commands are serialized and a command issued while another command's CPU
// turns are running is rejected with engine.ErrOutOfTurn.
type Match struct {
	ID uuid.UUID // Changes on every NewMatch.

	mu         sync.Mutex
	state      engine.GameState
	rules      engine.HouseRules
	strategies [engine.NumRoles]engine.Strategy
	seeds      func() uint64
	delay      DelayFunc

	busy       bool               // a command's CPU loop is in flight
	epoch      uint64             // bumped by NewMatch; stale loops stop
	cancelLoop context.CancelFunc // cancels the in-flight loop's delay

	stats       WinStats
	recorded    bool // stats already counted for the current match
	lastOutcome Outcome

	BroadcastFn func(ev GameEvent)

	logger *logrus.Logger
	log    *logrus.Entry
}

// New creates a Match. No cards are dealt until NewMatch is called.
func New(opts Options) (*Match, error) {
	if err := opts.Rules.Validate(); err != nil {
		return nil, err
	}
	seats := opts.Seats
	if seats == (agent.Seats{}) {
		seats = agent.DefaultSeats
	}
	strategies, err := seats.Table()
	if err != nil {
		return nil, err
	}
	for _, r := range engine.Roles {
		if r.IsCPU() && strategies[r] == nil {
			return nil, fmt.Errorf("%w: %s needs a strategy level", engine.ErrPrecondition, r)
		}
	}

	m := &Match{
		rules:       opts.Rules,
		strategies:  strategies,
		seeds:       opts.Seeds,
		delay:       opts.Delay,
		BroadcastFn: opts.BroadcastFn,
		logger:      opts.Logger,
	}
	if m.seeds == nil {
		m.seeds = rand.Uint64
	}
	if m.delay == nil {
		m.delay = func(ctx context.Context, _ engine.Role) error { return ctx.Err() }
	}
	if m.logger == nil {
		m.logger = logrus.StandardLogger()
	}
	m.state = engine.NewGame(1, m.rules)
	m.log = m.logger.WithField("match_id", m.ID)
	return m, nil
}

// NewMatch deals a fresh match, aborting any CPU turns or Dobon window still
// pending from the previous one. WinStats carry over.
func (m *Match) NewMatch(ctx context.Context) (Snapshot, error) {
	if err := ctx.Err(); err != nil {
		return m.Snapshot(), err
	}
	seed := m.seeds()
	next := engine.NewGame(seed, m.rules)
	if err := next.Deal(); err != nil {
		return m.Snapshot(), err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	m.epoch++
	if m.cancelLoop != nil {
		m.cancelLoop()
		m.cancelLoop = nil
	}
	if m.busy || (m.state.Phase != engine.PhaseDealing && !m.state.IsGameOver()) {
		m.log.WithField("phase", m.state.Phase).Info("Abandoning unfinished match.")
	}
	m.busy = false
	m.state = next
	m.recorded = false
	m.ID = uuid.New()
	m.log = m.logger.WithField("match_id", m.ID)
	m.lastOutcome = Outcome{Command: "new_match", OK: true}

	m.log.WithFields(logrus.Fields{"seed": seed, "field": m.state.Field.String()}).Info("Match dealt.")
	m.fireEvent(GameEvent{
		Type: EventMatchStart,
		Card: eventCard(m.state.Field),
		Payload: map[string]interface{}{
			"deckCount": int(m.state.StockLen),
			"seed":      seed,
		},
	})
	m.broadcastPlayerTurn()
	return m.snapshotLocked(), nil
}

// Play plays card c from the human's hand.
func (m *Match) Play(ctx context.Context, c engine.Card) (Snapshot, error) {
	return m.command(ctx, "play", func(g *engine.GameState) error {
		return g.Play(engine.RoleHuman, c)
	})
}

// Draw draws a card for the human.
func (m *Match) Draw(ctx context.Context) (Snapshot, error) {
	return m.command(ctx, "draw", func(g *engine.GameState) error {
		return g.Draw(engine.RoleHuman)
	})
}

// Declare claims Dobon for the human, on its own turn or in a Dobon window.
func (m *Match) Declare(ctx context.Context) (Snapshot, error) {
	return m.command(ctx, "declare", func(g *engine.GameState) error {
		return g.Declare(engine.RoleHuman)
	})
}

// Pass declines an open Dobon window, or skips the human's turn when it can
// neither play nor draw.
func (m *Match) Pass(ctx context.Context) (Snapshot, error) {
	return m.command(ctx, "pass", func(g *engine.GameState) error {
		return g.Pass(engine.RoleHuman)
	})
}

// Resume runs CPU turns left pending by a loop whose context was cancelled.
// It is a no-op when no CPU turn is due.
func (m *Match) Resume(ctx context.Context) (Snapshot, error) {
	m.mu.Lock()
	if m.busy {
		err := fmt.Errorf("%w: cpu turns are already running", engine.ErrOutOfTurn)
		snap := m.snapshotLocked()
		m.mu.Unlock()
		return snap, err
	}
	return m.runPendingCPU(ctx)
}

// Snapshot returns the current read-only view of the match.
func (m *Match) Snapshot() Snapshot {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.snapshotLocked()
}

// Stats returns the cumulative win statistics.
func (m *Match) Stats() WinStats {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.stats
}

// RevealHand returns role r's hand. CPU hands stay hidden until the match
// is over.
func (m *Match) RevealHand(r engine.Role) ([]engine.Card, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if !r.Valid() {
		return nil, fmt.Errorf("%w: unknown role %d", engine.ErrPrecondition, uint8(r))
	}
	if r.IsCPU() && !m.state.IsGameOver() {
		return nil, fmt.Errorf("%w: %s's hand is hidden until the match ends", engine.ErrPrecondition, r)
	}
	return m.state.Hand(r), nil
}

// command validates and applies one human command, then plays out any CPU
// turns it hands over to.
func (m *Match) command(ctx context.Context, name string, apply func(g *engine.GameState) error) (Snapshot, error) {
	if err := ctx.Err(); err != nil {
		return m.Snapshot(), err
	}
	m.mu.Lock()
	if m.busy {
		err := fmt.Errorf("%w: cpu turns are still being played", engine.ErrOutOfTurn)
		m.rejectLocked(name, err)
		snap := m.snapshotLocked()
		m.mu.Unlock()
		return snap, err
	}
	if err := apply(&m.state); err != nil {
		m.rejectLocked(name, err)
		snap := m.snapshotLocked()
		m.mu.Unlock()
		return snap, err
	}

	m.lastOutcome = Outcome{Command: name, OK: true}
	m.log.WithFields(logrus.Fields{"command": name, "turn": m.state.TurnNumber}).Debug("Command applied.")
	m.emitEventsForAction(m.state.LastAction)
	m.afterAction()
	return m.runPendingCPU(ctx)
}

// rejectLocked records a failed command. Assumes lock is held by caller.
func (m *Match) rejectLocked(name string, err error) {
	m.lastOutcome = Outcome{Command: name, OK: false, Reason: err.Error()}
	m.log.WithField("command", name).WithError(err).Debug("Command rejected.")
}

// runPendingCPU drives CPU turns until the human must act or the match ends.
// Called with m.mu held; returns with it released.
func (m *Match) runPendingCPU(ctx context.Context) (Snapshot, error) {
	if m.state.Phase != engine.PhaseCPUTurn {
		snap := m.snapshotLocked()
		m.mu.Unlock()
		return snap, nil
	}
	loopCtx, cancel := context.WithCancel(ctx)
	defer cancel()
	epoch := m.epoch
	m.busy = true
	m.cancelLoop = cancel
	m.mu.Unlock()

	err := m.cpuLoop(loopCtx, epoch)
	return m.Snapshot(), err
}

// cpuLoop runs CPU iterations, calling the delay hook before each one with
// the lock released. It stops on a new deal (epoch change), when the phase
// leaves CPUTurn, or when the delay hook fails.
func (m *Match) cpuLoop(ctx context.Context, epoch uint64) error {
	for {
		m.mu.Lock()
		if m.epoch != epoch {
			m.mu.Unlock()
			return ErrMatchReplaced
		}
		if m.state.Phase != engine.PhaseCPUTurn {
			m.finishLoop()
			m.mu.Unlock()
			return nil
		}
		next := m.state.Current
		m.mu.Unlock()

		delayErr := m.delay(ctx, next)

		m.mu.Lock()
		if m.epoch != epoch {
			m.mu.Unlock()
			return ErrMatchReplaced
		}
		if delayErr != nil {
			m.finishLoop()
			m.log.WithError(delayErr).Warn("CPU turns interrupted; call Resume to continue.")
			m.mu.Unlock()
			return delayErr
		}
		step, err := m.state.StepCPU(m.strategies)
		if err != nil {
			m.finishLoop()
			m.log.WithError(err).Error("CPU step failed.")
			m.mu.Unlock()
			return err
		}
		m.emitEventsForStep(step)
		m.afterAction()
		m.mu.Unlock()
	}
}

// finishLoop clears the in-flight markers. Assumes lock is held by caller.
func (m *Match) finishLoop() {
	m.busy = false
	m.cancelLoop = nil
}

// afterAction records the result of a finished match exactly once, or
// announces whose turn it is. Assumes lock is held by caller.
func (m *Match) afterAction() {
	if !m.state.IsGameOver() {
		m.broadcastPlayerTurn()
		return
	}
	if m.recorded {
		return
	}
	m.recorded = true
	m.stats.Record(m.state.Winner)

	if m.state.IsStalemate() {
		m.log.WithField("turn", m.state.TurnNumber).Info("Match ended in a stalemate.")
		m.fireEvent(GameEvent{
			Type:    EventGameStalemate,
			Payload: map[string]interface{}{"turn": int(m.state.TurnNumber), "passes": int(m.state.Passes)},
		})
		return
	}
	m.log.WithFields(logrus.Fields{
		"winner": m.state.Winner.String(),
		"loser":  m.state.Loser.String(),
		"turn":   m.state.TurnNumber,
	}).Info("Dobon declared.")
	m.fireEvent(GameEvent{
		Type: EventPlayerDobon,
		Role: m.state.Winner.String(),
		Card: eventCard(m.state.Field),
		Payload: map[string]interface{}{
			"loser":   m.state.Loser.String(),
			"handSum": engine.HandSum(m.state.Hand(m.state.Winner)),
		},
	})
}

// fireEvent broadcasts an event via the BroadcastFn callback.
// Assumes lock is held by caller.
func (m *Match) fireEvent(ev GameEvent) {
	ev.MatchID = m.ID
	if m.BroadcastFn != nil {
		m.BroadcastFn(ev)
	}
}
