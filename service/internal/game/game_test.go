// internal/game/game_test.go
package game

import (
	"context"
	"errors"
	"io"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/google/uuid"
	engine "github.com/jason-s-yu/dobon/engine"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// mockBroadcaster captures game events for testing assertions.
type mockBroadcaster struct {
	mu        sync.Mutex
	allEvents []GameEvent
}

func (mb *mockBroadcaster) broadcastFn(ev GameEvent) {
	mb.mu.Lock()
	defer mb.mu.Unlock()
	mb.allEvents = append(mb.allEvents, ev)
}

func (mb *mockBroadcaster) clear() {
	mb.mu.Lock()
	defer mb.mu.Unlock()
	mb.allEvents = []GameEvent{}
}

func (mb *mockBroadcaster) getLastEvent() *GameEvent {
	mb.mu.Lock()
	defer mb.mu.Unlock()
	if len(mb.allEvents) == 0 {
		return nil
	}
	return &mb.allEvents[len(mb.allEvents)-1]
}

func (mb *mockBroadcaster) findEventByType(eventType GameEventType) *GameEvent {
	mb.mu.Lock()
	defer mb.mu.Unlock()
	for i := len(mb.allEvents) - 1; i >= 0; i-- {
		if mb.allEvents[i].Type == eventType {
			return &mb.allEvents[i]
		}
	}
	return nil
}

func (mb *mockBroadcaster) countByType(eventType GameEventType) int {
	mb.mu.Lock()
	defer mb.mu.Unlock()
	n := 0
	for _, ev := range mb.allEvents {
		if ev.Type == eventType {
			n++
		}
	}
	return n
}

func quietLogger() *logrus.Logger {
	l := logrus.New()
	l.SetOutput(io.Discard)
	return l
}

// setupTestMatch creates a Match with deterministic seeds and a mock broadcaster.
func setupTestMatch(t *testing.T, delay DelayFunc) (*Match, *mockBroadcaster) {
	t.Helper()
	mb := &mockBroadcaster{}
	m, err := New(Options{
		Rules:       engine.DefaultHouseRules(),
		Seeds:       SequentialSeeds(1),
		Delay:       delay,
		BroadcastFn: mb.broadcastFn,
		Logger:      quietLogger(),
	})
	require.NoError(t, err)
	return m, mb
}

// rigMatch replaces the match state with hand-built hands and field. Every
// other card goes to the deck; the human is to move.
func rigMatch(t *testing.T, m *Match, hands [engine.NumRoles][]engine.Card, field engine.Card) {
	t.Helper()
	g := engine.NewGame(5, engine.DefaultHouseRules())
	g.StockLen = 0
	for i := range g.Stockpile {
		g.Stockpile[i] = engine.NoCard
	}
	used := map[engine.Card]bool{field: true}
	for r, hand := range hands {
		for _, c := range hand {
			used[c] = true
			p := &g.Players[r]
			p.Hand[p.HandLen] = c
			p.HandLen++
		}
	}
	for c := engine.Card(1); c <= engine.DeckSize; c++ {
		if !used[c] {
			g.Stockpile[g.StockLen] = c
			g.StockLen++
		}
	}
	g.Field = field
	g.Phase = engine.PhaseHumanTurn
	g.Current = engine.RoleHuman
	require.NoError(t, g.ConservationError())

	m.mu.Lock()
	defer m.mu.Unlock()
	m.state = g
	m.ID = uuid.New()
	m.recorded = false
}

// humanMove issues one legal human command chosen from the snapshot.
func humanMove(ctx context.Context, m *Match) (Snapshot, error) {
	snap := m.Snapshot()
	has := func(k string) bool {
		for _, a := range snap.LegalActions {
			if a == k {
				return true
			}
		}
		return false
	}
	switch {
	case has("declare"):
		return m.Declare(ctx)
	case has("play"):
		field, _ := engine.ParseCard(snap.Field.Label)
		for _, c := range snap.Hand {
			if engine.CanPlay(engine.Card(c.ID), field) {
				return m.Play(ctx, engine.Card(c.ID))
			}
		}
	case has("draw"):
		return m.Draw(ctx)
	}
	return m.Pass(ctx)
}

func card(suit, rank uint8) engine.Card { return engine.NewCard(suit, rank) }

// TestNewMatchDeals verifies the initial snapshot after a deal.
func TestNewMatchDeals(t *testing.T) {
	m, mb := setupTestMatch(t, nil)

	snap, err := m.NewMatch(context.Background())
	require.NoError(t, err)

	assert.NotEqual(t, uuid.Nil, snap.MatchID, "match should get an ID")
	assert.Equal(t, "human_turn", snap.Phase)
	assert.Equal(t, "human", snap.ActingRole)
	assert.Len(t, snap.Hand, 5)
	assert.Equal(t, engine.DeckSize-4*5-1, snap.DeckCount)
	assert.Equal(t, 0, snap.DiscardCount)
	require.NotNil(t, snap.Field)
	for i, rv := range snap.Roles {
		assert.Equal(t, 5, rv.HandSize)
		if i == int(engine.RoleHuman) {
			assert.Len(t, rv.Hand, 5, "human hand is always visible")
		} else {
			assert.Nil(t, rv.Hand, "cpu hands stay hidden")
		}
	}
	assert.Equal(t, Outcome{Command: "new_match", OK: true}, snap.LastOutcome)
	assert.NotEmpty(t, snap.LegalActions)

	start := mb.findEventByType(EventMatchStart)
	require.NotNil(t, start, "expected match start event")
	assert.Equal(t, snap.MatchID, start.MatchID)
	assert.Equal(t, snap.Field.Label, start.Card.Label)
}

// TestRejectedCommandLeavesStateUnchanged verifies failed commands only
// update the outcome.
func TestRejectedCommandLeavesStateUnchanged(t *testing.T) {
	m, _ := setupTestMatch(t, nil)
	rigMatch(t, m, [engine.NumRoles][]engine.Card{
		{card(engine.SuitClubs, 5), card(engine.SuitDiamonds, 2)},
		{card(engine.SuitHearts, 1), card(engine.SuitHearts, 2)},
		{card(engine.SuitHearts, 6), card(engine.SuitHearts, 7)},
		{card(engine.SuitSpades, 12), card(engine.SuitSpades, 13)},
	}, card(engine.SuitClubs, 3))

	m.mu.Lock()
	before := m.state.Save()
	m.mu.Unlock()

	ctx := context.Background()
	_, err := m.Play(ctx, card(engine.SuitSpades, 13))
	assert.ErrorIs(t, err, engine.ErrIllegalMove)
	_, err = m.Play(ctx, card(engine.SuitDiamonds, 2))
	assert.ErrorIs(t, err, engine.ErrIllegalMove)
	_, err = m.Draw(ctx)
	assert.ErrorIs(t, err, engine.ErrIllegalMove, "draw with a legal play")
	snap, err := m.Declare(ctx)
	assert.ErrorIs(t, err, engine.ErrInvalidDobonClaim)

	assert.False(t, snap.LastOutcome.OK)
	assert.Equal(t, "declare", snap.LastOutcome.Command)
	assert.Contains(t, snap.LastOutcome.Reason, "hand sum 7")

	m.mu.Lock()
	after := m.state.Save()
	m.mu.Unlock()
	assert.Equal(t, before, after, "rejected commands must not mutate state")
}

// TestCommandBeforeDeal verifies commands fail until a match is dealt.
func TestCommandBeforeDeal(t *testing.T) {
	m, _ := setupTestMatch(t, nil)
	_, err := m.Draw(context.Background())
	assert.ErrorIs(t, err, engine.ErrOutOfTurn)
}

// TestDobonWindowDeclare: a CPU draw leaves the human's winning hand intact,
// the loop halts, and the human's claim names that CPU as the loser.
func TestDobonWindowDeclare(t *testing.T) {
	m, mb := setupTestMatch(t, nil)
	kingD := card(engine.SuitDiamonds, 13)
	rigMatch(t, m, [engine.NumRoles][]engine.Card{
		{card(engine.SuitDiamonds, 4), card(engine.SuitDiamonds, 9), kingD},
		{card(engine.SuitHearts, 2), card(engine.SuitSpades, 3)},
		{card(engine.SuitHearts, 6), card(engine.SuitHearts, 7)},
		{card(engine.SuitSpades, 12), card(engine.SuitSpades, 11)},
	}, card(engine.SuitClubs, 13))
	ctx := context.Background()

	snap, err := m.Play(ctx, kingD)
	require.NoError(t, err)
	assert.Equal(t, "dobon_window", snap.Phase)
	assert.Equal(t, "human", snap.ActingRole)
	assert.Equal(t, []string{"declare", "pass"}, snap.LegalActions)
	assert.True(t, snap.Roles[engine.RoleHuman].DobonReady)
	assert.Equal(t, 3, snap.Roles[engine.RoleCPU1].HandSize, "cpu1 should have drawn")
	require.NotNil(t, mb.findEventByType(EventDobonWindow))

	snap, err = m.Declare(ctx)
	require.NoError(t, err)
	assert.True(t, snap.GameOver)
	assert.Equal(t, "human", snap.Winner)
	assert.Equal(t, "cpu1", snap.Loser)
	assert.Len(t, snap.Roles[engine.RoleCPU2].Hand, 2, "hands are revealed after game over")

	stats := m.Stats()
	assert.Equal(t, 1, stats[engine.RoleHuman].Wins)
	for _, r := range engine.Roles {
		assert.Equal(t, 1, stats[r].TotalGames)
	}
	ev := mb.getLastEvent()
	require.NotNil(t, ev)
	assert.Equal(t, EventPlayerDobon, ev.Type)
	assert.Equal(t, "cpu1", ev.Payload["loser"])
}

// TestDobonWindowPass: declining the window lets cpu2 claim its own Dobon.
func TestDobonWindowPass(t *testing.T) {
	m, mb := setupTestMatch(t, nil)
	kingD := card(engine.SuitDiamonds, 13)
	rigMatch(t, m, [engine.NumRoles][]engine.Card{
		{card(engine.SuitDiamonds, 4), card(engine.SuitDiamonds, 9), kingD},
		{card(engine.SuitHearts, 2), card(engine.SuitSpades, 3)},
		{card(engine.SuitHearts, 6), card(engine.SuitHearts, 7)},
		{card(engine.SuitSpades, 12), card(engine.SuitSpades, 11)},
	}, card(engine.SuitClubs, 13))
	ctx := context.Background()

	_, err := m.Play(ctx, kingD)
	require.NoError(t, err)
	mb.clear()

	snap, err := m.Pass(ctx)
	require.NoError(t, err)
	assert.True(t, snap.GameOver)
	assert.Equal(t, "cpu2", snap.Winner)
	assert.Equal(t, "cpu1", snap.Loser)
	assert.Equal(t, 1, mb.countByType(EventPlayerPass))
	assert.Equal(t, 1, m.Stats()[engine.RoleCPU2].Wins)
}

// TestFullMatchRecordsStatsOnce plays matches to the end and checks the
// bookkeeping.
func TestFullMatchRecordsStatsOnce(t *testing.T) {
	m, mb := setupTestMatch(t, nil)
	ctx := context.Background()
	const games = 5

	for i := 0; i < games; i++ {
		snap, err := m.NewMatch(ctx)
		require.NoError(t, err)
		for steps := 0; !snap.GameOver; steps++ {
			require.Less(t, steps, 5000, "match did not finish")
			snap, err = humanMove(ctx, m)
			require.NoError(t, err)
			assert.False(t, snap.Busy)
			assert.Contains(t, []string{"human_turn", "dobon_window", "game_over"}, snap.Phase)
		}
		last := mb.getLastEvent()
		require.NotNil(t, last)
		assert.Contains(t, []GameEventType{EventPlayerDobon, EventGameStalemate}, last.Type)
	}

	stats := m.Stats()
	wins := 0
	for _, r := range engine.Roles {
		assert.Equal(t, games, stats[r].TotalGames)
		wins += stats[r].Wins
	}
	assert.LessOrEqual(t, wins, games)
	assert.Equal(t, games, mb.countByType(EventPlayerDobon)+mb.countByType(EventGameStalemate))
}

// TestBusyRejectsCommands verifies commands are refused while CPU turns run.
func TestBusyRejectsCommands(t *testing.T) {
	entered := make(chan struct{}, 16)
	release := make(chan struct{})
	var calls atomic.Int32
	delay := func(ctx context.Context, _ engine.Role) error {
		if calls.Add(1) == 1 {
			entered <- struct{}{}
			select {
			case <-release:
			case <-ctx.Done():
				return ctx.Err()
			}
		}
		return nil
	}
	m, _ := setupTestMatch(t, delay)
	ctx := context.Background()
	_, err := m.NewMatch(ctx)
	require.NoError(t, err)
	if m.Snapshot().Roles[engine.RoleHuman].DobonReady {
		t.Skip("deal is an immediate human dobon")
	}

	done := make(chan error, 1)
	go func() {
		_, err := humanMove(ctx, m)
		done <- err
	}()
	select {
	case <-entered:
	case <-time.After(2 * time.Second):
		t.Fatal("cpu loop never started")
	}

	snap, err := m.Draw(ctx)
	assert.ErrorIs(t, err, engine.ErrOutOfTurn)
	assert.True(t, snap.Busy)
	assert.Empty(t, snap.LegalActions)
	_, err = m.Resume(ctx)
	assert.ErrorIs(t, err, engine.ErrOutOfTurn)

	close(release)
	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("command did not finish")
	}
	assert.False(t, m.Snapshot().Busy)
}

// TestNewMatchAbortsCPULoop verifies a new deal cancels in-flight CPU turns.
func TestNewMatchAbortsCPULoop(t *testing.T) {
	entered := make(chan struct{}, 16)
	delay := func(ctx context.Context, _ engine.Role) error {
		entered <- struct{}{}
		<-ctx.Done()
		return ctx.Err()
	}
	m, _ := setupTestMatch(t, delay)
	ctx := context.Background()
	first, err := m.NewMatch(ctx)
	require.NoError(t, err)
	if first.Roles[engine.RoleHuman].DobonReady {
		t.Skip("deal is an immediate human dobon")
	}

	type result struct {
		snap Snapshot
		err  error
	}
	done := make(chan result, 1)
	go func() {
		snap, err := humanMove(ctx, m)
		done <- result{snap, err}
	}()
	select {
	case <-entered:
	case <-time.After(2 * time.Second):
		t.Fatal("cpu loop never started")
	}

	second, err := m.NewMatch(ctx)
	require.NoError(t, err)
	assert.NotEqual(t, first.MatchID, second.MatchID)

	select {
	case res := <-done:
		assert.ErrorIs(t, res.err, ErrMatchReplaced)
		assert.Equal(t, second.MatchID, res.snap.MatchID, "caller sees the new match")
		assert.Equal(t, "human_turn", res.snap.Phase)
	case <-time.After(2 * time.Second):
		t.Fatal("aborted command did not return")
	}
	assert.Equal(t, 0, m.Stats()[engine.RoleHuman].TotalGames, "abandoned matches are not counted")
}

// TestResumeAfterCancel verifies a cancelled loop can be continued.
func TestResumeAfterCancel(t *testing.T) {
	var calls atomic.Int32
	delay := func(ctx context.Context, _ engine.Role) error {
		if calls.Add(1) == 1 {
			<-ctx.Done()
			return ctx.Err()
		}
		return nil
	}
	m, _ := setupTestMatch(t, delay)
	_, err := m.NewMatch(context.Background())
	require.NoError(t, err)
	if m.Snapshot().Roles[engine.RoleHuman].DobonReady {
		t.Skip("deal is an immediate human dobon")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()
	snap, err := humanMove(ctx, m)
	require.True(t, errors.Is(err, context.DeadlineExceeded), "got %v", err)
	assert.Equal(t, "cpu_turn", snap.Phase)
	assert.False(t, snap.Busy)

	snap, err = m.Resume(context.Background())
	require.NoError(t, err)
	assert.NotEqual(t, "cpu_turn", snap.Phase)
}

// TestRevealHand checks hidden and revealed hands.
func TestRevealHand(t *testing.T) {
	m, _ := setupTestMatch(t, nil)
	_, err := m.NewMatch(context.Background())
	require.NoError(t, err)

	hand, err := m.RevealHand(engine.RoleHuman)
	require.NoError(t, err)
	assert.Len(t, hand, 5)

	_, err = m.RevealHand(engine.RoleCPU2)
	assert.ErrorIs(t, err, engine.ErrPrecondition)
	_, err = m.RevealHand(engine.Role(7))
	assert.ErrorIs(t, err, engine.ErrPrecondition)

	m.mu.Lock()
	m.state.Phase = engine.PhaseGameOver
	m.mu.Unlock()
	hand, err = m.RevealHand(engine.RoleCPU2)
	require.NoError(t, err)
	assert.Len(t, hand, 5)
}

func TestWinStats(t *testing.T) {
	var s WinStats
	s.Record(engine.RoleCPU1)
	s.Record(engine.NoRole)
	assert.Equal(t, RoleStats{Wins: 1, TotalGames: 2}, s[engine.RoleCPU1])
	assert.Equal(t, RoleStats{Wins: 0, TotalGames: 2}, s[engine.RoleHuman])
	assert.InDelta(t, 0.5, s[engine.RoleCPU1].WinRate(), 1e-9)
	assert.Zero(t, RoleStats{}.WinRate())

	var total WinStats
	total.Merge(s)
	total.Merge(s)
	assert.Equal(t, 4, total[engine.RoleCPU3].TotalGames)
	assert.Equal(t, 2, total[engine.RoleCPU1].Wins)
}

func TestNewRejectsBadOptions(t *testing.T) {
	_, err := New(Options{Rules: engine.HouseRules{CardsPerPlayer: 13}, Logger: quietLogger()})
	assert.ErrorIs(t, err, engine.ErrPrecondition)
}

func TestSleepDelayHonoursContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	err := SleepDelay(time.Hour)(ctx, engine.RoleCPU1)
	assert.ErrorIs(t, err, context.Canceled)
	assert.NoError(t, SleepDelay(time.Millisecond)(context.Background(), engine.RoleCPU1))
}
