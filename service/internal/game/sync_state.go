// internal/game/sync_state.go
package game

import (
	"github.com/google/uuid"
	engine "github.com/jason-s-yu/dobon/engine"
)

// RoleView is one seat as the host may see it.
type RoleView struct {
	Role       string      `json:"role"`
	HandSize   int         `json:"handSize"`
	DobonReady bool        `json:"dobonReady"`
	Stats      RoleStats   `json:"stats"`
	Hand       []EventCard `json:"hand,omitempty"` // Human always; CPUs after game over.
}

// ActionView describes the most recent play, draw, pass or declaration.
type ActionView struct {
	Kind      string     `json:"kind"`
	Role      string     `json:"role"`
	Card      *EventCard `json:"card,omitempty"` // Hidden for CPU draws.
	Displaced *EventCard `json:"displaced,omitempty"`
	Refilled  bool       `json:"refilled,omitempty"`
}

// Snapshot is an immutable view of a match for the host. It shares no memory
// with the engine state.
type Snapshot struct {
	MatchID      uuid.UUID                 `json:"matchId"`
	Phase        string                    `json:"phase"`
	ActingRole   string                    `json:"actingRole"`
	Turn         int                       `json:"turn"`
	DeckCount    int                       `json:"deckCount"`
	DiscardCount int                       `json:"discardCount"`
	Field        *EventCard                `json:"field,omitempty"`
	Hand         []EventCard               `json:"hand"`
	Roles        [engine.NumRoles]RoleView `json:"roles"`
	LegalActions []string                  `json:"legalActions,omitempty"` // Human's options now.
	LastAction   *ActionView               `json:"lastAction,omitempty"`
	LastOutcome  Outcome                   `json:"lastOutcome"`
	Busy         bool                      `json:"busy"`
	GameOver     bool                      `json:"gameOver"`
	Winner       string                    `json:"winner,omitempty"`
	Loser        string                    `json:"loser,omitempty"`
	Stalemate    bool                      `json:"stalemate,omitempty"`
}

// cardViews converts a hand for a snapshot.
func cardViews(cards []engine.Card) []EventCard {
	out := make([]EventCard, 0, len(cards))
	for _, c := range cards {
		if ec := eventCard(c); ec != nil {
			out = append(out, *ec)
		}
	}
	return out
}

// snapshotLocked builds the host view from engine state.
// This function assumes the match lock is HELD by the caller.
func (m *Match) snapshotLocked() Snapshot {
	g := &m.state
	over := g.IsGameOver()
	snap := Snapshot{
		MatchID:      m.ID,
		Phase:        g.Phase.String(),
		ActingRole:   g.ActingRole().String(),
		Turn:         int(g.TurnNumber),
		DeckCount:    int(g.StockLen),
		DiscardCount: int(g.DiscardLen),
		Field:        eventCard(g.Field),
		Hand:         cardViews(g.Hand(engine.RoleHuman)),
		LastOutcome:  m.lastOutcome,
		Busy:         m.busy,
		GameOver:     over,
	}

	for _, r := range engine.Roles {
		rv := RoleView{
			Role:       r.String(),
			HandSize:   g.HandLen(r),
			DobonReady: g.DobonReady(r),
			Stats:      m.stats[r],
		}
		if r == engine.RoleHuman || over {
			rv.Hand = cardViews(g.Hand(r))
		}
		snap.Roles[r] = rv
	}

	if !m.busy {
		for _, k := range g.LegalActions(engine.RoleHuman) {
			snap.LegalActions = append(snap.LegalActions, k.String())
		}
	}

	if act := g.LastAction; act.Kind != engine.ActionNone {
		av := &ActionView{
			Kind:      act.Kind.String(),
			Role:      act.Actor.String(),
			Card:      eventCard(act.Card),
			Displaced: eventCard(act.Displaced),
			Refilled:  act.Refilled,
		}
		if act.Kind == engine.ActionDraw && act.Actor.IsCPU() && !over {
			av.Card = nil
		}
		snap.LastAction = av
	}

	if over {
		snap.Stalemate = g.IsStalemate()
		if !snap.Stalemate {
			snap.Winner = g.Winner.String()
			snap.Loser = g.Loser.String()
		}
	}
	return snap
}
