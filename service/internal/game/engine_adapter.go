// engine_adapter.go: bridge between engine.GameState and Match events.
package game

import (
	engine "github.com/jason-s-yu/dobon/engine"
	"github.com/sirupsen/logrus"
)

// engineSuitToString converts an engine suit to its display name.
func engineSuitToString(suit uint8) string {
	switch suit {
	case engine.SuitClubs:
		return "clubs"
	case engine.SuitDiamonds:
		return "diamonds"
	case engine.SuitHearts:
		return "hearts"
	case engine.SuitSpades:
		return "spades"
	}
	return ""
}

// eventCard converts an engine.Card for an event payload. NoCard yields nil.
func eventCard(c engine.Card) *EventCard {
	if !c.Valid() {
		return nil
	}
	return &EventCard{
		ID:    uint8(c),
		Rank:  c.Rank(),
		Suit:  engineSuitToString(c.Suit()),
		Label: c.String(),
	}
}

// emitEventsForAction sends the events for a completed play, draw or pass.
// Declarations are announced by afterAction once the match is over.
// Assumes lock is held by caller.
func (m *Match) emitEventsForAction(act engine.LastActionInfo) {
	role := act.Actor.String()
	switch act.Kind {
	case engine.ActionPlay:
		m.fireEvent(GameEvent{
			Type: EventPlayerPlay,
			Role: role,
			Card: eventCard(act.Card),
			Payload: map[string]interface{}{
				"displaced": act.Displaced.String(),
				"handSize":  m.state.HandLen(act.Actor),
			},
		})
	case engine.ActionDraw:
		if act.Refilled {
			m.log.WithField("deckCount", int(m.state.StockLen)+1).Debug("Discard pile reshuffled into the deck.")
			m.fireEvent(GameEvent{
				Type:    EventRefillStockpile,
				Payload: map[string]interface{}{"deckCount": int(m.state.StockLen) + 1},
			})
		}
		ev := GameEvent{
			Type: EventPlayerDraw,
			Role: role,
			Payload: map[string]interface{}{
				"deckCount": int(m.state.StockLen),
				"handSize":  m.state.HandLen(act.Actor),
			},
		}
		// Only the human's own draws are revealed.
		if act.Actor == engine.RoleHuman {
			ev.Card = eventCard(act.Card)
		}
		m.fireEvent(ev)
	case engine.ActionPass:
		m.fireEvent(GameEvent{
			Type:    EventPlayerPass,
			Role:    role,
			Payload: map[string]interface{}{"passes": int(m.state.Passes)},
		})
	}
}

// emitEventsForStep sends the events for one CPU iteration.
// Assumes lock is held by caller.
func (m *Match) emitEventsForStep(step engine.CPUStep) {
	if step.Action.Kind != engine.ActionNone {
		m.log.WithFields(logrus.Fields{
			"role":   step.Role.String(),
			"action": step.Action.Kind.String(),
			"card":   step.Action.Card.String(),
		}).Debug("CPU acted.")
		m.emitEventsForAction(step.Action)
	}
	if step.Window {
		m.log.WithField("next", m.state.Current.String()).Debug("Dobon window opened.")
		m.fireEvent(GameEvent{
			Type: EventDobonWindow,
			Role: engine.RoleHuman.String(),
			Card: eventCard(m.state.Field),
			Payload: map[string]interface{}{
				"next": m.state.Current.String(),
			},
		})
	}
}

// broadcastPlayerTurn notifies the host whose turn it is.
// Assumes lock is held by caller.
func (m *Match) broadcastPlayerTurn() {
	switch m.state.Phase {
	case engine.PhaseHumanTurn, engine.PhaseCPUTurn:
	default:
		return
	}
	m.fireEvent(GameEvent{
		Type:    EventGamePlayerTurn,
		Role:    m.state.Current.String(),
		Payload: map[string]interface{}{"turn": int(m.state.TurnNumber)},
	})
}
