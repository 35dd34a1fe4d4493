package engine

import (
	"fmt"
	"strconv"
	"strings"
)

// Suit constants, in deck order: cards 1–13 are Clubs, 14–26 Diamonds,
// 27–39 Hearts, 40–52 Spades.
const (
	SuitClubs    uint8 = 0
	SuitDiamonds uint8 = 1
	SuitHearts   uint8 = 2
	SuitSpades   uint8 = 3
)

// Rank bounds. Ace is 1, King is 13.
const (
	RankAce   uint8 = 1
	RankJack  uint8 = 11
	RankQueen uint8 = 12
	RankKing  uint8 = 13
)

// Card is a card identity in 1..52.
type Card uint8

// NoCard represents the absence of a card (an empty field before the deal).
const NoCard Card = 0

// NewCard constructs a Card from suit (0–3) and rank (1–13).
func NewCard(suit, rank uint8) Card {
	return Card(suit*13 + rank)
}

// Valid reports whether c is one of the 52 card identities.
func (c Card) Valid() bool { return c >= 1 && c <= DeckSize }

// Suit returns (id-1) div 13.
func (c Card) Suit() uint8 { return (uint8(c) - 1) / 13 }

// Rank returns (id-1) mod 13 + 1.
func (c Card) Rank() uint8 { return (uint8(c)-1)%13 + 1 }

var (
	suitLetters = [4]string{"C", "D", "H", "S"}
	rankLabels  = [14]string{"", "A", "2", "3", "4", "5", "6", "7", "8", "9", "10", "J", "Q", "K"}
)

// String renders the card as rank then suit letter, e.g. "AC", "10D", "KS".
func (c Card) String() string {
	if !c.Valid() {
		return "--"
	}
	return rankLabels[c.Rank()] + suitLetters[c.Suit()]
}

// ParseCard accepts either a numeric id ("27") or rank+suit notation ("AH", "10d").
func ParseCard(s string) (Card, error) {
	s = strings.ToUpper(strings.TrimSpace(s))
	if n, err := strconv.Atoi(s); err == nil {
		c := Card(n)
		if n < 1 || n > DeckSize {
			return NoCard, fmt.Errorf("%w: card id %d out of range", ErrPrecondition, n)
		}
		return c, nil
	}
	if len(s) < 2 {
		return NoCard, fmt.Errorf("%w: cannot parse card %q", ErrPrecondition, s)
	}
	rankPart, suitPart := s[:len(s)-1], s[len(s)-1:]
	suit := -1
	for i, l := range suitLetters {
		if l == suitPart {
			suit = i
		}
	}
	rank := -1
	for i, l := range rankLabels {
		if i > 0 && l == rankPart {
			rank = i
		}
	}
	if suit < 0 || rank < 0 {
		return NoCard, fmt.Errorf("%w: cannot parse card %q", ErrPrecondition, s)
	}
	return NewCard(uint8(suit), uint8(rank)), nil
}

// Role identifies one of the four fixed seats.
type Role uint8

const (
	RoleHuman Role = 0
	RoleCPU1  Role = 1
	RoleCPU2  Role = 2
	RoleCPU3  Role = 3
)

// NoRole marks an unset role (no last actor yet, no winner).
const NoRole Role = 0xFF

// Roles lists the ring in turn order.
var Roles = [NumRoles]Role{RoleHuman, RoleCPU1, RoleCPU2, RoleCPU3}

// Valid reports whether r is a seat in the ring.
func (r Role) Valid() bool { return r < NumRoles }

// IsCPU reports whether r is one of the CPU seats.
func (r Role) IsCPU() bool { return r.Valid() && r != RoleHuman }

// Next returns the following role in the ring.
func (r Role) Next() Role { return (r + 1) % NumRoles }

func (r Role) String() string {
	switch r {
	case RoleHuman:
		return "human"
	case RoleCPU1:
		return "cpu1"
	case RoleCPU2:
		return "cpu2"
	case RoleCPU3:
		return "cpu3"
	case NoRole:
		return "none"
	default:
		return fmt.Sprintf("role(%d)", uint8(r))
	}
}

// Phase is the scheduler state.
type Phase uint8

const (
	PhaseDealing Phase = iota
	PhaseHumanTurn
	PhaseCPUTurn
	PhaseDobonWindow
	PhaseGameOver
)

func (p Phase) String() string {
	switch p {
	case PhaseDealing:
		return "dealing"
	case PhaseHumanTurn:
		return "human_turn"
	case PhaseCPUTurn:
		return "cpu_turn"
	case PhaseDobonWindow:
		return "dobon_window"
	case PhaseGameOver:
		return "game_over"
	default:
		return "unknown"
	}
}

// ActionKind is the kind of a player action.
type ActionKind uint8

const (
	ActionNone ActionKind = iota
	ActionPlay
	ActionDraw
	ActionDeclare
	ActionPass
)

func (k ActionKind) String() string {
	switch k {
	case ActionPlay:
		return "play"
	case ActionDraw:
		return "draw"
	case ActionDeclare:
		return "declare"
	case ActionPass:
		return "pass"
	default:
		return "none"
	}
}

// Action is a strategy decision: play Card, or draw.
type Action struct {
	Kind ActionKind
	Card Card
}

// PlayAction returns an action playing c.
func PlayAction(c Card) Action { return Action{Kind: ActionPlay, Card: c} }

// DrawAction returns a draw action.
func DrawAction() Action { return Action{Kind: ActionDraw} }

// Strategy chooses an action for a hand against the current field card.
// Implementations must not retain or modify hand.
type Strategy interface {
	ChooseAction(hand []Card, field Card) Action
}

// StrategyFunc adapts a plain function to Strategy.
type StrategyFunc func(hand []Card, field Card) Action

// ChooseAction calls f.
func (f StrategyFunc) ChooseAction(hand []Card, field Card) Action { return f(hand, field) }

// LastActionInfo is a fully observable summary of the most recent action.
type LastActionInfo struct {
	Kind      ActionKind
	Actor     Role
	Card      Card // played or drawn card
	Displaced Card // field card moved to the discard pile by a play
	Refilled  bool // the deck was rebuilt from the discard pile before a draw
}
