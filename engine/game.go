// Package engine implements the Dobon card game rules.
//
// GameState is a flat value type (fixed arrays, no pointers) so a match can be
// saved and restored with a plain struct copy and compared with ==. All
// mutation goes through Play, Draw, Declare, Pass and StepCPU, each of which
// validates before touching any field.
package engine

import "fmt"

const (
	NumRoles = 4
	DeckSize = 52
)

// PlayerState holds one role's hand.
type PlayerState struct {
	Hand    [DeckSize]Card
	HandLen uint8
}

// GameState holds the complete, self-contained state of a Dobon match.
type GameState struct {
	Players     [NumRoles]PlayerState
	Stockpile   [DeckSize]Card
	StockLen    uint8
	DiscardPile [DeckSize]Card
	DiscardLen  uint8
	Field       Card

	Phase        Phase
	Current      Role
	LastActor    Role
	Resume       Phase // phase restored when a Dobon window is passed
	WindowPassed bool  // human passed the window; cleared by the next play or draw
	Passes       uint8 // consecutive passes
	TurnNumber   uint16

	Winner     Role
	Loser      Role
	LastAction LastActionInfo

	RNG   uint64
	Rules HouseRules
}

// ---------------------------------------------------------------------------
// xorshift64 RNG
// ---------------------------------------------------------------------------

func (g *GameState) nextRand() uint64 {
	x := g.RNG
	x ^= x << 13
	x ^= x >> 7
	x ^= x << 17
	g.RNG = x
	return x
}

// randN returns a random number in [0, n).
func (g *GameState) randN(n uint64) uint64 {
	return g.nextRand() % n
}

// shuffle performs an in-place Fisher-Yates shuffle of cards.
func (g *GameState) shuffle(cards []Card) {
	for i := len(cards) - 1; i > 0; i-- {
		j := int(g.randN(uint64(i + 1)))
		cards[i], cards[j] = cards[j], cards[i]
	}
}

// ---------------------------------------------------------------------------
// NewGame and Deal
// ---------------------------------------------------------------------------

// NewGame initializes a GameState with the given seed and rules.
// The stockpile holds cards 1..52 in order; nothing is dealt yet.
func NewGame(seed uint64, rules HouseRules) GameState {
	var g GameState
	g.RNG = seed
	if g.RNG == 0 {
		g.RNG = 1 // xorshift can't start at 0
	}
	g.Rules = rules
	g.Phase = PhaseDealing
	g.Current = RoleHuman
	g.LastActor = NoRole
	g.Winner = NoRole
	g.Loser = NoRole
	g.LastAction.Actor = NoRole

	for i := 0; i < DeckSize; i++ {
		g.Stockpile[i] = Card(i + 1)
	}
	g.StockLen = DeckSize
	return g
}

// Deal shuffles the deck, deals CardsPerPlayer to each role one at a time,
// and reveals the field card. The human acts first.
func (g *GameState) Deal() error {
	if g.Phase != PhaseDealing {
		return fmt.Errorf("%w: match already dealt", ErrOutOfTurn)
	}
	if err := g.Rules.Validate(); err != nil {
		return err
	}
	g.shuffle(g.Stockpile[:g.StockLen])

	n := g.Rules.cardsPerPlayer()
	for c := uint8(0); c < n; c++ {
		for _, r := range Roles {
			g.StockLen--
			g.addToHand(r, g.Stockpile[g.StockLen])
		}
	}

	g.StockLen--
	g.Field = g.Stockpile[g.StockLen]

	g.Current = RoleHuman
	g.Phase = PhaseHumanTurn
	return nil
}

// ---------------------------------------------------------------------------
// Query methods
// ---------------------------------------------------------------------------

// IsGameOver reports whether the match has ended.
func (g *GameState) IsGameOver() bool { return g.Phase == PhaseGameOver }

// Hand returns a copy of role r's hand.
func (g *GameState) Hand(r Role) []Card {
	if !r.Valid() {
		return nil
	}
	p := &g.Players[r]
	out := make([]Card, p.HandLen)
	copy(out, p.Hand[:p.HandLen])
	return out
}

// HandLen returns the number of cards in role r's hand.
func (g *GameState) HandLen(r Role) int {
	if !r.Valid() {
		return 0
	}
	return int(g.Players[r].HandLen)
}

// InHand reports whether role r holds c.
func (g *GameState) InHand(r Role, c Card) bool {
	return g.handIndex(r, c) >= 0
}

func (g *GameState) handIndex(r Role, c Card) int {
	p := &g.Players[r]
	for i := uint8(0); i < p.HandLen; i++ {
		if p.Hand[i] == c {
			return int(i)
		}
	}
	return -1
}

// ActingRole returns the role whose input the state machine is waiting for:
// the human during a Dobon window, otherwise the current role. NoRole once
// the match is over.
func (g *GameState) ActingRole() Role {
	switch g.Phase {
	case PhaseGameOver, PhaseDealing:
		return NoRole
	case PhaseDobonWindow:
		return RoleHuman
	}
	return g.Current
}

// Deck returns a copy of the stockpile, bottom first.
func (g *GameState) Deck() []Card {
	out := make([]Card, g.StockLen)
	copy(out, g.Stockpile[:g.StockLen])
	return out
}

// Discards returns a copy of the discard pile.
func (g *GameState) Discards() []Card {
	out := make([]Card, g.DiscardLen)
	copy(out, g.DiscardPile[:g.DiscardLen])
	return out
}

// ---------------------------------------------------------------------------
// Snapshot Undo (Save / Restore)
// ---------------------------------------------------------------------------

// Snapshot is a complete value-copy of GameState.
type Snapshot GameState

// Save returns a snapshot of the current game state.
func (g *GameState) Save() Snapshot { return Snapshot(*g) }

// Restore replaces the game state with the given snapshot.
func (g *GameState) Restore(s Snapshot) { *g = GameState(s) }
