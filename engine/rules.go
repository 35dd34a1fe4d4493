package engine

import "fmt"

// HouseRules holds configurable game rule settings.
type HouseRules struct {
	CardsPerPlayer uint8  // cards dealt to each role; 0 treated as 5
	MaxTurns       uint16 // 0 = unlimited; reaching it ends the match in a stalemate
}

// DefaultHouseRules returns the standard Dobon house rules.
func DefaultHouseRules() HouseRules {
	return HouseRules{
		CardsPerPlayer: 5,
		MaxTurns:       0,
	}
}

// cardsPerPlayer returns the effective deal size, treating 0 as 5.
func (r *HouseRules) cardsPerPlayer() uint8 {
	if r.CardsPerPlayer == 0 {
		return 5
	}
	return r.CardsPerPlayer
}

// Validate checks that the deal fits in one deck with a field card left over.
func (r HouseRules) Validate() error {
	n := int(r.cardsPerPlayer())
	if n*NumRoles+1 > DeckSize {
		return fmt.Errorf("%w: %d cards per player exceeds the deck", ErrPrecondition, n)
	}
	return nil
}
