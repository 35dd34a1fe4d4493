package engine

import (
	"errors"
	"fmt"
)

// Error kinds. Every rejected command wraps exactly one of these and leaves
// the game state unchanged.
var (
	ErrIllegalMove       = errors.New("illegal move")
	ErrOutOfTurn         = errors.New("out of turn")
	ErrEmptyResource     = errors.New("empty resource")
	ErrInvalidDobonClaim = errors.New("invalid dobon claim")
	ErrPrecondition      = errors.New("precondition failed")
)

// ClaimError describes a rejected Dobon declaration.
type ClaimError struct {
	Role      Role
	HandSum   int
	FieldRank uint8
	Cushion   bool // sum matched but the claimant created the hand itself
}

func (e *ClaimError) Error() string {
	if e.Cushion {
		return fmt.Sprintf("%s: %s made the last move and must wait a turn (hand sum %d, field rank %d)",
			ErrInvalidDobonClaim, e.Role, e.HandSum, e.FieldRank)
	}
	return fmt.Sprintf("%s: hand sum %d does not equal field rank %d", ErrInvalidDobonClaim, e.HandSum, e.FieldRank)
}

// Unwrap lets errors.Is match ErrInvalidDobonClaim.
func (e *ClaimError) Unwrap() error { return ErrInvalidDobonClaim }
