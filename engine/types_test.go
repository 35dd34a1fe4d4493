package engine

import (
	"errors"
	"testing"
)

// TestSuitRank checks the id → (suit, rank) mapping at the suit boundaries.
func TestSuitRank(t *testing.T) {
	tests := []struct {
		card Card
		suit uint8
		rank uint8
	}{
		{1, SuitClubs, 1},
		{13, SuitClubs, 13},
		{14, SuitDiamonds, 1},
		{26, SuitDiamonds, 13},
		{27, SuitHearts, 1},
		{40, SuitSpades, 1},
		{52, SuitSpades, 13},
	}
	for _, tt := range tests {
		if got := tt.card.Suit(); got != tt.suit {
			t.Errorf("Card(%d).Suit() = %d, want %d", tt.card, got, tt.suit)
		}
		if got := tt.card.Rank(); got != tt.rank {
			t.Errorf("Card(%d).Rank() = %d, want %d", tt.card, got, tt.rank)
		}
	}
}

// TestNewCardRoundTrip verifies NewCard inverts Suit/Rank for all 52 cards.
func TestNewCardRoundTrip(t *testing.T) {
	for c := Card(1); c <= DeckSize; c++ {
		if got := NewCard(c.Suit(), c.Rank()); got != c {
			t.Errorf("NewCard(%d, %d) = %d, want %d", c.Suit(), c.Rank(), got, c)
		}
	}
}

// TestCanPlaySymmetric checks canPlay(a,b) == canPlay(b,a) over all pairs.
func TestCanPlaySymmetric(t *testing.T) {
	for a := Card(1); a <= DeckSize; a++ {
		for b := Card(1); b <= DeckSize; b++ {
			if CanPlay(a, b) != CanPlay(b, a) {
				t.Fatalf("CanPlay(%s, %s) != CanPlay(%s, %s)", a, b, b, a)
			}
		}
	}
}

func TestCanPlay(t *testing.T) {
	if !CanPlay(c5C, c3C) {
		t.Error("same suit should match")
	}
	if !CanPlay(c3D, c3C) {
		t.Error("same rank should match")
	}
	if CanPlay(c2D, c3C) {
		t.Error("2D on 3C should not match")
	}
	if CanPlay(c5C, NoCard) {
		t.Error("nothing matches an empty field")
	}
}

func TestCardString(t *testing.T) {
	cases := map[Card]string{
		1:      "AC",
		10:     "10C",
		24:     "JD",
		38:     "QH",
		52:     "KS",
		NoCard: "--",
	}
	for c, want := range cases {
		if got := c.String(); got != want {
			t.Errorf("Card(%d).String() = %q, want %q", c, got, want)
		}
	}
}

func TestParseCard(t *testing.T) {
	cases := map[string]Card{
		"1":   1,
		"52":  52,
		"AC":  1,
		"10d": NewCard(SuitDiamonds, 10),
		"kh":  NewCard(SuitHearts, RankKing),
		" qs": NewCard(SuitSpades, RankQueen),
	}
	for in, want := range cases {
		got, err := ParseCard(in)
		if err != nil {
			t.Errorf("ParseCard(%q) error: %v", in, err)
			continue
		}
		if got != want {
			t.Errorf("ParseCard(%q) = %s, want %s", in, got, want)
		}
	}

	for _, bad := range []string{"", "0", "53", "X", "1X", "ZC"} {
		if _, err := ParseCard(bad); !errors.Is(err, ErrPrecondition) {
			t.Errorf("ParseCard(%q) error = %v, want ErrPrecondition", bad, err)
		}
	}
}

// TestRoleRing verifies the fixed Human → CPU1 → CPU2 → CPU3 → Human order.
func TestRoleRing(t *testing.T) {
	r := RoleHuman
	want := []Role{RoleCPU1, RoleCPU2, RoleCPU3, RoleHuman}
	for i, w := range want {
		r = r.Next()
		if r != w {
			t.Fatalf("step %d: Next() = %s, want %s", i, r, w)
		}
	}
	if RoleHuman.IsCPU() || !RoleCPU3.IsCPU() || NoRole.IsCPU() {
		t.Error("IsCPU misclassifies roles")
	}
	if NoRole.Valid() {
		t.Error("NoRole should not be valid")
	}
}
