package game

import engine "github.com/jason-s-yu/dobon/engine"

// RoleStats holds one role's cumulative results.
type RoleStats struct {
	Wins       int `json:"wins"`
	TotalGames int `json:"totalGames"`
}

// WinRate is Wins/TotalGames, or 0 before any game.
func (s RoleStats) WinRate() float64 {
	if s.TotalGames == 0 {
		return 0
	}
	return float64(s.Wins) / float64(s.TotalGames)
}

// WinStats holds cumulative results per role. They survive NewMatch.
type WinStats [engine.NumRoles]RoleStats

// Record counts one finished match. Every role plays it; winner is NoRole
// for a stalemate.
func (s *WinStats) Record(winner engine.Role) {
	for i := range s {
		s[i].TotalGames++
	}
	if winner.Valid() {
		s[winner].Wins++
	}
}

// Merge adds other's counts into s.
func (s *WinStats) Merge(other WinStats) {
	for i := range s {
		s[i].Wins += other[i].Wins
		s[i].TotalGames += other[i].TotalGames
	}
}
