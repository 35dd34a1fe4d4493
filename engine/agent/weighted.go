package agent

import engine "github.com/jason-s-yu/dobon/engine"

// Weights are the terms of the weighted play score.
type Weights struct {
	InRange         int // resulting sum in [1,13]
	InRangeSlack    int // per point the resulting sum sits below 13
	OutOfRange      int // resulting sum above 13
	OutOfRangeExtra int // per point the resulting sum exceeds 13
	PlayedRank      int // per rank point of the played card
	PairGain        int // same-rank pair count rises
	PairLoss        int // same-rank pair count falls
	SplitSumGain    int // a split-sum structure appears
	SplitSumLoss    int // a split-sum structure disappears
	KeepField       int // played rank equals the field rank (keep-field only)
	SumShrink       int // per point the hand sum drops
}

// DefaultWeights keep the resulting hand inside the claimable range first and
// then favour shedding large cards while preserving flexible structure.
var DefaultWeights = Weights{
	InRange:         5000,
	InRangeSlack:    15,
	OutOfRange:      -5000,
	OutOfRangeExtra: -50,
	PlayedRank:      30,
	PairGain:        250,
	PairLoss:        -350,
	SplitSumGain:    120,
	SplitSumLoss:    -120,
	KeepField:       180,
	SumShrink:       8,
}

// Weighted scores every legal play by the hand it leaves behind and plays the
// best one. With KeepField set it also rewards repeating the field's rank.
type Weighted struct {
	Weights   Weights
	KeepField bool
}

func (w *Weighted) ChooseAction(hand []engine.Card, field engine.Card) engine.Action {
	return decide(hand, field, w.best)
}

// best returns the highest-scoring play. Exact ties go to the higher rank,
// then to hand order.
func (w *Weighted) best(hand, plays []engine.Card, field engine.Card) engine.Card {
	best := plays[0]
	bestScore := w.Score(hand, best, field)
	for _, c := range plays[1:] {
		s := w.Score(hand, c, field)
		if s > bestScore || (s == bestScore && c.Rank() > best.Rank()) {
			best, bestScore = c, s
		}
	}
	return best
}

// Score rates playing card c from hand onto field. c must be in hand.
func (w *Weighted) Score(hand []engine.Card, c, field engine.Card) int {
	idx := -1
	for i, h := range hand {
		if h == c {
			idx = i
			break
		}
	}
	if idx < 0 {
		return w.Weights.OutOfRange
	}
	rest := without(hand, idx)
	oldSum := engine.HandSum(hand)
	newSum := engine.HandSum(rest)
	rank := int(c.Rank())

	score := 0
	switch {
	case newSum >= 1 && newSum <= int(engine.RankKing):
		score += w.Weights.InRange + w.Weights.InRangeSlack*(int(engine.RankKing)-newSum)
	case newSum > int(engine.RankKing):
		score += w.Weights.OutOfRange + w.Weights.OutOfRangeExtra*(newSum-int(engine.RankKing))
	default:
		score += w.Weights.OutOfRange
	}
	score += w.Weights.PlayedRank * rank

	switch before, after := pairCount(hand), pairCount(rest); {
	case after > before:
		score += w.Weights.PairGain
	case after < before:
		score += w.Weights.PairLoss
	}

	switch before, after := hasSplitSum(hand), hasSplitSum(rest); {
	case after && !before:
		score += w.Weights.SplitSumGain
	case before && !after:
		score += w.Weights.SplitSumLoss
	}

	if w.KeepField && c.Rank() == field.Rank() {
		score += w.Weights.KeepField
	}
	score += w.Weights.SumShrink * (oldSum - newSum)
	return score
}
