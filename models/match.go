package models

import "time"

// GroupMatch is one round-robin pairing inside a group.
// Completed is derived from score presence, never asserted by callers.
type GroupMatch struct {
	ID           int       `json:"id"`
	GroupID      int       `json:"group_id"`
	Player1ID    int       `json:"player1_id"`
	Player2ID    int       `json:"player2_id"`
	Player1Score Score     `json:"player1_score"`
	Player2Score Score     `json:"player2_score"`
	Completed    bool      `json:"completed"`
	MatchOrder   int       `json:"match_order"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// SetScores stores both scores and recomputes the completed flag.
func (m *GroupMatch) SetScores(s1, s2 Score) {
	m.Player1Score = s1
	m.Player2Score = s2
	m.Completed = s1.Present() && s2.Present()
}

// PairKey is the order-independent identity of a pairing.
type PairKey struct {
	Low  int
	High int
}

func NewPairKey(a, b int) PairKey {
	if a > b {
		a, b = b, a
	}
	return PairKey{Low: a, High: b}
}

func (m *GroupMatch) PairKey() PairKey {
	return NewPairKey(m.Player1ID, m.Player2ID)
}

// Orient returns the scores for (player1, player2) as given by the caller,
// rearranged to this match's stored orientation. ok is false when the
// players are not this match's pair.
func (m *GroupMatch) Orient(player1, player2 int, s1, s2 Score) (Score, Score, bool) {
	switch {
	case player1 == m.Player1ID && player2 == m.Player2ID:
		return s1, s2, true
	case player1 == m.Player2ID && player2 == m.Player1ID:
		return s2, s1, true
	}
	return Score{}, Score{}, false
}
