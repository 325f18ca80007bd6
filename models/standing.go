package models

import "time"

// GroupStanding is a derived rank row. The whole set for a group is
// replaced on every recompute.
type GroupStanding struct {
	ID                    int       `json:"id" db:"id"`
	GroupID               int       `json:"group_id" db:"group_id"`
	PlayerID              int       `json:"player_id" db:"player_id"`
	Wins                  int       `json:"wins" db:"wins"`
	Losses                int       `json:"losses" db:"losses"`
	GamesWon              int       `json:"total_games_won" db:"total_games_won"`
	GamesLost             int       `json:"total_games_lost" db:"total_games_lost"`
	Points                int       `json:"points" db:"points"`
	Position              int       `json:"position" db:"position"`
	AdvancesToElimination bool      `json:"advances_to_elimination" db:"advances_to_elimination"`
	UpdatedAt             time.Time `json:"updated_at" db:"updated_at"`
}

// GameRatio is games won over games lost, or games won when nothing was lost.
func (s *GroupStanding) GameRatio() float64 {
	if s.GamesLost == 0 {
		return float64(s.GamesWon)
	}
	return float64(s.GamesWon) / float64(s.GamesLost)
}

func (s *GroupStanding) GameDifferential() int {
	return s.GamesWon - s.GamesLost
}
