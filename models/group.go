package models

import "time"

type GroupType string

const (
	GroupTypeRoundRobin GroupType = "round_robin"
)

// Group is a round-robin pool inside a league event. Membership is fixed
// once the event is created.
type Group struct {
	ID            int       `json:"id" db:"id"`
	LeagueEventID int       `json:"league_event_id" db:"league_event_id"`
	GroupNumber   int       `json:"group_number" db:"group_number"`
	Name          string    `json:"group_name" db:"group_name"`
	Type          GroupType `json:"group_type" db:"group_type"`
	CreatedAt     time.Time `json:"created_at" db:"created_at"`
}

// GroupMember links a player to a group. SeedOrder is 1-based and only
// drives scheduling and the final tie-break fallback.
type GroupMember struct {
	ID        int       `json:"id" db:"id"`
	GroupID   int       `json:"group_id" db:"group_id"`
	PlayerID  int       `json:"player_id" db:"player_id"`
	SeedOrder int       `json:"seed_order" db:"seed_order"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`

	Player *Registrant `json:"player,omitempty" db:"-"`
}
