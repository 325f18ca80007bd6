package models

import "time"

// EventStatus mirrors the league_events.status column.
// Only "active" exists for now; there is no terminal state yet.
type EventStatus string

const (
	EventStatusActive EventStatus = "active"
)

type GroupingMethod string

const (
	GroupingBySkill GroupingMethod = "skill"
	GroupingRandom  GroupingMethod = "random"
	GroupingManual  GroupingMethod = "manual"
)

const eventDateLayout = "2006-01-02"

func (m GroupingMethod) IsValid() bool {
	switch m {
	case GroupingBySkill, GroupingRandom, GroupingManual:
		return true
	}
	return false
}

// LeagueEvent is one scoring session (tournament day) for an instance.
// (LeagueInstanceID, EventDate) is unique.
type LeagueEvent struct {
	ID               int            `json:"id" db:"id"`
	LeagueInstanceID int            `json:"league_instance_id" db:"league_instance_id"`
	EventDate        time.Time      `json:"event_date" db:"event_date"`
	Name             string         `json:"event_name" db:"event_name"`
	GroupingMethod   GroupingMethod `json:"grouping_method" db:"grouping_method"`
	TotalGroups      int            `json:"total_groups" db:"total_groups"`
	Status           EventStatus    `json:"status" db:"status"`
	CreatedAt        time.Time      `json:"created_at" db:"created_at"`
	UpdatedAt        time.Time      `json:"updated_at" db:"updated_at"`
}

// EventDateString formats the event date the way the API exchanges it.
func (e *LeagueEvent) EventDateString() string {
	return e.EventDate.Format(eventDateLayout)
}

// ParseEventDate parses a YYYY-MM-DD date. Only the calendar day is kept.
func ParseEventDate(s string) (time.Time, error) {
	return time.Parse(eventDateLayout, s)
}

// TruncateToDate keeps the calendar day of t (as seen in t's location) at UTC midnight.
func TruncateToDate(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
