package models

import "time"

// LeagueTemplate is the recurring weekly definition of a league night.
// Owned by the admin side; the scoring engine only reads it.
type LeagueTemplate struct {
	ID              int       `json:"id" db:"id"`
	Name            string    `json:"name" db:"name"`
	DayOfWeek       int       `json:"day_of_week" db:"day_of_week"`
	StartTime       string    `json:"start_time" db:"start_time"`
	EndTime         string    `json:"end_time" db:"end_time"`
	MaxParticipants int       `json:"max_participants" db:"max_participants"`
	SkillLevelMin   *float64  `json:"skill_level_min,omitempty" db:"skill_level_min"`
	SkillLevelMax   *float64  `json:"skill_level_max,omitempty" db:"skill_level_max"`
	Fee             *float64  `json:"fee,omitempty" db:"fee"`
	IsActive        bool      `json:"is_active" db:"is_active"`
	CreatedAt       time.Time `json:"created_at" db:"created_at"`
}

type LeagueInstanceStatus string

const (
	InstanceStatusOpen      LeagueInstanceStatus = "open"
	InstanceStatusFull      LeagueInstanceStatus = "full"
	InstanceStatusCompleted LeagueInstanceStatus = "completed"
	InstanceStatusCanceled  LeagueInstanceStatus = "canceled"
)

// LeagueInstance is one dated occurrence of a template.
type LeagueInstance struct {
	ID                  int                  `json:"id" db:"id"`
	TemplateID          int                  `json:"template_id" db:"template_id"`
	InstanceDate        time.Time            `json:"instance_date" db:"instance_date"`
	CurrentParticipants int                  `json:"current_participants" db:"current_participants"`
	Status              LeagueInstanceStatus `json:"status" db:"status"`
	CreatedAt           time.Time            `json:"created_at" db:"created_at"`

	Template *LeagueTemplate `json:"template,omitempty" db:"-"`
}
