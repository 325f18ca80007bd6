package models

import "time"

// Registrant is a player signed up for a league instance. The scoring
// engine refers to registrants only by ID.
type Registrant struct {
	ID                    int       `json:"id"`
	LeagueInstanceID      int       `json:"league_instance_id"`
	FirstName             string    `json:"first_name"`
	LastName              string    `json:"last_name"`
	Email                 string    `json:"email"`
	Phone                 *string   `json:"phone,omitempty"`
	SkillLevel            *float64  `json:"skill_level,omitempty"`
	EmergencyContactName  *string   `json:"emergency_contact_name,omitempty"`
	EmergencyContactPhone *string   `json:"emergency_contact_phone,omitempty"`
	CreatedAt             time.Time `json:"created_at"`
}

func (r *Registrant) DisplayName() string {
	if r == nil {
		return ""
	}
	if r.LastName == "" {
		return r.FirstName
	}
	return r.FirstName + " " + r.LastName
}
