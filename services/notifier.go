package services

import (
	"time"

	"github.com/Dosada05/league-system/brackets"
	"github.com/Dosada05/league-system/models"
)

// RoomBroadcaster is the part of brackets.Hub the services push through.
type RoomBroadcaster interface {
	BroadcastToRoom(roomID string, message interface{})
}

// StandingsUpdate is the payload of a STANDINGS_UPDATED message.
type StandingsUpdate struct {
	LeagueEventID int                     `json:"league_event_id"`
	GroupID       int                     `json:"group_id"`
	Match         *models.GroupMatch      `json:"match,omitempty"`
	Standings     []*models.GroupStanding `json:"standings"`

	elapsed time.Duration // длительность пересчёта, только для метрик
}

// publishStandings sends committed standings to the event's room.
// A nil broadcaster disables live updates.
func publishStandings(b RoomBroadcaster, updates []StandingsUpdate) {
	if b == nil {
		return
	}
	for _, u := range updates {
		b.BroadcastToRoom(brackets.EventRoom(u.LeagueEventID), brackets.WebSocketMessage{
			Type:    brackets.MessageStandingsUpdated,
			Payload: u,
			RoomID:  brackets.EventRoom(u.LeagueEventID),
		})
	}
}
