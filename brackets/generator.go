package brackets

import "context"

// GenerateScheduleParams describes one group whose matches are to be scheduled.
// PlayerIDs are in seeding order.
type GenerateScheduleParams struct {
	GroupNumber int
	PlayerIDs   []int
}

type ScheduleGenerator interface {
	GenerateSchedule(ctx context.Context, params GenerateScheduleParams) ([]*ScheduledMatch, error)

	GetName() string
}

// ScheduledMatch is a pairing before it is persisted.
type ScheduledMatch struct {
	UID        string
	MatchOrder int
	Player1ID  int
	Player2ID  int
}
