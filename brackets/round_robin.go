package brackets

import (
	"context"
	"fmt"
)

type RoundRobinGenerator struct{}

func NewRoundRobinGenerator() ScheduleGenerator {
	return &RoundRobinGenerator{}
}

func (g *RoundRobinGenerator) GetName() string {
	return "RoundRobin"
}

// GenerateSchedule pairs every player with every other player exactly once.
// Pairs follow seeding order: (1,2), (1,3) ... (2,3) ... and MatchOrder runs
// 0..k-1. Fewer than two players yields an empty schedule.
func (g *RoundRobinGenerator) GenerateSchedule(ctx context.Context, params GenerateScheduleParams) ([]*ScheduledMatch, error) {
	players := params.PlayerIDs
	n := len(players)
	if n < 2 {
		return []*ScheduledMatch{}, nil
	}

	seen := make(map[int]struct{}, n)
	for _, id := range players {
		if _, dup := seen[id]; dup {
			return nil, fmt.Errorf("RoundRobinGenerator: player %d listed twice in group %d", id, params.GroupNumber)
		}
		seen[id] = struct{}{}
	}

	matches := make([]*ScheduledMatch, 0, n*(n-1)/2)
	matchOrder := 0
	for i := 0; i < n; i++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		for j := i + 1; j < n; j++ {
			p1ID := players[i]
			p2ID := players[j]
			matches = append(matches, &ScheduledMatch{
				UID:        fmt.Sprintf("G%d_RRM%d_P%dvsP%d", params.GroupNumber, matchOrder, p1ID, p2ID),
				MatchOrder: matchOrder,
				Player1ID:  p1ID,
				Player2ID:  p2ID,
			})
			matchOrder++
		}
	}

	return matches, nil
}
