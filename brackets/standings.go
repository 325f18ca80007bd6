package brackets

import (
	"sort"

	"github.com/Dosada05/league-system/models"
)

const (
	PointsForWin = 2
	PointsForTie = 1

	// DefaultAdvancementSlots is how many group finishers are flagged for
	// the elimination round unless configured otherwise.
	DefaultAdvancementSlots = 2
)

// ComputeStandings ranks the members of one group from its matches.
//
// memberIDs must be in seeding order; that order is the last tie-break when
// points, wins and game ratio are all equal. Incomplete matches, 0-0
// results and matches involving non-members are ignored.
// The result always holds one row per member, positions 1..n.
func ComputeStandings(groupID int, memberIDs []int, matches []*models.GroupMatch, advancementSlots int) []*models.GroupStanding {
	standings := make([]*models.GroupStanding, 0, len(memberIDs))
	index := make(map[int]*models.GroupStanding, len(memberIDs))
	for _, playerID := range memberIDs {
		if _, dup := index[playerID]; dup {
			continue
		}
		s := &models.GroupStanding{GroupID: groupID, PlayerID: playerID}
		index[playerID] = s
		standings = append(standings, s)
	}

	for _, m := range matches {
		if m == nil || !m.Completed || m.GroupID != groupID {
			continue
		}
		p1, ok1 := index[m.Player1ID]
		p2, ok2 := index[m.Player2ID]
		if !ok1 || !ok2 || m.Player1ID == m.Player2ID {
			continue
		}
		s1, s2 := m.Player1Score.Value(), m.Player2Score.Value()

		p1.GamesWon += s1
		p1.GamesLost += s2
		p2.GamesWon += s2
		p2.GamesLost += s1

		switch {
		case s1 > s2:
			p1.Wins++
			p1.Points += PointsForWin
			p2.Losses++
		case s2 > s1:
			p2.Wins++
			p2.Points += PointsForWin
			p1.Losses++
		case s1 > 0:
			p1.Points += PointsForTie
			p2.Points += PointsForTie
		}
	}

	sort.SliceStable(standings, func(i, j int) bool {
		a, b := standings[i], standings[j]
		if a.Points != b.Points {
			return a.Points > b.Points
		}
		if a.Wins != b.Wins {
			return a.Wins > b.Wins
		}
		return a.GameRatio() > b.GameRatio()
	})

	if advancementSlots < 0 {
		advancementSlots = 0
	}
	for i, s := range standings {
		s.Position = i + 1
		s.AdvancesToElimination = i < advancementSlots
	}
	return standings
}
