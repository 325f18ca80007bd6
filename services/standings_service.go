package services

import (
	"context"
	"log/slog"

	"github.com/Dosada05/league-system/brackets"
	"github.com/Dosada05/league-system/models"
	"github.com/Dosada05/league-system/repositories"
)

// StandingsService rebuilds the persisted standings of a group from its
// current members and matches.
type StandingsService interface {
	// RecomputeGroup must run inside the transaction that holds the group's
	// row lock. It replaces every standing row of the group.
	RecomputeGroup(ctx context.Context, exec repositories.SQLExecutor, groupID int) ([]*models.GroupStanding, error)
}

type standingsService struct {
	groupRepo        repositories.GroupRepository
	matchRepo        repositories.GroupMatchRepository
	standingRepo     repositories.GroupStandingRepository
	advancementSlots int
	logger           *slog.Logger
}

func NewStandingsService(
	groupRepo repositories.GroupRepository,
	matchRepo repositories.GroupMatchRepository,
	standingRepo repositories.GroupStandingRepository,
	advancementSlots int,
	logger *slog.Logger,
) StandingsService {
	if logger == nil {
		logger = slog.Default()
	}
	return &standingsService{
		groupRepo:        groupRepo,
		matchRepo:        matchRepo,
		standingRepo:     standingRepo,
		advancementSlots: advancementSlots,
		logger:           logger,
	}
}

func (s *standingsService) RecomputeGroup(ctx context.Context, exec repositories.SQLExecutor, groupID int) ([]*models.GroupStanding, error) {
	members, err := s.groupRepo.ListMembers(ctx, exec, groupID)
	if err != nil {
		return nil, handleRepositoryError(err, "list group members")
	}
	matches, err := s.matchRepo.ListByGroup(ctx, exec, groupID)
	if err != nil {
		return nil, handleRepositoryError(err, "list group matches")
	}

	memberIDs := make([]int, 0, len(members))
	for _, m := range members {
		memberIDs = append(memberIDs, m.PlayerID)
	}

	standings := brackets.ComputeStandings(groupID, memberIDs, matches, s.advancementSlots)
	if err := s.standingRepo.ReplaceForGroup(ctx, exec, groupID, standings); err != nil {
		return nil, handleRepositoryError(err, "replace group standings")
	}

	s.logger.DebugContext(ctx, "group standings recomputed",
		slog.Int("group_id", groupID),
		slog.Int("members", len(memberIDs)),
		slog.Int("matches", len(matches)),
	)
	return standings, nil
}
