package services

import (
	"context"

	"github.com/Dosada05/league-system/models"
	"github.com/Dosada05/league-system/repositories"
)

// MatchLedger records scores on existing group matches. It never
// recomputes standings; callers do that for the match's group afterwards,
// in the same transaction.
type MatchLedger interface {
	RecordScore(ctx context.Context, exec repositories.SQLExecutor, matchID int, score1, score2 models.Score) (*models.GroupMatch, error)
	// FindMatch accepts the two players in either order.
	FindMatch(ctx context.Context, exec repositories.SQLExecutor, groupID, player1ID, player2ID int) (*models.GroupMatch, error)
}

type matchLedger struct {
	matchRepo repositories.GroupMatchRepository
}

func NewMatchLedger(matchRepo repositories.GroupMatchRepository) MatchLedger {
	return &matchLedger{matchRepo: matchRepo}
}

func (l *matchLedger) RecordScore(ctx context.Context, exec repositories.SQLExecutor, matchID int, score1, score2 models.Score) (*models.GroupMatch, error) {
	if matchID <= 0 {
		return nil, validationError("match id must be positive, got %d", matchID)
	}
	match, err := l.matchRepo.UpdateScores(ctx, exec, matchID, score1, score2)
	if err != nil {
		return nil, handleRepositoryError(err, "record match score")
	}
	return match, nil
}

func (l *matchLedger) FindMatch(ctx context.Context, exec repositories.SQLExecutor, groupID, player1ID, player2ID int) (*models.GroupMatch, error) {
	if player1ID == player2ID {
		return nil, validationError("a match needs two distinct players, got %d twice", player1ID)
	}
	match, err := l.matchRepo.FindByPair(ctx, exec, groupID, player1ID, player2ID)
	if err != nil {
		return nil, handleRepositoryError(err, "find match by pair")
	}
	return match, nil
}
