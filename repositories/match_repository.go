package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/Dosada05/league-system/models"
)

var (
	ErrGroupMatchNotFound       = errors.New("group match not found")
	ErrGroupMatchPairConflict   = errors.New("group match for this pair already exists")
	ErrGroupMatchGroupInvalid   = errors.New("group match group conflict or invalid")
	ErrGroupMatchPlayersInvalid = errors.New("group match players are invalid")
	ErrGroupMatchScoreInvalid   = errors.New("group match score violates constraints")
)

// GroupMatchRepository is the match ledger's storage. Pairs are unique per
// group regardless of which player was listed first.
type GroupMatchRepository interface {
	Create(ctx context.Context, exec SQLExecutor, match *models.GroupMatch) error
	GetByID(ctx context.Context, exec SQLExecutor, id int) (*models.GroupMatch, error)
	// FindByPair looks a match up by its two players in either order.
	FindByPair(ctx context.Context, exec SQLExecutor, groupID, playerA, playerB int) (*models.GroupMatch, error)
	UpdateScores(ctx context.Context, exec SQLExecutor, id int, score1, score2 models.Score) (*models.GroupMatch, error)
	ListByGroup(ctx context.Context, exec SQLExecutor, groupID int) ([]*models.GroupMatch, error)
	ListByEvent(ctx context.Context, exec SQLExecutor, eventID int) ([]*models.GroupMatch, error)
}

type postgresGroupMatchRepository struct {
	db *sql.DB
}

func NewPostgresGroupMatchRepository(db *sql.DB) GroupMatchRepository {
	return &postgresGroupMatchRepository{db: db}
}

func (r *postgresGroupMatchRepository) getExecutor(exec SQLExecutor) SQLExecutor {
	if exec != nil {
		return exec
	}
	return r.db
}

const groupMatchColumns = `id, group_id, player1_id, player2_id, player1_score, player2_score, completed, match_order, created_at, updated_at`

func (r *postgresGroupMatchRepository) Create(ctx context.Context, exec SQLExecutor, m *models.GroupMatch) error {
	query := `
		INSERT INTO league_group_matches
			(group_id, player1_id, player2_id, player1_score, player2_score, match_order)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, completed, created_at, updated_at`

	err := r.getExecutor(exec).QueryRowContext(ctx, query,
		m.GroupID, m.Player1ID, m.Player2ID, m.Player1Score.Ptr(), m.Player2Score.Ptr(), m.MatchOrder,
	).Scan(&m.ID, &m.Completed, &m.CreatedAt, &m.UpdatedAt)
	return r.handleGroupMatchError(err)
}

func (r *postgresGroupMatchRepository) GetByID(ctx context.Context, exec SQLExecutor, id int) (*models.GroupMatch, error) {
	query := `SELECT ` + groupMatchColumns + ` FROM league_group_matches WHERE id = $1`
	m, err := r.scanGroupMatch(r.getExecutor(exec).QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrGroupMatchNotFound
		}
		return nil, fmt.Errorf("failed to scan group match by id %d: %w", id, err)
	}
	return m, nil
}

func (r *postgresGroupMatchRepository) FindByPair(ctx context.Context, exec SQLExecutor, groupID, playerA, playerB int) (*models.GroupMatch, error) {
	key := models.NewPairKey(playerA, playerB)
	query := `
		SELECT ` + groupMatchColumns + `
		FROM league_group_matches
		WHERE group_id = $1 AND player_low_id = $2 AND player_high_id = $3`
	m, err := r.scanGroupMatch(r.getExecutor(exec).QueryRowContext(ctx, query, groupID, key.Low, key.High))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrGroupMatchNotFound
		}
		return nil, fmt.Errorf("failed to scan group match for pair %d/%d in group %d: %w", playerA, playerB, groupID, err)
	}
	return m, nil
}

func (r *postgresGroupMatchRepository) UpdateScores(ctx context.Context, exec SQLExecutor, id int, score1, score2 models.Score) (*models.GroupMatch, error) {
	query := `
		UPDATE league_group_matches
		SET player1_score = $1, player2_score = $2, updated_at = NOW()
		WHERE id = $3
		RETURNING ` + groupMatchColumns
	m, err := r.scanGroupMatch(r.getExecutor(exec).QueryRowContext(ctx, query, score1.Ptr(), score2.Ptr(), id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrGroupMatchNotFound
		}
		return nil, r.handleGroupMatchError(err)
	}
	return m, nil
}

func (r *postgresGroupMatchRepository) ListByGroup(ctx context.Context, exec SQLExecutor, groupID int) ([]*models.GroupMatch, error) {
	query := `
		SELECT ` + groupMatchColumns + `
		FROM league_group_matches
		WHERE group_id = $1
		ORDER BY match_order ASC, id ASC`
	return r.list(ctx, exec, query, groupID)
}

func (r *postgresGroupMatchRepository) ListByEvent(ctx context.Context, exec SQLExecutor, eventID int) ([]*models.GroupMatch, error) {
	query := `
		SELECT m.id, m.group_id, m.player1_id, m.player2_id, m.player1_score, m.player2_score,
		       m.completed, m.match_order, m.created_at, m.updated_at
		FROM league_group_matches m
		JOIN league_groups g ON g.id = m.group_id
		WHERE g.league_event_id = $1
		ORDER BY g.group_number ASC, m.match_order ASC, m.id ASC`
	return r.list(ctx, exec, query, eventID)
}

func (r *postgresGroupMatchRepository) list(ctx context.Context, exec SQLExecutor, query string, arg int) ([]*models.GroupMatch, error) {
	rows, err := r.getExecutor(exec).QueryContext(ctx, query, arg)
	if err != nil {
		return nil, fmt.Errorf("failed to query group matches: %w", err)
	}
	defer rows.Close()

	matches := make([]*models.GroupMatch, 0)
	for rows.Next() {
		m, scanErr := r.scanGroupMatch(rows)
		if scanErr != nil {
			return nil, fmt.Errorf("failed to scan group match row: %w", scanErr)
		}
		matches = append(matches, m)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error during group match rows iteration: %w", err)
	}
	return matches, nil
}

func (r *postgresGroupMatchRepository) scanGroupMatch(scanner rowScanner) (*models.GroupMatch, error) {
	var m models.GroupMatch
	var s1, s2 sql.NullInt64
	err := scanner.Scan(
		&m.ID, &m.GroupID, &m.Player1ID, &m.Player2ID, &s1, &s2,
		&m.Completed, &m.MatchOrder, &m.CreatedAt, &m.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	m.Player1Score = nullIntToScore(s1)
	m.Player2Score = nullIntToScore(s2)
	return &m, nil
}

func nullIntToScore(v sql.NullInt64) models.Score {
	if !v.Valid {
		return models.NoScore()
	}
	return models.ScoreOf(int(v.Int64))
}

func (r *postgresGroupMatchRepository) handleGroupMatchError(err error) error {
	if err == nil {
		return nil
	}
	switch {
	case isConstraintViolation(err, pqUniqueViolation, "league_group_matches_group_pair_key"):
		return ErrGroupMatchPairConflict
	case isConstraintViolation(err, pqForeignKeyViolation, "league_group_matches_group_id_fkey"):
		return ErrGroupMatchGroupInvalid
	case isConstraintViolation(err, pqForeignKeyViolation, ""),
		isConstraintViolation(err, pqCheckViolation, "league_group_matches_distinct_players"):
		return ErrGroupMatchPlayersInvalid
	case isConstraintViolation(err, pqCheckViolation, ""):
		return ErrGroupMatchScoreInvalid
	}
	return err
}
