package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/Dosada05/league-system/models"
)

var (
	ErrGroupStandingsRequireTx = errors.New("replacing group standings requires a transaction")
	ErrStandingPlayerInvalid   = errors.New("standing player conflict or invalid")
)

type GroupStandingRepository interface {
	// ReplaceForGroup deletes every standing row of the group and inserts
	// standings in their place. exec must be a transaction.
	ReplaceForGroup(ctx context.Context, exec SQLExecutor, groupID int, standings []*models.GroupStanding) error
	ListByGroup(ctx context.Context, exec SQLExecutor, groupID int) ([]*models.GroupStanding, error)
	ListByEvent(ctx context.Context, exec SQLExecutor, eventID int) ([]*models.GroupStanding, error)
}

type postgresGroupStandingRepository struct {
	db *sql.DB
}

func NewPostgresGroupStandingRepository(db *sql.DB) GroupStandingRepository {
	return &postgresGroupStandingRepository{db: db}
}

func (r *postgresGroupStandingRepository) getExecutor(exec SQLExecutor) SQLExecutor {
	if exec != nil {
		return exec
	}
	return r.db
}

func (r *postgresGroupStandingRepository) ReplaceForGroup(ctx context.Context, exec SQLExecutor, groupID int, standings []*models.GroupStanding) error {
	tx, ok := exec.(*sql.Tx)
	if !ok || tx == nil {
		return ErrGroupStandingsRequireTx
	}

	if _, err := tx.ExecContext(ctx, `DELETE FROM league_group_standings WHERE group_id = $1`, groupID); err != nil {
		return fmt.Errorf("failed to clear standings for group %d: %w", groupID, err)
	}
	if len(standings) == 0 {
		return nil
	}

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO league_group_standings
			(group_id, player_id, wins, losses, total_games_won, total_games_lost, points, position, advances_to_elimination, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		RETURNING id`)
	if err != nil {
		return fmt.Errorf("failed to prepare standings insert: %w", err)
	}
	defer stmt.Close()

	now := time.Now().UTC()
	for _, s := range standings {
		s.GroupID = groupID
		s.UpdatedAt = now
		err = stmt.QueryRowContext(ctx,
			s.GroupID, s.PlayerID, s.Wins, s.Losses, s.GamesWon, s.GamesLost,
			s.Points, s.Position, s.AdvancesToElimination, s.UpdatedAt,
		).Scan(&s.ID)
		if err != nil {
			if isConstraintViolation(err, pqForeignKeyViolation, "") || isConstraintViolation(err, pqUniqueViolation, "") {
				return fmt.Errorf("%w: player %d in group %d", ErrStandingPlayerInvalid, s.PlayerID, groupID)
			}
			return fmt.Errorf("failed to insert standing for player %d: %w", s.PlayerID, err)
		}
	}
	return nil
}

const groupStandingColumns = `s.id, s.group_id, s.player_id, s.wins, s.losses, s.total_games_won, s.total_games_lost, s.points, s.position, s.advances_to_elimination, s.updated_at`

func (r *postgresGroupStandingRepository) ListByGroup(ctx context.Context, exec SQLExecutor, groupID int) ([]*models.GroupStanding, error) {
	query := `
		SELECT ` + groupStandingColumns + `
		FROM league_group_standings s
		WHERE s.group_id = $1
		ORDER BY s.position ASC`
	return r.list(ctx, exec, query, groupID)
}

func (r *postgresGroupStandingRepository) ListByEvent(ctx context.Context, exec SQLExecutor, eventID int) ([]*models.GroupStanding, error) {
	query := `
		SELECT ` + groupStandingColumns + `
		FROM league_group_standings s
		JOIN league_groups g ON g.id = s.group_id
		WHERE g.league_event_id = $1
		ORDER BY g.group_number ASC, s.position ASC`
	return r.list(ctx, exec, query, eventID)
}

func (r *postgresGroupStandingRepository) list(ctx context.Context, exec SQLExecutor, query string, arg int) ([]*models.GroupStanding, error) {
	rows, err := r.getExecutor(exec).QueryContext(ctx, query, arg)
	if err != nil {
		return nil, fmt.Errorf("failed to query group standings: %w", err)
	}
	defer rows.Close()

	standings := make([]*models.GroupStanding, 0)
	for rows.Next() {
		var s models.GroupStanding
		if err := rows.Scan(
			&s.ID, &s.GroupID, &s.PlayerID, &s.Wins, &s.Losses, &s.GamesWon, &s.GamesLost,
			&s.Points, &s.Position, &s.AdvancesToElimination, &s.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan group standing row: %w", err)
		}
		standings = append(standings, &s)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error during group standing rows iteration: %w", err)
	}
	return standings, nil
}
