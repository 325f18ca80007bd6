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
	ErrLeagueEventNotFound        = errors.New("league event not found")
	ErrLeagueEventConflict        = errors.New("league event already exists for this instance and date")
	ErrLeagueEventInstanceInvalid = errors.New("league event instance conflict or invalid")
)

const leagueEventInstanceDateKey = "league_events_instance_date_key"

type LeagueEventRepository interface {
	Create(ctx context.Context, exec SQLExecutor, event *models.LeagueEvent) error
	FindOrCreate(ctx context.Context, exec SQLExecutor, event *models.LeagueEvent) error
	GetByID(ctx context.Context, exec SQLExecutor, id int) (*models.LeagueEvent, error)
	Touch(ctx context.Context, exec SQLExecutor, id int) error
}

type postgresLeagueEventRepository struct {
	db *sql.DB
}

func NewPostgresLeagueEventRepository(db *sql.DB) LeagueEventRepository {
	return &postgresLeagueEventRepository{db: db}
}

func (r *postgresLeagueEventRepository) getExecutor(exec SQLExecutor) SQLExecutor {
	if exec != nil {
		return exec
	}
	return r.db
}

const leagueEventColumns = `id, league_instance_id, event_date, event_name, grouping_method, total_groups, status, created_at, updated_at`

func (r *postgresLeagueEventRepository) Create(ctx context.Context, exec SQLExecutor, e *models.LeagueEvent) error {
	query := `
		INSERT INTO league_events
			(league_instance_id, event_date, event_name, grouping_method, total_groups, status)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, created_at, updated_at`

	err := r.getExecutor(exec).QueryRowContext(ctx, query,
		e.LeagueInstanceID, e.EventDate, e.Name, e.GroupingMethod, e.TotalGroups, e.Status,
	).Scan(&e.ID, &e.CreatedAt, &e.UpdatedAt)
	return r.handleLeagueEventError(err)
}

// FindOrCreate resolves the event for (instance, date). An existing row
// wins; the passed name, method and group count are only used when the row
// is new. e is overwritten with the stored row.
// Существующая строка не блокируется: события блокируются только после
// групп (Touch), иначе автосохранение и UpdateMatch берут блокировки
// в разном порядке.
func (r *postgresLeagueEventRepository) FindOrCreate(ctx context.Context, exec SQLExecutor, e *models.LeagueEvent) error {
	ex := r.getExecutor(exec)
	insert := `
		INSERT INTO league_events
			(league_instance_id, event_date, event_name, grouping_method, total_groups, status)
		VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT ON CONSTRAINT ` + leagueEventInstanceDateKey + ` DO NOTHING
		RETURNING ` + leagueEventColumns

	stored, err := r.scanLeagueEvent(ex.QueryRowContext(ctx, insert,
		e.LeagueInstanceID, e.EventDate, e.Name, e.GroupingMethod, e.TotalGroups, e.Status,
	))
	if errors.Is(err, sql.ErrNoRows) {
		query := `SELECT ` + leagueEventColumns + `
			FROM league_events WHERE league_instance_id = $1 AND event_date = $2`
		stored, err = r.scanLeagueEvent(ex.QueryRowContext(ctx, query, e.LeagueInstanceID, e.EventDate))
		if errors.Is(err, sql.ErrNoRows) {
			return ErrLeagueEventNotFound
		}
	}
	if err != nil {
		return r.handleLeagueEventError(err)
	}
	*e = *stored
	return nil
}

func (r *postgresLeagueEventRepository) GetByID(ctx context.Context, exec SQLExecutor, id int) (*models.LeagueEvent, error) {
	query := `SELECT ` + leagueEventColumns + ` FROM league_events WHERE id = $1`
	e, err := r.scanLeagueEvent(r.getExecutor(exec).QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrLeagueEventNotFound
		}
		return nil, fmt.Errorf("failed to scan league event by id %d: %w", id, err)
	}
	return e, nil
}

func (r *postgresLeagueEventRepository) Touch(ctx context.Context, exec SQLExecutor, id int) error {
	result, err := r.getExecutor(exec).ExecContext(ctx,
		`UPDATE league_events SET updated_at = $1 WHERE id = $2`, time.Now().UTC(), id)
	if err != nil {
		return err
	}
	return checkAffectedRows(result, ErrLeagueEventNotFound)
}

func (r *postgresLeagueEventRepository) scanLeagueEvent(scanner rowScanner) (*models.LeagueEvent, error) {
	var e models.LeagueEvent
	err := scanner.Scan(
		&e.ID, &e.LeagueInstanceID, &e.EventDate, &e.Name, &e.GroupingMethod,
		&e.TotalGroups, &e.Status, &e.CreatedAt, &e.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &e, nil
}

func (r *postgresLeagueEventRepository) handleLeagueEventError(err error) error {
	if err == nil {
		return nil
	}
	switch {
	case isConstraintViolation(err, pqUniqueViolation, leagueEventInstanceDateKey):
		return ErrLeagueEventConflict
	case isConstraintViolation(err, pqForeignKeyViolation, "league_events_league_instance_id_fkey"):
		return ErrLeagueEventInstanceInvalid
	}
	return err
}
