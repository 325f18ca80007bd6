package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/Dosada05/league-system/models"
	"github.com/lib/pq"
)

var ErrLeagueInstanceNotFound = errors.New("league instance not found")

// LeagueInstanceRepository is read-only: instances and their registrations
// are written by the registration side of the application.
type LeagueInstanceRepository interface {
	GetByID(ctx context.Context, exec SQLExecutor, id int) (*models.LeagueInstance, error)
	GetMostRecent(ctx context.Context, exec SQLExecutor) (*models.LeagueInstance, error)
	ListRegistrantsByIDs(ctx context.Context, exec SQLExecutor, ids []int) ([]*models.Registrant, error)
}

type postgresLeagueInstanceRepository struct {
	db *sql.DB
}

func NewPostgresLeagueInstanceRepository(db *sql.DB) LeagueInstanceRepository {
	return &postgresLeagueInstanceRepository{db: db}
}

func (r *postgresLeagueInstanceRepository) getExecutor(exec SQLExecutor) SQLExecutor {
	if exec != nil {
		return exec
	}
	return r.db
}

const leagueInstanceColumns = `id, template_id, instance_date, current_participants, status, created_at`

func (r *postgresLeagueInstanceRepository) GetByID(ctx context.Context, exec SQLExecutor, id int) (*models.LeagueInstance, error) {
	query := `SELECT ` + leagueInstanceColumns + ` FROM league_instances WHERE id = $1`
	return r.getOne(ctx, exec, query, id)
}

// GetMostRecent returns the most recently created instance.
func (r *postgresLeagueInstanceRepository) GetMostRecent(ctx context.Context, exec SQLExecutor) (*models.LeagueInstance, error) {
	query := `SELECT ` + leagueInstanceColumns + ` FROM league_instances ORDER BY created_at DESC, id DESC LIMIT 1`
	return r.getOne(ctx, exec, query)
}

func (r *postgresLeagueInstanceRepository) getOne(ctx context.Context, exec SQLExecutor, query string, args ...interface{}) (*models.LeagueInstance, error) {
	var li models.LeagueInstance
	err := r.getExecutor(exec).QueryRowContext(ctx, query, args...).Scan(
		&li.ID, &li.TemplateID, &li.InstanceDate, &li.CurrentParticipants, &li.Status, &li.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrLeagueInstanceNotFound
		}
		return nil, fmt.Errorf("failed to scan league instance: %w", err)
	}
	return &li, nil
}

func (r *postgresLeagueInstanceRepository) ListRegistrantsByIDs(ctx context.Context, exec SQLExecutor, ids []int) ([]*models.Registrant, error) {
	if len(ids) == 0 {
		return []*models.Registrant{}, nil
	}
	ids64 := make([]int64, len(ids))
	for i, id := range ids {
		ids64[i] = int64(id)
	}

	query := `
		SELECT id, league_instance_id, first_name, last_name, email, phone, skill_level,
		       emergency_contact_name, emergency_contact_phone, created_at
		FROM league_registrations
		WHERE id = ANY($1)
		ORDER BY id ASC`
	rows, err := r.getExecutor(exec).QueryContext(ctx, query, pq.Array(ids64))
	if err != nil {
		return nil, fmt.Errorf("failed to query registrants: %w", err)
	}
	defer rows.Close()

	registrants := make([]*models.Registrant, 0, len(ids))
	for rows.Next() {
		var p models.Registrant
		if err := rows.Scan(
			&p.ID, &p.LeagueInstanceID, &p.FirstName, &p.LastName, &p.Email, &p.Phone, &p.SkillLevel,
			&p.EmergencyContactName, &p.EmergencyContactPhone, &p.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan registrant row: %w", err)
		}
		registrants = append(registrants, &p)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error during registrant rows iteration: %w", err)
	}
	return registrants, nil
}
