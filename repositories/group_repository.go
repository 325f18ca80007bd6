package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/Dosada05/league-system/models"
)

var (
	ErrGroupNotFound        = errors.New("league group not found")
	ErrGroupNumberConflict  = errors.New("league group number already used in this event")
	ErrGroupEventInvalid    = errors.New("league group event conflict or invalid")
	ErrGroupMemberConflict  = errors.New("player is already a member of this group")
	ErrGroupMemberPlayerRef = errors.New("group member references an unknown player")
)

type GroupRepository interface {
	Create(ctx context.Context, exec SQLExecutor, group *models.Group) error
	GetByID(ctx context.Context, exec SQLExecutor, id int) (*models.Group, error)
	// LockByID takes a row lock on the group for the rest of the transaction.
	// All writes to a group's matches and standings go through it first.
	LockByID(ctx context.Context, exec SQLExecutor, id int) (*models.Group, error)
	ListByEvent(ctx context.Context, exec SQLExecutor, eventID int) ([]*models.Group, error)

	AddMember(ctx context.Context, exec SQLExecutor, member *models.GroupMember) error
	ListMembers(ctx context.Context, exec SQLExecutor, groupID int) ([]*models.GroupMember, error)
	ListMembersByEvent(ctx context.Context, exec SQLExecutor, eventID int) ([]*models.GroupMember, error)
}

type postgresGroupRepository struct {
	db *sql.DB
}

func NewPostgresGroupRepository(db *sql.DB) GroupRepository {
	return &postgresGroupRepository{db: db}
}

func (r *postgresGroupRepository) getExecutor(exec SQLExecutor) SQLExecutor {
	if exec != nil {
		return exec
	}
	return r.db
}

const groupColumns = `id, league_event_id, group_number, group_name, group_type, created_at`

func (r *postgresGroupRepository) Create(ctx context.Context, exec SQLExecutor, g *models.Group) error {
	query := `
		INSERT INTO league_groups (league_event_id, group_number, group_name, group_type)
		VALUES ($1, $2, $3, $4)
		RETURNING id, created_at`
	err := r.getExecutor(exec).QueryRowContext(ctx, query,
		g.LeagueEventID, g.GroupNumber, g.Name, g.Type,
	).Scan(&g.ID, &g.CreatedAt)
	if err != nil {
		switch {
		case isConstraintViolation(err, pqUniqueViolation, "league_groups_event_number_key"):
			return ErrGroupNumberConflict
		case isConstraintViolation(err, pqForeignKeyViolation, ""):
			return ErrGroupEventInvalid
		}
		return err
	}
	return nil
}

func (r *postgresGroupRepository) GetByID(ctx context.Context, exec SQLExecutor, id int) (*models.Group, error) {
	query := `SELECT ` + groupColumns + ` FROM league_groups WHERE id = $1`
	return r.getOne(ctx, exec, query, id)
}

func (r *postgresGroupRepository) LockByID(ctx context.Context, exec SQLExecutor, id int) (*models.Group, error) {
	query := `SELECT ` + groupColumns + ` FROM league_groups WHERE id = $1 FOR UPDATE`
	return r.getOne(ctx, exec, query, id)
}

func (r *postgresGroupRepository) getOne(ctx context.Context, exec SQLExecutor, query string, id int) (*models.Group, error) {
	var g models.Group
	err := r.getExecutor(exec).QueryRowContext(ctx, query, id).Scan(
		&g.ID, &g.LeagueEventID, &g.GroupNumber, &g.Name, &g.Type, &g.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrGroupNotFound
		}
		return nil, fmt.Errorf("failed to scan league group %d: %w", id, err)
	}
	return &g, nil
}

func (r *postgresGroupRepository) ListByEvent(ctx context.Context, exec SQLExecutor, eventID int) ([]*models.Group, error) {
	query := `SELECT ` + groupColumns + ` FROM league_groups WHERE league_event_id = $1 ORDER BY group_number ASC, id ASC`
	rows, err := r.getExecutor(exec).QueryContext(ctx, query, eventID)
	if err != nil {
		return nil, fmt.Errorf("failed to query groups for league event %d: %w", eventID, err)
	}
	defer rows.Close()

	groups := make([]*models.Group, 0)
	for rows.Next() {
		var g models.Group
		if err := rows.Scan(&g.ID, &g.LeagueEventID, &g.GroupNumber, &g.Name, &g.Type, &g.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan league group row: %w", err)
		}
		groups = append(groups, &g)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error during league group rows iteration: %w", err)
	}
	return groups, nil
}

func (r *postgresGroupRepository) AddMember(ctx context.Context, exec SQLExecutor, m *models.GroupMember) error {
	query := `
		INSERT INTO league_group_members (group_id, player_id, seed_order)
		VALUES ($1, $2, $3)
		RETURNING id, created_at`
	err := r.getExecutor(exec).QueryRowContext(ctx, query, m.GroupID, m.PlayerID, m.SeedOrder).Scan(&m.ID, &m.CreatedAt)
	if err != nil {
		switch {
		case isConstraintViolation(err, pqUniqueViolation, "league_group_members_group_player_key"):
			return ErrGroupMemberConflict
		case isConstraintViolation(err, pqForeignKeyViolation, "league_group_members_player_id_fkey"):
			return fmt.Errorf("%w: player %d", ErrGroupMemberPlayerRef, m.PlayerID)
		case isConstraintViolation(err, pqForeignKeyViolation, ""):
			return ErrGroupNotFound
		}
		return err
	}
	return nil
}

func (r *postgresGroupRepository) ListMembers(ctx context.Context, exec SQLExecutor, groupID int) ([]*models.GroupMember, error) {
	query := `
		SELECT id, group_id, player_id, seed_order, created_at
		FROM league_group_members
		WHERE group_id = $1
		ORDER BY seed_order ASC, id ASC`
	return r.listMembers(ctx, exec, query, groupID)
}

func (r *postgresGroupRepository) ListMembersByEvent(ctx context.Context, exec SQLExecutor, eventID int) ([]*models.GroupMember, error) {
	query := `
		SELECT m.id, m.group_id, m.player_id, m.seed_order, m.created_at
		FROM league_group_members m
		JOIN league_groups g ON g.id = m.group_id
		WHERE g.league_event_id = $1
		ORDER BY g.group_number ASC, m.seed_order ASC, m.id ASC`
	return r.listMembers(ctx, exec, query, eventID)
}

func (r *postgresGroupRepository) listMembers(ctx context.Context, exec SQLExecutor, query string, arg int) ([]*models.GroupMember, error) {
	rows, err := r.getExecutor(exec).QueryContext(ctx, query, arg)
	if err != nil {
		return nil, fmt.Errorf("failed to query group members: %w", err)
	}
	defer rows.Close()

	members := make([]*models.GroupMember, 0)
	for rows.Next() {
		var m models.GroupMember
		if err := rows.Scan(&m.ID, &m.GroupID, &m.PlayerID, &m.SeedOrder, &m.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan group member row: %w", err)
		}
		members = append(members, &m)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error during group member rows iteration: %w", err)
	}
	return members, nil
}
