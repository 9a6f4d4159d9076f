package postgresql

import (
	"context"
	"fmt"

	"github.com/cmlabs-hris/attendance-engine-go/internal/domain/supervisor"
	"github.com/cmlabs-hris/attendance-engine-go/internal/pkg/database"
	"github.com/jackc/pgx/v5"
)

type supervisorRepository struct {
	db *database.DB
}

// GetAt implements supervisor.EdgeRepository.
func (r *supervisorRepository) GetAt(ctx context.Context, userID string, authorityOrder int) (supervisor.Edge, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT id, user_id, supervisor_id, authority_order, approve, deny, forward, created_at, updated_at
		FROM user_supervisors
		WHERE user_id = $1 AND authority_order = $2
	`

	var e supervisor.Edge
	err := q.QueryRow(ctx, query, userID, authorityOrder).Scan(
		&e.ID, &e.UserID, &e.SupervisorID, &e.AuthorityOrder,
		&e.Approve, &e.Deny, &e.Forward, &e.CreatedAt, &e.UpdatedAt,
	)
	if err != nil {
		if err == pgx.ErrNoRows {
			return supervisor.Edge{}, supervisor.ErrNoSupervisorAtLevel
		}
		return supervisor.Edge{}, fmt.Errorf("failed to get supervisor edge: %w", err)
	}

	return e, nil
}

// GetEdge implements supervisor.EdgeRepository.
func (r *supervisorRepository) GetEdge(ctx context.Context, userID, supervisorID string) (supervisor.Edge, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT id, user_id, supervisor_id, authority_order, approve, deny, forward, created_at, updated_at
		FROM user_supervisors
		WHERE user_id = $1 AND supervisor_id = $2
	`

	var e supervisor.Edge
	err := q.QueryRow(ctx, query, userID, supervisorID).Scan(
		&e.ID, &e.UserID, &e.SupervisorID, &e.AuthorityOrder,
		&e.Approve, &e.Deny, &e.Forward, &e.CreatedAt, &e.UpdatedAt,
	)
	if err != nil {
		if err == pgx.ErrNoRows {
			return supervisor.Edge{}, supervisor.ErrNotSupervisorOf
		}
		return supervisor.Edge{}, fmt.Errorf("failed to get supervisor edge: %w", err)
	}

	return e, nil
}

// ListForUser implements supervisor.EdgeRepository.
func (r *supervisorRepository) ListForUser(ctx context.Context, userID string) ([]supervisor.Edge, error) {
	return r.list(ctx, `
		SELECT id, user_id, supervisor_id, authority_order, approve, deny, forward, created_at, updated_at
		FROM user_supervisors
		WHERE user_id = $1
		ORDER BY authority_order
	`, userID)
}

// ListSubordinates implements supervisor.EdgeRepository.
func (r *supervisorRepository) ListSubordinates(ctx context.Context, supervisorID string) ([]supervisor.Edge, error) {
	return r.list(ctx, `
		SELECT id, user_id, supervisor_id, authority_order, approve, deny, forward, created_at, updated_at
		FROM user_supervisors
		WHERE supervisor_id = $1
		ORDER BY user_id
	`, supervisorID)
}

func (r *supervisorRepository) list(ctx context.Context, query string, arg string) ([]supervisor.Edge, error) {
	q := GetQuerier(ctx, r.db)

	rows, err := q.Query(ctx, query, arg)
	if err != nil {
		return nil, fmt.Errorf("failed to list supervisor edges: %w", err)
	}
	defer rows.Close()

	var edges []supervisor.Edge
	for rows.Next() {
		var e supervisor.Edge
		if err := rows.Scan(
			&e.ID, &e.UserID, &e.SupervisorID, &e.AuthorityOrder,
			&e.Approve, &e.Deny, &e.Forward, &e.CreatedAt, &e.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan supervisor edge: %w", err)
		}
		edges = append(edges, e)
	}

	return edges, rows.Err()
}

func NewSupervisorRepository(db *database.DB) supervisor.EdgeRepository {
	return &supervisorRepository{db: db}
}
