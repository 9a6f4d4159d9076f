package postgresql

import (
	"context"
	"fmt"
	"time"

	"github.com/cmlabs-hris/attendance-engine-go/internal/domain/organization"
	"github.com/cmlabs-hris/attendance-engine-go/internal/pkg/database"
	"github.com/jackc/pgx/v5"
)

type organizationRepository struct {
	db *database.DB
}

// GetByID implements organization.OrganizationRepository.
func (r *organizationRepository) GetByID(ctx context.Context, id string) (organization.Organization, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT id, name, created_at, updated_at
		FROM organizations
		WHERE id = $1
	`

	var org organization.Organization
	err := q.QueryRow(ctx, query, id).Scan(&org.ID, &org.Name, &org.CreatedAt, &org.UpdatedAt)
	if err != nil {
		if err == pgx.ErrNoRows {
			return organization.Organization{}, organization.ErrOrganizationNotFound
		}
		return organization.Organization{}, fmt.Errorf("failed to get organization: %w", err)
	}

	return org, nil
}

// IsHoliday implements organization.OrganizationRepository. A holiday
// applies to a user when it belongs to their organization.
func (r *organizationRepository) IsHoliday(ctx context.Context, userID string, date time.Time) (bool, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT EXISTS(
			SELECT 1
			FROM holidays h
			JOIN users u ON u.organization_id = h.organization_id
			WHERE u.id = $1 AND h.date = $2
		)
	`

	var exists bool
	if err := q.QueryRow(ctx, query, userID, date).Scan(&exists); err != nil {
		return false, fmt.Errorf("failed to check holiday: %w", err)
	}

	return exists, nil
}

// GetFiscalYearFor implements organization.OrganizationRepository.
func (r *organizationRepository) GetFiscalYearFor(ctx context.Context, organizationID string, date time.Time) (organization.FiscalYear, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT id, organization_id, name, start_at, end_at
		FROM fiscal_years
		WHERE organization_id = $1 AND start_at <= $2 AND end_at >= $2
	`

	var fy organization.FiscalYear
	err := q.QueryRow(ctx, query, organizationID, date).Scan(
		&fy.ID, &fy.OrganizationID, &fy.Name, &fy.StartAt, &fy.EndAt,
	)
	if err != nil {
		if err == pgx.ErrNoRows {
			return organization.FiscalYear{}, organization.ErrNoFiscalYear
		}
		return organization.FiscalYear{}, fmt.Errorf("failed to get fiscal year: %w", err)
	}

	monthsQuery := `
		SELECT id, fiscal_year_id, month_index, start_at, end_at
		FROM fiscal_months
		WHERE fiscal_year_id = $1
		ORDER BY month_index
	`

	rows, err := q.Query(ctx, monthsQuery, fy.ID)
	if err != nil {
		return organization.FiscalYear{}, fmt.Errorf("failed to list fiscal months: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var m organization.FiscalMonth
		if err := rows.Scan(&m.ID, &m.FiscalYearID, &m.Index, &m.StartAt, &m.EndAt); err != nil {
			return organization.FiscalYear{}, fmt.Errorf("failed to scan fiscal month: %w", err)
		}
		fy.Months = append(fy.Months, m)
	}

	return fy, rows.Err()
}

func NewOrganizationRepository(db *database.DB) organization.OrganizationRepository {
	return &organizationRepository{db: db}
}
