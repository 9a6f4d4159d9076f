package organization

import (
	"context"
	"time"
)

type OrganizationRepository interface {
	GetByID(ctx context.Context, id string) (Organization, error)

	// IsHoliday reports whether date is a holiday applicable to the user.
	IsHoliday(ctx context.Context, userID string, date time.Time) (bool, error)

	// GetFiscalYearFor returns the fiscal year (with months) covering
	// date for the organization, or ErrNoFiscalYear.
	GetFiscalYearFor(ctx context.Context, organizationID string, date time.Time) (FiscalYear, error)
}
