package postgresql_test

import (
	"context"
	"testing"
	"time"

	"github.com/cmlabs-hris/attendance-engine-go/internal/repository/postgresql"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupCreditHourTest(t *testing.T) *TestDatabaseSetup {
	SkipWithoutDatabase(t)

	setup, err := NewTestDatabase()
	require.NoError(t, err)
	t.Cleanup(func() {
		_ = setup.TruncateAllTables(context.Background())
		setup.Close()
	})
	require.NoError(t, setup.TruncateAllTables(context.Background()))
	return setup
}

func seedCreditRequest(t *testing.T, ctx context.Context, setup *TestDatabaseSetup, senderID string, date time.Time, duration time.Duration, status string) string {
	id := uuid.New().String()
	_, err := setup.DB.Exec(ctx, `
		INSERT INTO credit_hour_requests (
			id, sender_id, recipient_id, status, lifecycle, date,
			duration_seconds, remarks, grant_status
		) VALUES ($1, $2, $2, $3, 'Active', $4, $5, '', 'Not Added')
	`, id, senderID, status, date, int64(duration.Seconds()))
	require.NoError(t, err)
	return id
}

func attachCreditEntry(t *testing.T, ctx context.Context, setup *TestDatabaseSetup, requestID string, earned, consumed time.Duration) {
	entryID := uuid.New().String()
	_, err := setup.DB.Exec(ctx, `
		INSERT INTO credit_hour_entries (id, request_id, earned_seconds, consumed_seconds, status)
		VALUES ($1, $2, $3, $4, 'Approved')
	`, entryID, requestID, int64(earned.Seconds()), int64(consumed.Seconds()))
	require.NoError(t, err)

	_, err = setup.DB.Exec(ctx, `
		UPDATE credit_hour_requests SET credit_entry_id = $1 WHERE id = $2
	`, entryID, requestID)
	require.NoError(t, err)
}

func TestCreditHourRepository_SumWindow_EarnedSubstitutesRequested(t *testing.T) {
	setup := setupCreditHourTest(t)
	ctx := context.Background()

	orgID := createTestOrganization(t, ctx, setup)
	sender := createTestUser(t, ctx, setup, orgID, "sumwindow@example.com")
	weekStart := time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC)

	// granted but entirely unspent: counts at its earned value, not the
	// requested one
	granted := seedCreditRequest(t, ctx, setup, sender.ID, weekStart, 2*time.Hour, "Approved")
	attachCreditEntry(t, ctx, setup, granted, 90*time.Minute, 0)

	// still pending: counts at the requested duration
	seedCreditRequest(t, ctx, setup, sender.ID, weekStart.AddDate(0, 0, 1), time.Hour, "Requested")

	// declined requests never count
	seedCreditRequest(t, ctx, setup, sender.ID, weekStart.AddDate(0, 0, 2), 3*time.Hour, "Declined")

	repo := postgresql.NewCreditHourRepository(setup.DB)
	total, err := repo.SumWindow(ctx, sender.ID, weekStart, weekStart.AddDate(0, 0, 6), "")
	require.NoError(t, err)

	assert.Equal(t, 90*time.Minute+time.Hour, total)
}
