package postgresql_test

import (
	"context"
	"testing"

	"github.com/cmlabs-hris/attendance-engine-go/internal/domain/user"
	"github.com/cmlabs-hris/attendance-engine-go/internal/repository/postgresql"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func setupUserTest(t *testing.T) *TestDatabaseSetup {
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

func createTestOrganization(t *testing.T, ctx context.Context, setup *TestDatabaseSetup) string {
	var orgID string
	err := setup.DB.QueryRow(ctx, `
		INSERT INTO organizations (id, name, created_at, updated_at)
		VALUES (gen_random_uuid(), 'Test Organization', NOW(), NOW())
		RETURNING id
	`).Scan(&orgID)
	require.NoError(t, err)
	return orgID
}

func createTestUser(t *testing.T, ctx context.Context, setup *TestDatabaseSetup, orgID, email string) user.User {
	hashedPassword, _ := bcrypt.GenerateFromPassword([]byte("password123"), bcrypt.DefaultCost)
	hashedStr := string(hashedPassword)

	repo := postgresql.NewUserRepository(setup.DB)
	created, err := repo.Create(ctx, user.User{
		ID:             uuid.New().String(),
		OrganizationID: orgID,
		Email:          email,
		Name:           "Test User",
		PasswordHash:   &hashedStr,
		Role:           user.RoleEmployee,
	})
	require.NoError(t, err)
	return created
}

func TestUserRepository_Create_Success(t *testing.T) {
	setup := setupUserTest(t)

	ctx := context.Background()
	orgID := createTestOrganization(t, ctx, setup)
	userRepo := postgresql.NewUserRepository(setup.DB)

	hashedPassword, _ := bcrypt.GenerateFromPassword([]byte("securepass"), bcrypt.DefaultCost)
	hashedStr := string(hashedPassword)

	created, err := userRepo.Create(ctx, user.User{
		ID:             uuid.New().String(),
		OrganizationID: orgID,
		Email:          "newuser@example.com",
		Name:           "New User",
		PasswordHash:   &hashedStr,
		Role:           user.RoleSupervisor,
	})

	assert.NoError(t, err)
	assert.NotEmpty(t, created.ID)
	assert.Equal(t, "newuser@example.com", created.Email)
	assert.Equal(t, user.RoleSupervisor, created.Role)
	assert.False(t, created.CreatedAt.IsZero())
	assert.False(t, created.UpdatedAt.IsZero())
}

func TestUserRepository_GetByEmail_Success(t *testing.T) {
	setup := setupUserTest(t)

	ctx := context.Background()
	orgID := createTestOrganization(t, ctx, setup)
	userRepo := postgresql.NewUserRepository(setup.DB)

	testUser := createTestUser(t, ctx, setup, orgID, "test@example.com")

	retrieved, err := userRepo.GetByEmail(ctx, "test@example.com")

	assert.NoError(t, err)
	assert.Equal(t, testUser.ID, retrieved.ID)
	assert.Equal(t, testUser.Email, retrieved.Email)
	assert.Equal(t, orgID, retrieved.OrganizationID)
}

func TestUserRepository_GetByEmail_NotFound(t *testing.T) {
	setup := setupUserTest(t)

	ctx := context.Background()
	userRepo := postgresql.NewUserRepository(setup.DB)

	_, err := userRepo.GetByEmail(ctx, "notfound@example.com")

	assert.ErrorIs(t, err, user.ErrUserNotFound)
}

func TestUserRepository_GetByID_Success(t *testing.T) {
	setup := setupUserTest(t)

	ctx := context.Background()
	orgID := createTestOrganization(t, ctx, setup)
	userRepo := postgresql.NewUserRepository(setup.DB)

	testUser := createTestUser(t, ctx, setup, orgID, "byid@example.com")

	retrieved, err := userRepo.GetByID(ctx, testUser.ID)

	assert.NoError(t, err)
	assert.Equal(t, testUser.ID, retrieved.ID)
	assert.Equal(t, testUser.Email, retrieved.Email)
}

func TestUserRepository_ListByOrganization(t *testing.T) {
	setup := setupUserTest(t)

	ctx := context.Background()
	orgID := createTestOrganization(t, ctx, setup)
	otherOrgID := createTestOrganization(t, ctx, setup)
	userRepo := postgresql.NewUserRepository(setup.DB)

	createTestUser(t, ctx, setup, orgID, "one@example.com")
	createTestUser(t, ctx, setup, orgID, "two@example.com")
	createTestUser(t, ctx, setup, otherOrgID, "elsewhere@example.com")

	users, err := userRepo.ListByOrganization(ctx, orgID)

	assert.NoError(t, err)
	assert.Len(t, users, 2)
	for _, u := range users {
		assert.Equal(t, orgID, u.OrganizationID)
	}
}
