package auth

import (
	"context"
	"os"
	"testing"

	"github.com/cmlabs-hris/attendance-engine-go/internal/domain/auth"
	"github.com/cmlabs-hris/attendance-engine-go/internal/pkg/database"
	"github.com/cmlabs-hris/attendance-engine-go/internal/pkg/jwt"
	"github.com/cmlabs-hris/attendance-engine-go/internal/repository/postgresql"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

const (
	testSecret     = "test-secret-key-for-jwt"
	testAccessExp  = "1h"
	testRefreshExp = "24h"
)

func setupAuthTest(t *testing.T) (*database.DB, auth.AuthService) {
	t.Helper()
	dsn := os.Getenv("TEST_DATABASE_URL")
	if dsn == "" {
		t.Skip("TEST_DATABASE_URL not set; skipping database integration test")
	}

	db, err := database.NewPostgreSQLDB(dsn)
	require.NoError(t, err)
	t.Cleanup(func() {
		ctx := context.Background()
		_, _ = db.Exec(ctx, "TRUNCATE TABLE refresh_tokens CASCADE")
		_, _ = db.Exec(ctx, "TRUNCATE TABLE users CASCADE")
		_, _ = db.Exec(ctx, "TRUNCATE TABLE organizations CASCADE")
		db.Close()
	})

	jwtService := jwt.NewJWTService(testSecret, testAccessExp, testRefreshExp)
	svc := NewAuthService(db, postgresql.NewUserRepository(db), jwtService, postgresql.NewJWTRepository(db))
	return db, svc
}

func seedAuthUser(t *testing.T, db *database.DB, email, password string) string {
	t.Helper()
	ctx := context.Background()

	var orgID string
	err := db.QueryRow(ctx, `
		INSERT INTO organizations (id, name, created_at, updated_at)
		VALUES (gen_random_uuid(), 'Auth Test Org', NOW(), NOW())
		RETURNING id
	`).Scan(&orgID)
	require.NoError(t, err)

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	require.NoError(t, err)

	userID := uuid.New().String()
	_, err = db.Exec(ctx, `
		INSERT INTO users (id, organization_id, email, name, password_hash, role, created_at, updated_at)
		VALUES ($1, $2, $3, 'Auth Tester', $4, 'employee', NOW(), NOW())
	`, userID, orgID, email, string(hash))
	require.NoError(t, err)

	return userID
}

func TestLogin_Success(t *testing.T) {
	db, svc := setupAuthTest(t)
	seedAuthUser(t, db, "login@example.com", "correct-horse")

	tokens, err := svc.Login(context.Background(), auth.LoginRequest{
		Email:    "login@example.com",
		Password: "correct-horse",
	})

	require.NoError(t, err)
	assert.NotEmpty(t, tokens.AccessToken)
	assert.NotEmpty(t, tokens.RefreshToken)
	assert.Equal(t, "Bearer", tokens.TokenType)
	assert.Greater(t, tokens.ExpiresAt, int64(0))
}

func TestLogin_WrongPassword(t *testing.T) {
	db, svc := setupAuthTest(t)
	seedAuthUser(t, db, "login@example.com", "correct-horse")

	_, err := svc.Login(context.Background(), auth.LoginRequest{
		Email:    "login@example.com",
		Password: "battery-staple",
	})

	assert.ErrorIs(t, err, auth.ErrInvalidCredentials)
}

func TestLogin_UnknownEmail(t *testing.T) {
	_, svc := setupAuthTest(t)

	_, err := svc.Login(context.Background(), auth.LoginRequest{
		Email:    "ghost@example.com",
		Password: "whatever",
	})

	assert.ErrorIs(t, err, auth.ErrInvalidCredentials)
}

func TestRefreshToken_RoundTrip(t *testing.T) {
	db, svc := setupAuthTest(t)
	seedAuthUser(t, db, "refresh@example.com", "correct-horse")

	tokens, err := svc.Login(context.Background(), auth.LoginRequest{
		Email:    "refresh@example.com",
		Password: "correct-horse",
	})
	require.NoError(t, err)

	refreshed, err := svc.RefreshToken(context.Background(), auth.RefreshTokenRequest{
		RefreshToken: tokens.RefreshToken,
	})

	require.NoError(t, err)
	assert.NotEmpty(t, refreshed.AccessToken)
	assert.Equal(t, "Bearer", refreshed.TokenType)
}

func TestRefreshToken_RejectsAccessToken(t *testing.T) {
	db, svc := setupAuthTest(t)
	seedAuthUser(t, db, "refresh@example.com", "correct-horse")

	tokens, err := svc.Login(context.Background(), auth.LoginRequest{
		Email:    "refresh@example.com",
		Password: "correct-horse",
	})
	require.NoError(t, err)

	_, err = svc.RefreshToken(context.Background(), auth.RefreshTokenRequest{
		RefreshToken: tokens.AccessToken,
	})

	assert.ErrorIs(t, err, auth.ErrInvalidToken)
}

func TestLogout_RevokesRefreshToken(t *testing.T) {
	db, svc := setupAuthTest(t)
	seedAuthUser(t, db, "logout@example.com", "correct-horse")

	tokens, err := svc.Login(context.Background(), auth.LoginRequest{
		Email:    "logout@example.com",
		Password: "correct-horse",
	})
	require.NoError(t, err)

	require.NoError(t, svc.Logout(context.Background(), tokens.RefreshToken))

	_, err = svc.RefreshToken(context.Background(), auth.RefreshTokenRequest{
		RefreshToken: tokens.RefreshToken,
	})
	assert.ErrorIs(t, err, auth.ErrRefreshTokenRevoked)
}
