package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Database   DatabaseConfig
	JWT        JWTConfig
	App        AppConfig
	Attendance AttendanceConfig
}

type DatabaseConfig struct {
	Host     string
	Port     int
	User     string
	Password string
	Name     string
	SSLMode  string
}

// JWTConfig holds JWT configuration
type JWTConfig struct {
	Secret            string
	RefreshExpiration string
	AccessExpiration  string
}

// AppConfig holds application configuration
type AppConfig struct {
	Port        int
	Env         string
	LogLevel    string
	FrontendURL string
}

// AttendanceConfig holds the engine-level policy knobs that are
// deployment-wide rather than per-organization.
type AttendanceConfig struct {
	// WeekStartDay anchors weekly limit windows, 1=Sunday .. 7=Saturday.
	WeekStartDay int
	// OffdayPunchoutWait is how long after the previous shift's end a
	// punch on an off-day still belongs to the previous day.
	OffdayPunchoutWait time.Duration
	// RequirePreApprovalConfirmation makes pre-approved overtime wait
	// for CONFIRMED instead of APPROVED before generating entries.
	RequirePreApprovalConfirmation bool
	// UnpaidBreakCategories lists break remark categories whose spans
	// are subtracted from worked hours.
	UnpaidBreakCategories []string
}

func Load() (*Config, error) {
	// .env is optional outside local development.
	_ = godotenv.Load()

	config := &Config{}

	// Database configuration
	dbPort, err := strconv.Atoi(getEnv("DB_PORT", "5432"))
	if err != nil {
		return nil, fmt.Errorf("invalid DB_PORT: %w", err)
	}

	config.Database = DatabaseConfig{
		Host:     getEnv("DB_HOST", "localhost"),
		Port:     dbPort,
		User:     getEnv("DB_USER", "postgres"),
		Password: getEnv("DB_PASSWORD", ""),
		Name:     getEnv("DB_NAME", "attendance-engine"),
		SSLMode:  getEnv("DB_SSL_MODE", "disable"),
	}

	// Application configuration
	appPort, err := strconv.Atoi(getEnv("APP_PORT", "8080"))
	if err != nil {
		return nil, fmt.Errorf("invalid APP_PORT: %w", err)
	}

	config.App = AppConfig{
		Port:        appPort,
		Env:         getEnv("APP_ENV", "development"),
		LogLevel:    getEnv("LOG_LEVEL", "info"),
		FrontendURL: getEnv("FRONTEND_URL", "http://localhost:3000"),
	}

	// JWT configuration
	config.JWT = JWTConfig{
		Secret:            getEnv("JWT_SECRET_KEY", ""),
		RefreshExpiration: getEnv("JWT_REFRESH_EXPIRATION_TIME", "168h"),
		AccessExpiration:  getEnv("JWT_ACCESS_EXPIRATION_TIME", "1h"),
	}

	// Attendance engine configuration
	weekStartDay, err := strconv.Atoi(getEnv("WEEK_START_DAY", "1"))
	if err != nil {
		return nil, fmt.Errorf("invalid WEEK_START_DAY: %w", err)
	}
	offDayWait, err := time.ParseDuration(getEnv("OFFDAY_PUNCHOUT_WAIT", "3h"))
	if err != nil {
		return nil, fmt.Errorf("invalid OFFDAY_PUNCHOUT_WAIT: %w", err)
	}
	config.Attendance = AttendanceConfig{
		WeekStartDay:                   weekStartDay,
		OffdayPunchoutWait:             offDayWait,
		RequirePreApprovalConfirmation: getEnv("REQUIRE_PRE_APPROVAL_CONFIRMATION", "false") == "true",
		UnpaidBreakCategories:          getEnvSlice("UNPAID_BREAK_CATEGORIES"),
	}

	// Validate required fields
	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return config, nil
}

// Validate validates the configuration
func (c *Config) Validate() error {
	if c.Database.Password == "" {
		return fmt.Errorf("DB_PASSWORD is required")
	}
	if c.JWT.Secret == "" {
		return fmt.Errorf("JWT_SECRET_KEY is required")
	}
	if c.Attendance.WeekStartDay < 1 || c.Attendance.WeekStartDay > 7 {
		return fmt.Errorf("WEEK_START_DAY must be between 1 and 7")
	}
	return nil
}

// DatabaseURL returns the PostgreSQL connection string
func (c *Config) DatabaseURL() string {
	return fmt.Sprintf("postgres://%s:%s@%s:%d/%s?sslmode=%s",
		c.Database.User,
		c.Database.Password,
		c.Database.Host,
		c.Database.Port,
		c.Database.Name,
		c.Database.SSLMode,
	)
}

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func getEnvSlice(env string) []string {
	value := getEnv(env, "")
	if value == "" {
		return []string{}
	}
	var result []string = strings.Split(value, ",")
	return result
}
