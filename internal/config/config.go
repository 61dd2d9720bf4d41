package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

// Config holds all configuration for the application
type Config struct {
	AppMode     string
	Port        string
	Database    DatabaseConfig
	Auth        AuthConfig
	Circulation CirculationConfig
	Notify      NotifyConfig
}

// DatabaseConfig holds database configuration
type DatabaseConfig struct {
	Host     string
	Port     string
	User     string
	Password string
	DBName   string
}

// AuthConfig holds access-token configuration
type AuthConfig struct {
	Secret          string
	AccessTokenMins int
}

// CirculationConfig holds the loan, sanction and sweep policy knobs
type CirculationConfig struct {
	// HomeLoanDays is the length of a take-home loan
	HomeLoanDays int
	// RoomLoanHours is the length of an in-branch loan
	RoomLoanHours int
	// BranchCloseHour clamps in-branch due times; 0 disables the clamp
	BranchCloseHour int
	// SanctionMultiplier is suspension days per day of lateness
	SanctionMultiplier int
	// OverdueSweepMins is the overdue sweep interval
	OverdueSweepMins int
	// ReservationSweepMins is the reservation expiry sweep interval
	ReservationSweepMins int
	// SweepBatchSize bounds how many rows one sweep round touches
	SweepBatchSize int
}

// NotifyConfig holds notification transport configuration
type NotifyConfig struct {
	WebhookURL string
	QueueSize  int
}

// Global config instance
var AppConfig *Config

// Load reads configuration from .env file and environment variables
func Load() (*Config, error) {
	// Load .env file (ignore error if file doesn't exist in production)
	if err := godotenv.Load(); err != nil {
		log.Println("Warning: .env file not found, using environment variables")
	}

	appMode := strings.TrimSpace(getEnv("APP_MODE", "dev"))
	if appMode != "dev" && appMode != "prod" {
		return nil, fmt.Errorf("invalid APP_MODE: '%s' (must be 'dev' or 'prod')", appMode)
	}

	config := &Config{
		AppMode:     appMode,
		Port:        getEnv("PORT", "3000"),
		Database:    loadDatabaseConfig(appMode),
		Auth:        loadAuthConfig(appMode),
		Circulation: loadCirculationConfig(),
		Notify:      loadNotifyConfig(),
	}

	if err := config.Circulation.validate(); err != nil {
		return nil, err
	}

	// Set global config
	AppConfig = config

	log.Printf("✅ Configuration loaded successfully [MODE: %s]", appMode)
	return config, nil
}

// loadDatabaseConfig loads database config based on mode
func loadDatabaseConfig(mode string) DatabaseConfig {
	prefix := "DEV_"
	if mode == "prod" {
		prefix = "PROD_"
	}

	return DatabaseConfig{
		Host:     getEnv(prefix+"DB_HOST", "localhost"),
		Port:     getEnv(prefix+"DB_PORT", "3306"),
		User:     getEnv(prefix+"DB_USER", "root"),
		Password: getEnv(prefix+"DB_PASS", ""),
		DBName:   getEnv(prefix+"DB_NAME", "bibliocirc"),
	}
}

// loadAuthConfig loads token config based on mode
func loadAuthConfig(mode string) AuthConfig {
	prefix := "DEV_"
	if mode == "prod" {
		prefix = "PROD_"
	}

	accessMins := getEnvInt("ACCESS_TOKEN_MINUTES", 60)

	return AuthConfig{
		Secret:          getEnv(prefix+"JWT_SECRET", "default_secret"),
		AccessTokenMins: accessMins,
	}
}

// loadCirculationConfig loads the circulation policy knobs
func loadCirculationConfig() CirculationConfig {
	return CirculationConfig{
		HomeLoanDays:         getEnvInt("HOME_LOAN_DAYS", 7),
		RoomLoanHours:        getEnvInt("ROOM_LOAN_HOURS", 4),
		BranchCloseHour:      getEnvInt("BRANCH_CLOSE_HOUR", 20),
		SanctionMultiplier:   getEnvInt("SANCTION_MULTIPLIER", 2),
		OverdueSweepMins:     getEnvInt("OVERDUE_SWEEP_MINUTES", 30),
		ReservationSweepMins: getEnvInt("RESERVATION_SWEEP_MINUTES", 60),
		SweepBatchSize:       getEnvInt("SWEEP_BATCH_SIZE", 100),
	}
}

func (c CirculationConfig) validate() error {
	if c.HomeLoanDays < 1 {
		return fmt.Errorf("HOME_LOAN_DAYS must be at least 1, got %d", c.HomeLoanDays)
	}
	if c.RoomLoanHours < 1 {
		return fmt.Errorf("ROOM_LOAN_HOURS must be at least 1, got %d", c.RoomLoanHours)
	}
	if c.BranchCloseHour < 0 || c.BranchCloseHour > 23 {
		return fmt.Errorf("BRANCH_CLOSE_HOUR must be 0-23, got %d", c.BranchCloseHour)
	}
	if c.SanctionMultiplier < 1 {
		return fmt.Errorf("SANCTION_MULTIPLIER must be at least 1, got %d", c.SanctionMultiplier)
	}
	if c.OverdueSweepMins < 1 || c.ReservationSweepMins < 1 {
		return fmt.Errorf("sweep intervals must be at least 1 minute")
	}
	if c.SweepBatchSize < 1 {
		return fmt.Errorf("SWEEP_BATCH_SIZE must be at least 1, got %d", c.SweepBatchSize)
	}
	return nil
}

// loadNotifyConfig loads notification transport config
func loadNotifyConfig() NotifyConfig {
	return NotifyConfig{
		WebhookURL: getEnv("NOTIFY_WEBHOOK_URL", ""),
		QueueSize:  getEnvInt("NOTIFY_QUEUE_SIZE", 256),
	}
}

// getEnv gets environment variable with default value
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvInt gets an integer environment variable with default value
func getEnvInt(key string, defaultValue int) int {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	n, err := strconv.Atoi(strings.TrimSpace(value))
	if err != nil {
		log.Printf("Warning: invalid %s=%q, using %d", key, value, defaultValue)
		return defaultValue
	}
	return n
}

// IsDev returns true if running in development mode
func (c *Config) IsDev() bool {
	return c.AppMode == "dev"
}

// IsProd returns true if running in production mode
func (c *Config) IsProd() bool {
	return c.AppMode == "prod"
}

// GetAllowedOrigins returns allowed origins for CORS
func (c *Config) GetAllowedOrigins() string {
	origins := getEnv("ALLOWED_ORIGINS", "")
	if origins == "" && c.IsDev() {
		return "*"
	}
	return origins
}
