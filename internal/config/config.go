package config

import (
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Database DatabaseConfig
	JWT      JWTConfig
	App      AppConfig
	Payslip  PayslipConfig
	Payroll  PayrollConfig
}

type DatabaseConfig struct {
	Host           string
	Port           int
	User           string
	Password       string
	Name           string
	SSLMode        string
	MaxConns       int32
	MinConns       int32
	MigrateOnStart bool
}

// JWTConfig holds JWT configuration
type JWTConfig struct {
	Secret    string
	AccessTTL time.Duration
}

// AppConfig holds application configuration
type AppConfig struct {
	Port               int
	Env                string
	LogLevel           string
	CORSAllowedOrigins []string
}

// PayslipConfig holds the static labels printed on generated payslips
type PayslipConfig struct {
	CompanyName string
	Currency    string
}

// PayrollConfig holds background payroll settings. AutoRunDay 0 disables
// the monthly auto run.
type PayrollConfig struct {
	AutoRunDay int
}

func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		slog.Warn("no .env file loaded, using process environment", slog.String("error", err.Error()))
	}

	config := &Config{}

	// Database configuration
	dbPort, err := strconv.Atoi(getEnv("DB_PORT", "5432"))
	if err != nil {
		return nil, fmt.Errorf("invalid DB_PORT: %w", err)
	}
	maxConns, err := strconv.Atoi(getEnv("DB_MAX_CONNS", "25"))
	if err != nil {
		return nil, fmt.Errorf("invalid DB_MAX_CONNS: %w", err)
	}
	minConns, err := strconv.Atoi(getEnv("DB_MIN_CONNS", "5"))
	if err != nil {
		return nil, fmt.Errorf("invalid DB_MIN_CONNS: %w", err)
	}
	migrateOnStart, err := strconv.ParseBool(getEnv("MIGRATE_ON_START", "true"))
	if err != nil {
		return nil, fmt.Errorf("invalid MIGRATE_ON_START: %w", err)
	}

	config.Database = DatabaseConfig{
		Host:           getEnv("DB_HOST", "localhost"),
		Port:           dbPort,
		User:           getEnv("DB_USER", "postgres"),
		Password:       getEnv("DB_PASSWORD", ""),
		Name:           getEnv("DB_NAME", "cmlabs-hris-payroll"),
		SSLMode:        getEnv("DB_SSL_MODE", "disable"),
		MaxConns:       int32(maxConns),
		MinConns:       int32(minConns),
		MigrateOnStart: migrateOnStart,
	}

	// Application configuration
	appPort, err := strconv.Atoi(getEnv("APP_PORT", "8080"))
	if err != nil {
		return nil, fmt.Errorf("invalid APP_PORT: %w", err)
	}

	config.App = AppConfig{
		Port:               appPort,
		Env:                getEnv("APP_ENV", "development"),
		LogLevel:           getEnv("LOG_LEVEL", "info"),
		CORSAllowedOrigins: getEnvSlice("CORS_ALLOWED_ORIGINS", "http://localhost:3000"),
	}

	accessTTL, err := time.ParseDuration(getEnv("JWT_ACCESS_TOKEN_TTL", "1h"))
	if err != nil {
		return nil, fmt.Errorf("invalid JWT_ACCESS_TOKEN_TTL: %w", err)
	}

	config.JWT = JWTConfig{
		Secret:    getEnv("JWT_SECRET_KEY", ""),
		AccessTTL: accessTTL,
	}

	config.Payslip = PayslipConfig{
		CompanyName: getEnv("PAYSLIP_COMPANY_NAME", "CMLabs HRIS"),
		Currency:    getEnv("PAYSLIP_CURRENCY", "$"),
	}

	autoRunDay, err := strconv.Atoi(getEnv("PAYROLL_AUTO_RUN_DAY", "0"))
	if err != nil {
		return nil, fmt.Errorf("invalid PAYROLL_AUTO_RUN_DAY: %w", err)
	}
	config.Payroll = PayrollConfig{AutoRunDay: autoRunDay}

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
	if c.Database.MinConns > c.Database.MaxConns {
		return fmt.Errorf("DB_MIN_CONNS must not exceed DB_MAX_CONNS")
	}
	if c.Payroll.AutoRunDay < 0 || c.Payroll.AutoRunDay > 28 {
		return fmt.Errorf("PAYROLL_AUTO_RUN_DAY must be between 0 and 28")
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

func getEnvSlice(env string, fallback string) []string {
	value := getEnv(env, fallback)
	if value == "" {
		return []string{}
	}
	var result []string
	for _, part := range strings.Split(value, ",") {
		if part = strings.TrimSpace(part); part != "" {
			result = append(result, part)
		}
	}
	return result
}
