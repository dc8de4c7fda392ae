package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"regexp"
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
	Network    NetworkConfig
	Schedule   ScheduleConfig
	RateLimit  RateLimitConfig
	Absence    AbsenceSweepConfig
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
	Secret string
}

// AppConfig holds application configuration
type AppConfig struct {
	Port               int
	Env                string
	LogLevel           string
	Timezone           string
	CORSAllowedOrigins []string
}

// AttendanceConfig controls when check-in and check-out are admitted.
// Empty WindowStart and WindowEnd leave the window open all day.
type AttendanceConfig struct {
	WindowStart       string
	WindowEnd         string
	ClientTimeMaxSkew time.Duration
}

type NetworkConfig struct {
	FailOpen           bool
	ValidationDisabled bool
	AllowLoopback      bool
	RequirePrivate     bool
	TrustedHeaders     []string
}

// ScheduleConfig is the fallback work schedule for employees without one.
type ScheduleConfig struct {
	DefaultCheckIn      string
	DefaultCheckOut     string
	DefaultGraceMinutes int
}

type RateLimitConfig struct {
	RPS   float64
	Burst int
}

// AbsenceSweepConfig controls the job that marks the previous day's no-shows absent.
type AbsenceSweepConfig struct {
	Enabled      bool
	SkipWeekends bool
	Interval     time.Duration
}

func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("error loading .env file: %w", err)
	}

	config := &Config{}

	db, err := loadDatabase()
	if err != nil {
		return nil, err
	}
	config.Database = db

	// Application configuration
	appPort, err := strconv.Atoi(getEnv("APP_PORT", "8080"))
	if err != nil {
		return nil, fmt.Errorf("invalid APP_PORT: %w", err)
	}

	config.App = AppConfig{
		Port:               appPort,
		Env:                getEnv("APP_ENV", "development"),
		LogLevel:           getEnv("LOG_LEVEL", "info"),
		Timezone:           getEnv("APP_TIMEZONE", "UTC"),
		CORSAllowedOrigins: getEnvSlice("CORS_ALLOWED_ORIGINS", "http://localhost:3000"),
	}

	config.JWT = JWTConfig{
		Secret: getEnv("JWT_SECRET_KEY", ""),
	}

	skew, err := time.ParseDuration(getEnv("CLIENT_TIME_MAX_SKEW", "5m"))
	if err != nil {
		return nil, fmt.Errorf("invalid CLIENT_TIME_MAX_SKEW: %w", err)
	}

	config.Attendance = AttendanceConfig{
		WindowStart:       getEnv("ADMISSION_WINDOW_START", ""),
		WindowEnd:         getEnv("ADMISSION_WINDOW_END", ""),
		ClientTimeMaxSkew: skew,
	}

	// Network admission policy
	var network NetworkConfig
	if network.FailOpen, err = getEnvBool("NETWORK_FAIL_OPEN", false); err != nil {
		return nil, err
	}
	if network.ValidationDisabled, err = getEnvBool("NETWORK_VALIDATION_DISABLED", false); err != nil {
		return nil, err
	}
	if network.AllowLoopback, err = getEnvBool("NETWORK_ALLOW_LOOPBACK", false); err != nil {
		return nil, err
	}
	if network.RequirePrivate, err = getEnvBool("NETWORK_REQUIRE_PRIVATE", false); err != nil {
		return nil, err
	}
	// These headers are client supplied and are read before X-Forwarded-For.
	// Set TRUSTED_CLIENT_IP_HEADERS to a header only the office proxy writes
	// (or strips from inbound requests) before exposing the API publicly.
	network.TrustedHeaders = getEnvSlice("TRUSTED_CLIENT_IP_HEADERS", "X-Client-Local-IP,X-Wifi-IP")
	config.Network = network

	grace, err := strconv.Atoi(getEnv("DEFAULT_GRACE_MINUTES", "30"))
	if err != nil {
		return nil, fmt.Errorf("invalid DEFAULT_GRACE_MINUTES: %w", err)
	}

	config.Schedule = ScheduleConfig{
		DefaultCheckIn:      getEnv("DEFAULT_CHECK_IN", "09:00"),
		DefaultCheckOut:     getEnv("DEFAULT_CHECK_OUT", "18:00"),
		DefaultGraceMinutes: grace,
	}

	rps, err := strconv.ParseFloat(getEnv("RATE_LIMIT_RPS", "5"), 64)
	if err != nil {
		return nil, fmt.Errorf("invalid RATE_LIMIT_RPS: %w", err)
	}
	burst, err := strconv.Atoi(getEnv("RATE_LIMIT_BURST", "10"))
	if err != nil {
		return nil, fmt.Errorf("invalid RATE_LIMIT_BURST: %w", err)
	}
	config.RateLimit = RateLimitConfig{RPS: rps, Burst: burst}

	var absence AbsenceSweepConfig
	if absence.Enabled, err = getEnvBool("ABSENCE_SWEEP_ENABLED", false); err != nil {
		return nil, err
	}
	if absence.SkipWeekends, err = getEnvBool("ABSENCE_SWEEP_SKIP_WEEKENDS", true); err != nil {
		return nil, err
	}
	if absence.Interval, err = time.ParseDuration(getEnv("ABSENCE_SWEEP_INTERVAL", "1h")); err != nil {
		return nil, fmt.Errorf("invalid ABSENCE_SWEEP_INTERVAL: %w", err)
	}
	config.Absence = absence

	// Validate required fields
	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return config, nil
}

// LoadDatabase reads only the database settings, for tools that do not serve HTTP.
func LoadDatabase() (DatabaseConfig, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return DatabaseConfig{}, fmt.Errorf("error loading .env file: %w", err)
	}
	return loadDatabase()
}

func loadDatabase() (DatabaseConfig, error) {
	dbPort, err := strconv.Atoi(getEnv("DB_PORT", "5432"))
	if err != nil {
		return DatabaseConfig{}, fmt.Errorf("invalid DB_PORT: %w", err)
	}

	return DatabaseConfig{
		Host:     getEnv("DB_HOST", "localhost"),
		Port:     dbPort,
		User:     getEnv("DB_USER", "postgres"),
		Password: getEnv("DB_PASSWORD", ""),
		Name:     getEnv("DB_NAME", "presence"),
		SSLMode:  getEnv("DB_SSL_MODE", "disable"),
	}, nil
}

var clockRegex = regexp.MustCompile(`^([01][0-9]|2[0-3]):[0-5][0-9]$`)

// Validate validates the configuration
func (c *Config) Validate() error {
	if c.Database.Password == "" {
		return fmt.Errorf("DB_PASSWORD is required")
	}
	if c.JWT.Secret == "" {
		return fmt.Errorf("JWT_SECRET_KEY is required")
	}
	if _, err := time.LoadLocation(c.App.Timezone); err != nil {
		return fmt.Errorf("APP_TIMEZONE %q is not a known timezone", c.App.Timezone)
	}

	start, end := c.Attendance.WindowStart, c.Attendance.WindowEnd
	if (start == "") != (end == "") {
		return fmt.Errorf("ADMISSION_WINDOW_START and ADMISSION_WINDOW_END must be set together")
	}
	if start != "" && (!clockRegex.MatchString(start) || !clockRegex.MatchString(end)) {
		return fmt.Errorf("admission window must use HH:MM")
	}
	if c.Attendance.ClientTimeMaxSkew < 0 {
		return fmt.Errorf("CLIENT_TIME_MAX_SKEW must not be negative")
	}

	if !clockRegex.MatchString(c.Schedule.DefaultCheckIn) {
		return fmt.Errorf("DEFAULT_CHECK_IN must use HH:MM")
	}
	if !clockRegex.MatchString(c.Schedule.DefaultCheckOut) {
		return fmt.Errorf("DEFAULT_CHECK_OUT must use HH:MM")
	}
	if c.Schedule.DefaultGraceMinutes < 0 || c.Schedule.DefaultGraceMinutes > 120 {
		return fmt.Errorf("DEFAULT_GRACE_MINUTES must be between 0 and 120")
	}

	if c.RateLimit.RPS <= 0 || c.RateLimit.Burst <= 0 {
		return fmt.Errorf("RATE_LIMIT_RPS and RATE_LIMIT_BURST must be positive")
	}
	if c.Absence.Enabled && c.Absence.Interval <= 0 {
		return fmt.Errorf("ABSENCE_SWEEP_INTERVAL must be positive")
	}
	return nil
}

// DatabaseURL returns the PostgreSQL connection string
func (c *Config) DatabaseURL() string {
	return c.Database.URL()
}

func (d DatabaseConfig) URL() string {
	return fmt.Sprintf("postgres://%s:%s@%s:%d/%s?sslmode=%s",
		d.User,
		d.Password,
		d.Host,
		d.Port,
		d.Name,
		d.SSLMode,
	)
}

// Location returns the office timezone. Validate guarantees it loads.
func (c *Config) Location() *time.Location {
	loc, err := time.LoadLocation(c.App.Timezone)
	if err != nil {
		return time.UTC
	}
	return loc
}

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func getEnvBool(key string, fallback bool) (bool, error) {
	value := os.Getenv(key)
	if value == "" {
		return fallback, nil
	}
	b, err := strconv.ParseBool(value)
	if err != nil {
		return false, fmt.Errorf("invalid %s: %w", key, err)
	}
	return b, nil
}

func getEnvSlice(env, fallback string) []string {
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
