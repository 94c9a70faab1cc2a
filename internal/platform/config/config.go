package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

type Config struct {
	Addr        string
	DatabaseURL string
	JWTSecret   string
	Environment string

	RunMigrations bool
	RunSeed       bool

	MaxBodyBytes       int64
	RateLimitPerMinute int
	MetricsEnabled     bool

	EmailFrom    string
	EmailEnabled bool
	SMTPHost     string
	SMTPPort     int
	SMTPUser     string
	SMTPPassword string
	SMTPUseTLS   bool

	// QR validity windows.
	AdmissionValidity  time.Duration
	ProofValidity      time.Duration
	OvertimeQRValidity time.Duration

	// Sweep and job intervals.
	QRIssueInterval       time.Duration
	ExpireSweepInterval   time.Duration
	OvertimeSweepInterval time.Duration
	CancellationInterval  time.Duration
	BudgetInterval        time.Duration
	RotationInterval      time.Duration
}

func Load() Config {
	return Config{
		Addr:        getEnv("APP_ADDR", ":8080"),
		DatabaseURL: getEnv("DATABASE_URL", ""),
		JWTSecret:   getEnv("JWT_SECRET", ""),
		Environment: getEnv("APP_ENV", "development"),

		RunMigrations: getEnvBool("RUN_MIGRATIONS", true),
		RunSeed:       getEnvBool("RUN_SEED", true),

		MaxBodyBytes:       int64(getEnvInt("MAX_BODY_BYTES", 1048576)),
		RateLimitPerMinute: getEnvInt("RATE_LIMIT_PER_MINUTE", 120),
		MetricsEnabled:     getEnvBool("METRICS_ENABLED", true),

		EmailFrom:    getEnv("EMAIL_FROM", "no-reply@example.com"),
		EmailEnabled: getEnvBool("EMAIL_ENABLED", false),
		SMTPHost:     getEnv("SMTP_HOST", ""),
		SMTPPort:     getEnvInt("SMTP_PORT", 587),
		SMTPUser:     getEnv("SMTP_USER", ""),
		SMTPPassword: getEnv("SMTP_PASSWORD", ""),
		SMTPUseTLS:   getEnvBool("SMTP_USE_TLS", true),

		AdmissionValidity:  getEnvDuration("QR_ADMISSION_VALIDITY", 2*time.Hour),
		ProofValidity:      getEnvDuration("QR_PROOF_VALIDITY", 15*time.Minute),
		OvertimeQRValidity: getEnvDuration("QR_OVERTIME_VALIDITY", 15*time.Minute),

		QRIssueInterval:       getEnvDuration("QR_ISSUE_INTERVAL", time.Second),
		ExpireSweepInterval:   getEnvDuration("QR_EXPIRE_INTERVAL", 5*time.Second),
		OvertimeSweepInterval: getEnvDuration("OVERTIME_SWEEP_INTERVAL", 5*time.Second),
		CancellationInterval:  getEnvDuration("CANCELLATION_INTERVAL", 5*time.Second),
		BudgetInterval:        getEnvDuration("BUDGET_INTERVAL", 168*time.Hour),
		RotationInterval:      getEnvDuration("ROTATION_INTERVAL", 168*time.Hour),
	}
}

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func getEnvBool(key string, fallback bool) bool {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}
	parsed, err := strconv.ParseBool(value)
	if err != nil {
		return fallback
	}
	return parsed
}

func getEnvInt(key string, fallback int) int {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}
	parsed, err := strconv.Atoi(value)
	if err != nil {
		return fallback
	}
	return parsed
}

func getEnvDuration(key string, fallback time.Duration) time.Duration {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}
	parsed, err := time.ParseDuration(value)
	if err != nil {
		return fallback
	}
	return parsed
}

func (c Config) Validate() error {
	if strings.TrimSpace(c.DatabaseURL) == "" {
		return fmt.Errorf("DATABASE_URL is required")
	}
	if c.Environment == "production" && strings.TrimSpace(c.JWTSecret) == "" {
		return fmt.Errorf("JWT_SECRET must be set to a strong value in production")
	}
	if c.MaxBodyBytes < 1024 {
		return fmt.Errorf("MAX_BODY_BYTES must be at least 1024")
	}
	if c.RateLimitPerMinute <= 0 {
		return fmt.Errorf("RATE_LIMIT_PER_MINUTE must be positive")
	}
	if c.AdmissionValidity <= 0 || c.ProofValidity <= 0 || c.OvertimeQRValidity <= 0 {
		return fmt.Errorf("QR validity windows must be positive")
	}
	if c.EmailEnabled && c.SMTPHost == "" {
		return fmt.Errorf("SMTP_HOST must be set when EMAIL_ENABLED is true")
	}
	return nil
}
