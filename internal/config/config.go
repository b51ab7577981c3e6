package config

import (
	"fmt"
	"os"
	"strconv"
)

// Config holds application configuration
type Config struct {
	Port             string
	DBConn           string
	LogLevel         string
	JWTSecret        string
	BankingURL       string
	BankingToken     string
	PayrollURL       string
	PayrollToken     string
	SMTPHost         string
	SMTPPort         string
	SMTPUsername     string
	SMTPPassword     string
	SenderEmail      string
	AssessmentCron   string
	SafetyMultiplier float64
}

// NewConfig loads configuration from environment variables
func NewConfig() (*Config, error) {
	cfg := &Config{
		Port:           getEnv("PORT", "8080"),
		DBConn:         getEnv("DB_CONN", "host=localhost port=5436 user=test password=test dbname=sentinel sslmode=disable"),
		LogLevel:       getEnv("LOG_LEVEL", "INFO"),
		JWTSecret:      getEnv("JWT_SECRET", "secret"),
		BankingURL:     getEnv("BANKING_URL", "https://sandbox.banking.example.com"),
		BankingToken:   getEnv("BANKING_TOKEN", ""),
		PayrollURL:     getEnv("PAYROLL_URL", "https://sandbox.payroll.example.com"),
		PayrollToken:   getEnv("PAYROLL_TOKEN", ""),
		SMTPHost:       getEnv("SMTP_HOST", "localhost"),
		SMTPPort:       getEnv("SMTP_PORT", "587"),
		SMTPUsername:   getEnv("SMTP_USERNAME", ""),
		SMTPPassword:   getEnv("SMTP_PASSWORD", ""),
		SenderEmail:    getEnv("SENDER_EMAIL", "alerts@payroll-sentinel.local"),
		AssessmentCron: getEnv("ASSESSMENT_CRON", "0 * * * *"),
	}

	multiplier, err := strconv.ParseFloat(getEnv("SAFETY_MULTIPLIER", "1.1"), 64)
	if err != nil {
		return nil, fmt.Errorf("invalid SAFETY_MULTIPLIER: %w", err)
	}
	if multiplier <= 0 {
		return nil, fmt.Errorf("SAFETY_MULTIPLIER must be positive, got %v", multiplier)
	}
	cfg.SafetyMultiplier = multiplier

	if cfg.DBConn == "" {
		return nil, fmt.Errorf("DB_CONN is required")
	}
	if cfg.JWTSecret == "" {
		return nil, fmt.Errorf("JWT_SECRET is required")
	}
	if cfg.BankingURL == "" {
		return nil, fmt.Errorf("BANKING_URL is required")
	}
	if cfg.PayrollURL == "" {
		return nil, fmt.Errorf("PAYROLL_URL is required")
	}

	return cfg, nil
}

func getEnv(key, defaultVal string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultVal
}
