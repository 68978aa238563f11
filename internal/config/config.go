package config

import (
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

// Credit reset policies applied at settlement time
const (
	ResetPolicyFull   = "full"   // settlement always restores the full allowance
	ResetPolicyRefund = "refund" // settlement refunds exactly the settled total, capped at the allowance
)

type Config struct {
	// Server configuration
	Port string
	Mode string

	// Database configuration
	DatabaseURL string

	// Redis configuration
	RedisURL string

	// Credit ledger configuration
	CreditAllowance   string // decimal string, initial and maximum credit balance
	CreditResetPolicy string // "full" or "refund"

	// Payout service configuration
	PayoutAPIURL string
	PayoutAPIKey string

	// Brevo email configuration
	BrevoAPIKey    string
	BrevoFromEmail string

	// Session configuration
	SessionExpireHours   int
	ClaimCooldownSeconds int
	ServiceName          string
}

var AppConfig *Config

func InitConfig() error {
	// Load .env file
	if err := godotenv.Load(); err != nil {
		// Ignore error if .env file doesn't exist
	}

	AppConfig = &Config{
		Port:                 getEnv("PORT", "8080"),
		Mode:                 getEnv("GIN_MODE", "debug"),
		DatabaseURL:          getEnv("DATABASE_URL", ""),
		RedisURL:             getEnv("REDIS_URL", "redis://localhost:6379/0"),
		CreditAllowance:      getEnv("CREDIT_ALLOWANCE", "100"),
		CreditResetPolicy:    getEnv("CREDIT_RESET_POLICY", ResetPolicyFull),
		PayoutAPIURL:         getEnv("PAYOUT_API_URL", ""),
		PayoutAPIKey:         getEnv("PAYOUT_API_KEY", ""),
		BrevoAPIKey:          getEnv("BREVO_API_KEY", ""),
		BrevoFromEmail:       getEnv("BREVO_FROM_EMAIL", ""),
		SessionExpireHours:   getEnvInt("SESSION_EXPIRE_HOURS", 72),
		ClaimCooldownSeconds: getEnvInt("CLAIM_COOLDOWN_SECONDS", 0),
		ServiceName:          getEnv("SERVICE_NAME", "Marketplace API"),
	}

	return nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}
