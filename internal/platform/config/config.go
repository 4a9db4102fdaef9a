package config

import (
	"log"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds application configuration.
type Config struct {
	DatabaseURL  string
	Port         string
	IsProduction bool

	// Partner microservice strategy: "mock" or "http".
	ClientStrategy       string
	AccountsBaseURL      string
	TransactionsBaseURL  string
	NotificationsBaseURL string
	ClientTimeout        time.Duration

	// Scheduler and generation policy.
	SchedulerEnabled bool
	// BulkTargetPreviousMonth picks which month the scheduled bulk run
	// generates statements for. True (the production default) targets the
	// month that just closed; false targets the live month.
	BulkTargetPreviousMonth bool
	// AutoGenerateOnMiss makes GET by-iban+month generate a missing
	// statement instead of returning 404.
	AutoGenerateOnMiss bool
	// Cross-instance scheduler lease. Empty RedisURL keeps the in-process
	// overlap guard only.
	RedisURL          string
	SchedulerLeaseTTL time.Duration

	// Token handling. The default is gateway-trust mode: decode without
	// verifying, because the API gateway already did.
	VerifyTokenSignature bool
	JWTSecret            string

	DefaultCurrency string
}

// LoadConfig loads configuration from environment variables and .env file if present.
func LoadConfig() (*Config, error) {
	// Attempt to load .env file, ignore error if it doesn't exist
	_ = godotenv.Load()

	viper.SetDefault("PGSQL_URL", "")
	viper.SetDefault("PORT", "8080")
	viper.SetDefault("IS_PRODUCTION", false)
	viper.SetDefault("CLIENT_STRATEGY", "mock")
	viper.SetDefault("ACCOUNTS_BASE_URL", "http://localhost:4000")
	viper.SetDefault("TRANSACTIONS_BASE_URL", "http://localhost:4001")
	viper.SetDefault("NOTIFICATIONS_BASE_URL", "http://localhost:4002")
	viper.SetDefault("CLIENT_TIMEOUT", "5s")
	viper.SetDefault("SCHEDULER_ENABLED", true)
	viper.SetDefault("BULK_TARGET_PREVIOUS_MONTH", true)
	viper.SetDefault("AUTO_GENERATE_ON_MISS", false)
	viper.SetDefault("REDIS_URL", "")
	viper.SetDefault("SCHEDULER_LEASE_TTL", "10m")
	viper.SetDefault("VERIFY_TOKEN_SIGNATURE", false)
	viper.SetDefault("JWT_SECRET", "")
	viper.SetDefault("DEFAULT_CURRENCY", "EUR")

	viper.AutomaticEnv()

	cfg := &Config{}

	cfg.DatabaseURL = viper.GetString("PGSQL_URL")
	if cfg.DatabaseURL == "" {
		log.Println("Warning: PGSQL_URL environment variable not set.")
	}

	cfg.Port = viper.GetString("PORT")
	cfg.IsProduction = viper.GetBool("IS_PRODUCTION")

	cfg.ClientStrategy = viper.GetString("CLIENT_STRATEGY")
	if cfg.ClientStrategy != "mock" && cfg.ClientStrategy != "http" {
		log.Printf("Warning: Invalid value for CLIENT_STRATEGY ('%s'). Defaulting to mock.\n", cfg.ClientStrategy)
		cfg.ClientStrategy = "mock"
	}
	cfg.AccountsBaseURL = viper.GetString("ACCOUNTS_BASE_URL")
	cfg.TransactionsBaseURL = viper.GetString("TRANSACTIONS_BASE_URL")
	cfg.NotificationsBaseURL = viper.GetString("NOTIFICATIONS_BASE_URL")

	clientTimeoutStr := viper.GetString("CLIENT_TIMEOUT")
	clientTimeout, err := time.ParseDuration(clientTimeoutStr)
	if err != nil {
		clientTimeout = 5 * time.Second
		if clientTimeoutStr != "" {
			log.Printf("Warning: Invalid value for CLIENT_TIMEOUT ('%s'). Defaulting to %s.\n", clientTimeoutStr, clientTimeout)
		}
	}
	cfg.ClientTimeout = clientTimeout

	cfg.SchedulerEnabled = viper.GetBool("SCHEDULER_ENABLED")
	cfg.BulkTargetPreviousMonth = viper.GetBool("BULK_TARGET_PREVIOUS_MONTH")
	cfg.AutoGenerateOnMiss = viper.GetBool("AUTO_GENERATE_ON_MISS")
	cfg.RedisURL = viper.GetString("REDIS_URL")

	leaseTTLStr := viper.GetString("SCHEDULER_LEASE_TTL")
	leaseTTL, err := time.ParseDuration(leaseTTLStr)
	if err != nil {
		leaseTTL = 10 * time.Minute
		if leaseTTLStr != "" {
			log.Printf("Warning: Invalid value for SCHEDULER_LEASE_TTL ('%s'). Defaulting to %s.\n", leaseTTLStr, leaseTTL)
		}
	}
	cfg.SchedulerLeaseTTL = leaseTTL

	cfg.VerifyTokenSignature = viper.GetBool("VERIFY_TOKEN_SIGNATURE")
	cfg.JWTSecret = viper.GetString("JWT_SECRET")
	if cfg.VerifyTokenSignature && cfg.JWTSecret == "" {
		log.Println("Warning: VERIFY_TOKEN_SIGNATURE is set but JWT_SECRET is empty. Falling back to unverified decoding.")
		cfg.VerifyTokenSignature = false
	}

	cfg.DefaultCurrency = viper.GetString("DEFAULT_CURRENCY")

	return cfg, nil
}
