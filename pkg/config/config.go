package config

import (
	"log"
	"time"

	"github.com/joho/godotenv"
	"github.com/shopspring/decimal"
	"github.com/spf13/viper"
)

// Config holds application configuration.
type Config struct {
	DatabaseURL   string
	Port          string
	IsProduction  bool
	EnableDBCheck bool

	// Tax computation
	DefaultGSTRate       decimal.Decimal // fallback rate when no table row matches
	DefaultSupplierState string          // 2-digit state code assumed for the supplier

	// Auditor tuning
	DuplicateWindow        time.Duration // window within which equal-amount same-party vouchers count as duplicates
	AuditCriticalThreshold int           // unresolved issues at or above this grade the run CRITICAL

	// Return assembly
	B2CLargeThreshold decimal.Decimal // inter-state consumer invoices above this go to the large section

	// Rate limiting, formatted for ulule/limiter (e.g. "100-M")
	RateLimit string
}

// LoadConfig loads configuration from environment variables and .env file if present.
func LoadConfig() (*Config, error) {
	// Attempt to load .env file, ignore error if it doesn't exist
	_ = godotenv.Load()

	viper.SetDefault("PGSQL_URL", "")
	viper.SetDefault("PORT", "8080")
	viper.SetDefault("IS_PRODUCTION", false)
	viper.SetDefault("ENABLE_DB_CHECK", false)
	viper.SetDefault("DEFAULT_GST_RATE", "18")
	viper.SetDefault("DEFAULT_SUPPLIER_STATE", "27")
	viper.SetDefault("DUPLICATE_WINDOW", "5m")
	viper.SetDefault("AUDIT_CRITICAL_THRESHOLD", 5)
	viper.SetDefault("B2C_LARGE_THRESHOLD", "250000")
	viper.SetDefault("RATE_LIMIT", "100-M")

	viper.AutomaticEnv()

	cfg := &Config{}

	cfg.DatabaseURL = viper.GetString("PGSQL_URL")
	if cfg.DatabaseURL == "" {
		log.Println("Warning: PGSQL_URL environment variable not set.")
	}

	cfg.Port = viper.GetString("PORT")
	cfg.IsProduction = viper.GetBool("IS_PRODUCTION")
	cfg.EnableDBCheck = viper.GetBool("ENABLE_DB_CHECK")

	defaultRateStr := viper.GetString("DEFAULT_GST_RATE")
	defaultRate, err := decimal.NewFromString(defaultRateStr)
	if err != nil {
		defaultRate = decimal.NewFromInt(18)
		log.Printf("Warning: Invalid value for DEFAULT_GST_RATE ('%s'). Defaulting to %s.\n", defaultRateStr, defaultRate)
	}
	cfg.DefaultGSTRate = defaultRate

	cfg.DefaultSupplierState = viper.GetString("DEFAULT_SUPPLIER_STATE")

	duplicateWindowStr := viper.GetString("DUPLICATE_WINDOW")
	duplicateWindow, err := time.ParseDuration(duplicateWindowStr)
	if err != nil {
		duplicateWindow = 5 * time.Minute
		log.Printf("Warning: Invalid value for DUPLICATE_WINDOW ('%s'). Defaulting to %s.\n", duplicateWindowStr, duplicateWindow)
	}
	cfg.DuplicateWindow = duplicateWindow

	cfg.AuditCriticalThreshold = viper.GetInt("AUDIT_CRITICAL_THRESHOLD")
	if cfg.AuditCriticalThreshold <= 0 {
		cfg.AuditCriticalThreshold = 5
	}

	b2cThresholdStr := viper.GetString("B2C_LARGE_THRESHOLD")
	b2cThreshold, err := decimal.NewFromString(b2cThresholdStr)
	if err != nil {
		b2cThreshold = decimal.NewFromInt(250000)
		log.Printf("Warning: Invalid value for B2C_LARGE_THRESHOLD ('%s'). Defaulting to %s.\n", b2cThresholdStr, b2cThreshold)
	}
	cfg.B2CLargeThreshold = b2cThreshold

	cfg.RateLimit = viper.GetString("RATE_LIMIT")

	return cfg, nil
}
