package config

import (
	"fmt"
	"log"
	"log/slog"
	"strings"

	"github.com/joho/godotenv"
	"github.com/shopspring/decimal"
	"github.com/spf13/viper"
)

// PayrollAccounts are the chart of accounts codes used when a payroll run or advance is posted.
type PayrollAccounts struct {
	SalaryExpense      string
	EmployerExpense    string
	PayePayable        string
	NSSFPayable        string
	HealthPayable      string
	AdvancesReceivable string
}

// PayrollDefaults fill in deduction parameters omitted from a salary record. Rates are percentages.
type PayrollDefaults struct {
	PayeRate         decimal.Decimal
	NSSFEmployeeRate decimal.Decimal
	NSSFEmployerRate decimal.Decimal
	HealthDeduction  decimal.Decimal
}

// Config holds application configuration.
type Config struct {
	DatabaseURL        string
	Port               string
	IsProduction       bool
	EnableDBCheck      bool
	LogLevel           string
	JWTSecret          string
	JWTIssuer          string
	CORSAllowedOrigins []string
	RateLimit          string
	RedisURL           string
	MigrationsPath     string

	BaseCurrency      string
	RequireOpenPeriod bool
	PayrollAccounts   PayrollAccounts
	PayrollDefaults   PayrollDefaults
}

// LoadConfig loads configuration from environment variables and .env file if present.
func LoadConfig() (*Config, error) {
	// Attempt to load .env file, ignore error if it doesn't exist
	_ = godotenv.Load()

	viper.SetDefault("PGSQL_URL", "")
	viper.SetDefault("PORT", "8080")
	viper.SetDefault("IS_PRODUCTION", false)
	viper.SetDefault("ENABLE_DB_CHECK", false)
	viper.SetDefault("LOG_LEVEL", "info")
	viper.SetDefault("JWT_SECRET", "")
	viper.SetDefault("JWT_ISSUER", "logistics-ledger")
	viper.SetDefault("CORS_ALLOWED_ORIGINS", "http://localhost:3000")
	viper.SetDefault("RATE_LIMIT", "300-M")
	viper.SetDefault("REDIS_URL", "")
	viper.SetDefault("MIGRATIONS_PATH", "file://migrations")
	viper.SetDefault("BASE_CURRENCY", "TZS")
	viper.SetDefault("LEDGER_REQUIRE_OPEN_PERIOD", false)

	viper.SetDefault("PAYROLL_DEFAULT_PAYE_RATE", "0")
	viper.SetDefault("PAYROLL_DEFAULT_NSSF_EMPLOYEE_RATE", "10")
	viper.SetDefault("PAYROLL_DEFAULT_NSSF_EMPLOYER_RATE", "10")
	viper.SetDefault("PAYROLL_DEFAULT_HEALTH_DEDUCTION", "0")

	viper.SetDefault("PAYROLL_ACCOUNT_SALARY_EXPENSE", "6100")
	viper.SetDefault("PAYROLL_ACCOUNT_EMPLOYER_EXPENSE", "6110")
	viper.SetDefault("PAYROLL_ACCOUNT_PAYE_PAYABLE", "2210")
	viper.SetDefault("PAYROLL_ACCOUNT_NSSF_PAYABLE", "2220")
	viper.SetDefault("PAYROLL_ACCOUNT_HEALTH_PAYABLE", "2230")
	viper.SetDefault("PAYROLL_ACCOUNT_ADVANCES_RECEIVABLE", "1310")

	viper.AutomaticEnv()

	cfg := &Config{
		DatabaseURL:       viper.GetString("PGSQL_URL"),
		Port:              viper.GetString("PORT"),
		IsProduction:      viper.GetBool("IS_PRODUCTION"),
		EnableDBCheck:     viper.GetBool("ENABLE_DB_CHECK"),
		LogLevel:          viper.GetString("LOG_LEVEL"),
		JWTSecret:         viper.GetString("JWT_SECRET"),
		JWTIssuer:         viper.GetString("JWT_ISSUER"),
		RateLimit:         viper.GetString("RATE_LIMIT"),
		RedisURL:          viper.GetString("REDIS_URL"),
		MigrationsPath:    viper.GetString("MIGRATIONS_PATH"),
		BaseCurrency:      strings.ToUpper(viper.GetString("BASE_CURRENCY")),
		RequireOpenPeriod: viper.GetBool("LEDGER_REQUIRE_OPEN_PERIOD"),
		PayrollAccounts: PayrollAccounts{
			SalaryExpense:      viper.GetString("PAYROLL_ACCOUNT_SALARY_EXPENSE"),
			EmployerExpense:    viper.GetString("PAYROLL_ACCOUNT_EMPLOYER_EXPENSE"),
			PayePayable:        viper.GetString("PAYROLL_ACCOUNT_PAYE_PAYABLE"),
			NSSFPayable:        viper.GetString("PAYROLL_ACCOUNT_NSSF_PAYABLE"),
			HealthPayable:      viper.GetString("PAYROLL_ACCOUNT_HEALTH_PAYABLE"),
			AdvancesReceivable: viper.GetString("PAYROLL_ACCOUNT_ADVANCES_RECEIVABLE"),
		},
	}

	for _, origin := range strings.Split(viper.GetString("CORS_ALLOWED_ORIGINS"), ",") {
		if origin = strings.TrimSpace(origin); origin != "" {
			cfg.CORSAllowedOrigins = append(cfg.CORSAllowedOrigins, origin)
		}
	}

	var err error
	if cfg.PayrollDefaults.PayeRate, err = decimalSetting("PAYROLL_DEFAULT_PAYE_RATE"); err != nil {
		return nil, err
	}
	if cfg.PayrollDefaults.NSSFEmployeeRate, err = decimalSetting("PAYROLL_DEFAULT_NSSF_EMPLOYEE_RATE"); err != nil {
		return nil, err
	}
	if cfg.PayrollDefaults.NSSFEmployerRate, err = decimalSetting("PAYROLL_DEFAULT_NSSF_EMPLOYER_RATE"); err != nil {
		return nil, err
	}
	if cfg.PayrollDefaults.HealthDeduction, err = decimalSetting("PAYROLL_DEFAULT_HEALTH_DEDUCTION"); err != nil {
		return nil, err
	}

	if cfg.DatabaseURL == "" {
		log.Println("Warning: PGSQL_URL environment variable not set.")
	}
	if cfg.JWTSecret == "" {
		if cfg.IsProduction {
			return nil, fmt.Errorf("JWT_SECRET must be set in production")
		}
		cfg.JWTSecret = "a-very-secret-key-should-be-longer-and-random" // !! CHANGE IN PRODUCTION !!
		log.Println("Warning: JWT_SECRET environment variable not set. Using default insecure key.")
	}
	if len(cfg.BaseCurrency) != 3 {
		return nil, fmt.Errorf("BASE_CURRENCY must be a three letter code, got %q", cfg.BaseCurrency)
	}

	return cfg, nil
}

// SlogLevel maps LOG_LEVEL to a slog level, defaulting to info.
func (c *Config) SlogLevel() slog.Level {
	switch strings.ToLower(c.LogLevel) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

func decimalSetting(key string) (decimal.Decimal, error) {
	raw := strings.TrimSpace(viper.GetString(key))
	value, err := decimal.NewFromString(raw)
	if err != nil {
		return decimal.Zero, fmt.Errorf("invalid decimal for %s (%q): %w", key, raw, err)
	}
	if value.IsNegative() {
		return decimal.Zero, fmt.Errorf("%s must not be negative", key)
	}
	return value, nil
}
