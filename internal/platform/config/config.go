package config

import (
	"log"
	"path/filepath"
	"strings"

	"github.com/SscSPs/ohada_reporting_app/internal/core/domain"
	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Cache backends selectable with CACHE_BACKEND.
const (
	CacheBackendFile     = "file"
	CacheBackendMemory   = "memory"
	CacheBackendRedis    = "redis"
	CacheBackendPostgres = "postgres"
)

// Config holds application configuration.
type Config struct {
	Port         string
	IsProduction bool
	LogLevel     string

	// Source folders and files
	TransactionsDir              string
	VendorTransactionsDir        string
	CustomerTransactionsDir      string
	InitialBalancePrefix         string
	VendorInitialBalancePrefix   string
	CustomerInitialBalancePrefix string
	ChartOfAccountsPath          string
	BankAccountsPath             string
	LayoutFile                   string
	OutputDir                    string

	// Report cache
	CacheBackend   string
	CacheDir       string
	RedisURL       string
	RedisKeyPrefix string
	DatabaseURL    string
	EnableDBCheck  bool
	MigrationsPath string

	// API surface
	AdminJWTSecret  string
	AdminAPIKeys    []string
	ReportRateLimit string
	CORSOrigins     []string
	PosthogAPIKey   string
	PosthogEndpoint string

	// Static company code -> display name lookup
	Companies     map[string]string
	CompaniesFile string
}

// defaultCompanies is used when neither COMPANIES nor COMPANIES_FILE is set.
var defaultCompanies = map[string]string{
	"BF10": "OLAM BURKINA SARL",
	"CI13": "SECO",
	"CI14": "MANTRA",
	"CI22": "OLAM AGRI RUBBER C.I",
	"SN11": "OLAM SENEGAL S.A",
	"SN14": "ARISE IIP SENEGAL",
	"SN15": "AVISEN SARL",
	"TD10": "COTONTCHAD SN",
	"TG13": "NOUVELLE SOCIETE COTON SR",
}

// LoadConfig loads configuration from environment variables and .env file if present.
func LoadConfig() (*Config, error) {
	// Attempt to load .env file, ignore error if it doesn't exist
	_ = godotenv.Load()

	viper.SetDefault("PORT", "8080")
	viper.SetDefault("IS_PRODUCTION", false)
	viper.SetDefault("LOG_LEVEL", "info")
	viper.SetDefault("TRANSACTIONS_DIR", "Data/ALL_TRANSACTIONS")
	viper.SetDefault("VENDOR_TRANSACTIONS_DIR", "Data/ALL_VENDORS_TRANSACTIONS")
	viper.SetDefault("CUSTOMER_TRANSACTIONS_DIR", "Data/ALL_CUSTOMERS_TRANSACTIONS")
	viper.SetDefault("INITIAL_BALANCE_PREFIX", "Data/INITIAL BALANCE/Initial Balance")
	viper.SetDefault("VENDOR_INITIAL_BALANCE_PREFIX", "Data/VENDORS INITIAL BALANCE/Initial Balance")
	viper.SetDefault("CUSTOMER_INITIAL_BALANCE_PREFIX", "Data/CUSTOMERS INITIAL BALANCE/Initial Balance")
	viper.SetDefault("CHART_OF_ACCOUNTS_PATH", "Data/STATIC/Plan_Comptable_OHADA.xlsx")
	viper.SetDefault("BANK_ACCOUNTS_PATH", "bnk_gls.txt")
	viper.SetDefault("LAYOUT_FILE", "")
	viper.SetDefault("OUTPUT_DIR", "output")
	viper.SetDefault("CACHE_BACKEND", CacheBackendFile)
	viper.SetDefault("CACHE_DIR", "cache")
	viper.SetDefault("REDIS_URL", "")
	viper.SetDefault("REDIS_KEY_PREFIX", "ohada:report_cache")
	viper.SetDefault("PGSQL_URL", "")
	viper.SetDefault("ENABLE_DB_CHECK", false)
	viper.SetDefault("MIGRATIONS_PATH", "file://migrations")
	viper.SetDefault("ADMIN_JWT_SECRET", "")
	viper.SetDefault("ADMIN_API_KEYS", "")
	viper.SetDefault("REPORT_RATE_LIMIT", "30-M")
	viper.SetDefault("CORS_ORIGINS", "http://localhost:3000,http://127.0.0.1:5503")
	viper.SetDefault("POSTHOG_API_KEY", "")
	viper.SetDefault("POSTHOG_ENDPOINT", "https://eu.i.posthog.com")
	viper.SetDefault("COMPANIES", "")
	viper.SetDefault("COMPANIES_FILE", "")

	viper.AutomaticEnv()

	cfg := &Config{}

	cfg.Port = viper.GetString("PORT")
	if cfg.Port == "" {
		cfg.Port = "8080"
		log.Printf("Warning: PORT environment variable not set. Defaulting to %s\n", cfg.Port)
	}
	cfg.IsProduction = viper.GetBool("IS_PRODUCTION")
	cfg.LogLevel = viper.GetString("LOG_LEVEL")

	cfg.TransactionsDir = viper.GetString("TRANSACTIONS_DIR")
	cfg.VendorTransactionsDir = viper.GetString("VENDOR_TRANSACTIONS_DIR")
	cfg.CustomerTransactionsDir = viper.GetString("CUSTOMER_TRANSACTIONS_DIR")
	cfg.InitialBalancePrefix = viper.GetString("INITIAL_BALANCE_PREFIX")
	cfg.VendorInitialBalancePrefix = viper.GetString("VENDOR_INITIAL_BALANCE_PREFIX")
	cfg.CustomerInitialBalancePrefix = viper.GetString("CUSTOMER_INITIAL_BALANCE_PREFIX")
	cfg.ChartOfAccountsPath = viper.GetString("CHART_OF_ACCOUNTS_PATH")
	cfg.BankAccountsPath = viper.GetString("BANK_ACCOUNTS_PATH")
	cfg.LayoutFile = viper.GetString("LAYOUT_FILE")
	cfg.OutputDir = viper.GetString("OUTPUT_DIR")

	cfg.CacheBackend = strings.ToLower(viper.GetString("CACHE_BACKEND"))
	switch cfg.CacheBackend {
	case CacheBackendFile, CacheBackendMemory, CacheBackendRedis, CacheBackendPostgres:
	default:
		log.Printf("Warning: unknown CACHE_BACKEND '%s'. Defaulting to %s.\n", cfg.CacheBackend, CacheBackendFile)
		cfg.CacheBackend = CacheBackendFile
	}
	cfg.CacheDir = viper.GetString("CACHE_DIR")
	cfg.RedisURL = viper.GetString("REDIS_URL")
	cfg.RedisKeyPrefix = viper.GetString("REDIS_KEY_PREFIX")
	cfg.DatabaseURL = viper.GetString("PGSQL_URL")
	cfg.EnableDBCheck = viper.GetBool("ENABLE_DB_CHECK")
	cfg.MigrationsPath = viper.GetString("MIGRATIONS_PATH")
	if cfg.CacheBackend == CacheBackendRedis && cfg.RedisURL == "" {
		log.Println("Warning: CACHE_BACKEND is redis but REDIS_URL is not set.")
	}
	if cfg.CacheBackend == CacheBackendPostgres && cfg.DatabaseURL == "" {
		log.Println("Warning: CACHE_BACKEND is postgres but PGSQL_URL is not set.")
	}

	cfg.AdminJWTSecret = viper.GetString("ADMIN_JWT_SECRET")
	if cfg.AdminJWTSecret == "" {
		log.Println("Warning: ADMIN_JWT_SECRET not set. Cache maintenance endpoints are unprotected.")
	}
	cfg.AdminAPIKeys = splitList(viper.GetString("ADMIN_API_KEYS"))
	cfg.ReportRateLimit = viper.GetString("REPORT_RATE_LIMIT")
	cfg.CORSOrigins = splitList(viper.GetString("CORS_ORIGINS"))
	cfg.PosthogAPIKey = viper.GetString("POSTHOG_API_KEY")
	cfg.PosthogEndpoint = viper.GetString("POSTHOG_ENDPOINT")

	cfg.CompaniesFile = viper.GetString("COMPANIES_FILE")
	companies, err := loadCompanies(viper.GetString("COMPANIES"), cfg.CompaniesFile)
	if err != nil {
		return nil, err
	}
	cfg.Companies = companies

	return cfg, nil
}

// SourcePaths returns the source locations used by ingestion and cache keys.
func (c *Config) SourcePaths() domain.SourcePaths {
	return domain.SourcePaths{
		TransactionsDir:              c.TransactionsDir,
		VendorTransactionsDir:        c.VendorTransactionsDir,
		CustomerTransactionsDir:      c.CustomerTransactionsDir,
		InitialBalancePrefix:         c.InitialBalancePrefix,
		VendorInitialBalancePrefix:   c.VendorInitialBalancePrefix,
		CustomerInitialBalancePrefix: c.CustomerInitialBalancePrefix,
		ChartOfAccountsPath:          c.ChartOfAccountsPath,
		BankAccountsPath:             c.BankAccountsPath,
		LayoutFile:                   c.LayoutFile,
		CompaniesFile:                c.CompaniesFile,
	}
}

// CacheMetadataPath is the JSON map used by the file cache backend.
func (c *Config) CacheMetadataPath() string {
	return filepath.Join(c.CacheDir, "cache_metadata.json")
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
