package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"meal-delivery-api/logger"
	"meal-delivery-api/models"

	"github.com/glebarez/sqlite"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

const (
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"

	StorageLocal    = "local"
	StorageSupabase = "supabase"
)

// Config is everything the process reads from its environment
type Config struct {
	Port    string
	GinMode string

	DBDriver    string
	DatabaseURL string

	IdentitySecret []byte
	IdentityIssuer string

	StorageBackend     string
	StorageBucket      string
	SupabaseURL        string
	SupabaseServiceKey string
	LocalStorageDir    string
	PublicBaseURL      string
	MaxImageBytes      int64

	DefaultEstimatedTime string
	OrderRatePerSec      float64
	OrderRateBurst       int

	LogLevel  string
	LogFormat string
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

// Load reads an optional .env file and then the process environment
func Load() (Config, error) {
	// a missing .env is normal outside local development
	_ = godotenv.Load()

	cfg := Config{
		Port:                 getEnv("PORT", "8080"),
		GinMode:              getEnv("GIN_MODE", "debug"),
		DBDriver:             strings.ToLower(getEnv("DB_DRIVER", DriverSQLite)),
		DatabaseURL:          getEnv("DATABASE_URL", "meal_delivery.db"),
		IdentitySecret:       []byte(getEnv("IDENTITY_JWT_SECRET", "meal_delivery_dev_identity_secret")),
		IdentityIssuer:       os.Getenv("IDENTITY_ISSUER"),
		StorageBackend:       strings.ToLower(getEnv("STORAGE_BACKEND", StorageLocal)),
		StorageBucket:        getEnv("STORAGE_BUCKET", "mealbucket"),
		SupabaseURL:          strings.TrimRight(os.Getenv("SUPABASE_URL"), "/"),
		SupabaseServiceKey:   os.Getenv("SUPABASE_SERVICE_KEY"),
		LocalStorageDir:      getEnv("LOCAL_STORAGE_DIR", "uploads"),
		PublicBaseURL:        strings.TrimRight(getEnv("PUBLIC_BASE_URL", "http://localhost:8080"), "/"),
		DefaultEstimatedTime: getEnv("DEFAULT_ESTIMATED_TIME", "30 minutes"),
		LogLevel:             getEnv("LOG_LEVEL", "info"),
		LogFormat:            getEnv("LOG_FORMAT", "json"),
	}

	var err error
	if cfg.MaxImageBytes, err = strconv.ParseInt(getEnv("MAX_IMAGE_BYTES", "5242880"), 10, 64); err != nil {
		return Config{}, fmt.Errorf("MAX_IMAGE_BYTES: %w", err)
	}
	if cfg.OrderRatePerSec, err = strconv.ParseFloat(getEnv("ORDER_RATE_PER_SEC", "1"), 64); err != nil {
		return Config{}, fmt.Errorf("ORDER_RATE_PER_SEC: %w", err)
	}
	if cfg.OrderRateBurst, err = strconv.Atoi(getEnv("ORDER_RATE_BURST", "5")); err != nil {
		return Config{}, fmt.Errorf("ORDER_RATE_BURST: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks cross-field constraints
func (c Config) Validate() error {
	switch c.GinMode {
	case "debug", "release", "test":
	default:
		return fmt.Errorf("GIN_MODE must be debug, release or test, got %q", c.GinMode)
	}
	switch c.DBDriver {
	case DriverSQLite, DriverPostgres:
	default:
		return fmt.Errorf("DB_DRIVER must be %q or %q, got %q", DriverSQLite, DriverPostgres, c.DBDriver)
	}
	switch c.StorageBackend {
	case StorageLocal:
	case StorageSupabase:
		if c.SupabaseURL == "" || c.SupabaseServiceKey == "" {
			return errors.New("SUPABASE_URL and SUPABASE_SERVICE_KEY are required for supabase storage")
		}
	default:
		return fmt.Errorf("STORAGE_BACKEND must be %q or %q, got %q", StorageLocal, StorageSupabase, c.StorageBackend)
	}
	if c.MaxImageBytes <= 0 {
		return errors.New("MAX_IMAGE_BYTES must be positive")
	}
	if c.OrderRatePerSec <= 0 || c.OrderRateBurst <= 0 {
		return errors.New("ORDER_RATE_PER_SEC and ORDER_RATE_BURST must be positive")
	}
	return nil
}

// OpenDB connects to the configured store and migrates the three tables.
// SQL errors and slow queries are written to log; misses are not.
func OpenDB(cfg Config, log zerolog.Logger) (*gorm.DB, error) {
	var dialector gorm.Dialector
	switch cfg.DBDriver {
	case DriverPostgres:
		dialector = postgres.Open(cfg.DatabaseURL)
	default:
		dialector = sqlite.Open(cfg.DatabaseURL)
	}

	db, err := gorm.Open(dialector, &gorm.Config{
		Logger: gormlogger.New(logger.NewGormWriter(logger.NewPackageLogger(log, "gorm")), gormlogger.Config{
			SlowThreshold:             200 * time.Millisecond,
			LogLevel:                  gormlogger.Warn,
			IgnoreRecordNotFoundError: true,
			Colorful:                  false,
		}),
		TranslateError: true,
	})
	if err != nil {
		return nil, fmt.Errorf("connect to database: %w", err)
	}

	if cfg.DBDriver == DriverSQLite && strings.Contains(cfg.DatabaseURL, ":memory:") {
		// each pooled connection to :memory: would be a separate database
		sqlDB, err := db.DB()
		if err != nil {
			return nil, err
		}
		sqlDB.SetMaxOpenConns(1)
	}

	if err := db.AutoMigrate(&models.Account{}, &models.Meal{}, &models.Delivery{}); err != nil {
		return nil, fmt.Errorf("migrate database: %w", err)
	}
	return db, nil
}

// CloseDB releases the underlying pool
func CloseDB(db *gorm.DB) error {
	sqlDB, err := db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
