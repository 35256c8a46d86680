package config

import (
	"errors"
	"io/fs"
	"strings"
	"time"
	_ "time/tzdata"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

const (
	EnvDevelopment = "development"
	EnvProduction  = "production"
)

// Store drivers for the durable registration copy.
const (
	StoreDriverFile     = "file"
	StoreDriverRedis    = "redis"
	StoreDriverPostgres = "postgres"
)

type Config struct {
	Env       string
	Port      int
	APIPrefix string

	Database     DatabaseConfig
	Redis        RedisConfig
	CORS         CORSConfig
	Log          LogConfig
	Registration RegistrationConfig
	Store        StoreConfig
	Sync         SyncConfig
	Payments     PaymentsConfig
}

type DatabaseConfig struct {
	Host         string
	Port         int
	User         string
	Password     string
	Name         string
	SSLMode      string
	MaxOpenConns int
	MaxIdleConns int
}

type RedisConfig struct {
	Host     string
	Port     int
	Password string
	DB       int
}

type CORSConfig struct {
	AllowedOrigins []string
}

type LogConfig struct {
	Level  string
	Format string
}

// RegistrationConfig tunes the calendar and the enrollment ledger.
type RegistrationConfig struct {
	Timezone     string
	DefaultMonth string
	MaxCapacity  int
}

// Location resolves the configured timezone, falling back to UTC.
func (c RegistrationConfig) Location() *time.Location {
	if c.Timezone == "" {
		return time.UTC
	}
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return time.UTC
	}
	return loc
}

// StoreConfig selects where the durable copy of registrations lives.
type StoreConfig struct {
	Driver  string
	Key     string
	FileDir string
}

// SyncConfig configures the best-effort remote spreadsheet webhook.
type SyncConfig struct {
	WebhookURL string
	Timeout    time.Duration
	Workers    int
	BufferSize int
	MaxRetries int
	RetryDelay time.Duration
}

// Enabled reports whether a webhook target was configured.
func (c SyncConfig) Enabled() bool {
	return strings.TrimSpace(c.WebhookURL) != ""
}

// PaymentsConfig holds static checkout links and the quoted tax rate.
type PaymentsConfig struct {
	Level1Link   string
	Level2Link   string
	Level3Link   string
	WorkshopLink string
	TaxRate      string
}

func Load() (*Config, error) {
	_ = godotenv.Load()

	v := viper.New()
	v.SetConfigFile(".env")
	v.SetConfigType("env")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) && !errors.Is(err, fs.ErrNotExist) {
			return nil, err
		}
	}

	return fromViper(v), nil
}

func fromViper(v *viper.Viper) *Config {
	cfg := &Config{}

	cfg.Env = v.GetString("ENV")
	cfg.Port = v.GetInt("PORT")
	cfg.APIPrefix = v.GetString("API_PREFIX")

	cfg.Database = DatabaseConfig{
		Host:         v.GetString("DB_HOST"),
		Port:         v.GetInt("DB_PORT"),
		User:         v.GetString("DB_USER"),
		Password:     v.GetString("DB_PASSWORD"),
		Name:         v.GetString("DB_NAME"),
		SSLMode:      v.GetString("DB_SSL_MODE"),
		MaxOpenConns: v.GetInt("DB_MAX_OPEN_CONNS"),
		MaxIdleConns: v.GetInt("DB_MAX_IDLE_CONNS"),
	}

	cfg.Redis = RedisConfig{
		Host:     v.GetString("REDIS_HOST"),
		Port:     v.GetInt("REDIS_PORT"),
		Password: v.GetString("REDIS_PASSWORD"),
		DB:       v.GetInt("REDIS_DB"),
	}

	cfg.CORS = CORSConfig{AllowedOrigins: splitAndTrim(v.GetString("ALLOWED_ORIGINS"))}

	cfg.Log = LogConfig{
		Level:  v.GetString("LOG_LEVEL"),
		Format: v.GetString("LOG_FORMAT"),
	}

	maxCapacity := v.GetInt("REGISTRATION_MAX_CAPACITY")
	if maxCapacity <= 0 {
		maxCapacity = 4
	}
	cfg.Registration = RegistrationConfig{
		Timezone:     v.GetString("REGISTRATION_TIMEZONE"),
		DefaultMonth: v.GetString("REGISTRATION_DEFAULT_MONTH"),
		MaxCapacity:  maxCapacity,
	}

	driver := strings.ToLower(strings.TrimSpace(v.GetString("STORE_DRIVER")))
	switch driver {
	case StoreDriverFile, StoreDriverRedis, StoreDriverPostgres:
	default:
		driver = StoreDriverFile
	}
	cfg.Store = StoreConfig{
		Driver:  driver,
		Key:     v.GetString("STORE_KEY"),
		FileDir: v.GetString("STORE_FILE_DIR"),
	}

	workers := v.GetInt("SYNC_WORKERS")
	if workers <= 0 {
		workers = 1
	}
	retries := v.GetInt("SYNC_MAX_RETRIES")
	if retries < 0 {
		retries = 0
	}
	cfg.Sync = SyncConfig{
		WebhookURL: strings.TrimSpace(v.GetString("SYNC_WEBHOOK_URL")),
		Timeout:    parseDuration(v.GetString("SYNC_TIMEOUT"), 5*time.Second),
		Workers:    workers,
		BufferSize: v.GetInt("SYNC_BUFFER"),
		MaxRetries: retries,
		RetryDelay: parseDuration(v.GetString("SYNC_RETRY_DELAY"), 2*time.Second),
	}

	cfg.Payments = PaymentsConfig{
		Level1Link:   v.GetString("PAYMENT_LINK_LEVEL_1"),
		Level2Link:   v.GetString("PAYMENT_LINK_LEVEL_2"),
		Level3Link:   v.GetString("PAYMENT_LINK_LEVEL_3"),
		WorkshopLink: v.GetString("PAYMENT_LINK_WORKSHOP"),
		TaxRate:      v.GetString("PAYMENT_TAX_RATE"),
	}

	return cfg
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("ENV", EnvDevelopment)
	v.SetDefault("PORT", 8080)
	v.SetDefault("API_PREFIX", "/api/v1")

	v.SetDefault("DB_HOST", "localhost")
	v.SetDefault("DB_PORT", 5432)
	v.SetDefault("DB_USER", "postgres")
	v.SetDefault("DB_PASSWORD", "postgres")
	v.SetDefault("DB_NAME", "course_registration")
	v.SetDefault("DB_SSL_MODE", "disable")
	v.SetDefault("DB_MAX_OPEN_CONNS", 10)
	v.SetDefault("DB_MAX_IDLE_CONNS", 5)

	v.SetDefault("REDIS_HOST", "localhost")
	v.SetDefault("REDIS_PORT", 6379)
	v.SetDefault("REDIS_PASSWORD", "")
	v.SetDefault("REDIS_DB", 0)

	v.SetDefault("ALLOWED_ORIGINS", "")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("LOG_FORMAT", "json")

	v.SetDefault("REGISTRATION_TIMEZONE", "America/Toronto")
	v.SetDefault("REGISTRATION_DEFAULT_MONTH", "2026-02")
	v.SetDefault("REGISTRATION_MAX_CAPACITY", 4)

	v.SetDefault("STORE_DRIVER", StoreDriverFile)
	v.SetDefault("STORE_KEY", "dtf_registrations")
	v.SetDefault("STORE_FILE_DIR", "./data")

	v.SetDefault("SYNC_WEBHOOK_URL", "")
	v.SetDefault("SYNC_TIMEOUT", "5s")
	v.SetDefault("SYNC_WORKERS", 1)
	v.SetDefault("SYNC_BUFFER", 64)
	v.SetDefault("SYNC_MAX_RETRIES", 0)
	v.SetDefault("SYNC_RETRY_DELAY", "2s")

	v.SetDefault("PAYMENT_LINK_LEVEL_1", "https://buy.stripe.com/28E4gzf6ZeYD6r68EY5c400")
	v.SetDefault("PAYMENT_LINK_LEVEL_2", "https://buy.stripe.com/28E8wP7ExbMr3eUcVe5c401")
	v.SetDefault("PAYMENT_LINK_LEVEL_3", "https://buy.stripe.com/aFa00j6AtaIn9DicVe5c402")
	v.SetDefault("PAYMENT_LINK_WORKSHOP", "https://buy.stripe.com/aFacN57ExeYD2aQg7q5c403")
	v.SetDefault("PAYMENT_TAX_RATE", "0.13")
}

func parseDuration(raw string, fallback time.Duration) time.Duration {
	if raw == "" {
		return fallback
	}

	d, err := time.ParseDuration(raw)
	if err != nil {
		return fallback
	}

	return d
}

func splitAndTrim(raw string) []string {
	if raw == "" {
		return nil
	}

	parts := strings.Split(raw, ",")
	result := make([]string, 0, len(parts))
	for _, part := range parts {
		trimmed := strings.TrimSpace(part)
		if trimmed != "" {
			result = append(result, trimmed)
		}
	}

	return result
}
