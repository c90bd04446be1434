package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
)

// DatabaseConfig holds PostgreSQL database connection settings.
type DatabaseConfig struct {
	Host               string `validate:"required"`
	Port               string `validate:"required"`
	User               string `validate:"required"`
	Password           string
	Name               string `validate:"required"`
	SSLMode            string
	MaxOpenConns       int
	MaxIdleConns       int
	ConnMaxLifetimeSec int
}

// MinIOConfig holds object storage settings for MinIO.
type MinIOConfig struct {
	Endpoint      string
	AccessKey     string
	SecretKey     string
	Bucket        string
	UseSSL        bool
	PresignExpiry time.Duration
}

// AuthConfig holds session token settings shared by both applications.
type AuthConfig struct {
	JWTSecret    string        `validate:"required,min=16"`
	TokenTTL     time.Duration `validate:"required"`
	CookieName   string        `validate:"required"`
	CookieSecure bool
	BcryptCost   int
}

// RedisConfig points at the redis instance used for token revocation.
type RedisConfig struct {
	Addr     string `validate:"required"`
	Password string
	DB       int
}

// EmailConfig configures transactional email through Resend.
type EmailConfig struct {
	Enabled bool
	APIKey  string `validate:"required_if=Enabled true"`
	From    string `validate:"required_if=Enabled true"`
	BaseURL string
}

// ChatConfig holds settings specific to the supervised chat application.
type ChatConfig struct {
	ReleaseSchedule string `validate:"required"`
	DefaultTimezone string `validate:"required"`
	MaxMessageLen   int    `validate:"gt=0"`
}

// WebConfig holds settings specific to the social application.
type WebConfig struct {
	FreeProfileLimit int `validate:"gt=0"`
	PlusProfileLimit int `validate:"gt=0"`
	ProProfileLimit  int `validate:"gt=0"`
	BillingSecret    string
	MaxUploadBytes   int64 `validate:"gt=0"`
}

// LogConfig controls the zerolog output.
type LogConfig struct {
	Level  string
	Pretty bool
}

// AppConfig is the centralized configuration struct for the application.
// It is populated from environment variables. Sensitive values are not hardcoded.
type AppConfig struct {
	AppHost     string
	Port        string
	CORSOrigins string
	Timezone    string
	Database    DatabaseConfig
	MinIO       MinIOConfig
	Auth        AuthConfig
	Redis       RedisConfig
	Email       EmailConfig
	Chat        ChatConfig
	Web         WebConfig
	Log         LogConfig
}

// Load reads configuration from environment variables.
// A .env file can be auto-loaded by importing: _ "github.com/joho/godotenv/autoload"
// This function does not require a .env file; real environment variables take precedence.
func Load() *AppConfig {
	return &AppConfig{
		AppHost:     getEnv("APP_HOST", "localhost:8080"),
		Port:        getEnv("PORT", "8080"),
		CORSOrigins: getEnv("CORS_ALLOWED_ORIGINS", ""),
		Timezone:    getEnv("APP_TIMEZONE", "UTC"),
		Database: DatabaseConfig{
			Host:               getEnv("DB_HOST", ""),
			Port:               getEnv("DB_PORT", "5432"),
			User:               getEnv("DB_USER", ""),
			Password:           getEnv("DB_PASSWORD", ""),
			Name:               getEnv("DB_NAME", ""),
			SSLMode:            getEnv("DB_SSLMODE", "disable"),
			MaxOpenConns:       getEnvInt("DB_MAX_OPEN_CONNS", 10),
			MaxIdleConns:       getEnvInt("DB_MAX_IDLE_CONNS", 5),
			ConnMaxLifetimeSec: getEnvInt("DB_CONN_MAX_LIFETIME_SEC", 300),
		},
		MinIO: MinIOConfig{
			Endpoint:      getEnv("MINIO_ENDPOINT", ""),
			AccessKey:     getEnv("MINIO_ACCESS_KEY", ""),
			SecretKey:     getEnv("MINIO_SECRET_KEY", ""),
			Bucket:        getEnv("MINIO_BUCKET", ""),
			UseSSL:        getEnvBool("MINIO_USE_SSL", false),
			PresignExpiry: getEnvDuration("MINIO_PRESIGN_EXPIRY", 15*time.Minute),
		},
		Auth: AuthConfig{
			JWTSecret:    getEnv("JWT_SECRET", ""),
			TokenTTL:     getEnvDuration("JWT_TTL", 7*24*time.Hour),
			CookieName:   getEnv("SESSION_COOKIE_NAME", "session"),
			CookieSecure: getEnvBool("SESSION_COOKIE_SECURE", true),
			BcryptCost:   getEnvInt("BCRYPT_COST", 0),
		},
		Redis: RedisConfig{
			Addr:     getEnv("REDIS_ADDR", "localhost:6379"),
			Password: getEnv("REDIS_PASSWORD", ""),
			DB:       getEnvInt("REDIS_DB", 0),
		},
		Email: EmailConfig{
			Enabled: getEnvBool("EMAIL_ENABLED", false),
			APIKey:  getEnv("RESEND_API_KEY", ""),
			From:    getEnv("EMAIL_FROM", ""),
			BaseURL: getEnv("PUBLIC_BASE_URL", "http://localhost:3000"),
		},
		Chat: ChatConfig{
			ReleaseSchedule: getEnv("CHAT_RELEASE_SCHEDULE", "@every 1m"),
			DefaultTimezone: getEnv("CHAT_DEFAULT_TIMEZONE", "UTC"),
			MaxMessageLen:   getEnvInt("CHAT_MAX_MESSAGE_LEN", 2000),
		},
		Web: WebConfig{
			FreeProfileLimit: getEnvInt("WEB_FREE_PROFILE_LIMIT", 1),
			PlusProfileLimit: getEnvInt("WEB_PLUS_PROFILE_LIMIT", 3),
			ProProfileLimit:  getEnvInt("WEB_PRO_PROFILE_LIMIT", 10),
			BillingSecret:    getEnv("BILLING_WEBHOOK_SECRET", ""),
			MaxUploadBytes:   int64(getEnvInt("WEB_MAX_UPLOAD_BYTES", 10<<20)),
		},
		Log: LogConfig{
			Level:  getEnv("LOG_LEVEL", "info"),
			Pretty: getEnvBool("LOG_PRETTY", false),
		},
	}
}

// Validate checks the required fields so the binaries fail fast on bad config.
func (c *AppConfig) Validate() error {
	v := validator.New()
	if err := v.Struct(c); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	if _, err := time.LoadLocation(c.Chat.DefaultTimezone); err != nil {
		return fmt.Errorf("invalid config: CHAT_DEFAULT_TIMEZONE: %w", err)
	}
	return nil
}

// Location returns the configured application timezone, falling back to UTC.
func (c *AppConfig) Location() *time.Location {
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return time.UTC
	}
	return loc
}

// AllowedOrigins splits CORSOrigins into a cleaned list.
func (c *AppConfig) AllowedOrigins() []string {
	var out []string
	for _, o := range strings.Split(c.CORSOrigins, ",") {
		if o = strings.TrimSpace(o); o != "" {
			out = append(out, o)
		}
	}
	return out
}

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getEnvBool(key string, def bool) bool {
	if v := os.Getenv(key); v != "" {
		b, err := strconv.ParseBool(v)
		if err == nil {
			return b
		}
	}
	return def
}

func getEnvInt(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		i, err := strconv.Atoi(v)
		if err == nil {
			return i
		}
	}
	return def
}

func getEnvDuration(key string, def time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		d, err := time.ParseDuration(v)
		if err == nil {
			return d
		}
	}
	return def
}
