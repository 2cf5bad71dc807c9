package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// EnvPrefix prefixes every environment variable read by Load.
const EnvPrefix = "GSTBILL"

// Config holds all application configuration.
type Config struct {
	Server ServerConfig
	DB     DBConfig
	JWT    JWTConfig
	S3     S3Config
	Log    LogConfig
	CORS   CORSConfig
	Email  EmailConfig
	Report ReportConfig
	Rate   RateLimitConfig
}

// EmailConfig holds email delivery settings.
type EmailConfig struct {
	Provider    string `mapstructure:"provider"`
	Region      string `mapstructure:"region"`
	FromAddress string `mapstructure:"from_address"`
	FromName    string `mapstructure:"from_name"`
}

// CORSConfig holds CORS settings.
type CORSConfig struct {
	AllowedOrigins []string `mapstructure:"allowed_origins"`
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Port         string        `mapstructure:"port"`
	ReadTimeout  time.Duration `mapstructure:"read_timeout"`
	WriteTimeout time.Duration `mapstructure:"write_timeout"`
	Environment  string        `mapstructure:"environment"`
}

// DBConfig holds PostgreSQL connection settings.
type DBConfig struct {
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	User     string `mapstructure:"user"`
	Password string `mapstructure:"password"`
	Name     string `mapstructure:"name"`
	SSLMode  string `mapstructure:"sslmode"`
	MaxOpen  int    `mapstructure:"max_open"`
	MaxIdle  int    `mapstructure:"max_idle"`
}

// DSN returns the PostgreSQL connection string.
func (d *DBConfig) DSN() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%d/%s?sslmode=%s",
		d.User, d.Password, d.Host, d.Port, d.Name, d.SSLMode,
	)
}

// JWTConfig holds JWT signing and expiry settings.
type JWTConfig struct {
	Secret             string        `mapstructure:"secret"`
	AccessTokenExpiry  time.Duration `mapstructure:"access_expiry"`
	RefreshTokenExpiry time.Duration `mapstructure:"refresh_expiry"`
	Issuer             string        `mapstructure:"issuer"`
}

// S3Config holds object storage settings for archived reports.
type S3Config struct {
	Region        string `mapstructure:"region"`
	Bucket        string `mapstructure:"bucket"`
	Endpoint      string `mapstructure:"endpoint"`
	AccessKey     string `mapstructure:"access_key"`
	SecretKey     string `mapstructure:"secret_key"`
	PresignExpiry int64  `mapstructure:"presign_expiry"`
}

// LogConfig holds logging settings.
type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// ReportConfig holds report export settings.
type ReportConfig struct {
	// ArchiveEnabled turns on POST /reports/archive. It needs working S3
	// credentials.
	ArchiveEnabled bool   `mapstructure:"archive_enabled"`
	KeyPrefix      string `mapstructure:"key_prefix"`
	// RejectOnMismatch makes invoice creation fail when caller-declared
	// totals disagree with computed totals beyond one paisa.
	RejectOnMismatch bool `mapstructure:"reject_on_mismatch"`
	// MaxPeriodDays bounds the span of a single report request.
	MaxPeriodDays int `mapstructure:"max_period_days"`
}

// RateLimitConfig throttles the unauthenticated auth endpoints.
type RateLimitConfig struct {
	AuthRPS   float64 `mapstructure:"auth_rps"`
	AuthBurst int     `mapstructure:"auth_burst"`
}

// Load reads configuration from environment variables with the GSTBILL_
// prefix. A .env file in the working directory, if present, is loaded first;
// variables already set in the environment take precedence over it.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		return nil, fmt.Errorf("loading .env: %w", err)
	}

	v := viper.New()
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Server defaults
	v.SetDefault("server.port", ":8080")
	v.SetDefault("server.read_timeout", "15s")
	v.SetDefault("server.write_timeout", "30s")
	v.SetDefault("server.environment", "development")

	// DB defaults
	v.SetDefault("db.host", "localhost")
	v.SetDefault("db.port", 5432)
	v.SetDefault("db.user", "gstbill")
	v.SetDefault("db.password", "gstbill_secret")
	v.SetDefault("db.name", "gstbill_db")
	v.SetDefault("db.sslmode", "disable")
	v.SetDefault("db.max_open", 25)
	v.SetDefault("db.max_idle", 10)

	// JWT defaults
	v.SetDefault("jwt.secret", "change-me-in-production")
	v.SetDefault("jwt.access_expiry", "15m")
	v.SetDefault("jwt.refresh_expiry", "168h")
	v.SetDefault("jwt.issuer", "gstbill")

	// S3 defaults
	v.SetDefault("s3.region", "ap-south-1")
	v.SetDefault("s3.bucket", "gstbill-reports")
	v.SetDefault("s3.endpoint", "")
	v.SetDefault("s3.presign_expiry", 3600)

	// Log defaults
	v.SetDefault("log.level", "debug")
	v.SetDefault("log.format", "text")

	// CORS defaults (localhost origins for development)
	v.SetDefault("cors.allowed_origins", "http://localhost:3000,http://127.0.0.1:3000")

	// Email defaults
	v.SetDefault("email.provider", "noop")
	v.SetDefault("email.region", "ap-south-1")
	v.SetDefault("email.from_address", "reports@gstbill.local")
	v.SetDefault("email.from_name", "GST Bill")

	// Report defaults
	v.SetDefault("report.archive_enabled", false)
	v.SetDefault("report.key_prefix", "reports")
	v.SetDefault("report.reject_on_mismatch", false)
	v.SetDefault("report.max_period_days", 366)

	// Rate limit defaults
	v.SetDefault("rate.auth_rps", 5)
	v.SetDefault("rate.auth_burst", 10)

	// Bind environment variables explicitly for nested keys
	envBindings := map[string]string{
		"server.port":               "GSTBILL_SERVER_PORT",
		"server.read_timeout":       "GSTBILL_SERVER_READ_TIMEOUT",
		"server.write_timeout":      "GSTBILL_SERVER_WRITE_TIMEOUT",
		"server.environment":        "GSTBILL_SERVER_ENVIRONMENT",
		"db.host":                   "GSTBILL_DB_HOST",
		"db.port":                   "GSTBILL_DB_PORT",
		"db.user":                   "GSTBILL_DB_USER",
		"db.password":               "GSTBILL_DB_PASSWORD",
		"db.name":                   "GSTBILL_DB_NAME",
		"db.sslmode":                "GSTBILL_DB_SSLMODE",
		"db.max_open":               "GSTBILL_DB_MAX_OPEN",
		"db.max_idle":               "GSTBILL_DB_MAX_IDLE",
		"jwt.secret":                "GSTBILL_JWT_SECRET",
		"jwt.access_expiry":         "GSTBILL_JWT_ACCESS_EXPIRY",
		"jwt.refresh_expiry":        "GSTBILL_JWT_REFRESH_EXPIRY",
		"jwt.issuer":                "GSTBILL_JWT_ISSUER",
		"s3.region":                 "GSTBILL_S3_REGION",
		"s3.bucket":                 "GSTBILL_S3_BUCKET",
		"s3.endpoint":               "GSTBILL_S3_ENDPOINT",
		"s3.access_key":             "GSTBILL_S3_ACCESS_KEY",
		"s3.secret_key":             "GSTBILL_S3_SECRET_KEY",
		"s3.presign_expiry":         "GSTBILL_S3_PRESIGN_EXPIRY",
		"log.level":                 "GSTBILL_LOG_LEVEL",
		"log.format":                "GSTBILL_LOG_FORMAT",
		"cors.allowed_origins":      "GSTBILL_CORS_ALLOWED_ORIGINS",
		"email.provider":            "GSTBILL_EMAIL_PROVIDER",
		"email.region":              "GSTBILL_EMAIL_REGION",
		"email.from_address":        "GSTBILL_EMAIL_FROM_ADDRESS",
		"email.from_name":           "GSTBILL_EMAIL_FROM_NAME",
		"report.archive_enabled":    "GSTBILL_REPORT_ARCHIVE_ENABLED",
		"report.key_prefix":         "GSTBILL_REPORT_KEY_PREFIX",
		"report.reject_on_mismatch": "GSTBILL_REPORT_REJECT_ON_MISMATCH",
		"report.max_period_days":    "GSTBILL_REPORT_MAX_PERIOD_DAYS",
		"rate.auth_rps":             "GSTBILL_RATE_AUTH_RPS",
		"rate.auth_burst":           "GSTBILL_RATE_AUTH_BURST",
	}
	for key, env := range envBindings {
		_ = v.BindEnv(key, env)
	}

	cfg := &Config{}

	// PaaS hosts set PORT. Use it unless GSTBILL_SERVER_PORT is set.
	serverPort := v.GetString("server.port")
	if port := os.Getenv("PORT"); port != "" && os.Getenv("GSTBILL_SERVER_PORT") == "" {
		serverPort = ":" + port
	}

	cfg.Server = ServerConfig{
		Port:         serverPort,
		ReadTimeout:  v.GetDuration("server.read_timeout"),
		WriteTimeout: v.GetDuration("server.write_timeout"),
		Environment:  v.GetString("server.environment"),
	}
	cfg.DB = DBConfig{
		Host:     v.GetString("db.host"),
		Port:     v.GetInt("db.port"),
		User:     v.GetString("db.user"),
		Password: v.GetString("db.password"),
		Name:     v.GetString("db.name"),
		SSLMode:  v.GetString("db.sslmode"),
		MaxOpen:  v.GetInt("db.max_open"),
		MaxIdle:  v.GetInt("db.max_idle"),
	}
	cfg.JWT = JWTConfig{
		Secret:             v.GetString("jwt.secret"),
		AccessTokenExpiry:  v.GetDuration("jwt.access_expiry"),
		RefreshTokenExpiry: v.GetDuration("jwt.refresh_expiry"),
		Issuer:             v.GetString("jwt.issuer"),
	}
	cfg.S3 = S3Config{
		Region:        v.GetString("s3.region"),
		Bucket:        v.GetString("s3.bucket"),
		Endpoint:      v.GetString("s3.endpoint"),
		AccessKey:     v.GetString("s3.access_key"),
		SecretKey:     v.GetString("s3.secret_key"),
		PresignExpiry: v.GetInt64("s3.presign_expiry"),
	}
	cfg.Log = LogConfig{
		Level:  v.GetString("log.level"),
		Format: v.GetString("log.format"),
	}
	cfg.CORS = CORSConfig{
		AllowedOrigins: splitList(v.GetString("cors.allowed_origins")),
	}
	cfg.Email = EmailConfig{
		Provider:    v.GetString("email.provider"),
		Region:      v.GetString("email.region"),
		FromAddress: v.GetString("email.from_address"),
		FromName:    v.GetString("email.from_name"),
	}
	cfg.Report = ReportConfig{
		ArchiveEnabled:   v.GetBool("report.archive_enabled"),
		KeyPrefix:        v.GetString("report.key_prefix"),
		RejectOnMismatch: v.GetBool("report.reject_on_mismatch"),
		MaxPeriodDays:    v.GetInt("report.max_period_days"),
	}
	cfg.Rate = RateLimitConfig{
		AuthRPS:   v.GetFloat64("rate.auth_rps"),
		AuthBurst: v.GetInt("rate.auth_burst"),
	}

	if cfg.Server.Environment == "production" && cfg.JWT.Secret == "change-me-in-production" {
		return nil, fmt.Errorf("GSTBILL_JWT_SECRET must be set in production")
	}

	return cfg, nil
}

// splitList parses a comma-separated list, dropping blanks.
func splitList(s string) []string {
	var out []string
	for _, item := range strings.Split(s, ",") {
		item = strings.TrimSpace(item)
		if item != "" {
			out = append(out, item)
		}
	}
	return out
}
