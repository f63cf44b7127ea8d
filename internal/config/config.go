package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds all application configuration.
type Config struct {
	Server ServerConfig
	DB     DBConfig
	S3     S3Config
	OCR    OCRConfig
	Email  EmailConfig
	JWT    JWTConfig
	Ingest IngestConfig
	Log    LogConfig
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

// S3Config holds object storage settings.
type S3Config struct {
	Region        string `mapstructure:"region"`
	Bucket        string `mapstructure:"bucket"`
	Endpoint      string `mapstructure:"endpoint"`
	AccessKey     string `mapstructure:"access_key"`
	SecretKey     string `mapstructure:"secret_key"`
	MaxFileSizeMB int64  `mapstructure:"max_file_size_mb"`
	PresignExpiry int64  `mapstructure:"presign_expiry"`
}

// OCRConfig holds receipt analyzer settings. Provider "azure" targets the
// Azure Document Intelligence prebuilt-receipt model; "noop" disables OCR.
type OCRConfig struct {
	Provider    string `mapstructure:"provider"`
	Endpoint    string `mapstructure:"endpoint"`
	APIKey      string `mapstructure:"api_key"`
	TimeoutSecs int    `mapstructure:"timeout_secs"`
}

// EmailConfig holds email delivery settings.
type EmailConfig struct {
	Provider    string `mapstructure:"provider"`
	Region      string `mapstructure:"region"`
	FromAddress string `mapstructure:"from_address"`
	FromName    string `mapstructure:"from_name"`
}

// JWTConfig holds JWT signing and expiry settings.
type JWTConfig struct {
	Secret            string        `mapstructure:"secret"`
	AccessTokenExpiry time.Duration `mapstructure:"access_expiry"`
	Issuer            string        `mapstructure:"issuer"`
}

// IngestConfig holds directory-watch ingest settings for kvitto-ingestd.
type IngestConfig struct {
	WatchDir   string        `mapstructure:"watch_dir"`
	OwnerEmail string        `mapstructure:"owner_email"`
	Debounce   time.Duration `mapstructure:"debounce"`
}

// LogConfig holds logging settings.
type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// Load reads configuration from environment variables with the KVITTO_ prefix.
func Load() (*Config, error) {
	v := viper.New()
	v.SetEnvPrefix("KVITTO")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Server defaults
	v.SetDefault("server.port", ":8080")
	v.SetDefault("server.read_timeout", "15s")
	v.SetDefault("server.write_timeout", "15s")
	v.SetDefault("server.environment", "development")

	// DB defaults
	v.SetDefault("db.host", "localhost")
	v.SetDefault("db.port", 5432)
	v.SetDefault("db.user", "kvitto")
	v.SetDefault("db.password", "kvitto_secret")
	v.SetDefault("db.name", "kvitto_db")
	v.SetDefault("db.sslmode", "disable")
	v.SetDefault("db.max_open", 25)
	v.SetDefault("db.max_idle", 10)

	// S3 defaults
	v.SetDefault("s3.region", "eu-central-1")
	v.SetDefault("s3.bucket", "kvitto-uploads")
	v.SetDefault("s3.endpoint", "")
	v.SetDefault("s3.max_file_size_mb", 20)
	v.SetDefault("s3.presign_expiry", 3600)

	// OCR defaults
	v.SetDefault("ocr.provider", "noop")
	v.SetDefault("ocr.endpoint", "")
	v.SetDefault("ocr.api_key", "")
	v.SetDefault("ocr.timeout_secs", 60)

	// Email defaults
	v.SetDefault("email.provider", "noop")
	v.SetDefault("email.region", "eu-central-1")
	v.SetDefault("email.from_address", "noreply@kvitto.app")
	v.SetDefault("email.from_name", "Kvitto")

	// JWT defaults
	v.SetDefault("jwt.secret", "change-me-in-production")
	v.SetDefault("jwt.access_expiry", "12h")
	v.SetDefault("jwt.issuer", "kvitto")

	// Ingest defaults
	v.SetDefault("ingest.watch_dir", "")
	v.SetDefault("ingest.owner_email", "")
	v.SetDefault("ingest.debounce", "2s")

	// Log defaults
	v.SetDefault("log.level", "debug")
	v.SetDefault("log.format", "console")

	// Bind environment variables explicitly for nested keys
	envBindings := map[string]string{
		"server.port":          "KVITTO_SERVER_PORT",
		"server.read_timeout":  "KVITTO_SERVER_READ_TIMEOUT",
		"server.write_timeout": "KVITTO_SERVER_WRITE_TIMEOUT",
		"server.environment":   "KVITTO_SERVER_ENVIRONMENT",
		"db.host":              "KVITTO_DB_HOST",
		"db.port":              "KVITTO_DB_PORT",
		"db.user":              "KVITTO_DB_USER",
		"db.password":          "KVITTO_DB_PASSWORD",
		"db.name":              "KVITTO_DB_NAME",
		"db.sslmode":           "KVITTO_DB_SSLMODE",
		"db.max_open":          "KVITTO_DB_MAX_OPEN",
		"db.max_idle":          "KVITTO_DB_MAX_IDLE",
		"s3.region":            "KVITTO_S3_REGION",
		"s3.bucket":            "KVITTO_S3_BUCKET",
		"s3.endpoint":          "KVITTO_S3_ENDPOINT",
		"s3.access_key":        "KVITTO_S3_ACCESS_KEY",
		"s3.secret_key":        "KVITTO_S3_SECRET_KEY",
		"s3.max_file_size_mb":  "KVITTO_S3_MAX_FILE_SIZE_MB",
		"s3.presign_expiry":    "KVITTO_S3_PRESIGN_EXPIRY",
		"ocr.provider":         "KVITTO_OCR_PROVIDER",
		"ocr.endpoint":         "KVITTO_OCR_ENDPOINT",
		"ocr.api_key":          "KVITTO_OCR_API_KEY",
		"ocr.timeout_secs":     "KVITTO_OCR_TIMEOUT_SECS",
		"email.provider":       "KVITTO_EMAIL_PROVIDER",
		"email.region":         "KVITTO_EMAIL_REGION",
		"email.from_address":   "KVITTO_EMAIL_FROM_ADDRESS",
		"email.from_name":      "KVITTO_EMAIL_FROM_NAME",
		"jwt.secret":           "KVITTO_JWT_SECRET",
		"jwt.access_expiry":    "KVITTO_JWT_ACCESS_EXPIRY",
		"jwt.issuer":           "KVITTO_JWT_ISSUER",
		"ingest.watch_dir":     "KVITTO_INGEST_WATCH_DIR",
		"ingest.owner_email":   "KVITTO_INGEST_OWNER_EMAIL",
		"ingest.debounce":      "KVITTO_INGEST_DEBOUNCE",
		"log.level":            "KVITTO_LOG_LEVEL",
		"log.format":           "KVITTO_LOG_FORMAT",
	}
	for key, env := range envBindings {
		_ = v.BindEnv(key, env)
	}

	cfg := &Config{}

	// Railway/Heroku/Render set a PORT env var. Use it if KVITTO_SERVER_PORT
	// is not explicitly set.
	serverPort := v.GetString("server.port")
	if port := os.Getenv("PORT"); port != "" && os.Getenv("KVITTO_SERVER_PORT") == "" {
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
	cfg.S3 = S3Config{
		Region:        v.GetString("s3.region"),
		Bucket:        v.GetString("s3.bucket"),
		Endpoint:      v.GetString("s3.endpoint"),
		AccessKey:     v.GetString("s3.access_key"),
		SecretKey:     v.GetString("s3.secret_key"),
		MaxFileSizeMB: v.GetInt64("s3.max_file_size_mb"),
		PresignExpiry: v.GetInt64("s3.presign_expiry"),
	}
	cfg.OCR = OCRConfig{
		Provider:    v.GetString("ocr.provider"),
		Endpoint:    v.GetString("ocr.endpoint"),
		APIKey:      v.GetString("ocr.api_key"),
		TimeoutSecs: v.GetInt("ocr.timeout_secs"),
	}
	cfg.Email = EmailConfig{
		Provider:    v.GetString("email.provider"),
		Region:      v.GetString("email.region"),
		FromAddress: v.GetString("email.from_address"),
		FromName:    v.GetString("email.from_name"),
	}
	cfg.JWT = JWTConfig{
		Secret:            v.GetString("jwt.secret"),
		AccessTokenExpiry: v.GetDuration("jwt.access_expiry"),
		Issuer:            v.GetString("jwt.issuer"),
	}
	cfg.Ingest = IngestConfig{
		WatchDir:   v.GetString("ingest.watch_dir"),
		OwnerEmail: v.GetString("ingest.owner_email"),
		Debounce:   v.GetDuration("ingest.debounce"),
	}
	cfg.Log = LogConfig{
		Level:  v.GetString("log.level"),
		Format: v.GetString("log.format"),
	}

	return cfg, nil
}
