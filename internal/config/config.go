package config

import (
	"errors"
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

const (
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"

	StorageLocal = "local"
	StorageS3    = "s3"
)

type Config struct {
	ServerPort int
	LogLevel   string

	DBDriver    string
	DatabaseURL string

	JWTSecret []byte
	TokenTTL  time.Duration

	AdminEmail    string
	AdminName     string
	AdminPassword string

	StorageDriver      string
	UploadDir          string
	UploadMaxBytes     int64
	UploadSniffContent bool

	S3Bucket   string
	S3Region   string
	S3Key      string
	S3Secret   string
	S3Endpoint string
	S3URL      string

	StaticDir string

	KafkaBrokers []string
	KafkaTopic   string
}

func Load() (Config, error) {
	if err := godotenv.Load(".env"); err != nil {
		log.Printf("notice: .env file not found: %v. Using system environment variables", err)
	}

	ttl, err := EnvDurationDefault("TOKEN_TTL", 0)
	if err != nil {
		return Config{}, err
	}

	cfg := Config{
		ServerPort: EnvIntDefault("SERVER_PORT", 3000),
		LogLevel:   EnvDefault("LOG_LEVEL", "info"),

		DBDriver:    strings.ToLower(EnvDefault("DB_DRIVER", DriverSQLite)),
		DatabaseURL: os.Getenv("DATABASE_URL"),

		JWTSecret: []byte(os.Getenv("JWT_SECRET")),
		TokenTTL:  ttl,

		AdminEmail:    EnvDefault("ADMIN_EMAIL", "admin@kaii.com"),
		AdminName:     EnvDefault("ADMIN_NAME", "Admin KAII"),
		AdminPassword: os.Getenv("ADMIN_PASSWORD"),

		StorageDriver:      strings.ToLower(EnvDefault("STORAGE_DRIVER", StorageLocal)),
		UploadDir:          EnvDefault("UPLOAD_DIR", "uploads"),
		UploadMaxBytes:     int64(EnvIntDefault("UPLOAD_MAX_BYTES", 2<<20)),
		UploadSniffContent: EnvBoolDefault("UPLOAD_SNIFF_CONTENT", false),

		S3Bucket:   os.Getenv("S3_BUCKET"),
		S3Region:   EnvDefault("S3_REGION", "us-east-1"),
		S3Key:      os.Getenv("S3_KEY"),
		S3Secret:   os.Getenv("S3_SECRET"),
		S3Endpoint: os.Getenv("S3_ENDPOINT"),
		S3URL:      os.Getenv("S3_URL"),

		StaticDir: EnvDefault("STATIC_DIR", "public"),

		KafkaBrokers: CSV(os.Getenv("KAFKA_BROKERS")),
		KafkaTopic:   EnvDefault("KAFKA_TOPIC", "order_events"),
	}

	if cfg.DBDriver == DriverSQLite && cfg.DatabaseURL == "" {
		cfg.DatabaseURL = "kaii-store.db"
	}

	return cfg, nil
}

// Validate reports every missing or malformed required setting at once.
func (c Config) Validate() error {
	var errs []error

	if len(c.JWTSecret) == 0 {
		errs = append(errs, missing("JWT_SECRET"))
	}
	if c.AdminPassword == "" {
		errs = append(errs, missing("ADMIN_PASSWORD"))
	}

	switch c.DBDriver {
	case DriverSQLite, DriverPostgres:
		if c.DatabaseURL == "" {
			errs = append(errs, missing("DATABASE_URL"))
		}
	default:
		errs = append(errs, fmt.Errorf("unsupported DB_DRIVER %q", c.DBDriver))
	}

	switch c.StorageDriver {
	case StorageLocal:
		if c.UploadDir == "" {
			errs = append(errs, missing("UPLOAD_DIR"))
		}
	case StorageS3:
		if c.S3Bucket == "" {
			errs = append(errs, missing("S3_BUCKET"))
		}
	default:
		errs = append(errs, fmt.Errorf("unsupported STORAGE_DRIVER %q", c.StorageDriver))
	}

	if c.UploadMaxBytes <= 0 {
		errs = append(errs, errors.New("UPLOAD_MAX_BYTES must be positive"))
	}
	if c.TokenTTL < 0 {
		errs = append(errs, errors.New("TOKEN_TTL must not be negative"))
	}

	return errors.Join(errs...)
}

func (c Config) Addr() string {
	return ":" + strconv.Itoa(c.ServerPort)
}

func missing(name string) error {
	return fmt.Errorf("missing required env %s", name)
}

func CSV(v string) []string {
	if v == "" {
		return nil
	}
	parts := strings.Split(v, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p != "" {
			out = append(out, p)
		}
	}
	return out
}

func EnvDefault(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func EnvIntDefault(key string, def int) int {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return def
	}
	return n
}

func EnvBoolDefault(key string, def bool) bool {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return def
	}
	return b
}

func EnvDurationDefault(key string, def time.Duration) (time.Duration, error) {
	v := os.Getenv(key)
	if v == "" {
		return def, nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return 0, fmt.Errorf("parse %s: %w", key, err)
	}
	return d, nil
}
