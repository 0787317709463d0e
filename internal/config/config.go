package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/labstack/gommon/random"
)

// Config holds every environment-driven setting of the portal
type Config struct {
	Port        int
	DatabaseURL string

	JWTSecret       string
	JWTGenerated    bool
	AccessTokenTTL  time.Duration
	RefreshTokenTTL time.Duration

	Redis   RedisConfig
	Storage StorageConfig

	MirrorRefreshInterval time.Duration
}

// RedisConfig contains connection settings for the token store
type RedisConfig struct {
	Addr     string
	Password string
	DB       int
}

// StorageConfig selects and configures the document blob store
type StorageConfig struct {
	Driver        string // "minio" or "s3"
	Bucket        string
	PublicBaseURL string

	MinioEndpoint  string
	MinioAccessKey string
	MinioSecretKey string
	MinioUseSSL    bool

	AWSRegion string
}

const (
	DriverMinio = "minio"
	DriverS3    = "s3"
)

// Load reads .env (when present) and the process environment
func Load() (*Config, error) {
	// for development
	//nolint:errcheck
	godotenv.Load()

	cfg := &Config{
		DatabaseURL:           os.Getenv("DATABASE_URL"),
		JWTSecret:             os.Getenv("JWT_SECRET"),
		AccessTokenTTL:        durationEnv("ACCESS_TOKEN_TTL", 15*time.Minute),
		RefreshTokenTTL:       durationEnv("REFRESH_TOKEN_TTL", 7*24*time.Hour),
		MirrorRefreshInterval: durationEnv("MIRROR_REFRESH_INTERVAL", 5*time.Minute),
	}

	if cfg.DatabaseURL == "" {
		return nil, fmt.Errorf("DATABASE_URL environment variable is required")
	}

	if cfg.JWTSecret == "" {
		// Generate random secret for development
		cfg.JWTSecret = random.String(32)
		cfg.JWTGenerated = true
	}

	port, err := strconv.Atoi(stringEnv("PORT", "8080"))
	if err != nil {
		return nil, fmt.Errorf("invalid PORT: %w", err)
	}
	cfg.Port = port

	cfg.Redis = RedisConfig{
		Addr:     stringEnv("REDIS_ADDR", "localhost:6379"),
		Password: os.Getenv("REDIS_PASSWORD"),
	}
	if dbStr := os.Getenv("REDIS_DB"); dbStr != "" {
		if db, err := strconv.Atoi(dbStr); err == nil {
			cfg.Redis.DB = db
		}
	}

	cfg.Storage = StorageConfig{
		Driver:         strings.ToLower(stringEnv("STORAGE_DRIVER", DriverMinio)),
		Bucket:         stringEnv("STORAGE_BUCKET", "product-documents"),
		PublicBaseURL:  os.Getenv("STORAGE_PUBLIC_BASE_URL"),
		MinioEndpoint:  stringEnv("MINIO_ENDPOINT", "localhost:9000"),
		MinioAccessKey: stringEnv("MINIO_ACCESS_KEY", "minioadmin"),
		MinioSecretKey: stringEnv("MINIO_SECRET_KEY", "minioadmin"),
		MinioUseSSL:    os.Getenv("MINIO_USE_SSL") == "true",
		AWSRegion:      stringEnv("AWS_REGION", os.Getenv("AWS_DEFAULT_REGION")),
	}

	switch cfg.Storage.Driver {
	case DriverMinio:
		if cfg.Storage.PublicBaseURL == "" {
			scheme := "http"
			if cfg.Storage.MinioUseSSL {
				scheme = "https"
			}
			cfg.Storage.PublicBaseURL = scheme + "://" + cfg.Storage.MinioEndpoint
		}
	case DriverS3:
		if cfg.Storage.AWSRegion == "" {
			cfg.Storage.AWSRegion = "us-east-1"
		}
		if cfg.Storage.PublicBaseURL == "" {
			cfg.Storage.PublicBaseURL = fmt.Sprintf("https://s3.%s.amazonaws.com", cfg.Storage.AWSRegion)
		}
	default:
		return nil, fmt.Errorf("unknown STORAGE_DRIVER %q", cfg.Storage.Driver)
	}

	return cfg, nil
}

func stringEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func durationEnv(key string, fallback time.Duration) time.Duration {
	if s := os.Getenv(key); s != "" {
		if d, err := time.ParseDuration(s); err == nil {
			return d
		}
	}
	return fallback
}
