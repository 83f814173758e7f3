package config

import (
	"fmt"
	"log"
	"net"
	"net/url"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

const (
	CacheBackendRedis  = "redis"
	CacheBackendMemory = "memory"

	AssetHostCloudinary = "cloudinary"
	AssetHostMinio      = "minio"
	AssetHostNone       = "none"

	localEnvFile = ".env.local"
)

type Config struct {
	Env              string
	Port             string
	DatabaseHost     string
	DatabasePort     string
	DatabaseUser     string
	DatabasePassword string
	DatabaseName     string
	RedisHost        string
	RedisPort        string
	RedisPassword    string
	CacheBackend     string
	CacheTTL         time.Duration
	JWTSecret        string
	JWTIssuer        string
	AssetHost        string
	CloudinaryURL    string
	MinioEndpoint    string
	MinioAccessKey   string
	MinioSecretKey   string
	MinioBucket      string
	MinioUseSSL      bool
	LogFile          string
}

// Load reads the configuration from the environment. With APP_ENV=local the
// variables in .env.local are loaded first; variables already set win.
func Load() (*Config, error) {
	appEnv := getenv("APP_ENV", "development")
	if appEnv == "local" {
		if err := godotenv.Load(localEnvFile); err != nil {
			log.Printf("Warning: %s not loaded: %v. Relying on system environment variables.", localEnvFile, err)
		}
	}

	cfg := &Config{
		Env:              appEnv,
		Port:             getenv("APP_PORT", "8080"),
		DatabaseHost:     getenv("POSTGRES_HOST", "localhost"),
		DatabasePort:     getenv("POSTGRES_PORT", "5432"),
		DatabaseUser:     os.Getenv("POSTGRES_USER"),
		DatabasePassword: os.Getenv("POSTGRES_PASSWORD"),
		DatabaseName:     os.Getenv("POSTGRES_DB"),
		RedisHost:        getenv("REDIS_HOST", "localhost"),
		RedisPort:        getenv("REDIS_PORT", "6379"),
		RedisPassword:    os.Getenv("REDIS_PASSWORD"),
		CacheBackend:     getenv("CACHE_BACKEND", CacheBackendRedis),
		JWTSecret:        os.Getenv("AUTH_JWT_SECRET"),
		JWTIssuer:        os.Getenv("AUTH_JWT_ISSUER"),
		AssetHost:        getenv("ASSET_HOST", AssetHostNone),
		CloudinaryURL:    os.Getenv("CLOUDINARY_URL"),
		MinioEndpoint:    os.Getenv("MINIO_ENDPOINT"),
		MinioAccessKey:   os.Getenv("MINIO_ACCESS_KEY"),
		MinioSecretKey:   os.Getenv("MINIO_SECRET_KEY"),
		MinioBucket:      os.Getenv("MINIO_BUCKET"),
		LogFile:          getenv("LOG_FILE", "app.log"),
	}

	// CACHE_TTL=0 turns response caching off.
	ttl, err := time.ParseDuration(getenv("CACHE_TTL", "30m"))
	if err != nil {
		return nil, fmt.Errorf("config: invalid CACHE_TTL: %w", err)
	}
	if ttl < 0 {
		return nil, fmt.Errorf("config: invalid CACHE_TTL: %s is negative", ttl)
	}
	cfg.CacheTTL = ttl

	if raw := os.Getenv("MINIO_USE_SSL"); raw != "" {
		useSSL, err := strconv.ParseBool(raw)
		if err != nil {
			return nil, fmt.Errorf("config: invalid MINIO_USE_SSL: %w", err)
		}
		cfg.MinioUseSSL = useSSL
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) validate() error {
	switch c.CacheBackend {
	case CacheBackendRedis, CacheBackendMemory:
	default:
		return fmt.Errorf("config: unknown CACHE_BACKEND %q, want %s or %s", c.CacheBackend, CacheBackendRedis, CacheBackendMemory)
	}

	switch c.AssetHost {
	case AssetHostNone:
	case AssetHostCloudinary:
		if c.CloudinaryURL == "" {
			return fmt.Errorf("config: ASSET_HOST=%s needs CLOUDINARY_URL", AssetHostCloudinary)
		}
	case AssetHostMinio:
		if c.MinioEndpoint == "" || c.MinioBucket == "" {
			return fmt.Errorf("config: ASSET_HOST=%s needs MINIO_ENDPOINT and MINIO_BUCKET", AssetHostMinio)
		}
	default:
		return fmt.Errorf("config: unknown ASSET_HOST %q", c.AssetHost)
	}

	if _, err := strconv.Atoi(c.Port); err != nil {
		return fmt.Errorf("config: invalid APP_PORT %q", c.Port)
	}
	return nil
}

func (c *Config) DatabaseURL() string {
	u := url.URL{
		Scheme:   "postgres",
		User:     url.UserPassword(c.DatabaseUser, c.DatabasePassword),
		Host:     net.JoinHostPort(c.DatabaseHost, c.DatabasePort),
		Path:     c.DatabaseName,
		RawQuery: "sslmode=disable",
	}
	return u.String()
}

func (c *Config) RedisAddr() string {
	return net.JoinHostPort(c.RedisHost, c.RedisPort)
}

func getenv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
