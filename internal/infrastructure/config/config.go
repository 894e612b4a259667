package config

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/sethvargo/go-envconfig"

	"github.com/sixcities/rental-api/internal/core/service"
)

// DevJWTSecret is used when JWT_SECRET is unset outside production.
const DevJWTSecret = "six-cities-dev-secret"

const (
	EnvDevelopment = "development"
	EnvProduction  = "production"
	EnvTest        = "test"
)

const (
	UploadDriverLocal = "local"
	UploadDriverS3    = "s3"
)

type Config struct {
	Port     string `env:"PORT,      default=8080"`
	Env      string `env:"ENV,       default=development"`
	LogLevel string `env:"LOG_LEVEL, default=info"`

	Auth   AuthConfig
	Mongo  MongoConfig
	Redis  RedisConfig
	Stats  StatsConfig
	Upload UploadConfig
}

type AuthConfig struct {
	JWTSecret        string        `env:"JWT_SECRET"`
	JWTExpiresIn     string        `env:"JWT_EXPIRES_IN,     default=24h"`
	PasswordCost     int           `env:"PASSWORD_COST,      default=10"`
	LoginMaxAttempts int64         `env:"LOGIN_MAX_ATTEMPTS, default=5"`
	LoginLockout     time.Duration `env:"LOGIN_LOCKOUT,      default=15m"`
}

type MongoConfig struct {
	URI      string `env:"MONGO_URI, default=mongodb://localhost:27017"`
	Database string `env:"MONGO_DB,  default=six-cities"`
}

type RedisConfig struct {
	Addr string `env:"REDIS_ADDR, default=localhost:6379"`
	DB   int    `env:"REDIS_DB,   default=0"`
}

type StatsConfig struct {
	Workers int `env:"STATS_WORKERS, default=4"`
}

type UploadConfig struct {
	Driver   string `env:"UPLOAD_DRIVER,    default=local"`
	Dir      string `env:"UPLOAD_DIR,       default=./upload"`
	MaxBytes int64  `env:"UPLOAD_MAX_BYTES, default=5242880"`

	S3Bucket    string `env:"S3_BUCKET"`
	S3Region    string `env:"S3_REGION, default=us-east-1"`
	S3Endpoint  string `env:"S3_ENDPOINT"`
	S3AccessKey string `env:"S3_ACCESS_KEY"`
	S3SecretKey string `env:"S3_SECRET_KEY"`
	S3PublicURL string `env:"S3_PUBLIC_URL"`
}

// IsProduction reports whether the service runs with production settings.
func (c *Config) IsProduction() bool {
	return c.Env == EnvProduction
}

// Load reads an optional .env file and then the process environment.
// Values already present in the environment win over the file.
func Load(ctx context.Context, envFiles ...string) (*Config, error) {
	if len(envFiles) == 0 {
		envFiles = []string{".env"}
	}
	for _, f := range envFiles {
		if err := godotenv.Load(f); err != nil && !errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("config: load %s: %w", f, err)
		}
	}
	return LoadFrom(ctx, envconfig.OsLookuper())
}

// LoadFrom processes configuration from an arbitrary lookuper and validates it.
func LoadFrom(ctx context.Context, lookuper envconfig.Lookuper) (*Config, error) {
	var cfg Config
	if err := envconfig.ProcessWith(ctx, &envconfig.Config{Target: &cfg, Lookuper: lookuper}); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	if cfg.Auth.JWTSecret == "" && !cfg.IsProduction() {
		cfg.Auth.JWTSecret = DevJWTSecret
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate rejects settings the service cannot start with.
func (c *Config) Validate() error {
	var errs []error

	switch c.Env {
	case EnvDevelopment, EnvProduction, EnvTest:
	default:
		errs = append(errs, fmt.Errorf("ENV must be one of development, production, test (got %q)", c.Env))
	}

	if c.IsProduction() && (c.Auth.JWTSecret == "" || c.Auth.JWTSecret == DevJWTSecret) {
		errs = append(errs, errors.New("JWT_SECRET must be set to a non-default value in production"))
	}
	if c.Auth.JWTSecret == "" {
		errs = append(errs, errors.New("JWT_SECRET is empty"))
	}
	if _, err := service.ParseExpiration(c.Auth.JWTExpiresIn); err != nil {
		errs = append(errs, fmt.Errorf("JWT_EXPIRES_IN: %w", err))
	}
	if c.Auth.LoginMaxAttempts < 1 {
		errs = append(errs, errors.New("LOGIN_MAX_ATTEMPTS must be at least 1"))
	}
	if c.Auth.LoginLockout <= 0 {
		errs = append(errs, errors.New("LOGIN_LOCKOUT must be positive"))
	}
	if c.Stats.Workers < 1 {
		errs = append(errs, errors.New("STATS_WORKERS must be at least 1"))
	}
	if c.Upload.MaxBytes <= 0 {
		errs = append(errs, errors.New("UPLOAD_MAX_BYTES must be positive"))
	}

	switch c.Upload.Driver {
	case UploadDriverLocal:
		if c.Upload.Dir == "" {
			errs = append(errs, errors.New("UPLOAD_DIR is required for the local upload driver"))
		}
	case UploadDriverS3:
		if c.Upload.S3Bucket == "" {
			errs = append(errs, errors.New("S3_BUCKET is required for the s3 upload driver"))
		}
	default:
		errs = append(errs, fmt.Errorf("UPLOAD_DRIVER must be %q or %q (got %q)", UploadDriverLocal, UploadDriverS3, c.Upload.Driver))
	}

	return errors.Join(errs...)
}
