package config

import (
	"fmt"
	"strings"

	"github.com/caarlos0/env/v11"
)

type Config struct {
	AppPort       string `env:"APP_PORT,notEmpty" envDefault:"8080"`
	AppBaseURL    string `env:"APP_BASE_URL" envDefault:"http://localhost:8080"`
	DBDriver      string `env:"DB_DRIVER" envDefault:"postgres"`
	DBDSN         string `env:"DB_DSN,required,notEmpty"`
	JWTSecret     string `env:"JWT_SECRET,required,notEmpty"`
	JWTExpiresMin int    `env:"JWT_EXPIRES_MIN" envDefault:"10080"`
	CookieSecure  bool   `env:"COOKIE_SECURE" envDefault:"false"`
	CORSOrigins   string `env:"CORS_ORIGINS" envDefault:"http://localhost:3000"`

	GoogleClientID  string `env:"GOOGLE_CLIENT_ID"`
	GoogleSecret    string `env:"GOOGLE_CLIENT_SECRET"`
	GoogleRedirect  string `env:"GOOGLE_REDIRECT_URL"`
	FrontendBaseURL string `env:"FRONTEND_BASE_URL" envDefault:"http://localhost:3000"`

	RedisAddr     string `env:"REDIS_ADDR"`
	RedisPassword string `env:"REDIS_PASSWORD"`
	RedisDB       int    `env:"REDIS_DB" envDefault:"0"`

	UploadDir       string `env:"UPLOAD_DIR" envDefault:"./uploads"`
	S3Bucket        string `env:"S3_BUCKET"`
	S3Region        string `env:"S3_REGION" envDefault:"us-east-1"`
	S3Endpoint      string `env:"S3_ENDPOINT"`
	S3AccessKey     string `env:"S3_ACCESS_KEY"`
	S3SecretKey     string `env:"S3_SECRET_KEY"`
	S3PublicBaseURL string `env:"S3_PUBLIC_BASE_URL"`

	SubscriptionFee  int64 `env:"SUBSCRIPTION_FEE" envDefault:"300"`
	SubscriptionDays int   `env:"SUBSCRIPTION_DAYS" envDefault:"30"`

	AdminUsername string `env:"ADMIN_USERNAME"`
	AdminPassword string `env:"ADMIN_PASSWORD"`
}

// Load reads the configuration from the process environment.
func Load() (Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}

	cfg.DBDriver = strings.ToLower(strings.TrimSpace(cfg.DBDriver))
	switch cfg.DBDriver {
	case "postgres", "mysql", "sqlite":
	default:
		return Config{}, fmt.Errorf("unsupported DB_DRIVER %q", cfg.DBDriver)
	}
	if cfg.SubscriptionFee <= 0 {
		return Config{}, fmt.Errorf("SUBSCRIPTION_FEE must be positive")
	}
	if cfg.SubscriptionDays <= 0 {
		return Config{}, fmt.Errorf("SUBSCRIPTION_DAYS must be positive")
	}
	return cfg, nil
}

// UseS3 reports whether uploads should go to an S3 bucket instead of disk.
func (c Config) UseS3() bool {
	return c.S3Bucket != ""
}
