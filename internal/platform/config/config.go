// Package config builds runtime configuration from environment variables so
// main stays lean. A local .env file is loaded when present.
package config

import (
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config captures everything the process needs at startup.
type Config struct {
	Addr    string
	BaseURL string

	DatabaseURL string
	RedisURL    string

	JWTSigningKey string
	// TokenTTL is the fixed lifetime of issued bearer tokens. The policy is
	// 6h; TOKEN_TTL exists for tests and staging, not for mixing policies.
	TokenTTL time.Duration

	SMTPHost string
	SMTPPort int
	SMTPUser string
	SMTPPass string
	MailFrom string
	// MailQueueSize bounds the in-process mail queue; dispatches beyond it
	// are dropped and logged.
	MailQueueSize int

	// AvatarStorage selects "disk" or "s3".
	AvatarStorage string
	AvatarDir     string
	S3Bucket      string
	S3Region      string
	S3Endpoint    string
}

// FromEnv reads configuration from the environment. Defaults suit local
// development; production must set DATABASE_URL and JWT_SIGNING_KEY.
func FromEnv() Config {
	// Missing .env is fine in production.
	_ = godotenv.Load()

	return Config{
		Addr:    getenv("PHONEBOOK_ADDR", ":3000"),
		BaseURL: getenv("BASE_URL", "http://localhost:3000"),

		DatabaseURL: os.Getenv("DATABASE_URL"),
		RedisURL:    os.Getenv("REDIS_URL"),

		JWTSigningKey: getenv("JWT_SIGNING_KEY", "dev-secret-key-change-in-production"),
		TokenTTL:      getduration("TOKEN_TTL", 6*time.Hour),

		SMTPHost:      os.Getenv("SMTP_HOST"),
		SMTPPort:      getint("SMTP_PORT", 465),
		SMTPUser:      os.Getenv("SMTP_USER"),
		SMTPPass:      os.Getenv("SMTP_PASS"),
		MailFrom:      getenv("MAIL_FROM", "no-reply@phonebook.local"),
		MailQueueSize: getint("MAIL_QUEUE_SIZE", 64),

		AvatarStorage: getenv("AVATAR_STORAGE", "disk"),
		AvatarDir:     getenv("AVATAR_DIR", "public/avatars"),
		S3Bucket:      os.Getenv("S3_BUCKET"),
		S3Region:      getenv("S3_REGION", "us-east-1"),
		S3Endpoint:    os.Getenv("S3_ENDPOINT"),
	}
}

func getenv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getint(key string, fallback int) int {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return fallback
	}
	return n
}

func getduration(key string, fallback time.Duration) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return fallback
	}
	return d
}
