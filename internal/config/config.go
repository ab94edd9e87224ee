package config

import (
	"log"
	"os"
	"strconv"
	"time"
)

// Config holds runtime settings read from the environment. Required
// variables are enforced by must(); a missing one stops the process at
// startup rather than failing later mid-request.
type Config struct {
	Env            string // dev / test / prod
	Port           string // HTTP listen port
	DBUser         string
	DBPass         string // empty allowed
	DBHost         string
	DBPort         string
	DBName         string
	JWTSecret      string
	AccessTTLMin   int // access token lifetime in minutes
	RefreshTTLDays int // refresh token lifetime in days
	BcryptCost     int

	AMQPURL string // empty disables status notifications

	SMTPHost string
	SMTPPort string
	SMTPUser string
	SMTPPass string
	SMTPFrom string

	S3Bucket  string
	S3Region  string
	S3BaseURL string // public URL prefix for uploaded objects

	SweepInterval time.Duration // how often completed-event sweep runs
}

// Load reads configuration from environment variables.
func Load() Config {
	return Config{
		Env:            must("APP_ENV"),
		Port:           must("APP_PORT"),
		DBUser:         must("DB_USER"),
		DBPass:         os.Getenv("DB_PASS"),
		DBHost:         must("DB_HOST"),
		DBPort:         must("DB_PORT"),
		DBName:         must("DB_NAME"),
		JWTSecret:      must("JWT_SECRET"),
		AccessTTLMin:   mustInt("ACCESS_TOKEN_TTL_MIN"),
		RefreshTTLDays: mustInt("REFRESH_TOKEN_TTL_DAYS"),
		BcryptCost:     mustInt("BCRYPT_COST"),
		AMQPURL:        os.Getenv("AMQP_URL"),
		SMTPHost:       os.Getenv("SMTP_HOST"),
		SMTPPort:       getenv("SMTP_PORT", "587"),
		SMTPUser:       os.Getenv("SMTP_USER"),
		SMTPPass:       os.Getenv("SMTP_PASS"),
		SMTPFrom:       os.Getenv("SMTP_FROM"),
		S3Bucket:       os.Getenv("S3_BUCKET"),
		S3Region:       os.Getenv("S3_REGION"),
		S3BaseURL:      os.Getenv("S3_BASE_URL"),
		SweepInterval:  envDur("SWEEP_INTERVAL", 5*time.Minute),
	}
}

// must retrieves a required environment variable or exits.
func must(key string) string {
	v, ok := os.LookupEnv(key)
	if !ok || v == "" {
		log.Fatalf("missing required env var: %s", key)
	}
	return v
}

// mustInt is must() with integer conversion.
func mustInt(key string) int {
	s := must(key)
	n, err := strconv.Atoi(s)
	if err != nil {
		log.Fatalf("invalid int for %s: %q", key, s)
	}
	return n
}
