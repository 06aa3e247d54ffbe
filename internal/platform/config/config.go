package config

import (
	"os"
	"time"
)

// Server captures process-level configuration. Per-key runtime settings
// (gateway secret, branding) live in the settings store, not here.
type Server struct {
	Addr        string
	DatabaseURL string
	RedisURL    string

	// Session tokens issued at admin login.
	JWTSigningKey string
	SessionTTL    time.Duration

	// Bootstrap credentials accepted until an admin password is stored.
	BootstrapPassword string

	// Outbound notification (Mailgun). Empty values disable sending.
	MailgunAPIKey string
	MailgunDomain string
	NotifyTo      string

	// Payment gateway verification endpoint; overridable for tests.
	PaystackBaseURL string
}

// FromEnv builds a Server config from environment variables so main stays lean.
func FromEnv() Server {
	cfg := Server{
		Addr:              getenv("MANGONET_ADDR", ":8080"),
		DatabaseURL:       os.Getenv("DATABASE_URL"),
		RedisURL:          os.Getenv("REDIS_URL"),
		JWTSigningKey:     getenv("JWT_SIGNING_KEY", "dev-secret-key-change-in-production"),
		BootstrapPassword: getenv("ADMIN_BOOTSTRAP_PASSWORD", "MangoNet@2026"),
		MailgunAPIKey:     os.Getenv("MAILGUN_API_KEY"),
		MailgunDomain:     os.Getenv("MAILGUN_DOMAIN"),
		NotifyTo:          getenv("NOTIFY_TO", "support@mangonetonline.com"),
		PaystackBaseURL:   getenv("PAYSTACK_BASE_URL", "https://api.paystack.co"),
	}

	cfg.SessionTTL = 12 * time.Hour
	if raw := os.Getenv("SESSION_TTL"); raw != "" {
		if d, err := time.ParseDuration(raw); err == nil {
			cfg.SessionTTL = d
		}
	}
	return cfg
}

func getenv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
