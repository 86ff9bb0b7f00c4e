// internal/infra/config/config.go
package config

import (
	"log"
	"os"
	"strings"

	"github.com/joho/godotenv"
)

// Config holds application-wide environment settings.
type Config struct {
	Port string

	// Postgres
	DBHost     string
	DBPort     string
	DBUser     string
	DBPassword string
	DBName     string

	MigrationsDir string

	// GCP (Firestore settings doc, Firebase Auth, Secret Manager)
	GCPProjectID    string
	GCPCreds        string // GOOGLE_APPLICATION_CREDENTIALS
	FirebaseProject string

	// Secret Manager secret names (optional; plain env values win when set)
	SendGridKeySecret string
	DBPasswordSecret  string

	// Mail
	SendGridAPIKey string
	MailFrom       string

	// Redis catalog cache (optional; empty addr disables caching)
	RedisAddr     string
	RedisPassword string

	// Guest session cookie
	GuestCookieName   string
	GuestCookieMaxAge int // seconds
}

const defaultGuestCookieMaxAge = 30 * 24 * 60 * 60 // 30 days

// Load reads environment variables into a Config.
// A local .env file is loaded first when present (dev convenience).
func Load() *Config {
	if err := godotenv.Load(); err == nil {
		log.Printf("[config] .env loaded")
	}

	defaultProject := getenvDefault("GCP_PROJECT_ID", "")

	cfg := &Config{
		Port: getenvDefault("PORT", "8080"),

		DBHost:     getenvDefault("DB_HOST", "localhost"),
		DBPort:     getenvDefault("DB_PORT", "5432"),
		DBUser:     getenvDefault("DB_USER", "voltmart"),
		DBPassword: os.Getenv("DB_PASSWORD"),
		DBName:     getenvDefault("DB_NAME", "voltmart"),

		MigrationsDir: getenvDefault("MIGRATIONS_DIR", "migrations"),

		GCPProjectID:    defaultProject,
		GCPCreds:        os.Getenv("GOOGLE_APPLICATION_CREDENTIALS"),
		FirebaseProject: getenvDefault("FIREBASE_PROJECT_ID", defaultProject),

		SendGridKeySecret: os.Getenv("SENDGRID_KEY_SECRET"),
		DBPasswordSecret:  os.Getenv("DB_PASSWORD_SECRET"),

		SendGridAPIKey: os.Getenv("SENDGRID_API_KEY"),
		MailFrom:       getenvDefault("MAIL_FROM", "orders@voltmart.example"),

		RedisAddr:     os.Getenv("REDIS_ADDR"),
		RedisPassword: os.Getenv("REDIS_PASSWORD"),

		GuestCookieName:   getenvDefault("GUEST_COOKIE_NAME", "vm_guest_session"),
		GuestCookieMaxAge: defaultGuestCookieMaxAge,
	}

	return cfg
}

// HasFirebase reports whether Firebase Auth can be initialized.
func (c *Config) HasFirebase() bool {
	return strings.TrimSpace(c.FirebaseProject) != ""
}

func getenvDefault(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}
