package config

import (
	"log"
	"net"
	"net/url"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

type Config struct {
	Port        string
	DatabaseDSN string

	ClassifierURL string

	GeminiAPIKey string
	GeminiModel  string

	// Optional operator alerting; both must be set to enable it.
	TelegramBotToken string
	AdminChatID      int64

	PendingAlertThreshold int
}

func mustEnv(k string) string {
	v := os.Getenv(k)
	if v == "" {
		log.Fatalf("missing required env %s", k)
	}
	return v
}

func getEnv(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}

func getEnvInt(k string, def int) int {
	if v := strings.TrimSpace(os.Getenv(k)); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
		log.Fatalf("env %s must be an integer, got %q", k, v)
	}
	return def
}

func Load() *Config {
	_ = godotenv.Load()

	cfg := &Config{
		Port:        getEnv("PORT", "8000"),
		DatabaseDSN: resolveDSN(),

		ClassifierURL: mustEnv("CLASSIFIER_URL"),

		GeminiAPIKey: mustEnv("GEMINI_API_KEY"),
		GeminiModel:  getEnv("GEMINI_MODEL", "gemini-2.5-flash"),

		TelegramBotToken: os.Getenv("TELEGRAM_BOT_TOKEN"),

		PendingAlertThreshold: getEnvInt("PENDING_ALERT_THRESHOLD", 5),
	}
	if v := strings.TrimSpace(os.Getenv("ADMIN_CHAT_ID")); v != "" {
		id, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			log.Fatalf("ADMIN_CHAT_ID must be an integer, got %q", v)
		}
		cfg.AdminChatID = id
	}
	return cfg
}

func resolveDSN() string {
	// Prefer DATABASE_URL if provided
	if v := strings.TrimSpace(os.Getenv("DATABASE_URL")); v != "" {
		return v
	}
	// Build DSN from POSTGRES_* / PG* env vars
	user := getEnv("POSTGRES_USER", "civicagent")
	pass := os.Getenv("POSTGRES_PASSWORD")
	host := getEnv("PGHOST", "db")
	port := getEnv("PGPORT", "5432")
	db := getEnv("POSTGRES_DB", "civicagent")

	u := &url.URL{
		Scheme:   "postgres",
		User:     url.UserPassword(user, pass),
		Host:     net.JoinHostPort(host, port),
		Path:     "/" + db,
		RawQuery: "sslmode=disable",
	}
	return u.String()
}
