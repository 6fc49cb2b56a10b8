package main

import (
	"context"
	"database/sql"
	"fmt"
	"net"
	"net/http"
	"net/url"
	"os"
	"strings"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib" // pgx driver
	"github.com/sirupsen/logrus"

	"civic-agent/api/internal/admin"
	"civic-agent/api/internal/alert"
	"civic-agent/api/internal/classify"
	"civic-agent/api/internal/config"
	"civic-agent/api/internal/handle"
	"civic-agent/api/internal/pipeline"
	"civic-agent/api/internal/store"
	"civic-agent/api/internal/triage"
)

func main() {
	cfg := config.Load()

	logger := logrus.New()
	logger.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})

	// Prefer platform PORT env var; fallback to cfg.Port
	if p := strings.TrimSpace(os.Getenv("PORT")); p != "" {
		cfg.Port = p
	} else if strings.TrimSpace(cfg.Port) == "" {
		cfg.Port = "8000"
	}

	// --- Postgres ---
	db, err := sql.Open("pgx", cfg.DatabaseDSN)
	if err != nil {
		logger.Fatalf("sql.Open: %v", err)
	}
	db.SetMaxOpenConns(10)
	db.SetMaxIdleConns(10)
	db.SetConnMaxLifetime(1 * time.Hour)

	{
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := db.PingContext(ctx); err != nil {
			logger.Fatalf("db.Ping: %v", err)
		}
		logger.Infof("db connected: %s", safeDSNSummary(cfg.DatabaseDSN))
	}

	repo := store.NewComplaintRepo(db)
	{
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := repo.EnsureSchema(ctx); err != nil {
			logger.Fatalf("ensure schema: %v", err)
		}
	}

	// --- Collaborators ---
	classifier := classify.NewHF(cfg.ClassifierURL)
	engine := triage.NewGemini(cfg.GeminiAPIKey, cfg.GeminiModel)
	pipe := pipeline.New(classifier, engine, repo, logger)
	adm := admin.New(repo)

	var notifier *alert.Notifier
	if cfg.TelegramBotToken != "" && cfg.AdminChatID != 0 {
		notifier, err = alert.New(cfg.TelegramBotToken, cfg.AdminChatID)
		if err != nil {
			logger.Fatalf("telegram notifier: %v", err)
		}
		logger.Info("backlog alerts enabled")
	}

	h := handle.New(pipe, adm, notifier, cfg.PendingAlertThreshold, logger)
	mux := h.Router()
	mux.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()
		if err := db.PingContext(ctx); err != nil {
			w.WriteHeader(http.StatusServiceUnavailable)
			_, _ = w.Write([]byte("db: not ok\n" + err.Error()))
			return
		}
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	addr := "0.0.0.0:" + cfg.Port
	logger.Infof("civic-api listening on %s", addr)
	logger.Fatal(http.ListenAndServe(addr, mux))
}

func safeDSNSummary(dsn string) string {
	u, err := url.Parse(dsn)
	if err != nil {
		return "dsn: parse error"
	}
	user := u.User.Username()
	host := u.Host
	port := ""
	if h, p, err := net.SplitHostPort(u.Host); err == nil {
		host, port = h, p
	}
	db := strings.TrimPrefix(u.Path, "/")
	if port == "" {
		return fmt.Sprintf("host=%s db=%s user=%s", host, db, user)
	}
	return fmt.Sprintf("host=%s port=%s db=%s user=%s", host, port, db, user)
}
