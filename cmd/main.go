// hhscout collector-service
//
// Telegram bot that collects hh.ru vacancies into Excel workbooks:
//   - /parse asks for a profession and starts a windowed collection run
//   - progress bar and filler phrases edited into the chat
//   - result delivered as an .xlsx document, removed after upload
//
// Health and Prometheus metrics are served over HTTP.
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"hhscout/collector-service/internal/bot"
	"hhscout/collector-service/internal/collector"
	"hhscout/collector-service/internal/config"
	"hhscout/collector-service/internal/db"
	"hhscout/collector-service/internal/hh"
	"hhscout/collector-service/internal/janitor"
	"hhscout/collector-service/internal/metrics"
	"hhscout/collector-service/internal/notify"
	"hhscout/collector-service/internal/report"
	"hhscout/collector-service/internal/session"
)

const version = "1.0.0"

func main() {
	// .env is optional; deployments usually pass variables directly.
	_ = godotenv.Load()

	// ── Config ──────────────────────────────────────────────────────────────
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "config error: %v\n", err)
		os.Exit(1)
	}

	log, err := newLogger(cfg.LogLevel)
	if err != nil {
		fmt.Fprintf(os.Stderr, "logger error: %v\n", err)
		os.Exit(1)
	}
	defer log.Sync()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// ── Sessions ─────────────────────────────────────────────────────────────
	var sessions session.Store = session.NewMemoryStore()
	if cfg.RedisURL != "" {
		rdb, err := db.NewRedisClient(ctx, cfg.RedisURL)
		if err != nil {
			log.Fatal("redis connection failed", zap.Error(err))
		}
		defer rdb.Close()
		sessions = session.NewRedisStore(rdb)
		log.Info("redis connected")
	} else {
		log.Info("REDIS_URL not set, dialog sessions are in-memory")
	}

	// ── Telegram ─────────────────────────────────────────────────────────────
	api, err := tgbotapi.NewBotAPI(cfg.BotToken)
	if err != nil {
		log.Fatal("telegram authorization failed", zap.Error(err))
	}
	log.Info("telegram authorized", zap.String("username", api.Self.UserName))

	// ── Collection engine ────────────────────────────────────────────────────
	m := metrics.New(prometheus.DefaultRegisterer)
	client := hh.NewClient(cfg.HHBaseURL, 0, log)
	builder := report.NewBuilder(cfg.ReportDir, log)
	notifier := notify.NewTelegramNotifier(api)
	engine := collector.NewEngine(collector.Config{}, client, builder, notifier, m, log)

	tgBot := bot.New(api, engine, sessions, notifier, bot.Config{
		AreaID:     cfg.AreaID,
		WindowDays: cfg.WindowDays,
		ChunkDays:  cfg.ChunkDays,
	}, log)

	// ── Janitor ──────────────────────────────────────────────────────────────
	sweeper, err := janitor.New(cfg.ReportDir,
		time.Duration(cfg.ReportMaxAgeHours)*time.Hour, cfg.CleanupIntervalHours, log)
	if err != nil {
		log.Fatal("janitor setup failed", zap.Error(err))
	}
	sweeper.Start()

	// ── HTTP server ──────────────────────────────────────────────────────────
	mux := http.NewServeMux()
	mux.HandleFunc("/health", healthHandler)
	mux.Handle("/metrics", promhttp.Handler())

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%s", cfg.Port),
		Handler:      mux,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
	}

	go func() {
		log.Info("http listening", zap.String("port", cfg.Port))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("http server error", zap.Error(err))
		}
	}()

	go tgBot.Run(ctx)

	// ── Graceful shutdown ────────────────────────────────────────────────────
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("shutting down")
	cancel() // stops the polling loop and cancels in-flight runs

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Warn("http shutdown error", zap.Error(err))
	}

	engine.Wait()
	sweeper.Stop()
	log.Info("stopped")
}

func newLogger(level string) (*zap.Logger, error) {
	lvl, err := zap.ParseAtomicLevel(level)
	if err != nil {
		return nil, fmt.Errorf("invalid LOG_LEVEL %q: %w", level, err)
	}
	cfg := zap.NewProductionConfig()
	cfg.Level = lvl
	return cfg.Build()
}

func healthHandler(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(map[string]string{
		"status":  "ok",
		"service": "collector-service",
		"version": version,
	})
}
