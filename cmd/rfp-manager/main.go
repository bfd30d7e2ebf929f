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

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"rfp-pipeline/internal/common/config"
	"rfp-pipeline/internal/common/database"
	"rfp-pipeline/internal/common/logger"
	"rfp-pipeline/internal/common/observability"
	"rfp-pipeline/internal/common/ollama"
	"rfp-pipeline/internal/notify"
	"rfp-pipeline/internal/pipeline/dispatch"
	"rfp-pipeline/internal/pipeline/extract"
	"rfp-pipeline/internal/pipeline/respond"
	"rfp-pipeline/internal/pipeline/score"
	"rfp-pipeline/internal/store"
)

// app bundles the wired pipeline services for the process lifetime.
type app struct {
	store    *store.Store
	extract  *extract.Service
	score    *score.Service
	respond  *respond.Service
	dispatch *dispatch.Coordinator
}

func (a *app) components() []string {
	return []string{"store", "extract", "score", "respond", "dispatch"}
}

// retryWithBackoff attempts to execute a function with exponential backoff
func retryWithBackoff(operation func() error, maxRetries int, initialDelay time.Duration, log *zap.Logger, operationName string) error {
	var err error
	delay := initialDelay

	for i := 0; i < maxRetries; i++ {
		err = operation()
		if err == nil {
			return nil
		}

		if i < maxRetries-1 {
			log.Warn(fmt.Sprintf("%s failed, retrying...", operationName),
				zap.Error(err),
				zap.Int("attempt", i+1),
				zap.Int("maxRetries", maxRetries),
				zap.Duration("nextRetryIn", delay),
			)
			time.Sleep(delay)
			delay *= 2
		}
	}

	return fmt.Errorf("%s failed after %d attempts: %w", operationName, maxRetries, err)
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "config load failed: %v\n", err)
		os.Exit(1)
	}

	zapLog := logger.New(cfg.Logging.Level, cfg.Logging.Format)
	defer zapLog.Sync()
	log := logger.NewZapAdapter(zapLog)

	zapLog.Info("Starting rfp manager...",
		zap.String("environment", cfg.App.Environment),
		zap.String("version", cfg.App.Version),
	)

	obs := observability.New(cfg.App.Name)
	defer obs.Shutdown()

	ctx := context.Background()

	// --- Init PostgreSQL with retry ---
	var pg *database.PostgresClient
	err = retryWithBackoff(func() error {
		var err error
		pg, err = database.NewPostgres(cfg.Database.Postgres)
		if err != nil {
			return err
		}
		return pg.Ping(ctx)
	}, 15, 2*time.Second, zapLog, "PostgreSQL connection")
	if err != nil {
		zapLog.Fatal("postgres failed after retries", zap.Error(err))
	}
	defer pg.Close()
	zapLog.Info("PostgreSQL connected successfully")

	// --- Init Redis with retry ---
	var rdb *database.RedisClient
	err = retryWithBackoff(func() error {
		var err error
		rdb, err = database.NewRedis(cfg.Database.Redis)
		if err != nil {
			return err
		}
		return rdb.Ping(ctx)
	}, 10, 2*time.Second, zapLog, "Redis connection")
	if err != nil {
		zapLog.Fatal("redis failed after retries", zap.Error(err))
	}
	defer rdb.Close()
	zapLog.Info("Redis connected successfully")

	// --- Init mail transport ---
	transport, err := notify.NewTransport(ctx, cfg.Mail, log)
	if err != nil {
		zapLog.Fatal("mail transport init failed", zap.Error(err))
	}
	zapLog.Info("Mail transport initialized", zap.String("provider", cfg.Mail.Provider))

	// --- Wire pipeline services ---
	llm := ollama.NewClient(cfg.Ollama)

	st := store.New(pg.GetDB(), log)
	if err := st.EnsureSchema(ctx); err != nil {
		zapLog.Fatal("schema bootstrap failed", zap.Error(err))
	}

	extractSvc := extract.NewService(
		&extract.Config{Timeout: cfg.Ollama.Timeout},
		llm, obs, log,
	)
	scoreSvc := score.NewService(
		&score.Config{
			Timeout:  cfg.Ollama.Timeout,
			CacheTTL: cfg.Pipeline.ComparisonCacheTTL,
		},
		llm, rdb.Client, obs, log,
	)
	respondSvc := respond.NewService(extractSvc, st, scoreSvc, log)
	coordinator := dispatch.NewCoordinator(
		&dispatch.Config{
			SendTimeout: cfg.Pipeline.DispatchSendTimeout,
			AppLink:     cfg.App.BaseURL,
		},
		st, st, transport, obs, log,
	)

	application := &app{
		store:    st,
		extract:  extractSvc,
		score:    scoreSvc,
		respond:  respondSvc,
		dispatch: coordinator,
	}
	zapLog.Info("Pipeline services initialized",
		zap.Strings("components", application.components()),
	)

	// --- Health & Metrics Server ---
	go func() {
		http.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
			status := "healthy"
			code := http.StatusOK
			if err := pg.Ping(r.Context()); err != nil {
				status = "degraded"
				code = http.StatusServiceUnavailable
			}
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(code)
			json.NewEncoder(w).Encode(map[string]string{"status": status})
		})
		http.Handle("/metrics", promhttp.Handler())
		zapLog.Info("Health/Metrics server listening", zap.String("addr", cfg.App.MetricsAddr))
		if err := http.ListenAndServe(cfg.App.MetricsAddr, nil); err != nil {
			zapLog.Error("Health/Metrics server failed", zap.Error(err))
		}
	}()

	// --- Graceful Shutdown ---
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	<-sigCh

	zapLog.Info("Shutdown signal received, stopping...")
}
