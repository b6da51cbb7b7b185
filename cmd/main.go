package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"runtime"
	"strconv"
	"strings"
	"syscall"
	"time"

	"plaza/auth"
	"plaza/cluster"
	"plaza/metrics"
	"plaza/notify"
	"plaza/realtime"
	"plaza/repositories"
	workers "plaza/runtime/workers"
	"plaza/services"
	"plaza/session"
	"plaza/web"

	"github.com/Netflix/go-env"
	"github.com/dgraph-io/badger/v4"
	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Fatal error: %v\n", err)
		os.Exit(1)
	}
}

// run initializes all components, manages the server lifecycle, and centralizes error reporting.
// Returning an error instead of exiting keeps every defer (database close,
// worker shutdown) on the path out.
func run() error {
	// A .env file is a development convenience, not a requirement.
	_ = godotenv.Load()

	var config Config
	if _, err := env.UnmarshalFromEnviron(&config); err != nil {
		return fmt.Errorf("config error: %w", err)
	}
	log := newLogger(config.LogLevel)

	// The primary in cluster mode only supervises; it spawns one worker
	// per slot and replaces any that dies. Workers carry PLAZA_WORKER
	// and fall through to the server path.
	if cluster.Mode(config.Mode) == cluster.ModeCluster && !cluster.IsWorker() {
		count := config.NumberOfWorkers
		if count <= 0 {
			count = runtime.NumCPU()
		}
		log.Info("Starting primary", "workers", count, "pid", os.Getpid())

		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer stop()
		cluster.NewSupervisor(log, count).Run(ctx)

		log.Info("Primary stopped cleanly")
		return nil
	}

	return runServer(config, log)
}

func runServer(config Config, log *slog.Logger) error {
	// Badger holds an exclusive process lock, so each cluster worker
	// gets its own directory under the configured path. Keyed by slot,
	// not PID: a replacement worker reopens its predecessor's store.
	badgerPath := config.BadgerFilepath
	if cluster.IsWorker() {
		badgerPath = filepath.Join(badgerPath, strconv.Itoa(cluster.Slot()))
	}
	db, err := badger.Open(badger.DefaultOptions(badgerPath).
		WithLoggingLevel(badger.ERROR))
	if err != nil {
		return fmt.Errorf("database opening failed: %w", err)
	}
	defer func() {
		log.Info("Closing BadgerDB...")
		_ = db.Close()
	}()

	// Sessions live in Redis when an address is configured so that any
	// worker can resolve a cookie minted by another; otherwise they are
	// process-local.
	var sessions session.Store
	var sweeper *workers.SessionSweeper
	if config.RedisAddr != "" {
		sessions = session.NewRedisStore(redis.NewClient(&redis.Options{Addr: config.RedisAddr}))
		log.Info("Using Redis session store", "addr", config.RedisAddr)
	} else {
		memory := session.NewMemoryStore()
		sessions = memory
		sweeper = workers.NewSessionSweeper(log, memory, config.SessionSweepInterval)
	}

	m := metrics.New()
	users := repositories.NewUserRepository(db)
	messages := repositories.NewMessageRepository(db, log)
	products := repositories.NewProductRepository(db, log)

	mailer := notify.NewSMTPMailer(
		config.SMTPHost, config.SMTPPort,
		config.SMTPUsername, config.SMTPPassword,
		config.SMTPFrom,
	)
	notifier := notify.NewWorker(log, mailer, config.NotifyBufferSize)

	sup := workers.NewSupervisor(log, config.RestartInterval)
	sup.Add(notifier, workers.NewHeartbeatWorker(log, m, config.MetricInterval))
	if sweeper != nil {
		sup.Add(sweeper)
	}

	authService := services.NewAuthService(
		users, sessions, notifier,
		config.AdminEmail, config.SessionTTL, log,
	)
	hub := realtime.NewHub(log, realtime.NewRegistry(), messages, products, m)

	server := web.NewServer(
		log, authService, sessions,
		auth.NewTokenSigner(config.SessionSecret),
		hub, m,
		config.SessionTTL, config.ConnectionBufferSize,
	)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	go sup.Run(ctx)

	address := fmt.Sprintf("%s:%d", config.Host, config.Port)
	httpServer := &http.Server{
		Addr:    address,
		Handler: server.Router(),
	}

	errChan := make(chan error, 1)
	go func() {
		log.Info("Starting HTTP server", "address", address, "pid", os.Getpid())
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errChan <- fmt.Errorf("http server error: %w", err)
		}
	}()

	select {
	case <-ctx.Done():
		log.Info("Shutting down gracefully...")
	case err := <-errChan:
		return err
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		log.Error("HTTP shutdown", "err", err)
	}
	sup.Stop()

	log.Info("Program stopped cleanly")
	return nil
}

func newLogger(level string) *slog.Logger {
	var l slog.Level
	switch strings.ToLower(level) {
	case "debug":
		l = slog.LevelDebug
	case "warn":
		l = slog.LevelWarn
	case "error":
		l = slog.LevelError
	default:
		l = slog.LevelInfo
	}
	return slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: l}))
}
