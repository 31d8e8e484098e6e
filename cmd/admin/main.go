package main

import (
	"context"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/fekuna/omnipos-admin-console/config"
	"github.com/fekuna/omnipos-admin-console/internal/auth"
	"github.com/fekuna/omnipos-admin-console/internal/backend"
	"github.com/fekuna/omnipos-admin-console/internal/journal"
	journalRepoPkg "github.com/fekuna/omnipos-admin-console/internal/journal/repository"
	"github.com/fekuna/omnipos-admin-console/internal/logger"
	"github.com/fekuna/omnipos-admin-console/internal/metrics"
	"github.com/fekuna/omnipos-admin-console/internal/optimistic"
	"github.com/fekuna/omnipos-admin-console/internal/render"
	"github.com/jmoiron/sqlx"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// app holds what every command shares. Use cases are built per command so
// each screen gets its own state.
type app struct {
	cfg      *config.Config
	logger   logger.ZapLogger
	session  *auth.Session
	client   *backend.Client
	registry *prometheus.Registry
	metrics  *metrics.Mutations
	recorder *journal.Recorder
	observer optimistic.Observer
	redis    *redis.Client
	journal  *sqlx.DB
}

func main() {
	// 1. Load Configuration
	_ = godotenv.Load() // Load .env file if it exists
	cfg := config.LoadEnv()

	// 2. Initialize Logger
	logConfig := &logger.ZapLoggerConfig{
		IsDevelopment:     false,
		Encoding:          cfg.Logger.Encoding,
		Level:             cfg.Logger.Level,
		DisableCaller:     cfg.Logger.DisableCaller,
		DisableStacktrace: cfg.Logger.DisableStacktrace,
	}
	if cfg.Server.AppEnv == "development" {
		logConfig.IsDevelopment = true
		logConfig.Level = "debug"
	}
	appLogger := logger.NewZapLogger(logConfig)
	defer appLogger.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	a, err := newApp(ctx, cfg, appLogger)
	if err != nil {
		render.Error(os.Stderr, err)
		appLogger.Sync()
		os.Exit(1)
	}
	defer a.close()

	root := a.rootCommand()
	if err := root.ExecuteContext(auth.WithSession(ctx, a.session)); err != nil {
		render.Error(root.ErrOrStderr(), err)
		a.close()
		appLogger.Sync()
		os.Exit(1)
	}
}

func newApp(ctx context.Context, cfg *config.Config, log logger.ZapLogger) (*app, error) {
	a := &app{
		cfg:      cfg,
		logger:   log,
		registry: prometheus.NewRegistry(),
	}

	// 3. Session and backend client
	a.session = auth.NewSession(auth.NewFileTokenStore(cfg.Session.StateDir), log)
	a.client = backend.NewClient(cfg.Backend.BaseURL, cfg.Backend.Timeout, a.session, log)

	// 4. Mutation observers
	a.metrics = metrics.NewMutations(a.registry)
	observers := optimistic.Observers{a.metrics}
	if cfg.Journal.Enabled {
		if err := a.openJournal(ctx); err != nil {
			// the console works without a journal
			log.Warn("Could not open mutation journal", zap.Error(err))
		} else {
			observers = append(observers, a.recorder)
		}
	}
	a.observer = observers

	// 5. Initialize Redis
	if cfg.Redis.Enabled {
		a.redis = redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		if err := a.redis.Ping(ctx).Err(); err != nil {
			log.Warn("Could not connect to Redis, product lists are not cached", zap.Error(err))
			_ = a.redis.Close()
			a.redis = nil
		} else {
			log.Debug("Connected to Redis", zap.String("addr", cfg.Redis.Addr))
		}
	}
	return a, nil
}

func (a *app) openJournal(ctx context.Context) error {
	dsn := a.cfg.Journal.DSN
	if dsn != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(dsn), 0o700); err != nil {
			return err
		}
	}
	db, err := journalRepoPkg.NewSQLite(dsn)
	if err != nil {
		return err
	}
	repo := journalRepoPkg.NewSQLRepository(db)
	if err := repo.Migrate(ctx); err != nil {
		_ = db.Close()
		return err
	}
	a.journal = db
	a.recorder = journal.NewRecorder(repo, a.logger)
	return nil
}

func (a *app) close() {
	if a.redis != nil {
		_ = a.redis.Close()
		a.redis = nil
	}
	if a.journal != nil {
		_ = a.journal.Close()
		a.journal = nil
	}
}
