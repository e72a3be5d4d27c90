package factory

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/mcoot/sportsched/internal/archive"
	"github.com/mcoot/sportsched/internal/config"
	"github.com/mcoot/sportsched/internal/dependencies/clock"
	"github.com/mcoot/sportsched/internal/dependencies/ids"
	"github.com/mcoot/sportsched/internal/jobs"
	"github.com/mcoot/sportsched/internal/metrics"
	"github.com/mcoot/sportsched/internal/model"
	"github.com/mcoot/sportsched/internal/services/activity"
	"github.com/mcoot/sportsched/internal/services/assignment"
	"github.com/mcoot/sportsched/internal/services/auth"
	"github.com/mcoot/sportsched/internal/services/export"
	"github.com/mcoot/sportsched/internal/services/game"
	"github.com/mcoot/sportsched/internal/services/location"
	"github.com/mcoot/sportsched/internal/services/official"
	"github.com/mcoot/sportsched/internal/services/report"
	"github.com/mcoot/sportsched/internal/services/user"
	"github.com/mcoot/sportsched/internal/storage"
	"github.com/mcoot/sportsched/internal/storage/memory"
	"github.com/mcoot/sportsched/internal/storage/postgres"
	redisstorage "github.com/mcoot/sportsched/internal/storage/redis"
	"github.com/mcoot/sportsched/internal/storage/sqlite"
	"github.com/mcoot/sportsched/internal/validation"
)

// Storage type constants
const (
	StorageTypeMemory   = config.StorageMemory
	StorageTypeRedis    = config.StorageRedis
	StorageTypeSQLite   = config.StorageSQLite
	StorageTypePostgres = config.StoragePostgres
)

// SessionCleanupJob names the periodic session sweep
const SessionCleanupJob = "session_cleanup"

// App contains all wired application components
type App struct {
	// Storage
	Storage storage.Storage

	// External dependencies
	Clock clock.Clock
	IDs   ids.Generator

	// Shared collaborators
	Validator *validation.Validator
	Recorder  *activity.Recorder
	Metrics   *metrics.Metrics
	Archive   archive.Store
	Jobs      *jobs.Scheduler

	// Services
	Locations   *location.Service
	Officials   *official.Service
	Games       *game.Service
	Users       *user.Service
	Assignments *assignment.Controller
	Auth        *auth.Service
	Reports     *report.Service
	Exports     *export.Service

	logger *slog.Logger
}

// BootstrapAdmin is the superadmin created on first start
type BootstrapAdmin struct {
	Username string
	Password string
}

// Config holds configuration for the application factory
type Config struct {
	// Logger is the application logger (optional)
	// If nil, a no-op logger is used
	Logger *slog.Logger
	// StorageType selects the storage backend
	// If empty, defaults to "memory"
	StorageType string
	// RedisConfig holds Redis connection settings (required if StorageType is "redis")
	RedisConfig *redisstorage.Config
	// SQLitePath is the database file (used if StorageType is "sqlite")
	SQLitePath string
	// PostgresConfig holds PostgreSQL settings (required if StorageType is "postgres")
	PostgresConfig *postgres.Config
	// DeletePolicy decides how deletes treat dependents
	// If empty, defaults to block
	DeletePolicy model.DeletePolicy
	// Assignments configures the assignment controller
	Assignments assignment.Config
	// AuthConfig holds configuration for the auth service (optional)
	// If zero value, defaults to auth.DefaultConfig()
	AuthConfig auth.Config
	// Archive enables uploading exports to S3 (optional)
	Archive *archive.S3Config
	// SessionCleanupInterval is how often expired sessions are dropped
	// If zero, defaults to 10 minutes
	SessionCleanupInterval time.Duration
	// Bootstrap creates a superadmin when no users exist (optional)
	Bootstrap *BootstrapAdmin
}

// ConfigFromSettings maps environment settings onto the factory config
func ConfigFromSettings(s *config.Config, logger *slog.Logger) Config {
	cfg := Config{
		Logger:                 logger,
		StorageType:            s.StorageType,
		SQLitePath:             s.SQLitePath,
		DeletePolicy:           s.DeletePolicy,
		Assignments:            assignment.Config{EnforceOfficialsNeeded: s.EnforceOfficialsNeeded},
		AuthConfig:             auth.Config{SessionDuration: s.SessionDuration},
		SessionCleanupInterval: s.SessionCleanupInterval,
	}

	switch s.StorageType {
	case StorageTypeRedis:
		redisCfg := redisstorage.DefaultConfig()
		redisCfg.URL = s.RedisURL
		cfg.RedisConfig = &redisCfg
	case StorageTypePostgres:
		pgCfg := postgres.DefaultConfig()
		pgCfg.URL = s.DatabaseURL
		cfg.PostgresConfig = &pgCfg
	}

	if s.ExportBucket != "" {
		cfg.Archive = &archive.S3Config{
			Bucket:          s.ExportBucket,
			Prefix:          s.ExportPrefix,
			Region:          s.ExportRegion,
			Endpoint:        s.ExportS3Endpoint,
			AccessKeyID:     s.ExportAccessKey,
			SecretAccessKey: s.ExportSecretKey,
		}
	}

	if s.BootstrapAdminPassword != "" {
		cfg.Bootstrap = &BootstrapAdmin{
			Username: s.BootstrapAdminUsername,
			Password: s.BootstrapAdminPassword,
		}
	}
	return cfg
}

// New creates a new application with all dependencies wired
func New(ctx context.Context, cfg Config) (*App, error) {
	// Use no-op logger if not provided
	logger := cfg.Logger
	if logger == nil {
		logger = slog.New(slog.NewJSONHandler(io.Discard, nil))
	}

	store, err := openStorage(ctx, cfg, logger)
	if err != nil {
		return nil, err
	}

	var archiveStore archive.Store
	if cfg.Archive != nil {
		s3Store, err := archive.NewS3Store(ctx, *cfg.Archive)
		if err != nil {
			_ = store.Close()
			return nil, fmt.Errorf("export archive: %w", err)
		}
		archiveStore = s3Store
	}

	// Use default auth config if not provided
	authCfg := cfg.AuthConfig
	if authCfg.SessionDuration == 0 {
		authCfg = auth.DefaultConfig()
	}

	policy := cfg.DeletePolicy
	if policy == "" {
		policy = model.DeleteBlock
	}

	app := newWithDependencies(store, clock.New(), ids.New(), archiveStore, policy, cfg.Assignments, authCfg, logger)

	interval := cfg.SessionCleanupInterval
	if interval <= 0 {
		interval = 10 * time.Minute
	}
	if err := app.startJobs(interval); err != nil {
		_ = app.Close()
		return nil, err
	}

	if cfg.Bootstrap != nil {
		created, err := app.Users.EnsureBootstrapAdmin(ctx, cfg.Bootstrap.Username, cfg.Bootstrap.Password)
		if err != nil {
			_ = app.Close()
			return nil, fmt.Errorf("bootstrap admin: %w", err)
		}
		if created {
			logger.Info("bootstrap superadmin created", slog.String("username", cfg.Bootstrap.Username))
		}
	}

	return app, nil
}

func openStorage(ctx context.Context, cfg Config, logger *slog.Logger) (storage.Storage, error) {
	storageType := cfg.StorageType
	if storageType == "" {
		storageType = StorageTypeMemory
	}

	switch storageType {
	case StorageTypeMemory:
		return memory.New(), nil
	case StorageTypeRedis:
		if cfg.RedisConfig == nil {
			return nil, errors.New("RedisConfig required when StorageType is redis")
		}
		return redisstorage.New(*cfg.RedisConfig)
	case StorageTypeSQLite:
		return sqlite.New(cfg.SQLitePath)
	case StorageTypePostgres:
		if cfg.PostgresConfig == nil {
			return nil, errors.New("PostgresConfig required when StorageType is postgres")
		}
		return postgres.New(ctx, *cfg.PostgresConfig, logger)
	default:
		return nil, errors.New("invalid StorageType: must be 'memory', 'redis', 'sqlite' or 'postgres'")
	}
}

// newWithDependencies creates an App with the given dependencies (useful for testing).
// archiveStore may be nil, in which case exports cannot be archived.
func newWithDependencies(
	store storage.Storage,
	clk clock.Clock,
	gen ids.Generator,
	archiveStore archive.Store,
	policy model.DeletePolicy,
	assignmentCfg assignment.Config,
	authCfg auth.Config,
	logger *slog.Logger,
) *App {
	validator := validation.New()
	recorder := activity.NewRecorder(clk, gen)
	m := metrics.New()

	// Create services
	locations := location.New(store, validator, recorder, clk, gen, policy, logger)
	officials := official.New(store, validator, recorder, clk, gen, policy, logger)
	games := game.New(store, validator, recorder, clk, gen, policy, logger)
	users := user.New(store, validator, recorder, clk, gen, logger)
	assignments := assignment.NewController(store, validator, recorder, clk, gen, logger, assignmentCfg).
		WithObserver(m)
	authService := auth.New(store, recorder, clk, gen, logger, authCfg)
	reports := report.New(store, clk)
	exports := export.New(locations, officials, games, users, assignments, archiveStore, clk, logger)

	m.RegisterGauge("active_sessions", "Number of unexpired login sessions.", func() float64 {
		return float64(authService.ActiveSessions())
	})

	return &App{
		Storage:     store,
		Clock:       clk,
		IDs:         gen,
		Validator:   validator,
		Recorder:    recorder,
		Metrics:     m,
		Archive:     archiveStore,
		Locations:   locations,
		Officials:   officials,
		Games:       games,
		Users:       users,
		Assignments: assignments,
		Auth:        authService,
		Reports:     reports,
		Exports:     exports,
		logger:      logger,
	}
}

func (a *App) startJobs(interval time.Duration) error {
	sched, err := jobs.NewScheduler(a.logger, a.Metrics)
	if err != nil {
		return err
	}
	if err := sched.Every(SessionCleanupJob, interval, jobs.CleanSessions(a.Auth, a.logger)); err != nil {
		_ = sched.Shutdown()
		return err
	}
	sched.Start()
	a.Jobs = sched
	return nil
}

// Close stops background jobs and releases the storage backend
func (a *App) Close() error {
	var errs []error
	if a.Jobs != nil {
		if err := a.Jobs.Shutdown(); err != nil {
			errs = append(errs, fmt.Errorf("stop jobs: %w", err))
		}
	}
	if err := a.Storage.Close(); err != nil {
		errs = append(errs, fmt.Errorf("close storage: %w", err))
	}
	return errors.Join(errs...)
}
