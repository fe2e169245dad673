package main

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/hibiken/asynq"
	_ "github.com/lib/pq"
	"github.com/redis/go-redis/v9"
	_ "modernc.org/sqlite"

	agendaFeed "github.com/m04kA/SMC-SalonBookingService/internal/api/handlers/agenda_feed"
	"github.com/m04kA/SMC-SalonBookingService/internal/api/middleware"
	"github.com/m04kA/SMC-SalonBookingService/internal/config"
	"github.com/m04kA/SMC-SalonBookingService/internal/domain"
	"github.com/m04kA/SMC-SalonBookingService/internal/events"
	"github.com/m04kA/SMC-SalonBookingService/internal/infra/sessions"
	"github.com/m04kA/SMC-SalonBookingService/internal/infra/storage/memory"
	"github.com/m04kA/SMC-SalonBookingService/internal/infra/storage/migrations"
	slotRepo "github.com/m04kA/SMC-SalonBookingService/internal/infra/storage/slot"
	"github.com/m04kA/SMC-SalonBookingService/internal/integrations/catalogcache"
	"github.com/m04kA/SMC-SalonBookingService/internal/integrations/fixtures"
	"github.com/m04kA/SMC-SalonBookingService/internal/integrations/notifications"
	salonServiceClient "github.com/m04kA/SMC-SalonBookingService/internal/integrations/salonservice"
	slotsService "github.com/m04kA/SMC-SalonBookingService/internal/service/slots"
	"github.com/m04kA/SMC-SalonBookingService/internal/usecase/agenda"
	bookingWizardUC "github.com/m04kA/SMC-SalonBookingService/internal/usecase/booking_wizard"
	computeAvailabilityUC "github.com/m04kA/SMC-SalonBookingService/internal/usecase/compute_availability"
	"github.com/m04kA/SMC-SalonBookingService/pkg/dbmetrics"
	"github.com/m04kA/SMC-SalonBookingService/pkg/logger"
	"github.com/m04kA/SMC-SalonBookingService/pkg/metrics"
	"github.com/m04kA/SMC-SalonBookingService/pkg/psqlbuilder"
	"github.com/m04kA/SMC-SalonBookingService/pkg/txmanager"
)

// slotStore общий контракт хранилищ слотов (память и SQL)
type slotStore interface {
	GetSlots(ctx context.Context, q domain.SlotQuery) ([]*domain.Slot, error)
	GetByID(ctx context.Context, id string) (*domain.Slot, error)
	TrySetStatus(ctx context.Context, change domain.StatusChange) (*domain.Slot, error)
}

type salonCatalog interface {
	GetSalon(ctx context.Context, salonID int64) (*domain.Salon, error)
}

type sessionStore interface {
	Create(ctx context.Context, session *domain.WizardSession) error
	Update(ctx context.Context, session *domain.WizardSession) error
	Get(ctx context.Context, id string) (*domain.WizardSession, error)
	Delete(ctx context.Context, id string) error
}

type clockFunc func() time.Time

func (f clockFunc) Now() time.Time {
	return f()
}

// App собранный граф зависимостей сервиса
type App struct {
	cfg     *config.Config
	log     *logger.Logger
	metrics *metrics.Metrics

	catalog  salonCatalog
	slots    slotStore
	sessions sessionStore
	bus      *events.Bus
	hub      *agendaFeed.Hub
	limiter  *middleware.RateLimiter

	availability *computeAvailabilityUC.UseCase
	slotService  *slotsService.Service
	wizard       *bookingWizardUC.UseCase
	agenda       *agenda.UseCase

	closers []func() error
}

// appOption настройка сборки App
type appOption func(*appOptions)

type appOptions struct {
	now     func() time.Time
	metrics *metrics.Metrics
}

func withClock(now func() time.Time) appOption {
	return func(o *appOptions) { o.now = now }
}

func withMetrics(m *metrics.Metrics) appOption {
	return func(o *appOptions) { o.metrics = m }
}

// newApp собирает сервис; источник данных выбирается один раз по cfg.DataSource
func newApp(ctx context.Context, cfg *config.Config, log *logger.Logger, opts ...appOption) (*App, error) {
	options := appOptions{now: time.Now}
	for _, opt := range opts {
		opt(&options)
	}

	app := &App{cfg: cfg, log: log, metrics: options.metrics}
	if app.metrics == nil && cfg.Metrics.Enabled {
		app.metrics = metrics.New(cfg.Metrics.ServiceName)
		log.Info("Metrics enabled at %s", cfg.Metrics.Path)
	}

	// Источник данных
	switch cfg.DataSource {
	case config.DataSourcePersistent:
		if err := app.initPersistent(ctx); err != nil {
			app.Close()
			return nil, err
		}
	default:
		if err := app.initFixtures(); err != nil {
			return nil, err
		}
	}

	// Сессии мастера
	if err := app.initSessions(); err != nil {
		app.Close()
		return nil, err
	}

	// События: лента agenda и уведомления
	app.bus = events.NewBus(log)
	app.hub = agendaFeed.NewHub(log)
	app.bus.Subscribe("agenda_feed", app.hub)
	app.closers = append(app.closers, func() error {
		app.hub.Close()
		return nil
	})
	if cfg.Queue.Enabled {
		app.initNotifications()
	}

	if cfg.RateLimit.Enabled {
		app.limiter = middleware.NewRateLimiter(cfg.RateLimit.RequestsPerSecond, cfg.RateLimit.Burst, app.metrics)
	}

	// Use cases
	clock := clockFunc(options.now)
	app.availability = computeAvailabilityUC.NewUseCase(
		app.slots,
		app.catalog,
		computeAvailabilityUC.Settings{
			HorizonDays:      cfg.Booking.HorizonDays,
			StepMinutes:      cfg.Booking.StepMinutes,
			MinNoticeMinutes: cfg.Booking.MinNoticeMinutes,
		},
		log,
	).WithTimeProvider(clock)

	app.slotService = slotsService.NewService(
		app.slots,
		app.catalog,
		app.availability,
		app.bus,
		app.metrics,
		log,
	).WithClock(options.now)

	app.wizard = bookingWizardUC.NewUseCase(
		app.sessions,
		app.catalog,
		app.availability,
		app.slotService,
		app.metrics,
		log,
	).WithTimeProvider(clock)

	app.agenda = agenda.NewUseCase(app.slots, app.catalog, app.slotService, log)

	return app, nil
}

func (a *App) initFixtures() error {
	catalog := fixtures.Demo()
	if a.cfg.Fixtures.File != "" {
		loaded, err := fixtures.Load(a.cfg.Fixtures.File)
		if err != nil {
			return fmt.Errorf("load fixtures %s: %w", a.cfg.Fixtures.File, err)
		}
		catalog = loaded
		a.log.Info("Fixture catalog loaded from %s", a.cfg.Fixtures.File)
	} else {
		a.log.Info("Using built-in demo catalog")
	}

	a.catalog = catalog
	a.slots = memory.NewSlotStore()
	return nil
}

func (a *App) initPersistent(ctx context.Context) error {
	db, dialect, err := openDatabase(ctx, a.cfg.Database)
	if err != nil {
		return err
	}
	a.closers = append(a.closers, db.Close)
	a.log.Info("Successfully connected to database (driver=%s)", dialect)

	runner, err := migrations.NewRunner(db, dialect, a.log)
	if err != nil {
		return fmt.Errorf("load migrations: %w", err)
	}
	applied, err := runner.Apply(ctx)
	if err != nil {
		return fmt.Errorf("apply migrations: %w", err)
	}
	a.log.Info("Database schema is up to date (applied=%d)", applied)

	stopStats := make(chan struct{})
	a.closers = append(a.closers, func() error {
		close(stopStats)
		return nil
	})

	var wrapped *dbmetrics.DB
	if a.metrics != nil {
		wrapped = dbmetrics.WrapWithDefault(db, a.metrics, a.cfg.Metrics.ServiceName, stopStats)
		a.log.Info("Database metrics collection started")
	} else {
		wrapped = dbmetrics.Wrap(db, nil, a.cfg.Metrics.ServiceName)
	}

	var txOpts []txmanager.Option
	if dialect == psqlbuilder.SQLite {
		txOpts = append(txOpts, txmanager.WithoutIsolationLevels())
	}
	a.slots = slotRepo.NewRepository(
		wrapped,
		txmanager.NewTransactionManager(wrapped, txOpts...),
		psqlbuilder.ForDialect(dialect),
	)

	client := salonServiceClient.NewClient(
		a.cfg.SalonService.URL,
		time.Duration(a.cfg.SalonService.Timeout)*time.Second,
		a.log,
	)
	a.catalog = catalogcache.New(
		client,
		a.cfg.SalonService.CacheSize,
		time.Duration(a.cfg.SalonService.CacheTTLSeconds)*time.Second,
		a.log,
	)
	a.log.Info("Salon catalog client initialized (url=%s, timeout=%ds, cache=%d)",
		a.cfg.SalonService.URL, a.cfg.SalonService.Timeout, a.cfg.SalonService.CacheSize)
	return nil
}

func (a *App) initSessions() error {
	ttl := time.Duration(a.cfg.Sessions.TTLSeconds) * time.Second

	if a.cfg.Sessions.Store != config.SessionStoreRedis {
		a.sessions = sessions.NewMemoryStore(ttl)
		return nil
	}

	client := a.redisClient()
	a.sessions = sessions.NewRedisStore(client, a.cfg.Sessions.KeyPrefix, ttl)
	a.log.Info("Redis session store initialized (addr=%s, ttl=%s)", a.cfg.Redis.Addr, ttl)
	return nil
}

func (a *App) redisClient() *redis.Client {
	client := redis.NewClient(&redis.Options{
		Addr:     a.cfg.Redis.Addr,
		Password: a.cfg.Redis.Password,
		DB:       a.cfg.Redis.DB,
	})
	a.closers = append(a.closers, client.Close)
	return client
}

func (a *App) initNotifications() {
	client := asynq.NewClient(asynq.RedisClientOpt{
		Addr:     a.cfg.Redis.Addr,
		Password: a.cfg.Redis.Password,
		DB:       a.cfg.Redis.DB,
	})
	a.closers = append(a.closers, client.Close)

	a.bus.Subscribe("notifications", notifications.NewNotifier(client, a.cfg.Queue.Name, a.cfg.Queue.MaxRetry, a.log))
	a.log.Info("Notification queue enabled (queue=%s, max_retry=%d)", a.cfg.Queue.Name, a.cfg.Queue.MaxRetry)
}

// Close освобождает ресурсы в обратном порядке
func (a *App) Close() {
	for i := len(a.closers) - 1; i >= 0; i-- {
		if err := a.closers[i](); err != nil {
			a.log.Warn("Failed to release resource: %v", err)
		}
	}
	a.closers = nil
}

// openDatabase открывает БД выбранного драйвера и проверяет соединение
func openDatabase(ctx context.Context, cfg config.DatabaseConfig) (*sql.DB, psqlbuilder.Dialect, error) {
	dialect, err := psqlbuilder.ParseDialect(cfg.Driver)
	if err != nil {
		return nil, "", err
	}

	if dialect == psqlbuilder.SQLite {
		if dir := filepath.Dir(cfg.Path); dir != "." {
			if err := os.MkdirAll(dir, 0o755); err != nil {
				return nil, "", fmt.Errorf("create database dir: %w", err)
			}
		}
	}

	db, err := sql.Open(string(dialect), cfg.DSN())
	if err != nil {
		return nil, "", fmt.Errorf("open database: %w", err)
	}

	// Настраиваем connection pool; SQLite пишет через одно соединение
	if dialect == psqlbuilder.SQLite {
		db.SetMaxOpenConns(1)
	} else {
		db.SetMaxOpenConns(cfg.MaxOpenConns)
		db.SetMaxIdleConns(cfg.MaxIdleConns)
		db.SetConnMaxLifetime(time.Duration(cfg.ConnMaxLifetime) * time.Second)
	}

	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, "", fmt.Errorf("ping database: %w", err)
	}
	return db, dialect, nil
}
