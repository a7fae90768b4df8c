package app

import (
	"context"
	"database/sql"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"

	"bootd/internal/config"
	"bootd/internal/container"
	"bootd/internal/journal"
	"bootd/internal/platform/logger"
	"bootd/internal/platform/pg"
	"bootd/internal/platform/sqlite"
)

// Component names.
const (
	compStore    = "store"
	compJournal  = "journal"
	compPostgres = "postgres"
	compRouter   = "router"
)

// App wires application components.
type App struct {
	cfg config.Config
	log *slog.Logger
	reg *container.Registry
}

// New loads configuration and creates the App.
func New() (*App, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	log := logger.New(logger.Options{
		Env:          cfg.Env,
		ConsoleLevel: cfg.Log.ConsoleLevel,
		FileLevel:    cfg.Log.FileLevel,
		File:         cfg.Log.File,
		App:          "bootd",
	})
	return NewWithConfig(cfg, log), nil
}

// NewWithConfig creates an App from an already validated configuration.
func NewWithConfig(cfg config.Config, log *slog.Logger) *App {
	return &App{cfg: cfg, log: log, reg: container.New()}
}

// Logger returns the application logger.
func (a *App) Logger() *slog.Logger {
	return a.log
}

// Run starts the application and blocks until SIGINT or SIGTERM.
func (a *App) Run() error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	srv, err := a.Start(ctx)
	if err != nil {
		return err
	}
	<-ctx.Done()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return a.Stop(shutdownCtx, srv)
}

// Start creates the components, records the boot and starts serving.
// On error every component created so far is closed again.
func (a *App) Start(ctx context.Context) (srv *Server, err error) {
	a.log.Info("starting")
	defer func() {
		if err != nil {
			_ = a.reg.Close()
		}
	}()

	if err := a.register(); err != nil {
		return nil, err
	}

	j, err := container.Get[*journal.Journal](ctx, a.reg, compJournal)
	if err != nil {
		return nil, err
	}
	router, err := container.Get[*gin.Engine](ctx, a.reg, compRouter)
	if err != nil {
		return nil, err
	}

	srv, err = Listen(a.cfg.HTTP.Addr, router, a.log)
	if err != nil {
		return nil, err
	}

	id, err := j.Record(ctx, journal.Boot{
		StartedAt: time.Now(),
		Addr:      srv.Addr(),
		Env:       a.cfg.Env,
		PID:       os.Getpid(),
	})
	if err != nil {
		_ = srv.Shutdown(context.Background())
		return nil, err
	}

	a.log.Info("started", slog.String("addr", srv.Addr()), slog.Int64("boot", id))
	return srv, nil
}

// Stop shuts the server down and closes all components.
func (a *App) Stop(ctx context.Context, srv *Server) error {
	a.log.Info("stopping")
	err := srv.Shutdown(ctx)
	if cerr := a.reg.Close(); err == nil {
		err = cerr
	}
	return err
}

func (a *App) register() error {
	if err := a.reg.Register(compStore, nil, a.newStore); err != nil {
		return err
	}
	if err := a.reg.Register(compJournal, []string{compStore}, newJournal); err != nil {
		return err
	}

	routerDeps := []string{compJournal}
	if a.cfg.Postgres.DSN != "" {
		if err := a.reg.Register(compPostgres, nil, a.newPostgres); err != nil {
			return err
		}
		routerDeps = append(routerDeps, compPostgres)
	}
	return a.reg.Register(compRouter, routerDeps, a.newRouter)
}

func (a *App) newStore(ctx context.Context, _ *container.Registry) (any, error) {
	// Open first: it creates the parent directory the migrator expects.
	db, err := sqlite.Open(ctx, a.cfg.Store.Path, sqlite.DefaultOptions())
	if err != nil {
		return nil, err
	}
	version, err := journal.Migrate(a.cfg.Store.Path)
	if err != nil {
		_ = db.Close()
		return nil, err
	}
	a.log.Debug("store migrated", slog.String("path", a.cfg.Store.Path), slog.Uint64("version", uint64(version)))
	return db, nil
}

func newJournal(ctx context.Context, r *container.Registry) (any, error) {
	db, err := container.Get[*sql.DB](ctx, r, compStore)
	if err != nil {
		return nil, err
	}
	return journal.New(db), nil
}

func (a *App) newPostgres(ctx context.Context, _ *container.Registry) (any, error) {
	return pg.NewPool(ctx, a.cfg.Postgres.DSN, pg.DefaultPoolOptions())
}

func (a *App) newRouter(ctx context.Context, r *container.Registry) (any, error) {
	j, err := container.Get[*journal.Journal](ctx, r, compJournal)
	if err != nil {
		return nil, err
	}

	var db checker
	if r.Has(compPostgres) {
		pool, err := container.Get[*pg.Pool](ctx, r, compPostgres)
		if err != nil {
			return nil, err
		}
		db = pool
	}
	return newRouter(a.cfg.Env, j, db, a.log), nil
}
