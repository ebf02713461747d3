package app

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/lcalzada-xor/macoui/internal/adapters/compiler"
	"github.com/lcalzada-xor/macoui/internal/adapters/oui"
	webserver "github.com/lcalzada-xor/macoui/internal/adapters/web/server"
	"github.com/lcalzada-xor/macoui/internal/config"
	"github.com/lcalzada-xor/macoui/internal/telemetry"
)

// Application holds the core components of the lookup service.
type Application struct {
	Config     *config.Config
	Resolver   *oui.Resolver
	VendorRepo oui.VendorRepository
	Stats      oui.VendorStats
	WebServer  *webserver.Server

	logger *slog.Logger
}

// New creates a new Application instance and bootstraps its components.
func New(cfg *config.Config, logger *slog.Logger) (*Application, error) {
	if logger == nil {
		logger = slog.Default()
	}
	app := &Application{
		Config: cfg,
		logger: logger,
	}

	if err := app.bootstrap(context.Background()); err != nil {
		app.cleanup()
		return nil, fmt.Errorf("application bootstrap failed: %w", err)
	}

	return app, nil
}

// bootstrap orchestrates the initialization sequence.
func (app *Application) bootstrap(ctx context.Context) error {
	telemetry.InitMetrics()

	if err := app.initResolver(); err != nil {
		return err
	}
	if err := app.initRepository(ctx); err != nil {
		return err
	}

	app.WebServer = webserver.NewServer(app.Config.Addr, app.VendorRepo, app.Stats, webserver.Options{
		RateLimit:       app.Config.RateLimit,
		ShutdownTimeout: app.Config.ShutdownTimeout,
		Logger:          app.logger,
	})
	return nil
}

// initResolver loads the in-memory table, from DataDir when set or from the
// embedded snapshot otherwise.
func (app *Application) initResolver() error {
	if app.Config.DataDir == "" {
		app.Resolver = oui.Default()
	} else {
		table, err := compiler.CompileDir(app.Config.DataDir, compiler.WithLogger(app.logger))
		if err != nil {
			return fmt.Errorf("failed to compile registries from %s: %w", app.Config.DataDir, err)
		}
		app.Resolver = oui.NewResolver(table)
	}

	stats := app.Resolver.Table().Stats()
	telemetry.ObserveTable(stats.Total, stats.Duplicates)
	app.logger.Info("registry table loaded",
		"records", stats.Total,
		"duplicates", stats.Duplicates,
		"source", sourceName(app.Config.DataDir),
	)

	app.VendorRepo = app.Resolver
	app.Stats = app.Resolver
	return nil
}

// initRepository puts the SQLite export in front of the in-memory table.
// The export is re-imported from the table on every start.
func (app *Application) initRepository(ctx context.Context) error {
	if app.Config.DBPath == "" {
		return nil
	}

	db, err := oui.NewOUIDatabase(app.Config.DBPath, app.Config.CacheSize, nil)
	if err != nil {
		return fmt.Errorf("failed to open registry export: %w", err)
	}

	// The export always mirrors the table being served; a file left over
	// from an older snapshot is overwritten, not trusted.
	records := app.Resolver.Table().Records()
	if err := db.ImportRecords(ctx, records); err != nil {
		db.Close()
		return fmt.Errorf("failed to sync registry export: %w", err)
	}
	app.logger.Info("synced registry export", "path", app.Config.DBPath, "records", len(records))

	app.VendorRepo = oui.NewCompositeVendorRepository(db, app.Resolver)
	app.Stats = db
	return nil
}

// Run serves until ctx is cancelled.
func (app *Application) Run(ctx context.Context) error {
	app.logger.Info("macoui ready", "addr", app.Config.Addr)

	err := app.WebServer.Run(ctx)
	if cerr := app.cleanup(); err == nil {
		err = cerr
	}
	if err != nil {
		return fmt.Errorf("web server error: %w", err)
	}
	return nil
}

func (app *Application) cleanup() error {
	if app.VendorRepo == nil {
		return nil
	}
	app.logger.Info("cleaning up resources")
	return app.VendorRepo.Close()
}

func sourceName(dir string) string {
	if dir == "" {
		return "embedded"
	}
	return dir
}
