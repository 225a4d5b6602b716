// Package app assembles an actor runtime from configuration: logger,
// metrics, system, and optional hot reload of the log level.
package app

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/nalamte/legacy-svn-scala/config"
	"github.com/nalamte/legacy-svn-scala/core/actor"
)

// Options configures an App.
type Options struct {
	// ConfigFile is the configuration file to load. When empty the
	// loader's search paths are tried, falling back to defaults.
	ConfigFile string

	// Config bypasses file loading entirely.
	Config *config.Config

	// Logger overrides the logger built from the configuration.
	Logger *slog.Logger

	// Metrics plugs an instrumentation backend into the system.
	Metrics actor.ActorMetrics

	// Watch hot-reloads ConfigFile; currently the log level is applied
	// at runtime, other settings need a restart.
	Watch bool
}

// App ties a configured logger and an actor system together.
type App struct {
	log     *slog.Logger
	level   *slog.LevelVar
	sys     *actor.System
	watcher *config.Watcher
}

// New builds an App from the given options.
func New(opt Options) (*App, error) {
	app := &App{level: &slog.LevelVar{}}

	// === config ===
	cfg := opt.Config
	if cfg == nil {
		loader := config.NewLoader()
		var err error
		switch {
		case opt.ConfigFile != "" && opt.Watch:
			app.watcher, err = config.NewWatcher(opt.ConfigFile, loader)
			if err != nil {
				return nil, err
			}
			cfg = app.watcher.Config()
		case opt.ConfigFile != "":
			cfg, err = loader.LoadFromFile(opt.ConfigFile)
			if err != nil {
				return nil, err
			}
		default:
			cfg, err = loader.AutoLoad()
			if err != nil {
				return nil, err
			}
		}
	} else if err := cfg.Validate(); err != nil {
		return nil, err
	}

	// === logger ===
	lvl, err := cfg.Log.SlogLevel()
	if err != nil {
		return nil, err
	}
	app.level.Set(lvl)

	log := opt.Logger
	if log == nil {
		hopt := &slog.HandlerOptions{Level: app.level}
		switch cfg.Log.Format {
		case "json":
			log = slog.New(slog.NewJSONHandler(os.Stderr, hopt))
		default:
			log = slog.New(slog.NewTextHandler(os.Stderr, hopt))
		}
	}
	app.log = log

	// === system ===
	app.sys = actor.NewSystem(actor.Options{
		Logger:           log,
		Metrics:          opt.Metrics,
		MaxWorkers:       cfg.Scheduler.MaxWorkers,
		MailboxWarnDepth: cfg.Scheduler.MailboxWarnDepth,
	})

	// === hot reload ===
	if app.watcher != nil {
		app.watcher.OnChange(func(_, newCfg *config.Config) {
			lvl, err := newCfg.Log.SlogLevel()
			if err != nil {
				return
			}
			app.level.Set(lvl)
			log.Info("log level updated", slog.String("level", lvl.String()))
		})
	}

	return app, nil
}

// Run starts the app's background resources (the config watcher, when
// Watch is set).
func (a *App) Run() error {
	if a.watcher != nil {
		if err := a.watcher.Start(); err != nil {
			return fmt.Errorf("failed to start config watcher: %w", err)
		}
	}

	a.log.Info("app started")
	return nil
}

// System returns the actor system.
func (a *App) System() *actor.System { return a.sys }

// Logger returns the configured logger.
func (a *App) Logger() *slog.Logger { return a.log }

// Wait blocks until every actor spawned on the system has terminated.
func (a *App) Wait() { a.sys.Wait() }

// Stop releases the app's background resources. Actors keep running;
// use Wait to quiesce them.
func (a *App) Stop() {
	if a.watcher != nil {
		_ = a.watcher.Stop()
	}
}

// Run builds an App from the given options and starts it.
func Run(opt Options) (*App, error) {
	app, err := New(opt)
	if err != nil {
		return nil, err
	}

	if err := app.Run(); err != nil {
		return nil, err
	}

	return app, nil
}
