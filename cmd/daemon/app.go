package main

import (
	"context"

	"github.com/genricoloni/musicbridge/internal/artwork"
	"github.com/genricoloni/musicbridge/internal/bridge"
	"github.com/genricoloni/musicbridge/internal/commands"
	"github.com/genricoloni/musicbridge/internal/config"
	"github.com/genricoloni/musicbridge/internal/domain"
	"github.com/genricoloni/musicbridge/internal/engine"
	"github.com/genricoloni/musicbridge/internal/executor"
	"github.com/genricoloni/musicbridge/internal/fetcher"
	"github.com/genricoloni/musicbridge/internal/scripts"
	"github.com/genricoloni/musicbridge/internal/server"
	"github.com/genricoloni/musicbridge/internal/surface"
	"go.uber.org/fx"
	"go.uber.org/fx/fxevent"
	"go.uber.org/zap"
)

// Options carries the CLI flags into the application graph
type Options struct {
	ConfigPath string
	Debug      bool
}

// AppOptions is the complete daemon dependency graph
var AppOptions = fx.Options(
	fx.Supply(Options{}),

	// Logger configuration
	fx.WithLogger(func(log *zap.Logger) fxevent.Logger {
		return &fxevent.ZapLogger{Logger: log}
	}),

	// Provide dependencies
	fx.Provide(
		loadConfig,
		newLogger,
		func(cfg *config.AppConfig) domain.Config { return cfg },
		newDialect,
		fx.Annotate(executor.NewFromDialect, fx.As(new(domain.ScriptRunner))),
		fx.Annotate(bridge.NewBridge, fx.As(new(domain.Bridge))),
		engine.NewScheduler,
		func(s *engine.Scheduler) server.Registrar { return s },

		// Surfaces
		func(logger *zap.Logger, cfg domain.Config) *surface.StatusStrip {
			return surface.NewStatusStrip(logger.Named("status"), cfg)
		},
		func(logger *zap.Logger) *surface.Tree {
			return surface.NewTree(logger.Named("tree"))
		},
		func(logger *zap.Logger) *surface.Panel {
			return surface.NewPanel(logger.Named("panel"), "/artwork")
		},

		// Commands
		server.NewHub,
		func(h *server.Hub) commands.Presenter { return h },
		commands.NewDispatcher,
		func(d *commands.Dispatcher) server.Invoker { return d },

		// Artwork
		fx.Annotate(fetcher.NewArtworkFetcher, fx.As(new(domain.Fetcher))),
		fx.Annotate(artwork.NewThumbnailProcessor, fx.As(new(domain.ImageProcessor))),
		artwork.NewService,
		func(s *artwork.Service) server.ArtworkSource { return s },

		server.NewServer,
	),

	// Lifecycle hooks
	fx.Invoke(registerHooks),
)

func loadConfig(opts Options) (*config.AppConfig, error) {
	cfg, err := config.Load(opts.ConfigPath)
	if err != nil {
		return nil, err
	}
	if opts.Debug {
		cfg.Debug = true
	}
	return cfg, nil
}

// newLogger creates a new zap logger instance
func newLogger(cfg *config.AppConfig) (*zap.Logger, error) {
	if cfg.Debug {
		return zap.NewDevelopment()
	}
	return zap.NewProduction()
}

func newDialect(cfg *config.AppConfig) (domain.Dialect, error) {
	return scripts.New(cfg.Dialect, cfg.App)
}

// registerHooks sets up application lifecycle hooks.
// One hook per component: fx stops the scheduler again if the server fails to start.
func registerHooks(
	lc fx.Lifecycle,
	logger *zap.Logger,
	cfg *config.AppConfig,
	scheduler *engine.Scheduler,
	srv *server.Server,
	status *surface.StatusStrip,
	tree *surface.Tree,
) {
	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			logger.Info("Musicbridge daemon starting", cfg.Fields()...)

			// The start context expires once startup completes
			if err := scheduler.Start(context.Background()); err != nil {
				return err
			}
			scheduler.Register(status, engine.KindPassive)
			scheduler.Register(tree, engine.KindPassive)
			return nil
		},
		OnStop: func(ctx context.Context) error {
			err := scheduler.Stop(ctx)
			_ = logger.Sync()
			return err
		},
	})

	lc.Append(fx.Hook{
		OnStart: srv.Start,
		OnStop: func(ctx context.Context) error {
			logger.Info("Shutting down")
			return srv.Stop(ctx)
		},
	})
}
