package main

import (
	"context"
	"os/signal"
	"syscall"

	"github.com/desertthunder/setlist/internal/auth"
	"github.com/desertthunder/setlist/internal/repositories"
	"github.com/desertthunder/setlist/internal/server"
	"github.com/desertthunder/setlist/internal/services"
	"github.com/desertthunder/setlist/internal/shared"
	"github.com/desertthunder/setlist/internal/tasks"
	"github.com/urfave/cli/v3"
)

// Serve wires the dependency graph and runs the HTTP API server until
// interrupted.
func (r *Runner) Serve(ctx context.Context, cmd *cli.Command) error {
	config := r.loadConfig(cmd.String("config"))

	if err := config.Credentials.Spotify.Validate(); err != nil {
		return err
	}

	exchanger, err := auth.NewSpotifyExchanger(config.Credentials.Spotify)
	if err != nil {
		return err
	}

	codec := auth.CookieCodec{Production: config.Server.IsProduction()}
	manager := auth.NewManager(codec, exchanger, r.logger)
	api := services.NewSpotifyAPI(services.SpotifyAPIOpts{Logger: r.logger})

	engineOpts := tasks.SetlistEngineOpts{Logger: r.logger}

	if config.Database.Path != "" {
		db, err := shared.NewDatabase(config.Database.Path)
		if err != nil {
			return err
		}
		defer db.Close()

		shared.ConfigureDatabase(db, config.Database.MaxOpenConns, config.Database.MaxIdleConns)

		if err := shared.RunMigrations(db); err != nil {
			return err
		}

		engineOpts.Cache = repositories.NewSearchCache(db)
		engineOpts.Recorder = repositories.NewPlaylistLog(db)
		r.logger.Info("search cache and playlist log enabled", "path", config.Database.Path)
	}

	engine := tasks.NewSetlistEngine(api, engineOpts)

	router := server.NewBasicRouter()
	router.Use(
		server.Logging(r.logger),
		server.Recovery(r.logger),
		server.CORS(config.Server.AllowedOrigins),
	)
	router.Handle("GET", "/health", server.Health())
	router.Handler(server.NewAuthHandler(manager, api, config.Server.FrontendURL, r.logger))
	router.Handler(server.NewPlaylistHandler(manager, api, engine, r.logger))

	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	r.logger.Info("starting server",
		"addr", config.Server.Addr(),
		"environment", config.Server.Environment,
		"frontend", config.Server.FrontendURL)

	return server.Serve(ctx, config.Server.Addr(), router, r.logger)
}
