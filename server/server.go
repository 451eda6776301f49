package server

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"MediCareHMS/config"
	"MediCareHMS/controllers"
	"MediCareHMS/middleware"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

const shutdownTimeout = 10 * time.Second

// SetupLogging writes JSON logs, or console logs in development.
func SetupLogging(cfg *config.Config) {
	zerolog.TimeFieldFormat = time.RFC3339
	logger := zerolog.New(os.Stdout).With().Timestamp().Logger()
	if cfg.IsDevelopment() {
		logger = zerolog.New(zerolog.ConsoleWriter{Out: os.Stdout}).With().Timestamp().Logger()
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	} else {
		zerolog.SetGlobalLevel(zerolog.InfoLevel)
	}
	log.Logger = logger
}

/*
* Build the gin engine with request id, access log and recovery
* Let the caller add cors and routes
 */
func NewEngine(app *App, opts Options) *gin.Engine {
	if app.Config.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}
	if err := controllers.RegisterValidators(); err != nil {
		log.Error().Err(err).Msg("Error registering validators")
	}

	r := gin.New()
	r.Use(middleware.RequestID(), middleware.Logger(), middleware.Recovery(app.Config.IsDevelopment()))
	if opts.WebServerPreHandler != nil {
		opts.WebServerPreHandler(r, app)
	}
	return r
}

/*
* Load config when not given
* Wire the app, then run migrations and jobs when enabled
* Serve until SIGINT or SIGTERM, then shut down gracefully
 */
func Start(opts Options) {
	if err := Run(opts); err != nil {
		log.Fatal().Err(err).Msg("server stopped with error")
	}
}

func Run(opts Options) error {
	cfg := opts.Config
	if cfg == nil {
		loaded, err := config.Load()
		if err != nil {
			return err
		}
		cfg = loaded
		opts.Config = cfg
	}
	SetupLogging(cfg)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	app, err := NewApp(ctx, cfg, opts)
	if err != nil {
		return err
	}
	defer app.Close()

	if opts.MigrationEnabled && opts.MigrationHandler != nil {
		if err := opts.MigrationHandler(ctx, app); err != nil {
			log.Error().Err(err).Msg("Error running migrations")
			return err
		}
	}
	if opts.JobsEnabled && opts.JobsHandler != nil {
		opts.JobsHandler(ctx, app)
	}
	if !opts.WebServerEnabled {
		return nil
	}

	srv := &http.Server{
		Addr:              ":" + opts.port(),
		Handler:           NewEngine(app, opts),
		ReadHeaderTimeout: cfg.HTTP.RequestTimeout,
	}
	errs := make(chan error, 1)
	go func() {
		log.Info().Str("addr", srv.Addr).Str("env", cfg.App.Env).Msg("starting server")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errs <- err
		}
		close(errs)
	}()

	select {
	case err := <-errs:
		return err
	case <-ctx.Done():
	}

	log.Info().Msg("shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("server shutdown failed")
		return err
	}
	log.Info().Msg("server stopped")
	return nil
}

// RunTask wires the app without the web server and runs one task against it.
func RunTask(opts Options, task func(ctx context.Context, app *App) error) error {
	cfg := opts.Config
	if cfg == nil {
		loaded, err := config.Load()
		if err != nil {
			return err
		}
		cfg = loaded
	}
	SetupLogging(cfg)

	ctx := context.Background()
	app, err := NewApp(ctx, cfg, opts)
	if err != nil {
		return err
	}
	defer app.Close()

	if opts.MigrationEnabled && opts.MigrationHandler != nil {
		if err := opts.MigrationHandler(ctx, app); err != nil {
			return err
		}
	}
	return task(ctx, app)
}
