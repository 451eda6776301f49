package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"

	"MediCareHMS/client"
	"MediCareHMS/config"
	"MediCareHMS/jobs"
	"MediCareHMS/migrations"
	"MediCareHMS/routes"
	"MediCareHMS/server"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

var (
	startServer = server.Start
	runTask     = server.RunTask
	isTest      = false
)

func main() {
	if err := run(os.Args[1:]); err != nil {
		log.Error().Err(err).Msg("command failed")
		os.Exit(1)
	}
}

func run(args []string) error {
	root := &cobra.Command{
		Use:           "medicare",
		Short:         "Hospital management API server",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return serve()
		},
	}
	root.AddCommand(serveCmd(), migrateCmd(), seedCmd(), bootstrapAdminCmd(), slotsCmd())
	root.SetArgs(args)
	return root.Execute()
}

func serveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Start the API server",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return serve()
		},
	}
}

func serve() error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	defaultopts := server.GetDefaultOptions()

	options := server.Options{
		Config:           cfg,
		CacheEnabled:     defaultopts.CacheEnabled,
		MongoEnabled:     defaultopts.MongoEnabled,
		WebServerEnabled: defaultopts.WebServerEnabled,
		WebServerPort:    cfg.HTTP.Port,

		MigrationEnabled: !isTest,
		MigrationHandler: migrate,

		JobsEnabled: !isTest && cfg.Jobs.Enabled,
		JobsHandler: func(ctx context.Context, app *server.App) {
			if isTest {
				return
			}
			jobs.SeedCatalogs(ctx, app.Services.Specializations, app.Services.Departments)
			c, err := jobs.StartDailyScheduler(app.Services.Appointments, cfg.Location())
			if err != nil {
				log.Error().Err(err).Msg("Error starting the daily scheduler")
				return
			}
			app.OnShutdown(func() { <-c.Stop().Done() })
		},

		WebServerPreHandler: func(r *gin.Engine, app *server.App) {
			if isTest {
				return
			}
			r.Use(cors.New(cors.Config{
				AllowOrigins:     cfg.HTTP.CORSOrigins,
				AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
				AllowHeaders:     []string{"Origin", "Content-Type", "Authorization", "X-Request-ID"},
				ExposeHeaders:    []string{"X-Request-ID", "Content-Disposition"},
				AllowCredentials: true,
			}))
			routes.Routes(r, app.Services)
		},
	}
	startServer(options)
	return nil
}

func migrate(ctx context.Context, app *server.App) error {
	if isTest {
		return nil
	}
	return migrations.Run(ctx, app.DB)
}

func taskOptions() (server.Options, error) {
	cfg, err := config.Load()
	if err != nil {
		return server.Options{}, err
	}
	defaultopts := server.GetDefaultOptions()
	return server.Options{
		Config:           cfg,
		MongoEnabled:     defaultopts.MongoEnabled,
		MigrationEnabled: !isTest,
		MigrationHandler: migrate,
	}, nil
}

func migrateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Create indexes and backfill stored data",
		RunE: func(cmd *cobra.Command, _ []string) error {
			opts, err := taskOptions()
			if err != nil {
				return err
			}
			return runTask(opts, func(context.Context, *server.App) error {
				log.Info().Msg("migrations applied")
				return nil
			})
		},
	}
}

func seedCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "seed",
		Short: "Seed specializations, departments, admins and sample doctors",
		RunE: func(cmd *cobra.Command, _ []string) error {
			opts, err := taskOptions()
			if err != nil {
				return err
			}
			return runTask(opts, func(ctx context.Context, app *server.App) error {
				return app.Seeder.Run(ctx)
			})
		},
	}
}

func bootstrapAdminCmd() *cobra.Command {
	var email, password, username, name string
	cmd := &cobra.Command{
		Use:   "bootstrap-admin",
		Short: "Allow an admin email and create or reset its account",
		RunE: func(cmd *cobra.Command, _ []string) error {
			opts, err := taskOptions()
			if err != nil {
				return err
			}
			return runTask(opts, func(ctx context.Context, app *server.App) error {
				u, err := app.Services.Auth.BootstrapAdmin(ctx, email, password, username, name)
				if err != nil {
					return err
				}
				log.Info().Str("email", u.Email).Str("username", u.Username).Msg("admin ready")
				return nil
			})
		},
	}
	cmd.Flags().StringVar(&email, "email", "", "admin email")
	cmd.Flags().StringVar(&password, "password", "", "admin password")
	cmd.Flags().StringVar(&username, "username", "", "admin username, defaults to the email name")
	cmd.Flags().StringVar(&name, "name", "Administrator", "display name")
	_ = cmd.MarkFlagRequired("email")
	_ = cmd.MarkFlagRequired("password")
	return cmd
}

// slotsCmd prints a doctor's slots for one day through the API, and keeps
// printing them after every cancellation when --watch is set.
func slotsCmd() *cobra.Command {
	var doctorID, date, token string
	var watch bool
	cmd := &cobra.Command{
		Use:   "slots",
		Short: "Show a doctor's available slots for a day",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			api := client.New(cfg.HTTP.APIBaseURL, nil, nil)
			api.HTTP.Timeout = cfg.HTTP.RequestTimeout
			if token != "" {
				api.Credentials.SetToken(token)
			}
			show := func(a *client.Availability, err error) {
				if err != nil {
					fmt.Fprintln(cmd.ErrOrStderr(), err)
					return
				}
				for _, s := range a.AvailableSlots {
					fmt.Fprintf(cmd.OutOrStdout(), "%s %s available=%t\n", a.Date, s.Time, s.Available)
				}
			}
			if !watch {
				a, err := api.AvailableSlots(cmd.Context(), doctorID, date)
				if err != nil {
					return err
				}
				show(a, nil)
				return nil
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
			defer stop()
			w, err := api.WatchSlots(ctx, doctorID, date, show)
			if err != nil {
				return err
			}
			<-ctx.Done()
			w.Stop()
			return nil
		},
	}
	cmd.Flags().StringVar(&doctorID, "doctor", "", "doctor id")
	cmd.Flags().StringVar(&date, "date", "", "day, any common date format")
	cmd.Flags().StringVar(&token, "token", "", "bearer token")
	cmd.Flags().BoolVar(&watch, "watch", false, "keep watching for cancellations")
	_ = cmd.MarkFlagRequired("doctor")
	_ = cmd.MarkFlagRequired("date")
	return cmd
}
