package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/BruksfildServices01/clinic-scheduler/internal/app"
	"github.com/BruksfildServices01/clinic-scheduler/internal/config"
	dbpkg "github.com/BruksfildServices01/clinic-scheduler/internal/db"
	infraRepo "github.com/BruksfildServices01/clinic-scheduler/internal/infra/repository"
	"github.com/BruksfildServices01/clinic-scheduler/internal/logger"
	"github.com/BruksfildServices01/clinic-scheduler/internal/notification"
	"github.com/BruksfildServices01/clinic-scheduler/internal/routes"
	"github.com/BruksfildServices01/clinic-scheduler/internal/timezone"
	"github.com/BruksfildServices01/clinic-scheduler/internal/validators"
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "clinic-scheduler",
		Short: "Clinic session and program scheduling API",
	}

	rootCmd.AddCommand(serveCmd())
	rootCmd.AddCommand(migrateCmd())

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func loadConfig() (*config.Config, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}

	logger.Init(cfg.Env)
	timezone.SetDefault(cfg.ClinicTimezone)
	return cfg, nil
}

func migrateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Create tables and scheduling constraints",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}

			db, err := dbpkg.NewDB(cfg)
			if err != nil {
				return err
			}
			return dbpkg.Migrate(db)
		},
	}
}

func serveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP server",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}

			stores, err := openStores(cfg)
			if err != nil {
				return err
			}

			pub, closePub := openPublisher(cfg)
			defer closePub()

			if err := validators.Register(); err != nil {
				return err
			}

			a := app.New(cfg, stores, pub, timezone.Clock{})
			defer a.Close()

			if err := a.Cron.Start(); err != nil {
				return err
			}

			if !cfg.IsDev() {
				gin.SetMode(gin.ReleaseMode)
			}

			r := gin.New()
			r.Use(gin.Recovery())
			routes.RegisterRoutes(r, a, cfg)

			srv := &http.Server{
				Addr:              cfg.Addr(),
				Handler:           r,
				ReadHeaderTimeout: 10 * time.Second,
			}

			go func() {
				log.Info().Str("addr", cfg.Addr()).Str("store", cfg.Store).Msg("server running")
				if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
					log.Fatal().Err(err).Msg("failed to start server")
				}
			}()

			quit := make(chan os.Signal, 1)
			signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
			<-quit

			log.Info().Msg("shutting down")
			ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()

			return srv.Shutdown(ctx)
		},
	}
}

func openStores(cfg *config.Config) (app.Stores, error) {
	if cfg.Store == config.StoreMemory {
		mem := infraRepo.NewMemoryStore()
		log.Warn().Msg("using in-memory store; data is lost on exit")
		return app.Stores{Repo: mem, Activities: mem, Notifications: mem}, nil
	}

	db, err := dbpkg.NewDB(cfg)
	if err != nil {
		return app.Stores{}, err
	}
	if err := dbpkg.Migrate(db); err != nil {
		return app.Stores{}, err
	}

	support := infraRepo.NewSupportGormStore(db)
	return app.Stores{
		Repo:          infraRepo.NewSchedulingGormRepository(db),
		Activities:    support,
		Notifications: support,
	}, nil
}

func openPublisher(cfg *config.Config) (notification.Publisher, func()) {
	if cfg.RedisURL == "" {
		return notification.LogPublisher{}, func() {}
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	client, err := notification.NewRedisClient(ctx, cfg.RedisURL)
	if err != nil {
		log.Warn().Err(err).Msg("redis unavailable, logging notifications instead")
		return notification.LogPublisher{}, func() {}
	}

	return notification.NewRedisPublisher(client, cfg.NotificationChannel), func() { _ = client.Close() }
}
