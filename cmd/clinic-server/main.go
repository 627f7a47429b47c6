package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/rakshanam/clinic/internal/config"
	"github.com/rakshanam/clinic/internal/document"
	"github.com/rakshanam/clinic/internal/domain/catalog"
	"github.com/rakshanam/clinic/internal/domain/dashboard"
	"github.com/rakshanam/clinic/internal/domain/patient"
	"github.com/rakshanam/clinic/internal/domain/prescription"
	"github.com/rakshanam/clinic/internal/platform/auth"
	"github.com/rakshanam/clinic/internal/platform/db"
	"github.com/rakshanam/clinic/internal/platform/middleware"
	"github.com/rakshanam/clinic/internal/platform/seed"
	"github.com/rakshanam/clinic/internal/platform/store"
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "clinic-server",
		Short: "Clinic management API server",
	}

	rootCmd.AddCommand(serveCmd())
	rootCmd.AddCommand(seedCmd())

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func serveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Start the clinic API server",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServer()
		},
	}
}

func seedCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "seed",
		Short: "Load sample patients, templates and a prescription",
		RunE: func(cmd *cobra.Command, args []string) error {
			logger := newLogger()
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			ctx := context.Background()
			records, cleanup, err := openStore(ctx, cfg, logger)
			if err != nil {
				return err
			}
			defer cleanup()

			seeder := seed.New(
				patient.NewRepository(records),
				prescription.NewRepository(records),
				catalog.NewRepository(records),
				logger,
			)
			return seeder.Run(ctx)
		},
	}
}

func newLogger() zerolog.Logger {
	logger := zerolog.New(os.Stdout).With().Timestamp().Logger()
	if os.Getenv("ENV") == "" || os.Getenv("ENV") == "development" {
		logger = zerolog.New(zerolog.ConsoleWriter{Out: os.Stdout}).With().Timestamp().Logger()
	}
	return logger
}

// openStore picks the record store backend from config. The memory driver
// needs no teardown; postgres returns the pool close.
func openStore(ctx context.Context, cfg *config.Config, logger zerolog.Logger) (store.RecordStore, func(), error) {
	if cfg.StoreDriver == config.DriverMemory {
		logger.Info().Msg("using in-memory record store")
		return store.NewMemory(), func() {}, nil
	}

	pool, err := db.NewPool(ctx, cfg.DatabaseURL, cfg.DBMaxConns, cfg.DBMinConns)
	if err != nil {
		return nil, nil, err
	}
	pg := store.NewPostgres(pool)
	if err := pg.EnsureSchema(ctx); err != nil {
		pool.Close()
		return nil, nil, err
	}
	logger.Info().Msg("connected to postgres record store")
	return pg, pool.Close, nil
}

func runServer() error {
	logger := newLogger()

	cfg, err := config.Load()
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to load config")
	}

	ctx := context.Background()
	records, cleanup, err := openStore(ctx, cfg, logger)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to open record store")
	}
	defer cleanup()

	// Repositories and services
	patientRepo := patient.NewRepository(records)
	visitRepo := prescription.NewRepository(records)
	catalogRepo := catalog.NewRepository(records)

	patientSvc := patient.NewService(patientRepo, visitRepo, logger)
	visitSvc := prescription.NewService(visitRepo, patientRepo, logger)
	catalogSvc := catalog.NewService(catalogRepo)
	dashboardSvc := dashboard.NewService(patientRepo, visitRepo, logger)

	renderer, err := document.NewHTMLRenderer()
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to build document renderer")
	}
	docCfg := document.Config{
		HospitalName:        cfg.ClinicName,
		HospitalAddress:     cfg.ClinicAddress,
		HospitalContact:     cfg.ClinicContact,
		DoctorName:          cfg.DoctorName,
		DoctorQualification: cfg.DoctorQualification,
		DoctorRegistration:  cfg.DoctorRegistration,
		Locale:              cfg.PrintLocale,
	}

	// Echo server
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	e.Use(middleware.Recovery(logger))
	e.Use(middleware.RequestID())
	e.Use(middleware.Logger(logger))
	e.Use(echomw.CORSWithConfig(echomw.CORSConfig{
		AllowOrigins: cfg.CORSOrigins,
		AllowMethods: []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodPatch, http.MethodDelete},
		AllowHeaders: []string{"Authorization", "Content-Type", "X-Request-ID"},
	}))

	e.GET("/healthz", func(c echo.Context) error {
		return c.JSON(http.StatusOK, map[string]string{
			"status":  "ok",
			"version": "0.1.0",
		})
	})
	e.POST("/auth/login", auth.LoginHandler(cfg.AuthSecret, cfg.AuthPassword))

	api := e.Group("/api")
	if cfg.IsDev() {
		logger.Warn().Msg("development mode, API auth disabled")
	} else {
		api.Use(auth.Middleware(cfg.AuthSecret))
	}

	patient.NewHandler(patientSvc).RegisterRoutes(api)
	prescription.NewHandler(visitSvc).RegisterRoutes(api)
	catalog.NewHandler(catalogSvc).RegisterRoutes(api)
	dashboard.NewHandler(dashboardSvc).RegisterRoutes(api)
	document.NewHandler(patientRepo, visitRepo, renderer, docCfg).RegisterRoutes(api)

	// Graceful shutdown
	go func() {
		addr := ":" + cfg.Port
		logger.Info().Str("addr", addr).Str("store", cfg.StoreDriver).Msg("server listening")
		if err := e.Start(addr); err != nil && err != http.ErrServerClosed {
			logger.Fatal().Err(err).Msg("server stopped")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info().Msg("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return e.Shutdown(shutdownCtx)
}
