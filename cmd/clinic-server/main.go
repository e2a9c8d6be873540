package main

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/pilares/clinic-api/internal/config"
	"github.com/pilares/clinic-api/internal/domain/activator"
	"github.com/pilares/clinic-api/internal/domain/cycle"
	"github.com/pilares/clinic-api/internal/domain/dashboard"
	"github.com/pilares/clinic-api/internal/domain/medication"
	"github.com/pilares/clinic-api/internal/domain/patient"
	"github.com/pilares/clinic-api/internal/domain/session"
	"github.com/pilares/clinic-api/internal/domain/substance"
	"github.com/pilares/clinic-api/internal/domain/user"
	"github.com/pilares/clinic-api/internal/platform/apperr"
	"github.com/pilares/clinic-api/internal/platform/auth"
	"github.com/pilares/clinic-api/internal/platform/db"
	"github.com/pilares/clinic-api/internal/platform/middleware"
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "clinic-server",
		Short: "Clinic management API server",
	}

	rootCmd.AddCommand(serveCmd())
	rootCmd.AddCommand(migrateCmd())

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func serveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Start the API server",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServer()
		},
	}
}

func migrateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Run database migrations",
	}

	upCmd := &cobra.Command{
		Use:   "up",
		Short: "Apply pending migrations",
		RunE: func(cmd *cobra.Command, args []string) error {
			dir, _ := cmd.Flags().GetString("dir")

			cfg, err := config.Load()
			if err != nil {
				return err
			}

			ctx := context.Background()
			pool, err := db.NewPool(ctx, cfg.DatabaseURL, cfg.DBMaxConns, cfg.DBMinConns)
			if err != nil {
				return err
			}
			defer pool.Close()

			migrator := db.NewMigrator(pool, dir)
			count, err := migrator.Up(ctx)
			if err != nil {
				return fmt.Errorf("migration failed: %w", err)
			}

			fmt.Printf("Applied %d migration(s) successfully.\n", count)
			return nil
		},
	}
	upCmd.Flags().String("dir", "./migrations", "Path to migrations directory")
	cmd.AddCommand(upCmd)

	statusCmd := &cobra.Command{
		Use:   "status",
		Short: "Show migration status",
		RunE: func(cmd *cobra.Command, args []string) error {
			dir, _ := cmd.Flags().GetString("dir")

			cfg, err := config.Load()
			if err != nil {
				return err
			}

			ctx := context.Background()
			pool, err := db.NewPool(ctx, cfg.DatabaseURL, cfg.DBMaxConns, cfg.DBMinConns)
			if err != nil {
				return err
			}
			defer pool.Close()

			migrator := db.NewMigrator(pool, dir)
			statuses, err := migrator.Status(ctx)
			if err != nil {
				return fmt.Errorf("failed to get migration status: %w", err)
			}

			fmt.Printf("%-10s %-40s %-10s %s\n", "VERSION", "NAME", "STATUS", "APPLIED AT")
			for _, s := range statuses {
				status := "pending"
				appliedAt := ""
				if s.Applied {
					status = "applied"
					if s.AppliedAt != nil {
						appliedAt = s.AppliedAt.Format("2006-01-02 15:04:05")
					}
				}
				fmt.Printf("%-10d %-40s %-10s %s\n", s.Version, s.Name, status, appliedAt)
			}
			return nil
		},
	}
	statusCmd.Flags().String("dir", "./migrations", "Path to migrations directory")
	cmd.AddCommand(statusCmd)

	return cmd
}

func runServer() error {
	// Logger
	logger := zerolog.New(os.Stdout).With().Timestamp().Logger()
	if os.Getenv("ENV") == "development" {
		logger = zerolog.New(zerolog.ConsoleWriter{Out: os.Stdout}).With().Timestamp().Logger()
	}

	// Config
	cfg, err := config.Load()
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to load config")
	}
	if err := cfg.Validate(); err != nil {
		logger.Fatal().Err(err).Msg("invalid config")
	}
	signingKey := cfg.JWTSecret
	if signingKey == "" {
		// Development only. Tokens stop working across restarts.
		buf := make([]byte, 32)
		if _, err := rand.Read(buf); err != nil {
			logger.Fatal().Err(err).Msg("failed to generate signing key")
		}
		signingKey = hex.EncodeToString(buf)
		logger.Warn().Msg("JWT_SECRET not set, using a random per-process key")
	}

	// Database
	ctx := context.Background()
	pool, err := db.NewPool(ctx, cfg.DatabaseURL, cfg.DBMaxConns, cfg.DBMinConns)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to connect to database")
	}
	defer pool.Close()
	logger.Info().Msg("connected to database")

	// Echo server
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.HTTPErrorHandler = apperr.HTTPErrorHandler(logger)

	// Global middleware
	e.Use(middleware.Recovery(logger))
	e.Use(middleware.RequestID())
	e.Use(middleware.Logger(logger))
	e.Use(echomw.CORSWithConfig(echomw.CORSConfig{
		AllowOrigins: cfg.CORSOrigins,
		AllowMethods: []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodPatch, http.MethodDelete},
		AllowHeaders: []string{"Authorization", "Content-Type", "X-Request-ID"},
	}))

	issuer := auth.NewTokenIssuer([]byte(signingKey), time.Duration(cfg.TokenTTLMinutes)*time.Minute)
	e.Use(auth.Middleware(issuer, auth.PathSkipper("/auth/login", "/auth/register", "/health")))

	// Health checks
	e.GET("/health", func(c echo.Context) error {
		return c.JSON(http.StatusOK, map[string]string{
			"status":  "ok",
			"version": "0.1.0",
		})
	})
	e.GET("/health/db", db.HealthHandler(pool))

	// Repositories
	txRunner := db.NewTxRunner(pool)
	patientRepo := patient.NewRepoPG(pool)
	cycleRepo := cycle.NewRepoPG(pool)
	sessionRepo := session.NewRepoPG(pool)
	medicationRepo := medication.NewRepoPG(pool)
	substanceRepo := substance.NewRepoPG(pool)
	activatorRepo := activator.NewRepoPG(pool)
	dashboardRepo := dashboard.NewRepoPG(pool)
	userRepo := user.NewRepoPG(pool)

	// Services
	patientSvc := patient.NewService(patientRepo, medicationRepo)
	cycleSvc := cycle.NewService(cycleRepo, patientRepo)
	sessionSvc := session.NewService(sessionRepo, cycleRepo, medicationRepo, activatorRepo, txRunner)
	medicationSvc := medication.NewService(medicationRepo)
	substanceSvc := substance.NewService(substanceRepo)
	activatorSvc := activator.NewService(activatorRepo, substanceRepo, txRunner)
	dashboardSvc := dashboard.NewService(dashboardRepo)
	userSvc := user.NewService(userRepo, issuer)

	// Routes
	root := e.Group("")
	patient.NewHandler(patientSvc).RegisterRoutes(root)
	cycle.NewHandler(cycleSvc).RegisterRoutes(root)
	session.NewHandler(sessionSvc).RegisterRoutes(root)
	medication.NewHandler(medicationSvc).RegisterRoutes(root)
	substance.NewHandler(substanceSvc).RegisterRoutes(root)
	activator.NewHandler(activatorSvc).RegisterRoutes(root)
	dashboard.NewHandler(dashboardSvc).RegisterRoutes(root)
	user.NewHandler(userSvc).RegisterRoutes(root)

	// Graceful shutdown
	go func() {
		addr := ":" + cfg.Port
		logger.Info().Str("addr", addr).Msg("starting server")
		if err := e.Start(addr); err != nil && err != http.ErrServerClosed {
			logger.Fatal().Err(err).Msg("server error")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info().Msg("shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		logger.Fatal().Err(err).Msg("server shutdown failed")
	}
	logger.Info().Msg("server stopped")
	return nil
}
