package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/jonathan/speak-out/internal/composer"
	"github.com/jonathan/speak-out/internal/config"
	"github.com/jonathan/speak-out/internal/db"
	"github.com/jonathan/speak-out/internal/letters"
	"github.com/jonathan/speak-out/internal/logging"
	"github.com/jonathan/speak-out/internal/server"
	"github.com/jonathan/speak-out/internal/server/ratelimit"
)

var (
	servePort       int
	serveConfigPath string
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP API server",
	Long: `Start an HTTP server that exposes letter generation, concern analysis and
submission storage. DATABASE_URL enables the audit log and submissions;
JWT_SECRET enables the /admin endpoints.`,
	RunE: runServe,
}

func init() {
	serveCmd.Flags().IntVar(&servePort, "port", config.DefaultPort, "Port to listen on")
	serveCmd.Flags().StringVar(&serveConfigPath, "config", "", "Path to a JSON config file")
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, _ []string) error {
	cfg, err := config.Load(serveConfigPath)
	if err != nil {
		return err
	}
	if cmd.Flags().Changed("port") {
		cfg.Port = servePort
	}

	logger, err := logging.New(cfg.LogLevel)
	if err != nil {
		return err
	}
	defer func() { _ = logger.Sync() }()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	genCfg := letters.Config{
		Primary:      composer.New(nil, nil),
		Fallback:     composer.NewLegacy(nil, nil),
		Logger:       logger,
		Workers:      cfg.Workers,
		AuditTimeout: time.Duration(cfg.AuditTimeout),
	}
	srvCfg := server.Config{
		Port:          cfg.Port,
		Logger:        logger,
		RateLimit:     ratelimit.LoadConfig(),
		DefaultTone:   cfg.DefaultTone,
		DefaultStance: cfg.DefaultStance,
	}

	if cfg.DatabaseURL != "" {
		database, err := db.Connect(ctx, cfg.DatabaseURL)
		if err != nil {
			return err
		}
		defer database.Close()

		if err := database.EnsureSchema(ctx); err != nil {
			return err
		}
		genCfg.Audit = database
		srvCfg.Store = database
	} else {
		logger.Warn("DATABASE_URL not set; audit log and submissions are disabled")
	}

	if jwtCfg, err := config.NewJWTConfig(); err == nil {
		srvCfg.JWT = server.NewJWTService(jwtCfg)
	} else {
		logger.Warn("admin endpoints disabled", zap.Error(err))
	}

	srvCfg.Generator = letters.NewGenerator(genCfg)
	srv, err := server.New(srvCfg)
	if err != nil {
		return fmt.Errorf("failed to create server: %w", err)
	}
	return srv.Start(ctx)
}
