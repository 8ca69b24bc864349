// Package main provides the geoscore CLI: run a scoring pass against
// Postgres, or validate a configuration without touching the database.
package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/ashita-ai/geoscore"
	"github.com/ashita-ai/geoscore/internal/config"
	"github.com/ashita-ai/geoscore/internal/storage"
	"github.com/ashita-ai/geoscore/internal/telemetry"
	"github.com/ashita-ai/geoscore/migrations"
)

// version is set at build time via -ldflags.
var version = "dev"

var rootCmd = &cobra.Command{
	Use:           "geoscore",
	Short:         "Community-scoring batch ranking pipeline",
	SilenceUsage:  true,
	SilenceErrors: true,
}

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Fetch a snapshot, rank spaces and entities, and write the results",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runPipeline(cmd.Context())
	},
}

var validateConfigCmd = &cobra.Command{
	Use:   "validate-config",
	Short: "Load and validate configuration without connecting to the database",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load()
		if err != nil {
			return err
		}
		fmt.Printf("configuration OK: root_space_id=%s normalization_method=%s\n", cfg.Ranking.RootSpaceID, cfg.Ranking.NormalizationMethod)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(runCmd)
	rootCmd.AddCommand(validateConfigCmd)
}

func main() {
	os.Exit(run0())
}

func run0() int {
	level := parseLogLevel(os.Getenv("GEOSCORE_LOG_LEVEL"))
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: level}))
	slog.SetDefault(logger)

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	rootCmd.SetContext(ctx)
	if err := rootCmd.Execute(); err != nil {
		slog.Error("fatal error", "error", err)
		return 1
	}
	return 0
}

func runPipeline(ctx context.Context) error {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	slog.Info("geoscore starting", "version", version, "root_space_id", cfg.Ranking.RootSpaceID)

	otelShutdown, err := telemetry.Init(ctx, cfg.OTELEndpoint, cfg.ServiceName, version, cfg.OTELInsecure)
	if err != nil {
		return fmt.Errorf("telemetry: %w", err)
	}
	defer func() { _ = otelShutdown(context.Background()) }()

	db, err := storage.New(ctx, cfg.DatabaseURL, slog.Default())
	if err != nil {
		return fmt.Errorf("connect to database: %w", err)
	}
	defer db.Close()

	if err := db.RunMigrations(ctx, migrations.FS); err != nil {
		return fmt.Errorf("run migrations: %w", err)
	}

	provider := storage.NewPostgresProvider(db)
	writer := storage.NewPostgresWriter(db)

	pipeline, err := geoscore.New(cfg.Ranking,
		geoscore.WithProvider(provider),
		geoscore.WithWriter(writer),
		geoscore.WithLogger(slog.Default()),
		geoscore.WithTracer(telemetry.Tracer("geoscore")),
	)
	if err != nil {
		return fmt.Errorf("build pipeline: %w", err)
	}

	if err := pipeline.Run(ctx); err != nil {
		return fmt.Errorf("run pipeline: %w", err)
	}

	slog.Info("geoscore finished")
	return nil
}

func parseLogLevel(raw string) slog.Level {
	switch raw {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
