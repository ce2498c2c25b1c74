package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/Iasm789/event-mospolytech-bot/internal/api"
	"github.com/Iasm789/event-mospolytech-bot/internal/clock/moscow"
	"github.com/Iasm789/event-mospolytech-bot/internal/config"
	"github.com/Iasm789/event-mospolytech-bot/internal/extract"
	collyfetcher "github.com/Iasm789/event-mospolytech-bot/internal/fetcher/colly"
	"github.com/Iasm789/event-mospolytech-bot/internal/harvest"
	"github.com/Iasm789/event-mospolytech-bot/internal/hash/sha256"
	"github.com/Iasm789/event-mospolytech-bot/internal/logging"
	"github.com/Iasm789/event-mospolytech-bot/internal/pager"
	"github.com/Iasm789/event-mospolytech-bot/internal/refine"
	"github.com/Iasm789/event-mospolytech-bot/internal/sink"
)

// newHarvestCmd creates the 'harvest' subcommand, which runs one full
// pass over all configured channels and exits.
func newHarvestCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "harvest",
		Short: "Runs one harvest pass over the configured channels",
		Long: `Fetches every configured channel listing under the concurrency cap,
extracts events from posts inside the lookback window and writes the
results to the output directory.`,

		RunE: runHarvestCommand,
	}
	return cmd
}

func runHarvestCommand(cmd *cobra.Command, _ []string) error {
	cfg, err := config.Load(cfgFile)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	logger, err := logging.New(cfg.Logging.Development)
	if err != nil {
		return fmt.Errorf("init logger: %w", err)
	}
	defer func() { _ = logger.Sync() }()

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	clk := moscow.New()

	out, err := sink.NewFileSink(cfg.Output.Dir, clk, logger)
	if err != nil {
		return fmt.Errorf("init sink: %w", err)
	}

	coordinator := harvest.NewCoordinator(
		collyfetcher.New(collyfetcher.Config{
			UserAgent:  cfg.HTTP.UserAgent,
			Timeout:    cfg.HTTP.Timeout(),
			MaxRetries: cfg.HTTP.MaxRetries,
			BaseDelay:  cfg.HTTP.RetryBaseDelay(),
		}, logger),
		pager.New(sha256.New(), clk.Location(), cfg.Parser.MinTextLen, logger),
		extract.New(clk),
		buildRefiner(cfg.LLM, logger),
		out,
		clk,
		cfg.Parser.Lookback(),
		logger,
	)

	tracker := harvest.NewTracker()
	var statusServer *api.Server
	if cfg.Server.Enabled {
		statusServer = api.NewServer(cfg.Server.Port, tracker, logger)
		go func() {
			if serr := statusServer.Start(); serr != nil {
				logger.Error("status server failed", zap.Error(serr))
			}
		}()
	}

	fleet := harvest.NewFleet(coordinator, cfg.Harvest.Concurrency, tracker, logger)
	stats := fleet.Run(ctx, cfg.Channels)

	// Statistics land even when the run was interrupted.
	statsCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := out.WriteStats(statsCtx, stats); err != nil {
		return fmt.Errorf("write statistics: %w", err)
	}

	if statusServer != nil {
		shutdownCtx, cancelShutdown := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancelShutdown()
		if serr := statusServer.Shutdown(shutdownCtx); serr != nil {
			logger.Warn("status server shutdown", zap.Error(serr))
		}
	}

	logger.Info("harvest finished",
		zap.Int("processed", stats.Processed),
		zap.Int("failed", stats.Failed),
		zap.Int("events", stats.TotalEvents),
	)
	return nil
}

// buildRefiner returns nil when refinement is disabled, which turns the
// coordinator's refinement pass off entirely.
func buildRefiner(cfg config.LLMConfig, logger *zap.Logger) harvest.Refiner {
	if !cfg.Enabled {
		return nil
	}
	client := refine.NewOllamaClient(refine.ClientConfig{
		Endpoint:    cfg.Endpoint,
		Model:       cfg.Model,
		MaxTokens:   cfg.MaxTokens,
		Temperature: cfg.Temperature,
		Timeout:     cfg.Timeout(),
	})
	return refine.New(client, logger)
}
