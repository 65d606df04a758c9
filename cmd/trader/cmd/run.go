package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/rustyeddy/papertrader/internal/app"
	"github.com/rustyeddy/papertrader/internal/report"
	"github.com/rustyeddy/papertrader/metrics"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run the scan loop until interrupted",
	Long: `Announce the bot, then run a scan pass every scan interval until SIGINT or
SIGTERM. Each pass manages open trades and scans flat instruments.

Example:
  trader run --config bot.yaml
  TICKERS=SPY,QQQ SCAN_INTERVAL=60 trader run`,
	Args: cobra.NoArgs,
	RunE: runRun,
}

func init() {
	rootCmd.AddCommand(runCmd)
}

func runRun(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	log, err := newLogger(cfg)
	if err != nil {
		return fmt.Errorf("logger: %w", err)
	}

	a, err := app.Build(cfg, log)
	if err != nil {
		return err
	}
	defer a.Close()

	report.Config(cmd.OutOrStdout(), cfg)

	interval, err := cfg.Scan.IntervalDuration()
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if cfg.Metrics.Addr != "" {
		go func() {
			log.Info("metrics listening", zap.String("addr", cfg.Metrics.Addr))
			if err := metrics.Serve(ctx, cfg.Metrics.Addr, a.Metrics); err != nil {
				log.Error("metrics server", zap.Error(err))
			}
		}()
	}

	return a.Session.Run(ctx, interval)
}
