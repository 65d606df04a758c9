package cmd

import (
	"context"

	"github.com/rustyeddy/papertrader/internal/app"
	"github.com/rustyeddy/papertrader/internal/report"
	"github.com/rustyeddy/papertrader/notify"
	"github.com/rustyeddy/papertrader/session"
	"github.com/spf13/cobra"
)

var scanCmd = &cobra.Command{
	Use:   "scan",
	Short: "Run a single scan pass and print the result",
	Long: `Evaluate every configured instrument once and print the signals in a
table. Notifications go to the log unless --notify is set.

Example:
  trader scan
  TICKERS=AAPL,MSFT trader scan --log-level warn`,
	Args: cobra.NoArgs,
	RunE: runScan,
}

var scanNotify bool

func init() {
	rootCmd.AddCommand(scanCmd)
	scanCmd.Flags().BoolVar(&scanNotify, "notify", false, "send notifications to the configured channel")
}

func runScan(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	log, err := newLogger(cfg)
	if err != nil {
		return err
	}

	var opts []session.Option
	if !scanNotify {
		opts = append(opts, session.WithNotifier(notify.Console{Log: log}))
	}

	a, err := app.Build(cfg, log, opts...)
	if err != nil {
		return err
	}
	defer a.Close()

	rep, err := a.Session.Pass(context.Background())
	report.Pass(cmd.OutOrStdout(), rep)
	return err
}
