package cmd

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/rustyeddy/papertrader/internal/app"
	"github.com/rustyeddy/papertrader/market"
	"github.com/rustyeddy/papertrader/marketdata"
	"github.com/spf13/cobra"
)

var dataCmd = &cobra.Command{
	Use:   "data",
	Short: "Download market data",
}

var dataFetchCmd = &cobra.Command{
	Use:   "fetch <instrument>...",
	Short: "Download candles from the configured provider and write CSV",
	Long: `Fetch candles for one or more instruments and write them in the canonical
candle CSV layout (time,instrument,granularity,complete,volume,o,h,l,c).
The output can be served back with data.provider "csv".

Example:
  trader data fetch SPY QQQ --interval 1m --lookback 5d -o spy_qqq_1m.csv`,
	Args: cobra.MinimumNArgs(1),
	RunE: runDataFetch,
}

var (
	dataInterval string
	dataLookback string
	dataOut      string
)

func init() {
	rootCmd.AddCommand(dataCmd)
	dataCmd.AddCommand(dataFetchCmd)

	dataFetchCmd.Flags().StringVar(&dataInterval, "interval", "1m", "bar interval")
	dataFetchCmd.Flags().StringVar(&dataLookback, "lookback", "5d", "lookback window")
	dataFetchCmd.Flags().StringVarP(&dataOut, "out", "o", "", "output CSV (stdout when empty)")
}

func runDataFetch(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	p, err := app.NewProvider(cfg.Data)
	if err != nil {
		return err
	}

	tf := market.Timeframe{Interval: dataInterval, Lookback: dataLookback}
	if err := tf.Validate(); err != nil {
		return err
	}

	var out io.Writer = cmd.OutOrStdout()
	if dataOut != "" {
		fh, err := os.Create(dataOut)
		if err != nil {
			return fmt.Errorf("create %s: %w", dataOut, err)
		}
		defer fh.Close()
		out = fh
	}

	w := marketdata.NewCandleWriter(out)
	for _, instr := range args {
		s, err := marketdata.Fetch(context.Background(), p, instr, tf)
		if err != nil {
			return err
		}
		n, err := w.Write(s)
		if err != nil {
			return fmt.Errorf("write %s: %w", instr, err)
		}
		fmt.Fprintf(cmd.ErrOrStderr(), "✓ %s: %d candles\n", instr, n)
	}
	return nil
}
