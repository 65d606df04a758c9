package cmd

import (
	"fmt"
	"time"

	"github.com/rustyeddy/papertrader/internal/report"
	"github.com/rustyeddy/papertrader/journal"
	"github.com/spf13/cobra"
)

var journalCmd = &cobra.Command{
	Use:   "journal",
	Short: "Query the SQLite trade journal",
	Long: `Query closed paper trades recorded by a session with journal.type: sqlite.

Subcommands:
  trades   - List closed trades
  summary  - Win rate, profit factor and net PnL
  day      - List trades closed on a specific day

Examples:
  trader journal trades --instrument SPY
  trader journal summary
  trader journal day 2024-01-15`,
}

var journalTradesCmd = &cobra.Command{
	Use:   "trades",
	Short: "List closed trades",
	Args:  cobra.NoArgs,
	RunE:  runJournalTrades,
}

var journalSummaryCmd = &cobra.Command{
	Use:   "summary",
	Short: "Summarize closed trades",
	Args:  cobra.NoArgs,
	RunE:  runJournalSummary,
}

var journalDayCmd = &cobra.Command{
	Use:   "day <YYYY-MM-DD>",
	Short: "List trades closed on a specific day (UTC)",
	Args:  cobra.ExactArgs(1),
	RunE:  runJournalDay,
}

var (
	journalDBPath     string
	journalInstrument string
)

func init() {
	rootCmd.AddCommand(journalCmd)
	journalCmd.AddCommand(journalTradesCmd)
	journalCmd.AddCommand(journalSummaryCmd)
	journalCmd.AddCommand(journalDayCmd)

	journalCmd.PersistentFlags().StringVarP(&journalDBPath, "db", "d", "./trader.db", "path to SQLite journal DB")
	journalCmd.PersistentFlags().StringVarP(&journalInstrument, "instrument", "i", "", "only this instrument")
}

func openJournal() (*journal.SQLite, error) {
	j, err := journal.NewSQLite(journalDBPath)
	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}
	return j, nil
}

func runJournalTrades(cmd *cobra.Command, args []string) error {
	j, err := openJournal()
	if err != nil {
		return err
	}
	defer j.Close()

	recs, err := j.ListTrades(journalInstrument)
	if err != nil {
		return fmt.Errorf("query trades: %w", err)
	}
	report.Trades(cmd.OutOrStdout(), recs)
	return nil
}

func runJournalSummary(cmd *cobra.Command, args []string) error {
	j, err := openJournal()
	if err != nil {
		return err
	}
	defer j.Close()

	sum, err := j.Summary(journalInstrument)
	if err != nil {
		return fmt.Errorf("summarize: %w", err)
	}
	report.Summary(cmd.OutOrStdout(), sum)
	return nil
}

func runJournalDay(cmd *cobra.Command, args []string) error {
	start, end, err := dayBounds(time.UTC, args[0])
	if err != nil {
		return fmt.Errorf("date: %w", err)
	}

	j, err := openJournal()
	if err != nil {
		return err
	}
	defer j.Close()

	recs, err := j.ListTradesClosedBetween(start, end)
	if err != nil {
		return fmt.Errorf("query trades: %w", err)
	}
	if journalInstrument != "" {
		kept := recs[:0]
		for _, r := range recs {
			if r.Instrument == journalInstrument {
				kept = append(kept, r)
			}
		}
		recs = kept
	}
	report.Trades(cmd.OutOrStdout(), recs)
	return nil
}

func dayBounds(loc *time.Location, day string) (time.Time, time.Time, error) {
	t, err := time.ParseInLocation("2006-01-02", day, loc)
	if err != nil {
		return time.Time{}, time.Time{}, err
	}
	start := time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, loc)
	end := start.Add(24 * time.Hour)
	return start, end, nil
}
