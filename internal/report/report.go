// Package report renders pass results and journal queries as terminal tables.
package report

import (
	"fmt"
	"io"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
	"github.com/rustyeddy/papertrader/config"
	"github.com/rustyeddy/papertrader/journal"
	"github.com/rustyeddy/papertrader/session"
)

func newTable(w io.Writer, title string) table.Writer {
	t := table.NewWriter()
	t.SetOutputMirror(w)
	t.SetTitle(title)
	t.SetStyle(table.StyleRounded)
	return t
}

func yesNo(b bool) string {
	if b {
		return "yes"
	}
	return "no"
}

// Pass renders the signals, trades and failures of one pass.
func Pass(w io.Writer, rep session.PassReport) {
	t := newTable(w, "SCAN PASS "+rep.Finished.UTC().Format("2006-01-02 15:04:05Z"))
	t.AppendHeader(table.Row{"Instrument", "Bullish", "Close", "EMA20", "RSI", "Fire"})
	for _, s := range rep.Signals {
		t.AppendRow(table.Row{
			s.Instrument,
			yesNo(s.Trend.Bullish),
			fmt.Sprintf("%.2f", s.Entry.Close),
			fmt.Sprintf("%.2f", s.Entry.EMA),
			fmt.Sprintf("%.1f", s.Entry.RSI),
			yesNo(s.Fire),
		})
	}
	t.SetColumnConfigs([]table.ColumnConfig{
		{Number: 3, Align: text.AlignRight},
		{Number: 4, Align: text.AlignRight},
		{Number: 5, Align: text.AlignRight},
	})
	t.Render()

	if len(rep.Opened) > 0 {
		o := newTable(w, "OPENED")
		o.AppendHeader(table.Row{"Instrument", "Entry", "Stop", "Target", "Size"})
		for _, tr := range rep.Opened {
			o.AppendRow(table.Row{tr.Instrument,
				fmt.Sprintf("%.2f", tr.Entry),
				fmt.Sprintf("%.2f", tr.Stop),
				fmt.Sprintf("%.2f", tr.Target),
				fmt.Sprintf("%.4f", tr.Size),
			})
		}
		o.Render()
	}

	if len(rep.Closed) > 0 {
		c := newTable(w, "CLOSED")
		c.AppendHeader(table.Row{"Instrument", "Reason", "Exit", "PnL"})
		for _, cl := range rep.Closed {
			c.AppendRow(table.Row{cl.Trade.Instrument, cl.Reason(),
				fmt.Sprintf("%.2f", cl.ExitPrice),
				fmt.Sprintf("%.2f", cl.PnL),
			})
		}
		c.Render()
	}

	if len(rep.Errors) > 0 {
		e := newTable(w, "SKIPPED")
		e.AppendHeader(table.Row{"Instrument", "Kind", "Error"})
		for _, err := range rep.Errors {
			e.AppendRow(table.Row{err.Instrument, err.Kind.String(), err.Err.Error()})
		}
		e.SetColumnConfigs([]table.ColumnConfig{{Number: 3, WidthMax: 60}})
		e.Render()
	}

	fmt.Fprintf(w, "Balance: %.2f  Open trades: %d\n", rep.Balance, rep.OpenTrades)
}

// Trades renders closed trade records.
func Trades(w io.Writer, recs []journal.TradeRecord) {
	t := newTable(w, "TRADES")
	t.AppendHeader(table.Row{"ID", "Instrument", "Opened", "Closed", "Entry", "Exit", "Size", "PnL", "Reason"})
	for _, r := range recs {
		t.AppendRow(table.Row{
			r.TradeID,
			r.Instrument,
			r.OpenTime.UTC().Format("2006-01-02 15:04"),
			r.CloseTime.UTC().Format("2006-01-02 15:04"),
			fmt.Sprintf("%.2f", r.EntryPrice),
			fmt.Sprintf("%.2f", r.ExitPrice),
			fmt.Sprintf("%.4f", r.Size),
			fmt.Sprintf("%.2f", r.RealizedPL),
			r.Reason,
		})
	}
	t.AppendFooter(table.Row{"", "", "", "", "", "", "Total", fmt.Sprintf("%.2f", journal.Summarize(recs).NetPL), ""})
	t.Render()
}

// Summary renders journal totals.
func Summary(w io.Writer, s journal.Summary) {
	t := newTable(w, "SUMMARY")
	t.AppendRows([]table.Row{
		{"Trades", s.Trades},
		{"Wins", s.Wins},
		{"Losses", s.Losses},
		{"Win rate", fmt.Sprintf("%.1f%%", s.WinRate()*100)},
	})
	t.AppendSeparator()
	t.AppendRows([]table.Row{
		{"Gross profit", fmt.Sprintf("%.2f", s.GrossProfit)},
		{"Gross loss", fmt.Sprintf("%.2f", s.GrossLoss)},
		{"Profit factor", fmt.Sprintf("%.2f", s.ProfitFactor())},
		{"Net PnL", fmt.Sprintf("%.2f", s.NetPL)},
	})
	t.SetColumnConfigs([]table.ColumnConfig{
		{Number: 1, WidthMin: 14, Align: text.AlignLeft},
		{Number: 2, Align: text.AlignRight},
	})
	t.Render()
}

// Config renders the effective configuration without secrets.
func Config(w io.Writer, cfg *config.Config) {
	t := newTable(w, "CONFIGURATION")
	t.AppendRows([]table.Row{
		{"Account", fmt.Sprintf("%s (%.2f %s)", cfg.Account.ID, cfg.Account.Balance, cfg.Account.Currency)},
		{"Instruments", strings.Join(cfg.Strategy.Instruments, ", ")},
		{"Risk", fmt.Sprintf("%.2f%%", cfg.Strategy.RiskFraction*100)},
		{"Trend", cfg.Strategy.Trend.String()},
		{"Entry", cfg.Strategy.Entry.String()},
		{"Manage", cfg.Strategy.Manage.String()},
		{"Scan interval", cfg.Scan.Interval},
	})
	t.AppendSeparator()
	t.AppendRows([]table.Row{
		{"Data", cfg.Data.Provider},
		{"Telegram", yesNo(cfg.Notify.TelegramToken != "" && cfg.Notify.TelegramChatID != "")},
		{"Journal", cfg.Journal.Type},
		{"Metrics", orDash(cfg.Metrics.Addr)},
	})
	t.Render()
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}
