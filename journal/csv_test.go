package journal

import (
	"encoding/csv"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func readCSV(t *testing.T, path string) [][]string {
	t.Helper()

	fh, err := os.Open(path)
	require.NoError(t, err)
	defer fh.Close()

	rows, err := csv.NewReader(fh).ReadAll()
	require.NoError(t, err)
	return rows
}

func TestCSVJournalHeaders(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	tradesPath := filepath.Join(dir, "trades.csv")
	equityPath := filepath.Join(dir, "equity.csv")

	j, err := NewCSV(tradesPath, equityPath)
	require.NoError(t, err)
	require.NoError(t, j.Close())

	assert.Equal(t, [][]string{tradesHeader}, readCSV(t, tradesPath))
	assert.Equal(t, [][]string{equityHeader}, readCSV(t, equityPath))
}

func TestCSVJournalRecord(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	tradesPath := filepath.Join(dir, "trades.csv")
	equityPath := filepath.Join(dir, "equity.csv")

	j, err := NewCSV(tradesPath, equityPath)
	require.NoError(t, err)

	closeT := time.Date(2024, 1, 2, 4, 5, 6, 0, time.UTC)
	require.NoError(t, j.RecordTrade(sampleTrade("T1", closeT, 200)))
	require.NoError(t, j.RecordEquity(EquitySnapshot{Time: closeT, Balance: 10200, NetPnL: 200, OpenTrades: 2}))

	// Rows are flushed as they are written.
	trades := readCSV(t, tradesPath)
	require.Len(t, trades, 2)
	assert.Equal(t, []string{
		"T1", "SPY", "100.000000", "100.000000", "99.000000", "102.000000", "102.000000",
		"2024-01-02T03:05:06Z", "2024-01-02T04:05:06Z", "200.000000", "TakeProfit",
	}, trades[1])

	equity := readCSV(t, equityPath)
	require.Len(t, equity, 2)
	assert.Equal(t, []string{"2024-01-02T04:05:06Z", "10200.000000", "200.000000", "2"}, equity[1])

	require.NoError(t, j.Close())
}

func TestCSVJournalBadPath(t *testing.T) {
	t.Parallel()

	_, err := NewCSV(filepath.Join(t.TempDir(), "missing", "trades.csv"), "equity.csv")
	assert.Error(t, err)
}

func TestOpen(t *testing.T) {
	t.Parallel()

	j, err := Open(Options{Type: "none"})
	require.NoError(t, err)
	assert.IsType(t, Nop{}, j)
	assert.NoError(t, j.RecordTrade(TradeRecord{}))
	assert.NoError(t, j.Close())

	dir := t.TempDir()
	j, err = Open(Options{Type: "sqlite", DBPath: filepath.Join(dir, "j.db")})
	require.NoError(t, err)
	assert.IsType(t, &SQLite{}, j)
	require.NoError(t, j.Close())

	j, err = Open(Options{Type: "csv", TradesFile: filepath.Join(dir, "t.csv"), EquityFile: filepath.Join(dir, "e.csv")})
	require.NoError(t, err)
	assert.IsType(t, &CSVJournal{}, j)
	require.NoError(t, j.Close())

	_, err = Open(Options{Type: "parquet"})
	assert.Error(t, err)
}

func TestSummarize(t *testing.T) {
	t.Parallel()

	assert.Equal(t, 0.0, Summary{}.WinRate())
	assert.Equal(t, 0.0, Summary{}.ProfitFactor())

	s := Summarize([]TradeRecord{{RealizedPL: 200}, {RealizedPL: -100}, {RealizedPL: 0}, {RealizedPL: 200}})
	assert.Equal(t, 4, s.Trades)
	assert.Equal(t, 2, s.Wins)
	assert.Equal(t, 1, s.Losses)
	assert.InDelta(t, 0.5, s.WinRate(), 1e-12)
	assert.InDelta(t, 400.0, s.GrossProfit, 1e-12)
	assert.InDelta(t, 100.0, s.GrossLoss, 1e-12)
	assert.InDelta(t, 300.0, s.NetPL, 1e-12)
}
