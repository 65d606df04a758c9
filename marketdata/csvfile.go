package marketdata

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/rustyeddy/papertrader/market"
)

// CandleHeader is the canonical candle CSV layout, one OHLC set per row.
var CandleHeader = []string{"time", "instrument", "granularity", "complete", "volume", "o", "h", "l", "c"}

// CandleWriter writes series in the canonical layout. The header is written
// before the first row.
type CandleWriter struct {
	cw     *csv.Writer
	header bool
}

func NewCandleWriter(w io.Writer) *CandleWriter {
	return &CandleWriter{cw: csv.NewWriter(w)}
}

// Write appends the candles of s and flushes.
func (w *CandleWriter) Write(s market.Series) (int, error) {
	if !w.header {
		if err := w.cw.Write(CandleHeader); err != nil {
			return 0, err
		}
		w.header = true
	}

	written := 0
	for _, c := range s.Candles {
		row := []string{
			c.Time.UTC().Format(time.RFC3339),
			s.Instrument,
			s.Timeframe.Interval,
			"true",
			strconv.FormatFloat(c.Volume, 'f', -1, 64),
			strconv.FormatFloat(c.Open, 'f', -1, 64),
			strconv.FormatFloat(c.High, 'f', -1, 64),
			strconv.FormatFloat(c.Low, 'f', -1, 64),
			strconv.FormatFloat(c.Close, 'f', -1, 64),
		}
		if err := w.cw.Write(row); err != nil {
			return written, err
		}
		written++
	}
	w.cw.Flush()
	return written, w.cw.Error()
}

// WriteCandlesCSV writes s in the canonical layout with a header row.
func WriteCandlesCSV(w io.Writer, s market.Series) (int, error) {
	return NewCandleWriter(w).Write(s)
}

// ReadCandlesCSV reads canonical candle rows grouped by instrument, each
// group sorted oldest first. A header row is allowed, incomplete candles
// and short rows are skipped.
func ReadCandlesCSV(r io.Reader) (map[string][]market.Candle, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1

	out := make(map[string][]market.Candle)
	line := 0
	for {
		row, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, err
		}
		line++

		if line == 1 && len(row) > 0 && strings.EqualFold(strings.TrimSpace(row[0]), "time") {
			continue
		}
		if len(row) < len(CandleHeader) {
			continue
		}
		if strings.EqualFold(strings.TrimSpace(row[3]), "false") {
			continue
		}

		c, err := parseCandleRow(row)
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", line, err)
		}
		inst := strings.TrimSpace(row[1])
		out[inst] = append(out[inst], c)
	}

	for inst := range out {
		cs := out[inst]
		sort.SliceStable(cs, func(i, j int) bool { return cs[i].Time.Before(cs[j].Time) })
	}
	return out, nil
}

// LoadCandlesCSV reads the candle file at path.
func LoadCandlesCSV(path string) (map[string][]market.Candle, error) {
	fh, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer fh.Close()
	return ReadCandlesCSV(fh)
}

func parseCandleRow(row []string) (market.Candle, error) {
	ts := strings.TrimSpace(row[0])
	t, err := time.Parse(time.RFC3339Nano, ts)
	if err != nil {
		return market.Candle{}, fmt.Errorf("bad time %q: %w", ts, err)
	}

	var vals [5]float64
	for i, col := range []int{4, 5, 6, 7, 8} {
		v, err := strconv.ParseFloat(strings.TrimSpace(row[col]), 64)
		if err != nil {
			return market.Candle{}, fmt.Errorf("bad %s %q: %w", CandleHeader[col], row[col], err)
		}
		vals[i] = v
	}

	return market.Candle{
		Time:   t.UTC(),
		Volume: vals[0],
		Open:   vals[1],
		High:   vals[2],
		Low:    vals[3],
		Close:  vals[4],
	}, nil
}
