package market

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// Timeframe names a bar interval and how far back to fetch, both in the
// compact form used by chart APIs: "15m", "1h", "1d", "5d".
type Timeframe struct {
	Interval string `json:"interval" yaml:"interval"`
	Lookback string `json:"lookback" yaml:"lookback"`
}

func (tf Timeframe) String() string {
	return tf.Interval + "/" + tf.Lookback
}

// IntervalDuration parses Interval.
func (tf Timeframe) IntervalDuration() (time.Duration, error) {
	return ParseSpan(tf.Interval)
}

// LookbackDuration parses Lookback.
func (tf Timeframe) LookbackDuration() (time.Duration, error) {
	return ParseSpan(tf.Lookback)
}

// Bars returns how many interval bars fit in the lookback window.
func (tf Timeframe) Bars() (int, error) {
	iv, err := tf.IntervalDuration()
	if err != nil {
		return 0, err
	}
	lb, err := tf.LookbackDuration()
	if err != nil {
		return 0, err
	}
	if lb < iv {
		return 0, fmt.Errorf("timeframe %s: lookback shorter than interval", tf)
	}
	return int(lb / iv), nil
}

// Validate checks both spans parse and the lookback covers at least one bar.
func (tf Timeframe) Validate() error {
	_, err := tf.Bars()
	return err
}

// ParseSpan parses spans like "1m", "15m", "1h", "1d", "5d", "1wk".
func ParseSpan(s string) (time.Duration, error) {
	s = strings.TrimSpace(strings.ToLower(s))
	if s == "" {
		return 0, fmt.Errorf("empty span")
	}

	units := []struct {
		suffix string
		unit   time.Duration
	}{
		{"wk", 7 * 24 * time.Hour},
		{"m", time.Minute},
		{"h", time.Hour},
		{"d", 24 * time.Hour},
	}
	for _, u := range units {
		if !strings.HasSuffix(s, u.suffix) {
			continue
		}
		n, err := strconv.Atoi(strings.TrimSuffix(s, u.suffix))
		if err != nil || n <= 0 {
			return 0, fmt.Errorf("bad span %q", s)
		}
		return time.Duration(n) * u.unit, nil
	}
	return 0, fmt.Errorf("bad span %q: want a number followed by m, h, d or wk", s)
}
