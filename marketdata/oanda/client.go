// Package oanda fetches mid-price candles from the OANDA v20 REST API.
package oanda

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/rustyeddy/papertrader/market"
)

const (
	// PracticeURL is the URL for OANDA's practice/demo environment
	PracticeURL = "https://api-fxpractice.oanda.com"
	// LiveURL is the URL for OANDA's live trading environment
	LiveURL = "https://api-fxtrade.oanda.com"

	// MaxCount is the largest count the candles endpoint accepts.
	MaxCount = 5000
)

// Granularity represents the time frame for candles
type Granularity string

const (
	M1  Granularity = "M1"
	M5  Granularity = "M5"
	M15 Granularity = "M15"
	M30 Granularity = "M30"
	H1  Granularity = "H1"
	H4  Granularity = "H4"
	D   Granularity = "D"
)

var granularities = map[string]Granularity{
	"1m":  M1,
	"5m":  M5,
	"15m": M15,
	"30m": M30,
	"1h":  H1,
	"4h":  H4,
	"1d":  D,
}

// GranularityFor maps a chart interval like "15m" to its OANDA name.
func GranularityFor(interval string) (Granularity, error) {
	g, ok := granularities[interval]
	if !ok {
		return "", fmt.Errorf("oanda: unsupported interval %q", interval)
	}
	return g, nil
}

// Client represents an OANDA API client
type Client struct {
	baseURL    string
	token      string
	httpClient *http.Client
}

// NewClient creates a new OANDA API client. A zero timeout means 30s.
func NewClient(token string, practice bool, timeout time.Duration) *Client {
	baseURL := LiveURL
	if practice {
		baseURL = PracticeURL
	}
	if timeout <= 0 {
		timeout = 30 * time.Second
	}

	return &Client{
		baseURL:    baseURL,
		token:      token,
		httpClient: &http.Client{Timeout: timeout},
	}
}

// CandlesRequest represents parameters for fetching recent candles
type CandlesRequest struct {
	Instrument  string // e.g. "EUR_USD"
	Granularity Granularity
	Count       int
}

type candleData struct {
	O string `json:"o"`
	H string `json:"h"`
	L string `json:"l"`
	C string `json:"c"`
}

type apiCandle struct {
	Complete bool       `json:"complete"`
	Volume   int        `json:"volume"`
	Time     string     `json:"time"`
	Mid      candleData `json:"mid"`
}

type candlesResponse struct {
	Instrument  string      `json:"instrument"`
	Granularity string      `json:"granularity"`
	Candles     []apiCandle `json:"candles"`
}

// GetCandles fetches the latest complete mid candles, oldest first.
func (c *Client) GetCandles(ctx context.Context, req CandlesRequest) ([]market.Candle, error) {
	if req.Instrument == "" {
		return nil, fmt.Errorf("instrument is required")
	}
	if c.token == "" {
		return nil, fmt.Errorf("oanda: missing token")
	}
	if req.Granularity == "" {
		req.Granularity = M1
	}
	if req.Count <= 0 || req.Count > MaxCount {
		return nil, fmt.Errorf("count must be in 1..%d, got %d", MaxCount, req.Count)
	}

	params := url.Values{}
	params.Set("price", "M")
	params.Set("granularity", string(req.Granularity))
	params.Set("count", strconv.Itoa(req.Count))

	apiURL := fmt.Sprintf("%s/v3/instruments/%s/candles?%s", c.baseURL, url.PathEscape(req.Instrument), params.Encode())

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, apiURL, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	httpReq.Header.Set("Authorization", "Bearer "+c.token)

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("execute request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 64*1024))
		return nil, fmt.Errorf("API error (status %d): %s", resp.StatusCode, string(body))
	}

	var apiResp candlesResponse
	if err := json.NewDecoder(resp.Body).Decode(&apiResp); err != nil {
		return nil, fmt.Errorf("decode response: %w", err)
	}

	candles := make([]market.Candle, 0, len(apiResp.Candles))
	for _, ac := range apiResp.Candles {
		if !ac.Complete {
			continue
		}

		t, err := time.Parse(time.RFC3339Nano, ac.Time)
		if err != nil {
			return nil, fmt.Errorf("parse time %s: %w", ac.Time, err)
		}

		var px [4]float64
		for i, s := range []string{ac.Mid.O, ac.Mid.H, ac.Mid.L, ac.Mid.C} {
			px[i], err = strconv.ParseFloat(s, 64)
			if err != nil {
				return nil, fmt.Errorf("parse price %q at %s: %w", s, ac.Time, err)
			}
		}

		candles = append(candles, market.Candle{
			Time:   t,
			Open:   px[0],
			High:   px[1],
			Low:    px[2],
			Close:  px[3],
			Volume: float64(ac.Volume),
		})
	}

	return candles, nil
}

// Series implements marketdata.Provider. The lookback is converted to a
// bar count and capped at MaxCount.
func (c *Client) Series(ctx context.Context, instrument string, tf market.Timeframe) (market.Series, error) {
	g, err := GranularityFor(tf.Interval)
	if err != nil {
		return market.Series{}, err
	}
	n, err := tf.Bars()
	if err != nil {
		return market.Series{}, err
	}
	if n > MaxCount {
		n = MaxCount
	}

	candles, err := c.GetCandles(ctx, CandlesRequest{Instrument: instrument, Granularity: g, Count: n})
	if err != nil {
		return market.Series{}, err
	}
	return market.Series{Instrument: instrument, Timeframe: tf, Candles: candles}, nil
}
