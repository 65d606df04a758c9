// Package yahoo reads bars from the Yahoo Finance chart endpoint.
package yahoo

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/rustyeddy/papertrader/market"
)

// DefaultBaseURL is the public chart API host.
const DefaultBaseURL = "https://query1.finance.yahoo.com"

const userAgent = "Mozilla/5.0 (compatible; papertrader/1.0)"

// Client is a Yahoo chart API client.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// NewClient returns a client for baseURL. Empty means DefaultBaseURL and a
// zero timeout means 15s.
func NewClient(baseURL string, timeout time.Duration) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	if timeout <= 0 {
		timeout = 15 * time.Second
	}
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: timeout},
	}
}

type chartResponse struct {
	Chart struct {
		Result []chartResult `json:"result"`
		Error  *chartError   `json:"error"`
	} `json:"chart"`
}

type chartError struct {
	Code        string `json:"code"`
	Description string `json:"description"`
}

type chartResult struct {
	Timestamp  []int64 `json:"timestamp"`
	Indicators struct {
		Quote []quote `json:"quote"`
	} `json:"indicators"`
}

// Yahoo emits null for bars with no trades, hence the pointers.
type quote struct {
	Open   []*float64 `json:"open"`
	High   []*float64 `json:"high"`
	Low    []*float64 `json:"low"`
	Close  []*float64 `json:"close"`
	Volume []*float64 `json:"volume"`
}

// Series implements marketdata.Provider. Bars with no close are dropped.
func (c *Client) Series(ctx context.Context, instrument string, tf market.Timeframe) (market.Series, error) {
	if instrument == "" {
		return market.Series{}, fmt.Errorf("instrument is required")
	}
	if err := tf.Validate(); err != nil {
		return market.Series{}, err
	}

	params := url.Values{}
	params.Set("interval", tf.Interval)
	params.Set("range", tf.Lookback)
	apiURL := fmt.Sprintf("%s/v8/finance/chart/%s?%s", c.baseURL, url.PathEscape(instrument), params.Encode())

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, apiURL, nil)
	if err != nil {
		return market.Series{}, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("User-Agent", userAgent)
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return market.Series{}, fmt.Errorf("execute request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 64*1024))
		return market.Series{}, fmt.Errorf("yahoo chart http %d: %s", resp.StatusCode, strings.TrimSpace(string(body)))
	}

	var cr chartResponse
	if err := json.NewDecoder(resp.Body).Decode(&cr); err != nil {
		return market.Series{}, fmt.Errorf("decode response: %w", err)
	}
	if e := cr.Chart.Error; e != nil {
		return market.Series{}, fmt.Errorf("yahoo chart %s: %s", e.Code, e.Description)
	}

	out := market.Series{Instrument: instrument, Timeframe: tf}
	if len(cr.Chart.Result) == 0 || len(cr.Chart.Result[0].Indicators.Quote) == 0 {
		return out, nil
	}

	res := cr.Chart.Result[0]
	q := res.Indicators.Quote[0]
	for i, ts := range res.Timestamp {
		closeP := at(q.Close, i)
		if closeP == nil {
			continue
		}
		out.Candles = append(out.Candles, market.Candle{
			Time:   time.Unix(ts, 0).UTC(),
			Open:   valueOr(at(q.Open, i), *closeP),
			High:   valueOr(at(q.High, i), *closeP),
			Low:    valueOr(at(q.Low, i), *closeP),
			Close:  *closeP,
			Volume: valueOr(at(q.Volume, i), 0),
		})
	}
	return out, nil
}

func at(xs []*float64, i int) *float64 {
	if i < 0 || i >= len(xs) {
		return nil
	}
	return xs[i]
}

func valueOr(p *float64, def float64) float64 {
	if p == nil {
		return def
	}
	return *p
}
