// Package metrics exposes session counters and gauges for Prometheus.
package metrics

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "papertrader"

// Recorder owns its own registry so several sessions (and tests) never
// collide on the global one.
type Recorder struct {
	reg *prometheus.Registry

	passes       prometheus.Counter
	passErrors   *prometheus.CounterVec
	tradesOpened *prometheus.CounterVec
	tradesClosed *prometheus.CounterVec
	realizedPnL  prometheus.Gauge
	balance      prometheus.Gauge
	openTrades   prometheus.Gauge
	passDuration prometheus.Histogram
}

func NewRecorder() *Recorder {
	r := &Recorder{
		reg: prometheus.NewRegistry(),
		passes: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "passes_total",
			Help:      "Completed scan passes.",
		}),
		passErrors: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "pass_errors_total",
			Help:      "Per-instrument failures inside scan passes.",
		}, []string{"kind"}),
		tradesOpened: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "trades_opened_total",
			Help:      "Paper trades opened.",
		}, []string{"instrument"}),
		tradesClosed: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "trades_closed_total",
			Help:      "Paper trades closed.",
		}, []string{"instrument", "reason"}),
		realizedPnL: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "realized_pnl",
			Help:      "Realized profit or loss since start.",
		}),
		balance: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "balance",
			Help:      "Paper account balance.",
		}),
		openTrades: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "open_trades",
			Help:      "Currently open paper trades.",
		}),
		passDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "pass_duration_seconds",
			Help:      "Wall time of a scan pass.",
			Buckets:   prometheus.DefBuckets,
		}),
	}

	r.reg.MustRegister(
		r.passes,
		r.passErrors,
		r.tradesOpened,
		r.tradesClosed,
		r.realizedPnL,
		r.balance,
		r.openTrades,
		r.passDuration,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return r
}

// Registry returns the recorder's registry.
func (r *Recorder) Registry() *prometheus.Registry { return r.reg }

// PassDone records one finished pass and the account state after it.
func (r *Recorder) PassDone(d time.Duration, balance, netPnL float64, open int) {
	r.passes.Inc()
	r.passDuration.Observe(d.Seconds())
	r.balance.Set(balance)
	r.realizedPnL.Set(netPnL)
	r.openTrades.Set(float64(open))
}

// PassError counts one per-instrument failure of kind.
func (r *Recorder) PassError(kind string) {
	r.passErrors.WithLabelValues(kind).Inc()
}

func (r *Recorder) TradeOpened(instrument string) {
	r.tradesOpened.WithLabelValues(instrument).Inc()
}

func (r *Recorder) TradeClosed(instrument, reason string) {
	r.tradesClosed.WithLabelValues(instrument, reason).Inc()
}

// Handler serves the recorder's registry in the exposition format.
func (r *Recorder) Handler() http.Handler {
	return promhttp.HandlerFor(r.reg, promhttp.HandlerOpts{Registry: r.reg})
}

// Serve exposes /metrics on addr until ctx is done.
func Serve(ctx context.Context, addr string, r *Recorder) error {
	mux := http.NewServeMux()
	mux.Handle("/metrics", r.Handler())
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte("ok"))
	})

	srv := &http.Server{
		Addr:              addr,
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}

	errc := make(chan error, 1)
	go func() { errc <- srv.ListenAndServe() }()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return err
		}
		return nil
	case err := <-errc:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	}
}
