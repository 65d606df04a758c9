package notify

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/rustyeddy/papertrader/sim"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

func TestNew(t *testing.T) {
	assert.IsType(t, Console{}, New("", "", nil))
	assert.IsType(t, Console{}, New("tok", "", nil))
	assert.IsType(t, Console{}, New("", "42", nil))
	assert.IsType(t, &Telegram{}, New("tok", "42", nil))
}

func TestConsole(t *testing.T) {
	core, logs := observer.New(zap.InfoLevel)
	n := Console{Log: zap.New(core)}

	require.NoError(t, n.Notify(context.Background(), "hello"))
	require.Equal(t, 1, logs.Len())
	assert.Equal(t, "hello", logs.All()[0].ContextMap()["text"])

	assert.NoError(t, Console{}.Notify(context.Background(), "no logger"))
}

func TestTelegram_Notify(t *testing.T) {
	var got sendMessage
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/botTOKEN/sendMessage", r.URL.Path)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		_, _ = w.Write([]byte(`{"ok":true}`))
	}))
	defer server.Close()

	tg := NewTelegram("TOKEN", "1234")
	tg.baseURL = server.URL

	require.NoError(t, tg.Notify(context.Background(), "line one\nline two"))
	assert.Equal(t, "1234", got.ChatID)
	assert.Equal(t, "line one\nline two", got.Text)
	assert.True(t, got.DisableWebPagePreview)
}

func TestTelegram_Errors(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte(`{"ok":false,"description":"Bad Request: chat not found"}`))
	}))

	tg := NewTelegram("SECRET", "1")
	tg.baseURL = server.URL

	err := tg.Notify(context.Background(), "x")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "status 400")
	assert.Contains(t, err.Error(), "chat not found")

	server.Close()
	err = tg.Notify(context.Background(), "x")
	require.Error(t, err)
	assert.NotContains(t, err.Error(), "SECRET")
}

func TestMessages(t *testing.T) {
	assert.Contains(t, Startup(), "Veteran Paper Bot ONLINE\nAuto-scan + auto-paper-trading active")

	tr := sim.Trade{Instrument: "SPY", Entry: 100, Stop: 99, Target: 102, Size: 200}
	assert.Contains(t, Opened(tr), "PAPER BUY SPY\nEntry: 100.00\nStop: 99.00\nTarget: 102.00")

	stop := tr
	stop.Status = sim.ClosedByStop
	assert.Contains(t, Closed(sim.Closure{Trade: stop, PnL: -200}), "STOP HIT SPY | PnL: -200.00")

	target := tr
	target.Status = sim.ClosedByTarget
	assert.Contains(t, Closed(sim.Closure{Trade: target, PnL: 400}), "TARGET HIT SPY | PnL: 400.00")
}
