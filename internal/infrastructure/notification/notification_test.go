package notification

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/rentmgr/backend/internal/domain/rental"
	"github.com/rentmgr/backend/internal/infrastructure/config"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

type gateway struct {
	mu       sync.Mutex
	messages []Message
	auth     []string
	status   int
}

func newGateway(t *testing.T, status int) (*gateway, *httptest.Server) {
	t.Helper()
	g := &gateway{status: status}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var msg Message
		if err := json.NewDecoder(r.Body).Decode(&msg); err != nil {
			w.WriteHeader(http.StatusBadRequest)
			return
		}
		g.mu.Lock()
		g.messages = append(g.messages, msg)
		g.auth = append(g.auth, r.Header.Get("Authorization"))
		g.mu.Unlock()
		w.WriteHeader(g.status)
	}))
	t.Cleanup(srv.Close)
	return g, srv
}

func (g *gateway) received() []Message {
	g.mu.Lock()
	defer g.mu.Unlock()
	return append([]Message(nil), g.messages...)
}

func baseConfig() config.NotificationConfig {
	return config.NotificationConfig{
		Timeout:  2 * time.Second,
		Locale:   "en-US",
		Currency: "USD",
		Burst:    10,
	}
}

func TestFormatter(t *testing.T) {
	f, err := NewFormatter("en-US", "USD")
	require.NoError(t, err)

	assert.Equal(t, "USD 300.00", f.Amount(decimal.NewFromInt(300)))
	assert.Equal(t, "USD 425.50", f.Amount(decimal.RequireFromString("425.5")))
	assert.Equal(t, "Sunset Apartments", f.Name("sunset apartments"))
	assert.Equal(t, "Unit 4B", f.Name("unit 4B"))

	_, err = NewFormatter("not a locale!", "USD")
	assert.Error(t, err)
	_, err = NewFormatter("en-US", "DOLLARS")
	assert.Error(t, err)
}

func TestWebhookNotifier_SendPaymentReminder(t *testing.T) {
	email, emailSrv := newGateway(t, http.StatusAccepted)
	push, pushSrv := newGateway(t, http.StatusOK)

	cfg := baseConfig()
	cfg.EmailWebhookURL = emailSrv.URL
	cfg.PushWebhookURL = pushSrv.URL
	cfg.AuthToken = "gw-token"

	n, err := NewWebhookNotifier(cfg, zap.NewNop())
	require.NoError(t, err)

	tenantID := uuid.New()
	err = n.SendPaymentReminder(context.Background(), rental.Reminder{
		TenantID:     tenantID,
		PeriodLabel:  "July 2025",
		Amount:       decimal.NewFromInt(300),
		PropertyName: "sunset apartments",
	})
	require.NoError(t, err)

	require.Len(t, email.received(), 1)
	require.Len(t, push.received(), 1)

	msg := email.received()[0]
	assert.Equal(t, ChannelEmail, msg.Channel)
	assert.Equal(t, KindPaymentReminder, msg.Kind)
	assert.Equal(t, tenantID.String(), msg.TenantID)
	assert.Equal(t, "July 2025", msg.PeriodLabel)
	assert.Equal(t, "USD 300.00", msg.Amount)
	assert.Equal(t, "Sunset Apartments", msg.PropertyName)
	assert.Contains(t, msg.Body, "due for July 2025")
	assert.Empty(t, msg.PaymentDate)
	assert.Equal(t, "Bearer gw-token", email.auth[0])

	assert.Equal(t, ChannelPush, push.received()[0].Channel)
}

func TestWebhookNotifier_SendPaymentConfirmation(t *testing.T) {
	email, emailSrv := newGateway(t, http.StatusOK)

	cfg := baseConfig()
	cfg.EmailWebhookURL = emailSrv.URL

	n, err := NewWebhookNotifier(cfg, nil)
	require.NoError(t, err)

	err = n.SendPaymentConfirmation(context.Background(), rental.Confirmation{
		TenantID:     uuid.New(),
		PeriodLabel:  "July 2025, August 2025",
		Amount:       decimal.RequireFromString("600"),
		PropertyName: "Sunset Apartments",
		PaymentDate:  time.Date(2025, time.July, 2, 0, 0, 0, 0, time.UTC),
	})
	require.NoError(t, err)

	msgs := email.received()
	require.Len(t, msgs, 1)
	assert.Equal(t, KindPaymentConfirmation, msgs[0].Kind)
	assert.Equal(t, "2025-07-02", msgs[0].PaymentDate)
	assert.Equal(t, "July 2025, August 2025", msgs[0].PeriodLabel)
	assert.Contains(t, msgs[0].Body, "USD 600.00")
}

func TestWebhookNotifier_GatewayRejects(t *testing.T) {
	_, emailSrv := newGateway(t, http.StatusBadGateway)
	_, pushSrv := newGateway(t, http.StatusServiceUnavailable)

	cfg := baseConfig()
	cfg.EmailWebhookURL = emailSrv.URL
	cfg.PushWebhookURL = pushSrv.URL

	core, logs := observer.New(zap.WarnLevel)
	n, err := NewWebhookNotifier(cfg, zap.New(core))
	require.NoError(t, err)

	err = n.SendPaymentReminder(context.Background(), rental.Reminder{
		TenantID:    uuid.New(),
		PeriodLabel: "July 2025",
		Amount:      decimal.NewFromInt(300),
	})
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrGatewayRejected)
	assert.Contains(t, err.Error(), "email")
	assert.Contains(t, err.Error(), "push")
	assert.Equal(t, 2, logs.FilterMessage("notification delivery failed").Len())
}

func TestWebhookNotifier_PartialDelivery(t *testing.T) {
	email, emailSrv := newGateway(t, http.StatusOK)
	push, pushSrv := newGateway(t, http.StatusServiceUnavailable)

	cfg := baseConfig()
	cfg.EmailWebhookURL = emailSrv.URL
	cfg.PushWebhookURL = pushSrv.URL

	core, logs := observer.New(zap.WarnLevel)
	n, err := NewWebhookNotifier(cfg, zap.New(core))
	require.NoError(t, err)

	t.Run("reminder counts as sent", func(t *testing.T) {
		err := n.SendPaymentReminder(context.Background(), rental.Reminder{
			TenantID:    uuid.New(),
			PeriodLabel: "July 2025",
			Amount:      decimal.NewFromInt(300),
		})
		require.NoError(t, err)
		assert.Equal(t, 1, logs.FilterMessage("notification partially delivered").Len())
	})

	t.Run("confirmation is not redelivered", func(t *testing.T) {
		before := len(email.received())
		confirmation := rental.Confirmation{
			TenantID:    uuid.New(),
			PeriodLabel: "July 2025",
			Amount:      decimal.NewFromInt(300),
			PaymentDate: time.Date(2025, time.July, 3, 0, 0, 0, 0, time.UTC),
		}
		// the outbox only retries an event whose handler failed
		for attempt := 0; attempt < 3; attempt++ {
			if err := n.SendPaymentConfirmation(context.Background(), confirmation); err == nil {
				break
			}
		}
		assert.Len(t, email.received(), before+1)
		assert.Equal(t, KindPaymentConfirmation, email.received()[before].Kind)
	})

	assert.Len(t, push.received(), 2)
}

func TestWebhookNotifier_CancelledContext(t *testing.T) {
	cfg := baseConfig()
	cfg.EmailWebhookURL = "http://127.0.0.1:1/unused"
	cfg.RatePerSecond = 0.001
	cfg.Burst = 1

	n, err := NewWebhookNotifier(cfg, zap.NewNop())
	require.NoError(t, err)
	n.limiter.Allow() // drain the only token

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err = n.SendPaymentReminder(ctx, rental.Reminder{TenantID: uuid.New()})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "rate limit wait")
}

func TestNewWebhookNotifier_RequiresGateway(t *testing.T) {
	_, err := NewWebhookNotifier(baseConfig(), zap.NewNop())
	assert.Error(t, err)
}

func TestNew(t *testing.T) {
	t.Run("log notifier without gateways", func(t *testing.T) {
		core, logs := observer.New(zap.InfoLevel)
		n, err := New(baseConfig(), zap.New(core))
		require.NoError(t, err)
		require.IsType(t, &LogNotifier{}, n)

		require.NoError(t, n.SendPaymentReminder(context.Background(), rental.Reminder{
			TenantID:     uuid.New(),
			PeriodLabel:  "July 2025",
			Amount:       decimal.NewFromInt(300),
			PropertyName: "sunset apartments",
		}))
		entries := logs.FilterMessageSnippet("not sent").All()
		require.Len(t, entries, 1)
		assert.Equal(t, KindPaymentReminder, entries[0].ContextMap()["kind"])
	})

	t.Run("webhook notifier with a gateway", func(t *testing.T) {
		cfg := baseConfig()
		cfg.PushWebhookURL = "http://push.local/hook"
		n, err := New(cfg, zap.NewNop())
		require.NoError(t, err)
		assert.IsType(t, &WebhookNotifier{}, n)
	})
}
