package notification

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/rentmgr/backend/internal/domain/rental"
	"github.com/rentmgr/backend/internal/infrastructure/config"
	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

// ErrGatewayRejected is returned when a gateway answers with a non-2xx status
var ErrGatewayRejected = errors.New("notification gateway rejected message")

// WebhookNotifier posts each message to every configured gateway.
// A message counts as delivered once any gateway accepts it. Channels that
// failed alongside a delivered one are logged and not retried, so a retry
// never repeats a message the tenant already received.
type WebhookNotifier struct {
	client    *http.Client
	endpoints map[string]string // channel -> URL
	authToken string
	format    *Formatter
	limiter   *rate.Limiter
	logger    *zap.Logger
}

// NewWebhookNotifier builds a notifier from config. At least one gateway URL
// must be set.
func NewWebhookNotifier(cfg config.NotificationConfig, logger *zap.Logger) (*WebhookNotifier, error) {
	endpoints := make(map[string]string, 2)
	if cfg.EmailWebhookURL != "" {
		endpoints[ChannelEmail] = cfg.EmailWebhookURL
	}
	if cfg.PushWebhookURL != "" {
		endpoints[ChannelPush] = cfg.PushWebhookURL
	}
	if len(endpoints) == 0 {
		return nil, errors.New("no notification gateway configured")
	}

	format, err := NewFormatter(cfg.Locale, cfg.Currency)
	if err != nil {
		return nil, err
	}

	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	limit := rate.Inf
	if cfg.RatePerSecond > 0 {
		limit = rate.Limit(cfg.RatePerSecond)
	}
	burst := cfg.Burst
	if burst < 1 {
		burst = 1
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	return &WebhookNotifier{
		client:    &http.Client{Timeout: timeout},
		endpoints: endpoints,
		authToken: cfg.AuthToken,
		format:    format,
		limiter:   rate.NewLimiter(limit, burst),
		logger:    logger,
	}, nil
}

// SendPaymentReminder implements rental.Notifier
func (n *WebhookNotifier) SendPaymentReminder(ctx context.Context, r rental.Reminder) error {
	return n.dispatch(ctx, reminderMessage(n.format, r))
}

// SendPaymentConfirmation implements rental.Notifier
func (n *WebhookNotifier) SendPaymentConfirmation(ctx context.Context, c rental.Confirmation) error {
	return n.dispatch(ctx, confirmationMessage(n.format, c))
}

func (n *WebhookNotifier) dispatch(ctx context.Context, msg Message) error {
	var (
		errs      []error
		delivered []string
	)
	for _, channel := range []string{ChannelEmail, ChannelPush} {
		url, ok := n.endpoints[channel]
		if !ok {
			continue
		}
		msg.Channel = channel
		if err := n.post(ctx, url, msg); err != nil {
			n.logger.Warn("notification delivery failed",
				zap.String("channel", channel),
				zap.String("kind", msg.Kind),
				zap.String("tenant_id", msg.TenantID),
				zap.Error(err),
			)
			errs = append(errs, fmt.Errorf("%s: %w", channel, err))
			continue
		}
		delivered = append(delivered, channel)
		n.logger.Debug("notification delivered",
			zap.String("channel", channel),
			zap.String("kind", msg.Kind),
			zap.String("tenant_id", msg.TenantID),
		)
	}

	if len(delivered) == 0 {
		return errors.Join(errs...)
	}
	if len(errs) > 0 {
		n.logger.Warn("notification partially delivered",
			zap.String("kind", msg.Kind),
			zap.String("tenant_id", msg.TenantID),
			zap.Strings("delivered", delivered),
			zap.Error(errors.Join(errs...)),
		)
	}
	return nil
}

func (n *WebhookNotifier) post(ctx context.Context, url string, msg Message) error {
	if err := n.limiter.Wait(ctx); err != nil {
		return fmt.Errorf("rate limit wait: %w", err)
	}

	body, err := json.Marshal(msg)
	if err != nil {
		return fmt.Errorf("marshal message: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if n.authToken != "" {
		req.Header.Set("Authorization", "Bearer "+n.authToken)
	}

	resp, err := n.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 64<<10))

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return fmt.Errorf("%w: status %d", ErrGatewayRejected, resp.StatusCode)
	}
	return nil
}

var _ rental.Notifier = (*WebhookNotifier)(nil)
