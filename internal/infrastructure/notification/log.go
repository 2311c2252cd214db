package notification

import (
	"context"

	"github.com/rentmgr/backend/internal/domain/rental"
	"github.com/rentmgr/backend/internal/infrastructure/config"
	"go.uber.org/zap"
)

// LogNotifier writes messages to the log instead of sending them
type LogNotifier struct {
	format *Formatter
	logger *zap.Logger
}

// NewLogNotifier creates a log-only notifier
func NewLogNotifier(format *Formatter, logger *zap.Logger) *LogNotifier {
	return &LogNotifier{format: format, logger: logger}
}

func (n *LogNotifier) SendPaymentReminder(ctx context.Context, r rental.Reminder) error {
	n.log(reminderMessage(n.format, r))
	return nil
}

func (n *LogNotifier) SendPaymentConfirmation(ctx context.Context, c rental.Confirmation) error {
	n.log(confirmationMessage(n.format, c))
	return nil
}

func (n *LogNotifier) log(msg Message) {
	n.logger.Info("notification (not sent, no gateway configured)",
		zap.String("kind", msg.Kind),
		zap.String("tenant_id", msg.TenantID),
		zap.String("subject", msg.Subject),
		zap.String("body", msg.Body),
	)
}

// New returns a WebhookNotifier when a gateway is configured and a
// LogNotifier otherwise
func New(cfg config.NotificationConfig, logger *zap.Logger) (rental.Notifier, error) {
	if cfg.EmailWebhookURL == "" && cfg.PushWebhookURL == "" {
		format, err := NewFormatter(cfg.Locale, cfg.Currency)
		if err != nil {
			return nil, err
		}
		logger.Warn("no notification gateway configured, messages will only be logged")
		return NewLogNotifier(format, logger), nil
	}
	return NewWebhookNotifier(cfg, logger)
}

var _ rental.Notifier = (*LogNotifier)(nil)
