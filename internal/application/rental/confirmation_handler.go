package rental

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/google/uuid"
	"github.com/rentmgr/backend/internal/domain/rental"
	"github.com/rentmgr/backend/internal/domain/shared"
	"go.uber.org/zap"
)

// ConfirmationHandler delivers PaymentConfirmationRequested events to the
// tenant. Several paid months in one event become a single message.
type ConfirmationHandler struct {
	directory rental.Directory
	notifier  rental.Notifier
	logger    *zap.Logger
}

// NewConfirmationHandler creates a new ConfirmationHandler
func NewConfirmationHandler(directory rental.Directory, notifier rental.Notifier, logger *zap.Logger) *ConfirmationHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ConfirmationHandler{directory: directory, notifier: notifier, logger: logger}
}

// EventTypes returns the event types this handler is interested in
func (h *ConfirmationHandler) EventTypes() []string {
	return []string{rental.EventTypePaymentConfirmationRequested}
}

// Handle sends the confirmation. An error makes the outbox retry the event.
func (h *ConfirmationHandler) Handle(ctx context.Context, event shared.DomainEvent) error {
	e, ok := event.(*rental.PaymentConfirmationRequested)
	if !ok {
		h.logger.Error("unexpected event type",
			zap.String("expected", rental.EventTypePaymentConfirmationRequested),
			zap.String("actual", event.EventType()),
		)
		return fmt.Errorf("unexpected event type: expected %s, got %s",
			rental.EventTypePaymentConfirmationRequested, event.EventType())
	}
	if len(e.Items) == 0 {
		h.logger.Warn("payment confirmation without items", zap.String("event_id", e.EventID().String()))
		return nil
	}

	confirmation, err := h.build(ctx, e)
	if err != nil {
		return err
	}
	if err := h.notifier.SendPaymentConfirmation(ctx, confirmation); err != nil {
		h.logger.Warn("failed to send payment confirmation",
			zap.String("tenant_id", e.TenantID().String()),
			zap.String("event_id", e.EventID().String()),
			zap.Error(err),
		)
		return fmt.Errorf("send confirmation: %w", err)
	}

	h.logger.Info("payment confirmation sent",
		zap.String("tenant_id", e.TenantID().String()),
		zap.String("periods", confirmation.PeriodLabel),
		zap.String("amount", confirmation.Amount.StringFixed(2)),
	)
	return nil
}

func (h *ConfirmationHandler) build(ctx context.Context, e *rental.PaymentConfirmationRequested) (rental.Confirmation, error) {
	items := make([]rental.PaidItem, len(e.Items))
	copy(items, e.Items)
	sort.SliceStable(items, func(i, j int) bool { return items[i].PeriodMonth.Before(items[j].PeriodMonth) })

	var labels, names []string
	seenLabel := make(map[string]bool)
	seenProperty := make(map[uuid.UUID]bool)
	for _, it := range items {
		if label := rental.PeriodLabel(it.PeriodMonth); !seenLabel[label] {
			seenLabel[label] = true
			labels = append(labels, label)
		}
		if seenProperty[it.PropertyID] {
			continue
		}
		seenProperty[it.PropertyID] = true
		property, err := h.directory.GetProperty(ctx, it.PropertyID)
		if err != nil {
			return rental.Confirmation{}, fmt.Errorf("resolve property %s: %w", it.PropertyID, err)
		}
		names = append(names, property.Name)
	}

	return rental.Confirmation{
		TenantID:     e.TenantID(),
		PeriodLabel:  strings.Join(labels, ", "),
		Amount:       e.Total(),
		PropertyName: strings.Join(distinct(names), ", "),
		PaymentDate:  e.PaymentDate,
	}, nil
}

// distinct drops repeated strings, keeping first occurrences
func distinct(values []string) []string {
	seen := make(map[string]bool, len(values))
	out := values[:0]
	for _, v := range values {
		if !seen[v] {
			seen[v] = true
			out = append(out, v)
		}
	}
	return out
}
