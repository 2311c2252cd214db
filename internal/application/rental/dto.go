package rental

import (
	"time"

	"github.com/google/uuid"
	"github.com/rentmgr/backend/internal/domain/rental"
	"github.com/shopspring/decimal"
)

// EnsureResult reports the obligation for a key and whether this call created it
type EnsureResult struct {
	ObligationID uuid.UUID `json:"obligation_id"`
	Created      bool      `json:"created"`
}

// EnsuredItem is one (tenant, month) pair that has an obligation after a batch
type EnsuredItem struct {
	ObligationID uuid.UUID `json:"obligation_id"`
	TenantID     uuid.UUID `json:"tenant_id"`
	PeriodMonth  string    `json:"period_month"`
}

// PairError explains why one (tenant, month) pair of a batch failed
type PairError struct {
	TenantID    uuid.UUID `json:"tenant_id"`
	PeriodMonth string    `json:"period_month,omitempty"`
	Code        string    `json:"code"`
	Message     string    `json:"message"`
}

// BatchResult collects per-pair outcomes of EnsureBatch and GenerateAhead
type BatchResult struct {
	Created  []EnsuredItem `json:"created"`
	Existing []EnsuredItem `json:"existing"`
	Errors   []PairError   `json:"errors"`
}

func newBatchResult() *BatchResult {
	return &BatchResult{
		Created:  []EnsuredItem{},
		Existing: []EnsuredItem{},
		Errors:   []PairError{},
	}
}

// StatusResult is the outcome of a single status change
type StatusResult struct {
	Obligation           *rental.Obligation
	NotificationFailures int
}

// Per-item outcomes of a bulk status change
const (
	ItemUpdated  = "updated"
	ItemNotFound = "not_found"
)

// BulkItemResult reports what happened to one requested id
type BulkItemResult struct {
	ID     uuid.UUID `json:"id"`
	Result string    `json:"result"`
}

// BulkStatusResult is the outcome of a bulk status change
type BulkStatusResult struct {
	Updated              int              `json:"updated"`
	NotFound             []uuid.UUID      `json:"not_found"`
	NotificationsQueued  int              `json:"notifications_queued"`
	NotificationFailures int              `json:"notification_failures"`
	Items                []BulkItemResult `json:"items"`
}

// RunError is one tenant or property the reminder check could not handle
type RunError struct {
	TenantID   uuid.UUID  `json:"tenant_id"`
	PropertyID *uuid.UUID `json:"property_id,omitempty"`
	Code       string     `json:"code"`
	Message    string     `json:"message"`
}

// RunSummary is the outcome of one reminder check
type RunSummary struct {
	Date           string     `json:"date"`
	TenantsChecked int        `json:"tenants_checked"`
	RemindersSent  int        `json:"reminders_sent"`
	Failures       int        `json:"failures"`
	Errors         []RunError `json:"errors"`
}

// ReconcileResult is the outcome of one reconciliation run
type ReconcileResult struct {
	GroupsWithDuplicates     int    `json:"groups_with_duplicates"`
	RecordsDeleted           int64  `json:"records_deleted"`
	RemainingDuplicateGroups int    `json:"remaining_duplicate_groups"`
	Warning                  string `json:"warning,omitempty"`
}

// ObligationResponse is the API view of an obligation
type ObligationResponse struct {
	ID          uuid.UUID       `json:"id"`
	TenantID    uuid.UUID       `json:"tenant_id"`
	PropertyID  uuid.UUID       `json:"property_id"`
	PeriodMonth string          `json:"period_month"`
	PeriodLabel string          `json:"period_label"`
	Amount      decimal.Decimal `json:"amount" swaggertype:"string" example:"300.00"`
	Status      string          `json:"status"`
	PaymentDate *string         `json:"payment_date,omitempty"`
	Notes       string          `json:"notes,omitempty"`
	Late        bool            `json:"late"`
	CreatedAt   time.Time       `json:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at"`
}

// ObligationListResult is one page of obligations
type ObligationListResult struct {
	Items      []ObligationResponse `json:"items"`
	Total      int64                `json:"total"`
	Page       int                  `json:"page"`
	PageSize   int                  `json:"page_size"`
	TotalPages int                  `json:"total_pages"`
}

// ToObligationResponse converts an obligation, computing the late flag at now in loc
func ToObligationResponse(o *rental.Obligation, now time.Time, loc *time.Location) ObligationResponse {
	resp := ObligationResponse{
		ID:          o.ID,
		TenantID:    o.TenantID,
		PropertyID:  o.PropertyID,
		PeriodMonth: rental.PeriodKey(o.PeriodMonth),
		PeriodLabel: rental.PeriodLabel(o.PeriodMonth),
		Amount:      o.Amount,
		Status:      o.Status.String(),
		Notes:       o.Notes,
		Late:        o.IsLate(now, loc),
		CreatedAt:   o.CreatedAt,
		UpdatedAt:   o.UpdatedAt,
	}
	if o.PaymentDate != nil {
		d := o.PaymentDate.Format(time.DateOnly)
		resp.PaymentDate = &d
	}
	return resp
}
