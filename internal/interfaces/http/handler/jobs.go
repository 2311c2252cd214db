package handler

import (
	"context"

	"github.com/gin-gonic/gin"

	rentalapp "github.com/rentmgr/backend/internal/application/rental"
)

// ReminderJob runs the reminder check on demand
type ReminderJob interface {
	RunNow(ctx context.Context) (*rentalapp.RunSummary, error)
	Status() map[string]any
}

// ReconciliationJob runs duplicate reconciliation on demand
type ReconciliationJob interface {
	RunNow(ctx context.Context) (*rentalapp.ReconcileResult, error)
	Status() map[string]any
}

// JobsHandler triggers and inspects the background jobs
type JobsHandler struct {
	BaseHandler
	reminders      ReminderJob
	reconciliation ReconciliationJob
}

// NewJobsHandler creates a new jobs handler
func NewJobsHandler(reminders ReminderJob, reconciliation ReconciliationJob) *JobsHandler {
	return &JobsHandler{reminders: reminders, reconciliation: reconciliation}
}

// JobsStatusResponse describes both schedulers
type JobsStatusResponse struct {
	Reminders      map[string]any `json:"reminders"`
	Reconciliation map[string]any `json:"reconciliation"`
}

// RunReminders godoc
// @ID           runReminderCheck
// @Summary      Run the reminder check now
// @Description  Sends reminders for tenants whose trigger date is today in the business timezone. Waits for the run to finish.
// @Tags         jobs
// @Produce      json
// @Success      200 {object} APIResponse[rentalapp.RunSummary]
// @Failure      401 {object} ErrorResponse
// @Failure      403 {object} ErrorResponse
// @Failure      500 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /jobs/reminders/run [post]
func (h *JobsHandler) RunReminders(c *gin.Context) {
	// a client that hangs up must not abort a half-sent run
	summary, err := h.reminders.RunNow(context.WithoutCancel(c.Request.Context()))
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, summary)
}

// RunReconciliation godoc
// @ID           runReconciliation
// @Summary      Run duplicate reconciliation now
// @Description  Collapses obligations sharing a tenant, property and month into one record
// @Tags         jobs
// @Produce      json
// @Success      200 {object} APIResponse[rentalapp.ReconcileResult]
// @Failure      401 {object} ErrorResponse
// @Failure      403 {object} ErrorResponse
// @Failure      500 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /jobs/reconciliation/run [post]
func (h *JobsHandler) RunReconciliation(c *gin.Context) {
	result, err := h.reconciliation.RunNow(context.WithoutCancel(c.Request.Context()))
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, result)
}

// GetStatus godoc
// @ID           getJobsStatus
// @Summary      Get scheduler status
// @Tags         jobs
// @Produce      json
// @Success      200 {object} APIResponse[JobsStatusResponse]
// @Failure      401 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /jobs/status [get]
func (h *JobsHandler) GetStatus(c *gin.Context) {
	h.Success(c, JobsStatusResponse{
		Reminders:      h.reminders.Status(),
		Reconciliation: h.reconciliation.Status(),
	})
}
