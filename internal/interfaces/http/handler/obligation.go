package handler

import (
	"context"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	rentalapp "github.com/rentmgr/backend/internal/application/rental"
	"github.com/rentmgr/backend/internal/domain/rental"
)

// ObligationGenerator creates missing obligations
type ObligationGenerator interface {
	EnsureBatch(ctx context.Context, tenantIDs []uuid.UUID, propertyID uuid.UUID, year int, months []int) (*rentalapp.BatchResult, error)
	GenerateAhead(ctx context.Context, tenantIDs []uuid.UUID, propertyID uuid.UUID, n int) (*rentalapp.BatchResult, error)
}

// ObligationStatusChanger records payments and other status changes
type ObligationStatusChanger interface {
	SetStatus(ctx context.Context, id uuid.UUID, status rental.ObligationStatus, notes *string) (*rentalapp.StatusResult, error)
	SetStatusBulk(ctx context.Context, ids []uuid.UUID, status rental.ObligationStatus, notes *string) (*rentalapp.BulkStatusResult, error)
}

// ObligationReader reads obligations
type ObligationReader interface {
	Get(ctx context.Context, id uuid.UUID) (*rentalapp.ObligationResponse, error)
	List(ctx context.Context, q rentalapp.ListObligationsQuery) (*rentalapp.ObligationListResult, error)
}

// ObligationHandler handles obligation HTTP requests
type ObligationHandler struct {
	BaseHandler
	generator ObligationGenerator
	status    ObligationStatusChanger
	reader    ObligationReader
	loc       *time.Location
	now       func() time.Time
}

// NewObligationHandler creates a new obligation handler. loc is the business
// timezone used for the late flag of returned obligations.
func NewObligationHandler(generator ObligationGenerator, status ObligationStatusChanger, reader ObligationReader, loc *time.Location) *ObligationHandler {
	if loc == nil {
		loc = time.UTC
	}
	return &ObligationHandler{
		generator: generator,
		status:    status,
		reader:    reader,
		loc:       loc,
		now:       time.Now,
	}
}

// EnsureObligationsRequest asks for obligations for every tenant and month of a year
type EnsureObligationsRequest struct {
	TenantIDs  []string `json:"tenant_ids" binding:"required,min=1,max=500,dive,uuid"`
	PropertyID string   `json:"property_id" binding:"required,uuid"`
	Year       int      `json:"year" binding:"required,gte=1970,lte=9999" example:"2025"`
	// Months outside 1-12 are reported per pair rather than rejecting the call
	Months []int `json:"months" binding:"required,min=1,max=12" example:"7,8"`
}

// GenerateAheadRequest asks for obligations for the months after the current one
type GenerateAheadRequest struct {
	TenantIDs   []string `json:"tenant_ids" binding:"required,min=1,max=500,dive,uuid"`
	PropertyID  string   `json:"property_id" binding:"required,uuid"`
	MonthsAhead int      `json:"months_ahead" binding:"required,min=1,max=24" example:"3"`
}

// SetStatusRequest changes one obligation
type SetStatusRequest struct {
	Status string  `json:"status" binding:"required,obligation_status" example:"paid"`
	Notes  *string `json:"notes,omitempty" binding:"omitempty,max=1000"`
}

// BulkSetStatusRequest changes many obligations
type BulkSetStatusRequest struct {
	IDs    []string `json:"ids" binding:"required,min=1,max=500,dive,uuid"`
	Status string   `json:"status" binding:"required,obligation_status" example:"paid"`
	Notes  *string  `json:"notes,omitempty" binding:"omitempty,max=1000"`
}

// ListObligationsRequest filters obligation listings
type ListObligationsRequest struct {
	TenantID   string `form:"tenant_id" binding:"omitempty,uuid"`
	PropertyID string `form:"property_id" binding:"omitempty,uuid"`
	Status     string `form:"status" binding:"omitempty,obligation_status"`
	From       string `form:"from" binding:"omitempty,billing_period" example:"2025-01"`
	To         string `form:"to" binding:"omitempty,billing_period" example:"2025-12"`
	OrderBy    string `form:"order_by" binding:"omitempty,oneof=period_month amount status payment_date created_at updated_at"`
	OrderDir   string `form:"order_dir" binding:"omitempty,oneof=asc desc ASC DESC"`
	Page       int    `form:"page" binding:"omitempty,min=1"`
	PageSize   int    `form:"page_size" binding:"omitempty,min=1,max=100"`
}

// SetStatusResponse is the outcome of a single status change
type SetStatusResponse struct {
	Obligation rentalapp.ObligationResponse `json:"obligation"`
	// NotificationFailures counts confirmations that could not be queued
	NotificationFailures int `json:"notification_failures"`
}

// EnsureObligations godoc
// @ID           ensureObligations
// @Summary      Ensure obligations exist
// @Description  Creates missing obligations for every tenant and month of a year. Pairs fail independently and are reported in errors.
// @Tags         obligations
// @Accept       json
// @Produce      json
// @Param        request body EnsureObligationsRequest true "Tenants, property and months"
// @Success      200 {object} APIResponse[rentalapp.BatchResult]
// @Failure      400 {object} ErrorResponse
// @Failure      401 {object} ErrorResponse
// @Failure      403 {object} ErrorResponse
// @Failure      500 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /obligations/ensure [post]
func (h *ObligationHandler) EnsureObligations(c *gin.Context) {
	var req EnsureObligationsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindError(c, err)
		return
	}
	tenantIDs, err := parseUUIDs(req.TenantIDs)
	if err != nil {
		h.BadRequest(c, "Invalid tenant_ids")
		return
	}

	result, err := h.generator.EnsureBatch(c.Request.Context(), tenantIDs, uuid.MustParse(req.PropertyID), req.Year, req.Months)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, result)
}

// GenerateAhead godoc
// @ID           generateObligationsAhead
// @Summary      Generate obligations ahead
// @Description  Ensures obligations for the months following the current month in the business timezone
// @Tags         obligations
// @Accept       json
// @Produce      json
// @Param        request body GenerateAheadRequest true "Tenants, property and month count"
// @Success      200 {object} APIResponse[rentalapp.BatchResult]
// @Failure      400 {object} ErrorResponse
// @Failure      401 {object} ErrorResponse
// @Failure      403 {object} ErrorResponse
// @Failure      500 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /obligations/generate-ahead [post]
func (h *ObligationHandler) GenerateAhead(c *gin.Context) {
	var req GenerateAheadRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindError(c, err)
		return
	}
	tenantIDs, err := parseUUIDs(req.TenantIDs)
	if err != nil {
		h.BadRequest(c, "Invalid tenant_ids")
		return
	}

	result, err := h.generator.GenerateAhead(c.Request.Context(), tenantIDs, uuid.MustParse(req.PropertyID), req.MonthsAhead)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, result)
}

// SetStatus godoc
// @ID           setObligationStatus
// @Summary      Set obligation status
// @Description  Changes the status of one obligation. Marking it paid records today's date and queues a confirmation.
// @Tags         obligations
// @Accept       json
// @Produce      json
// @Param        id path string true "Obligation ID" format(uuid)
// @Param        request body SetStatusRequest true "New status"
// @Success      200 {object} APIResponse[SetStatusResponse]
// @Failure      400 {object} ErrorResponse
// @Failure      401 {object} ErrorResponse
// @Failure      403 {object} ErrorResponse
// @Failure      404 {object} ErrorResponse
// @Failure      500 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /obligations/{id}/status [put]
func (h *ObligationHandler) SetStatus(c *gin.Context) {
	id, ok := h.parseUUIDParam(c, "id")
	if !ok {
		return
	}
	var req SetStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindError(c, err)
		return
	}
	status, err := rental.ParseStatus(req.Status)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	result, err := h.status.SetStatus(c.Request.Context(), id, status, req.Notes)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, SetStatusResponse{
		Obligation:           rentalapp.ToObligationResponse(result.Obligation, h.now(), h.loc),
		NotificationFailures: result.NotificationFailures,
	})
}

// BulkSetStatus godoc
// @ID           bulkSetObligationStatus
// @Summary      Set status of many obligations
// @Description  Changes the status of many obligations in one transaction. Unknown ids are reported per item.
// @Tags         obligations
// @Accept       json
// @Produce      json
// @Param        request body BulkSetStatusRequest true "Ids and new status"
// @Success      200 {object} APIResponse[rentalapp.BulkStatusResult]
// @Failure      400 {object} ErrorResponse
// @Failure      401 {object} ErrorResponse
// @Failure      403 {object} ErrorResponse
// @Failure      500 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /obligations/status [put]
func (h *ObligationHandler) BulkSetStatus(c *gin.Context) {
	var req BulkSetStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindError(c, err)
		return
	}
	ids, err := parseUUIDs(req.IDs)
	if err != nil {
		h.BadRequest(c, "Invalid ids")
		return
	}
	status, err := rental.ParseStatus(req.Status)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	result, err := h.status.SetStatusBulk(c.Request.Context(), ids, status, req.Notes)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, result)
}

// GetObligation godoc
// @ID           getObligation
// @Summary      Get an obligation
// @Tags         obligations
// @Produce      json
// @Param        id path string true "Obligation ID" format(uuid)
// @Success      200 {object} APIResponse[rentalapp.ObligationResponse]
// @Failure      400 {object} ErrorResponse
// @Failure      401 {object} ErrorResponse
// @Failure      404 {object} ErrorResponse
// @Failure      500 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /obligations/{id} [get]
func (h *ObligationHandler) GetObligation(c *gin.Context) {
	id, ok := h.parseUUIDParam(c, "id")
	if !ok {
		return
	}
	resp, err := h.reader.Get(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}

// ListObligations godoc
// @ID           listObligations
// @Summary      List obligations
// @Description  Lists obligations with filters. Each item carries a computed late flag.
// @Tags         obligations
// @Produce      json
// @Param        tenant_id query string false "Tenant ID" format(uuid)
// @Param        property_id query string false "Property ID" format(uuid)
// @Param        status query string false "Status" Enums(pending, paid, overdue)
// @Param        from query string false "First period, YYYY-MM"
// @Param        to query string false "Last period, YYYY-MM"
// @Param        order_by query string false "Sort field" Enums(period_month, amount, status, payment_date, created_at, updated_at)
// @Param        order_dir query string false "Sort direction" Enums(asc, desc)
// @Param        page query int false "Page number" default(1)
// @Param        page_size query int false "Items per page" default(20) maximum(100)
// @Success      200 {object} APIResponse[[]rentalapp.ObligationResponse]
// @Failure      400 {object} ErrorResponse
// @Failure      401 {object} ErrorResponse
// @Failure      500 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /obligations [get]
func (h *ObligationHandler) ListObligations(c *gin.Context) {
	var req ListObligationsRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		h.BindError(c, err)
		return
	}

	q := rentalapp.ListObligationsQuery{
		Status:   req.Status,
		From:     req.From,
		To:       req.To,
		OrderBy:  req.OrderBy,
		OrderDir: req.OrderDir,
		Page:     req.Page,
		PageSize: req.PageSize,
	}
	if req.TenantID != "" {
		id := uuid.MustParse(req.TenantID)
		q.TenantID = &id
	}
	if req.PropertyID != "" {
		id := uuid.MustParse(req.PropertyID)
		q.PropertyID = &id
	}

	result, err := h.reader.List(c.Request.Context(), q)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.SuccessWithMeta(c, result.Items, result.Total, result.Page, result.PageSize)
}
