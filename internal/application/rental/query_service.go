package rental

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rentmgr/backend/internal/domain/rental"
	"github.com/rentmgr/backend/internal/domain/shared"
)

const (
	defaultPageSize = 20
	maxPageSize     = 100
)

// ListObligationsQuery filters obligation listings. Periods are "YYYY-MM".
type ListObligationsQuery struct {
	TenantID   *uuid.UUID
	PropertyID *uuid.UUID
	Status     string
	From       string
	To         string
	OrderBy    string
	OrderDir   string
	Page       int
	PageSize   int
}

// QueryService reads obligations for the API
type QueryService struct {
	repo     rental.ObligationRepository
	calendar calendar
}

// NewQueryService creates a new QueryService
func NewQueryService(repo rental.ObligationRepository, loc *time.Location) *QueryService {
	return &QueryService{repo: repo, calendar: newCalendar(loc)}
}

// SetClock overrides the time source
func (s *QueryService) SetClock(now Clock) {
	s.calendar.now = now
}

// Get returns one obligation
func (s *QueryService) Get(ctx context.Context, id uuid.UUID) (*ObligationResponse, error) {
	o, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return nil, rental.ErrObligationMissing
		}
		return nil, fmt.Errorf("load obligation %s: %w", id, err)
	}
	resp := ToObligationResponse(o, s.calendar.now(), s.calendar.loc)
	return &resp, nil
}

// List returns one page of obligations matching q
func (s *QueryService) List(ctx context.Context, q ListObligationsQuery) (*ObligationListResult, error) {
	filter := rental.DefaultObligationFilter()
	filter.TenantID = q.TenantID
	filter.PropertyID = q.PropertyID
	filter.OrderBy = q.OrderBy
	filter.OrderDir = q.OrderDir
	if q.Page > 0 {
		filter.Page = q.Page
	}
	if q.PageSize > 0 {
		filter.PageSize = min(q.PageSize, maxPageSize)
	}

	if q.Status != "" {
		status, err := rental.ParseStatus(q.Status)
		if err != nil {
			return nil, err
		}
		filter.Status = &status
	}
	for _, bound := range []struct {
		raw string
		dst **time.Time
	}{{q.From, &filter.From}, {q.To, &filter.To}} {
		if bound.raw == "" {
			continue
		}
		p, err := rental.ParsePeriod(bound.raw)
		if err != nil {
			return nil, err
		}
		*bound.dst = &p
	}
	if filter.From != nil && filter.To != nil && filter.From.After(*filter.To) {
		return nil, invalidInput("from must not be after to")
	}

	items, total, err := s.repo.FindAll(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("list obligations: %w", err)
	}

	now := s.calendar.now()
	out := make([]ObligationResponse, len(items))
	for i, o := range items {
		out[i] = ToObligationResponse(o, now, s.calendar.loc)
	}
	return &ObligationListResult{
		Items:      out,
		Total:      total,
		Page:       filter.Page,
		PageSize:   filter.PageSize,
		TotalPages: int((total + int64(filter.PageSize) - 1) / int64(filter.PageSize)),
	}, nil
}
