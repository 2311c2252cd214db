package persistence

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"github.com/rentmgr/backend/internal/domain/rental"
	"github.com/rentmgr/backend/internal/domain/shared"
	"github.com/rentmgr/backend/internal/infrastructure/persistence/models"
	"gorm.io/gorm"
)

// uniqueViolation is the PostgreSQL SQLSTATE for unique_violation
const uniqueViolation = "23505"

// GormObligationRepository implements rental.ObligationRepository using GORM
type GormObligationRepository struct {
	db *gorm.DB
}

// NewGormObligationRepository creates a new GormObligationRepository
func NewGormObligationRepository(db *gorm.DB) *GormObligationRepository {
	return &GormObligationRepository{db: db}
}

// FindByID finds an obligation by its ID
func (r *GormObligationRepository) FindByID(ctx context.Context, id uuid.UUID) (*rental.Obligation, error) {
	var model models.PaymentObligationModel
	if err := r.db.WithContext(ctx).First(&model, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindByIDs returns the obligations that exist among ids, in no particular order
func (r *GormObligationRepository) FindByIDs(ctx context.Context, ids []uuid.UUID) ([]*rental.Obligation, error) {
	if len(ids) == 0 {
		return []*rental.Obligation{}, nil
	}
	var rows []models.PaymentObligationModel
	if err := r.db.WithContext(ctx).Where("id IN ?", ids).Find(&rows).Error; err != nil {
		return nil, err
	}
	return toObligations(rows), nil
}

// FindByKey finds the obligation for a key, preferring the keeper when duplicates exist
func (r *GormObligationRepository) FindByKey(ctx context.Context, key rental.ObligationKey) (*rental.Obligation, error) {
	var rows []models.PaymentObligationModel
	if err := r.db.WithContext(ctx).
		Where("tenant_id = ? AND property_id = ? AND period_month = ?", key.TenantID, key.PropertyID, key.PeriodMonth).
		Find(&rows).Error; err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, shared.ErrNotFound
	}
	keeper, _ := rental.SelectKeeper(toObligations(rows))
	return keeper, nil
}

// FindAll lists obligations matching filter with the total count before pagination
func (r *GormObligationRepository) FindAll(ctx context.Context, filter rental.ObligationFilter) ([]*rental.Obligation, int64, error) {
	query := r.db.WithContext(ctx).Model(&models.PaymentObligationModel{})
	if filter.TenantID != nil {
		query = query.Where("tenant_id = ?", *filter.TenantID)
	}
	if filter.PropertyID != nil {
		query = query.Where("property_id = ?", *filter.PropertyID)
	}
	if filter.Status != nil {
		query = query.Where("status = ?", string(*filter.Status))
	}
	if filter.From != nil {
		query = query.Where("period_month >= ?", rental.NormalizePeriod(*filter.From))
	}
	if filter.To != nil {
		query = query.Where("period_month <= ?", rental.NormalizePeriod(*filter.To))
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	orderBy := ValidateSortField(filter.OrderBy, ObligationSortFields, "period_month")
	orderDir := ValidateSortOrder(filter.OrderDir)
	query = query.Order(fmt.Sprintf("%s %s", orderBy, orderDir)).Order("id ASC")

	if filter.PageSize > 0 {
		page := max(filter.Page, 1)
		query = query.Offset((page - 1) * filter.PageSize).Limit(filter.PageSize)
	}

	var rows []models.PaymentObligationModel
	if err := query.Find(&rows).Error; err != nil {
		return nil, 0, err
	}
	return toObligations(rows), total, nil
}

// Create inserts an obligation. Losing a race on the unique key yields shared.ErrAlreadyExists.
func (r *GormObligationRepository) Create(ctx context.Context, o *rental.Obligation) error {
	model := models.PaymentObligationModelFromDomain(o)
	if err := r.db.WithContext(ctx).Create(model).Error; err != nil {
		if isUniqueViolation(err) {
			return shared.WrapDomainError(shared.ErrAlreadyExists.Code, "obligation "+o.Key().String()+" already exists", err)
		}
		return err
	}
	return nil
}

// UpdateStatuses writes status, payment date and notes of every obligation in
// one transaction. A row that vanished in the meantime aborts the whole batch.
func (r *GormObligationRepository) UpdateStatuses(ctx context.Context, obligations []*rental.Obligation) error {
	if len(obligations) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for _, o := range obligations {
			result := tx.Model(&models.PaymentObligationModel{}).
				Where("id = ?", o.ID).
				Updates(map[string]any{
					"status":       string(o.Status),
					"payment_date": o.PaymentDate,
					"notes":        o.Notes,
					"updated_at":   o.UpdatedAt,
				})
			if result.Error != nil {
				return result.Error
			}
			if result.RowsAffected == 0 {
				return shared.NewDomainError(shared.ErrNotFound.Code, "obligation "+o.ID.String()+" no longer exists")
			}
		}
		return nil
	})
}

type duplicateKeyRow struct {
	TenantID    uuid.UUID
	PropertyID  uuid.UUID
	PeriodMonth time.Time
}

// FindDuplicateGroups returns every key that currently has more than one record.
// Members are ordered oldest first.
func (r *GormObligationRepository) FindDuplicateGroups(ctx context.Context) ([]rental.DuplicateGroup, error) {
	var keys []duplicateKeyRow
	if err := r.db.WithContext(ctx).
		Model(&models.PaymentObligationModel{}).
		Select("tenant_id, property_id, period_month").
		Group("tenant_id, property_id, period_month").
		Having("COUNT(*) > 1").
		Order("period_month, tenant_id, property_id").
		Scan(&keys).Error; err != nil {
		return nil, err
	}

	groups := make([]rental.DuplicateGroup, 0, len(keys))
	for _, k := range keys {
		var rows []models.PaymentObligationModel
		if err := r.db.WithContext(ctx).
			Where("tenant_id = ? AND property_id = ? AND period_month = ?", k.TenantID, k.PropertyID, k.PeriodMonth).
			Order("created_at ASC, id ASC").
			Find(&rows).Error; err != nil {
			return nil, err
		}
		// The group may have been cleaned by someone else between the two queries
		if len(rows) < 2 {
			continue
		}
		groups = append(groups, rental.DuplicateGroup{
			Key:     rental.NewObligationKey(k.TenantID, k.PropertyID, k.PeriodMonth),
			Members: toObligations(rows),
		})
	}
	return groups, nil
}

// DeleteByIDs removes the given obligations and reports how many rows were deleted
func (r *GormObligationRepository) DeleteByIDs(ctx context.Context, ids []uuid.UUID) (int64, error) {
	if len(ids) == 0 {
		return 0, nil
	}
	result := r.db.WithContext(ctx).Where("id IN ?", ids).Delete(&models.PaymentObligationModel{})
	return result.RowsAffected, result.Error
}

func toObligations(rows []models.PaymentObligationModel) []*rental.Obligation {
	out := make([]*rental.Obligation, len(rows))
	for i := range rows {
		out[i] = rows[i].ToDomain()
	}
	return out
}

// isUniqueViolation recognizes a duplicate key error from any of the drivers
// we run on: GORM's translated error, lib/pq, and SQLite.
func isUniqueViolation(err error) bool {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return pqErr.Code == uniqueViolation
	}
	msg := err.Error()
	return strings.Contains(msg, "UNIQUE constraint failed") ||
		strings.Contains(msg, "duplicate key value violates unique constraint")
}

var _ rental.ObligationRepository = (*GormObligationRepository)(nil)
