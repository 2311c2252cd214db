package persistence

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/rentmgr/backend/internal/domain/rental"
	"github.com/rentmgr/backend/internal/infrastructure/persistence/models"
	"gorm.io/gorm"
)

// GormDirectory reads tenant billing profiles and properties owned by the
// tenant profile module. It never writes.
type GormDirectory struct {
	db *gorm.DB
}

// NewGormDirectory creates a new GormDirectory
func NewGormDirectory(db *gorm.DB) *GormDirectory {
	return &GormDirectory{db: db}
}

// GetTenant returns a tenant profile with its linked properties
func (d *GormDirectory) GetTenant(ctx context.Context, tenantID uuid.UUID) (*rental.TenantProfile, error) {
	var model models.TenantBillingProfileModel
	if err := d.db.WithContext(ctx).First(&model, "tenant_id = ?", tenantID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, rental.ErrTenantNotFound
		}
		return nil, err
	}

	links, err := d.propertyLinks(ctx, d.db.Where("tenant_id = ?", tenantID))
	if err != nil {
		return nil, err
	}
	return model.ToDomain(links[tenantID]), nil
}

// GetProperty returns a property by ID
func (d *GormDirectory) GetProperty(ctx context.Context, propertyID uuid.UUID) (*rental.Property, error) {
	var model models.PropertyModel
	if err := d.db.WithContext(ctx).First(&model, "id = ?", propertyID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, rental.ErrPropertyNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// ListTenantsWithNoticeDay returns every tenant with a notice day set, ordered by tenant ID
func (d *GormDirectory) ListTenantsWithNoticeDay(ctx context.Context) ([]rental.TenantProfile, error) {
	var rows []models.TenantBillingProfileModel
	if err := d.db.WithContext(ctx).
		Where("notice_day IS NOT NULL").
		Order("tenant_id").
		Find(&rows).Error; err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return []rental.TenantProfile{}, nil
	}

	// a subquery keeps the statement size independent of the tenant count
	withNoticeDay := d.db.Model(&models.TenantBillingProfileModel{}).
		Select("tenant_id").
		Where("notice_day IS NOT NULL")
	links, err := d.propertyLinks(ctx, d.db.Where("tenant_id IN (?)", withNoticeDay))
	if err != nil {
		return nil, err
	}

	out := make([]rental.TenantProfile, len(rows))
	for i := range rows {
		out[i] = *rows[i].ToDomain(links[rows[i].TenantID])
	}
	return out, nil
}

// propertyLinks loads the tenant to property links matched by filter
func (d *GormDirectory) propertyLinks(ctx context.Context, filter *gorm.DB) (map[uuid.UUID][]uuid.UUID, error) {
	var links []models.TenantPropertyModel
	if err := d.db.WithContext(ctx).
		Where(filter).
		Order("tenant_id, property_id").
		Find(&links).Error; err != nil {
		return nil, err
	}
	out := make(map[uuid.UUID][]uuid.UUID)
	for _, l := range links {
		out[l.TenantID] = append(out[l.TenantID], l.PropertyID)
	}
	return out, nil
}

var _ rental.Directory = (*GormDirectory)(nil)
