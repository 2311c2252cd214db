package models

import (
	"github.com/google/uuid"
	"github.com/rentmgr/backend/internal/domain/rental"
	"github.com/shopspring/decimal"
)

// TenantBillingProfileModel is the billing slice of the tenant profile.
// The tenant profile module owns this table; this service only reads it.
type TenantBillingProfileModel struct {
	TenantID    uuid.UUID        `gorm:"type:uuid;primaryKey"`
	Name        string           `gorm:"type:varchar(200);not null"`
	Email       string           `gorm:"type:varchar(320)"`
	MonthlyRate *decimal.Decimal `gorm:"type:numeric(12,2)"`
	NoticeDay   *int             `gorm:"type:smallint;index"`
}

// TableName returns the table name for GORM
func (TenantBillingProfileModel) TableName() string {
	return "tenant_billing_profiles"
}

// ToDomain converts the model to a TenantProfile. Linked properties are loaded separately.
func (m *TenantBillingProfileModel) ToDomain(propertyIDs []uuid.UUID) *rental.TenantProfile {
	return &rental.TenantProfile{
		TenantID:    m.TenantID,
		Name:        m.Name,
		Email:       m.Email,
		MonthlyRate: m.MonthlyRate,
		NoticeDay:   m.NoticeDay,
		PropertyIDs: propertyIDs,
	}
}

// PropertyModel is the directory view of a property
type PropertyModel struct {
	ID      uuid.UUID `gorm:"type:uuid;primaryKey"`
	Name    string    `gorm:"type:varchar(200);not null"`
	Address string    `gorm:"type:text"`
}

// TableName returns the table name for GORM
func (PropertyModel) TableName() string {
	return "properties"
}

// ToDomain converts the model to a Property
func (m *PropertyModel) ToDomain() *rental.Property {
	return &rental.Property{ID: m.ID, Name: m.Name, Address: m.Address}
}

// TenantPropertyModel links a tenant to a property they rent
type TenantPropertyModel struct {
	TenantID   uuid.UUID `gorm:"type:uuid;primaryKey"`
	PropertyID uuid.UUID `gorm:"type:uuid;primaryKey;index"`
}

// TableName returns the table name for GORM
func (TenantPropertyModel) TableName() string {
	return "tenant_properties"
}
