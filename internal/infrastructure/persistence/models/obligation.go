package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/rentmgr/backend/internal/domain/rental"
	"github.com/shopspring/decimal"
)

// ObligationKeyIndex is the unique index that enforces one record per key
const ObligationKeyIndex = "uq_payment_obligations_key"

// PaymentObligationModel is the persistence model for rental.Obligation
type PaymentObligationModel struct {
	BaseModel
	TenantID    uuid.UUID       `gorm:"type:uuid;not null;uniqueIndex:uq_payment_obligations_key,priority:1"`
	PropertyID  uuid.UUID       `gorm:"type:uuid;not null;uniqueIndex:uq_payment_obligations_key,priority:2;index:idx_payment_obligations_property"`
	PeriodMonth time.Time       `gorm:"type:date;not null;uniqueIndex:uq_payment_obligations_key,priority:3;index:idx_payment_obligations_period_status,priority:1"`
	Amount      decimal.Decimal `gorm:"type:numeric(12,2);not null"`
	Status      string          `gorm:"type:varchar(16);not null;default:pending;index:idx_payment_obligations_period_status,priority:2"`
	PaymentDate *time.Time      `gorm:"type:date"`
	Notes       string          `gorm:"type:text;not null;default:''"`
}

// TableName returns the table name for GORM
func (PaymentObligationModel) TableName() string {
	return "payment_obligations"
}

// ToDomain converts the persistence model to a domain Obligation
func (m *PaymentObligationModel) ToDomain() *rental.Obligation {
	o := &rental.Obligation{
		BaseEntity:  m.BaseModel.ToDomain(),
		TenantID:    m.TenantID,
		PropertyID:  m.PropertyID,
		PeriodMonth: rental.NormalizePeriod(m.PeriodMonth),
		Amount:      m.Amount,
		Status:      rental.ObligationStatus(m.Status),
		Notes:       m.Notes,
	}
	if m.PaymentDate != nil {
		d := rental.CivilDate(*m.PaymentDate)
		o.PaymentDate = &d
	}
	return o
}

// FromDomain populates the persistence model from a domain Obligation
func (m *PaymentObligationModel) FromDomain(o *rental.Obligation) {
	m.FromDomainBaseEntity(o.BaseEntity)
	m.TenantID = o.TenantID
	m.PropertyID = o.PropertyID
	m.PeriodMonth = rental.NormalizePeriod(o.PeriodMonth)
	m.Amount = o.Amount
	m.Status = string(o.Status)
	m.PaymentDate = o.PaymentDate
	m.Notes = o.Notes
}

// PaymentObligationModelFromDomain creates a new persistence model from a domain Obligation
func PaymentObligationModelFromDomain(o *rental.Obligation) *PaymentObligationModel {
	m := &PaymentObligationModel{}
	m.FromDomain(o)
	return m
}
