// Package domain contains the Invoice model and service contracts.
package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/shopspring/decimal"
	taxprofiledomain "github.com/smallbiznis/taxdesk/internal/taxprofile/domain"
)

// InvoiceStatus is the closed set of invoice lifecycle states.
type InvoiceStatus string

const (
	InvoiceStatusDraft InvoiceStatus = "draft"
	InvoiceStatusSent  InvoiceStatus = "sent"
	InvoiceStatusPaid  InvoiceStatus = "paid"
)

// ParseStatus validates a raw status value against the closed set.
func ParseStatus(raw string) (InvoiceStatus, bool) {
	switch InvoiceStatus(raw) {
	case InvoiceStatusDraft, InvoiceStatusSent, InvoiceStatusPaid:
		return InvoiceStatus(raw), true
	default:
		return "", false
	}
}

// Invoice is a billed amount owned by exactly one TaxProfile. Amount is an
// exact fixed-point decimal; it must round-trip as decimal text and never
// pass through binary floating point.
type Invoice struct {
	ID           snowflake.ID                 `gorm:"primaryKey" json:"id"`
	TaxProfileID snowflake.ID                 `gorm:"not null;index" json:"tax_profile_id"`
	TaxProfile   *taxprofiledomain.TaxProfile `gorm:"constraint:OnDelete:CASCADE" json:"-"`
	Amount       decimal.Decimal              `gorm:"type:decimal(12,2);not null" json:"amount"`
	Status       InvoiceStatus                `gorm:"type:text;not null;default:'draft'" json:"status"`
	IssuedAt     time.Time                    `gorm:"not null" json:"issued_at"`
	CreatedAt    time.Time                    `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
	UpdatedAt    time.Time                    `gorm:"not null;default:CURRENT_TIMESTAMP" json:"updated_at"`
}

// TableName sets the database table name.
func (Invoice) TableName() string { return "invoices" }
