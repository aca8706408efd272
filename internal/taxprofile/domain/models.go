// Package domain contains the TaxProfile model and service contracts.
package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
	accountdomain "github.com/smallbiznis/taxdesk/internal/account/domain"
)

// TaxProfile is a fiscal identity owned by exactly one Account. Deleting the
// owning account removes its profiles through the store-level cascade.
type TaxProfile struct {
	ID          snowflake.ID            `gorm:"primaryKey" json:"id"`
	AccountID   snowflake.ID            `gorm:"not null;index" json:"account_id"`
	Account     *accountdomain.Account  `gorm:"constraint:OnDelete:CASCADE" json:"-"`
	Name        string                  `gorm:"not null" json:"name"`
	TaxIDNumber string                  `gorm:"column:tax_id_number;not null" json:"tax_id_number"`
	Address     string                  `gorm:"not null" json:"address"`
	CreatedAt   time.Time               `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
	UpdatedAt   time.Time               `gorm:"not null;default:CURRENT_TIMESTAMP" json:"updated_at"`
}

// TableName sets the database table name.
func (TaxProfile) TableName() string { return "tax_profiles" }
