// Package domain contains the Account model and service contracts.
package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
)

// Account is an authenticated identity. Email is unique at the store level;
// the password hash is never serialized.
type Account struct {
	ID           snowflake.ID `gorm:"primaryKey" json:"id"`
	Email        string       `gorm:"not null;uniqueIndex:ux_accounts_email" json:"email"`
	PasswordHash string       `gorm:"not null" json:"-"`
	Name         string       `gorm:"not null" json:"name"`
	CreatedAt    time.Time    `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
	UpdatedAt    time.Time    `gorm:"not null;default:CURRENT_TIMESTAMP" json:"updated_at"`
}

// TableName sets the database table name.
func (Account) TableName() string { return "accounts" }
