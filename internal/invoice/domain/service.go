package domain

import (
	"context"
	"errors"
	"time"

	"github.com/shopspring/decimal"
	"github.com/smallbiznis/taxdesk/pkg/db/pagination"
)

type CreateInvoiceRequest struct {
	TaxProfileID string
	Amount       string
	Status       string
	IssuedAt     *time.Time
}

// UpdateInvoiceRequest is a partial update: only non-nil fields are merged.
type UpdateInvoiceRequest struct {
	ID           string
	TaxProfileID *string
	Amount       *string
	Status       *string
	IssuedAt     *time.Time
}

type GetInvoiceRequest struct {
	ID string
}

type DeleteInvoiceRequest struct {
	ID string
}

type ListInvoiceRequest struct {
	Page      pagination.Pagination
	Status    string
	Email     string
	MinAmount string
	MaxAmount string
}

type ListInvoiceFilter struct {
	Status    InvoiceStatus
	Email     string
	MinAmount *decimal.Decimal
	MaxAmount *decimal.Decimal
}

type ListInvoiceResponse struct {
	Items []Invoice `json:"items"`
	Total int64     `json:"total"`
}

type Service interface {
	Create(context.Context, CreateInvoiceRequest) (Invoice, error)
	GetByID(context.Context, GetInvoiceRequest) (Invoice, error)
	Update(context.Context, UpdateInvoiceRequest) (Invoice, error)
	Delete(context.Context, DeleteInvoiceRequest) error
	List(context.Context, ListInvoiceRequest) (ListInvoiceResponse, error)
}

var (
	ErrInvalidID           = errors.New("invalid_id")
	ErrInvalidTaxProfileID = errors.New("invalid_tax_profile_id")
	ErrInvalidAmount       = errors.New("invalid_amount")
	ErrInvalidStatus       = errors.New("invalid_status")
	ErrTaxProfileNotFound  = errors.New("tax_profile_not_found")
	ErrNotFound            = errors.New("not_found")
)
