package domain

import (
	"context"
	"errors"

	"github.com/smallbiznis/taxdesk/pkg/db/pagination"
)

type CreateTaxProfileRequest struct {
	AccountID   string
	Name        string
	TaxIDNumber string
	Address     string
}

// UpdateTaxProfileRequest is a partial update: only non-nil fields are merged.
type UpdateTaxProfileRequest struct {
	ID          string
	AccountID   *string
	Name        *string
	TaxIDNumber *string
	Address     *string
}

type GetTaxProfileRequest struct {
	ID string
}

type DeleteTaxProfileRequest struct {
	ID string
}

type ListTaxProfileRequest struct {
	Page        pagination.Pagination
	Name        string
	AccountID   string
	TaxIDNumber string
}

type ListTaxProfileFilter struct {
	Name        string
	AccountID   string
	TaxIDNumber string
}

type ListTaxProfileResponse struct {
	Items []TaxProfile `json:"items"`
	Total int64        `json:"total"`
}

type Service interface {
	Create(context.Context, CreateTaxProfileRequest) (TaxProfile, error)
	GetByID(context.Context, GetTaxProfileRequest) (TaxProfile, error)
	Update(context.Context, UpdateTaxProfileRequest) (TaxProfile, error)
	Delete(context.Context, DeleteTaxProfileRequest) error
	List(context.Context, ListTaxProfileRequest) (ListTaxProfileResponse, error)
}

var (
	ErrInvalidID          = errors.New("invalid_id")
	ErrInvalidAccountID   = errors.New("invalid_account_id")
	ErrInvalidName        = errors.New("invalid_name")
	ErrInvalidTaxIDNumber = errors.New("invalid_tax_id_number")
	ErrInvalidAddress     = errors.New("invalid_address")
	ErrAccountNotFound    = errors.New("account_not_found")
	ErrNotFound           = errors.New("not_found")
)
