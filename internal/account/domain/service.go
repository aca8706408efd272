package domain

import (
	"context"
	"errors"

	"github.com/smallbiznis/taxdesk/pkg/db/pagination"
)

type CreateAccountRequest struct {
	Email    string
	Password string
	Name     string
}

// UpdateAccountRequest is a partial update: only non-nil fields are merged.
// Email is immutable, so it has no slot here. A supplied password is
// re-hashed before it reaches the store.
type UpdateAccountRequest struct {
	ID       string
	Name     *string
	Password *string
}

type GetAccountRequest struct {
	ID string
}

type DeleteAccountRequest struct {
	ID string
}

type ListAccountRequest struct {
	Page  pagination.Pagination
	Email string
	Name  string
}

type ListAccountFilter struct {
	Email string
	Name  string
}

type ListAccountResponse struct {
	Items []Account `json:"items"`
	Total int64     `json:"total"`
}

type AuthenticateRequest struct {
	Email    string
	Password string
}

type Service interface {
	Create(context.Context, CreateAccountRequest) (Account, error)
	GetByID(context.Context, GetAccountRequest) (Account, error)
	Update(context.Context, UpdateAccountRequest) (Account, error)
	Delete(context.Context, DeleteAccountRequest) error
	List(context.Context, ListAccountRequest) (ListAccountResponse, error)
	Authenticate(context.Context, AuthenticateRequest) (Account, error)
}

var (
	ErrInvalidID          = errors.New("invalid_id")
	ErrInvalidEmail       = errors.New("invalid_email")
	ErrInvalidName        = errors.New("invalid_name")
	ErrInvalidPassword    = errors.New("invalid_password")
	ErrEmailTaken         = errors.New("email_taken")
	ErrInvalidCredentials = errors.New("invalid_credentials")
	ErrNotFound           = errors.New("not_found")
)
