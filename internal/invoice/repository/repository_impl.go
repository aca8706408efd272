package repository

import (
	"context"
	"errors"
	"strings"

	"github.com/bwmarrin/snowflake"
	"github.com/smallbiznis/taxdesk/internal/invoice/domain"
	taxprofiledomain "github.com/smallbiznis/taxdesk/internal/taxprofile/domain"
	"github.com/smallbiznis/taxdesk/pkg/db"
	"github.com/smallbiznis/taxdesk/pkg/db/pagination"
	"gorm.io/gorm"
)

type repo struct{}

func Provide() domain.Repository {
	return &repo{}
}

func (r *repo) Insert(ctx context.Context, conn *gorm.DB, invoice *domain.Invoice) error {
	if err := conn.WithContext(ctx).Create(invoice).Error; err != nil {
		return db.TranslateError(err)
	}
	return nil
}

func (r *repo) FindByID(ctx context.Context, conn *gorm.DB, id snowflake.ID) (*domain.Invoice, error) {
	var invoice domain.Invoice
	err := conn.WithContext(ctx).First(&invoice, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, db.TranslateError(err)
	}
	return &invoice, nil
}

func (r *repo) Update(ctx context.Context, conn *gorm.DB, id snowflake.ID, fields map[string]any) error {
	err := conn.WithContext(ctx).
		Model(&domain.Invoice{}).
		Where("id = ?", id).
		Updates(fields).Error
	return db.TranslateError(err)
}

func (r *repo) Delete(ctx context.Context, conn *gorm.DB, id snowflake.ID) (int64, error) {
	result := conn.WithContext(ctx).Where("id = ?", id).Delete(&domain.Invoice{})
	if result.Error != nil {
		return 0, db.TranslateError(result.Error)
	}
	return result.RowsAffected, nil
}

func (r *repo) List(ctx context.Context, conn *gorm.DB, filter domain.ListInvoiceFilter, page pagination.Pagination) ([]*domain.Invoice, error) {
	var invoices []*domain.Invoice
	stmt := applyFilter(conn.WithContext(ctx).Model(&domain.Invoice{}), filter)
	err := page.Apply(stmt).
		Order("invoices.issued_at desc, invoices.id desc").
		Find(&invoices).Error
	if err != nil {
		return nil, db.TranslateError(err)
	}
	return invoices, nil
}

// Count runs the same predicate as List without the pagination window so
// callers can derive total pages.
func (r *repo) Count(ctx context.Context, conn *gorm.DB, filter domain.ListInvoiceFilter) (int64, error) {
	var count int64
	err := applyFilter(conn.WithContext(ctx).Model(&domain.Invoice{}), filter).
		Count(&count).Error
	if err != nil {
		return 0, db.TranslateError(err)
	}
	return count, nil
}

func (r *repo) TaxProfileExists(ctx context.Context, conn *gorm.DB, id snowflake.ID) (bool, error) {
	var count int64
	err := conn.WithContext(ctx).
		Model(&taxprofiledomain.TaxProfile{}).
		Where("id = ?", id).
		Count(&count).Error
	if err != nil {
		return false, db.TranslateError(err)
	}
	return count > 0, nil
}

func applyFilter(stmt *gorm.DB, filter domain.ListInvoiceFilter) *gorm.DB {
	if filter.Status != "" {
		stmt = stmt.Where("invoices.status = ?", filter.Status)
	}
	if filter.Email != "" {
		// Owner email is matched through the ownership chain:
		// invoices -> tax_profiles -> accounts.
		stmt = stmt.
			Joins("JOIN tax_profiles ON tax_profiles.id = invoices.tax_profile_id").
			Joins("JOIN accounts ON accounts.id = tax_profiles.account_id").
			Where("LOWER(accounts.email) LIKE ?", "%"+strings.ToLower(filter.Email)+"%")
	}
	if filter.MinAmount != nil {
		stmt = stmt.Where("invoices.amount >= ?", *filter.MinAmount)
	}
	if filter.MaxAmount != nil {
		stmt = stmt.Where("invoices.amount <= ?", *filter.MaxAmount)
	}
	return stmt
}
