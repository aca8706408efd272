package repository

import (
	"context"
	"errors"
	"strings"

	"github.com/bwmarrin/snowflake"
	accountdomain "github.com/smallbiznis/taxdesk/internal/account/domain"
	"github.com/smallbiznis/taxdesk/internal/taxprofile/domain"
	"github.com/smallbiznis/taxdesk/pkg/db"
	"github.com/smallbiznis/taxdesk/pkg/db/pagination"
	"gorm.io/gorm"
)

type repo struct{}

func Provide() domain.Repository {
	return &repo{}
}

func (r *repo) Insert(ctx context.Context, conn *gorm.DB, profile *domain.TaxProfile) error {
	if err := conn.WithContext(ctx).Create(profile).Error; err != nil {
		return db.TranslateError(err)
	}
	return nil
}

func (r *repo) FindByID(ctx context.Context, conn *gorm.DB, id snowflake.ID) (*domain.TaxProfile, error) {
	var profile domain.TaxProfile
	err := conn.WithContext(ctx).First(&profile, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, db.TranslateError(err)
	}
	return &profile, nil
}

func (r *repo) Update(ctx context.Context, conn *gorm.DB, id snowflake.ID, fields map[string]any) error {
	err := conn.WithContext(ctx).
		Model(&domain.TaxProfile{}).
		Where("id = ?", id).
		Updates(fields).Error
	return db.TranslateError(err)
}

func (r *repo) Delete(ctx context.Context, conn *gorm.DB, id snowflake.ID) (int64, error) {
	result := conn.WithContext(ctx).Where("id = ?", id).Delete(&domain.TaxProfile{})
	if result.Error != nil {
		return 0, db.TranslateError(result.Error)
	}
	return result.RowsAffected, nil
}

func (r *repo) List(ctx context.Context, conn *gorm.DB, filter domain.ListTaxProfileFilter, page pagination.Pagination) ([]*domain.TaxProfile, error) {
	var profiles []*domain.TaxProfile
	stmt := applyFilter(conn.WithContext(ctx).Model(&domain.TaxProfile{}), filter)
	err := page.Apply(stmt).
		Order("created_at desc, id desc").
		Find(&profiles).Error
	if err != nil {
		return nil, db.TranslateError(err)
	}
	return profiles, nil
}

func (r *repo) Count(ctx context.Context, conn *gorm.DB, filter domain.ListTaxProfileFilter) (int64, error) {
	var count int64
	err := applyFilter(conn.WithContext(ctx).Model(&domain.TaxProfile{}), filter).
		Count(&count).Error
	if err != nil {
		return 0, db.TranslateError(err)
	}
	return count, nil
}

func (r *repo) AccountExists(ctx context.Context, conn *gorm.DB, id snowflake.ID) (bool, error) {
	var count int64
	err := conn.WithContext(ctx).
		Model(&accountdomain.Account{}).
		Where("id = ?", id).
		Count(&count).Error
	if err != nil {
		return false, db.TranslateError(err)
	}
	return count > 0, nil
}

func applyFilter(stmt *gorm.DB, filter domain.ListTaxProfileFilter) *gorm.DB {
	if filter.Name != "" {
		stmt = stmt.Where("LOWER(name) LIKE ?", "%"+strings.ToLower(filter.Name)+"%")
	}
	if filter.AccountID != "" {
		stmt = stmt.Where("account_id = ?", filter.AccountID)
	}
	if filter.TaxIDNumber != "" {
		stmt = stmt.Where("LOWER(tax_id_number) LIKE ?", "%"+strings.ToLower(filter.TaxIDNumber)+"%")
	}
	return stmt
}
