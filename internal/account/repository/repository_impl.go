package repository

import (
	"context"
	"errors"
	"strings"

	"github.com/bwmarrin/snowflake"
	"github.com/smallbiznis/taxdesk/internal/account/domain"
	"github.com/smallbiznis/taxdesk/pkg/db"
	"github.com/smallbiznis/taxdesk/pkg/db/pagination"
	"gorm.io/gorm"
)

type repo struct{}

func Provide() domain.Repository {
	return &repo{}
}

func (r *repo) Insert(ctx context.Context, conn *gorm.DB, account *domain.Account) error {
	if err := conn.WithContext(ctx).Create(account).Error; err != nil {
		return db.TranslateError(err)
	}
	return nil
}

func (r *repo) FindByID(ctx context.Context, conn *gorm.DB, id snowflake.ID) (*domain.Account, error) {
	var account domain.Account
	err := conn.WithContext(ctx).First(&account, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, db.TranslateError(err)
	}
	return &account, nil
}

func (r *repo) FindByEmail(ctx context.Context, conn *gorm.DB, email string) (*domain.Account, error) {
	var account domain.Account
	err := conn.WithContext(ctx).First(&account, "LOWER(email) = ?", strings.ToLower(email)).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, db.TranslateError(err)
	}
	return &account, nil
}

func (r *repo) Update(ctx context.Context, conn *gorm.DB, id snowflake.ID, fields map[string]any) error {
	err := conn.WithContext(ctx).
		Model(&domain.Account{}).
		Where("id = ?", id).
		Updates(fields).Error
	return db.TranslateError(err)
}

func (r *repo) Delete(ctx context.Context, conn *gorm.DB, id snowflake.ID) (int64, error) {
	result := conn.WithContext(ctx).Where("id = ?", id).Delete(&domain.Account{})
	if result.Error != nil {
		return 0, db.TranslateError(result.Error)
	}
	return result.RowsAffected, nil
}

func (r *repo) List(ctx context.Context, conn *gorm.DB, filter domain.ListAccountFilter, page pagination.Pagination) ([]*domain.Account, error) {
	var accounts []*domain.Account
	stmt := applyFilter(conn.WithContext(ctx).Model(&domain.Account{}), filter)
	err := page.Apply(stmt).
		Order("created_at desc, id desc").
		Find(&accounts).Error
	if err != nil {
		return nil, db.TranslateError(err)
	}
	return accounts, nil
}

func (r *repo) Count(ctx context.Context, conn *gorm.DB, filter domain.ListAccountFilter) (int64, error) {
	var count int64
	err := applyFilter(conn.WithContext(ctx).Model(&domain.Account{}), filter).
		Count(&count).Error
	if err != nil {
		return 0, db.TranslateError(err)
	}
	return count, nil
}

func applyFilter(stmt *gorm.DB, filter domain.ListAccountFilter) *gorm.DB {
	if filter.Email != "" {
		stmt = stmt.Where("LOWER(email) LIKE ?", "%"+strings.ToLower(filter.Email)+"%")
	}
	if filter.Name != "" {
		stmt = stmt.Where("LOWER(name) LIKE ?", "%"+strings.ToLower(filter.Name)+"%")
	}
	return stmt
}
