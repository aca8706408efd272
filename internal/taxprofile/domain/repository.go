package domain

import (
	"context"

	"github.com/bwmarrin/snowflake"
	"github.com/smallbiznis/taxdesk/pkg/db/pagination"
	"gorm.io/gorm"
)

type Repository interface {
	Insert(ctx context.Context, db *gorm.DB, profile *TaxProfile) error
	FindByID(ctx context.Context, db *gorm.DB, id snowflake.ID) (*TaxProfile, error)
	Update(ctx context.Context, db *gorm.DB, id snowflake.ID, fields map[string]any) error
	Delete(ctx context.Context, db *gorm.DB, id snowflake.ID) (int64, error)
	List(ctx context.Context, db *gorm.DB, filter ListTaxProfileFilter, page pagination.Pagination) ([]*TaxProfile, error)
	Count(ctx context.Context, db *gorm.DB, filter ListTaxProfileFilter) (int64, error)
	AccountExists(ctx context.Context, db *gorm.DB, id snowflake.ID) (bool, error)
}
