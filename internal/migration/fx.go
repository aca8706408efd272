package migration

import (
	accountdomain "github.com/smallbiznis/taxdesk/internal/account/domain"
	"github.com/smallbiznis/taxdesk/internal/config"
	invoicedomain "github.com/smallbiznis/taxdesk/internal/invoice/domain"
	taxprofiledomain "github.com/smallbiznis/taxdesk/internal/taxprofile/domain"
	"go.uber.org/fx"
	"gorm.io/gorm"
)

var Module = fx.Module("migrations",
	fx.Invoke(func(conn *gorm.DB, cfg config.Config) error {
		// Versioned SQL migrations are Postgres-only. The sqlite path is
		// for local development, where AutoMigrate is enough.
		if cfg.DBType != "postgres" {
			return conn.AutoMigrate(
				&accountdomain.Account{},
				&taxprofiledomain.TaxProfile{},
				&invoicedomain.Invoice{},
			)
		}

		sqlDB, err := conn.DB()
		if err != nil {
			return err
		}

		return RunMigrations(sqlDB)
	}),
)
