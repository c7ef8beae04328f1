// Package migration applies the database schema on startup. Postgres
// deployments run the versioned SQL migrations; sqlite and mysql fall
// back to gorm auto-migration, which is sufficient for the dev and test
// setups those drivers serve.
package migration

import (
	"embed"
	"errors"

	"github.com/golang-migrate/migrate/v4"
	migratepg "github.com/golang-migrate/migrate/v4/database/postgres"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	"github.com/labsupply/smartpricing/internal/config"
	importerdomain "github.com/labsupply/smartpricing/internal/importer/domain"
	recdomain "github.com/labsupply/smartpricing/internal/recommendation/domain"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

//go:embed migrations/*.sql
var migrationFS embed.FS

// Run brings the schema up to date for the configured database.
func Run(cfg config.Config, conn *gorm.DB, log *zap.Logger) error {
	if cfg.DBType == "postgres" {
		return runVersioned(conn, log)
	}
	return autoMigrate(conn, log)
}

func runVersioned(conn *gorm.DB, log *zap.Logger) error {
	sqlDB, err := conn.DB()
	if err != nil {
		return err
	}

	source, err := iofs.New(migrationFS, "migrations")
	if err != nil {
		return err
	}
	driver, err := migratepg.WithInstance(sqlDB, &migratepg.Config{})
	if err != nil {
		return err
	}
	m, err := migrate.NewWithInstance("iofs", source, "postgres", driver)
	if err != nil {
		return err
	}

	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return err
	}

	version, dirty, err := m.Version()
	if err != nil && !errors.Is(err, migrate.ErrNilVersion) {
		return err
	}
	log.Info("database migrated",
		zap.Uint("version", version),
		zap.Bool("dirty", dirty),
	)
	return nil
}

func autoMigrate(conn *gorm.DB, log *zap.Logger) error {
	err := conn.AutoMigrate(
		&importerdomain.ImportBatch{},
		&importerdomain.ImportRow{},
		&importerdomain.RetrainJob{},
		&recdomain.TrackedProduct{},
	)
	if err != nil {
		return err
	}
	log.Info("database schema synchronized")
	return nil
}
