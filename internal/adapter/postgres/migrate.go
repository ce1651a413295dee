package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/pgx/v5"
	"github.com/golang-migrate/migrate/v4/source/iofs"

	"github.com/Temutjin2k/bus-tracker/internal/adapter/postgres/migrations"
	"github.com/Temutjin2k/bus-tracker/internal/domain/types"
	"github.com/Temutjin2k/bus-tracker/pkg/logger"
	wrap "github.com/Temutjin2k/bus-tracker/pkg/logger/wrapper"
)

// migrateURL rewrites a postgres:// DSN to the scheme registered by the pgx/v5 migrate driver.
func migrateURL(dsn string) string {
	for _, prefix := range []string{"postgres://", "postgresql://"} {
		if strings.HasPrefix(dsn, prefix) {
			return "pgx5://" + strings.TrimPrefix(dsn, prefix)
		}
	}
	return dsn
}

// Migrate applies every embedded migration that has not run yet.
func Migrate(ctx context.Context, dsn string, log logger.Logger) error {
	const op = "postgres.Migrate"
	ctx = wrap.WithAction(ctx, types.ActionMigrate)

	src, err := iofs.New(migrations.FS, ".")
	if err != nil {
		return wrap.Error(ctx, fmt.Errorf("%s: open embedded migrations: %w", op, err))
	}

	m, err := migrate.NewWithSourceInstance("iofs", src, migrateURL(dsn))
	if err != nil {
		return wrap.Error(ctx, fmt.Errorf("%s: %w", op, err))
	}
	defer func() {
		if srcErr, dbErr := m.Close(); srcErr != nil || dbErr != nil {
			log.Warn(ctx, "failed to close migrator", "source_error", srcErr, "db_error", dbErr)
		}
	}()

	if err := m.Up(); err != nil {
		if errors.Is(err, migrate.ErrNoChange) {
			log.Info(ctx, "database schema is up to date")
			return nil
		}
		return wrap.Error(ctx, fmt.Errorf("%s: %w", op, err))
	}

	version, dirty, _ := m.Version()
	log.Info(ctx, "database migrated", "version", version, "dirty", dirty)

	return nil
}
