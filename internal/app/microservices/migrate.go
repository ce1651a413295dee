package microservices

import (
	"context"

	"github.com/Temutjin2k/bus-tracker/config"
	repo "github.com/Temutjin2k/bus-tracker/internal/adapter/postgres"
	"github.com/Temutjin2k/bus-tracker/internal/domain/types"
	"github.com/Temutjin2k/bus-tracker/pkg/logger"
	wrap "github.com/Temutjin2k/bus-tracker/pkg/logger/wrapper"
)

// MigrateService applies pending migrations and exits.
type MigrateService struct {
	cfg config.Config
	log logger.Logger
}

func NewMigrate(cfg config.Config, log logger.Logger) *MigrateService {
	return &MigrateService{cfg: cfg, log: log}
}

func (s *MigrateService) Start(ctx context.Context) error {
	ctx = wrap.WithAction(ctx, types.ActionMigrate)

	if err := repo.Migrate(ctx, s.cfg.Database.GetDSN(), s.log); err != nil {
		s.log.Error(ctx, "failed to apply migrations", err)
		return err
	}
	return nil
}
