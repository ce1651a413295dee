package microservices

import (
	"context"

	"github.com/Temutjin2k/bus-tracker/config"
	repo "github.com/Temutjin2k/bus-tracker/internal/adapter/postgres"
	"github.com/Temutjin2k/bus-tracker/internal/domain/types"
	"github.com/Temutjin2k/bus-tracker/internal/service/fleet"
	"github.com/Temutjin2k/bus-tracker/pkg/logger"
	wrap "github.com/Temutjin2k/bus-tracker/pkg/logger/wrapper"
	"github.com/Temutjin2k/bus-tracker/pkg/postgres"
	"github.com/Temutjin2k/bus-tracker/pkg/trm"
)

// SeedService migrates the schema, loads the sample fleet and exits.
type SeedService struct {
	postgresDB *postgres.PostgreDB
	fleet      *fleet.Service
	cfg        config.Config
	log        logger.Logger
}

func NewSeed(ctx context.Context, cfg config.Config, log logger.Logger) (*SeedService, error) {
	postgresDB, err := postgres.New(ctx, cfg.Database)
	if err != nil {
		log.Error(ctx, "Failed to setup database", err)
		return nil, err
	}

	pool := postgresDB.Pool
	fleetService := fleet.NewService(
		repo.NewRouteRepo(pool),
		repo.NewBusRepo(pool),
		repo.NewLocationRepo(pool),
		repo.NewStopRepo(pool),
		trm.New(pool),
		log,
	)

	return &SeedService{
		postgresDB: postgresDB,
		fleet:      fleetService,
		cfg:        cfg,
		log:        log,
	}, nil
}

func (s *SeedService) Start(ctx context.Context) error {
	defer s.postgresDB.Close()
	ctx = wrap.WithAction(ctx, types.ActionSeed)

	if err := repo.Migrate(ctx, s.cfg.Database.GetDSN(), s.log); err != nil {
		s.log.Error(ctx, "failed to apply migrations", err)
		return err
	}

	res, err := s.fleet.Seed(ctx)
	if err != nil {
		s.log.Error(wrap.ErrorCtx(ctx, err), "failed to seed sample data", err)
		return err
	}

	s.log.Info(ctx, "sample data loaded", "routes", res.Routes, "stops", res.Stops, "buses", res.Buses)
	return nil
}
