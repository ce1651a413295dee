package microservices

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"

	"github.com/Temutjin2k/bus-tracker/config"
	"github.com/Temutjin2k/bus-tracker/internal/adapter/http/handler"
	"github.com/Temutjin2k/bus-tracker/internal/adapter/http/server"
	wshandler "github.com/Temutjin2k/bus-tracker/internal/adapter/http/ws"
	"github.com/Temutjin2k/bus-tracker/internal/adapter/natsbus"
	repo "github.com/Temutjin2k/bus-tracker/internal/adapter/postgres"
	rabbitadapter "github.com/Temutjin2k/bus-tracker/internal/adapter/rabbit"
	redisadapter "github.com/Temutjin2k/bus-tracker/internal/adapter/redis"
	"github.com/Temutjin2k/bus-tracker/internal/service/fleet"
	"github.com/Temutjin2k/bus-tracker/internal/service/tracking"
	"github.com/Temutjin2k/bus-tracker/pkg/logger"
	"github.com/Temutjin2k/bus-tracker/pkg/postgres"
	"github.com/Temutjin2k/bus-tracker/pkg/rabbit"
	"github.com/Temutjin2k/bus-tracker/pkg/trm"
	ws "github.com/Temutjin2k/bus-tracker/pkg/wsHub"
)

// TrackingService ingests bus positions over HTTP and streams them to websocket observers.
type TrackingService struct {
	postgresDB *postgres.PostgreDB
	rabbit     *rabbit.RabbitMQ
	nats       *natsbus.LocationPublisher
	redis      *redisadapter.LocationSink
	retention  *fleet.Retention

	fleet      *fleet.Service
	httpServer *server.API

	cfg config.Config
	log logger.Logger
}

func NewTracking(ctx context.Context, cfg config.Config, log logger.Logger) (_ *TrackingService, err error) {
	svc := &TrackingService{cfg: cfg, log: log}
	defer func() {
		if err != nil {
			svc.close(ctx)
		}
	}()

	if cfg.Database.AutoMigrate {
		if err = repo.Migrate(ctx, cfg.Database.GetDSN(), log); err != nil {
			log.Error(ctx, "Failed to apply migrations", err)
			return nil, err
		}
	}

	svc.postgresDB, err = postgres.New(ctx, cfg.Database)
	if err != nil {
		log.Error(ctx, "Failed to setup database", err)
		return nil, err
	}
	pool := svc.postgresDB.Pool

	publishers, err := svc.setupPublishers(ctx)
	if err != nil {
		return nil, err
	}

	busRepo := repo.NewBusRepo(pool)
	routeRepo := repo.NewRouteRepo(pool)
	locationRepo := repo.NewLocationRepo(pool)
	stopRepo := repo.NewStopRepo(pool)
	txManager := trm.New(pool)

	registry := ws.NewRegistry(log)
	dispatcher := tracking.NewDispatcher(registry, log)
	trackingService := tracking.NewService(busRepo, locationRepo, txManager, dispatcher, log, publishers...)
	snapshots := tracking.NewSnapshotBuilder(busRepo, routeRepo)

	svc.fleet = fleet.NewService(routeRepo, busRepo, locationRepo, stopRepo, txManager, log)

	svc.httpServer, err = server.New(cfg.Server, server.Handlers{
		Health:   handler.NewHealth(cfg.Server.Name, registry, log),
		Bus:      handler.NewBus(trackingService, svc.fleet, log),
		Route:    handler.NewRoute(svc.fleet, log),
		Location: handler.NewLocation(svc.fleet, log),
		Stop:     handler.NewStop(svc.fleet, log),
		Feed:     handler.NewFeed(svc.fleet, log),
		Tracking: wshandler.NewTrackingWS(registry, snapshots, cfg.WebSocket.ConnConfig(), log),
	}, registry, log)
	if err != nil {
		log.Error(ctx, "Failed to setup http server", err)
		return nil, err
	}

	return svc, nil
}

// setupPublishers connects the enabled external sinks.
func (s *TrackingService) setupPublishers(ctx context.Context) ([]tracking.EventPublisher, error) {
	var publishers []tracking.EventPublisher

	if s.cfg.RabbitMQ.Enabled {
		client, err := rabbit.New(ctx, s.cfg.RabbitMQ.GetDSN(), s.log)
		if err != nil {
			s.log.Error(ctx, "Failed to connect to RabbitMQ", err)
			return nil, err
		}
		s.rabbit = client

		p, err := rabbitadapter.NewLocationPublisher(ctx, client)
		if err != nil {
			s.log.Error(ctx, "Failed to declare RabbitMQ exchange", err)
			return nil, err
		}
		publishers = append(publishers, p)
	}

	if s.cfg.NATS.Enabled {
		p, err := natsbus.Connect(ctx, s.cfg.NATS.URL, s.log)
		if err != nil {
			s.log.Error(ctx, "Failed to connect to NATS", err)
			return nil, err
		}
		s.nats = p
		publishers = append(publishers, p)
	}

	if s.cfg.Redis.Enabled {
		p, err := redisadapter.New(ctx, redisadapter.Config{
			Addr:     s.cfg.Redis.Addr,
			Password: s.cfg.Redis.Password,
			DB:       s.cfg.Redis.DB,
		}, s.log)
		if err != nil {
			s.log.Error(ctx, "Failed to connect to Redis", err)
			return nil, err
		}
		s.redis = p
		publishers = append(publishers, p)
	}

	return publishers, nil
}

func (s *TrackingService) Start(ctx context.Context) error {
	errCh := make(chan error, 1)

	retention, err := s.fleet.StartRetention(ctx, s.cfg.Retention.Schedule, s.cfg.Retention.Window())
	if err != nil {
		s.close(ctx)
		return err
	}
	s.retention = retention

	s.httpServer.Run(ctx, errCh)
	defer func() {
		s.close(ctx)
		s.log.Info(ctx, "tracking service closed")
	}()

	// Waiting signal
	shutdownCh := make(chan os.Signal, 1)
	signal.Notify(shutdownCh, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(shutdownCh)

	s.log.Info(ctx, "tracking service started")

	select {
	case errRun := <-errCh:
		return errRun
	case sig := <-shutdownCh:
		s.log.Info(ctx, "shutting down application", "signal", sig.String())
		return nil
	case <-ctx.Done():
		return nil
	}
}

func (s *TrackingService) close(ctx context.Context) {
	ctx = context.WithoutCancel(ctx)

	s.retention.Stop()

	if s.httpServer != nil {
		if err := s.httpServer.Stop(ctx); err != nil {
			s.log.Warn(ctx, "Failed to gracefully close http server", "error", err.Error())
		}
	}

	var errs []error
	if s.rabbit != nil {
		errs = append(errs, s.rabbit.Close(ctx))
	}
	if s.nats != nil {
		errs = append(errs, s.nats.Close())
	}
	if s.redis != nil {
		errs = append(errs, s.redis.Close())
	}
	if err := errors.Join(errs...); err != nil {
		s.log.Warn(ctx, "Failed to close integration sinks", "error", err.Error())
	}

	s.postgresDB.Close()
}
