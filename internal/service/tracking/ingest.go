package tracking

import (
	"context"
	"errors"
	"strconv"
	"time"

	"github.com/Temutjin2k/bus-tracker/internal/domain/models"
	"github.com/Temutjin2k/bus-tracker/internal/domain/types"
	"github.com/Temutjin2k/bus-tracker/pkg/logger"
	wrap "github.com/Temutjin2k/bus-tracker/pkg/logger/wrapper"
	"github.com/Temutjin2k/bus-tracker/pkg/metrics"
	"github.com/Temutjin2k/bus-tracker/pkg/validator"
)

// Service accepts position reports, stores them and fans them out.
type Service struct {
	buses      BusRepository
	locations  LocationRepository
	trm        TxManager
	dispatcher *Dispatcher
	publishers []EventPublisher

	locks stripedLock
	now   func() time.Time
	l     logger.Logger
}

func NewService(
	buses BusRepository,
	locations LocationRepository,
	trm TxManager,
	dispatcher *Dispatcher,
	l logger.Logger,
	publishers ...EventPublisher,
) *Service {
	return &Service{
		buses:      buses,
		locations:  locations,
		trm:        trm,
		dispatcher: dispatcher,
		publishers: publishers,
		now:        time.Now,
		l:          l,
	}
}

// RecordLocation validates and stores a report for busID, then dispatches it exactly once.
// Reports of the same bus are stored and dispatched one at a time, so subscribers see them
// in stored order. Invalid input, an unknown or inactive bus, or a storage failure
// means nothing is stored and nothing is pushed.
func (s *Service) RecordLocation(ctx context.Context, busID int64, in models.LocationInput) (*models.PositionReport, error) {
	ctx = wrap.WithBusID(wrap.WithAction(ctx, types.ActionLocationReceived), strconv.FormatInt(busID, 10))

	v := validator.New()
	in.Validate(v)
	if !v.Valid() {
		metrics.RecordLocationReport("invalid")
		s.l.Debug(wrap.WithAction(ctx, types.ActionLocationRejected), "location report rejected", "fields", v.Errors)
		return nil, types.NewValidationError(v.Errors)
	}

	unlock := s.locks.Lock(busID)
	defer unlock()

	var (
		bus    *models.Bus
		report models.PositionReport
	)
	err := s.trm.Do(ctx, func(ctx context.Context) error {
		b, err := s.buses.Get(ctx, busID)
		if err != nil {
			return err
		}
		if !b.IsActive {
			return types.ErrBusNotFound
		}

		report = in.Report(b.ID, s.now().UTC())
		if err := s.locations.Create(ctx, &report); err != nil {
			return err
		}

		bus = b
		return nil
	})
	if err != nil {
		if errors.Is(err, types.ErrNotFound) {
			metrics.RecordLocationReport("not_found")
		} else {
			metrics.RecordLocationReport("error")
		}
		return nil, err
	}
	metrics.RecordLocationReport("stored")

	if route := bus.Route; route != nil {
		ctx = wrap.WithRouteID(ctx, strconv.FormatInt(route.ID, 10))
	}
	ctx = wrap.WithAction(ctx, types.ActionLocationStored)

	if _, err := s.dispatcher.Dispatch(ctx, bus, report); err != nil {
		s.l.Error(wrap.ErrorCtx(ctx, err), "failed to dispatch location update", err)
	}

	s.forward(ctx, bus, report)

	return &report, nil
}

// forward hands the report to external brokers. Failures are logged and counted only:
// the report is already durable and pushed to local subscribers.
func (s *Service) forward(ctx context.Context, bus *models.Bus, report models.PositionReport) {
	if len(s.publishers) == 0 {
		return
	}

	event := models.NewLocationEvent(bus, report)
	for _, p := range s.publishers {
		err := p.PublishLocation(ctx, event)
		metrics.RecordIntegrationPublish(p.Name(), err)
		if err != nil {
			s.l.Error(wrap.WithAction(ctx, types.ActionIntegrationFailed), "failed to forward location event", err,
				"sink", p.Name(),
			)
		}
	}
}
