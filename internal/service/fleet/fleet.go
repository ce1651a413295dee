package fleet

import (
	"context"
	"time"

	"github.com/Temutjin2k/bus-tracker/internal/domain/models"
	"github.com/Temutjin2k/bus-tracker/internal/domain/types"
	"github.com/Temutjin2k/bus-tracker/pkg/logger"
)

// DefaultHistoryHours is the history window when none or an invalid one is given.
const DefaultHistoryHours = 24

// MaxHistoryHours caps the history window at one year.
const MaxHistoryHours = 24 * 366

// Service serves read queries over routes, buses, stops and location history.
type Service struct {
	routes    RouteRepository
	buses     BusRepository
	locations LocationRepository
	stops     StopRepository
	trm       TxManager

	now func() time.Time
	l   logger.Logger
}

func NewService(
	routes RouteRepository,
	buses BusRepository,
	locations LocationRepository,
	stops StopRepository,
	trm TxManager,
	l logger.Logger,
) *Service {
	return &Service{
		routes:    routes,
		buses:     buses,
		locations: locations,
		stops:     stops,
		trm:       trm,
		now:       time.Now,
		l:         l,
	}
}

// NormalizeHours falls back to DefaultHistoryHours for non-positive values and caps
// the window at MaxHistoryHours.
func NormalizeHours(hours int) int {
	if hours <= 0 {
		return DefaultHistoryHours
	}
	return min(hours, MaxHistoryHours)
}

func (s *Service) since(hours int) time.Time {
	return s.now().Add(-time.Duration(NormalizeHours(hours)) * time.Hour)
}

// ListRoutes returns active routes with their stops.
func (s *Service) ListRoutes(ctx context.Context) ([]models.Route, error) {
	var routes []models.Route
	err := s.trm.DoReadOnly(ctx, func(ctx context.Context) error {
		var err error
		if routes, err = s.routes.List(ctx, true); err != nil {
			return err
		}

		stops, err := s.stops.List(ctx, nil)
		if err != nil {
			return err
		}

		byRoute := make(map[int64][]models.RouteStop, len(routes))
		for _, stop := range stops {
			byRoute[stop.RouteID] = append(byRoute[stop.RouteID], stop)
		}
		for i := range routes {
			routes[i].Stops = nonNil(byRoute[routes[i].ID])
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return routes, nil
}

// GetRoute returns an active route with its stops.
func (s *Service) GetRoute(ctx context.Context, id int64) (*models.Route, error) {
	route, err := s.activeRoute(ctx, id)
	if err != nil {
		return nil, err
	}

	stops, err := s.stops.List(ctx, &id)
	if err != nil {
		return nil, err
	}
	route.Stops = stops

	return route, nil
}

func (s *Service) activeRoute(ctx context.Context, id int64) (*models.Route, error) {
	route, err := s.routes.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if !route.IsActive {
		return nil, types.ErrRouteNotFound
	}
	return route, nil
}

// RouteBuses returns the tracking rows of active buses on an active route.
func (s *Service) RouteBuses(ctx context.Context, id int64) ([]models.BusTracking, error) {
	if _, err := s.activeRoute(ctx, id); err != nil {
		return nil, err
	}
	return s.buses.Tracking(ctx, &id)
}

// RouteStops returns the active stops of an active route in stop order.
func (s *Service) RouteStops(ctx context.Context, id int64) ([]models.RouteStop, error) {
	if _, err := s.activeRoute(ctx, id); err != nil {
		return nil, err
	}
	return s.stops.List(ctx, &id)
}

// ListBuses returns active buses, optionally of one route.
func (s *Service) ListBuses(ctx context.Context, routeID *int64) ([]models.Bus, error) {
	return s.buses.List(ctx, models.BusFilter{RouteID: routeID})
}

// GetBus returns an active bus with its route, current location and latest reports.
func (s *Service) GetBus(ctx context.Context, id int64) (*models.Bus, error) {
	bus, err := s.activeBus(ctx, id)
	if err != nil {
		return nil, err
	}

	recent, err := s.locations.Recent(ctx, id, models.RecentLocationsLimit)
	if err != nil {
		return nil, err
	}
	bus.RecentLocations = recent

	return bus, nil
}

func (s *Service) activeBus(ctx context.Context, id int64) (*models.Bus, error) {
	bus, err := s.buses.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if !bus.IsActive {
		return nil, types.ErrBusNotFound
	}
	return bus, nil
}

// BusLocations returns the history of an active bus within the last hours, newest first.
func (s *Service) BusLocations(ctx context.Context, id int64, hours int) ([]models.PositionReport, error) {
	if _, err := s.activeBus(ctx, id); err != nil {
		return nil, err
	}
	return s.locations.List(ctx, models.LocationFilter{BusID: &id, Since: s.since(hours)})
}

// Tracking returns the compact state of active buses, optionally of one route.
func (s *Service) Tracking(ctx context.Context, routeID *int64) ([]models.BusTracking, error) {
	return s.buses.Tracking(ctx, routeID)
}

// ListLocations returns reports within the last hours, newest first.
func (s *Service) ListLocations(ctx context.Context, busID *int64, hours int) ([]models.PositionReport, error) {
	return s.locations.List(ctx, models.LocationFilter{BusID: busID, Since: s.since(hours)})
}

// LatestLocations returns the current report of every active bus that has one.
func (s *Service) LatestLocations(ctx context.Context) ([]models.LatestLocation, error) {
	buses, err := s.buses.Tracking(ctx, nil)
	if err != nil {
		return nil, err
	}

	out := make([]models.LatestLocation, 0, len(buses))
	for _, b := range buses {
		if b.CurrentLocation == nil {
			continue
		}
		out = append(out, models.LatestLocation{
			PositionReport: *b.CurrentLocation,
			BusInfo: models.BusInfo{
				ID:          b.ID,
				BusNumber:   b.BusNumber,
				RouteNumber: b.RouteNumber,
				RouteColor:  b.RouteColor,
			},
		})
	}
	return out, nil
}

// ListStops returns active stops, optionally of one route.
func (s *Service) ListStops(ctx context.Context, routeID *int64) ([]models.RouteStop, error) {
	return s.stops.List(ctx, routeID)
}

func nonNil[T any](s []T) []T {
	if s == nil {
		return []T{}
	}
	return s
}
