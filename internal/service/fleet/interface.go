package fleet

import (
	"context"
	"time"

	"github.com/Temutjin2k/bus-tracker/internal/domain/models"
)

type RouteRepository interface {
	List(ctx context.Context, activeOnly bool) ([]models.Route, error)
	Get(ctx context.Context, id int64) (*models.Route, error)
	Upsert(ctx context.Context, route *models.Route) error
}

type BusRepository interface {
	Get(ctx context.Context, id int64) (*models.Bus, error)
	List(ctx context.Context, filter models.BusFilter) ([]models.Bus, error)
	Tracking(ctx context.Context, routeID *int64) ([]models.BusTracking, error)
	Upsert(ctx context.Context, bus *models.Bus) error
}

type LocationRepository interface {
	List(ctx context.Context, filter models.LocationFilter) ([]models.PositionReport, error)
	Recent(ctx context.Context, busID int64, limit int) ([]models.PositionReport, error)
	DeleteOlderThan(ctx context.Context, cutoff time.Time) (int64, error)
}

type StopRepository interface {
	List(ctx context.Context, routeID *int64) ([]models.RouteStop, error)
	Upsert(ctx context.Context, stop *models.RouteStop) error
}

type TxManager interface {
	Do(ctx context.Context, fn func(ctx context.Context) error) error
	DoReadOnly(ctx context.Context, fn func(ctx context.Context) error) error
}
