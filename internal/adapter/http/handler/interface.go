package handler

import (
	"context"

	"github.com/Temutjin2k/bus-tracker/internal/domain/models"
)

type LocationRecorder interface {
	RecordLocation(ctx context.Context, busID int64, in models.LocationInput) (*models.PositionReport, error)
}

type BusService interface {
	ListBuses(ctx context.Context, routeID *int64) ([]models.Bus, error)
	GetBus(ctx context.Context, id int64) (*models.Bus, error)
	BusLocations(ctx context.Context, id int64, hours int) ([]models.PositionReport, error)
	Tracking(ctx context.Context, routeID *int64) ([]models.BusTracking, error)
}

type RouteService interface {
	ListRoutes(ctx context.Context) ([]models.Route, error)
	GetRoute(ctx context.Context, id int64) (*models.Route, error)
	RouteBuses(ctx context.Context, id int64) ([]models.BusTracking, error)
	RouteStops(ctx context.Context, id int64) ([]models.RouteStop, error)
}

type LocationService interface {
	ListLocations(ctx context.Context, busID *int64, hours int) ([]models.PositionReport, error)
	LatestLocations(ctx context.Context) ([]models.LatestLocation, error)
}

type StopService interface {
	ListStops(ctx context.Context, routeID *int64) ([]models.RouteStop, error)
}

type TrackingSource interface {
	Tracking(ctx context.Context, routeID *int64) ([]models.BusTracking, error)
}
