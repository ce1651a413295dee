package tracking

import (
	"context"

	"github.com/Temutjin2k/bus-tracker/internal/domain/models"
	"github.com/Temutjin2k/bus-tracker/internal/domain/types"
)

// SnapshotBuilder reads the current state of the fleet at call time. Nothing is cached.
type SnapshotBuilder struct {
	buses  BusRepository
	routes RouteRepository
}

func NewSnapshotBuilder(buses BusRepository, routes RouteRepository) *SnapshotBuilder {
	return &SnapshotBuilder{
		buses:  buses,
		routes: routes,
	}
}

// Global returns every active bus with its current location.
func (b *SnapshotBuilder) Global(ctx context.Context) ([]models.BusTracking, error) {
	return b.buses.Tracking(ctx, nil)
}

// Route returns active buses currently assigned to routeID.
func (b *SnapshotBuilder) Route(ctx context.Context, routeID int64) ([]models.BusTracking, error) {
	return b.buses.Tracking(ctx, &routeID)
}

// RouteExists returns types.ErrRouteNotFound for unknown routes.
func (b *SnapshotBuilder) RouteExists(ctx context.Context, routeID int64) error {
	_, err := b.routes.Get(ctx, routeID)
	return err
}

func (b *SnapshotBuilder) GlobalMessage(ctx context.Context, typ types.MessageType) (models.SnapshotMessage, error) {
	buses, err := b.Global(ctx)
	if err != nil {
		return models.SnapshotMessage{}, err
	}
	return models.SnapshotMessage{Type: typ, Buses: buses}, nil
}

func (b *SnapshotBuilder) RouteMessage(ctx context.Context, routeID int64, typ types.MessageType) (models.SnapshotMessage, error) {
	buses, err := b.Route(ctx, routeID)
	if err != nil {
		return models.SnapshotMessage{}, err
	}
	return models.SnapshotMessage{Type: typ, RouteID: &routeID, Buses: buses}, nil
}
