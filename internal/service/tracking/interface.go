package tracking

import (
	"context"

	"github.com/Temutjin2k/bus-tracker/internal/domain/models"
	"github.com/Temutjin2k/bus-tracker/internal/domain/types"
	ws "github.com/Temutjin2k/bus-tracker/pkg/wsHub"
)

type BusRepository interface {
	Get(ctx context.Context, id int64) (*models.Bus, error)
	Tracking(ctx context.Context, routeID *int64) ([]models.BusTracking, error)
}

type RouteRepository interface {
	Get(ctx context.Context, id int64) (*models.Route, error)
}

type LocationRepository interface {
	Create(ctx context.Context, report *models.PositionReport) error
}

type TxManager interface {
	Do(ctx context.Context, fn func(ctx context.Context) error) error
}

// TopicRegistry is the read side of ws.Registry used for fan-out.
type TopicRegistry interface {
	Members(topic types.Topic) []ws.Subscriber
}

// EventPublisher forwards stored reports to an external broker.
type EventPublisher interface {
	Name() string
	PublishLocation(ctx context.Context, event models.LocationEvent) error
}
