package tracking

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/Temutjin2k/bus-tracker/internal/domain/models"
	"github.com/Temutjin2k/bus-tracker/internal/domain/types"
	"github.com/Temutjin2k/bus-tracker/pkg/logger"
	wrap "github.com/Temutjin2k/bus-tracker/pkg/logger/wrapper"
	"github.com/Temutjin2k/bus-tracker/pkg/metrics"
)

// Result counts per-subscriber outcomes of one dispatch.
type Result struct {
	Delivered int
	Failed    int
}

// Dispatcher pushes location updates to the global topic and to the bus's route topic.
type Dispatcher struct {
	registry TopicRegistry
	l        logger.Logger
}

func NewDispatcher(registry TopicRegistry, l logger.Logger) *Dispatcher {
	return &Dispatcher{
		registry: registry,
		l:        l,
	}
}

// Topics returns the topics a report of bus is published to.
// A bus without a route, or whose route is inactive, feeds the global topic only.
func Topics(bus *models.Bus) []types.Topic {
	topics := []types.Topic{types.GlobalTopic}
	if routeID, ok := bus.ActiveRouteID(); ok {
		topics = append(topics, types.RouteTopic(routeID))
	}
	return topics
}

// Dispatch enqueues one location_update to every current subscriber of the affected topics.
// A failing subscriber is logged and skipped.
func (d *Dispatcher) Dispatch(ctx context.Context, bus *models.Bus, report models.PositionReport) (Result, error) {
	ctx = wrap.WithAction(ctx, types.ActionFanout)

	payload, err := json.Marshal(models.LocationUpdateMessage{
		Type:     types.MessageLocationUpdate,
		BusID:    bus.ID,
		Location: models.NewLocationPayload(report),
	})
	if err != nil {
		return Result{}, wrap.Error(ctx, fmt.Errorf("Dispatcher.Dispatch: marshal: %w", err))
	}

	var total Result
	for _, topic := range Topics(bus) {
		res := d.publish(ctx, topic, payload)
		total.Delivered += res.Delivered
		total.Failed += res.Failed
	}

	d.l.Debug(ctx, "location update dispatched",
		"delivered", total.Delivered,
		"failed", total.Failed,
	)

	return total, nil
}

func (d *Dispatcher) publish(ctx context.Context, topic types.Topic, payload []byte) Result {
	var res Result
	for _, sub := range d.registry.Members(topic) {
		if err := sub.Send(payload); err != nil {
			res.Failed++
			d.l.Warn(wrap.WithAction(ctx, types.ActionDeliveryFailed), "failed to deliver location update",
				"topic", topic.String(),
				"conn_id", sub.ID().String(),
				"error", err.Error(),
			)
			continue
		}
		res.Delivered++
	}

	metrics.RecordFanout(topic.Kind(), res.Delivered, res.Failed)
	return res
}
