package rabbit

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/Temutjin2k/bus-tracker/internal/domain/models"
	wrap "github.com/Temutjin2k/bus-tracker/pkg/logger/wrapper"
)

const (
	BusExchange = "bus_topic"

	unassignedRoute = "unassigned"
)

// Broker is satisfied by *rabbit.RabbitMQ.
type Broker interface {
	DeclareTopicExchange(ctx context.Context, name string) error
	Publish(ctx context.Context, exchange, key string, body []byte) error
}

// LocationPublisher forwards stored reports to the bus_topic exchange.
type LocationPublisher struct {
	client   Broker
	exchange string
}

// NewLocationPublisher declares the exchange and returns a publisher bound to it.
func NewLocationPublisher(ctx context.Context, client Broker) (*LocationPublisher, error) {
	if err := client.DeclareTopicExchange(ctx, BusExchange); err != nil {
		return nil, err
	}
	return &LocationPublisher{client: client, exchange: BusExchange}, nil
}

func (p *LocationPublisher) Name() string { return "rabbitmq" }

// PublishLocation sends the event with routing key bus.location.{route_number}.
func (p *LocationPublisher) PublishLocation(ctx context.Context, event models.LocationEvent) error {
	const op = "LocationPublisher.PublishLocation"

	body, err := json.Marshal(event)
	if err != nil {
		return wrap.Error(ctx, fmt.Errorf("%s: failed to marshal event: %w", op, err))
	}

	if err := p.client.Publish(ctx, p.exchange, RoutingKey(event), body); err != nil {
		return wrap.Error(ctx, fmt.Errorf("%s: failed to publish: %w", op, err))
	}
	return nil
}

// RoutingKey is bus.location.<route number>, or bus.location.unassigned for a bus without a route.
func RoutingKey(event models.LocationEvent) string {
	route := event.RouteNumber
	if route == "" {
		route = unassignedRoute
	}
	return "bus.location." + route
}
