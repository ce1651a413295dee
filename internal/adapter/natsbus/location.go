package natsbus

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"time"

	"github.com/nats-io/nats.go"

	"github.com/Temutjin2k/bus-tracker/internal/domain/models"
	"github.com/Temutjin2k/bus-tracker/pkg/logger"
	wrap "github.com/Temutjin2k/bus-tracker/pkg/logger/wrapper"
)

const subjectPrefix = "bus.location."

// LocationPublisher publishes stored reports on bus.location.<bus_id>.
type LocationPublisher struct {
	conn *nats.Conn
}

// Connect dials NATS. The client reconnects on its own after a drop.
func Connect(ctx context.Context, url string, log logger.Logger) (*LocationPublisher, error) {
	conn, err := nats.Connect(url,
		nats.Name("bus-tracker"),
		nats.MaxReconnects(-1),
		nats.ReconnectWait(2*time.Second),
		nats.DisconnectErrHandler(func(_ *nats.Conn, err error) {
			if err != nil {
				log.Error(ctx, "nats disconnected", err)
			}
		}),
		nats.ReconnectHandler(func(c *nats.Conn) {
			log.Info(ctx, "nats reconnected", "url", c.ConnectedUrl())
		}),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to nats: %w", err)
	}

	log.Info(ctx, "connected to nats", "url", conn.ConnectedUrl())
	return &LocationPublisher{conn: conn}, nil
}

func (p *LocationPublisher) Name() string { return "nats" }

func (p *LocationPublisher) PublishLocation(ctx context.Context, event models.LocationEvent) error {
	const op = "natsbus.PublishLocation"

	body, err := json.Marshal(event)
	if err != nil {
		return wrap.Error(ctx, fmt.Errorf("%s: failed to marshal event: %w", op, err))
	}

	if err := p.conn.Publish(Subject(event.BusID), body); err != nil {
		return wrap.Error(ctx, fmt.Errorf("%s: %w", op, err))
	}
	return nil
}

// Close flushes pending messages and closes the connection.
func (p *LocationPublisher) Close() error {
	return p.conn.Drain()
}

func Subject(busID int64) string {
	return subjectPrefix + strconv.FormatInt(busID, 10)
}
