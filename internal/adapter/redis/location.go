package redis

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/go-redis/redis/v8"

	"github.com/Temutjin2k/bus-tracker/internal/domain/models"
	"github.com/Temutjin2k/bus-tracker/pkg/logger"
	wrap "github.com/Temutjin2k/bus-tracker/pkg/logger/wrapper"
)

const (
	LocationChannel = "bus:location"
	LatestKey       = "bus:latest"
)

type Config struct {
	Addr     string
	Password string
	DB       int
}

// LocationSink publishes each report on bus:location and keeps the latest one per bus in the bus:latest hash.
type LocationSink struct {
	client *redis.Client
}

func New(ctx context.Context, cfg Config, log logger.Logger) (*LocationSink, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("failed to ping redis: %w", err)
	}

	log.Info(ctx, "connected to redis", "addr", cfg.Addr)
	return &LocationSink{client: client}, nil
}

func (s *LocationSink) Name() string { return "redis" }

func (s *LocationSink) PublishLocation(ctx context.Context, event models.LocationEvent) error {
	const op = "LocationSink.PublishLocation"

	body, err := json.Marshal(event)
	if err != nil {
		return wrap.Error(ctx, fmt.Errorf("%s: failed to marshal event: %w", op, err))
	}

	pipe := s.client.TxPipeline()
	pipe.Publish(ctx, LocationChannel, body)
	pipe.HSet(ctx, LatestKey, strconv.FormatInt(event.BusID, 10), body)
	if _, err := pipe.Exec(ctx); err != nil {
		return wrap.Error(ctx, fmt.Errorf("%s: %w", op, err))
	}
	return nil
}

func (s *LocationSink) Close() error {
	return s.client.Close()
}
