package redis

import (
	"context"
	"encoding/json"
	"io"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/go-redis/redis/v8"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Temutjin2k/bus-tracker/internal/domain/models"
	"github.com/Temutjin2k/bus-tracker/pkg/logger"
)

func testLogger() logger.Logger {
	return logger.New(io.Discard, "test", logger.LevelError)
}

func TestPublishLocation(t *testing.T) {
	srv := miniredis.RunT(t)
	ctx := context.Background()

	sink, err := New(ctx, Config{Addr: srv.Addr()}, testLogger())
	require.NoError(t, err)
	defer sink.Close()
	assert.Equal(t, "redis", sink.Name())

	observer := redis.NewClient(&redis.Options{Addr: srv.Addr()})
	defer observer.Close()
	pubsub := observer.Subscribe(ctx, LocationChannel)
	defer pubsub.Close()
	_, err = pubsub.Receive(ctx)
	require.NoError(t, err)

	event := models.LocationEvent{
		BusID:       1,
		BusNumber:   "B101A",
		RouteNumber: "101",
		Location:    models.LocationPayload{Latitude: 40.7589, Longitude: -73.9851},
	}
	require.NoError(t, sink.PublishLocation(ctx, event))

	select {
	case msg := <-pubsub.Channel():
		var got models.LocationEvent
		require.NoError(t, json.Unmarshal([]byte(msg.Payload), &got))
		assert.Equal(t, int64(1), got.BusID)
		assert.Equal(t, "101", got.RouteNumber)
	case <-time.After(2 * time.Second):
		t.Fatal("no message on " + LocationChannel)
	}

	latest := srv.HGet(LatestKey, "1")
	require.NotEmpty(t, latest)
	var stored models.LocationEvent
	require.NoError(t, json.Unmarshal([]byte(latest), &stored))
	assert.InDelta(t, 40.7589, stored.Location.Latitude, 1e-9)
}

func TestLatestIsOverwrittenPerBus(t *testing.T) {
	srv := miniredis.RunT(t)
	ctx := context.Background()

	sink, err := New(ctx, Config{Addr: srv.Addr()}, testLogger())
	require.NoError(t, err)
	defer sink.Close()

	for i, lat := range []float64{40.1, 40.2} {
		require.NoError(t, sink.PublishLocation(ctx, models.LocationEvent{
			BusID:    2,
			ReportID: int64(i + 1),
			Location: models.LocationPayload{Latitude: lat},
		}))
	}

	var stored models.LocationEvent
	require.NoError(t, json.Unmarshal([]byte(srv.HGet(LatestKey, "2")), &stored))
	assert.Equal(t, int64(2), stored.ReportID)
	keys, err := srv.HKeys(LatestKey)
	require.NoError(t, err)
	assert.Equal(t, []string{"2"}, keys)
}

func TestNewFailsWhenUnreachable(t *testing.T) {
	srv := miniredis.RunT(t)
	addr := srv.Addr()
	srv.Close()

	_, err := New(context.Background(), Config{Addr: addr}, testLogger())
	assert.Error(t, err)
}

func TestPublishFailsAfterServerStops(t *testing.T) {
	srv := miniredis.RunT(t)
	ctx := context.Background()

	sink, err := New(ctx, Config{Addr: srv.Addr()}, testLogger())
	require.NoError(t, err)
	defer sink.Close()

	srv.Close()
	assert.Error(t, sink.PublishLocation(ctx, models.LocationEvent{BusID: 1}))
}
