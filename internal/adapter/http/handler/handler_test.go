package handler

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	gtfs "github.com/MobilityData/gtfs-realtime-bindings/golang/gtfs"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/protobuf/proto"

	"github.com/Temutjin2k/bus-tracker/internal/domain/models"
	"github.com/Temutjin2k/bus-tracker/internal/domain/types"
	"github.com/Temutjin2k/bus-tracker/internal/service/tracking"
	"github.com/Temutjin2k/bus-tracker/internal/service/tracking/trackingtest"
	"github.com/Temutjin2k/bus-tracker/pkg/logger"
	ws "github.com/Temutjin2k/bus-tracker/pkg/wsHub"
)

func testLogger() logger.Logger {
	return logger.New(io.Discard, "test", logger.LevelError)
}

type stubBuses struct {
	err error
}

func (s stubBuses) ListBuses(context.Context, *int64) ([]models.Bus, error) {
	return []models.Bus{}, s.err
}

func (s stubBuses) GetBus(_ context.Context, id int64) (*models.Bus, error) {
	if s.err != nil {
		return nil, s.err
	}
	return &models.Bus{ID: id, BusNumber: "B101A", IsActive: true}, nil
}

func (s stubBuses) BusLocations(context.Context, int64, int) ([]models.PositionReport, error) {
	return []models.PositionReport{}, s.err
}

func (s stubBuses) Tracking(context.Context, *int64) ([]models.BusTracking, error) {
	return []models.BusTracking{}, s.err
}

func newBusHandler(t *testing.T) (*Bus, *trackingtest.Store) {
	t.Helper()

	store := trackingtest.Sample()
	l := testLogger()
	svc := tracking.NewService(store.Buses(), store, trackingtest.TxManager{}, tracking.NewDispatcher(ws.NewRegistry(l), l), l)
	return NewBus(svc, stubBuses{}, l), store
}

func postLocation(h *Bus, busID, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, "/api/buses/"+busID+"/update_location/", strings.NewReader(body))
	req.SetPathValue("bus_id", busID)
	rec := httptest.NewRecorder()
	h.UpdateLocation(rec, req)
	return rec
}

func decodeError(t *testing.T, rec *httptest.ResponseRecorder) any {
	t.Helper()
	var body map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	return body["error"]
}

func TestUpdateLocationCreated(t *testing.T) {
	h, store := newBusHandler(t)

	rec := postLocation(h, "1", `{"latitude": 40.7589, "longitude": -73.9851, "speed": 35.0, "heading": 90.0}`)
	require.Equal(t, http.StatusCreated, rec.Code)

	var report models.PositionReport
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &report))
	assert.Equal(t, int64(1), report.BusID)
	assert.InDelta(t, 40.7589, report.Latitude, 1e-9)
	require.NotNil(t, report.Heading)
	assert.InDelta(t, 90.0, *report.Heading, 1e-9)
	assert.Len(t, store.Reports(), 1)
}

func TestUpdateLocationValidation(t *testing.T) {
	h, store := newBusHandler(t)

	rec := postLocation(h, "1", `{"longitude": -73.9851, "heading": 360}`)
	require.Equal(t, http.StatusBadRequest, rec.Code)

	fields, ok := decodeError(t, rec).(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "must be provided", fields["latitude"])
	assert.Contains(t, fields, "heading")
	assert.Empty(t, store.Reports())
}

func TestUpdateLocationBadBody(t *testing.T) {
	h, _ := newBusHandler(t)

	for _, body := range []string{``, `{"latitude": `, `{"latitude": "north"}`, `{"latitude": 1, "longitude": 2, "timestamp": "yesterday"}`} {
		rec := postLocation(h, "1", body)
		assert.Equal(t, http.StatusBadRequest, rec.Code, body)
	}
}

func TestUpdateLocationWrongFieldType(t *testing.T) {
	h, store := newBusHandler(t)

	tests := []struct {
		body  string
		field string
		msg   string
	}{
		{`{"latitude": "abc", "longitude": -73.9851}`, "latitude", "must be a number"},
		{`{"latitude": 40.7589, "longitude": -73.9851, "heading": "north"}`, "heading", "must be a number"},
		{`{"latitude": 40.7589, "longitude": -73.9851, "timestamp": "yesterday"}`, "timestamp", "must be an RFC3339 date-time"},
	}

	for _, tt := range tests {
		rec := postLocation(h, "1", tt.body)
		require.Equal(t, http.StatusBadRequest, rec.Code, tt.body)

		fields, ok := decodeError(t, rec).(map[string]any)
		require.True(t, ok, tt.body)
		assert.Equal(t, tt.msg, fields[tt.field], tt.body)
	}
	assert.Empty(t, store.Reports())
}

func TestUpdateLocationUnknownBus(t *testing.T) {
	h, store := newBusHandler(t)

	for _, id := range []string{"99", "abc", "0"} {
		rec := postLocation(h, id, `{"latitude": 1, "longitude": 2}`)
		assert.Equal(t, http.StatusNotFound, rec.Code, id)
	}
	assert.Empty(t, store.Reports())
}

func TestGetBusErrors(t *testing.T) {
	l := testLogger()

	h := NewBus(nil, stubBuses{err: fmt.Errorf("BusRepo.Get: %w", types.ErrBusNotFound)}, l)
	req := httptest.NewRequest(http.MethodGet, "/api/buses/5/", nil)
	req.SetPathValue("bus_id", "5")
	rec := httptest.NewRecorder()
	h.GetBus(rec, req)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	h = NewBus(nil, stubBuses{err: fmt.Errorf("BusRepo.Get: %w: connection refused", types.ErrStorage)}, l)
	rec = httptest.NewRecorder()
	h.GetBus(rec, req)
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Equal(t, internalErrorMessage, decodeError(t, rec))
}

func TestGetCode(t *testing.T) {
	assert.Equal(t, http.StatusBadRequest, GetCode(types.NewValidationError(map[string]string{"latitude": "x"})))
	assert.Equal(t, http.StatusNotFound, GetCode(fmt.Errorf("op: %w", types.ErrRouteNotFound)))
	assert.Equal(t, http.StatusInternalServerError, GetCode(errors.New("boom")))
}

func TestQueryHelpers(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/api/locations?bus=3&hours=abc", nil)
	require.NotNil(t, queryID(req, "bus"))
	assert.Equal(t, int64(3), *queryID(req, "bus"))
	assert.Equal(t, 0, queryHours(req))

	req = httptest.NewRequest(http.MethodGet, "/api/buses?route=x&hours=6", nil)
	assert.Nil(t, queryID(req, "route"))
	assert.Equal(t, 6, queryHours(req))
}

func TestVehiclePositions(t *testing.T) {
	store := trackingtest.Sample()
	l := testLogger()
	svc := tracking.NewService(store.Buses(), store, trackingtest.TxManager{}, tracking.NewDispatcher(ws.NewRegistry(l), l), l)

	lat, lon := 40.7589, -73.9851
	_, err := svc.RecordLocation(context.Background(), 1, models.LocationInput{Latitude: &lat, Longitude: &lon})
	require.NoError(t, err)

	h := NewFeed(store.Buses(), l)
	h.now = func() time.Time { return time.Unix(1_700_000_000, 0) }

	rec := httptest.NewRecorder()
	h.VehiclePositions(rec, httptest.NewRequest(http.MethodGet, "/api/gtfs-rt/vehicle-positions", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/x-protobuf", rec.Header().Get("Content-Type"))

	var feed gtfs.FeedMessage
	require.NoError(t, proto.Unmarshal(rec.Body.Bytes(), &feed))
	require.Len(t, feed.GetEntity(), 1)
	assert.Equal(t, "B101A", feed.GetEntity()[0].GetVehicle().GetVehicle().GetLabel())
	assert.Equal(t, uint64(1_700_000_000), feed.GetHeader().GetTimestamp())

	rec = httptest.NewRecorder()
	h.VehiclePositions(rec, httptest.NewRequest(http.MethodGet, "/api/gtfs-rt/vehicle-positions?format=json", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
	assert.Contains(t, rec.Body.String(), "B101A")
}

func TestHealthCheck(t *testing.T) {
	h := NewHealth("bus-tracker", ws.NewRegistry(testLogger()), testLogger())

	rec := httptest.NewRecorder()
	h.HealthCheck(rec, httptest.NewRequest(http.MethodGet, "/health", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"available"`)
	assert.Contains(t, rec.Body.String(), `"subscribers": 0`)
}
