package server

import (
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Temutjin2k/bus-tracker/config"
	"github.com/Temutjin2k/bus-tracker/internal/adapter/http/handler"
	"github.com/Temutjin2k/bus-tracker/internal/adapter/http/middleware"
	wshandler "github.com/Temutjin2k/bus-tracker/internal/adapter/http/ws"
	"github.com/Temutjin2k/bus-tracker/internal/service/tracking"
	"github.com/Temutjin2k/bus-tracker/internal/service/tracking/trackingtest"
	"github.com/Temutjin2k/bus-tracker/pkg/logger"
	ws "github.com/Temutjin2k/bus-tracker/pkg/wsHub"
)

func newTestAPI(t *testing.T) *API {
	t.Helper()

	l := logger.New(io.Discard, "test", logger.LevelError)
	store := trackingtest.Sample()
	registry := ws.NewRegistry(l)
	svc := tracking.NewService(store.Buses(), store, trackingtest.TxManager{}, tracking.NewDispatcher(registry, l), l)

	api, err := New(config.ServerConfig{Name: "bus-tracker-test", Host: "127.0.0.1", Port: "0"}, Handlers{
		Health:   handler.NewHealth("bus-tracker-test", registry, l),
		Bus:      handler.NewBus(svc, nil, l),
		Route:    handler.NewRoute(nil, l),
		Location: handler.NewLocation(nil, l),
		Stop:     handler.NewStop(nil, l),
		Feed:     handler.NewFeed(nil, l),
		Tracking: wshandler.NewTrackingWS(registry, tracking.NewSnapshotBuilder(store.Buses(), store.Routes()), ws.DefaultConfig(), l),
	}, registry, l)
	require.NoError(t, err)
	return api
}

func TestNew_RequiresHandlers(t *testing.T) {
	l := logger.New(io.Discard, "test", logger.LevelError)
	_, err := New(config.ServerConfig{Name: "x", Port: "0"}, Handlers{}, nil, l)
	assert.Error(t, err)
}

func TestRoutes(t *testing.T) {
	api := newTestAPI(t)
	h := api.Handler()

	body := `{"latitude": 40.7128, "longitude": -74.0060, "speed": 25.5}`

	tests := []struct {
		name   string
		method string
		path   string
		body   string
		status int
	}{
		{"health", http.MethodGet, "/health", "", http.StatusOK},
		{"update location", http.MethodPost, "/api/buses/1/update_location", body, http.StatusCreated},
		{"update location trailing slash", http.MethodPost, "/api/buses/2/update_location/", body, http.StatusCreated},
		{"update location unknown bus", http.MethodPost, "/api/buses/99/update_location/", body, http.StatusNotFound},
		{"update location wrong method", http.MethodGet, "/api/buses/1/update_location/", "", http.StatusMethodNotAllowed},
		{"non numeric bus id", http.MethodGet, "/api/buses/abc/", "", http.StatusNotFound},
		{"unknown path", http.MethodGet, "/api/nothing", "", http.StatusNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(tt.method, tt.path, strings.NewReader(tt.body))
			if tt.body != "" {
				req.Header.Set("Content-Type", "application/json")
			}
			rec := httptest.NewRecorder()

			h.ServeHTTP(rec, req)

			assert.Equal(t, tt.status, rec.Code)
			assert.NotEmpty(t, rec.Header().Get(middleware.RequestIDHeader))
		})
	}
}
