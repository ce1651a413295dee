package server

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	httpSwagger "github.com/swaggo/http-swagger"

	_ "github.com/Temutjin2k/bus-tracker/docs"
)

const swaggerInstance = "tracker"

// setupRoutes - setups http routes
func (a *API) setupRoutes() {
	mux := a.mux
	h := a.routes

	// System Health
	mux.HandleFunc("GET /health", h.Health.HealthCheck)
	mux.Handle("GET /metrics", promhttp.Handler())
	mux.HandleFunc("/swagger/", httpSwagger.Handler(httpSwagger.InstanceName(swaggerInstance)))

	// Ingestion
	handle(mux, http.MethodPost, "/api/buses/{bus_id}/update_location", h.Bus.UpdateLocation)

	// Routes
	handle(mux, http.MethodGet, "/api/routes", h.Route.ListRoutes)
	handle(mux, http.MethodGet, "/api/routes/{route_id}", h.Route.GetRoute)
	handle(mux, http.MethodGet, "/api/routes/{route_id}/buses", h.Route.RouteBuses)
	handle(mux, http.MethodGet, "/api/routes/{route_id}/stops", h.Route.RouteStops)

	// Buses
	handle(mux, http.MethodGet, "/api/buses", h.Bus.ListBuses)
	handle(mux, http.MethodGet, "/api/buses/tracking", h.Bus.Tracking)
	handle(mux, http.MethodGet, "/api/buses/{bus_id}", h.Bus.GetBus)
	handle(mux, http.MethodGet, "/api/buses/{bus_id}/locations", h.Bus.BusLocations)

	// Locations and stops
	handle(mux, http.MethodGet, "/api/locations", h.Location.ListLocations)
	handle(mux, http.MethodGet, "/api/locations/latest", h.Location.LatestLocations)
	handle(mux, http.MethodGet, "/api/stops", h.Stop.ListStops)

	// Feeds
	handle(mux, http.MethodGet, "/api/gtfs-rt/vehicle-positions", h.Feed.VehiclePositions)

	// WebSocket
	handle(mux, http.MethodGet, "/ws/buses", h.Tracking.ServeGlobal)
	handle(mux, http.MethodGet, "/ws/route/{route_id}", h.Tracking.ServeRoute)
}

// handle registers path with and without the trailing slash.
func handle(mux *http.ServeMux, method, path string, fn http.HandlerFunc) {
	mux.HandleFunc(method+" "+path, fn)
	mux.HandleFunc(method+" "+path+"/{$}", fn)
}
