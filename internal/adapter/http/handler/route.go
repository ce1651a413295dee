package handler

import (
	"net/http"

	"github.com/Temutjin2k/bus-tracker/pkg/logger"
	wrap "github.com/Temutjin2k/bus-tracker/pkg/logger/wrapper"
)

type Route struct {
	service RouteService
	l       logger.Logger
}

func NewRoute(service RouteService, l logger.Logger) *Route {
	return &Route{
		service: service,
		l:       l,
	}
}

// ListRoutes godoc
// @Summary      List routes
// @Description  Active routes with their stops and active bus count
// @Tags         Routes
// @Produce      json
// @Success      200  {array}  models.Route
// @Router       /api/routes/ [get]
func (h *Route) ListRoutes(w http.ResponseWriter, r *http.Request) {
	ctx := wrap.WithAction(r.Context(), "list_routes")

	routes, err := h.service.ListRoutes(ctx)
	if err != nil {
		h.l.Error(wrap.ErrorCtx(ctx, err), "failed to list routes", err)
		serviceErrorResponse(w, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, routes, nil); err != nil {
		h.l.Error(ctx, "failed to write response", err)
	}
}

// GetRoute godoc
// @Summary      Get route
// @Tags         Routes
// @Produce      json
// @Param        route_id  path      int  true  "Route ID"
// @Success      200       {object}  models.Route
// @Failure      404       {object}  map[string]any
// @Router       /api/routes/{route_id}/ [get]
func (h *Route) GetRoute(w http.ResponseWriter, r *http.Request) {
	ctx := wrap.WithAction(r.Context(), "get_route")

	routeID, ok := pathID(r, "route_id")
	if !ok {
		notFoundResponse(w)
		return
	}

	route, err := h.service.GetRoute(ctx, routeID)
	if err != nil {
		logServiceError(ctx, h.l, err, "failed to get route")
		serviceErrorResponse(w, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, route, nil); err != nil {
		h.l.Error(ctx, "failed to write response", err)
	}
}

// RouteBuses godoc
// @Summary      Buses of a route
// @Tags         Routes
// @Produce      json
// @Param        route_id  path      int  true  "Route ID"
// @Success      200       {array}   models.BusTracking
// @Failure      404       {object}  map[string]any
// @Router       /api/routes/{route_id}/buses/ [get]
func (h *Route) RouteBuses(w http.ResponseWriter, r *http.Request) {
	ctx := wrap.WithAction(r.Context(), "route_buses")

	routeID, ok := pathID(r, "route_id")
	if !ok {
		notFoundResponse(w)
		return
	}

	buses, err := h.service.RouteBuses(ctx, routeID)
	if err != nil {
		logServiceError(ctx, h.l, err, "failed to get route buses")
		serviceErrorResponse(w, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, buses, nil); err != nil {
		h.l.Error(ctx, "failed to write response", err)
	}
}

// RouteStops godoc
// @Summary      Stops of a route
// @Description  Active stops in stop order
// @Tags         Routes
// @Produce      json
// @Param        route_id  path      int  true  "Route ID"
// @Success      200       {array}   models.RouteStop
// @Failure      404       {object}  map[string]any
// @Router       /api/routes/{route_id}/stops/ [get]
func (h *Route) RouteStops(w http.ResponseWriter, r *http.Request) {
	ctx := wrap.WithAction(r.Context(), "route_stops")

	routeID, ok := pathID(r, "route_id")
	if !ok {
		notFoundResponse(w)
		return
	}

	stops, err := h.service.RouteStops(ctx, routeID)
	if err != nil {
		logServiceError(ctx, h.l, err, "failed to get route stops")
		serviceErrorResponse(w, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, stops, nil); err != nil {
		h.l.Error(ctx, "failed to write response", err)
	}
}
