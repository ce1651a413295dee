package handler

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/Temutjin2k/bus-tracker/internal/domain/models"
	"github.com/Temutjin2k/bus-tracker/internal/domain/types"
	"github.com/Temutjin2k/bus-tracker/pkg/logger"
	wrap "github.com/Temutjin2k/bus-tracker/pkg/logger/wrapper"
)

type Bus struct {
	recorder LocationRecorder
	service  BusService
	l        logger.Logger
}

func NewBus(recorder LocationRecorder, service BusService, l logger.Logger) *Bus {
	return &Bus{
		recorder: recorder,
		service:  service,
		l:        l,
	}
}

// UpdateLocation godoc
// @Summary      Report bus location
// @Description  Stores a position report and pushes it to websocket subscribers of the fleet and of the bus route
// @Tags         Buses
// @Accept       json
// @Produce      json
// @Param        bus_id  path      int                   true  "Bus ID"
// @Param        input   body      models.LocationInput  true  "Position report"
// @Success      201     {object}  models.PositionReport
// @Failure      400     {object}  map[string]any
// @Failure      404     {object}  map[string]any
// @Failure      500     {object}  map[string]any
// @Router       /api/buses/{bus_id}/update_location/ [post]
func (h *Bus) UpdateLocation(w http.ResponseWriter, r *http.Request) {
	ctx := wrap.WithAction(r.Context(), types.ActionLocationReceived)

	busID, ok := pathID(r, "bus_id")
	if !ok {
		notFoundResponse(w)
		return
	}
	ctx = wrap.WithBusID(ctx, strconv.FormatInt(busID, 10))

	var in models.LocationInput
	if err := readJSON(w, r, &in); err != nil {
		h.l.Warn(ctx, "failed to read request JSON data", "error", err.Error())
		if errors.Is(err, types.ErrValidation) {
			serviceErrorResponse(w, err)
			return
		}
		badRequestResponse(w, err.Error())
		return
	}

	report, err := h.recorder.RecordLocation(ctx, busID, in)
	if err != nil {
		logServiceError(ctx, h.l, err, "failed to record location")
		serviceErrorResponse(w, err)
		return
	}

	if err := writeJSON(w, http.StatusCreated, report, nil); err != nil {
		h.l.Error(ctx, "failed to write response", err)
		internalErrorResponse(w)
	}
}

// ListBuses godoc
// @Summary      List buses
// @Description  Active buses with route, current location; optionally filtered by route
// @Tags         Buses
// @Produce      json
// @Param        route  query     int  false  "Route ID"
// @Success      200    {array}   models.Bus
// @Router       /api/buses/ [get]
func (h *Bus) ListBuses(w http.ResponseWriter, r *http.Request) {
	ctx := wrap.WithAction(r.Context(), "list_buses")

	buses, err := h.service.ListBuses(ctx, queryID(r, "route"))
	if err != nil {
		h.l.Error(wrap.ErrorCtx(ctx, err), "failed to list buses", err)
		serviceErrorResponse(w, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, buses, nil); err != nil {
		h.l.Error(ctx, "failed to write response", err)
	}
}

// GetBus godoc
// @Summary      Get bus
// @Description  An active bus with its route, current location and the ten latest reports
// @Tags         Buses
// @Produce      json
// @Param        bus_id  path      int  true  "Bus ID"
// @Success      200     {object}  models.Bus
// @Failure      404     {object}  map[string]any
// @Router       /api/buses/{bus_id}/ [get]
func (h *Bus) GetBus(w http.ResponseWriter, r *http.Request) {
	ctx := wrap.WithAction(r.Context(), "get_bus")

	busID, ok := pathID(r, "bus_id")
	if !ok {
		notFoundResponse(w)
		return
	}

	bus, err := h.service.GetBus(ctx, busID)
	if err != nil {
		logServiceError(ctx, h.l, err, "failed to get bus")
		serviceErrorResponse(w, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, bus, nil); err != nil {
		h.l.Error(ctx, "failed to write response", err)
	}
}

// BusLocations godoc
// @Summary      Bus location history
// @Description  Reports of one bus within the last hours, newest first
// @Tags         Buses
// @Produce      json
// @Param        bus_id  path      int  true   "Bus ID"
// @Param        hours   query     int  false  "History window in hours (default 24)"
// @Success      200     {array}   models.PositionReport
// @Failure      404     {object}  map[string]any
// @Router       /api/buses/{bus_id}/locations/ [get]
func (h *Bus) BusLocations(w http.ResponseWriter, r *http.Request) {
	ctx := wrap.WithAction(r.Context(), "bus_locations")

	busID, ok := pathID(r, "bus_id")
	if !ok {
		notFoundResponse(w)
		return
	}

	reports, err := h.service.BusLocations(ctx, busID, queryHours(r))
	if err != nil {
		logServiceError(ctx, h.l, err, "failed to get bus locations")
		serviceErrorResponse(w, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, reports, nil); err != nil {
		h.l.Error(ctx, "failed to write response", err)
	}
}

// Tracking godoc
// @Summary      Fleet tracking state
// @Description  Compact state of active buses, the same rows websocket snapshots carry
// @Tags         Buses
// @Produce      json
// @Param        route  query     int  false  "Route ID"
// @Success      200    {array}   models.BusTracking
// @Router       /api/buses/tracking/ [get]
func (h *Bus) Tracking(w http.ResponseWriter, r *http.Request) {
	ctx := wrap.WithAction(r.Context(), "bus_tracking")

	buses, err := h.service.Tracking(ctx, queryID(r, "route"))
	if err != nil {
		h.l.Error(wrap.ErrorCtx(ctx, err), "failed to get tracking state", err)
		serviceErrorResponse(w, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, buses, nil); err != nil {
		h.l.Error(ctx, "failed to write response", err)
	}
}
