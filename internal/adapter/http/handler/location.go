package handler

import (
	"net/http"

	"github.com/Temutjin2k/bus-tracker/pkg/logger"
	wrap "github.com/Temutjin2k/bus-tracker/pkg/logger/wrapper"
)

type Location struct {
	service LocationService
	l       logger.Logger
}

func NewLocation(service LocationService, l logger.Logger) *Location {
	return &Location{
		service: service,
		l:       l,
	}
}

// ListLocations godoc
// @Summary      List location reports
// @Description  Reports within the last hours, newest first, optionally of one bus
// @Tags         Locations
// @Produce      json
// @Param        bus    query     int  false  "Bus ID"
// @Param        hours  query     int  false  "History window in hours (default 24)"
// @Success      200    {array}   models.PositionReport
// @Router       /api/locations/ [get]
func (h *Location) ListLocations(w http.ResponseWriter, r *http.Request) {
	ctx := wrap.WithAction(r.Context(), "list_locations")

	reports, err := h.service.ListLocations(ctx, queryID(r, "bus"), queryHours(r))
	if err != nil {
		h.l.Error(wrap.ErrorCtx(ctx, err), "failed to list locations", err)
		serviceErrorResponse(w, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, reports, nil); err != nil {
		h.l.Error(ctx, "failed to write response", err)
	}
}

// LatestLocations godoc
// @Summary      Latest location per bus
// @Description  Current report of every active bus that has one, with bus info
// @Tags         Locations
// @Produce      json
// @Success      200  {array}  models.LatestLocation
// @Router       /api/locations/latest/ [get]
func (h *Location) LatestLocations(w http.ResponseWriter, r *http.Request) {
	ctx := wrap.WithAction(r.Context(), "latest_locations")

	latest, err := h.service.LatestLocations(ctx)
	if err != nil {
		h.l.Error(wrap.ErrorCtx(ctx, err), "failed to get latest locations", err)
		serviceErrorResponse(w, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, latest, nil); err != nil {
		h.l.Error(ctx, "failed to write response", err)
	}
}
