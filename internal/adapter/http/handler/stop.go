package handler

import (
	"net/http"

	"github.com/Temutjin2k/bus-tracker/pkg/logger"
	wrap "github.com/Temutjin2k/bus-tracker/pkg/logger/wrapper"
)

type Stop struct {
	service StopService
	l       logger.Logger
}

func NewStop(service StopService, l logger.Logger) *Stop {
	return &Stop{
		service: service,
		l:       l,
	}
}

// ListStops godoc
// @Summary      List stops
// @Description  Active stops ordered by route and stop order
// @Tags         Stops
// @Produce      json
// @Param        route  query     int  false  "Route ID"
// @Success      200    {array}   models.RouteStop
// @Router       /api/stops/ [get]
func (h *Stop) ListStops(w http.ResponseWriter, r *http.Request) {
	ctx := wrap.WithAction(r.Context(), "list_stops")

	stops, err := h.service.ListStops(ctx, queryID(r, "route"))
	if err != nil {
		h.l.Error(wrap.ErrorCtx(ctx, err), "failed to list stops", err)
		serviceErrorResponse(w, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, stops, nil); err != nil {
		h.l.Error(ctx, "failed to write response", err)
	}
}
