package handler

import (
	"net/http"
	"time"

	"github.com/Temutjin2k/bus-tracker/internal/adapter/gtfsrt"
	"github.com/Temutjin2k/bus-tracker/pkg/logger"
	wrap "github.com/Temutjin2k/bus-tracker/pkg/logger/wrapper"
)

type Feed struct {
	source TrackingSource
	now    func() time.Time
	l      logger.Logger
}

func NewFeed(source TrackingSource, l logger.Logger) *Feed {
	return &Feed{
		source: source,
		now:    time.Now,
		l:      l,
	}
}

// VehiclePositions godoc
// @Summary      GTFS-Realtime vehicle positions
// @Description  Full-dataset FeedMessage with one VehiclePosition per bus that has a current location. format=json returns protojson.
// @Tags         Feeds
// @Produce      application/x-protobuf
// @Produce      json
// @Param        format  query  string  false  "json for a protojson body"
// @Success      200
// @Router       /api/gtfs-rt/vehicle-positions [get]
func (h *Feed) VehiclePositions(w http.ResponseWriter, r *http.Request) {
	ctx := wrap.WithAction(r.Context(), "gtfs_rt_vehicle_positions")

	buses, err := h.source.Tracking(ctx, nil)
	if err != nil {
		h.l.Error(wrap.ErrorCtx(ctx, err), "failed to read tracking state", err)
		serviceErrorResponse(w, err)
		return
	}

	body, contentType, err := gtfsrt.Encode(gtfsrt.Build(buses, h.now()), r.URL.Query().Get("format") == "json")
	if err != nil {
		h.l.Error(ctx, "failed to encode feed", err)
		internalErrorResponse(w)
		return
	}

	w.Header().Set("Content-Type", contentType)
	w.WriteHeader(http.StatusOK)
	w.Write(body)
}
