package wshandler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/gorilla/websocket"

	"github.com/Temutjin2k/bus-tracker/internal/domain/models"
	"github.com/Temutjin2k/bus-tracker/internal/domain/types"
	"github.com/Temutjin2k/bus-tracker/pkg/logger"
	wrap "github.com/Temutjin2k/bus-tracker/pkg/logger/wrapper"
	"github.com/Temutjin2k/bus-tracker/pkg/metrics"
	ws "github.com/Temutjin2k/bus-tracker/pkg/wsHub"
)

const (
	endpointGlobal = "global"
	endpointRoute  = "route"
)

type SnapshotBuilder interface {
	GlobalMessage(ctx context.Context, typ types.MessageType) (models.SnapshotMessage, error)
	RouteMessage(ctx context.Context, routeID int64, typ types.MessageType) (models.SnapshotMessage, error)
	RouteExists(ctx context.Context, routeID int64) error
}

type TopicRegistry interface {
	Join(topic types.Topic, sub ws.Subscriber) bool
	LeaveAll(sub ws.Subscriber) []types.Topic
}

// TrackingWS serves the fleet-wide and route-scoped live location feeds.
type TrackingWS struct {
	registry  TopicRegistry
	snapshots SnapshotBuilder
	upgrader  websocket.Upgrader
	cfg       ws.Config

	l logger.Logger
}

func NewTrackingWS(registry TopicRegistry, snapshots SnapshotBuilder, cfg ws.Config, l logger.Logger) *TrackingWS {
	return &TrackingWS{
		registry:  registry,
		snapshots: snapshots,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     func(*http.Request) bool { return true },
		},
		cfg: cfg,
		l:   l,
	}
}

// session describes what one kind of feed subscribes to and how it answers a refresh.
type session struct {
	endpoint string
	topic    types.Topic
	refresh  types.RequestKind
	reply    types.MessageType
	snapshot func(ctx context.Context, typ types.MessageType) (models.SnapshotMessage, error)
}

// ServeGlobal godoc
// @Summary      Fleet live feed
// @Description  WebSocket. Sends initial_data on connect, location_update on every stored report, buses_update on {"type":"get_buses"}.
// @Tags         WebSocket
// @Router       /ws/buses/ [get]
func (h *TrackingWS) ServeGlobal(w http.ResponseWriter, r *http.Request) {
	h.serve(w, r, session{
		endpoint: endpointGlobal,
		topic:    types.GlobalTopic,
		refresh:  types.RequestGetBuses,
		reply:    types.MessageBusesUpdate,
		snapshot: h.snapshots.GlobalMessage,
	})
}

// ServeRoute godoc
// @Summary      Route live feed
// @Description  WebSocket. Same as the fleet feed restricted to buses on the route; refresh with {"type":"get_route_buses"}.
// @Tags         WebSocket
// @Param        route_id  path  int  true  "Route ID"
// @Failure      404  {object}  map[string]any
// @Router       /ws/route/{route_id}/ [get]
func (h *TrackingWS) ServeRoute(w http.ResponseWriter, r *http.Request) {
	ctx := wrap.WithAction(r.Context(), types.ActionWSConnected)

	routeID, err := strconv.ParseInt(r.PathValue("route_id"), 10, 64)
	if err != nil || routeID <= 0 {
		errorResponse(w, http.StatusNotFound, notFoundMessage)
		return
	}

	if err := h.snapshots.RouteExists(ctx, routeID); err != nil {
		if errors.Is(err, types.ErrNotFound) {
			errorResponse(w, http.StatusNotFound, notFoundMessage)
			return
		}
		h.l.Error(wrap.ErrorCtx(ctx, err), "failed to look up route", err)
		errorResponse(w, http.StatusInternalServerError, internalErrorMessage)
		return
	}

	h.serve(w, r.WithContext(wrap.WithRouteID(r.Context(), strconv.FormatInt(routeID, 10))), session{
		endpoint: endpointRoute,
		topic:    types.RouteTopic(routeID),
		refresh:  types.RequestGetRouteBuses,
		reply:    types.MessageRouteBusesUpdate,
		snapshot: func(ctx context.Context, typ types.MessageType) (models.SnapshotMessage, error) {
			return h.snapshots.RouteMessage(ctx, routeID, typ)
		},
	})
}

// serve runs one subscriber session until the peer leaves.
// Membership is taken before the initial snapshot is read, so no stored report falls between them,
// and pushes are held until the snapshot is queued, so none overtakes it.
func (h *TrackingWS) serve(w http.ResponseWriter, r *http.Request, s session) {
	raw, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		// Upgrade already wrote the HTTP error.
		h.l.Warn(wrap.WithAction(r.Context(), types.ActionWSConnected), "websocket upgrade failed", "error", err.Error())
		return
	}

	conn := ws.NewConn(raw, h.cfg)
	ctx := wrap.WithConnID(wrap.WithAction(r.Context(), types.ActionWSConnected), conn.ID().String())

	gauge := metrics.WebSocketConnectionsGauge.WithLabelValues(s.endpoint)
	gauge.Inc()
	conn.OnClose(func() {
		left := h.registry.LeaveAll(conn)
		gauge.Dec()
		h.l.Info(wrap.WithAction(ctx, types.ActionWSDisconnected), "websocket disconnected", "topics", len(left))
	})

	// updates pushed before initial_data is queued are delivered right after it
	conn.Hold()
	h.registry.Join(s.topic, conn)
	if conn.State() >= ws.StateClosing {
		// closed by a registry shutdown racing the join
		h.registry.LeaveAll(conn)
		return
	}

	initial, err := s.snapshot(ctx, types.MessageInitialData)
	if err != nil {
		h.l.Error(wrap.ErrorCtx(ctx, err), "failed to build initial snapshot", err)
		conn.Close()
		return
	}
	if err := conn.ReleaseJSON(initial); err != nil {
		h.l.Warn(ctx, "failed to send initial snapshot", "error", err.Error())
		conn.Close()
		return
	}

	if !conn.Activate() {
		return
	}
	h.l.Info(ctx, "websocket connected", "topic", s.topic.String())

	if err := conn.Listen(ctx, func(ctx context.Context, msg []byte) {
		h.handleRequest(ctx, conn, s, msg)
	}); err != nil {
		h.l.Debug(wrap.WithAction(ctx, types.ActionWSDisconnected), "websocket read ended", "error", err.Error())
	}
}

// handleRequest answers the session's refresh request. Anything else is ignored.
func (h *TrackingWS) handleRequest(ctx context.Context, conn *ws.Conn, s session, msg []byte) {
	ctx = wrap.WithAction(ctx, types.ActionWSRequest)

	var req models.ClientRequest
	if err := json.Unmarshal(msg, &req); err != nil {
		h.l.Debug(wrap.WithAction(ctx, types.ActionWSIgnored), "malformed client message ignored")
		return
	}

	kind := types.ParseRequestKind(req.Type)
	if kind != s.refresh {
		h.l.Debug(wrap.WithAction(ctx, types.ActionWSIgnored), "client message ignored", "type", req.Type)
		return
	}

	conn.Hold()
	reply, err := s.snapshot(ctx, s.reply)
	if err != nil {
		h.l.Error(wrap.ErrorCtx(ctx, err), "failed to build snapshot", err)
		_ = conn.Release(nil)
		return
	}
	if err := conn.ReleaseJSON(reply); err != nil {
		h.l.Debug(ctx, "failed to send snapshot", "error", err.Error())
	}
}
