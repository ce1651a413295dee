package models

import (
	"time"

	"github.com/Temutjin2k/bus-tracker/internal/domain/types"
)

// LocationPayload is the location object pushed to observers.
type LocationPayload struct {
	Latitude  float64   `json:"latitude"`
	Longitude float64   `json:"longitude"`
	Speed     float64   `json:"speed"`
	Heading   *float64  `json:"heading"`
	Accuracy  *float64  `json:"accuracy"`
	Timestamp time.Time `json:"timestamp"`
}

func NewLocationPayload(r PositionReport) LocationPayload {
	return LocationPayload{
		Latitude:  r.Latitude,
		Longitude: r.Longitude,
		Speed:     r.Speed,
		Heading:   r.Heading,
		Accuracy:  r.Accuracy,
		Timestamp: r.Timestamp,
	}
}

// LocationUpdateMessage is pushed on every stored report.
type LocationUpdateMessage struct {
	Type     types.MessageType `json:"type"`
	BusID    int64             `json:"bus_id"`
	Location LocationPayload   `json:"location"`
}

// SnapshotMessage answers connect and refresh. RouteID is set for route sessions only.
type SnapshotMessage struct {
	Type    types.MessageType `json:"type"`
	RouteID *int64            `json:"route_id,omitempty"`
	Buses   []BusTracking     `json:"buses"`
}

// ClientRequest is an inbound websocket frame.
type ClientRequest struct {
	Type string `json:"type"`
}

// LocationEvent is forwarded to external brokers after fan-out.
type LocationEvent struct {
	BusID       int64           `json:"bus_id"`
	BusNumber   string          `json:"bus_number"`
	RouteID     *int64          `json:"route_id,omitempty"`
	RouteNumber string          `json:"route_number,omitempty"`
	ReportID    int64           `json:"report_id"`
	Location    LocationPayload `json:"location"`
	RecordedAt  time.Time       `json:"recorded_at"`
}

func NewLocationEvent(bus *Bus, r PositionReport) LocationEvent {
	ev := LocationEvent{
		BusID:      bus.ID,
		BusNumber:  bus.BusNumber,
		RouteID:    bus.RouteID,
		ReportID:   r.ID,
		Location:   NewLocationPayload(r),
		RecordedAt: r.CreatedAt,
	}
	if bus.Route != nil {
		ev.RouteNumber = bus.Route.RouteNumber
	}
	return ev
}
