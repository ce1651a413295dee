package types

import "strconv"

type ServiceMode string

// Tracking Service - ingests bus positions and streams them to websocket observers
// Migrate - applies database migrations and exits
// Seed - loads the sample fleet and exits
const (
	TrackingService ServiceMode = "tracking-service"
	MigrateMode     ServiceMode = "migrate"
	SeedMode        ServiceMode = "seed"
)

func (m ServiceMode) Valid() bool {
	switch m {
	case TrackingService, MigrateMode, SeedMode:
		return true
	}
	return false
}

// Topic names a fan-out channel: the whole fleet or a single route.
type Topic string

const GlobalTopic Topic = "bus_tracking"

func RouteTopic(routeID int64) Topic {
	return Topic("route_" + strconv.FormatInt(routeID, 10))
}

func (t Topic) String() string {
	return string(t)
}

// Kind is used as a metric label.
func (t Topic) Kind() string {
	if t == GlobalTopic {
		return "global"
	}
	return "route"
}

// MessageType is the "type" field of websocket frames.
type MessageType string

const (
	MessageInitialData      MessageType = "initial_data"
	MessageBusesUpdate      MessageType = "buses_update"
	MessageRouteBusesUpdate MessageType = "route_buses_update"
	MessageLocationUpdate   MessageType = "location_update"
)

// RequestKind enumerates client requests a session understands.
type RequestKind int

const (
	RequestUnknown RequestKind = iota
	RequestGetBuses
	RequestGetRouteBuses
)

func ParseRequestKind(s string) RequestKind {
	switch s {
	case "get_buses":
		return RequestGetBuses
	case "get_route_buses":
		return RequestGetRouteBuses
	default:
		return RequestUnknown
	}
}

func (k RequestKind) String() string {
	switch k {
	case RequestGetBuses:
		return "get_buses"
	case RequestGetRouteBuses:
		return "get_route_buses"
	default:
		return "unknown"
	}
}
