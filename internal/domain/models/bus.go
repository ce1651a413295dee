package models

import "time"

const DefaultBusCapacity = 50

// RecentLocationsLimit caps Bus.RecentLocations in detail responses.
const RecentLocationsLimit = 10

type Bus struct {
	ID              int64            `json:"id"`
	BusNumber       string           `json:"bus_number"`
	LicensePlate    string           `json:"license_plate"`
	RouteID         *int64           `json:"route_id"`
	Route           *Route           `json:"route"`
	DriverName      string           `json:"driver_name"`
	Capacity        int              `json:"capacity"`
	IsActive        bool             `json:"is_active"`
	CurrentLocation *PositionReport  `json:"current_location"`
	RecentLocations []PositionReport `json:"recent_locations,omitempty"`
	CreatedAt       time.Time        `json:"created_at"`
	UpdatedAt       time.Time        `json:"updated_at"`
}

// ActiveRouteID returns the route the bus currently feeds, or false when it has no route
// or the route is inactive.
func (b *Bus) ActiveRouteID() (int64, bool) {
	if b == nil || b.RouteID == nil {
		return 0, false
	}
	if b.Route != nil && !b.Route.IsActive {
		return 0, false
	}
	return *b.RouteID, true
}

// BusTracking is the compact per-bus entry of websocket snapshots.
type BusTracking struct {
	ID              int64           `json:"id"`
	BusNumber       string          `json:"bus_number"`
	RouteNumber     *string         `json:"route_number"`
	RouteColor      *string         `json:"route_color"`
	CurrentLocation *PositionReport `json:"current_location"`
}

// BusFilter narrows bus listings. Zero value lists active buses of every route.
type BusFilter struct {
	RouteID         *int64
	IncludeInactive bool
}
