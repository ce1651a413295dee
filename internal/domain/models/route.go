package models

import "time"

const DefaultRouteColor = "#0066cc"

type Route struct {
	ID          int64       `json:"id"`
	RouteNumber string      `json:"route_number"`
	Name        string      `json:"name"`
	Description string      `json:"description"`
	Color       string      `json:"color"`
	IsActive    bool        `json:"is_active"`
	Stops       []RouteStop `json:"stops"`
	BusesCount  int         `json:"buses_count"`
	CreatedAt   time.Time   `json:"created_at"`
	UpdatedAt   time.Time   `json:"updated_at"`
}

type RouteStop struct {
	ID            int64   `json:"id"`
	RouteID       int64   `json:"-"`
	StopName      string  `json:"stop_name"`
	Latitude      float64 `json:"latitude"`
	Longitude     float64 `json:"longitude"`
	StopOrder     int     `json:"stop_order"`
	EstimatedTime *string `json:"estimated_time"`
	IsActive      bool    `json:"is_active"`
}
