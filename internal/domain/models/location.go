package models

import (
	"time"

	"github.com/Temutjin2k/bus-tracker/pkg/validator"
)

// PositionReport is one immutable location sample of a bus.
type PositionReport struct {
	ID        int64     `json:"id"`
	BusID     int64     `json:"bus_id"`
	Latitude  float64   `json:"latitude"`
	Longitude float64   `json:"longitude"`
	Speed     float64   `json:"speed"`
	Heading   *float64  `json:"heading"`
	Accuracy  *float64  `json:"accuracy"`
	Timestamp time.Time `json:"timestamp"`
	CreatedAt time.Time `json:"created_at"`
}

// LocationInput is an incoming report before validation. Pointers tell absent from zero.
type LocationInput struct {
	Latitude  *float64   `json:"latitude"`
	Longitude *float64   `json:"longitude"`
	Speed     *float64   `json:"speed"`
	Heading   *float64   `json:"heading"`
	Accuracy  *float64   `json:"accuracy"`
	Timestamp *time.Time `json:"timestamp"`
}

func (in *LocationInput) Validate(v *validator.Validator) {
	v.Check(in.Latitude != nil, "latitude", "must be provided")
	if in.Latitude != nil {
		v.Check(*in.Latitude >= -90 && *in.Latitude <= 90, "latitude", "must be between -90 and 90")
	}

	v.Check(in.Longitude != nil, "longitude", "must be provided")
	if in.Longitude != nil {
		v.Check(*in.Longitude >= -180 && *in.Longitude <= 180, "longitude", "must be between -180 and 180")
	}

	if in.Speed != nil {
		v.Check(*in.Speed >= 0, "speed", "must be greater than or equal to 0")
	}
	if in.Heading != nil {
		v.Check(*in.Heading >= 0 && *in.Heading < 360, "heading", "must be in range [0, 360)")
	}
	if in.Accuracy != nil {
		v.Check(*in.Accuracy >= 0, "accuracy", "must be greater than or equal to 0")
	}
}

// Report builds the record to persist. Call only after Validate passed.
func (in *LocationInput) Report(busID int64, now time.Time) PositionReport {
	r := PositionReport{
		BusID:     busID,
		Latitude:  *in.Latitude,
		Longitude: *in.Longitude,
		Heading:   in.Heading,
		Accuracy:  in.Accuracy,
		Timestamp: now,
	}
	if in.Speed != nil {
		r.Speed = *in.Speed
	}
	if in.Timestamp != nil && !in.Timestamp.IsZero() {
		r.Timestamp = *in.Timestamp
	}
	return r
}

// LocationFilter narrows location history queries.
type LocationFilter struct {
	BusID *int64
	Since time.Time
	Limit int
}

// BusInfo identifies the bus of a LatestLocation.
type BusInfo struct {
	ID          int64   `json:"id"`
	BusNumber   string  `json:"bus_number"`
	RouteNumber *string `json:"route_number"`
	RouteColor  *string `json:"route_color"`
}

// LatestLocation is the current report of one active bus.
type LatestLocation struct {
	PositionReport
	BusInfo BusInfo `json:"bus_info"`
}
