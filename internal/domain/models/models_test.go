package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/Temutjin2k/bus-tracker/pkg/validator"
)

func f(v float64) *float64 { return &v }

func TestLocationInputValidate(t *testing.T) {
	tests := []struct {
		name   string
		in     LocationInput
		fields []string
	}{
		{"valid minimal", LocationInput{Latitude: f(40.7589), Longitude: f(-73.9851)}, nil},
		{"valid full", LocationInput{Latitude: f(-90), Longitude: f(180), Speed: f(0), Heading: f(359.9), Accuracy: f(5)}, nil},
		{"missing latitude", LocationInput{Longitude: f(1)}, []string{"latitude"}},
		{"out of range", LocationInput{Latitude: f(91), Longitude: f(-181)}, []string{"latitude", "longitude"}},
		{"heading 360", LocationInput{Latitude: f(1), Longitude: f(1), Heading: f(360)}, []string{"heading"}},
		{"negatives", LocationInput{Latitude: f(1), Longitude: f(1), Speed: f(-1), Accuracy: f(-0.5)}, []string{"speed", "accuracy"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v := validator.New()
			tt.in.Validate(v)
			assert.Len(t, v.Errors, len(tt.fields))
			for _, field := range tt.fields {
				assert.Contains(t, v.Errors, field)
			}
		})
	}
}

func TestLocationInputReport(t *testing.T) {
	now := time.Date(2025, 1, 2, 3, 4, 5, 0, time.UTC)
	in := LocationInput{Latitude: f(1), Longitude: f(2), Heading: f(90)}

	r := in.Report(7, now)
	assert.Equal(t, int64(7), r.BusID)
	assert.Equal(t, 0.0, r.Speed)
	assert.Equal(t, now, r.Timestamp)
	assert.Nil(t, r.Accuracy)

	ts := now.Add(-time.Minute)
	in.Timestamp = &ts
	assert.Equal(t, ts, in.Report(7, now).Timestamp)
}

func TestBusActiveRouteID(t *testing.T) {
	routeID := int64(3)

	var nilBus *Bus
	_, ok := nilBus.ActiveRouteID()
	assert.False(t, ok)

	_, ok = (&Bus{}).ActiveRouteID()
	assert.False(t, ok)

	id, ok := (&Bus{RouteID: &routeID, Route: &Route{ID: 3, IsActive: true}}).ActiveRouteID()
	assert.True(t, ok)
	assert.Equal(t, routeID, id)

	_, ok = (&Bus{RouteID: &routeID, Route: &Route{ID: 3, IsActive: false}}).ActiveRouteID()
	assert.False(t, ok)
}
