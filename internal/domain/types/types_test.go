package types

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTopics(t *testing.T) {
	assert.Equal(t, Topic("route_101"), RouteTopic(101))
	assert.Equal(t, "global", GlobalTopic.Kind())
	assert.Equal(t, "route", RouteTopic(1).Kind())
}

func TestParseRequestKind(t *testing.T) {
	assert.Equal(t, RequestGetBuses, ParseRequestKind("get_buses"))
	assert.Equal(t, RequestGetRouteBuses, ParseRequestKind("get_route_buses"))
	assert.Equal(t, RequestUnknown, ParseRequestKind("subscribe"))
	assert.Equal(t, RequestUnknown, ParseRequestKind(""))
}

func TestErrorCategories(t *testing.T) {
	assert.True(t, errors.Is(ErrBusNotFound, ErrNotFound))
	assert.True(t, errors.Is(fmt.Errorf("get: %w", ErrRouteNotFound), ErrNotFound))

	verr := NewValidationError(map[string]string{"longitude": "x", "latitude": "must be provided"})
	assert.ErrorIs(t, verr, ErrValidation)
	assert.Equal(t, "validation failed: latitude: must be provided, longitude: x", verr.Error())

	var target *ValidationError
	assert.True(t, errors.As(fmt.Errorf("ingest: %w", verr), &target))
	assert.Len(t, target.Fields, 2)
}

func TestServiceModeValid(t *testing.T) {
	assert.True(t, TrackingService.Valid())
	assert.False(t, ServiceMode("billing-service").Valid())
}
