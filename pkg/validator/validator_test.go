package validator

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCheckKeepsFirstMessage(t *testing.T) {
	v := New()
	v.Check(true, "lat", "ignored")
	assert.True(t, v.Valid())

	v.Check(false, "lat", "must be between -90 and 90")
	v.Check(false, "lat", "second")
	assert.False(t, v.Valid())
	assert.Equal(t, map[string]string{"lat": "must be between -90 and 90"}, v.Errors)
}

func TestStructUsesWireNames(t *testing.T) {
	type sample struct {
		Port  string `json:"port" validate:"required"`
		Level string `env:"LOG_LEVEL" validate:"oneof=DEBUG INFO"`
		Size  int    `validate:"min=1"`
	}

	v := New()
	v.Struct(sample{Level: "TRACE"})

	assert.Equal(t, "must be provided", v.Errors["port"])
	assert.Equal(t, "must be one of DEBUG INFO", v.Errors["LOG_LEVEL"])
	assert.Equal(t, "must be greater than or equal to 1", v.Errors["Size"])

	ok := New()
	ok.Struct(sample{Port: "80", Level: "INFO", Size: 2})
	assert.True(t, ok.Valid())
}

func TestPermittedValue(t *testing.T) {
	assert.True(t, PermittedValue("get_buses", "get_buses", "get_route_buses"))
	assert.False(t, PermittedValue(3, 1, 2))
}
