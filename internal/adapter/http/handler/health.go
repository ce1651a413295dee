package handler

import (
	"net/http"

	"github.com/Temutjin2k/bus-tracker/pkg/logger"
	wrap "github.com/Temutjin2k/bus-tracker/pkg/logger/wrapper"
	ws "github.com/Temutjin2k/bus-tracker/pkg/wsHub"
)

type RegistryStats interface {
	Stats() ws.Stats
}

type Health struct {
	serviceName string
	registry    RegistryStats
	log         logger.Logger
}

func NewHealth(serviceName string, registry RegistryStats, log logger.Logger) *Health {
	return &Health{
		serviceName: serviceName,
		registry:    registry,
		log:         log,
	}
}

// HealthCheck godoc
// @Summary      Health Check
// @Description  Returns the health status of the service and websocket registry counters
// @Tags         Health
// @Accept       json
// @Produce      json
// @Success      200  {object}  map[string]any
// @Router       /health [get]
func (a *Health) HealthCheck(w http.ResponseWriter, r *http.Request) {
	ctx := wrap.WithAction(r.Context(), "health_check")

	response := envelope{
		"status": "available",
		"system_info": map[string]string{
			"service-name": a.serviceName,
		},
	}
	if a.registry != nil {
		response["websocket"] = a.registry.Stats()
	}

	if err := writeJSON(w, http.StatusOK, response, nil); err != nil {
		a.log.Error(ctx, "healthcheck", err)
		return
	}
}
