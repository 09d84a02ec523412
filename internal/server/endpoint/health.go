// Package endpoint provides the operational HTTP handlers: health, liveness,
// readiness, and service info. Liveness and readiness are deliberately
// separate: liveness only confirms the process serves HTTP, while readiness
// consults component health to decide whether traffic should flow.
package endpoint

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/skillsenselab/data2csv/internal/component"
)

// HealthChecker returns health status for registered components.
type HealthChecker func(ctx context.Context) []component.Health

// Health returns a handler that reports service health including component
// statuses and the active session count.
func Health(serviceName string, checker HealthChecker, sessions SessionCounter) gin.HandlerFunc {
	return func(c *gin.Context) {
		status := "healthy"
		var components []component.Health

		if checker != nil {
			components = checker(c.Request.Context())
			for _, ch := range components {
				if ch.Status == component.StatusUnhealthy {
					status = "unhealthy"
					break
				}
				if ch.Status == component.StatusDegraded && status != "unhealthy" {
					status = "degraded"
				}
			}
		}

		httpStatus := http.StatusOK
		if status == "unhealthy" {
			httpStatus = http.StatusServiceUnavailable
		}

		body := gin.H{
			"status":     status,
			"service":    serviceName,
			"timestamp":  time.Now().UTC().Format(time.RFC3339),
			"components": components,
		}
		if sessions != nil {
			body["sessions"] = sessions()
		}
		c.JSON(httpStatus, body)
	}
}
