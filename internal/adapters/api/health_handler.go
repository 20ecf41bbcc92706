package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"weatherbot.app/internal/ports"
)

type HealthResponse struct {
	Status     string                        `json:"status"`
	Components map[string]ports.HealthStatus `json:"components"`
}

// getHealth handles GET /healthz. An unhealthy component turns the answer into 503;
// a degraded one is reported but still answers 200.
func (s *HTTPServerAdapter) getHealth(c *gin.Context) {
	components := s.healthChecker.CheckAll(c.Request.Context())

	response := HealthResponse{Status: "healthy", Components: components}
	statusCode := http.StatusOK
	for _, component := range components {
		if component.IsHealthy() {
			continue
		}
		if component.Status != "degraded" {
			response.Status = "unhealthy"
			statusCode = http.StatusServiceUnavailable
			break
		}
		response.Status = "degraded"
	}

	c.JSON(statusCode, response)
}
