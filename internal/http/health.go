package http

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

type HealthResponse struct {
	Status  string            `json:"status"`
	Time    string            `json:"time"`
	Version string            `json:"version,omitempty"`
	Checks  map[string]string `json:"checks"`
}

type HealthController struct {
	db               Pinger
	version          string
	generationReady  bool
	remoteConfigured bool
}

func NewHealthController(db Pinger, version string, generationReady, remoteConfigured bool) *HealthController {
	return &HealthController{
		db:               db,
		version:          version,
		generationReady:  generationReady,
		remoteConfigured: remoteConfigured,
	}
}

func (h *HealthController) Status(c *gin.Context) {
	checks := make(map[string]string)
	status := "healthy"

	if h.db != nil {
		if err := h.db.Ping(); err != nil {
			checks["database"] = "error: " + err.Error()
			status = "unhealthy"
		} else {
			checks["database"] = "ok"
		}
	} else {
		checks["database"] = "not configured"
	}

	// Informational only; the reader degrades to retryable failures without them.
	checks["generation"] = configuredLabel(h.generationReady)
	if h.remoteConfigured {
		checks["flashcard_backend"] = "remote"
	} else {
		checks["flashcard_backend"] = "local"
	}

	health := HealthResponse{
		Status:  status,
		Time:    time.Now().Format(time.RFC3339),
		Version: h.version,
		Checks:  checks,
	}

	statusCode := http.StatusOK
	if status != "healthy" {
		statusCode = http.StatusServiceUnavailable
	}

	c.IndentedJSON(statusCode, health)
}

func configuredLabel(ok bool) string {
	if ok {
		return "configured"
	}
	return "not configured"
}
