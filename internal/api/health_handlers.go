package api

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/danielgtaylor/huma/v2"

	"github.com/glossyapp/glossy-server/internal/store"
)

func (s *Server) registerHealthRoutes() {
	huma.Register(s.api, huma.Operation{
		OperationID: "healthCheck",
		Method:      http.MethodGet,
		Path:        "/health",
		Summary:     "Health check",
		Description: "Returns server health status with component checks",
		Tags:        []string{"Health"},
	}, s.handleHealthCheck)
}

// ComponentHealth describes the health of a single component.
type ComponentHealth struct {
	Status  string `json:"status" doc:"Component status: healthy, degraded, or unhealthy"`
	Latency string `json:"latency,omitempty" doc:"Response time for this component"`
	Message string `json:"message,omitempty" doc:"Additional status information"`
}

// HealthResponse contains health check data in API responses.
type HealthResponse struct {
	Status     string                     `json:"status" doc:"Overall status: healthy, degraded, or unhealthy"`
	Components map[string]ComponentHealth `json:"components" doc:"Individual component statuses"`
}

// HealthOutput wraps the health response for Huma.
type HealthOutput struct {
	Body HealthResponse
}

func (s *Server) handleHealthCheck(ctx context.Context, _ *struct{}) (*HealthOutput, error) {
	components := make(map[string]ComponentHealth)
	overall := "healthy"

	// Document store (Badger)
	dbHealth := s.checkDocumentStore(ctx)
	components["store"] = dbHealth
	if dbHealth.Status != "healthy" {
		overall = "unhealthy"
	}

	// Interaction history (SQLite)
	historyHealth := s.checkHistory(ctx)
	components["history"] = historyHealth
	if historyHealth.Status == "unhealthy" {
		overall = "unhealthy"
	} else if historyHealth.Status == "degraded" && overall == "healthy" {
		overall = "degraded"
	}

	// Generation backend: configured or not. No live probe here, a health
	// check must not consume the backend's rate budget.
	aiHealth := s.checkAIBackend()
	components["ai"] = aiHealth
	if aiHealth.Status == "degraded" && overall == "healthy" {
		overall = "degraded"
	}

	return &HealthOutput{
		Body: HealthResponse{
			Status:     overall,
			Components: components,
		},
	}, nil
}

// checkDocumentStore verifies the Badger store answers reads.
func (s *Server) checkDocumentStore(ctx context.Context) ComponentHealth {
	if s.store == nil {
		return ComponentHealth{
			Status:  "degraded",
			Message: "store not configured",
		}
	}

	start := time.Now()

	// A read of a key that cannot exist. NotFound means the store answered.
	_, err := s.store.Users.Get(ctx, "health-probe")
	latency := time.Since(start)

	if err != nil && !errors.Is(err, store.ErrNotFound) {
		return ComponentHealth{
			Status:  "unhealthy",
			Latency: latency.String(),
			Message: "store read failed",
		}
	}

	return ComponentHealth{
		Status:  "healthy",
		Latency: latency.String(),
	}
}

// checkHistory verifies the SQLite history database is reachable.
func (s *Server) checkHistory(ctx context.Context) ComponentHealth {
	if s.history == nil {
		return ComponentHealth{
			Status:  "degraded",
			Message: "history database not configured",
		}
	}

	start := time.Now()
	err := s.history.Ping(ctx)
	latency := time.Since(start)

	if err != nil {
		return ComponentHealth{
			Status:  "unhealthy",
			Latency: latency.String(),
			Message: "history database unreachable",
		}
	}

	return ComponentHealth{
		Status:  "healthy",
		Latency: latency.String(),
	}
}

// checkAIBackend reports whether a generation backend is configured.
func (s *Server) checkAIBackend() ComponentHealth {
	if s.aiEndpoint == "" {
		return ComponentHealth{
			Status:  "degraded",
			Message: "no generation backend configured",
		}
	}

	return ComponentHealth{
		Status:  "healthy",
		Message: "backend configured",
	}
}
