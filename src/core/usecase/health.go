package usecase

import (
	"context"
	"log/slog"

	"thethird/src/core/ports"
)

// HealthService checks the dependencies the API needs to serve requests.
type HealthService struct {
	repo  ports.Repository
	cache ports.ResultsCache
	log   *slog.Logger
}

// NewHealthService creates a new HealthService. cache may be nil.
func NewHealthService(repo ports.Repository, cache ports.ResultsCache, log *slog.Logger) *HealthService {
	return &HealthService{repo: repo, cache: cache, log: log.With("component", "health")}
}

// HealthStatus represents the health of the application.
type HealthStatus struct {
	Status     string                     `json:"status"`
	Components map[string]ComponentHealth `json:"components,omitempty"`
}

// ComponentHealth represents the health of a single component.
type ComponentHealth struct {
	Status  string `json:"status"`
	Message string `json:"message,omitempty"`
}

// Check pings storage and the results cache.
// A failing cache only degrades the service; results are recomputed without it.
func (s *HealthService) Check(ctx context.Context) *HealthStatus {
	status := &HealthStatus{
		Status:     "ok",
		Components: make(map[string]ComponentHealth),
	}

	if err := s.repo.Health(ctx); err != nil {
		s.log.Error("storage health check failed", "error", err)
		status.Status = "unhealthy"
		status.Components["storage"] = ComponentHealth{Status: "unhealthy", Message: err.Error()}
	} else {
		status.Components["storage"] = ComponentHealth{Status: "healthy"}
	}

	if s.cache != nil {
		if err := s.cache.Health(ctx); err != nil {
			s.log.Warn("cache health check failed", "error", err)
			if status.Status == "ok" {
				status.Status = "degraded"
			}
			status.Components["cache"] = ComponentHealth{Status: "unhealthy", Message: err.Error()}
		} else {
			status.Components["cache"] = ComponentHealth{Status: "healthy"}
		}
	}

	return status
}
