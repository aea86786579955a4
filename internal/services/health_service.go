package services

import (
	"context"
	"log/slog"
	"runtime"
	"time"

	"github.com/jatinsharma1322660/Bit-Coin-Prediction/pkg/contracts"
)

// SessionCounter reports live sessions
type SessionCounter interface {
	Len() int
}

// ClientCounter reports connected websocket clients
type ClientCounter interface {
	ClientCount() int
}

// HealthService provides health check functionality
type HealthService struct {
	version   string
	buildTime string
	sessions  SessionCounter
	clients   ClientCounter
	startTime time.Time
	logger    *slog.Logger
}

// HealthStatus represents the health status response
type HealthStatus struct {
	Status    string                 `json:"status"`
	Timestamp time.Time              `json:"timestamp"`
	Version   string                 `json:"version"`
	Runtime   map[string]interface{} `json:"runtime,omitempty"`
	Services  map[string]interface{} `json:"services,omitempty"`
}

// ServiceHealth represents individual service health
type ServiceHealth struct {
	Status  string `json:"status"`
	Message string `json:"message,omitempty"`
	Uptime  string `json:"uptime,omitempty"`
}

// NewHealthService creates a health service. sessions and clients may be nil
// until the app wires them.
func NewHealthService(version, buildTime string, sessions SessionCounter, clients ClientCounter, logger *slog.Logger) *HealthService {
	if logger == nil {
		logger = slog.Default()
	}
	logger.Info("HealthService initialized",
		slog.String("version", version),
		slog.String("build_time", buildTime))

	return &HealthService{
		version:   version,
		buildTime: buildTime,
		sessions:  sessions,
		clients:   clients,
		startTime: time.Now(),
		logger:    logger.With(slog.String("component", "health_service")),
	}
}

// HealthCheck returns overall health status
func (hs *HealthService) HealthCheck(ctx context.Context) HealthStatus {
	hs.logger.DebugContext(ctx, "HealthCheck: performing health check",
		slog.Duration("uptime", time.Since(hs.startTime)))

	return HealthStatus{
		Status:    "ok",
		Timestamp: time.Now(),
		Version:   hs.version,
	}
}

// ReadinessCheck reports whether session storage and the event hub are wired
func (hs *HealthService) ReadinessCheck(ctx context.Context) HealthStatus {
	status := HealthStatus{
		Status:    "ready",
		Timestamp: time.Now(),
		Version:   hs.version,
		Services: map[string]interface{}{
			"sessions":  hs.checkSessions(),
			"websocket": hs.checkWebSocket(),
		},
	}

	for _, service := range status.Services {
		if sh, ok := service.(ServiceHealth); ok && sh.Status != "ready" {
			status.Status = "not_ready"
			break
		}
	}

	hs.logger.DebugContext(ctx, "ReadinessCheck: completed", slog.String("status", status.Status))
	return status
}

// LivenessCheck returns liveness status
func (hs *HealthService) LivenessCheck(ctx context.Context) HealthStatus {
	return HealthStatus{
		Status:    "alive",
		Timestamp: time.Now(),
		Version:   hs.version,
		Runtime: map[string]interface{}{
			"uptime":     time.Since(hs.startTime).Seconds(),
			"go_version": runtime.Version(),
			"goroutines": runtime.NumGoroutine(),
		},
	}
}

// Version returns version information
func (hs *HealthService) Version() map[string]interface{} {
	result := map[string]interface{}{
		"version":      hs.version,
		"api_version":  contracts.APIVersion,
		"go_version":   runtime.Version(),
		"os":           runtime.GOOS,
		"arch":         runtime.GOARCH,
		"uptime":       time.Since(hs.startTime).Seconds(),
		"start_time":   hs.startTime.Format(time.RFC3339),
		"current_time": time.Now().Format(time.RFC3339),
	}
	if hs.buildTime != "" {
		result["build_time"] = hs.buildTime
	}
	if contracts.GitCommit != "" {
		result["git_commit"] = contracts.GitCommit
	}
	return result
}

func (hs *HealthService) checkSessions() ServiceHealth {
	if hs.sessions == nil {
		return ServiceHealth{Status: "not_ready", Message: "session store not initialized"}
	}
	return ServiceHealth{
		Status:  "ready",
		Message: "session store is healthy",
		Uptime:  time.Since(hs.startTime).String(),
	}
}

func (hs *HealthService) checkWebSocket() ServiceHealth {
	if hs.clients == nil {
		return ServiceHealth{Status: "not_ready", Message: "websocket hub not initialized"}
	}
	return ServiceHealth{Status: "ready", Message: "websocket hub is healthy"}
}

// Stats returns live session and client counts
func (hs *HealthService) Stats() map[string]int {
	stats := map[string]int{"sessions": 0, "websocket_clients": 0}
	if hs.sessions != nil {
		stats["sessions"] = hs.sessions.Len()
	}
	if hs.clients != nil {
		stats["websocket_clients"] = hs.clients.ClientCount()
	}
	return stats
}
