package utils

import (
	"time"
)

// HealthStatus is the liveness snapshot returned by /health.
type HealthStatus struct {
	Status    string    `json:"status"`
	Timestamp time.Time `json:"timestamp"`
	Uptime    float64   `json:"uptime"`
}

var startedAt = time.Now()

// GetHealthStatus reports the process as healthy with its uptime in seconds.
func GetHealthStatus() HealthStatus {
	now := time.Now()
	return HealthStatus{
		Status:    "healthy",
		Timestamp: now.UTC(),
		Uptime:    now.Sub(startedAt).Seconds(),
	}
}
