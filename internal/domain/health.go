package domain

import "time"

type HealthStatus string

const (
	HealthStatusHealthy   HealthStatus = "healthy"
	HealthStatusUnhealthy HealthStatus = "unhealthy"
)

type HealthResponse struct {
	Status    HealthStatus `json:"status"`
	Timestamp time.Time    `json:"timestamp"`
	RunID     string       `json:"run_id"`
	Message   string       `json:"message,omitempty"`
}

// ScanStatus is a point-in-time view of a running scan.
type ScanStatus struct {
	RunID         string            `json:"run_id"`
	Suffix        string            `json:"suffix"`
	Running       bool              `json:"running"`
	Total         int64             `json:"total"`
	Completed     int64             `json:"completed"`
	Available     int64             `json:"available"`
	Taken         int64             `json:"taken"`
	Indeterminate int64             `json:"indeterminate"`
	Errors        int64             `json:"errors"`
	ErrorsByKind  map[ErrorKind]int `json:"errors_by_kind,omitempty"`
	StartedAt     time.Time         `json:"started_at"`
}
