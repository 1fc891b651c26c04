package domain

import "time"

type CheckStatus string

const (
	StatusAvailable     CheckStatus = "available"
	StatusTaken         CheckStatus = "taken"
	StatusIndeterminate CheckStatus = "indeterminate"
	StatusError         CheckStatus = "error"
)

// CheckResult is the outcome of checking a single candidate. Err is set only
// when Status is StatusError.
type CheckResult struct {
	Candidate        string        `json:"candidate"`
	Domain           string        `json:"domain"`
	Status           CheckStatus   `json:"status"`
	Err              *CheckError   `json:"error,omitempty"`
	RegistryStatuses []string      `json:"registry_statuses,omitempty"`
	Attempts         int           `json:"attempts"`
	Duration         time.Duration `json:"duration"`
	Timestamp        time.Time     `json:"timestamp"`
}

// Retryable reports whether the dispatcher may schedule another attempt.
func (r CheckResult) Retryable() bool {
	return r.Status == StatusError && r.Err != nil && r.Err.Kind.Retryable()
}

func (r CheckResult) ErrorKind() ErrorKind {
	if r.Err == nil {
		return ""
	}
	return r.Err.Kind
}

// Summary holds end-of-run totals.
type Summary struct {
	RunID         string            `json:"run_id"`
	Suffix        string            `json:"suffix"`
	Total         int               `json:"total"`
	Completed     int               `json:"completed"`
	Available     int               `json:"available"`
	Taken         int               `json:"taken"`
	Indeterminate int               `json:"indeterminate"`
	Errors        int               `json:"errors"`
	ErrorsByKind  map[ErrorKind]int `json:"errors_by_kind,omitempty"`
	Domains       []string          `json:"domains"`
	StartedAt     time.Time         `json:"started_at"`
	FinishedAt    time.Time         `json:"finished_at"`
}

func (s Summary) Elapsed() time.Duration {
	if s.StartedAt.IsZero() || s.FinishedAt.IsZero() {
		return 0
	}
	return s.FinishedAt.Sub(s.StartedAt)
}

// Incomplete is the number of candidates that never produced a result,
// which only happens when a run is stopped early.
func (s Summary) Incomplete() int {
	if s.Total <= s.Completed {
		return 0
	}
	return s.Total - s.Completed
}
