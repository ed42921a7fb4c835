package dto

import "time"

// Watcher states reported by /status.
const (
	StatusRunning = "running"
	StatusStopped = "stopped"
)

// StatusResponse describes the watcher's progress.
type StatusResponse struct {
	LastPoll            time.Time `json:"last_poll"`
	Status              string    `json:"status"`
	ProcessedCount      int64     `json:"processed_count"`
	PollIntervalSeconds int       `json:"poll_interval_seconds"`
	TrackedIDs          int       `json:"tracked_ids"`
}
