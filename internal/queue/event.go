// Package queue defines message payloads exchanged over the message broker
// and the consumer that records them.
package queue

// IngestionQueue is the durable queue carrying completed ingestion runs.
const IngestionQueue = "ingestion.completed"

// IngestionCompletedEvent is published after an ingestion run persisted
// every payload it received (or skipped the malformed ones).
type IngestionCompletedEvent struct {
	RunID       string            `json:"run_id"`
	Category    string            `json:"category"`
	Params      map[string]string `json:"params"`
	Received    int               `json:"received"`
	Persisted   int               `json:"persisted"`
	Skipped     int               `json:"skipped"`
	CompletedAt string            `json:"completed_at"`
}
