// Package queue defines message payloads exchanged over the broker and the
// background consumer that turns them into audit log lines.
package queue

// Queue names. Both queues are declared durable.
const (
	HealthQueue = "health.status"
	AuditQueue  = "content.audit"
)

// HealthStatusEvent is published on every health monitor state transition.
// Transitions are edge-triggered, so consumers see one message per actual
// change, not one per poll.
type HealthStatusEvent struct {
	Previous string `json:"previous"`
	Current  string `json:"current"`
	Reason   string `json:"reason"`
	At       string `json:"at"`
}

// ContentChangeEvent is published after every successful admin mutation of
// a content table. Enough context for audit and analytics consumers without
// querying the store.
type ContentChangeEvent struct {
	Action   string `json:"action"` // create | update | delete | hard_delete
	Table    string `json:"table"`
	RecordID string `json:"record_id"`
	Actor    string `json:"actor"` // admin_users id from the session token
	At       string `json:"at"`
}
