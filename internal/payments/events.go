package payments

import (
	"sync"
	"time"
)

// EventRecord is one verified webhook delivery, kept for inspection.
type EventRecord struct {
	ID         string    `json:"id"`
	Type       string    `json:"type"`
	Account    string    `json:"account,omitempty"`
	ReceivedAt time.Time `json:"received_at"`
}

// EventLog captures recent verified webhook events. The webhook performs
// no durable side effects yet, so this buffer is the only way to see what
// arrived without tailing logs.
type EventLog struct {
	mu   sync.RWMutex
	data []EventRecord
	cap  int
}

// NewEventLog builds the buffer.
func NewEventLog(limit int) *EventLog {
	if limit <= 0 {
		limit = 100
	}
	return &EventLog{cap: limit, data: make([]EventRecord, 0, limit)}
}

// Append stores a new record, evicting the oldest at capacity.
func (l *EventLog) Append(record EventRecord) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if len(l.data) >= l.cap {
		l.data = l.data[1:]
	}
	l.data = append(l.data, record)
}

// Snapshot returns a copy of the buffered records, oldest first.
func (l *EventLog) Snapshot() []EventRecord {
	l.mu.RLock()
	defer l.mu.RUnlock()
	out := make([]EventRecord, len(l.data))
	copy(out, l.data)
	return out
}
