package services

import (
	"sync"
	"time"

	"github.com/google/uuid"

	"vigilo/internal/models"
)

// NotificationQueue holds ephemeral user-facing messages in insertion order.
// Transient entries are removed automatically after a fixed delay unless
// dismissed first.
type NotificationQueue struct {
	mu          sync.Mutex
	entries     []models.Notification
	timers      map[string]*time.Timer
	autoDismiss time.Duration
}

// NewNotificationQueue creates a queue with the given auto-dismiss delay
// for transient notifications
func NewNotificationQueue(autoDismiss time.Duration) *NotificationQueue {
	return &NotificationQueue{
		timers:      make(map[string]*time.Timer),
		autoDismiss: autoDismiss,
	}
}

// Enqueue appends a persistent notification and returns its id. It stays
// until explicitly dismissed.
func (q *NotificationQueue) Enqueue(message string, kind models.NotificationKind) string {
	q.mu.Lock()
	defer q.mu.Unlock()

	return q.append(message, kind)
}

// EnqueueTransient appends a notification that auto-dismisses after the
// configured delay. Used for passive background events rather than results
// of explicit user actions.
func (q *NotificationQueue) EnqueueTransient(message string, kind models.NotificationKind) string {
	q.mu.Lock()
	defer q.mu.Unlock()

	id := q.append(message, kind)
	q.timers[id] = time.AfterFunc(q.autoDismiss, func() {
		q.Dismiss(id)
	})

	return id
}

// Dismiss removes a notification and cancels its expiry timer. Unknown ids
// are a no-op.
func (q *NotificationQueue) Dismiss(id string) {
	q.mu.Lock()
	defer q.mu.Unlock()

	if timer, ok := q.timers[id]; ok {
		timer.Stop()
		delete(q.timers, id)
	}

	for i, entry := range q.entries {
		if entry.ID == id {
			q.entries = append(q.entries[:i], q.entries[i+1:]...)
			return
		}
	}
}

// List returns the current notifications in insertion order
func (q *NotificationQueue) List() []models.Notification {
	q.mu.Lock()
	defer q.mu.Unlock()

	out := make([]models.Notification, len(q.entries))
	copy(out, q.entries)
	return out
}

func (q *NotificationQueue) append(message string, kind models.NotificationKind) string {
	id := uuid.New().String()
	q.entries = append(q.entries, models.Notification{
		ID:      id,
		Message: message,
		Kind:    kind,
	})
	return id
}
