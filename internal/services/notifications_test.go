package services

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"vigilo/internal/models"
)

func TestQueuePreservesInsertionOrder(t *testing.T) {
	queue := NewNotificationQueue(time.Hour)

	queue.Enqueue("first", models.NotificationUpdate)
	queue.Enqueue("second", models.NotificationAlert)
	queue.Enqueue("third", models.NotificationUpdate)

	entries := queue.List()
	require.Len(t, entries, 3)
	assert.Equal(t, "first", entries[0].Message)
	assert.Equal(t, "second", entries[1].Message)
	assert.Equal(t, "third", entries[2].Message)
	assert.NotEqual(t, entries[0].ID, entries[1].ID)
}

func TestQueueDismiss(t *testing.T) {
	queue := NewNotificationQueue(time.Hour)

	id := queue.Enqueue("to remove", models.NotificationAlert)
	queue.Enqueue("to keep", models.NotificationUpdate)

	queue.Dismiss(id)

	entries := queue.List()
	require.Len(t, entries, 1)
	assert.Equal(t, "to keep", entries[0].Message)
}

func TestQueueDismissUnknownIDIsNoOp(t *testing.T) {
	queue := NewNotificationQueue(time.Hour)
	queue.Enqueue("stays", models.NotificationUpdate)

	assert.NotPanics(t, func() { queue.Dismiss("no-such-id") })
	assert.Len(t, queue.List(), 1)
}

func TestTransientNotificationExpires(t *testing.T) {
	queue := NewNotificationQueue(20 * time.Millisecond)

	queue.EnqueueTransient("ephemeral", models.NotificationUpdate)
	require.Len(t, queue.List(), 1)

	assert.Eventually(t, func() bool {
		return len(queue.List()) == 0
	}, time.Second, 5*time.Millisecond)
}

func TestDismissCancelsExpiryTimer(t *testing.T) {
	queue := NewNotificationQueue(20 * time.Millisecond)

	id := queue.EnqueueTransient("ephemeral", models.NotificationUpdate)
	queue.Dismiss(id)
	queue.Enqueue("durable", models.NotificationUpdate)

	// A stale timer must not fire against the queue after dismissal.
	time.Sleep(50 * time.Millisecond)
	entries := queue.List()
	require.Len(t, entries, 1)
	assert.Equal(t, "durable", entries[0].Message)
}

func TestPersistentNotificationSurvivesExpiryWindow(t *testing.T) {
	queue := NewNotificationQueue(10 * time.Millisecond)

	queue.Enqueue("durable", models.NotificationUpdate)

	time.Sleep(40 * time.Millisecond)
	assert.Len(t, queue.List(), 1)
}
