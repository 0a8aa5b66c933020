// Package social fans social activities out to friends as
// notifications. The fan-out is best-effort: the emitting operation
// hands one delivery unit per recipient to a queue and returns; a
// worker drains the queue, so a slow or failing recipient can never
// block or fail the completion that triggered the post.
package social

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/choudharyraman03/taskflow-go/internal/models"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
)

const queueSize = 256

// Delivery is one pending notification for one recipient.
type Delivery struct {
	RecipientID  uuid.UUID
	ActivityID   uuid.UUID
	ActivityType string
	Title        string
	Message      string
}

// Emitter queues per-recipient notification deliveries and writes them
// out on a background worker.
type Emitter struct {
	pool  *pgxpool.Pool
	queue chan Delivery
	wg    sync.WaitGroup
}

func NewEmitter(pool *pgxpool.Pool) *Emitter {
	return &Emitter{
		pool:  pool,
		queue: make(chan Delivery, queueSize),
	}
}

// Start launches the delivery worker. Stop must be called to drain it.
func (e *Emitter) Start() {
	e.wg.Add(1)
	go func() {
		defer e.wg.Done()
		for d := range e.queue {
			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			if err := e.deliver(ctx, d); err != nil {
				// Per-recipient failures are logged and swallowed;
				// they must not affect other recipients.
				slog.Error("notification delivery failed",
					"recipient", d.RecipientID, "activity", d.ActivityID, "error", err)
			}
			cancel()
		}
	}()
}

// Stop closes the queue and waits for in-flight deliveries.
func (e *Emitter) Stop() {
	close(e.queue)
	e.wg.Wait()
}

// FanOut enqueues one delivery per recipient. When the queue is full
// the delivery is dropped with a log line rather than blocking the
// caller.
func (e *Emitter) FanOut(activityID uuid.UUID, activityType, title, message string, recipients []uuid.UUID) {
	for _, recipient := range recipients {
		d := Delivery{
			RecipientID:  recipient,
			ActivityID:   activityID,
			ActivityType: activityType,
			Title:        title,
			Message:      message,
		}
		select {
		case e.queue <- d:
		default:
			slog.Warn("notification queue full, dropping delivery",
				"recipient", recipient, "activity", activityID)
		}
	}
}

// deliver writes a notification for one recipient, honoring their
// notification preference for the activity kind (default enabled).
func (e *Emitter) deliver(ctx context.Context, d Delivery) error {
	var rawPrefs string
	err := e.pool.QueryRow(ctx,
		"SELECT notification_prefs::text FROM users WHERE id = $1",
		d.RecipientID,
	).Scan(&rawPrefs)
	if err != nil {
		return err
	}

	if !models.ParseNotificationPrefs(rawPrefs).Enabled(d.ActivityType) {
		return nil
	}

	_, err = e.pool.Exec(ctx, `
		INSERT INTO notifications (
			id, user_id, title, message, type, related_id, scheduled_time, sent, created_at
		) VALUES ($1, $2, $3, $4, 'social', $5, NOW(), true, NOW())
	`, uuid.New(), d.RecipientID, d.Title, d.Message, d.ActivityID)
	return err
}
