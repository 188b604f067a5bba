package services

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/kazmirchuk/workshophub/internal/app/models"
)

// EnrollmentEvent carries the facts of an enrollment or cancellation to the
// notification sink. Delivery is best-effort: nothing about an event may
// influence the outcome of the operation that produced it.
type EnrollmentEvent struct {
	WorkshopID int64
	GroupID    *int64
	UserID     int64
	Status     models.EnrollmentStatus
	Message    string
}

// NotificationSink receives post-commit enrollment events.
// Implementations must not block the caller.
type NotificationSink interface {
	NotifyEnrolled(event EnrollmentEvent)
	NotifyCancelled(event EnrollmentEvent)
}

// NotificationWriter persists notification events to the log table
type NotificationWriter interface {
	InsertNotification(ctx context.Context, n *models.Notification) error
}

// queueSize bounds the in-flight event buffer. A full buffer drops the event
// with a warning rather than blocking an enrollment.
const queueSize = 256

// writeTimeout bounds each log write performed by the worker.
const writeTimeout = 5 * time.Second

type queuedEvent struct {
	kind  models.NotificationKind
	event EnrollmentEvent
}

// AsyncNotifier is the default NotificationSink: a buffered channel feeding a
// single worker goroutine that writes a log line and appends a row to the
// notifications table. Worker errors are logged and discarded.
type AsyncNotifier struct {
	events    chan queuedEvent
	writer    NotificationWriter
	logger    zerolog.Logger
	done      chan struct{}
	closeOnce sync.Once
}

// NewAsyncNotifier creates the notifier and starts its worker.
// writer may be nil, in which case events are only logged.
func NewAsyncNotifier(writer NotificationWriter, logger zerolog.Logger) *AsyncNotifier {
	n := &AsyncNotifier{
		events: make(chan queuedEvent, queueSize),
		writer: writer,
		logger: logger,
		done:   make(chan struct{}),
	}
	go n.run()
	return n
}

// NotifyEnrolled enqueues an enrollment event, dropping it if the buffer is full
func (n *AsyncNotifier) NotifyEnrolled(event EnrollmentEvent) {
	n.enqueue(queuedEvent{kind: models.NotificationEnrolled, event: event})
}

// NotifyCancelled enqueues a cancellation event, dropping it if the buffer is full
func (n *AsyncNotifier) NotifyCancelled(event EnrollmentEvent) {
	n.enqueue(queuedEvent{kind: models.NotificationCancelled, event: event})
}

func (n *AsyncNotifier) enqueue(qe queuedEvent) {
	select {
	case n.events <- qe:
	default:
		n.logger.Warn().
			Str("kind", string(qe.kind)).
			Int64("workshopID", qe.event.WorkshopID).
			Int64("userID", qe.event.UserID).
			Msg("Notification buffer full, dropping event")
	}
}

// Close stops accepting events, drains the buffer and waits for the worker.
func (n *AsyncNotifier) Close() {
	n.closeOnce.Do(func() {
		close(n.events)
	})
	<-n.done
}

func (n *AsyncNotifier) run() {
	defer close(n.done)
	for qe := range n.events {
		n.dispatch(qe)
	}
}

func (n *AsyncNotifier) dispatch(qe queuedEvent) {
	evt := n.logger.Info().
		Str("kind", string(qe.kind)).
		Int64("workshopID", qe.event.WorkshopID).
		Int64("userID", qe.event.UserID).
		Str("status", string(qe.event.Status))
	if qe.event.GroupID != nil {
		evt = evt.Int64("groupID", *qe.event.GroupID)
	}
	evt.Msg(qe.event.Message)

	if n.writer == nil {
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), writeTimeout)
	defer cancel()

	notification := &models.Notification{
		ID:         uuid.New().String(),
		Kind:       qe.kind,
		WorkshopID: qe.event.WorkshopID,
		GroupID:    qe.event.GroupID,
		UserID:     qe.event.UserID,
		Status:     qe.event.Status,
		Message:    qe.event.Message,
	}
	if err := n.writer.InsertNotification(ctx, notification); err != nil {
		n.logger.Error().Err(err).
			Str("kind", string(qe.kind)).
			Int64("userID", qe.event.UserID).
			Msg("Failed to persist notification")
	}
}
