package audit

import (
	"context"
	"encoding/json"

	"github.com/isdelr/taskdeck-be/internal/auth"
	"github.com/isdelr/taskdeck-be/internal/models"
	"github.com/isdelr/taskdeck-be/internal/websocket"
	"github.com/rs/zerolog"
)

// Event kinds emitted for task lifecycle transitions.
const (
	EventCreated     = "created"
	EventCompleted   = "completed"
	EventUncompleted = "uncompleted"
	EventUpdated     = "updated"
	EventDeleted     = "deleted"
)

// Auditor classifies task mutations and emits one event per mutation to
// the audit log stream and, when a hub is attached, to the live activity
// feed. It is diagnostic only: it never returns an error and never blocks
// the mutation it observes.
type Auditor struct {
	log zerolog.Logger
	hub *websocket.Hub
}

// New creates an Auditor. The hub may be nil.
func New(log zerolog.Logger, hub *websocket.Hub) *Auditor {
	return &Auditor{log: log, hub: hub}
}

// TaskCreated records the creation of a task.
func (a *Auditor) TaskCreated(ctx context.Context, task models.Task) {
	a.emit(ctx, EventCreated, task.ID)
}

// TaskSaved records an update to an existing task, classifying it by
// whether the completed flag transitioned. wasCompleted is the persisted
// value captured before the write was applied.
func (a *Auditor) TaskSaved(ctx context.Context, wasCompleted bool, task models.Task) {
	switch {
	case !wasCompleted && task.Completed:
		a.emit(ctx, EventCompleted, task.ID)
	case wasCompleted && !task.Completed:
		a.emit(ctx, EventUncompleted, task.ID)
	default:
		a.emit(ctx, EventUpdated, task.ID)
	}
}

// TaskDeleted records the deletion of a task.
func (a *Auditor) TaskDeleted(ctx context.Context, task models.Task) {
	a.emit(ctx, EventDeleted, task.ID)
}

func (a *Auditor) emit(ctx context.Context, event string, taskID int64) {
	actor := auth.ActorFromContext(ctx)
	a.log.Info().
		Str("event", event).
		Int64("task_id", taskID).
		Str("actor", actor).
		Msg("task " + event + " by " + actor)

	if a.hub == nil {
		return
	}
	msg, err := json.Marshal(websocket.Message{
		Action: "task_event",
		Payload: map[string]any{
			"event":  event,
			"taskId": taskID,
			"actor":  actor,
		},
	})
	if err != nil {
		return
	}
	a.hub.Publish(msg)
}
