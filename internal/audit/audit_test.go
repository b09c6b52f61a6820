package audit

import (
	"bytes"
	"context"
	"encoding/json"
	"testing"

	"github.com/isdelr/taskdeck-be/internal/auth"
	"github.com/isdelr/taskdeck-be/internal/models"
	"github.com/rs/zerolog"
)

type logLine struct {
	Event  string `json:"event"`
	TaskID int64  `json:"task_id"`
	Actor  string `json:"actor"`
}

func capture(t *testing.T) (*Auditor, *bytes.Buffer) {
	t.Helper()
	var buf bytes.Buffer
	return New(zerolog.New(&buf), nil), &buf
}

func lines(t *testing.T, buf *bytes.Buffer) []logLine {
	t.Helper()
	var out []logLine
	dec := json.NewDecoder(buf)
	for dec.More() {
		var line logLine
		if err := dec.Decode(&line); err != nil {
			t.Fatalf("decode log line: %v", err)
		}
		out = append(out, line)
	}
	return out
}

func authedContext(username string) context.Context {
	claims := &auth.Claims{Username: username}
	return context.WithValue(context.Background(), auth.UserClaimsKey, claims)
}

func TestAuditor_ClassifiesTransitions(t *testing.T) {
	task := models.Task{ID: 7}

	tests := []struct {
		name         string
		wasCompleted bool
		completed    bool
		want         string
	}{
		{"false to true is completed", false, true, EventCompleted},
		{"true to false is uncompleted", true, false, EventUncompleted},
		{"no transition is updated", false, false, EventUpdated},
		{"already completed stays updated", true, true, EventUpdated},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			auditor, buf := capture(t)
			task.Completed = tt.completed
			auditor.TaskSaved(context.Background(), tt.wasCompleted, task)

			got := lines(t, buf)
			if len(got) != 1 {
				t.Fatalf("emitted %d events, want 1", len(got))
			}
			if got[0].Event != tt.want {
				t.Errorf("event = %q, want %q", got[0].Event, tt.want)
			}
			if got[0].TaskID != 7 {
				t.Errorf("task_id = %d, want 7", got[0].TaskID)
			}
		})
	}
}

func TestAuditor_CreatedAndDeleted(t *testing.T) {
	auditor, buf := capture(t)
	task := models.Task{ID: 3}

	auditor.TaskCreated(context.Background(), task)
	auditor.TaskDeleted(context.Background(), task)

	got := lines(t, buf)
	if len(got) != 2 {
		t.Fatalf("emitted %d events, want 2", len(got))
	}
	if got[0].Event != EventCreated || got[1].Event != EventDeleted {
		t.Errorf("events = %q, %q", got[0].Event, got[1].Event)
	}
}

func TestAuditor_ActorResolution(t *testing.T) {
	auditor, buf := capture(t)
	task := models.Task{ID: 1}

	auditor.TaskCreated(authedContext("alice"), task)
	auditor.TaskCreated(context.Background(), task)

	got := lines(t, buf)
	if len(got) != 2 {
		t.Fatalf("emitted %d events, want 2", len(got))
	}
	if got[0].Actor != "alice" {
		t.Errorf("authenticated actor = %q, want alice", got[0].Actor)
	}
	if got[1].Actor != "system" {
		t.Errorf("unauthenticated actor = %q, want system", got[1].Actor)
	}
}
