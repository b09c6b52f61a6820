package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/isdelr/taskdeck-be/internal/auth"
	"github.com/isdelr/taskdeck-be/internal/models"
	"github.com/isdelr/taskdeck-be/internal/services"
	"github.com/isdelr/taskdeck-be/internal/store"
	"github.com/rs/zerolog/log"
)

// TaskHandler handles HTTP requests for task management.
type TaskHandler struct {
	service services.TaskServiceProvider
}

// NewTaskHandler creates a new TaskHandler.
func NewTaskHandler(service services.TaskServiceProvider) *TaskHandler {
	return &TaskHandler{service: service}
}

// CreateTaskPayload defines the structure for task creation requests.
// A client-supplied completed flag or owner is ignored.
type CreateTaskPayload struct {
	Title       string `json:"title"`
	Description string `json:"description"`
}

// UpdateTaskPayload defines the structure for full or partial updates.
type UpdateTaskPayload struct {
	Title       *string `json:"title"`
	Description *string `json:"description"`
	Completed   *bool   `json:"completed"`
}

// List handles the request to list the caller's tasks with optional
// search and created_after filters.
func (h *TaskHandler) List(w http.ResponseWriter, r *http.Request) {
	claims, ok := auth.ClaimsFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	filter := store.TaskFilter{
		Search:       r.URL.Query().Get("search"),
		CreatedAfter: r.URL.Query().Get("created_after"),
	}
	if filter.CreatedAfter != "" {
		if _, err := time.Parse("2006-01-02", filter.CreatedAfter); err != nil {
			writeFieldErrors(w, services.FieldErrors{"created_after": "enter a valid date in YYYY-MM-DD format"})
			return
		}
	}

	tasks, err := h.service.ListTasks(r.Context(), claims.UserID, filter)
	if err != nil {
		log.Error().Err(err).Str("user_id", claims.UserID).Msg("Failed to list tasks")
		writeError(w, http.StatusInternalServerError, "failed to list tasks")
		return
	}
	if tasks == nil {
		tasks = []models.Task{}
	}
	writeJSON(w, http.StatusOK, tasks)
}

// Create handles the request to create a new task for the caller.
func (h *TaskHandler) Create(w http.ResponseWriter, r *http.Request) {
	claims, ok := auth.ClaimsFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	var payload CreateTaskPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	task, err := h.service.CreateTask(r.Context(), claims.UserID, payload.Title, payload.Description)
	if err != nil {
		var fieldErrs services.FieldErrors
		if errors.As(err, &fieldErrs) {
			writeFieldErrors(w, fieldErrs)
			return
		}
		log.Error().Err(err).Str("user_id", claims.UserID).Msg("Failed to create task")
		writeError(w, http.StatusInternalServerError, "failed to create task")
		return
	}
	writeJSON(w, http.StatusCreated, task)
}

// Get handles the request to retrieve a single task.
func (h *TaskHandler) Get(w http.ResponseWriter, r *http.Request) {
	claims, id, ok := h.taskRequest(w, r)
	if !ok {
		return
	}

	task, err := h.service.GetTask(r.Context(), claims.UserID, id)
	if err != nil {
		h.writeTaskError(w, err, claims.UserID, id, "Failed to get task")
		return
	}
	writeJSON(w, http.StatusOK, task)
}

// Update handles full or partial task updates. Id, owner and creation
// time are immutable.
func (h *TaskHandler) Update(w http.ResponseWriter, r *http.Request) {
	claims, id, ok := h.taskRequest(w, r)
	if !ok {
		return
	}

	var payload UpdateTaskPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	task, err := h.service.UpdateTask(r.Context(), claims.UserID, id, services.TaskUpdate{
		Title:       payload.Title,
		Description: payload.Description,
		Completed:   payload.Completed,
	})
	if err != nil {
		var fieldErrs services.FieldErrors
		if errors.As(err, &fieldErrs) {
			writeFieldErrors(w, fieldErrs)
			return
		}
		h.writeTaskError(w, err, claims.UserID, id, "Failed to update task")
		return
	}
	writeJSON(w, http.StatusOK, task)
}

// Delete handles the request to delete a task.
func (h *TaskHandler) Delete(w http.ResponseWriter, r *http.Request) {
	claims, id, ok := h.taskRequest(w, r)
	if !ok {
		return
	}

	if err := h.service.DeleteTask(r.Context(), claims.UserID, id); err != nil {
		h.writeTaskError(w, err, claims.UserID, id, "Failed to delete task")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// Complete marks a task as completed. Completing an already-completed
// task succeeds without error.
func (h *TaskHandler) Complete(w http.ResponseWriter, r *http.Request) {
	claims, id, ok := h.taskRequest(w, r)
	if !ok {
		return
	}

	if _, err := h.service.CompleteTask(r.Context(), claims.UserID, id); err != nil {
		h.writeTaskError(w, err, claims.UserID, id, "Failed to complete task")
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "marked as completed"})
}

// taskRequest resolves the caller's claims and the {id} URL parameter.
// A non-numeric id behaves like a missing task.
func (h *TaskHandler) taskRequest(w http.ResponseWriter, r *http.Request) (*auth.Claims, int64, bool) {
	claims, ok := auth.ClaimsFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "unauthorized")
		return nil, 0, false
	}
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		writeError(w, http.StatusNotFound, "task not found")
		return nil, 0, false
	}
	return claims, id, true
}

func (h *TaskHandler) writeTaskError(w http.ResponseWriter, err error, userID string, id int64, msg string) {
	if errors.Is(err, store.ErrNotFound) {
		writeError(w, http.StatusNotFound, "task not found")
		return
	}
	log.Error().Err(err).Str("user_id", userID).Int64("task_id", id).Msg(msg)
	writeError(w, http.StatusInternalServerError, "internal error")
}
