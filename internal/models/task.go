package models

import "time"

// Task represents a single to-do item owned by a user.
type Task struct {
	ID          int64     `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Completed   bool      `json:"completed"`
	CreatedAt   time.Time `json:"created_at"`
	UserID      string    `json:"-"` // Owner, never exposed to the client
}
