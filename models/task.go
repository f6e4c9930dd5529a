// Package models contains the data models for the application to be used in request handling.
package models

import "time"

// Task represents a task in the system.
// Task has the following properties:
// - Id: The unique identifier of the task, assigned by the repository.
// - Title: The title of the task.
// - Description: The description of the task.
// - Completed: Whether the task has been completed.
// - CreatedAt: The time the task was created, immutable after creation.
type Task struct {
	Id          int       `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Completed   bool      `json:"completed"`
	CreatedAt   time.Time `json:"created_at"`
}
