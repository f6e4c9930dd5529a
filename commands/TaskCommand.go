// Package commands contains the commands for the application to be used for request inputs.
package commands

// TaskCommand represents the request body for creating or updating a task.
// Both fields are required and must be non-empty.
type TaskCommand struct {
	Title       string `json:"title" validate:"required,fieldValidator"`
	Description string `json:"description" validate:"required,fieldValidator"`
}
