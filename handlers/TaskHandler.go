// Package handlers provides the HTTP request handlers for TaskTrackerService.
//
// This package contains the implementation of the HTTP request handlers for handling tasks (CRUD operations) in the TaskTrackerService application.
// It includes handlers for task creation, retrieval, update, completion toggling, and deletion, plus a health check.
// The handlers translate requests into calls on the in-memory task repository and encode JSON-shaped responses.
// Request bodies are validated at this boundary before the repository is reached, and every handler
// keeps track of the number of requests or errors using Prometheus counters.
//
// For more information on how to use the handlers and the available endpoints, please refer to the individual handler function documentation.
package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"TaskTrackerService/commands"
	"TaskTrackerService/repository"
	"TaskTrackerService/response"
	"TaskTrackerService/validation"

	"github.com/go-playground/validator/v10"
	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/sirupsen/logrus"
)

// TaskHandler holds the repository and the instrumentation shared by all
// task endpoints.
type TaskHandler struct {
	repo            *repository.TaskRepository
	log             *logrus.Logger
	validate        *validator.Validate
	endPointCounter *prometheus.CounterVec
	errorCounter    *prometheus.CounterVec
}

// NewTaskHandler constructs a TaskHandler and registers the custom field
// validator used by the request body schema.
func NewTaskHandler(repo *repository.TaskRepository, log *logrus.Logger, endPointCounter *prometheus.CounterVec, errorCounter *prometheus.CounterVec) *TaskHandler {
	validate := validator.New()
	if err := validate.RegisterValidation("fieldValidator", validation.FieldValidator); err != nil {
		log.Fatal(err)
	}

	return &TaskHandler{
		repo:            repo,
		log:             log,
		validate:        validate,
		endPointCounter: endPointCounter,
		errorCounter:    errorCounter,
	}
}

// RegisterRoutes attaches all task endpoints to the router.
func (h *TaskHandler) RegisterRoutes(router *mux.Router) {
	router.HandleFunc("/api/health", h.HealthHandler).Methods(http.MethodGet)
	router.HandleFunc("/api/tasks", h.GetAllTasksHandler).Methods(http.MethodGet)
	router.HandleFunc("/api/tasks", h.CreateTaskHandler).Methods(http.MethodPost)
	router.HandleFunc("/api/tasks/{id}", h.GetTaskHandler).Methods(http.MethodGet)
	router.HandleFunc("/api/tasks/{id}", h.UpdateTaskHandler).Methods(http.MethodPut)
	router.HandleFunc("/api/tasks/{id}/toggle", h.ToggleTaskHandler).Methods(http.MethodPatch)
	router.HandleFunc("/api/tasks/{id}", h.DeleteTaskHandler).Methods(http.MethodDelete)
}

// writeJSON encodes payload as the JSON response body with the given status code.
func writeJSON(res http.ResponseWriter, code int, payload interface{}) {
	res.Header().Set("Content-Type", "application/json")
	res.WriteHeader(code)
	json.NewEncoder(res).Encode(payload)
}

// writeError sends a JSON error payload with the given status code.
func writeError(res http.ResponseWriter, code int, message string) {
	writeJSON(res, code, response.ErrorResponse{Error: message})
}

// taskID extracts and parses the {id} path variable.
func taskID(req *http.Request) (int, error) {
	return strconv.Atoi(mux.Vars(req)["id"])
}

// notFoundOrInternal translates a repository error into the client-visible
// response: a 404 for a missing task, a 500 for anything else.
func (h *TaskHandler) notFoundOrInternal(res http.ResponseWriter, err error) {
	if errors.Is(err, repository.ErrTaskNotFound) {
		writeError(res, http.StatusNotFound, "Task not found")
		return
	}
	writeError(res, http.StatusInternalServerError, err.Error())
}

// HealthHandler handles the health check request.
//
// Example response:
//
//	{
//	  "status": "healthy",
//	  "timestamp": "2026-01-02T15:04:05Z"
//	}
func (h *TaskHandler) HealthHandler(res http.ResponseWriter, req *http.Request) {
	h.endPointCounter.WithLabelValues("/api/health").Inc()
	writeJSON(res, http.StatusOK, response.Health{
		Status:    "healthy",
		Timestamp: time.Now().Format(time.RFC3339),
	})
}

// GetAllTasksHandler handles the HTTP request for retrieving all tasks.
// It returns the full task list in insertion order as a JSON array.
//
// Example request:
// GET /api/tasks
//
// Example response:
//
//	[
//	  {
//	    "id": 1,
//	    "title": "Task 1",
//	    "description": "Description of Task 1",
//	    "completed": false,
//	    "created_at": "2026-01-02T15:04:05Z"
//	  },
//	  ... ]
func (h *TaskHandler) GetAllTasksHandler(res http.ResponseWriter, req *http.Request) {
	h.endPointCounter.WithLabelValues("/api/tasks").Inc()
	tasks := h.repo.List()
	h.log.WithFields(logrus.Fields{
		"task operation": "get all tasks",
		"request":        "GET /api/tasks",
		"count":          len(tasks),
	}).Info("Processing request")
	writeJSON(res, http.StatusOK, tasks)
}

// GetTaskHandler handles the HTTP request for retrieving a task by its id.
// If the id is not a valid integer it returns 400, and if no task has the
// given id it returns 404.
//
// Example request:
// GET /api/tasks/1
//
// Example response:
//
//	{
//	  "id": 1,
//	  "title": "Task 1",
//	  "description": "Description of Task 1",
//	  "completed": false,
//	  "created_at": "2026-01-02T15:04:05Z"
//	}
func (h *TaskHandler) GetTaskHandler(res http.ResponseWriter, req *http.Request) {
	h.endPointCounter.WithLabelValues("/api/tasks/{id}").Inc()
	id, err := taskID(req)
	if err != nil {
		h.errorCounter.WithLabelValues("/api/tasks/{id}").Inc()
		h.log.WithFields(logrus.Fields{
			"task operation": "get task by id",
			"request":        "GET /api/tasks/{id}",
		}).Error("Invalid task ID")
		writeError(res, http.StatusBadRequest, "Invalid task ID")
		return
	}
	task, err := h.repo.Get(id)
	if err != nil {
		h.errorCounter.WithLabelValues("/api/tasks/{id}").Inc()
		h.log.WithFields(logrus.Fields{
			"task operation": "get task by id",
			"request":        "GET /api/tasks/{id}",
			"id":             id,
		}).Error(err.Error())
		h.notFoundOrInternal(res, err)
		return
	}
	h.log.WithFields(logrus.Fields{
		"task operation": "get task by id",
		"request":        "GET /api/tasks/{id}",
		"id":             id,
	}).Info("Processing request")
	writeJSON(res, http.StatusOK, task)
}

// CreateTaskHandler handles the HTTP request for creating a new task.
// It reads the task details from the request body and validates the input
// fields before the repository assigns an id and creation time.
//
// Note that the input validation does not allow missing or blank values for
// the title and description fields.
//
// Example request body:
//
//	{
//	  "title": "Task 1",
//	  "description": "Description of Task 1"
//	}
//
// Example response:
//
//	{
//	  "id": 1,
//	  "title": "Task 1",
//	  "description": "Description of Task 1",
//	  "completed": false,
//	  "created_at": "2026-01-02T15:04:05Z"
//	}
func (h *TaskHandler) CreateTaskHandler(res http.ResponseWriter, req *http.Request) {
	h.endPointCounter.WithLabelValues("/api/tasks").Inc()
	var cmd commands.TaskCommand
	if err := json.NewDecoder(req.Body).Decode(&cmd); err != nil {
		h.errorCounter.WithLabelValues("/api/tasks").Inc()
		h.log.WithFields(logrus.Fields{
			"task operation": "create a task",
			"request":        "POST /api/tasks",
		}).Error("Invalid request body")
		writeError(res, http.StatusBadRequest, "Invalid request body")
		return
	}
	if err := h.validate.Struct(cmd); err != nil {
		h.errorCounter.WithLabelValues("/api/tasks").Inc()
		h.log.WithFields(logrus.Fields{
			"task operation": "create a task",
			"request":        "POST /api/tasks",
		}).Error("Invalid request body inputs")
		writeError(res, http.StatusBadRequest, "Invalid request body inputs")
		return
	}

	task := h.repo.Create(cmd.Title, cmd.Description)

	taskJSON, _ := json.Marshal(task)
	h.log.WithFields(logrus.Fields{
		"task operation": "create a task",
		"request body":   string(taskJSON),
		"request":        "POST /api/tasks",
	}).Info("Processing request")
	writeJSON(res, http.StatusCreated, task)
}

// UpdateTaskHandler handles the HTTP request for updating a task.
// It reads the new title and description from the request body, validates
// them, and replaces the fields of the task with the given id. The completed
// flag and creation time of the task are never changed by this endpoint.
//
// Example request body:
//
//	{
//	  "title": "Task 1 updated",
//	  "description": "Description of Task 1 updated"
//	}
//
// Example response:
//
//	{
//	  "id": 1,
//	  "title": "Task 1 updated",
//	  "description": "Description of Task 1 updated",
//	  "completed": false,
//	  "created_at": "2026-01-02T15:04:05Z"
//	}
func (h *TaskHandler) UpdateTaskHandler(res http.ResponseWriter, req *http.Request) {
	h.endPointCounter.WithLabelValues("/api/tasks/{id}").Inc()
	id, err := taskID(req)
	if err != nil {
		h.errorCounter.WithLabelValues("/api/tasks/{id}").Inc()
		h.log.WithFields(logrus.Fields{
			"task operation": "update a task",
			"request":        "PUT /api/tasks/{id}",
		}).Error("Invalid task ID")
		writeError(res, http.StatusBadRequest, "Invalid task ID")
		return
	}
	var cmd commands.TaskCommand
	if err := json.NewDecoder(req.Body).Decode(&cmd); err != nil {
		h.errorCounter.WithLabelValues("/api/tasks/{id}").Inc()
		h.log.WithFields(logrus.Fields{
			"task operation": "update a task",
			"request":        "PUT /api/tasks/{id}",
		}).Error("Invalid request body")
		writeError(res, http.StatusBadRequest, "Invalid request body")
		return
	}
	if err := h.validate.Struct(cmd); err != nil {
		h.errorCounter.WithLabelValues("/api/tasks/{id}").Inc()
		h.log.WithFields(logrus.Fields{
			"task operation": "update a task",
			"request":        "PUT /api/tasks/{id}",
		}).Error("Invalid request body inputs")
		writeError(res, http.StatusBadRequest, "Invalid request body inputs")
		return
	}

	task, err := h.repo.Update(id, cmd.Title, cmd.Description)
	if err != nil {
		h.errorCounter.WithLabelValues("/api/tasks/{id}").Inc()
		h.log.WithFields(logrus.Fields{
			"task operation": "update a task",
			"request":        "PUT /api/tasks/{id}",
			"id":             id,
		}).Error(err.Error())
		h.notFoundOrInternal(res, err)
		return
	}

	taskJSON, _ := json.Marshal(task)
	h.log.WithFields(logrus.Fields{
		"task operation": "update a task",
		"request body":   string(taskJSON),
		"request":        "PUT /api/tasks/{id}",
	}).Info("Processing request")
	writeJSON(res, http.StatusOK, task)
}

// ToggleTaskHandler handles the HTTP request for toggling the completion
// status of a task. Applying it twice restores the original status.
//
// Example request:
// PATCH /api/tasks/1/toggle
//
// Example response:
//
//	{
//	  "id": 1,
//	  "title": "Task 1",
//	  "description": "Description of Task 1",
//	  "completed": true,
//	  "created_at": "2026-01-02T15:04:05Z"
//	}
func (h *TaskHandler) ToggleTaskHandler(res http.ResponseWriter, req *http.Request) {
	h.endPointCounter.WithLabelValues("/api/tasks/{id}/toggle").Inc()
	id, err := taskID(req)
	if err != nil {
		h.errorCounter.WithLabelValues("/api/tasks/{id}/toggle").Inc()
		h.log.WithFields(logrus.Fields{
			"task operation": "toggle a task",
			"request":        "PATCH /api/tasks/{id}/toggle",
		}).Error("Invalid task ID")
		writeError(res, http.StatusBadRequest, "Invalid task ID")
		return
	}
	task, err := h.repo.Toggle(id)
	if err != nil {
		h.errorCounter.WithLabelValues("/api/tasks/{id}/toggle").Inc()
		h.log.WithFields(logrus.Fields{
			"task operation": "toggle a task",
			"request":        "PATCH /api/tasks/{id}/toggle",
			"id":             id,
		}).Error(err.Error())
		h.notFoundOrInternal(res, err)
		return
	}
	h.log.WithFields(logrus.Fields{
		"task operation": "toggle a task",
		"request":        "PATCH /api/tasks/{id}/toggle",
		"id":             id,
		"completed":      task.Completed,
	}).Info("Processing request")
	writeJSON(res, http.StatusOK, task)
}

// DeleteTaskHandler handles the HTTP request for deleting a task by its id.
//
// Example request:
// DELETE /api/tasks/1
//
// Example response:
//
//	{
//	  "message": "Task deleted successfully"
//	}
func (h *TaskHandler) DeleteTaskHandler(res http.ResponseWriter, req *http.Request) {
	h.endPointCounter.WithLabelValues("/api/tasks/{id}").Inc()
	id, err := taskID(req)
	if err != nil {
		h.errorCounter.WithLabelValues("/api/tasks/{id}").Inc()
		h.log.WithFields(logrus.Fields{
			"task operation": "delete a task",
			"request":        "DELETE /api/tasks/{id}",
		}).Error("Invalid task ID")
		writeError(res, http.StatusBadRequest, "Invalid task ID")
		return
	}
	if err := h.repo.Delete(id); err != nil {
		h.errorCounter.WithLabelValues("/api/tasks/{id}").Inc()
		h.log.WithFields(logrus.Fields{
			"task operation": "delete a task",
			"request":        "DELETE /api/tasks/{id}",
			"id":             id,
		}).Error(err.Error())
		h.notFoundOrInternal(res, err)
		return
	}
	h.log.WithFields(logrus.Fields{
		"task operation": "delete a task",
		"request":        "DELETE /api/tasks/{id}",
		"id":             id,
	}).Info("Processing request")
	writeJSON(res, http.StatusOK, response.Response{Message: "Task deleted successfully"})
}
