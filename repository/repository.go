// Package repository holds the in-memory task collection and the operations on it.
//
// The repository exclusively owns its backing sequence: all access goes through
// its methods, and a single mutex serializes every operation, so id computation
// and deletion are never interleaved. Returned tasks are copies; callers never
// hold a reference into the backing slice.
package repository

import (
	"errors"
	"sync"
	"time"

	"TaskTrackerService/models"

	"github.com/sirupsen/logrus"
)

// ErrTaskNotFound is returned by Get, Update, Toggle and Delete when no task
// has the requested id.
var ErrTaskNotFound = errors.New("task not found")

// TaskRepository stores tasks in insertion order.
type TaskRepository struct {
	mu    sync.Mutex
	tasks []models.Task
	log   *logrus.Logger
}

// NewTaskRepository returns an empty repository.
func NewTaskRepository(log *logrus.Logger) *TaskRepository {
	return &TaskRepository{
		tasks: make([]models.Task, 0),
		log:   log,
	}
}

// List returns a snapshot of all tasks in insertion order. It never fails.
func (r *TaskRepository) List() []models.Task {
	r.mu.Lock()
	defer r.mu.Unlock()

	tasks := make([]models.Task, len(r.tasks))
	copy(tasks, r.tasks)
	return tasks
}

// Get returns the task with the given id, or ErrTaskNotFound.
func (r *TaskRepository) Get(id int) (models.Task, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, t := range r.tasks {
		if t.Id == id {
			return t, nil
		}
	}
	return models.Task{}, ErrTaskNotFound
}

// Create appends a new task with a freshly assigned id, completed set to
// false and the creation time captured now. The id is one greater than the
// largest id currently present, or 1 when the repository is empty; deleting
// the highest-id task therefore lets its id be assigned again.
func (r *TaskRepository) Create(title string, description string) models.Task {
	r.mu.Lock()
	defer r.mu.Unlock()

	nextId := 1
	for _, t := range r.tasks {
		if t.Id >= nextId {
			nextId = t.Id + 1
		}
	}

	task := models.Task{
		Id:          nextId,
		Title:       title,
		Description: description,
		Completed:   false,
		CreatedAt:   time.Now(),
	}
	r.tasks = append(r.tasks, task)

	r.log.WithFields(logrus.Fields{
		"task operation": "create",
		"id":             task.Id,
	}).Debug("task stored")
	return task
}

// Update replaces the title and description of the task with the given id.
// The completed flag and creation time are never altered by this operation.
func (r *TaskRepository) Update(id int, title string, description string) (models.Task, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for i := range r.tasks {
		if r.tasks[i].Id == id {
			r.tasks[i].Title = title
			r.tasks[i].Description = description
			r.log.WithFields(logrus.Fields{
				"task operation": "update",
				"id":             id,
			}).Debug("task updated")
			return r.tasks[i], nil
		}
	}
	return models.Task{}, ErrTaskNotFound
}

// Toggle flips the completed flag of the task with the given id. Title,
// description and creation time are left untouched.
func (r *TaskRepository) Toggle(id int) (models.Task, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for i := range r.tasks {
		if r.tasks[i].Id == id {
			r.tasks[i].Completed = !r.tasks[i].Completed
			r.log.WithFields(logrus.Fields{
				"task operation": "toggle",
				"id":             id,
				"completed":      r.tasks[i].Completed,
			}).Debug("task toggled")
			return r.tasks[i], nil
		}
	}
	return models.Task{}, ErrTaskNotFound
}

// Delete removes the task with the given id, returning ErrTaskNotFound when
// no task has that id.
func (r *TaskRepository) Delete(id int) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	remaining := make([]models.Task, 0, len(r.tasks))
	for _, t := range r.tasks {
		if t.Id != id {
			remaining = append(remaining, t)
		}
	}
	if len(remaining) == len(r.tasks) {
		return ErrTaskNotFound
	}
	r.tasks = remaining

	r.log.WithFields(logrus.Fields{
		"task operation": "delete",
		"id":             id,
	}).Debug("task removed")
	return nil
}
