package repository

import (
	"errors"
	"io"
	"sync"
	"testing"

	"github.com/sirupsen/logrus"
)

func newTestRepository() *TaskRepository {
	log := logrus.New()
	log.SetOutput(io.Discard)
	return NewTaskRepository(log)
}

// TestCreateAssignsSequentialIds checks that the first task on an empty
// repository gets id 1 and that every following create gets an id strictly
// greater than all ids present at call time.
func TestCreateAssignsSequentialIds(t *testing.T) {
	repo := newTestRepository()

	first := repo.Create("Task 1", "Description of Task 1")
	if first.Id != 1 {
		t.Errorf("Expected first id 1, got %d", first.Id)
	}
	if first.Completed {
		t.Error("Expected new task to not be completed")
	}
	if first.CreatedAt.IsZero() {
		t.Error("Expected created_at to be set")
	}

	second := repo.Create("Task 2", "Description of Task 2")
	if second.Id != 2 {
		t.Errorf("Expected second id 2, got %d", second.Id)
	}
}

// TestCreateAfterDelete pins the id assignment scenario: deleting a lower id
// must not cause that id to be reused, because the next id is computed from
// the maximum id still present.
func TestCreateAfterDelete(t *testing.T) {
	repo := newTestRepository()
	repo.Create("A", "d1")
	repo.Create("B", "d2")

	if err := repo.Delete(1); err != nil {
		t.Fatalf("Error deleting task 1: %v", err)
	}

	third := repo.Create("C", "d3")
	if third.Id != 3 {
		t.Errorf("Expected id 3 after deleting task 1, got %d", third.Id)
	}

	tasks := repo.List()
	if len(tasks) != 2 {
		t.Fatalf("Expected 2 tasks, got %d", len(tasks))
	}
	if tasks[0].Id != 2 || tasks[0].Title != "B" {
		t.Errorf("Expected task 2 %q first, got task %d %q", "B", tasks[0].Id, tasks[0].Title)
	}
	if tasks[1].Id != 3 || tasks[1].Title != "C" {
		t.Errorf("Expected task 3 %q second, got task %d %q", "C", tasks[1].Id, tasks[1].Title)
	}
}

// TestCreateReusesMaxIdAfterDelete documents that deleting the highest-id
// task hands its id to the next create.
func TestCreateReusesMaxIdAfterDelete(t *testing.T) {
	repo := newTestRepository()
	repo.Create("A", "d1")
	repo.Create("B", "d2")

	if err := repo.Delete(2); err != nil {
		t.Fatalf("Error deleting task 2: %v", err)
	}

	next := repo.Create("C", "d3")
	if next.Id != 2 {
		t.Errorf("Expected id 2 to be reused after deleting the max id, got %d", next.Id)
	}
}

func TestGetNotFound(t *testing.T) {
	repo := newTestRepository()
	repo.Create("A", "d1")
	repo.Create("B", "d2")

	if _, err := repo.Get(999); !errors.Is(err, ErrTaskNotFound) {
		t.Errorf("Expected ErrTaskNotFound, got %v", err)
	}
}

func TestDeleteThenGet(t *testing.T) {
	repo := newTestRepository()
	created := repo.Create("A", "d1")

	if err := repo.Delete(created.Id); err != nil {
		t.Fatalf("Error deleting task: %v", err)
	}
	if _, err := repo.Get(created.Id); !errors.Is(err, ErrTaskNotFound) {
		t.Errorf("Expected ErrTaskNotFound after delete, got %v", err)
	}
	if err := repo.Delete(created.Id); !errors.Is(err, ErrTaskNotFound) {
		t.Errorf("Expected ErrTaskNotFound on second delete, got %v", err)
	}
}

// TestUpdatePreservesCompletedAndCreatedAt checks that update replaces only
// the title and description.
func TestUpdatePreservesCompletedAndCreatedAt(t *testing.T) {
	repo := newTestRepository()
	created := repo.Create("A", "d1")
	toggled, err := repo.Toggle(created.Id)
	if err != nil {
		t.Fatalf("Error toggling task: %v", err)
	}

	updated, err := repo.Update(created.Id, "A updated", "d1 updated")
	if err != nil {
		t.Fatalf("Error updating task: %v", err)
	}
	if updated.Title != "A updated" || updated.Description != "d1 updated" {
		t.Errorf("Expected updated fields, got title %q description %q", updated.Title, updated.Description)
	}
	if updated.Completed != toggled.Completed {
		t.Error("Update must not change the completed flag")
	}
	if !updated.CreatedAt.Equal(created.CreatedAt) {
		t.Error("Update must not change the creation time")
	}

	if _, err := repo.Update(999, "X", "Y"); !errors.Is(err, ErrTaskNotFound) {
		t.Errorf("Expected ErrTaskNotFound, got %v", err)
	}
}

// TestToggleIsOwnInverse checks that toggle flips only the completed flag and
// that applying it twice restores the original value.
func TestToggleIsOwnInverse(t *testing.T) {
	repo := newTestRepository()
	created := repo.Create("A", "d1")

	once, err := repo.Toggle(created.Id)
	if err != nil {
		t.Fatalf("Error toggling task: %v", err)
	}
	if !once.Completed {
		t.Error("Expected completed true after first toggle")
	}
	if once.Title != created.Title || once.Description != created.Description {
		t.Error("Toggle must not change title or description")
	}
	if !once.CreatedAt.Equal(created.CreatedAt) {
		t.Error("Toggle must not change the creation time")
	}

	twice, err := repo.Toggle(created.Id)
	if err != nil {
		t.Fatalf("Error toggling task: %v", err)
	}
	if twice.Completed {
		t.Error("Expected completed false after second toggle")
	}

	if _, err := repo.Toggle(999); !errors.Is(err, ErrTaskNotFound) {
		t.Errorf("Expected ErrTaskNotFound, got %v", err)
	}
}

// TestListInsertionOrder checks that List returns exactly the tasks not yet
// deleted, in insertion order, without aliasing the backing slice.
func TestListInsertionOrder(t *testing.T) {
	repo := newTestRepository()
	if got := repo.List(); len(got) != 0 {
		t.Fatalf("Expected empty list, got %d tasks", len(got))
	}

	repo.Create("A", "d1")
	repo.Create("B", "d2")
	repo.Create("C", "d3")
	repo.Delete(2)

	tasks := repo.List()
	if len(tasks) != 2 {
		t.Fatalf("Expected 2 tasks, got %d", len(tasks))
	}
	if tasks[0].Title != "A" || tasks[1].Title != "C" {
		t.Errorf("Expected [A C], got [%s %s]", tasks[0].Title, tasks[1].Title)
	}

	// Mutating the returned slice must not leak into the repository.
	tasks[0].Title = "mutated"
	fresh, err := repo.Get(1)
	if err != nil {
		t.Fatalf("Error getting task: %v", err)
	}
	if fresh.Title != "A" {
		t.Errorf("Expected stored title %q, got %q", "A", fresh.Title)
	}
}

// TestConcurrentCreates checks that creates from many goroutines serialize
// through the repository mutex and never hand out a duplicate id.
func TestConcurrentCreates(t *testing.T) {
	repo := newTestRepository()
	const n = 100

	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			repo.Create("Task", "Description")
		}()
	}
	wg.Wait()

	tasks := repo.List()
	if len(tasks) != n {
		t.Fatalf("Expected %d tasks, got %d", n, len(tasks))
	}
	seen := make(map[int]bool, n)
	for _, task := range tasks {
		if seen[task.Id] {
			t.Errorf("Duplicate id %d assigned", task.Id)
		}
		seen[task.Id] = true
	}
}
