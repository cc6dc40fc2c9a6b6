// Package store holds the in-memory task map for the currently selected day.
// The store owns its tasks; mutation happens only through its methods, and
// progression/persistence side effects belong to the caller.
package store

import (
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"xpdash/internal/model"
)

var (
	ErrNotFound = errors.New("store: task not found")
	ErrConflict = errors.New("store: task id already exists")
)

// DayStore maps task id to task for one calendar day. Insertion order is not
// meaningful; projections define their own ordering.
type DayStore struct {
	date  string
	tasks map[string]model.Task
}

func New(date string) *DayStore {
	return &DayStore{
		date:  date,
		tasks: make(map[string]model.Task),
	}
}

func (s *DayStore) Date() string { return s.date }

func (s *DayStore) Len() int { return len(s.tasks) }

func (s *DayStore) Get(id string) (model.Task, bool) {
	t, ok := s.tasks[id]
	return t, ok
}

// Add creates a task from user input. The description is trimmed and must be
// non-empty; a fresh id is generated.
func (s *DayStore) Add(description string, xp int, due *model.DueTime) (model.Task, error) {
	task := model.Task{
		ID:          uuid.NewString(),
		Description: strings.TrimSpace(description),
		XP:          xp,
		DueTime:     due,
	}
	if err := task.Validate(); err != nil {
		return model.Task{}, err
	}
	s.tasks[task.ID] = task
	return task, nil
}

// Insert places an already-built task (loaded from disk or generated from a
// recurring definition) into the store under its own id.
func (s *DayStore) Insert(task model.Task) error {
	if err := task.Validate(); err != nil {
		return err
	}
	if _, exists := s.tasks[task.ID]; exists {
		return fmt.Errorf("%w: %s", ErrConflict, task.ID)
	}
	s.tasks[task.ID] = task
	return nil
}

// Edit replaces description, XP, and due time of an existing task. Done state
// and provenance are untouched; XP compensation for done tasks is the
// caller's responsibility.
func (s *DayStore) Edit(id, description string, xp int, due *model.DueTime) (model.Task, error) {
	task, ok := s.tasks[id]
	if !ok {
		return model.Task{}, fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	updated := task
	updated.Description = strings.TrimSpace(description)
	updated.XP = xp
	updated.DueTime = due
	if err := updated.Validate(); err != nil {
		return model.Task{}, err
	}
	s.tasks[id] = updated
	return updated, nil
}

// Toggle flips the done flag and returns the signed XP delta the caller must
// apply to progression state: +XP when newly done, -XP when newly undone.
func (s *DayStore) Toggle(id string) (model.Task, int, error) {
	task, ok := s.tasks[id]
	if !ok {
		return model.Task{}, 0, fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	task.Done = !task.Done
	s.tasks[id] = task
	delta := task.XP
	if !task.Done {
		delta = -task.XP
	}
	return task, delta, nil
}

// Remove detaches a task and returns it; ownership transfers to the caller
// (normally the undo manager).
func (s *DayStore) Remove(id string) (model.Task, error) {
	task, ok := s.tasks[id]
	if !ok {
		return model.Task{}, fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	delete(s.tasks, id)
	return task, nil
}

// Restore reinserts a previously removed task under its original id.
func (s *DayStore) Restore(task model.Task) error {
	if _, exists := s.tasks[task.ID]; exists {
		return fmt.Errorf("%w: %s", ErrConflict, task.ID)
	}
	s.tasks[task.ID] = task
	return nil
}

// Tasks returns a snapshot copy of the task map.
func (s *DayStore) Tasks() map[string]model.Task {
	out := make(map[string]model.Task, len(s.tasks))
	for id, t := range s.tasks {
		out[id] = t
	}
	return out
}

// Descriptions returns the set of task descriptions present, used by the
// recurring generator for duplicate suppression.
func (s *DayStore) Descriptions() map[string]bool {
	out := make(map[string]bool, len(s.tasks))
	for _, t := range s.tasks {
		out[t.Description] = true
	}
	return out
}

// DoneXP sums the XP of completed tasks; this is the daily XP earned.
func (s *DayStore) DoneXP() int {
	total := 0
	for _, t := range s.tasks {
		if t.Done {
			total += t.XP
		}
	}
	return total
}
