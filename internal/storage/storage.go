// Package storage persists application state by category: tasks grouped by
// date, XP categories, goals, and recurring definitions. Backends guarantee
// the core never sees raw I/O errors for missing or corrupt data; they hand
// back documented defaults instead.
package storage

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"xpdash/internal/model"
)

type Backend string

const (
	BackendFiles  Backend = "files"
	BackendSQLite Backend = "sqlite"
)

var ErrUnknownBackend = errors.New("storage: unknown backend")

// Store is the persistence collaborator consumed by the application core.
type Store interface {
	LoadTasks() (TasksFile, error)
	SaveTasks(TasksFile) error
	LoadCategories() (model.Categories, error)
	SaveCategories(model.Categories) error
	LoadGoals(currentDate string) (model.Goals, error)
	SaveGoals(model.Goals) error
	LoadRecurring() ([]model.RecurringTask, error)
	SaveRecurring([]model.RecurringTask) error
	Close() error
}

// Open selects a backend rooted at dir.
func Open(backend Backend, dir string) (Store, error) {
	switch backend {
	case BackendFiles, "":
		return NewFileStore(dir)
	case BackendSQLite:
		return OpenSQLite(dir)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownBackend, backend)
	}
}

// TasksFile is the tasks-by-date category. On disk it is a single object
// whose keys are ISO dates plus two reserved non-date keys, "_level" and
// "_total_xp", carrying the progression snapshot.
type TasksFile struct {
	Days    map[string]map[string]model.Task
	Level   int
	TotalXP int

	// Migrated is set when legacy list-shaped day entries were upgraded to
	// the id-keyed form during load; callers should save back once.
	Migrated bool
}

func DefaultTasksFile() TasksFile {
	return TasksFile{
		Days:  make(map[string]map[string]model.Task),
		Level: 1,
	}
}

const (
	keyLevel   = "_level"
	keyTotalXP = "_total_xp"
)

func (f TasksFile) MarshalJSON() ([]byte, error) {
	out := make(map[string]any, len(f.Days)+2)
	for date, tasks := range f.Days {
		out[date] = tasks
	}
	out[keyLevel] = f.Level
	out[keyTotalXP] = f.TotalXP
	return json.Marshal(out)
}

func (f *TasksFile) UnmarshalJSON(data []byte) error {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	f.Days = make(map[string]map[string]model.Task, len(raw))
	f.Level = 1
	f.TotalXP = 0
	f.Migrated = false

	for key, val := range raw {
		switch key {
		case keyLevel:
			if err := json.Unmarshal(val, &f.Level); err != nil {
				return fmt.Errorf("storage: bad %s entry: %w", keyLevel, err)
			}
		case keyTotalXP:
			if err := json.Unmarshal(val, &f.TotalXP); err != nil {
				return fmt.Errorf("storage: bad %s entry: %w", keyTotalXP, err)
			}
		default:
			tasks, migrated, err := unmarshalDay(val)
			if err != nil {
				return fmt.Errorf("storage: bad task entry for %q: %w", key, err)
			}
			f.Days[key] = tasks
			if migrated {
				f.Migrated = true
			}
		}
	}
	return nil
}

// unmarshalDay accepts both the canonical id-keyed map and the legacy list
// shape; list entries are upgraded in place, generating ids where missing.
// Map entries missing their id field take it from the map key, so a
// hand-edited file still loads valid tasks.
func unmarshalDay(raw json.RawMessage) (map[string]model.Task, bool, error) {
	var tasks map[string]model.Task
	if err := json.Unmarshal(raw, &tasks); err == nil {
		for id, task := range tasks {
			if task.ID == "" {
				task.ID = id
				tasks[id] = task
			}
		}
		return tasks, false, nil
	}

	var legacy []model.Task
	if err := json.Unmarshal(raw, &legacy); err != nil {
		return nil, false, err
	}
	tasks = make(map[string]model.Task, len(legacy))
	for _, task := range legacy {
		if task.ID == "" {
			task.ID = uuid.NewString()
		}
		tasks[task.ID] = task
	}
	return tasks, true, nil
}
