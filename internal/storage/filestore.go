package storage

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"xpdash/internal/model"
)

const (
	tasksFileName      = "tasks.json"
	categoriesFileName = "xp_categories.json"
	goalsFileName      = "xp_goals.json"
	recurringFileName  = "recurring_tasks.json"

	backupSuffix = ".bak"
)

// FileStore keeps one JSON file per category under a data directory. Every
// save backs up the previous file first; loads fall back to the backup when
// the primary is corrupt, and to defaults when both are unreadable.
type FileStore struct {
	dir string
}

func NewFileStore(dir string) (*FileStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("storage: create data dir: %w", err)
	}
	return &FileStore{dir: dir}, nil
}

func (s *FileStore) path(name string) string {
	return filepath.Join(s.dir, name)
}

// decodeFile reports whether path held valid JSON for v. The destination
// must be freshly allocated by the caller: a failed decode can leave partial
// state behind.
func decodeFile(path string, v any) bool {
	data, err := os.ReadFile(path)
	if err != nil {
		return false
	}
	return json.Unmarshal(data, v) == nil
}

// saveJSON backs up the current file, then writes the new payload through a
// temp file so a crash mid-write cannot corrupt the primary.
func (s *FileStore) saveJSON(path string, v any) error {
	payload, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("storage: encode %s: %w", filepath.Base(path), err)
	}

	if _, err := os.Stat(path); err == nil {
		if err := os.Rename(path, path+backupSuffix); err != nil {
			if err := copyFile(path, path+backupSuffix); err != nil {
				return fmt.Errorf("storage: back up %s: %w", filepath.Base(path), err)
			}
		}
	}

	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, append(payload, '\n'), 0o644); err != nil {
		return fmt.Errorf("storage: write %s: %w", filepath.Base(path), err)
	}
	if err := os.Rename(tmp, path); err != nil {
		return fmt.Errorf("storage: replace %s: %w", filepath.Base(path), err)
	}
	return nil
}

func copyFile(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()
	out, err := os.Create(dst)
	if err != nil {
		return err
	}
	defer out.Close()
	_, err = io.Copy(out, in)
	return err
}

func (s *FileStore) LoadTasks() (TasksFile, error) {
	path := s.path(tasksFileName)
	var f TasksFile
	if decodeFile(path, &f) {
		return f, nil
	}
	var backup TasksFile
	if decodeFile(path+backupSuffix, &backup) {
		return backup, nil
	}
	return DefaultTasksFile(), nil
}

func (s *FileStore) SaveTasks(f TasksFile) error {
	return s.saveJSON(s.path(tasksFileName), f)
}

func (s *FileStore) LoadCategories() (model.Categories, error) {
	path := s.path(categoriesFileName)
	var cats model.Categories
	if decodeFile(path, &cats) {
		return cats, nil
	}
	var backup model.Categories
	if decodeFile(path+backupSuffix, &backup) {
		return backup, nil
	}
	return model.DefaultCategories(), nil
}

func (s *FileStore) SaveCategories(cats model.Categories) error {
	return s.saveJSON(s.path(categoriesFileName), cats)
}

func (s *FileStore) LoadGoals(currentDate string) (model.Goals, error) {
	path := s.path(goalsFileName)
	var goals model.Goals
	if decodeFile(path, &goals) {
		return goals, nil
	}
	var backup model.Goals
	if decodeFile(path+backupSuffix, &backup) {
		return backup, nil
	}
	return model.Goals{DailyGoal: 0, LastDailyReset: currentDate}, nil
}

func (s *FileStore) SaveGoals(goals model.Goals) error {
	return s.saveJSON(s.path(goalsFileName), goals)
}

func (s *FileStore) LoadRecurring() ([]model.RecurringTask, error) {
	path := s.path(recurringFileName)
	var defs []model.RecurringTask
	if decodeFile(path, &defs) {
		return defs, nil
	}
	var backup []model.RecurringTask
	if decodeFile(path+backupSuffix, &backup) {
		return backup, nil
	}
	return []model.RecurringTask{}, nil
}

func (s *FileStore) SaveRecurring(defs []model.RecurringTask) error {
	return s.saveJSON(s.path(recurringFileName), defs)
}

func (s *FileStore) Close() error { return nil }
