package storage

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"xpdash/internal/model"
)

func newTestStore(t *testing.T) (*FileStore, string) {
	t.Helper()
	dir := t.TempDir()
	s, err := NewFileStore(dir)
	if err != nil {
		t.Fatalf("NewFileStore: %v", err)
	}
	return s, dir
}

func TestTasksRoundTrip(t *testing.T) {
	s, _ := newTestStore(t)

	due := model.DueTime{Hour: 9, Minute: 30}
	f := DefaultTasksFile()
	f.Level = 3
	f.TotalXP = 275
	f.Days["2026-03-02"] = map[string]model.Task{
		"t1": {ID: "t1", Description: "Write report", XP: 10, Done: true},
		"t2": {ID: "t2", Description: "Stand-up", XP: 5, DueTime: &due, Recurring: true},
	}

	if err := s.SaveTasks(f); err != nil {
		t.Fatalf("SaveTasks: %v", err)
	}
	got, err := s.LoadTasks()
	if err != nil {
		t.Fatalf("LoadTasks: %v", err)
	}
	if got.Level != 3 || got.TotalXP != 275 {
		t.Fatalf("progression lost: level=%d total=%d", got.Level, got.TotalXP)
	}
	day := got.Days["2026-03-02"]
	if len(day) != 2 {
		t.Fatalf("expected 2 tasks, got %d", len(day))
	}
	t2 := day["t2"]
	if t2.DueTime == nil || t2.DueTime.String() != "09:30" || !t2.Recurring {
		t.Fatalf("task t2 round-trip mismatch: %+v", t2)
	}
	if got.Migrated {
		t.Fatal("canonical file must not report migration")
	}
}

func TestTasksFileReservedKeys(t *testing.T) {
	f := DefaultTasksFile()
	f.Level = 2
	f.TotalXP = 150
	f.Days["2026-03-02"] = map[string]model.Task{
		"t1": {ID: "t1", Description: "Read", XP: 5},
	}

	data, err := json.Marshal(f)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		t.Fatalf("unmarshal raw: %v", err)
	}
	for _, key := range []string{"_level", "_total_xp", "2026-03-02"} {
		if _, ok := raw[key]; !ok {
			t.Fatalf("missing key %q in serialized file", key)
		}
	}
}

func TestLegacyListMigration(t *testing.T) {
	s, dir := newTestStore(t)

	legacy := `{
		"_level": 2,
		"_total_xp": 120,
		"2026-03-01": [
			{"task": "Old style", "done": true, "xp": 15},
			{"id": "keep-me", "task": "Has id", "done": false, "xp": 5}
		]
	}`
	if err := os.WriteFile(filepath.Join(dir, tasksFileName), []byte(legacy), 0o644); err != nil {
		t.Fatalf("write legacy file: %v", err)
	}

	f, err := s.LoadTasks()
	if err != nil {
		t.Fatalf("LoadTasks: %v", err)
	}
	if !f.Migrated {
		t.Fatal("legacy list shape must set Migrated")
	}
	day := f.Days["2026-03-01"]
	if len(day) != 2 {
		t.Fatalf("expected 2 migrated tasks, got %d", len(day))
	}
	if _, ok := day["keep-me"]; !ok {
		t.Fatal("existing id must be preserved during migration")
	}
	for id, task := range day {
		if id == "" || task.ID != id {
			t.Fatalf("migrated task must be keyed by its id: %q -> %+v", id, task)
		}
	}
	if f.Level != 2 || f.TotalXP != 120 {
		t.Fatalf("progression lost in migration: %+v", f)
	}
}

func TestMapDayBackfillsIDFromKey(t *testing.T) {
	s, dir := newTestStore(t)

	// Hand-edited files often keep the map shape but drop the id field.
	edited := `{
		"_level": 1,
		"_total_xp": 0,
		"2026-03-01": {
			"t1": {"task": "No id field", "done": false, "xp": 5},
			"t2": {"id": "t2", "task": "Has id", "done": true, "xp": 10}
		}
	}`
	if err := os.WriteFile(filepath.Join(dir, tasksFileName), []byte(edited), 0o644); err != nil {
		t.Fatalf("write file: %v", err)
	}

	f, err := s.LoadTasks()
	if err != nil {
		t.Fatalf("LoadTasks: %v", err)
	}
	day := f.Days["2026-03-01"]
	if len(day) != 2 {
		t.Fatalf("expected 2 tasks, got %d", len(day))
	}
	for id, task := range day {
		if task.ID != id {
			t.Fatalf("task id must come from the map key: %q -> %+v", id, task)
		}
		if err := task.Validate(); err != nil {
			t.Fatalf("loaded task must validate: %v", err)
		}
	}
}

func TestBackupFallbackOnCorruptPrimary(t *testing.T) {
	s, dir := newTestStore(t)

	f := DefaultTasksFile()
	f.Level = 4
	if err := s.SaveTasks(f); err != nil {
		t.Fatalf("first save: %v", err)
	}
	f.Level = 5
	if err := s.SaveTasks(f); err != nil {
		t.Fatalf("second save: %v", err)
	}

	// Corrupt the primary; the backup holds the level-4 snapshot.
	path := filepath.Join(dir, tasksFileName)
	if err := os.WriteFile(path, []byte("{not json"), 0o644); err != nil {
		t.Fatalf("corrupt primary: %v", err)
	}

	got, err := s.LoadTasks()
	if err != nil {
		t.Fatalf("LoadTasks: %v", err)
	}
	if got.Level != 4 {
		t.Fatalf("expected backup snapshot level 4, got %d", got.Level)
	}
}

func TestDefaultsWhenBothUnreadable(t *testing.T) {
	s, dir := newTestStore(t)

	path := filepath.Join(dir, tasksFileName)
	if err := os.WriteFile(path, []byte("garbage"), 0o644); err != nil {
		t.Fatalf("write primary: %v", err)
	}
	if err := os.WriteFile(path+backupSuffix, []byte("also garbage"), 0o644); err != nil {
		t.Fatalf("write backup: %v", err)
	}

	got, err := s.LoadTasks()
	if err != nil {
		t.Fatalf("LoadTasks: %v", err)
	}
	if got.Level != 1 || got.TotalXP != 0 || len(got.Days) != 0 {
		t.Fatalf("expected defaults, got %+v", got)
	}
}

func TestCategoriesDefaults(t *testing.T) {
	s, _ := newTestStore(t)

	cats, err := s.LoadCategories()
	if err != nil {
		t.Fatalf("LoadCategories: %v", err)
	}
	if _, ok := cats[model.CategoryMiscellaneous]; !ok {
		t.Fatal("defaults must include the miscellaneous category")
	}
	if xp := cats["Medium"]; xp == nil || *xp != 10 {
		t.Fatalf("expected Medium default 10, got %v", xp)
	}

	five := 5
	cats["Custom"] = &five
	if err := s.SaveCategories(cats); err != nil {
		t.Fatalf("SaveCategories: %v", err)
	}
	got, err := s.LoadCategories()
	if err != nil {
		t.Fatalf("reload: %v", err)
	}
	if xp := got["Custom"]; xp == nil || *xp != 5 {
		t.Fatalf("custom category lost: %v", xp)
	}
	if xp, ok := got[model.CategoryMiscellaneous]; !ok || xp != nil {
		t.Fatal("miscellaneous must survive with no default XP")
	}
}

func TestGoalsDefaultUsesCurrentDate(t *testing.T) {
	s, _ := newTestStore(t)

	goals, err := s.LoadGoals("2026-03-02")
	if err != nil {
		t.Fatalf("LoadGoals: %v", err)
	}
	if goals.DailyGoal != 0 || goals.LastDailyReset != "2026-03-02" {
		t.Fatalf("unexpected defaults: %+v", goals)
	}

	goals.DailyGoal = 50
	if err := s.SaveGoals(goals); err != nil {
		t.Fatalf("SaveGoals: %v", err)
	}
	got, err := s.LoadGoals("2026-03-03")
	if err != nil {
		t.Fatalf("reload: %v", err)
	}
	if got.DailyGoal != 50 || got.LastDailyReset != "2026-03-02" {
		t.Fatalf("stored goals must win over defaults: %+v", got)
	}
}

func TestRecurringRoundTrip(t *testing.T) {
	s, _ := newTestStore(t)

	due := model.DueTime{Hour: 7, Minute: 0}
	defs := []model.RecurringTask{
		{
			ID:          "r1",
			Description: "Morning run",
			XP:          15,
			Recurrence:  model.RecurrenceWeekly,
			Weekdays:    []string{"Mon", "Wed", "Fri"},
			DueTime:     &due,
		},
	}
	if err := s.SaveRecurring(defs); err != nil {
		t.Fatalf("SaveRecurring: %v", err)
	}
	got, err := s.LoadRecurring()
	if err != nil {
		t.Fatalf("LoadRecurring: %v", err)
	}
	if len(got) != 1 {
		t.Fatalf("expected 1 definition, got %d", len(got))
	}
	d := got[0]
	if d.ID != "r1" || d.Recurrence != model.RecurrenceWeekly || len(d.Weekdays) != 3 {
		t.Fatalf("definition mismatch: %+v", d)
	}
	if d.DueTime == nil || d.DueTime.String() != "07:00" {
		t.Fatalf("due time lost: %+v", d.DueTime)
	}
}

func TestOpenSelectsBackend(t *testing.T) {
	dir := t.TempDir()
	s, err := Open(BackendFiles, dir)
	if err != nil {
		t.Fatalf("Open files: %v", err)
	}
	defer s.Close()
	if _, ok := s.(*FileStore); !ok {
		t.Fatalf("expected *FileStore, got %T", s)
	}

	if _, err := Open("bogus", dir); err == nil {
		t.Fatal("unknown backend must be rejected")
	}
}
