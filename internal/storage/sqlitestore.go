package storage

import (
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	_ "github.com/mattn/go-sqlite3"

	"xpdash/internal/model"
)

const sqliteFileName = "xpdash.db"

const sqliteSchema = `
CREATE TABLE IF NOT EXISTS tasks (
	date        TEXT NOT NULL,
	id          TEXT NOT NULL,
	description TEXT NOT NULL,
	done        INTEGER NOT NULL DEFAULT 0,
	xp          INTEGER NOT NULL DEFAULT 0,
	due_time    TEXT,
	recurring   INTEGER NOT NULL DEFAULT 0,
	PRIMARY KEY (date, id)
);
CREATE TABLE IF NOT EXISTS progression (
	id       INTEGER PRIMARY KEY CHECK (id = 1),
	level    INTEGER NOT NULL,
	total_xp INTEGER NOT NULL
);
CREATE TABLE IF NOT EXISTS categories (
	name       TEXT PRIMARY KEY,
	default_xp INTEGER
);
CREATE TABLE IF NOT EXISTS goals (
	id               INTEGER PRIMARY KEY CHECK (id = 1),
	daily_goal       INTEGER NOT NULL,
	last_daily_reset TEXT NOT NULL
);
CREATE TABLE IF NOT EXISTS recurring_tasks (
	id              TEXT PRIMARY KEY,
	description     TEXT NOT NULL,
	xp              INTEGER NOT NULL DEFAULT 0,
	recurrence_type TEXT NOT NULL,
	weekdays        TEXT,
	due_time        TEXT,
	last_generated  TEXT
);
`

// SQLiteStore implements the same per-category contract over a local sqlite
// database. The schema is bootstrapped on open.
type SQLiteStore struct {
	db *sql.DB
}

func OpenSQLite(dir string) (*SQLiteStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("storage: create data dir: %w", err)
	}
	db, err := sql.Open("sqlite3", filepath.Join(dir, sqliteFileName))
	if err != nil {
		return nil, fmt.Errorf("storage: open sqlite: %w", err)
	}
	store, err := NewSQLiteStore(db)
	if err != nil {
		_ = db.Close()
		return nil, err
	}
	return store, nil
}

func NewSQLiteStore(db *sql.DB) (*SQLiteStore, error) {
	if db == nil {
		return nil, errors.New("storage: nil db")
	}
	if _, err := db.Exec(sqliteSchema); err != nil {
		return nil, fmt.Errorf("storage: bootstrap schema: %w", err)
	}
	return &SQLiteStore{db: db}, nil
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

func (s *SQLiteStore) LoadTasks() (TasksFile, error) {
	f := DefaultTasksFile()

	rows, err := s.db.Query(`SELECT date, id, description, done, xp, due_time, recurring FROM tasks`)
	if err != nil {
		return f, fmt.Errorf("storage: load tasks: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var (
			date, id, description string
			done, recurring       int
			xp                    int
			due                   sql.NullString
		)
		if err := rows.Scan(&date, &id, &description, &done, &xp, &due, &recurring); err != nil {
			return f, fmt.Errorf("storage: scan task: %w", err)
		}
		task := model.Task{
			ID:          id,
			Description: description,
			Done:        done != 0,
			XP:          xp,
			Recurring:   recurring != 0,
		}
		if due.Valid && due.String != "" {
			parsed, err := model.ParseDueTime(due.String)
			if err == nil {
				task.DueTime = &parsed
			}
		}
		if f.Days[date] == nil {
			f.Days[date] = make(map[string]model.Task)
		}
		f.Days[date][id] = task
	}
	if err := rows.Err(); err != nil {
		return f, fmt.Errorf("storage: load tasks: %w", err)
	}

	row := s.db.QueryRow(`SELECT level, total_xp FROM progression WHERE id = 1`)
	switch err := row.Scan(&f.Level, &f.TotalXP); {
	case err == nil:
	case errors.Is(err, sql.ErrNoRows):
		f.Level, f.TotalXP = 1, 0
	default:
		return f, fmt.Errorf("storage: load progression: %w", err)
	}
	return f, nil
}

func (s *SQLiteStore) SaveTasks(f TasksFile) error {
	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("storage: save tasks: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.Exec(`DELETE FROM tasks`); err != nil {
		return fmt.Errorf("storage: clear tasks: %w", err)
	}
	for date, tasks := range f.Days {
		for _, task := range tasks {
			if _, err := tx.Exec(`
				INSERT INTO tasks (date, id, description, done, xp, due_time, recurring)
				VALUES (?, ?, ?, ?, ?, ?, ?)`,
				date, task.ID, task.Description, boolInt(task.Done), task.XP,
				dueString(task.DueTime), boolInt(task.Recurring),
			); err != nil {
				return fmt.Errorf("storage: insert task %s: %w", task.ID, err)
			}
		}
	}
	if _, err := tx.Exec(`
		INSERT INTO progression (id, level, total_xp) VALUES (1, ?, ?)
		ON CONFLICT (id) DO UPDATE SET level = excluded.level, total_xp = excluded.total_xp`,
		f.Level, f.TotalXP,
	); err != nil {
		return fmt.Errorf("storage: save progression: %w", err)
	}
	return tx.Commit()
}

func (s *SQLiteStore) LoadCategories() (model.Categories, error) {
	rows, err := s.db.Query(`SELECT name, default_xp FROM categories`)
	if err != nil {
		return nil, fmt.Errorf("storage: load categories: %w", err)
	}
	defer rows.Close()

	cats := make(model.Categories)
	for rows.Next() {
		var (
			name string
			xp   sql.NullInt64
		)
		if err := rows.Scan(&name, &xp); err != nil {
			return nil, fmt.Errorf("storage: scan category: %w", err)
		}
		if xp.Valid {
			v := int(xp.Int64)
			cats[name] = &v
		} else {
			cats[name] = nil
		}
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("storage: load categories: %w", err)
	}
	if len(cats) == 0 {
		return model.DefaultCategories(), nil
	}
	return cats, nil
}

func (s *SQLiteStore) SaveCategories(cats model.Categories) error {
	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("storage: save categories: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.Exec(`DELETE FROM categories`); err != nil {
		return fmt.Errorf("storage: clear categories: %w", err)
	}
	for name, xp := range cats {
		var val any
		if xp != nil {
			val = *xp
		}
		if _, err := tx.Exec(`INSERT INTO categories (name, default_xp) VALUES (?, ?)`, name, val); err != nil {
			return fmt.Errorf("storage: insert category %s: %w", name, err)
		}
	}
	return tx.Commit()
}

func (s *SQLiteStore) LoadGoals(currentDate string) (model.Goals, error) {
	row := s.db.QueryRow(`SELECT daily_goal, last_daily_reset FROM goals WHERE id = 1`)
	var goals model.Goals
	switch err := row.Scan(&goals.DailyGoal, &goals.LastDailyReset); {
	case err == nil:
		return goals, nil
	case errors.Is(err, sql.ErrNoRows):
		return model.Goals{DailyGoal: 0, LastDailyReset: currentDate}, nil
	default:
		return model.Goals{}, fmt.Errorf("storage: load goals: %w", err)
	}
}

func (s *SQLiteStore) SaveGoals(goals model.Goals) error {
	_, err := s.db.Exec(`
		INSERT INTO goals (id, daily_goal, last_daily_reset) VALUES (1, ?, ?)
		ON CONFLICT (id) DO UPDATE SET daily_goal = excluded.daily_goal, last_daily_reset = excluded.last_daily_reset`,
		goals.DailyGoal, goals.LastDailyReset,
	)
	if err != nil {
		return fmt.Errorf("storage: save goals: %w", err)
	}
	return nil
}

func (s *SQLiteStore) LoadRecurring() ([]model.RecurringTask, error) {
	rows, err := s.db.Query(`
		SELECT id, description, xp, recurrence_type, weekdays, due_time, last_generated
		FROM recurring_tasks ORDER BY description ASC`)
	if err != nil {
		return nil, fmt.Errorf("storage: load recurring: %w", err)
	}
	defer rows.Close()

	defs := make([]model.RecurringTask, 0)
	for rows.Next() {
		var (
			def                 model.RecurringTask
			weekdays, due, last sql.NullString
		)
		if err := rows.Scan(&def.ID, &def.Description, &def.XP, &def.Recurrence, &weekdays, &due, &last); err != nil {
			return nil, fmt.Errorf("storage: scan recurring: %w", err)
		}
		if weekdays.Valid && weekdays.String != "" {
			def.Weekdays = strings.Split(weekdays.String, ",")
		}
		if due.Valid && due.String != "" {
			parsed, err := model.ParseDueTime(due.String)
			if err == nil {
				def.DueTime = &parsed
			}
		}
		if last.Valid {
			def.LastGenerated = last.String
		}
		defs = append(defs, def)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("storage: load recurring: %w", err)
	}
	return defs, nil
}

func (s *SQLiteStore) SaveRecurring(defs []model.RecurringTask) error {
	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("storage: save recurring: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.Exec(`DELETE FROM recurring_tasks`); err != nil {
		return fmt.Errorf("storage: clear recurring: %w", err)
	}
	for _, def := range defs {
		if _, err := tx.Exec(`
			INSERT INTO recurring_tasks (id, description, xp, recurrence_type, weekdays, due_time, last_generated)
			VALUES (?, ?, ?, ?, ?, ?, ?)`,
			def.ID, def.Description, def.XP, string(def.Recurrence),
			strings.Join(def.Weekdays, ","), dueString(def.DueTime), def.LastGenerated,
		); err != nil {
			return fmt.Errorf("storage: insert recurring %s: %w", def.ID, err)
		}
	}
	return tx.Commit()
}

func boolInt(b bool) int {
	if b {
		return 1
	}
	return 0
}

func dueString(d *model.DueTime) any {
	if d == nil {
		return nil
	}
	return d.String()
}
