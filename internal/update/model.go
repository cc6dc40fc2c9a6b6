// Package update holds the bubbletea model and event loop: key handling,
// confirmation prompts, the command palette, and timer message routing.
package update

import (
	"fmt"

	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/textinput"

	"xpdash/internal/app"
	"xpdash/internal/model"
	"xpdash/internal/scheduler"
	"xpdash/internal/store"
	"xpdash/internal/views"
)

type View string

const (
	ViewToday     View = "today"
	ViewRecurring View = "recurring"
	ViewHistory   View = "history"
)

type StatusBar struct {
	Text    string
	IsError bool
}

type ConfirmKind string

const (
	ConfirmToggle ConfirmKind = "toggle"
	ConfirmDelete ConfirmKind = "delete"
)

type ConfirmState struct {
	Active   bool
	Kind     ConfirmKind
	TaskID   string
	Question string
}

type CommandPaletteState struct {
	Active bool
}

// HighXPThreshold is the XP at or above which completing a task asks for
// confirmation, guarding progression against accidental toggles.
const HighXPThreshold = 10

type Model struct {
	App       *app.App
	Scheduler *scheduler.Engine

	CurrentView View
	Cursor      int
	RecurCursor int

	Filter store.Filter
	Sort   store.Sort
	Search string

	QuickAddActive bool
	EditTaskID     string // task being edited through the quick-add line

	Palette     CommandPaletteState
	Confirm     ConfirmState
	HelpVisible bool
	Status      StatusBar
	Quitting    bool

	quickAddInput textinput.Model
	commandInput  textinput.Model
	levelBar      progress.Model
	goalBar       progress.Model
}

func NewModel(a *app.App, engine *scheduler.Engine) Model {
	m := Model{
		App:         a,
		Scheduler:   engine,
		CurrentView: ViewToday,
		Filter:      store.FilterAll,
		Sort:        store.SortIncompleteFirst,
	}

	m.quickAddInput = textinput.New()
	m.quickAddInput.Prompt = "add> "
	m.quickAddInput.CharLimit = 256
	m.quickAddInput.Width = 48

	m.commandInput = textinput.New()
	m.commandInput.Prompt = "/"
	m.commandInput.CharLimit = 256
	m.commandInput.Width = 48

	m.levelBar = progress.New(progress.WithDefaultGradient())
	m.goalBar = progress.New(progress.WithDefaultGradient())
	return m
}

// visibleTasks is the projection the cursor indexes into.
func (m Model) visibleTasks() []model.Task {
	return m.App.Tasks(store.Query{Filter: m.Filter, Search: m.Search, Sort: m.Sort})
}

func (m Model) selectedTask() (model.Task, bool) {
	tasks := m.visibleTasks()
	if len(tasks) == 0 || m.Cursor < 0 || m.Cursor >= len(tasks) {
		return model.Task{}, false
	}
	return tasks[m.Cursor], true
}

func (m *Model) clampCursor() {
	n := len(m.visibleTasks())
	if m.Cursor >= n {
		m.Cursor = n - 1
	}
	if m.Cursor < 0 {
		m.Cursor = 0
	}
	defs := m.App.Recurring()
	if m.RecurCursor >= len(defs) {
		m.RecurCursor = len(defs) - 1
	}
	if m.RecurCursor < 0 {
		m.RecurCursor = 0
	}
}

func (m *Model) setStatus(format string, args ...any) {
	m.Status = StatusBar{Text: fmt.Sprintf(format, args...)}
}

func (m *Model) setError(err error) {
	m.Status = StatusBar{Text: err.Error(), IsError: true}
}

func (m Model) taskItems() []views.TaskItemData {
	tasks := m.visibleTasks()
	items := make([]views.TaskItemData, 0, len(tasks))
	for _, t := range tasks {
		item := views.TaskItemData{
			ID:        t.ID,
			Title:     t.Description,
			Done:      t.Done,
			XP:        t.XP,
			Recurring: t.Recurring,
		}
		if t.DueTime != nil {
			item.DueAt = t.DueTime.String()
		}
		items = append(items, item)
	}
	return items
}
