package update

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"xpdash/internal/commands"
)

func (m Model) handleTodayKey(keyStr string) Model {
	switch keyStr {
	case "j", "down":
		if m.Cursor < len(m.visibleTasks())-1 {
			m.Cursor++
		}
	case "k", "up":
		if m.Cursor > 0 {
			m.Cursor--
		}
	case "a":
		m.QuickAddActive = true
		m.EditTaskID = ""
		m.quickAddInput.SetValue("")
		m.quickAddInput.Focus()
	case "e":
		task, ok := m.selectedTask()
		if !ok {
			m.setStatus("nothing selected")
			return m
		}
		m.QuickAddActive = true
		m.EditTaskID = task.ID
		line := fmt.Sprintf("%s xp:%d", task.Description, task.XP)
		if task.DueTime != nil {
			line += " due:" + task.DueTime.String()
		}
		m.quickAddInput.SetValue(line)
		m.quickAddInput.Focus()
		m.quickAddInput.CursorEnd()
	case " ", "enter":
		m.toggleSelected()
	case "d":
		task, ok := m.selectedTask()
		if !ok {
			m.setStatus("nothing selected")
			return m
		}
		m.Confirm = ConfirmState{
			Active:   true,
			Kind:     ConfirmDelete,
			TaskID:   task.ID,
			Question: fmt.Sprintf("delete %q?", task.Description),
		}
	}
	return m
}

// toggleSelected flips the selected task, asking first when completing a task
// worth HighXPThreshold or more.
func (m *Model) toggleSelected() {
	task, ok := m.selectedTask()
	if !ok {
		m.setStatus("nothing selected")
		return
	}
	if !task.Done && task.XP >= HighXPThreshold {
		m.Confirm = ConfirmState{
			Active:   true,
			Kind:     ConfirmToggle,
			TaskID:   task.ID,
			Question: fmt.Sprintf("complete %q for %d XP?", task.Description, task.XP),
		}
		return
	}
	m.performToggle(task.ID)
}

func (m *Model) performToggle(id string) {
	res, err := m.App.ToggleTask(id)
	if err != nil {
		m.setError(err)
		return
	}
	switch {
	case len(res.LevelUps) > 0:
		m.setStatus("level up! now level %d (+%d XP)", res.LevelUps[len(res.LevelUps)-1].Level, res.Delta)
	case res.GoalMet:
		m.setStatus("daily goal reached! (+%d XP)", res.Delta)
	case res.Delta >= 0:
		m.setStatus("+%d XP", res.Delta)
	default:
		m.setStatus("%d XP", res.Delta)
	}
	m.clampCursor()
}

func (m *Model) performDelete(id string) {
	task, err := m.App.DeleteTask(id)
	if err != nil {
		m.setError(err)
		return
	}
	m.setStatus("deleted %q - press u to undo", task.Description)
	m.clampCursor()
}

func (m Model) handleConfirmKey(keyStr string) Model {
	confirm := m.Confirm
	m.Confirm = ConfirmState{}
	switch keyStr {
	case "y", "Y":
		switch confirm.Kind {
		case ConfirmToggle:
			m.performToggle(confirm.TaskID)
		case ConfirmDelete:
			m.performDelete(confirm.TaskID)
		}
	default:
		m.setStatus("cancelled")
	}
	return m
}

// handleQuickAddKey routes keys into the quick-add line. The line reuses the
// palette grammar for modifiers, so "milk run xp:5 due:18:00 cat:Easy" works.
func (m Model) handleQuickAddKey(key tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch key.String() {
	case "esc":
		m.QuickAddActive = false
		m.EditTaskID = ""
		m.quickAddInput.Blur()
		return m, nil
	case "enter":
		line := strings.TrimSpace(m.quickAddInput.Value())
		m.QuickAddActive = false
		m.quickAddInput.Blur()
		if line == "" {
			m.EditTaskID = ""
			return m, nil
		}
		m.submitQuickAdd(line)
		return m, nil
	}
	var cmd tea.Cmd
	m.quickAddInput, cmd = m.quickAddInput.Update(key)
	return m, cmd
}

func (m *Model) submitQuickAdd(line string) {
	editID := m.EditTaskID
	m.EditTaskID = ""

	cmd, err := commands.Parse("add " + line)
	if err != nil {
		m.setError(err)
		return
	}
	args := cmd.Add

	xp, err := m.App.ResolveXP(args.XP, args.HasXP, args.Category)
	if err != nil {
		m.setError(err)
		return
	}

	if editID != "" {
		res, err := m.App.EditTask(editID, args.Description, xp, args.Due)
		if err != nil {
			m.setError(err)
			return
		}
		m.setStatus("updated %q", res.Task.Description)
		return
	}

	task, err := m.App.AddTask(args.Description, xp, args.Due)
	if err != nil {
		m.setError(err)
		return
	}
	m.setStatus("added %q (%d XP)", task.Description, task.XP)
}
