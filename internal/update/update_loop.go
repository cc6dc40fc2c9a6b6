package update

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"

	"xpdash/internal/leveling"
	"xpdash/internal/scheduler"
	"xpdash/internal/store"
	"xpdash/internal/views"
)

// TimerDueMsg carries a fired scheduler event into the bubbletea loop.
type TimerDueMsg struct {
	Event scheduler.Event
}

func (m Model) Init() tea.Cmd {
	if m.Scheduler != nil {
		return waitForTimerCmd(m.Scheduler.C())
	}
	return nil
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch typed := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(typed)

	case TimerDueMsg:
		if err := m.App.HandleTimer(typed.Event); err != nil {
			m.setError(err)
		}
		switch typed.Event.Kind {
		case scheduler.KindReminder:
			m.setStatus("reminder fired")
		case scheduler.KindUndoExpiry:
			m.setStatus("deletion finalized")
		}
		m.clampCursor()
		if m.Scheduler != nil {
			return m, waitForTimerCmd(m.Scheduler.C())
		}
		return m, nil
	}
	return m, nil
}

func (m Model) handleKey(key tea.KeyMsg) (tea.Model, tea.Cmd) {
	keyStr := key.String()

	if keyStr == "ctrl+c" {
		m.Quitting = true
		return m, tea.Quit
	}

	if m.Confirm.Active {
		return m.handleConfirmKey(keyStr), nil
	}
	if m.Palette.Active {
		return m.handlePaletteKey(key)
	}
	if m.QuickAddActive {
		return m.handleQuickAddKey(key)
	}

	switch keyStr {
	case "q":
		m.Quitting = true
		return m, tea.Quit
	case "/":
		m.Palette.Active = true
		m.commandInput.SetValue("")
		m.commandInput.Focus()
		m.setStatus("command palette active")
		return m, nil
	case "?":
		m.HelpVisible = !m.HelpVisible
		return m, nil
	case "1", "esc":
		m.CurrentView = ViewToday
		return m, nil
	case "2":
		m.CurrentView = ViewRecurring
		return m, nil
	case "3":
		m.CurrentView = ViewHistory
		return m, nil
	case "u":
		restored, err := m.App.Undo()
		if err != nil {
			m.setError(err)
		} else {
			m.setStatus("restored %q", restored.Description)
		}
		m.clampCursor()
		return m, nil
	}

	switch m.CurrentView {
	case ViewToday:
		return m.handleTodayKey(keyStr), nil
	case ViewRecurring:
		return m.handleRecurringKey(keyStr), nil
	}
	return m, nil
}

func (m Model) View() string {
	header := fmt.Sprintf("xpdash | %s | view: %s", m.App.Date(), m.CurrentView)

	body := ""
	switch m.CurrentView {
	case ViewToday:
		body = m.renderTodayPanel()
	case ViewRecurring:
		body = m.renderRecurringPanel()
	case ViewHistory:
		body = views.RenderHistoryPanel(views.HistoryPanelData{EarnedByDate: m.App.History()})
	}

	if m.Confirm.Active {
		body += "\n\n" + views.RenderConfirm(views.ConfirmData{Question: m.Confirm.Question})
	}
	if m.Palette.Active {
		body += "\n\n" + views.RenderCommandPalette(true, m.commandInput.View())
	}

	side := m.renderProgressPanel()
	if m.HelpVisible {
		side = m.renderHelp()
	}

	return views.RenderApp(views.AppData{
		Header:     header,
		Body:       body,
		SidePane:   side,
		StatusLine: m.Status.Text,
		IsError:    m.Status.IsError,
		Footer:     "keys: a add | e edit | space toggle | d delete | u undo | / cmd | 1 today | 2 recur | 3 history | ? help | q quit",
	})
}

func (m Model) renderTodayPanel() string {
	quickAdd := ""
	mode := ""
	if m.QuickAddActive {
		quickAdd = m.quickAddInput.View()
		if m.EditTaskID != "" {
			mode = "edit"
		}
	}
	filterLabel := ""
	if m.Filter != "" && m.Filter != store.FilterAll {
		filterLabel = string(m.Filter)
	}
	return views.RenderDayPanel(views.DayPanelData{
		Date:         m.App.Date(),
		Items:        m.taskItems(),
		Cursor:       m.Cursor,
		QuickAddView: quickAdd,
		QuickAddMode: mode,
		FilterLabel:  filterLabel,
		SearchLabel:  m.Search,
	})
}

func (m Model) renderProgressPanel() string {
	p := m.App.Progress()
	need := leveling.XPNeededForLevel(p.Level)

	levelRatio := 0.0
	if need > 0 {
		levelRatio = float64(p.XP) / float64(need)
	}

	goals := m.App.Goals()
	earned := m.App.DoneXP()
	goalBar := ""
	if goals.DailyGoal > 0 {
		ratio := float64(earned) / float64(goals.DailyGoal)
		if ratio > 1 {
			ratio = 1
		}
		goalBar = m.goalBar.ViewAs(ratio)
	}

	undoLine := ""
	if pending, ok := m.App.PendingUndo(); ok {
		undoLine = fmt.Sprintf("deleted %q - press u to undo (until %s)",
			pending.Task.Description, pending.Deadline.Format("15:04:05"))
	}

	return views.RenderProgressPanel(views.ProgressPanelData{
		Level:        p.Level,
		XPIntoLevel:  p.XP,
		XPNeeded:     need,
		TotalXP:      m.App.TotalXP(),
		LevelBarView: m.levelBar.ViewAs(levelRatio),
		DailyGoal:    goals.DailyGoal,
		EarnedToday:  earned,
		GoalBarView:  goalBar,
		UndoLine:     undoLine,
	})
}

func waitForTimerCmd(ch <-chan scheduler.Event) tea.Cmd {
	if ch == nil {
		return nil
	}
	return func() tea.Msg {
		ev, ok := <-ch
		if !ok {
			return nil
		}
		return TimerDueMsg{Event: ev}
	}
}
