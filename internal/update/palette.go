package update

import (
	"fmt"
	"sort"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"xpdash/internal/commands"
	"xpdash/internal/store"
)

func (m Model) handlePaletteKey(key tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch key.String() {
	case "esc":
		m.Palette.Active = false
		m.commandInput.Blur()
		m.setStatus("palette closed")
		return m, nil
	case "enter":
		input := m.commandInput.Value()
		m.Palette.Active = false
		m.commandInput.Blur()
		m.runCommand(input)
		return m, nil
	}
	var cmd tea.Cmd
	m.commandInput, cmd = m.commandInput.Update(key)
	return m, cmd
}

func (m *Model) runCommand(input string) {
	cmd, err := commands.Parse(input)
	if err != nil {
		m.setError(err)
		return
	}
	result, err := commands.Execute(cmd, m.handlers())
	if err != nil {
		m.setError(err)
		return
	}
	if result.Message != "" {
		m.setStatus("%s", result.Message)
	}
	m.clampCursor()
}

func (m *Model) handlers() commands.Handlers {
	return commands.Handlers{
		Add: func(args commands.AddArgs) (commands.Result, error) {
			xp, err := m.App.ResolveXP(args.XP, args.HasXP, args.Category)
			if err != nil {
				return commands.Result{}, err
			}
			task, err := m.App.AddTask(args.Description, xp, args.Due)
			if err != nil {
				return commands.Result{}, err
			}
			return commands.Result{Message: fmt.Sprintf("added %q (%d XP)", task.Description, task.XP)}, nil
		},
		Goal: func(args commands.GoalArgs) (commands.Result, error) {
			if err := m.App.SetDailyGoal(args.Target); err != nil {
				return commands.Result{}, err
			}
			if args.Target == 0 {
				return commands.Result{Message: "daily goal cleared"}, nil
			}
			return commands.Result{Message: fmt.Sprintf("daily goal set to %d XP", args.Target)}, nil
		},
		Date: func(args commands.DateArgs) (commands.Result, error) {
			if err := m.App.SelectDate(args.Date); err != nil {
				return commands.Result{}, err
			}
			m.CurrentView = ViewToday
			m.Cursor = 0
			return commands.Result{Message: fmt.Sprintf("viewing %s", m.App.Date())}, nil
		},
		Find: func(args commands.FindArgs) (commands.Result, error) {
			m.Search = args.Text
			m.Cursor = 0
			if args.Text == "" {
				return commands.Result{Message: "search cleared"}, nil
			}
			return commands.Result{Message: fmt.Sprintf("finding %q", args.Text)}, nil
		},
		Sort: func(args commands.SortArgs) (commands.Result, error) {
			m.Sort = store.Sort(args.Mode)
			return commands.Result{Message: fmt.Sprintf("sorted by %s", args.Mode)}, nil
		},
		Filter: func(args commands.FilterArgs) (commands.Result, error) {
			switch args.Mode {
			case "todo":
				m.Filter = store.FilterNotDone
			default:
				m.Filter = store.Filter(args.Mode)
			}
			m.Cursor = 0
			return commands.Result{Message: fmt.Sprintf("filter: %s", args.Mode)}, nil
		},
		Recur: m.handleRecurCommand,
		Cat:   m.handleCatCommand,
	}
}

func (m *Model) handleCatCommand(args commands.CatArgs) (commands.Result, error) {
	switch args.Action {
	case "list":
		cats := m.App.Categories()
		names := make([]string, 0, len(cats))
		for name, xp := range cats {
			if xp == nil {
				names = append(names, name)
			} else {
				names = append(names, fmt.Sprintf("%s:%d", name, *xp))
			}
		}
		sort.Strings(names)
		return commands.Result{Message: "categories: " + strings.Join(names, "  ")}, nil
	case "set":
		if err := m.App.SetCategory(args.Name, args.XP); err != nil {
			return commands.Result{}, err
		}
		if args.XP == nil {
			return commands.Result{Message: fmt.Sprintf("category %q set (no default XP)", args.Name)}, nil
		}
		return commands.Result{Message: fmt.Sprintf("category %q set to %d XP", args.Name, *args.XP)}, nil
	case "delete":
		if err := m.App.DeleteCategory(args.Name); err != nil {
			return commands.Result{}, err
		}
		return commands.Result{Message: fmt.Sprintf("category %q deleted", args.Name)}, nil
	default:
		return commands.Result{}, &commands.CommandError{
			Code:    commands.ErrCodeInvalidArgument,
			Message: fmt.Sprintf("unknown cat action: %s", args.Action),
		}
	}
}

func (m *Model) handleRecurCommand(args commands.RecurArgs) (commands.Result, error) {
	switch args.Action {
	case "list":
		m.CurrentView = ViewRecurring
		return commands.Result{Message: "recurring tasks"}, nil
	case "delete":
		if err := m.App.DeleteRecurring(args.TargetID); err != nil {
			return commands.Result{}, err
		}
		return commands.Result{Message: "recurring task deleted"}, nil
	case "add":
		def, err := m.App.AddRecurring(args.Description, args.XP, args.Recurrence, args.Weekdays, args.Due)
		if err != nil {
			return commands.Result{}, err
		}
		schedule := string(def.Recurrence)
		if len(def.Weekdays) > 0 {
			schedule += " " + strings.Join(def.Weekdays, ",")
		}
		return commands.Result{Message: fmt.Sprintf("recurring %q (%s)", def.Description, schedule)}, nil
	case "edit":
		def, err := m.App.EditRecurring(args.TargetID, args.Description, args.XP, args.Recurrence, args.Weekdays, args.Due)
		if err != nil {
			return commands.Result{}, err
		}
		return commands.Result{Message: fmt.Sprintf("recurring %q updated", def.Description)}, nil
	default:
		return commands.Result{}, &commands.CommandError{
			Code:    commands.ErrCodeInvalidArgument,
			Message: fmt.Sprintf("unknown recur action: %s", args.Action),
		}
	}
}
