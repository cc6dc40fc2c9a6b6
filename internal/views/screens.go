package views

import (
	"fmt"
	"sort"
	"strings"
)

type TaskItemData struct {
	ID        string
	Title     string
	Done      bool
	XP        int
	DueAt     string
	Recurring bool
}

type DayPanelData struct {
	Date         string
	Items        []TaskItemData
	Cursor       int
	QuickAddView string
	QuickAddMode string
	FilterLabel  string
	SearchLabel  string
}

type ProgressPanelData struct {
	Level        int
	XPIntoLevel  int
	XPNeeded     int
	TotalXP      int
	LevelBarView string
	DailyGoal    int
	EarnedToday  int
	GoalBarView  string
	UndoLine     string
}

type RecurringItemData struct {
	ID       string
	Title    string
	XP       int
	Schedule string
	DueAt    string
}

type RecurringPanelData struct {
	Items  []RecurringItemData
	Cursor int
}

type HistoryPanelData struct {
	// EarnedByDate maps ISO date to XP earned that day.
	EarnedByDate map[string]int
}

type ConfirmData struct {
	Question string
}

func RenderDayPanel(data DayPanelData) string {
	var b strings.Builder
	fmt.Fprintf(&b, "tasks for %s", data.Date)
	if data.FilterLabel != "" {
		fmt.Fprintf(&b, " | filter: %s", data.FilterLabel)
	}
	if data.SearchLabel != "" {
		fmt.Fprintf(&b, " | find: %s", data.SearchLabel)
	}
	b.WriteString("\n")

	if data.QuickAddView != "" {
		if data.QuickAddMode != "" {
			fmt.Fprintf(&b, "[%s] ", data.QuickAddMode)
		}
		b.WriteString(data.QuickAddView + "\n")
	}

	if len(data.Items) == 0 {
		b.WriteString("\n(no tasks)")
		return strings.TrimSpace(b.String())
	}
	for i, item := range data.Items {
		cursor := "  "
		if i == data.Cursor {
			cursor = cursorStyle.Render("> ")
		}
		check := "[ ]"
		title := item.Title
		if item.Done {
			check = "[x]"
			title = doneStyle.Render(title)
		}
		line := fmt.Sprintf("%s%s %s (%d XP)", cursor, check, title, item.XP)
		if item.DueAt != "" {
			line += " due:" + item.DueAt
		}
		if item.Recurring {
			line += " ↻"
		}
		b.WriteString(line + "\n")
	}
	return strings.TrimSuffix(b.String(), "\n")
}

func RenderProgressPanel(data ProgressPanelData) string {
	var b strings.Builder
	fmt.Fprintf(&b, "level %d  (%d/%d XP, %d total)\n", data.Level, data.XPIntoLevel, data.XPNeeded, data.TotalXP)
	b.WriteString(data.LevelBarView + "\n")
	if data.DailyGoal > 0 {
		fmt.Fprintf(&b, "\ndaily goal: %d/%d XP\n", data.EarnedToday, data.DailyGoal)
		b.WriteString(data.GoalBarView + "\n")
	} else {
		fmt.Fprintf(&b, "\nearned today: %d XP (no goal set)\n", data.EarnedToday)
	}
	if data.UndoLine != "" {
		b.WriteString("\n" + data.UndoLine)
	}
	return strings.TrimSpace(b.String())
}

func RenderRecurringPanel(data RecurringPanelData) string {
	var b strings.Builder
	b.WriteString("recurring tasks:\n")
	b.WriteString("actions: [j/k]move [d]delete [esc]back | palette: recur add ...\n\n")
	if len(data.Items) == 0 {
		b.WriteString("(no recurring tasks)")
		return b.String()
	}
	for i, item := range data.Items {
		cursor := "  "
		if i == data.Cursor {
			cursor = cursorStyle.Render("> ")
		}
		line := fmt.Sprintf("%s%s (%d XP) %s", cursor, item.Title, item.XP, item.Schedule)
		if item.DueAt != "" {
			line += " due:" + item.DueAt
		}
		fmt.Fprintf(&b, "%s  [%s]\n", line, item.ID)
	}
	return strings.TrimSuffix(b.String(), "\n")
}

func RenderHistoryPanel(data HistoryPanelData) string {
	if len(data.EarnedByDate) == 0 {
		return "history:\n(no XP earned yet)"
	}
	dates := make([]string, 0, len(data.EarnedByDate))
	for date := range data.EarnedByDate {
		dates = append(dates, date)
	}
	sort.Sort(sort.Reverse(sort.StringSlice(dates)))

	var b strings.Builder
	b.WriteString("history:\n")
	for _, date := range dates {
		fmt.Fprintf(&b, "%s  %4d XP\n", date, data.EarnedByDate[date])
	}
	return strings.TrimSuffix(b.String(), "\n")
}

func RenderConfirm(data ConfirmData) string {
	return fmt.Sprintf("%s [y/n]", data.Question)
}

func RenderCommandPalette(active bool, inputView string) string {
	if !active {
		return ""
	}
	return "command: " + inputView
}
