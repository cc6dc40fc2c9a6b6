package update

import (
	"strings"

	"xpdash/internal/views"
)

func (m Model) handleRecurringKey(keyStr string) Model {
	defs := m.App.Recurring()
	switch keyStr {
	case "j", "down":
		if m.RecurCursor < len(defs)-1 {
			m.RecurCursor++
		}
	case "k", "up":
		if m.RecurCursor > 0 {
			m.RecurCursor--
		}
	case "d":
		if m.RecurCursor < 0 || m.RecurCursor >= len(defs) {
			m.setStatus("nothing selected")
			return m
		}
		def := defs[m.RecurCursor]
		if err := m.App.DeleteRecurring(def.ID); err != nil {
			m.setError(err)
			return m
		}
		m.setStatus("removed recurring %q", def.Description)
		m.clampCursor()
	}
	return m
}

func (m Model) renderRecurringPanel() string {
	defs := m.App.Recurring()
	items := make([]views.RecurringItemData, 0, len(defs))
	for _, def := range defs {
		schedule := string(def.Recurrence)
		if len(def.Weekdays) > 0 {
			schedule += " " + strings.Join(def.Weekdays, ",")
		}
		item := views.RecurringItemData{
			ID:       def.ID,
			Title:    def.Description,
			XP:       def.XP,
			Schedule: schedule,
		}
		if def.DueTime != nil {
			item.DueAt = def.DueTime.String()
		}
		items = append(items, item)
	}
	return views.RenderRecurringPanel(views.RecurringPanelData{Items: items, Cursor: m.RecurCursor})
}
