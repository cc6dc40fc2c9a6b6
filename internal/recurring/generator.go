// Package recurring materializes due recurring definitions into concrete day
// tasks, exactly once per definition per day.
package recurring

import (
	"fmt"

	"github.com/google/uuid"

	"xpdash/internal/model"
	"xpdash/internal/store"
)

// Generate ensures every due definition has an instance in the day store for
// the store's date. Definitions are updated in place: any definition visited
// for this date gets its LastGenerated advanced, whether or not an instance
// was created, so repeated loads of the same day never duplicate and a
// manually deleted instance is not re-created later the same day.
//
// Duplicate suppression is keyed by description text, not definition id, so
// two definitions sharing a description suppress each other. That mirrors the
// historical behavior this tool has always had.
func Generate(defs []model.RecurringTask, day *store.DayStore) ([]model.Task, bool, error) {
	date, err := model.ParseDate(day.Date())
	if err != nil {
		return nil, false, fmt.Errorf("recurring: %w", err)
	}
	weekday := model.WeekdayTag(date)
	present := day.Descriptions()

	var created []model.Task
	changed := false

	for i := range defs {
		def := &defs[i]

		eligible := def.LastGenerated == "" || def.LastGenerated < day.Date()
		if !eligible || !def.OccursOn(weekday) {
			continue
		}

		if !present[def.Description] {
			instance := model.Task{
				ID:          uuid.NewString(),
				Description: def.Description,
				XP:          def.XP,
				DueTime:     def.DueTime,
				Recurring:   true,
			}
			if err := day.Insert(instance); err != nil {
				return created, changed, fmt.Errorf("recurring: insert instance for %q: %w", def.Description, err)
			}
			created = append(created, instance)
			present[def.Description] = true
		}

		// Eligible-but-suppressed still counts as visited today.
		def.LastGenerated = day.Date()
		changed = true
	}
	return created, changed, nil
}
