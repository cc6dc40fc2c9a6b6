package model

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

type RecurrenceType string

const (
	RecurrenceDaily  RecurrenceType = "daily"
	RecurrenceWeekly RecurrenceType = "weekly"
)

func (r RecurrenceType) IsValid() bool {
	switch r {
	case RecurrenceDaily, RecurrenceWeekly:
		return true
	default:
		return false
	}
}

var (
	ErrInvalidRecurrenceType = errors.New("model: invalid recurrence type")
	ErrNoWeekdays            = errors.New("model: weekly recurrence needs at least one weekday")
	ErrInvalidWeekday        = errors.New("model: invalid weekday tag")
)

// Weekday tags as stored on weekly definitions ("Mon".."Sun").
var weekdayTags = map[string]bool{
	"Mon": true, "Tue": true, "Wed": true, "Thu": true,
	"Fri": true, "Sat": true, "Sun": true,
}

// WeekdayTag returns the tag for a date, e.g. "Mon".
func WeekdayTag(t time.Time) string {
	return t.Format("Mon")
}

// RecurringTask is a template from which daily task instances are generated.
// LastGenerated is the most recent date (inclusive) an instance was
// materialized for; it prevents re-generation within the same day.
type RecurringTask struct {
	ID            string         `json:"id"`
	Description   string         `json:"task"`
	XP            int            `json:"xp"`
	Recurrence    RecurrenceType `json:"recurrence_type"`
	Weekdays      []string       `json:"recurrence_value,omitempty"`
	DueTime       *DueTime       `json:"due_time,omitempty"`
	LastGenerated string         `json:"last_generated_date,omitempty"`
}

func (r RecurringTask) Validate() error {
	if strings.TrimSpace(r.ID) == "" {
		return errors.New("model: recurring task id is required")
	}
	if strings.TrimSpace(r.Description) == "" {
		return ErrEmptyDescription
	}
	if r.XP < 0 {
		return fmt.Errorf("%w: %d", ErrNegativeXP, r.XP)
	}
	if !r.Recurrence.IsValid() {
		return fmt.Errorf("%w: %q", ErrInvalidRecurrenceType, r.Recurrence)
	}
	if r.Recurrence == RecurrenceWeekly {
		if len(r.Weekdays) == 0 {
			return ErrNoWeekdays
		}
		seen := make(map[string]bool, len(r.Weekdays))
		for _, day := range r.Weekdays {
			if !weekdayTags[day] {
				return fmt.Errorf("%w: %q", ErrInvalidWeekday, day)
			}
			if seen[day] {
				return fmt.Errorf("model: duplicate weekday %q", day)
			}
			seen[day] = true
		}
	}
	if r.DueTime != nil {
		if err := r.DueTime.Validate(); err != nil {
			return err
		}
	}
	if r.LastGenerated != "" {
		if _, err := ParseDate(r.LastGenerated); err != nil {
			return err
		}
	}
	return nil
}

// OccursOn reports whether the definition is due on the given weekday tag.
// Daily definitions occur every day.
func (r RecurringTask) OccursOn(weekday string) bool {
	if r.Recurrence == RecurrenceDaily {
		return true
	}
	for _, day := range r.Weekdays {
		if day == weekday {
			return true
		}
	}
	return false
}
