package model

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// DateLayout is the calendar-date key format used everywhere tasks are
// grouped by day.
const DateLayout = "2006-01-02"

var (
	ErrEmptyDescription = errors.New("model: task description is empty")
	ErrNegativeXP       = errors.New("model: task xp must not be negative")
)

// Task is one actionable item for a specific day. The JSON field names match
// the on-disk layout ("task" carries the description for historical reasons).
type Task struct {
	ID          string   `json:"id"`
	Description string   `json:"task"`
	Done        bool     `json:"done"`
	XP          int      `json:"xp"`
	DueTime     *DueTime `json:"due_time,omitempty"`
	Recurring   bool     `json:"is_recurring_instance,omitempty"`
}

func (t Task) Validate() error {
	if strings.TrimSpace(t.ID) == "" {
		return errors.New("model: task id is required")
	}
	if strings.TrimSpace(t.Description) == "" {
		return ErrEmptyDescription
	}
	if t.XP < 0 {
		return fmt.Errorf("%w: %d", ErrNegativeXP, t.XP)
	}
	if t.DueTime != nil {
		if err := t.DueTime.Validate(); err != nil {
			return err
		}
	}
	return nil
}

func DateOf(t time.Time) string {
	return t.Format(DateLayout)
}

// ParseDate validates a calendar-date key.
func ParseDate(s string) (time.Time, error) {
	d, err := time.Parse(DateLayout, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("model: invalid date %q: %w", s, err)
	}
	return d, nil
}
