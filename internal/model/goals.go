package model

import (
	"errors"
	"fmt"
)

var ErrNegativeGoal = errors.New("model: daily goal must not be negative")

// Goals holds the daily XP goal and the date goal tracking was last zeroed.
// Daily XP earned is always recomputed from done tasks, never stored.
type Goals struct {
	DailyGoal      int    `json:"daily_goal"`
	LastDailyReset string `json:"last_daily_reset"`
}

func (g Goals) Validate() error {
	if g.DailyGoal < 0 {
		return fmt.Errorf("%w: %d", ErrNegativeGoal, g.DailyGoal)
	}
	if g.LastDailyReset != "" {
		if _, err := ParseDate(g.LastDailyReset); err != nil {
			return err
		}
	}
	return nil
}

// CategoryMiscellaneous is the fallback category; it cannot be deleted and
// carries no default XP.
const CategoryMiscellaneous = "Miscellaneous"

// Categories maps a category name to an optional default XP value used to
// prefill new tasks. A nil value means the user is asked for XP manually.
type Categories map[string]*int

func DefaultCategories() Categories {
	easy, medium, hard := 5, 10, 15
	return Categories{
		"Easy":                &easy,
		"Medium":              &medium,
		"Hard":                &hard,
		CategoryMiscellaneous: nil,
	}
}
