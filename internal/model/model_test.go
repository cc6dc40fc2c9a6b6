package model

import (
	"encoding/json"
	"errors"
	"testing"
	"time"
)

func TestTaskValidateSuccess(t *testing.T) {
	due := DueTime{Hour: 9, Minute: 30}
	task := Task{
		ID:          "task-1",
		Description: "Water the plants",
		XP:          10,
		DueTime:     &due,
	}
	if err := task.Validate(); err != nil {
		t.Fatalf("expected valid task, got error: %v", err)
	}
}

func TestTaskValidateEmptyDescription(t *testing.T) {
	task := Task{ID: "task-1", Description: "   "}
	if err := task.Validate(); !errors.Is(err, ErrEmptyDescription) {
		t.Fatalf("expected ErrEmptyDescription, got: %v", err)
	}
}

func TestTaskValidateNegativeXP(t *testing.T) {
	task := Task{ID: "task-1", Description: "Read", XP: -5}
	if err := task.Validate(); !errors.Is(err, ErrNegativeXP) {
		t.Fatalf("expected ErrNegativeXP, got: %v", err)
	}
}

func TestParseDueTime(t *testing.T) {
	d, err := ParseDueTime("07:05")
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if d.Hour != 7 || d.Minute != 5 {
		t.Fatalf("unexpected due time: %+v", d)
	}
	if d.String() != "07:05" {
		t.Fatalf("unexpected string form: %s", d.String())
	}

	for _, bad := range []string{"", "25:00", "12:61", "noon", "-1:30"} {
		if _, err := ParseDueTime(bad); !errors.Is(err, ErrInvalidDueTime) {
			t.Fatalf("expected ErrInvalidDueTime for %q, got: %v", bad, err)
		}
	}
}

func TestDueTimeJSONRoundTrip(t *testing.T) {
	due := DueTime{Hour: 18, Minute: 45}
	task := Task{ID: "task-1", Description: "Gym", XP: 15, DueTime: &due}
	raw, err := json.Marshal(task)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	var back Task
	if err := json.Unmarshal(raw, &back); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if back.DueTime == nil || back.DueTime.String() != "18:45" {
		t.Fatalf("due time lost in round trip: %+v", back.DueTime)
	}
}

func TestDueTimeOn(t *testing.T) {
	day := time.Date(2026, 3, 2, 14, 0, 0, 0, time.UTC)
	at := DueTime{Hour: 9, Minute: 15}.On(day)
	if at.Hour() != 9 || at.Minute() != 15 || at.Day() != 2 {
		t.Fatalf("unexpected anchored time: %v", at)
	}
}

func TestRecurringTaskWeeklyNeedsWeekdays(t *testing.T) {
	r := RecurringTask{ID: "r-1", Description: "Laundry", Recurrence: RecurrenceWeekly}
	if err := r.Validate(); !errors.Is(err, ErrNoWeekdays) {
		t.Fatalf("expected ErrNoWeekdays, got: %v", err)
	}

	r.Weekdays = []string{"Mon", "Funday"}
	if err := r.Validate(); !errors.Is(err, ErrInvalidWeekday) {
		t.Fatalf("expected ErrInvalidWeekday, got: %v", err)
	}

	r.Weekdays = []string{"Mon", "Mon"}
	if err := r.Validate(); err == nil {
		t.Fatal("expected duplicate weekday error, got nil")
	}

	r.Weekdays = []string{"Mon", "Wed"}
	if err := r.Validate(); err != nil {
		t.Fatalf("expected valid weekly definition, got: %v", err)
	}
}

func TestRecurringTaskOccursOn(t *testing.T) {
	daily := RecurringTask{Recurrence: RecurrenceDaily}
	if !daily.OccursOn("Tue") {
		t.Fatal("daily definition must occur every day")
	}

	weekly := RecurringTask{Recurrence: RecurrenceWeekly, Weekdays: []string{"Mon", "Wed"}}
	if weekly.OccursOn("Tue") {
		t.Fatal("weekly definition must not occur on Tuesday")
	}
	if !weekly.OccursOn("Mon") {
		t.Fatal("weekly definition must occur on Monday")
	}
}

func TestWeekdayTag(t *testing.T) {
	// 2026-03-02 is a Monday.
	monday := time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC)
	if got := WeekdayTag(monday); got != "Mon" {
		t.Fatalf("expected Mon, got %s", got)
	}
}

func TestGoalsValidate(t *testing.T) {
	if err := (Goals{DailyGoal: -1}).Validate(); !errors.Is(err, ErrNegativeGoal) {
		t.Fatalf("expected ErrNegativeGoal, got: %v", err)
	}
	if err := (Goals{DailyGoal: 50, LastDailyReset: "2026-03-02"}).Validate(); err != nil {
		t.Fatalf("expected valid goals, got: %v", err)
	}
	if err := (Goals{LastDailyReset: "yesterday"}).Validate(); err == nil {
		t.Fatal("expected invalid reset date error, got nil")
	}
}

func TestDefaultCategories(t *testing.T) {
	cats := DefaultCategories()
	if xp := cats["Medium"]; xp == nil || *xp != 10 {
		t.Fatalf("unexpected Medium default: %v", xp)
	}
	if xp, ok := cats[CategoryMiscellaneous]; !ok || xp != nil {
		t.Fatalf("Miscellaneous must exist with no default XP, got: %v", xp)
	}
}
