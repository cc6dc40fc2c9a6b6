package model

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"
)

var ErrInvalidDueTime = errors.New("model: invalid due time")

// DueTime is a time-of-day without a date, persisted as "HH:MM".
type DueTime struct {
	Hour   int
	Minute int
}

func ParseDueTime(input string) (DueTime, error) {
	var h, m int
	if _, err := fmt.Sscanf(input, "%d:%d", &h, &m); err != nil {
		return DueTime{}, fmt.Errorf("%w: %q", ErrInvalidDueTime, input)
	}
	d := DueTime{Hour: h, Minute: m}
	if err := d.Validate(); err != nil {
		return DueTime{}, err
	}
	return d, nil
}

func (d DueTime) Validate() error {
	if d.Hour < 0 || d.Hour > 23 || d.Minute < 0 || d.Minute > 59 {
		return fmt.Errorf("%w: %02d:%02d", ErrInvalidDueTime, d.Hour, d.Minute)
	}
	return nil
}

func (d DueTime) String() string {
	return fmt.Sprintf("%02d:%02d", d.Hour, d.Minute)
}

// On anchors the due time onto the calendar day of the given moment.
func (d DueTime) On(day time.Time) time.Time {
	y, m, dd := day.Date()
	return time.Date(y, m, dd, d.Hour, d.Minute, 0, 0, day.Location())
}

func (d DueTime) MarshalJSON() ([]byte, error) {
	return json.Marshal(d.String())
}

func (d *DueTime) UnmarshalJSON(data []byte) error {
	var raw string
	if err := json.Unmarshal(data, &raw); err != nil {
		return fmt.Errorf("%w: %s", ErrInvalidDueTime, data)
	}
	parsed, err := ParseDueTime(raw)
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}
