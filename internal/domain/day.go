package domain

import (
	"encoding/json"
	"fmt"
	"time"
)

const dayLayout = "2006-01-02"

// Day is a calendar date with no time-of-day component. The zero Day means "never".
type Day struct {
	Year  int
	Month time.Month
	Day   int
}

// DayOf returns the calendar day of t in t's location.
func DayOf(t time.Time) Day {
	y, m, d := t.Date()
	return Day{Year: y, Month: m, Day: d}
}

// ParseDay parses a YYYY-MM-DD string. The empty string yields the zero Day.
func ParseDay(s string) (Day, error) {
	if s == "" {
		return Day{}, nil
	}
	t, err := time.Parse(dayLayout, s)
	if err != nil {
		return Day{}, fmt.Errorf("parse day %q: %w", s, err)
	}
	return DayOf(t), nil
}

// IsZero reports whether d is unset.
func (d Day) IsZero() bool {
	return d == Day{}
}

// Time returns midnight UTC of d.
func (d Day) Time() time.Time {
	return time.Date(d.Year, d.Month, d.Day, 0, 0, 0, 0, time.UTC)
}

// EpochDays is the number of days since 1970-01-01.
func (d Day) EpochDays() int64 {
	return d.Time().Unix() / 86400
}

// AddDays returns d shifted by n days.
func (d Day) AddDays(n int) Day {
	return DayOf(d.Time().AddDate(0, 0, n))
}

// DaysSince returns the number of calendar days from other to d.
func (d Day) DaysSince(other Day) int {
	return int(d.EpochDays() - other.EpochDays())
}

// Before reports whether d is earlier than other.
func (d Day) Before(other Day) bool {
	return d.EpochDays() < other.EpochDays()
}

func (d Day) String() string {
	if d.IsZero() {
		return ""
	}
	return d.Time().Format(dayLayout)
}

func (d Day) MarshalJSON() ([]byte, error) {
	return json.Marshal(d.String())
}

func (d *Day) UnmarshalJSON(data []byte) error {
	var raw string
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	parsed, err := ParseDay(raw)
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}

// MarshalText lets Day be used as a map key and in YAML.
func (d Day) MarshalText() ([]byte, error) {
	return []byte(d.String()), nil
}

func (d *Day) UnmarshalText(text []byte) error {
	parsed, err := ParseDay(string(text))
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}
