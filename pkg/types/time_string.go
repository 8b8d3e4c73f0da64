package types

import (
	"database/sql/driver"
	"errors"
	"fmt"
	"time"
)

// ErrInvalidTimeString is returned when a value is not a valid HH:MM time
var ErrInvalidTimeString = errors.New("invalid time string format")

const timeLayout = "15:04"

// TimeString is a wall-clock time of day in HH:MM format.
// The zero value means "no time" (an all-day slot).
type TimeString struct {
	minutes int
	valid   bool
}

// NewTimeString returns the time of day of t, truncated to minutes
func NewTimeString(t time.Time) TimeString {
	return TimeString{minutes: t.Hour()*60 + t.Minute(), valid: true}
}

// NewTimeStringFromString parses "HH:MM". An empty string yields the zero value.
func NewTimeStringFromString(s string) (TimeString, error) {
	if s == "" {
		return TimeString{}, nil
	}
	t, err := time.Parse(timeLayout, s)
	if err != nil {
		return TimeString{}, fmt.Errorf("%w: %q", ErrInvalidTimeString, s)
	}
	return NewTimeString(t), nil
}

// MustTimeString is NewTimeStringFromString for literals; it panics on bad input
func MustTimeString(s string) TimeString {
	ts, err := NewTimeStringFromString(s)
	if err != nil {
		panic(err)
	}
	return ts
}

// IsZero reports whether no time is set
func (t TimeString) IsZero() bool {
	return !t.valid
}

// Minutes returns minutes since midnight
func (t TimeString) Minutes() int {
	return t.minutes
}

// String formats the value as HH:MM, or "" for the zero value
func (t TimeString) String() string {
	if !t.valid {
		return ""
	}
	return fmt.Sprintf("%02d:%02d", t.minutes/60, t.minutes%60)
}

// Validate checks that the value lies within a single day
func (t TimeString) Validate() error {
	if t.valid && (t.minutes < 0 || t.minutes >= 24*60) {
		return ErrInvalidTimeString
	}
	return nil
}

// AddMinutes shifts the time; crossing midnight is an error
func (t TimeString) AddMinutes(m int) (TimeString, error) {
	res := TimeString{minutes: t.minutes + m, valid: true}
	if err := res.Validate(); err != nil {
		return TimeString{}, err
	}
	return res, nil
}

// Compare orders zero values first, then by time of day
func (t TimeString) Compare(o TimeString) int {
	switch {
	case t.valid != o.valid:
		if !t.valid {
			return -1
		}
		return 1
	case t.minutes < o.minutes:
		return -1
	case t.minutes > o.minutes:
		return 1
	}
	return 0
}

func (t TimeString) IsBefore(o TimeString) bool { return t.Compare(o) < 0 }

func (t TimeString) IsAfter(o TimeString) bool { return t.Compare(o) > 0 }

// Value implements driver.Valuer. The zero value is stored as an empty string.
func (t TimeString) Value() (driver.Value, error) {
	return t.String(), nil
}

// Scan implements sql.Scanner for TEXT and TIME columns
func (t *TimeString) Scan(src interface{}) error {
	switch v := src.(type) {
	case nil:
		*t = TimeString{}
		return nil
	case string:
		return t.parseDB(v)
	case []byte:
		return t.parseDB(string(v))
	case time.Time:
		*t = NewTimeString(v)
		return nil
	}
	return fmt.Errorf("%w: cannot scan %T", ErrInvalidTimeString, src)
}

func (t *TimeString) parseDB(s string) error {
	// TIME columns come back as HH:MM:SS
	if len(s) == 8 {
		s = s[:5]
	}
	parsed, err := NewTimeStringFromString(s)
	if err != nil {
		return err
	}
	*t = parsed
	return nil
}

// MarshalText implements encoding.TextMarshaler
func (t TimeString) MarshalText() ([]byte, error) {
	return []byte(t.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler
func (t *TimeString) UnmarshalText(b []byte) error {
	parsed, err := NewTimeStringFromString(string(b))
	if err != nil {
		return err
	}
	*t = parsed
	return nil
}
