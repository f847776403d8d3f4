package calendar

import (
	"errors"
	"math"
	"strings"
	"time"
)

const day = 24 * time.Hour

// WeekOf returns the bucket (week, year) used to group tasks and journal
// entries. Week 1 is the Sunday-started week containing January 1st; this is
// not ISO-8601 and there is no carry-over across the year boundary, so
// December 31st may land in week 53 while January 1st of the next year is
// always week 1. Evaluated in t's own location.
func WeekOf(t time.Time) (week, year int) {
	jan1 := time.Date(t.Year(), time.January, 1, 0, 0, 0, 0, t.Location())
	days := int(math.Floor(float64(t.Sub(jan1)) / float64(day)))
	week = int(math.Ceil(float64(days+int(jan1.Weekday())+1) / 7))
	return week, t.Year()
}

// WeekBounds returns the first and last instant of the Sunday-Saturday week
// containing t.
func WeekBounds(t time.Time) (time.Time, time.Time) {
	start := time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
	start = start.AddDate(0, 0, -int(start.Weekday()))
	end := start.AddDate(0, 0, 7).Add(-time.Nanosecond)
	return start, end
}

var ErrInvalidDate = errors.New("invalid date")

var layouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05",
	"2006-01-02T15:04",
	"2006-01-02",
}

// ParseDate accepts RFC3339 timestamps as well as bare dates and local
// date-times, the latter interpreted in UTC.
func ParseDate(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	for _, layout := range layouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, nil
		}
	}
	return time.Time{}, ErrInvalidDate
}

// Date is a time value decoded from any of the formats ParseDate accepts.
type Date struct {
	time.Time
}

func (d *Date) UnmarshalJSON(b []byte) error {
	s := string(b)
	if s == "null" {
		return nil
	}
	if len(s) < 2 || s[0] != '"' || s[len(s)-1] != '"' {
		return ErrInvalidDate
	}
	t, err := ParseDate(s[1 : len(s)-1])
	if err != nil {
		return err
	}
	d.Time = t
	return nil
}

func (d Date) MarshalJSON() ([]byte, error) {
	return d.Time.MarshalJSON()
}
