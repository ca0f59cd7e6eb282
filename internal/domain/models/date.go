package models

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"
)

// DateLayout is the canonical calendar date format.
const DateLayout = "2006-01-02"

// acceptedLayouts lists formats seen on the wire: plain dates, Python isoformat
// timestamps and RFC 3339.
var acceptedLayouts = []string{
	DateLayout,
	"2006-01-02T15:04:05",
	"2006-01-02T15:04:05.999999",
	time.RFC3339Nano,
	"Mon, 02 Jan 2006 15:04:05 GMT",
}

// Date is a calendar date without time of day, encoded as "YYYY-MM-DD".
type Date struct {
	time.Time
}

// NewDate returns the Date for the given calendar day in UTC.
func NewDate(year int, month time.Month, day int) Date {
	return Date{Time: time.Date(year, month, day, 0, 0, 0, 0, time.UTC)}
}

// ParseDate parses any accepted layout and truncates it to the calendar day.
func ParseDate(s string) (Date, error) {
	s = strings.TrimSpace(s)
	for _, layout := range acceptedLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return NewDate(t.Year(), t.Month(), t.Day()), nil
		}
	}
	return Date{}, fmt.Errorf("invalid date %q", s)
}

// MustParseDate is ParseDate for literals known to be valid.
func MustParseDate(s string) Date {
	d, err := ParseDate(s)
	if err != nil {
		panic(err)
	}
	return d
}

// MonthKey returns the first-of-month key "YYYY-MM-01" for the date.
func (d Date) MonthKey() string {
	return fmt.Sprintf("%04d-%02d-01", d.Year(), int(d.Month()))
}

func (d Date) String() string {
	return d.Format(DateLayout)
}

func (d Date) MarshalJSON() ([]byte, error) {
	return json.Marshal(d.String())
}

func (d *Date) UnmarshalJSON(b []byte) error {
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return fmt.Errorf("date must be a string: %w", err)
	}
	parsed, err := ParseDate(s)
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}
