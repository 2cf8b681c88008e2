// Package date provides a calendar day value type and a sorted
// date-keyed series used for historical lookups.
package date

import (
	"encoding/json"
	"fmt"
	"time"
)

const readDateFormat = "2006-1-2" // Permissive read date format (allows single-digit month/day).

// DateFormat is the format used to represent dates as strings in ISO-8601 format.
const DateFormat = "2006-01-02" // write date format

// Date represent a date with no lower than day granularity.
type Date struct {
	y int
	m time.Month
	d int
}

// time returns a time.Time that is a canonical representation of that day (at midnight UTC).
func (d Date) time() time.Time { return time.Date(d.y, d.m, d.d, 0, 0, 0, 0, time.UTC) }

// New returns a normalized Date for the given year, month, and day.
func New(year int, month time.Month, day int) Date {
	d := Date{year, month, day}
	d.y, d.m, d.d = d.time().Date()
	return d
}

// FromUnix returns the UTC calendar day containing the given unix timestamp.
// Block times from wallets and chain queries are unix seconds.
func FromUnix(sec int64) Date {
	return New(time.Unix(sec, 0).UTC().Date())
}

// Today returns the current date.
func Today() Date { return New(time.Now().Date()) }

// Year returns current year.
func (d Date) Year() int { return d.y }

// Month returns the month of the date.
func (d Date) Month() time.Month { return d.m }

// Day returns current day of the month.
func (d Date) Day() int { return d.d }

// Before reports whether the day d is before x.
func (d Date) Before(x Date) bool { return d.time().Before(x.time()) }

// After reports whether the day d is after x.
func (d Date) After(x Date) bool { return d.time().After(x.time()) }

// Add returns a new Date with the given number of days added.
func (d Date) Add(i int) Date { return New(d.y, d.m, d.d+i) }

// IsZero reports whether the date is the zero value.
func (d Date) IsZero() bool { return d == Date{} }

// String format the date in its standard format.
func (d Date) String() string { return d.time().Format(DateFormat) }

// Compare returns -1, 0 or +1 depending on whether d is before, equal to, or after x.
func (d Date) Compare(x Date) int {
	switch {
	case d.Before(x):
		return -1
	case d.After(x):
		return 1
	default:
		return 0
	}
}

// Parse parses a Date from a string. It is lenient and accepts formats like "2025-7-1".
func Parse(str string) (Date, error) {
	on, err := time.Parse(readDateFormat, str)
	if err != nil {
		return Date{}, fmt.Errorf("invalid date %q want format %q: %w", str, readDateFormat, err)
	}
	return New(on.Date()), nil
}

// MustParse is like Parse but panics on error.
func MustParse(str string) Date {
	d, err := Parse(str)
	if err != nil {
		panic(err.Error())
	}
	return d
}

// UnmarshalJSON implements the json specific way to unmarshall a date from a json string.
func (j *Date) UnmarshalJSON(bytes []byte) error {
	var str string
	if err := json.Unmarshal(bytes, &str); err != nil {
		return err
	}
	d, err := Parse(str)
	if err != nil {
		return err
	}
	*j = d
	return nil
}

func (j Date) MarshalJSON() ([]byte, error) {
	str := j.String()
	return json.Marshal(&str)
}

// check that a Date pointer is a valid json marshall/unmarshaller type.
var _ json.Marshaler = (*Date)(nil)
var _ json.Unmarshaler = (*Date)(nil)

// Range represents a range of dates.
type Range struct{ From, To Date }

// NewRange creates a new date range. If 'from' is after 'to', they are swapped.
func NewRange(from, to Date) Range {
	if from.After(to) {
		from, to = to, from
	}
	return Range{From: from, To: to}
}

// Contains return true date is included in the range (boundaries included)
func (r Range) Contains(date Date) bool { return !date.Before(r.From) && !date.After(r.To) }

func (r Range) String() string { return r.From.String() + ".." + r.To.String() }
