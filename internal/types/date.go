package types

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"

	ierr "github.com/ahamo-portal/portal/internal/errors"
)

// DateLayout is the wire format of calendar dates (ISO 8601, YYYY-MM-DD).
const DateLayout = "2006-01-02"

// Date is a calendar date without a time of day. It is stored as midnight UTC
// so that day arithmetic never crosses a DST transition.
type Date struct {
	t time.Time
}

// NewDate returns the calendar date y-m-d. Out of range values are normalized
// the same way time.Date normalizes them.
func NewDate(year int, month time.Month, day int) Date {
	return Date{t: time.Date(year, month, day, 0, 0, 0, 0, time.UTC)}
}

// DateOf returns the calendar date of t as observed in loc.
func DateOf(t time.Time, loc *time.Location) Date {
	if loc == nil {
		loc = time.UTC
	}
	y, m, d := t.In(loc).Date()
	return NewDate(y, m, d)
}

// ParseDate parses a YYYY-MM-DD string.
func ParseDate(s string) (Date, error) {
	t, err := time.Parse(DateLayout, s)
	if err != nil {
		return Date{}, ierr.WithError(err).
			WithHintf("Date %q must use the YYYY-MM-DD format", s).
			Mark(ierr.ErrValidation)
	}
	return Date{t: t}, nil
}

// MustParseDate is ParseDate for constants and tests.
func MustParseDate(s string) Date {
	d, err := ParseDate(s)
	if err != nil {
		panic(err)
	}
	return d
}

func (d Date) Time() time.Time {
	return d.t
}

func (d Date) IsZero() bool {
	return d.t.IsZero()
}

func (d Date) String() string {
	return d.t.Format(DateLayout)
}

func (d Date) Before(o Date) bool {
	return d.t.Before(o.t)
}

func (d Date) After(o Date) bool {
	return d.t.After(o.t)
}

func (d Date) Equal(o Date) bool {
	return d.t.Equal(o.t)
}

// DaysUntil returns the number of calendar days from d to o. It is negative
// when o is before d.
func (d Date) DaysUntil(o Date) int {
	return int(o.t.Sub(d.t) / (24 * time.Hour))
}

// AddDays returns the date n days after d.
func (d Date) AddDays(n int) Date {
	return Date{t: d.t.AddDate(0, 0, n)}
}

func (d Date) MarshalText() ([]byte, error) {
	return []byte(d.String()), nil
}

func (d *Date) UnmarshalText(text []byte) error {
	parsed, err := ParseDate(string(text))
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}

func (d Date) MarshalJSON() ([]byte, error) {
	return json.Marshal(d.String())
}

func (d *Date) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return ierr.WithError(err).
			WithHint("Dates must be strings in the YYYY-MM-DD format").
			Mark(ierr.ErrValidation)
	}
	return d.UnmarshalText([]byte(s))
}

// Scan implements sql.Scanner for DATE columns.
func (d *Date) Scan(src any) error {
	switch v := src.(type) {
	case time.Time:
		*d = NewDate(v.Year(), v.Month(), v.Day())
		return nil
	case string:
		return d.UnmarshalText([]byte(v[:min(len(v), len(DateLayout))]))
	case []byte:
		return d.UnmarshalText(v[:min(len(v), len(DateLayout))])
	default:
		return fmt.Errorf("cannot scan %T into types.Date", src)
	}
}

// Value implements driver.Valuer.
func (d Date) Value() (driver.Value, error) {
	return d.t, nil
}

// OptionalDate is a calendar date that may be absent. The zero value is absent.
type OptionalDate struct {
	date Date
	ok   bool
}

// SomeDate wraps a present date.
func SomeDate(d Date) OptionalDate {
	return OptionalDate{date: d, ok: true}
}

// NoDate returns an absent date.
func NoDate() OptionalDate {
	return OptionalDate{}
}

// Get returns the date and whether it is present.
func (o OptionalDate) Get() (Date, bool) {
	return o.date, o.ok
}

func (o OptionalDate) IsPresent() bool {
	return o.ok
}

func (o OptionalDate) String() string {
	if !o.ok {
		return ""
	}
	return o.date.String()
}

func (o OptionalDate) MarshalJSON() ([]byte, error) {
	if !o.ok {
		return []byte("null"), nil
	}
	return o.date.MarshalJSON()
}

func (o *OptionalDate) UnmarshalJSON(data []byte) error {
	if string(data) == "null" || string(data) == `""` {
		*o = NoDate()
		return nil
	}
	var d Date
	if err := d.UnmarshalJSON(data); err != nil {
		return err
	}
	*o = SomeDate(d)
	return nil
}

// UnmarshalText lets query and form binding decode optional dates.
func (o *OptionalDate) UnmarshalText(text []byte) error {
	if len(text) == 0 {
		*o = NoDate()
		return nil
	}
	var d Date
	if err := d.UnmarshalText(text); err != nil {
		return err
	}
	*o = SomeDate(d)
	return nil
}

// UnmarshalParam lets gin bind optional dates from query strings.
func (o *OptionalDate) UnmarshalParam(param string) error {
	return o.UnmarshalText([]byte(param))
}
