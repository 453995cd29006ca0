// Package jalali reads and writes the Jalali (Solar Hijri) dates used in the
// CRM dataset. Dates are stored as "YYYY/MM/DD" strings; this package turns
// them into time.Time values and back on top of go-jalaali.
package jalali

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	jalaali "github.com/jalaali/go-jalaali"
)

// ErrInvalidDate is returned when a string cannot be read as a Jalali date.
var ErrInvalidDate = errors.New("invalid jalali date")

var digits = strings.NewReplacer(
	"۰", "0", "۱", "1", "۲", "2", "۳", "3", "۴", "4",
	"۵", "5", "۶", "6", "۷", "7", "۸", "8", "۹", "9",
	"٠", "0", "١", "1", "٢", "2", "٣", "3", "٤", "4",
	"٥", "5", "٦", "6", "٧", "7", "٨", "8", "٩", "9",
)

// Date is a calendar date in the Jalali calendar.
type Date struct {
	Year  int
	Month int
	Day   int
}

// String renders the date as YYYY/MM/DD.
func (d Date) String() string {
	return fmt.Sprintf("%04d/%02d/%02d", d.Year, d.Month, d.Day)
}

// Valid reports whether the date exists in the Jalali calendar.
func (d Date) Valid() bool {
	return jalaali.IsValidDate(d.Year, d.Month, d.Day)
}

// Time returns midnight of the date in loc. An invalid date yields the zero
// time.
func (d Date) Time(loc *time.Location) time.Time {
	if loc == nil {
		loc = time.Local
	}
	gy, gm, gd, err := jalaali.ToGregorian(d.Year, jalaali.Month(d.Month), d.Day)
	if err != nil {
		return time.Time{}
	}
	return time.Date(gy, gm, gd, 0, 0, 0, 0, loc)
}

// FromTime converts the calendar day of t (in t's location) to a Jalali date.
// Days outside the supported range yield the zero Date.
func FromTime(t time.Time) Date {
	y, m, d := t.Date()
	jy, jm, jd, err := jalaali.ToJalaali(y, m, d)
	if err != nil {
		return Date{}
	}
	return Date{Year: jy, Month: int(jm), Day: jd}
}

// Parse reads a Jalali date written as YYYY/MM/DD. Dashes are accepted as
// separators and Persian or Arabic-Indic digits are normalized first.
func Parse(value string) (Date, error) {
	normalized := strings.ReplaceAll(NormalizeDigits(strings.TrimSpace(value)), "-", "/")
	parts := strings.Split(normalized, "/")
	if len(parts) != 3 {
		return Date{}, fmt.Errorf("%w: %q", ErrInvalidDate, value)
	}

	fields := make([]int, 3)
	for i, part := range parts {
		n, err := strconv.Atoi(strings.TrimSpace(part))
		if err != nil {
			return Date{}, fmt.Errorf("%w: %q", ErrInvalidDate, value)
		}
		fields[i] = n
	}

	date := Date{Year: fields[0], Month: fields[1], Day: fields[2]}
	if !date.Valid() {
		return Date{}, fmt.Errorf("%w: %q", ErrInvalidDate, value)
	}
	return date, nil
}

// ParseTime parses a Jalali date string and returns midnight of that day in loc.
func ParseTime(value string, loc *time.Location) (time.Time, error) {
	date, err := Parse(value)
	if err != nil {
		return time.Time{}, err
	}
	return date.Time(loc), nil
}

// FormatDate renders t as a Jalali YYYY/MM/DD string.
func FormatDate(t time.Time) string {
	return FromTime(t).String()
}

// FormatDateTime renders t as "YYYY/MM/DD - HH:mm".
func FormatDateTime(t time.Time) string {
	return fmt.Sprintf("%s - %02d:%02d", FromTime(t).String(), t.Hour(), t.Minute())
}

// IsLeap reports whether year is a Jalali leap year.
func IsLeap(year int) bool {
	leap, err := jalaali.IsLeapYear(year)
	return err == nil && leap
}

// MonthLength returns the number of days in the given Jalali month, or 0 for
// a year outside the supported range.
func MonthLength(year, month int) int {
	days, err := jalaali.MonthLength(year, month)
	if err != nil {
		return 0
	}
	return days
}

// NormalizeDigits replaces Persian and Arabic-Indic digits with ASCII digits.
func NormalizeDigits(value string) string {
	return digits.Replace(value)
}
