// Package format renders dates and amounts the way the web client shows them
// to US users.
package format

import (
	"errors"
	"fmt"
	"math"
	"time"

	"golang.org/x/text/currency"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// DisplayLayout is the en-US locale date followed by the locale time.
const DisplayLayout = "1/2/2006 3:04:05 PM"

// ErrInvalidDate is returned for input none of the accepted layouts match.
var ErrInvalidDate = errors.New("invalid date")

type inputLayout struct {
	layout string
	// naive layouts carry no offset and are read in the display location
	naive bool
}

var inputLayouts = []inputLayout{
	{layout: time.RFC3339Nano},
	{layout: "2006-01-02T15:04:05", naive: true},
	{layout: "2006-01-02 15:04:05", naive: true},
	{layout: "2006-01-02T15:04", naive: true},
	{layout: time.RFC1123},
	{layout: time.RFC1123Z},
	// date-only input is midnight UTC
	{layout: "2006-01-02"},
}

var usPrinter = message.NewPrinter(language.AmericanEnglish)

// FormatDate renders dateString in the local time zone.
func FormatDate(dateString string) (string, error) {
	return FormatDateIn(dateString, time.Local)
}

// FormatDateIn renders dateString in loc. Timestamps with an offset are
// converted; timestamps without one are taken to be in loc already.
func FormatDateIn(dateString string, loc *time.Location) (string, error) {
	t, err := ParseDate(dateString, loc)
	if err != nil {
		return "", err
	}

	return t.In(loc).Format(DisplayLayout), nil
}

// ParseDate reads dateString with the first matching input layout.
func ParseDate(dateString string, loc *time.Location) (time.Time, error) {
	for _, in := range inputLayouts {
		var (
			t   time.Time
			err error
		)
		if in.naive {
			t, err = time.ParseInLocation(in.layout, dateString, loc)
		} else {
			t, err = time.Parse(in.layout, dateString)
		}
		if err == nil {
			return t, nil
		}
	}

	return time.Time{}, fmt.Errorf("%w: %q", ErrInvalidDate, dateString)
}

// FormatTime renders t in loc with the display layout.
func FormatTime(t time.Time, loc *time.Location) string {
	return t.In(loc).Format(DisplayLayout)
}

// exactCentsLimit bounds the amounts whose cents survive amount*100 in a float64.
const exactCentsLimit = 1e13

// FormatCurrency renders amount as US dollars, e.g. 1234.5 -> "$1,234.50".
// Halves are rounded away from zero.
func FormatCurrency(amount float64) string {
	sign := ""
	if amount < 0 {
		sign = "-"
		amount = -amount
	}
	if amount < exactCentsLimit {
		amount = math.Round(amount*100) / 100
	}
	if amount == 0 {
		sign = ""
	}

	symbol := usPrinter.Sprint(currency.Symbol(currency.USD))

	return sign + symbol + usPrinter.Sprintf("%.2f", amount)
}
