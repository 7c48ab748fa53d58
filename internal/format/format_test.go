package format

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFormatDateIn(t *testing.T) {
	eastern := time.FixedZone("EST", -5*60*60)

	testCases := []struct {
		name  string
		input string
		loc   *time.Location
		want  string
	}{
		{name: "RFC 3339 in UTC", input: "2024-01-02T15:04:05Z", loc: time.UTC, want: "1/2/2024 3:04:05 PM"},
		{name: "RFC 3339 converted", input: "2024-01-02T15:04:05Z", loc: eastern, want: "1/2/2024 10:04:05 AM"},
		{name: "offset input", input: "2024-07-04T00:30:00+02:00", loc: time.UTC, want: "7/3/2024 10:30:00 PM"},
		{name: "naive isoformat with microseconds", input: "2024-03-09T08:07:06.123456", loc: eastern, want: "3/9/2024 8:07:06 AM"},
		{name: "naive with a space", input: "2024-12-31 23:59:59", loc: time.UTC, want: "12/31/2024 11:59:59 PM"},
		{name: "naive without seconds", input: "2024-12-31T12:00", loc: time.UTC, want: "12/31/2024 12:00:00 PM"},
		{name: "HTTP date", input: "Tue, 02 Jan 2024 15:04:05 GMT", loc: time.UTC, want: "1/2/2024 3:04:05 PM"},
		{name: "date only is UTC midnight", input: "2024-01-02", loc: eastern, want: "1/1/2024 7:00:00 PM"},
	}

	for _, testCase := range testCases {
		t.Run(testCase.name, func(t *testing.T) {
			got, err := FormatDateIn(testCase.input, testCase.loc)
			require.NoError(t, err)
			assert.Equal(t, testCase.want, got)
		})
	}
}

func TestFormatDateInvalid(t *testing.T) {
	for _, input := range []string{"", "yesterday", "2024-13-01", "01/02/2024"} {
		_, err := FormatDate(input)
		assert.ErrorIs(t, err, ErrInvalidDate, input)
	}
}

func TestFormatTime(t *testing.T) {
	moment := time.Date(2025, time.November, 5, 9, 3, 1, 0, time.UTC)

	assert.Equal(t, "11/5/2025 9:03:01 AM", FormatTime(moment, time.UTC))
}

func TestFormatCurrency(t *testing.T) {
	testCases := []struct {
		amount float64
		want   string
	}{
		{amount: 1234.5, want: "$1,234.50"},
		{amount: 0, want: "$0.00"},
		{amount: 5, want: "$5.00"},
		{amount: 999.999, want: "$1,000.00"},
		{amount: 1234567.891, want: "$1,234,567.89"},
		{amount: -42.1, want: "-$42.10"},
		{amount: 0.125, want: "$0.13"},
		{amount: -0.001, want: "$0.00"},
		{amount: 123456789012345.67, want: "$123,456,789,012,345.67"},
		{amount: -123456789012345.67, want: "-$123,456,789,012,345.67"},
		{amount: 1e21, want: "$1,000,000,000,000,000,000,000.00"},
	}

	for _, testCase := range testCases {
		assert.Equal(t, testCase.want, FormatCurrency(testCase.amount), "amount %v", testCase.amount)
	}
}
