package jalali

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestDateTimeConversions(t *testing.T) {
	cases := []struct {
		jalali    Date
		gregorian time.Time
	}{
		{Date{1404, 1, 1}, time.Date(2025, 3, 21, 0, 0, 0, 0, time.UTC)},
		{Date{1403, 12, 30}, time.Date(2025, 3, 20, 0, 0, 0, 0, time.UTC)},
		{Date{1403, 1, 1}, time.Date(2024, 3, 20, 0, 0, 0, 0, time.UTC)},
		{Date{1400, 1, 1}, time.Date(2021, 3, 21, 0, 0, 0, 0, time.UTC)},
		{Date{1404, 7, 1}, time.Date(2025, 9, 23, 0, 0, 0, 0, time.UTC)},
	}

	for _, tc := range cases {
		require.Equal(t, tc.gregorian, tc.jalali.Time(time.UTC), tc.jalali.String())
		require.Equal(t, tc.jalali, FromTime(tc.gregorian), tc.gregorian.String())
	}
}

func TestLeapYears(t *testing.T) {
	require.True(t, IsLeap(1403))
	require.False(t, IsLeap(1404))
	require.Equal(t, 30, MonthLength(1403, 12))
	require.Equal(t, 29, MonthLength(1404, 12))
	require.Equal(t, 31, MonthLength(1404, 6))
}

func TestParse(t *testing.T) {
	date, err := Parse("1404/05/12")
	require.NoError(t, err)
	require.Equal(t, Date{1404, 5, 12}, date)

	date, err = Parse("۱۴۰۴/۰۵/۱۲")
	require.NoError(t, err)
	require.Equal(t, Date{1404, 5, 12}, date)

	date, err = Parse("1404-5-2")
	require.NoError(t, err)
	require.Equal(t, "1404/05/02", date.String())

	for _, invalid := range []string{"", "1404/13/01", "1404/12/30", "abc/01/01", "1404/01"} {
		_, err := Parse(invalid)
		require.ErrorIs(t, err, ErrInvalidDate, invalid)
	}
}

func TestFormat(t *testing.T) {
	moment := time.Date(2025, 3, 21, 9, 5, 0, 0, time.UTC)
	require.Equal(t, "1404/01/01", FormatDate(moment))
	require.Equal(t, "1404/01/01 - 09:05", FormatDateTime(moment))
}

func TestOutOfRangeYears(t *testing.T) {
	require.False(t, Date{3178, 1, 1}.Valid())
	require.False(t, Date{-62, 1, 1}.Valid())
	require.False(t, IsLeap(3200))
	require.Equal(t, 0, MonthLength(3200, 12))
	require.True(t, Date{1404, 7, 1}.Time(time.UTC).Equal(time.Date(2025, 9, 23, 0, 0, 0, 0, time.UTC)))
	require.True(t, Date{3178, 1, 1}.Time(time.UTC).IsZero())

	date, err := Parse("١٤٠٤/٠٧/٠١")
	require.NoError(t, err)
	require.Equal(t, Date{1404, 7, 1}, date)
}
