package resolve

import (
	"testing"
	"time"
)

func TestDailyPageTitle(t *testing.T) {
	cases := []struct {
		day  time.Time
		want string
	}{
		{time.Date(2024, time.January, 1, 0, 0, 0, 0, time.UTC), "January 1st, 2024"},
		{time.Date(2024, time.February, 2, 0, 0, 0, 0, time.UTC), "February 2nd, 2024"},
		{time.Date(2024, time.March, 3, 0, 0, 0, 0, time.UTC), "March 3rd, 2024"},
		{time.Date(2024, time.April, 4, 0, 0, 0, 0, time.UTC), "April 4th, 2024"},
		{time.Date(2024, time.May, 11, 0, 0, 0, 0, time.UTC), "May 11th, 2024"},
		{time.Date(2024, time.June, 12, 0, 0, 0, 0, time.UTC), "June 12th, 2024"},
		{time.Date(2024, time.July, 13, 0, 0, 0, 0, time.UTC), "July 13th, 2024"},
		{time.Date(2024, time.August, 21, 0, 0, 0, 0, time.UTC), "August 21st, 2024"},
		{time.Date(2024, time.September, 22, 0, 0, 0, 0, time.UTC), "September 22nd, 2024"},
		{time.Date(2024, time.October, 23, 0, 0, 0, 0, time.UTC), "October 23rd, 2024"},
		{time.Date(2024, time.December, 31, 0, 0, 0, 0, time.UTC), "December 31st, 2024"},
	}
	for _, tc := range cases {
		if got := DailyPageTitle(tc.day); got != tc.want {
			t.Errorf("DailyPageTitle(%v) = %q, want %q", tc.day, got, tc.want)
		}
	}
}
