package resolve

import (
	"fmt"
	"time"
)

// timeNow is swapped in tests.
var timeNow = time.Now

// DailyPageTitle formats a time as a Roam daily-note title,
// e.g. "January 2nd, 2006".
func DailyPageTitle(t time.Time) string {
	return fmt.Sprintf("%s %d%s, %d", t.Month(), t.Day(), ordinalSuffix(t.Day()), t.Year())
}

func ordinalSuffix(day int) string {
	if day >= 11 && day <= 13 {
		return "th"
	}
	switch day % 10 {
	case 1:
		return "st"
	case 2:
		return "nd"
	case 3:
		return "rd"
	default:
		return "th"
	}
}
