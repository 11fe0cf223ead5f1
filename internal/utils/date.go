package utils

import (
	"regexp"
	"time"

	"github.com/yukikurage/bug-journal-api/internal/constants"
)

var datePattern = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}$`)

// IsCalendarDate reports whether s is a real YYYY-MM-DD day.
func IsCalendarDate(s string) bool {
	if !datePattern.MatchString(s) {
		return false
	}
	_, err := time.Parse(constants.DateLayout, s)
	return err == nil
}

// Today formats the current local day in storage format.
func Today() string {
	return time.Now().Format(constants.DateLayout)
}
