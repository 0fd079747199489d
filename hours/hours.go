package hours

import (
	"fmt"
	"time"
)

var amsterdamLoc *time.Location

func init() {
	var err error
	amsterdamLoc, err = time.LoadLocation("Europe/Amsterdam")
	if err != nil {
		panic(fmt.Sprintf("failed to load Amsterdam location: %v", err))
	}
}

// LocationAmsterdam re-expresses an instant in Dutch civil time.
// The IANA rules handle the CET/CEST transitions.
func LocationAmsterdam(t time.Time) time.Time {
	return t.In(amsterdamLoc)
}

// StartOfDay returns midnight of the Amsterdam civil day containing t.
func StartOfDay(t time.Time) time.Time {
	local := t.In(amsterdamLoc)
	return time.Date(local.Year(), local.Month(), local.Day(), 0, 0, 0, 0, amsterdamLoc)
}

// StartOfHour truncates t to the beginning of its Amsterdam hour.
func StartOfHour(t time.Time) time.Time {
	local := t.In(amsterdamLoc)
	return time.Date(local.Year(), local.Month(), local.Day(), local.Hour(), 0, 0, 0, amsterdamLoc)
}

func FormatLocal(t time.Time) string {
	return t.In(amsterdamLoc).Format("2006-01-02 15:04")
}
