package timeutil

import (
	"time"
)

// WAT is the West Africa Time location (UTC+1)
var WAT *time.Location

func init() {
	var err error
	WAT, err = time.LoadLocation("Africa/Lagos")
	if err != nil {
		// Fallback: create fixed zone if Africa/Lagos not available
		WAT = time.FixedZone("WAT", 1*60*60) // UTC+1
	}
}

// Now returns the current time in WAT
func Now() time.Time {
	return time.Now().In(WAT)
}

// ToWAT converts any time to WAT
func ToWAT(t time.Time) time.Time {
	return t.In(WAT)
}

// FormatWAT formats a time in WAT using the given layout
func FormatWAT(t time.Time, layout string) string {
	return t.In(WAT).Format(layout)
}

// Common layouts for WAT formatting
const (
	DateLayout     = "2006-01-02"
	TimeLayout     = "15:04:05"
	DateTimeLayout = "2006-01-02 15:04:05"
	DisplayLayout  = "02 Jan 2006, 03:04 PM"
)
