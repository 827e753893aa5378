package helpers

import (
	"time"

	"github.com/rs/zerolog/log"
)

// Date layouts the employee list search matches against.
const (
	USDateLayout  = "1/2/2006"
	ISODateLayout = "2006-01-02"
)

// ParseDuration parses a duration string, returns default duration on error.
func ParseDuration(durationStr string, defaultDuration time.Duration) time.Duration {
	duration, err := time.ParseDuration(durationStr)
	if err != nil {
		log.Warn().Err(err).Str("durationStr", durationStr).Dur("defaultDuration", defaultDuration).Msg("Failed to parse duration string, using default")
		return defaultDuration
	}
	return duration
}

// FormatSearchDates renders t in every layout a date search term may use.
func FormatSearchDates(t time.Time) []string {
	return []string{t.Format(USDateLayout), t.Format(ISODateLayout)}
}
