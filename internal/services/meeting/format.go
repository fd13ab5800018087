package meeting

import (
	"fmt"
	"strings"
	"time"
	"unicode"
)

// FormatCountdown renders the time remaining as HH:MM:SS, clamped at zero
func FormatCountdown(remaining time.Duration) string {
	if remaining < 0 {
		remaining = 0
	}

	total := int64(remaining / time.Second)
	hours := total / 3600
	minutes := (total % 3600) / 60
	seconds := total % 60

	return fmt.Sprintf("%02d:%02d:%02d", hours, minutes, seconds)
}

// FormatElapsed renders elapsed seconds as MM:SS. Minutes do not roll over into hours.
func FormatElapsed(seconds int) string {
	if seconds < 0 {
		seconds = 0
	}
	return fmt.Sprintf("%02d:%02d", seconds/60, seconds%60)
}

// Initials returns the upper-cased first letters of the first two words of name
func Initials(name string) string {
	var b strings.Builder
	count := 0
	for _, word := range strings.Fields(name) {
		if count == 2 {
			break
		}
		for _, r := range word {
			b.WriteRune(unicode.ToUpper(r))
			break
		}
		count++
	}
	return b.String()
}
