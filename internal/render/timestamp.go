package render

import "fmt"

// formatTimestamp converts seconds to an HH:MM:SS<sep>mmm timestamp.
// Hours are not capped at 99; very long recordings render as-is.
func formatTimestamp(seconds float64, millisSep string) string {
	total := int(seconds)
	hours := total / 3600
	minutes := (total % 3600) / 60
	secs := total % 60
	millis := int((seconds - float64(total)) * 1000)

	return fmt.Sprintf("%02d:%02d:%02d%s%03d", hours, minutes, secs, millisSep, millis)
}
