package meeting

import "time"

// Maintenance windows of the support team, in local wall clock:
// Monday 15:00-16:00, Friday 15:00-17:00.

// OverlapsMaintenance reports whether [localStart, localEnd) intersects the
// maintenance window of its weekday. Both arguments must already be in the
// organization's local time; the caller converts.
func OverlapsMaintenance(localStart, localEnd time.Time) bool {
	var winStart, winEnd time.Time
	switch localStart.Weekday() {
	case time.Monday:
		winStart = timeOfDay(localStart, 15, 0)
		winEnd = timeOfDay(localStart, 16, 0)
	case time.Friday:
		winStart = timeOfDay(localStart, 15, 0)
		winEnd = timeOfDay(localStart, 17, 0)
	default:
		return false
	}
	// Half-open intervals: touching endpoints do not overlap.
	return localStart.Before(winEnd) && winStart.Before(localEnd)
}

func timeOfDay(day time.Time, hour, min int) time.Time {
	return time.Date(day.Year(), day.Month(), day.Day(), hour, min, 0, 0, day.Location())
}
