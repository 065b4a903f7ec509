package meeting

import "time"

// Tolerance is the minimum drift between a stored instant and a freshly
// fetched one before the change counts as a real reschedule. The provider
// rounds event times, so anything below this is jitter and must not produce
// a notification.
const Tolerance = 240 * time.Second

// NormalizeUTC converts t to UTC and truncates it to minute resolution.
// Zone-less timestamps parse as UTC upstream, so a missing zone is already
// handled. Idempotent.
func NormalizeUTC(t time.Time) time.Time {
	return t.UTC().Truncate(time.Minute)
}

// TimesDifferEnough reports whether two instants differ by at least
// Tolerance.
func TimesDifferEnough(old, new time.Time) bool {
	d := new.Sub(old)
	if d < 0 {
		d = -d
	}
	return d >= Tolerance
}
