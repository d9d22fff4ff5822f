package reservation

import (
	"fmt"
	"time"
)

// SlotGranularity is the fixed size of a bookable time bucket.
const SlotGranularity = 30 * time.Minute

// BucketStart floors t to its 30-minute bucket boundary, keeping the
// location.
func BucketStart(t time.Time) time.Time {
	minute := 0
	if t.Minute() >= 30 {
		minute = 30
	}
	return time.Date(t.Year(), t.Month(), t.Day(), t.Hour(), minute, 0, 0, t.Location())
}

// SlotIDFor derives the deterministic slot key for a local instant, e.g.
// "20240610_0900". Every instant inside one bucket maps to the same id;
// distinct buckets never collide because the id spells out the full
// day+time of the bucket.
func SlotIDFor(t time.Time) string {
	b := BucketStart(t)
	return fmt.Sprintf("%04d%02d%02d_%02d%02d", b.Year(), int(b.Month()), b.Day(), b.Hour(), b.Minute())
}

// DateKeyFor derives the provider-local calendar-day key, "YYYY-MM-DD".
func DateKeyFor(t time.Time) string {
	return t.Format("2006-01-02")
}

// AlignedToGrid reports whether t sits exactly on a 30-minute boundary.
func AlignedToGrid(t time.Time) bool {
	return t.Minute()%30 == 0 && t.Second() == 0 && t.Nanosecond() == 0
}
