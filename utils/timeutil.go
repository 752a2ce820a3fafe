package utils

import "time"

// ForceUTC converts a timestamp to UTC.
func ForceUTC(t time.Time) time.Time {
	return t.UTC()
}

// SeenRecently reports whether the timestamp falls inside the recency
// window of the given number of days. Nil and zero timestamps are never
// recent.
func SeenRecently(ts *time.Time, days int) bool {
	if ts == nil || ts.IsZero() {
		return false
	}
	cutoff := time.Now().UTC().AddDate(0, 0, -days)
	return ForceUTC(*ts).After(cutoff)
}

// SeenRecentlyAt is SeenRecently against an explicit current time, for
// deterministic policy tests.
func SeenRecentlyAt(ts *time.Time, days int, now time.Time) bool {
	if ts == nil || ts.IsZero() {
		return false
	}
	cutoff := now.UTC().AddDate(0, 0, -days)
	return ForceUTC(*ts).After(cutoff)
}

// TruncateInteger truncates an integer to the desired number of decimal
// digits by integer division. Values already within the length are
// returned unchanged.
func TruncateInteger(value int64, length int) int64 {
	count := 1
	for rest := value / 10; rest > 0; rest /= 10 {
		count++
	}
	if count > length {
		div := int64(1)
		for i := 0; i < count-length; i++ {
			div *= 10
		}
		return value / div
	}
	return value
}
