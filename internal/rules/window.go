package rules

import "time"

// DateOf materializes the calendar date of ts (in its own location) as
// midnight UTC, the representation entry dates are stored in.
func DateOf(ts time.Time) time.Time {
	y, m, d := ts.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// BeginningOfDay is midnight of ts's calendar day, in ts's location.
// Daily cooldowns compare trigger-log requested_at values against it.
func BeginningOfDay(ts time.Time) time.Time {
	y, m, d := ts.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, ts.Location())
}

// BeginningOfWeek is Monday 00:00:00 of ts's ISO week, in ts's location.
func BeginningOfWeek(ts time.Time) time.Time {
	daysSinceMonday := (int(ts.Weekday()) + 6) % 7
	return BeginningOfDay(ts).AddDate(0, 0, -daysSinceMonday)
}

// EndOfWeek is Sunday 23:59:59.999999 of ts's ISO week.
func EndOfWeek(ts time.Time) time.Time {
	return BeginningOfWeek(ts).AddDate(0, 0, 7).Add(-time.Microsecond)
}

// IsLastDayOfWeek reports whether ts falls on the Sunday closing its ISO week.
func IsLastDayOfWeek(ts time.Time) bool {
	return ts.Weekday() == time.Sunday
}

// EndOfPreviousDay is yesterday 23:59:59.999999 relative to ts, the
// reference timestamp the daily batch evaluates at.
func EndOfPreviousDay(ts time.Time) time.Time {
	return BeginningOfDay(ts).Add(-time.Microsecond)
}
