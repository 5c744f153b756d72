package itch

// Session boundaries, in nanoseconds since midnight. Nasdaq ITCH runs
// system hours from 4:00am and market hours from 9:30am to 4:00pm, but
// accepts late administrative traffic up to one minute past the nominal
// 8:00pm system close — a venue quirk, not a bug, so translators accept
// events up to endTimeNanos rather than the nominal 20:00:00 boundary.
const (
	startTimeNanos = 4 * 3600 * 1e9
	endTimeNanos   = (20*3600 + 1*60) * 1e9
	intervalNanos  = 1e9
)

func inSession(timeNanos uint64) bool {
	return timeNanos >= startTimeNanos && timeNanos <= endTimeNanos
}

func intervalIndex(timeNanos uint64) int {
	return int((timeNanos - startTimeNanos) / intervalNanos)
}
