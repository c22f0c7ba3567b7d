package schedule

import "time"

// Window describes the daily generation window. Hours are UTC hours of the
// current day; Step is the spacing between interval boundaries.
type Window struct {
	StartHour int
	EndHour   int
	Step      time.Duration
}

// DefaultWindow returns the standard 09:00-17:00 UTC business window with
// 15-minute intervals.
func DefaultWindow() Window {
	return Window{StartHour: 9, EndHour: 17, Step: 15 * time.Minute}
}

// DayIntervals computes the ascending sequence of epoch-millisecond interval
// boundaries covering now's UTC day within the window. The first boundary is
// the window start; every boundary less than or equal to the window end is
// included. The sequence is recomputed on every call, never cached.
func DayIntervals(now time.Time, w Window) []int64 {
	if w.Step <= 0 {
		w = DefaultWindow()
	}
	day := now.UTC()
	start := time.Date(day.Year(), day.Month(), day.Day(), w.StartHour, 0, 0, 0, time.UTC).UnixMilli()
	end := time.Date(day.Year(), day.Month(), day.Day(), w.EndHour, 0, 0, 0, time.UTC).UnixMilli()
	step := w.Step.Milliseconds()

	var intervals []int64
	for ts := start; ts <= end; ts += step {
		intervals = append(intervals, ts)
	}
	return intervals
}
