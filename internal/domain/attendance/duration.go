package attendance

import "github.com/KunimitsuMk2/mogikintai/internal/pkg/timeutil"

// TotalBreakSeconds sums completed breaks at minute granularity. Open breaks count as zero.
func (a *Attendance) TotalBreakSeconds() int {
	total := 0
	for _, rt := range a.RestTimes {
		if rt.EndTime == nil {
			continue
		}
		total += timeutil.MinutesBetween(rt.StartTime, *rt.EndTime) * 60
	}
	return total
}

// WorkingSeconds is the span between start and end minus whole break minutes.
// It is zero until both ends of the shift are known.
func (a *Attendance) WorkingSeconds() int {
	if a.StartTime == nil || a.EndTime == nil {
		return 0
	}
	breakMinutes := a.TotalBreakSeconds() / 60
	return timeutil.MinutesBetween(*a.StartTime, *a.EndTime)*60 - breakMinutes*60
}
