package attendance

import (
	"time"
)

type Status string

const (
	StatusOffDuty    Status = "off_duty"
	StatusWorking    Status = "working"
	StatusOnBreak    Status = "on_break"
	StatusClockedOut Status = "clocked_out"
)

type Attendance struct {
	ID        string
	UserID    string
	Date      time.Time
	StartTime *time.Time
	EndTime   *time.Time
	Status    Status
	Remarks   string
	CreatedAt time.Time
	UpdatedAt time.Time

	RestTimes []RestTime

	// DTO / Join
	UserName string
}

type RestTime struct {
	ID           string
	AttendanceID string
	StartTime    time.Time
	EndTime      *time.Time
	CreatedAt    time.Time
}

// BreakSpan is a fully specified break used when a break set is rewritten.
type BreakSpan struct {
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`
}

// HasOpenBreak reports whether a break has been started but not ended.
func (a *Attendance) HasOpenBreak() bool {
	for _, rt := range a.RestTimes {
		if rt.EndTime == nil {
			return true
		}
	}
	return false
}

// In returns a copy of a with every timestamp expressed in loc.
func (a Attendance) In(loc *time.Location) Attendance {
	if a.StartTime != nil {
		start := a.StartTime.In(loc)
		a.StartTime = &start
	}
	if a.EndTime != nil {
		end := a.EndTime.In(loc)
		a.EndTime = &end
	}
	rests := make([]RestTime, len(a.RestTimes))
	for i, rt := range a.RestTimes {
		rt.StartTime = rt.StartTime.In(loc)
		if rt.EndTime != nil {
			end := rt.EndTime.In(loc)
			rt.EndTime = &end
		}
		rests[i] = rt
	}
	a.RestTimes = rests
	return a
}

// RestTimesFromSpans builds break rows for attendanceID out of a replacement set.
func RestTimesFromSpans(attendanceID string, spans []BreakSpan) []RestTime {
	rests := make([]RestTime, 0, len(spans))
	for _, span := range spans {
		end := span.End
		rests = append(rests, RestTime{
			AttendanceID: attendanceID,
			StartTime:    span.Start,
			EndTime:      &end,
		})
	}
	return rests
}
