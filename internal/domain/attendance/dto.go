package attendance

import (
	"fmt"
	"time"

	"github.com/KunimitsuMk2/mogikintai/internal/pkg/timeutil"
	"github.com/KunimitsuMk2/mogikintai/internal/pkg/validator"
)

const (
	MessageStartEndInvalid = "start/end time invalid"
	MessageBreakInvalid    = "break time invalid for this entry"
	MessageRemarksRequired = "remarks required"
)

// ========================================
// TIME ENTRY INPUT
// ========================================

type BreakInput struct {
	Start string `json:"start"`
	End   string `json:"end"`
}

// TimeEntryInput carries HH:MM values as submitted by an edit form or a correction request.
type TimeEntryInput struct {
	StartTime string       `json:"start_time"`
	EndTime   string       `json:"end_time"`
	Breaks    []BreakInput `json:"breaks"`
	Remarks   string       `json:"remarks"`
}

// TimeEntry is a validated TimeEntryInput anchored to a calendar day.
type TimeEntry struct {
	StartTime time.Time
	EndTime   time.Time
	Breaks    []BreakSpan
	Remarks   string
}

// Resolve interprets the input against date in loc and validates it.
// Break rows with a blank start or end are dropped without error.
func (in TimeEntryInput) Resolve(date time.Time, loc *time.Location) (TimeEntry, error) {
	var errs validator.ValidationErrors
	var entry TimeEntry

	start, startErr := timeutil.ParseClockOnDate(date, in.StartTime, loc)
	end, endErr := timeutil.ParseClockOnDate(date, in.EndTime, loc)
	shiftValid := startErr == nil && endErr == nil && start.Before(end)
	if !shiftValid {
		errs = append(errs, validator.ValidationError{
			Field:   "start_time",
			Message: MessageStartEndInvalid,
		})
	}
	entry.StartTime = start
	entry.EndTime = end

	for i, b := range in.Breaks {
		if validator.IsEmpty(b.Start) || validator.IsEmpty(b.End) {
			continue
		}
		field := fmt.Sprintf("breaks[%d]", i)

		breakStart, err := timeutil.ParseClockOnDate(date, b.Start, loc)
		if err != nil {
			errs = append(errs, validator.ValidationError{Field: field, Message: MessageBreakInvalid})
			continue
		}
		breakEnd, err := timeutil.ParseClockOnDate(date, b.End, loc)
		if err != nil {
			errs = append(errs, validator.ValidationError{Field: field, Message: MessageBreakInvalid})
			continue
		}
		if !breakStart.Before(breakEnd) {
			errs = append(errs, validator.ValidationError{Field: field, Message: MessageBreakInvalid})
			continue
		}
		if shiftValid && (breakStart.Before(start) || breakEnd.After(end)) {
			errs = append(errs, validator.ValidationError{Field: field, Message: MessageBreakInvalid})
			continue
		}
		entry.Breaks = append(entry.Breaks, BreakSpan{Start: breakStart, End: breakEnd})
	}

	if validator.IsEmpty(in.Remarks) {
		errs = append(errs, validator.ValidationError{
			Field:   "remarks",
			Message: MessageRemarksRequired,
		})
	}
	entry.Remarks = in.Remarks

	if len(errs) > 0 {
		return TimeEntry{}, errs
	}

	return entry, nil
}

// EditAttendanceRequest for admin direct edits of a canonical record
type EditAttendanceRequest struct {
	ID string `json:"-"`
	TimeEntryInput
}

func (r *EditAttendanceRequest) Validate() error {
	var errs validator.ValidationErrors

	if !validator.IsValidUUID(r.ID) {
		errs = append(errs, validator.ValidationError{
			Field:   "id",
			Message: "id must be a valid UUID",
		})
	}

	if len(errs) > 0 {
		return errs
	}

	return nil
}

// ========================================
// RESPONSES
// ========================================

type BreakResponse struct {
	Start string `json:"start"`
	End   string `json:"end"`
}

type AttendanceResponse struct {
	ID             string          `json:"id"`
	UserID         string          `json:"user_id"`
	UserName       string          `json:"user_name,omitempty"`
	Date           string          `json:"date"`
	StartTime      string          `json:"start_time"`
	EndTime        string          `json:"end_time"`
	Status         string          `json:"status"`
	Remarks        string          `json:"remarks"`
	Breaks         []BreakResponse `json:"breaks"`
	BreakSeconds   int             `json:"break_seconds"`
	WorkingSeconds int             `json:"working_seconds"`
	BreakTotal     string          `json:"break_total"`
	WorkingTotal   string          `json:"working_total"`
}

func NewAttendanceResponse(a Attendance) AttendanceResponse {
	breaks := make([]BreakResponse, 0, len(a.RestTimes))
	for _, rt := range a.RestTimes {
		start := rt.StartTime
		breaks = append(breaks, BreakResponse{
			Start: timeutil.FormatClock(&start),
			End:   timeutil.FormatClock(rt.EndTime),
		})
	}

	breakSeconds := a.TotalBreakSeconds()
	workingSeconds := a.WorkingSeconds()

	return AttendanceResponse{
		ID:             a.ID,
		UserID:         a.UserID,
		UserName:       a.UserName,
		Date:           a.Date.Format(timeutil.DateLayout),
		StartTime:      timeutil.FormatClock(a.StartTime),
		EndTime:        timeutil.FormatClock(a.EndTime),
		Status:         string(a.Status),
		Remarks:        a.Remarks,
		Breaks:         breaks,
		BreakSeconds:   breakSeconds,
		WorkingSeconds: workingSeconds,
		BreakTotal:     timeutil.FormatSeconds(breakSeconds),
		WorkingTotal:   timeutil.FormatSeconds(workingSeconds),
	}
}

type TodayResponse struct {
	Now            string             `json:"now"`
	Attendance     AttendanceResponse `json:"attendance"`
	AllowedActions []Action           `json:"allowed_actions"`
}

func NewTodayResponse(a Attendance, now time.Time) TodayResponse {
	return TodayResponse{
		Now:            now.Format(time.RFC3339),
		Attendance:     NewAttendanceResponse(a),
		AllowedActions: AllowedActions(a.Status),
	}
}

type DayRecordResponse struct {
	Date       string              `json:"date"`
	Weekday    string              `json:"weekday"`
	Attendance *AttendanceResponse `json:"attendance"`
}

type MonthlyReportResponse struct {
	UserID    string              `json:"user_id"`
	UserName  string              `json:"user_name"`
	Month     string              `json:"month"`
	PrevMonth string              `json:"prev_month"`
	NextMonth string              `json:"next_month"`
	Days      []DayRecordResponse `json:"days"`
}

func NewMonthlyReportResponse(r MonthlyReport) MonthlyReportResponse {
	days := make([]DayRecordResponse, 0, len(r.Days))
	for _, d := range r.Days {
		day := DayRecordResponse{
			Date:    d.Date.Format(timeutil.DateLayout),
			Weekday: d.Date.Weekday().String(),
		}
		if d.Attendance != nil {
			resp := NewAttendanceResponse(*d.Attendance)
			day.Attendance = &resp
		}
		days = append(days, day)
	}

	return MonthlyReportResponse{
		UserID:    r.UserID,
		UserName:  r.UserName,
		Month:     r.Month.Format(timeutil.YearMonthLayout),
		PrevMonth: r.Month.AddDate(0, -1, 0).Format(timeutil.YearMonthLayout),
		NextMonth: r.Month.AddDate(0, 1, 0).Format(timeutil.YearMonthLayout),
		Days:      days,
	}
}

type DailyAttendanceResponse struct {
	Date        string               `json:"date"`
	PrevDate    string               `json:"prev_date"`
	NextDate    string               `json:"next_date"`
	Attendances []AttendanceResponse `json:"attendances"`
}

func NewDailyAttendanceResponse(date time.Time, records []Attendance) DailyAttendanceResponse {
	attendances := make([]AttendanceResponse, 0, len(records))
	for _, rec := range records {
		attendances = append(attendances, NewAttendanceResponse(rec))
	}
	return DailyAttendanceResponse{
		Date:        date.Format(timeutil.DateLayout),
		PrevDate:    date.AddDate(0, 0, -1).Format(timeutil.DateLayout),
		NextDate:    date.AddDate(0, 0, 1).Format(timeutil.DateLayout),
		Attendances: attendances,
	}
}
