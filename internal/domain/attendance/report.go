package attendance

import (
	"time"

	"github.com/KunimitsuMk2/mogikintai/internal/pkg/timeutil"
)

// DayRecord is one calendar day of a monthly report. Attendance is nil on days without a row.
type DayRecord struct {
	Date       time.Time
	Attendance *Attendance
}

type MonthlyReport struct {
	UserID   string
	UserName string
	Month    time.Time
	Days     []DayRecord
}

// BuildMonthlyReport lays records out over every day of month in ascending order.
// Timestamps are converted to loc.
func BuildMonthlyReport(userID, userName string, month time.Time, records []Attendance, loc *time.Location) MonthlyReport {
	byDate := make(map[string]Attendance, len(records))
	for _, rec := range records {
		byDate[rec.Date.Format(timeutil.DateLayout)] = rec
	}

	first, _ := timeutil.MonthRange(month)
	days := make([]DayRecord, 0, timeutil.DaysInMonth(month))
	for day := first; day.Month() == first.Month(); day = day.AddDate(0, 0, 1) {
		record := DayRecord{Date: day}
		if rec, ok := byDate[day.Format(timeutil.DateLayout)]; ok {
			local := rec.In(loc)
			record.Attendance = &local
		}
		days = append(days, record)
	}

	return MonthlyReport{
		UserID:   userID,
		UserName: userName,
		Month:    first,
		Days:     days,
	}
}
