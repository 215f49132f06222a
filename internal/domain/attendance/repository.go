package attendance

import (
	"context"
	"time"
)

// AttendanceRepository defines data access methods for attendance records.
// Lookups that find nothing return ErrAttendanceNotFound.
type AttendanceRepository interface {
	// GetOrCreate returns the row for (userID, date), inserting an off-duty row when none exists
	GetOrCreate(ctx context.Context, userID string, date time.Time) (Attendance, error)

	// GetByID retrieves attendance by ID joined with the owner's name
	GetByID(ctx context.Context, id string) (Attendance, error)

	// GetByIDForUpdate retrieves attendance by ID and locks the row for the current transaction
	GetByIDForUpdate(ctx context.Context, id string) (Attendance, error)

	// GetByUserAndDate returns nil when the user has no row for date
	GetByUserAndDate(ctx context.Context, userID string, date time.Time) (*Attendance, error)

	// ListByUserAndRange retrieves a user's rows with from <= date <= to, ordered by date
	ListByUserAndRange(ctx context.Context, userID string, from, to time.Time) ([]Attendance, error)

	// ListByDate retrieves every user's row for date, ordered by user name
	ListByDate(ctx context.Context, date time.Time) ([]Attendance, error)

	// Update writes start_time, end_time, status and remarks
	Update(ctx context.Context, attendance Attendance) error
}

// RestTimeRepository defines data access methods for break records.
type RestTimeRepository interface {
	Create(ctx context.Context, restTime RestTime) (RestTime, error)

	// GetLatestOpen returns the most recently started break without an end, or nil
	GetLatestOpen(ctx context.Context, attendanceID string) (*RestTime, error)

	Close(ctx context.Context, id string, endTime time.Time) error

	// ListByAttendanceIDs groups breaks by attendance, each group ordered by start time
	ListByAttendanceIDs(ctx context.Context, attendanceIDs []string) (map[string][]RestTime, error)

	// ReplaceAll deletes every break of the attendance and inserts spans in order
	ReplaceAll(ctx context.Context, attendanceID string, spans []BreakSpan) error
}
