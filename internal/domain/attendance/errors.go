package attendance

import "errors"

// Attendance domain errors
var (
	ErrAttendanceNotFound = errors.New("attendance record not found")
	ErrRestTimeNotFound   = errors.New("break record not found")
)
