package attendance

import (
	"context"
	"time"

	"github.com/KunimitsuMk2/mogikintai/internal/domain/user"
)

// AttendanceService defines business logic for attendance operations
type AttendanceService interface {
	// GetOrCreateToday returns the actor's row for the current local day, creating it off-duty
	GetOrCreateToday(ctx context.Context, actor user.Actor) (Attendance, error)

	// PerformAction applies a clock action to today's row. Guard mismatches succeed without change.
	PerformAction(ctx context.Context, actor user.Actor, action string) (Attendance, error)

	// FindByUserAndDate returns nil when the user has no row for date
	FindByUserAndDate(ctx context.Context, actor user.Actor, userID string, date time.Time) (*Attendance, error)

	// FindByUserAndMonth returns one entry per calendar day of month
	FindByUserAndMonth(ctx context.Context, actor user.Actor, userID string, month time.Time) (MonthlyReport, error)

	// ListByDate returns every user's row for date (admin)
	ListByDate(ctx context.Context, actor user.Actor, date time.Time) ([]Attendance, error)

	// ApplyDirectEdit overwrites times and remarks and replaces the break set (admin)
	ApplyDirectEdit(ctx context.Context, actor user.Actor, req EditAttendanceRequest) (Attendance, error)

	// Now returns the current time in the service's local zone
	Now() time.Time
}
