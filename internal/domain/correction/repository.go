package correction

import (
	"context"
	"time"
)

type CorrectionFilter struct {
	UserID *string
	Status *Status
}

// CorrectionRepository defines data access methods for correction requests.
// Lookups by ID that find nothing return ErrCorrectionRequestNotFound.
type CorrectionRepository interface {
	Create(ctx context.Context, req CorrectionRequest) (CorrectionRequest, error)
	GetByID(ctx context.Context, id string) (CorrectionRequest, error)

	// GetByIDForUpdate retrieves the request and locks the row for the current transaction
	GetByIDForUpdate(ctx context.Context, id string) (CorrectionRequest, error)

	// GetPendingByAttendance returns nil when no request is pending
	GetPendingByAttendance(ctx context.Context, attendanceID string) (*CorrectionRequest, error)

	// GetLatestApprovedByAttendance returns the most recently approved request, or nil
	GetLatestApprovedByAttendance(ctx context.Context, attendanceID string) (*CorrectionRequest, error)

	// List returns matching requests newest submission first
	List(ctx context.Context, filter CorrectionFilter) ([]CorrectionRequest, error)

	MarkApproved(ctx context.Context, id string, approvedBy string, approvedAt time.Time) error
}
