package correction

import (
	"time"

	"github.com/KunimitsuMk2/mogikintai/internal/domain/attendance"
)

type Status string

const (
	StatusPending  Status = "pending"
	StatusApproved Status = "approved"
)

type CorrectionRequest struct {
	ID                 string
	AttendanceID       string
	UserID             string
	RequestedStartTime time.Time
	RequestedEndTime   time.Time
	RequestedBreaks    []attendance.BreakSpan
	Remarks            string
	Status             Status
	ApprovedBy         *string
	ApprovedAt         *time.Time
	CreatedAt          time.Time
	UpdatedAt          time.Time

	// DTO / Join
	UserName       string
	AttendanceDate time.Time
}

// IsPending checks if the request still awaits approval
func (c *CorrectionRequest) IsPending() bool {
	return c.Status == StatusPending
}

// Overlay returns a copy of att carrying the requested values in place of the canonical ones.
func (c *CorrectionRequest) Overlay(att attendance.Attendance) attendance.Attendance {
	start := c.RequestedStartTime
	end := c.RequestedEndTime
	att.StartTime = &start
	att.EndTime = &end
	att.Remarks = c.Remarks
	att.RestTimes = attendance.RestTimesFromSpans(att.ID, c.RequestedBreaks)
	return att
}

type DisplaySource string

const (
	SourcePendingRequest  DisplaySource = "pending_request"
	SourceApprovedRequest DisplaySource = "approved_request"
	SourceAttendance      DisplaySource = "attendance"
)

// DisplayView is what a viewer sees for one attendance after the overlay rule is applied.
type DisplayView struct {
	Source    DisplaySource
	RequestID string
	Values    attendance.Attendance
	Editable  bool
}

// In returns a copy of c with every timestamp expressed in loc.
func (c CorrectionRequest) In(loc *time.Location) CorrectionRequest {
	c.RequestedStartTime = c.RequestedStartTime.In(loc)
	c.RequestedEndTime = c.RequestedEndTime.In(loc)
	breaks := make([]attendance.BreakSpan, len(c.RequestedBreaks))
	for i, b := range c.RequestedBreaks {
		breaks[i] = attendance.BreakSpan{Start: b.Start.In(loc), End: b.End.In(loc)}
	}
	c.RequestedBreaks = breaks
	c.CreatedAt = c.CreatedAt.In(loc)
	if c.ApprovedAt != nil {
		approvedAt := c.ApprovedAt.In(loc)
		c.ApprovedAt = &approvedAt
	}
	return c
}
