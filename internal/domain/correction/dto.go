package correction

import (
	"github.com/KunimitsuMk2/mogikintai/internal/domain/attendance"
	"github.com/KunimitsuMk2/mogikintai/internal/pkg/timeutil"
	"github.com/KunimitsuMk2/mogikintai/internal/pkg/validator"
)

type SubmitCorrectionRequest struct {
	AttendanceID string `json:"-"`
	attendance.TimeEntryInput
}

func (r *SubmitCorrectionRequest) Validate() error {
	var errs validator.ValidationErrors

	if !validator.IsValidUUID(r.AttendanceID) {
		errs = append(errs, validator.ValidationError{
			Field:   "attendance_id",
			Message: "attendance_id must be a valid UUID",
		})
	}

	if len(errs) > 0 {
		return errs
	}

	return nil
}

type CorrectionList struct {
	Pending  []CorrectionRequest
	Approved []CorrectionRequest
}

type CorrectionResponse struct {
	ID                 string                     `json:"id"`
	AttendanceID       string                     `json:"attendance_id"`
	AttendanceDate     string                     `json:"attendance_date"`
	UserID             string                     `json:"user_id"`
	UserName           string                     `json:"user_name"`
	Status             string                     `json:"status"`
	RequestedStartTime string                     `json:"requested_start_time"`
	RequestedEndTime   string                     `json:"requested_end_time"`
	RequestedBreaks    []attendance.BreakResponse `json:"requested_breaks"`
	Remarks            string                     `json:"remarks"`
	SubmittedAt        string                     `json:"submitted_at"`
	ApprovedBy         *string                    `json:"approved_by,omitempty"`
	ApprovedAt         *string                    `json:"approved_at,omitempty"`
}

func NewCorrectionResponse(c CorrectionRequest) CorrectionResponse {
	breaks := make([]attendance.BreakResponse, 0, len(c.RequestedBreaks))
	for _, b := range c.RequestedBreaks {
		start, end := b.Start, b.End
		breaks = append(breaks, attendance.BreakResponse{
			Start: timeutil.FormatClock(&start),
			End:   timeutil.FormatClock(&end),
		})
	}

	start, end := c.RequestedStartTime, c.RequestedEndTime
	resp := CorrectionResponse{
		ID:                 c.ID,
		AttendanceID:       c.AttendanceID,
		AttendanceDate:     c.AttendanceDate.Format(timeutil.DateLayout),
		UserID:             c.UserID,
		UserName:           c.UserName,
		Status:             string(c.Status),
		RequestedStartTime: timeutil.FormatClock(&start),
		RequestedEndTime:   timeutil.FormatClock(&end),
		RequestedBreaks:    breaks,
		Remarks:            c.Remarks,
		SubmittedAt:        c.CreatedAt.Format("2006-01-02 15:04:05"),
		ApprovedBy:         c.ApprovedBy,
	}
	if c.ApprovedAt != nil {
		approvedAt := c.ApprovedAt.Format("2006-01-02 15:04:05")
		resp.ApprovedAt = &approvedAt
	}
	return resp
}

type CorrectionListResponse struct {
	Pending  []CorrectionResponse `json:"pending"`
	Approved []CorrectionResponse `json:"approved"`
}

func NewCorrectionListResponse(l CorrectionList) CorrectionListResponse {
	resp := CorrectionListResponse{
		Pending:  make([]CorrectionResponse, 0, len(l.Pending)),
		Approved: make([]CorrectionResponse, 0, len(l.Approved)),
	}
	for _, c := range l.Pending {
		resp.Pending = append(resp.Pending, NewCorrectionResponse(c))
	}
	for _, c := range l.Approved {
		resp.Approved = append(resp.Approved, NewCorrectionResponse(c))
	}
	return resp
}

type DisplayViewResponse struct {
	Source     string                        `json:"source"`
	RequestID  string                        `json:"request_id,omitempty"`
	Editable   bool                          `json:"editable"`
	Attendance attendance.AttendanceResponse `json:"attendance"`
}

func NewDisplayViewResponse(v DisplayView) DisplayViewResponse {
	return DisplayViewResponse{
		Source:     string(v.Source),
		RequestID:  v.RequestID,
		Editable:   v.Editable,
		Attendance: attendance.NewAttendanceResponse(v.Values),
	}
}
