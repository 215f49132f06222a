package http

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/KunimitsuMk2/mogikintai/internal/domain/attendance"
	"github.com/KunimitsuMk2/mogikintai/internal/domain/correction"
	"github.com/KunimitsuMk2/mogikintai/internal/domain/report"
	"github.com/KunimitsuMk2/mogikintai/internal/domain/user"
	"github.com/KunimitsuMk2/mogikintai/internal/handler/http/response"
	"github.com/KunimitsuMk2/mogikintai/internal/pkg/timeutil"
)

type AdminHandler interface {
	DailyAttendances(w http.ResponseWriter, r *http.Request)
	ListStaff(w http.ResponseWriter, r *http.Request)
	StaffMonth(w http.ResponseWriter, r *http.Request)
	ExportStaffMonth(w http.ResponseWriter, r *http.Request)
	EditAttendance(w http.ResponseWriter, r *http.Request)
	ApproveCorrection(w http.ResponseWriter, r *http.Request)
}

type adminHandlerImpl struct {
	attendanceService attendance.AttendanceService
	correctionService correction.CorrectionService
	reportService     report.ReportService
	userService       user.UserService
}

func NewAdminHandler(
	attendanceService attendance.AttendanceService,
	correctionService correction.CorrectionService,
	reportService report.ReportService,
	userService user.UserService,
) AdminHandler {
	return &adminHandlerImpl{
		attendanceService: attendanceService,
		correctionService: correctionService,
		reportService:     reportService,
		userService:       userService,
	}
}

// DailyAttendances implements AdminHandler.
func (h *adminHandlerImpl) DailyAttendances(w http.ResponseWriter, r *http.Request) {
	actor, err := actorFromRequest(r)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	date, err := dateParam(r, h.attendanceService.Now())
	if err != nil {
		response.HandleError(w, err)
		return
	}

	records, err := h.attendanceService.ListByDate(r.Context(), actor, date)
	if err != nil {
		slog.Error("Failed to list daily attendance", "error", err, "date", date)
		response.HandleError(w, err)
		return
	}

	response.Success(w, attendance.NewDailyAttendanceResponse(date, records))
}

// ListStaff implements AdminHandler.
func (h *adminHandlerImpl) ListStaff(w http.ResponseWriter, r *http.Request) {
	actor, err := actorFromRequest(r)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	staff, err := h.userService.ListStaff(r.Context(), actor)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	resp := make([]user.UserResponse, 0, len(staff))
	for _, u := range staff {
		resp = append(resp, user.NewUserResponse(u))
	}
	response.Success(w, resp)
}

// StaffMonth implements AdminHandler.
func (h *adminHandlerImpl) StaffMonth(w http.ResponseWriter, r *http.Request) {
	actor, err := actorFromRequest(r)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	userID, err := uuidParam(r, "userID", user.ErrUserNotFound)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	month, err := monthParam(r, h.attendanceService.Now())
	if err != nil {
		response.HandleError(w, err)
		return
	}

	monthly, err := h.attendanceService.FindByUserAndMonth(r.Context(), actor, userID, month)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, attendance.NewMonthlyReportResponse(monthly))
}

// ExportStaffMonth implements AdminHandler.
func (h *adminHandlerImpl) ExportStaffMonth(w http.ResponseWriter, r *http.Request) {
	actor, err := actorFromRequest(r)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	userID, err := uuidParam(r, "userID", user.ErrUserNotFound)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	req := report.ExportMonthlyRequest{
		UserID: userID,
		Month:  r.URL.Query().Get("month"),
		Format: report.Format(r.URL.Query().Get("format")),
	}
	if req.Month == "" {
		req.Month = h.attendanceService.Now().Format(timeutil.YearMonthLayout)
	}

	file, err := h.reportService.ExportMonthly(r.Context(), actor, req)
	if err != nil {
		slog.Error("Failed to export monthly attendance", "error", err, "user_id", userID)
		response.HandleError(w, err)
		return
	}

	response.Attachment(w, file.Filename, file.ContentType, file.Body)
}

// EditAttendance implements AdminHandler.
func (h *adminHandlerImpl) EditAttendance(w http.ResponseWriter, r *http.Request) {
	actor, err := actorFromRequest(r)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	id, err := uuidParam(r, "id", attendance.ErrAttendanceNotFound)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	var req attendance.EditAttendanceRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		slog.Error("EditAttendance decode error", "error", err)
		response.BadRequest(w, "Invalid request format", nil)
		return
	}
	req.ID = id

	updated, err := h.attendanceService.ApplyDirectEdit(r.Context(), actor, req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	slog.Info("Attendance edited by admin", "attendance_id", updated.ID, "admin_id", actor.ID)
	response.SuccessWithMessage(w, "Attendance updated", attendance.NewAttendanceResponse(updated))
}

// ApproveCorrection implements AdminHandler.
func (h *adminHandlerImpl) ApproveCorrection(w http.ResponseWriter, r *http.Request) {
	actor, err := actorFromRequest(r)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	id, err := uuidParam(r, "id", correction.ErrCorrectionRequestNotFound)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	approved, err := h.correctionService.Approve(r.Context(), actor, id)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	slog.Info("Correction request approved", "request_id", approved.ID, "admin_id", actor.ID)
	response.SuccessWithMessage(w, "Correction request approved", correction.NewCorrectionResponse(approved))
}
