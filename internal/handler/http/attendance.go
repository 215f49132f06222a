package http

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/KunimitsuMk2/mogikintai/internal/domain/attendance"
	"github.com/KunimitsuMk2/mogikintai/internal/domain/correction"
	"github.com/KunimitsuMk2/mogikintai/internal/handler/http/response"
	"github.com/go-chi/chi/v5"
)

type AttendanceHandler interface {
	Today(w http.ResponseWriter, r *http.Request)
	PerformAction(w http.ResponseWriter, r *http.Request)
	MyMonth(w http.ResponseWriter, r *http.Request)
	Get(w http.ResponseWriter, r *http.Request)
	SubmitCorrection(w http.ResponseWriter, r *http.Request)
}

type attendanceHandlerImpl struct {
	attendanceService attendance.AttendanceService
	correctionService correction.CorrectionService
}

func NewAttendanceHandler(attendanceService attendance.AttendanceService, correctionService correction.CorrectionService) AttendanceHandler {
	return &attendanceHandlerImpl{
		attendanceService: attendanceService,
		correctionService: correctionService,
	}
}

// Today implements AttendanceHandler.
func (h *attendanceHandlerImpl) Today(w http.ResponseWriter, r *http.Request) {
	actor, err := actorFromRequest(r)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	att, err := h.attendanceService.GetOrCreateToday(r.Context(), actor)
	if err != nil {
		slog.Error("Failed to load today's attendance", "error", err, "user_id", actor.ID)
		response.HandleError(w, err)
		return
	}

	response.Success(w, attendance.NewTodayResponse(att, h.attendanceService.Now()))
}

// PerformAction implements AttendanceHandler.
func (h *attendanceHandlerImpl) PerformAction(w http.ResponseWriter, r *http.Request) {
	actor, err := actorFromRequest(r)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	action := chi.URLParam(r, "action")
	att, err := h.attendanceService.PerformAction(r.Context(), actor, action)
	if err != nil {
		slog.Error("Failed to perform attendance action", "error", err, "user_id", actor.ID, "action", action)
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Attendance updated", attendance.NewTodayResponse(att, h.attendanceService.Now()))
}

// MyMonth implements AttendanceHandler.
func (h *attendanceHandlerImpl) MyMonth(w http.ResponseWriter, r *http.Request) {
	actor, err := actorFromRequest(r)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	month, err := monthParam(r, h.attendanceService.Now())
	if err != nil {
		response.HandleError(w, err)
		return
	}

	report, err := h.attendanceService.FindByUserAndMonth(r.Context(), actor, actor.ID, month)
	if err != nil {
		slog.Error("Failed to build monthly report", "error", err, "user_id", actor.ID)
		response.HandleError(w, err)
		return
	}

	response.Success(w, attendance.NewMonthlyReportResponse(report))
}

// Get implements AttendanceHandler.
func (h *attendanceHandlerImpl) Get(w http.ResponseWriter, r *http.Request) {
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

	view, err := h.correctionService.ResolveDisplay(r.Context(), actor, id)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, correction.NewDisplayViewResponse(view))
}

// SubmitCorrection implements AttendanceHandler.
func (h *attendanceHandlerImpl) SubmitCorrection(w http.ResponseWriter, r *http.Request) {
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

	var req correction.SubmitCorrectionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		slog.Error("SubmitCorrection decode error", "error", err)
		response.BadRequest(w, "Invalid request format", nil)
		return
	}
	req.AttendanceID = id

	created, err := h.correctionService.Submit(r.Context(), actor, req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	slog.Info("Correction request submitted", "request_id", created.ID, "attendance_id", created.AttendanceID)
	response.Created(w, "Correction request submitted", correction.NewCorrectionResponse(created))
}
