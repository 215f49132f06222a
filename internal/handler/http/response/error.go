package response

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/KunimitsuMk2/mogikintai/internal/domain/attendance"
	"github.com/KunimitsuMk2/mogikintai/internal/domain/auth"
	"github.com/KunimitsuMk2/mogikintai/internal/domain/correction"
	"github.com/KunimitsuMk2/mogikintai/internal/domain/report"
	"github.com/KunimitsuMk2/mogikintai/internal/domain/user"
	"github.com/KunimitsuMk2/mogikintai/internal/pkg/validator"
)

// HandleError maps domain errors to HTTP responses
func HandleError(w http.ResponseWriter, err error) {
	// Check if it's a validation error
	var validationErrs validator.ValidationErrors
	if errors.As(err, &validationErrs) {
		ValidationError(w, validationErrs.ToMap())
		return
	}

	switch {
	// Auth domain errors
	case errors.Is(err, auth.ErrInvalidCredentials):
		Unauthorized(w, err.Error())
	case errors.Is(err, auth.ErrInvalidToken):
		Unauthorized(w, "Invalid or expired token")
	case errors.Is(err, auth.ErrRefreshTokenRevoked):
		Unauthorized(w, "Refresh token revoked")
	case errors.Is(err, auth.ErrRefreshTokenCookieNotFound),
		errors.Is(err, auth.ErrRefreshTokenCookieEmpty):
		Unauthorized(w, err.Error())
	case errors.Is(err, auth.ErrAccountNotRegistered):
		Forbidden(w, err.Error())
	case errors.Is(err, auth.ErrGoogleLoginDisabled):
		NotFound(w, err.Error())
	case errors.Is(err, auth.ErrEmailAlreadyExists):
		Conflict(w, "Email already registered")
	case errors.Is(err, auth.ErrStateCookieEmpty),
		errors.Is(err, auth.ErrStateParamEmpty),
		errors.Is(err, auth.ErrStateMismatch),
		errors.Is(err, auth.ErrCodeValueEmpty),
		errors.Is(err, auth.ErrGoogleAccessDeniedByUser):
		BadRequest(w, err.Error(), nil)

	// User domain errors
	case errors.Is(err, user.ErrUserNotFound):
		NotFound(w, "User not found")
	case errors.Is(err, user.ErrUserEmailExists):
		Conflict(w, "Email already registered")
	case errors.Is(err, user.ErrAdminPrivilegeRequired):
		Forbidden(w, "Admin privilege required")
	case errors.Is(err, user.ErrInvalidRole):
		BadRequest(w, err.Error(), nil)
	case errors.Is(err, user.ErrForbidden):
		Forbidden(w, err.Error())

	// Attendance domain errors
	case errors.Is(err, attendance.ErrAttendanceNotFound):
		NotFound(w, "Attendance record not found")
	case errors.Is(err, attendance.ErrRestTimeNotFound):
		NotFound(w, "Break record not found")

	// Correction domain errors
	case errors.Is(err, correction.ErrCorrectionRequestNotFound):
		NotFound(w, "Correction request not found")
	case errors.Is(err, correction.ErrPendingRequestExists):
		Conflict(w, err.Error())
	case errors.Is(err, correction.ErrCorrectionAlreadyApproved):
		Conflict(w, "Correction request already approved")

	// Report domain errors
	case errors.Is(err, report.ErrReportGenerationFailed):
		InternalServerError(w, "Failed to generate report")

	// Default
	default:
		slog.Error("unhandled error", "error", err)
		InternalServerError(w, "An unexpected error occurred")
	}
}
