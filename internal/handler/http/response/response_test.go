package response

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/KunimitsuMk2/mogikintai/internal/domain/attendance"
	"github.com/KunimitsuMk2/mogikintai/internal/domain/correction"
	"github.com/KunimitsuMk2/mogikintai/internal/domain/user"
	"github.com/KunimitsuMk2/mogikintai/internal/pkg/validator"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHandleErrorStatusCodes(t *testing.T) {
	cases := []struct {
		name string
		err  error
		code int
	}{
		{"validation", validator.ValidationErrors{{Field: "remarks", Message: "remarks required"}}, http.StatusUnprocessableEntity},
		{"forbidden", user.ErrForbidden, http.StatusForbidden},
		{"admin", user.ErrAdminPrivilegeRequired, http.StatusForbidden},
		{"not found", fmt.Errorf("lookup: %w", attendance.ErrAttendanceNotFound), http.StatusNotFound},
		{"pending conflict", correction.ErrPendingRequestExists, http.StatusConflict},
		{"approved conflict", correction.ErrCorrectionAlreadyApproved, http.StatusConflict},
		{"unknown", errors.New("db down"), http.StatusInternalServerError},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			HandleError(rec, c.err)
			assert.Equal(t, c.code, rec.Code)
		})
	}
}

func TestValidationDetails(t *testing.T) {
	rec := httptest.NewRecorder()
	HandleError(rec, validator.ValidationErrors{{Field: "start_time", Message: "start/end time invalid"}})

	var body Response
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&body))
	assert.False(t, body.Success)
	require.NotNil(t, body.Error)
	assert.Equal(t, "VALIDATION_ERROR", body.Error.Code)
	assert.Equal(t, "start/end time invalid", body.Error.Details["start_time"])
}

func TestAttachment(t *testing.T) {
	rec := httptest.NewRecorder()
	Attachment(rec, "山田 太郎_2024-04_attendance.csv", "text/csv; charset=UTF-8", []byte("a,b\n"))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "attachment; filename*=UTF-8''%E5%B1%B1%E7%94%B0%20%E5%A4%AA%E9%83%8E_2024-04_attendance.csv", rec.Header().Get("Content-Disposition"))
	assert.Equal(t, "4", rec.Header().Get("Content-Length"))
	assert.Equal(t, "a,b\n", rec.Body.String())
}
