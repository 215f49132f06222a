package http

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/KunimitsuMk2/mogikintai/internal/domain/user"
	"github.com/KunimitsuMk2/mogikintai/internal/pkg/jwt"
	"github.com/KunimitsuMk2/mogikintai/internal/pkg/oauth"
	"github.com/KunimitsuMk2/mogikintai/internal/repository/memory"
	attendanceService "github.com/KunimitsuMk2/mogikintai/internal/service/attendance"
	authService "github.com/KunimitsuMk2/mogikintai/internal/service/auth"
	correctionService "github.com/KunimitsuMk2/mogikintai/internal/service/correction"
	reportService "github.com/KunimitsuMk2/mogikintai/internal/service/report"
	userService "github.com/KunimitsuMk2/mogikintai/internal/service/user"
	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

const (
	handlerTestAccessExp  = "1h"
	handlerTestRefreshExp = "24h"
	handlerTestSecret     = "test-secret-key-for-jwt"
)

var jst = time.FixedZone("JST", 9*60*60)

type testServer struct {
	router     *chi.Mux
	store      *memory.Store
	jwtService jwt.Service
	staff      user.User
	other      user.User
	admin      user.User
}

type envelope struct {
	Success bool            `json:"success"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
	Error   *struct {
		Code    string            `json:"code"`
		Message string            `json:"message"`
		Details map[string]string `json:"details"`
	} `json:"error"`
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()
	ctx := context.Background()
	store := memory.NewStore()
	users := store.UserRepository()

	hashed, err := bcrypt.GenerateFromPassword([]byte("password123"), bcrypt.MinCost)
	require.NoError(t, err)
	hash := string(hashed)
	create := func(name, email string, role user.Role) user.User {
		u, err := users.Create(ctx, user.User{Name: name, Email: email, Role: role, PasswordHash: &hash})
		require.NoError(t, err)
		return u
	}

	now := func() time.Time { return time.Date(2024, 4, 10, 9, 0, 15, 0, jst) }
	jwtService := jwt.NewJWTService(handlerTestSecret, handlerTestAccessExp, handlerTestRefreshExp, false)

	attendanceSvc := attendanceService.NewAttendanceService(store.TxManager(), store.AttendanceRepository(), store.RestTimeRepository(), users, jst, now)
	correctionSvc := correctionService.NewCorrectionService(store.TxManager(), store.CorrectionRepository(), store.AttendanceRepository(), store.RestTimeRepository(), jst, now)
	authSvc := authService.NewAuthService(store.TxManager(), users, jwtService, store.RefreshTokenRepository())

	handlers := Handlers{
		Auth:       NewAuthHandler(jwtService, authSvc, oauth.NewGoogleService("", "", "", nil), "http://localhost:3000", false),
		Attendance: NewAttendanceHandler(attendanceSvc, correctionSvc),
		Correction: NewCorrectionHandler(correctionSvc),
		Admin:      NewAdminHandler(attendanceSvc, correctionSvc, reportService.NewReportService(attendanceSvc), userService.NewUserService(users)),
	}

	return &testServer{
		router:     NewRouter(RouterConfig{AllowedOrigins: []string{"http://localhost:3000"}}, jwtService, handlers),
		store:      store,
		jwtService: jwtService,
		staff:      create("Sato Hanako", "staff@example.com", user.RoleStaff),
		other:      create("Tanaka Jiro", "other@example.com", user.RoleStaff),
		admin:      create("Admin", "admin@example.com", user.RoleAdmin),
	}
}

func (s *testServer) token(t *testing.T, u user.User) string {
	t.Helper()
	token, _, err := s.jwtService.GenerateAccessToken(u.ID, u.Email, u.Name, u.Role)
	require.NoError(t, err)
	return token
}

func (s *testServer) do(t *testing.T, method, path string, as *user.User, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if as != nil {
		req.Header.Set("Authorization", "Bearer "+s.token(t, *as))
	}
	rec := httptest.NewRecorder()
	s.router.ServeHTTP(rec, req)
	return rec
}

func decode(t *testing.T, rec *httptest.ResponseRecorder, data any) envelope {
	t.Helper()
	var env envelope
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env), rec.Body.String())
	if data != nil && len(env.Data) > 0 {
		require.NoError(t, json.Unmarshal(env.Data, data))
	}
	return env
}

type todayData struct {
	Attendance struct {
		ID     string `json:"id"`
		Status string `json:"status"`
	} `json:"attendance"`
	AllowedActions []string `json:"allowed_actions"`
}

func TestAuthEndpoints(t *testing.T) {
	s := newTestServer(t)

	t.Run("register returns tokens and sets refresh cookie", func(t *testing.T) {
		rec := s.do(t, http.MethodPost, "/api/v1/auth/register", nil, map[string]string{
			"name":             "New Staff",
			"email":            "new@example.com",
			"password":         "password123",
			"confirm_password": "password123",
		})
		require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

		var data struct {
			AccessToken string `json:"access_token"`
			Role        string `json:"role"`
		}
		decode(t, rec, &data)
		assert.NotEmpty(t, data.AccessToken)
		assert.Equal(t, "staff", data.Role)
		assert.Contains(t, rec.Header().Get("Set-Cookie"), "refresh_token=")
	})

	t.Run("register with mismatched confirmation", func(t *testing.T) {
		rec := s.do(t, http.MethodPost, "/api/v1/auth/register", nil, map[string]string{
			"name":             "New Staff",
			"email":            "new2@example.com",
			"password":         "password123",
			"confirm_password": "password124",
		})
		require.Equal(t, http.StatusUnprocessableEntity, rec.Code)
		env := decode(t, rec, nil)
		assert.Contains(t, env.Error.Details, "confirm_password")
	})

	t.Run("login wrong password", func(t *testing.T) {
		rec := s.do(t, http.MethodPost, "/api/v1/auth/login", nil, map[string]string{
			"email":    "staff@example.com",
			"password": "wrong-password",
		})
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("admin login rejects staff", func(t *testing.T) {
		rec := s.do(t, http.MethodPost, "/api/v1/auth/admin/login", nil, map[string]string{
			"email":    "staff@example.com",
			"password": "password123",
		})
		assert.Equal(t, http.StatusForbidden, rec.Code)
	})

	t.Run("admin login", func(t *testing.T) {
		rec := s.do(t, http.MethodPost, "/api/v1/auth/admin/login", nil, map[string]string{
			"email":    "admin@example.com",
			"password": "password123",
		})
		assert.Equal(t, http.StatusCreated, rec.Code)
	})

	t.Run("google login disabled", func(t *testing.T) {
		rec := s.do(t, http.MethodGet, "/api/v1/auth/login/google", nil, nil)
		assert.Equal(t, http.StatusNotFound, rec.Code)
	})

	t.Run("logout without cookie", func(t *testing.T) {
		rec := s.do(t, http.MethodPost, "/api/v1/auth/logout", nil, nil)
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})
}

func TestProtectedRoutes(t *testing.T) {
	s := newTestServer(t)

	t.Run("missing token", func(t *testing.T) {
		rec := s.do(t, http.MethodGet, "/api/v1/attendance/today", nil, nil)
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("refresh token cannot be used as access token", func(t *testing.T) {
		refresh, _, err := s.jwtService.GenerateRefreshToken(s.staff.ID)
		require.NoError(t, err)
		req := httptest.NewRequest(http.MethodGet, "/api/v1/attendance/today", nil)
		req.Header.Set("Authorization", "Bearer "+refresh)
		rec := httptest.NewRecorder()
		s.router.ServeHTTP(rec, req)
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("staff on admin route", func(t *testing.T) {
		rec := s.do(t, http.MethodGet, "/api/v1/admin/staff", &s.staff, nil)
		assert.Equal(t, http.StatusForbidden, rec.Code)
	})
}

func TestAttendanceActions(t *testing.T) {
	s := newTestServer(t)

	rec := s.do(t, http.MethodGet, "/api/v1/attendance/today", &s.staff, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var today todayData
	decode(t, rec, &today)
	assert.Equal(t, "off_duty", today.Attendance.Status)
	assert.Equal(t, []string{"clock-in"}, today.AllowedActions)

	rec = s.do(t, http.MethodPost, "/api/v1/attendance/actions/clock-in", &s.staff, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	decode(t, rec, &today)
	assert.Equal(t, "working", today.Attendance.Status)
	assert.Equal(t, []string{"break-start", "clock-out"}, today.AllowedActions)

	// Guard mismatch is a successful no-op.
	rec = s.do(t, http.MethodPost, "/api/v1/attendance/actions/break-end", &s.staff, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	decode(t, rec, &today)
	assert.Equal(t, "working", today.Attendance.Status)

	rec = s.do(t, http.MethodPost, "/api/v1/attendance/actions/teleport", &s.staff, nil)
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)

	t.Run("other staff cannot view", func(t *testing.T) {
		rec := s.do(t, http.MethodGet, "/api/v1/attendance/"+today.Attendance.ID, &s.other, nil)
		assert.Equal(t, http.StatusForbidden, rec.Code)
	})

	t.Run("malformed id", func(t *testing.T) {
		rec := s.do(t, http.MethodGet, "/api/v1/attendance/not-a-uuid", &s.staff, nil)
		assert.Equal(t, http.StatusNotFound, rec.Code)
	})

	t.Run("monthly view", func(t *testing.T) {
		rec := s.do(t, http.MethodGet, "/api/v1/attendance?month=2024-04", &s.staff, nil)
		require.Equal(t, http.StatusOK, rec.Code)
		var monthly struct {
			Month     string `json:"month"`
			PrevMonth string `json:"prev_month"`
			NextMonth string `json:"next_month"`
			Days      []struct {
				Date string `json:"date"`
			} `json:"days"`
		}
		decode(t, rec, &monthly)
		assert.Equal(t, "2024-04", monthly.Month)
		assert.Equal(t, "2024-03", monthly.PrevMonth)
		assert.Equal(t, "2024-05", monthly.NextMonth)
		assert.Len(t, monthly.Days, 30)

		rec = s.do(t, http.MethodGet, "/api/v1/attendance?month=2024-13", &s.staff, nil)
		assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	})
}

func TestCorrectionFlow(t *testing.T) {
	s := newTestServer(t)

	rec := s.do(t, http.MethodGet, "/api/v1/attendance/today", &s.staff, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var today todayData
	decode(t, rec, &today)
	attendanceID := today.Attendance.ID

	payload := map[string]any{
		"start_time": "09:00",
		"end_time":   "18:00",
		"breaks":     []map[string]string{{"start": "12:00", "end": "13:00"}},
		"remarks":    "forgot to clock in",
	}

	t.Run("validation boundary", func(t *testing.T) {
		rec := s.do(t, http.MethodPost, "/api/v1/attendance/"+attendanceID+"/corrections", &s.staff, map[string]any{
			"start_time": "18:00",
			"end_time":   "09:00",
			"remarks":    "",
		})
		require.Equal(t, http.StatusUnprocessableEntity, rec.Code)
		env := decode(t, rec, nil)
		assert.Equal(t, "start/end time invalid", env.Error.Details["start_time"])
		assert.Equal(t, "remarks required", env.Error.Details["remarks"])
	})

	rec = s.do(t, http.MethodPost, "/api/v1/attendance/"+attendanceID+"/corrections", &s.staff, payload)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	var created struct {
		ID     string `json:"id"`
		Status string `json:"status"`
	}
	decode(t, rec, &created)
	assert.Equal(t, "pending", created.Status)

	rec = s.do(t, http.MethodPost, "/api/v1/attendance/"+attendanceID+"/corrections", &s.staff, payload)
	assert.Equal(t, http.StatusConflict, rec.Code)

	var view struct {
		Source     string `json:"source"`
		Editable   bool   `json:"editable"`
		Attendance struct {
			StartTime    string `json:"start_time"`
			WorkingTotal string `json:"working_total"`
		} `json:"attendance"`
	}
	rec = s.do(t, http.MethodGet, "/api/v1/attendance/"+attendanceID, &s.staff, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	decode(t, rec, &view)
	assert.Equal(t, "pending", view.Source)
	assert.False(t, view.Editable)
	assert.Equal(t, "09:00", view.Attendance.StartTime)

	rec = s.do(t, http.MethodPost, "/api/v1/admin/corrections/"+created.ID+"/approve", &s.staff, nil)
	assert.Equal(t, http.StatusForbidden, rec.Code)

	rec = s.do(t, http.MethodPost, "/api/v1/admin/corrections/"+created.ID+"/approve", &s.admin, nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	rec = s.do(t, http.MethodPost, "/api/v1/admin/corrections/"+created.ID+"/approve", &s.admin, nil)
	assert.Equal(t, http.StatusConflict, rec.Code)

	rec = s.do(t, http.MethodGet, "/api/v1/attendance/"+attendanceID, &s.staff, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	decode(t, rec, &view)
	assert.Equal(t, "approved", view.Source)
	assert.Equal(t, "08:00", view.Attendance.WorkingTotal)

	var list struct {
		Pending  []json.RawMessage `json:"pending"`
		Approved []struct {
			ID string `json:"id"`
		} `json:"approved"`
	}
	rec = s.do(t, http.MethodGet, "/api/v1/corrections", &s.staff, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	decode(t, rec, &list)
	assert.Empty(t, list.Pending)
	require.Len(t, list.Approved, 1)
	assert.Equal(t, created.ID, list.Approved[0].ID)

	rec = s.do(t, http.MethodGet, "/api/v1/corrections/"+created.ID, &s.other, nil)
	assert.Equal(t, http.StatusForbidden, rec.Code)

	rec = s.do(t, http.MethodGet, "/api/v1/corrections/"+created.ID, &s.admin, nil)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestAdminEndpoints(t *testing.T) {
	s := newTestServer(t)

	rec := s.do(t, http.MethodGet, "/api/v1/attendance/today", &s.staff, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var today todayData
	decode(t, rec, &today)

	t.Run("staff list", func(t *testing.T) {
		rec := s.do(t, http.MethodGet, "/api/v1/admin/staff", &s.admin, nil)
		require.Equal(t, http.StatusOK, rec.Code)
		var staff []struct {
			Name string `json:"name"`
		}
		decode(t, rec, &staff)
		require.Len(t, staff, 2)
		assert.Equal(t, "Sato Hanako", staff[0].Name)
		assert.Equal(t, "Tanaka Jiro", staff[1].Name)
	})

	t.Run("direct edit", func(t *testing.T) {
		rec := s.do(t, http.MethodPut, "/api/v1/admin/attendances/"+today.Attendance.ID, &s.admin, map[string]any{
			"start_time": "09:00",
			"end_time":   "18:00",
			"breaks":     []map[string]string{{"start": "12:00", "end": "13:00"}},
			"remarks":    "fixed by admin",
		})
		require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
		var att struct {
			BreakTotal   string `json:"break_total"`
			WorkingTotal string `json:"working_total"`
			Remarks      string `json:"remarks"`
		}
		decode(t, rec, &att)
		assert.Equal(t, "01:00", att.BreakTotal)
		assert.Equal(t, "08:00", att.WorkingTotal)
		assert.Equal(t, "fixed by admin", att.Remarks)
	})

	t.Run("daily list", func(t *testing.T) {
		rec := s.do(t, http.MethodGet, "/api/v1/admin/attendances?date=2024-04-10", &s.admin, nil)
		require.Equal(t, http.StatusOK, rec.Code)
		var daily struct {
			PrevDate    string            `json:"prev_date"`
			NextDate    string            `json:"next_date"`
			Attendances []json.RawMessage `json:"attendances"`
		}
		decode(t, rec, &daily)
		assert.Equal(t, "2024-04-09", daily.PrevDate)
		assert.Equal(t, "2024-04-11", daily.NextDate)
		assert.Len(t, daily.Attendances, 1)

		rec = s.do(t, http.MethodGet, "/api/v1/admin/attendances?date=10-04-2024", &s.admin, nil)
		assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	})

	t.Run("staff monthly", func(t *testing.T) {
		rec := s.do(t, http.MethodGet, "/api/v1/admin/staff/"+s.staff.ID+"/attendances?month=2024-04", &s.admin, nil)
		assert.Equal(t, http.StatusOK, rec.Code)

		rec = s.do(t, http.MethodGet, "/api/v1/admin/staff/0190a6f0-0000-7000-8000-000000000000/attendances", &s.admin, nil)
		assert.Equal(t, http.StatusNotFound, rec.Code)
	})

	t.Run("csv export", func(t *testing.T) {
		rec := s.do(t, http.MethodGet, "/api/v1/admin/staff/"+s.staff.ID+"/attendances/export?month=2024-04", &s.admin, nil)
		require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
		assert.Equal(t, "text/csv; charset=UTF-8", rec.Header().Get("Content-Type"))
		assert.Equal(t, "attachment; filename*=UTF-8''Sato%20Hanako_2024-04_attendance.csv", rec.Header().Get("Content-Disposition"))

		body := rec.Body.String()
		assert.True(t, strings.HasPrefix(body, "\ufeffdate,start,end,break,total"))
		assert.Contains(t, body, "2024/04/10,09:00,18:00,01:00,08:00")
	})

	t.Run("xlsx export", func(t *testing.T) {
		rec := s.do(t, http.MethodGet, "/api/v1/admin/staff/"+s.staff.ID+"/attendances/export?month=2024-04&format=xlsx", &s.admin, nil)
		require.Equal(t, http.StatusOK, rec.Code)
		assert.True(t, bytes.HasPrefix(rec.Body.Bytes(), []byte("PK")))
	})

	t.Run("export bad format", func(t *testing.T) {
		rec := s.do(t, http.MethodGet, "/api/v1/admin/staff/"+s.staff.ID+"/attendances/export?month=2024-04&format=pdf", &s.admin, nil)
		assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	})
}
