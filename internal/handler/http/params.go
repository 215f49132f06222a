package http

import (
	"net/http"
	"time"

	"github.com/KunimitsuMk2/mogikintai/internal/domain/auth"
	"github.com/KunimitsuMk2/mogikintai/internal/domain/user"
	"github.com/KunimitsuMk2/mogikintai/internal/handler/http/middleware"
	"github.com/KunimitsuMk2/mogikintai/internal/pkg/timeutil"
	"github.com/KunimitsuMk2/mogikintai/internal/pkg/validator"
	"github.com/go-chi/chi/v5"
)

func sessionFromRequest(r *http.Request) auth.SessionTrackingRequest {
	return auth.SessionTrackingRequest{
		IPAddress: r.RemoteAddr,
		UserAgent: r.UserAgent(),
	}
}

func actorFromRequest(r *http.Request) (user.Actor, error) {
	return middleware.ActorFromContext(r.Context())
}

// monthParam reads ?month=YYYY-MM, defaulting to the month containing now.
func monthParam(r *http.Request, now time.Time) (time.Time, error) {
	raw := r.URL.Query().Get("month")
	if raw == "" {
		first, _ := timeutil.MonthRange(now)
		return first, nil
	}
	month, ok := validator.IsValidYearMonth(raw)
	if !ok {
		return time.Time{}, validator.ValidationErrors{{
			Field:   "month",
			Message: "month must be in YYYY-MM format",
		}}
	}
	return month, nil
}

// dateParam reads ?date=YYYY-MM-DD, defaulting to the calendar day of now.
func dateParam(r *http.Request, now time.Time) (time.Time, error) {
	raw := r.URL.Query().Get("date")
	if raw == "" {
		return timeutil.DateOnly(now), nil
	}
	date, ok := validator.IsValidDate(raw)
	if !ok {
		return time.Time{}, validator.ValidationErrors{{
			Field:   "date",
			Message: "date must be in YYYY-MM-DD format",
		}}
	}
	return date, nil
}

// uuidParam reads a path id. Malformed ids cannot name a stored row, so they
// surface as notFound instead of reaching the database.
func uuidParam(r *http.Request, name string, notFound error) (string, error) {
	id := chi.URLParam(r, name)
	if !validator.IsValidUUID(id) {
		return "", notFound
	}
	return id, nil
}
