package memory

import (
	"context"
	"sort"
	"time"

	"github.com/KunimitsuMk2/mogikintai/internal/domain/attendance"
	"github.com/KunimitsuMk2/mogikintai/internal/pkg/timeutil"
)

type attendanceRepository struct {
	store *Store
}

func (s *Store) AttendanceRepository() attendance.AttendanceRepository {
	return &attendanceRepository{store: s}
}

// withUser must be called with mu held.
func (s *Store) withUser(att attendance.Attendance) attendance.Attendance {
	att.UserName = s.data.users[att.UserID].Name
	att.RestTimes = nil
	return att
}

func (r *attendanceRepository) find(userID string, date time.Time) (attendance.Attendance, bool) {
	day := timeutil.DateOnly(date)
	for _, att := range r.store.data.attendances {
		if att.UserID == userID && att.Date.Equal(day) {
			return att, true
		}
	}
	return attendance.Attendance{}, false
}

func (r *attendanceRepository) GetOrCreate(ctx context.Context, userID string, date time.Time) (attendance.Attendance, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	if err := r.store.fault("attendance.GetOrCreate"); err != nil {
		return attendance.Attendance{}, err
	}
	if att, ok := r.find(userID, date); ok {
		return r.store.withUser(att), nil
	}
	now := r.store.now()
	att := attendance.Attendance{
		ID:        r.store.nextID(),
		UserID:    userID,
		Date:      timeutil.DateOnly(date),
		Status:    attendance.StatusOffDuty,
		CreatedAt: now,
		UpdatedAt: now,
	}
	r.store.data.attendances[att.ID] = att
	return r.store.withUser(att), nil
}

func (r *attendanceRepository) GetByID(ctx context.Context, id string) (attendance.Attendance, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	if err := r.store.fault("attendance.GetByID"); err != nil {
		return attendance.Attendance{}, err
	}
	att, ok := r.store.data.attendances[id]
	if !ok {
		return attendance.Attendance{}, attendance.ErrAttendanceNotFound
	}
	return r.store.withUser(att), nil
}

// GetByIDForUpdate relies on the transaction manager serialising transactions.
func (r *attendanceRepository) GetByIDForUpdate(ctx context.Context, id string) (attendance.Attendance, error) {
	return r.GetByID(ctx, id)
}

func (r *attendanceRepository) GetByUserAndDate(ctx context.Context, userID string, date time.Time) (*attendance.Attendance, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	if err := r.store.fault("attendance.GetByUserAndDate"); err != nil {
		return nil, err
	}
	att, ok := r.find(userID, date)
	if !ok {
		return nil, nil
	}
	att = r.store.withUser(att)
	return &att, nil
}

func (r *attendanceRepository) ListByUserAndRange(ctx context.Context, userID string, from, to time.Time) ([]attendance.Attendance, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	if err := r.store.fault("attendance.ListByUserAndRange"); err != nil {
		return nil, err
	}
	from, to = timeutil.DateOnly(from), timeutil.DateOnly(to)
	var result []attendance.Attendance
	for _, att := range r.store.data.attendances {
		if att.UserID == userID && !att.Date.Before(from) && !att.Date.After(to) {
			result = append(result, r.store.withUser(att))
		}
	}
	sort.Slice(result, func(i, j int) bool { return result[i].Date.Before(result[j].Date) })
	return result, nil
}

func (r *attendanceRepository) ListByDate(ctx context.Context, date time.Time) ([]attendance.Attendance, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	if err := r.store.fault("attendance.ListByDate"); err != nil {
		return nil, err
	}
	day := timeutil.DateOnly(date)
	var result []attendance.Attendance
	for _, att := range r.store.data.attendances {
		if att.Date.Equal(day) {
			result = append(result, r.store.withUser(att))
		}
	}
	sort.Slice(result, func(i, j int) bool {
		if result[i].UserName != result[j].UserName {
			return result[i].UserName < result[j].UserName
		}
		return result[i].UserID < result[j].UserID
	})
	return result, nil
}

func (r *attendanceRepository) Update(ctx context.Context, att attendance.Attendance) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	if err := r.store.fault("attendance.Update"); err != nil {
		return err
	}
	existing, ok := r.store.data.attendances[att.ID]
	if !ok {
		return attendance.ErrAttendanceNotFound
	}
	existing.StartTime = copyTime(att.StartTime)
	existing.EndTime = copyTime(att.EndTime)
	existing.Status = att.Status
	existing.Remarks = att.Remarks
	existing.UpdatedAt = r.store.now()
	r.store.data.attendances[att.ID] = existing
	return nil
}

func copyTime(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	v := *t
	return &v
}

type restTimeRepository struct {
	store *Store
}

func (s *Store) RestTimeRepository() attendance.RestTimeRepository {
	return &restTimeRepository{store: s}
}

func (r *restTimeRepository) Create(ctx context.Context, restTime attendance.RestTime) (attendance.RestTime, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	if err := r.store.fault("resttime.Create"); err != nil {
		return attendance.RestTime{}, err
	}
	restTime.ID = r.store.nextID()
	restTime.EndTime = copyTime(restTime.EndTime)
	restTime.CreatedAt = r.store.now()
	r.store.data.restTimes[restTime.ID] = restTime
	return restTime, nil
}

func (r *restTimeRepository) GetLatestOpen(ctx context.Context, attendanceID string) (*attendance.RestTime, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	if err := r.store.fault("resttime.GetLatestOpen"); err != nil {
		return nil, err
	}
	var latest *attendance.RestTime
	for _, rt := range r.store.data.restTimes {
		if rt.AttendanceID != attendanceID || rt.EndTime != nil {
			continue
		}
		if latest == nil || rt.StartTime.After(latest.StartTime) {
			found := rt
			latest = &found
		}
	}
	return latest, nil
}

func (r *restTimeRepository) Close(ctx context.Context, id string, endTime time.Time) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	if err := r.store.fault("resttime.Close"); err != nil {
		return err
	}
	rt, ok := r.store.data.restTimes[id]
	if !ok {
		return attendance.ErrRestTimeNotFound
	}
	rt.EndTime = &endTime
	r.store.data.restTimes[id] = rt
	return nil
}

func (r *restTimeRepository) ListByAttendanceIDs(ctx context.Context, attendanceIDs []string) (map[string][]attendance.RestTime, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	if err := r.store.fault("resttime.ListByAttendanceIDs"); err != nil {
		return nil, err
	}
	wanted := make(map[string]bool, len(attendanceIDs))
	for _, id := range attendanceIDs {
		wanted[id] = true
	}
	result := make(map[string][]attendance.RestTime, len(attendanceIDs))
	for _, rt := range r.store.data.restTimes {
		if wanted[rt.AttendanceID] {
			rt.EndTime = copyTime(rt.EndTime)
			result[rt.AttendanceID] = append(result[rt.AttendanceID], rt)
		}
	}
	for id := range result {
		rests := result[id]
		sort.Slice(rests, func(i, j int) bool { return rests[i].StartTime.Before(rests[j].StartTime) })
	}
	return result, nil
}

func (r *restTimeRepository) ReplaceAll(ctx context.Context, attendanceID string, spans []attendance.BreakSpan) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	if err := r.store.fault("resttime.ReplaceAll"); err != nil {
		return err
	}
	for id, rt := range r.store.data.restTimes {
		if rt.AttendanceID == attendanceID {
			delete(r.store.data.restTimes, id)
		}
	}
	for _, rt := range attendance.RestTimesFromSpans(attendanceID, spans) {
		rt.ID = r.store.nextID()
		rt.CreatedAt = r.store.now()
		r.store.data.restTimes[rt.ID] = rt
	}
	return nil
}
