package attendance

import (
	"context"
	"fmt"
	"time"

	"github.com/KunimitsuMk2/mogikintai/internal/domain/attendance"
	"github.com/KunimitsuMk2/mogikintai/internal/domain/user"
	"github.com/KunimitsuMk2/mogikintai/internal/pkg/database"
	"github.com/KunimitsuMk2/mogikintai/internal/pkg/timeutil"
)

type AttendanceServiceImpl struct {
	txManager database.TxManager
	attendance.AttendanceRepository
	attendance.RestTimeRepository
	userRepo user.UserRepository
	loc      *time.Location
	now      func() time.Time
}

func NewAttendanceService(
	txManager database.TxManager,
	attendanceRepo attendance.AttendanceRepository,
	restTimeRepo attendance.RestTimeRepository,
	userRepo user.UserRepository,
	loc *time.Location,
	now func() time.Time,
) attendance.AttendanceService {
	if loc == nil {
		loc = time.Local
	}
	if now == nil {
		now = time.Now
	}
	return &AttendanceServiceImpl{
		txManager:            txManager,
		AttendanceRepository: attendanceRepo,
		RestTimeRepository:   restTimeRepo,
		userRepo:             userRepo,
		loc:                  loc,
		now:                  now,
	}
}

// Now implements attendance.AttendanceService.
func (s *AttendanceServiceImpl) Now() time.Time {
	return s.now().In(s.loc)
}

// GetOrCreateToday implements attendance.AttendanceService.
func (s *AttendanceServiceImpl) GetOrCreateToday(ctx context.Context, actor user.Actor) (attendance.Attendance, error) {
	today := timeutil.DateOnly(s.Now())

	att, err := s.AttendanceRepository.GetOrCreate(ctx, actor.ID, today)
	if err != nil {
		return attendance.Attendance{}, fmt.Errorf("failed to get today's attendance: %w", err)
	}

	return s.withRestTimes(ctx, att)
}

// PerformAction implements attendance.AttendanceService.
func (s *AttendanceServiceImpl) PerformAction(ctx context.Context, actor user.Actor, name string) (attendance.Attendance, error) {
	action, err := attendance.ParseAction(name)
	if err != nil {
		return attendance.Attendance{}, err
	}

	var result attendance.Attendance
	err = s.txManager.WithinTransaction(ctx, func(txCtx context.Context) error {
		now := s.Now()

		today, err := s.AttendanceRepository.GetOrCreate(txCtx, actor.ID, timeutil.DateOnly(now))
		if err != nil {
			return fmt.Errorf("failed to get today's attendance: %w", err)
		}

		att, err := s.AttendanceRepository.GetByIDForUpdate(txCtx, today.ID)
		if err != nil {
			return fmt.Errorf("failed to lock attendance: %w", err)
		}

		next, ok := attendance.Transition(att.Status, action)
		if !ok {
			result = att
			return nil
		}

		minute := timeutil.TruncateToMinute(now)
		switch action {
		case attendance.ActionClockIn:
			att.StartTime = &now
		case attendance.ActionBreakStart:
			if _, err := s.RestTimeRepository.Create(txCtx, attendance.RestTime{
				AttendanceID: att.ID,
				StartTime:    minute,
			}); err != nil {
				return fmt.Errorf("failed to start break: %w", err)
			}
		case attendance.ActionBreakEnd:
			open, err := s.RestTimeRepository.GetLatestOpen(txCtx, att.ID)
			if err != nil {
				return fmt.Errorf("failed to find open break: %w", err)
			}
			if open != nil {
				if err := s.RestTimeRepository.Close(txCtx, open.ID, minute); err != nil {
					return fmt.Errorf("failed to end break: %w", err)
				}
			}
		case attendance.ActionClockOut:
			att.EndTime = &minute
		}

		att.Status = next
		if err := s.AttendanceRepository.Update(txCtx, att); err != nil {
			return fmt.Errorf("failed to update attendance: %w", err)
		}

		result = att
		return nil
	})
	if err != nil {
		return attendance.Attendance{}, err
	}

	return s.withRestTimes(ctx, result)
}

// FindByUserAndDate implements attendance.AttendanceService.
func (s *AttendanceServiceImpl) FindByUserAndDate(ctx context.Context, actor user.Actor, userID string, date time.Time) (*attendance.Attendance, error) {
	if err := user.CanView(actor, userID); err != nil {
		return nil, err
	}

	att, err := s.AttendanceRepository.GetByUserAndDate(ctx, userID, timeutil.DateOnly(date))
	if err != nil {
		return nil, fmt.Errorf("failed to get attendance: %w", err)
	}
	if att == nil {
		return nil, nil
	}

	loaded, err := s.withRestTimes(ctx, *att)
	if err != nil {
		return nil, err
	}
	return &loaded, nil
}

// FindByUserAndMonth implements attendance.AttendanceService.
func (s *AttendanceServiceImpl) FindByUserAndMonth(ctx context.Context, actor user.Actor, userID string, month time.Time) (attendance.MonthlyReport, error) {
	if err := user.CanView(actor, userID); err != nil {
		return attendance.MonthlyReport{}, err
	}

	owner, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return attendance.MonthlyReport{}, err
	}

	first, last := timeutil.MonthRange(month)
	records, err := s.AttendanceRepository.ListByUserAndRange(ctx, userID, first, last)
	if err != nil {
		return attendance.MonthlyReport{}, fmt.Errorf("failed to list attendances: %w", err)
	}

	records, err = s.attachRestTimes(ctx, records)
	if err != nil {
		return attendance.MonthlyReport{}, err
	}

	return attendance.BuildMonthlyReport(owner.ID, owner.Name, first, records, s.loc), nil
}

// ListByDate implements attendance.AttendanceService.
func (s *AttendanceServiceImpl) ListByDate(ctx context.Context, actor user.Actor, date time.Time) ([]attendance.Attendance, error) {
	if err := user.CanListAll(actor); err != nil {
		return nil, err
	}

	records, err := s.AttendanceRepository.ListByDate(ctx, timeutil.DateOnly(date))
	if err != nil {
		return nil, fmt.Errorf("failed to list attendances: %w", err)
	}

	records, err = s.attachRestTimes(ctx, records)
	if err != nil {
		return nil, err
	}
	for i := range records {
		records[i] = records[i].In(s.loc)
	}
	return records, nil
}

// ApplyDirectEdit implements attendance.AttendanceService.
func (s *AttendanceServiceImpl) ApplyDirectEdit(ctx context.Context, actor user.Actor, req attendance.EditAttendanceRequest) (attendance.Attendance, error) {
	if err := user.CanDirectEdit(actor); err != nil {
		return attendance.Attendance{}, err
	}
	if err := req.Validate(); err != nil {
		return attendance.Attendance{}, err
	}

	var result attendance.Attendance
	err := s.txManager.WithinTransaction(ctx, func(txCtx context.Context) error {
		att, err := s.AttendanceRepository.GetByIDForUpdate(txCtx, req.ID)
		if err != nil {
			return err
		}

		entry, err := req.Resolve(att.Date, s.loc)
		if err != nil {
			return err
		}

		att.StartTime = &entry.StartTime
		att.EndTime = &entry.EndTime
		att.Remarks = entry.Remarks
		att.Status = attendance.StatusAfterBreakReplace(att.Status)
		if err := s.AttendanceRepository.Update(txCtx, att); err != nil {
			return fmt.Errorf("failed to update attendance: %w", err)
		}
		if err := s.RestTimeRepository.ReplaceAll(txCtx, att.ID, entry.Breaks); err != nil {
			return fmt.Errorf("failed to replace breaks: %w", err)
		}

		result = att
		return nil
	})
	if err != nil {
		return attendance.Attendance{}, err
	}

	return s.withRestTimes(ctx, result)
}

// withRestTimes loads the breaks of att and converts it to the local zone.
func (s *AttendanceServiceImpl) withRestTimes(ctx context.Context, att attendance.Attendance) (attendance.Attendance, error) {
	loaded, err := s.attachRestTimes(ctx, []attendance.Attendance{att})
	if err != nil {
		return attendance.Attendance{}, err
	}
	return loaded[0].In(s.loc), nil
}

func (s *AttendanceServiceImpl) attachRestTimes(ctx context.Context, records []attendance.Attendance) ([]attendance.Attendance, error) {
	if len(records) == 0 {
		return records, nil
	}

	ids := make([]string, 0, len(records))
	for _, rec := range records {
		ids = append(ids, rec.ID)
	}

	rests, err := s.RestTimeRepository.ListByAttendanceIDs(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("failed to list breaks: %w", err)
	}

	for i := range records {
		records[i].RestTimes = rests[records[i].ID]
	}
	return records, nil
}
