package correction

import (
	"context"
	"fmt"
	"time"

	"github.com/KunimitsuMk2/mogikintai/internal/domain/attendance"
	"github.com/KunimitsuMk2/mogikintai/internal/domain/correction"
	"github.com/KunimitsuMk2/mogikintai/internal/domain/user"
	"github.com/KunimitsuMk2/mogikintai/internal/pkg/database"
)

type CorrectionServiceImpl struct {
	txManager database.TxManager
	correction.CorrectionRepository
	attendanceRepo attendance.AttendanceRepository
	restTimeRepo   attendance.RestTimeRepository
	loc            *time.Location
	now            func() time.Time
}

func NewCorrectionService(
	txManager database.TxManager,
	correctionRepo correction.CorrectionRepository,
	attendanceRepo attendance.AttendanceRepository,
	restTimeRepo attendance.RestTimeRepository,
	loc *time.Location,
	now func() time.Time,
) correction.CorrectionService {
	if loc == nil {
		loc = time.Local
	}
	if now == nil {
		now = time.Now
	}
	return &CorrectionServiceImpl{
		txManager:            txManager,
		CorrectionRepository: correctionRepo,
		attendanceRepo:       attendanceRepo,
		restTimeRepo:         restTimeRepo,
		loc:                  loc,
		now:                  now,
	}
}

// Submit implements correction.CorrectionService.
func (s *CorrectionServiceImpl) Submit(ctx context.Context, actor user.Actor, req correction.SubmitCorrectionRequest) (correction.CorrectionRequest, error) {
	if err := req.Validate(); err != nil {
		return correction.CorrectionRequest{}, err
	}

	att, err := s.attendanceRepo.GetByID(ctx, req.AttendanceID)
	if err != nil {
		return correction.CorrectionRequest{}, err
	}
	if err := user.CanSubmitCorrection(actor, att.UserID); err != nil {
		return correction.CorrectionRequest{}, err
	}

	entry, err := req.Resolve(att.Date, s.loc)
	if err != nil {
		return correction.CorrectionRequest{}, err
	}

	var created correction.CorrectionRequest
	err = s.txManager.WithinTransaction(ctx, func(txCtx context.Context) error {
		if _, err := s.attendanceRepo.GetByIDForUpdate(txCtx, att.ID); err != nil {
			return fmt.Errorf("failed to lock attendance: %w", err)
		}

		pending, err := s.CorrectionRepository.GetPendingByAttendance(txCtx, att.ID)
		if err != nil {
			return fmt.Errorf("failed to check pending requests: %w", err)
		}
		if pending != nil {
			return correction.ErrPendingRequestExists
		}

		created, err = s.CorrectionRepository.Create(txCtx, correction.CorrectionRequest{
			AttendanceID:       att.ID,
			UserID:             att.UserID,
			RequestedStartTime: entry.StartTime,
			RequestedEndTime:   entry.EndTime,
			RequestedBreaks:    entry.Breaks,
			Remarks:            entry.Remarks,
			Status:             correction.StatusPending,
		})
		return err
	})
	if err != nil {
		return correction.CorrectionRequest{}, err
	}

	return created.In(s.loc), nil
}

// ListFor implements correction.CorrectionService.
func (s *CorrectionServiceImpl) ListFor(ctx context.Context, actor user.Actor) (correction.CorrectionList, error) {
	var filter correction.CorrectionFilter
	if !actor.IsAdmin() {
		filter.UserID = &actor.ID
	}

	requests, err := s.CorrectionRepository.List(ctx, filter)
	if err != nil {
		return correction.CorrectionList{}, fmt.Errorf("failed to list correction requests: %w", err)
	}

	list := correction.CorrectionList{
		Pending:  []correction.CorrectionRequest{},
		Approved: []correction.CorrectionRequest{},
	}
	for _, req := range requests {
		req = req.In(s.loc)
		if req.IsPending() {
			list.Pending = append(list.Pending, req)
		} else {
			list.Approved = append(list.Approved, req)
		}
	}
	return list, nil
}

// GetRequest implements correction.CorrectionService.
func (s *CorrectionServiceImpl) GetRequest(ctx context.Context, actor user.Actor, id string) (correction.CorrectionRequest, error) {
	req, err := s.CorrectionRepository.GetByID(ctx, id)
	if err != nil {
		return correction.CorrectionRequest{}, err
	}
	if err := user.CanView(actor, req.UserID); err != nil {
		return correction.CorrectionRequest{}, err
	}
	return req.In(s.loc), nil
}

// ResolveDisplay implements correction.CorrectionService.
func (s *CorrectionServiceImpl) ResolveDisplay(ctx context.Context, actor user.Actor, attendanceID string) (correction.DisplayView, error) {
	att, err := s.attendanceRepo.GetByID(ctx, attendanceID)
	if err != nil {
		return correction.DisplayView{}, err
	}
	if err := user.CanView(actor, att.UserID); err != nil {
		return correction.DisplayView{}, err
	}

	rests, err := s.restTimeRepo.ListByAttendanceIDs(ctx, []string{att.ID})
	if err != nil {
		return correction.DisplayView{}, fmt.Errorf("failed to list breaks: %w", err)
	}
	att.RestTimes = rests[att.ID]

	pending, err := s.CorrectionRepository.GetPendingByAttendance(ctx, att.ID)
	if err != nil {
		return correction.DisplayView{}, fmt.Errorf("failed to check pending requests: %w", err)
	}
	if pending != nil {
		return correction.DisplayView{
			Source:    correction.SourcePendingRequest,
			RequestID: pending.ID,
			Values:    pending.Overlay(att).In(s.loc),
			Editable:  actor.IsAdmin(),
		}, nil
	}

	approved, err := s.CorrectionRepository.GetLatestApprovedByAttendance(ctx, att.ID)
	if err != nil {
		return correction.DisplayView{}, fmt.Errorf("failed to get approved request: %w", err)
	}
	if approved != nil {
		return correction.DisplayView{
			Source:    correction.SourceApprovedRequest,
			RequestID: approved.ID,
			Values:    approved.Overlay(att).In(s.loc),
			Editable:  actor.IsAdmin(),
		}, nil
	}

	return correction.DisplayView{
		Source:   correction.SourceAttendance,
		Values:   att.In(s.loc),
		Editable: true,
	}, nil
}

// Approve implements correction.CorrectionService.
func (s *CorrectionServiceImpl) Approve(ctx context.Context, actor user.Actor, requestID string) (correction.CorrectionRequest, error) {
	if err := user.CanApprove(actor); err != nil {
		return correction.CorrectionRequest{}, err
	}

	err := s.txManager.WithinTransaction(ctx, func(txCtx context.Context) error {
		req, err := s.CorrectionRepository.GetByIDForUpdate(txCtx, requestID)
		if err != nil {
			return err
		}
		if !req.IsPending() {
			return correction.ErrCorrectionAlreadyApproved
		}

		att, err := s.attendanceRepo.GetByIDForUpdate(txCtx, req.AttendanceID)
		if err != nil {
			return err
		}

		start, end := req.RequestedStartTime, req.RequestedEndTime
		att.StartTime = &start
		att.EndTime = &end
		att.Remarks = req.Remarks
		att.Status = attendance.StatusAfterBreakReplace(att.Status)
		if err := s.attendanceRepo.Update(txCtx, att); err != nil {
			return fmt.Errorf("failed to update attendance: %w", err)
		}
		if err := s.restTimeRepo.ReplaceAll(txCtx, att.ID, req.RequestedBreaks); err != nil {
			return fmt.Errorf("failed to replace breaks: %w", err)
		}
		if err := s.CorrectionRepository.MarkApproved(txCtx, req.ID, actor.ID, s.now()); err != nil {
			return fmt.Errorf("failed to mark request approved: %w", err)
		}
		return nil
	})
	if err != nil {
		return correction.CorrectionRequest{}, err
	}

	approved, err := s.CorrectionRepository.GetByID(ctx, requestID)
	if err != nil {
		return correction.CorrectionRequest{}, err
	}
	return approved.In(s.loc), nil
}
