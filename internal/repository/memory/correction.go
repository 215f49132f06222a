package memory

import (
	"context"
	"sort"
	"time"

	"github.com/KunimitsuMk2/mogikintai/internal/domain/attendance"
	"github.com/KunimitsuMk2/mogikintai/internal/domain/correction"
)

type correctionRepository struct {
	store *Store
}

func (s *Store) CorrectionRepository() correction.CorrectionRepository {
	return &correctionRepository{store: s}
}

// joined must be called with mu held.
func (r *correctionRepository) joined(req correction.CorrectionRequest) correction.CorrectionRequest {
	req.UserName = r.store.data.users[req.UserID].Name
	req.AttendanceDate = r.store.data.attendances[req.AttendanceID].Date
	req.RequestedBreaks = append([]attendance.BreakSpan(nil), req.RequestedBreaks...)
	return req
}

// sorted orders requests newest first, using insertion order to break ties.
func (r *correctionRepository) sorted(requests []correction.CorrectionRequest) {
	seq := r.store.data.seq
	sort.Slice(requests, func(i, j int) bool {
		if !requests[i].CreatedAt.Equal(requests[j].CreatedAt) {
			return requests[i].CreatedAt.After(requests[j].CreatedAt)
		}
		return seq[requests[i].ID] > seq[requests[j].ID]
	})
}

func (r *correctionRepository) Create(ctx context.Context, req correction.CorrectionRequest) (correction.CorrectionRequest, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	if err := r.store.fault("correction.Create"); err != nil {
		return correction.CorrectionRequest{}, err
	}
	for _, existing := range r.store.data.corrections {
		if existing.AttendanceID == req.AttendanceID && existing.IsPending() {
			return correction.CorrectionRequest{}, correction.ErrPendingRequestExists
		}
	}
	now := r.store.now()
	req.ID = r.store.nextID()
	req.Status = correction.StatusPending
	req.ApprovedBy = nil
	req.ApprovedAt = nil
	req.CreatedAt = now
	req.UpdatedAt = now
	req.RequestedBreaks = append([]attendance.BreakSpan(nil), req.RequestedBreaks...)
	r.store.data.corrections[req.ID] = req
	return r.joined(req), nil
}

func (r *correctionRepository) GetByID(ctx context.Context, id string) (correction.CorrectionRequest, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	if err := r.store.fault("correction.GetByID"); err != nil {
		return correction.CorrectionRequest{}, err
	}
	req, ok := r.store.data.corrections[id]
	if !ok {
		return correction.CorrectionRequest{}, correction.ErrCorrectionRequestNotFound
	}
	return r.joined(req), nil
}

// GetByIDForUpdate relies on the transaction manager serialising transactions.
func (r *correctionRepository) GetByIDForUpdate(ctx context.Context, id string) (correction.CorrectionRequest, error) {
	return r.GetByID(ctx, id)
}

func (r *correctionRepository) GetPendingByAttendance(ctx context.Context, attendanceID string) (*correction.CorrectionRequest, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	if err := r.store.fault("correction.GetPendingByAttendance"); err != nil {
		return nil, err
	}
	for _, req := range r.store.data.corrections {
		if req.AttendanceID == attendanceID && req.IsPending() {
			found := r.joined(req)
			return &found, nil
		}
	}
	return nil, nil
}

func (r *correctionRepository) GetLatestApprovedByAttendance(ctx context.Context, attendanceID string) (*correction.CorrectionRequest, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	if err := r.store.fault("correction.GetLatestApprovedByAttendance"); err != nil {
		return nil, err
	}
	seq := r.store.data.seq
	var latest *correction.CorrectionRequest
	for _, req := range r.store.data.corrections {
		if req.AttendanceID != attendanceID || req.Status != correction.StatusApproved || req.ApprovedAt == nil {
			continue
		}
		if latest == nil ||
			req.ApprovedAt.After(*latest.ApprovedAt) ||
			(req.ApprovedAt.Equal(*latest.ApprovedAt) && seq[req.ID] > seq[latest.ID]) {
			found := req
			latest = &found
		}
	}
	if latest == nil {
		return nil, nil
	}
	joined := r.joined(*latest)
	return &joined, nil
}

func (r *correctionRepository) List(ctx context.Context, filter correction.CorrectionFilter) ([]correction.CorrectionRequest, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	if err := r.store.fault("correction.List"); err != nil {
		return nil, err
	}
	var result []correction.CorrectionRequest
	for _, req := range r.store.data.corrections {
		if filter.UserID != nil && req.UserID != *filter.UserID {
			continue
		}
		if filter.Status != nil && req.Status != *filter.Status {
			continue
		}
		result = append(result, r.joined(req))
	}
	r.sorted(result)
	return result, nil
}

func (r *correctionRepository) MarkApproved(ctx context.Context, id string, approvedBy string, approvedAt time.Time) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	if err := r.store.fault("correction.MarkApproved"); err != nil {
		return err
	}
	req, ok := r.store.data.corrections[id]
	if !ok {
		return correction.ErrCorrectionRequestNotFound
	}
	if !req.IsPending() {
		return correction.ErrCorrectionAlreadyApproved
	}
	req.Status = correction.StatusApproved
	req.ApprovedBy = &approvedBy
	req.ApprovedAt = &approvedAt
	req.UpdatedAt = r.store.now()
	r.store.data.corrections[id] = req
	return nil
}
