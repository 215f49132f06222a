package postgresql

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/KunimitsuMk2/mogikintai/internal/domain/attendance"
	"github.com/KunimitsuMk2/mogikintai/internal/domain/correction"
	"github.com/KunimitsuMk2/mogikintai/internal/pkg/database"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

const correctionSelect = `
	SELECT c.id, c.attendance_id, c.user_id, c.requested_start_time, c.requested_end_time,
		   c.requested_breaks, c.remarks, c.status, c.approved_by, c.approved_at,
		   c.created_at, c.updated_at, u.name, a.date
	FROM attendance_correction_requests c
	JOIN users u ON u.id = c.user_id
	JOIN attendances a ON a.id = c.attendance_id
`

type correctionRepository struct {
	db *database.DB
}

func NewCorrectionRepository(db *database.DB) correction.CorrectionRepository {
	return &correctionRepository{db: db}
}

func scanCorrection(row pgx.Row) (correction.CorrectionRequest, error) {
	var req correction.CorrectionRequest
	var breaks []byte
	err := row.Scan(
		&req.ID, &req.AttendanceID, &req.UserID, &req.RequestedStartTime, &req.RequestedEndTime,
		&breaks, &req.Remarks, &req.Status, &req.ApprovedBy, &req.ApprovedAt,
		&req.CreatedAt, &req.UpdatedAt, &req.UserName, &req.AttendanceDate,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return correction.CorrectionRequest{}, correction.ErrCorrectionRequestNotFound
		}
		return correction.CorrectionRequest{}, err
	}
	if len(breaks) > 0 {
		if err := json.Unmarshal(breaks, &req.RequestedBreaks); err != nil {
			return correction.CorrectionRequest{}, fmt.Errorf("decode requested breaks: %w", err)
		}
	}
	return req, nil
}

func (r *correctionRepository) getOne(ctx context.Context, where string, args ...interface{}) (*correction.CorrectionRequest, error) {
	q := GetQuerier(ctx, r.db)

	req, err := scanCorrection(q.QueryRow(ctx, correctionSelect+where, args...))
	if err != nil {
		if errors.Is(err, correction.ErrCorrectionRequestNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get correction request: %w", err)
	}
	return &req, nil
}

// Create implements correction.CorrectionRepository.
func (r *correctionRepository) Create(ctx context.Context, req correction.CorrectionRequest) (correction.CorrectionRequest, error) {
	q := GetQuerier(ctx, r.db)

	id, err := uuid.NewV7()
	if err != nil {
		return correction.CorrectionRequest{}, fmt.Errorf("generate correction request id: %w", err)
	}

	breaks := req.RequestedBreaks
	if breaks == nil {
		breaks = []attendance.BreakSpan{}
	}
	breaksJSON, err := json.Marshal(breaks)
	if err != nil {
		return correction.CorrectionRequest{}, fmt.Errorf("encode requested breaks: %w", err)
	}

	query := `
		INSERT INTO attendance_correction_requests (
			id, attendance_id, user_id, requested_start_time, requested_end_time,
			requested_breaks, remarks, status
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`
	_, err = q.Exec(ctx, query,
		id.String(), req.AttendanceID, req.UserID, req.RequestedStartTime, req.RequestedEndTime,
		string(breaksJSON), req.Remarks, correction.StatusPending,
	)
	if err != nil {
		if isUniqueViolation(err, "uq_correction_requests_pending") {
			return correction.CorrectionRequest{}, correction.ErrPendingRequestExists
		}
		return correction.CorrectionRequest{}, fmt.Errorf("failed to create correction request: %w", err)
	}

	return r.GetByID(ctx, id.String())
}

// GetByID implements correction.CorrectionRepository.
func (r *correctionRepository) GetByID(ctx context.Context, id string) (correction.CorrectionRequest, error) {
	q := GetQuerier(ctx, r.db)
	return scanCorrection(q.QueryRow(ctx, correctionSelect+` WHERE c.id = $1`, id))
}

// GetByIDForUpdate implements correction.CorrectionRepository.
func (r *correctionRepository) GetByIDForUpdate(ctx context.Context, id string) (correction.CorrectionRequest, error) {
	q := GetQuerier(ctx, r.db)
	return scanCorrection(q.QueryRow(ctx, correctionSelect+` WHERE c.id = $1 FOR UPDATE OF c`, id))
}

// GetPendingByAttendance implements correction.CorrectionRepository.
func (r *correctionRepository) GetPendingByAttendance(ctx context.Context, attendanceID string) (*correction.CorrectionRequest, error) {
	return r.getOne(ctx, ` WHERE c.attendance_id = $1 AND c.status = $2 LIMIT 1`, attendanceID, correction.StatusPending)
}

// GetLatestApprovedByAttendance implements correction.CorrectionRepository.
func (r *correctionRepository) GetLatestApprovedByAttendance(ctx context.Context, attendanceID string) (*correction.CorrectionRequest, error) {
	return r.getOne(ctx, `
		WHERE c.attendance_id = $1 AND c.status = $2
		ORDER BY c.approved_at DESC, c.created_at DESC
		LIMIT 1
	`, attendanceID, correction.StatusApproved)
}

// List implements correction.CorrectionRepository.
func (r *correctionRepository) List(ctx context.Context, filter correction.CorrectionFilter) ([]correction.CorrectionRequest, error) {
	q := GetQuerier(ctx, r.db)

	var conditions []string
	var args []interface{}
	if filter.UserID != nil {
		args = append(args, *filter.UserID)
		conditions = append(conditions, fmt.Sprintf("c.user_id = $%d", len(args)))
	}
	if filter.Status != nil {
		args = append(args, *filter.Status)
		conditions = append(conditions, fmt.Sprintf("c.status = $%d", len(args)))
	}

	query := correctionSelect
	if len(conditions) > 0 {
		query += " WHERE " + strings.Join(conditions, " AND ")
	}
	query += " ORDER BY c.created_at DESC, c.id DESC"

	rows, err := q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list correction requests: %w", err)
	}
	defer rows.Close()

	var requests []correction.CorrectionRequest
	for rows.Next() {
		req, err := scanCorrection(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan correction request: %w", err)
		}
		requests = append(requests, req)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating correction requests: %w", err)
	}

	return requests, nil
}

// MarkApproved implements correction.CorrectionRepository.
func (r *correctionRepository) MarkApproved(ctx context.Context, id string, approvedBy string, approvedAt time.Time) error {
	q := GetQuerier(ctx, r.db)

	query := `
		UPDATE attendance_correction_requests
		SET status = $1, approved_by = $2, approved_at = $3, updated_at = NOW()
		WHERE id = $4 AND status = $5
	`
	tag, err := q.Exec(ctx, query, correction.StatusApproved, approvedBy, approvedAt, id, correction.StatusPending)
	if err != nil {
		return fmt.Errorf("failed to approve correction request: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return correction.ErrCorrectionAlreadyApproved
	}
	return nil
}
