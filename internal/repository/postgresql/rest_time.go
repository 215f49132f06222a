package postgresql

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/KunimitsuMk2/mogikintai/internal/domain/attendance"
	"github.com/KunimitsuMk2/mogikintai/internal/pkg/database"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

type restTimeRepository struct {
	db *database.DB
}

func NewRestTimeRepository(db *database.DB) attendance.RestTimeRepository {
	return &restTimeRepository{db: db}
}

// Create implements attendance.RestTimeRepository.
func (r *restTimeRepository) Create(ctx context.Context, restTime attendance.RestTime) (attendance.RestTime, error) {
	q := GetQuerier(ctx, r.db)

	id, err := uuid.NewV7()
	if err != nil {
		return attendance.RestTime{}, fmt.Errorf("generate rest time id: %w", err)
	}

	query := `
		INSERT INTO rest_times (id, attendance_id, start_time, end_time)
		VALUES ($1, $2, $3, $4)
		RETURNING id, attendance_id, start_time, end_time, created_at
	`
	var created attendance.RestTime
	err = q.QueryRow(ctx, query, id.String(), restTime.AttendanceID, restTime.StartTime, restTime.EndTime).Scan(
		&created.ID, &created.AttendanceID, &created.StartTime, &created.EndTime, &created.CreatedAt,
	)
	if err != nil {
		return attendance.RestTime{}, fmt.Errorf("failed to create rest time: %w", err)
	}
	return created, nil
}

// GetLatestOpen implements attendance.RestTimeRepository.
func (r *restTimeRepository) GetLatestOpen(ctx context.Context, attendanceID string) (*attendance.RestTime, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT id, attendance_id, start_time, end_time, created_at
		FROM rest_times
		WHERE attendance_id = $1 AND end_time IS NULL
		ORDER BY start_time DESC
		LIMIT 1
	`
	var rt attendance.RestTime
	err := q.QueryRow(ctx, query, attendanceID).Scan(
		&rt.ID, &rt.AttendanceID, &rt.StartTime, &rt.EndTime, &rt.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get open rest time: %w", err)
	}
	return &rt, nil
}

// Close implements attendance.RestTimeRepository.
func (r *restTimeRepository) Close(ctx context.Context, id string, endTime time.Time) error {
	q := GetQuerier(ctx, r.db)

	tag, err := q.Exec(ctx, `UPDATE rest_times SET end_time = $1 WHERE id = $2`, endTime, id)
	if err != nil {
		return fmt.Errorf("failed to close rest time: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return attendance.ErrRestTimeNotFound
	}
	return nil
}

// ListByAttendanceIDs implements attendance.RestTimeRepository.
func (r *restTimeRepository) ListByAttendanceIDs(ctx context.Context, attendanceIDs []string) (map[string][]attendance.RestTime, error) {
	result := make(map[string][]attendance.RestTime, len(attendanceIDs))
	if len(attendanceIDs) == 0 {
		return result, nil
	}

	q := GetQuerier(ctx, r.db)

	query := `
		SELECT id, attendance_id, start_time, end_time, created_at
		FROM rest_times
		WHERE attendance_id = ANY($1::uuid[])
		ORDER BY attendance_id, start_time
	`
	rows, err := q.Query(ctx, query, attendanceIDs)
	if err != nil {
		return nil, fmt.Errorf("failed to list rest times: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var rt attendance.RestTime
		if err := rows.Scan(&rt.ID, &rt.AttendanceID, &rt.StartTime, &rt.EndTime, &rt.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan rest time: %w", err)
		}
		result[rt.AttendanceID] = append(result[rt.AttendanceID], rt)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating rest times: %w", err)
	}

	return result, nil
}

// ReplaceAll implements attendance.RestTimeRepository.
func (r *restTimeRepository) ReplaceAll(ctx context.Context, attendanceID string, spans []attendance.BreakSpan) error {
	q := GetQuerier(ctx, r.db)

	if _, err := q.Exec(ctx, `DELETE FROM rest_times WHERE attendance_id = $1`, attendanceID); err != nil {
		return fmt.Errorf("failed to clear rest times: %w", err)
	}

	if len(spans) == 0 {
		return nil
	}

	query := `INSERT INTO rest_times (id, attendance_id, start_time, end_time) VALUES ($1, $2, $3, $4)`
	for _, span := range spans {
		id, err := uuid.NewV7()
		if err != nil {
			return fmt.Errorf("generate rest time id: %w", err)
		}
		if _, err := q.Exec(ctx, query, id.String(), attendanceID, span.Start, span.End); err != nil {
			return fmt.Errorf("failed to insert rest time: %w", err)
		}
	}
	return nil
}
