package postgresql

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/KunimitsuMk2/mogikintai/internal/domain/attendance"
	"github.com/KunimitsuMk2/mogikintai/internal/pkg/database"
	"github.com/KunimitsuMk2/mogikintai/internal/pkg/timeutil"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

const attendanceSelect = `
	SELECT a.id, a.user_id, a.date, a.start_time, a.end_time, a.status, a.remarks,
		   a.created_at, a.updated_at, u.name
	FROM attendances a
	JOIN users u ON u.id = a.user_id
`

type attendanceRepository struct {
	db *database.DB
}

func NewAttendanceRepository(db *database.DB) attendance.AttendanceRepository {
	return &attendanceRepository{db: db}
}

func scanAttendance(row pgx.Row) (attendance.Attendance, error) {
	var att attendance.Attendance
	err := row.Scan(
		&att.ID, &att.UserID, &att.Date, &att.StartTime, &att.EndTime, &att.Status, &att.Remarks,
		&att.CreatedAt, &att.UpdatedAt, &att.UserName,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return attendance.Attendance{}, attendance.ErrAttendanceNotFound
		}
		return attendance.Attendance{}, err
	}
	return att, nil
}

func collectAttendances(rows pgx.Rows) ([]attendance.Attendance, error) {
	defer rows.Close()

	var attendances []attendance.Attendance
	for rows.Next() {
		att, err := scanAttendance(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan attendance: %w", err)
		}
		attendances = append(attendances, att)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating attendances: %w", err)
	}
	return attendances, nil
}

// GetOrCreate implements attendance.AttendanceRepository.
func (a *attendanceRepository) GetOrCreate(ctx context.Context, userID string, date time.Time) (attendance.Attendance, error) {
	q := GetQuerier(ctx, a.db)

	id, err := uuid.NewV7()
	if err != nil {
		return attendance.Attendance{}, fmt.Errorf("generate attendance id: %w", err)
	}
	day := timeutil.DateOnly(date)

	insertQuery := `
		INSERT INTO attendances (id, user_id, date, status)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (user_id, date) DO NOTHING
	`
	if _, err := q.Exec(ctx, insertQuery, id.String(), userID, day, attendance.StatusOffDuty); err != nil {
		return attendance.Attendance{}, fmt.Errorf("failed to create attendance: %w", err)
	}

	att, err := scanAttendance(q.QueryRow(ctx, attendanceSelect+` WHERE a.user_id = $1 AND a.date = $2`, userID, day))
	if err != nil {
		return attendance.Attendance{}, fmt.Errorf("failed to get attendance: %w", err)
	}
	return att, nil
}

// GetByID implements attendance.AttendanceRepository.
func (a *attendanceRepository) GetByID(ctx context.Context, id string) (attendance.Attendance, error) {
	q := GetQuerier(ctx, a.db)
	return scanAttendance(q.QueryRow(ctx, attendanceSelect+` WHERE a.id = $1`, id))
}

// GetByIDForUpdate implements attendance.AttendanceRepository.
func (a *attendanceRepository) GetByIDForUpdate(ctx context.Context, id string) (attendance.Attendance, error) {
	q := GetQuerier(ctx, a.db)
	return scanAttendance(q.QueryRow(ctx, attendanceSelect+` WHERE a.id = $1 FOR UPDATE OF a`, id))
}

// GetByUserAndDate implements attendance.AttendanceRepository.
func (a *attendanceRepository) GetByUserAndDate(ctx context.Context, userID string, date time.Time) (*attendance.Attendance, error) {
	q := GetQuerier(ctx, a.db)

	att, err := scanAttendance(q.QueryRow(ctx, attendanceSelect+` WHERE a.user_id = $1 AND a.date = $2`, userID, timeutil.DateOnly(date)))
	if err != nil {
		if errors.Is(err, attendance.ErrAttendanceNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get attendance: %w", err)
	}
	return &att, nil
}

// ListByUserAndRange implements attendance.AttendanceRepository.
func (a *attendanceRepository) ListByUserAndRange(ctx context.Context, userID string, from, to time.Time) ([]attendance.Attendance, error) {
	q := GetQuerier(ctx, a.db)

	query := attendanceSelect + `
		WHERE a.user_id = $1 AND a.date BETWEEN $2 AND $3
		ORDER BY a.date
	`
	rows, err := q.Query(ctx, query, userID, timeutil.DateOnly(from), timeutil.DateOnly(to))
	if err != nil {
		return nil, fmt.Errorf("failed to list attendances: %w", err)
	}
	return collectAttendances(rows)
}

// ListByDate implements attendance.AttendanceRepository.
func (a *attendanceRepository) ListByDate(ctx context.Context, date time.Time) ([]attendance.Attendance, error) {
	q := GetQuerier(ctx, a.db)

	query := attendanceSelect + `
		WHERE a.date = $1
		ORDER BY u.name, u.email
	`
	rows, err := q.Query(ctx, query, timeutil.DateOnly(date))
	if err != nil {
		return nil, fmt.Errorf("failed to list attendances: %w", err)
	}
	return collectAttendances(rows)
}

// Update implements attendance.AttendanceRepository.
func (a *attendanceRepository) Update(ctx context.Context, att attendance.Attendance) error {
	q := GetQuerier(ctx, a.db)

	query := `
		UPDATE attendances
		SET start_time = $1, end_time = $2, status = $3, remarks = $4, updated_at = NOW()
		WHERE id = $5
	`
	tag, err := q.Exec(ctx, query, att.StartTime, att.EndTime, att.Status, att.Remarks, att.ID)
	if err != nil {
		return fmt.Errorf("failed to update attendance: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return attendance.ErrAttendanceNotFound
	}
	return nil
}
