package postgresql

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/cmlabs-hris/presence-backend-go/internal/domain/attendance"
	"github.com/cmlabs-hris/presence-backend-go/internal/pkg/database"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

const attendanceColumns = `id, employee_id, date, check_in_time, check_in_ip, check_out_time, check_out_ip,
		status, working_minutes, notes, created_at, updated_at`

type attendanceRepository struct {
	db *database.DB
}

func NewAttendanceRepository(db *database.DB) attendance.AttendanceRepository {
	return &attendanceRepository{db: db}
}

// scanRecord reads attendanceColumns in order.
func scanRecord(row pgx.Row) (attendance.Record, error) {
	var rec attendance.Record
	err := row.Scan(
		&rec.ID, &rec.EmployeeID, &rec.Date, &rec.CheckInTime, &rec.CheckInIP, &rec.CheckOutTime, &rec.CheckOutIP,
		&rec.Status, &rec.WorkingMinutes, &rec.Notes, &rec.CreatedAt, &rec.UpdatedAt,
	)
	return rec, err
}

// GetByEmployeeAndDate implements attendance.AttendanceRepository.
func (a *attendanceRepository) GetByEmployeeAndDate(ctx context.Context, employeeID string, date time.Time) (*attendance.Record, error) {
	q := GetQuerier(ctx, a.db)

	query := `SELECT ` + attendanceColumns + `
		FROM attendance_records
		WHERE employee_id = $1 AND date = $2
	`

	rec, err := scanRecord(q.QueryRow(ctx, query, employeeID, date))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get attendance by employee and date: %w", err)
	}
	return &rec, nil
}

// GetByID implements attendance.AttendanceRepository.
func (a *attendanceRepository) GetByID(ctx context.Context, id string) (attendance.Record, error) {
	q := GetQuerier(ctx, a.db)

	query := `SELECT ` + attendanceColumns + ` FROM attendance_records WHERE id = $1`

	rec, err := scanRecord(q.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return attendance.Record{}, attendance.ErrAttendanceNotFound
		}
		return attendance.Record{}, fmt.Errorf("failed to get attendance: %w", err)
	}
	return rec, nil
}

// InsertCheckIn implements attendance.AttendanceRepository. The unique
// (employee_id, date) key arbitrates concurrent check-ins.
func (a *attendanceRepository) InsertCheckIn(ctx context.Context, rec attendance.Record) (attendance.Record, error) {
	q := GetQuerier(ctx, a.db)

	query := `
		INSERT INTO attendance_records (id, employee_id, date, check_in_time, check_in_ip, status, notes)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		ON CONFLICT (employee_id, date) DO UPDATE
		SET check_in_time = EXCLUDED.check_in_time,
			check_in_ip = EXCLUDED.check_in_ip,
			status = EXCLUDED.status,
			notes = EXCLUDED.notes,
			updated_at = NOW()
		WHERE attendance_records.check_in_time IS NULL
		RETURNING ` + attendanceColumns

	saved, err := scanRecord(q.QueryRow(ctx, query,
		rec.ID, rec.EmployeeID, rec.Date, rec.CheckInTime, rec.CheckInIP, rec.Status, rec.Notes,
	))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) || isUniqueViolation(err) {
			return attendance.Record{}, attendance.ErrAlreadyCheckedIn
		}
		return attendance.Record{}, fmt.Errorf("failed to insert check-in: %w", err)
	}
	return saved, nil
}

// CompleteCheckOut implements attendance.AttendanceRepository.
func (a *attendanceRepository) CompleteCheckOut(ctx context.Context, rec attendance.Record) (attendance.Record, error) {
	q := GetQuerier(ctx, a.db)

	query := `
		UPDATE attendance_records
		SET check_out_time = $2,
			check_out_ip = $3,
			working_minutes = $4,
			status = $5,
			notes = $6,
			updated_at = NOW()
		WHERE id = $1
		  AND check_in_time IS NOT NULL
		  AND check_out_time IS NULL
		RETURNING ` + attendanceColumns

	saved, err := scanRecord(q.QueryRow(ctx, query,
		rec.ID, rec.CheckOutTime, rec.CheckOutIP, rec.WorkingMinutes, rec.Status, rec.Notes,
	))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return attendance.Record{}, attendance.ErrAlreadyCheckedOut
		}
		return attendance.Record{}, fmt.Errorf("failed to complete check-out: %w", err)
	}
	return saved, nil
}

// UpsertAbsent implements attendance.AttendanceRepository. Existing notes are
// kept when notes is nil.
func (a *attendanceRepository) UpsertAbsent(ctx context.Context, employeeID string, date time.Time, notes *string) (attendance.Record, error) {
	q := GetQuerier(ctx, a.db)

	id, err := uuid.NewV7()
	if err != nil {
		return attendance.Record{}, fmt.Errorf("failed to generate attendance id: %w", err)
	}

	query := `
		INSERT INTO attendance_records (id, employee_id, date, status, notes)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (employee_id, date) DO UPDATE
		SET status = EXCLUDED.status,
			notes = COALESCE(EXCLUDED.notes, attendance_records.notes),
			updated_at = NOW()
		RETURNING ` + attendanceColumns

	rec, err := scanRecord(q.QueryRow(ctx, query, id.String(), employeeID, date, attendance.StatusAbsent, notes))
	if err != nil {
		return attendance.Record{}, fmt.Errorf("failed to upsert absent record: %w", err)
	}
	return rec, nil
}

// UpdateStatus implements attendance.AttendanceRepository.
func (a *attendanceRepository) UpdateStatus(ctx context.Context, id string, status attendance.Status, notes *string) (attendance.Record, error) {
	q := GetQuerier(ctx, a.db)

	query := `
		UPDATE attendance_records
		SET status = $2,
			notes = COALESCE($3, notes),
			updated_at = NOW()
		WHERE id = $1
		RETURNING ` + attendanceColumns

	rec, err := scanRecord(q.QueryRow(ctx, query, id, status, notes))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return attendance.Record{}, attendance.ErrAttendanceNotFound
		}
		return attendance.Record{}, fmt.Errorf("failed to update attendance status: %w", err)
	}
	return rec, nil
}

// ListByEmployee implements attendance.AttendanceRepository.
func (a *attendanceRepository) ListByEmployee(ctx context.Context, employeeID string, filter attendance.HistoryFilter) ([]attendance.Record, int64, error) {
	q := GetQuerier(ctx, a.db)

	conditions := []string{"employee_id = $1"}
	args := []interface{}{employeeID}

	if start, ok := parseDateFilter(filter.StartDate); ok {
		args = append(args, start)
		conditions = append(conditions, fmt.Sprintf("date >= $%d", len(args)))
	}
	if end, ok := parseDateFilter(filter.EndDate); ok {
		args = append(args, end)
		conditions = append(conditions, fmt.Sprintf("date <= $%d", len(args)))
	}
	where := " WHERE " + strings.Join(conditions, " AND ")

	var total int64
	if err := q.QueryRow(ctx, "SELECT COUNT(*) FROM attendance_records"+where, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count attendance: %w", err)
	}

	page, limit := filter.Page, filter.Limit
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = 30
	}
	args = append(args, limit, (page-1)*limit)
	query := fmt.Sprintf(`SELECT %s FROM attendance_records%s ORDER BY date DESC LIMIT $%d OFFSET $%d`,
		attendanceColumns, where, len(args)-1, len(args))

	rows, err := q.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list attendance: %w", err)
	}
	defer rows.Close()

	var records []attendance.Record
	for rows.Next() {
		rec, err := scanRecord(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("failed to scan attendance: %w", err)
		}
		records = append(records, rec)
	}
	return records, total, rows.Err()
}

// parseDateFilter reads an optional YYYY-MM-DD filter value.
func parseDateFilter(s *string) (time.Time, bool) {
	if s == nil || *s == "" {
		return time.Time{}, false
	}
	t, err := time.Parse("2006-01-02", *s)
	return t, err == nil
}
