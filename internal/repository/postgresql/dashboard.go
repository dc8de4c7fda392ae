package postgresql

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/cmlabs-hris/presence-backend-go/internal/domain/attendance"
	"github.com/cmlabs-hris/presence-backend-go/internal/domain/dashboard"
	"github.com/cmlabs-hris/presence-backend-go/internal/pkg/database"
)

type dashboardRepository struct {
	db *database.DB
}

func NewDashboardRepository(db *database.DB) dashboard.DashboardRepository {
	return &dashboardRepository{db: db}
}

// ListPresenceByDate implements dashboard.DashboardRepository.
func (r *dashboardRepository) ListPresenceByDate(ctx context.Context, date time.Time) ([]dashboard.PresenceRow, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT a.id, a.employee_id, a.date, a.check_in_time, a.check_in_ip, a.check_out_time, a.check_out_ip,
			   a.status, a.working_minutes, a.notes, a.created_at, a.updated_at,
			   e.id, e.full_name, e.email, e.role, e.created_at, e.updated_at
		FROM attendance_records a
		JOIN employees e ON e.id = a.employee_id AND e.deleted_at IS NULL
		WHERE a.date = $1
		ORDER BY a.check_in_time ASC NULLS LAST
	`

	rows, err := q.Query(ctx, query, date)
	if err != nil {
		return nil, fmt.Errorf("failed to list presence: %w", err)
	}
	defer rows.Close()

	var result []dashboard.PresenceRow
	for rows.Next() {
		var (
			rec attendance.Record
			row dashboard.PresenceRow
		)
		err := rows.Scan(
			&rec.ID, &rec.EmployeeID, &rec.Date, &rec.CheckInTime, &rec.CheckInIP, &rec.CheckOutTime, &rec.CheckOutIP,
			&rec.Status, &rec.WorkingMinutes, &rec.Notes, &rec.CreatedAt, &rec.UpdatedAt,
			&row.Employee.ID, &row.Employee.FullName, &row.Employee.Email, &row.Employee.Role,
			&row.Employee.CreatedAt, &row.Employee.UpdatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan presence row: %w", err)
		}
		row.Record = rec
		result = append(result, row)
	}
	return result, rows.Err()
}

// ListRecords implements dashboard.DashboardRepository.
func (r *dashboardRepository) ListRecords(ctx context.Context, employeeID *string, start, end *time.Time) ([]attendance.Record, error) {
	q := GetQuerier(ctx, r.db)

	var (
		conditions []string
		args       []interface{}
	)
	if employeeID != nil {
		args = append(args, *employeeID)
		conditions = append(conditions, fmt.Sprintf("a.employee_id = $%d", len(args)))
	}
	if start != nil {
		args = append(args, *start)
		conditions = append(conditions, fmt.Sprintf("a.date >= $%d", len(args)))
	}
	if end != nil {
		args = append(args, *end)
		conditions = append(conditions, fmt.Sprintf("a.date <= $%d", len(args)))
	}

	var sb strings.Builder
	sb.WriteString(`
		SELECT a.id, a.employee_id, a.date, a.check_in_time, a.check_in_ip, a.check_out_time, a.check_out_ip,
			   a.status, a.working_minutes, a.notes, a.created_at, a.updated_at
		FROM attendance_records a
		JOIN employees e ON e.id = a.employee_id AND e.deleted_at IS NULL`)
	if len(conditions) > 0 {
		sb.WriteString(" WHERE " + strings.Join(conditions, " AND "))
	}
	sb.WriteString(" ORDER BY a.date DESC, a.created_at DESC")

	rows, err := q.Query(ctx, sb.String(), args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list attendance records: %w", err)
	}
	defer rows.Close()

	var records []attendance.Record
	for rows.Next() {
		rec, err := scanRecord(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan attendance record: %w", err)
		}
		records = append(records, rec)
	}
	return records, rows.Err()
}
