package postgresql

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/cmlabs-hris/presence-backend-go/internal/domain/employee"
	"github.com/cmlabs-hris/presence-backend-go/internal/domain/leave"
	"github.com/cmlabs-hris/presence-backend-go/internal/pkg/database"
	"github.com/jackc/pgx/v5"
)

const leaveColumns = `lr.id, lr.employee_id, lr.leave_type, lr.start_date, lr.end_date, lr.total_days, lr.reason,
		lr.status, lr.admin_notes, lr.reviewed_by, lr.reviewed_at, lr.created_at, lr.updated_at, e.full_name`

type leaveRequestRepository struct {
	db *database.DB
}

func NewLeaveRequestRepository(db *database.DB) leave.LeaveRequestRepository {
	return &leaveRequestRepository{db: db}
}

func scanLeave(row pgx.Row) (leave.LeaveRequest, error) {
	var r leave.LeaveRequest
	err := row.Scan(
		&r.ID, &r.EmployeeID, &r.LeaveType, &r.StartDate, &r.EndDate, &r.TotalDays, &r.Reason,
		&r.Status, &r.AdminNotes, &r.ReviewedBy, &r.ReviewedAt, &r.CreatedAt, &r.UpdatedAt, &r.EmployeeName,
	)
	return r, err
}

// Create implements leave.LeaveRequestRepository.
func (l *leaveRequestRepository) Create(ctx context.Context, request leave.LeaveRequest) (leave.LeaveRequest, error) {
	q := GetQuerier(ctx, l.db)

	query := `
		INSERT INTO leave_requests (id, employee_id, leave_type, start_date, end_date, total_days, reason, status)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING created_at, updated_at
	`

	err := q.QueryRow(ctx, query,
		request.ID, request.EmployeeID, request.LeaveType, request.StartDate, request.EndDate,
		request.TotalDays, request.Reason, request.Status,
	).Scan(&request.CreatedAt, &request.UpdatedAt)
	if err != nil {
		if isExclusionViolation(err) {
			return leave.LeaveRequest{}, leave.ErrOverlap
		}
		if isForeignKeyViolation(err) {
			return leave.LeaveRequest{}, employee.ErrEmployeeNotFound
		}
		return leave.LeaveRequest{}, fmt.Errorf("failed to create leave request: %w", err)
	}
	return request, nil
}

// GetByID implements leave.LeaveRequestRepository.
func (l *leaveRequestRepository) GetByID(ctx context.Context, id string) (leave.LeaveRequest, error) {
	q := GetQuerier(ctx, l.db)

	query := `SELECT ` + leaveColumns + `
		FROM leave_requests lr
		LEFT JOIN employees e ON e.id = lr.employee_id
		WHERE lr.id = $1
	`

	r, err := scanLeave(q.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return leave.LeaveRequest{}, leave.ErrLeaveRequestNotFound
		}
		return leave.LeaveRequest{}, fmt.Errorf("failed to get leave request: %w", err)
	}
	return r, nil
}

// HasOverlap implements leave.LeaveRequestRepository. Shared boundary days overlap.
func (l *leaveRequestRepository) HasOverlap(ctx context.Context, employeeID string, start, end time.Time) (bool, error) {
	q := GetQuerier(ctx, l.db)

	query := `
		SELECT EXISTS (
			SELECT 1 FROM leave_requests
			WHERE employee_id = $1
			  AND status IN ('PENDING', 'APPROVED')
			  AND start_date <= $3
			  AND end_date >= $2
		)
	`

	var exists bool
	if err := q.QueryRow(ctx, query, employeeID, start, end).Scan(&exists); err != nil {
		return false, fmt.Errorf("failed to check leave overlap: %w", err)
	}
	return exists, nil
}

func (l *leaveRequestRepository) exists(ctx context.Context, id string) (bool, error) {
	var exists bool
	err := GetQuerier(ctx, l.db).QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM leave_requests WHERE id = $1)`, id).Scan(&exists)
	return exists, err
}

// Review implements leave.LeaveRequestRepository.
func (l *leaveRequestRepository) Review(ctx context.Context, id string, status leave.Status, reviewedBy string, reviewedAt time.Time, adminNotes *string) (leave.LeaveRequest, error) {
	q := GetQuerier(ctx, l.db)

	query := `
		WITH updated AS (
			UPDATE leave_requests
			SET status = $2,
				reviewed_by = $3,
				reviewed_at = $4,
				admin_notes = COALESCE($5, admin_notes),
				updated_at = NOW()
			WHERE id = $1 AND status = 'PENDING'
			RETURNING *
		)
		SELECT ` + leaveColumns + `
		FROM updated lr
		LEFT JOIN employees e ON e.id = lr.employee_id
	`

	r, err := scanLeave(q.QueryRow(ctx, query, id, status, reviewedBy, reviewedAt, adminNotes))
	if err == nil {
		return r, nil
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		return leave.LeaveRequest{}, fmt.Errorf("failed to review leave request: %w", err)
	}

	found, err := l.exists(ctx, id)
	if err != nil {
		return leave.LeaveRequest{}, fmt.Errorf("failed to get leave request: %w", err)
	}
	if !found {
		return leave.LeaveRequest{}, leave.ErrLeaveRequestNotFound
	}
	return leave.LeaveRequest{}, leave.ErrNotPending
}

// DeletePending implements leave.LeaveRequestRepository.
func (l *leaveRequestRepository) DeletePending(ctx context.Context, id string) error {
	q := GetQuerier(ctx, l.db)

	tag, err := q.Exec(ctx, `DELETE FROM leave_requests WHERE id = $1 AND status = 'PENDING'`, id)
	if err != nil {
		return fmt.Errorf("failed to delete leave request: %w", err)
	}
	if tag.RowsAffected() > 0 {
		return nil
	}

	found, err := l.exists(ctx, id)
	if err != nil {
		return fmt.Errorf("failed to get leave request: %w", err)
	}
	if !found {
		return leave.ErrLeaveRequestNotFound
	}
	return leave.ErrNotPending
}

// List implements leave.LeaveRequestRepository. Date bounds select requests
// that intersect the range.
func (l *leaveRequestRepository) List(ctx context.Context, filter leave.ListFilter) ([]leave.LeaveRequest, int64, error) {
	q := GetQuerier(ctx, l.db)

	var (
		conditions []string
		args       []interface{}
	)
	add := func(cond string, arg interface{}) {
		args = append(args, arg)
		conditions = append(conditions, fmt.Sprintf(cond, len(args)))
	}

	if filter.EmployeeID != nil && *filter.EmployeeID != "" {
		add("lr.employee_id = $%d", *filter.EmployeeID)
	}
	if filter.Status != nil && *filter.Status != "" {
		add("lr.status = $%d", *filter.Status)
	}
	if filter.LeaveType != nil && *filter.LeaveType != "" {
		add("lr.leave_type = $%d", *filter.LeaveType)
	}
	if start, ok := parseDateFilter(filter.StartDate); ok {
		add("lr.end_date >= $%d", start)
	}
	if end, ok := parseDateFilter(filter.EndDate); ok {
		add("lr.start_date <= $%d", end)
	}

	where := ""
	if len(conditions) > 0 {
		where = " WHERE " + strings.Join(conditions, " AND ")
	}

	var total int64
	if err := q.QueryRow(ctx, "SELECT COUNT(*) FROM leave_requests lr"+where, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count leave requests: %w", err)
	}

	page, limit := filter.Page, filter.Limit
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = 20
	}
	args = append(args, limit, (page-1)*limit)
	query := fmt.Sprintf(`
		SELECT %s
		FROM leave_requests lr
		LEFT JOIN employees e ON e.id = lr.employee_id%s
		ORDER BY lr.start_date DESC, lr.created_at DESC
		LIMIT $%d OFFSET $%d`, leaveColumns, where, len(args)-1, len(args))

	rows, err := q.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list leave requests: %w", err)
	}
	defer rows.Close()

	var requests []leave.LeaveRequest
	for rows.Next() {
		r, err := scanLeave(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("failed to scan leave request: %w", err)
		}
		requests = append(requests, r)
	}
	return requests, total, rows.Err()
}

// CountByStatusAndType implements leave.LeaveRequestRepository.
func (l *leaveRequestRepository) CountByStatusAndType(ctx context.Context, employeeID *string) ([]leave.StatusTypeCount, error) {
	q := GetQuerier(ctx, l.db)

	query := `
		SELECT status, leave_type, COUNT(*), COALESCE(SUM(total_days), 0)
		FROM leave_requests
		WHERE ($1::uuid IS NULL OR employee_id = $1::uuid)
		GROUP BY status, leave_type
	`

	rows, err := q.Query(ctx, query, employeeID)
	if err != nil {
		return nil, fmt.Errorf("failed to count leave requests: %w", err)
	}
	defer rows.Close()

	var groups []leave.StatusTypeCount
	for rows.Next() {
		var g leave.StatusTypeCount
		if err := rows.Scan(&g.Status, &g.LeaveType, &g.Count, &g.TotalDays); err != nil {
			return nil, fmt.Errorf("failed to scan leave counts: %w", err)
		}
		groups = append(groups, g)
	}
	return groups, rows.Err()
}
