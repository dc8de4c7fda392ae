package postgresql

import (
	"context"
	"errors"
	"fmt"

	"github.com/cmlabs-hris/presence-backend-go/internal/domain/schedule"
	"github.com/cmlabs-hris/presence-backend-go/internal/pkg/database"
	"github.com/jackc/pgx/v5"
)

type workScheduleRepository struct {
	db *database.DB
}

func NewWorkScheduleRepository(db *database.DB) schedule.WorkScheduleRepository {
	return &workScheduleRepository{db: db}
}

func scanWorkSchedule(row pgx.Row) (schedule.WorkSchedule, error) {
	var ws schedule.WorkSchedule
	err := row.Scan(&ws.EmployeeID, &ws.CheckInTime, &ws.CheckOutTime, &ws.GracePeriodMinutes, &ws.IsActive, &ws.CreatedAt, &ws.UpdatedAt)
	return ws, err
}

// GetActive implements schedule.WorkScheduleRepository.
func (r *workScheduleRepository) GetActive(ctx context.Context, employeeID string) (*schedule.WorkSchedule, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT employee_id, check_in_time, check_out_time, grace_period_minutes, is_active, created_at, updated_at
		FROM work_schedules
		WHERE employee_id = $1 AND is_active = TRUE
	`

	ws, err := scanWorkSchedule(q.QueryRow(ctx, query, employeeID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get work schedule: %w", err)
	}
	return &ws, nil
}

// Upsert implements schedule.WorkScheduleRepository.
func (r *workScheduleRepository) Upsert(ctx context.Context, ws schedule.WorkSchedule) (schedule.WorkSchedule, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		INSERT INTO work_schedules (employee_id, check_in_time, check_out_time, grace_period_minutes, is_active)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (employee_id) DO UPDATE
		SET check_in_time = EXCLUDED.check_in_time,
			check_out_time = EXCLUDED.check_out_time,
			grace_period_minutes = EXCLUDED.grace_period_minutes,
			is_active = EXCLUDED.is_active,
			updated_at = NOW()
		RETURNING employee_id, check_in_time, check_out_time, grace_period_minutes, is_active, created_at, updated_at
	`

	saved, err := scanWorkSchedule(q.QueryRow(ctx, query, ws.EmployeeID, ws.CheckInTime, ws.CheckOutTime, ws.GracePeriodMinutes, ws.IsActive))
	if err != nil {
		return schedule.WorkSchedule{}, fmt.Errorf("failed to upsert work schedule: %w", err)
	}
	return saved, nil
}

// CreateIfAbsent implements schedule.WorkScheduleRepository.
func (r *workScheduleRepository) CreateIfAbsent(ctx context.Context, ws schedule.WorkSchedule) error {
	q := GetQuerier(ctx, r.db)

	query := `
		INSERT INTO work_schedules (employee_id, check_in_time, check_out_time, grace_period_minutes, is_active)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (employee_id) DO NOTHING
	`

	if _, err := q.Exec(ctx, query, ws.EmployeeID, ws.CheckInTime, ws.CheckOutTime, ws.GracePeriodMinutes, ws.IsActive); err != nil {
		return fmt.Errorf("failed to create work schedule: %w", err)
	}
	return nil
}

// ListActive implements schedule.WorkScheduleRepository.
func (r *workScheduleRepository) ListActive(ctx context.Context) ([]schedule.WorkSchedule, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT ws.employee_id, ws.check_in_time, ws.check_out_time, ws.grace_period_minutes, ws.is_active, ws.created_at, ws.updated_at
		FROM work_schedules ws
		JOIN employees e ON e.id = ws.employee_id AND e.deleted_at IS NULL
		WHERE ws.is_active = TRUE
		ORDER BY e.full_name
	`

	rows, err := q.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list work schedules: %w", err)
	}
	defer rows.Close()

	var schedules []schedule.WorkSchedule
	for rows.Next() {
		ws, err := scanWorkSchedule(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan work schedule: %w", err)
		}
		schedules = append(schedules, ws)
	}
	return schedules, rows.Err()
}

// Deactivate implements schedule.WorkScheduleRepository.
func (r *workScheduleRepository) Deactivate(ctx context.Context, employeeID string) error {
	q := GetQuerier(ctx, r.db)

	tag, err := q.Exec(ctx, `
		UPDATE work_schedules SET is_active = FALSE, updated_at = NOW()
		WHERE employee_id = $1 AND is_active = TRUE
	`, employeeID)
	if err != nil {
		return fmt.Errorf("failed to deactivate work schedule: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return schedule.ErrWorkScheduleNotFound
	}
	return nil
}
