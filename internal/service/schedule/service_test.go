package schedule

import (
	"context"
	"testing"

	"github.com/cmlabs-hris/presence-backend-go/internal/domain/employee"
	"github.com/cmlabs-hris/presence-backend-go/internal/domain/schedule"
	"github.com/cmlabs-hris/presence-backend-go/internal/pkg/validator"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const employeeID = "0199a1b2-7c3d-7e4f-8a9b-0c1d2e3f4a5b"

type fakeScheduleRepo struct {
	rows    map[string]schedule.WorkSchedule
	creates int
}

func newFakeScheduleRepo() *fakeScheduleRepo {
	return &fakeScheduleRepo{rows: map[string]schedule.WorkSchedule{}}
}

func (f *fakeScheduleRepo) GetActive(ctx context.Context, id string) (*schedule.WorkSchedule, error) {
	ws, ok := f.rows[id]
	if !ok || !ws.IsActive {
		return nil, nil
	}
	return &ws, nil
}
func (f *fakeScheduleRepo) Upsert(ctx context.Context, ws schedule.WorkSchedule) (schedule.WorkSchedule, error) {
	f.rows[ws.EmployeeID] = ws
	return ws, nil
}
func (f *fakeScheduleRepo) CreateIfAbsent(ctx context.Context, ws schedule.WorkSchedule) error {
	f.creates++
	if _, ok := f.rows[ws.EmployeeID]; !ok {
		f.rows[ws.EmployeeID] = ws
	}
	return nil
}
func (f *fakeScheduleRepo) ListActive(ctx context.Context) ([]schedule.WorkSchedule, error) {
	var out []schedule.WorkSchedule
	for _, ws := range f.rows {
		if ws.IsActive {
			out = append(out, ws)
		}
	}
	return out, nil
}
func (f *fakeScheduleRepo) Deactivate(ctx context.Context, id string) error {
	ws, ok := f.rows[id]
	if !ok {
		return schedule.ErrWorkScheduleNotFound
	}
	ws.IsActive = false
	f.rows[id] = ws
	return nil
}

type fakeEmployeeRepo struct {
	employees map[string]employee.Employee
}

func (f *fakeEmployeeRepo) GetByID(ctx context.Context, id string) (employee.Employee, error) {
	e, ok := f.employees[id]
	if !ok {
		return employee.Employee{}, employee.ErrEmployeeNotFound
	}
	return e, nil
}
func (f *fakeEmployeeRepo) ListByRole(ctx context.Context, role employee.Role) ([]employee.Employee, error) {
	return nil, nil
}

func newService(repo *fakeScheduleRepo) schedule.ScheduleService {
	emps := &fakeEmployeeRepo{employees: map[string]employee.Employee{
		employeeID: {ID: employeeID, Role: employee.RoleEmployee},
	}}
	return NewScheduleService(repo, emps, schedule.DefaultSchedule)
}

func intPtr(i int) *int { return &i }

func TestResolve_ReadPathDoesNotPersistDefault(t *testing.T) {
	repo := newFakeScheduleRepo()
	svc := newService(repo)

	eff, err := svc.Resolve(context.Background(), employeeID)
	require.NoError(t, err)
	assert.True(t, eff.IsDefault)
	assert.Equal(t, "09:00", eff.CheckInTime)
	assert.Equal(t, "18:00", eff.CheckOutTime)
	assert.Equal(t, 30, eff.GracePeriodMinutes)
	assert.Empty(t, repo.rows)
}

func TestResolveForCheckIn_PersistsDefaultOnce(t *testing.T) {
	repo := newFakeScheduleRepo()
	svc := newService(repo)

	eff, err := svc.ResolveForCheckIn(context.Background(), employeeID)
	require.NoError(t, err)
	assert.True(t, eff.IsDefault)
	require.Contains(t, repo.rows, employeeID)

	eff, err = svc.ResolveForCheckIn(context.Background(), employeeID)
	require.NoError(t, err)
	assert.False(t, eff.IsDefault)
	assert.Equal(t, 1, repo.creates)
}

func TestResolve_ReturnsStoredSchedule(t *testing.T) {
	repo := newFakeScheduleRepo()
	repo.rows[employeeID] = schedule.WorkSchedule{EmployeeID: employeeID, CheckInTime: "07:30", CheckOutTime: "16:00", GracePeriodMinutes: 10, IsActive: true}
	svc := newService(repo)

	eff, err := svc.Resolve(context.Background(), employeeID)
	require.NoError(t, err)
	assert.False(t, eff.IsDefault)
	assert.Equal(t, "07:30", eff.CheckInTime)
	assert.Equal(t, 10, eff.GracePeriodMinutes)
}

func TestUpsert_ClampsGraceAndDefaultsWhenOmitted(t *testing.T) {
	cases := []struct {
		grace *int
		want  int
	}{
		{nil, 30},
		{intPtr(0), 0},
		{intPtr(45), 45},
		{intPtr(500), 120},
		{intPtr(-5), 0},
	}
	for _, c := range cases {
		repo := newFakeScheduleRepo()
		svc := newService(repo)
		resp, err := svc.Upsert(context.Background(), schedule.UpsertWorkScheduleRequest{
			EmployeeID:         employeeID,
			CheckInTime:        "08:00",
			CheckOutTime:       "17:00",
			GracePeriodMinutes: c.grace,
		})
		require.NoError(t, err)
		assert.Equal(t, c.want, resp.GracePeriodMinutes)
		assert.Equal(t, c.want, repo.rows[employeeID].GracePeriodMinutes)
	}
}

func TestUpsert_RejectsMalformedTimes(t *testing.T) {
	svc := newService(newFakeScheduleRepo())
	_, err := svc.Upsert(context.Background(), schedule.UpsertWorkScheduleRequest{
		EmployeeID:   employeeID,
		CheckInTime:  "24:00",
		CheckOutTime: "5pm",
	})
	var verrs validator.ValidationErrors
	require.ErrorAs(t, err, &verrs)
	assert.Contains(t, verrs.ToMap(), "check_in_time")
	assert.Contains(t, verrs.ToMap(), "check_out_time")
}

func TestUpsert_UnknownEmployee(t *testing.T) {
	svc := newService(newFakeScheduleRepo())
	_, err := svc.Upsert(context.Background(), schedule.UpsertWorkScheduleRequest{
		EmployeeID:   "0199a1b2-7c3d-7e4f-8a9b-000000000000",
		CheckInTime:  "08:00",
		CheckOutTime: "17:00",
	})
	assert.ErrorIs(t, err, employee.ErrEmployeeNotFound)
}

func TestDeactivate_FallsBackToDefault(t *testing.T) {
	repo := newFakeScheduleRepo()
	repo.rows[employeeID] = schedule.WorkSchedule{EmployeeID: employeeID, CheckInTime: "07:30", CheckOutTime: "16:00", IsActive: true}
	svc := newService(repo)

	require.NoError(t, svc.Deactivate(context.Background(), employeeID))
	eff, err := svc.Resolve(context.Background(), employeeID)
	require.NoError(t, err)
	assert.True(t, eff.IsDefault)

	err = svc.Deactivate(context.Background(), "0199a1b2-7c3d-7e4f-8a9b-000000000000")
	assert.ErrorIs(t, err, schedule.ErrWorkScheduleNotFound)
}
