package leave

import (
	"context"
	"sort"
	"testing"
	"time"

	"github.com/cmlabs-hris/presence-backend-go/internal/domain/leave"
	"github.com/cmlabs-hris/presence-backend-go/internal/pkg/validator"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	employeeA = "0199a1b2-7c3d-7e4f-8a9b-0c1d2e3f4a5b"
	employeeB = "0199a1b2-7c3d-7e4f-8a9b-0c1d2e3f4a5c"
	adminID   = "0199a1b2-7c3d-7e4f-8a9b-aaaaaaaaaaaa"
)

type fakeLeaveRepo struct {
	requests map[string]leave.LeaveRequest
}

func newFakeLeaveRepo() *fakeLeaveRepo {
	return &fakeLeaveRepo{requests: map[string]leave.LeaveRequest{}}
}

func (f *fakeLeaveRepo) Create(ctx context.Context, r leave.LeaveRequest) (leave.LeaveRequest, error) {
	f.requests[r.ID] = r
	return r, nil
}

func (f *fakeLeaveRepo) GetByID(ctx context.Context, id string) (leave.LeaveRequest, error) {
	r, ok := f.requests[id]
	if !ok {
		return leave.LeaveRequest{}, leave.ErrLeaveRequestNotFound
	}
	return r, nil
}

func (f *fakeLeaveRepo) HasOverlap(ctx context.Context, employeeID string, start, end time.Time) (bool, error) {
	for _, r := range f.requests {
		if r.EmployeeID == employeeID && r.Blocking() && r.Overlaps(start, end) {
			return true, nil
		}
	}
	return false, nil
}

func (f *fakeLeaveRepo) Review(ctx context.Context, id string, status leave.Status, reviewedBy string, reviewedAt time.Time, notes *string) (leave.LeaveRequest, error) {
	r, ok := f.requests[id]
	if !ok {
		return leave.LeaveRequest{}, leave.ErrLeaveRequestNotFound
	}
	if r.Status != leave.StatusPending {
		return leave.LeaveRequest{}, leave.ErrNotPending
	}
	r.Status = status
	r.ReviewedBy = &reviewedBy
	r.ReviewedAt = &reviewedAt
	r.AdminNotes = notes
	f.requests[id] = r
	return r, nil
}

func (f *fakeLeaveRepo) DeletePending(ctx context.Context, id string) error {
	r, ok := f.requests[id]
	if !ok || r.Status != leave.StatusPending {
		return leave.ErrNotPending
	}
	delete(f.requests, id)
	return nil
}

func (f *fakeLeaveRepo) List(ctx context.Context, filter leave.ListFilter) ([]leave.LeaveRequest, int64, error) {
	var out []leave.LeaveRequest
	for _, r := range f.requests {
		if filter.Status != nil && string(r.Status) != *filter.Status {
			continue
		}
		out = append(out, r)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].StartDate.Before(out[j].StartDate) })
	return out, int64(len(out)), nil
}

func (f *fakeLeaveRepo) CountByStatusAndType(ctx context.Context, employeeID *string) ([]leave.StatusTypeCount, error) {
	groups := map[[2]string]*leave.StatusTypeCount{}
	for _, r := range f.requests {
		if employeeID != nil && r.EmployeeID != *employeeID {
			continue
		}
		k := [2]string{string(r.Status), string(r.LeaveType)}
		g, ok := groups[k]
		if !ok {
			g = &leave.StatusTypeCount{Status: r.Status, LeaveType: r.LeaveType}
			groups[k] = g
		}
		g.Count++
		g.TotalDays += r.TotalDays
	}
	out := make([]leave.StatusTypeCount, 0, len(groups))
	for _, g := range groups {
		out = append(out, *g)
	}
	return out, nil
}

var wib = time.FixedZone("WIB", 7*60*60)

func newService(repo *fakeLeaveRepo) leave.LeaveService {
	// 2024-06-01 06:00 WIB is still 2024-05-31 in UTC
	now := time.Date(2024, 5, 31, 23, 0, 0, 0, time.UTC)
	return NewLeaveService(repo, wib, func() time.Time { return now })
}

func create(t *testing.T, svc leave.LeaveService, employeeID, start, end string) leave.LeaveResponse {
	t.Helper()
	resp, err := svc.Create(context.Background(), employeeID, leave.CreateLeaveRequest{
		LeaveType: "VACATION",
		StartDate: start,
		EndDate:   end,
		Reason:    "family trip",
	})
	require.NoError(t, err)
	return resp
}

func approve(t *testing.T, svc leave.LeaveService, id string) {
	t.Helper()
	_, err := svc.Review(context.Background(), id, adminID, leave.ReviewLeaveRequest{Status: "APPROVED"})
	require.NoError(t, err)
}

// ===== CREATE =====

func TestCreate_SingleDay(t *testing.T) {
	repo := newFakeLeaveRepo()
	resp := create(t, newService(repo), employeeA, "2024-06-10", "2024-06-10")

	assert.Equal(t, 1, resp.TotalDays)
	assert.Equal(t, "PENDING", resp.Status)
	assert.Equal(t, "VACATION", resp.LeaveType)
	assert.Len(t, repo.requests, 1)
}

func TestCreate_InclusiveDaysAcrossMonths(t *testing.T) {
	resp := create(t, newService(newFakeLeaveRepo()), employeeA, "2024-06-28", "2024-07-02")
	assert.Equal(t, 5, resp.TotalDays)
}

func TestCreate_TodayIsOfficeLocal(t *testing.T) {
	svc := newService(newFakeLeaveRepo())

	// today in the office is 2024-06-01
	create(t, svc, employeeA, "2024-06-01", "2024-06-01")

	_, err := svc.Create(context.Background(), employeeA, leave.CreateLeaveRequest{
		LeaveType: "SICK", StartDate: "2024-05-31", EndDate: "2024-06-03", Reason: "flu",
	})
	assert.ErrorIs(t, err, leave.ErrInvalidDates)
}

func TestCreate_EndBeforeStart(t *testing.T) {
	svc := newService(newFakeLeaveRepo())

	_, err := svc.Create(context.Background(), employeeA, leave.CreateLeaveRequest{
		LeaveType: "PERSONAL", StartDate: "2024-06-12", EndDate: "2024-06-10", Reason: "moving house",
	})
	assert.ErrorIs(t, err, leave.ErrInvalidDates)
	assert.ErrorIs(t, err, leave.ErrEndBeforeStart)
}

func TestCreate_Overlap(t *testing.T) {
	repo := newFakeLeaveRepo()
	svc := newService(repo)
	existing := create(t, svc, employeeA, "2024-06-10", "2024-06-12")
	approve(t, svc, existing.ID)

	_, err := svc.Create(context.Background(), employeeA, leave.CreateLeaveRequest{
		LeaveType: "VACATION", StartDate: "2024-06-12", EndDate: "2024-06-14", Reason: "shared boundary",
	})
	assert.ErrorIs(t, err, leave.ErrOverlap)

	create(t, svc, employeeA, "2024-06-13", "2024-06-15")

	// other employees are unaffected
	create(t, svc, employeeB, "2024-06-10", "2024-06-12")
}

func TestCreate_RejectedDoesNotBlock(t *testing.T) {
	svc := newService(newFakeLeaveRepo())
	existing := create(t, svc, employeeA, "2024-06-10", "2024-06-12")
	_, err := svc.Review(context.Background(), existing.ID, adminID, leave.ReviewLeaveRequest{Status: "REJECTED"})
	require.NoError(t, err)

	create(t, svc, employeeA, "2024-06-11", "2024-06-11")
}

func TestCreate_Validation(t *testing.T) {
	svc := newService(newFakeLeaveRepo())

	_, err := svc.Create(context.Background(), employeeA, leave.CreateLeaveRequest{
		LeaveType: "SABBATICAL", StartDate: "10-06-2024", EndDate: "2024-06-12",
	})
	var verrs validator.ValidationErrors
	require.ErrorAs(t, err, &verrs)
	fields := verrs.ToMap()
	assert.Contains(t, fields, "leave_type")
	assert.Contains(t, fields, "start_date")
	assert.Contains(t, fields, "reason")
	assert.NotContains(t, fields, "end_date")
}

// ===== REVIEW =====

func TestReview_SetsReviewer(t *testing.T) {
	svc := newService(newFakeLeaveRepo())
	created := create(t, svc, employeeA, "2024-06-10", "2024-06-12")

	notes := "enjoy"
	resp, err := svc.Review(context.Background(), created.ID, adminID, leave.ReviewLeaveRequest{Status: "APPROVED", AdminNotes: &notes})
	require.NoError(t, err)
	assert.Equal(t, "APPROVED", resp.Status)
	assert.Equal(t, adminID, *resp.ReviewedBy)
	assert.NotNil(t, resp.ReviewedAt)
	assert.Equal(t, "enjoy", *resp.AdminNotes)
}

func TestReview_OnlyFromPending(t *testing.T) {
	svc := newService(newFakeLeaveRepo())
	created := create(t, svc, employeeA, "2024-06-10", "2024-06-12")
	approve(t, svc, created.ID)

	_, err := svc.Review(context.Background(), created.ID, adminID, leave.ReviewLeaveRequest{Status: "REJECTED"})
	assert.ErrorIs(t, err, leave.ErrNotPending)
	var notPending leave.NotPendingError
	require.ErrorAs(t, err, &notPending)
	assert.Equal(t, leave.StatusApproved, notPending.Current)
	assert.Equal(t, "leave request has already been approved", err.Error())
}

func TestReview_InvalidStatus(t *testing.T) {
	svc := newService(newFakeLeaveRepo())
	created := create(t, svc, employeeA, "2024-06-10", "2024-06-12")

	_, err := svc.Review(context.Background(), created.ID, adminID, leave.ReviewLeaveRequest{Status: "PENDING"})
	var verrs validator.ValidationErrors
	assert.ErrorAs(t, err, &verrs)
}

func TestReview_NotFound(t *testing.T) {
	svc := newService(newFakeLeaveRepo())
	_, err := svc.Review(context.Background(), "0199a1b2-7c3d-7e4f-8a9b-000000000000", adminID, leave.ReviewLeaveRequest{Status: "APPROVED"})
	assert.ErrorIs(t, err, leave.ErrLeaveRequestNotFound)
}

// ===== DELETE =====

func TestDelete(t *testing.T) {
	repo := newFakeLeaveRepo()
	svc := newService(repo)
	created := create(t, svc, employeeA, "2024-06-10", "2024-06-12")

	assert.ErrorIs(t, svc.Delete(context.Background(), created.ID, employeeB), leave.ErrNotOwner)
	require.NoError(t, svc.Delete(context.Background(), created.ID, employeeA))
	assert.Empty(t, repo.requests)
}

func TestDelete_FailsAfterReview(t *testing.T) {
	svc := newService(newFakeLeaveRepo())
	approved := create(t, svc, employeeA, "2024-06-10", "2024-06-12")
	approve(t, svc, approved.ID)

	rejected := create(t, svc, employeeA, "2024-06-20", "2024-06-21")
	_, err := svc.Review(context.Background(), rejected.ID, adminID, leave.ReviewLeaveRequest{Status: "REJECTED"})
	require.NoError(t, err)

	assert.ErrorIs(t, svc.Delete(context.Background(), approved.ID, employeeA), leave.ErrNotPending)
	assert.ErrorIs(t, svc.Delete(context.Background(), rejected.ID, employeeA), leave.ErrNotPending)
}

// ===== QUERIES =====

func TestGetOwn(t *testing.T) {
	svc := newService(newFakeLeaveRepo())
	created := create(t, svc, employeeA, "2024-06-10", "2024-06-12")

	got, err := svc.GetOwn(context.Background(), created.ID, employeeA)
	require.NoError(t, err)
	assert.Equal(t, created.ID, got.ID)

	_, err = svc.GetOwn(context.Background(), created.ID, employeeB)
	assert.ErrorIs(t, err, leave.ErrNotOwner)
}

func TestList_Pagination(t *testing.T) {
	svc := newService(newFakeLeaveRepo())
	create(t, svc, employeeA, "2024-06-10", "2024-06-10")
	create(t, svc, employeeA, "2024-06-11", "2024-06-11")
	create(t, svc, employeeB, "2024-06-10", "2024-06-10")

	resp, err := svc.List(context.Background(), leave.ListFilter{Limit: 2})
	require.NoError(t, err)
	assert.Equal(t, int64(3), resp.TotalCount)
	assert.Equal(t, 2, resp.TotalPages)

	bad := "WAITING"
	_, err = svc.List(context.Background(), leave.ListFilter{Status: &bad})
	var verrs validator.ValidationErrors
	assert.ErrorAs(t, err, &verrs)
}

func TestStats(t *testing.T) {
	svc := newService(newFakeLeaveRepo())
	a1 := create(t, svc, employeeA, "2024-06-10", "2024-06-12")
	approve(t, svc, a1.ID)
	create(t, svc, employeeA, "2024-06-20", "2024-06-20")
	b1 := create(t, svc, employeeB, "2024-06-10", "2024-06-11")
	approve(t, svc, b1.ID)

	stats, err := svc.EmployeeStats(context.Background(), employeeA)
	require.NoError(t, err)
	assert.Equal(t, 1, stats.Counts.Approved)
	assert.Equal(t, 1, stats.Counts.Pending)
	assert.Equal(t, 2, stats.Counts.Total)
	assert.Equal(t, 3, stats.ApprovedTotalDays)

	global, err := svc.GlobalStats(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 3, global.Counts.Total)
	assert.Equal(t, 2, global.Counts.Approved)
	assert.Equal(t, 3, global.ByType["VACATION"])
	assert.Equal(t, 0, global.ByType["SICK"])
	assert.Equal(t, 5, global.ApprovedTotalDays)
}
