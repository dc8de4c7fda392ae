package dashboard

import (
	"context"
	"fmt"
	"math"
	"sort"
	"time"

	"github.com/cmlabs-hris/presence-backend-go/internal/domain/attendance"
	"github.com/cmlabs-hris/presence-backend-go/internal/domain/dashboard"
	"github.com/cmlabs-hris/presence-backend-go/internal/domain/employee"
	"golang.org/x/sync/errgroup"
)

type DashboardServiceImpl struct {
	dashboard.DashboardRepository
	employee.EmployeeRepository
	loc *time.Location
	now func() time.Time
}

func NewDashboardService(repo dashboard.DashboardRepository, employeeRepository employee.EmployeeRepository, loc *time.Location, now func() time.Time) dashboard.DashboardService {
	if loc == nil {
		loc = time.UTC
	}
	if now == nil {
		now = time.Now
	}
	return &DashboardServiceImpl{
		DashboardRepository: repo,
		EmployeeRepository:  employeeRepository,
		loc:                 loc,
		now:                 now,
	}
}

// round2 rounds to two decimal places.
func round2(v float64) float64 {
	return math.Round(v*100) / 100
}

func (s *DashboardServiceImpl) entry(row dashboard.PresenceRow, now time.Time) dashboard.PresenceEntry {
	e := dashboard.PresenceEntry{
		RecordID:   row.Record.ID,
		EmployeeID: row.Employee.ID,
		FullName:   row.Employee.FullName,
		Email:      row.Employee.Email,
		CheckInIP:  row.Record.CheckInIP,
		Status:     string(row.Record.Status),
	}
	if row.Record.CheckInTime != nil {
		t := row.Record.CheckInTime.In(s.loc).Format(time.RFC3339)
		e.CheckInTime = &t
	}
	switch {
	case row.Record.WorkingMinutes != nil:
		e.WorkingMinutes = *row.Record.WorkingMinutes
	case row.Record.CheckInTime != nil && now.After(*row.Record.CheckInTime):
		e.WorkingMinutes = int(math.Round(now.Sub(*row.Record.CheckInTime).Minutes()))
	}
	return e
}

// WhoIsInOffice implements dashboard.DashboardService.
func (s *DashboardServiceImpl) WhoIsInOffice(ctx context.Context) (dashboard.WhoIsInOfficeResponse, error) {
	now := s.now()
	today := attendance.DayOf(now, s.loc)

	rows, err := s.DashboardRepository.ListPresenceByDate(ctx, today)
	if err != nil {
		return dashboard.WhoIsInOfficeResponse{}, fmt.Errorf("failed to list today's presence: %w", err)
	}

	var inOffice []dashboard.PresenceRow
	for _, row := range rows {
		if row.Record.State() == attendance.StateCheckedIn {
			inOffice = append(inOffice, row)
		}
	}
	sort.SliceStable(inOffice, func(i, j int) bool {
		return inOffice[i].Record.CheckInTime.Before(*inOffice[j].Record.CheckInTime)
	})

	entries := make([]dashboard.PresenceEntry, 0, len(inOffice))
	for _, row := range inOffice {
		entries = append(entries, s.entry(row, now))
	}

	return dashboard.WhoIsInOfficeResponse{
		Date:    today.Format("2006-01-02"),
		Count:   len(entries),
		Entries: entries,
	}, nil
}

// TodaySummary implements dashboard.DashboardService.
func (s *DashboardServiceImpl) TodaySummary(ctx context.Context) (dashboard.TodaySummaryResponse, error) {
	now := s.now()
	today := attendance.DayOf(now, s.loc)

	var (
		employees []employee.Employee
		rows      []dashboard.PresenceRow
	)

	g, gCtx := errgroup.WithContext(ctx)

	g.Go(func() error {
		var err error
		employees, err = s.EmployeeRepository.ListByRole(gCtx, employee.RoleEmployee)
		if err != nil {
			return fmt.Errorf("failed to list employees: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		var err error
		rows, err = s.DashboardRepository.ListPresenceByDate(gCtx, today)
		if err != nil {
			return fmt.Errorf("failed to list today's presence: %w", err)
		}
		return nil
	})

	if err := g.Wait(); err != nil {
		return dashboard.TodaySummaryResponse{}, err
	}

	byEmployee := make(map[string]dashboard.PresenceRow, len(rows))
	for _, row := range rows {
		byEmployee[row.Employee.ID] = row
	}

	summary := dashboard.TodaySummary{TotalEmployees: len(employees)}
	listing := dashboard.StatusListing{
		Present: []dashboard.PresenceEntry{},
		Late:    []dashboard.PresenceEntry{},
		HalfDay: []dashboard.PresenceEntry{},
		Absent:  []dashboard.PresenceEntry{},
	}

	for _, emp := range employees {
		row, ok := byEmployee[emp.ID]
		if !ok {
			// no record today
			summary.Absent++
			listing.Absent = append(listing.Absent, dashboard.PresenceEntry{
				EmployeeID: emp.ID,
				FullName:   emp.FullName,
				Email:      emp.Email,
				Status:     string(attendance.StatusAbsent),
			})
			continue
		}

		switch row.Record.State() {
		case attendance.StateCheckedIn:
			summary.CheckedIn++
			summary.InOffice++
		case attendance.StateCheckedOut:
			summary.CheckedIn++
			summary.CheckedOut++
		}

		entry := s.entry(row, now)
		switch {
		case row.Record.Status == attendance.StatusAbsent || row.Record.CheckInTime == nil:
			summary.Absent++
			entry.Status = string(attendance.StatusAbsent)
			listing.Absent = append(listing.Absent, entry)
		case row.Record.Status == attendance.StatusLate:
			summary.Late++
			listing.Late = append(listing.Late, entry)
		case row.Record.Status == attendance.StatusHalfDay:
			summary.HalfDay++
			listing.HalfDay = append(listing.HalfDay, entry)
		default:
			summary.Present++
			listing.Present = append(listing.Present, entry)
		}
	}

	return dashboard.TodaySummaryResponse{
		Date:     today.Format("2006-01-02"),
		Summary:  summary,
		ByStatus: listing,
	}, nil
}

// RangeStatistics implements dashboard.DashboardService.
func (s *DashboardServiceImpl) RangeStatistics(ctx context.Context, filter dashboard.RangeFilter) (dashboard.RangeStatisticsResponse, error) {
	start, end, err := filter.Validate()
	if err != nil {
		return dashboard.RangeStatisticsResponse{}, err
	}

	records, err := s.DashboardRepository.ListRecords(ctx, nil, start, end)
	if err != nil {
		return dashboard.RangeStatisticsResponse{}, fmt.Errorf("failed to list attendance records: %w", err)
	}

	resp := dashboard.RangeStatisticsResponse{
		StartDate:    filter.StartDate,
		EndDate:      filter.EndDate,
		TotalRecords: len(records),
		ByDate:       []dashboard.DayBreakdown{},
	}

	days := make(map[string]*dashboard.DayBreakdown)
	for _, rec := range records {
		resp.Counts.Add(rec.Status)

		key := rec.Date.Format("2006-01-02")
		day, ok := days[key]
		if !ok {
			day = &dashboard.DayBreakdown{Date: key}
			days[key] = day
		}
		day.Total++
		switch rec.Status {
		case attendance.StatusPresent:
			day.Present++
		case attendance.StatusLate:
			day.Late++
		case attendance.StatusAbsent:
			day.Absent++
		case attendance.StatusHalfDay:
			day.HalfDay++
		}
	}
	resp.AverageWorkingMinutes, _ = workingMinutes(records)

	for _, day := range days {
		resp.ByDate = append(resp.ByDate, *day)
	}
	// YYYY-MM-DD sorts lexically
	sort.Slice(resp.ByDate, func(i, j int) bool { return resp.ByDate[i].Date > resp.ByDate[j].Date })

	return resp, nil
}

// EmployeeStats implements dashboard.DashboardService.
func (s *DashboardServiceImpl) EmployeeStats(ctx context.Context, employeeID string, filter dashboard.RangeFilter) (dashboard.EmployeeStatsResponse, error) {
	start, end, err := filter.Validate()
	if err != nil {
		return dashboard.EmployeeStatsResponse{}, err
	}

	if _, err := s.EmployeeRepository.GetByID(ctx, employeeID); err != nil {
		return dashboard.EmployeeStatsResponse{}, err
	}

	records, err := s.DashboardRepository.ListRecords(ctx, &employeeID, start, end)
	if err != nil {
		return dashboard.EmployeeStatsResponse{}, fmt.Errorf("failed to list attendance records: %w", err)
	}

	resp := dashboard.EmployeeStatsResponse{
		EmployeeID: employeeID,
		TotalDays:  len(records),
		Records:    make([]attendance.RecordResponse, 0, len(records)),
	}
	for _, rec := range records {
		resp.Counts.Add(rec.Status)
		resp.Records = append(resp.Records, attendance.NewRecordResponse(rec, s.loc))
	}
	resp.AverageWorkingMinutes, resp.TotalWorkingMinutes = workingMinutes(records)

	if resp.TotalDays > 0 {
		attended := resp.Counts.Present + resp.Counts.Late + resp.Counts.HalfDay
		resp.AttendancePercentage = round2(float64(attended) / float64(resp.TotalDays) * 100)
	}

	return resp, nil
}

// workingMinutes averages over records with nonzero working time.
func workingMinutes(records []attendance.Record) (average float64, total int) {
	var counted int
	for _, rec := range records {
		if rec.WorkingMinutes == nil || *rec.WorkingMinutes <= 0 {
			continue
		}
		total += *rec.WorkingMinutes
		counted++
	}
	if counted == 0 {
		return 0, total
	}
	return round2(float64(total) / float64(counted)), total
}
