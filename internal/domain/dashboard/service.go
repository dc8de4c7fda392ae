package dashboard

import "context"

type DashboardService interface {
	WhoIsInOffice(ctx context.Context) (WhoIsInOfficeResponse, error)
	TodaySummary(ctx context.Context) (TodaySummaryResponse, error)
	RangeStatistics(ctx context.Context, filter RangeFilter) (RangeStatisticsResponse, error)
	EmployeeStats(ctx context.Context, employeeID string, filter RangeFilter) (EmployeeStatsResponse, error)
}
