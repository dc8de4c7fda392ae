package attendance

import "context"

type AttendanceService interface {
	CheckIn(ctx context.Context, employeeID, sourceIP string, req CheckInRequest) (CheckInResponse, error)
	CheckOut(ctx context.Context, employeeID, sourceIP string, req CheckOutRequest) (CheckOutResponse, error)

	// Administrative overrides skip the network and window checks.
	AdminCheckIn(ctx context.Context, adminID, employeeID string) (CheckInResponse, error)
	AdminCheckOut(ctx context.Context, adminID, employeeID string) (CheckOutResponse, error)

	MarkAbsent(ctx context.Context, employeeID string, req MarkAbsentRequest) (RecordResponse, error)
	UpdateStatus(ctx context.Context, recordID string, req UpdateStatusRequest) (RecordResponse, error)

	GetToday(ctx context.Context, employeeID string) (TodayResponse, error)
	History(ctx context.Context, employeeID string, filter HistoryFilter) (ListRecordResponse, error)
}
