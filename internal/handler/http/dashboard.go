package http

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/cmlabs-hris/presence-backend-go/internal/domain/dashboard"
	"github.com/cmlabs-hris/presence-backend-go/internal/handler/http/response"
	"github.com/cmlabs-hris/presence-backend-go/internal/pkg/sse"
	"github.com/go-chi/chi/v5"
)

type DashboardHandler interface {
	Me(w http.ResponseWriter, r *http.Request)

	// Admin
	InOffice(w http.ResponseWriter, r *http.Request)
	Today(w http.ResponseWriter, r *http.Request)
	Statistics(w http.ResponseWriter, r *http.Request)
	Employee(w http.ResponseWriter, r *http.Request)
	Stream(w http.ResponseWriter, r *http.Request)
}

type dashboardHandlerImpl struct {
	dashboardService dashboard.DashboardService
	hub              *sse.Hub
	keepalive        time.Duration
}

func NewDashboardHandler(dashboardService dashboard.DashboardService, hub *sse.Hub) DashboardHandler {
	return &dashboardHandlerImpl{
		dashboardService: dashboardService,
		hub:              hub,
		keepalive:        30 * time.Second,
	}
}

func rangeFilterFromQuery(r *http.Request) dashboard.RangeFilter {
	return dashboard.RangeFilter{
		StartDate: optionalQuery(r, "start_date"),
		EndDate:   optionalQuery(r, "end_date"),
	}
}

// Me implements DashboardHandler.
func (h *dashboardHandlerImpl) Me(w http.ResponseWriter, r *http.Request) {
	principal, ok := principalOrFail(w, r)
	if !ok {
		return
	}

	result, err := h.dashboardService.EmployeeStats(r.Context(), principal.ID, rangeFilterFromQuery(r))
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

// InOffice implements DashboardHandler.
func (h *dashboardHandlerImpl) InOffice(w http.ResponseWriter, r *http.Request) {
	result, err := h.dashboardService.WhoIsInOffice(r.Context())
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

// Today implements DashboardHandler.
func (h *dashboardHandlerImpl) Today(w http.ResponseWriter, r *http.Request) {
	result, err := h.dashboardService.TodaySummary(r.Context())
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

// Statistics implements DashboardHandler.
func (h *dashboardHandlerImpl) Statistics(w http.ResponseWriter, r *http.Request) {
	result, err := h.dashboardService.RangeStatistics(r.Context(), rangeFilterFromQuery(r))
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

// Employee implements DashboardHandler.
func (h *dashboardHandlerImpl) Employee(w http.ResponseWriter, r *http.Request) {
	result, err := h.dashboardService.EmployeeStats(r.Context(), chi.URLParam(r, "employeeID"), rangeFilterFromQuery(r))
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

// Stream pushes live presence events over SSE until the client disconnects.
func (h *dashboardHandlerImpl) Stream(w http.ResponseWriter, r *http.Request) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		response.InternalServerError(w, "Streaming not supported")
		return
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.Header().Set("X-Accel-Buffering", "no")

	events, cleanup := h.hub.Subscribe(dashboard.PresenceTopic)
	defer cleanup()

	fmt.Fprintf(w, "event: connected\ndata: {\"topic\":%q}\n\n", dashboard.PresenceTopic)
	flusher.Flush()

	keepalive := time.NewTicker(h.keepalive)
	defer keepalive.Stop()

	for {
		select {
		case event, ok := <-events:
			if !ok {
				return
			}
			data, err := json.Marshal(event.Data)
			if err != nil {
				slog.Warn("Dropping unencodable presence event", "event", event.Event, "error", err)
				continue
			}
			fmt.Fprintf(w, "event: %s\ndata: %s\n\n", event.Event, data)
			flusher.Flush()

		case <-keepalive.C:
			fmt.Fprintf(w, "event: ping\ndata: {\"timestamp\":%d}\n\n", time.Now().Unix())
			flusher.Flush()

		case <-r.Context().Done():
			return
		}
	}
}
