package reportshandler

import (
	"context"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"hrportal/internal/domain/attendance"
	"hrportal/internal/domain/auth"
	"hrportal/internal/domain/core"
	"hrportal/internal/domain/reports"
	"hrportal/internal/platform/metrics"
	"hrportal/internal/transport/http/api"
	"hrportal/internal/transport/http/middleware"
	"hrportal/internal/transport/http/shared"
	"hrportal/internal/transport/http/web"
)

type AccountLister interface {
	ListAccounts(ctx context.Context) ([]auth.Account, error)
}

type Handler struct {
	Reports  *reports.Service
	Accounts AccountLister
	Metrics  *metrics.Collector
	Render   *web.Renderer
}

func NewHandler(reportsSvc *reports.Service, accounts AccountLister, collector *metrics.Collector, rd *web.Renderer) *Handler {
	return &Handler{Reports: reportsSvc, Accounts: accounts, Metrics: collector, Render: rd}
}

func (h *Handler) RegisterHRRoutes(r chi.Router) {
	r.Get("/dashboard", h.handleHRDashboard)
	r.Get("/operation", h.handleOperation)
	r.Get("/operation/{employeeID}", h.handleOperationDetail)
}

func (h *Handler) RegisterAdminRoutes(r chi.Router) {
	r.Get("/dashboard", h.handleAdminDashboard)
	if h.Metrics != nil {
		r.Get("/metrics", h.handleMetrics)
	}
}

func (h *Handler) RegisterClientRoutes(r chi.Router) {
	r.Get("/dashboard", h.handleClientDashboard)
}

func (h *Handler) handleHRDashboard(w http.ResponseWriter, r *http.Request) {
	dashboard, err := h.Reports.HRDashboard(r.Context())
	if err != nil {
		h.Render.Fault(w, r, err)
		return
	}
	h.Render.Render(w, r, http.StatusOK, "hr_dashboard", "HR dashboard", dashboard)
}

type adminPage struct {
	reports.HRDashboard
	Accounts []auth.Account
}

func (h *Handler) handleAdminDashboard(w http.ResponseWriter, r *http.Request) {
	dashboard, err := h.Reports.HRDashboard(r.Context())
	if err != nil {
		h.Render.Fault(w, r, err)
		return
	}
	accounts, err := h.Accounts.ListAccounts(r.Context())
	if err != nil {
		h.Render.Fault(w, r, err)
		return
	}
	h.Render.Render(w, r, http.StatusOK, "admin_dashboard", "Admin dashboard", adminPage{HRDashboard: dashboard, Accounts: accounts})
}

func (h *Handler) handleMetrics(w http.ResponseWriter, r *http.Request) {
	api.Success(w, h.Metrics.Snapshot(), middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleOperation(w http.ResponseWriter, r *http.Request) {
	board, err := h.Reports.Operation(r.Context())
	if err != nil {
		h.Render.Fault(w, r, err)
		return
	}
	h.Render.Render(w, r, http.StatusOK, "operation", "Operations", board)
}

func (h *Handler) handleOperationDetail(w http.ResponseWriter, r *http.Request) {
	form := shared.NewForm(r.URL.Query())
	from := form.OptionalDate("start_date")
	to := form.OptionalDate("end_date")
	form.DateOrder("start_date", from, "end_date", to)
	if form.HasIssues() {
		web.Redirect(w, r, r.URL.Path, web.Warning("Date filter ignored: "+form.Message()+"."))
		return
	}

	history, err := h.Reports.EmployeeHistory(r.Context(), chi.URLParam(r, "employeeID"), from, to)
	if errors.Is(err, core.ErrNotFound) {
		h.Render.NotFound(w, r)
		return
	}
	if err != nil {
		h.Render.Fault(w, r, err)
		return
	}
	h.Render.Render(w, r, http.StatusOK, "operation_detail", "History: "+history.Employee.Name, history)
}

type clientRow struct {
	Assignment core.Assignment
	Record     *attendance.Record
}

type clientPage struct {
	reports.ClientDashboard
	Rows []clientRow
}

func (h *Handler) handleClientDashboard(w http.ResponseWriter, r *http.Request) {
	identity, ok := middleware.GetIdentity(r.Context())
	if !ok {
		web.Redirect(w, r, auth.LoginPath)
		return
	}
	dashboard, err := h.Reports.ClientDashboard(r.Context(), identity.UserID)
	if errors.Is(err, core.ErrNotFound) {
		h.Render.Error(w, r, http.StatusNotFound, "Your account is not linked to a client company. Please contact HR.")
		return
	}
	if err != nil {
		h.Render.Fault(w, r, err)
		return
	}
	h.Render.Render(w, r, http.StatusOK, "client_dashboard", dashboard.Client.Name, clientPage{
		ClientDashboard: dashboard,
		Rows:            clientRows(dashboard.Assignments, dashboard.Attendance),
	})
}

// clientRows pairs each placed employee with their attendance record.
func clientRows(assignments []core.Assignment, records []attendance.Record) []clientRow {
	byEmployee := make(map[string]*attendance.Record, len(records))
	for i := range records {
		byEmployee[records[i].EmployeeID] = &records[i]
	}
	rows := make([]clientRow, 0, len(assignments))
	for _, a := range assignments {
		rows = append(rows, clientRow{Assignment: a, Record: byEmployee[a.EmployeeID]})
	}
	return rows
}
