package attendancehandler

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"hrportal/internal/domain/attendance"
	"hrportal/internal/domain/audit"
	"hrportal/internal/domain/core"
	"hrportal/internal/platform/storage"
	"hrportal/internal/transport/http/middleware"
	"hrportal/internal/transport/http/shared"
	"hrportal/internal/transport/http/web"
)

type Handler struct {
	Attendance *attendance.Service
	Registry   *core.Service
	Storage    *storage.Local
	Audit      *audit.Service
	Render     *web.Renderer
}

func NewHandler(attendanceSvc *attendance.Service, registry *core.Service, files *storage.Local, auditSvc *audit.Service, rd *web.Renderer) *Handler {
	return &Handler{Attendance: attendanceSvc, Registry: registry, Storage: files, Audit: auditSvc, Render: rd}
}

// RegisterHRRoutes mounts the HR attendance pages under /hr.
func (h *Handler) RegisterHRRoutes(r chi.Router) {
	r.Route("/attendance", func(r chi.Router) {
		r.Get("/", h.handleDashboard)
		r.Get("/export", h.handleExport)
		r.Get("/{employeeID}", h.handleClockPage)
		r.Post("/{employeeID}", h.handleHRClock)
		r.Post("/{employeeID}/status", h.handleSetStatus)
	})
}

type dayRow struct {
	Employee core.Employee
	Record   *attendance.Record
}

type dashboardPage struct {
	Day      time.Time
	Summary  attendance.DaySummary
	Rows     []dayRow
	Statuses []attendance.Status
}

func (h *Handler) handleDashboard(w http.ResponseWriter, r *http.Request) {
	form := shared.NewForm(r.URL.Query())
	day := form.OptionalDate("date")
	if form.HasIssues() || day.IsZero() {
		day = h.Attendance.Today()
	}

	summary, records, err := h.Attendance.Summary(r.Context(), day)
	if err != nil {
		h.Render.Fault(w, r, err)
		return
	}
	employees, err := h.Registry.ListEmployees(r.Context(), core.EmployeeStatusActive)
	if err != nil {
		h.Render.Fault(w, r, err)
		return
	}

	h.Render.Render(w, r, http.StatusOK, "attendance_dashboard", "Attendance", dashboardPage{
		Day:      day,
		Summary:  summary,
		Rows:     joinRecords(employees, records),
		Statuses: attendance.Statuses,
	})
}

// joinRecords pairs every employee with their record for the day, if any.
func joinRecords(employees []core.Employee, records []attendance.Record) []dayRow {
	byEmployee := make(map[string]*attendance.Record, len(records))
	for i := range records {
		byEmployee[records[i].EmployeeID] = &records[i]
	}
	rows := make([]dayRow, 0, len(employees))
	for _, emp := range employees {
		rows = append(rows, dayRow{Employee: emp, Record: byEmployee[emp.ID]})
	}
	return rows
}

func (h *Handler) handleExport(w http.ResponseWriter, r *http.Request) {
	form := shared.NewForm(r.URL.Query())
	from := form.OptionalDate("start_date")
	to := form.OptionalDate("end_date")
	if from.IsZero() {
		from = h.Attendance.Today()
	}
	if to.IsZero() {
		to = from
	}
	form.DateOrder("start_date", from, "end_date", to)
	if form.HasIssues() {
		web.Redirect(w, r, "/hr/attendance", web.Warning("Export range is invalid: "+form.Message()+"."))
		return
	}

	records, err := h.Attendance.Range(r.Context(), from, to)
	if err != nil {
		h.Render.Fault(w, r, err)
		return
	}
	filename := fmt.Sprintf("attendance_%s_%s.csv", from.Format("20060102"), to.Format("20060102"))
	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", `attachment; filename="`+filename+`"`)
	if err := attendance.WriteCSV(w, records, h.Attendance.Location()); err != nil {
		slog.Error("attendance export failed", "err", err, "requestId", middleware.GetRequestID(r.Context()))
	}
}

type clockPage struct {
	Employee core.Employee
	Day      time.Time
	Record   *attendance.Record
	State    attendance.State
	Statuses []attendance.Status
}

func (h *Handler) handleClockPage(w http.ResponseWriter, r *http.Request) {
	emp, err := h.Registry.GetEmployee(r.Context(), chi.URLParam(r, "employeeID"))
	if errors.Is(err, core.ErrNotFound) {
		h.Render.NotFound(w, r)
		return
	}
	if err != nil {
		h.Render.Fault(w, r, err)
		return
	}
	rec, err := h.Attendance.TodayRecord(r.Context(), emp.ID)
	if err != nil {
		h.Render.Fault(w, r, err)
		return
	}
	h.Render.Render(w, r, http.StatusOK, "attendance_clock", "Clock "+emp.Name, clockPage{
		Employee: emp,
		Day:      h.Attendance.Today(),
		Record:   rec,
		State:    attendance.StateOf(rec),
		Statuses: attendance.Statuses,
	})
}

func (h *Handler) handleHRClock(w http.ResponseWriter, r *http.Request) {
	employeeID := chi.URLParam(r, "employeeID")
	back := "/hr/attendance/" + employeeID
	h.clock(w, r, employeeID, back)
}

// clock applies the submitted action and answers with a redirect to back.
func (h *Handler) clock(w http.ResponseWriter, r *http.Request, employeeID, back string) {
	form, err := shared.ParseForm(r)
	if err != nil {
		h.Render.Error(w, r, http.StatusBadRequest, "The form could not be read.")
		return
	}
	action, err := attendance.ParseAction(form.String("action"))
	if err != nil {
		web.Redirect(w, r, back, web.Warning("Choose clock in or clock out."))
		return
	}

	result, err := h.Attendance.Clock(r.Context(), employeeID, action)
	if errors.Is(err, attendance.ErrUnknownEmployee) {
		h.Render.NotFound(w, r)
		return
	}
	if err != nil {
		h.Render.Fault(w, r, err)
		return
	}
	if result.Outcome.Applied() {
		h.Audit.Log(r.Context(), "attendance."+string(action), "attendance", result.Record.ID, nil, result.Record)
	}
	web.Redirect(w, r, back, ClockFlash(result, h.Attendance.Location()))
}

// ClockFlash words the outcome of a clock action for the user.
func ClockFlash(result attendance.Result, loc *time.Location) web.Flash {
	at := func(t *time.Time) string {
		if t == nil {
			return "-"
		}
		return t.In(loc).Format("15:04")
	}
	rec := result.Record
	switch result.Outcome {
	case attendance.OutcomeClockedIn:
		return web.Success("Clocked in at " + at(rec.CheckIn) + ".")
	case attendance.OutcomeAlreadyClockedIn:
		return web.Warning("You already clocked in today at " + at(rec.CheckIn) + ".")
	case attendance.OutcomeClockedOut:
		if rec.CheckIn == nil {
			return web.Warning("Clocked out at " + at(rec.CheckOut) + " without a clock-in for today.")
		}
		return web.Success("Clocked out at " + at(rec.CheckOut) + ".")
	default:
		return web.Warning("You already clocked out today at " + at(rec.CheckOut) + ".")
	}
}

func (h *Handler) handleSetStatus(w http.ResponseWriter, r *http.Request) {
	employeeID := chi.URLParam(r, "employeeID")
	form, err := shared.ParseForm(r)
	if err != nil {
		h.Render.Error(w, r, http.StatusBadRequest, "The form could not be read.")
		return
	}
	day := form.OptionalDate("date")
	if day.IsZero() {
		day = h.Attendance.Today()
	}
	back := "/hr/attendance?date=" + day.Format("2006-01-02")
	status, ok := attendance.ParseStatus(form.String("status"))
	overtime := form.Decimal("overtime_hours")
	if form.HasIssues() {
		web.Redirect(w, r, back, web.Warning(form.Message()+"."))
		return
	}
	if !ok {
		web.Redirect(w, r, back, web.Warning("Choose a valid attendance status."))
		return
	}

	rec, err := h.Attendance.SetStatus(r.Context(), employeeID, day, status, overtime)
	switch {
	case errors.Is(err, attendance.ErrInvalidOvertime):
		web.Redirect(w, r, back, web.Warning("Overtime must be between 0 and 24 hours."))
		return
	case errors.Is(err, attendance.ErrInvalidStatus):
		web.Redirect(w, r, back, web.Warning("Choose a valid attendance status."))
		return
	case errors.Is(err, attendance.ErrUnknownEmployee):
		h.Render.NotFound(w, r)
		return
	case err != nil:
		h.Render.Fault(w, r, err)
		return
	}
	h.Audit.Log(r.Context(), "attendance.set_status", "attendance", rec.ID, nil, rec)
	web.Redirect(w, r, back, web.Success("Attendance updated."))
}
