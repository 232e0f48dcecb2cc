package attendancehandler

import (
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"hrportal/internal/domain/attendance"
	"hrportal/internal/domain/core"
	"hrportal/internal/platform/storage"
	"hrportal/internal/transport/http/middleware"
	"hrportal/internal/transport/http/shared"
	"hrportal/internal/transport/http/web"
)

const employeeHome = "/employee/dashboard"

// RegisterEmployeeRoutes mounts self-service pages under /employee. The
// employee is always the one linked to the session, never a form field.
func (h *Handler) RegisterEmployeeRoutes(r chi.Router) {
	r.Get("/dashboard", h.handleEmployeeHome)
	r.Post("/attendance", h.handleSelfClock)
	r.Post("/activity", h.handleActivity)
}

type employeeHomePage struct {
	Employee    core.Employee
	Day         time.Time
	Record      *attendance.Record
	State       attendance.State
	Assignments []core.Assignment
	Activities  []core.ActivityLog
}

// self resolves the employee linked to the caller. It writes the response
// and returns false when there is none.
func (h *Handler) self(w http.ResponseWriter, r *http.Request) (core.Employee, bool) {
	identity, ok := middleware.GetIdentity(r.Context())
	if !ok {
		web.Redirect(w, r, "/auth/login")
		return core.Employee{}, false
	}
	emp, err := h.Registry.GetEmployeeByUserID(r.Context(), identity.UserID)
	if errors.Is(err, core.ErrNotFound) {
		h.Render.Error(w, r, http.StatusNotFound, "Your account is not linked to an employee record. Please contact HR.")
		return core.Employee{}, false
	}
	if err != nil {
		h.Render.Fault(w, r, err)
		return core.Employee{}, false
	}
	return emp, true
}

func (h *Handler) handleEmployeeHome(w http.ResponseWriter, r *http.Request) {
	emp, ok := h.self(w, r)
	if !ok {
		return
	}
	rec, err := h.Attendance.TodayRecord(r.Context(), emp.ID)
	if err != nil {
		h.Render.Fault(w, r, err)
		return
	}
	assignments, err := h.Registry.ListAssignments(r.Context(), core.AssignmentFilter{EmployeeID: emp.ID, ActiveOnly: true})
	if err != nil {
		h.Render.Fault(w, r, err)
		return
	}
	activities, err := h.Registry.ListActivities(r.Context(), core.ActivityFilter{EmployeeID: emp.ID, Limit: 10})
	if err != nil {
		h.Render.Fault(w, r, err)
		return
	}
	h.Render.Render(w, r, http.StatusOK, "employee_home", "My attendance", employeeHomePage{
		Employee:    emp,
		Day:         h.Attendance.Today(),
		Record:      rec,
		State:       attendance.StateOf(rec),
		Assignments: assignments,
		Activities:  activities,
	})
}

func (h *Handler) handleSelfClock(w http.ResponseWriter, r *http.Request) {
	emp, ok := h.self(w, r)
	if !ok {
		return
	}
	h.clock(w, r, emp.ID, employeeHome)
}

func (h *Handler) handleActivity(w http.ResponseWriter, r *http.Request) {
	emp, ok := h.self(w, r)
	if !ok {
		return
	}
	form, err := shared.ParseForm(r)
	if err != nil {
		web.Redirect(w, r, employeeHome, web.Warning("The activity form could not be read. Photos must be under the upload limit."))
		return
	}

	in := core.ActivityInput{
		EmployeeID:  emp.ID,
		Description: form.String("description"),
		Latitude:    form.LenientFloat("latitude"),
		Longitude:   form.LenientFloat("longitude"),
	}

	var flashes []web.Flash
	if header := form.File("photo"); header != nil && in.Description != "" {
		rel, err := h.Storage.SaveFile(storage.KindActivities, header, storage.PhotoExtensions)
		switch {
		case errors.Is(err, storage.ErrExtensionNotAllowed):
			flashes = append(flashes, web.Warning("Photo must be a JPG or PNG image; the activity was saved without it."))
		case err != nil:
			h.Render.Fault(w, r, err)
			return
		default:
			in.Photo = rel
		}
	}

	logged, err := h.Registry.RecordActivity(r.Context(), in)
	if core.IsValidation(err) {
		if in.Photo != "" {
			_ = h.Storage.Remove(in.Photo)
		}
		web.Redirect(w, r, employeeHome, web.Warning("Describe the activity before saving it."))
		return
	}
	if err != nil {
		if in.Photo != "" {
			_ = h.Storage.Remove(in.Photo)
		}
		h.Render.Fault(w, r, err)
		return
	}
	slog.Info("activity recorded", "employeeId", emp.ID, "activityId", logged.ID, "hasLocation", logged.Latitude != nil && logged.Longitude != nil)
	h.Audit.Log(r.Context(), "activity.create", "activity_log", logged.ID, nil, logged)

	flashes = append([]web.Flash{web.Success("Activity recorded.")}, flashes...)
	web.Redirect(w, r, employeeHome, flashes...)
}
