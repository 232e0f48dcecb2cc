package corehandler

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"hrportal/internal/domain/attendance"
	"hrportal/internal/domain/core"
	"hrportal/internal/platform/storage"
	"hrportal/internal/transport/http/shared"
	"hrportal/internal/transport/http/web"
)

const employeesPath = "/hr/employees"

// employeeForm carries submitted or stored values back into the form.
type employeeForm struct {
	Name     string
	Position string
	JobType  string
	JoinDate time.Time
	EndDate  *time.Time
	Status   string
	ClientID string
	Location string
	Shift    string
}

type employeesPage struct {
	Status    string
	Statuses  []string
	Employees []core.Employee
	Clients   []core.Client
	Form      employeeForm
}

func (h *Handler) handleListEmployees(w http.ResponseWriter, r *http.Request) {
	status := r.URL.Query().Get("status")
	employees, err := h.Registry.ListEmployees(r.Context(), status)
	if err != nil {
		h.Render.Fault(w, r, err)
		return
	}
	clients, err := h.Registry.ListClients(r.Context())
	if err != nil {
		h.Render.Fault(w, r, err)
		return
	}
	h.Render.Render(w, r, http.StatusOK, "employees", "Employees", employeesPage{
		Status:    status,
		Statuses:  core.EmployeeStatuses,
		Employees: employees,
		Clients:   clients,
		Form:      employeeForm{JoinDate: h.Attendance.Today(), Status: core.EmployeeStatusActive},
	})
}

// readEmployee maps the shared employee form fields. The assignment is nil
// when no client was chosen.
func readEmployee(form *shared.Form) (core.EmployeeInput, *core.AssignmentInput) {
	in := core.EmployeeInput{
		Name:     form.RequiredString("name"),
		Position: form.String("position"),
		JobType:  form.String("job_type"),
		JoinDate: form.RequiredDate("join_date"),
		EndDate:  form.OptionalDatePtr("end_date"),
		Status:   form.OneOf("status", core.EmployeeStatuses),
	}
	if in.EndDate != nil {
		form.DateOrder("join_date", in.JoinDate, "end_date", *in.EndDate)
	}
	clientID := form.String("client_id")
	if clientID == "" {
		return in, nil
	}
	return in, &core.AssignmentInput{
		ClientID:  clientID,
		Location:  form.String("location"),
		Shift:     form.String("shift"),
		StartDate: form.OptionalDate("assignment_start"),
	}
}

func (h *Handler) handleCreateEmployee(w http.ResponseWriter, r *http.Request) {
	form, err := shared.ParseForm(r)
	if err != nil {
		web.Redirect(w, r, employeesPath, web.Warning("The form could not be read. Uploads must stay under the size limit."))
		return
	}
	in, assignment := readEmployee(form)
	if form.HasIssues() {
		web.Redirect(w, r, employeesPath, web.Warning("Please fix: "+form.Message()+"."))
		return
	}

	photo, warning, err := h.storeUpload(form.File("photo"), storage.KindPhotos, storage.PhotoExtensions, "Photo")
	if err != nil {
		h.Render.Fault(w, r, err)
		return
	}
	in.Photo = photo

	emp, err := h.Registry.CreateEmployeeWithAccount(r.Context(), in, assignment)
	if err != nil {
		h.removeFiles([]string{photo})
		h.fail(w, r, err, employeesPath)
		return
	}
	h.Audit.Log(r.Context(), "employee.create", "employee", emp.ID, nil, emp)

	flashes := []web.Flash{web.Success("Employee " + emp.Name + " created. Login username: " + emp.Username + ".")}
	if warning != nil {
		flashes = append(flashes, *warning)
	}
	web.Redirect(w, r, employeesPath, flashes...)
}

type employeeEditPage struct {
	Employee   core.Employee
	Form       employeeForm
	Statuses   []string
	Clients    []core.Client
	Assignment *core.Assignment
}

func (h *Handler) handleEditEmployeePage(w http.ResponseWriter, r *http.Request) {
	emp, err := h.Registry.GetEmployee(r.Context(), chi.URLParam(r, "employeeID"))
	if err != nil {
		h.fail(w, r, err, employeesPath)
		return
	}
	clients, err := h.Registry.ListClients(r.Context())
	if err != nil {
		h.Render.Fault(w, r, err)
		return
	}
	active, err := h.Registry.ListAssignments(r.Context(), core.AssignmentFilter{EmployeeID: emp.ID, ActiveOnly: true})
	if err != nil {
		h.Render.Fault(w, r, err)
		return
	}
	page := employeeEditPage{
		Employee: emp,
		Statuses: core.EmployeeStatuses,
		Clients:  clients,
		Form: employeeForm{
			Name:     emp.Name,
			Position: emp.Position,
			JobType:  emp.JobType,
			JoinDate: emp.JoinDate,
			EndDate:  emp.EndDate,
			Status:   emp.Status,
			ClientID: emp.ClientID,
		},
	}
	if len(active) > 0 {
		page.Assignment = &active[0]
		page.Form.Location = active[0].Location
		page.Form.Shift = active[0].Shift
	}
	h.Render.Render(w, r, http.StatusOK, "employee_form", "Edit "+emp.Name, page)
}

func (h *Handler) handleUpdateEmployee(w http.ResponseWriter, r *http.Request) {
	employeeID := chi.URLParam(r, "employeeID")
	back := employeesPath + "/" + employeeID + "/edit"

	before, err := h.Registry.GetEmployee(r.Context(), employeeID)
	if err != nil {
		h.fail(w, r, err, employeesPath)
		return
	}
	form, err := shared.ParseForm(r)
	if err != nil {
		web.Redirect(w, r, back, web.Warning("The form could not be read. Uploads must stay under the size limit."))
		return
	}
	in, assignment := readEmployee(form)
	if form.HasIssues() {
		web.Redirect(w, r, back, web.Warning("Please fix: "+form.Message()+"."))
		return
	}

	photo, warning, err := h.storeUpload(form.File("photo"), storage.KindPhotos, storage.PhotoExtensions, "Photo")
	if err != nil {
		h.Render.Fault(w, r, err)
		return
	}
	in.Photo = photo

	emp, err := h.Registry.UpdateEmployee(r.Context(), employeeID, in)
	if err != nil {
		h.removeFiles([]string{photo})
		h.fail(w, r, err, back)
		return
	}
	if photo != "" && before.Photo != "" && before.Photo != photo {
		h.removeFiles([]string{before.Photo})
	}
	if err := h.Registry.SetClient(r.Context(), employeeID, assignment); err != nil {
		h.fail(w, r, err, back)
		return
	}
	h.Audit.Log(r.Context(), "employee.update", "employee", emp.ID, before, emp)

	flashes := []web.Flash{web.Success("Employee " + emp.Name + " updated.")}
	if warning != nil {
		flashes = append(flashes, *warning)
	}
	web.Redirect(w, r, employeesPath+"/"+employeeID, flashes...)
}

func (h *Handler) handleDeleteEmployee(w http.ResponseWriter, r *http.Request) {
	emp, files, err := h.Registry.DeleteEmployee(r.Context(), chi.URLParam(r, "employeeID"))
	if err != nil {
		h.fail(w, r, err, employeesPath)
		return
	}
	h.removeFiles(files)
	h.Audit.Log(r.Context(), "employee.delete", "employee", emp.ID, emp, nil)
	web.Redirect(w, r, employeesPath, web.Success("Employee "+emp.Name+" and their login were deleted."))
}

type employeeDetailPage struct {
	Employee    core.Employee
	Assignments []core.Assignment
	Today       *attendance.Record
	Attendance  []attendance.Record
	Activities  []core.ActivityLog
	Documents   []core.Document
}

func (h *Handler) handleEmployeeDetail(w http.ResponseWriter, r *http.Request) {
	emp, err := h.Registry.GetEmployee(r.Context(), chi.URLParam(r, "employeeID"))
	if err != nil {
		h.fail(w, r, err, employeesPath)
		return
	}
	page := employeeDetailPage{Employee: emp}
	if page.Assignments, err = h.Registry.ListAssignments(r.Context(), core.AssignmentFilter{EmployeeID: emp.ID}); err != nil {
		h.Render.Fault(w, r, err)
		return
	}
	if page.Today, err = h.Attendance.TodayRecord(r.Context(), emp.ID); err != nil {
		h.Render.Fault(w, r, err)
		return
	}
	if page.Attendance, err = h.Attendance.History(r.Context(), emp.ID, time.Time{}, time.Time{}); err != nil {
		h.Render.Fault(w, r, err)
		return
	}
	if page.Activities, err = h.Registry.ListActivities(r.Context(), core.ActivityFilter{EmployeeID: emp.ID, Limit: 20}); err != nil {
		h.Render.Fault(w, r, err)
		return
	}
	if page.Documents, err = h.Registry.ListDocuments(r.Context(), emp.ID); err != nil {
		h.Render.Fault(w, r, err)
		return
	}
	h.Render.Render(w, r, http.StatusOK, "employee_detail", emp.Name, page)
}
