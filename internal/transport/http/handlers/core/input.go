package corehandler

import (
	"net/http"

	"hrportal/internal/domain/core"
	"hrportal/internal/transport/http/shared"
	"hrportal/internal/transport/http/web"
)

// Intake defaults for employees registered before placement.
const (
	intakePosition = "Baru"
	intakeJobType  = "Belum Ditentukan"
	intakeName     = "Tanpa Nama"
)

type inputPage struct {
	Detail        core.PersonalDetail
	DocumentTypes []string
}

func (h *Handler) handleInputPage(w http.ResponseWriter, r *http.Request) {
	h.Render.Render(w, r, http.StatusOK, "employee_input", "Employee intake", inputPage{DocumentTypes: core.DocumentTypes})
}

// handleInput registers an employee without a login from the intake form.
// Fields that fail to convert are skipped with a warning so the rest of the
// record is not lost.
func (h *Handler) handleInput(w http.ResponseWriter, r *http.Request) {
	back := employeesPath + "/input"
	form, err := shared.ParseForm(r)
	if err != nil {
		web.Redirect(w, r, back, web.Warning("The form could not be read. Uploads must stay under the size limit."))
		return
	}

	name := form.String("full_name")
	if name == "" {
		name = intakeName
	}
	emp, err := h.Registry.CreateEmployee(r.Context(), core.EmployeeInput{
		Name:     name,
		Position: intakePosition,
		JobType:  intakeJobType,
		JoinDate: h.Attendance.Today(),
		Status:   core.EmployeeStatusActive,
	}, nil)
	if err != nil {
		h.fail(w, r, err, back)
		return
	}
	h.Audit.Log(r.Context(), "employee.create", "employee", emp.ID, nil, emp)

	var flashes []web.Flash
	detail := readPersonal(form, emp.ID)
	if form.HasIssues() {
		flashes = append(flashes, web.Warning("Some fields were skipped: "+form.Message()+"."))
	}
	if err := h.Registry.SavePersonalDetail(r.Context(), detail); err != nil {
		if !core.IsValidation(err) {
			h.Render.Fault(w, r, err)
			return
		}
		flashes = append(flashes, web.Warning("Personal data was not saved: "+ProblemMessage(err)))
	}

	warnings, err := h.saveDocuments(r, form, emp.ID)
	if err != nil {
		h.fail(w, r, err, back)
		return
	}
	flashes = append(flashes, warnings...)

	flashes = append([]web.Flash{web.Success("Employee " + emp.Name + " registered.")}, flashes...)
	web.Redirect(w, r, employeesPath+"/"+emp.ID+"/personal", flashes...)
}
