package corehandler

import (
	"errors"
	"log/slog"
	"mime/multipart"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"hrportal/internal/domain/attendance"
	"hrportal/internal/domain/audit"
	"hrportal/internal/domain/core"
	"hrportal/internal/platform/storage"
	"hrportal/internal/transport/http/web"
)

type Handler struct {
	Registry   *core.Service
	Attendance *attendance.Service
	Storage    *storage.Local
	Audit      *audit.Service
	Render     *web.Renderer
}

func NewHandler(registry *core.Service, attendanceSvc *attendance.Service, files *storage.Local, auditSvc *audit.Service, rd *web.Renderer) *Handler {
	return &Handler{Registry: registry, Attendance: attendanceSvc, Storage: files, Audit: auditSvc, Render: rd}
}

// RegisterRoutes mounts the registry pages under /hr.
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Get("/employees", h.handleListEmployees)
	r.Post("/employees", h.handleCreateEmployee)
	r.Get("/employees/{employeeID}", h.handleEmployeeDetail)
	r.Get("/employees/{employeeID}/edit", h.handleEditEmployeePage)
	r.Post("/employees/{employeeID}/edit", h.handleUpdateEmployee)
	r.Post("/employees/{employeeID}/delete", h.handleDeleteEmployee)
	r.Get("/employees/{employeeID}/personal", h.handlePersonalPage)
	r.Post("/employees/{employeeID}/personal", h.handleSavePersonal)
	r.Post("/employees/{employeeID}/documents/{documentID}/delete", h.handleDeleteDocument)
	r.Get("/employees/{employeeID}/pdf", h.handleProfilePDF)

	r.Get("/clients", h.handleListClients)
	r.Post("/clients", h.handleCreateClient)
	r.Post("/clients/{clientID}/delete", h.handleDeleteClient)
	r.Get("/clients/{clientID}/contracts", h.handleContracts)
	r.Post("/clients/{clientID}/contracts", h.handleCreateContract)
	r.Post("/clients/{clientID}/contracts/{contractID}/end", h.handleEndContract)
}

// RegisterInputRoutes mounts the account-less intake form.
func (h *Handler) RegisterInputRoutes(r chi.Router) {
	r.Get("/employees/input", h.handleInputPage)
	r.Post("/employees/input", h.handleInput)
}

// fail answers a registry error: not found pages for missing rows, a flash
// for input problems, the generic fault page for everything else.
func (h *Handler) fail(w http.ResponseWriter, r *http.Request, err error, back string) {
	switch {
	case errors.Is(err, core.ErrNotFound):
		h.Render.NotFound(w, r)
	case core.IsValidation(err):
		web.Redirect(w, r, back, web.Warning(ProblemMessage(err)))
	default:
		h.Render.Fault(w, r, err)
	}
}

// ProblemMessage words a validation error for a flash message.
func ProblemMessage(err error) string {
	var verr *core.ValidationError
	switch {
	case errors.As(err, &verr):
		field := strings.ReplaceAll(verr.Field, "_", " ")
		if field == "" {
			return verr.Reason + "."
		}
		return strings.ToUpper(field[:1]) + field[1:] + " " + verr.Reason + "."
	case errors.Is(err, core.ErrUsernameTaken):
		return "That username is already taken. Use a different name."
	case errors.Is(err, core.ErrActiveAssignmentExists):
		return "This employee already has an active assignment."
	case errors.Is(err, core.ErrUnknownClient):
		return "The selected client no longer exists."
	default:
		return "The request could not be completed."
	}
}

// storeUpload saves an optional upload. A rejected extension yields a
// warning and an empty path; other storage errors are returned.
func (h *Handler) storeUpload(header *multipart.FileHeader, kind string, allowed []string, label string) (string, *web.Flash, error) {
	if header == nil {
		return "", nil, nil
	}
	rel, err := h.Storage.SaveFile(kind, header, allowed)
	if errors.Is(err, storage.ErrExtensionNotAllowed) {
		flash := web.Warning(label + " was not saved: allowed formats are " + strings.Join(allowed, ", ") + ".")
		return "", &flash, nil
	}
	if err != nil {
		return "", nil, err
	}
	return rel, nil, nil
}

func (h *Handler) removeFiles(files []string) {
	for _, rel := range files {
		if err := h.Storage.Remove(rel); err != nil {
			slog.Warn("remove stored file failed", "path", rel, "err", err)
		}
	}
}
