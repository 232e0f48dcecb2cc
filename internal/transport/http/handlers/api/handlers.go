package apihandler

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"hrportal/internal/domain/attendance"
	"hrportal/internal/domain/audit"
	"hrportal/internal/domain/auth"
	"hrportal/internal/domain/core"
	"hrportal/internal/transport/http/api"
	"hrportal/internal/transport/http/middleware"
)

// Handler is the JSON mirror of the employee self-service pages.
type Handler struct {
	Attendance *attendance.Service
	Registry   *core.Service
	Audit      *audit.Service
}

func NewHandler(attendanceSvc *attendance.Service, registry *core.Service, auditSvc *audit.Service) *Handler {
	return &Handler{Attendance: attendanceSvc, Registry: registry, Audit: auditSvc}
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Get("/me", h.handleMe)
	r.Get("/attendance/today", h.handleToday)
	r.Post("/attendance", h.handleClock)
}

type clockRequest struct {
	Action string `json:"action"`
}

type meResponse struct {
	UserID         string               `json:"userId"`
	Username       string               `json:"username"`
	Role           auth.Role            `json:"role"`
	Employee       core.Employee        `json:"employee"`
	PersonalDetail *core.PersonalDetail `json:"personalDetail,omitempty"`
}

// self resolves the employee linked to the bearer of the request.
func (h *Handler) self(w http.ResponseWriter, r *http.Request) (auth.Identity, core.Employee, bool) {
	requestID := middleware.GetRequestID(r.Context())
	identity, ok := middleware.GetIdentity(r.Context())
	if !ok {
		api.Fail(w, http.StatusUnauthorized, "unauthorized", "authentication required", requestID)
		return auth.Identity{}, core.Employee{}, false
	}
	emp, err := h.Registry.GetEmployeeByUserID(r.Context(), identity.UserID)
	if errors.Is(err, core.ErrNotFound) {
		api.Fail(w, http.StatusNotFound, "not_found", "account is not linked to an employee", requestID)
		return identity, core.Employee{}, false
	}
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "internal_error", "failed to load employee", requestID)
		return identity, core.Employee{}, false
	}
	return identity, emp, true
}

func (h *Handler) handleMe(w http.ResponseWriter, r *http.Request) {
	identity, emp, ok := h.self(w, r)
	if !ok {
		return
	}
	resp := meResponse{UserID: identity.UserID, Username: identity.Username, Role: identity.Role, Employee: emp}

	detail, found, err := h.Registry.PersonalDetail(r.Context(), emp.ID)
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "internal_error", "failed to load personal detail", middleware.GetRequestID(r.Context()))
		return
	}
	if found {
		core.RedactPersonalDetail(&detail, identity, true)
		resp.PersonalDetail = &detail
	}
	api.Success(w, resp, middleware.GetRequestID(r.Context()))
}

type todayResponse struct {
	Date   string             `json:"date"`
	State  attendance.State   `json:"state"`
	Record *attendance.Record `json:"record,omitempty"`
}

func (h *Handler) handleToday(w http.ResponseWriter, r *http.Request) {
	_, emp, ok := h.self(w, r)
	if !ok {
		return
	}
	rec, err := h.Attendance.TodayRecord(r.Context(), emp.ID)
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "internal_error", "failed to load attendance", middleware.GetRequestID(r.Context()))
		return
	}
	api.Success(w, todayResponse{
		Date:   h.Attendance.Today().Format("2006-01-02"),
		State:  attendance.StateOf(rec),
		Record: rec,
	}, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleClock(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())
	var payload clockRequest
	if err := api.Decode(r, &payload); err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_payload", "invalid request payload", requestID)
		return
	}
	action, err := attendance.ParseAction(payload.Action)
	if err != nil {
		api.FailWithDetails(w, http.StatusBadRequest, "invalid_action", "action must be clock_in or clock_out",
			map[string]any{"allowed": []attendance.Action{attendance.ActionClockIn, attendance.ActionClockOut}}, requestID)
		return
	}
	_, emp, ok := h.self(w, r)
	if !ok {
		return
	}

	result, err := h.Attendance.Clock(r.Context(), emp.ID, action)
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "internal_error", "failed to record attendance", requestID)
		return
	}
	if result.Outcome.Applied() {
		h.Audit.Log(r.Context(), "attendance."+string(action), "attendance", result.Record.ID, nil, result.Record)
	}
	api.Success(w, result, requestID)
}
